package tui

// Palette for the liftlog screens
const (
	ColorBorder = "#3B4252"

	// Text
	ColorPrimaryText   = "#ECEFF4"
	ColorSecondaryText = "#A3ACBD"
	ColorDisabledText  = "#636B7A"
	ColorPlaceholder   = "#A3ACBD"
	ColorHelpText      = "240"

	// Accents
	ColorAccentMain   = "#EA580C" // borders, selected exercise
	ColorAccentBright = "#FB923C" // clock, cursor

	// States
	ColorError   = "#EF4444"
	ColorSuccess = "#22C55E"
	ColorWarning = "#F59E0B"
)
