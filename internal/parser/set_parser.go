package parser

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/balkashynov/liftlog/internal/models"
	"github.com/balkashynov/liftlog/internal/taxonomy"
)

// ParsedSet represents set values parsed from compact notation.
// Nil fields were not mentioned and keep whatever value they are applied over.
type ParsedSet struct {
	Count           int
	Reps            *int
	Weight          *float64
	RPE             *float64
	DurationSeconds *int
	SetType         *taxonomy.SetType
	Notes           string
	Errors          []string
}

// MaxSetCount bounds the "NxM" prefix
const MaxSetCount = 20

const kgPerPound = 0.45359237

var (
	countRegex    = regexp.MustCompile(`^(?i)(\d+)\s*[x×](.*)$`)
	weightRegex   = regexp.MustCompile(`^(?i)(\d+(?:[.,]\d+)?)(kg|lbs?)?$`)
	rpeRegex      = regexp.MustCompile(`^(?i)rpe[:=]?(\d+(?:[.,]\d+)?)?$`)
	timeTagRegex  = regexp.MustCompile(`^(?i)t[:=](\S+)$`)
	repsRegex     = regexp.MustCompile(`^(\d+)$`)
	setTypeRegex  = regexp.MustCompile(`^#([\p{L}\d_-]+)$`)
	durationRegex = regexp.MustCompile(`^(?i)(\d+h)?(\d+m)?(\d+s)?$|^\d{1,2}:\d{2}(:\d{2})?$`)
)

// ParseSetSpec extracts set values from compact notation
// Syntax: "3x10@62.5 rpe:8 #warmup felt easy"
//
//	3x10     three sets of ten reps (count defaults to 1)
//	10       ten reps
//	@62.5    weight in kg, 225lb or 225lbs is converted to kg
//	rpe:8    RPE, also rpe8 or "rpe 8"
//	5m, 1m30s, 90s, 1:30, t:300   duration
//	#warmup  set type
//
// Anything else becomes notes.
func ParseSetSpec(input string) ParsedSet {
	result := ParsedSet{Count: 1, Errors: []string{}}
	var notes []string

	tokens := strings.Fields(input)
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]

		if m := setTypeRegex.FindStringSubmatch(tok); m != nil {
			st, err := taxonomy.ParseSetType(m[1])
			if err != nil {
				result.Errors = append(result.Errors, "Invalid set type '"+m[1]+"'")
				continue
			}
			result.SetType = &st
			continue
		}

		if m := rpeRegex.FindStringSubmatch(tok); m != nil {
			raw := m[1]
			if raw == "" && i+1 < len(tokens) {
				i++
				raw = tokens[i]
			}
			rpe, err := parseDecimal(raw)
			if err != nil {
				result.Errors = append(result.Errors, "Invalid RPE '"+raw+"'")
				continue
			}
			clamped := models.ClampRPE(rpe)
			result.RPE = &clamped
			continue
		}

		if m := timeTagRegex.FindStringSubmatch(tok); m != nil {
			secs, err := ParseDuration(m[1])
			if err != nil {
				result.Errors = append(result.Errors, "Invalid duration '"+m[1]+"': "+err.Error())
				continue
			}
			result.DurationSeconds = &secs
			continue
		}

		if m := countRegex.FindStringSubmatch(tok); m != nil {
			count, _ := strconv.Atoi(m[1])
			switch {
			case count < 1:
				result.Errors = append(result.Errors, "Set count must be at least 1")
			case count > MaxSetCount:
				result.Errors = append(result.Errors, fmt.Sprintf("Set count must be at most %d", MaxSetCount))
			default:
				result.Count = count
			}
			tok = m[2]
			if tok == "" {
				continue
			}
		}

		if perf, weight, ok := strings.Cut(tok, "@"); ok {
			if weight == "" && i+1 < len(tokens) {
				i++
				weight = tokens[i]
			}
			if wm := weightRegex.FindStringSubmatch(weight); wm != nil {
				w, _ := parseDecimal(wm[1])
				if strings.HasPrefix(strings.ToLower(wm[2]), "lb") {
					w = math.Round(w*kgPerPound*100) / 100
				}
				result.Weight = &w
			} else {
				result.Errors = append(result.Errors, "Invalid weight '"+weight+"'")
			}
			tok = perf
			if tok == "" {
				continue
			}
		}

		if repsRegex.MatchString(tok) {
			reps, _ := strconv.Atoi(tok)
			result.Reps = &reps
			continue
		}

		if durationRegex.MatchString(tok) {
			secs, err := ParseDuration(tok)
			if err == nil {
				result.DurationSeconds = &secs
				continue
			}
		}

		notes = append(notes, tok)
	}

	result.Notes = strings.Join(notes, " ")
	return result
}

// HasValues reports whether anything besides the count was given
func (p ParsedSet) HasValues() bool {
	return p.Reps != nil || p.Weight != nil || p.RPE != nil || p.DurationSeconds != nil ||
		p.SetType != nil || p.Notes != ""
}

// Err joins the collected errors, or returns nil
func (p ParsedSet) Err() error {
	if len(p.Errors) == 0 {
		return nil
	}
	return fmt.Errorf("%s", strings.Join(p.Errors, "; "))
}

// Apply overlays the parsed fields on base
func (p ParsedSet) Apply(base models.SetValues) models.SetValues {
	if p.Reps != nil {
		base.Reps = *p.Reps
	}
	if p.Weight != nil {
		base.Weight = *p.Weight
	}
	if p.RPE != nil {
		base.RPE = *p.RPE
	}
	if p.DurationSeconds != nil {
		base.DurationSeconds = *p.DurationSeconds
	}
	if p.SetType != nil {
		base.SetType = *p.SetType
	}
	if p.Notes != "" {
		base.Notes = p.Notes
	}
	return base.Normalize()
}

// ParseTemplateLine splits "Bench Press = 3x8@80" into an exercise reference and its sets
func ParseTemplateLine(line string) (string, ParsedSet, error) {
	ref, spec, _ := strings.Cut(line, "=")
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", ParsedSet{}, fmt.Errorf("missing exercise in %q", line)
	}
	return ref, ParseSetSpec(spec), nil
}

// FormatSpec renders values back into the notation ParseSetSpec reads
func FormatSpec(v models.SetValues, duration bool) string {
	var parts []string
	if duration {
		parts = append(parts, FormatDuration(v.DurationSeconds))
	} else {
		spec := strconv.Itoa(v.Reps)
		if v.Weight > 0 {
			spec += "@" + formatDecimal(v.Weight)
		}
		parts = append(parts, spec)
	}
	if v.RPE > 0 {
		parts = append(parts, "rpe:"+formatDecimal(v.RPE))
	}
	if v.SetType != "" && v.SetType != taxonomy.SetTypeNormal {
		parts = append(parts, "#"+strings.ReplaceAll(strings.ToLower(string(v.SetType)), " ", "-"))
	}
	if v.Notes != "" {
		parts = append(parts, v.Notes)
	}
	return strings.Join(parts, " ")
}

// Describe renders values for people, e.g. "8 × 60kg · RPE 8 · Drop Set"
func Describe(v models.SetValues, duration bool) string {
	var parts []string
	if duration {
		parts = append(parts, FormatDuration(v.DurationSeconds))
	} else if v.Weight > 0 {
		parts = append(parts, fmt.Sprintf("%d × %skg", v.Reps, formatDecimal(v.Weight)))
	} else {
		parts = append(parts, fmt.Sprintf("%d reps", v.Reps))
	}
	if v.RPE > 0 {
		parts = append(parts, "RPE "+formatDecimal(v.RPE))
	}
	if v.SetType != "" && v.SetType != taxonomy.SetTypeNormal {
		parts = append(parts, string(v.SetType))
	}
	if v.Notes != "" {
		parts = append(parts, v.Notes)
	}
	return strings.Join(parts, " · ")
}

func parseDecimal(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
}

func formatDecimal(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
