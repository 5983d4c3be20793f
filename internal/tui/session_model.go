package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/balkashynov/liftlog/internal/models"
	"github.com/balkashynov/liftlog/internal/parser"
)

// Outcome is what the user chose when leaving the session screen
type Outcome int

const (
	Detached Outcome = iota
	Finish
	Cancel
)

// LiveSession is the part of session.Session the screen drives
type LiveSession interface {
	Elapsed(now time.Time) time.Duration
	Workout(ctx context.Context) (*models.Workout, error)
	AddExercise(ctx context.Context, exerciseID uuid.UUID) (*models.Set, error)
	AddSet(ctx context.Context, exerciseID uuid.UUID) (*models.Set, error)
	UpdateSet(ctx context.Context, setID uuid.UUID, values models.SetValues) (*models.Set, error)
	RemoveSet(ctx context.Context, setID uuid.UUID) error
	RemoveExercise(ctx context.Context, exerciseID uuid.UUID) error
}

// ExerciseFinder resolves what the user types into an exercise
type ExerciseFinder interface {
	FindExercise(ctx context.Context, ref string) (*models.Exercise, error)
}

type inputMode int

const (
	modeNormal inputMode = iota
	modeAddExercise
	modeEditSet
	modeConfirmCancel
)

// SessionModel is the live workout screen
type SessionModel struct {
	ctx    context.Context
	sess   LiveSession
	finder ExerciseFinder
	now    func() time.Time

	width  int
	height int

	workout   *models.Workout
	exercises []models.Exercise
	selected  int

	elapsed   time.Duration
	animation int

	mode      inputMode
	input     textinput.Model
	status    string
	statusErr bool

	outcome Outcome
	done    bool
}

type clockTickMsg struct{}

type animationTickMsg struct{}

func NewSessionModel(ctx context.Context, sess LiveSession, finder ExerciseFinder) SessionModel {
	input := textinput.New()
	input.Width = 50
	input.CharLimit = 120
	input.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText))
	input.PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPlaceholder))
	input.Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright))

	m := SessionModel{
		ctx:    ctx,
		sess:   sess,
		finder: finder,
		now:    time.Now,
		input:  input,
	}
	m.elapsed = sess.Elapsed(m.now())
	m.refresh()
	return m
}

func (m SessionModel) Outcome() Outcome {
	return m.outcome
}

func (m SessionModel) Init() tea.Cmd {
	return tea.Batch(clockTick(), animationTick())
}

func clockTick() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return clockTickMsg{} })
}

func animationTick() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(time.Time) tea.Msg { return animationTickMsg{} })
}

func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case clockTickMsg:
		m.elapsed = m.sess.Elapsed(m.now())
		if m.done {
			return m, nil
		}
		return m, clockTick()

	case animationTickMsg:
		m.animation = (m.animation + 1) % 4
		if m.done {
			return m, nil
		}
		return m, animationTick()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeAddExercise, modeEditSet:
			return m.handleInputKeys(msg)
		case modeConfirmCancel:
			return m.handleConfirmKeys(msg)
		default:
			return m.handleKeys(msg)
		}
	}

	return m, nil
}

func (m SessionModel) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.selected < len(m.exercises)-1 {
			m.selected++
		}
	case "n":
		if ex, ok := m.current(); ok {
			_, err := m.sess.AddSet(m.ctx, ex.ID)
			m.report(err, "Added a set to "+ex.Name)
		}
	case "x":
		if ex, ok := m.current(); ok {
			sets := m.workout.SetsFor(ex.ID)
			if len(sets) == 0 {
				m.setStatus(ex.Name+" has no sets", true)
				break
			}
			err := m.sess.RemoveSet(m.ctx, sets[len(sets)-1].ID)
			m.report(err, "Removed the last set of "+ex.Name)
		}
	case "a":
		m.mode = modeAddExercise
		m.input.SetValue("")
		m.input.Placeholder = "exercise name or id"
		return m, m.input.Focus()
	case "e":
		if ex, ok := m.current(); ok {
			sets := m.workout.SetsFor(ex.ID)
			if len(sets) == 0 {
				m.setStatus(ex.Name+" has no sets, press n to add one", true)
				break
			}
			m.mode = modeEditSet
			m.input.SetValue(parser.FormatSpec(sets[len(sets)-1].SetValues, ex.IsDuration()))
			m.input.CursorEnd()
			m.input.Placeholder = "8@60 rpe:8 #warmup notes"
			return m, m.input.Focus()
		}
	case "D":
		if ex, ok := m.current(); ok {
			err := m.sess.RemoveExercise(m.ctx, ex.ID)
			m.report(err, "Removed "+ex.Name)
		}
	case "f":
		m.outcome = Finish
		m.done = true
		return m, tea.Quit
	case "C":
		m.mode = modeConfirmCancel
	case "ctrl+c", "esc", "q":
		m.outcome = Detached
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m SessionModel) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeNormal
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		value := strings.TrimSpace(m.input.Value())
		mode := m.mode
		m.mode = modeNormal
		m.input.Blur()
		if value == "" {
			return m, nil
		}
		if mode == modeAddExercise {
			m.addExercise(value)
		} else {
			m.editLastSet(value)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m SessionModel) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.outcome = Cancel
		m.done = true
		return m, tea.Quit
	case "ctrl+c", "esc":
		m.outcome = Detached
		m.done = true
		return m, tea.Quit
	}
	m.mode = modeNormal
	m.setStatus("Cancel aborted", false)
	return m, nil
}

func (m *SessionModel) addExercise(ref string) {
	ex, err := m.finder.FindExercise(m.ctx, ref)
	if err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	_, err = m.sess.AddExercise(m.ctx, ex.ID)
	m.report(err, "Added "+ex.Name)
	for i, e := range m.exercises {
		if e.ID == ex.ID {
			m.selected = i
		}
	}
}

func (m *SessionModel) editLastSet(spec string) {
	ex, ok := m.current()
	if !ok {
		return
	}
	sets := m.workout.SetsFor(ex.ID)
	if len(sets) == 0 {
		return
	}
	parsed := parser.ParseSetSpec(spec)
	if err := parsed.Err(); err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	last := sets[len(sets)-1]
	_, err := m.sess.UpdateSet(m.ctx, last.ID, parsed.Apply(last.SetValues))
	m.report(err, "Updated set "+fmt.Sprint(len(sets))+" of "+ex.Name)
}

// report shows the outcome of an operation and reloads the workout
func (m *SessionModel) report(err error, success string) {
	if err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	m.setStatus(success, false)
	m.refresh()
}

func (m *SessionModel) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

func (m *SessionModel) refresh() {
	w, err := m.sess.Workout(m.ctx)
	if err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	m.workout = w
	m.exercises = w.OrderedExercises()
	if m.selected >= len(m.exercises) {
		m.selected = max(len(m.exercises)-1, 0)
	}
}

func (m SessionModel) current() (models.Exercise, bool) {
	if m.workout == nil || len(m.exercises) == 0 {
		return models.Exercise{}, false
	}
	return m.exercises[m.selected], true
}

func (m SessionModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	footer := lipgloss.JoinVertical(lipgloss.Left, m.renderStatusLine(), m.renderHelpBar())
	contentHeight := m.height - lipgloss.Height(footer) - 1

	if m.width < 90 {
		return lipgloss.JoinVertical(
			lipgloss.Left,
			m.renderWorkoutPanel(m.width, contentHeight),
			footer,
		)
	}

	leftWidth := m.width * 2 / 5
	rightWidth := m.width - leftWidth - 2

	content := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderClockPanel(leftWidth, contentHeight),
		"  ",
		m.renderWorkoutPanel(rightWidth, contentHeight),
	)
	return lipgloss.JoinVertical(lipgloss.Left, content, footer)
}

func (m SessionModel) renderClockPanel(width, height int) string {
	centered := lipgloss.NewStyle().Align(lipgloss.Center).Width(width)
	var components []string

	frames := []string{"●", "◉", "●", "○"}
	header := fmt.Sprintf("%s  WORKOUT IN PROGRESS  %s", frames[m.animation], frames[m.animation])
	components = append(components, centered.
		Foreground(lipgloss.Color(ColorAccentBright)).
		Bold(true).
		Render(header))

	name := ""
	if m.workout != nil {
		name = truncate(m.workout.Name, width-4)
	}
	components = append(components, centered.
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Bold(true).
		Render(name))

	var clock []string
	for _, line := range strings.Split(renderBigClock(m.elapsed), "\n") {
		clock = append(clock, centered.Render(line))
	}
	components = append(components, strings.Join(clock, "\n"))

	if m.workout != nil && m.workout.StartedAt != nil {
		components = append(components, centered.
			Foreground(lipgloss.Color(ColorSecondaryText)).
			Italic(true).
			Render("Started at "+m.workout.StartedAt.Local().Format("15:04:05")))
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(strings.Join(components, "\n\n"))
}

func (m SessionModel) renderWorkoutPanel(width, height int) string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorAccentMain)).
		Width(max(width-4, 10)).
		Padding(0, 1)
	total := 0
	if m.workout != nil {
		total = len(m.workout.Sets)
	}
	b.WriteString(titleStyle.Render(fmt.Sprintf("%d exercises · %d sets", len(m.exercises), total)))
	b.WriteString("\n\n")

	if len(m.exercises) == 0 {
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorDisabledText)).
			Italic(true).
			Render("No exercises yet. Press a to add one."))
	}

	for i, ex := range m.exercises {
		nameStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))
		marker := "  "
		if i == m.selected {
			nameStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright)).Bold(true)
			marker = "▸ "
		}
		b.WriteString(nameStyle.Render(marker + truncate(ex.Name, width-6)))
		b.WriteString("\n")

		sets := m.workout.SetsFor(ex.ID)
		if len(sets) == 0 {
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDisabledText)).Render("    no sets"))
			b.WriteString("\n")
		}
		for n, set := range sets {
			line := fmt.Sprintf("    %d. %s", n+1, parser.Describe(set.SetValues, ex.IsDuration()))
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText)).Render(truncate(line, width-2)))
			b.WriteString("\n")
		}
	}

	return lipgloss.NewStyle().Width(width).Height(height).Render(b.String())
}

func (m SessionModel) renderStatusLine() string {
	switch m.mode {
	case modeAddExercise:
		return "Add exercise: " + m.input.View()
	case modeEditSet:
		return "Edit last set: " + m.input.View()
	case modeConfirmCancel:
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorWarning)).
			Bold(true).
			Render("Discard this workout and all of its sets? y to confirm, any other key to keep it")
	}

	color := ColorSuccess
	if m.statusErr {
		color = ColorError
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(m.status)
}

func (m SessionModel) renderHelpBar() string {
	helpText := "↑/↓ select · n add set · x drop set · a add exercise · e edit set · D remove exercise · f finish · C cancel · q leave running"
	if m.mode == modeAddExercise || m.mode == modeEditSet {
		helpText = "enter apply · esc back"
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Italic(true).
		Align(lipgloss.Center).
		Width(m.width).
		Render(helpText)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if width < 4 || len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}
