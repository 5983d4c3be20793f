package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/liftlog/internal/db"
	"github.com/balkashynov/liftlog/internal/editor"
	"github.com/balkashynov/liftlog/internal/models"
	"github.com/balkashynov/liftlog/internal/parser"
	"github.com/balkashynov/liftlog/internal/session"
	"github.com/balkashynov/liftlog/internal/taxonomy"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FB923C"))
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ECEFF4"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#636B7A"))
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
)

// hints shown under an error, keyed by the sentinel it wraps
var hints = []struct {
	err  error
	hint string
}{
	{db.ErrExerciseNotFound, "Use 'liftlog exercise ls <query>' to look it up."},
	{db.ErrWorkoutNotFound, "Use 'liftlog template ls' or 'liftlog history' to find it."},
	{db.ErrAmbiguousRef, "Use more of the name or the id shown in the listing."},
	{db.ErrSessionActive, "Use 'liftlog session ui' to continue it or 'liftlog session finish' to wrap it up."},
	{db.ErrNoActiveSession, "Use 'liftlog start' to begin a workout."},
	{db.ErrExerciseNotLinked, "Use 'liftlog session add <exercise>' first."},
	{db.ErrNotTemplate, "Only templates can be used here, see 'liftlog template ls'."},
	{db.ErrDuplicateExercise, "Pick another name or edit the existing exercise."},
	{taxonomy.ErrInconsistentClassification, "Use 'liftlog exercise options' to see what fits together."},
	{session.ErrNotActive, "Use 'liftlog start' to begin a workout."},
}

// printError prints err the way every command reports failures, with a hint when
// one is known
func printError(err error) {
	fmt.Printf("Error: %v\n", err)
	for _, h := range hints {
		if errors.Is(err, h.err) {
			fmt.Println(hintStyle.Render(h.hint))
			return
		}
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// printWorkout lists every exercise of w with its sets
func printWorkout(w *models.Workout) {
	fmt.Println(titleStyle.Render(w.DisplayName()) + "  " + mutedStyle.Render(models.ShortID(w.ID)))
	if w.FinishedAt != nil && w.StartedAt != nil {
		fmt.Printf("Duration: %s\n", parser.FormatDuration(int(w.Duration().Seconds())))
	}
	exercises := w.OrderedExercises()
	if len(exercises) == 0 {
		fmt.Println(mutedStyle.Render("  no exercises"))
		return
	}
	for _, ex := range exercises {
		fmt.Println("  " + headerStyle.Render(ex.Name))
		sets := w.SetsFor(ex.ID)
		if len(sets) == 0 {
			fmt.Println(mutedStyle.Render("    no sets"))
		}
		for i, s := range sets {
			fmt.Printf("    %d. %s  %s\n", i+1, parser.Describe(s.SetValues, ex.IsDuration()), mutedStyle.Render(models.ShortID(s.ID)))
		}
	}
}

// templateSets expands a parsed spec into Count copies, over the given base values
func templateSets(p parser.ParsedSet, base models.SetValues) []editor.TemplateSet {
	values := p.Apply(base)
	sets := make([]editor.TemplateSet, p.Count)
	for i := range sets {
		sets[i] = editor.TemplateSet(values)
	}
	return sets
}

// findSet resolves a set reference inside a workout:
//
//	<exercise>      the last set of that exercise
//	<exercise>:<n>  the nth set of that exercise, counting from 1
//	<id or prefix>  a set id
func findSet(w *models.Workout, find func(string) (*models.Exercise, error), ref string) (*models.Set, error) {
	ref = strings.TrimSpace(ref)
	for i, s := range w.Sets {
		if s.ID.String() == ref || (len(ref) >= 8 && strings.HasPrefix(s.ID.String(), strings.ToLower(ref))) {
			return &w.Sets[i], nil
		}
	}

	exRef, n := ref, 0
	if head, tail, ok := strings.Cut(ref, ":"); ok {
		idx, err := strconv.Atoi(tail)
		if err != nil || idx < 1 {
			return nil, fmt.Errorf("invalid set number %q", tail)
		}
		exRef, n = head, idx
	}

	ex, err := find(exRef)
	if err != nil {
		return nil, err
	}
	sets := w.SetsFor(ex.ID)
	if len(sets) == 0 {
		return nil, fmt.Errorf("%w: %s has no sets", db.ErrSetNotFound, ex.Name)
	}
	if n == 0 {
		n = len(sets)
	}
	if n > len(sets) {
		return nil, fmt.Errorf("%w: %s has %d sets", db.ErrSetNotFound, ex.Name, len(sets))
	}
	return &sets[n-1], nil
}
