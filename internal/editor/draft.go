// Package editor holds the in-memory staging area for composing a workout template.
// Nothing here touches the database; db.Store.SaveTemplate persists a Draft.
package editor

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/balkashynov/liftlog/internal/models"
)

const DefaultTemplateName = "My New Template"

var (
	ErrEmptyName          = errors.New("template name is required")
	ErrExerciseNotInDraft = errors.New("exercise is not part of this template")
	ErrSetIndexOutOfRange = errors.New("set index out of range")
)

// TemplateSet is a planned set that has no persisted identity yet
type TemplateSet models.SetValues

// NewTemplateSet returns a set with default values
func NewTemplateSet() TemplateSet {
	return TemplateSet(models.DefaultSetValues())
}

func (s TemplateSet) Values() models.SetValues {
	return models.SetValues(s)
}

// TemplateExercise is an exercise plus the sets planned for it
type TemplateExercise struct {
	Exercise models.Exercise
	Sets     []TemplateSet
}

// Draft is a template being composed or edited
type Draft struct {
	Name       string
	TemplateID *uuid.UUID
	Exercises  []TemplateExercise
}

// NewDraft starts composing a new template
func NewDraft() *Draft {
	return &Draft{Name: DefaultTemplateName}
}

// FromWorkout builds a draft from a template preloaded with Exercises and Sets
func FromWorkout(w *models.Workout) *Draft {
	id := w.ID
	d := &Draft{Name: w.Name, TemplateID: &id}
	for _, ex := range w.OrderedExercises() {
		te := TemplateExercise{Exercise: ex}
		for _, s := range w.SetsFor(ex.ID) {
			te.Sets = append(te.Sets, TemplateSet(s.SetValues))
		}
		d.Exercises = append(d.Exercises, te)
	}
	return d
}

// ToggleExercise adds ex when it is absent and removes it, with its sets, when present.
// It reports whether the exercise was added.
func (d *Draft) ToggleExercise(ex models.Exercise) bool {
	if d.RemoveExercise(ex.ID) {
		return false
	}
	d.Exercises = append(d.Exercises, TemplateExercise{Exercise: ex})
	d.sortExercises()
	return true
}

// RemoveExercise drops the exercise and all its sets
func (d *Draft) RemoveExercise(id uuid.UUID) bool {
	i := d.indexOf(id)
	if i < 0 {
		return false
	}
	d.Exercises = slices.Delete(d.Exercises, i, i+1)
	return true
}

// Exercise returns the staged exercise with the given id
func (d *Draft) Exercise(id uuid.UUID) (*TemplateExercise, error) {
	i := d.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrExerciseNotInDraft, id)
	}
	return &d.Exercises[i], nil
}

// OpenExercise returns the staged exercise for set editing, adding a default set
// when it has none.
func (d *Draft) OpenExercise(id uuid.UUID) (*TemplateExercise, error) {
	te, err := d.Exercise(id)
	if err != nil {
		return nil, err
	}
	if len(te.Sets) == 0 {
		te.Sets = append(te.Sets, NewTemplateSet())
	}
	return te, nil
}

// AddSet appends a default set and returns its index
func (d *Draft) AddSet(id uuid.UUID) (int, error) {
	te, err := d.Exercise(id)
	if err != nil {
		return 0, err
	}
	te.Sets = append(te.Sets, NewTemplateSet())
	return len(te.Sets) - 1, nil
}

func (d *Draft) RemoveSet(id uuid.UUID, index int) error {
	te, err := d.Exercise(id)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(te.Sets) {
		return fmt.Errorf("%w: %d of %d", ErrSetIndexOutOfRange, index, len(te.Sets))
	}
	te.Sets = slices.Delete(te.Sets, index, index+1)
	return nil
}

// UpdateSet replaces the set at index with a normalized copy of s
func (d *Draft) UpdateSet(id uuid.UUID, index int, s TemplateSet) error {
	te, err := d.Exercise(id)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(te.Sets) {
		return fmt.Errorf("%w: %d of %d", ErrSetIndexOutOfRange, index, len(te.Sets))
	}
	te.Sets[index] = TemplateSet(s.Values().Normalize())
	return nil
}

func (d *Draft) SetRPE(id uuid.UUID, index int, rpe float64) error {
	te, err := d.Exercise(id)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(te.Sets) {
		return fmt.Errorf("%w: %d of %d", ErrSetIndexOutOfRange, index, len(te.Sets))
	}
	te.Sets[index].RPE = models.ClampRPE(rpe)
	return nil
}

// ReplaceSets swaps every set of an exercise for the given ones
func (d *Draft) ReplaceSets(id uuid.UUID, sets []TemplateSet) error {
	te, err := d.Exercise(id)
	if err != nil {
		return err
	}
	te.Sets = te.Sets[:0]
	for _, s := range sets {
		te.Sets = append(te.Sets, TemplateSet(s.Values().Normalize()))
	}
	return nil
}

func (d *Draft) SetCount() int {
	n := 0
	for _, te := range d.Exercises {
		n += len(te.Sets)
	}
	return n
}

func (d *Draft) IsEmpty() bool {
	return len(d.Exercises) == 0
}

// Validate reports every reason the draft cannot be saved
func (d *Draft) Validate() error {
	var err error
	if strings.TrimSpace(d.Name) == "" {
		err = multierr.Append(err, ErrEmptyName)
	}
	seen := make(map[uuid.UUID]bool, len(d.Exercises))
	for _, te := range d.Exercises {
		if te.Exercise.ID == uuid.Nil {
			err = multierr.Append(err, fmt.Errorf("exercise %q has no id", te.Exercise.Name))
			continue
		}
		if seen[te.Exercise.ID] {
			err = multierr.Append(err, fmt.Errorf("exercise %q is listed twice", te.Exercise.Name))
		}
		seen[te.Exercise.ID] = true
	}
	return err
}

// Warnings lists problems that do not block saving
func (d *Draft) Warnings() []string {
	var out []string
	if d.IsEmpty() {
		out = append(out, "template has no exercises")
	}
	for _, te := range d.Exercises {
		if len(te.Sets) == 0 {
			out = append(out, fmt.Sprintf("%s has no sets", te.Exercise.Name))
		}
	}
	return out
}

func (d *Draft) indexOf(id uuid.UUID) int {
	return slices.IndexFunc(d.Exercises, func(te TemplateExercise) bool {
		return te.Exercise.ID == id
	})
}

func (d *Draft) sortExercises() {
	slices.SortStableFunc(d.Exercises, func(a, b TemplateExercise) int {
		return models.CompareExercises(a.Exercise, b.Exercise)
	})
}
