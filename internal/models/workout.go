package models

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Workout is either a reusable template or a logged session.
// A session with no FinishedAt is the active one.
type Workout struct {
	ID        uuid.UUID `gorm:"type:text;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name       string     `gorm:"not null" json:"name"`
	IsTemplate bool       `gorm:"index;default:false" json:"is_template"`
	Date       *time.Time `gorm:"index" json:"date,omitempty"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`

	// Relationships
	Exercises []Exercise `gorm:"many2many:workout_exercises;" json:"exercises"`
	Sets      []Set      `gorm:"foreignKey:WorkoutID" json:"sets"`
}

// WorkoutExercise is the join table for the many-to-many relationship
type WorkoutExercise struct {
	WorkoutID  uuid.UUID `gorm:"type:text;primaryKey"`
	ExerciseID uuid.UUID `gorm:"type:text;primaryKey;index"`
}

func (w *Workout) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

// IsActive reports whether this is a session that has not been finished yet
func (w Workout) IsActive() bool {
	return !w.IsTemplate && w.FinishedAt == nil
}

// Duration is the time between start and finish, or zero when either is missing
func (w Workout) Duration() time.Duration {
	if w.StartedAt == nil || w.FinishedAt == nil {
		return 0
	}
	return w.FinishedAt.Sub(*w.StartedAt)
}

// OrderedExercises returns the linked exercises sorted by name
func (w Workout) OrderedExercises() []Exercise {
	out := make([]Exercise, len(w.Exercises))
	copy(out, w.Exercises)
	SortExercises(out)
	return out
}

// SetsFor returns the sets logged for one exercise in display order
func (w Workout) SetsFor(exerciseID uuid.UUID) []Set {
	var out []Set
	for _, s := range w.Sets {
		if s.ExerciseID == exerciseID {
			out = append(out, s)
		}
	}
	SortSets(out)
	return out
}

// SortExercises orders exercises by name, case-insensitively, with ID as tie breaker
func SortExercises(exs []Exercise) {
	slices.SortStableFunc(exs, CompareExercises)
}

func CompareExercises(a, b Exercise) int {
	if c := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
		return c
	}
	return strings.Compare(a.ID.String(), b.ID.String())
}

func (w Workout) DisplayName() string {
	if w.Date != nil && !w.IsTemplate {
		return w.Name + " (" + w.Date.Format("02/01/2006") + ")"
	}
	return w.Name
}

// ShortID is the leading part of an ID, enough to reference it from the CLI
func ShortID(id uuid.UUID) string {
	return id.String()[:8]
}
