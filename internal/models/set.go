package models

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/balkashynov/liftlog/internal/taxonomy"
)

const (
	MinRPE = 0.0
	MaxRPE = 10.0
)

// SetValues are the user-editable fields of a set
type SetValues struct {
	Reps            int              `gorm:"default:0" json:"reps"`
	Weight          float64          `gorm:"default:0" json:"weight"`
	RPE             float64          `gorm:"column:rpe;default:0" json:"rpe"`
	DurationSeconds int              `gorm:"default:0" json:"duration_seconds"`
	SetType         taxonomy.SetType `json:"set_type"`
	Notes           string           `json:"notes,omitempty"`
}

// Set is one logged or planned performance of an exercise
type Set struct {
	ID        uuid.UUID `gorm:"type:text;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ExerciseID uuid.UUID  `gorm:"type:text;not null;index" json:"exercise_id"`
	WorkoutID  *uuid.UUID `gorm:"type:text;index" json:"workout_id,omitempty"`
	Position   int        `gorm:"not null;default:0" json:"position"`

	SetValues

	// Relationships
	Exercise Exercise `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

// DefaultSetValues is what a freshly added set starts with
func DefaultSetValues() SetValues {
	return SetValues{SetType: taxonomy.SetTypeNormal}
}

// ClampRPE limits v to the RPE scale
func ClampRPE(v float64) float64 {
	if v < MinRPE {
		return MinRPE
	}
	if v > MaxRPE {
		return MaxRPE
	}
	return v
}

// Normalize clamps RPE and floors negative counts, weight and duration at zero
func (v SetValues) Normalize() SetValues {
	v.RPE = ClampRPE(v.RPE)
	v.Reps = max(v.Reps, 0)
	v.DurationSeconds = max(v.DurationSeconds, 0)
	v.Weight = max(v.Weight, 0)
	if v.SetType == "" {
		v.SetType = taxonomy.SetTypeNormal
	}
	return v
}

// CarryForward copies the performance values of a previous set for the next one.
// Notes stay behind.
func (v SetValues) CarryForward() SetValues {
	next := v.Normalize()
	next.Notes = ""
	return next
}

func (s *Set) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (s *Set) BeforeSave(tx *gorm.DB) error {
	s.SetValues = s.SetValues.Normalize()
	return nil
}

// Volume is reps times weight
func (s Set) Volume() float64 {
	return float64(s.Reps) * s.Weight
}

// SortSets orders sets by position, then creation time, then ID
func SortSets(sets []Set) {
	sort.SliceStable(sets, func(i, j int) bool {
		a, b := sets[i], sets[j]
		if a.Position != b.Position {
			return a.Position < b.Position
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID.String() < b.ID.String()
	})
}
