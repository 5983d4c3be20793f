package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/balkashynov/liftlog/internal/taxonomy"
)

// Exercise is a movement in the catalog, either seeded or user created
type Exercise struct {
	ID        uuid.UUID `gorm:"type:text;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name               string                `gorm:"not null;uniqueIndex" json:"name"`
	BodyRegion         taxonomy.BodyRegion   `gorm:"index" json:"body_region,omitempty"`
	MovementType       taxonomy.MovementType `gorm:"index" json:"movement_type,omitempty"`
	PrimaryMuscleGroup taxonomy.MuscleGroup  `gorm:"index" json:"primary_muscle_group,omitempty"`
	Equipment          taxonomy.Equipment    `json:"equipment,omitempty"`
	IsCustom           bool                  `gorm:"default:false" json:"is_custom"`
	Notes              string                `json:"notes,omitempty"`

	// Relationships
	Sets []Set `gorm:"foreignKey:ExerciseID" json:"-"`
}

func (e *Exercise) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// IsDuration reports whether this exercise is logged as time instead of reps x weight
func (e Exercise) IsDuration() bool {
	return e.MovementType.IsDuration()
}

func (e Exercise) DisplayName() string {
	return e.Name
}
