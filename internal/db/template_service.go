package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/balkashynov/liftlog/internal/editor"
	"github.com/balkashynov/liftlog/internal/models"
)

// SaveTemplate persists a draft in a single transaction. A draft without a
// TemplateID creates a new template; otherwise the stored template's sets and
// exercise links are replaced by the draft's. On any failure nothing changes.
func (s *Store) SaveTemplate(ctx context.Context, d *editor.Draft) (*models.Workout, error) {
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTemplate, err)
	}

	var id uuid.UUID
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		w, err := templateForDraft(tx, d)
		if err != nil {
			return err
		}
		id = w.ID

		if err := tx.Where("workout_id = ?", w.ID).Delete(&models.Set{}).Error; err != nil {
			return err
		}
		if err := tx.Where("workout_id = ?", w.ID).Delete(&models.WorkoutExercise{}).Error; err != nil {
			return err
		}

		ids := make([]uuid.UUID, 0, len(d.Exercises))
		for _, te := range d.Exercises {
			ids = append(ids, te.Exercise.ID)
		}
		if err := ensureExercisesExist(tx, ids); err != nil {
			return err
		}
		if err := linkExercises(tx, w.ID, ids...); err != nil {
			return err
		}

		sets := make([]models.Set, 0, d.SetCount())
		for _, te := range d.Exercises {
			for i, ts := range te.Sets {
				sets = append(sets, models.Set{
					ExerciseID: te.Exercise.ID,
					WorkoutID:  &w.ID,
					Position:   i,
					SetValues:  ts.Values(),
				})
			}
		}
		if len(sets) == 0 {
			return nil
		}
		return tx.Omit(clause.Associations).Create(&sets).Error
	})
	if err != nil {
		return nil, fmt.Errorf("saving template %q: %w", d.Name, err)
	}

	saved, err := s.GetWorkout(ctx, id)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"workout_id": saved.ID,
		"name":       saved.Name,
		"exercises":  len(saved.Exercises),
		"sets":       len(saved.Sets),
	}).Info("template saved")
	d.TemplateID = &saved.ID
	return saved, nil
}

// templateForDraft returns the template row the draft writes to, creating it when new
func templateForDraft(tx *gorm.DB, d *editor.Draft) (*models.Workout, error) {
	name := strings.TrimSpace(d.Name)

	if d.TemplateID == nil {
		w := models.Workout{Name: name, IsTemplate: true}
		if err := tx.Omit(clause.Associations).Create(&w).Error; err != nil {
			return nil, err
		}
		return &w, nil
	}

	var w models.Workout
	if err := tx.First(&w, "id = ?", *d.TemplateID).Error; err != nil {
		return nil, notFound(err, ErrWorkoutNotFound)
	}
	if !w.IsTemplate {
		return nil, ErrNotTemplate
	}
	if err := tx.Model(&w).Update("name", name).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

func ensureExercisesExist(tx *gorm.DB, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	var count int64
	if err := tx.Model(&models.Exercise{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return err
	}
	if int(count) != len(ids) {
		return fmt.Errorf("%w: %d of %d exercises are missing", ErrExerciseNotFound, len(ids)-int(count), len(ids))
	}
	return nil
}

// LoadDraft opens a stored template for editing
func (s *Store) LoadDraft(ctx context.Context, id uuid.UUID) (*editor.Draft, error) {
	w, err := s.GetWorkout(ctx, id)
	if err != nil {
		return nil, err
	}
	if !w.IsTemplate {
		return nil, ErrNotTemplate
	}
	return editor.FromWorkout(w), nil
}
