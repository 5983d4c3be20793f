package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/balkashynov/liftlog/internal/models"
)

const DefaultSessionNameFormat = "02/01/2006"

// StartWorkoutRequest describes a new session. Name wins over the template's name;
// with neither, the session is named "Workout <date>" using NameFormat.
type StartWorkoutRequest struct {
	Name       string
	TemplateID *uuid.UUID
	NameFormat string
}

// DefaultSessionName names a blank session started at t
func DefaultSessionName(t time.Time, layout string) string {
	if layout == "" {
		layout = DefaultSessionNameFormat
	}
	return "Workout " + t.Format(layout)
}

// StartWorkout creates the active session, copying a template's exercises and sets
// into it when TemplateID is given. Only one session may be active at a time.
func (s *Store) StartWorkout(ctx context.Context, req StartWorkoutRequest) (*models.Workout, error) {
	now := s.now()
	var id uuid.UUID

	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var active models.Workout
		err := activeScope(tx).First(&active).Error
		if err == nil {
			return fmt.Errorf("%w: %q", ErrSessionActive, active.Name)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var src *models.Workout
		if req.TemplateID != nil {
			if src, err = getWorkout(tx, *req.TemplateID); err != nil {
				return err
			}
			if !src.IsTemplate {
				return ErrNotTemplate
			}
		}

		w := models.Workout{
			Name:      sessionName(req, src, now),
			Date:      &now,
			StartedAt: &now,
		}
		if err := tx.Omit(clause.Associations).Create(&w).Error; err != nil {
			return err
		}
		id = w.ID

		if src == nil {
			return nil
		}
		return copyContents(tx, src, w.ID)
	})
	if err != nil {
		return nil, fmt.Errorf("starting workout: %w", err)
	}

	fields := log.Fields{"workout_id": id}
	if req.TemplateID != nil {
		fields["template_id"] = *req.TemplateID
	}
	log.WithFields(fields).Info("workout started")

	return s.GetWorkout(ctx, id)
}

func sessionName(req StartWorkoutRequest, tmpl *models.Workout, now time.Time) string {
	if name := strings.TrimSpace(req.Name); name != "" {
		return name
	}
	if tmpl != nil {
		if name := strings.TrimSpace(tmpl.Name); name != "" {
			return name
		}
	}
	return DefaultSessionName(now, req.NameFormat)
}

func activeScope(tx *gorm.DB) *gorm.DB {
	return tx.Where("is_template = ? AND finished_at IS NULL", false).Order("started_at DESC")
}

// GetActiveWorkout returns the session in progress, or ErrNoActiveSession
func (s *Store) GetActiveWorkout(ctx context.Context) (*models.Workout, error) {
	var w models.Workout
	if err := activeScope(s.conn(ctx)).First(&w).Error; err != nil {
		return nil, notFound(err, ErrNoActiveSession)
	}
	return s.GetWorkout(ctx, w.ID)
}

// mustBeActive loads a workout inside tx and checks it is an unfinished session
func mustBeActive(tx *gorm.DB, id uuid.UUID) (*models.Workout, error) {
	var w models.Workout
	if err := tx.First(&w, "id = ?", id).Error; err != nil {
		return nil, notFound(err, ErrWorkoutNotFound)
	}
	if !w.IsActive() {
		return nil, ErrSessionNotActive
	}
	return &w, nil
}

// AddExerciseToWorkout links an exercise to the session and logs its first set.
// Adding an exercise that is already linked only adds the set.
func (s *Store) AddExerciseToWorkout(ctx context.Context, workoutID, exerciseID uuid.UUID) (*models.Set, error) {
	var set *models.Set
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := mustBeActive(tx, workoutID); err != nil {
			return err
		}
		var ex models.Exercise
		if err := tx.First(&ex, "id = ?", exerciseID).Error; err != nil {
			return notFound(err, ErrExerciseNotFound)
		}
		if err := linkExercises(tx, workoutID, exerciseID); err != nil {
			return err
		}
		var err error
		set, err = appendSet(tx, workoutID, ex)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("adding exercise to workout: %w", err)
	}

	log.WithFields(log.Fields{"workout_id": workoutID, "exercise_id": exerciseID}).Info("exercise added to workout")
	return set, nil
}

// AddSetToWorkout logs another set for an exercise already in the session
func (s *Store) AddSetToWorkout(ctx context.Context, workoutID, exerciseID uuid.UUID) (*models.Set, error) {
	var set *models.Set
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := mustBeActive(tx, workoutID); err != nil {
			return err
		}
		linked, err := isLinked(tx, workoutID, exerciseID)
		if err != nil {
			return err
		}
		if !linked {
			return ErrExerciseNotLinked
		}
		var ex models.Exercise
		if err := tx.First(&ex, "id = ?", exerciseID).Error; err != nil {
			return notFound(err, ErrExerciseNotFound)
		}
		set, err = appendSet(tx, workoutID, ex)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("adding set: %w", err)
	}

	log.WithFields(log.Fields{"workout_id": workoutID, "set_id": set.ID}).Debug("set added")
	return set, nil
}

// appendSet creates the next set for ex, carrying forward the values of the last one
func appendSet(tx *gorm.DB, workoutID uuid.UUID, ex models.Exercise) (*models.Set, error) {
	set := models.Set{
		ExerciseID: ex.ID,
		WorkoutID:  &workoutID,
		SetValues:  models.DefaultSetValues(),
	}

	var last models.Set
	err := tx.Where("workout_id = ? AND exercise_id = ?", workoutID, ex.ID).
		Order("position DESC, created_at DESC").
		First(&last).Error
	switch {
	case err == nil:
		set.SetValues = last.CarryForward()
		set.Position = last.Position + 1
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	if err := tx.Omit(clause.Associations).Create(&set).Error; err != nil {
		return nil, err
	}
	set.Exercise = ex
	return &set, nil
}

// UpdateWorkoutSet replaces the values of a set in the session
func (s *Store) UpdateWorkoutSet(ctx context.Context, workoutID, setID uuid.UUID, values models.SetValues) (*models.Set, error) {
	var set models.Set
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := mustBeActive(tx, workoutID); err != nil {
			return err
		}
		if err := tx.Preload("Exercise").First(&set, "id = ? AND workout_id = ?", setID, workoutID).Error; err != nil {
			return notFound(err, ErrSetNotFound)
		}
		set.SetValues = values
		return tx.Omit(clause.Associations).Save(&set).Error
	})
	if err != nil {
		return nil, fmt.Errorf("updating set %s: %w", setID, err)
	}
	return &set, nil
}

// RemoveWorkoutSet deletes one set from the session. The exercise stays linked.
func (s *Store) RemoveWorkoutSet(ctx context.Context, workoutID, setID uuid.UUID) error {
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := mustBeActive(tx, workoutID); err != nil {
			return err
		}
		res := tx.Where("id = ? AND workout_id = ?", setID, workoutID).Delete(&models.Set{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrSetNotFound
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("removing set %s: %w", setID, err)
	}
	return nil
}

// RemoveExerciseFromWorkout deletes every set of the exercise in the session and
// then unlinks it.
func (s *Store) RemoveExerciseFromWorkout(ctx context.Context, workoutID, exerciseID uuid.UUID) error {
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := mustBeActive(tx, workoutID); err != nil {
			return err
		}
		linked, err := isLinked(tx, workoutID, exerciseID)
		if err != nil {
			return err
		}
		if !linked {
			return ErrExerciseNotLinked
		}
		if err := tx.Where("workout_id = ? AND exercise_id = ?", workoutID, exerciseID).Delete(&models.Set{}).Error; err != nil {
			return err
		}
		return unlinkExercise(tx, workoutID, exerciseID)
	})
	if err != nil {
		return fmt.Errorf("removing exercise from workout: %w", err)
	}

	log.WithFields(log.Fields{"workout_id": workoutID, "exercise_id": exerciseID}).Info("exercise removed from workout")
	return nil
}

// RenameWorkout changes the name of the session
func (s *Store) RenameWorkout(ctx context.Context, workoutID uuid.UUID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("renaming workout: name is required")
	}
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		w, err := mustBeActive(tx, workoutID)
		if err != nil {
			return err
		}
		return tx.Model(w).Update("name", name).Error
	})
}

// FinishWorkout stamps the session as finished now, which moves it into history
func (s *Store) FinishWorkout(ctx context.Context, workoutID uuid.UUID) (*models.Workout, error) {
	now := s.now()
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		w, err := mustBeActive(tx, workoutID)
		if err != nil {
			return err
		}
		return tx.Model(w).Updates(map[string]any{
			"date":        now,
			"finished_at": now,
		}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("finishing workout: %w", err)
	}

	w, err := s.GetWorkout(ctx, workoutID)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"workout_id": workoutID,
		"duration":   w.Duration().Round(time.Second).String(),
		"sets":       len(w.Sets),
	}).Info("workout finished")
	return w, nil
}

// CancelWorkout discards the session with every set and link it owns
func (s *Store) CancelWorkout(ctx context.Context, workoutID uuid.UUID) error {
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := mustBeActive(tx, workoutID); err != nil {
			return err
		}
		return deleteWorkout(tx, workoutID)
	})
	if err != nil {
		return fmt.Errorf("cancelling workout: %w", err)
	}

	log.WithField("workout_id", workoutID).Info("workout cancelled")
	return nil
}
