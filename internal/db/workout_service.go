package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/balkashynov/liftlog/internal/models"
)

// WorkoutKind scopes workout lookups
type WorkoutKind int

const (
	AnyWorkout WorkoutKind = iota
	Templates
	History
)

// HistoryQuery filters finished sessions; zero values mean no bound
type HistoryQuery struct {
	Since time.Time
	Until time.Time
	Limit int
}

func preloadWorkout(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Exercises", func(db *gorm.DB) *gorm.DB {
			return db.Order("name ASC")
		}).
		Preload("Sets", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, created_at ASC")
		}).
		Preload("Sets.Exercise")
}

func scopeKind(q *gorm.DB, kind WorkoutKind) *gorm.DB {
	switch kind {
	case Templates:
		return q.Where("is_template = ?", true)
	case History:
		return q.Where("is_template = ? AND finished_at IS NOT NULL", false)
	default:
		return q
	}
}

// GetWorkout retrieves a workout with its exercises and sets
func (s *Store) GetWorkout(ctx context.Context, id uuid.UUID) (*models.Workout, error) {
	return getWorkout(s.conn(ctx), id)
}

func getWorkout(tx *gorm.DB, id uuid.UUID) (*models.Workout, error) {
	var w models.Workout
	if err := preloadWorkout(tx).First(&w, "id = ?", id).Error; err != nil {
		return nil, notFound(err, ErrWorkoutNotFound)
	}
	return &w, nil
}

// FindWorkout resolves a reference the same way FindExercise does, within kind
func (s *Store) FindWorkout(ctx context.Context, ref string, kind WorkoutKind) (*models.Workout, error) {
	scope := scopeKind(s.conn(ctx).Model(&models.Workout{}), kind)
	w, err := resolve[models.Workout](scope, ref, ErrWorkoutNotFound)
	if err != nil {
		return nil, err
	}
	return s.GetWorkout(ctx, w.ID)
}

// ListTemplates returns every template sorted by name
func (s *Store) ListTemplates(ctx context.Context) ([]models.Workout, error) {
	templates := []models.Workout{}
	err := preloadWorkout(s.conn(ctx)).
		Where("is_template = ?", true).
		Order("LOWER(name) ASC").
		Find(&templates).Error
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}
	return templates, nil
}

// ListHistory returns finished sessions, newest first
func (s *Store) ListHistory(ctx context.Context, hq HistoryQuery) ([]models.Workout, error) {
	q := scopeKind(preloadWorkout(s.conn(ctx)), History)
	if !hq.Since.IsZero() {
		q = q.Where("date >= ?", hq.Since)
	}
	if !hq.Until.IsZero() {
		q = q.Where("date < ?", hq.Until)
	}
	if hq.Limit > 0 {
		q = q.Limit(hq.Limit)
	}

	workouts := []models.Workout{}
	if err := q.Order("date DESC").Find(&workouts).Error; err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}
	return workouts, nil
}

// GetFinishedWorkoutsInRange returns finished sessions dated within [start, end), oldest first
func (s *Store) GetFinishedWorkoutsInRange(ctx context.Context, start, end time.Time) ([]models.Workout, error) {
	workouts := []models.Workout{}
	err := scopeKind(preloadWorkout(s.conn(ctx)), History).
		Where("date >= ? AND date < ?", start, end).
		Order("date ASC").
		Find(&workouts).Error
	if err != nil {
		return nil, fmt.Errorf("listing workouts between %s and %s: %w",
			start.Format(time.DateOnly), end.Format(time.DateOnly), err)
	}
	return workouts, nil
}

// DeleteWorkout removes a template or session with its sets and exercise links
func (s *Store) DeleteWorkout(ctx context.Context, id uuid.UUID) error {
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteWorkout(tx, id)
	})
	if err != nil {
		return fmt.Errorf("deleting workout %s: %w", id, err)
	}
	log.WithField("workout_id", id).Info("workout deleted")
	return nil
}

// DuplicateTemplate copies a template, its links and its sets under a new name
func (s *Store) DuplicateTemplate(ctx context.Context, id uuid.UUID, name string) (*models.Workout, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidTemplate)
	}

	var copyID uuid.UUID
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		src, err := getWorkout(tx, id)
		if err != nil {
			return err
		}
		if !src.IsTemplate {
			return ErrNotTemplate
		}
		dst := models.Workout{Name: name, IsTemplate: true}
		if err := tx.Omit(clause.Associations).Create(&dst).Error; err != nil {
			return err
		}
		copyID = dst.ID
		return copyContents(tx, src, dst.ID)
	})
	if err != nil {
		return nil, fmt.Errorf("duplicating template %s: %w", id, err)
	}

	log.WithFields(log.Fields{"source_id": id, "workout_id": copyID}).Info("template duplicated")
	return s.GetWorkout(ctx, copyID)
}

func deleteWorkout(tx *gorm.DB, id uuid.UUID) error {
	if err := tx.Where("workout_id = ?", id).Delete(&models.Set{}).Error; err != nil {
		return err
	}
	if err := tx.Where("workout_id = ?", id).Delete(&models.WorkoutExercise{}).Error; err != nil {
		return err
	}
	res := tx.Where("id = ?", id).Delete(&models.Workout{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrWorkoutNotFound
	}
	return nil
}

// copyContents links every exercise of src to dst and creates a fresh copy of each
// of its sets, keeping field values and positions.
func copyContents(tx *gorm.DB, src *models.Workout, dst uuid.UUID) error {
	ids := make([]uuid.UUID, 0, len(src.Exercises))
	for _, ex := range src.Exercises {
		ids = append(ids, ex.ID)
	}
	for _, set := range src.Sets {
		ids = append(ids, set.ExerciseID)
	}
	if err := linkExercises(tx, dst, ids...); err != nil {
		return err
	}

	if len(src.Sets) == 0 {
		return nil
	}
	sets := make([]models.Set, 0, len(src.Sets))
	for _, set := range src.Sets {
		sets = append(sets, models.Set{
			ExerciseID: set.ExerciseID,
			WorkoutID:  &dst,
			Position:   set.Position,
			SetValues:  set.SetValues,
		})
	}
	return tx.Omit(clause.Associations).Create(&sets).Error
}

// linkExercises adds workout_exercises rows, ignoring links that already exist
func linkExercises(tx *gorm.DB, workoutID uuid.UUID, exerciseIDs ...uuid.UUID) error {
	if len(exerciseIDs) == 0 {
		return nil
	}
	seen := make(map[uuid.UUID]bool, len(exerciseIDs))
	rows := make([]models.WorkoutExercise, 0, len(exerciseIDs))
	for _, id := range exerciseIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		rows = append(rows, models.WorkoutExercise{WorkoutID: workoutID, ExerciseID: id})
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

func unlinkExercise(tx *gorm.DB, workoutID, exerciseID uuid.UUID) error {
	return tx.Where("workout_id = ? AND exercise_id = ?", workoutID, exerciseID).
		Delete(&models.WorkoutExercise{}).Error
}

func isLinked(tx *gorm.DB, workoutID, exerciseID uuid.UUID) (bool, error) {
	var count int64
	err := tx.Model(&models.WorkoutExercise{}).
		Where("workout_id = ? AND exercise_id = ?", workoutID, exerciseID).
		Count(&count).Error
	return count > 0, err
}
