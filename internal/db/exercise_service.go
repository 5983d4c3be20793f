package db

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/balkashynov/liftlog/internal/models"
	"github.com/balkashynov/liftlog/internal/taxonomy"
)

// CreateExerciseRequest holds the data needed to create a new exercise
type CreateExerciseRequest struct {
	Name               string
	BodyRegion         taxonomy.BodyRegion
	MovementType       taxonomy.MovementType
	PrimaryMuscleGroup taxonomy.MuscleGroup
	Equipment          taxonomy.Equipment
	Notes              string
}

// UpdateExerciseRequest holds the fields to change; nil fields are left alone
type UpdateExerciseRequest struct {
	Name               *string
	BodyRegion         *taxonomy.BodyRegion
	MovementType       *taxonomy.MovementType
	PrimaryMuscleGroup *taxonomy.MuscleGroup
	Equipment          *taxonomy.Equipment
	Notes              *string
}

// ExerciseFilter narrows SearchExercises; zero values match everything
type ExerciseFilter struct {
	Query      string
	Region     taxonomy.BodyRegion
	Movement   taxonomy.MovementType
	Muscle     taxonomy.MuscleGroup
	CustomOnly bool
	Limit      int
}

// ExerciseUsage counts how much history depends on an exercise
type ExerciseUsage struct {
	Workouts  int64
	Templates int64
	Sets      int64
}

// CreateExercise creates a user exercise. Name, region, movement type and muscle
// group are required and must be consistent with each other.
func (s *Store) CreateExercise(ctx context.Context, req CreateExerciseRequest) (*models.Exercise, error) {
	ex := models.Exercise{
		Name:               strings.TrimSpace(req.Name),
		BodyRegion:         req.BodyRegion,
		MovementType:       req.MovementType,
		PrimaryMuscleGroup: req.PrimaryMuscleGroup,
		Equipment:          req.Equipment,
		IsCustom:           true,
		Notes:              strings.TrimSpace(req.Notes),
	}
	if err := validateExercise(ex, true); err != nil {
		return nil, err
	}

	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureNameFree(tx, ex.Name, uuid.Nil); err != nil {
			return err
		}
		return tx.Create(&ex).Error
	})
	if err != nil {
		return nil, fmt.Errorf("creating exercise %q: %w", ex.Name, err)
	}

	log.WithFields(log.Fields{"exercise_id": ex.ID, "name": ex.Name}).Info("exercise created")
	return &ex, nil
}

// UpdateExercise applies a partial update. Changing the body region clears a movement
// type that no longer fits it, and a movement change clears a muscle group that no
// longer fits, unless the request sets those fields explicitly.
func (s *Store) UpdateExercise(ctx context.Context, id uuid.UUID, req UpdateExerciseRequest) (*models.Exercise, error) {
	var ex models.Exercise
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&ex, "id = ?", id).Error; err != nil {
			return notFound(err, ErrExerciseNotFound)
		}

		classified := applyExerciseUpdate(&ex, req)
		if err := validateExercise(ex, classified); err != nil {
			return err
		}
		if req.Name != nil {
			if err := ensureNameFree(tx, ex.Name, ex.ID); err != nil {
				return err
			}
		}

		return tx.Model(&ex).Select(
			"Name", "BodyRegion", "MovementType", "PrimaryMuscleGroup", "Equipment", "Notes", "UpdatedAt",
		).Updates(&ex).Error
	})
	if err != nil {
		return nil, fmt.Errorf("updating exercise %s: %w", id, err)
	}

	log.WithFields(log.Fields{"exercise_id": ex.ID, "name": ex.Name}).Info("exercise updated")
	return &ex, nil
}

// applyExerciseUpdate copies the request onto ex and reports whether any
// classification field was touched.
func applyExerciseUpdate(ex *models.Exercise, req UpdateExerciseRequest) bool {
	if req.Name != nil {
		ex.Name = strings.TrimSpace(*req.Name)
	}
	if req.Notes != nil {
		ex.Notes = strings.TrimSpace(*req.Notes)
	}
	if req.Equipment != nil {
		ex.Equipment = *req.Equipment
	}

	classified := false
	oldMovement := ex.MovementType
	if req.BodyRegion != nil && *req.BodyRegion != ex.BodyRegion {
		classified = true
		ex.BodyRegion = *req.BodyRegion
		if !slices.Contains(taxonomy.MovementTypesFor(ex.BodyRegion), ex.MovementType) {
			ex.MovementType = ""
		}
	}
	if req.MovementType != nil {
		classified = true
		ex.MovementType = *req.MovementType
	}
	if ex.MovementType != oldMovement {
		classified = true
		if ex.MovementType == "" || !slices.Contains(taxonomy.MuscleGroupsFor(ex.MovementType), ex.PrimaryMuscleGroup) {
			ex.PrimaryMuscleGroup = ""
		}
	}
	if req.PrimaryMuscleGroup != nil {
		classified = true
		ex.PrimaryMuscleGroup = *req.PrimaryMuscleGroup
	}
	return classified
}

func validateExercise(ex models.Exercise, classification bool) error {
	var err error
	if ex.Name == "" {
		err = multierr.Append(err, fmt.Errorf("name is required"))
	}
	if classification {
		if ex.BodyRegion == "" {
			err = multierr.Append(err, fmt.Errorf("body region is required"))
		}
		if ex.MovementType == "" {
			err = multierr.Append(err, fmt.Errorf("movement type is required (one of %s)",
				joinValues(taxonomy.MovementTypesFor(ex.BodyRegion))))
		}
		if ex.PrimaryMuscleGroup == "" {
			err = multierr.Append(err, fmt.Errorf("muscle group is required (one of %s)",
				joinValues(taxonomy.MuscleGroupsFor(ex.MovementType))))
		}
		err = multierr.Append(err, taxonomy.ValidateClassification(ex.BodyRegion, ex.MovementType, ex.PrimaryMuscleGroup))
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidExercise, err)
	}
	return nil
}

func ensureNameFree(tx *gorm.DB, name string, self uuid.UUID) error {
	var count int64
	err := tx.Model(&models.Exercise{}).
		Where("LOWER(name) = ? AND id <> ?", strings.ToLower(name), self).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: %q", ErrDuplicateExercise, name)
	}
	return nil
}

// GetExercise retrieves an exercise by ID
func (s *Store) GetExercise(ctx context.Context, id uuid.UUID) (*models.Exercise, error) {
	var ex models.Exercise
	if err := s.conn(ctx).First(&ex, "id = ?", id).Error; err != nil {
		return nil, notFound(err, ErrExerciseNotFound)
	}
	return &ex, nil
}

// FindExercise resolves a user supplied reference: full ID, ID prefix, exact name
// or a unique part of the name.
func (s *Store) FindExercise(ctx context.Context, ref string) (*models.Exercise, error) {
	return resolve[models.Exercise](s.conn(ctx).Model(&models.Exercise{}), ref, ErrExerciseNotFound)
}

// SearchExercises lists exercises matching the filter, sorted by name.
// No match is an empty result, not an error.
func (s *Store) SearchExercises(ctx context.Context, f ExerciseFilter) ([]models.Exercise, error) {
	q := s.conn(ctx).Model(&models.Exercise{})
	if query := strings.TrimSpace(f.Query); query != "" {
		q = q.Where("LOWER(name) LIKE ? ESCAPE '\\'", "%"+likeEscape(strings.ToLower(query))+"%")
	}
	if f.Region != "" {
		q = q.Where("body_region = ?", f.Region)
	}
	if f.Movement != "" {
		q = q.Where("movement_type = ?", f.Movement)
	}
	if f.Muscle != "" {
		q = q.Where("primary_muscle_group = ?", f.Muscle)
	}
	if f.CustomOnly {
		q = q.Where("is_custom = ?", true)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	exercises := []models.Exercise{}
	if err := q.Order("LOWER(name) ASC").Find(&exercises).Error; err != nil {
		return nil, fmt.Errorf("searching exercises: %w", err)
	}
	return exercises, nil
}

func (s *Store) CountExercises(ctx context.Context) (int64, error) {
	var count int64
	err := s.conn(ctx).Model(&models.Exercise{}).Count(&count).Error
	return count, err
}

// ExerciseUsage reports how many workouts, templates and sets reference an exercise
func (s *Store) ExerciseUsage(ctx context.Context, id uuid.UUID) (ExerciseUsage, error) {
	var u ExerciseUsage
	db := s.conn(ctx)
	if err := db.Model(&models.Set{}).Where("exercise_id = ?", id).Count(&u.Sets).Error; err != nil {
		return u, err
	}
	linked := db.Model(&models.WorkoutExercise{}).
		Joins("JOIN workouts ON workouts.id = workout_exercises.workout_id").
		Where("workout_exercises.exercise_id = ?", id)
	if err := linked.Session(&gorm.Session{}).Where("workouts.is_template = ?", true).Count(&u.Templates).Error; err != nil {
		return u, err
	}
	if err := linked.Session(&gorm.Session{}).Where("workouts.is_template = ?", false).Count(&u.Workouts).Error; err != nil {
		return u, err
	}
	return u, nil
}

// DeleteExercise removes an exercise together with every set that references it
// and every workout link that names it.
func (s *Store) DeleteExercise(ctx context.Context, id uuid.UUID) error {
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("exercise_id = ?", id).Delete(&models.Set{}).Error; err != nil {
			return err
		}
		if err := tx.Where("exercise_id = ?", id).Delete(&models.WorkoutExercise{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Exercise{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrExerciseNotFound
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("deleting exercise %s: %w", id, err)
	}

	log.WithField("exercise_id", id).Info("exercise deleted")
	return nil
}

// notFound maps gorm's record-not-found error to a domain sentinel
func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}

func joinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
