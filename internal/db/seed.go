package db

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/balkashynov/liftlog/internal/models"
	"github.com/balkashynov/liftlog/internal/taxonomy"
)

//go:embed catalog.yaml
var catalogYAML []byte

type catalog struct {
	Exercises []catalogExercise `yaml:"exercises"`
	Templates []catalogTemplate `yaml:"templates"`
}

type catalogExercise struct {
	Name      string                `yaml:"name"`
	Region    taxonomy.BodyRegion   `yaml:"region"`
	Movement  taxonomy.MovementType `yaml:"movement"`
	Muscle    taxonomy.MuscleGroup  `yaml:"muscle"`
	Equipment taxonomy.Equipment    `yaml:"equipment"`
}

type catalogTemplate struct {
	Name      string   `yaml:"name"`
	Exercises []string `yaml:"exercises"`
}

var seedReps = []int{10, 8, 6}

const (
	seedWeight         = 50.0
	seedRPE            = 7.5
	seedCardioDuration = 300
)

func loadCatalog() (*catalog, error) {
	var c catalog
	if err := yaml.Unmarshal(catalogYAML, &c); err != nil {
		return nil, fmt.Errorf("parsing exercise catalog: %w", err)
	}
	return &c, nil
}

// Seed fills an empty database with the built-in exercise catalog and starter
// templates. It does nothing once any exercise exists.
func (s *Store) Seed(ctx context.Context) error {
	count, err := s.CountExercises(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	c, err := loadCatalog()
	if err != nil {
		return err
	}

	var templates int
	err = s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		byName := make(map[string]models.Exercise, len(c.Exercises))
		exercises := make([]models.Exercise, 0, len(c.Exercises))
		for _, ce := range c.Exercises {
			exercises = append(exercises, models.Exercise{
				Name:               ce.Name,
				BodyRegion:         ce.Region,
				MovementType:       ce.Movement,
				PrimaryMuscleGroup: ce.Muscle,
				Equipment:          ce.Equipment,
			})
		}
		if err := tx.Omit(clause.Associations).CreateInBatches(&exercises, 50).Error; err != nil {
			return err
		}
		for _, ex := range exercises {
			byName[ex.Name] = ex
		}

		for _, ct := range c.Templates {
			created, err := seedTemplate(tx, ct, byName)
			if err != nil {
				return fmt.Errorf("template %q: %w", ct.Name, err)
			}
			if created {
				templates++
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"exercises": len(c.Exercises),
		"templates": templates,
	}).Info("database seeded")
	return nil
}

// seedTemplate creates one starter template. Names missing from the catalog are
// skipped, and a template left with no exercises is not created.
func seedTemplate(tx *gorm.DB, ct catalogTemplate, byName map[string]models.Exercise) (bool, error) {
	var exercises []models.Exercise
	for _, name := range ct.Exercises {
		ex, ok := byName[name]
		if !ok {
			log.WithFields(log.Fields{"template": ct.Name, "exercise": name}).Debug("seed exercise not in catalog, skipping")
			continue
		}
		exercises = append(exercises, ex)
	}
	if len(exercises) == 0 {
		return false, nil
	}

	w := models.Workout{Name: ct.Name, IsTemplate: true}
	if err := tx.Omit(clause.Associations).Create(&w).Error; err != nil {
		return false, err
	}

	var sets []models.Set
	ids := make([]uuid.UUID, 0, len(exercises))
	for _, ex := range exercises {
		ids = append(ids, ex.ID)
		for i, v := range seedSets(ex) {
			sets = append(sets, models.Set{
				ExerciseID: ex.ID,
				WorkoutID:  &w.ID,
				Position:   i,
				SetValues:  v,
			})
		}
	}
	if err := linkExercises(tx, w.ID, ids...); err != nil {
		return false, err
	}
	return true, tx.Omit(clause.Associations).Create(&sets).Error
}

func seedSets(ex models.Exercise) []models.SetValues {
	if ex.IsDuration() {
		return []models.SetValues{{
			DurationSeconds: seedCardioDuration,
			SetType:         taxonomy.SetTypeWarmUp,
		}}
	}
	out := make([]models.SetValues, 0, len(seedReps))
	for _, reps := range seedReps {
		out = append(out, models.SetValues{
			Reps:    reps,
			Weight:  seedWeight,
			RPE:     seedRPE,
			SetType: taxonomy.SetTypeNormal,
		})
	}
	return out
}
