package db

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/balkashynov/liftlog/internal/models"
)

var (
	ErrExerciseNotFound  = errors.New("exercise not found")
	ErrWorkoutNotFound   = errors.New("workout not found")
	ErrSetNotFound       = errors.New("set not found")
	ErrNotTemplate       = errors.New("workout is not a template")
	ErrDuplicateExercise = errors.New("an exercise with that name already exists")
	ErrInvalidExercise   = errors.New("invalid exercise")
	ErrInvalidTemplate   = errors.New("invalid template")
	ErrAmbiguousRef      = errors.New("reference matches more than one record")
	ErrSessionActive     = errors.New("a workout session is already active")
	ErrNoActiveSession   = errors.New("no active workout session")
	ErrSessionNotActive  = errors.New("workout is not an active session")
	ErrExerciseNotLinked = errors.New("exercise is not part of this workout")
)

// Options controls how the store is opened
type Options struct {
	Path   string
	Seed   bool
	Logger logger.Interface
	// Now overrides the clock, for tests
	Now func() time.Time
}

// Store is the handle every component uses for persistence
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

// Open sets up the database connection and runs migrations
func Open(ctx context.Context, opts Options) (*Store, error) {
	if opts.Path == "" {
		return nil, fmt.Errorf("database path is required")
	}

	// Ensure the directory exists
	if err := os.MkdirAll(filepath.Dir(opts.Path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	gormLogger := opts.Logger
	if gormLogger == nil {
		gormLogger = logger.Default.LogMode(logger.Silent)
	}

	gdb, err := gorm.Open(sqlite.Open(opts.Path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &Store{db: gdb, now: opts.Now}
	if s.now == nil {
		s.now = time.Now
	}

	if err := s.migrate(); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	if opts.Seed {
		if err := s.Seed(ctx); err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("failed to seed database: %w", err)
		}
	}

	log.WithField("path", opts.Path).Debug("database opened")
	return s, nil
}

// migrate creates/updates the database schema
func (s *Store) migrate() error {
	if err := s.db.SetupJoinTable(&models.Workout{}, "Exercises", &models.WorkoutExercise{}); err != nil {
		return err
	}
	return s.db.AutoMigrate(
		&models.Exercise{},
		&models.Workout{},
		&models.WorkoutExercise{},
		&models.Set{},
	)
}

// DB exposes the underlying gorm handle
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Close lets SQLite refresh its query planner statistics, then closes the connection
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return multierr.Combine(
		s.db.Exec("PRAGMA optimize").Error,
		sqlDB.Close(),
	)
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}
