// Package session drives a single live workout from start to finish or cancel.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/balkashynov/liftlog/internal/db"
	"github.com/balkashynov/liftlog/internal/models"
)

var (
	ErrNotActive      = errors.New("workout session is not active")
	ErrAlreadyStarted = errors.New("workout session already started")
)

type State int

const (
	Uninitialized State = iota
	Active
	Finished
	Cancelled
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Active:
		return "active"
	case Finished:
		return "finished"
	case Cancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Store is the persistence a session needs; *db.Store implements it
type Store interface {
	StartWorkout(ctx context.Context, req db.StartWorkoutRequest) (*models.Workout, error)
	GetActiveWorkout(ctx context.Context) (*models.Workout, error)
	GetWorkout(ctx context.Context, id uuid.UUID) (*models.Workout, error)
	AddExerciseToWorkout(ctx context.Context, workoutID, exerciseID uuid.UUID) (*models.Set, error)
	AddSetToWorkout(ctx context.Context, workoutID, exerciseID uuid.UUID) (*models.Set, error)
	UpdateWorkoutSet(ctx context.Context, workoutID, setID uuid.UUID, values models.SetValues) (*models.Set, error)
	RemoveWorkoutSet(ctx context.Context, workoutID, setID uuid.UUID) error
	RemoveExerciseFromWorkout(ctx context.Context, workoutID, exerciseID uuid.UUID) error
	RenameWorkout(ctx context.Context, workoutID uuid.UUID, name string) error
	FinishWorkout(ctx context.Context, workoutID uuid.UUID) (*models.Workout, error)
	CancelWorkout(ctx context.Context, workoutID uuid.UUID) error
}

// StartOptions picks the name and optional template of a new session
type StartOptions struct {
	Name       string
	TemplateID *uuid.UUID
	// NameFormat is the time layout used in the default name
	NameFormat string
}

// Session is a handle on one workout being logged. It is safe for concurrent use.
type Session struct {
	mu        sync.Mutex
	store     Store
	id        uuid.UUID
	startedAt time.Time
	state     State
}

func New(store Store) *Session {
	return &Session{store: store}
}

// Start creates a new session, blank or copied from a template
func Start(ctx context.Context, store Store, opts StartOptions) (*Session, error) {
	s := New(store)
	if err := s.Start(ctx, opts); err != nil {
		return nil, err
	}
	return s, nil
}

// Resume attaches to the session left active by an earlier run.
// It returns db.ErrNoActiveSession when there is none.
func Resume(ctx context.Context, store Store) (*Session, error) {
	w, err := store.GetActiveWorkout(ctx)
	if err != nil {
		return nil, err
	}
	s := New(store)
	s.activate(w)
	return s, nil
}

func (s *Session) Start(ctx context.Context, opts StartOptions) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Uninitialized {
		return ErrAlreadyStarted
	}
	w, err := s.store.StartWorkout(ctx, db.StartWorkoutRequest{
		Name:       opts.Name,
		TemplateID: opts.TemplateID,
		NameFormat: opts.NameFormat,
	})
	if err != nil {
		return err
	}
	s.activate(w)
	return nil
}

func (s *Session) activate(w *models.Workout) {
	s.id = w.ID
	if w.StartedAt != nil {
		s.startedAt = *w.StartedAt
	}
	s.state = Active
}

func (s *Session) ID() uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Elapsed is the time since the session started, as of now
func (s *Session) Elapsed(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.startedAt.IsZero() || now.Before(s.startedAt) {
		return 0
	}
	return now.Sub(s.startedAt)
}

// active runs fn with the lock held, failing with ErrNotActive outside the Active state
func (s *Session) active(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Active {
		return fmt.Errorf("%w (%s)", ErrNotActive, s.state)
	}
	return fn()
}

// AddExercise links an exercise and logs its first set, carried forward from the
// last set of that exercise in this session when there is one.
func (s *Session) AddExercise(ctx context.Context, exerciseID uuid.UUID) (*models.Set, error) {
	var set *models.Set
	err := s.active(func() (err error) {
		set, err = s.store.AddExerciseToWorkout(ctx, s.id, exerciseID)
		return err
	})
	return set, err
}

func (s *Session) AddSet(ctx context.Context, exerciseID uuid.UUID) (*models.Set, error) {
	var set *models.Set
	err := s.active(func() (err error) {
		set, err = s.store.AddSetToWorkout(ctx, s.id, exerciseID)
		return err
	})
	return set, err
}

func (s *Session) UpdateSet(ctx context.Context, setID uuid.UUID, values models.SetValues) (*models.Set, error) {
	var set *models.Set
	err := s.active(func() (err error) {
		set, err = s.store.UpdateWorkoutSet(ctx, s.id, setID, values)
		return err
	})
	return set, err
}

func (s *Session) RemoveSet(ctx context.Context, setID uuid.UUID) error {
	return s.active(func() error {
		return s.store.RemoveWorkoutSet(ctx, s.id, setID)
	})
}

// RemoveExercise drops the exercise and every set logged for it
func (s *Session) RemoveExercise(ctx context.Context, exerciseID uuid.UUID) error {
	return s.active(func() error {
		return s.store.RemoveExerciseFromWorkout(ctx, s.id, exerciseID)
	})
}

func (s *Session) Rename(ctx context.Context, name string) error {
	return s.active(func() error {
		return s.store.RenameWorkout(ctx, s.id, name)
	})
}

// Workout returns the current state of the session's workout. It also works after
// Finish, but not after Cancel.
func (s *Session) Workout(ctx context.Context) (*models.Workout, error) {
	s.mu.Lock()
	state, id := s.state, s.id
	s.mu.Unlock()

	if state == Uninitialized || state == Cancelled {
		return nil, fmt.Errorf("%w (%s)", ErrNotActive, state)
	}
	return s.store.GetWorkout(ctx, id)
}

// Finish stamps the workout as done and moves it into history
func (s *Session) Finish(ctx context.Context) (*models.Workout, error) {
	var w *models.Workout
	err := s.active(func() (err error) {
		if w, err = s.store.FinishWorkout(ctx, s.id); err != nil {
			return err
		}
		s.state = Finished
		return nil
	})
	return w, err
}

// Cancel discards the workout with all of its sets
func (s *Session) Cancel(ctx context.Context) error {
	return s.active(func() error {
		if err := s.store.CancelWorkout(ctx, s.id); err != nil {
			return err
		}
		s.state = Cancelled
		return nil
	})
}
