package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/balkashynov/liftlog/internal/models"
	"github.com/balkashynov/liftlog/internal/taxonomy"
)

func (s *StoreTestSuite) TestStartBlankWorkout() {
	w, err := s.store.StartWorkout(s.ctx, StartWorkoutRequest{})
	s.Require().NoError(err)

	s.Equal("Workout 14/03/2025", w.Name)
	s.False(w.IsTemplate)
	s.True(w.IsActive())
	s.Require().NotNil(w.StartedAt)
	s.True(w.StartedAt.Equal(testNow))
	s.True(w.Date.Equal(testNow))
	s.Empty(w.Exercises)
	s.Empty(w.Sets)

	active, err := s.store.GetActiveWorkout(s.ctx)
	s.Require().NoError(err)
	s.Equal(w.ID, active.ID)
}

func (s *StoreTestSuite) TestStartWorkoutNames() {
	w, err := s.store.StartWorkout(s.ctx, StartWorkoutRequest{Name: " Morning Lift "})
	s.Require().NoError(err)
	s.Equal("Morning Lift", w.Name)
	s.Require().NoError(s.store.CancelWorkout(s.ctx, w.ID))

	w, err = s.store.StartWorkout(s.ctx, StartWorkoutRequest{NameFormat: "2006-01-02"})
	s.Require().NoError(err)
	s.Equal("Workout 2025-03-14", w.Name)
}

func (s *StoreTestSuite) TestOnlyOneActiveWorkout() {
	_, err := s.store.GetActiveWorkout(s.ctx)
	s.ErrorIs(err, ErrNoActiveSession)

	first, err := s.store.StartWorkout(s.ctx, StartWorkoutRequest{})
	s.Require().NoError(err)

	_, err = s.store.StartWorkout(s.ctx, StartWorkoutRequest{})
	s.ErrorIs(err, ErrSessionActive)

	_, err = s.store.FinishWorkout(s.ctx, first.ID)
	s.Require().NoError(err)

	_, err = s.store.StartWorkout(s.ctx, StartWorkoutRequest{})
	s.NoError(err)
}

func (s *StoreTestSuite) TestStartFromTemplate() {
	bench, squat := s.bench(), s.squat()
	tmpl := s.pushDay(bench, squat)
	before := s.counts()

	w, err := s.store.StartWorkout(s.ctx, StartWorkoutRequest{TemplateID: &tmpl.ID})
	s.Require().NoError(err)

	s.Equal("Push Day", w.Name)
	s.False(w.IsTemplate)
	s.Len(w.Exercises, 2)
	s.Require().Len(w.Sets, 3)

	tmplIDs := map[uuid.UUID]bool{}
	for _, set := range tmpl.Sets {
		tmplIDs[set.ID] = true
	}
	for _, set := range w.Sets {
		s.False(tmplIDs[set.ID], "sets must be copies")
		s.Equal(w.ID, *set.WorkoutID)
	}
	for i, set := range w.SetsFor(bench.ID) {
		orig := tmpl.SetsFor(bench.ID)[i]
		s.Equal(orig.SetValues, set.SetValues)
		s.Equal(orig.Position, set.Position)
	}

	after := s.counts()
	s.Equal(before["sets"]+3, after["sets"])
	s.Equal(before["workout_exercises"]+2, after["workout_exercises"])

	unchanged, err := s.store.GetWorkout(s.ctx, tmpl.ID)
	s.Require().NoError(err)
	s.Len(unchanged.Sets, 3)
	s.True(unchanged.IsTemplate)

	s.Run("session cannot be used as a template", func() {
		s.Require().NoError(s.store.CancelWorkout(s.ctx, w.ID))
		hist, err := s.store.StartWorkout(s.ctx, StartWorkoutRequest{})
		s.Require().NoError(err)
		_, err = s.store.FinishWorkout(s.ctx, hist.ID)
		s.Require().NoError(err)

		_, err = s.store.StartWorkout(s.ctx, StartWorkoutRequest{TemplateID: &hist.ID})
		s.ErrorIs(err, ErrNotTemplate)

		_, err = s.store.StartWorkout(s.ctx, StartWorkoutRequest{TemplateID: ptr(uuid.New())})
		s.ErrorIs(err, ErrWorkoutNotFound)
	})
}

func (s *StoreTestSuite) TestAddExerciseCarriesForward() {
	bench := s.bench()
	w, err := s.store.StartWorkout(s.ctx, StartWorkoutRequest{})
	s.Require().NoError(err)

	first, err := s.store.AddExerciseToWorkout(s.ctx, w.ID, bench.ID)
	s.Require().NoError(err)
	s.Equal(models.DefaultSetValues(), first.SetValues)
	s.Equal(0, first.Position)
	s.Equal("Bench Press", first.Exercise.Name)

	_, err = s.store.UpdateWorkoutSet(s.ctx, w.ID, first.ID, models.SetValues{
		Reps: 8, Weight: 82.5, RPE: 8.5, SetType: taxonomy.SetTypeFailure, Notes: "grindy",
	})
	s.Require().NoError(err)

	second, err := s.store.AddSetToWorkout(s.ctx, w.ID, bench.ID)
	s.Require().NoError(err)
	s.Equal(1, second.Position)
	s.Equal(8, second.Reps)
	s.Equal(82.5, second.Weight)
	s.Equal(8.5, second.RPE)
	s.Equal(taxonomy.SetTypeFailure, second.SetType)
	s.Empty(second.Notes)

	third, err := s.store.AddExerciseToWorkout(s.ctx, w.ID, bench.ID)
	s.Require().NoError(err)
	s.Equal(2, third.Position)
	s.Equal(82.5, third.Weight)

	got, err := s.store.GetWorkout(s.ctx, w.ID)
	s.Require().NoError(err)
	s.Len(got.Exercises, 1)
	s.Len(got.Sets, 3)
}

func (s *StoreTestSuite) TestActiveSessionEdits() {
	bench, squat := s.bench(), s.squat()
	w, err := s.store.StartWorkout(s.ctx, StartWorkoutRequest{})
	s.Require().NoError(err)

	_, err = s.store.AddSetToWorkout(s.ctx, w.ID, bench.ID)
	s.ErrorIs(err, ErrExerciseNotLinked)
	_, err = s.store.AddExerciseToWorkout(s.ctx, w.ID, uuid.New())
	s.ErrorIs(err, ErrExerciseNotFound)

	b1, err := s.store.AddExerciseToWorkout(s.ctx, w.ID, bench.ID)
	s.Require().NoError(err)
	b2, err := s.store.AddSetToWorkout(s.ctx, w.ID, bench.ID)
	s.Require().NoError(err)
	q1, err := s.store.AddExerciseToWorkout(s.ctx, w.ID, squat.ID)
	s.Require().NoError(err)

	s.Run("update normalizes values", func() {
		set, err := s.store.UpdateWorkoutSet(s.ctx, w.ID, b1.ID, models.SetValues{Reps: -3, Weight: -10, RPE: 11})
		s.Require().NoError(err)
		s.Zero(set.Reps)
		s.Zero(set.Weight)
		s.Equal(10.0, set.RPE)
		s.Equal(taxonomy.SetTypeNormal, set.SetType)
	})

	s.Run("set from another workout", func() {
		_, err := s.store.UpdateWorkoutSet(s.ctx, w.ID, uuid.New(), models.SetValues{})
		s.ErrorIs(err, ErrSetNotFound)
		s.ErrorIs(s.store.RemoveWorkoutSet(s.ctx, w.ID, uuid.New()), ErrSetNotFound)
	})

	s.Run("remove one set keeps the exercise", func() {
		s.Require().NoError(s.store.RemoveWorkoutSet(s.ctx, w.ID, b2.ID))
		got, err := s.store.GetWorkout(s.ctx, w.ID)
		s.Require().NoError(err)
		s.Len(got.Exercises, 2)
		s.Len(got.SetsFor(bench.ID), 1)
	})

	s.Run("remove exercise cascades to its sets only", func() {
		s.Require().NoError(s.store.RemoveExerciseFromWorkout(s.ctx, w.ID, bench.ID))
		got, err := s.store.GetWorkout(s.ctx, w.ID)
		s.Require().NoError(err)
		s.Require().Len(got.Exercises, 1)
		s.Equal(squat.ID, got.Exercises[0].ID)
		s.Require().Len(got.Sets, 1)
		s.Equal(q1.ID, got.Sets[0].ID)

		s.ErrorIs(s.store.RemoveExerciseFromWorkout(s.ctx, w.ID, bench.ID), ErrExerciseNotLinked)
	})

	s.Run("rename", func() {
		s.Error(s.store.RenameWorkout(s.ctx, w.ID, "  "))
		s.Require().NoError(s.store.RenameWorkout(s.ctx, w.ID, "Leg Day"))
		got, err := s.store.GetWorkout(s.ctx, w.ID)
		s.Require().NoError(err)
		s.Equal("Leg Day", got.Name)
	})
}

func (s *StoreTestSuite) TestFinishWorkout() {
	bench := s.bench()
	w, err := s.store.StartWorkout(s.ctx, StartWorkoutRequest{})
	s.Require().NoError(err)
	_, err = s.store.AddExerciseToWorkout(s.ctx, w.ID, bench.ID)
	s.Require().NoError(err)

	s.advance(47 * time.Minute)
	done, err := s.store.FinishWorkout(s.ctx, w.ID)
	s.Require().NoError(err)

	s.False(done.IsActive())
	s.False(done.IsTemplate)
	s.Equal(47*time.Minute, done.Duration())
	s.True(done.Date.Equal(testNow.Add(47 * time.Minute)))
	s.Len(done.Sets, 1)

	_, err = s.store.GetActiveWorkout(s.ctx)
	s.ErrorIs(err, ErrNoActiveSession)

	_, err = s.store.AddSetToWorkout(s.ctx, w.ID, bench.ID)
	s.ErrorIs(err, ErrSessionNotActive)
	_, err = s.store.FinishWorkout(s.ctx, w.ID)
	s.ErrorIs(err, ErrSessionNotActive)
	s.ErrorIs(s.store.CancelWorkout(s.ctx, w.ID), ErrSessionNotActive)

	history, err := s.store.ListHistory(s.ctx, HistoryQuery{})
	s.Require().NoError(err)
	s.Require().Len(history, 1)
	s.Equal(w.ID, history[0].ID)
}

func (s *StoreTestSuite) TestCancelWorkoutRestoresCounts() {
	bench, squat := s.bench(), s.squat()
	tmpl := s.pushDay(bench, squat)
	before := s.counts()

	w, err := s.store.StartWorkout(s.ctx, StartWorkoutRequest{TemplateID: &tmpl.ID})
	s.Require().NoError(err)
	_, err = s.store.AddSetToWorkout(s.ctx, w.ID, squat.ID)
	s.Require().NoError(err)

	s.Require().NoError(s.store.CancelWorkout(s.ctx, w.ID))
	s.Equal(before, s.counts())

	_, err = s.store.GetWorkout(s.ctx, w.ID)
	s.ErrorIs(err, ErrWorkoutNotFound)
	history, err := s.store.ListHistory(s.ctx, HistoryQuery{})
	s.Require().NoError(err)
	s.Empty(history)
}

func (s *StoreTestSuite) TestHistoryRanges() {
	finish := func(name string) {
		w, err := s.store.StartWorkout(s.ctx, StartWorkoutRequest{Name: name})
		s.Require().NoError(err)
		s.advance(time.Hour)
		_, err = s.store.FinishWorkout(s.ctx, w.ID)
		s.Require().NoError(err)
	}

	finish("Monday")
	s.advance(48 * time.Hour)
	finish("Wednesday")
	s.advance(48 * time.Hour)
	finish("Friday")

	all, err := s.store.ListHistory(s.ctx, HistoryQuery{})
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal("Friday", all[0].Name)

	limited, err := s.store.ListHistory(s.ctx, HistoryQuery{Limit: 2})
	s.Require().NoError(err)
	s.Len(limited, 2)

	recent, err := s.store.ListHistory(s.ctx, HistoryQuery{Since: testNow.Add(24 * time.Hour)})
	s.Require().NoError(err)
	s.Len(recent, 2)

	week, err := s.store.GetFinishedWorkoutsInRange(s.ctx, testNow, testNow.Add(72*time.Hour))
	s.Require().NoError(err)
	s.Require().Len(week, 2)
	s.Equal("Monday", week[0].Name)
	s.Equal("Wednesday", week[1].Name)

	got, err := s.store.FindWorkout(s.ctx, "wednesday", History)
	s.Require().NoError(err)
	s.Equal("Wednesday", got.Name)
	s.Equal("Wednesday (16/03/2025)", got.DisplayName())
}
