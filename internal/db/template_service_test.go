package db

import (
	"errors"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"gorm.io/gorm"

	"github.com/balkashynov/liftlog/internal/editor"
	"github.com/balkashynov/liftlog/internal/models"
	"github.com/balkashynov/liftlog/internal/taxonomy"
)

// pushDay saves a template with two bench sets and one squat set
func (s *StoreTestSuite) pushDay(bench, squat *models.Exercise) *models.Workout {
	d := editor.NewDraft()
	d.Name = "  Push Day  "
	d.ToggleExercise(*squat)
	d.ToggleExercise(*bench)
	s.Require().NoError(d.ReplaceSets(bench.ID, []editor.TemplateSet{
		{Reps: 10, Weight: 60, RPE: 7, SetType: taxonomy.SetTypeWarmUp},
		{Reps: 8, Weight: 80, RPE: 9, Notes: "top set"},
	}))
	s.Require().NoError(d.ReplaceSets(squat.ID, []editor.TemplateSet{
		{Reps: 5, Weight: 100},
	}))

	w, err := s.store.SaveTemplate(s.ctx, d)
	s.Require().NoError(err)
	return w
}

func (s *StoreTestSuite) TestSaveTemplateCreates() {
	bench, squat := s.bench(), s.squat()
	w := s.pushDay(bench, squat)

	s.True(w.IsTemplate)
	s.Equal("Push Day", w.Name)
	s.Nil(w.Date)
	s.Len(w.Exercises, 2)

	benchSets := w.SetsFor(bench.ID)
	s.Require().Len(benchSets, 2)
	s.Equal(0, benchSets[0].Position)
	s.Equal(taxonomy.SetTypeWarmUp, benchSets[0].SetType)
	s.Equal(1, benchSets[1].Position)
	s.Equal(80.0, benchSets[1].Weight)
	s.Equal("top set", benchSets[1].Notes)

	squatSets := w.SetsFor(squat.ID)
	s.Require().Len(squatSets, 1)
	s.Equal(taxonomy.SetTypeNormal, squatSets[0].SetType)
	s.Equal(w.ID, *squatSets[0].WorkoutID)
}

func (s *StoreTestSuite) TestSaveTemplateReplacesContents() {
	bench, squat := s.bench(), s.squat()
	w := s.pushDay(bench, squat)
	before := s.counts()

	d, err := s.store.LoadDraft(s.ctx, w.ID)
	s.Require().NoError(err)
	s.Equal("Push Day", d.Name)
	s.Equal(3, d.SetCount())
	s.Equal("Bench Press", d.Exercises[0].Exercise.Name)

	d.Name = "Push Day v2"
	s.False(d.ToggleExercise(*squat))
	s.Require().NoError(d.RemoveSet(bench.ID, 0))
	s.Require().NoError(d.UpdateSet(bench.ID, 0, editor.TemplateSet{Reps: 6, Weight: 85, RPE: 12}))

	saved, err := s.store.SaveTemplate(s.ctx, d)
	s.Require().NoError(err)
	s.Equal(w.ID, saved.ID)
	s.Equal("Push Day v2", saved.Name)
	s.Require().Len(saved.Exercises, 1)
	s.Require().Len(saved.Sets, 1)
	s.Equal(10.0, saved.Sets[0].RPE)
	s.Equal(0, saved.Sets[0].Position)

	after := s.counts()
	s.Equal(before["workouts"], after["workouts"])
	s.Equal(before["exercises"], after["exercises"], "unlinked exercises are never deleted")
	s.Equal(before["sets"]-2, after["sets"])
	s.Equal(before["workout_exercises"]-1, after["workout_exercises"])
}

func (s *StoreTestSuite) TestSaveTemplateEmptyDraft() {
	d := editor.NewDraft()
	w, err := s.store.SaveTemplate(s.ctx, d)
	s.Require().NoError(err)
	s.Equal(editor.DefaultTemplateName, w.Name)
	s.Empty(w.Exercises)
	s.Empty(w.Sets)
	s.Require().NotNil(d.TemplateID)
	s.Equal(w.ID, *d.TemplateID)
}

func (s *StoreTestSuite) TestSaveTemplateRemovingEveryExercise() {
	bench, squat := s.bench(), s.squat()
	w := s.pushDay(bench, squat)
	s.Require().Len(w.Sets, 3)

	d, err := s.store.LoadDraft(s.ctx, w.ID)
	s.Require().NoError(err)
	s.True(d.RemoveExercise(bench.ID))
	s.True(d.RemoveExercise(squat.ID))
	s.True(d.IsEmpty())

	saved, err := s.store.SaveTemplate(s.ctx, d)
	s.Require().NoError(err)
	s.Equal(w.ID, saved.ID)
	s.Empty(saved.Exercises)
	s.Empty(saved.Sets)

	after := s.counts()
	s.Equal(int64(0), after["sets"])
	s.Equal(int64(0), after["workout_exercises"])
	s.Equal(int64(1), after["workouts"])
	s.Equal(int64(2), after["exercises"])
}

func (s *StoreTestSuite) TestSaveTemplateRoundTripsCardioValues() {
	treadmill := s.treadmill()

	d := editor.NewDraft()
	d.Name = "Conditioning"
	d.ToggleExercise(*treadmill)
	s.Require().NoError(d.ReplaceSets(treadmill.ID, []editor.TemplateSet{
		{DurationSeconds: 600, RPE: 6.5, SetType: taxonomy.SetTypePyramid, Notes: "n"},
	}))
	w, err := s.store.SaveTemplate(s.ctx, d)
	s.Require().NoError(err)

	loaded, err := s.store.LoadDraft(s.ctx, w.ID)
	s.Require().NoError(err)
	te, err := loaded.Exercise(treadmill.ID)
	s.Require().NoError(err)
	s.Require().Len(te.Sets, 1)
	s.Equal(600, te.Sets[0].DurationSeconds)
	s.Equal(6.5, te.Sets[0].RPE)
	s.Equal(taxonomy.SetTypePyramid, te.Sets[0].SetType)
	s.Equal("n", te.Sets[0].Notes)
}

func (s *StoreTestSuite) TestSaveTemplateLogsPersistedName() {
	hook := logtest.NewGlobal()
	defer log.StandardLogger().ReplaceHooks(make(log.LevelHooks))

	s.pushDay(s.bench(), s.squat())

	var saved *log.Entry
	for _, e := range hook.AllEntries() {
		if e.Message == "template saved" {
			saved = e
		}
	}
	s.Require().NotNil(saved)
	s.Equal("Push Day", saved.Data["name"])
	s.Equal(3, saved.Data["sets"])
}

func (s *StoreTestSuite) TestSaveTemplateInvalidDraftWritesNothing() {
	bench := s.bench()
	before := s.counts()

	d := editor.NewDraft()
	d.Name = "   "
	d.ToggleExercise(*bench)
	_, err := s.store.SaveTemplate(s.ctx, d)
	s.ErrorIs(err, ErrInvalidTemplate)
	s.ErrorIs(err, editor.ErrEmptyName)

	s.Equal(before, s.counts())
}

func (s *StoreTestSuite) TestSaveTemplateErrors() {
	bench, squat := s.bench(), s.squat()

	s.Run("unknown template", func() {
		d := editor.NewDraft()
		d.TemplateID = ptr(uuid.New())
		_, err := s.store.SaveTemplate(s.ctx, d)
		s.ErrorIs(err, ErrWorkoutNotFound)
	})

	s.Run("session is not a template", func() {
		session, err := s.store.StartWorkout(s.ctx, StartWorkoutRequest{})
		s.Require().NoError(err)
		defer s.store.CancelWorkout(s.ctx, session.ID)

		d := editor.NewDraft()
		d.TemplateID = &session.ID
		_, err = s.store.SaveTemplate(s.ctx, d)
		s.ErrorIs(err, ErrNotTemplate)

		_, err = s.store.LoadDraft(s.ctx, session.ID)
		s.ErrorIs(err, ErrNotTemplate)
	})

	s.Run("exercise deleted while editing", func() {
		d := editor.NewDraft()
		d.ToggleExercise(*bench)
		d.ToggleExercise(*squat)
		s.Require().NoError(s.store.DeleteExercise(s.ctx, squat.ID))

		before := s.counts()
		_, err := s.store.SaveTemplate(s.ctx, d)
		s.ErrorIs(err, ErrExerciseNotFound)
		s.Equal(before, s.counts())
	})
}

func (s *StoreTestSuite) TestSaveTemplateRollsBack() {
	bench, squat := s.bench(), s.squat()
	w := s.pushDay(bench, squat)
	before := s.counts()

	db := s.store.DB()
	s.Require().NoError(db.Callback().Create().Before("gorm:create").Register("test:fail_sets", func(tx *gorm.DB) {
		if tx.Statement.Table == "sets" {
			_ = tx.AddError(errors.New("disk full"))
		}
	}))
	defer db.Callback().Create().Remove("test:fail_sets")

	d, err := s.store.LoadDraft(s.ctx, w.ID)
	s.Require().NoError(err)
	d.Name = "Renamed"
	d.RemoveExercise(squat.ID)
	_, err = d.AddSet(bench.ID)
	s.Require().NoError(err)

	_, err = s.store.SaveTemplate(s.ctx, d)
	s.Require().Error(err)
	s.Contains(err.Error(), "disk full")

	s.Equal(before, s.counts())
	got, err := s.store.GetWorkout(s.ctx, w.ID)
	s.Require().NoError(err)
	s.Equal("Push Day", got.Name)
	s.Len(got.Exercises, 2)
	s.Len(got.SetsFor(bench.ID), 2)
	s.Len(got.SetsFor(squat.ID), 1)
}

func (s *StoreTestSuite) TestDuplicateTemplate() {
	bench, squat := s.bench(), s.squat()
	w := s.pushDay(bench, squat)

	dup, err := s.store.DuplicateTemplate(s.ctx, w.ID, "Push Day (copy)")
	s.Require().NoError(err)
	s.NotEqual(w.ID, dup.ID)
	s.True(dup.IsTemplate)
	s.Len(dup.Exercises, 2)
	s.Require().Len(dup.Sets, 3)
	for _, set := range dup.Sets {
		s.Equal(dup.ID, *set.WorkoutID)
	}
	s.Equal(w.SetsFor(bench.ID)[1].SetValues, dup.SetsFor(bench.ID)[1].SetValues)

	_, err = s.store.DuplicateTemplate(s.ctx, w.ID, " ")
	s.ErrorIs(err, ErrInvalidTemplate)

	templates, err := s.store.ListTemplates(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(templates, 2)
	s.Equal("Push Day", templates[0].Name)
	s.Equal("Push Day (copy)", templates[1].Name)
}

func (s *StoreTestSuite) TestFindWorkoutByKind() {
	bench, squat := s.bench(), s.squat()
	w := s.pushDay(bench, squat)

	got, err := s.store.FindWorkout(s.ctx, "push", Templates)
	s.Require().NoError(err)
	s.Equal(w.ID, got.ID)
	s.Len(got.Sets, 3)

	_, err = s.store.FindWorkout(s.ctx, "push", History)
	s.ErrorIs(err, ErrWorkoutNotFound)

	s.Require().NoError(s.store.DeleteWorkout(s.ctx, w.ID))
	s.ErrorIs(s.store.DeleteWorkout(s.ctx, w.ID), ErrWorkoutNotFound)
	s.Zero(s.counts()["sets"])
	s.Zero(s.counts()["workout_exercises"])
}
