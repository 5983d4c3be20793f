package db

import (
	"github.com/balkashynov/liftlog/internal/taxonomy"
)

func (s *StoreTestSuite) TestSeed() {
	c, err := loadCatalog()
	s.Require().NoError(err)
	s.Len(c.Exercises, 107)
	s.Len(c.Templates, 15)

	s.Require().NoError(s.store.Seed(s.ctx))

	n, err := s.store.CountExercises(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(107), n)

	templates, err := s.store.ListTemplates(s.ctx)
	s.Require().NoError(err)
	s.Len(templates, 15)

	s.Run("strength template sets", func() {
		w, err := s.store.FindWorkout(s.ctx, "PPL - Push Day", Templates)
		s.Require().NoError(err)
		s.Len(w.Exercises, 6)
		s.Len(w.Sets, 18)

		bench, err := s.store.FindExercise(s.ctx, "Barbell Bench Press")
		s.Require().NoError(err)
		sets := w.SetsFor(bench.ID)
		s.Require().Len(sets, 3)
		for i, reps := range []int{10, 8, 6} {
			s.Equal(reps, sets[i].Reps)
			s.Equal(i, sets[i].Position)
			s.Equal(50.0, sets[i].Weight)
			s.Equal(7.5, sets[i].RPE)
			s.Equal(taxonomy.SetTypeNormal, sets[i].SetType)
		}
	})

	s.Run("cardio template sets", func() {
		w, err := s.store.FindWorkout(s.ctx, "Cardio Blast", Templates)
		s.Require().NoError(err)
		s.Require().Len(w.Sets, 3)
		for _, set := range w.Sets {
			s.Equal(300, set.DurationSeconds)
			s.Zero(set.Reps)
			s.Equal(taxonomy.SetTypeWarmUp, set.SetType)
		}
	})

	s.Run("unknown names are skipped", func() {
		w, err := s.store.FindWorkout(s.ctx, "Core Stability", Templates)
		s.Require().NoError(err)
		s.Len(w.Exercises, 4)
	})

	s.Run("catalog rows keep their original classification", func() {
		ex, err := s.store.FindExercise(s.ctx, "Dumbbell Pullover")
		s.Require().NoError(err)
		s.Equal(taxonomy.MovementPull, ex.MovementType)
		s.Equal(taxonomy.MuscleChest, ex.PrimaryMuscleGroup)
		s.False(ex.IsCustom)
	})

	s.Run("seeding twice is a no-op", func() {
		before := s.counts()
		s.Require().NoError(s.store.Seed(s.ctx))
		s.Equal(before, s.counts())
	})
}
