package db

import (
	"github.com/google/uuid"

	"github.com/balkashynov/liftlog/internal/editor"
	"github.com/balkashynov/liftlog/internal/models"
	"github.com/balkashynov/liftlog/internal/taxonomy"
)

func ptr[T any](v T) *T { return &v }

func (s *StoreTestSuite) TestCreateExercise() {
	ex := s.bench()

	s.NotEqual(uuid.Nil, ex.ID)
	s.True(ex.IsCustom)
	s.Equal("Bench Press", ex.Name)

	got, err := s.store.GetExercise(s.ctx, ex.ID)
	s.Require().NoError(err)
	s.Equal(taxonomy.RegionUpper, got.BodyRegion)
	s.Equal(taxonomy.MovementPush, got.MovementType)
	s.Equal(taxonomy.MuscleChest, got.PrimaryMuscleGroup)
	s.Equal(taxonomy.EquipmentBarbell, got.Equipment)
}

func (s *StoreTestSuite) TestCreateExerciseValidation() {
	tests := []struct {
		name string
		req  CreateExerciseRequest
	}{
		{"blank name", CreateExerciseRequest{Name: "  ", BodyRegion: taxonomy.RegionUpper, MovementType: taxonomy.MovementPush, PrimaryMuscleGroup: taxonomy.MuscleChest}},
		{"missing region", CreateExerciseRequest{Name: "Row", MovementType: taxonomy.MovementPull, PrimaryMuscleGroup: taxonomy.MuscleBack}},
		{"missing muscle", CreateExerciseRequest{Name: "Row", BodyRegion: taxonomy.RegionUpper, MovementType: taxonomy.MovementPull}},
		{"movement outside region", CreateExerciseRequest{Name: "Row", BodyRegion: taxonomy.RegionLower, MovementType: taxonomy.MovementPull, PrimaryMuscleGroup: taxonomy.MuscleBack}},
		{"muscle outside movement", CreateExerciseRequest{Name: "Row", BodyRegion: taxonomy.RegionUpper, MovementType: taxonomy.MovementPull, PrimaryMuscleGroup: taxonomy.MuscleChest}},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.store.CreateExercise(s.ctx, tt.req)
			s.ErrorIs(err, ErrInvalidExercise)
		})
	}

	n, err := s.store.CountExercises(s.ctx)
	s.Require().NoError(err)
	s.Zero(n)
}

func (s *StoreTestSuite) TestCreateExerciseDuplicateName() {
	s.bench()
	_, err := s.store.CreateExercise(s.ctx, CreateExerciseRequest{
		Name:               "bench press",
		BodyRegion:         taxonomy.RegionUpper,
		MovementType:       taxonomy.MovementPush,
		PrimaryMuscleGroup: taxonomy.MuscleChest,
	})
	s.ErrorIs(err, ErrDuplicateExercise)
}

func (s *StoreTestSuite) TestUpdateExercise() {
	ex := s.bench()

	s.Run("name and notes only", func() {
		got, err := s.store.UpdateExercise(s.ctx, ex.ID, UpdateExerciseRequest{
			Name:  ptr("Flat Bench Press"),
			Notes: ptr(" pause at the chest "),
		})
		s.Require().NoError(err)
		s.Equal("Flat Bench Press", got.Name)
		s.Equal("pause at the chest", got.Notes)
		s.Equal(taxonomy.MovementPush, got.MovementType)
	})

	s.Run("movement change keeps a muscle that still fits", func() {
		got, err := s.store.UpdateExercise(s.ctx, ex.ID, UpdateExerciseRequest{
			MovementType: ptr(taxonomy.MovementIsolation),
		})
		s.Require().NoError(err)
		s.Equal(taxonomy.MuscleChest, got.PrimaryMuscleGroup)
	})

	s.Run("region change clears movement and muscle", func() {
		_, err := s.store.UpdateExercise(s.ctx, ex.ID, UpdateExerciseRequest{
			BodyRegion: ptr(taxonomy.RegionCardio),
		})
		s.ErrorIs(err, ErrInvalidExercise)

		stored, err := s.store.GetExercise(s.ctx, ex.ID)
		s.Require().NoError(err)
		s.Equal(taxonomy.RegionUpper, stored.BodyRegion)
	})

	s.Run("region change with explicit classification", func() {
		got, err := s.store.UpdateExercise(s.ctx, ex.ID, UpdateExerciseRequest{
			BodyRegion:         ptr(taxonomy.RegionLower),
			MovementType:       ptr(taxonomy.MovementLegs),
			PrimaryMuscleGroup: ptr(taxonomy.MuscleGlutes),
		})
		s.Require().NoError(err)
		s.Equal(taxonomy.RegionLower, got.BodyRegion)
		s.Equal(taxonomy.MovementLegs, got.MovementType)
		s.Equal(taxonomy.MuscleGlutes, got.PrimaryMuscleGroup)
	})

	s.Run("rename onto an existing name", func() {
		s.squat()
		_, err := s.store.UpdateExercise(s.ctx, ex.ID, UpdateExerciseRequest{Name: ptr("SQUAT")})
		s.ErrorIs(err, ErrDuplicateExercise)
	})

	s.Run("missing exercise", func() {
		_, err := s.store.UpdateExercise(s.ctx, uuid.New(), UpdateExerciseRequest{Name: ptr("x")})
		s.ErrorIs(err, ErrExerciseNotFound)
	})
}

func (s *StoreTestSuite) TestApplyExerciseUpdateCascade() {
	ex := models.Exercise{
		Name:               "Row",
		BodyRegion:         taxonomy.RegionUpper,
		MovementType:       taxonomy.MovementPull,
		PrimaryMuscleGroup: taxonomy.MuscleBack,
	}

	touched := applyExerciseUpdate(&ex, UpdateExerciseRequest{BodyRegion: ptr(taxonomy.RegionFullBody)})
	s.True(touched)
	s.Empty(ex.MovementType)
	s.Empty(ex.PrimaryMuscleGroup)

	ex.MovementType = taxonomy.MovementCompound
	ex.PrimaryMuscleGroup = taxonomy.MuscleBack
	touched = applyExerciseUpdate(&ex, UpdateExerciseRequest{BodyRegion: ptr(taxonomy.RegionFullBody)})
	s.False(touched)
	s.Equal(taxonomy.MuscleBack, ex.PrimaryMuscleGroup)
}

func (s *StoreTestSuite) TestFindExercise() {
	bench := s.bench()
	incline := s.createExercise("Incline Bench Press", taxonomy.RegionUpper, taxonomy.MovementPush, taxonomy.MuscleChest)

	got, err := s.store.FindExercise(s.ctx, "BENCH PRESS")
	s.Require().NoError(err)
	s.Equal(bench.ID, got.ID)

	got, err = s.store.FindExercise(s.ctx, "incline")
	s.Require().NoError(err)
	s.Equal(incline.ID, got.ID)

	got, err = s.store.FindExercise(s.ctx, bench.ID.String())
	s.Require().NoError(err)
	s.Equal(bench.ID, got.ID)

	got, err = s.store.FindExercise(s.ctx, models.ShortID(incline.ID))
	s.Require().NoError(err)
	s.Equal(incline.ID, got.ID)

	_, err = s.store.FindExercise(s.ctx, "bench")
	s.ErrorIs(err, ErrAmbiguousRef)

	_, err = s.store.FindExercise(s.ctx, "deadlift")
	s.ErrorIs(err, ErrExerciseNotFound)

	_, err = s.store.FindExercise(s.ctx, uuid.NewString())
	s.ErrorIs(err, ErrExerciseNotFound)
}

func (s *StoreTestSuite) TestSearchExercises() {
	s.bench()
	s.squat()
	s.treadmill()
	s.createExercise("100% Effort_Sprint", taxonomy.RegionCardio, taxonomy.MovementCardio, taxonomy.MuscleCardio)

	all, err := s.store.SearchExercises(s.ctx, ExerciseFilter{})
	s.Require().NoError(err)
	s.Len(all, 4)
	s.Equal("100% Effort_Sprint", all[0].Name)
	s.Equal("Treadmill", all[3].Name)

	cardio, err := s.store.SearchExercises(s.ctx, ExerciseFilter{Region: taxonomy.RegionCardio})
	s.Require().NoError(err)
	s.Len(cardio, 2)

	legs, err := s.store.SearchExercises(s.ctx, ExerciseFilter{Movement: taxonomy.MovementLegs, Query: "SQU"})
	s.Require().NoError(err)
	s.Require().Len(legs, 1)
	s.Equal("Squat", legs[0].Name)

	literal, err := s.store.SearchExercises(s.ctx, ExerciseFilter{Query: "%"})
	s.Require().NoError(err)
	s.Len(literal, 1)

	none, err := s.store.SearchExercises(s.ctx, ExerciseFilter{Query: "zzz"})
	s.Require().NoError(err)
	s.NotNil(none)
	s.Empty(none)
}

func (s *StoreTestSuite) TestDeleteExerciseCascades() {
	bench := s.bench()
	squat := s.squat()

	d := editor.NewDraft()
	d.Name = "Full Body"
	d.ToggleExercise(*bench)
	d.ToggleExercise(*squat)
	_, err := d.OpenExercise(bench.ID)
	s.Require().NoError(err)
	_, err = d.OpenExercise(squat.ID)
	s.Require().NoError(err)
	_, err = d.AddSet(squat.ID)
	s.Require().NoError(err)
	tmpl, err := s.store.SaveTemplate(s.ctx, d)
	s.Require().NoError(err)

	usage, err := s.store.ExerciseUsage(s.ctx, bench.ID)
	s.Require().NoError(err)
	s.Equal(ExerciseUsage{Templates: 1, Sets: 1}, usage)

	s.Require().NoError(s.store.DeleteExercise(s.ctx, bench.ID))

	got, err := s.store.GetWorkout(s.ctx, tmpl.ID)
	s.Require().NoError(err)
	s.Require().Len(got.Exercises, 1)
	s.Equal(squat.ID, got.Exercises[0].ID)
	s.Len(got.Sets, 2)

	s.ErrorIs(s.store.DeleteExercise(s.ctx, bench.ID), ErrExerciseNotFound)
}
