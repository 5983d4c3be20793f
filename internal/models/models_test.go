package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/balkashynov/liftlog/internal/taxonomy"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestClampRPE(t *testing.T) {
	assert.Equal(t, 10.0, ClampRPE(15))
	assert.Equal(t, 0.0, ClampRPE(-3))
	assert.Equal(t, 7.5, ClampRPE(7.5))
}

func TestSetValues_Normalize(t *testing.T) {
	v := SetValues{Reps: -2, Weight: -10, RPE: 11, DurationSeconds: -30}.Normalize()
	assert.Equal(t, 0, v.Reps)
	assert.Equal(t, 0.0, v.Weight)
	assert.Equal(t, 10.0, v.RPE)
	assert.Equal(t, 0, v.DurationSeconds)
	assert.Equal(t, taxonomy.SetTypeNormal, v.SetType)
}

func TestSetValues_CarryForwardDropsNotes(t *testing.T) {
	prev := SetValues{Reps: 8, Weight: 60, RPE: 8, SetType: taxonomy.SetTypeDrop, Notes: "grip slipped"}
	next := prev.CarryForward()
	assert.Equal(t, 8, next.Reps)
	assert.Equal(t, 60.0, next.Weight)
	assert.Equal(t, 8.0, next.RPE)
	assert.Equal(t, taxonomy.SetTypeDrop, next.SetType)
	assert.Empty(t, next.Notes)
}

func TestSet_BeforeSaveNormalizes(t *testing.T) {
	s := &Set{SetValues: SetValues{RPE: 15}}
	require.NoError(t, s.BeforeSave(nil))
	assert.Equal(t, 10.0, s.RPE)

	s.RPE = -3
	require.NoError(t, s.BeforeSave(nil))
	assert.Equal(t, 0.0, s.RPE)
}

func TestBeforeCreateAssignsIDs(t *testing.T) {
	e := &Exercise{}
	require.NoError(t, e.BeforeCreate(nil))
	assert.NotEqual(t, uuid.Nil, e.ID)

	fixed := uuid.New()
	w := &Workout{ID: fixed}
	require.NoError(t, w.BeforeCreate(nil))
	assert.Equal(t, fixed, w.ID)
}

func TestSortSets(t *testing.T) {
	now := time.Now()
	sets := []Set{
		{ID: uuid.New(), Position: 2, CreatedAt: now},
		{ID: uuid.New(), Position: 0, CreatedAt: now.Add(time.Second)},
		{ID: uuid.New(), Position: 1, CreatedAt: now},
		{ID: uuid.New(), Position: 0, CreatedAt: now},
	}
	first := sets[3].ID
	SortSets(sets)
	assert.Equal(t, first, sets[0].ID)
	assert.Equal(t, 0, sets[1].Position)
	assert.Equal(t, 1, sets[2].Position)
	assert.Equal(t, 2, sets[3].Position)
}

func TestWorkout_OrderedExercisesAndSetsFor(t *testing.T) {
	squat := Exercise{ID: uuid.New(), Name: "squat"}
	bench := Exercise{ID: uuid.New(), Name: "Bench Press"}
	w := Workout{
		Exercises: []Exercise{squat, bench},
		Sets: []Set{
			{ID: uuid.New(), ExerciseID: squat.ID, Position: 1},
			{ID: uuid.New(), ExerciseID: bench.ID, Position: 0},
			{ID: uuid.New(), ExerciseID: squat.ID, Position: 0},
		},
	}

	ordered := w.OrderedExercises()
	require.Len(t, ordered, 2)
	assert.Equal(t, "Bench Press", ordered[0].Name)
	assert.Equal(t, "squat", w.Exercises[0].Name, "original slice untouched")

	squatSets := w.SetsFor(squat.ID)
	require.Len(t, squatSets, 2)
	assert.Equal(t, 0, squatSets[0].Position)
	assert.Equal(t, 1, squatSets[1].Position)
}

func TestWorkout_DurationAndActive(t *testing.T) {
	start := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	end := start.Add(75 * time.Minute)
	w := Workout{StartedAt: &start}
	assert.True(t, w.IsActive())
	assert.Zero(t, w.Duration())

	w.FinishedAt = &end
	assert.False(t, w.IsActive())
	assert.Equal(t, 75*time.Minute, w.Duration())

	tmpl := Workout{IsTemplate: true}
	assert.False(t, tmpl.IsActive())
}
