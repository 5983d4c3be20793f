package taxonomy

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	ErrUnknownValue               = errors.New("unknown taxonomy value")
	ErrInconsistentClassification = errors.New("inconsistent classification")
)

// BodyRegion is the coarse area of the body an exercise trains
type BodyRegion string

const (
	RegionUpper    BodyRegion = "Upper Body"
	RegionLower    BodyRegion = "Lower Body"
	RegionFullBody BodyRegion = "Full Body"
	RegionCore     BodyRegion = "Core"
	RegionCardio   BodyRegion = "Cardio"
	RegionOther    BodyRegion = "Other"
)

// MovementType is the movement pattern of an exercise
type MovementType string

const (
	MovementPush      MovementType = "Push"
	MovementPull      MovementType = "Pull"
	MovementLegs      MovementType = "Legs"
	MovementCompound  MovementType = "Compound"
	MovementIsolation MovementType = "Isolation"
	MovementCardio    MovementType = "Cardio"
	MovementOther     MovementType = "Other"
)

// MuscleGroup is the primary muscle group an exercise targets
type MuscleGroup string

const (
	MuscleChest      MuscleGroup = "Chest"
	MuscleTriceps    MuscleGroup = "Triceps"
	MuscleShoulders  MuscleGroup = "Shoulders"
	MuscleBack       MuscleGroup = "Back"
	MuscleBiceps     MuscleGroup = "Biceps"
	MuscleForearms   MuscleGroup = "Forearms"
	MuscleQuadriceps MuscleGroup = "Quadriceps"
	MuscleHamstrings MuscleGroup = "Hamstrings"
	MuscleGlutes     MuscleGroup = "Glutes"
	MuscleCalves     MuscleGroup = "Calves"
	MuscleAbs        MuscleGroup = "Abs"
	MuscleObliques   MuscleGroup = "Obliques"
	MuscleFullBody   MuscleGroup = "Full Body"
	MuscleCardio     MuscleGroup = "Cardio"
	MuscleOther      MuscleGroup = "Other"
)

// Equipment is what an exercise is performed with
type Equipment string

const (
	EquipmentBarbell    Equipment = "Barbell"
	EquipmentDumbbell   Equipment = "Dumbbell"
	EquipmentMachine    Equipment = "Machine"
	EquipmentCable      Equipment = "Cable"
	EquipmentBodyweight Equipment = "Bodyweight"
	EquipmentOther      Equipment = "Other"
)

// SetType describes how a set was performed
type SetType string

const (
	SetTypeNormal   SetType = "Normal"
	SetTypeWarmUp   SetType = "Warm-up"
	SetTypeDrop     SetType = "Drop Set"
	SetTypeFailure  SetType = "To Failure"
	SetTypeSuperset SetType = "Superset"
	SetTypeGiant    SetType = "Giant Set"
	SetTypePyramid  SetType = "Pyramid"
	SetTypeCustom   SetType = "Custom"
	SetTypeUnknown  SetType = "Unknown"
)

var allRegions = []BodyRegion{RegionUpper, RegionLower, RegionFullBody, RegionCore, RegionCardio, RegionOther}

var allMovements = []MovementType{
	MovementPush, MovementPull, MovementLegs, MovementCompound, MovementIsolation, MovementCardio, MovementOther,
}

var allMuscles = []MuscleGroup{
	MuscleChest, MuscleTriceps, MuscleShoulders, MuscleBack, MuscleBiceps, MuscleForearms,
	MuscleQuadriceps, MuscleHamstrings, MuscleGlutes, MuscleCalves, MuscleAbs, MuscleObliques,
	MuscleFullBody, MuscleCardio, MuscleOther,
}

var allEquipment = []Equipment{
	EquipmentBarbell, EquipmentDumbbell, EquipmentMachine, EquipmentCable, EquipmentBodyweight, EquipmentOther,
}

var allSetTypes = []SetType{
	SetTypeNormal, SetTypeWarmUp, SetTypeDrop, SetTypeFailure, SetTypeSuperset,
	SetTypeGiant, SetTypePyramid, SetTypeCustom, SetTypeUnknown,
}

func AllBodyRegions() []BodyRegion     { return slices.Clone(allRegions) }
func AllMovementTypes() []MovementType { return slices.Clone(allMovements) }
func AllMuscleGroups() []MuscleGroup   { return slices.Clone(allMuscles) }
func AllEquipment() []Equipment        { return slices.Clone(allEquipment) }
func AllSetTypes() []SetType           { return slices.Clone(allSetTypes) }

// MovementTypesFor returns the movement types that make sense for a body region.
// An unset or unrecognised region yields the same list as RegionOther.
func MovementTypesFor(region BodyRegion) []MovementType {
	switch region {
	case RegionUpper:
		return []MovementType{MovementPush, MovementPull, MovementCompound, MovementIsolation, MovementOther}
	case RegionLower:
		return []MovementType{MovementLegs, MovementCompound, MovementIsolation, MovementOther}
	case RegionFullBody:
		return []MovementType{MovementCompound, MovementOther}
	case RegionCore:
		return []MovementType{MovementIsolation, MovementCompound, MovementOther}
	case RegionCardio:
		return []MovementType{MovementCardio}
	default:
		return without(allMovements, MovementCardio)
	}
}

// MuscleGroupsFor returns the primary muscle groups that make sense for a movement type.
// An unset or unrecognised movement yields the same list as MovementOther.
func MuscleGroupsFor(movement MovementType) []MuscleGroup {
	switch movement {
	case MovementPush:
		return []MuscleGroup{MuscleChest, MuscleShoulders, MuscleTriceps, MuscleOther}
	case MovementPull:
		return []MuscleGroup{MuscleBack, MuscleBiceps, MuscleForearms, MuscleOther}
	case MovementLegs:
		return []MuscleGroup{MuscleQuadriceps, MuscleHamstrings, MuscleGlutes, MuscleCalves, MuscleOther}
	case MovementCompound:
		return []MuscleGroup{
			MuscleFullBody, MuscleChest, MuscleBack, MuscleShoulders, MuscleQuadriceps,
			MuscleHamstrings, MuscleGlutes, MuscleAbs, MuscleOther,
		}
	case MovementIsolation:
		return []MuscleGroup{
			MuscleBiceps, MuscleTriceps, MuscleShoulders, MuscleChest, MuscleBack, MuscleQuadriceps,
			MuscleHamstrings, MuscleGlutes, MuscleCalves, MuscleAbs, MuscleObliques, MuscleForearms, MuscleOther,
		}
	case MovementCardio:
		return []MuscleGroup{MuscleCardio}
	default:
		return without(allMuscles, MuscleCardio, MuscleFullBody)
	}
}

// AvailableMovementTypes is the filter list offered when browsing exercises.
// With no region selected cardio is hidden, since it only pairs with the cardio region.
func AvailableMovementTypes(region BodyRegion) []MovementType {
	if region == "" {
		return without(allMovements, MovementCardio)
	}
	return MovementTypesFor(region)
}

// AvailableMuscleGroups is the filter list offered when browsing exercises.
func AvailableMuscleGroups(movement MovementType) []MuscleGroup {
	if movement == "" {
		return AllMuscleGroups()
	}
	return MuscleGroupsFor(movement)
}

// ValidateClassification checks that movement fits region and muscle fits movement.
// Unset values are not checked.
func ValidateClassification(region BodyRegion, movement MovementType, muscle MuscleGroup) error {
	if region != "" && movement != "" && !slices.Contains(MovementTypesFor(region), movement) {
		return fmt.Errorf("%w: movement type %q is not valid for body region %q",
			ErrInconsistentClassification, movement, region)
	}
	if movement != "" && muscle != "" && !slices.Contains(MuscleGroupsFor(movement), muscle) {
		return fmt.Errorf("%w: muscle group %q is not valid for movement type %q",
			ErrInconsistentClassification, muscle, movement)
	}
	return nil
}

// IsDuration reports whether sets of this movement are logged as time rather than reps x weight
func (m MovementType) IsDuration() bool {
	return m == MovementCardio
}

func without[T comparable](all []T, drop ...T) []T {
	out := make([]T, 0, len(all))
	for _, v := range all {
		if !slices.Contains(drop, v) {
			out = append(out, v)
		}
	}
	return out
}

func normalizeKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("-", "", "_", "", " ", "").Replace(s)
	return s
}
