package taxonomy

import "fmt"

var regionAliases = map[string]BodyRegion{
	"upper": RegionUpper,
	"lower": RegionLower,
	"full":  RegionFullBody,
}

var muscleAliases = map[string]MuscleGroup{
	"quads":  MuscleQuadriceps,
	"hams":   MuscleHamstrings,
	"delts":  MuscleShoulders,
	"lats":   MuscleBack,
	"core":   MuscleAbs,
	"traps":  MuscleBack,
	"glute":  MuscleGlutes,
	"calf":   MuscleCalves,
	"bicep":  MuscleBiceps,
	"tricep": MuscleTriceps,
}

var equipmentAliases = map[string]Equipment{
	"bb":   EquipmentBarbell,
	"db":   EquipmentDumbbell,
	"bw":   EquipmentBodyweight,
	"none": EquipmentBodyweight,
}

var setTypeAliases = map[string]SetType{
	"warmup":  SetTypeWarmUp,
	"warm":    SetTypeWarmUp,
	"drop":    SetTypeDrop,
	"failure": SetTypeFailure,
	"fail":    SetTypeFailure,
	"giant":   SetTypeGiant,
	"super":   SetTypeSuperset,
}

func ParseBodyRegion(s string) (BodyRegion, error) {
	return lookup(allRegions, regionAliases, s, "body region")
}

func ParseMovementType(s string) (MovementType, error) {
	return lookup(allMovements, nil, s, "movement type")
}

func ParseMuscleGroup(s string) (MuscleGroup, error) {
	return lookup(allMuscles, muscleAliases, s, "muscle group")
}

func ParseEquipment(s string) (Equipment, error) {
	return lookup(allEquipment, equipmentAliases, s, "equipment")
}

func ParseSetType(s string) (SetType, error) {
	return lookup(allSetTypes, setTypeAliases, s, "set type")
}

// lookup matches s against the raw values of a closed enum, ignoring case, spaces,
// dashes and underscores, then against the short aliases.
func lookup[T ~string](all []T, aliases map[string]T, s, kind string) (T, error) {
	key := normalizeKey(s)
	for _, v := range all {
		if normalizeKey(string(v)) == key {
			return v, nil
		}
	}
	if v, ok := aliases[key]; ok {
		return v, nil
	}
	var zero T
	return zero, fmt.Errorf("%w: %s %q", ErrUnknownValue, kind, s)
}
