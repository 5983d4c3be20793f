package taxonomy

import (
	"database/sql/driver"
	"fmt"
)

// Unset classification values are stored as NULL. Text that no longer names a
// known value decodes to unset for the classification enums and to SetTypeUnknown
// for set types, so a loaded record is always representable.

func (r BodyRegion) Value() (driver.Value, error) { return nullable(string(r)), nil }
func (m MovementType) Value() (driver.Value, error) { return nullable(string(m)), nil }
func (g MuscleGroup) Value() (driver.Value, error) { return nullable(string(g)), nil }
func (e Equipment) Value() (driver.Value, error) { return nullable(string(e)), nil }

func (t SetType) Value() (driver.Value, error) {
	if t == "" {
		return string(SetTypeNormal), nil
	}
	return string(t), nil
}

func (r *BodyRegion) Scan(src any) error {
	return scanEnum(src, r, allRegions, regionAliases, "")
}

func (m *MovementType) Scan(src any) error {
	return scanEnum(src, m, allMovements, nil, "")
}

func (g *MuscleGroup) Scan(src any) error {
	return scanEnum(src, g, allMuscles, muscleAliases, "")
}

func (e *Equipment) Scan(src any) error {
	return scanEnum(src, e, allEquipment, equipmentAliases, "")
}

func (t *SetType) Scan(src any) error {
	if src == nil {
		*t = SetTypeNormal
		return nil
	}
	return scanEnum(src, t, allSetTypes, setTypeAliases, SetTypeUnknown)
}

func nullable(s string) driver.Value {
	if s == "" {
		return nil
	}
	return s
}

func scanEnum[T ~string](src any, dst *T, all []T, aliases map[string]T, fallback T) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*dst = ""
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("cannot scan %T into %T", src, dst)
	}
	if raw == "" {
		*dst = fallback
		return nil
	}
	parsed, err := lookup(all, aliases, raw, "")
	if err != nil {
		*dst = fallback
		return nil
	}
	*dst = parsed
	return nil
}
