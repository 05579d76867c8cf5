// Package registry holds the immutable, compile-time register catalog:
// canonical register definitions for every supported model family, their
// address, width, word order, scale, and signedness. It is a leaf package
// — no other package in this module is imported here — consumed by the
// decode and device packages.
package registry

// ModelFamily identifies a device's register layout variant.
type ModelFamily string

const (
	// FamilyEG4Hybrid is the default 12kW-class hybrid inverter layout
	// with 32-bit power registers. Used when no family filter matches.
	FamilyEG4Hybrid ModelFamily = "EG4_HYBRID"
	// FamilyEG4OffGrid is the off-grid-only variant (no grid-tie fields).
	FamilyEG4OffGrid ModelFamily = "EG4_OFFGRID"
	// FamilyLXPEU is the European 12K variant: a 4-register address
	// offset and 16-bit power values where the hybrid family uses 32-bit.
	FamilyLXPEU ModelFamily = "LXP_EU"
	// FamilyGridBOSS is the MID/GridBOSS grid-management companion
	// device, device-type code 50.
	FamilyGridBOSS ModelFamily = "GRIDBOSS"
)

// Category tags a register's semantic grouping.
type Category string

const (
	CategoryRuntime Category = "runtime"
	CategoryEnergy  Category = "energy"
	CategoryBattery Category = "battery"
	CategoryGridBOSS Category = "gridboss"
	CategoryPacked  Category = "packed"
)

// Scale is one of the four engineering-unit scale factors a raw register
// integer may carry. Zero value is ScaleNone.
type Scale int

const (
	ScaleNone Scale = iota
	ScaleDiv10
	ScaleDiv100
	ScaleDiv1000
)

// Factor returns the float64 multiplier read_scaled applies to the raw
// integer to produce engineering units.
func (s Scale) Factor() float64 {
	switch s {
	case ScaleDiv10:
		return 0.1
	case ScaleDiv100:
		return 0.01
	case ScaleDiv1000:
		return 0.001
	default:
		return 1
	}
}

// Field is an immutable register definition shared by input (read-only
// runtime/energy/battery) and holding (parameter) registers.
type Field struct {
	Name              string
	Address           uint16
	BitWidth          int // 16 or 32
	LittleEndianWords bool // low word at Address, high word at Address+1
	Signed            bool
	ScaleFactor       Scale
	Families          map[ModelFamily]bool
	Category          Category
}

// InFamily reports whether the field is present for the given model
// family. A field with no declared families is treated as universal.
func (f Field) InFamily(family ModelFamily) bool {
	if len(f.Families) == 0 {
		return true
	}
	return f.Families[family]
}

// WritableField extends Field with the bounds a caller-supplied write
// must satisfy before it is attempted, mirroring HoldingRegisterField's
// min_value/max_value in the source register map.
type WritableField struct {
	Field
	MinValue *float64
	MaxValue *float64
}

// RegisterGroup is a contiguous read window declared by the catalog for
// efficient bulk reads: at most 40 registers for the input-register
// groups, 127 for the holding-register groups.
type RegisterGroup struct {
	Name          string
	Start         uint16
	Count         uint16
	Supplementary bool // failures logged and swallowed, not propagated
}

var allFamilies = map[ModelFamily]bool{
	FamilyEG4Hybrid:  true,
	FamilyEG4OffGrid: true,
	FamilyLXPEU:      true,
}

func families(fs ...ModelFamily) map[ModelFamily]bool {
	m := make(map[ModelFamily]bool, len(fs))
	for _, f := range fs {
		m[f] = true
	}
	return m
}
