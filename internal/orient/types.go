// Package orient classifies how placeable objects rotate, enumerates their
// orientation states and tracks which state a preview session has selected.
package orient

import "fmt"

// ObjectID identifies one concrete object variant in the host world model.
type ObjectID int

// Object is a read-only view of a placeable object type.
type Object struct {
	ID ObjectID
	// Code is the full hierarchical code, e.g. "game:torch-north".
	Code string
	// Base is the code without variant parts, shared by all siblings.
	Base    string
	Variant map[string]string
}

// VariantValue returns the value of a variant key, if declared.
func (o Object) VariantValue(key string) (string, bool) {
	v, ok := o.Variant[key]
	return v, ok
}

// RotationMode describes how an object type supports orientation changes.
type RotationMode uint8

const (
	ModeNone RotationMode = iota
	ModeVariantBased
	ModeRotatable
	ModeHybrid
)

func (m RotationMode) String() string {
	switch m {
	case ModeNone:
		return "None"
	case ModeVariantBased:
		return "VariantBased"
	case ModeRotatable:
		return "Rotatable"
	case ModeHybrid:
		return "Hybrid"
	default:
		return fmt.Sprintf("RotationMode(%d)", m)
	}
}

// Definition is one discrete orientation state: a variant identity paired
// with a mesh rotation angle in degrees.
type Definition struct {
	VariantID ObjectID
	MeshAngle float64
	// RotationAttribute names the live-object attribute that stores
	// MeshAngle. Empty for definitions that never rotate a mesh.
	RotationAttribute string
}

func (d Definition) String() string {
	if d.RotationAttribute == "" {
		return fmt.Sprintf("#%d@%g", d.VariantID, d.MeshAngle)
	}
	return fmt.Sprintf("#%d@%g(%s)", d.VariantID, d.MeshAngle, d.RotationAttribute)
}

// Table is the ordered orientation enumeration for one object.
// Index 0 is the default, unrotated state.
type Table []Definition

// FindIndex returns the index of the first definition whose variant is id,
// or 0 when there is none.
func FindIndex(t Table, id ObjectID) int {
	for i, d := range t {
		if d.VariantID == id {
			return i
		}
	}
	return 0
}

func noRotationTable(id ObjectID) Table {
	return Table{{VariantID: id}}
}
