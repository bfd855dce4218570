// Package grid provides integer voxel grid types and block face helpers.
package grid

// Axis identifies one of the three world axes.
type Axis uint8

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// String returns the axis name.
func (a Axis) String() string {
	switch a {
	case AxisX:
		return "X"
	case AxisY:
		return "Y"
	case AxisZ:
		return "Z"
	default:
		return "?"
	}
}

// ParseAxis parses "x", "y" or "z" (any case).
func ParseAxis(s string) (Axis, bool) {
	switch s {
	case "x", "X":
		return AxisX, true
	case "y", "Y":
		return AxisY, true
	case "z", "Z":
		return AxisZ, true
	}
	return 0, false
}

// Unit returns the unit vector along axis with the given sign (+1 or -1).
func Unit(axis Axis, sign int) Pos {
	if sign < 0 {
		sign = -1
	} else {
		sign = 1
	}
	var p Pos
	p.Set(axis, sign)
	return p
}

// Faces lists the six outward face normals of a block.
var Faces = [6]Pos{
	{X: 1}, {X: -1},
	{Y: 1}, {Y: -1},
	{Z: 1}, {Z: -1},
}
