package grid

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Pos is an integer block position (or offset) on the voxel grid.
type Pos struct {
	X, Y, Z int
}

// Add returns p + other.
func (p Pos) Add(other Pos) Pos {
	return Pos{p.X + other.X, p.Y + other.Y, p.Z + other.Z}
}

// Sub returns p - other.
func (p Pos) Sub(other Pos) Pos {
	return Pos{p.X - other.X, p.Y - other.Y, p.Z - other.Z}
}

// Scale returns p * s.
func (p Pos) Scale(s int) Pos {
	return Pos{p.X * s, p.Y * s, p.Z * s}
}

// IsZero reports whether all components are zero.
func (p Pos) IsZero() bool {
	return p == Pos{}
}

// Get returns the component along axis.
func (p Pos) Get(axis Axis) int {
	switch axis {
	case AxisX:
		return p.X
	case AxisY:
		return p.Y
	default:
		return p.Z
	}
}

// Set assigns the component along axis.
func (p *Pos) Set(axis Axis, v int) {
	switch axis {
	case AxisX:
		p.X = v
	case AxisY:
		p.Y = v
	default:
		p.Z = v
	}
}

// Vec returns p as a float vector (the block's minimum corner).
func (p Pos) Vec() mgl64.Vec3 {
	return mgl64.Vec3{float64(p.X), float64(p.Y), float64(p.Z)}
}

// Center returns the world-space center of the block at p.
func (p Pos) Center() mgl64.Vec3 {
	return p.Vec().Add(mgl64.Vec3{0.5, 0.5, 0.5})
}

// DistanceTo returns the euclidean distance between block centers.
func (p Pos) DistanceTo(other Pos) float64 {
	d := p.Sub(other)
	return math.Sqrt(float64(d.X*d.X + d.Y*d.Y + d.Z*d.Z))
}

func (p Pos) String() string {
	return fmt.Sprintf("(%d,%d,%d)", p.X, p.Y, p.Z)
}

// Floor returns the block containing the world point v.
func Floor(v mgl64.Vec3) Pos {
	return Pos{
		X: int(math.Floor(v[0])),
		Y: int(math.Floor(v[1])),
		Z: int(math.Floor(v[2])),
	}
}

// NormalAxis returns the axis a unit face normal points along.
// ok is false when n is not an axis-aligned unit vector.
func NormalAxis(n Pos) (axis Axis, ok bool) {
	switch {
	case (n.X == 1 || n.X == -1) && n.Y == 0 && n.Z == 0:
		return AxisX, true
	case n.X == 0 && (n.Y == 1 || n.Y == -1) && n.Z == 0:
		return AxisY, true
	case n.X == 0 && n.Y == 0 && (n.Z == 1 || n.Z == -1):
		return AxisZ, true
	}
	return 0, false
}

// FaceCenter returns the center of the face with outward normal n, in
// block-local coordinates where the block spans [0,1] on every axis.
func FaceCenter(n Pos) mgl64.Vec3 {
	return mgl64.Vec3{
		0.5 + 0.5*float64(n.X),
		0.5 + 0.5*float64(n.Y),
		0.5 + 0.5*float64(n.Z),
	}
}
