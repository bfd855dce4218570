// Package picking casts rays against the voxel grid and reports which block
// face was hit and where.
package picking

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/ghostbrush/pkg/grid"
)

// Ray represents a ray in world space with origin and direction.
type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3 // Normalized direction
}

// NewRay creates a ray, normalizing dir.
func NewRay(origin, dir mgl64.Vec3) Ray {
	if l := dir.Len(); l > 0 {
		dir = dir.Mul(1 / l)
	}
	return Ray{Origin: origin, Direction: dir}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Hit describes where a ray entered a block.
type Hit struct {
	Block grid.Pos
	// Axis is the world axis the face normal points along.
	Axis grid.Axis
	// Normal is the outward unit normal of the face that was hit.
	Normal grid.Pos
	// Local is the hit point in block-local space, each component in [0,1].
	Local    mgl64.Vec3
	Distance float64
}

// NewHit builds a hit on block's face with outward normal n. ok is false
// when n is not an axis-aligned unit vector.
func NewHit(block, n grid.Pos, local mgl64.Vec3) (Hit, bool) {
	axis, ok := grid.NormalAxis(n)
	if !ok {
		return Hit{}, false
	}
	return Hit{Block: block, Axis: axis, Normal: n, Local: clampLocal(local)}, true
}

// Adjacent returns the cell in front of the hit face.
func (h Hit) Adjacent() grid.Pos {
	return h.Block.Add(h.Normal)
}

// IntersectBlock tests the ray against the unit block at p using the slab
// method. Rays starting inside the block do not hit it.
func (r Ray) IntersectBlock(p grid.Pos) (Hit, bool) {
	tmin := -math.MaxFloat64
	tmax := math.MaxFloat64
	entry := grid.AxisX
	corner := p.Vec()

	for i := 0; i < 3; i++ {
		lo, hi := corner[i], corner[i]+1
		if r.Direction[i] == 0 {
			if r.Origin[i] < lo || r.Origin[i] > hi {
				return Hit{}, false
			}
			continue
		}
		t1 := (lo - r.Origin[i]) / r.Direction[i]
		t2 := (hi - r.Origin[i]) / r.Direction[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
			entry = grid.Axis(i)
		}
		if t2 < tmax {
			tmax = t2
		}
	}

	if tmax < tmin || tmax < 0 || tmin < 0 {
		return Hit{}, false
	}

	n := grid.Unit(entry, -sign(r.Direction[entry]))
	hit, _ := NewHit(p, n, r.At(tmin).Sub(corner))
	hit.Distance = tmin
	return hit, true
}

// Walk steps through grid cells along the ray (Amanatides & Woo) and
// returns the first solid block within maxDist. The cell containing the
// origin is never reported.
func (r Ray) Walk(maxDist float64, solid func(grid.Pos) bool) (Hit, bool) {
	cell := grid.Floor(r.Origin)
	var step [3]int
	var tMax, tDelta [3]float64

	for i := 0; i < 3; i++ {
		d := r.Direction[i]
		switch {
		case d > 0:
			step[i] = 1
			tMax[i] = (float64(cell.Get(grid.Axis(i))+1) - r.Origin[i]) / d
			tDelta[i] = 1 / d
		case d < 0:
			step[i] = -1
			tMax[i] = (float64(cell.Get(grid.Axis(i))) - r.Origin[i]) / d
			tDelta[i] = -1 / d
		default:
			tMax[i] = math.Inf(1)
			tDelta[i] = math.Inf(1)
		}
	}

	for {
		axis := 0
		if tMax[1] < tMax[axis] {
			axis = 1
		}
		if tMax[2] < tMax[axis] {
			axis = 2
		}
		t := tMax[axis]
		if t > maxDist || math.IsInf(t, 1) {
			return Hit{}, false
		}

		a := grid.Axis(axis)
		cell.Set(a, cell.Get(a)+step[axis])
		tMax[axis] += tDelta[axis]

		if solid(cell) {
			n := grid.Unit(a, -step[axis])
			hit, _ := NewHit(cell, n, r.At(t).Sub(cell.Vec()))
			hit.Distance = t
			return hit, true
		}
	}
}

func sign(v float64) int {
	if v < 0 {
		return -1
	}
	return 1
}

func clampLocal(v mgl64.Vec3) mgl64.Vec3 {
	for i := range v {
		v[i] = mgl64.Clamp(v[i], 0, 1)
	}
	return v
}
