// Package snap biases a placement toward a neighboring cell based on where
// on a block face the cursor hit.
package snap

import (
	"fmt"
	"strings"

	"github.com/Faultbox/ghostbrush/internal/picking"
	"github.com/Faultbox/ghostbrush/pkg/grid"
)

// Flags selects which snapping behaviors are active. Bits are independent.
type Flags uint8

const (
	Horizontal Flags = 1 << iota
	Vertical
	// ApplyFaceNormalOffset is kept for flag parsing; the face normal is
	// always part of the delta.
	ApplyFaceNormalOffset

	None    Flags = 0
	Default       = Horizontal | Vertical
)

// Threshold is the distance from the face center, in block-local units,
// beyond which a planar coordinate snaps.
const Threshold = 0.15

var flagNames = []struct {
	flag Flags
	name string
}{
	{Horizontal, "horizontal"},
	{Vertical, "vertical"},
	{ApplyFaceNormalOffset, "facenormal"},
}

// Has reports whether every bit of x is set.
func (f Flags) Has(x Flags) bool {
	return f&x == x
}

func (f Flags) String() string {
	if f == None {
		return "none"
	}
	var parts []string
	for _, fn := range flagNames {
		if f.Has(fn.flag) {
			parts = append(parts, fn.name)
		}
	}
	return strings.Join(parts, "|")
}

// ParseFlags combines flag names ("horizontal", "vertical", "facenormal",
// "none"). An empty list yields None.
func ParseFlags(names []string) (Flags, error) {
	var f Flags
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "none" || name == "" {
			continue
		}
		found := false
		for _, fn := range flagNames {
			if fn.name == name {
				f |= fn.flag
				found = true
				break
			}
		}
		if !found {
			return None, fmt.Errorf("unknown snapping flag %q", raw)
		}
	}
	return f, nil
}

// Offsets holds one signed trit per face-relative axis.
type Offsets struct {
	H, V int
}

// IsZero reports whether neither axis snapped.
func (o Offsets) IsZero() bool {
	return o.H == 0 && o.V == 0
}

// World re-projects the face-relative offsets into world space for a face
// whose normal points along axis.
func (o Offsets) World(axis grid.Axis) grid.Pos {
	hAxis, vAxis := PlaneAxes(axis)
	var p grid.Pos
	p.Set(hAxis, o.H)
	p.Set(vAxis, o.V)
	return p
}

// PlaneAxes returns the world axes that "horizontal" and "vertical" map to
// on a face whose normal points along axis.
func PlaneAxes(axis grid.Axis) (h, v grid.Axis) {
	switch axis {
	case grid.AxisX:
		return grid.AxisZ, grid.AxisY
	case grid.AxisY:
		return grid.AxisX, grid.AxisZ
	default:
		return grid.AxisX, grid.AxisY
	}
}

// Planar returns the hit point relative to the face center, projected onto
// the face plane. Both values lie roughly in [-0.5, 0.5].
func Planar(hit picking.Hit) (h, v float64) {
	d := hit.Local.Sub(grid.FaceCenter(hit.Normal))
	hAxis, vAxis := PlaneAxes(hit.Axis)
	return d[hAxis], d[vAxis]
}

// Resolve computes the snapping offsets for hit with the default threshold.
func Resolve(hit picking.Hit, flags Flags) Offsets {
	return ResolveWith(hit, flags, Threshold)
}

// ResolveWith computes the snapping offsets for hit. Axes whose flag is not
// set resolve to 0.
func ResolveWith(hit picking.Hit, flags Flags, threshold float64) Offsets {
	h, v := Planar(hit)
	var o Offsets
	if flags.Has(Horizontal) {
		o.H = trit(h, threshold)
	}
	if flags.Has(Vertical) {
		o.V = trit(v, threshold)
	}
	return o
}

// Delta returns the grid offset from the hit block to the candidate cell.
func Delta(hit picking.Hit, flags Flags) grid.Pos {
	return DeltaWith(hit, flags, Threshold)
}

// DeltaWith returns the grid offset from the hit block to the candidate
// cell: the face normal plus the snapped in-plane offsets. The normal is
// always applied, so ApplyFaceNormalOffset does not change the result.
func DeltaWith(hit picking.Hit, flags Flags, threshold float64) grid.Pos {
	o := ResolveWith(hit, flags, threshold)
	return o.World(hit.Axis).Add(hit.Normal)
}

func trit(v, threshold float64) int {
	switch {
	case v > threshold:
		return 1
	case v < -threshold:
		return -1
	default:
		return 0
	}
}
