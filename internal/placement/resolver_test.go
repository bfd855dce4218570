package placement

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/ghostbrush/internal/orient"
	"github.com/Faultbox/ghostbrush/internal/picking"
	"github.com/Faultbox/ghostbrush/internal/snap"
	"github.com/Faultbox/ghostbrush/pkg/grid"
)

var (
	builder = Actor{Name: "builder"}
	stone   = orient.Object{ID: 1, Code: "game:stone", Base: "game:stone"}
	floor   = grid.Pos{X: 4, Y: 10, Z: 4}
)

// topHit hits the top face of floor at planar coordinates (h, v) from the
// face center; h runs along X and v along Z.
func topHit(h, v float64) picking.Hit {
	hit, _ := picking.NewHit(floor, grid.Pos{Y: 1}, mgl64.Vec3{0.5 + h, 1, 0.5 + v})
	return hit
}

func TestResolveFallsBackToFaceNormal(t *testing.T) {
	above := floor.Add(grid.Pos{Y: 1})
	checker := &countingChecker{legal: map[grid.Pos]bool{above: true}}
	r := NewResolver(checker, 0, nil)

	pos, legal := r.Resolve(builder, stone, topHit(0.4, -0.4), snap.Default)
	if pos != above || !legal {
		t.Errorf("Resolve() = %v, %v; want %v, true", pos, legal, above)
	}
	if checker.calls != 2 {
		t.Errorf("legality queried %d times, want 2", checker.calls)
	}
}

func TestResolveSnappedLegal(t *testing.T) {
	beside := floor.Add(grid.Pos{X: 1, Y: 1, Z: -1})
	checker := &countingChecker{legal: map[grid.Pos]bool{beside: true}}
	r := NewResolver(checker, 0, nil)

	req := r.Build(builder, stone, orient.Definition{VariantID: 1}, topHit(0.4, -0.4), snap.Default)
	if req.Position != beside || !req.Legal || !req.Snapped {
		t.Errorf("Build() = %+v", req)
	}
	if checker.calls != 1 {
		t.Errorf("legality queried %d times, want 1", checker.calls)
	}
}

func TestResolveSnappedKeepsFaceNormal(t *testing.T) {
	// The floor layer itself is occupied; only cells above it are free.
	checker := &countingChecker{legal: map[grid.Pos]bool{
		floor.Add(grid.Pos{Y: 1}):       true,
		floor.Add(grid.Pos{X: 1, Y: 1}): true,
	}}
	r := NewResolver(checker, 0, nil)

	req := r.Build(builder, stone, orient.Definition{VariantID: 1}, topHit(0.4, 0), snap.Default)
	want := floor.Add(grid.Pos{X: 1, Y: 1})
	if req.Position != want || !req.Legal || !req.Snapped {
		t.Errorf("Build() = %+v, want snapped legal %v", req, want)
	}
	if checker.calls != 1 {
		t.Errorf("legality queried %d times, want 1", checker.calls)
	}
}

func TestResolveBothIllegal(t *testing.T) {
	checker := &countingChecker{}
	r := NewResolver(checker, 0, nil)

	req := r.Build(builder, stone, orient.Definition{VariantID: 1}, topHit(-0.3, 0), snap.Default)
	if req.Legal {
		t.Error("expected illegal request")
	}
	if req.Position != floor.Add(grid.Pos{Y: 1}) {
		t.Errorf("position = %v, want the face-normal cell", req.Position)
	}
	if checker.calls != 2 {
		t.Errorf("legality queried %d times, want 2", checker.calls)
	}
}

func TestResolveSameCandidateQueriedOnce(t *testing.T) {
	checker := &countingChecker{}
	r := NewResolver(checker, 0, nil)

	r.Resolve(builder, stone, topHit(0, 0), snap.Default)
	if checker.calls != 1 {
		t.Errorf("legality queried %d times, want 1", checker.calls)
	}
}

func TestResolveNeverExceedsTwoQueries(t *testing.T) {
	flags := []snap.Flags{snap.None, snap.Horizontal, snap.Vertical, snap.Default, snap.Default | snap.ApplyFaceNormalOffset}
	coords := []float64{-0.49, -0.2, 0, 0.1, 0.3, 0.49}
	for _, f := range flags {
		for _, h := range coords {
			for _, v := range coords {
				checker := &countingChecker{}
				NewResolver(checker, 0, nil).Resolve(builder, stone, topHit(h, v), f)
				if checker.calls > 2 {
					t.Fatalf("flags %v at (%v,%v): %d legality queries", f, h, v, checker.calls)
				}
			}
		}
	}
}

func TestResolveCustomThreshold(t *testing.T) {
	beside := floor.Add(grid.Pos{X: 1, Y: 1})
	checker := &countingChecker{legal: map[grid.Pos]bool{beside: true}}

	pos, _ := NewResolver(checker, 0.3, nil).Resolve(builder, stone, topHit(0.2, 0), snap.Default)
	if pos == beside {
		t.Error("0.2 should not snap with a 0.3 threshold")
	}
	pos, _ = NewResolver(checker, 0.1, nil).Resolve(builder, stone, topHit(0.2, 0), snap.Default)
	if pos != beside {
		t.Errorf("0.2 should snap with a 0.1 threshold, got %v", pos)
	}
}
