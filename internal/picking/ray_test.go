package picking

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/ghostbrush/pkg/grid"
)

func TestIntersectBlockTopFace(t *testing.T) {
	r := NewRay(mgl64.Vec3{2.25, 10, 3.75}, mgl64.Vec3{0, -1, 0})
	hit, ok := r.IntersectBlock(grid.Pos{X: 2, Y: 4, Z: 3})
	if !ok {
		t.Fatal("expected hit")
	}
	if hit.Axis != grid.AxisY || hit.Normal != (grid.Pos{Y: 1}) {
		t.Errorf("face = %v %v, want Y +1", hit.Axis, hit.Normal)
	}
	if !hit.Local.ApproxEqual(mgl64.Vec3{0.25, 1, 0.75}) {
		t.Errorf("local = %v", hit.Local)
	}
	if !mgl64.FloatEqual(hit.Distance, 5) {
		t.Errorf("distance = %v, want 5", hit.Distance)
	}
	if hit.Adjacent() != (grid.Pos{X: 2, Y: 5, Z: 3}) {
		t.Errorf("adjacent = %v", hit.Adjacent())
	}
}

func TestIntersectBlockSideFace(t *testing.T) {
	r := NewRay(mgl64.Vec3{-3, 0.5, 0.5}, mgl64.Vec3{2, 0, 0})
	hit, ok := r.IntersectBlock(grid.Pos{})
	if !ok {
		t.Fatal("expected hit")
	}
	if hit.Normal != (grid.Pos{X: -1}) {
		t.Errorf("normal = %v, want -X", hit.Normal)
	}
}

func TestIntersectBlockMiss(t *testing.T) {
	tests := []struct {
		name string
		ray  Ray
	}{
		{"parallel outside", NewRay(mgl64.Vec3{0, 5, 0}, mgl64.Vec3{1, 0, 0})},
		{"behind origin", NewRay(mgl64.Vec3{0.5, 5, 0.5}, mgl64.Vec3{0, 1, 0})},
		{"starts inside", NewRay(mgl64.Vec3{0.5, 0.5, 0.5}, mgl64.Vec3{0, 1, 0})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := tt.ray.IntersectBlock(grid.Pos{}); ok {
				t.Error("expected miss")
			}
		})
	}
}

func TestWalk(t *testing.T) {
	solid := map[grid.Pos]bool{
		{X: 5, Y: 0, Z: 0}: true,
		{X: 0, Y: 0, Z: 0}: true, // origin cell, ignored
	}
	r := NewRay(mgl64.Vec3{0.5, 0.5, 0.5}, mgl64.Vec3{1, 0, 0})

	hit, ok := r.Walk(10, func(p grid.Pos) bool { return solid[p] })
	if !ok {
		t.Fatal("expected hit")
	}
	if hit.Block != (grid.Pos{X: 5}) {
		t.Errorf("block = %v, want (5,0,0)", hit.Block)
	}
	if hit.Normal != (grid.Pos{X: -1}) {
		t.Errorf("normal = %v, want -X", hit.Normal)
	}
	if !hit.Local.ApproxEqual(mgl64.Vec3{0, 0.5, 0.5}) {
		t.Errorf("local = %v", hit.Local)
	}

	if _, ok := r.Walk(3, func(p grid.Pos) bool { return solid[p] }); ok {
		t.Error("hit beyond maxDist")
	}
}

func TestWalkDownward(t *testing.T) {
	r := NewRay(mgl64.Vec3{1.3, 8, -2.6}, mgl64.Vec3{0, -1, 0})
	hit, ok := r.Walk(20, func(p grid.Pos) bool { return p.Y <= 2 })
	if !ok {
		t.Fatal("expected hit")
	}
	if hit.Block != (grid.Pos{X: 1, Y: 2, Z: -3}) {
		t.Errorf("block = %v", hit.Block)
	}
	if hit.Axis != grid.AxisY || hit.Normal.Y != 1 {
		t.Errorf("face = %v %v", hit.Axis, hit.Normal)
	}
}

func TestNewHitRejectsBadNormal(t *testing.T) {
	if _, ok := NewHit(grid.Pos{}, grid.Pos{X: 1, Y: 1}, mgl64.Vec3{}); ok {
		t.Error("diagonal normal accepted")
	}
}
