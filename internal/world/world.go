// Package world is a small bounded voxel world used to host ghost previews.
package world

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/ghostbrush/internal/orient"
	"github.com/Faultbox/ghostbrush/internal/picking"
	"github.com/Faultbox/ghostbrush/internal/placement"
	"github.com/Faultbox/ghostbrush/pkg/grid"
)

var (
	// ErrOutOfBounds is returned for positions outside the grid.
	ErrOutOfBounds = errors.New("position out of bounds")
	// ErrOccupied is returned when placing into a filled cell.
	ErrOccupied = errors.New("cell occupied")
	// ErrNotEntity is returned when a live object does not belong to the grid.
	ErrNotEntity = errors.New("not a block entity of this grid")
)

// Grid is a bounded voxel volume. Cells span [0, Size) on every axis.
type Grid struct {
	Size grid.Pos

	cells    map[grid.Pos]orient.ObjectID
	entities map[grid.Pos]*BlockEntity
	log      *zap.Logger
}

// NewGrid creates an empty grid. log may be nil.
func NewGrid(size grid.Pos, log *zap.Logger) *Grid {
	if log == nil {
		log = zap.NewNop()
	}
	return &Grid{
		Size:     size,
		cells:    make(map[grid.Pos]orient.ObjectID),
		entities: make(map[grid.Pos]*BlockEntity),
		log:      log,
	}
}

// InBounds reports whether p lies inside the grid.
func (g *Grid) InBounds(p grid.Pos) bool {
	return p.X >= 0 && p.Y >= 0 && p.Z >= 0 &&
		p.X < g.Size.X && p.Y < g.Size.Y && p.Z < g.Size.Z
}

// Block returns the object occupying p.
func (g *Grid) Block(p grid.Pos) (orient.ObjectID, bool) {
	id, ok := g.cells[p]
	return id, ok
}

// Solid reports whether p is occupied. It has the shape picking.Ray.Walk
// expects.
func (g *Grid) Solid(p grid.Pos) bool {
	_, ok := g.cells[p]
	return ok
}

// Len returns the number of occupied cells.
func (g *Grid) Len() int {
	return len(g.cells)
}

// Place puts a plain block at p.
func (g *Grid) Place(p grid.Pos, id orient.ObjectID) error {
	if err := g.checkFree(p); err != nil {
		return err
	}
	g.cells[p] = id
	return nil
}

// Fill places id in every free cell of the box spanned by a and b.
// Occupied cells are left alone; positions outside the grid are an error.
func (g *Grid) Fill(a, b grid.Pos, id orient.ObjectID) error {
	lo := grid.Pos{X: min(a.X, b.X), Y: min(a.Y, b.Y), Z: min(a.Z, b.Z)}
	hi := grid.Pos{X: max(a.X, b.X), Y: max(a.Y, b.Y), Z: max(a.Z, b.Z)}
	if !g.InBounds(lo) || !g.InBounds(hi) {
		return fmt.Errorf("fill %v..%v: %w", lo, hi, ErrOutOfBounds)
	}
	for x := lo.X; x <= hi.X; x++ {
		for y := lo.Y; y <= hi.Y; y++ {
			for z := lo.Z; z <= hi.Z; z++ {
				p := grid.Pos{X: x, Y: y, Z: z}
				if !g.Solid(p) {
					g.cells[p] = id
				}
			}
		}
	}
	return nil
}

// Spawn places a block entity at p. transform marks it as supporting live
// mesh rotation; attrs is copied.
func (g *Grid) Spawn(p grid.Pos, id orient.ObjectID, transform bool, attrs placement.Attributes) (*BlockEntity, error) {
	if err := g.checkFree(p); err != nil {
		return nil, err
	}
	if attrs == nil {
		attrs = placement.Attributes{}
	}
	e := &BlockEntity{pos: p, id: id, transform: transform, attrs: attrs.Clone()}
	g.cells[p] = id
	g.entities[p] = e
	g.log.Debug("block entity spawned", zap.Stringer("pos", p), zap.Int("object", int(id)))
	return e, nil
}

// Entity returns the block entity at p.
func (g *Grid) Entity(p grid.Pos) (*BlockEntity, bool) {
	e, ok := g.entities[p]
	return e, ok
}

// Remove clears p. It reports whether anything was there.
func (g *Grid) Remove(p grid.Pos) bool {
	if _, ok := g.cells[p]; !ok {
		return false
	}
	delete(g.cells, p)
	delete(g.entities, p)
	return true
}

// Cast walks r through the grid and returns the first solid block hit
// within maxDist.
func (g *Grid) Cast(r picking.Ray, maxDist float64) (picking.Hit, bool) {
	return r.Walk(maxDist, g.Solid)
}

func (g *Grid) checkFree(p grid.Pos) error {
	if !g.InBounds(p) {
		return fmt.Errorf("%v: %w", p, ErrOutOfBounds)
	}
	if g.Solid(p) {
		return fmt.Errorf("%v: %w", p, ErrOccupied)
	}
	return nil
}

// CanPlace implements placement.LegalityChecker. A cell is legal when it is
// inside the grid, empty, and its center is within the actor's reach.
func (g *Grid) CanPlace(actor placement.Actor, pos grid.Pos, obj orient.Object) bool {
	if !g.InBounds(pos) || g.Solid(pos) {
		return false
	}
	if actor.Reach > 0 && pos.Center().Sub(actor.Eye).Len() > actor.Reach {
		return false
	}
	return true
}

// ApplyTransform implements placement.Transformer.
func (g *Grid) ApplyTransform(obj placement.LiveObject, attr string, delta float64, attrs placement.Attributes) (placement.Attributes, error) {
	e, err := g.own(obj)
	if err != nil {
		return nil, err
	}
	if !e.transform {
		return nil, fmt.Errorf("entity at %v has no transform", e.pos)
	}
	attrs[attr] = orient.NormalizeAngle(attrs[attr] - delta)
	return attrs, nil
}

// SwapVariant implements placement.VariantSwapper. The entity keeps its
// attributes and position.
func (g *Grid) SwapVariant(obj placement.LiveObject, to orient.ObjectID) (placement.LiveObject, error) {
	e, err := g.own(obj)
	if err != nil {
		return nil, err
	}
	e.id = to
	g.cells[e.pos] = to
	e.MarkDirty()
	g.log.Debug("variant swapped", zap.Stringer("pos", e.pos), zap.Int("object", int(to)))
	return e, nil
}

func (g *Grid) own(obj placement.LiveObject) (*BlockEntity, error) {
	e, ok := obj.(*BlockEntity)
	if !ok || g.entities[e.pos] != e {
		return nil, ErrNotEntity
	}
	return e, nil
}
