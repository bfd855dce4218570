// Package placement turns a targeted block face and a selected orientation
// into a placement request, and applies orientation changes to objects that
// are already placed.
package placement

import (
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/Faultbox/ghostbrush/internal/orient"
	"github.com/Faultbox/ghostbrush/internal/picking"
	"github.com/Faultbox/ghostbrush/internal/snap"
	"github.com/Faultbox/ghostbrush/pkg/grid"
)

// Actor is the player doing the placing.
type Actor struct {
	Name string
	Eye  mgl64.Vec3
	// Reach is the maximum placement distance; 0 means unlimited.
	Reach float64
}

// LegalityChecker decides whether obj may be placed at pos by actor.
type LegalityChecker interface {
	CanPlace(actor Actor, pos grid.Pos, obj orient.Object) bool
}

// Request is the outcome of one placement resolution.
type Request struct {
	Position   grid.Pos
	Definition orient.Definition
	Legal      bool
	// Snapped is true when Position came from the snapped candidate rather
	// than the face-normal fallback.
	Snapped bool
}

// Resolver combines snapping with a legality check and a no-snap fallback.
type Resolver struct {
	checker   LegalityChecker
	threshold float64
	log       *zap.Logger
}

// NewResolver creates a resolver. A threshold <= 0 uses snap.Threshold.
func NewResolver(checker LegalityChecker, threshold float64, log *zap.Logger) *Resolver {
	if threshold <= 0 {
		threshold = snap.Threshold
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{checker: checker, threshold: threshold, log: log}
}

// Resolve returns the candidate cell for obj and whether it is legal.
// The legality checker is queried at most twice.
func (r *Resolver) Resolve(actor Actor, obj orient.Object, hit picking.Hit, flags snap.Flags) (grid.Pos, bool) {
	pos, legal, _ := r.resolve(actor, obj, hit, flags)
	return pos, legal
}

// Build resolves a full placement request for def.
func (r *Resolver) Build(actor Actor, obj orient.Object, def orient.Definition, hit picking.Hit, flags snap.Flags) Request {
	pos, legal, snapped := r.resolve(actor, obj, hit, flags)
	return Request{
		Position:   pos,
		Definition: def,
		Legal:      legal,
		Snapped:    snapped,
	}
}

func (r *Resolver) resolve(actor Actor, obj orient.Object, hit picking.Hit, flags snap.Flags) (grid.Pos, bool, bool) {
	snapped := hit.Block.Add(snap.DeltaWith(hit, flags, r.threshold))
	if r.checker.CanPlace(actor, snapped, obj) {
		return snapped, true, true
	}

	plain := hit.Block.Add(snap.DeltaWith(hit, snap.None, r.threshold))
	if plain == snapped {
		return snapped, false, false
	}

	legal := r.checker.CanPlace(actor, plain, obj)
	r.log.Debug("snapped candidate rejected, using face normal",
		zap.Stringer("snapped", snapped),
		zap.Stringer("fallback", plain),
		zap.Bool("legal", legal),
	)
	return plain, legal, false
}
