package world

import (
	"github.com/Faultbox/ghostbrush/internal/orient"
	"github.com/Faultbox/ghostbrush/internal/placement"
	"github.com/Faultbox/ghostbrush/pkg/grid"
)

// BlockEntity is a placed object with persisted attributes.
type BlockEntity struct {
	pos       grid.Pos
	id        orient.ObjectID
	transform bool
	attrs     placement.Attributes
	dirty     bool
}

// Pos returns the cell the entity occupies.
func (e *BlockEntity) Pos() grid.Pos { return e.pos }

// ObjectID implements placement.LiveObject.
func (e *BlockEntity) ObjectID() orient.ObjectID { return e.id }

// HasTransform implements placement.LiveObject.
func (e *BlockEntity) HasTransform() bool { return e.transform }

// Attributes returns a copy of the entity's attributes.
func (e *BlockEntity) Attributes() placement.Attributes { return e.attrs.Clone() }

// SetAttributes replaces the entity's attributes.
func (e *BlockEntity) SetAttributes(a placement.Attributes) { e.attrs = a.Clone() }

// MarkDirty flags the entity for resync to observers.
func (e *BlockEntity) MarkDirty() { e.dirty = true }

// Dirty reports whether the entity changed since the last ClearDirty.
func (e *BlockEntity) Dirty() bool { return e.dirty }

// ClearDirty resets the dirty flag.
func (e *BlockEntity) ClearDirty() { e.dirty = false }
