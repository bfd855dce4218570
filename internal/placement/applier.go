package placement

import (
	"math"

	"go.uber.org/zap"

	"github.com/Faultbox/ghostbrush/internal/orient"
)

// Attributes is the persisted attribute state of a placed object.
type Attributes map[string]float64

// Clone returns a copy of a.
func (a Attributes) Clone() Attributes {
	out := make(Attributes, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// LiveObject is an object already placed in the world.
type LiveObject interface {
	ObjectID() orient.ObjectID
	// HasTransform reports whether the object supports live mesh rotation.
	HasTransform() bool
	Attributes() Attributes
	SetAttributes(Attributes)
	MarkDirty()
}

// Transformer rotates a live object's mesh. It subtracts delta from the
// angle stored under attr and returns the new attribute state.
type Transformer interface {
	ApplyTransform(obj LiveObject, attr string, delta float64, attrs Attributes) (Attributes, error)
}

// Applier reflects orientation changes on placed objects.
type Applier struct {
	transform Transformer
	log       *zap.Logger
}

// NewApplier creates an applier. log may be nil.
func NewApplier(t Transformer, log *zap.Logger) *Applier {
	if log == nil {
		log = zap.NewNop()
	}
	return &Applier{transform: t, log: log}
}

// ShortestDelta returns the signed delta, in [-180, 180), that a transform
// subtracting it from prev lands on target.
func ShortestDelta(prev, target float64) float64 {
	d := math.Mod(prev-target+540, 360)
	if d < 0 {
		d += 360
	}
	return d - 180
}

// Apply rotates obj from prev's mesh angle to cur's. It returns false when
// obj cannot be transformed or the transform fails.
func (a *Applier) Apply(obj LiveObject, prev, cur orient.Definition) bool {
	if obj == nil || !obj.HasTransform() {
		return false
	}

	attr := cur.RotationAttribute
	if attr == "" {
		attr = orient.DefaultMeshAngleAttr
	}
	delta := ShortestDelta(prev.MeshAngle, cur.MeshAngle)

	attrs, err := a.transform.ApplyTransform(obj, attr, delta, obj.Attributes().Clone())
	if err != nil {
		a.log.Warn("live transform failed",
			zap.Int("object", int(obj.ObjectID())),
			zap.Float64("delta", delta),
			zap.Error(err),
		)
		return false
	}

	obj.SetAttributes(attrs)
	obj.MarkDirty()
	a.log.Debug("live transform applied",
		zap.Int("object", int(obj.ObjectID())),
		zap.String("attr", attr),
		zap.Float64("delta", delta),
	)
	return true
}
