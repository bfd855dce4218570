package orient

import (
	"go.uber.org/zap"
)

type modeKey struct {
	base    string
	subtype string
}

// Classifier maps objects to their RotationMode, memoized by base code and
// subtype.
type Classifier struct {
	provider CapabilityProvider
	log      *zap.Logger
	modes    map[modeKey]RotationMode
	capable  map[string]bool
}

// NewClassifier creates a classifier backed by p. log may be nil.
func NewClassifier(p CapabilityProvider, log *zap.Logger) *Classifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &Classifier{
		provider: p,
		log:      log,
		modes:    make(map[modeKey]RotationMode),
		capable:  make(map[string]bool),
	}
}

// Classify returns obj's rotation mode without a subtype.
func (c *Classifier) Classify(obj Object) RotationMode {
	return c.ClassifyFor(obj, "")
}

// ClassifyFor returns obj's rotation mode for subtype. The live rotation
// interval is looked up for that subtype, so an object whose interval is
// only declared per subtype rotates for those subtypes alone.
func (c *Classifier) ClassifyFor(obj Object, subtype string) RotationMode {
	key := modeKey{base: cacheKey(obj), subtype: subtype}
	if mode, ok := c.modes[key]; ok {
		return mode
	}

	_, hasVariant := DetectVariantKey(c.provider, obj)
	hasLive := c.hasLiveRotation(obj, subtype)

	var mode RotationMode
	switch {
	case hasVariant && hasLive:
		mode = ModeHybrid
	case hasVariant:
		mode = ModeVariantBased
	case hasLive:
		mode = ModeRotatable
	default:
		mode = ModeNone
	}

	c.modes[key] = mode
	c.log.Debug("classified object",
		zap.String("base", key.base),
		zap.String("subtype", subtype),
		zap.Stringer("mode", mode),
	)
	return mode
}

// hasLiveRotation requires both the transform capability and a resolvable
// granularity; a capable object without an interval is not rotatable.
func (c *Classifier) hasLiveRotation(obj Object, subtype string) bool {
	if !c.hasCapability(obj) {
		return false
	}
	return ResolveGranularity(c.provider, obj, subtype) != GranularityNone
}

func (c *Classifier) hasCapability(obj Object) bool {
	base := cacheKey(obj)
	if ok, cached := c.capable[base]; cached {
		return ok
	}
	ok, err := c.provider.HasLiveTransform(obj)
	if err != nil {
		c.log.Debug("capability lookup failed, treating as absent",
			zap.String("code", obj.Code),
			zap.Error(err),
		)
		ok = false
	}
	c.capable[base] = ok
	return ok
}

// Invalidate drops every memoized classification.
func (c *Classifier) Invalidate() {
	c.modes = make(map[modeKey]RotationMode)
	c.capable = make(map[string]bool)
}

// Len returns the number of memoized classifications.
func (c *Classifier) Len() int {
	return len(c.modes)
}

func cacheKey(obj Object) string {
	if obj.Base != "" {
		return obj.Base
	}
	return obj.Code
}
