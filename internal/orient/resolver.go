package orient

import (
	"go.uber.org/zap"
)

type tableKey struct {
	id      ObjectID
	subtype string
}

// Resolver computes and caches orientation tables per object.
//
// All caches live for the lifetime of the resolver; call Invalidate when the
// host reloads its asset definitions.
type Resolver struct {
	objects    ObjectSource
	provider   CapabilityProvider
	classifier *Classifier
	log        *zap.Logger

	tables   map[tableKey]Table
	siblings map[string][]Object
}

// NewResolver creates a resolver. log may be nil.
func NewResolver(objects ObjectSource, p CapabilityProvider, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{
		objects:    objects,
		provider:   p,
		classifier: NewClassifier(p, log),
		log:        log,
		tables:     make(map[tableKey]Table),
		siblings:   make(map[string][]Object),
	}
}

// Classifier returns the classifier the resolver branches on.
func (r *Resolver) Classifier() *Classifier {
	return r.classifier
}

// Mode returns the rotation mode of the object with the given id.
// Unknown ids are ModeNone.
func (r *Resolver) Mode(id ObjectID) RotationMode {
	return r.ModeFor(id, "")
}

// ModeFor returns the rotation mode of id for subtype, the mode Resolve
// builds its table from.
func (r *Resolver) ModeFor(id ObjectID, subtype string) RotationMode {
	obj, ok := r.objects.Object(id)
	if !ok {
		return ModeNone
	}
	return r.classifier.ClassifyFor(obj, subtype)
}

// Resolve returns the orientation table for id. subtype selects per-type
// metadata for typed containers and may be empty. The returned table is a
// copy and never empty.
func (r *Resolver) Resolve(id ObjectID, subtype string) Table {
	key := tableKey{id: id, subtype: subtype}
	t, ok := r.tables[key]
	if !ok {
		t = r.build(id, subtype)
		r.tables[key] = t
	}
	out := make(Table, len(t))
	copy(out, t)
	return out
}

// Invalidate clears the table, sibling and classification caches.
func (r *Resolver) Invalidate() {
	r.tables = make(map[tableKey]Table)
	r.siblings = make(map[string][]Object)
	r.classifier.Invalidate()
	r.log.Debug("orientation caches invalidated")
}

func (r *Resolver) build(id ObjectID, subtype string) Table {
	obj, ok := r.objects.Object(id)
	if !ok {
		r.log.Debug("unknown object, using single orientation", zap.Int("id", int(id)))
		return noRotationTable(id)
	}

	mode := r.classifier.ClassifyFor(obj, subtype)
	var t Table
	switch mode {
	case ModeVariantBased:
		t = r.variantTable(obj)
	case ModeRotatable:
		t = r.rotatableTable(obj, subtype)
	case ModeHybrid:
		t = r.hybridTable(obj, subtype)
	default:
		t = noRotationTable(obj.ID)
	}

	r.log.Debug("orientation table built",
		zap.String("code", obj.Code),
		zap.String("subtype", subtype),
		zap.Stringer("mode", mode),
		zap.Int("entries", len(t)),
	)
	return t
}

func (r *Resolver) variantTable(obj Object) Table {
	sibs := r.orientationSiblings(obj)
	if len(sibs) == 0 {
		return noRotationTable(obj.ID)
	}
	t := make(Table, 0, len(sibs))
	for _, s := range sibs {
		t = append(t, Definition{VariantID: s.ID})
	}
	return t
}

func (r *Resolver) rotatableTable(obj Object, subtype string) Table {
	angles := Angles(ResolveGranularity(r.provider, obj, subtype))
	if len(angles) == 0 {
		return noRotationTable(obj.ID)
	}
	attr := ResolveMeshAttribute(r.provider, obj, subtype)
	t := make(Table, 0, len(angles))
	for _, a := range angles {
		t = append(t, Definition{VariantID: obj.ID, MeshAngle: a, RotationAttribute: attr})
	}
	return t
}

// hybridTable splits the circle into one slice per sibling variant. Each
// slice keeps the table angles inside [start, start+width), re-based so the
// mesh angle is relative to the slice start.
func (r *Resolver) hybridTable(obj Object, subtype string) Table {
	g := ResolveGranularity(r.provider, obj, subtype)
	if g == GranularityNone {
		return r.variantTable(obj)
	}
	sibs := r.orientationSiblings(obj)
	if len(sibs) == 0 {
		return r.rotatableTable(obj, subtype)
	}

	angles := Angles(g)
	attr := ResolveMeshAttribute(r.provider, obj, subtype)
	width := 360 / float64(len(sibs))

	var t Table
	for i, s := range sibs {
		start := float64(i) * width
		end := start + width
		for _, a := range angles {
			if a < start-AngleEpsilon || a >= end-AngleEpsilon {
				continue
			}
			local := a - start
			if local < 0 {
				local = 0
			}
			t = append(t, Definition{VariantID: s.ID, MeshAngle: local, RotationAttribute: attr})
		}
	}
	if len(t) == 0 {
		return noRotationTable(obj.ID)
	}
	return t
}

// orientationSiblings returns the siblings of obj that differ from it only
// in the detected orientation key, in provider order.
func (r *Resolver) orientationSiblings(obj Object) []Object {
	key, ok := DetectVariantKey(r.provider, obj)
	if !ok {
		return nil
	}

	var out []Object
	for _, s := range r.siblingsOf(obj) {
		if _, has := s.Variant[key]; !has {
			continue
		}
		if sameExcept(obj.Variant, s.Variant, key) {
			out = append(out, s)
		}
	}
	return out
}

func (r *Resolver) siblingsOf(obj Object) []Object {
	base := cacheKey(obj)
	if s, ok := r.siblings[base]; ok {
		return s
	}
	s := r.provider.FindSiblingVariants(obj)
	r.siblings[base] = s
	return s
}

func sameExcept(a, b map[string]string, skip string) bool {
	for k, v := range a {
		if k == skip {
			continue
		}
		if b[k] != v {
			return false
		}
	}
	for k := range b {
		if k == skip {
			continue
		}
		if _, ok := a[k]; !ok {
			return false
		}
	}
	return true
}
