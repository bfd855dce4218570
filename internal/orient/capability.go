package orient

import "strings"

// CapabilityProvider answers capability questions about objects on behalf
// of the host world model.
type CapabilityProvider interface {
	// HasVariantKey reports whether obj declares the variant key.
	HasVariantKey(obj Object, key string) bool
	// FindSiblingVariants returns every object sharing obj's base code,
	// obj included, in a stable order.
	FindSiblingVariants(obj Object) []Object
	// HasLiveTransform reports whether the runtime behaviors attached to
	// obj publish the live transform capability.
	HasLiveTransform(obj Object) (bool, error)
	// ReadAttributeString reads a dot separated attribute path.
	ReadAttributeString(obj Object, path string) (string, bool)
}

// ObjectSource looks up objects by id.
type ObjectSource interface {
	Object(id ObjectID) (Object, bool)
}

// VariantKeys are the variant keys that encode orientation, in detection order.
var VariantKeys = []string{"rot", "orientation", "horizontalorientation", "side"}

// Attribute paths consulted when resolving rotation metadata.
const (
	AttrInterval           = "rotatatableInterval"
	AttrIntervalByType     = "rotatatableIntervalByType"
	AttrProperties         = "properties"
	AttrMeshAngle          = "meshAngleAttribute"
	AttrMeshAngleByType    = "meshAngleAttributeByType"
	DefaultMeshAngleAttr   = "meshAngle"
	wildcardSubtype        = "*"
	attributePathSeparator = "."
)

// DetectVariantKey returns the first orientation variant key obj declares.
func DetectVariantKey(p CapabilityProvider, obj Object) (string, bool) {
	for _, key := range VariantKeys {
		if p.HasVariantKey(obj, key) {
			return key, true
		}
	}
	return "", false
}

func attrPath(parts ...string) string {
	return strings.Join(parts, attributePathSeparator)
}

// ResolveGranularity reads obj's rotation interval. The first attribute
// present wins, searched in this order:
//
//	rotatatableIntervalByType.<subtype>
//	rotatatableInterval
//	properties.<subtype>.rotatatableInterval
//	properties.*.rotatatableInterval
//
// An empty subtype is looked up as "*".
func ResolveGranularity(p CapabilityProvider, obj Object, subtype string) Granularity {
	sub := subtype
	if sub == "" {
		sub = wildcardSubtype
	}
	paths := []string{
		attrPath(AttrIntervalByType, sub),
		AttrInterval,
	}
	if sub != wildcardSubtype {
		paths = append(paths, attrPath(AttrProperties, sub, AttrInterval))
	}
	paths = append(paths, attrPath(AttrProperties, wildcardSubtype, AttrInterval))

	for _, path := range paths {
		if v, ok := p.ReadAttributeString(obj, path); ok && strings.TrimSpace(v) != "" {
			return ParseGranularity(v)
		}
	}
	return GranularityNone
}

// ResolveMeshAttribute returns the attribute name a live object uses to
// store its mesh angle.
func ResolveMeshAttribute(p CapabilityProvider, obj Object, subtype string) string {
	if subtype != "" {
		if v, ok := p.ReadAttributeString(obj, attrPath(AttrMeshAngleByType, subtype)); ok && v != "" {
			return v
		}
	}
	if v, ok := p.ReadAttributeString(obj, AttrMeshAngle); ok && v != "" {
		return v
	}
	return DefaultMeshAngleAttr
}
