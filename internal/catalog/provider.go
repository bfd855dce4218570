package catalog

import (
	"fmt"
	"strings"

	"github.com/Faultbox/ghostbrush/internal/orient"
)

// HasVariantKey implements orient.CapabilityProvider.
func (c *Catalog) HasVariantKey(obj orient.Object, key string) bool {
	_, ok := obj.Variant[fold.String(key)]
	return ok
}

// FindSiblingVariants implements orient.CapabilityProvider. Siblings come
// back in declaration order.
func (c *Catalog) FindSiblingVariants(obj orient.Object) []orient.Object {
	ids := c.byBase[obj.Base]
	out := make([]orient.Object, 0, len(ids))
	for _, id := range ids {
		if o, ok := c.Object(id); ok {
			out = append(out, o)
		}
	}
	return out
}

// HasLiveTransform implements orient.CapabilityProvider. Referencing an
// undeclared behavior class is an error.
func (c *Catalog) HasLiveTransform(obj orient.Object) (bool, error) {
	def, ok := c.defs[obj.Base]
	if !ok {
		return false, fmt.Errorf("object %s: no definition", obj.Code)
	}
	for _, name := range def.Behaviors {
		b, ok := c.behaviors[name]
		if !ok {
			return false, fmt.Errorf("object %s: behavior %q: %w", obj.Code, name, ErrUnknownBehavior)
		}
		for _, capability := range b.Capabilities {
			if fold.String(capability) == CapabilityTransform {
				return true, nil
			}
		}
	}
	return false, nil
}

// ReadAttributeString implements orient.CapabilityProvider. path is a dot
// separated walk through the object's attribute tree; scalar leaves are
// formatted as strings.
func (c *Catalog) ReadAttributeString(obj orient.Object, path string) (string, bool) {
	def, ok := c.defs[obj.Base]
	if !ok || def.Attributes == nil {
		return "", false
	}

	var node any = def.Attributes
	for _, part := range strings.Split(path, ".") {
		m, ok := node.(map[string]any)
		if !ok {
			return "", false
		}
		node, ok = m[part]
		if !ok {
			return "", false
		}
	}

	switch v := node.(type) {
	case string:
		return v, true
	case int, int64, float64, bool:
		return fmt.Sprint(v), true
	default:
		return "", false
	}
}
