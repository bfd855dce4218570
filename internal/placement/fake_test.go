package placement

import (
	"errors"

	"github.com/Faultbox/ghostbrush/internal/orient"
	"github.com/Faultbox/ghostbrush/pkg/grid"
)

// countingChecker allows placement only at the listed cells and counts queries.
type countingChecker struct {
	legal map[grid.Pos]bool
	calls int
}

func (c *countingChecker) CanPlace(_ Actor, pos grid.Pos, _ orient.Object) bool {
	c.calls++
	return c.legal[pos]
}

type fakeLive struct {
	id        orient.ObjectID
	transform bool
	attrs     Attributes
	dirty     int
}

func (f *fakeLive) ObjectID() orient.ObjectID { return f.id }
func (f *fakeLive) HasTransform() bool { return f.transform }
func (f *fakeLive) Attributes() Attributes { return f.attrs }
func (f *fakeLive) SetAttributes(a Attributes) { f.attrs = a }
func (f *fakeLive) MarkDirty() { f.dirty++ }

// subtractTransformer implements the subtract-the-delta convention.
type subtractTransformer struct {
	calls int
	fail  bool
}

func (s *subtractTransformer) ApplyTransform(_ LiveObject, attr string, delta float64, attrs Attributes) (Attributes, error) {
	s.calls++
	if s.fail {
		return nil, errors.New("mesh locked")
	}
	attrs[attr] = orient.NormalizeAngle(attrs[attr] - delta)
	return attrs, nil
}

type swapper struct {
	swaps []orient.ObjectID
	fail  bool
}

func (s *swapper) SwapVariant(obj LiveObject, to orient.ObjectID) (LiveObject, error) {
	if s.fail {
		return nil, errors.New("variant not placeable")
	}
	s.swaps = append(s.swaps, to)
	f := obj.(*fakeLive)
	f.id = to
	return f, nil
}

// catalog is a minimal ObjectSource + CapabilityProvider.
type catalog struct {
	objects  []orient.Object
	live     map[string]bool
	interval map[string]string
}

func (c *catalog) Object(id orient.ObjectID) (orient.Object, bool) {
	for _, o := range c.objects {
		if o.ID == id {
			return o, true
		}
	}
	return orient.Object{}, false
}

func (c *catalog) HasVariantKey(obj orient.Object, key string) bool {
	_, ok := obj.Variant[key]
	return ok
}

func (c *catalog) FindSiblingVariants(obj orient.Object) []orient.Object {
	var out []orient.Object
	for _, o := range c.objects {
		if o.Base == obj.Base {
			out = append(out, o)
		}
	}
	return out
}

func (c *catalog) HasLiveTransform(obj orient.Object) (bool, error) {
	return c.live[obj.Base], nil
}

func (c *catalog) ReadAttributeString(obj orient.Object, path string) (string, bool) {
	if path != orient.AttrInterval {
		return "", false
	}
	v, ok := c.interval[obj.Base]
	return v, ok
}

func newCatalog() *catalog {
	c := &catalog{
		live:     map[string]bool{"game:chest": true, "game:torch": true},
		interval: map[string]string{"game:chest": "90deg", "game:torch": "45deg"},
	}
	c.objects = append(c.objects, orient.Object{ID: 1, Code: "game:chest", Base: "game:chest"})
	for i, side := range []string{"north", "east", "south", "west"} {
		c.objects = append(c.objects, orient.Object{
			ID:      orient.ObjectID(10 + i),
			Code:    "game:torch-" + side,
			Base:    "game:torch",
			Variant: map[string]string{"side": side},
		})
	}
	return c
}
