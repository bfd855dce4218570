package orient

import (
	"errors"
	"sort"
)

// fakeWorld is an in-memory CapabilityProvider and ObjectSource.
type fakeWorld struct {
	objects   map[ObjectID]Object
	live      map[string]bool // by base code
	liveErr   map[string]bool
	attrs     map[string]map[string]string // base code -> path -> value
	noSibling bool

	siblingCalls int
	liveCalls    int
}

func newFakeWorld() *fakeWorld {
	return &fakeWorld{
		objects: make(map[ObjectID]Object),
		live:    make(map[string]bool),
		liveErr: make(map[string]bool),
		attrs:   make(map[string]map[string]string),
	}
}

func (w *fakeWorld) add(id ObjectID, base string, variant map[string]string) Object {
	code := base
	keys := make([]string, 0, len(variant))
	for k := range variant {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		code += "-" + variant[k]
	}
	obj := Object{ID: id, Code: code, Base: base, Variant: variant}
	w.objects[id] = obj
	return obj
}

func (w *fakeWorld) setAttr(base, path, value string) {
	if w.attrs[base] == nil {
		w.attrs[base] = make(map[string]string)
	}
	w.attrs[base][path] = value
}

func (w *fakeWorld) Object(id ObjectID) (Object, bool) {
	obj, ok := w.objects[id]
	return obj, ok
}

func (w *fakeWorld) HasVariantKey(obj Object, key string) bool {
	_, ok := obj.Variant[key]
	return ok
}

func (w *fakeWorld) FindSiblingVariants(obj Object) []Object {
	w.siblingCalls++
	if w.noSibling {
		return nil
	}
	var out []Object
	for _, o := range w.objects {
		if o.Base == obj.Base {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (w *fakeWorld) HasLiveTransform(obj Object) (bool, error) {
	w.liveCalls++
	if w.liveErr[obj.Base] {
		return false, errors.New("unknown behavior class")
	}
	return w.live[obj.Base], nil
}

func (w *fakeWorld) ReadAttributeString(obj Object, path string) (string, bool) {
	v, ok := w.attrs[obj.Base][path]
	return v, ok
}

// torchWorld has four side variants with ids 1..4 (north, east, south, west).
func torchWorld() *fakeWorld {
	w := newFakeWorld()
	for i, side := range []string{"north", "east", "south", "west"} {
		w.add(ObjectID(i+1), "game:torch", map[string]string{"side": side})
	}
	return w
}
