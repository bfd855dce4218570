// Package catalog loads placeable object definitions from YAML and answers
// the capability questions the orientation engine asks about them.
package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/ghostbrush/internal/orient"
)

//go:embed catalog.schema.json
var schemaJSON []byte

const schemaURL = "catalog.schema.json"

// ErrUnknownBehavior is returned when an object references a behavior class
// the catalog does not declare.
var ErrUnknownBehavior = errors.New("unknown behavior class")

var fold = cases.Fold()

// Catalog is an expanded, read-only object catalog.
type Catalog struct {
	path string
	log  *zap.Logger

	objects   []orient.Object // index = id-1
	byCode    map[string]orient.ObjectID
	byBase    map[string][]orient.ObjectID
	defs      map[string]*ObjectDef
	behaviors map[string]*BehaviorDef

	hooks []func()
}

// Load reads and validates the catalog at path. log may be nil.
func Load(path string, log *zap.Logger) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	c, err := Parse(data, log)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	c.path = path
	return c, nil
}

// Parse builds a catalog from YAML. log may be nil.
func Parse(data []byte, log *zap.Logger) (*Catalog, error) {
	if log == nil {
		log = zap.NewNop()
	}
	doc, err := decode(data)
	if err != nil {
		return nil, err
	}
	c := &Catalog{log: log}
	if err := c.build(doc); err != nil {
		return nil, err
	}
	log.Debug("catalog loaded",
		zap.Int("types", len(c.defs)),
		zap.Int("objects", len(c.objects)),
	)
	return c, nil
}

func decode(data []byte) (*Document, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing yaml: %w", err)
	}
	if err := validateSchema(raw); err != nil {
		return nil, err
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}
	return &doc, nil
}

func validateSchema(raw any) error {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		return fmt.Errorf("loading schema: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return fmt.Errorf("compiling schema: %w", err)
	}

	// The validator expects encoding/json shaped values.
	b, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("normalizing catalog: %w", err)
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("normalizing catalog: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	return nil
}

func (c *Catalog) build(doc *Document) error {
	objects, byCode, byBase, defs, err := expand(doc)
	if err != nil {
		return err
	}
	behaviors := make(map[string]*BehaviorDef, len(doc.Behaviors))
	for name, b := range doc.Behaviors {
		if b == nil {
			b = &BehaviorDef{}
		}
		behaviors[name] = b
	}

	c.objects = objects
	c.byCode = byCode
	c.byBase = byBase
	c.defs = defs
	c.behaviors = behaviors
	return nil
}

// expand validates the document and turns every variant combination into
// an object with a sequential id, in document order.
func expand(doc *Document) ([]orient.Object, map[string]orient.ObjectID, map[string][]orient.ObjectID, map[string]*ObjectDef, error) {
	var errs error
	defs := make(map[string]*ObjectDef, len(doc.Objects))
	for i := range doc.Objects {
		def := &doc.Objects[i]
		if _, dup := defs[def.Code]; dup {
			errs = multierr.Append(errs, fmt.Errorf("object %s: duplicate code", def.Code))
			continue
		}
		seenKeys := make(map[string]bool)
		for gi := range def.Variants {
			g := &def.Variants[gi]
			g.Key = fold.String(g.Key)
			if seenKeys[g.Key] {
				errs = multierr.Append(errs, fmt.Errorf("object %s: variant key %q declared twice", def.Code, g.Key))
			}
			seenKeys[g.Key] = true
			seenVals := make(map[string]bool)
			for _, v := range g.Values {
				if seenVals[v] {
					errs = multierr.Append(errs, fmt.Errorf("object %s: variant %s value %q declared twice", def.Code, g.Key, v))
				}
				seenVals[v] = true
			}
		}
		defs[def.Code] = def
	}
	if errs != nil {
		return nil, nil, nil, nil, errs
	}

	var objects []orient.Object
	byCode := make(map[string]orient.ObjectID)
	byBase := make(map[string][]orient.ObjectID)
	for i := range doc.Objects {
		def := &doc.Objects[i]
		for _, combo := range combinations(def.Variants) {
			id := orient.ObjectID(len(objects) + 1)
			obj := orient.Object{
				ID:      id,
				Code:    variantCode(def.Code, def.Variants, combo),
				Base:    def.Code,
				Variant: combo,
			}
			objects = append(objects, obj)
			byCode[obj.Code] = id
			byBase[def.Code] = append(byBase[def.Code], id)
		}
	}
	return objects, byCode, byBase, defs, nil
}

// combinations returns the cartesian product of the variant groups, first
// group varying slowest.
func combinations(groups []VariantGroup) []map[string]string {
	out := []map[string]string{{}}
	for _, g := range groups {
		next := make([]map[string]string, 0, len(out)*len(g.Values))
		for _, partial := range out {
			for _, v := range g.Values {
				m := make(map[string]string, len(partial)+1)
				for k, pv := range partial {
					m[k] = pv
				}
				m[g.Key] = v
				next = append(next, m)
			}
		}
		out = next
	}
	return out
}

func variantCode(base string, groups []VariantGroup, combo map[string]string) string {
	var sb strings.Builder
	sb.WriteString(base)
	for _, g := range groups {
		sb.WriteByte('-')
		sb.WriteString(combo[g.Key])
	}
	return sb.String()
}

// Reload re-reads the catalog file and, on success, runs every OnReload hook.
// On failure the previous contents stay in place.
func (c *Catalog) Reload() error {
	if c.path == "" {
		return errors.New("catalog was not loaded from a file")
	}
	data, err := os.ReadFile(c.path)
	if err != nil {
		return fmt.Errorf("reading catalog: %w", err)
	}
	doc, err := decode(data)
	if err != nil {
		return fmt.Errorf("catalog %s: %w", c.path, err)
	}
	if err := c.build(doc); err != nil {
		return fmt.Errorf("catalog %s: %w", c.path, err)
	}

	c.log.Info("catalog reloaded", zap.String("path", c.path), zap.Int("objects", len(c.objects)))
	for _, fn := range c.hooks {
		fn()
	}
	return nil
}

// OnReload registers fn to run after every successful Reload. Use it to
// invalidate caches derived from the catalog.
func (c *Catalog) OnReload(fn func()) {
	c.hooks = append(c.hooks, fn)
}

// Objects returns every object in id order.
func (c *Catalog) Objects() []orient.Object {
	out := make([]orient.Object, len(c.objects))
	copy(out, c.objects)
	return out
}

// Object implements orient.ObjectSource.
func (c *Catalog) Object(id orient.ObjectID) (orient.Object, bool) {
	i := int(id) - 1
	if i < 0 || i >= len(c.objects) {
		return orient.Object{}, false
	}
	return c.objects[i], true
}

// Lookup finds an object by its full code.
func (c *Catalog) Lookup(code string) (orient.Object, bool) {
	id, ok := c.byCode[code]
	if !ok {
		return orient.Object{}, false
	}
	return c.Object(id)
}
