package catalog

// Document is the on-disk catalog layout.
type Document struct {
	Behaviors map[string]*BehaviorDef `yaml:"behaviors"`
	Objects   []ObjectDef             `yaml:"objects"`
}

// BehaviorDef declares the capabilities a behavior class publishes.
type BehaviorDef struct {
	Capabilities []string `yaml:"capabilities"`
}

// ObjectDef declares one object type and its variant groups.
type ObjectDef struct {
	Code       string         `yaml:"code"`
	Variants   []VariantGroup `yaml:"variants"`
	Behaviors  []string       `yaml:"behaviors"`
	Attributes map[string]any `yaml:"attributes"`
}

// VariantGroup is one variant key and its ordered values.
type VariantGroup struct {
	Key    string   `yaml:"key"`
	Values []string `yaml:"values"`
}

// CapabilityTransform marks behaviors that can rotate a placed object's mesh.
const CapabilityTransform = "transform"
