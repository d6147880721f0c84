package jsonschema

// Schema is a minimal JSON Schema representation used for export.
// Keep this struct small and extend incrementally.
type Schema struct {
	// Core
	Ref     string `json:"$ref,omitempty" yaml:"$ref,omitempty"`
	Title   string `json:"title,omitempty" yaml:"title,omitempty"`
	Type    string `json:"type,omitempty" yaml:"type,omitempty"`
	Format  string `json:"format,omitempty" yaml:"format,omitempty"`
	Default any    `json:"default,omitempty" yaml:"default,omitempty"`

	// Object
	Properties           map[string]*Schema `json:"properties,omitempty" yaml:"properties,omitempty"`
	Required             []string           `json:"required,omitempty" yaml:"required,omitempty"`
	AdditionalProperties any                `json:"additionalProperties,omitempty" yaml:"additionalProperties,omitempty"`

	// Array
	Items    *Schema `json:"items,omitempty" yaml:"items,omitempty"`
	MinItems *int    `json:"minItems,omitempty" yaml:"minItems,omitempty"`
	MaxItems *int    `json:"maxItems,omitempty" yaml:"maxItems,omitempty"`

	// Union
	OneOf []*Schema `json:"oneOf,omitempty" yaml:"oneOf,omitempty"`

	// Definitions referenced through Ref ("#/$defs/<name>").
	Defs map[string]*Schema `json:"$defs,omitempty" yaml:"$defs,omitempty"`
}

// DefRef returns the Ref value pointing at the named definition.
func DefRef(name string) string { return "#/$defs/" + name }
