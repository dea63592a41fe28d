package jsonschema

import (
	"bytes"

	json "github.com/goccy/go-json"
)

// Schema is a minimal JSON Schema representation used for export.
// Keep this struct small and extend incrementally.
type Schema struct {
	// Core
	Type        string `json:"type,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Format      string `json:"format,omitempty"`
	Default     any    `json:"default,omitempty"`

	// Object
	Properties           []Property `json:"properties,omitempty"`
	Required             []string   `json:"required,omitempty"`
	AdditionalProperties any        `json:"additionalProperties,omitempty"`

	// Array
	Items    *Schema `json:"items,omitempty"`
	MinItems *int    `json:"minItems,omitempty"`
	MaxItems *int    `json:"maxItems,omitempty"`

	// Union
	OneOf []*Schema `json:"oneOf,omitempty"`

	// TypeSchema, when set, is written under "type" in place of Type. List
	// items whose element is a schema or union carry their projection here.
	TypeSchema *Schema `json:"-"`

	// Bare renders the schema as its type name alone ("string" instead of
	// {"type":"string"}). Attribute properties of primitive kinds are bare.
	Bare bool `json:"-"`
}

// Property is one object property; properties keep declaration order.
// A nil Schema means the attribute type has no projection and encodes as null.
type Property struct {
	Name   string
	Schema *Schema
}

// Property returns the named property, or nil.
func (s *Schema) Property(name string) *Schema {
	for _, p := range s.Properties {
		if p.Name == name {
			return p.Schema
		}
	}
	return nil
}

// HasProperty reports whether name is declared, even with a null projection.
func (s *Schema) HasProperty(name string) bool {
	for _, p := range s.Properties {
		if p.Name == name {
			return true
		}
	}
	return false
}

// MarshalJSON writes keys in a fixed order. Objects always carry
// "properties" and "required", even when empty.
func (s *Schema) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}
	if s.Bare {
		return json.Marshal(s.Type)
	}
	w := &objectWriter{}
	w.buf.WriteByte('{')
	if s.TypeSchema != nil {
		w.field("type", s.TypeSchema)
	} else if s.Type != "" {
		w.field("type", s.Type)
	}
	if s.Title != "" {
		w.field("title", s.Title)
	}
	if s.Description != "" {
		w.field("description", s.Description)
	}
	if s.Format != "" {
		w.field("format", s.Format)
	}
	if s.Default != nil {
		w.field("default", s.Default)
	}
	if s.Type == "object" || len(s.Properties) > 0 {
		w.key("properties")
		w.buf.WriteByte('{')
		for i, p := range s.Properties {
			if i > 0 {
				w.buf.WriteByte(',')
			}
			w.write(p.Name)
			w.buf.WriteByte(':')
			w.write(p.Schema)
		}
		w.buf.WriteByte('}')
	}
	if s.Type == "object" || len(s.Required) > 0 {
		req := s.Required
		if req == nil {
			req = []string{}
		}
		w.field("required", req)
	}
	if s.AdditionalProperties != nil {
		w.field("additionalProperties", s.AdditionalProperties)
	}
	if s.Items != nil {
		w.field("items", s.Items)
	}
	if s.MinItems != nil {
		w.field("minItems", *s.MinItems)
	}
	if s.MaxItems != nil {
		w.field("maxItems", *s.MaxItems)
	}
	if len(s.OneOf) > 0 {
		w.field("oneOf", s.OneOf)
	}
	if w.err != nil {
		return nil, w.err
	}
	w.buf.WriteByte('}')
	return w.buf.Bytes(), nil
}

type objectWriter struct {
	buf bytes.Buffer
	n   int
	err error
}

func (w *objectWriter) key(k string) {
	if w.n > 0 {
		w.buf.WriteByte(',')
	}
	w.n++
	w.write(k)
	w.buf.WriteByte(':')
}

func (w *objectWriter) field(k string, v any) {
	w.key(k)
	w.write(v)
}

func (w *objectWriter) write(v any) {
	if w.err != nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		w.err = err
		return
	}
	w.buf.Write(b)
}
