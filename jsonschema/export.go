package jsonschema

import (
	"github.com/reoring/skema"
)

// Options tunes the projection.
type Options struct {
	// ArrayKeyword is the "type" of collection attributes. Defaults to "list";
	// "array" gives standard JSON Schema.
	ArrayKeyword string
}

func (o Options) arrayKeyword() string {
	if o.ArrayKeyword == "" {
		return "list"
	}
	return o.ArrayKeyword
}

func pick(opts []Options) Options {
	if len(opts) == 0 {
		return Options{}
	}
	return opts[0]
}

// FromSchema projects a schema onto the object form:
//
//	{"type":"object","title":<name>,"description":"expected structure for <name>",
//	 "properties":{...},"required":[...]}
func FromSchema(s *skema.Schema, opts ...Options) *Schema {
	return fromSchema(s, pick(opts))
}

// FromType projects any attribute type. Primitive kinds project to a bare
// type name; kinds without a projection return nil.
func FromType(t skema.Type, opts ...Options) *Schema {
	return fromType(t, pick(opts))
}

func fromSchema(s *skema.Schema, o Options) *Schema {
	out := &Schema{
		Type:        "object",
		Title:       s.Name(),
		Description: "expected structure for " + s.Name(),
		Properties:  []Property{},
		Required:    []string{},
	}
	for _, a := range s.Attributes() {
		out.Properties = append(out.Properties, Property{Name: a.Name, Schema: fromType(a.Type, o)})
		if a.Required {
			out.Required = append(out.Required, a.Name)
		}
	}
	return out
}

func fromType(t skema.Type, o Options) *Schema {
	switch tt := t.(type) {
	case skema.Kind:
		name := PrimitiveName(tt)
		if name == "" {
			return nil
		}
		return &Schema{Type: name, Bare: true}
	case *skema.Schema:
		return fromSchema(tt, o)
	case *skema.ArrayType:
		items := &Schema{}
		switch elem := fromType(tt.Elem(), o); {
		case elem == nil:
		case elem.Bare:
			items.Type = elem.Type
		default:
			items.TypeSchema = elem
		}
		return &Schema{Type: o.arrayKeyword(), Items: items}
	case *skema.UnionType:
		out := &Schema{}
		for _, m := range tt.Members() {
			out.OneOf = append(out.OneOf, fromSchema(m, o))
		}
		return out
	}
	return nil
}

// PrimitiveName maps a kind onto its projected type name: "string",
// "integer", "numeric", "boolean", "date" or "time". Kinds without a
// projection map to "".
func PrimitiveName(k skema.Kind) string {
	switch k {
	case skema.KindString:
		return "string"
	case skema.KindInteger:
		return "integer"
	case skema.KindFloat, skema.KindNumeric:
		return "numeric"
	case skema.KindBoolean:
		return "boolean"
	case skema.KindDate, skema.KindDateTime:
		return "date"
	case skema.KindTimestamp:
		return "time"
	}
	return ""
}
