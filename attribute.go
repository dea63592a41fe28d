package skema

import (
	"errors"
	"fmt"

	"github.com/reoring/skema/i18n"
)

// Attribute describes one declared field of a schema.
//
// Attributes are owned by the schema that declared them. Extending a schema
// copies its attributes, so the parent's and the child's declarations never
// share state.
type Attribute struct {
	Name string
	Type Type

	// Required is documentation and JSON-Schema metadata. Valid does not
	// enforce it; use a schema-level validator with Payload.Provided.
	Required bool

	Default    any
	HasDefault bool

	// Alias is an alternative name accepted on read and on import.
	Alias string

	Description string

	// Check is an optional predicate run by Valid against set values.
	Check func(any) bool
}

// SourceName is the identifier used to read the attribute from foreign
// objects: the alias when one is declared, the name otherwise.
func (a *Attribute) SourceName() string {
	if a.Alias != "" {
		return a.Alias
	}
	return a.Name
}

func (a *Attribute) clone() *Attribute {
	c := *a
	c.Default = cloneValue(a.Default)
	return &c
}

// initial is the value a fresh payload holds for the attribute.
func (a *Attribute) initial() any {
	if a.HasDefault {
		return cloneValue(a.Default)
	}
	return Unset
}

// coerce converts v into the attribute's stored representation. Primitive
// kinds coerce best-effort. Payload types wrap plain mappings and sequences
// through strict construction; construction errors other than a shape
// mismatch are returned.
func (a *Attribute) coerce(v any) (any, error) {
	switch t := a.Type.(type) {
	case Kind:
		return t.Coerce(v), nil
	case PayloadType:
		if v == nil || IsUnset(v) {
			return v, nil
		}
		if _, ok := v.(Instance); ok {
			return v, nil
		}
		inst, err := t.NewInstance(v)
		if err != nil {
			if errors.Is(err, ErrNotMapping) || errors.Is(err, ErrNotList) {
				return v, nil
			}
			return nil, fmt.Errorf("%s: %w", a.Name, err)
		}
		return inst, nil
	}
	return v, nil
}

// validate reports type and check failures for a stored value. Unset values
// are exempt from both; nil is exempt from the type check.
func (a *Attribute) validate(v any) Issues {
	if IsUnset(v) {
		return nil
	}
	var iss Issues
	if v != nil && a.Type != nil && !a.Type.Accepts(v) {
		iss = AppendIssues(iss, Issue{
			Path:    "/" + a.Name,
			Code:    CodeInvalidType,
			Message: i18n.T(CodeInvalidType, map[string]string{"name": a.Name, "value": formatValue(v), "type": a.Type.TypeName()}),
			Params:  map[string]any{"name": a.Name, "type": a.Type.TypeName()},
		})
		return iss
	}
	if inst, ok := v.(Instance); ok {
		for _, it := range inst.Issues() {
			it.Path = "/" + a.Name + it.Path
			iss = AppendIssues(iss, it)
		}
	}
	if a.Check != nil && !a.Check(v) {
		iss = AppendIssues(iss, Issue{
			Path:    "/" + a.Name,
			Code:    CodeInvalid,
			Message: i18n.T(CodeInvalid, map[string]string{"name": a.Name}),
			Params:  map[string]any{"name": a.Name},
		})
	}
	return iss
}

// DerivedAttribute is a computed, read-only field. Its value is recomputed
// on every read and on every flatten; it is never stored or imported.
type DerivedAttribute struct {
	Name        string
	Type        Type
	Description string
	Compute     func(*Payload) any
}

func (d *DerivedAttribute) value(p *Payload) any {
	if d.Compute == nil {
		return nil
	}
	return d.Compute(p)
}

// formatValue renders a value the way messages quote it.
func formatValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case Instance:
		b, err := marshalJSON(t.Flatten())
		if err != nil {
			return fmt.Sprint(t.Flatten())
		}
		return string(b)
	}
	return fmt.Sprint(v)
}

// cloneData copies plain maps and slices so defaults are not shared between
// payloads.
func cloneData(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = cloneData(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneData(e)
		}
		return out
	}
	return v
}
