package skema

import (
	"context"
	"errors"
	"fmt"
	"reflect"
)

// AttributeSource lets a foreign object answer imports directly, without
// reflection. ok=false is a miss: the attribute falls back to its default or
// Unset.
type AttributeSource interface {
	LookupAttribute(ctx context.Context, name string) (v any, ok bool, err error)
}

// Import builds a payload leniently from src, which may be a string-keyed
// mapping, a *Payload or *Union of any schema, an AttributeSource, or any
// other value (struct or pointer) read through accessor methods and fields.
//
// For each attribute, a mapping is searched by name then alias; a payload
// is read by name; a foreign object is read by alias-or-name. A miss yields
// the attribute's default or Unset. Unrecognised source fields are ignored.
// Values for payload-typed attributes are imported recursively.
//
// Import fails only when an accessor returns an error or a nested strict
// construction fails.
func (s *Schema) Import(ctx context.Context, src any) (*Payload, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	p := s.blank()
	lookup := newLookup(src)
	for i, a := range s.attrs {
		v, ok, err := lookup(ctx, a)
		if err != nil {
			return nil, fmt.Errorf("skema: import %s.%s: %w", s.name, a.Name, err)
		}
		if !ok {
			continue // p already holds the default or Unset
		}
		if pt, isPayload := a.Type.(PayloadType); isPayload && !isNil(v) && !IsUnset(v) {
			inst, err := pt.ImportInstance(ctx, v)
			if err != nil {
				return nil, fmt.Errorf("skema: import %s.%s: %w", s.name, a.Name, err)
			}
			v = inst
		} else if isPayload && isNil(v) {
			v = nil
		}
		if err := p.assign(i, v); err != nil {
			return nil, fmt.Errorf("skema: import %s.%s: %w", s.name, a.Name, err)
		}
	}
	return p, nil
}

// ImportInstance implements PayloadType.
func (s *Schema) ImportInstance(ctx context.Context, src any) (Instance, error) {
	p, err := s.Import(ctx, src)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ImportArray imports every element of src leniently into an ordered
// collection of s.
func (s *Schema) ImportArray(ctx context.Context, src any) (*List, error) {
	return ArrayOf(s).Import(ctx, src)
}

// NewArray constructs every element of src strictly into an ordered
// collection of s. The first failing element aborts construction.
func (s *Schema) NewArray(src any) (*List, error) {
	return ArrayOf(s).New(src)
}

type lookupFunc func(ctx context.Context, a *Attribute) (any, bool, error)

func newLookup(src any) lookupFunc {
	switch t := src.(type) {
	case nil:
		return func(context.Context, *Attribute) (any, bool, error) { return nil, false, nil }
	case *Payload:
		return payloadLookup(t)
	case *Union:
		if t == nil {
			return newLookup(nil)
		}
		return payloadLookup(t.payload)
	case AttributeSource:
		return func(ctx context.Context, a *Attribute) (any, bool, error) {
			return t.LookupAttribute(ctx, a.SourceName())
		}
	}
	if m, ok := toStringMap(src); ok {
		return func(_ context.Context, a *Attribute) (any, bool, error) {
			if v, ok := m[a.Name]; ok {
				return v, true, nil
			}
			if a.Alias != "" {
				if v, ok := m[a.Alias]; ok {
					return v, true, nil
				}
			}
			return nil, false, nil
		}
	}
	rv := reflect.ValueOf(src)
	return func(ctx context.Context, a *Attribute) (any, bool, error) {
		name := a.SourceName()
		v, ok, err := callAccessor(ctx, rv, name)
		if ok || err != nil {
			return v, ok, err
		}
		v, ok = structField(rv, name)
		return v, ok, nil
	}
}

func payloadLookup(p *Payload) lookupFunc {
	return func(_ context.Context, a *Attribute) (any, bool, error) {
		if p == nil {
			return nil, false, nil
		}
		v, err := p.Get(a.Name)
		if err != nil {
			var ue *UnknownAttributeError
			if errors.As(err, &ue) {
				return nil, false, nil
			}
			return nil, false, err
		}
		return v, true, nil
	}
}
