package skema

import (
	"context"
	"fmt"
	"strings"
)

// UnionType is the tagged-union type: an instance holds exactly one payload
// of one of the member schemas.
type UnionType struct {
	members []*Schema
}

// AnyOf builds a union over members. Member order is the order in which
// construction tries them.
func AnyOf(members ...*Schema) *UnionType {
	ms := make([]*Schema, 0, len(members))
	for _, m := range members {
		if m != nil {
			ms = append(ms, m)
		}
	}
	return &UnionType{members: ms}
}

// Members returns the member schemas.
func (t *UnionType) Members() []*Schema {
	out := make([]*Schema, len(t.members))
	copy(out, t.members)
	return out
}

// TypeName implements Type.
func (t *UnionType) TypeName() string {
	names := make([]string, len(t.members))
	for i, m := range t.members {
		names[i] = m.name
	}
	return "AnyOf(" + strings.Join(names, ", ") + ")"
}

func (t *UnionType) String() string { return t.TypeName() }

func (t *UnionType) member(s *Schema) bool {
	for _, m := range t.members {
		if m == s {
			return true
		}
	}
	return false
}

// Accepts reports whether v is a *Union of this type, or a *Payload of one
// of the member schemas.
func (t *UnionType) Accepts(v any) bool {
	switch u := v.(type) {
	case *Union:
		return u != nil && u.payload != nil && sameType(u.typ, t)
	case *Payload:
		return u != nil && t.member(u.schema)
	}
	return false
}

// New constructs a union strictly. A payload of a member is wrapped as-is.
// Otherwise the first member whose strict construction succeeds and
// validates is chosen, falling back to the first member whose construction
// succeeds. When every member rejects src the error wraps ErrNoMember.
func (t *UnionType) New(src any) (*Union, error) {
	switch v := src.(type) {
	case *Union:
		if t.Accepts(v) {
			return v, nil
		}
		src = v.payload
	}
	if p, ok := src.(*Payload); ok && p != nil && t.member(p.schema) {
		return &Union{typ: t, payload: p}, nil
	}
	if _, ok := toStringMap(src); !ok {
		return nil, fmt.Errorf("%w: %T", ErrNotMapping, src)
	}
	var fallback *Payload
	for _, m := range t.members {
		p, err := m.New(src)
		if err != nil {
			continue
		}
		if p.Valid() {
			return &Union{typ: t, payload: p}, nil
		}
		if fallback == nil {
			fallback = p
		}
	}
	if fallback != nil {
		return &Union{typ: t, payload: fallback}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNoMember, t.TypeName())
}

// NewInstance implements PayloadType.
func (t *UnionType) NewInstance(src any) (Instance, error) {
	u, err := t.New(src)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Import constructs a union leniently. A payload source of a member schema
// is imported into that member. Otherwise every member imports src and the
// best candidate wins: valid imports beat invalid ones, then the import that
// found more attributes, then member order.
func (t *UnionType) Import(ctx context.Context, src any) (*Union, error) {
	if len(t.members) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoMember, t.TypeName())
	}
	if u, ok := src.(*Union); ok && u != nil {
		src = u.payload
	}
	if p, ok := src.(*Payload); ok && p != nil && t.member(p.schema) {
		c, err := p.schema.Import(ctx, p)
		if err != nil {
			return nil, err
		}
		return &Union{typ: t, payload: c}, nil
	}
	var (
		best      *Payload
		bestValid bool
		bestFound int
	)
	for _, m := range t.members {
		p, err := m.Import(ctx, src)
		if err != nil {
			return nil, err
		}
		valid, found := p.Valid(), p.providedCount()
		if best == nil || (valid && !bestValid) || (valid == bestValid && found > bestFound) {
			best, bestValid, bestFound = p, valid, found
		}
	}
	return &Union{typ: t, payload: best}, nil
}

// ImportInstance implements PayloadType.
func (t *UnionType) ImportInstance(ctx context.Context, src any) (Instance, error) {
	u, err := t.Import(ctx, src)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Union is an instance of a UnionType. Field access, validation, flattening
// and equality delegate to the held payload.
type Union struct {
	typ     *UnionType
	payload *Payload
}

// Type implements Instance.
func (u *Union) Type() PayloadType { return u.typ }

// UnionType returns the union type.
func (u *Union) UnionType() *UnionType { return u.typ }

// Payload returns the held concrete payload.
func (u *Union) Payload() *Payload { return u.payload }

// Member returns the schema of the held payload.
func (u *Union) Member() *Schema { return u.payload.schema }

// Is reports whether the held payload is of schema s.
func (u *Union) Is(s *Schema) bool { return s.Accepts(u) }

func (u *Union) Get(name string) (any, error) { return u.payload.Get(name) }
func (u *Union) Value(name string) any        { return u.payload.Value(name) }
func (u *Union) Raw(name string) (any, bool)  { return u.payload.Raw(name) }
func (u *Union) Set(name string, v any) error { return u.payload.Set(name, v) }
func (u *Union) Provided(name string) bool    { return u.payload.Provided(name) }
func (u *Union) CanGet(name string) bool      { return u.payload.CanGet(name) }
func (u *Union) CanSet(name string) bool      { return u.payload.CanSet(name) }
func (u *Union) Issues() Issues               { return u.payload.Issues() }
func (u *Union) Valid() bool                  { return u.payload.Valid() }
func (u *Union) Errors() []string             { return u.payload.Errors() }
func (u *Union) ToData() map[string]any       { return u.payload.ToData() }
func (u *Union) Flatten() any                 { return u.payload.Flatten() }
func (u *Union) MarshalJSON() ([]byte, error) { return u.payload.MarshalJSON() }
func (u *Union) flatten(derived bool) any     { return u.payload.flatten(derived) }

// Equal compares the held payload with other; other may be a *Union or a
// bare *Payload.
func (u *Union) Equal(other any) bool {
	if u == nil {
		return other == nil
	}
	return u.payload.Equal(other)
}

func (u *Union) cloneInstance() Instance {
	return &Union{typ: u.typ, payload: u.payload.DeepClone()}
}
