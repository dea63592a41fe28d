package skema

import "context"

// Type is the declared type of an attribute: a primitive Kind, a *Schema, or
// one of the container types (*ArrayType, *UnionType).
type Type interface {
	// TypeName is the human-readable name used in messages and documentation.
	TypeName() string
	// Accepts reports whether v is an instance of the type, honoring subtype
	// compatibility (Integer is Numeric, a DateTime is a Date, ...).
	Accepts(v any) bool
}

// PayloadType is a Type whose values are payload-like instances: schemas and
// the containers built on them.
type PayloadType interface {
	Type
	// NewInstance constructs an instance strictly from src.
	NewInstance(src any) (Instance, error)
	// ImportInstance constructs an instance leniently from src.
	ImportInstance(ctx context.Context, src any) (Instance, error)
}

// Instance is implemented by *Payload, *List and *Union.
type Instance interface {
	Type() PayloadType
	Valid() bool
	Errors() []string
	Issues() Issues
	// Flatten returns the plain data structure (maps, slices, scalars).
	Flatten() any
	Equal(other any) bool
}

var (
	_ PayloadType = (*Schema)(nil)
	_ PayloadType = (*ArrayType)(nil)
	_ PayloadType = (*UnionType)(nil)
	_ Instance    = (*Payload)(nil)
	_ Instance    = (*List)(nil)
	_ Instance    = (*Union)(nil)
)

// UnsetValue is the type of the Unset sentinel.
type UnsetValue struct{}

func (UnsetValue) String() string { return "<unset>" }

// Unset marks an attribute that was never provided. It is distinct from an
// explicit nil, which means "provided as empty".
var Unset = UnsetValue{}

// IsUnset reports whether v is the Unset sentinel.
func IsUnset(v any) bool {
	_, ok := v.(UnsetValue)
	return ok
}

// IsA reports whether v is an instance of t.
func IsA(v any, t Type) bool {
	if t == nil {
		return false
	}
	return t.Accepts(v)
}

// sameType compares types structurally: kinds by value, schemas by identity,
// containers by their element/member types.
func sameType(a, b Type) bool {
	switch at := a.(type) {
	case Kind:
		bt, ok := b.(Kind)
		return ok && at == bt
	case *Schema:
		bt, ok := b.(*Schema)
		return ok && at == bt
	case *ArrayType:
		bt, ok := b.(*ArrayType)
		return ok && sameType(at.elem, bt.elem)
	case *UnionType:
		bt, ok := b.(*UnionType)
		if !ok || len(at.members) != len(bt.members) {
			return false
		}
		for i := range at.members {
			if at.members[i] != bt.members[i] {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}
