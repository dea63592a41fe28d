package skema

import (
	"bytes"
	"context"
	"fmt"
	"reflect"
	"strconv"

	"github.com/reoring/skema/i18n"
)

// ArrayType is the ordered-collection type: every element shares one
// element type, a primitive Kind or a PayloadType.
type ArrayType struct {
	elem Type
}

// ArrayOf wraps elem as "array of elem".
func ArrayOf(elem Type) *ArrayType {
	return &ArrayType{elem: elem}
}

// Elem returns the element type.
func (t *ArrayType) Elem() Type { return t.elem }

// TypeName implements Type.
func (t *ArrayType) TypeName() string {
	if t.elem == nil {
		return "ArrayOf(?)"
	}
	return "ArrayOf(" + t.elem.TypeName() + ")"
}

func (t *ArrayType) String() string { return t.TypeName() }

// Accepts reports whether v is a *List of the same element type.
func (t *ArrayType) Accepts(v any) bool {
	l, ok := v.(*List)
	return ok && l != nil && sameType(l.typ.elem, t.elem)
}

// New constructs a collection strictly. Elements that are mappings go
// through strict construction of the element schema; elements already of
// the element type are kept; other objects are imported; primitives are
// coerced. The first failing element aborts construction.
func (t *ArrayType) New(src any) (*List, error) {
	if l, ok := src.(*List); ok && t.Accepts(l) {
		return l, nil
	}
	items, ok := toSlice(src)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrNotList, src)
	}
	l := &List{typ: t, items: make([]any, len(items))}
	for i, e := range items {
		v, err := t.newElem(e)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		l.items[i] = v
	}
	return l, nil
}

func (t *ArrayType) newElem(e any) (any, error) {
	switch et := t.elem.(type) {
	case Kind:
		return et.Coerce(e), nil
	case PayloadType:
		if isNil(e) {
			return nil, nil
		}
		if et.Accepts(e) {
			return e, nil
		}
		if _, isMap := toStringMap(e); isMap {
			return et.NewInstance(e)
		}
		if _, isSeq := toSlice(e); isSeq {
			return et.NewInstance(e)
		}
		if _, isInst := e.(Instance); !isInst && !isScalar(e) {
			return et.ImportInstance(context.Background(), e)
		}
	}
	return e, nil
}

// NewInstance implements PayloadType.
func (t *ArrayType) NewInstance(src any) (Instance, error) {
	l, err := t.New(src)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// Import constructs a collection leniently; every element is imported into
// the element type.
func (t *ArrayType) Import(ctx context.Context, src any) (*List, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	items, ok := toSlice(src)
	if !ok {
		if l, isList := src.(*List); isList && l != nil {
			items = l.items
		} else {
			return nil, fmt.Errorf("%w: %T", ErrNotList, src)
		}
	}
	l := &List{typ: t, items: make([]any, len(items))}
	for i, e := range items {
		switch et := t.elem.(type) {
		case Kind:
			l.items[i] = et.Coerce(e)
		case PayloadType:
			if isNil(e) {
				continue
			}
			v, err := et.ImportInstance(ctx, e)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			l.items[i] = v
		default:
			l.items[i] = e
		}
	}
	return l, nil
}

// ImportInstance implements PayloadType.
func (t *ArrayType) ImportInstance(ctx context.Context, src any) (Instance, error) {
	l, err := t.Import(ctx, src)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// List is an instance of an ArrayType.
type List struct {
	typ   *ArrayType
	items []any
}

// Type implements Instance.
func (l *List) Type() PayloadType { return l.typ }

// ArrayType returns the collection type.
func (l *List) ArrayType() *ArrayType { return l.typ }

// Len returns the number of elements.
func (l *List) Len() int { return len(l.items) }

// At returns element i. It panics when i is out of range.
func (l *List) At(i int) any { return l.items[i] }

// Items returns a copy of the elements.
func (l *List) Items() []any {
	out := make([]any, len(l.items))
	copy(out, l.items)
	return out
}

// Append adds elements the way New would construct them.
func (l *List) Append(vs ...any) error {
	for _, v := range vs {
		e, err := l.typ.newElem(v)
		if err != nil {
			return fmt.Errorf("[%d]: %w", len(l.items), err)
		}
		l.items = append(l.items, e)
	}
	return nil
}

// Issues validates every element. Element issues are prefixed with the
// element index.
func (l *List) Issues() Issues {
	var iss Issues
	for i, e := range l.items {
		idx := "[" + strconv.Itoa(i) + "]"
		if e == nil {
			continue
		}
		if l.typ.elem != nil && !l.typ.elem.Accepts(e) {
			iss = AppendIssues(iss, Issue{
				Path:    "/" + strconv.Itoa(i),
				Code:    CodeInvalidType,
				Message: i18n.T(CodeInvalidType, map[string]string{"name": idx, "value": formatValue(e), "type": l.typ.elem.TypeName()}),
				Params:  map[string]any{"index": i, "type": l.typ.elem.TypeName()},
			})
			continue
		}
		inst, ok := e.(Instance)
		if !ok {
			continue
		}
		for _, it := range inst.Issues() {
			it.Path = "/" + strconv.Itoa(i) + it.Path
			it.Message = idx + " " + it.Message
			iss = AppendIssues(iss, it)
		}
	}
	return iss
}

// Valid reports whether every element is valid.
func (l *List) Valid() bool { return len(l.Issues()) == 0 }

// Errors returns the element messages.
func (l *List) Errors() []string { return l.Issues().Messages() }

// ToData flattens every element.
func (l *List) ToData() []any { return l.flatten(true).([]any) }

// Flatten implements Instance.
func (l *List) Flatten() any { return l.ToData() }

func (l *List) flatten(derived bool) any {
	out := make([]any, len(l.items))
	for i, e := range l.items {
		out[i] = flattenValue(e, derived)
	}
	return out
}

// Equal reports whether other is a *List of the same element type holding
// equal flattened elements.
func (l *List) Equal(other any) bool {
	o, ok := other.(*List)
	if !ok || l == nil || o == nil {
		return ok && l == nil && o == nil
	}
	return sameType(l.typ.elem, o.typ.elem) && reflect.DeepEqual(l.ToData(), o.ToData())
}

func (l *List) cloneInstance() Instance {
	c := &List{typ: l.typ, items: make([]any, len(l.items))}
	for i, e := range l.items {
		c.items[i] = cloneValue(e)
	}
	return c
}

// MarshalJSON encodes the elements as a JSON array.
func (l *List) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, e := range l.items {
		if i > 0 {
			buf.WriteByte(',')
		}
		b, err := marshalJSON(e)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		buf.Write(b)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// Any reports whether pred holds for some element. A nil pred tests
// truthiness.
func (l *List) Any(pred func(any) bool) bool {
	pred = orTruthy(pred)
	for _, e := range l.items {
		if pred(e) {
			return true
		}
	}
	return false
}

// All reports whether pred holds for every element.
func (l *List) All(pred func(any) bool) bool {
	pred = orTruthy(pred)
	for _, e := range l.items {
		if !pred(e) {
			return false
		}
	}
	return true
}

// None reports whether pred holds for no element.
func (l *List) None(pred func(any) bool) bool { return !l.Any(pred) }

// One reports whether pred holds for exactly one element.
func (l *List) One(pred func(any) bool) bool {
	pred = orTruthy(pred)
	n := 0
	for _, e := range l.items {
		if pred(e) {
			n++
			if n > 1 {
				return false
			}
		}
	}
	return n == 1
}

// Reduce folds the elements of l into an accumulator.
func Reduce[T any](l *List, init T, fn func(acc T, e any) T) T {
	acc := init
	for _, e := range l.items {
		acc = fn(acc, e)
	}
	return acc
}

// MapList maps every element of l.
func MapList[T any](l *List, fn func(e any) T) []T {
	out := make([]T, len(l.items))
	for i, e := range l.items {
		out[i] = fn(e)
	}
	return out
}

func orTruthy(pred func(any) bool) func(any) bool {
	if pred != nil {
		return pred
	}
	return truthy
}

func truthy(v any) bool {
	if v == nil || IsUnset(v) {
		return false
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return true
}

func isScalar(v any) bool {
	switch reflect.ValueOf(v).Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
