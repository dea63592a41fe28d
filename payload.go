package skema

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"sort"

	json "github.com/goccy/go-json"

	"github.com/reoring/skema/i18n"
)

// Payload is an instance of a Schema. It holds one value per declared
// attribute; a value is either a coerced value, an explicit nil, or Unset.
//
// A Payload is not safe for concurrent mutation.
type Payload struct {
	schema *Schema
	values []any
}

var errValidatorFalse = errors.New("skema: validator returned false")

func (s *Schema) blank() *Payload {
	p := &Payload{schema: s, values: make([]any, len(s.attrs))}
	for i, a := range s.attrs {
		p.values[i] = a.initial()
	}
	return p
}

// New constructs a payload strictly from a string-keyed mapping. Every
// attribute starts at its default or Unset; recognised keys are then
// assigned through coercion. When src has keys the schema does not declare,
// the recognised keys are still applied and the partially built payload is
// returned together with an *UnknownAttributeError naming the others.
// Keys are applied in sorted order; when one fails strict construction of a
// nested payload, New stops there and returns the payload with only the
// earlier keys applied. Unknown keys are not reported in that case.
//
// A nil src yields a payload holding only defaults.
func (s *Schema) New(src any) (*Payload, error) {
	p := s.blank()
	if src == nil {
		return p, nil
	}
	m, ok := toStringMap(src)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrNotMapping, src)
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var unknown []string
	for _, k := range keys {
		i, ok := s.index[k]
		if !ok {
			unknown = append(unknown, k)
			continue
		}
		if err := p.assign(i, m[k]); err != nil {
			return p, err
		}
	}
	if len(unknown) > 0 {
		return p, unknownAttribute(s.name, unknown...)
	}
	return p, nil
}

// MustNew is like New but panics on error.
func (s *Schema) MustNew(src any) *Payload {
	p, err := s.New(src)
	if err != nil {
		panic(err)
	}
	return p
}

// NewInstance implements PayloadType.
func (s *Schema) NewInstance(src any) (Instance, error) {
	p, err := s.New(src)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Payload) assign(i int, v any) error {
	a := p.schema.attrs[i]
	stored, err := a.coerce(v)
	if err != nil {
		return err
	}
	p.values[i] = stored
	return nil
}

// Schema returns the payload's schema.
func (p *Payload) Schema() *Schema { return p.schema }

// Type implements Instance.
func (p *Payload) Type() PayloadType { return p.schema }

// Get reads an attribute by name or alias, or computes a derived attribute.
// Unset values read as nil. Unknown names fail with *UnknownAttributeError.
func (p *Payload) Get(name string) (any, error) {
	if d, ok := p.schema.DerivedAttribute(name); ok {
		return d.value(p), nil
	}
	if _, i, ok := p.schema.resolve(name); ok {
		v := p.values[i]
		if IsUnset(v) {
			return nil, nil
		}
		return v, nil
	}
	return nil, unknownAttribute(p.schema.name, name)
}

// Value is Get without the error; unknown names read as nil.
func (p *Payload) Value(name string) any {
	v, _ := p.Get(name)
	return v
}

// Raw reads a stored value by name or alias without hiding Unset.
func (p *Payload) Raw(name string) (any, bool) {
	_, i, ok := p.schema.resolve(name)
	if !ok {
		return nil, false
	}
	return p.values[i], true
}

// Set assigns a declared attribute. Aliases and derived attributes are not
// assignable. The value goes through the same coercion as construction.
func (p *Payload) Set(name string, v any) error {
	i, ok := p.schema.index[name]
	if !ok {
		return unknownAttribute(p.schema.name, name)
	}
	return p.assign(i, v)
}

// Unset returns the attribute to the not-provided state.
func (p *Payload) Unset(name string) error {
	i, ok := p.schema.index[name]
	if !ok {
		return unknownAttribute(p.schema.name, name)
	}
	p.values[i] = Unset
	return nil
}

// Provided reports whether the attribute holds a value, including an
// explicit nil. Unknown names are never provided.
func (p *Payload) Provided(name string) bool {
	v, ok := p.Raw(name)
	return ok && !IsUnset(v)
}

func (p *Payload) providedCount() int {
	n := 0
	for _, v := range p.values {
		if !IsUnset(v) {
			n++
		}
	}
	return n
}

// CanGet reports whether Get accepts name.
func (p *Payload) CanGet(name string) bool {
	if _, ok := p.schema.DerivedAttribute(name); ok {
		return true
	}
	_, _, ok := p.schema.resolve(name)
	return ok
}

// CanSet reports whether Set accepts name.
func (p *Payload) CanSet(name string) bool {
	_, ok := p.schema.index[name]
	return ok
}

// Issues validates the payload: the type and check of every attribute, then
// every schema-level validator in declaration order. A validator that
// returns an error or panics is recorded as a failure; one that returns
// Issues contributes them as they are.
func (p *Payload) Issues() Issues {
	var iss Issues
	for i, a := range p.schema.attrs {
		if more := a.validate(p.values[i]); len(more) > 0 {
			iss = AppendIssues(iss, more...)
		}
	}
	for _, v := range p.schema.validators {
		err := v.run(p)
		if err == nil {
			continue
		}
		if errors.Is(err, errValidatorFalse) {
			iss = AppendIssues(iss, Issue{
				Path:    "/",
				Code:    CodeValidation,
				Message: i18n.T(CodeValidation, map[string]string{"message": v.message}),
				Params:  map[string]any{"validator": v.message},
			})
			continue
		}
		var own Issues
		if errors.As(err, &own) {
			iss = AppendIssues(iss, own...)
			continue
		}
		iss = AppendIssues(iss, Issue{
			Path:    "/",
			Code:    CodeValidatorFail,
			Message: i18n.T(CodeValidatorFail, map[string]string{"message": err.Error()}),
			Params:  map[string]any{"validator": v.message},
		})
	}
	return iss
}

func (v validator) run(p *Payload) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
				return
			}
			err = fmt.Errorf("%v", r)
		}
	}()
	return v.fn(p)
}

// Valid reports whether Issues is empty.
func (p *Payload) Valid() bool { return len(p.Issues()) == 0 }

// Errors returns the validation messages in the order they were recorded.
func (p *Payload) Errors() []string { return p.Issues().Messages() }

// ToData flattens the payload into a plain mapping: set attributes (Unset
// ones skipped) with nested instances flattened, then every derived
// attribute freshly computed.
func (p *Payload) ToData() map[string]any { return p.data(true) }

// Flatten implements Instance.
func (p *Payload) Flatten() any { return p.ToData() }

func (p *Payload) data(derived bool) map[string]any {
	out := make(map[string]any, len(p.values)+len(p.schema.derived))
	for i, a := range p.schema.attrs {
		v := p.values[i]
		if IsUnset(v) {
			continue
		}
		out[a.Name] = flattenValue(v, derived)
	}
	if derived {
		for _, d := range p.schema.derived {
			out[d.Name] = flattenValue(d.value(p), true)
		}
	}
	return out
}

// StoredData is ToData without derived attributes, at every depth. It is the
// form strict construction accepts back.
func (p *Payload) StoredData() map[string]any { return p.data(false) }

type flattener interface {
	flatten(derived bool) any
}

func (p *Payload) flatten(derived bool) any { return p.data(derived) }

func flattenValue(v any, derived bool) any {
	switch t := v.(type) {
	case flattener:
		return t.flatten(derived)
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = flattenValue(e, derived)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = flattenValue(e, derived)
		}
		return out
	}
	return v
}

// Equal reports whether other is a payload of the same schema holding the
// same flattened data. A *Union is compared through the payload it holds.
func (p *Payload) Equal(other any) bool {
	var q *Payload
	switch t := other.(type) {
	case *Payload:
		q = t
	case *Union:
		if t != nil {
			q = t.payload
		}
	}
	if p == nil || q == nil {
		return p == nil && q == nil
	}
	return p.schema == q.schema && reflect.DeepEqual(p.ToData(), q.ToData())
}

// DeepClone copies the payload. Unset attributes stay Unset and nested
// instances are cloned, never shared.
func (p *Payload) DeepClone() *Payload {
	c := &Payload{schema: p.schema, values: make([]any, len(p.values))}
	for i, v := range p.values {
		c.values[i] = cloneValue(v)
	}
	return c
}

type cloner interface {
	cloneInstance() Instance
}

func (p *Payload) cloneInstance() Instance { return p.DeepClone() }

func cloneValue(v any) any {
	if c, ok := v.(cloner); ok {
		return c.cloneInstance()
	}
	return cloneData(v)
}

// MarshalJSON encodes the payload as a JSON object in declaration order,
// skipping Unset attributes and appending derived attributes.
func (p *Payload) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	write := func(name string, v any) error {
		b, err := marshalJSON(v)
		if err != nil {
			return fmt.Errorf("%s.%s: %w", p.schema.name, name, err)
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		k, _ := json.Marshal(name)
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(b)
		return nil
	}
	for i, a := range p.schema.attrs {
		if IsUnset(p.values[i]) {
			continue
		}
		if err := write(a.Name, p.values[i]); err != nil {
			return nil, err
		}
	}
	for _, d := range p.schema.derived {
		if err := write(d.Name, d.value(p)); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (p *Payload) String() string {
	b, err := p.MarshalJSON()
	if err != nil {
		return p.schema.name + "{?}"
	}
	return p.schema.name + string(b)
}

func marshalJSON(v any) ([]byte, error) { return json.Marshal(v) }
