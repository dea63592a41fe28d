package skema

import (
	"fmt"
)

// Schema is a named, immutable set of attributes, derived attributes and
// schema-level validators. Build one with Define or Extend.
//
// A Schema is safe for concurrent use once built.
type Schema struct {
	name        string
	description string
	parent      *Schema
	attrs       []*Attribute
	index       map[string]int
	aliases     map[string]int
	derived     []*DerivedAttribute
	derivedIdx  map[string]int
	validators  []validator
}

type validator struct {
	message string
	fn      func(*Payload) error
}

// Name returns the schema name.
func (s *Schema) Name() string { return s.name }

// Description returns the free-form schema description.
func (s *Schema) Description() string { return s.description }

// TypeName implements Type.
func (s *Schema) TypeName() string { return s.name }

func (s *Schema) String() string { return s.name }

// Parent returns the schema this one was extended from, or nil.
func (s *Schema) Parent() *Schema { return s.parent }

// Attributes returns the declared attributes (inherited first) in
// declaration order. The slice is a copy; the attributes must not be
// modified.
func (s *Schema) Attributes() []*Attribute {
	out := make([]*Attribute, len(s.attrs))
	copy(out, s.attrs)
	return out
}

// Attribute looks up a declared attribute by its name.
func (s *Schema) Attribute(name string) (*Attribute, bool) {
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.attrs[i], true
}

// DerivedAttributes returns the derived attributes in declaration order.
func (s *Schema) DerivedAttributes() []*DerivedAttribute {
	out := make([]*DerivedAttribute, len(s.derived))
	copy(out, s.derived)
	return out
}

// DerivedAttribute looks up a derived attribute by name.
func (s *Schema) DerivedAttribute(name string) (*DerivedAttribute, bool) {
	i, ok := s.derivedIdx[name]
	if !ok {
		return nil, false
	}
	return s.derived[i], true
}

// Validators returns the number of schema-level validators.
func (s *Schema) Validators() int { return len(s.validators) }

// Accepts reports whether v is a payload of exactly this schema. Payloads of
// an extended schema are not instances of the parent. A *Union holding a
// payload of this schema is.
func (s *Schema) Accepts(v any) bool {
	switch t := v.(type) {
	case *Payload:
		return t != nil && t.schema == s
	case *Union:
		return t != nil && t.payload != nil && t.payload.schema == s
	}
	return false
}

// resolve maps a readable identifier (name or alias) to an attribute.
func (s *Schema) resolve(name string) (*Attribute, int, bool) {
	if i, ok := s.index[name]; ok {
		return s.attrs[i], i, true
	}
	if i, ok := s.aliases[name]; ok {
		return s.attrs[i], i, true
	}
	return nil, -1, false
}

// Builder declares a schema. Builders are not safe for concurrent use.
type Builder struct {
	name        string
	description string
	parent      *Schema
	attrs       []*Attribute
	index       map[string]int
	derived     []*DerivedAttribute
	derivedIdx  map[string]int
	validators  []validator
}

// Define starts a new schema declaration.
func Define(name string) *Builder {
	return &Builder{
		name:       name,
		index:      map[string]int{},
		derivedIdx: map[string]int{},
	}
}

// Extend starts a schema declaration that begins with a copy of parent's
// attributes, derived attributes and validators. Later declarations on the
// new builder never affect parent.
func Extend(parent *Schema, name string) *Builder {
	b := Define(name)
	if parent == nil {
		return b
	}
	b.parent = parent
	for _, a := range parent.attrs {
		b.putAttribute(a.clone())
	}
	for _, d := range parent.derived {
		c := *d
		b.putDerived(&c)
	}
	b.validators = append(b.validators, parent.validators...)
	return b
}

// Describe sets the schema description used by documentation projections.
func (b *Builder) Describe(text string) *Builder {
	b.description = text
	return b
}

// putAttribute records a, overwriting an earlier declaration of the same
// name in place.
func (b *Builder) putAttribute(a *Attribute) *Attribute {
	if i, ok := b.index[a.Name]; ok {
		b.attrs[i] = a
		return a
	}
	b.index[a.Name] = len(b.attrs)
	b.attrs = append(b.attrs, a)
	return a
}

func (b *Builder) putDerived(d *DerivedAttribute) {
	if i, ok := b.derivedIdx[d.Name]; ok {
		b.derived[i] = d
		return
	}
	b.derivedIdx[d.Name] = len(b.derived)
	b.derived = append(b.derived, d)
}

// Attribute declares an attribute. Declaring a name twice keeps the last
// declaration.
func (b *Builder) Attribute(name string, t Type) *AttributeStep {
	a := b.putAttribute(&Attribute{Name: name, Type: t})
	return &AttributeStep{b: b, attr: a}
}

// Collection declares an attribute holding an ordered collection of elem.
func (b *Builder) Collection(name string, elem Type) *AttributeStep {
	return b.Attribute(name, ArrayOf(elem))
}

// Derived declares a computed attribute.
func (b *Builder) Derived(name string, t Type, fn func(*Payload) any) *Builder {
	b.putDerived(&DerivedAttribute{Name: name, Type: t, Compute: fn})
	return b
}

// Validate adds a schema-level predicate. message is recorded when fn
// returns false.
func (b *Builder) Validate(message string, fn func(*Payload) bool) *Builder {
	if fn == nil {
		return b
	}
	b.validators = append(b.validators, validator{message: message, fn: func(p *Payload) error {
		if fn(p) {
			return nil
		}
		return errValidatorFalse
	}})
	return b
}

// ValidateE adds a schema-level validator whose returned error message is
// recorded as the failure.
func (b *Builder) ValidateE(message string, fn func(*Payload) error) *Builder {
	if fn == nil {
		return b
	}
	b.validators = append(b.validators, validator{message: message, fn: fn})
	return b
}

// Build snapshots the declaration into an immutable Schema. The builder may
// keep evolving afterwards without affecting the built schema.
func (b *Builder) Build() (*Schema, error) {
	if b.name == "" {
		return nil, fmt.Errorf("skema: schema name is empty")
	}
	s := &Schema{
		name:        b.name,
		description: b.description,
		parent:      b.parent,
		attrs:       make([]*Attribute, 0, len(b.attrs)),
		index:       make(map[string]int, len(b.attrs)),
		aliases:     map[string]int{},
		derived:     make([]*DerivedAttribute, 0, len(b.derived)),
		derivedIdx:  make(map[string]int, len(b.derived)),
		validators:  append([]validator(nil), b.validators...),
	}
	for i, a := range b.attrs {
		if a.Type == nil {
			return nil, fmt.Errorf("skema: %s.%s has no type", b.name, a.Name)
		}
		s.attrs = append(s.attrs, a.clone())
		s.index[a.Name] = i
	}
	for i, a := range s.attrs {
		if a.Alias == "" {
			continue
		}
		if _, ok := s.aliases[a.Alias]; !ok {
			s.aliases[a.Alias] = i
		}
	}
	for i, d := range b.derived {
		c := *d
		s.derived = append(s.derived, &c)
		s.derivedIdx[d.Name] = i
	}
	return s, nil
}

// MustBuild is like Build but panics on error.
func (b *Builder) MustBuild() *Schema {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}

// AttributeStep configures the attribute declared last and forwards the
// Builder methods so declarations can be chained.
type AttributeStep struct {
	b    *Builder
	attr *Attribute
}

// Required marks the attribute as required.
func (f *AttributeStep) Required() *AttributeStep {
	f.attr.Required = true
	return f
}

// Default sets the value a payload starts with, and the value import falls
// back to when the source has none.
func (f *AttributeStep) Default(v any) *AttributeStep {
	f.attr.Default = v
	f.attr.HasDefault = true
	return f
}

// Alias sets an alternative name for reads and imports.
func (f *AttributeStep) Alias(name string) *AttributeStep {
	f.attr.Alias = name
	return f
}

// Describe sets the attribute description.
func (f *AttributeStep) Describe(text string) *AttributeStep {
	f.attr.Description = text
	return f
}

// Check sets the per-attribute validation predicate.
func (f *AttributeStep) Check(fn func(any) bool) *AttributeStep {
	f.attr.Check = fn
	return f
}

func (f *AttributeStep) Attribute(name string, t Type) *AttributeStep { return f.b.Attribute(name, t) }
func (f *AttributeStep) Collection(name string, elem Type) *AttributeStep {
	return f.b.Collection(name, elem)
}
func (f *AttributeStep) Derived(name string, t Type, fn func(*Payload) any) *Builder {
	return f.b.Derived(name, t, fn)
}
func (f *AttributeStep) Validate(message string, fn func(*Payload) bool) *Builder {
	return f.b.Validate(message, fn)
}
func (f *AttributeStep) ValidateE(message string, fn func(*Payload) error) *Builder {
	return f.b.ValidateE(message, fn)
}
func (f *AttributeStep) Build() (*Schema, error) { return f.b.Build() }
func (f *AttributeStep) MustBuild() *Schema      { return f.b.MustBuild() }
