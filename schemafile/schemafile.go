// Package schemafile loads schema declarations from YAML documents.
//
// A document lists schemas under a top-level "schemas" key:
//
//	schemas:
//	  - name: AddressSchema
//	    attributes:
//	      - {name: city, type: string, required: true}
//	  - name: UserSchema
//	    extends: BaseIDSchema
//	    attributes:
//	      - {name: name, type: string, alias: full_name}
//	      - {name: home, type: AddressSchema}
//	      - {name: tags, type: array, of: string}
//	      - {name: contact, type: any_of, members: [EmailSchema, PhoneSchema]}
//
// Attribute types are kind names (see skema.ParseKind), schema names, "array"
// with "of", or "any_of" with "members". Schema names may refer to schemas
// declared later in the file; a parent named in "extends" must be declared
// earlier.
package schemafile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/reoring/skema"
)

// Document is the YAML root.
type Document struct {
	Schemas []Definition `yaml:"schemas"`
}

// Definition declares one schema.
type Definition struct {
	Name        string          `yaml:"name"`
	Extends     string          `yaml:"extends"`
	Description string          `yaml:"description"`
	Attributes  []AttributeDecl `yaml:"attributes"`
}

// AttributeDecl declares one attribute. Default is kept as a node so an
// explicit "default: null" differs from no default.
type AttributeDecl struct {
	Name        string     `yaml:"name"`
	Type        string     `yaml:"type"`
	Of          string     `yaml:"of"`
	Members     []string   `yaml:"members"`
	Required    bool       `yaml:"required"`
	Default     *yaml.Node `yaml:"default"`
	Alias       string     `yaml:"alias"`
	Description string     `yaml:"description"`
}

// Registry holds the schemas of a document by name.
type Registry struct {
	schemas map[string]*skema.Schema
	order   []string
}

// Lookup returns the named schema.
func (r *Registry) Lookup(name string) (*skema.Schema, bool) {
	s, ok := r.schemas[name]
	return s, ok
}

// Names returns the schema names in declaration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Option configures loading.
type Option func(*loader)

// WithLogger sets the logger used for debug output.
func WithLogger(l zerolog.Logger) Option {
	return func(ld *loader) { ld.log = l }
}

// WithBase makes schemas from reg available to "extends" and to attribute
// types, as if declared before the document.
func WithBase(reg map[string]*skema.Schema) Option {
	return func(ld *loader) {
		for name, s := range reg {
			ld.base[name] = s
		}
	}
}

// LoadFile reads and loads the YAML document at path.
func LoadFile(path string, opts ...Option) (*Registry, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schemafile: %w", err)
	}
	return Parse(b, opts...)
}

// Load reads a YAML document from r.
func Load(r io.Reader, opts ...Option) (*Registry, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("schemafile: %w", err)
	}
	return Parse(b, opts...)
}

// Parse loads the YAML document in data.
func Parse(data []byte, opts ...Option) (*Registry, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("schemafile: %w", err)
	}
	ld := &loader{log: zerolog.Nop(), base: map[string]*skema.Schema{}}
	for _, o := range opts {
		o(ld)
	}
	reg, err := ld.load(doc)
	if err != nil {
		return nil, fmt.Errorf("schemafile: %w", err)
	}
	return reg, nil
}

type loader struct {
	log   zerolog.Logger
	base  map[string]*skema.Schema
	defs  map[string]*Definition
	pos   map[string]int
	built map[string]*skema.Schema
	busy  map[string]bool
}

func (ld *loader) load(doc Document) (*Registry, error) {
	ld.defs = make(map[string]*Definition, len(doc.Schemas))
	ld.pos = make(map[string]int, len(doc.Schemas))
	ld.built = make(map[string]*skema.Schema, len(doc.Schemas))
	ld.busy = map[string]bool{}

	reg := &Registry{schemas: map[string]*skema.Schema{}}
	for i := range doc.Schemas {
		d := &doc.Schemas[i]
		if d.Name == "" {
			return nil, fmt.Errorf("schema #%d has no name", i+1)
		}
		if _, dup := ld.defs[d.Name]; dup {
			return nil, fmt.Errorf("schema %s declared twice", d.Name)
		}
		ld.defs[d.Name] = d
		ld.pos[d.Name] = i
		reg.order = append(reg.order, d.Name)
	}
	for _, name := range reg.order {
		s, err := ld.schema(name)
		if err != nil {
			return nil, err
		}
		reg.schemas[name] = s
	}
	ld.log.Debug().Int("schemas", len(reg.order)).Msg("schema document loaded")
	return reg, nil
}

// schema builds the named schema and, first, every schema it refers to.
func (ld *loader) schema(name string) (*skema.Schema, error) {
	if s, ok := ld.built[name]; ok {
		return s, nil
	}
	d, ok := ld.defs[name]
	if !ok {
		if s, ok := ld.base[name]; ok {
			return s, nil
		}
		return nil, fmt.Errorf("unknown schema %q", name)
	}
	if ld.busy[name] {
		return nil, fmt.Errorf("schema %s refers to itself", name)
	}
	ld.busy[name] = true
	defer delete(ld.busy, name)

	var b *skema.Builder
	if d.Extends != "" {
		parent, err := ld.parent(d)
		if err != nil {
			return nil, err
		}
		b = skema.Extend(parent, d.Name)
	} else {
		b = skema.Define(d.Name)
	}
	if d.Description != "" {
		b.Describe(d.Description)
	}
	for _, a := range d.Attributes {
		if err := ld.attribute(b, d.Name, a); err != nil {
			return nil, err
		}
	}
	s, err := b.Build()
	if err != nil {
		return nil, err
	}
	ld.built[name] = s
	ld.log.Debug().
		Str("schema", s.Name()).
		Str("extends", d.Extends).
		Int("attributes", len(s.Attributes())).
		Msg("schema defined")
	return s, nil
}

func (ld *loader) parent(d *Definition) (*skema.Schema, error) {
	if p, ok := ld.pos[d.Extends]; ok && p >= ld.pos[d.Name] {
		return nil, fmt.Errorf("%s extends %s, which is declared later", d.Name, d.Extends)
	}
	return ld.schema(d.Extends)
}

func (ld *loader) attribute(b *skema.Builder, schema string, a AttributeDecl) error {
	if a.Name == "" {
		return fmt.Errorf("%s: attribute without a name", schema)
	}
	t, err := ld.resolveType(a)
	if err != nil {
		return fmt.Errorf("%s.%s: %w", schema, a.Name, err)
	}
	step := b.Attribute(a.Name, t)
	if a.Required {
		step.Required()
	}
	if a.Alias != "" {
		step.Alias(a.Alias)
	}
	if a.Description != "" {
		step.Describe(a.Description)
	}
	if a.Default != nil {
		var v any
		if err := a.Default.Decode(&v); err != nil {
			return fmt.Errorf("%s.%s: default: %w", schema, a.Name, err)
		}
		step.Default(v)
	}
	return nil
}

func (ld *loader) resolveType(a AttributeDecl) (skema.Type, error) {
	switch a.Type {
	case "":
		return nil, errors.New("missing type")
	case "array":
		if a.Of == "" {
			return nil, errors.New(`array needs "of"`)
		}
		elem, err := ld.named(a.Of)
		if err != nil {
			return nil, err
		}
		return skema.ArrayOf(elem), nil
	case "any_of":
		if len(a.Members) == 0 {
			return nil, errors.New(`any_of needs "members"`)
		}
		members := make([]*skema.Schema, 0, len(a.Members))
		for _, m := range a.Members {
			s, err := ld.schema(m)
			if err != nil {
				return nil, err
			}
			members = append(members, s)
		}
		return skema.AnyOf(members...), nil
	}
	return ld.named(a.Type)
}

// named resolves a kind name or a schema name.
func (ld *loader) named(name string) (skema.Type, error) {
	if k, ok := skema.ParseKind(name); ok {
		return k, nil
	}
	_, declared := ld.defs[name]
	_, known := ld.base[name]
	if !declared && !known {
		return nil, fmt.Errorf("unknown type %q", name)
	}
	return ld.schema(name)
}
