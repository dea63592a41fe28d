package schemafile_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/reoring/skema"
	"github.com/reoring/skema/basic"
	"github.com/reoring/skema/schemafile"
)

const defs = `
schemas:
  - name: UserSchema
    extends: BaseIDSchema
    description: a user
    attributes:
      - {name: name, type: string, required: true, alias: full_name, description: display name}
      - {name: admin, type: bool, default: false}
      - {name: home, type: AddressSchema}
      - {name: tags, type: array, of: string}
      - {name: contact, type: any_of, members: [EmailSchema, PhoneSchema]}
  - name: AddressSchema
    attributes:
      - {name: city, type: string}
  - name: EmailSchema
    attributes:
      - {name: email, type: string}
  - name: PhoneSchema
    attributes:
      - {name: phone, type: integer}
`

func base() schemafile.Option {
	return schemafile.WithBase(map[string]*skema.Schema{"BaseIDSchema": basic.Identified})
}

func TestParse_BuildsSchemas(t *testing.T) {
	var buf bytes.Buffer
	reg, err := schemafile.Parse([]byte(defs), base(), schemafile.WithLogger(zerolog.New(&buf)))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := strings.Join(reg.Names(), ","); got != "UserSchema,AddressSchema,EmailSchema,PhoneSchema" {
		t.Fatalf("names: %s", got)
	}
	user, ok := reg.Lookup("UserSchema")
	if !ok {
		t.Fatal("UserSchema missing")
	}
	if user.Parent() != basic.Identified || user.Description() != "a user" {
		t.Fatalf("parent/description: %v %q", user.Parent(), user.Description())
	}
	name, _ := user.Attribute("name")
	if !name.Required || name.Alias != "full_name" || name.Description != "display name" {
		t.Fatalf("name attribute: %+v", name)
	}
	home, _ := user.Attribute("home")
	addr, _ := reg.Lookup("AddressSchema")
	if home.Type != addr {
		t.Fatal("forward reference should resolve to the registered schema")
	}
	if tags, _ := user.Attribute("tags"); tags.Type.TypeName() != "ArrayOf(String)" {
		t.Fatalf("tags: %s", tags.Type.TypeName())
	}
	if c, _ := user.Attribute("contact"); c.Type.TypeName() != "AnyOf(EmailSchema, PhoneSchema)" {
		t.Fatalf("contact: %s", c.Type.TypeName())
	}
	if !strings.Contains(buf.String(), `"schema":"UserSchema"`) {
		t.Fatalf("expected debug log per schema, got %s", buf.String())
	}
}

func TestParse_LoadedSchemaImports(t *testing.T) {
	reg, err := schemafile.Parse([]byte(defs), base())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	user, _ := reg.Lookup("UserSchema")
	p, err := user.Import(context.Background(), map[string]any{
		"full_name": "Ada",
		"id":        "3",
		"home":      map[string]any{"city": "London"},
		"contact":   map[string]any{"phone": "5551234"},
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if p.Value("name") != "Ada" || p.Value("id") != int64(3) || p.Value("admin") != false {
		t.Fatalf("payload: %v", p)
	}
	u, ok := p.Value("contact").(*skema.Union)
	if !ok || u.Member().Name() != "PhoneSchema" {
		t.Fatalf("contact: %#v", p.Value("contact"))
	}
	if !p.Valid() {
		t.Fatalf("errors: %v", p.Errors())
	}
}

func TestParse_Errors(t *testing.T) {
	cases := map[string]string{
		"unknown type": `
schemas:
  - name: A
    attributes: [{name: x, type: nope}]`,
		"late parent": `
schemas:
  - name: B
    extends: A
  - name: A`,
		"cycle": `
schemas:
  - name: A
    attributes: [{name: self, type: A}]`,
		"array without of": `
schemas:
  - name: A
    attributes: [{name: xs, type: array}]`,
		"unknown field": `
schemas:
  - name: A
    colour: red`,
	}
	for name, doc := range cases {
		if _, err := schemafile.Parse([]byte(doc)); err == nil {
			t.Fatalf("%s: expected an error", name)
		} else if !strings.HasPrefix(err.Error(), "schemafile: ") {
			t.Fatalf("%s: error should be prefixed: %v", name, err)
		}
	}
}

func TestLoad_Empty(t *testing.T) {
	reg, err := schemafile.Load(strings.NewReader(""))
	if err != nil || len(reg.Names()) != 0 {
		t.Fatalf("empty document: %v %v", reg, err)
	}
}
