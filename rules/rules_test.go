package rules_test

import (
	"errors"
	"testing"

	"github.com/reoring/skema"
	"github.com/reoring/skema/rules"
)

func orderSchema() *skema.Schema {
	item := skema.Define("ItemSchema").
		Attribute("sku", skema.KindString).
		Attribute("qty", skema.KindInteger).
		MustBuild()
	return skema.Define("OrderSchema").
		Attribute("id", skema.KindString).Required().
		Attribute("total", skema.KindInteger).
		Collection("items", item).
		ValidateE("required", rules.RequiredAttributes()).
		ValidateE("items", rules.And(rules.AtLeastOne("items"), rules.UniqueBy("items", "sku"))).
		MustBuild()
}

func codes(iss skema.Issues) map[string]string {
	out := map[string]string{}
	for _, it := range iss {
		out[it.Path] = it.Code
	}
	return out
}

func TestRules_Pass(t *testing.T) {
	p := orderSchema().MustNew(map[string]any{
		"id":    "o-1",
		"items": []any{map[string]any{"sku": "a"}, map[string]any{"sku": "b"}},
	})
	if !p.Valid() {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
}

func TestRules_Failures(t *testing.T) {
	p := orderSchema().MustNew(map[string]any{
		"items": []any{map[string]any{"sku": "a", "qty": 1}, map[string]any{"sku": "a"}},
	})
	got := codes(p.Issues())
	want := map[string]string{
		"/id":          skema.CodeRequired,
		"/items/1/sku": skema.CodeUniqueness,
	}
	for path, code := range want {
		if got[path] != code {
			t.Fatalf("%s: want %s, got %v", path, code, got)
		}
	}

	empty := orderSchema().MustNew(map[string]any{"id": "o-2", "items": []any{}})
	if c := codes(empty.Issues()); c["/items"] != skema.CodeTooShort || len(c) != 1 {
		t.Fatalf("empty items: %v", c)
	}
}

func TestOr_ReportsSmallestBranch(t *testing.T) {
	s := skema.Define("ContactSchema").
		Attribute("email", skema.KindString).
		Attribute("phone", skema.KindString).
		Attribute("address", skema.KindString).
		ValidateE("contact", rules.Or(rules.Present("email"), rules.Present("phone", "address"))).
		MustBuild()
	if !s.MustNew(map[string]any{"phone": "1", "address": "x"}).Valid() {
		t.Fatal("second branch should satisfy Or")
	}
	iss := s.MustNew(nil).Issues()
	if len(iss) != 1 || iss[0].Path != "/email" {
		t.Fatalf("want the single-issue branch, got %+v", iss)
	}
}

func TestAnd_FoldsPlainErrors(t *testing.T) {
	s := skema.Define("PlainSchema").
		ValidateE("plain", rules.And(func(*skema.Payload) error { return errors.New("boom") })).
		MustBuild()
	iss := s.MustNew(nil).Issues()
	if len(iss) != 1 || iss[0].Code != skema.CodeValidatorFail || iss[0].Message != "boom" {
		t.Fatalf("issues: %+v", iss)
	}
}
