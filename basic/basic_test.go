package basic_test

import (
	"context"
	"testing"
	"time"

	"github.com/reoring/skema"
	"github.com/reoring/skema/basic"
)

func names(s *skema.Schema) []string {
	var out []string
	for _, a := range s.Attributes() {
		out = append(out, a.Name)
	}
	return out
}

func TestIdentifiedExtendsTimestamps(t *testing.T) {
	got := names(basic.Identified)
	want := []string{"created_at", "updated_at", "id"}
	if len(got) != len(want) {
		t.Fatalf("attributes: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("attributes: %v", got)
		}
	}
	if basic.Identified.Parent() != basic.Timestamps {
		t.Fatal("parent should be Timestamps")
	}
	if _, ok := basic.Timestamps.Attribute("id"); ok {
		t.Fatal("extending must not touch the parent")
	}
}

func TestIdentifiedCoercesTimestamps(t *testing.T) {
	p, err := basic.Identified.Import(context.Background(), map[string]any{
		"id":         "7",
		"created_at": "2018-10-19T10:12:37Z",
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if p.Value("id") != int64(7) {
		t.Fatalf("id: %#v", p.Value("id"))
	}
	ts, ok := p.Value("created_at").(time.Time)
	if !ok || ts.Year() != 2018 {
		t.Fatalf("created_at: %#v", p.Value("created_at"))
	}
	if !p.Valid() {
		t.Fatalf("errors: %v", p.Errors())
	}
}

func TestListAcceptsAnyData(t *testing.T) {
	p, err := basic.List.New(map[string]any{"data": []any{1, "two"}, "page": 1, "page_size": 20, "count": 2})
	if err != nil || !p.Valid() {
		t.Fatalf("list: %v %v", err, p.Errors())
	}
}

func TestResourceList(t *testing.T) {
	user := skema.Define("UserSchema").Attribute("name", skema.KindString).MustBuild()
	s := basic.ResourceList(user)
	if s.Name() != "UserListSchema" {
		t.Fatalf("name: %s", s.Name())
	}
	p, err := s.New(map[string]any{
		"data":  []any{map[string]any{"name": "Ada"}, map[string]any{"name": "Grace"}},
		"page":  "1",
		"count": 2,
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	l, ok := p.Value("data").(*skema.List)
	if !ok || l.Len() != 2 || !p.Valid() {
		t.Fatalf("data: %#v %v", p.Value("data"), p.Errors())
	}

	bad, _ := s.New(map[string]any{"data": []any{map[string]any{"name": 3}}})
	if bad.Valid() {
		t.Fatal("an invalid element makes the envelope invalid")
	}
}
