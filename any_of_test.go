package skema_test

import (
	"context"
	"errors"
	"testing"

	"github.com/reoring/skema"
)

func unionSchemas() (*skema.Schema, *skema.Schema, *skema.UnionType) {
	a := skema.Define("TestAnyASchema").
		Attribute("foo", skema.KindString).
		Attribute("custom", skema.KindString).
		MustBuild()
	b := skema.Define("TestAnyBSchema").
		Attribute("bar", skema.KindInteger).
		Attribute("buzz", skema.KindString).
		MustBuild()
	return a, b, skema.AnyOf(a, b)
}

func TestUnion_Equality(t *testing.T) {
	a, _, u := unionSchemas()

	p1, _ := u.New(map[string]any{"foo": "bar", "custom": "v1"})
	p2, _ := u.New(map[string]any{"foo": "bar", "custom": "v1"})
	if !p1.Equal(p2) {
		t.Fatalf("same member and data must be equal")
	}

	other := skema.AnyOf(a)
	p3, _ := other.New(map[string]any{"foo": "bar", "custom": "v1"})
	if !p1.Equal(p3) {
		t.Fatalf("unions of different types holding equal payloads are equal")
	}

	bare := a.MustNew(map[string]any{"foo": "bar", "custom": "v1"})
	if !p1.Equal(bare) || !bare.Equal(p1) {
		t.Fatalf("a union equals the bare payload in both directions")
	}

	p4, _ := u.New(map[string]any{"foo": "bar", "custom": "v2"})
	if p1.Equal(p4) {
		t.Fatalf("different data")
	}
	p5, _ := u.New(map[string]any{"bar": 1, "buzz": "world"})
	if p1.Equal(p5) {
		t.Fatalf("different members")
	}
}

func TestUnion_DifferentMembersWithSameDataAreNotEqual(t *testing.T) {
	a := skema.Define("CatSchema").Attribute("name", skema.KindString).MustBuild()
	b := skema.Define("DogSchema").Attribute("name", skema.KindString).MustBuild()
	u := skema.AnyOf(a, b)

	cat, _ := u.New(a.MustNew(map[string]any{"name": "Rex"}))
	dog, _ := u.New(b.MustNew(map[string]any{"name": "Rex"}))
	if cat.Member() != a || dog.Member() != b {
		t.Fatalf("payload sources pick their own member")
	}
	if cat.Equal(dog) {
		t.Fatalf("different concrete members are never equal")
	}
}

func TestUnion_Delegation(t *testing.T) {
	a, b, u := unionSchemas()
	p1, _ := u.New(map[string]any{"foo": "do", "custom": "other"})
	p2, _ := u.New(map[string]any{"bar": 2, "buzz": "blaze"})

	if p1.Value("foo") != "do" || p2.Value("buzz") != "blaze" {
		t.Fatalf("field access delegates to the held payload")
	}
	if !p1.CanGet("foo") || p1.CanGet("buzz") || p2.CanGet("foo") || !p2.CanGet("buzz") {
		t.Fatalf("CanGet delegates")
	}
	if !skema.IsA(p1, u) || !skema.IsA(p1, a) || skema.IsA(p1, b) {
		t.Fatalf("a union is an instance of the union and of its member")
	}
	if !p2.Is(b) || p2.Payload().Schema() != b {
		t.Fatalf("held member")
	}
	if err := p1.Set("custom", "changed"); err != nil || p1.Payload().Value("custom") != "changed" {
		t.Fatalf("Set delegates: %v", err)
	}
}

func TestUnion_NewFailsWhenNoMemberAccepts(t *testing.T) {
	_, _, u := unionSchemas()
	if _, err := u.New(map[string]any{"zzz": 1}); !errors.Is(err, skema.ErrNoMember) {
		t.Fatalf("expected ErrNoMember, got %v", err)
	}
	if _, err := u.New(3); !errors.Is(err, skema.ErrNotMapping) {
		t.Fatalf("expected ErrNotMapping, got %v", err)
	}
}

func TestUnion_NewPrefersValidMember(t *testing.T) {
	a := skema.Define("NumSchema").Attribute("v", skema.KindInteger).MustBuild()
	b := skema.Define("StrSchema").Attribute("v", skema.KindString).MustBuild()
	u := skema.AnyOf(a, b)

	n, _ := u.New(map[string]any{"v": "12"})
	if n.Member() != a || n.Value("v") != int64(12) {
		t.Fatalf("first valid member wins")
	}
	s, _ := u.New(map[string]any{"v": "twelve"})
	if s.Member() != b {
		t.Fatalf("an invalid first member is skipped")
	}
}

func TestUnion_ImportPicksBestMember(t *testing.T) {
	_, b, u := unionSchemas()
	got, err := u.Import(context.Background(), map[string]any{"bar": "2", "buzz": "x", "extra": true})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if got.Member() != b || got.Value("bar") != int64(2) {
		t.Fatalf("member with matching attributes should win: %v", got.ToData())
	}

	src := b.MustNew(map[string]any{"bar": 1})
	got, _ = u.Import(context.Background(), src)
	if got.Member() != b || got.Payload() == src {
		t.Fatalf("payload sources are copied into their member")
	}
}

func TestUnion_AsAttribute(t *testing.T) {
	a, _, u := unionSchemas()
	holder := skema.Define("HolderSchema").Attribute("pet", u).MustBuild()

	p, err := holder.New(map[string]any{"pet": map[string]any{"foo": "x"}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	pet, ok := p.Value("pet").(*skema.Union)
	if !ok || pet.Member() != a {
		t.Fatalf("mapping should be wrapped into the union: %#v", p.Value("pet"))
	}
	if !p.Valid() {
		t.Fatalf("expected valid: %v", p.Errors())
	}

	bare := a.MustNew(map[string]any{"foo": "y"})
	if err := p.Set("pet", bare); err != nil || !p.Valid() {
		t.Fatalf("a bare member payload is accepted: %v %v", err, p.Errors())
	}

	c := p.DeepClone()
	if !c.Equal(p) {
		t.Fatalf("clone keeps the member")
	}
}
