package skema

import (
	"encoding/json"
	"testing"
	"time"
)

func TestKind_CoerceInteger(t *testing.T) {
	cases := []struct {
		in   any
		want any
	}{
		{"37", int64(37)},
		{" 42 ", int64(42)},
		{3.0, int64(3)},
		{int32(7), int64(7)},
		{json.Number("12"), int64(12)},
		{json.Number("37.0"), int64(37)},
		{json.Number("1e2"), int64(100)},
		{json.Number("2.5"), json.Number("2.5")},
		{3.5, 3.5},
		{"abc", "abc"},
		{true, true},
	}
	for _, c := range cases {
		if got := KindInteger.Coerce(c.in); got != c.want {
			t.Fatalf("Integer.Coerce(%#v) = %#v, want %#v", c.in, got, c.want)
		}
	}
}

func TestKind_CoerceFloatAndNumeric(t *testing.T) {
	if got := KindFloat.Coerce("1.5"); got != 1.5 {
		t.Fatalf("Float.Coerce: %#v", got)
	}
	if got := KindFloat.Coerce(2); got != float64(2) {
		t.Fatalf("Float.Coerce(int): %#v", got)
	}
	if got := KindNumeric.Coerce(json.Number("3")); got != int64(3) {
		t.Fatalf("Numeric.Coerce(3): %#v", got)
	}
	if got := KindNumeric.Coerce(json.Number("3.25")); got != 3.25 {
		t.Fatalf("Numeric.Coerce(3.25): %#v", got)
	}
	if got := KindNumeric.Coerce("3"); got != "3" {
		t.Fatalf("Numeric leaves strings alone: %#v", got)
	}
}

func TestKind_CoerceBoolean(t *testing.T) {
	cases := []struct {
		in   any
		want any
	}{
		{"true", true},
		{"t", true},
		{1, true},
		{int64(1), true},
		{"false", false},
		{"f", false},
		{0, false},
		{0.0, false},
		{true, true},
		{false, false},
		{"maybe", "maybe"},
		{2, 2},
		{"TRUE", "TRUE"},
	}
	for _, c := range cases {
		if got := KindBoolean.Coerce(c.in); got != c.want {
			t.Fatalf("Boolean.Coerce(%#v) = %#v, want %#v", c.in, got, c.want)
		}
	}
}

func TestKind_CoerceDates(t *testing.T) {
	if got := KindDate.Coerce("2017-01-02"); got != (Date{Year: 2017, Month: time.January, Day: 2}) {
		t.Fatalf("Date.Coerce: %#v", got)
	}
	if got := KindDate.Coerce("1/2/2017/"); got != (Date{Year: 2017, Month: time.January, Day: 2}) {
		t.Fatalf("Date.Coerce with trailing slash: %#v", got)
	}
	if got := KindDate.Coerce("not a date"); got != "not a date" {
		t.Fatalf("Date.Coerce failure should keep value: %#v", got)
	}
	got := KindDateTime.Coerce("2017-01-02T03:04:05Z")
	tm, ok := got.(time.Time)
	if !ok || tm.Hour() != 3 || tm.Minute() != 4 {
		t.Fatalf("DateTime.Coerce: %#v", got)
	}
	if _, ok := KindTimestamp.Coerce("2017-01-02 03:04:05").(time.Time); !ok {
		t.Fatalf("Timestamp.Coerce should parse")
	}
}

func TestKind_AcceptsSubtypes(t *testing.T) {
	now := time.Now()
	cases := []struct {
		k    Kind
		v    any
		want bool
	}{
		{KindString, "x", true},
		{KindString, 1, false},
		{KindInteger, int64(1), true},
		{KindInteger, 1.0, false},
		{KindNumeric, int64(1), true},
		{KindNumeric, 1.5, true},
		{KindNumeric, "1", false},
		{KindFloat, 1.5, true},
		{KindBoolean, false, true},
		{KindDate, Date{Year: 2020, Month: 1, Day: 1}, true},
		{KindDate, now, true},
		{KindDateTime, Date{Year: 2020, Month: 1, Day: 1}, false},
		{KindTimestamp, now, true},
		{KindAny, struct{}{}, true},
	}
	for _, c := range cases {
		if got := c.k.Accepts(c.v); got != c.want {
			t.Fatalf("%s.Accepts(%#v) = %v, want %v", c.k, c.v, got, c.want)
		}
	}
}

func TestParseKind(t *testing.T) {
	for name, want := range map[string]Kind{
		"String": KindString, "int": KindInteger, "Boolean": KindBoolean,
		"datetime": KindDateTime, "time": KindTimestamp, "number": KindNumeric,
	} {
		got, ok := ParseKind(name)
		if !ok || got != want {
			t.Fatalf("ParseKind(%q) = %v, %v", name, got, ok)
		}
	}
	if _, ok := ParseKind("widget"); ok {
		t.Fatalf("expected unknown kind")
	}
	if KindInteger.TypeName() != "Integer" || Kind(99).TypeName() != "Kind(99)" {
		t.Fatalf("unexpected names")
	}
}

func TestDate_TextRoundTrip(t *testing.T) {
	d := Date{Year: 2024, Month: time.March, Day: 9}
	b, _ := d.MarshalText()
	if string(b) != "2024-03-09" {
		t.Fatalf("MarshalText: %s", b)
	}
	var back Date
	if err := back.UnmarshalText(b); err != nil || back != d {
		t.Fatalf("UnmarshalText: %v %v", back, err)
	}
}
