package wire

import (
	"errors"
	"strings"
	"encoding/json"
	"testing"
)

func TestDecodeBytes_PlainData(t *testing.T) {
	v, err := DecodeBytes([]byte(`{"name":"Ada","age":36,"tags":["a","b"],"ok":true,"none":null}`), Options{})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	m, ok := v.(map[string]any)
	if !ok {
		t.Fatalf("want map, got %T", v)
	}
	if m["name"] != "Ada" || m["ok"] != true || m["none"] != nil {
		t.Fatalf("unexpected scalars: %#v", m)
	}
	if n, ok := m["age"].(json.Number); !ok || n.String() != "36" {
		t.Fatalf("age should stay a json.Number, got %#v", m["age"])
	}
	tags, ok := m["tags"].([]any)
	if !ok || len(tags) != 2 || tags[1] != "b" {
		t.Fatalf("tags: %#v", m["tags"])
	}
}

func TestDecode_DuplicateKey(t *testing.T) {
	in := `{"a":{"b":1,"b":2}}`
	if _, err := DecodeBytes([]byte(in), Options{}); err != nil {
		t.Fatalf("duplicates are allowed by default: %v", err)
	}
	_, err := DecodeBytes([]byte(in), Options{RejectDuplicateKeys: true})
	var we *Error
	if !errors.As(err, &we) {
		t.Fatalf("want *Error, got %v", err)
	}
	if we.Code != CodeDuplicateKey || we.Path != "/a/b" {
		t.Fatalf("unexpected error: %+v", we)
	}
}

func TestDecode_MaxDepth(t *testing.T) {
	if _, err := DecodeBytes([]byte(`{"a":[1]}`), Options{MaxDepth: 2}); err != nil {
		t.Fatalf("depth 2 should pass: %v", err)
	}
	_, err := DecodeBytes([]byte(`{"a":[{"b":1}]}`), Options{MaxDepth: 2})
	var we *Error
	if !errors.As(err, &we) || we.Code != CodeParseError || we.Path != "/a/0" {
		t.Fatalf("unexpected depth error: %v", err)
	}
}

func TestDecode_MaxBytes(t *testing.T) {
	in := `{"name":"` + strings.Repeat("x", 64) + `"}`
	_, err := DecodeBytes([]byte(in), Options{MaxBytes: 16})
	var we *Error
	if !errors.As(err, &we) || we.Code != CodeTruncated {
		t.Fatalf("want truncated, got %v", err)
	}
	_, err = Decode(strings.NewReader(in), Options{MaxBytes: 16})
	if !errors.As(err, &we) || we.Code != CodeTruncated {
		t.Fatalf("reader: want truncated, got %v", err)
	}
	if _, err := Decode(strings.NewReader(in), Options{MaxBytes: int64(len(in))}); err != nil {
		t.Fatalf("exact size should pass: %v", err)
	}
}

func TestDecode_Malformed(t *testing.T) {
	for _, in := range []string{"", `{"a":`, `{"a":1} {"b":2}`, `[1,2`} {
		_, err := DecodeBytes([]byte(in), Options{})
		var we *Error
		if !errors.As(err, &we) || we.Code != CodeParseError {
			t.Fatalf("%q: want parse_error, got %v", in, err)
		}
	}
}

func TestJoinEscapesPointerTokens(t *testing.T) {
	if got := join("/a", "b/c~d"); got != "/a/b~1c~0d" {
		t.Fatalf("join: %s", got)
	}
	if pointer("") != "/" {
		t.Fatal("root pointer should be /")
	}
}
