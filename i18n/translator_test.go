package i18n

import "testing"

func TestTranslator_DefaultAndJapanese(t *testing.T) {
	data := map[string]string{"name": "foo", "value": "13", "type": "String"}
	// default is en
	if msg := T("invalid_type", data); msg != "foo: 13 is not String" {
		t.Fatalf("unexpected english message: %q", msg)
	}

	SetLanguage("ja")
	if msg := T("invalid_type", data); msg == "foo: 13 is not String" {
		t.Fatalf("expected japanese message, got %q", msg)
	}

	// reset to en
	SetLanguage("en")
}

func TestTranslator_UnknownCodeFallsBackToCode(t *testing.T) {
	if msg := T("no_such_code", nil); msg != "no_such_code" {
		t.Fatalf("expected code fallback, got %q", msg)
	}
}

func TestTranslator_PlaceholderWithoutData(t *testing.T) {
	if msg := T("invalid", nil); msg != "{name} is not valid" {
		t.Fatalf("expected raw template, got %q", msg)
	}
	if msg := T("invalid", map[string]string{"name": "coll_attr"}); msg != "coll_attr is not valid" {
		t.Fatalf("unexpected message: %q", msg)
	}
}

type upper struct{}

func (upper) Message(code string, data map[string]string) string { return "X:" + code }

func TestSetTranslator(t *testing.T) {
	SetTranslator(upper{})
	defer SetTranslator(nil)
	if msg := T("invalid", nil); msg != "X:invalid" {
		t.Fatalf("custom translator not used: %q", msg)
	}
}
