package doc_test

import (
	"strings"
	"testing"
	"time"

	"github.com/reoring/skema"
	"github.com/reoring/skema/doc"
)

func fixed(n int) doc.Options {
	return doc.Options{
		Intn: func(int) int { return n },
		Now:  func() time.Time { return time.Date(2018, 10, 19, 10, 12, 37, 0, time.UTC) },
	}
}

func TestMarkdown_Integer(t *testing.T) {
	s := skema.Define("TestDocIntegerSchema").Attribute("int", skema.KindInteger).MustBuild()
	want := strings.Join([]string{
		"## TestDocInteger",
		"",
		"> Example Response",
		"",
		"```json",
		"",
		"{",
		`  "int" : 74`,
		"}",
		"```",
		"",
		"Attributes | Type | Required | Description",
		"---------- | ---- | -------- | -----------",
		"int | Integer |  | ",
	}, "\n")
	if got := doc.Markdown(s, fixed(74)); got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestMarkdown_ExampleValues(t *testing.T) {
	cases := []struct {
		kind skema.Kind
		name string
		want string
	}{
		{skema.KindString, "foo", `  "foo" : "FOO"`},
		{skema.KindString, "unknown_type", `  "unknown_type" : "UNKNOWN TYPE"`},
		{skema.KindTimestamp, "time", `  "time" : "2018-10-19 10:12:37 +0000"`},
		{skema.KindBoolean, "success", `  "success" : false`},
		{skema.KindFloat, "ratio", `  "ratio" : {}`},
	}
	for _, c := range cases {
		s := skema.Define("ExampleSchema").Attribute(c.name, c.kind).MustBuild()
		md := doc.Markdown(s, fixed(0))
		if !strings.Contains(md, c.want+"\n") {
			t.Fatalf("%s: example %q not found in\n%s", c.kind, c.want, md)
		}
	}
}

func TestMarkdown_ArrayOf(t *testing.T) {
	s := skema.Define("TestDocArrayOfSchema").Collection("foos", skema.KindString).MustBuild()
	md := doc.Markdown(s)
	example := "{\n  \"foos\" : [\n    \"FOOS\"\n  ]\n}"
	if !strings.Contains(md, example) {
		t.Fatalf("array example missing:\n%s", md)
	}
	if !strings.HasSuffix(md, "foos | Array of String |  | ") {
		t.Fatalf("array row missing:\n%s", md)
	}
}

func TestMarkdown_NestedSchema(t *testing.T) {
	lesser := skema.Define("TestDocLesserSchema").
		Attribute("id", skema.KindInteger).Required().Describe("identifier").
		MustBuild()
	composed := skema.Define("TestDocComposedSchema").Attribute("less", lesser).MustBuild()

	want := strings.Join([]string{
		"## TestDocComposed",
		"",
		"> Example Response",
		"",
		"```json",
		"",
		"{",
		`  "less" : {`,
		`    "id" : 42`,
		"  }",
		"}",
		"```",
		"",
		"Attributes | Type | Required | Description",
		"---------- | ---- | -------- | -----------",
		"less | Test Doc Lesser |  | ",
		"",
		"## TestDocLesser",
		"",
		"",
		"Attributes | Type | Required | Description",
		"---------- | ---- | -------- | -----------",
		"id | Integer | true | identifier",
	}, "\n")
	if got := doc.Markdown(composed, fixed(42)); got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestTitleize(t *testing.T) {
	for in, want := range map[string]string{
		"TestDocLesser": "Test Doc Lesser",
		"unknown_type":  "Unknown Type",
		"String":        "String",
		"page_size":     "Page Size",
	} {
		if got := doc.Titleize(in); got != want {
			t.Fatalf("Titleize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestHTML_RendersTable(t *testing.T) {
	s := skema.Define("WidgetSchema").Attribute("name", skema.KindString).MustBuild()
	html, err := doc.HTML(s)
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	if !strings.Contains(html, "<h2>Widget</h2>") || !strings.Contains(html, "<table>") {
		t.Fatalf("unexpected html:\n%s", html)
	}
}
