// Package doc renders human-readable documentation for schemas: a markdown
// section per schema with an example body and an attributes table.
package doc

import (
	"bytes"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/reoring/skema"
)

// TimeLayout formats example time values.
const TimeLayout = "2006-01-02 15:04:05 -0700"

// Options supplies the sources of example values. Zero fields fall back to
// math/rand and time.Now.
type Options struct {
	Intn func(n int) int
	Now  func() time.Time
}

func (o Options) intn(n int) int {
	if o.Intn != nil {
		return o.Intn(n)
	}
	return rand.IntN(n)
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

func pick(opts []Options) Options {
	if len(opts) == 0 {
		return Options{}
	}
	return opts[0]
}

// Markdown documents s: a header, an example response, and the attributes
// table, followed by a section for every nested schema.
func Markdown(s *skema.Schema, opts ...Options) string {
	o := pick(opts)
	lines := []string{"## " + DisplayName(s.Name()), "", "> Example Response", "", "```json", ""}
	lines = append(lines, exampleObject(s, 2, o)...)
	lines = append(lines, "```")
	lines = append(lines, attributeTable(s)...)
	return strings.Join(lines, "\n")
}

// HTML renders Markdown to HTML with GitHub-flavoured tables.
func HTML(s *skema.Schema, opts ...Options) (string, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	var buf bytes.Buffer
	if err := md.Convert([]byte(Markdown(s, opts...)), &buf); err != nil {
		return "", fmt.Errorf("doc: render %s: %w", s.Name(), err)
	}
	return buf.String(), nil
}

// DisplayName strips the conventional "Schema" suffix from a schema name.
func DisplayName(name string) string {
	return strings.ReplaceAll(name, "Schema", "")
}

// Titleize splits an identifier into words and capitalises each one:
// "TestDocLesser" -> "Test Doc Lesser", "unknown_type" -> "Unknown Type".
func Titleize(name string) string {
	return cases.Title(language.English).String(strings.Join(words(name), " "))
}

// words splits on separators and lower-to-upper case boundaries, lowercased.
func words(name string) []string {
	var (
		out  []string
		cur  []rune
		prev rune
	)
	flush := func() {
		if len(cur) > 0 {
			out = append(out, strings.ToLower(string(cur)))
			cur = cur[:0]
		}
	}
	for _, r := range name {
		switch {
		case r == '_' || r == '-' || unicode.IsSpace(r):
			flush()
		case unicode.IsUpper(r) && (unicode.IsLower(prev) || unicode.IsDigit(prev)):
			flush()
			cur = append(cur, r)
		default:
			cur = append(cur, r)
		}
		prev = r
	}
	flush()
	return out
}

func exampleObject(s *skema.Schema, indent int, o Options) []string {
	attrs := s.Attributes()
	lines := []string{"{"}
	for i, a := range attrs {
		comma := ","
		if i == len(attrs)-1 {
			comma = ""
		}
		lines = append(lines, fmt.Sprintf("%s%q : %s%s", pad(indent), a.Name, exampleValue(a.Type, a.Name, indent, o), comma))
	}
	return append(lines, pad(indent-2)+"}")
}

func exampleValue(t skema.Type, name string, indent int, o Options) string {
	switch tt := t.(type) {
	case skema.Kind:
		switch tt {
		case skema.KindInteger:
			return strconv.Itoa(o.intn(100))
		case skema.KindString:
			return strconv.Quote(strings.ToUpper(Titleize(name)))
		case skema.KindDate, skema.KindDateTime, skema.KindTimestamp:
			return strconv.Quote(o.now().Format(TimeLayout))
		case skema.KindBoolean:
			return strconv.FormatBool(o.intn(2) == 1)
		}
	case *skema.ArrayType:
		v := exampleValue(tt.Elem(), name, indent+2, o)
		return strings.Join([]string{"[", pad(indent+2) + v, pad(indent) + "]"}, "\n")
	case *skema.Schema:
		return strings.Join(exampleObject(tt, indent+2, o), "\n")
	case *skema.UnionType:
		if ms := tt.Members(); len(ms) > 0 {
			return strings.Join(exampleObject(ms[0], indent+2, o), "\n")
		}
	}
	return "{}"
}

func attributeTable(s *skema.Schema) []string {
	lines := []string{
		"",
		"Attributes | Type | Required | Description",
		"---------- | ---- | -------- | -----------",
	}
	var nested []*skema.Schema
	for _, a := range s.Attributes() {
		typeName, more := describeType(a.Type)
		nested = append(nested, more...)
		required := ""
		if a.Required {
			required = "true"
		}
		lines = append(lines, fmt.Sprintf("%s | %s | %s | %s", a.Name, typeName, required, a.Description))
	}
	for _, n := range nested {
		lines = append(lines, "", "## "+DisplayName(n.Name()), "")
		lines = append(lines, attributeTable(n)...)
	}
	return lines
}

// describeType returns the table label of t and the schemas that get their
// own section.
func describeType(t skema.Type) (string, []*skema.Schema) {
	switch tt := t.(type) {
	case *skema.Schema:
		return Titleize(DisplayName(tt.Name())), []*skema.Schema{tt}
	case *skema.ArrayType:
		label, nested := describeType(tt.Elem())
		return "Array of " + label, nested
	case *skema.UnionType:
		ms := tt.Members()
		labels := make([]string, len(ms))
		for i, m := range ms {
			labels[i] = Titleize(DisplayName(m.Name()))
		}
		return "Any of " + strings.Join(labels, ", "), ms
	case nil:
		return "", nil
	}
	return t.TypeName(), nil
}

func pad(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}
