// Package wire decodes JSON documents into plain Go data (map[string]any,
// []any, encoding/json.Number, string, bool, nil) while enforcing duplicate-key,
// depth and size limits.
package wire

import (
	"bytes"
	stdjson "encoding/json"
	"errors"
	"io"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// Issue codes carried by *Error.
const (
	CodeParseError   = "parse_error"
	CodeDuplicateKey = "duplicate_key"
	CodeTruncated    = "truncated"
)

// Options controls enforcement. Zero values disable the corresponding limit.
type Options struct {
	MaxDepth            int
	MaxBytes            int64
	RejectDuplicateKeys bool
}

// Error reports a decoding failure at a JSON pointer path ("/" is the root).
type Error struct {
	Code    string
	Path    string
	Message string
}

func (e *Error) Error() string { return e.Path + ": " + e.Message }

// DecodeBytes decodes one JSON document from b.
func DecodeBytes(b []byte, opt Options) (any, error) {
	if opt.MaxBytes > 0 && int64(len(b)) > opt.MaxBytes {
		return nil, &Error{Code: CodeTruncated, Path: "/", Message: "max bytes exceeded"}
	}
	return Decode(bytes.NewReader(b), opt)
}

// Decode reads exactly one JSON document from r. Trailing non-space input is
// a parse error.
func Decode(r io.Reader, opt Options) (any, error) {
	cr := &countingReader{r: r, max: opt.MaxBytes}
	dec := json.NewDecoder(cr)
	dec.UseNumber()
	d := &decoder{dec: dec, cr: cr, opt: opt}

	tok, err := d.next("")
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &Error{Code: CodeParseError, Path: "/", Message: "empty input"}
		}
		return nil, err
	}
	v, err := d.value(tok, "", 0)
	if err != nil {
		return nil, err
	}
	if _, err := d.dec.Token(); !errors.Is(err, io.EOF) {
		if d.cr.exceeded {
			return nil, &Error{Code: CodeTruncated, Path: "/", Message: "max bytes exceeded"}
		}
		return nil, &Error{Code: CodeParseError, Path: "/", Message: "unexpected data after top-level value"}
	}
	return v, nil
}

type decoder struct {
	dec *json.Decoder
	cr  *countingReader
	opt Options
}

func (d *decoder) next(path string) (json.Token, error) {
	tok, err := d.dec.Token()
	if err == nil {
		return tok, nil
	}
	if d.cr.exceeded {
		return nil, &Error{Code: CodeTruncated, Path: pointer(path), Message: "max bytes exceeded"}
	}
	if errors.Is(err, io.EOF) {
		return nil, err
	}
	return nil, &Error{Code: CodeParseError, Path: pointer(path), Message: err.Error()}
}

func (d *decoder) value(tok json.Token, path string, depth int) (any, error) {
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			if err := d.enter(path, depth); err != nil {
				return nil, err
			}
			return d.object(path, depth+1)
		case '[':
			if err := d.enter(path, depth); err != nil {
				return nil, err
			}
			return d.array(path, depth+1)
		}
		return nil, &Error{Code: CodeParseError, Path: pointer(path), Message: "unexpected delimiter " + string(rune(v))}
	case json.Number:
		return stdjson.Number(string(v)), nil
	case float64:
		return stdjson.Number(strconv.FormatFloat(v, 'g', -1, 64)), nil
	case string, bool, nil:
		return v, nil
	}
	return nil, &Error{Code: CodeParseError, Path: pointer(path), Message: "unsupported token"}
}

func (d *decoder) enter(path string, depth int) error {
	if d.opt.MaxDepth > 0 && depth+1 > d.opt.MaxDepth {
		return &Error{Code: CodeParseError, Path: pointer(path), Message: "max depth exceeded"}
	}
	return nil
}

func (d *decoder) object(path string, depth int) (any, error) {
	out := map[string]any{}
	for {
		tok, err := d.next(path)
		if err != nil {
			return nil, unexpectedEOF(err, path)
		}
		if delim, ok := tok.(json.Delim); ok && delim == '}' {
			return out, nil
		}
		key, ok := tok.(string)
		if !ok {
			return nil, &Error{Code: CodeParseError, Path: pointer(path), Message: "object key must be a string"}
		}
		child := join(path, key)
		if _, dup := out[key]; dup && d.opt.RejectDuplicateKeys {
			return nil, &Error{Code: CodeDuplicateKey, Path: pointer(child), Message: "key '" + key + "' duplicated"}
		}
		tok, err = d.next(child)
		if err != nil {
			return nil, unexpectedEOF(err, child)
		}
		v, err := d.value(tok, child, depth)
		if err != nil {
			return nil, err
		}
		out[key] = v
	}
}

func (d *decoder) array(path string, depth int) (any, error) {
	out := []any{}
	for i := 0; ; i++ {
		child := join(path, strconv.Itoa(i))
		tok, err := d.next(child)
		if err != nil {
			return nil, unexpectedEOF(err, path)
		}
		if delim, ok := tok.(json.Delim); ok && delim == ']' {
			return out, nil
		}
		v, err := d.value(tok, child, depth)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
}

func unexpectedEOF(err error, path string) error {
	if errors.Is(err, io.EOF) {
		return &Error{Code: CodeParseError, Path: pointer(path), Message: "unexpected end of input"}
	}
	return err
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

func join(base, token string) string {
	return base + "/" + pointerEscaper.Replace(token)
}

func pointer(p string) string {
	if p == "" {
		return "/"
	}
	return p
}

// countingReader fails once more than max bytes were read.
type countingReader struct {
	r        io.Reader
	max      int64
	n        int64
	exceeded bool
}

var errTooLarge = errors.New("wire: input exceeds max bytes")

func (c *countingReader) Read(p []byte) (int, error) {
	if c.max <= 0 {
		return c.r.Read(p)
	}
	if c.n > c.max {
		c.exceeded = true
		return 0, errTooLarge
	}
	if rem := c.max - c.n + 1; int64(len(p)) > rem {
		p = p[:rem]
	}
	n, err := c.r.Read(p)
	c.n += int64(n)
	if c.n > c.max {
		c.exceeded = true
		return n, errTooLarge
	}
	return n, err
}
