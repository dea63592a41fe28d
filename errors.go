package skema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/skema/i18n"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType   = "invalid_type"
	CodeInvalid       = "invalid"
	CodeUnknownKey    = "unknown_key"
	CodeValidation    = "validation"
	CodeNoMember      = "no_member"
	CodeParseError    = "parse_error"
	CodeDuplicateKey  = "duplicate_key"
	CodeTruncated     = "truncated"
	CodeValidatorFail = "validator_failed"
	CodeRequired      = "required"
	CodeTooShort      = "too_short"
	CodeUniqueness    = "uniqueness"
	// Dependency temporary/unavailable errors raised by context-aware accessors.
	CodeDependencyUnavailable = "dependency_unavailable"
)

var (
	// ErrNotMapping is returned when strict construction receives a source
	// that is not a string-keyed mapping.
	ErrNotMapping = errors.New("skema: source is not a mapping")
	// ErrNotList is returned when a collection is built from a non-sequence.
	ErrNotList = errors.New("skema: source is not a list")
	// ErrNoMember is returned when no member of a union accepts the source.
	ErrNoMember = errors.New("skema: no union member accepts the source")
)

// Issue represents a single validation entry.
type Issue struct {
	Path    string // JSON Pointer of the attribute (for example: /items/2/price).
	Code    string // One of the codes listed above.
	Message string
	// Params carries structured parameters (e.g., {"name":"age", "type":"Integer"}).
	Params map[string]any
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(iss[i].Message)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Messages returns the message of every issue in order.
func (iss Issues) Messages() []string {
	out := make([]string, 0, len(iss))
	for _, it := range iss {
		out = append(out, it.Message)
	}
	return out
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
// ValidationError and errors with an Issues() method (UnknownAttributeError,
// serializer.MalformedInputError) are projected onto Issues too.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Issues, true
	}
	var ie issuer
	if errors.As(err, &ie) {
		return ie.Issues(), true
	}
	return nil, false
}

type issuer interface{ Issues() Issues }

// UnknownAttributeError reports attribute names that are not declared on a
// schema. Strict construction collects every unknown key before failing.
type UnknownAttributeError struct {
	Schema string
	Names  []string
}

func (e *UnknownAttributeError) Error() string {
	return fmt.Sprintf("skema: no such attribute on %s: %s", e.Schema, strings.Join(e.Names, ", "))
}

// Issues projects the error onto one unknown_key issue per name.
func (e *UnknownAttributeError) Issues() Issues {
	var iss Issues
	for _, n := range e.Names {
		iss = AppendIssues(iss, Issue{
			Path:    "/" + n,
			Code:    CodeUnknownKey,
			Message: i18n.T(CodeUnknownKey, map[string]string{"name": n}),
		})
	}
	return iss
}

func unknownAttribute(schema string, names ...string) *UnknownAttributeError {
	return &UnknownAttributeError{Schema: schema, Names: names}
}

// ValidationError carries the accumulated messages of an invalid payload.
type ValidationError struct {
	Schema string
	Issues Issues
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("skema: %s is invalid: %s", e.Schema, e.Issues.Error())
}

// Messages returns the validation messages in the order they were recorded.
func (e *ValidationError) Messages() []string { return e.Issues.Messages() }

// Unwrap exposes the Issues so errors.As(err, &Issues{}) works.
func (e *ValidationError) Unwrap() error { return e.Issues }

// Check validates inst and returns a *ValidationError when it is invalid.
func Check(inst Instance) error {
	if inst == nil {
		return nil
	}
	if inst.Valid() {
		return nil
	}
	return &ValidationError{Schema: inst.Type().TypeName(), Issues: inst.Issues()}
}
