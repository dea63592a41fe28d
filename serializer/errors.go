package serializer

import (
	"errors"
	"strings"

	"github.com/reoring/skema"
	"github.com/reoring/skema/internal/wire"
)

// MalformedInputError reports input that could not be decoded into the shape
// the target type needs. No instance exists when it is returned.
type MalformedInputError struct {
	Format string
	Cause  error
}

func (e *MalformedInputError) Error() string {
	return "serializer: malformed " + e.Format + " input: " + e.Cause.Error()
}

func (e *MalformedInputError) Unwrap() error { return e.Cause }

// Issues renders the failure as a single issue carrying the decoder's code
// and path when known.
func (e *MalformedInputError) Issues() skema.Issues {
	var we *wire.Error
	if errors.As(e.Cause, &we) {
		return skema.Issues{{Path: we.Path, Code: we.Code, Message: we.Message}}
	}
	return skema.Issues{{Path: "/", Code: skema.CodeParseError, Message: e.Cause.Error()}}
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

func joinPointer(base, token string) string {
	return base + "/" + pointerEscaper.Replace(token)
}
