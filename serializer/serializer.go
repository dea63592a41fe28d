// Package serializer moves instances across a wire format: bytes are decoded
// into plain data and built into an instance of a schema (or container type),
// and instances are encoded back from their flattened data.
package serializer

import (
	"context"
	"fmt"

	"github.com/reoring/skema"
)

// Serializer binds a payload type to a codec.
type Serializer struct {
	typ   skema.PayloadType
	codec Codec
	opt   Options
}

// New returns a Serializer for t. A nil codec selects JSON.
func New(t skema.PayloadType, codec Codec, opts ...Options) *Serializer {
	if codec == nil {
		codec = JSON()
	}
	s := &Serializer{typ: t, codec: codec}
	if len(opts) > 0 {
		s.opt = opts[0]
	}
	return s
}

// Type returns the payload type instances are built from.
func (s *Serializer) Type() skema.PayloadType { return s.typ }

// Codec returns the wire codec.
func (s *Serializer) Codec() Codec { return s.codec }

// Decode parses data and builds an instance. Strict mode uses strict
// construction and reports unknown keys, returning a schema's partially built
// payload along with the error; otherwise the Import Engine is used.
// Parse failures and a root of the wrong shape yield *MalformedInputError.
// The instance is not validated; see skema.Check.
func (s *Serializer) Decode(ctx context.Context, data []byte) (skema.Instance, error) {
	v, err := s.codec.Unmarshal(data, s.opt)
	if err != nil {
		return nil, &MalformedInputError{Format: s.codec.Name(), Cause: err}
	}
	if err := s.checkRoot(v); err != nil {
		return nil, &MalformedInputError{Format: s.codec.Name(), Cause: err}
	}
	if s.opt.Strict {
		if schema, ok := s.typ.(*skema.Schema); ok {
			p, err := schema.New(v)
			if p == nil {
				return nil, err
			}
			return p, err
		}
		return s.typ.NewInstance(v)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return s.typ.ImportInstance(ctx, v)
}

func (s *Serializer) checkRoot(v any) error {
	switch s.typ.(type) {
	case *skema.ArrayType:
		if _, ok := v.([]any); !ok {
			return fmt.Errorf("%w: got %s", skema.ErrNotList, shape(v))
		}
	default:
		if _, ok := v.(map[string]any); !ok {
			return fmt.Errorf("%w: got %s", skema.ErrNotMapping, shape(v))
		}
	}
	return nil
}

func shape(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	}
	return "number"
}

// Encode writes inst in the codec's format. A nil instance produces no
// output and no error.
func (s *Serializer) Encode(inst skema.Instance) ([]byte, error) {
	if isNil(inst) {
		return nil, nil
	}
	b, err := s.codec.Marshal(inst)
	if err != nil {
		return nil, fmt.Errorf("serializer: encode %s: %w", inst.Type().TypeName(), err)
	}
	return b, nil
}

func isNil(inst skema.Instance) bool {
	switch v := inst.(type) {
	case nil:
		return true
	case *skema.Payload:
		return v == nil
	case *skema.List:
		return v == nil
	case *skema.Union:
		return v == nil
	}
	return false
}
