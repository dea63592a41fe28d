package serializer

import (
	json "github.com/goccy/go-json"

	"github.com/reoring/skema/internal/wire"
)

// Codec converts between wire bytes and plain data. Unmarshal produces
// map[string]any, []any and scalars; Marshal accepts instances and plain data.
type Codec interface {
	// Name is the short format name used in error messages ("json", "yaml").
	Name() string
	ContentType() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, opt Options) (any, error)
}

// JSON returns the JSON codec. Numbers decode as json.Number.
func JSON() Codec { return jsonCodec{} }

type jsonCodec struct{}

func (jsonCodec) Name() string        { return "json" }
func (jsonCodec) ContentType() string { return "application/json" }

func (jsonCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (jsonCodec) Unmarshal(data []byte, opt Options) (any, error) {
	return wire.DecodeBytes(data, opt.wire())
}
