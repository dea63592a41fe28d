package serializer

import "github.com/reoring/skema/internal/wire"

// Options controls decoding.
type Options struct {
	// Strict builds instances with strict construction: unknown keys fail.
	// The default is a lenient import that ignores them.
	Strict bool
	// MaxBytes rejects larger inputs. Zero means unlimited.
	MaxBytes int64
	// MaxDepth bounds object/array nesting. Zero means unlimited.
	MaxDepth int
	// RejectDuplicateKeys fails on a key repeated within one mapping.
	// Otherwise the last occurrence wins.
	RejectDuplicateKeys bool
}

func (o Options) wire() wire.Options {
	return wire.Options{MaxDepth: o.MaxDepth, MaxBytes: o.MaxBytes, RejectDuplicateKeys: o.RejectDuplicateKeys}
}
