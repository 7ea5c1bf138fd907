package codec

import "github.com/opat-format/opat/internal/options"

type config struct {
	mmap   bool
	verify bool
}

func defaultConfig() *config {
	return &config{mmap: true, verify: false}
}

// Option configures Open and NewReader.
type Option = options.Option[*config]

// WithMmap controls whether Open memory-maps the underlying file instead
// of reading it fully into the heap. Default true; has no effect on
// NewReader, which always operates on a caller-supplied in-memory buffer.
func WithMmap(enabled bool) Option {
	return options.NoError(func(c *config) { c.mmap = enabled })
}

// WithVerify makes Decode recompute and check every card's SHA-256
// digest against its catalog entry before parsing that card, failing
// fast on the first mismatch. Default false; Reader.Verify runs the same
// check on demand.
func WithVerify(enabled bool) Option {
	return options.NoError(func(c *config) { c.verify = enabled })
}
