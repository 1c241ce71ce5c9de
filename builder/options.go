package builder

import (
	"github.com/hashicorp/go-hclog"

	"github.com/bawdo/sqlplate/dialects"
)

// DefaultCacheSize is the number of parsed templates a Builder keeps.
const DefaultCacheSize = 256

// Option configures a Builder at construction time.
type Option func(*Builder)

// WithDialect sets the escaping and quoting rules. The default is MySQL.
func WithDialect(d dialects.Dialect) Option {
	return func(b *Builder) {
		if d != nil {
			b.dialect = d
		}
	}
}

// WithEscaper keeps the current dialect's identifier quoting but routes
// string literals through e, typically a connection's escaping function.
func WithEscaper(e dialects.Escaper) Option {
	return func(b *Builder) {
		if e != nil {
			b.escaper = e
		}
	}
}

// WithCacheSize sets how many parsed templates are kept. Zero disables the
// cache.
func WithCacheSize(n int) Option {
	return func(b *Builder) {
		b.cacheSize = n
	}
}

// WithLogger sets the logger used to trace builds at trace level.
func WithLogger(l hclog.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithScopedBlocks removes a conditional block only when one of its own
// placeholders receives the skip value, instead of removing every block
// whenever skip appears anywhere in the arguments. A skip value consumed
// outside any block is then an error.
func WithScopedBlocks() Option {
	return func(b *Builder) {
		b.scoped = true
	}
}
