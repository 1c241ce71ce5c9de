// Package builder turns a query template and its arguments into final SQL
// text.
//
// Building runs in two steps over the parsed template. Every placeholder
// consumes the next argument in scan order and is replaced with its
// formatted text. Conditional blocks are then kept with their braces
// stripped, or removed entirely when the skip value is present.
//
// By default the skip check looks at the whole argument list, so one skip
// value removes every block in the template. WithScopedBlocks limits the
// check to the arguments each block consumes.
package builder

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/bawdo/sqlplate/dialects"
	"github.com/bawdo/sqlplate/template"
	"github.com/bawdo/sqlplate/values"
)

var (
	// ErrUnexpectedList is returned when a list reaches a scalar placeholder.
	ErrUnexpectedList = errors.New("list value needs ?a or ?#")
	// ErrNotList is returned when ?a receives something other than a list.
	ErrNotList = errors.New("?a needs a list value")
	// ErrInvalidIdentifier is returned when ?# receives something other than
	// a string, an integer or a list of those.
	ErrInvalidIdentifier = errors.New("?# needs a name or a list of names")
	// ErrSkipOutsideBlock is returned when the skip value is consumed by a
	// placeholder whose text would stay in the output.
	ErrSkipOutsideBlock = errors.New("skip value used outside a conditional block")
	// ErrNonFinite is returned for NaN and infinite floats.
	ErrNonFinite = errors.New("non-finite float has no SQL literal")
)

// Builder builds SQL text from templates. It is immutable after New and safe
// for concurrent use.
type Builder struct {
	dialect   dialects.Dialect
	escaper   dialects.Escaper
	cacheSize int
	cache     *template.Cache
	logger    hclog.Logger
	scoped    bool
}

// New creates a Builder. Without options it uses the MySQL dialect, global
// block suppression and a template cache of DefaultCacheSize entries.
func New(opts ...Option) *Builder {
	b := &Builder{
		dialect:   dialects.NewMySQL(),
		cacheSize: DefaultCacheSize,
		logger:    hclog.NewNullLogger(),
	}
	for _, o := range opts {
		o(b)
	}
	if b.escaper == nil {
		b.escaper = b.dialect
	}
	b.cache = template.NewCache(b.cacheSize)
	return b
}

// Dialect returns the dialect the builder renders for.
func (b *Builder) Dialect() dialects.Dialect { return b.dialect }

// Scoped reports whether blocks are suppressed per block.
func (b *Builder) Scoped() bool { return b.scoped }

// Build converts args with values.Of and builds tpl. See BuildValues for
// the binding rules.
func (b *Builder) Build(tpl string, args ...any) (string, error) {
	vals, err := values.OfAll(args)
	if err != nil {
		return "", fmt.Errorf("build: %w", err)
	}
	return b.BuildValues(tpl, vals)
}

// BuildValues builds tpl with already converted arguments. Missing
// arguments are NULL and extra ones are ignored, though a skip value among
// them still suppresses blocks. On error no partial text is returned.
//
// The skip value has no SQL form: a placeholder outside every block that
// would format it fails with ErrSkipOutsideBlock instead of rendering it.
func (b *Builder) BuildValues(tpl string, args []values.Value) (string, error) {
	t := b.cache.Parse(tpl)
	r := &renderer{
		b:           b,
		args:        args,
		suppressAll: !b.scoped && values.ContainsSkip(args),
	}
	r.sb.Grow(len(tpl))
	if err := r.render(t.Segments()); err != nil {
		return "", err
	}
	if b.logger.IsTrace() {
		b.logger.Trace("built query",
			"dialect", b.dialect.Name(),
			"placeholders", t.Placeholders(),
			"args", len(args),
			"blocks", t.Blocks(),
			"dropped", r.dropped,
		)
	}
	return r.sb.String(), nil
}

// renderer holds the state of one build.
type renderer struct {
	b           *Builder
	args        []values.Value
	next        int
	suppressAll bool
	dropped     int
	sb          strings.Builder
}

func (r *renderer) render(segs []template.Segment) error {
	for _, s := range segs {
		switch s.Kind {
		case template.SegmentText:
			r.sb.WriteString(s.Text)
		case template.SegmentPlaceholder:
			idx := r.next
			v := values.At(r.args, idx)
			r.next++
			if err := r.placeholder(s.Spec, v); err != nil {
				return fmt.Errorf("placeholder %s at offset %d (argument %d): %w", s.Spec, s.Offset, idx, err)
			}
		case template.SegmentBlock:
			if r.drop(s) {
				// Arguments of a dropped block are consumed but never
				// formatted, so a skip value may stand in for a list.
				r.next += s.Placeholders()
				r.dropped++
				continue
			}
			if err := r.render(s.Body); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *renderer) drop(block template.Segment) bool {
	if !r.b.scoped {
		return r.suppressAll
	}
	for i := 0; i < block.Placeholders(); i++ {
		if values.IsSkip(values.At(r.args, r.next+i)) {
			return true
		}
	}
	return false
}

func (r *renderer) placeholder(spec template.Spec, v values.Value) error {
	if values.IsSkip(v) {
		return ErrSkipOutsideBlock
	}
	switch spec {
	case template.SpecInt:
		r.sb.WriteString(formatInt(toInt(v)))
		return nil
	case template.SpecFloat:
		return r.write(formatFloat(toFloat(v)))
	case template.SpecList:
		return r.write(formatList(r.b, v))
	case template.SpecIdentifier:
		return r.write(formatIdentifiers(r.b.dialect, v))
	default:
		return r.write(escapeValue(r.b, v))
	}
}

func (r *renderer) write(s string, err error) error {
	if err != nil {
		return err
	}
	r.sb.WriteString(s)
	return nil
}
