// Package template tokenizes query templates into literal text, typed
// placeholders and conditional blocks.
//
// Placeholder syntax is ? optionally followed by one specifier: d, f, a or #.
// Any other character after ? is literal text and the ? is a generic
// placeholder. A conditional block is the text between a { and the next }
// with no brace in between; unmatched braces are literal text.
//
// The scanner knows nothing about SQL: a ? inside a quoted literal in the
// template is still a placeholder.
//
// Blocks are found in the template source only. Braces that arrive inside
// substituted values are never resolved as blocks.
package template

import "strings"

// Spec is the formatting rule selected by a placeholder.
type Spec byte

const (
	SpecValue      Spec = 0
	SpecInt        Spec = 'd'
	SpecFloat      Spec = 'f'
	SpecList       Spec = 'a'
	SpecIdentifier Spec = '#'
)

// String returns the placeholder token, e.g. "?d".
func (s Spec) String() string {
	if s == SpecValue {
		return "?"
	}
	return "?" + string(rune(s))
}

func specFor(c byte) (Spec, bool) {
	switch Spec(c) {
	case SpecInt, SpecFloat, SpecList, SpecIdentifier:
		return Spec(c), true
	}
	return SpecValue, false
}

// SegmentKind distinguishes the parts of a parsed template.
type SegmentKind uint8

const (
	SegmentText SegmentKind = iota
	SegmentPlaceholder
	SegmentBlock
)

// Segment is one piece of a parsed template. Text holds literal text for
// SegmentText, Spec the rule for SegmentPlaceholder and Body the contents of
// a SegmentBlock (which never contains another block). Offset is the byte
// position in the source.
type Segment struct {
	Kind   SegmentKind
	Text   string
	Spec   Spec
	Body   []Segment
	Offset int
}

// Placeholders counts the placeholders in a block body.
func (s Segment) Placeholders() int {
	n := 0
	for _, b := range s.Body {
		if b.Kind == SegmentPlaceholder {
			n++
		}
	}
	return n
}

// Template is a parsed, immutable query template.
type Template struct {
	source       string
	segments     []Segment
	placeholders int
	blocks       int
}

// Source returns the original template text.
func (t *Template) Source() string { return t.source }

// Segments returns the top-level segments in source order.
func (t *Template) Segments() []Segment { return t.segments }

// Placeholders returns the total number of placeholders, including those
// inside blocks.
func (t *Template) Placeholders() int { return t.placeholders }

// Blocks returns the number of conditional blocks.
func (t *Template) Blocks() int { return t.blocks }

// Parse tokenizes src. It never fails: anything that is not a placeholder or
// a complete block is literal text.
func Parse(src string) *Template {
	t := &Template{source: src}
	open := -1
	last := 0
	for i := 0; i < len(src); i++ {
		switch src[i] {
		case '{':
			// A second { before any } leaves the earlier one as text.
			open = i
		case '}':
			if open < 0 {
				continue
			}
			t.segments = t.scan(t.segments, last, open)
			body := t.scan(nil, open+1, i)
			t.segments = append(t.segments, Segment{Kind: SegmentBlock, Body: body, Offset: open})
			t.blocks++
			last = i + 1
			open = -1
		}
	}
	t.segments = t.scan(t.segments, last, len(src))
	return t
}

// scan appends the text and placeholder segments of src[from:to] to segs.
func (t *Template) scan(segs []Segment, from, to int) []Segment {
	src := t.source
	start := from
	for i := from; i < to; i++ {
		if src[i] != '?' {
			continue
		}
		if i > start {
			segs = append(segs, Segment{Kind: SegmentText, Text: src[start:i], Offset: start})
		}
		ph := Segment{Kind: SegmentPlaceholder, Offset: i}
		if i+1 < to {
			if spec, ok := specFor(src[i+1]); ok {
				ph.Spec = spec
				i++
			}
		}
		segs = append(segs, ph)
		t.placeholders++
		start = i + 1
	}
	if to > start {
		segs = append(segs, Segment{Kind: SegmentText, Text: src[start:to], Offset: start})
	}
	return segs
}

// String renders the template back to its token form, which equals the
// source.
func (t *Template) String() string {
	var sb strings.Builder
	sb.Grow(len(t.source))
	writeSegments(&sb, t.segments)
	return sb.String()
}

func writeSegments(sb *strings.Builder, segs []Segment) {
	for _, s := range segs {
		switch s.Kind {
		case SegmentText:
			sb.WriteString(s.Text)
		case SegmentPlaceholder:
			sb.WriteString(s.Spec.String())
		case SegmentBlock:
			sb.WriteByte('{')
			writeSegments(sb, s.Body)
			sb.WriteByte('}')
		}
	}
}
