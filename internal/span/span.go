// Package span describes source ranges and packs them into the numeric words
// that travel through generated rules.
package span

import (
	"errors"
	"fmt"
)

var (
	ERR_RANGE_NOT_REPRESENTABLE = errors.New("range is not representable in a span word")
	ERR_INVALID_SPAN_WORD       = errors.New("number is not an encoded span")
)

// Layout of an encoded span (60 bits, the engine's native word):
//
//	[ctx+1 : 12][start : 24][end : 24]
//
// The context field is shifted by one so that 0 is free to mean "generated".
const (
	OffsetBits = 24
	CtxBits    = 12

	MaxOffset = 1<<OffsetBits - 1
	MaxCtx    = 1<<CtxBits - 2

	offsetMask = 1<<OffsetBits - 1
	ctxMask    = 1<<CtxBits - 1
)

// SyntaxCtxIndex points at one loaded file in the session's file cache.
type SyntaxCtxIndex int

type Range struct {
	Start uint32
	End   uint32
	Ctx   SyntaxCtxIndex
}

func NewRange(start, end int, ctx SyntaxCtxIndex) (Range, error) {
	if start < 0 || end < start || end > MaxOffset {
		return Range{}, fmt.Errorf("%w: offsets %d..%d", ERR_RANGE_NOT_REPRESENTABLE, start, end)
	}
	if ctx < 0 || ctx > MaxCtx {
		return Range{}, fmt.Errorf("%w: context %d", ERR_RANGE_NOT_REPRESENTABLE, ctx)
	}
	return Range{Start: uint32(start), End: uint32(end), Ctx: ctx}, nil
}

func (r Range) Representable() bool {
	return r.Start <= MaxOffset && r.End <= MaxOffset && r.Ctx >= 0 && r.Ctx <= MaxCtx
}

// Mix returns the smallest range covering both ranges. Both must belong to the
// same file.
func (r Range) Mix(other Range) Range {
	mixed := r
	if other.Start < mixed.Start {
		mixed.Start = other.Start
	}
	if other.End > mixed.End {
		mixed.End = other.End
	}
	return mixed
}

func (r Range) String() string {
	return fmt.Sprintf("[%d:%d..%d]", r.Ctx, r.Start, r.End)
}

// Span is either a locatable range or a generated position that has no source.
type Span struct {
	Locatable bool
	Range     Range
}

func Generated() Span { return Span{} }

func Locatable(r Range) Span { return Span{Locatable: true, Range: r} }

func (s Span) String() string {
	if !s.Locatable {
		return "<generated>"
	}
	return s.Range.String()
}

// Encode packs the span into one word. Ranges are validated upstream, so a
// non-representable range here is an internal-consistency violation.
func Encode(s Span) uint64 {
	if !s.Locatable {
		return 0
	}
	r := s.Range
	if !r.Representable() {
		panic(fmt.Sprintf("span: %s: %v", ERR_RANGE_NOT_REPRESENTABLE, r))
	}
	return uint64(r.Ctx+1)<<(2*OffsetBits) | uint64(r.Start)<<OffsetBits | uint64(r.End)
}

func Decode(word uint64) (Span, error) {
	if word == 0 {
		return Generated(), nil
	}
	if word>>(2*OffsetBits+CtxBits) != 0 {
		return Span{}, fmt.Errorf("%w: %d", ERR_INVALID_SPAN_WORD, word)
	}
	ctx := (word >> (2 * OffsetBits)) & ctxMask
	if ctx == 0 {
		return Span{}, fmt.Errorf("%w: %d", ERR_INVALID_SPAN_WORD, word)
	}
	return Locatable(Range{
		Start: uint32((word >> OffsetBits) & offsetMask),
		End:   uint32(word & offsetMask),
		Ctx:   SyntaxCtxIndex(ctx - 1),
	}), nil
}
