package spantree

import (
	"fmt"
	"slices"

	"github.com/Sumatoshi-tech/spantree/pkg/offset"
)

// Span is the plain reference payload: bounds, an owner group, nothing
// else. It supports splitting, so it can be stored in an Index and cut by
// SplitAt.
type Span struct {
	start offset.Offset
	stop  offset.Offset
	group GroupID
}

// NewSpan builds a plain payload covering [start, stop) owned by group.
func NewSpan(start, stop offset.Offset, group GroupID) Span {
	return Span{start: start, stop: stop, group: group}
}

// Bounds implements Payload.
func (s Span) Bounds() (offset.Offset, offset.Offset) {
	return s.start, s.stop
}

// OwnerGroup implements Payload.
func (s Span) OwnerGroup() GroupID {
	return s.group
}

// SplitAt implements Splitter. The split offset must fall strictly inside
// the span.
func (s Span) SplitAt(at offset.Offset) (Payload, Payload, error) {
	if at.LessEq(s.start) || s.stop.LessEq(at) {
		return nil, nil, fmt.Errorf("%w: %s not in (%s, %s)", ErrSplitOutOfRange, at, s.start, s.stop)
	}

	return NewSpan(s.start, at, s.group), NewSpan(at, s.stop, s.group), nil
}

// ValueSpan is a payload that additionally carries sounding values (e.g.
// pitch numbers). Splitting keeps the full value set on both shards, the
// way a held note sounds through both halves of a cut.
type ValueSpan struct {
	Span

	values []Value
}

// NewValueSpan builds a value-carrying payload covering [start, stop).
func NewValueSpan(start, stop offset.Offset, group GroupID, values ...Value) ValueSpan {
	return ValueSpan{
		Span:   NewSpan(start, stop, group),
		values: slices.Clone(values),
	}
}

// ActiveValues implements ValueCarrier.
func (v ValueSpan) ActiveValues() []Value {
	return slices.Clone(v.values)
}

// SplitAt implements Splitter, carrying the values onto both shards.
func (v ValueSpan) SplitAt(at offset.Offset) (Payload, Payload, error) {
	left, right, err := v.Span.SplitAt(at)
	if err != nil {
		return nil, nil, err
	}

	leftSpan, _ := left.(Span)
	rightSpan, _ := right.(Span)

	return ValueSpan{Span: leftSpan, values: slices.Clone(v.values)},
		ValueSpan{Span: rightSpan, values: slices.Clone(v.values)},
		nil
}
