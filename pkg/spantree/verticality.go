package spantree

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Sumatoshi-tech/spantree/pkg/offset"
)

// Verticality is a computed snapshot of one moment: the timespans that
// start at Offset, the ones that stop exactly there, and the ones that
// straddle it. It holds a non-owning reference back to its Index and
// recomputes neighbors on demand, so mutating the index between two
// Next calls is well-defined: the next verticality reflects the index's
// current state, never a state captured at iteration start.
type Verticality struct {
	Offset  offset.Offset
	Start   []*Timespan
	Stop    []*Timespan
	Overlap []*Timespan

	index *Index
}

// IsEmpty reports whether nothing starts, stops, or sounds here. Sentinel
// verticalities used for end padding are empty.
func (v *Verticality) IsEmpty() bool {
	return len(v.Start) == 0 && len(v.Stop) == 0 && len(v.Overlap) == 0
}

// StartAndOverlap returns the timespans sounding at this moment: those
// starting here followed by those continuing from before.
func (v *Verticality) StartAndOverlap() []*Timespan {
	out := make([]*Timespan, 0, len(v.Start)+len(v.Overlap))
	out = append(out, v.Start...)
	out = append(out, v.Overlap...)

	return out
}

// NextStartOffset returns the next distinct start offset in the index.
func (v *Verticality) NextStartOffset() (offset.Offset, bool) {
	if v.index == nil {
		return offset.Offset{}, false
	}

	return v.index.PositionAfter(v.Offset)
}

// Next returns the verticality at the next distinct start offset, or nil
// at the end of the index. The lookup happens now, against the index's
// current contents.
func (v *Verticality) Next() *Verticality {
	if v.index == nil {
		return nil
	}

	pos, ok := v.index.PositionAfter(v.Offset)
	if !ok {
		return nil
	}

	return v.index.VerticalityAt(pos)
}

// Previous returns the verticality at the previous distinct start offset,
// or nil at the beginning of the index.
func (v *Verticality) Previous() *Verticality {
	if v.index == nil {
		return nil
	}

	pos, ok := v.index.PositionBefore(v.Offset)
	if !ok {
		return nil
	}

	return v.index.VerticalityAt(pos)
}

// TimeToNextEvent returns the distance to the next start offset, or to
// the index's end time for the last verticality. False when neither
// exists ahead of this offset.
func (v *Verticality) TimeToNextEvent() (offset.Offset, bool) {
	if next, ok := v.NextStartOffset(); ok {
		return next.Sub(v.Offset), true
	}

	if v.index == nil {
		return offset.Offset{}, false
	}

	if end, ok := v.index.EndTime(); ok && v.Offset.Less(end) {
		return end.Sub(v.Offset), true
	}

	return offset.Offset{}, false
}

// ActiveValues returns the sorted distinct values sounding at this
// moment, gathered from the start and overlap timespans whose payloads
// carry values. Payloads without the ValueCarrier capability are skipped.
func (v *Verticality) ActiveValues() []Value {
	seen := make(map[Value]struct{})

	var values []Value

	for _, ts := range v.StartAndOverlap() {
		carrier, ok := ts.payload.(ValueCarrier)
		if !ok {
			continue
		}

		for _, val := range carrier.ActiveValues() {
			if _, dup := seen[val]; dup {
				continue
			}

			seen[val] = struct{}{}
			values = append(values, val)
		}
	}

	slices.Sort(values)

	return values
}

// Bass returns the sounding timespan carrying the lowest active value,
// or nil when no sounding payload carries values. Ties go to the later
// candidate in (start, overlap) order.
func (v *Verticality) Bass() *Timespan {
	var (
		bass   *Timespan
		lowest Value
	)

	for _, ts := range v.StartAndOverlap() {
		carrier, ok := ts.payload.(ValueCarrier)
		if !ok {
			continue
		}

		values := carrier.ActiveValues()
		if len(values) == 0 {
			continue
		}

		low := slices.Min(values)
		if bass == nil || low <= lowest {
			bass = ts
			lowest = low
		}
	}

	return bass
}

// String renders the offset and sorted active values, e.g. "3/2 {60 64}".
func (v *Verticality) String() string {
	values := v.ActiveValues()
	parts := make([]string, len(values))

	for i, val := range values {
		parts[i] = fmt.Sprintf("%d", val)
	}

	return fmt.Sprintf("%s {%s}", v.Offset, strings.Join(parts, " "))
}
