// Package spantree provides an augmented interval index over half-open
// timespans. The core is a height-balanced tree keyed by start offset in
// which every node buckets the timespans sharing that offset and caches
// the minimum and maximum stop time of its subtree, enabling
// O(log N + k) "what is active at offset X" queries. On top of the tree
// sit an owner-group aware Index, point-in-time Verticality snapshots,
// and fixed-width sliding windows over consecutive verticalities.
//
// The tree may be mutated between iteration steps: verticalities hold a
// non-owning reference back to the index and recompute their neighbors
// on demand, so a mutation is observed by the next step rather than
// invalidating the iteration.
package spantree

import (
	"fmt"
	"sync/atomic"

	"github.com/Sumatoshi-tech/spantree/pkg/offset"
)

// GroupID is a logical partition key for timespans, e.g. a voice or part.
type GroupID string

// Value is a payload-defined sounding value, e.g. a pitch number.
type Value int

// Payload is the capability interface any element stored in the tree must
// implement. Bounds must be immutable for the life of the timespan.
type Payload interface {
	Bounds() (start, stop offset.Offset)
	OwnerGroup() GroupID
}

// Splitter is an optional payload capability: producing two replacement
// payloads covering [start, at) and [at, stop). Payloads that are atomic
// simply do not implement it.
type Splitter interface {
	Payload
	SplitAt(at offset.Offset) (left, right Payload, err error)
}

// ValueCarrier is an optional payload capability exposing the set of
// values sounding during the timespan. Payloads without it are skipped by
// the derived verticality views.
type ValueCarrier interface {
	Payload
	ActiveValues() []Value
}

// timespanSeq issues insertion identities so duplicate spans with equal
// bounds and payloads remain individually addressable.
var timespanSeq atomic.Uint64

// Timespan is a half-open interval [Start, Stop) carrying a payload and
// an owner group. Timespans are immutable once inserted; changing one is
// modeled as remove-old, insert-new.
type Timespan struct {
	start   offset.Offset
	stop    offset.Offset
	payload Payload
	group   GroupID
	seq     uint64
}

// NewTimespan wraps a payload into a Timespan, deriving bounds and owner
// group from the payload. Zero-length timespans are legal and represent
// instantaneous events.
func NewTimespan(p Payload) (*Timespan, error) {
	start, stop := p.Bounds()
	if stop.Less(start) {
		return nil, fmt.Errorf("%w: [%s, %s)", ErrInvertedTimespan, start, stop)
	}

	return &Timespan{
		start:   start,
		stop:    stop,
		payload: p,
		group:   p.OwnerGroup(),
		seq:     timespanSeq.Add(1),
	}, nil
}

// Start returns the inclusive start offset.
func (ts *Timespan) Start() offset.Offset {
	return ts.start
}

// Stop returns the exclusive stop offset (end time).
func (ts *Timespan) Stop() offset.Offset {
	return ts.stop
}

// Payload returns the wrapped payload.
func (ts *Timespan) Payload() Payload {
	return ts.payload
}

// Group returns the owner group the timespan belongs to.
func (ts *Timespan) Group() GroupID {
	return ts.group
}

// Duration returns Stop - Start.
func (ts *Timespan) Duration() offset.Offset {
	return ts.stop.Sub(ts.start)
}

// compare orders timespans by (start, stop) and then by insertion
// identity, so bucket membership and removal are well-defined regardless
// of payload equality semantics.
func (ts *Timespan) compare(other *Timespan) int {
	if c := ts.start.Cmp(other.start); c != 0 {
		return c
	}

	if c := ts.stop.Cmp(other.stop); c != 0 {
		return c
	}

	switch {
	case ts.seq < other.seq:
		return -1
	case ts.seq > other.seq:
		return 1
	default:
		return 0
	}
}

// String renders "[3/2, 4)" style bounds with the owner group.
func (ts *Timespan) String() string {
	if ts.group == "" {
		return fmt.Sprintf("[%s, %s)", ts.start, ts.stop)
	}

	return fmt.Sprintf("[%s, %s) %s", ts.start, ts.stop, ts.group)
}
