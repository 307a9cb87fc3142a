package spantree

import (
	"fmt"
	"iter"
	"slices"

	"github.com/Sumatoshi-tech/spantree/pkg/offset"
)

// Index wraps the interval tree with owner-group partitioning, split-at
// mutation, and verticality construction. It is the type analysis code
// talks to; the bare Tree stays available for callers that only need the
// positional primitives.
type Index struct {
	tree *Tree
	rec  Recorder
}

// NewIndex creates an empty index.
func NewIndex(opts ...IndexOption) *Index {
	ix := &Index{
		tree: NewTree(),
		rec:  nopRecorder{},
	}

	for _, opt := range opts {
		opt(ix)
	}

	return ix
}

// Insert adds timespans to the index.
func (ix *Index) Insert(spans ...*Timespan) {
	for _, ts := range spans {
		ix.tree.Insert(ts)
		ix.rec.RecordInsert()
	}
}

// InsertPayloads wraps payloads into timespans and inserts them.
func (ix *Index) InsertPayloads(payloads ...Payload) error {
	spans := make([]*Timespan, 0, len(payloads))

	for _, p := range payloads {
		ts, err := NewTimespan(p)
		if err != nil {
			return err
		}

		spans = append(spans, ts)
	}

	ix.Insert(spans...)

	return nil
}

// Remove deletes timespans. It stops at the first timespan the tree does
// not hold, returning ErrTimespanNotFound; spans before it stay removed.
func (ix *Index) Remove(spans ...*Timespan) error {
	for _, ts := range spans {
		if err := ix.tree.Remove(ts); err != nil {
			return err
		}

		ix.rec.RecordRemove()
	}

	return nil
}

// Len returns the number of timespans held.
func (ix *Index) Len() int {
	return ix.tree.Len()
}

// StartingAt, StoppingAt, OverlappingAt, PositionAfter, PositionBefore,
// LowestPosition, HighestPosition, EndTime, All, and Timespans delegate
// to the underlying tree.

// StartingAt returns the timespans starting exactly at pos.
func (ix *Index) StartingAt(pos offset.Offset) []*Timespan {
	return ix.tree.StartingAt(pos)
}

// StoppingAt returns the timespans whose stop time equals pos.
func (ix *Index) StoppingAt(pos offset.Offset) []*Timespan {
	return ix.tree.StoppingAt(pos)
}

// OverlappingAt returns the timespans active at pos (start <= pos < stop).
func (ix *Index) OverlappingAt(pos offset.Offset) []*Timespan {
	ix.rec.RecordPointQuery()

	return ix.tree.OverlappingAt(pos)
}

// PositionAfter returns the next distinct start offset after pos.
func (ix *Index) PositionAfter(pos offset.Offset) (offset.Offset, bool) {
	return ix.tree.PositionAfter(pos)
}

// PositionBefore returns the previous distinct start offset before pos.
func (ix *Index) PositionBefore(pos offset.Offset) (offset.Offset, bool) {
	return ix.tree.PositionBefore(pos)
}

// LowestPosition returns the smallest start offset.
func (ix *Index) LowestPosition() (offset.Offset, bool) {
	return ix.tree.LowestPosition()
}

// HighestPosition returns the largest start offset.
func (ix *Index) HighestPosition() (offset.Offset, bool) {
	return ix.tree.HighestPosition()
}

// EndTime returns the maximum stop time across the index.
func (ix *Index) EndTime() (offset.Offset, bool) {
	return ix.tree.EndTime()
}

// All iterates every timespan in (start, stop, insertion) order.
func (ix *Index) All() iter.Seq[*Timespan] {
	return ix.tree.All()
}

// Timespans materializes All into a slice.
func (ix *Index) Timespans() []*Timespan {
	return ix.tree.Timespans()
}

// VerticalityAt computes the point-in-time snapshot at pos: which
// timespans start there, which stop there, and which straddle it. The
// three sets are pairwise disjoint; a zero-length timespan at pos counts
// as starting, not stopping, and a timespan ending exactly at pos stops
// rather than overlaps under the half-open convention.
func (ix *Index) VerticalityAt(pos offset.Offset) *Verticality {
	ix.rec.RecordPointQuery()

	start := ix.tree.StartingAt(pos)

	var stop []*Timespan

	for _, ts := range ix.tree.StoppingAt(pos) {
		if ts.start.Less(pos) {
			stop = append(stop, ts)
		}
	}

	var overlap []*Timespan

	for _, ts := range ix.tree.OverlappingAt(pos) {
		if ts.start.Less(pos) {
			overlap = append(overlap, ts)
		}
	}

	return &Verticality{
		Offset:  pos,
		Start:   start,
		Stop:    stop,
		Overlap: overlap,
		index:   ix,
	}
}

// VerticalityAtOrBefore returns the verticality at pos, stepping back to
// the previous one when nothing starts exactly at pos. Returns nil when
// no verticality with starting timespans exists at or before pos.
func (ix *Index) VerticalityAtOrBefore(pos offset.Offset) *Verticality {
	v := ix.VerticalityAt(pos)
	if len(v.Start) == 0 {
		return v.Previous()
	}

	return v
}

// SplitAt cuts every timespan straddling each offset into two shards,
// [start, offset) and [offset, stop), by removing the original and
// inserting replacements produced by the payload's Splitter capability.
// A payload without that capability fails the whole offset with
// ErrSplitUnsupported before any timespan at that offset is touched.
func (ix *Index) SplitAt(offsets ...offset.Offset) error {
	for _, pos := range offsets {
		if err := ix.splitOne(pos); err != nil {
			return err
		}
	}

	return nil
}

func (ix *Index) splitOne(pos offset.Offset) error {
	overlaps := ix.VerticalityAt(pos).Overlap

	// Capability check first, so a decline leaves this offset untouched.
	splitters := make([]Splitter, len(overlaps))

	for i, ts := range overlaps {
		sp, ok := ts.payload.(Splitter)
		if !ok {
			return fmt.Errorf("%w: %s", ErrSplitUnsupported, ts)
		}

		splitters[i] = sp
	}

	for i, ts := range overlaps {
		left, right, err := splitters[i].SplitAt(pos)
		if err != nil {
			return fmt.Errorf("split %s at %s: %w", ts, pos, err)
		}

		leftSpan, err := NewTimespan(left)
		if err != nil {
			return fmt.Errorf("split %s at %s: %w", ts, pos, err)
		}

		rightSpan, err := NewTimespan(right)
		if err != nil {
			return fmt.Errorf("split %s at %s: %w", ts, pos, err)
		}

		if err := ix.tree.Remove(ts); err != nil {
			return err
		}

		ix.tree.Insert(leftSpan)
		ix.tree.Insert(rightSpan)
		ix.rec.RecordSplit()
	}

	return nil
}

// PartitionByGroup returns a fresh index per owner group, each holding
// only that group's timespans, so downstream analyses can reason about
// one group's timeline without re-filtering on every query.
func (ix *Index) PartitionByGroup() map[GroupID]*Index {
	parts := make(map[GroupID]*Index)

	for ts := range ix.tree.All() {
		part, ok := parts[ts.group]
		if !ok {
			part = NewIndex()
			parts[ts.group] = part
		}

		part.tree.Insert(ts)
	}

	return parts
}

// Groups returns the distinct owner groups present, sorted.
func (ix *Index) Groups() []GroupID {
	seen := make(map[GroupID]struct{})

	var groups []GroupID

	for ts := range ix.tree.All() {
		if _, ok := seen[ts.group]; ok {
			continue
		}

		seen[ts.group] = struct{}{}
		groups = append(groups, ts.group)
	}

	slices.Sort(groups)

	return groups
}

// MaximumOverlap returns the largest number of timespans sounding at any
// distinct offset. Zero-length timespans are instantaneous and carry no
// overlap mass, so they do not count toward the degree. The second result
// is false on an empty index, which legitimately has no overlap statistic.
func (ix *Index) MaximumOverlap() (int, bool) {
	found := false
	best := 0

	for v := range ix.Verticalities(false) {
		deg := len(v.Overlap)

		for _, ts := range v.Start {
			if !ts.Duration().IsZero() {
				deg++
			}
		}

		if !found || deg > best {
			best = deg
			found = true
		}
	}

	return best, found
}
