package spantree

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/spantree/pkg/offset"
)

// Stress test dimensions for the randomized insert/remove oracle runs.
const (
	stressTrials    = 100
	stressSpanCount = 20
)

const testGroup = GroupID("alto")

// span builds an inserted-ready timespan over integer bounds.
func span(t *testing.T, start, stop int64) *Timespan {
	t.Helper()

	ts, err := NewTimespan(NewSpan(offset.FromInt(start), offset.FromInt(stop), testGroup))
	require.NoError(t, err)

	return ts
}

// checkInvariants verifies the three structural invariants on every node:
// BST order over start offsets, AVL balance, and exact stop-time
// aggregates; plus size consistency.
func checkInvariants(t *testing.T, tr *Tree) {
	t.Helper()

	if tr.root != nil {
		verifyNode(t, tr.root)
	}

	count := 0
	for range tr.All() {
		count++
	}

	require.Equal(t, tr.Len(), count, "size must match traversal count")
}

// verifyNode returns the subtree's (height, minStart, maxStart, lowStop,
// highStop) while asserting invariants hold.
func verifyNode(t *testing.T, n *node) (int, offset.Offset, offset.Offset, offset.Offset, offset.Offset) {
	t.Helper()

	require.NotEmpty(t, n.bucket, "node bucket must never be empty")

	for _, ts := range n.bucket {
		require.True(t, ts.Start().Equal(n.start), "bucket entry start must match node offset")
		require.True(t, ts.Start().LessEq(ts.Stop()), "timespan must not be inverted")
	}

	for i := 1; i < len(n.bucket); i++ {
		require.LessOrEqual(t, n.bucket[i-1].compare(n.bucket[i]), 0, "bucket must stay sorted")
	}

	lowStop := n.bucket[0].Stop()
	highStop := n.bucket[len(n.bucket)-1].Stop()
	minStart, maxStart := n.start, n.start
	leftHeight, rightHeight := 0, 0

	if n.left != nil {
		h, lo, hi, ls, hs := verifyNode(t, n.left)
		require.True(t, hi.Less(n.start), "left subtree must start strictly before node")

		leftHeight = h
		minStart = lo
		lowStop = offset.Min(lowStop, ls)
		highStop = offset.Max(highStop, hs)
	}

	if n.right != nil {
		h, lo, hi, ls, hs := verifyNode(t, n.right)
		require.True(t, n.start.Less(lo), "right subtree must start strictly after node")

		rightHeight = h
		maxStart = hi
		lowStop = offset.Min(lowStop, ls)
		highStop = offset.Max(highStop, hs)
	}

	bf := leftHeight - rightHeight
	require.GreaterOrEqual(t, bf, -1, "balance factor out of range")
	require.LessOrEqual(t, bf, 1, "balance factor out of range")

	require.Equal(t, 1+max(leftHeight, rightHeight), n.height, "cached height must be exact")
	require.True(t, n.endTimeLow.Equal(lowStop), "endTimeLow must be exact")
	require.True(t, n.endTimeHigh.Equal(highStop), "endTimeHigh must be exact")

	return n.height, minStart, maxStart, lowStop, highStop
}

// bruteOverlap is the linear-scan oracle for OverlappingAt.
func bruteOverlap(spans []*Timespan, pos offset.Offset) []*Timespan {
	var out []*Timespan

	for _, ts := range spans {
		if ts.Start().LessEq(pos) && pos.Less(ts.Stop()) {
			out = append(out, ts)
		}
	}

	slices.SortFunc(out, (*Timespan).compare)

	return out
}

// TestInsert_OrderedTraversal verifies in-order traversal sorts by
// (start, stop) regardless of insertion order.
func TestInsert_OrderedTraversal(t *testing.T) {
	t.Parallel()

	tr := NewTree()
	spans := []*Timespan{
		span(t, 5, 8),
		span(t, 0, 9),
		span(t, 0, 2),
		span(t, 7, 7),
		span(t, 3, 4),
	}

	for _, ts := range spans {
		tr.Insert(ts)
	}

	want := slices.Clone(spans)
	slices.SortFunc(want, (*Timespan).compare)

	assert.Equal(t, want, tr.Timespans())
	checkInvariants(t, tr)
}

// TestInsert_DuplicateSpans verifies duplicates are stored distinctly.
func TestInsert_DuplicateSpans(t *testing.T) {
	t.Parallel()

	tr := NewTree()
	first := span(t, 1, 3)
	second := span(t, 1, 3)

	tr.Insert(first)
	tr.Insert(second)

	require.Equal(t, 2, tr.Len())
	checkInvariants(t, tr)

	require.NoError(t, tr.Remove(first))
	assert.Equal(t, []*Timespan{second}, tr.Timespans())
}

// TestRemove_Absent verifies removal of an absent timespan fails loudly.
func TestRemove_Absent(t *testing.T) {
	t.Parallel()

	tr := NewTree()
	tr.Insert(span(t, 0, 2))

	err := tr.Remove(span(t, 0, 2))
	require.ErrorIs(t, err, ErrTimespanNotFound)
	assert.Equal(t, 1, tr.Len())

	err = tr.Remove(span(t, 5, 6))
	require.ErrorIs(t, err, ErrTimespanNotFound)
}

// TestRemove_RoundTrip verifies inserting N spans then removing all of
// them, in random order, yields an empty tree.
func TestRemove_RoundTrip(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(1))
	tr := NewTree()

	var spans []*Timespan

	for i := range int64(stressSpanCount) {
		ts := span(t, i%7, i%7+i%5)
		spans = append(spans, ts)
		tr.Insert(ts)
	}

	rng.Shuffle(len(spans), func(i, j int) {
		spans[i], spans[j] = spans[j], spans[i]
	})

	for _, ts := range spans {
		require.NoError(t, tr.Remove(ts))
		checkInvariants(t, tr)
	}

	assert.Equal(t, 0, tr.Len())
	assert.Nil(t, tr.root)
}

// TestPositions verifies successor/predecessor/extreme offset lookups and
// their boundary conditions.
func TestPositions(t *testing.T) {
	t.Parallel()

	tr := NewTree()
	for _, b := range [][2]int64{{0, 2}, {0, 9}, {1, 1}, {2, 3}, {3, 4}} {
		tr.Insert(span(t, b[0], b[1]))
	}

	low, ok := tr.LowestPosition()
	require.True(t, ok)
	assert.True(t, low.Equal(offset.FromInt(0)))

	high, ok := tr.HighestPosition()
	require.True(t, ok)
	assert.True(t, high.Equal(offset.FromInt(3)))

	end, ok := tr.EndTime()
	require.True(t, ok)
	assert.True(t, end.Equal(offset.FromInt(9)))

	after, ok := tr.PositionAfter(offset.FromInt(1))
	require.True(t, ok)
	assert.True(t, after.Equal(offset.FromInt(2)))

	// Between distinct offsets.
	after, ok = tr.PositionAfter(offset.MustNew(3, 2))
	require.True(t, ok)
	assert.True(t, after.Equal(offset.FromInt(2)))

	before, ok := tr.PositionBefore(offset.FromInt(2))
	require.True(t, ok)
	assert.True(t, before.Equal(offset.FromInt(1)))

	// Boundary conditions are ok-bool results, not errors.
	_, ok = tr.PositionAfter(offset.FromInt(3))
	assert.False(t, ok)

	_, ok = tr.PositionBefore(offset.FromInt(0))
	assert.False(t, ok)
}

// TestPositions_Empty verifies the empty-tree boundary results.
func TestPositions_Empty(t *testing.T) {
	t.Parallel()

	tr := NewTree()

	_, ok := tr.LowestPosition()
	assert.False(t, ok)

	_, ok = tr.HighestPosition()
	assert.False(t, ok)

	_, ok = tr.EndTime()
	assert.False(t, ok)

	_, ok = tr.PositionAfter(offset.FromInt(0))
	assert.False(t, ok)
}

// TestOverlappingAt_HalfOpen verifies the half-open convention at the
// exact boundaries.
func TestOverlappingAt_HalfOpen(t *testing.T) {
	t.Parallel()

	tr := NewTree()
	ts := span(t, 1, 3)
	tr.Insert(ts)

	assert.Len(t, tr.OverlappingAt(offset.FromInt(1)), 1, "start is inclusive")
	assert.Len(t, tr.OverlappingAt(offset.FromInt(2)), 1)
	assert.Empty(t, tr.OverlappingAt(offset.FromInt(3)), "stop is exclusive")
	assert.Empty(t, tr.OverlappingAt(offset.FromInt(0)))

	// A zero-length span never overlaps anything, including its own offset.
	zero := span(t, 5, 5)
	tr.Insert(zero)
	assert.Empty(t, tr.OverlappingAt(offset.FromInt(5)))
}

// TestStoppingAt verifies stop-time collection ordered by start offset.
func TestStoppingAt(t *testing.T) {
	t.Parallel()

	tr := NewTree()
	a := span(t, 0, 3)
	b := span(t, 1, 3)
	c := span(t, 2, 3)
	d := span(t, 0, 2)

	for _, ts := range []*Timespan{c, a, d, b} {
		tr.Insert(ts)
	}

	assert.Equal(t, []*Timespan{a, b, c}, tr.StoppingAt(offset.FromInt(3)))
	assert.Equal(t, []*Timespan{d}, tr.StoppingAt(offset.FromInt(2)))
	assert.Empty(t, tr.StoppingAt(offset.FromInt(1)))
}

// TestStress_RandomInsertRemove is the randomized oracle test: after
// every insert and remove, the traversal matches a sorted list, the root
// aggregates match brute-force min/max stop times, and overlap queries
// match a linear scan.
func TestStress_RandomInsertRemove(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(42))

	for range stressTrials {
		starts := rng.Perm(stressSpanCount)
		stops := rng.Perm(stressSpanCount)

		var spans []*Timespan

		for i := range stressSpanCount {
			lo, hi := int64(starts[i]), int64(stops[i])
			if hi < lo {
				lo, hi = hi, lo
			}

			spans = append(spans, span(t, lo, hi))
		}

		tr := NewTree()

		var held []*Timespan

		for _, ts := range spans {
			tr.Insert(ts)
			held = append(held, ts)

			verifyAgainstOracle(t, tr, held, rng)
		}

		rng.Shuffle(len(held), func(i, j int) {
			held[i], held[j] = held[j], held[i]
		})

		for len(held) > 0 {
			victim := held[len(held)-1]
			held = held[:len(held)-1]

			require.NoError(t, tr.Remove(victim))
			verifyAgainstOracle(t, tr, held, rng)
		}

		assert.Nil(t, tr.root)
		assert.Equal(t, 0, tr.Len())
	}
}

// verifyAgainstOracle checks structure, ordering, aggregates, and one
// random overlap query against the brute-force oracle.
func verifyAgainstOracle(t *testing.T, tr *Tree, held []*Timespan, rng *rand.Rand) {
	t.Helper()

	checkInvariants(t, tr)

	want := slices.Clone(held)
	slices.SortFunc(want, (*Timespan).compare)
	require.Equal(t, want, tr.Timespans())

	if len(held) == 0 {
		return
	}

	lowWant, endWant := held[0].Start(), held[0].Stop()
	for _, ts := range held[1:] {
		lowWant = offset.Min(lowWant, ts.Start())
		endWant = offset.Max(endWant, ts.Stop())
	}

	low, ok := tr.LowestPosition()
	require.True(t, ok)
	require.True(t, low.Equal(lowWant))

	end, ok := tr.EndTime()
	require.True(t, ok)
	require.True(t, end.Equal(endWant))

	// Query at a random half-integral point to exercise both exact hits
	// and between-offset positions.
	pos := offset.MustNew(int64(rng.Intn(2*stressSpanCount)), 2)

	got := tr.OverlappingAt(pos)
	slices.SortFunc(got, (*Timespan).compare)
	require.Equal(t, bruteOverlap(held, pos), got)
}

// TestAll_EarlyStop verifies traversal respects yield returning false.
func TestAll_EarlyStop(t *testing.T) {
	t.Parallel()

	tr := NewTree()
	for i := range int64(10) {
		tr.Insert(span(t, i, i+1))
	}

	count := 0
	for range tr.All() {
		count++
		if count == 3 {
			break
		}
	}

	assert.Equal(t, 3, count)
}
