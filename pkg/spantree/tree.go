package spantree

import (
	"fmt"
	"iter"
	"slices"
	"sort"

	"github.com/Sumatoshi-tech/spantree/pkg/offset"
)

// node is an AVL tree node bucketing every timespan that shares one start
// offset. endTimeLow and endTimeHigh are the exact min and max stop time
// across the node's own bucket and both subtrees; they are recomputed on
// the same bottom-up unwind as rebalancing, so the tree is never observed
// with stale aggregates. The bucket stays sorted by (stop, insertion
// identity), which keeps full traversal ordered by (start, stop).
type node struct {
	start       offset.Offset
	bucket      []*Timespan
	endTimeLow  offset.Offset
	endTimeHigh offset.Offset
	height      int
	left, right *node
}

func newNode(ts *Timespan) *node {
	return &node{
		start:       ts.start,
		bucket:      []*Timespan{ts},
		endTimeLow:  ts.stop,
		endTimeHigh: ts.stop,
		height:      1,
	}
}

func height(n *node) int {
	if n == nil {
		return 0
	}

	return n.height
}

func balanceFactor(n *node) int {
	return height(n.left) - height(n.right)
}

// recalc recomputes height and stop-time aggregates from the bucket and
// children. The bucket is sorted by stop, so its first and last entries
// bound the node's own contribution.
func (n *node) recalc() {
	n.height = 1 + max(height(n.left), height(n.right))

	n.endTimeLow = n.bucket[0].stop
	n.endTimeHigh = n.bucket[len(n.bucket)-1].stop

	if n.left != nil {
		n.endTimeLow = offset.Min(n.endTimeLow, n.left.endTimeLow)
		n.endTimeHigh = offset.Max(n.endTimeHigh, n.left.endTimeHigh)
	}

	if n.right != nil {
		n.endTimeLow = offset.Min(n.endTimeLow, n.right.endTimeLow)
		n.endTimeHigh = offset.Max(n.endTimeHigh, n.right.endTimeHigh)
	}
}

// insertBucket places ts at its sorted position within the bucket.
func (n *node) insertBucket(ts *Timespan) {
	i := sort.Search(len(n.bucket), func(i int) bool {
		return ts.compare(n.bucket[i]) < 0
	})

	n.bucket = slices.Insert(n.bucket, i, ts)
}

// bucketIndex locates ts in the bucket by insertion identity.
func (n *node) bucketIndex(ts *Timespan) int {
	for i, held := range n.bucket {
		if held.seq == ts.seq {
			return i
		}
	}

	return -1
}

func rotateRight(n *node) *node {
	pivot := n.left
	n.left = pivot.right
	pivot.right = n

	n.recalc()
	pivot.recalc()

	return pivot
}

func rotateLeft(n *node) *node {
	pivot := n.right
	n.right = pivot.left
	pivot.left = n

	n.recalc()
	pivot.recalc()

	return pivot
}

// rebalance restores the AVL height invariant at n, returning the new
// subtree root with aggregates already recomputed.
func rebalance(n *node) *node {
	n.recalc()

	switch bf := balanceFactor(n); {
	case bf > 1:
		if balanceFactor(n.left) < 0 {
			n.left = rotateLeft(n.left)
		}

		return rotateRight(n)
	case bf < -1:
		if balanceFactor(n.right) > 0 {
			n.right = rotateRight(n.right)
		}

		return rotateLeft(n)
	default:
		return n
	}
}

func insertNode(n *node, ts *Timespan) *node {
	if n == nil {
		return newNode(ts)
	}

	switch c := ts.start.Cmp(n.start); {
	case c < 0:
		n.left = insertNode(n.left, ts)
	case c > 0:
		n.right = insertNode(n.right, ts)
	default:
		n.insertBucket(ts)
		n.recalc()

		return n
	}

	return rebalance(n)
}

func removeNode(n *node, ts *Timespan) (*node, bool) {
	if n == nil {
		return nil, false
	}

	switch c := ts.start.Cmp(n.start); {
	case c < 0:
		newLeft, ok := removeNode(n.left, ts)
		if !ok {
			return n, false
		}

		n.left = newLeft

		return rebalance(n), true
	case c > 0:
		newRight, ok := removeNode(n.right, ts)
		if !ok {
			return n, false
		}

		n.right = newRight

		return rebalance(n), true
	default:
		i := n.bucketIndex(ts)
		if i < 0 {
			return n, false
		}

		n.bucket = slices.Delete(n.bucket, i, i+1)
		if len(n.bucket) > 0 {
			n.recalc()

			return n, true
		}

		return dropNode(n), true
	}
}

// dropNode removes a node whose bucket has emptied, promoting the in-order
// successor when both children exist.
func dropNode(n *node) *node {
	if n.left == nil {
		return n.right
	}

	if n.right == nil {
		return n.left
	}

	succ, rest := popMin(n.right)
	succ.left = n.left
	succ.right = rest

	return rebalance(succ)
}

// popMin detaches the leftmost node of the subtree, rebalancing the rest.
func popMin(n *node) (minNode, rest *node) {
	if n.left == nil {
		return n, n.right
	}

	m, remainder := popMin(n.left)
	n.left = remainder

	return m, rebalance(n)
}

// Tree is a height-balanced interval tree keyed by start offset. It owns
// its node graph exclusively; all mutation goes through Insert and Remove,
// each of which leaves the tree fully consistent before returning.
type Tree struct {
	root *node
	size int
}

// NewTree creates an empty tree.
func NewTree() *Tree {
	return &Tree{}
}

// Len returns the number of timespans held.
func (t *Tree) Len() int {
	return t.size
}

// Insert adds a timespan. Duplicates with equal bounds and payloads are
// stored distinctly.
func (t *Tree) Insert(ts *Timespan) {
	t.root = insertNode(t.root, ts)
	t.size++
}

// Remove deletes a previously inserted timespan. Removing a timespan the
// tree does not hold returns ErrTimespanNotFound: a silent no-op would
// desynchronize the caller's bookkeeping from the tree's size and
// aggregates.
func (t *Tree) Remove(ts *Timespan) error {
	root, ok := removeNode(t.root, ts)
	if !ok {
		return fmt.Errorf("%w: %s", ErrTimespanNotFound, ts)
	}

	t.root = root
	t.size--

	return nil
}

// nodeAt returns the node bucketing pos, or nil.
func (t *Tree) nodeAt(pos offset.Offset) *node {
	n := t.root
	for n != nil {
		switch c := pos.Cmp(n.start); {
		case c < 0:
			n = n.left
		case c > 0:
			n = n.right
		default:
			return n
		}
	}

	return nil
}

// StartingAt returns the timespans whose start offset equals pos, ordered
// by (stop, insertion identity).
func (t *Tree) StartingAt(pos offset.Offset) []*Timespan {
	n := t.nodeAt(pos)
	if n == nil {
		return nil
	}

	return slices.Clone(n.bucket)
}

// StoppingAt returns the timespans whose stop time equals pos, ordered by
// (start, stop). Subtrees whose aggregate stop-time range excludes pos
// are pruned.
func (t *Tree) StoppingAt(pos offset.Offset) []*Timespan {
	var out []*Timespan

	collectStopping(t.root, pos, &out)

	return out
}

func collectStopping(n *node, pos offset.Offset, out *[]*Timespan) {
	if n == nil || pos.Less(n.endTimeLow) || n.endTimeHigh.Less(pos) {
		return
	}

	collectStopping(n.left, pos, out)

	for _, ts := range n.bucket {
		if ts.stop.Equal(pos) {
			*out = append(*out, ts)
		}
	}

	collectStopping(n.right, pos, out)
}

// OverlappingAt returns every timespan active at pos under the half-open
// convention: start <= pos < stop. Subtrees whose endTimeHigh is at or
// below pos hold nothing still sounding and are pruned, as is everything
// to the right of a node that starts after pos.
func (t *Tree) OverlappingAt(pos offset.Offset) []*Timespan {
	var out []*Timespan

	collectOverlapping(t.root, pos, &out)

	return out
}

func collectOverlapping(n *node, pos offset.Offset, out *[]*Timespan) {
	if n == nil || n.endTimeHigh.LessEq(pos) {
		return
	}

	collectOverlapping(n.left, pos, out)

	if pos.Less(n.start) {
		return
	}

	for _, ts := range n.bucket {
		if pos.Less(ts.stop) {
			*out = append(*out, ts)
		}
	}

	collectOverlapping(n.right, pos, out)
}

// PositionAfter returns the smallest distinct start offset strictly after
// pos. The second result is false when pos is at or past the last offset.
func (t *Tree) PositionAfter(pos offset.Offset) (offset.Offset, bool) {
	var best *node

	n := t.root
	for n != nil {
		if pos.Less(n.start) {
			best = n
			n = n.left
		} else {
			n = n.right
		}
	}

	if best == nil {
		return offset.Offset{}, false
	}

	return best.start, true
}

// PositionBefore returns the largest distinct start offset strictly before
// pos. The second result is false when pos is at or before the first offset.
func (t *Tree) PositionBefore(pos offset.Offset) (offset.Offset, bool) {
	var best *node

	n := t.root
	for n != nil {
		if n.start.Less(pos) {
			best = n
			n = n.right
		} else {
			n = n.left
		}
	}

	if best == nil {
		return offset.Offset{}, false
	}

	return best.start, true
}

// LowestPosition returns the smallest start offset in the tree.
func (t *Tree) LowestPosition() (offset.Offset, bool) {
	if t.root == nil {
		return offset.Offset{}, false
	}

	n := t.root
	for n.left != nil {
		n = n.left
	}

	return n.start, true
}

// HighestPosition returns the largest start offset in the tree.
func (t *Tree) HighestPosition() (offset.Offset, bool) {
	if t.root == nil {
		return offset.Offset{}, false
	}

	n := t.root
	for n.right != nil {
		n = n.right
	}

	return n.start, true
}

// EndTime returns the maximum stop time across the whole tree, cached at
// the root.
func (t *Tree) EndTime() (offset.Offset, bool) {
	if t.root == nil {
		return offset.Offset{}, false
	}

	return t.root.endTimeHigh, true
}

// All iterates every timespan in (start, stop, insertion) order,
// reconstructing the full timeline from the tree alone. The snapshot of
// each node's bucket is taken as it is visited; mutating the tree during
// a full traversal is not part of the iteration contract (unlike
// verticality iteration, which re-queries per step).
func (t *Tree) All() iter.Seq[*Timespan] {
	return func(yield func(*Timespan) bool) {
		inorder(t.root, yield)
	}
}

func inorder(n *node, yield func(*Timespan) bool) bool {
	if n == nil {
		return true
	}

	if !inorder(n.left, yield) {
		return false
	}

	for _, ts := range n.bucket {
		if !yield(ts) {
			return false
		}
	}

	return inorder(n.right, yield)
}

// Timespans materializes All into a slice.
func (t *Tree) Timespans() []*Timespan {
	out := make([]*Timespan, 0, t.size)
	for ts := range t.All() {
		out = append(out, ts)
	}

	return out
}
