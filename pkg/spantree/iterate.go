package spantree

import (
	"fmt"
	"iter"

	"github.com/Sumatoshi-tech/spantree/pkg/offset"
)

// Verticalities lazily walks every distinct start offset, yielding the
// verticality at each. Forward iteration begins at the lowest position
// and follows Next; reverse begins at the highest and follows Previous.
// Each step re-queries the index, so timespans inserted or removed
// between steps are observed by the following step. An empty index
// yields nothing.
func (ix *Index) Verticalities(reverse bool) iter.Seq[*Verticality] {
	return func(yield func(*Verticality) bool) {
		var (
			pos offset.Offset
			ok  bool
		)

		if reverse {
			pos, ok = ix.tree.HighestPosition()
		} else {
			pos, ok = ix.tree.LowestPosition()
		}

		if !ok {
			return
		}

		v := ix.VerticalityAt(pos)
		for v != nil {
			if !yield(v) {
				return
			}

			if reverse {
				v = v.Previous()
			} else {
				v = v.Next()
			}
		}
	}
}

// VerticalitiesNwise slides a window of width n over the verticality
// sequence. Each yielded Sequence is a fresh value ordered earliest to
// latest, including under reverse iteration (the windows move backward,
// their contents do not). With padEnd, n-1 sentinel empty verticalities
// anchored at the index's end time pad the tail so the final windows
// include the last real verticality; without it, an index with fewer
// than n distinct offsets yields no windows. A non-positive n fails with
// ErrInvalidWindowSize before any iteration begins.
func (ix *Index) VerticalitiesNwise(n int, reverse, padEnd bool) (iter.Seq[Sequence], error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidWindowSize, n)
	}

	seq := func(yield func(Sequence) bool) {
		window := make([]*Verticality, 0, n)

		emit := func() bool {
			out := make(Sequence, n)

			if reverse {
				for i, v := range window {
					out[n-1-i] = v
				}
			} else {
				copy(out, window)
			}

			return yield(out)
		}

		push := func(v *Verticality) bool {
			window = append(window, v)
			if len(window) < n {
				return true
			}

			if !emit() {
				return false
			}

			window = window[1:]

			return true
		}

		for v := range ix.Verticalities(reverse) {
			if !push(v) {
				return
			}
		}

		if !padEnd {
			return
		}

		// The sentinel is anchored at the end time as of padding time,
		// matching the mutation-is-observed contract. Padding completes
		// only windows that still contain a real verticality.
		sentinel := ix.sentinelVerticality()

		for range n - 1 {
			if !push(sentinel) {
				return
			}
		}
	}

	return seq, nil
}

// sentinelVerticality is the empty verticality at the index's end time,
// used for end padding.
func (ix *Index) sentinelVerticality() *Verticality {
	end, _ := ix.tree.EndTime()

	return &Verticality{Offset: end, index: ix}
}
