package spantree

import "slices"

// Sequence is a fixed-width window of consecutive verticalities, ordered
// earliest to latest. Each window handed out by VerticalitiesNwise is a
// fresh value, never a view into iterator state, so callers may retain
// windows without aliasing concerns.
type Sequence []*Verticality

// Offsets returns the window's offsets in order.
func (s Sequence) Offsets() []string {
	out := make([]string, len(s))
	for i, v := range s {
		out[i] = v.Offset.String()
	}

	return out
}

// UnwrapByGroup flattens the window into per-group timelines: for each
// owner group, the timespans sounding through the window in (start, stop)
// order, each listed once. This is the horizontality view used for
// neighbor-aware analyses over one voice at a time.
func (s Sequence) UnwrapByGroup() map[GroupID][]*Timespan {
	unwrapped := make(map[GroupID][]*Timespan)
	seen := make(map[uint64]struct{})

	for _, v := range s {
		for _, ts := range v.StartAndOverlap() {
			if _, dup := seen[ts.seq]; dup {
				continue
			}

			seen[ts.seq] = struct{}{}
			unwrapped[ts.group] = append(unwrapped[ts.group], ts)
		}
	}

	for _, spans := range unwrapped {
		slices.SortFunc(spans, (*Timespan).compare)
	}

	return unwrapped
}
