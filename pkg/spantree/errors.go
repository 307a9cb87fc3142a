package spantree

import "errors"

// Sentinel errors. Removal of an absent timespan and a non-positive window
// size are caller contract violations and are reported as errors rather
// than silently ignored; exhausted traversals and empty trees are expected
// boundary conditions and use ok-bool results instead.
var (
	ErrTimespanNotFound  = errors.New("timespan not found in tree")
	ErrInvalidWindowSize = errors.New("window size must be at least one")
	ErrSplitUnsupported  = errors.New("payload does not support splitting")
	ErrSplitOutOfRange   = errors.New("split offset outside timespan bounds")
	ErrInvertedTimespan  = errors.New("timespan stops before it starts")
)
