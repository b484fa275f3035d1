package heap

import "errors"

var (
	// ErrGrowFail indicates that no free block satisfied a request and the
	// memory source refused to extend the region.
	ErrGrowFail = errors.New("heap: grow failed")

	// ErrBadRef indicates a ref that is out of range, misaligned, or does not
	// point at a live allocated block.
	ErrBadRef = errors.New("heap: bad block reference")

	// ErrNotEmpty indicates New was given a source that already holds data.
	ErrNotEmpty = errors.New("heap: source is not empty")

	// ErrBadImage indicates Open was given a region that does not start with
	// a valid heap prologue.
	ErrBadImage = errors.New("heap: region is not a heap image")
)
