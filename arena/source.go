package arena

// Source is a contiguous, growable byte region. It is the heap's only
// external collaborator: the allocator asks for more region and formats what
// it receives; it never gives region back.
type Source interface {
	// Bytes returns the current view of the whole region. The slice is
	// invalidated by the next Extend.
	Bytes() []byte

	// Size returns the current region size in bytes.
	Size() int

	// Extend grows the region by n bytes of zeroed memory and returns the
	// offset at which the new bytes start (the previous size). It returns
	// ErrExhausted when the source cannot grant more region.
	Extend(n int) (int, error)
}
