package heap

import "github.com/ftaube/memkit/internal/layout"

// Realloc resizes a live block the naive way: allocate a new block, copy the
// smaller of the old payload and the new size, free the old block. No attempt
// is made to grow or shrink in place, even when adjacent free space would
// allow it.
//
// A non-positive size frees the block and returns NilRef. If the internal
// allocation fails the error is returned and the original block is left live
// and untouched, so the caller keeps a usable ref.
func (h *Heap) Realloc(ref Ref, size int) (Ref, error) {
	if err := h.validRef(ref); err != nil {
		return NilRef, err
	}
	h.stats.ReallocCalls++

	if size <= 0 {
		if err := h.Free(ref); err != nil {
			return NilRef, err
		}
		return NilRef, nil
	}

	newRef, err := h.Alloc(size)
	if err != nil {
		return NilRef, err
	}

	b := h.src.Bytes()
	n := layout.BlockSize(b, ref) - layout.Overhead
	if size < n {
		n = size
	}
	copy(b[newRef:newRef+n], b[ref:ref+n])

	if err := h.Free(ref); err != nil {
		return NilRef, err
	}
	return newRef, nil
}
