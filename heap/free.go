package heap

import "github.com/ftaube/memkit/internal/layout"

// Free returns a live block to the heap and eagerly merges it with free
// neighbors. Refs that are out of range, misaligned, or not currently
// allocated return ErrBadRef; a stale ref that aliases a live block is
// undefined behavior (see the package documentation).
func (h *Heap) Free(ref Ref) error {
	if err := h.validRef(ref); err != nil {
		return err
	}
	h.stats.FreeCalls++

	b := h.src.Bytes()
	size := layout.BlockSize(b, ref)
	layout.PutWord(b, layout.HeaderOff(ref), layout.Pack(size, false))
	layout.PutWord(b, layout.FooterOff(b, ref), layout.Pack(size, false))
	h.stats.BytesFreed += int64(size)
	h.stats.LiveBytes -= int64(size)

	h.coalesce(ref)
	return nil
}

// coalesce merges the free block at bp with free neighbors using boundary
// tags: the previous block's footer and the next block's header. The
// sentinels guarantee both reads are in range. The rover moves to the
// resulting block, a promising place to resume the next search.
// Returns the payload offset of the merged block.
func (h *Heap) coalesce(bp int) int {
	b := h.src.Bytes()
	prevAllocated := layout.Allocated(layout.Word(b, bp-layout.Overhead))
	nextAllocated := layout.BlockAllocated(b, layout.NextOff(b, bp))
	size := layout.BlockSize(b, bp)

	switch {
	case prevAllocated && nextAllocated:
		// Both neighbors allocated: nothing to merge.

	case prevAllocated && !nextAllocated:
		h.stats.CoalesceForward++
		size += layout.BlockSize(b, layout.NextOff(b, bp))
		layout.PutWord(b, layout.HeaderOff(bp), layout.Pack(size, false))
		layout.PutWord(b, layout.FooterOff(b, bp), layout.Pack(size, false))

	case !prevAllocated && nextAllocated:
		h.stats.CoalesceBackward++
		size += layout.BlockSize(b, layout.PrevOff(b, bp))
		bp = layout.PrevOff(b, bp)
		layout.PutWord(b, layout.HeaderOff(bp), layout.Pack(size, false))
		layout.PutWord(b, layout.FooterOff(b, bp), layout.Pack(size, false))

	default:
		h.stats.CoalesceBoth++
		size += layout.BlockSize(b, layout.PrevOff(b, bp)) +
			layout.BlockSize(b, layout.NextOff(b, bp))
		bp = layout.PrevOff(b, bp)
		layout.PutWord(b, layout.HeaderOff(bp), layout.Pack(size, false))
		layout.PutWord(b, layout.FooterOff(b, bp), layout.Pack(size, false))
	}

	h.rover = bp
	return bp
}
