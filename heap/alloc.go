package heap

import (
	"fmt"
	"os"

	"github.com/ftaube/memkit/internal/layout"
)

// Alloc allocates a block with at least size bytes of payload and returns its
// ref. A non-positive size is a no-op returning NilRef without touching the
// heap. Alloc fails only when the memory source cannot extend the region.
func (h *Heap) Alloc(size int) (Ref, error) {
	if size <= 0 {
		return NilRef, nil
	}
	h.stats.AllocCalls++

	asize := layout.AdjustSize(size)

	if bp := h.findFit(asize); bp != NilRef {
		h.place(bp, asize)
		h.rover = layout.NextOff(h.src.Bytes(), bp)
		h.noteAlloc(bp)
		return bp, nil
	}

	// No fit: extend by at least one chunk and place into the new block.
	extend := asize
	if extend < h.chunk {
		extend = h.chunk
	}
	if logAlloc {
		fmt.Fprintf(os.Stderr, "[heap] no fit for %d (adjusted %d), extending\n", size, asize)
	}
	bp, err := h.extend(extend / layout.WordSize)
	if err != nil {
		return NilRef, err
	}
	h.place(bp, asize)
	h.rover = layout.NextOff(h.src.Bytes(), bp)
	h.noteAlloc(bp)
	return bp, nil
}

// findFit scans the block sequence for a free block of at least asize bytes,
// starting at the rover. On a hit the rover moves to the found block. On a
// miss the rover resets to the first real block and NilRef is returned. The
// search does not wrap around within the same call; a miss tells the caller
// to extend instead.
func (h *Heap) findFit(asize int) Ref {
	b := h.src.Bytes()
	for bp := h.rover; layout.BlockSize(b, bp) > 0; bp = layout.NextOff(b, bp) {
		if !layout.BlockAllocated(b, bp) && layout.BlockSize(b, bp) >= asize {
			h.rover = bp
			return bp
		}
	}
	h.rover = h.firstBlock()
	return NilRef
}

// place marks asize bytes at the start of free block bp as allocated,
// splitting off the remainder as a new free block when it is large enough to
// be a legal block on its own.
func (h *Heap) place(bp int, asize int) {
	b := h.src.Bytes()
	csize := layout.BlockSize(b, bp)

	if csize-asize >= layout.MinBlock {
		h.stats.SplitCount++
		layout.PutWord(b, layout.HeaderOff(bp), layout.Pack(asize, true))
		layout.PutWord(b, layout.FooterOff(b, bp), layout.Pack(asize, true))
		rem := bp + asize
		layout.PutWord(b, layout.HeaderOff(rem), layout.Pack(csize-asize, false))
		layout.PutWord(b, layout.FooterOff(b, rem), layout.Pack(csize-asize, false))
	} else {
		// Remainder too small to carry its own tags: absorb it.
		layout.PutWord(b, layout.HeaderOff(bp), layout.Pack(csize, true))
		layout.PutWord(b, layout.FooterOff(b, bp), layout.Pack(csize, true))
	}
}

func (h *Heap) noteAlloc(bp int) {
	size := int64(layout.BlockSize(h.src.Bytes(), bp))
	h.stats.BytesAllocated += size
	h.stats.LiveBytes += size
	if h.stats.LiveBytes > h.stats.PeakLiveBytes {
		h.stats.PeakLiveBytes = h.stats.LiveBytes
	}
}
