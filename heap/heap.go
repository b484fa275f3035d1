package heap

import (
	"fmt"
	"os"

	"github.com/ftaube/memkit/arena"
	"github.com/ftaube/memkit/internal/layout"
)

// Runtime debug flag for allocation logging - controlled by MEMKIT_LOG_ALLOC env var.
var logAlloc = os.Getenv("MEMKIT_LOG_ALLOC") != ""

// Ref is a block reference: the byte offset of the block's payload within the
// region. NilRef is never a valid payload offset.
type Ref = int

// NilRef is the empty reference returned for zero-size allocations and on
// failure.
const NilRef Ref = 0

// Config tunes a Heap. The zero value (or nil) selects defaults.
type Config struct {
	// ChunkSize is the minimum heap extension in bytes. Small requests that
	// miss the free list still grow the heap by at least this much. Rounded
	// up to alignment; 0 selects layout.ChunkSize.
	ChunkSize int
}

// Heap is one allocator instance over one memory source. All cursor and
// bookkeeping state lives here, so independent heaps coexist and tests stay
// isolated. Not goroutine-safe.
type Heap struct {
	src   arena.Source
	base  int // payload offset of the prologue block
	rover int // next-fit cursor: payload offset to start the next search at
	chunk int
	stats Stats
}

// New formats an empty source into a heap: alignment padding, the prologue
// header/footer, the initial epilogue header, and a first free block of one
// chunk. The source must be empty; extension failure here is fatal to
// construction.
func New(src arena.Source, cfg *Config) (*Heap, error) {
	if src.Size() != 0 {
		return nil, ErrNotEmpty
	}

	chunk := layout.ChunkSize
	if cfg != nil && cfg.ChunkSize > 0 {
		chunk = layout.AlignUp(cfg.ChunkSize)
	}

	h := &Heap{src: src, chunk: chunk}

	off, err := src.Extend(4 * layout.WordSize)
	if err != nil {
		return nil, fmt.Errorf("heap: init: %w", err)
	}
	b := src.Bytes()
	layout.PutWord(b, off, 0)                                                    // alignment padding
	layout.PutWord(b, off+1*layout.WordSize, layout.Pack(layout.Overhead, true)) // prologue header
	layout.PutWord(b, off+2*layout.WordSize, layout.Pack(layout.Overhead, true)) // prologue footer
	layout.PutWord(b, off+3*layout.WordSize, layout.Pack(0, true))               // epilogue header
	h.base = off + 2*layout.WordSize
	h.rover = h.base

	if _, err := h.extend(chunk / layout.WordSize); err != nil {
		return nil, fmt.Errorf("heap: init: %w", err)
	}
	return h, nil
}

// Open adopts a region previously formatted by New, validating the prologue
// shape. Intended for inspecting persisted heap images; the cursor starts at
// the heap base.
func Open(src arena.Source, cfg *Config) (*Heap, error) {
	b := src.Bytes()
	if len(b) < 4*layout.WordSize {
		return nil, ErrBadImage
	}
	base := 2 * layout.WordSize
	if layout.BlockSize(b, base) != layout.Overhead || !layout.BlockAllocated(b, base) {
		return nil, ErrBadImage
	}

	chunk := layout.ChunkSize
	if cfg != nil && cfg.ChunkSize > 0 {
		chunk = layout.AlignUp(cfg.ChunkSize)
	}
	return &Heap{src: src, base: base, rover: base, chunk: chunk}, nil
}

// Size returns the current heap region size in bytes.
func (h *Heap) Size() int {
	return h.src.Size()
}

// firstBlock returns the payload offset of the first real block.
func (h *Heap) firstBlock() int {
	return layout.NextOff(h.src.Bytes(), h.base)
}

// extend grows the region by the given number of words, rounded up to an even
// count to preserve double-word alignment, formats the new region as one free
// block, writes a fresh epilogue header after it, and coalesces with a free
// block that may have ended at the old epilogue. Returns the payload offset
// of the resulting free block.
func (h *Heap) extend(words int) (int, error) {
	size := layout.EvenWords(words) * layout.WordSize
	off, err := h.src.Extend(size)
	if err != nil {
		return NilRef, fmt.Errorf("%w: extending %d bytes: %w", ErrGrowFail, size, err)
	}
	h.stats.ExtendCalls++
	h.stats.ExtendBytes += int64(size)

	if logAlloc {
		fmt.Fprintf(os.Stderr, "[heap] extend #%d: %d bytes, region now %d bytes\n",
			h.stats.ExtendCalls, size, h.src.Size())
	}

	// The new region starts where the old epilogue header sat, so the free
	// block's payload begins exactly at the old region end.
	b := h.src.Bytes()
	bp := off
	layout.PutWord(b, layout.HeaderOff(bp), layout.Pack(size, false))
	layout.PutWord(b, layout.FooterOff(b, bp), layout.Pack(size, false))
	layout.PutWord(b, layout.HeaderOff(bp+size), layout.Pack(0, true)) // new epilogue header

	return h.coalesce(bp), nil
}

// validRef checks that ref points at a live allocated block: in range,
// double-word aligned, with a sane size and the allocated flag set. It cannot
// detect a stale ref that aliases a live block.
func (h *Heap) validRef(ref Ref) error {
	b := h.src.Bytes()
	if ref <= h.base || ref >= len(b) || ref%layout.DoubleWord != 0 {
		return ErrBadRef
	}
	size := layout.BlockSize(b, ref)
	if size < layout.MinBlock || ref+size-layout.WordSize > len(b) {
		return ErrBadRef
	}
	if !layout.BlockAllocated(b, ref) {
		return ErrBadRef
	}
	return nil
}

// Payload returns the current view of a live block's payload. The slice is
// invalidated by the next heap mutation; hold the ref, not the slice.
func (h *Heap) Payload(ref Ref) ([]byte, error) {
	if err := h.validRef(ref); err != nil {
		return nil, err
	}
	b := h.src.Bytes()
	return b[ref : ref+layout.BlockSize(b, ref)-layout.Overhead], nil
}

// PayloadSize returns the usable payload size of a live block. At least the
// requested allocation size, possibly more after alignment or an absorbed
// split remainder.
func (h *Heap) PayloadSize(ref Ref) (int, error) {
	if err := h.validRef(ref); err != nil {
		return 0, err
	}
	return layout.BlockSize(h.src.Bytes(), ref) - layout.Overhead, nil
}
