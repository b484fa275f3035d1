package heap

import (
	"fmt"
	"io"

	"github.com/ftaube/memkit/internal/layout"
)

// Block describes one block in the walked sequence.
type Block struct {
	Ref       Ref  // payload offset
	Size      int  // total size including header and footer
	Allocated bool // allocated flag from the header
}

// PayloadSize returns the usable payload size of the block.
func (b Block) PayloadSize() int {
	return b.Size - layout.Overhead
}

// BlockIterator walks the real blocks of the heap in address order,
// terminating with io.EOF at the epilogue.
type BlockIterator struct {
	h    *Heap
	bp   int
	done bool
}

// Blocks returns an iterator over the real blocks (sentinels excluded).
func (h *Heap) Blocks() *BlockIterator {
	return &BlockIterator{h: h, bp: h.firstBlock()}
}

// Next returns the next block, io.EOF at the epilogue, or an error if the
// walk runs into a corrupt size field.
func (it *BlockIterator) Next() (Block, error) {
	if it.done {
		return Block{}, io.EOF
	}
	b := it.h.src.Bytes()

	// The epilogue's payload offset is exactly len(b); its header still fits.
	if it.bp > len(b) {
		it.done = true
		return Block{}, fmt.Errorf("heap: walk ran past region end at %#x", it.bp)
	}
	size := layout.BlockSize(b, it.bp)
	if size == 0 {
		// Epilogue: end of the sequence.
		it.done = true
		return Block{}, io.EOF
	}
	if size < layout.MinBlock || it.bp+size > len(b) {
		it.done = true
		return Block{}, fmt.Errorf("heap: block at %#x has corrupt size %d", it.bp, size)
	}

	blk := Block{
		Ref:       it.bp,
		Size:      size,
		Allocated: layout.BlockAllocated(b, it.bp),
	}
	it.bp = layout.NextOff(b, it.bp)
	return blk, nil
}
