package heap

import (
	"fmt"
	"io"

	"github.com/ftaube/memkit/internal/layout"
)

// Violation is one consistency finding from Check.
type Violation struct {
	Ref Ref
	Msg string
}

func (v Violation) String() string {
	return fmt.Sprintf("block %#x: %s", v.Ref, v.Msg)
}

// Check walks the full block sequence and validates the heap invariants:
// prologue and epilogue shape, double-word alignment, header/footer equality
// for every block, no two adjacent free blocks, and a rover that points at a
// real position in the sequence. It reports findings without halting, so a
// caller can collect every problem in one pass. With verbose set, every block
// is dumped to w (which may be nil).
func (h *Heap) Check(verbose bool, w io.Writer) []Violation {
	if w == nil {
		w = io.Discard
	}
	b := h.src.Bytes()
	var vs []Violation

	if verbose {
		fmt.Fprintf(w, "heap (%d bytes, base %#x):\n", len(b), h.base)
	}

	if layout.BlockSize(b, h.base) != layout.Overhead || !layout.BlockAllocated(b, h.base) {
		vs = append(vs, Violation{h.base, "bad prologue header"})
	}
	vs = append(vs, checkBlock(b, h.base)...)

	roverSeen := h.rover == h.base
	prevFree := false
	bp := layout.NextOff(b, h.base)
	for ; layout.BlockSize(b, bp) > 0; bp = layout.NextOff(b, bp) {
		if bp+layout.BlockSize(b, bp) > len(b) {
			vs = append(vs, Violation{bp, "size field runs past region end"})
			return vs
		}
		if verbose {
			printBlock(w, b, bp)
		}
		vs = append(vs, checkBlock(b, bp)...)

		free := !layout.BlockAllocated(b, bp)
		if free && prevFree {
			vs = append(vs, Violation{bp, "adjacent free blocks (coalescing missed)"})
		}
		prevFree = free
		if bp == h.rover {
			roverSeen = true
		}
	}

	if verbose {
		printBlock(w, b, bp)
	}
	if layout.BlockSize(b, bp) != 0 || !layout.BlockAllocated(b, bp) {
		vs = append(vs, Violation{bp, "bad epilogue header"})
	}
	if bp == h.rover {
		roverSeen = true
	}
	if !roverSeen {
		vs = append(vs, Violation{h.rover, "next-fit cursor points at no block"})
	}
	return vs
}

// checkBlock validates one block: payload alignment and header/footer
// equality.
func checkBlock(b []byte, bp int) []Violation {
	var vs []Violation
	if bp%layout.DoubleWord != 0 {
		vs = append(vs, Violation{bp, "payload is not double-word aligned"})
	}
	if layout.Word(b, layout.HeaderOff(bp)) != layout.Word(b, layout.FooterOff(b, bp)) {
		vs = append(vs, Violation{bp, "header does not match footer"})
	}
	return vs
}

// printBlock dumps one block's tags in the form "0x30: header [64:a] footer [64:a]".
func printBlock(w io.Writer, b []byte, bp int) {
	hw := layout.Word(b, layout.HeaderOff(bp))
	if layout.Size(hw) == 0 {
		fmt.Fprintf(w, "%#x: EOL\n", bp)
		return
	}
	fw := layout.Word(b, layout.FooterOff(b, bp))
	fmt.Fprintf(w, "%#x: header [%d:%c] footer [%d:%c]\n", bp,
		layout.Size(hw), allocChar(layout.Allocated(hw)),
		layout.Size(fw), allocChar(layout.Allocated(fw)))
}

func allocChar(allocated bool) byte {
	if allocated {
		return 'a'
	}
	return 'f'
}
