package layout

// Address arithmetic over payload offsets.
//
// A block pointer ("bp") is the byte offset of a block's payload within the
// heap buffer. The header sits one word below the payload; the footer sits at
// the block's far end. Stepping backward reads the previous block's footer,
// the word immediately below our own header; this is why every block, free
// or allocated, carries a footer.
//
//	          bp-Overhead   bp-WordSize   bp              bp+size-Overhead
//	 ... prev footer       | header      | payload ...   | footer | next header ...

// HeaderOff returns the offset of the block's header tag.
func HeaderOff(bp int) int {
	return bp - WordSize
}

// FooterOff returns the offset of the block's footer tag, derived from the
// size currently encoded in the header.
func FooterOff(b []byte, bp int) int {
	return bp + BlockSize(b, bp) - Overhead
}

// BlockSize returns the total size encoded in the block's header.
func BlockSize(b []byte, bp int) int {
	return Size(Word(b, HeaderOff(bp)))
}

// BlockAllocated reports the allocated flag encoded in the block's header.
func BlockAllocated(b []byte, bp int) bool {
	return Allocated(Word(b, HeaderOff(bp)))
}

// NextOff returns the payload offset of the next block in address order.
func NextOff(b []byte, bp int) int {
	return bp + BlockSize(b, bp)
}

// PrevOff returns the payload offset of the previous block in address order,
// computed from the previous block's footer.
func PrevOff(b []byte, bp int) int {
	return bp - Size(Word(b, bp-Overhead))
}
