package layout

// Alignment utilities. The heap requires all block sizes and payload offsets
// to be double-word aligned.

// AlignUp returns n rounded up to the next DoubleWord boundary.
//
// Example:
//
//	AlignUp(1)  = 16
//	AlignUp(16) = 16
//	AlignUp(17) = 32
func AlignUp(n int) int {
	return (n + AlignmentMask) &^ AlignmentMask
}

// AdjustSize converts a requested payload size into the total block size to
// allocate: payload plus header/footer overhead, rounded up to alignment,
// with the MinBlock floor applied. Callers must pass a positive size.
func AdjustSize(requested int) int {
	if requested <= DoubleWord {
		return MinBlock
	}
	return AlignUp(requested + Overhead)
}

// EvenWords rounds a word count up to an even number of words, so a region of
// that many words keeps the double-word alignment of whatever follows it.
func EvenWords(words int) int {
	if words%2 != 0 {
		words++
	}
	return words
}
