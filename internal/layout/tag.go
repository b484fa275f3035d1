package layout

// Boundary tag encoding.
//
// A tag is a single machine word holding the total block size (a multiple of
// DoubleWord) with the allocated flag packed into bit 0. The same tag is
// written at both ends of a block so neighbors can be inspected from either
// direction.

const allocatedBit = 0x1

// Pack encodes a block size and allocated flag into one tagged word.
func Pack(size int, allocated bool) uint64 {
	w := uint64(size)
	if allocated {
		w |= allocatedBit
	}
	return w
}

// Size returns the block size encoded in a tagged word.
func Size(w uint64) int {
	return int(w &^ uint64(AlignmentMask))
}

// Allocated reports whether a tagged word marks the block as allocated.
func Allocated(w uint64) bool {
	return w&allocatedBit != 0
}
