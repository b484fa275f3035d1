package layout

// Core sizing constants for the block format.
//
// Every block carries a one-word header and a one-word footer, and all block
// sizes and payload offsets are double-word aligned. The low AlignmentMask
// bits of a size are therefore always zero and are reused for the allocated
// flag (see tag.go).
const (
	// WordSize is the machine word size in bytes. Headers and footers are one
	// word each.
	WordSize = 8

	// DoubleWord is the alignment unit. Payload offsets and block sizes are
	// multiples of DoubleWord.
	DoubleWord = 2 * WordSize

	// AlignmentMask masks the low bits of a double-word aligned value.
	AlignmentMask = DoubleWord - 1

	// Overhead is the per-block bookkeeping cost: header plus footer.
	Overhead = 2 * WordSize

	// MinBlock is the smallest legal block size. It holds the header, the
	// footer, and one double word of payload, so a block can never become too
	// small to carry its own boundary tags.
	MinBlock = DoubleWord + Overhead

	// ChunkSize is the default minimum heap extension in bytes. Growing by at
	// least this much amortizes the cost of frequent small extensions.
	ChunkSize = 1 << 16
)
