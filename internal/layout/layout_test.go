package layout

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_PackRoundTrip(t *testing.T) {
	cases := []struct {
		size      int
		allocated bool
	}{
		{0, true},
		{MinBlock, false},
		{MinBlock, true},
		{1 << 16, false},
		{1<<30 + DoubleWord, true},
	}

	for _, tc := range cases {
		w := Pack(tc.size, tc.allocated)
		require.Equal(t, tc.size, Size(w), "size survives packing")
		require.Equal(t, tc.allocated, Allocated(w), "allocated flag survives packing")
	}
}

func Test_PackFlagDoesNotDisturbSize(t *testing.T) {
	w := Pack(ChunkSize, true)
	require.NotEqual(t, Pack(ChunkSize, false), w)
	require.Equal(t, Size(Pack(ChunkSize, false)), Size(w))
}

func Test_AlignUp(t *testing.T) {
	cases := map[int]int{
		0:             0,
		1:             16,
		15:            16,
		16:            16,
		17:            32,
		100:           112,
		ChunkSize:     ChunkSize,
		ChunkSize + 1: ChunkSize + 16,
	}
	for in, want := range cases {
		require.Equal(t, want, AlignUp(in), "AlignUp(%d)", in)
	}
}

func Test_AdjustSize(t *testing.T) {
	// Requests up to one double word fit the minimum block; larger requests
	// round (payload + overhead) up to alignment.
	cases := map[int]int{
		1:   MinBlock,
		8:   MinBlock,
		16:  MinBlock,
		17:  48,
		100: 128,
		112: 128,
		113: 144,
	}
	for in, want := range cases {
		require.Equal(t, want, AdjustSize(in), "AdjustSize(%d)", in)
	}
}

func Test_AdjustSizeAlwaysHoldsRequestAndTags(t *testing.T) {
	for req := 1; req < 4096; req++ {
		asize := AdjustSize(req)
		require.Zero(t, asize%DoubleWord, "AdjustSize(%d) not aligned", req)
		require.GreaterOrEqual(t, asize-Overhead, req, "AdjustSize(%d) too small for payload", req)
		require.GreaterOrEqual(t, asize, MinBlock, "AdjustSize(%d) below minimum block", req)
	}
}

func Test_EvenWords(t *testing.T) {
	require.Equal(t, 0, EvenWords(0))
	require.Equal(t, 2, EvenWords(1))
	require.Equal(t, 2, EvenWords(2))
	require.Equal(t, 8192, EvenWords(8191))
}

func Test_WordEncodingLittleEndian(t *testing.T) {
	b := make([]byte, 3*WordSize)
	PutWord(b, WordSize, 0x0102030405060708)
	require.Equal(t, byte(0x08), b[WordSize], "low byte first")
	require.Equal(t, uint64(0x0102030405060708), Word(b, WordSize))
}

func Test_NeighborArithmetic(t *testing.T) {
	// Lay out two adjacent blocks by hand: 32 bytes allocated, 48 bytes free.
	b := make([]byte, 256)
	bp := DoubleWord
	PutWord(b, HeaderOff(bp), Pack(32, true))
	PutWord(b, bp+32-Overhead, Pack(32, true))
	next := bp + 32
	PutWord(b, HeaderOff(next), Pack(48, false))
	PutWord(b, next+48-Overhead, Pack(48, false))

	require.Equal(t, 32, BlockSize(b, bp))
	require.True(t, BlockAllocated(b, bp))
	require.Equal(t, next, NextOff(b, bp))
	require.Equal(t, 48, BlockSize(b, next))
	require.False(t, BlockAllocated(b, next))
	require.Equal(t, bp, PrevOff(b, next))
	require.Equal(t, Word(b, HeaderOff(bp)), Word(b, FooterOff(b, bp)))
}
