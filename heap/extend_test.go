package heap

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ftaube/memkit/arena"
)

func Test_NoGrowWhenFit(t *testing.T) {
	h, _ := newTestHeap(t, 4096)
	base := h.Stats().ExtendCalls

	for i := 0; i < 10; i++ {
		_, err := h.Alloc(64)
		require.NoError(t, err)
	}
	require.Equal(t, base, h.Stats().ExtendCalls,
		"requests that fit the free list must not grow the heap")
	requireClean(t, h)
}

// Scenario: a request past the current free capacity grows the heap exactly
// once, by at least max(adjusted request, chunk size), and then succeeds.
func Test_GrowOnceForOversizedRequest(t *testing.T) {
	h, _ := newTestHeap(t, 4096)
	before := h.Stats()

	ref, err := h.Alloc(8000)
	require.NoError(t, err)
	require.NotEqual(t, NilRef, ref)

	after := h.Stats()
	require.Equal(t, before.ExtendCalls+1, after.ExtendCalls, "exactly one extension")
	grown := after.ExtendBytes - before.ExtendBytes
	require.GreaterOrEqual(t, grown, int64(8000), "growth must cover the request")
	requireClean(t, h)
}

func Test_SmallMissGrowsByChunk(t *testing.T) {
	h, _ := newTestHeap(t, 4096)

	// Fill the initial chunk completely: 4096 = 64 blocks of 64 bytes.
	for i := 0; i < 64; i++ {
		_, err := h.Alloc(48)
		require.NoError(t, err)
	}
	before := h.Stats()

	_, err := h.Alloc(48)
	require.NoError(t, err)

	after := h.Stats()
	require.Equal(t, before.ExtendCalls+1, after.ExtendCalls)
	require.Equal(t, int64(4096), after.ExtendBytes-before.ExtendBytes,
		"a small miss still grows by the full chunk")
	requireClean(t, h)
}

func Test_ExtendedRegionCoalescesWithTrailingFreeBlock(t *testing.T) {
	h, _ := newTestHeap(t, 4096)

	// Leave a free tail, then force an extension; the new region must merge
	// with the tail into a single free block.
	_, err := h.Alloc(64)
	require.NoError(t, err)

	_, err = h.Alloc(8000)
	require.NoError(t, err)
	requireClean(t, h) // invariant 2 would fail if the merge were skipped

	free := freeBlocks(t, h)
	require.Len(t, free, 1, "trailing free space and new region form one block")
}

func Test_AllocFailsWhenSourceExhausted(t *testing.T) {
	src := arena.NewBoundedBuffer(32 + 4096)
	h, err := New(src, &Config{ChunkSize: 4096})
	require.NoError(t, err)

	// Within capacity: fine.
	ref, err := h.Alloc(1000)
	require.NoError(t, err)
	require.NotEqual(t, NilRef, ref)

	// Past capacity: the source refuses and Alloc surfaces it.
	_, err = h.Alloc(8000)
	require.ErrorIs(t, err, ErrGrowFail)
	require.ErrorIs(t, err, arena.ErrExhausted)

	// The heap stays consistent and usable after a failed extension.
	requireClean(t, h)
	ref2, err := h.Alloc(1000)
	require.NoError(t, err)
	require.NotEqual(t, ref, ref2)
}
