package heap

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ftaube/memkit/arena"
)

// Scenario: growing a block preserves its prefix at the new location and
// frees the old region for reuse.
func Test_ReallocGrowPreservesContent(t *testing.T) {
	h, _ := newTestHeap(t, 65536)

	p, err := h.Alloc(100)
	require.NoError(t, err)
	buf, err := h.Payload(p)
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		buf[i] = byte(i)
	}

	np, err := h.Realloc(p, 300)
	require.NoError(t, err)
	require.NotEqual(t, NilRef, np)

	nbuf, err := h.Payload(np)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(nbuf), 300)
	for i := 0; i < 100; i++ {
		require.Equal(t, byte(i), nbuf[i], "prefix byte %d lost in realloc", i)
	}

	// The old ref is no longer live...
	_, err = h.Payload(p)
	require.ErrorIs(t, err, ErrBadRef)

	// ...and its region is reusable by a subsequent allocation.
	again, err := h.Alloc(100)
	require.NoError(t, err)
	require.Equal(t, p, again, "freed region should be reused")
	requireClean(t, h)
}

func Test_ReallocShrinkTruncatesContent(t *testing.T) {
	h, _ := newTestHeap(t, 4096)

	p, err := h.Alloc(200)
	require.NoError(t, err)
	buf, err := h.Payload(p)
	require.NoError(t, err)
	for i := range buf {
		buf[i] = 0x5A
	}

	np, err := h.Realloc(p, 40)
	require.NoError(t, err)
	nbuf, err := h.Payload(np)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(nbuf), 40)
	for i := 0; i < 40; i++ {
		require.Equal(t, byte(0x5A), nbuf[i])
	}
	requireClean(t, h)
}

func Test_ReallocZeroFrees(t *testing.T) {
	h, _ := newTestHeap(t, 4096)

	p, err := h.Alloc(64)
	require.NoError(t, err)
	np, err := h.Realloc(p, 0)
	require.NoError(t, err)
	require.Equal(t, NilRef, np)

	_, err = h.Payload(p)
	require.ErrorIs(t, err, ErrBadRef)
	requireClean(t, h)
}

func Test_ReallocRejectsBadRef(t *testing.T) {
	h, _ := newTestHeap(t, 4096)
	_, err := h.Realloc(NilRef, 100)
	require.ErrorIs(t, err, ErrBadRef)
}

// On internal allocation failure the original block must stay live and
// untouched, and the error must surface to the caller.
func Test_ReallocFailureLeavesOriginalLive(t *testing.T) {
	src := arena.NewBoundedBuffer(32 + 4096)
	h, err := New(src, &Config{ChunkSize: 4096})
	require.NoError(t, err)

	p, err := h.Alloc(64)
	require.NoError(t, err)
	buf, err := h.Payload(p)
	require.NoError(t, err)
	copy(buf, []byte("survivor"))

	_, err = h.Realloc(p, 100000)
	require.ErrorIs(t, err, ErrGrowFail)

	got, err := h.Payload(p)
	require.NoError(t, err)
	require.Equal(t, []byte("survivor"), got[:8])
	requireClean(t, h)
}
