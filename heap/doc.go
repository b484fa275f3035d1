// Package heap implements a dynamic memory allocator over a single
// contiguous, growable byte region.
//
// # Overview
//
// The heap is an implicit list of blocks walked by size-stepping: every block
// carries a tagged-size header and an identical footer (boundary tags), so
// adjacent blocks can be inspected from either direction. There is no
// separate index: the block sequence itself is the data structure.
//
// Two permanently allocated sentinels bound the sequence: a zero-payload
// prologue block at the low end and a zero-size epilogue header at the high
// end. They eliminate edge conditions when coalescing looks past the first or
// last real block.
//
// # Placement policy
//
// Allocation uses next fit: a single rotating cursor remembers where the last
// placement happened and the search resumes there, approximating first fit's
// locality without repeatedly re-scanning exhausted low addresses. A failed
// scan resets the cursor to the first block and reports no fit. It does not
// wrap around within the same call; the caller extends the heap instead. The
// cursor also moves to the result of every coalesce, since a freshly merged
// block is a promising place to look next.
//
// # Splitting and coalescing
//
// Placement splits a free block when the remainder would itself be a legal
// block (at least layout.MinBlock bytes); otherwise the whole block is used.
// Freeing eagerly merges with free neighbors in both directions, so no two
// adjacent blocks are ever both free.
//
// # Usage
//
//	h, err := heap.New(arena.NewBuffer(), nil)
//	if err != nil {
//		return err
//	}
//	ref, err := h.Alloc(100)
//	if err != nil {
//		return err
//	}
//	buf, _ := h.Payload(ref)
//	copy(buf, payload)
//	// ...
//	err = h.Free(ref)
//
// Refs are byte offsets into the region and stay valid until freed; Payload
// slices are only valid until the next heap mutation.
//
// # Limitations
//
// A Heap is not goroutine-safe; callers must serialize access. Free and
// Realloc reject refs that are out of range, misaligned, or do not point at a
// live block, but a stale ref that happens to alias a live block is undefined
// behavior, as in the C allocators this design descends from.
package heap
