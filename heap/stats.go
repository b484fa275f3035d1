package heap

// Stats holds allocator counters for instrumentation and tests. Byte figures
// count whole blocks (payload plus boundary tags).
type Stats struct {
	AllocCalls   int // successful entries into Alloc with a positive size
	FreeCalls    int // successful Free calls
	ReallocCalls int // successful entries into Realloc

	ExtendCalls int   // times the region was grown
	ExtendBytes int64 // total bytes added by growth

	SplitCount       int // placements that split a free block
	CoalesceForward  int // merges with the next block only
	CoalesceBackward int // merges with the previous block only
	CoalesceBoth     int // merges with both neighbors

	BytesAllocated int64 // cumulative bytes placed
	BytesFreed     int64 // cumulative bytes freed
	LiveBytes      int64 // bytes currently placed
	PeakLiveBytes  int64 // high-water mark of LiveBytes

	HeapSize int // current region size, filled in by Stats()
}

// Stats returns a snapshot of the allocator's counters.
func (h *Heap) Stats() Stats {
	s := h.stats
	s.HeapSize = h.src.Size()
	return s
}
