package arena

// Buffer is an in-memory Source. The zero value is an empty, unbounded
// region; NewBoundedBuffer caps the total size so exhaustion can be exercised
// without consuming real memory.
type Buffer struct {
	data  []byte
	limit int
}

// NewBuffer returns an empty, unbounded in-memory source.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// NewBoundedBuffer returns an empty in-memory source that refuses to grow
// past limit bytes.
func NewBoundedBuffer(limit int) *Buffer {
	return &Buffer{limit: limit}
}

// Bytes returns the current region contents.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Size returns the current region size in bytes.
func (b *Buffer) Size() int {
	return len(b.data)
}

// Extend grows the region by n zeroed bytes and returns the offset of the new
// bytes. Growth past the configured limit returns ErrExhausted.
func (b *Buffer) Extend(n int) (int, error) {
	if n <= 0 {
		return 0, ErrBadSize
	}
	if b.limit > 0 && len(b.data)+n > b.limit {
		return 0, ErrExhausted
	}
	old := len(b.data)
	b.data = append(b.data, make([]byte, n)...)
	return old, nil
}
