//go:build !unix

package arena

import "os"

// File is a file-backed Source for platforms without mmap support in this
// package. The region lives in memory and is written back on Sync and Close.
type File struct {
	f      *os.File
	data   []byte
	closed bool
}

// OpenFile opens (or creates) the file at path as a growable region. Existing
// contents are read into memory.
func OpenFile(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, err
	}

	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	fl := &File{f: f}
	if st.Size() > 0 {
		fl.data = make([]byte, st.Size())
		if _, readErr := f.ReadAt(fl.data, 0); readErr != nil {
			_ = f.Close()
			return nil, readErr
		}
	}
	return fl, nil
}

// Bytes returns the current region contents.
func (fl *File) Bytes() []byte {
	return fl.data
}

// Size returns the current region size in bytes.
func (fl *File) Size() int {
	return len(fl.data)
}

// Extend grows the region by n zeroed bytes and returns the offset of the new
// bytes. The file itself grows on the next Sync or Close.
func (fl *File) Extend(n int) (int, error) {
	if fl.closed {
		return 0, ErrClosed
	}
	if n <= 0 {
		return 0, ErrBadSize
	}
	old := len(fl.data)
	fl.data = append(fl.data, make([]byte, n)...)
	return old, nil
}

// Sync writes the region back to the file.
func (fl *File) Sync() error {
	if fl.closed {
		return ErrClosed
	}
	if _, err := fl.f.WriteAt(fl.data, 0); err != nil {
		return err
	}
	return fl.f.Sync()
}

// Close writes the region back and closes the file. Safe to call once.
func (fl *File) Close() error {
	if fl.closed {
		return nil
	}
	fl.closed = true
	if _, err := fl.f.WriteAt(fl.data, 0); err != nil {
		_ = fl.f.Close()
		return err
	}
	return fl.f.Close()
}
