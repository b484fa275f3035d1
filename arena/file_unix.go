//go:build unix

package arena

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// File is a file-backed Source. The file is mapped read-write and shared, so
// heap mutations land in the page cache and Extend grows the file itself.
// Growing remaps the file, which may move the backing array; offsets remain
// valid throughout.
type File struct {
	f      *os.File
	data   []byte
	closed bool
}

// OpenFile opens (or creates) the file at path as a growable mapped region.
// An existing file is mapped as-is, so a previously written heap image can be
// reopened for inspection.
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
		data, mapErr := unix.Mmap(
			int(f.Fd()),
			0,
			int(st.Size()),
			unix.PROT_READ|unix.PROT_WRITE,
			unix.MAP_SHARED,
		)
		if mapErr != nil {
			_ = f.Close()
			return nil, fmt.Errorf("arena: mmap %s: %w", path, mapErr)
		}
		fl.data = data
	}
	return fl, nil
}

// Bytes returns the current mapped region.
func (fl *File) Bytes() []byte {
	return fl.data
}

// Size returns the current region size in bytes.
func (fl *File) Size() int {
	return len(fl.data)
}

// Extend grows the file by n bytes and remaps it. Returns the offset of the
// new bytes.
func (fl *File) Extend(n int) (int, error) {
	if fl.closed {
		return 0, ErrClosed
	}
	if n <= 0 {
		return 0, ErrBadSize
	}

	old := len(fl.data)
	newSize := old + n
	if err := fl.f.Truncate(int64(newSize)); err != nil {
		return 0, fmt.Errorf("arena: grow file: %w", err)
	}

	if fl.data != nil {
		if err := unix.Munmap(fl.data); err != nil {
			return 0, fmt.Errorf("arena: unmap: %w", err)
		}
		fl.data = nil
	}

	data, err := unix.Mmap(
		int(fl.f.Fd()),
		0,
		newSize,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_SHARED,
	)
	if err != nil {
		return 0, fmt.Errorf("arena: remap: %w", err)
	}
	fl.data = data
	return old, nil
}

// Sync flushes the mapped region to disk.
func (fl *File) Sync() error {
	if fl.closed {
		return ErrClosed
	}
	if fl.data == nil {
		return nil
	}
	return unix.Msync(fl.data, unix.MS_SYNC)
}

// Close flushes, unmaps, and closes the underlying file. Safe to call once.
func (fl *File) Close() error {
	if fl.closed {
		return nil
	}
	fl.closed = true

	var firstErr error
	if fl.data != nil {
		if err := unix.Msync(fl.data, unix.MS_SYNC); err != nil && firstErr == nil {
			firstErr = err
		}
		if err := unix.Munmap(fl.data); err != nil && firstErr == nil {
			firstErr = err
		}
		fl.data = nil
	}
	if err := unix.Fdatasync(int(fl.f.Fd())); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := fl.f.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
