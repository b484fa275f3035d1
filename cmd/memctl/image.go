package main

import (
	"fmt"
	"os"

	"github.com/ftaube/memkit/arena"
	"github.com/ftaube/memkit/heap"
)

// openImage maps an existing heap image file and adopts it read-mostly.
func openImage(path string) (*arena.File, *heap.Heap, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, nil, fmt.Errorf("failed to stat heap image: %w", err)
	}
	f, err := arena.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open heap image: %w", err)
	}
	h, err := heap.Open(f, nil)
	if err != nil {
		_ = f.Close()
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, h, nil
}
