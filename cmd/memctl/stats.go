package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newStatsCmd())
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats <image>",
		Short: "Show heap image statistics",
		Long: `The stats command walks a heap image and summarizes its block
population: counts and byte totals by state, the largest free block, and the
external fragmentation of the free space.

Example:
  memctl stats image.mem
  memctl stats image.mem --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(args)
		},
	}
	return cmd
}

type imageStats struct {
	FilePath string `json:"file"`
	HeapSize int    `json:"heap_size"`

	Blocks          int `json:"blocks"`
	AllocatedBlocks int `json:"allocated_blocks"`
	FreeBlocks      int `json:"free_blocks"`

	AllocatedBytes int64 `json:"allocated_bytes"`
	FreeBytes      int64 `json:"free_bytes"`
	LargestFree    int   `json:"largest_free"`

	// Fragmentation is 1 - largest_free/free_bytes: 0 when all free space is
	// one block, approaching 1 as it shatters.
	Fragmentation float64 `json:"fragmentation"`
}

func runStats(args []string) error {
	imagePath := args[0]

	f, h, err := openImage(imagePath)
	if err != nil {
		return err
	}
	defer f.Close()

	stats := imageStats{FilePath: imagePath, HeapSize: h.Size()}

	it := h.Blocks()
	for {
		blk, walkErr := it.Next()
		if walkErr == io.EOF {
			break
		}
		if walkErr != nil {
			return fmt.Errorf("%s: %w", imagePath, walkErr)
		}
		stats.Blocks++
		if blk.Allocated {
			stats.AllocatedBlocks++
			stats.AllocatedBytes += int64(blk.Size)
		} else {
			stats.FreeBlocks++
			stats.FreeBytes += int64(blk.Size)
			if blk.Size > stats.LargestFree {
				stats.LargestFree = blk.Size
			}
		}
	}
	if stats.FreeBytes > 0 {
		stats.Fragmentation = 1 - float64(stats.LargestFree)/float64(stats.FreeBytes)
	}

	if jsonOut {
		return printJSON(stats)
	}

	printInfo("\nHeap Statistics: %s\n\n", imagePath)
	printInfo("Region:\n")
	printInfo("  Size: %s (%d bytes)\n\n", formatBytes(int64(stats.HeapSize)), stats.HeapSize)
	printInfo("Blocks:\n")
	printInfo("  Total: %d\n", stats.Blocks)
	printInfo("  Allocated: %d (%s)\n", stats.AllocatedBlocks, formatBytes(stats.AllocatedBytes))
	printInfo("  Free: %d (%s)\n\n", stats.FreeBlocks, formatBytes(stats.FreeBytes))
	printInfo("Free space:\n")
	printInfo("  Largest block: %s\n", formatBytes(int64(stats.LargestFree)))
	printInfo("  Fragmentation: %.1f%%\n", stats.Fragmentation*100)
	return nil
}
