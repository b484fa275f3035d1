package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var dumpFreeOnly bool

func init() {
	cmd := newDumpCmd()
	cmd.Flags().BoolVar(&dumpFreeOnly, "free", false, "Show only free blocks")
	rootCmd.AddCommand(cmd)
}

func newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump <image>",
		Short: "List the blocks of a heap image",
		Long: `The dump command walks a heap image in address order and prints one
line per block: offset, total size, payload size, and state.

Example:
  memctl dump image.mem
  memctl dump image.mem --free
  memctl dump image.mem --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(args)
		},
	}
	return cmd
}

// Block state styles. Free blocks render green, allocated blocks unstyled.
var (
	freeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	headerStyle = lipgloss.NewStyle().Bold(true)
)

type dumpBlock struct {
	Ref         int    `json:"ref"`
	Size        int    `json:"size"`
	PayloadSize int    `json:"payload_size"`
	State       string `json:"state"`
}

func runDump(args []string) error {
	imagePath := args[0]

	f, h, err := openImage(imagePath)
	if err != nil {
		return err
	}
	defer f.Close()

	var blocks []dumpBlock
	it := h.Blocks()
	for {
		blk, walkErr := it.Next()
		if walkErr == io.EOF {
			break
		}
		if walkErr != nil {
			return fmt.Errorf("%s: %w", imagePath, walkErr)
		}
		if dumpFreeOnly && blk.Allocated {
			continue
		}
		state := "free"
		if blk.Allocated {
			state = "allocated"
		}
		blocks = append(blocks, dumpBlock{
			Ref:         blk.Ref,
			Size:        blk.Size,
			PayloadSize: blk.PayloadSize(),
			State:       state,
		})
	}

	if jsonOut {
		return printJSON(map[string]interface{}{
			"file":   imagePath,
			"size":   h.Size(),
			"blocks": blocks,
		})
	}

	printInfo("\nHeap image: %s (%s, %d blocks)\n\n", imagePath, formatBytes(int64(h.Size())), len(blocks))
	printInfo("%s\n", styled(headerStyle, fmt.Sprintf("%-12s %10s %10s  %s", "OFFSET", "SIZE", "PAYLOAD", "STATE")))
	for _, blk := range blocks {
		line := fmt.Sprintf("%#-12x %10d %10d  %s", blk.Ref, blk.Size, blk.PayloadSize, blk.State)
		if blk.State == "free" {
			line = styled(freeStyle, line)
		}
		printInfo("%s\n", line)
	}
	return nil
}

// styled applies a lipgloss style unless --no-color is set.
func styled(s lipgloss.Style, text string) string {
	if noColor {
		return text
	}
	return s.Render(text)
}
