package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ftaube/memkit/arena"
	"github.com/ftaube/memkit/heap"
	"github.com/ftaube/memkit/trace"
)

var (
	replayHeapPath string
	replayChunk    int
	replayCheck    bool
	replayVerify   bool
)

func init() {
	cmd := newReplayCmd()
	cmd.Flags().StringVar(&replayHeapPath, "heap", "", "Persist the heap image to this file (default: in-memory)")
	cmd.Flags().IntVar(&replayChunk, "chunk", 0, "Minimum heap extension in bytes (default: 64 KiB)")
	cmd.Flags().BoolVar(&replayCheck, "check", false, "Run the consistency checker after every operation")
	cmd.Flags().BoolVar(&replayVerify, "verify", true, "Stamp and verify payload contents during the replay")
	rootCmd.AddCommand(cmd)
}

func newReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <trace>",
		Short: "Replay an allocation trace",
		Long: `The replay command parses an allocation trace script and replays it
against a fresh heap, reporting operation counts and space utilization.

With --heap the heap is built in a file, which can then be inspected with
the check, dump, and stats commands.

Example:
  memctl replay workload.rep
  memctl replay workload.rep --heap image.mem --check
  memctl replay workload.rep --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(args)
		},
	}
	return cmd
}

func runReplay(args []string) error {
	tracePath := args[0]

	printVerbose("Parsing trace: %s\n", tracePath)
	tr, err := trace.ParseFile(tracePath)
	if err != nil {
		return err
	}
	printVerbose("Parsed %d operations over %d ids\n", len(tr.Ops), tr.IDCount)

	var src arena.Source
	if replayHeapPath != "" {
		f, openErr := arena.OpenFile(replayHeapPath)
		if openErr != nil {
			return fmt.Errorf("failed to open heap file: %w", openErr)
		}
		defer f.Close()
		src = f
	} else {
		src = arena.NewBuffer()
	}

	h, err := heap.New(src, &heap.Config{ChunkSize: replayChunk})
	if err != nil {
		return fmt.Errorf("failed to create heap: %w", err)
	}

	log := zap.NewNop()
	if verbose && !quiet {
		log, err = zap.NewDevelopment()
		if err != nil {
			return err
		}
		defer log.Sync()
	}

	runner := &trace.Runner{
		Heap:      h,
		Log:       log,
		CheckEach: replayCheck,
		Verify:    replayVerify,
	}
	res, err := runner.Run(tr)
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(map[string]interface{}{
			"trace":       tracePath,
			"ops":         res.Ops,
			"max_live":    res.MaxLive,
			"heap_size":   res.HeapSize,
			"utilization": res.Utilization,
			"stats":       h.Stats(),
		})
	}

	s := h.Stats()
	printInfo("\nReplay: %s\n\n", tracePath)
	printInfo("Operations:\n")
	printInfo("  Total: %d (alloc %d, free %d, resize %d)\n",
		res.Ops, s.AllocCalls, s.FreeCalls, s.ReallocCalls)
	printInfo("  Extensions: %d (%s added)\n", s.ExtendCalls, formatBytes(s.ExtendBytes))
	printInfo("  Splits: %d, coalesces: %d\n",
		s.SplitCount, s.CoalesceForward+s.CoalesceBackward+s.CoalesceBoth)
	printInfo("\nSpace:\n")
	printInfo("  Peak live: %s\n", formatBytes(res.MaxLive))
	printInfo("  Heap size: %s\n", formatBytes(int64(res.HeapSize)))
	printInfo("  Utilization: %.1f%%\n", res.Utilization*100)
	if replayHeapPath != "" {
		printInfo("\nHeap image written to %s\n", replayHeapPath)
	}
	return nil
}

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
