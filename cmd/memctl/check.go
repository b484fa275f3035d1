package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newCheckCmd())
}

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <image>",
		Short: "Audit a heap image for consistency",
		Long: `The check command walks every block of a heap image and validates the
boundary-tag invariants: sentinel shape, payload alignment, header/footer
agreement, and full coalescing. It exits non-zero if any violation is found.

Example:
  memctl check image.mem
  memctl check image.mem --verbose
  memctl check image.mem --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(args)
		},
	}
	return cmd
}

func runCheck(args []string) error {
	imagePath := args[0]

	f, h, err := openImage(imagePath)
	if err != nil {
		return err
	}
	defer f.Close()

	var dump io.Writer
	if verbose && !quiet {
		dump = os.Stdout
	}
	violations := h.Check(verbose && !quiet, dump)

	if jsonOut {
		findings := make([]map[string]interface{}, 0, len(violations))
		for _, v := range violations {
			findings = append(findings, map[string]interface{}{
				"ref":     v.Ref,
				"message": v.Msg,
			})
		}
		if err := printJSON(map[string]interface{}{
			"file":       imagePath,
			"size":       h.Size(),
			"valid":      len(violations) == 0,
			"violations": findings,
		}); err != nil {
			return err
		}
	} else {
		printInfo("\nChecking %s (%s)...\n\n", imagePath, formatBytes(int64(h.Size())))
		if len(violations) == 0 {
			printInfo("Result: ✓ CONSISTENT\n")
		} else {
			for _, v := range violations {
				printInfo("  ✗ %s\n", v)
			}
			printInfo("\nResult: ✗ INCONSISTENT (%d violations)\n", len(violations))
		}
	}

	if len(violations) > 0 {
		return fmt.Errorf("%s: %d consistency violations", imagePath, len(violations))
	}
	return nil
}
