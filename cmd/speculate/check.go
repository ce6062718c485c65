package main

import (
	"fmt"
	"io"
	"runtime"

	"github.com/chazu/speculate/internal/ui"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var checkJobs int

var checkCmd = &cobra.Command{
	Use:   "check <file>...",
	Short: "Parse spec files and report the first error in each",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunCheck(cmd.OutOrStdout(), checkJobs, args)
	},
}

func init() {
	checkCmd.Flags().IntVarP(&checkJobs, "jobs", "j", runtime.NumCPU(), "files processed concurrently")
	rootCmd.AddCommand(checkCmd)
}

func RunCheck(w io.Writer, jobs int, paths []string) error {
	errs := make([]error, len(paths))
	g := new(errgroup.Group)
	g.SetLimit(max(jobs, 1))
	for i, path := range paths {
		g.Go(func() error {
			// Keep going so every file gets reported.
			_, errs[i] = load(path)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for i, path := range paths {
		if errs[i] != nil {
			ui.ErrorLine(w, errs[i])
			failed++
			continue
		}
		ui.OkLine(w, path)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed to parse", failed, len(paths))
	}
	return nil
}
