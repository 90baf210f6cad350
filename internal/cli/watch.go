package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/intel/initsearchtool/internal/render"
	"github.com/intel/initsearchtool/internal/verify"
	"github.com/intel/initsearchtool/internal/watch"
)

var (
	watchAsserts   []string
	watchWhitelist string
)

func init() {
	rootCmd.AddCommand(watchCmd)
	f := watchCmd.Flags()
	f.StringArrayVarP(&watchAsserts, "assert", "a", nil, "Assert spec YAML file (repeatable)")
	f.StringVarP(&watchWhitelist, "whitelist", "w", "", "Whitelist YAML of accepted match identities")
	_ = watchCmd.MarkFlagRequired("assert")
}

var watchCmd = &cobra.Command{
	Use:   "watch FILE...",
	Short: "Re-verify whenever an input, assert spec, or whitelist changes",
	Long: "Runs verify once, then blocks watching every input file, assert spec,\n" +
		"and the whitelist. Any change triggers one debounced re-run. The exit\n" +
		"status reflects the most recent run when interrupted.",
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	rerun := func() bool {
		fmt.Printf("--- %s\n", time.Now().UTC().Format("2006-01-02T15:04:05Z"))
		ok, err := watchPass(args)
		if err != nil {
			fmt.Fprintf(os.Stderr, "isearch: %v\n", err)
			return false
		}
		return ok
	}

	lastOK := rerun()

	watched := append([]string{}, args...)
	watched = append(watched, watchAsserts...)
	if watchWhitelist != "" {
		watched = append(watched, watchWhitelist)
	}

	w, err := watch.New(watched, func() {
		lastOK = rerun()
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := w.Run(ctx); err != nil {
		return err
	}
	if !lastOK {
		os.Exit(1)
	}
	return nil
}

// watchPass reloads everything and runs one verify pass. Asserts and
// whitelist reload each time so edits to them take effect too.
func watchPass(inputs []string) (bool, error) {
	var cases []verify.AssertCase
	for _, path := range watchAsserts {
		loaded, err := verify.LoadCases(path)
		if err != nil {
			return false, err
		}
		cases = append(cases, loaded...)
	}

	files, err := loadFiles(inputs)
	if err != nil {
		return false, err
	}

	wl, err := verify.LoadWhitelist(watchWhitelist)
	if err != nil {
		return false, err
	}

	report, err := verify.Run(cases, files, wl)
	if err != nil {
		return false, err
	}
	fmt.Print(render.Report(report))
	return report.OK(), nil
}
