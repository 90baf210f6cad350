package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/intel/initsearchtool/internal/history"
	"github.com/intel/initsearchtool/internal/render"
	"github.com/intel/initsearchtool/internal/verify"
)

var (
	verifyAsserts   []string
	verifyWhitelist string
	verifyGen       bool
	verifyOutput    string
	verifyFormat    string
	verifyHistory   string
)

func init() {
	rootCmd.AddCommand(verifyCmd)
	f := verifyCmd.Flags()
	f.StringArrayVarP(&verifyAsserts, "assert", "a", nil, "Assert spec YAML file (repeatable, cases concatenate)")
	f.StringVarP(&verifyWhitelist, "whitelist", "w", "", "Whitelist YAML of accepted match identities")
	f.BoolVar(&verifyGen, "gen", false, "Emit all matches as whitelist entries instead of verifying")
	f.StringVarP(&verifyOutput, "output", "o", "", "Write gen output to a file instead of stdout")
	f.StringVarP(&verifyFormat, "format", "f", "text", "Report format (text|json)")
	f.StringVar(&verifyHistory, "history", "", "Record the run in a SQLite history database at this path")
	_ = verifyCmd.MarkFlagRequired("assert")
}

var verifyCmd = &cobra.Command{
	Use:   "verify FILE...",
	Short: "Check rc files against declarative assert cases",
	Long: "Runs every assert case against every section of the given files and\n" +
		"reports matches not covered by the whitelist. Exit code 0 when the\n" +
		"policy holds, 1 when any failure survives.\n\n" +
		"With --gen the whitelist is ignored and ALL current matches are\n" +
		"emitted as whitelist entries for the operator to accept.",
	Args: cobra.MinimumNArgs(1),
	RunE: runVerify,
}

func runVerify(cmd *cobra.Command, args []string) error {
	var cases []verify.AssertCase
	for _, path := range verifyAsserts {
		loaded, err := verify.LoadCases(path)
		if err != nil {
			return err
		}
		cases = append(cases, loaded...)
	}

	files, err := loadFiles(args)
	if err != nil {
		return err
	}

	if verifyGen {
		return runGen(cases, files)
	}

	wl, err := verify.LoadWhitelist(verifyWhitelist)
	if err != nil {
		return err
	}

	report, err := verify.Run(cases, files, wl)
	if err != nil {
		return err
	}

	if verifyHistory != "" {
		if err := recordHistory(verifyHistory, args, report); err != nil {
			fmt.Fprintf(os.Stderr, "isearch: %v\n", err)
		}
	}

	switch verifyFormat {
	case "json":
		out, err := render.ReportJSON(report)
		if err != nil {
			return err
		}
		fmt.Println(out)
	default:
		fmt.Print(render.Report(report))
	}

	if !report.OK() {
		os.Exit(1)
	}
	return nil
}

func runGen(cases []verify.AssertCase, files []verify.ParsedFile) error {
	entries, err := verify.Generate(cases, files)
	if err != nil {
		return err
	}
	data, err := verify.MarshalEntries(entries)
	if err != nil {
		return err
	}
	if verifyOutput == "" {
		fmt.Print(string(data))
		return nil
	}
	if err := os.WriteFile(verifyOutput, data, 0644); err != nil {
		return fmt.Errorf("write whitelist: %w", err)
	}
	fmt.Fprintf(os.Stderr, "isearch: wrote %d entries to %s\n", len(entries), verifyOutput)
	return nil
}

func recordHistory(path string, files []string, report *verify.Report) error {
	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	id, err := store.Record(files, report)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "isearch: recorded run %s\n", id)
	return nil
}
