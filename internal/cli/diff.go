package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/intel/initsearchtool/internal/initrc"
	"github.com/intel/initsearchtool/internal/rcdiff"
)

var diffFormat string

func init() {
	rootCmd.AddCommand(diffCmd)
	diffCmd.Flags().StringVarP(&diffFormat, "format", "f", "text", "Output format (text|json)")
}

var diffCmd = &cobra.Command{
	Use:   "diff OLD NEW",
	Short: "Structurally compare two rc files",
	Long: "Parses both files and reports sections added or removed and keyword\n" +
		"lines changed inside sections present on both sides.",
	Args: cobra.ExactArgs(2),
	RunE: runDiff,
}

func runDiff(cmd *cobra.Command, args []string) error {
	oldPath, newPath := args[0], args[1]

	oldSections, err := parseOne(oldPath)
	if err != nil {
		return err
	}
	newSections, err := parseOne(newPath)
	if err != nil {
		return err
	}

	r := rcdiff.Diff(oldSections, newSections, oldPath, newPath)

	switch diffFormat {
	case "json":
		out, err := rcdiff.FormatJSON(r)
		if err != nil {
			return err
		}
		fmt.Println(out)
	default:
		fmt.Print(rcdiff.FormatText(r))
	}
	return nil
}

func parseOne(path string) ([]*initrc.Section, error) {
	f, err := initrc.ReadSourceFile(path)
	if err != nil {
		return nil, err
	}
	return initrc.Parse(f)
}
