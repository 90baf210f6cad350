package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/intel/initsearchtool/internal/render"
)

var printLineno bool

func init() {
	rootCmd.AddCommand(printCmd)
	printCmd.Flags().BoolVar(&printLineno, "lineno", false, "Prefix body lines with their physical line numbers")
}

var printCmd = &cobra.Command{
	Use:   "print FILE...",
	Short: "Dump the parsed model of one or more rc files",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPrint,
}

func runPrint(cmd *cobra.Command, args []string) error {
	files, err := loadFiles(args)
	if err != nil {
		return err
	}
	for _, f := range files {
		fmt.Print(render.Sections(f.File.Path, f.Sections, render.Options{LineNumbers: printLineno}))
	}
	return nil
}
