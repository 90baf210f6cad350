package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/intel/initsearchtool/internal/history"
)

var (
	historyDB    string
	historyLimit int
)

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().StringVar(&historyDB, "db", "", "History database path (default ~/.isearch/history.db)")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of runs to list")
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded verify runs",
	RunE:  runHistory,
}

// defaultHistoryPath resolves the database location used when --db is
// not supplied, matching the path verify --history defaults to.
func defaultHistoryPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".isearch", "history.db"), nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	path := historyDB
	if path == "" {
		var err error
		path, err = defaultHistoryPath()
		if err != nil {
			return err
		}
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Println("No recorded runs.")
		return nil
	}

	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.List(historyLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No recorded runs.")
		return nil
	}

	for _, r := range runs {
		status := "ok"
		if !r.OK {
			status = fmt.Sprintf("FAIL (%d)", r.Failures)
		}
		fmt.Printf("%-16s %s  %-9s %s\n", r.ID, r.StartedAt, status, strings.Join(r.Files, " "))
	}
	return nil
}
