package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/intel/initsearchtool/internal/mcp"
)

var (
	mcpAsserts   []string
	mcpWhitelist string
)

func init() {
	rootCmd.AddCommand(mcpCmd)
	f := mcpCmd.Flags()
	f.StringArrayVarP(&mcpAsserts, "assert", "a", nil, "Assert spec YAML available to the verify tool (repeatable)")
	f.StringVarP(&mcpWhitelist, "whitelist", "w", "", "Whitelist YAML applied by the verify tool")
}

var mcpCmd = &cobra.Command{
	Use:   "mcp FILE...",
	Short: "Serve the engine over MCP stdio",
	Long: "Parses the given rc files once and exposes isearch_search,\n" +
		"isearch_verify, and isearch_sections as MCP tools on stdio.",
	Args: cobra.MinimumNArgs(1),
	RunE: runMCP,
}

func runMCP(cmd *cobra.Command, args []string) error {
	s, err := mcp.New(mcp.Config{
		Files:         args,
		AssertPaths:   mcpAsserts,
		WhitelistPath: mcpWhitelist,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(os.Stderr, "isearch: MCP server on stdio, %d file(s) loaded\n", len(args))
	return s.Run(ctx)
}
