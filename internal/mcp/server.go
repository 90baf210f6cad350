// Package mcp exposes the rc search and verify engine over the Model
// Context Protocol, so agent tooling can query parsed init files
// without shelling out to the CLI.
package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/intel/initsearchtool/internal/initrc"
	"github.com/intel/initsearchtool/internal/verify"
)

// Config holds MCP server configuration.
type Config struct {
	// Files are the rc inputs loaded and parsed at startup.
	Files []string
	// AssertPaths are assert spec files available to the verify tool.
	AssertPaths []string
	// WhitelistPath is the whitelist applied by the verify tool.
	WhitelistPath string
}

// Server wraps the MCP SDK server around a set of parsed rc files.
// The parsed model is immutable, so handlers need no locking.
type Server struct {
	mcpServer *mcpsdk.Server
	files     []verify.ParsedFile
	cases     []verify.AssertCase
	whitelist *verify.Whitelist
}

// New loads and parses every input, loads the verify configuration,
// and registers the tools.
func New(cfg Config) (*Server, error) {
	s := &Server{}

	for _, path := range cfg.Files {
		f, err := initrc.ReadSourceFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		sections, err := initrc.Parse(f)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		s.files = append(s.files, verify.ParsedFile{File: f, Sections: sections})
	}
	if len(s.files) == 0 {
		return nil, fmt.Errorf("no input files configured")
	}

	for _, path := range cfg.AssertPaths {
		cases, err := verify.LoadCases(path)
		if err != nil {
			return nil, fmt.Errorf("load assert spec: %w", err)
		}
		s.cases = append(s.cases, cases...)
	}

	wl, err := verify.LoadWhitelist(cfg.WhitelistPath)
	if err != nil {
		return nil, fmt.Errorf("load whitelist: %w", err)
	}
	s.whitelist = wl

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    "isearch",
			Version: "1.0.0",
		},
		nil,
	)

	s.registerTools()
	return s, nil
}

// Run starts the MCP server on stdio transport. Blocks until ctx is
// cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

// registerTools adds all isearch tools to the MCP server.
func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "isearch_search",
		Description: "Search the loaded init.rc files for sections matching keyword patterns, args patterns, and boolean flags.",
	}, s.handleSearch)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "isearch_verify",
		Description: "Run the configured assert cases against the loaded init.rc files and report unwhitelisted matches.",
	}, s.handleVerify)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "isearch_sections",
		Description: "List every parsed section of the loaded init.rc files, with header lines and body sizes.",
	}, s.handleSections)
}
