package mcp

import (
	"context"
	"errors"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/intel/initsearchtool/internal/initrc"
	"github.com/intel/initsearchtool/internal/predicate"
	"github.com/intel/initsearchtool/internal/verify"
)

// --- Input/Output types ---

// SearchInput defines parameters for the isearch_search tool.
type SearchInput struct {
	Section string            `json:"section" jsonschema:"section kind (on/service/import)"`
	Args    string            `json:"args,omitempty" jsonschema:"regex the section arguments must match"`
	NotArgs string            `json:"notargs,omitempty" jsonschema:"regex the section arguments must not match"`
	Match   map[string]string `json:"match,omitempty" jsonschema:"keyword name to required pattern"`
	Exclude map[string]string `json:"exclude,omitempty" jsonschema:"keyword name to forbidden pattern"`
	Flags   map[string]bool   `json:"flags,omitempty" jsonschema:"boolean keyword to required presence"`
	Strict  bool              `json:"strict,omitempty" jsonschema:"require patterns to cover whole values"`
}

// SearchMatch is one matched section.
type SearchMatch struct {
	File    string `json:"file"`
	Kind    string `json:"kind"`
	Args    string `json:"args"`
	Section int    `json:"section"`
	Lines   []int  `json:"lines"`
}

// SearchOutput contains search results or the query error.
type SearchOutput struct {
	Matches []SearchMatch `json:"matches"`
	Count   int           `json:"count"`
	Error   string        `json:"error,omitempty"`
}

// VerifyInput is empty: the server runs with the assert spec and
// whitelist it was started with.
type VerifyInput struct{}

// VerifyFailure is one unwhitelisted match.
type VerifyFailure struct {
	Case    string `json:"case"`
	File    string `json:"file"`
	Section int    `json:"section"`
	Lines   []int  `json:"lines"`
}

// VerifyOutput contains the verify outcome.
type VerifyOutput struct {
	OK       bool            `json:"ok"`
	Total    int             `json:"total_matches"`
	Failures []VerifyFailure `json:"failures,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// SectionsInput is empty.
type SectionsInput struct{}

// SectionInfo summarizes one parsed section.
type SectionInfo struct {
	File     string `json:"file"`
	Kind     string `json:"kind"`
	Args     string `json:"args"`
	Line     int    `json:"line"`
	Keywords int    `json:"keywords"`
}

// SectionsOutput lists every parsed section.
type SectionsOutput struct {
	Sections []SectionInfo `json:"sections"`
}

// --- Handlers ---

func (s *Server) handleSearch(ctx context.Context, req *mcpsdk.CallToolRequest, input SearchInput) (*mcpsdk.CallToolResult, SearchOutput, error) {
	q, err := buildQuery(input)
	if err != nil {
		var ce *predicate.ConfigError
		if errors.As(err, &ce) {
			return &mcpsdk.CallToolResult{IsError: true}, SearchOutput{Error: ce.Error()}, nil
		}
		return nil, SearchOutput{}, err
	}

	out := SearchOutput{Matches: []SearchMatch{}}
	for _, f := range s.files {
		for _, m := range q.EvaluateAll(f.Sections) {
			out.Matches = append(out.Matches, SearchMatch{
				File:    m.Section.Path(),
				Kind:    string(m.Section.Kind),
				Args:    m.Section.Args,
				Section: m.Section.HeaderLine,
				Lines:   m.Lines,
			})
		}
	}
	out.Count = len(out.Matches)
	return nil, out, nil
}

func buildQuery(input SearchInput) (*predicate.Query, error) {
	kind, ok := initrc.ParseKind(input.Section)
	if !ok {
		return nil, &predicate.ConfigError{Msg: "unknown section kind " + input.Section}
	}

	b := predicate.NewBuilder(kind, input.Strict, false)
	if input.Args != "" {
		b.Args(input.Args, predicate.Require)
	}
	if input.NotArgs != "" {
		b.Args(input.NotArgs, predicate.Reject)
	}
	for name, pat := range input.Match {
		b.Keyword(name, pat, predicate.Require)
	}
	for name, pat := range input.Exclude {
		b.Keyword(name, pat, predicate.Reject)
	}
	for name, want := range input.Flags {
		b.Flag(name, want)
	}
	return b.Build()
}

func (s *Server) handleVerify(ctx context.Context, req *mcpsdk.CallToolRequest, input VerifyInput) (*mcpsdk.CallToolResult, VerifyOutput, error) {
	if len(s.cases) == 0 {
		return &mcpsdk.CallToolResult{IsError: true}, VerifyOutput{Error: "no assert spec configured"}, nil
	}

	report, err := verify.Run(s.cases, s.files, s.whitelist)
	if err != nil {
		return &mcpsdk.CallToolResult{IsError: true}, VerifyOutput{Error: err.Error()}, nil
	}

	out := VerifyOutput{OK: report.OK(), Total: report.Total}
	for _, c := range report.Cases {
		for _, f := range c.Failures {
			out.Failures = append(out.Failures, VerifyFailure{
				Case:    f.Case,
				File:    f.File,
				Section: f.Section,
				Lines:   f.Lines,
			})
		}
	}
	return nil, out, nil
}

func (s *Server) handleSections(ctx context.Context, req *mcpsdk.CallToolRequest, input SectionsInput) (*mcpsdk.CallToolResult, SectionsOutput, error) {
	out := SectionsOutput{Sections: []SectionInfo{}}
	for _, f := range s.files {
		for _, sec := range f.Sections {
			out.Sections = append(out.Sections, SectionInfo{
				File:     sec.Path(),
				Kind:     string(sec.Kind),
				Args:     sec.Args,
				Line:     sec.HeaderLine,
				Keywords: len(sec.Keywords),
			})
		}
	}
	return nil, out, nil
}
