// Package render turns parsed sections, search matches, and verify
// reports into text or JSON. It consumes core types and never decides
// policy itself.
package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/intel/initsearchtool/internal/initrc"
	"github.com/intel/initsearchtool/internal/predicate"
	"github.com/intel/initsearchtool/internal/verify"
)

// Options control section rendering.
type Options struct {
	LineNumbers bool // prefix body lines with their physical line
	Tidy        bool // restrict body lines to the ones that matched
}

// Sections renders a full parsed file: every section with its body,
// one file header per call.
func Sections(path string, sections []*initrc.Section, opts Options) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:\n", path)
	for _, sec := range sections {
		writeSection(&b, sec, nil, opts)
	}
	return b.String()
}

// Matches renders search results for one file. In tidy mode only the
// contributing lines appear under each header.
func Matches(path string, matches []*predicate.Match, opts Options) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:\n", path)
	for _, m := range matches {
		if opts.Tidy {
			writeSection(&b, m.Section, m.Lines, opts)
		} else {
			writeSection(&b, m.Section, nil, opts)
		}
	}
	return b.String()
}

// writeSection prints one section header and body. A non-nil only set
// restricts body lines to those physical lines (plus injected defaults
// when line 0 is in the set).
func writeSection(b *strings.Builder, sec *initrc.Section, only []int, opts Options) {
	keep := map[int]bool{}
	for _, n := range only {
		keep[n] = true
	}

	fmt.Fprintf(b, "%d:\t%s %s\n", sec.HeaderLine, sec.Kind, sec.Args)
	for _, k := range sec.Keywords {
		if only != nil && !keep[k.Line] {
			continue
		}
		if k.Injected() && only == nil {
			// Defaults only surface in match output, where line 0
			// marks them explicitly.
			continue
		}
		b.WriteString("\t\t")
		if opts.LineNumbers || only != nil {
			if k.Injected() {
				b.WriteString("-:\t")
			} else {
				fmt.Fprintf(b, "%d:\t", k.Line)
			}
		}
		b.WriteString(bodyText(sec.Kind, k))
		b.WriteString("\n")
	}
}

// bodyText reconstructs the printable form of one keyword entry.
// Trigger commands are already whole lines; service entries rejoin
// name and operand; bare booleans stay bare.
func bodyText(kind initrc.Kind, k initrc.KeywordLine) string {
	if kind == initrc.KindOn {
		return k.Value
	}
	if k.Value == "" {
		return k.Name
	}
	return k.Name + " " + k.Value
}

// Count renders the match total for search --count.
func Count(n int) string {
	return fmt.Sprintf("%d\n", n)
}

// MatchesJSON renders matches across files as JSON.
func MatchesJSON(byFile map[string][]*predicate.Match, order []string) (string, error) {
	type jsonMatch struct {
		File    string `json:"file"`
		Kind    string `json:"kind"`
		Args    string `json:"args"`
		Section int    `json:"section"`
		Lines   []int  `json:"lines"`
	}
	var out []jsonMatch
	for _, path := range order {
		for _, m := range byFile[path] {
			out = append(out, jsonMatch{
				File:    path,
				Kind:    string(m.Section.Kind),
				Args:    m.Section.Args,
				Section: m.Section.HeaderLine,
				Lines:   m.Lines,
			})
		}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal matches: %w", err)
	}
	return string(data), nil
}

// Report renders a verify report as human-readable text: one PASS or
// FAIL line per case, failure locations indented, and a summary.
func Report(r *verify.Report) string {
	var b strings.Builder

	for _, c := range r.Cases {
		if len(c.Failures) == 0 {
			fmt.Fprintf(&b, "  PASS  %s (%d matched, %d whitelisted)\n", c.Name, c.Matches, c.Suppressed)
			continue
		}
		fmt.Fprintf(&b, "  FAIL  %s (%d matched, %d whitelisted)\n", c.Name, c.Matches, c.Suppressed)
		if c.Description != "" {
			fmt.Fprintf(&b, "        %s\n", c.Description)
		}
		for _, f := range c.Failures {
			fmt.Fprintf(&b, "    %s:%d lines %s\n", f.File, f.Section, joinLines(f.Lines))
		}
	}

	if r.Failures == 0 {
		fmt.Fprintf(&b, "\n%d cases passed, %d matches whitelisted.\n", len(r.Cases), r.Total-r.Failures)
	} else {
		fmt.Fprintf(&b, "\n%d failures across %d cases.\n", r.Failures, len(r.Cases))
	}
	return b.String()
}

// ReportJSON renders a verify report as JSON.
func ReportJSON(r *verify.Report) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	return string(data), nil
}

func joinLines(lines []int) string {
	parts := make([]string, 0, len(lines))
	for _, n := range lines {
		if n == 0 {
			parts = append(parts, "default")
			continue
		}
		parts = append(parts, fmt.Sprintf("%d", n))
	}
	return strings.Join(parts, ",")
}
