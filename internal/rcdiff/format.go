package rcdiff

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FormatText renders the diff result as human-readable text.
func FormatText(r *Result) string {
	if !r.HasChanges {
		return fmt.Sprintf("rc diff: %s vs %s\n\nNo changes detected.\n", r.OldPath, r.NewPath)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "rc diff: %s vs %s\n", r.OldPath, r.NewPath)

	if len(r.Sections) > 0 {
		b.WriteString("\n  Sections:\n")
		for _, s := range r.Sections {
			switch s.Type {
			case "added":
				fmt.Fprintf(&b, "    + %s %s (line %d)\n", s.Kind, s.Args, s.Line)
			case "removed":
				fmt.Fprintf(&b, "    - %s %s (line %d)\n", s.Kind, s.Args, s.Line)
			}
		}
	}

	if len(r.Lines) > 0 {
		b.WriteString("\n  Lines:\n")
		for _, l := range r.Lines {
			switch l.Type {
			case "added":
				fmt.Fprintf(&b, "    + [%s] %s\n", l.Section, l.Text)
			case "removed":
				fmt.Fprintf(&b, "    - [%s] %s\n", l.Section, l.Text)
			}
		}
	}

	return b.String()
}

// FormatJSON renders the diff result as JSON.
func FormatJSON(r *Result) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal diff result: %w", err)
	}
	return string(data), nil
}
