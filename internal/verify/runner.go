package verify

import (
	"fmt"

	"github.com/intel/initsearchtool/internal/initrc"
	"github.com/intel/initsearchtool/internal/predicate"
)

// ParsedFile pairs one source file with its sections. Built once by
// the caller; files keep their argv order through the whole run.
type ParsedFile struct {
	File     *initrc.SourceFile
	Sections []*initrc.Section
}

// Failure is one unwhitelisted match attributed to its case.
type Failure struct {
	Case        string           `json:"case"`
	Description string           `json:"description,omitempty"`
	File        string           `json:"file"`
	Section     int              `json:"section"`
	Lines       []int            `json:"lines"`
	Match       *predicate.Match `json:"-"`
}

// CaseResult is the outcome of one assert case over all files.
type CaseResult struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Matches     int       `json:"matches"`
	Suppressed  int       `json:"suppressed"`
	Failures    []Failure `json:"failures,omitempty"`
}

// Report is the outcome of a full verify run. Empty failures means
// the policy holds.
type Report struct {
	Cases    []CaseResult `json:"cases"`
	Total    int          `json:"total_matches"`
	Failures int          `json:"failures"`
}

// OK reports whether the run produced no failures.
func (r *Report) OK() bool {
	return r.Failures == 0
}

// Run evaluates every case against every file's sections and
// reconciles the matches with the whitelist. Match order is file
// order, then ascending header line within a file.
func Run(cases []AssertCase, files []ParsedFile, wl *Whitelist) (*Report, error) {
	if wl == nil {
		wl = NewWhitelist(nil)
	}
	report := &Report{}

	for _, c := range cases {
		q, err := c.Query()
		if err != nil {
			return nil, fmt.Errorf("case %q: %w", c.Name, err)
		}

		cr := CaseResult{Name: c.Name, Description: c.Description}
		for _, f := range files {
			for _, m := range q.EvaluateAll(f.Sections) {
				cr.Matches++
				if wl.Covered(m) {
					cr.Suppressed++
					continue
				}
				cr.Failures = append(cr.Failures, Failure{
					Case:        c.Name,
					Description: c.Description,
					File:        m.Section.Path(),
					Section:     m.Section.HeaderLine,
					Lines:       m.Lines,
					Match:       m,
				})
			}
		}

		report.Total += cr.Matches
		report.Failures += len(cr.Failures)
		report.Cases = append(report.Cases, cr)
	}
	return report, nil
}

// Generate runs every case with the whitelist ignored and returns the
// identity keys of ALL matches, for the operator to persist as the new
// whitelist. Re-running gen over unchanged input reproduces the same
// entries.
func Generate(cases []AssertCase, files []ParsedFile) ([]Entry, error) {
	seen := map[Entry]bool{}
	var out []Entry

	for _, c := range cases {
		q, err := c.Query()
		if err != nil {
			return nil, fmt.Errorf("case %q: %w", c.Name, err)
		}
		for _, f := range files {
			for _, m := range q.EvaluateAll(f.Sections) {
				for _, e := range MatchEntries(m) {
					if !seen[e] {
						seen[e] = true
						out = append(out, e)
					}
				}
			}
		}
	}
	return out, nil
}
