// Package rcdiff compares two parsed rc files structurally: sections
// added or removed, and keyword lines changed inside sections present
// on both sides.
package rcdiff

import (
	"fmt"

	"github.com/intel/initsearchtool/internal/initrc"
)

// SectionChange is a whole section added to or removed from the file.
type SectionChange struct {
	Type string `json:"type"` // "added", "removed"
	Kind string `json:"kind"`
	Args string `json:"args"`
	Line int    `json:"line"`
}

// LineChange is one keyword line that differs inside a section both
// sides share.
type LineChange struct {
	Type    string `json:"type"` // "added", "removed"
	Section string `json:"section"`
	Text    string `json:"text"`
	Line    int    `json:"line,omitempty"`
}

// Result holds the comparison of two parsed files.
type Result struct {
	OldPath    string          `json:"old_path"`
	NewPath    string          `json:"new_path"`
	Sections   []SectionChange `json:"sections,omitempty"`
	Lines      []LineChange    `json:"lines,omitempty"`
	HasChanges bool            `json:"has_changes"`
}

// sectionKey identifies a section across the two files: kind plus
// args. Header line numbers shift too easily to be identity.
func sectionKey(s *initrc.Section) string {
	return string(s.Kind) + "|" + s.Args
}

func sectionLabel(s *initrc.Section) string {
	return fmt.Sprintf("%s %s", s.Kind, s.Args)
}

// Diff compares two parsed files.
func Diff(oldSections, newSections []*initrc.Section, oldPath, newPath string) *Result {
	r := &Result{OldPath: oldPath, NewPath: newPath}

	oldMap := make(map[string]*initrc.Section, len(oldSections))
	for _, s := range oldSections {
		oldMap[sectionKey(s)] = s
	}
	newMap := make(map[string]*initrc.Section, len(newSections))
	for _, s := range newSections {
		newMap[sectionKey(s)] = s
	}

	for _, s := range newSections {
		old, shared := oldMap[sectionKey(s)]
		if !shared {
			r.Sections = append(r.Sections, SectionChange{
				Type: "added", Kind: string(s.Kind), Args: s.Args, Line: s.HeaderLine,
			})
			continue
		}
		diffBodies(r, old, s)
	}
	for _, s := range oldSections {
		if _, shared := newMap[sectionKey(s)]; !shared {
			r.Sections = append(r.Sections, SectionChange{
				Type: "removed", Kind: string(s.Kind), Args: s.Args, Line: s.HeaderLine,
			})
		}
	}

	r.HasChanges = len(r.Sections) > 0 || len(r.Lines) > 0
	return r
}

// diffBodies compares the physical keyword lines of one shared
// section. Injected defaults are model artifacts, not file content,
// and stay out of the diff. Repeated identical lines count.
func diffBodies(r *Result, old, new *initrc.Section) {
	oldCount := bodyCounts(old)
	newCount := bodyCounts(new)

	for _, k := range new.Keywords {
		if k.Injected() {
			continue
		}
		text := bodyLineText(new.Kind, k)
		if oldCount[text] > 0 {
			oldCount[text]--
			continue
		}
		r.Lines = append(r.Lines, LineChange{
			Type: "added", Section: sectionLabel(new), Text: text, Line: k.Line,
		})
	}
	for _, k := range old.Keywords {
		if k.Injected() {
			continue
		}
		text := bodyLineText(old.Kind, k)
		if newCount[text] > 0 {
			newCount[text]--
			continue
		}
		r.Lines = append(r.Lines, LineChange{
			Type: "removed", Section: sectionLabel(old), Text: text, Line: k.Line,
		})
	}
}

func bodyCounts(s *initrc.Section) map[string]int {
	counts := make(map[string]int, len(s.Keywords))
	for _, k := range s.Keywords {
		if k.Injected() {
			continue
		}
		counts[bodyLineText(s.Kind, k)]++
	}
	return counts
}

func bodyLineText(kind initrc.Kind, k initrc.KeywordLine) string {
	if kind == initrc.KindOn || k.Value == "" {
		if kind == initrc.KindOn {
			return k.Value
		}
		return k.Name
	}
	return k.Name + " " + k.Value
}
