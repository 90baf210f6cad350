package verify

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/intel/initsearchtool/internal/predicate"
)

// Entry is the canonical identity of one accepted match location:
// the file path as supplied, the section's header line, and the
// physical keyword line (0 for the header itself or for a hit that
// came from an injected default).
type Entry struct {
	File    string `yaml:"file"`
	Section int    `yaml:"section"`
	Line    int    `yaml:"line,omitempty"`
}

// Whitelist is the set of accepted match identities, read for verify
// runs and written by gen. Immutable once loaded.
type Whitelist struct {
	entries map[Entry]bool
}

// whitelistDoc is the on-disk shape of a whitelist file.
type whitelistDoc struct {
	Entries []Entry `yaml:"entries"`
}

// NewWhitelist builds a whitelist from explicit entries.
func NewWhitelist(entries []Entry) *Whitelist {
	w := &Whitelist{entries: make(map[Entry]bool, len(entries))}
	for _, e := range entries {
		w.entries[e] = true
	}
	return w
}

// LoadWhitelist reads a whitelist YAML file. A missing file is an
// empty whitelist, not an error: verify before the first gen run
// simply reports everything.
func LoadWhitelist(path string) (*Whitelist, error) {
	if path == "" {
		return NewWhitelist(nil), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewWhitelist(nil), nil
		}
		return nil, fmt.Errorf("read whitelist: %w", err)
	}

	var doc whitelistDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &SpecError{File: path, Msg: err.Error()}
	}
	for i, e := range doc.Entries {
		if e.File == "" || e.Section < 1 {
			return nil, &SpecError{File: path, Msg: fmt.Sprintf("entry %d: file and section are required", i+1)}
		}
	}
	return NewWhitelist(doc.Entries), nil
}

// Contains reports whether one identity is accepted.
func (w *Whitelist) Contains(e Entry) bool {
	return w.entries[e]
}

// Len returns the number of entries.
func (w *Whitelist) Len() int {
	return len(w.entries)
}

// MatchEntries computes every identity key one match contributes: the
// section-level key plus one key per contributing physical line. Line-0
// hits (injected defaults) fold into the section-level key.
func MatchEntries(m *predicate.Match) []Entry {
	file := m.Section.Path()
	header := m.Section.HeaderLine

	seen := map[Entry]bool{}
	out := []Entry{{File: file, Section: header}}
	seen[out[0]] = true

	for _, n := range m.Lines {
		if n == 0 || n == header {
			continue
		}
		e := Entry{File: file, Section: header, Line: n}
		if !seen[e] {
			seen[e] = true
			out = append(out, e)
		}
	}
	return out
}

// Covered reports whether every identity key of the match is present.
// A partially whitelisted match still fails: a new contributing line
// inside an accepted section is new information.
func (w *Whitelist) Covered(m *predicate.Match) bool {
	for _, e := range MatchEntries(m) {
		if !w.entries[e] {
			return false
		}
	}
	return true
}

// MarshalEntries renders entries as a whitelist document, sorted by
// file, then section, then line, so gen output is stable.
func MarshalEntries(entries []Entry) ([]byte, error) {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Section != b.Section {
			return a.Section < b.Section
		}
		return a.Line < b.Line
	})
	return yaml.Marshal(whitelistDoc{Entries: sorted})
}
