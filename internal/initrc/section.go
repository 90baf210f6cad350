package initrc

import (
	"os"
	"strings"
)

// Kind identifies which of the three section forms a block is.
type Kind string

const (
	KindOn      Kind = "on"
	KindService Kind = "service"
	KindImport  Kind = "import"
)

// ParseKind maps a user-supplied section name to a Kind.
// "trigger" is accepted as an alias for "on".
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "trigger":
		return KindOn, true
	case "service":
		return KindService, true
	case "import":
		return KindImport, true
	}
	return "", false
}

// Kinds returns all section kinds in declaration order.
func Kinds() []Kind {
	return []Kind{KindOn, KindService, KindImport}
}

// SourceFile is one init.rc input: a path and its raw lines.
// Immutable once constructed; line numbers are 1-based.
type SourceFile struct {
	Path  string
	Lines []string
}

// NewSourceFile builds a SourceFile from raw text already in memory.
// Carriage returns are stripped so CRLF input behaves like LF.
func NewSourceFile(path, text string) *SourceFile {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, "\r")
	}
	return &SourceFile{Path: path, Lines: lines}
}

// ReadSourceFile loads a SourceFile from disk.
func ReadSourceFile(path string) (*SourceFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return NewSourceFile(path, string(data)), nil
}

// Line returns the raw text of the 1-based line n, or "" when out of range.
func (f *SourceFile) Line(n int) string {
	if n < 1 || n > len(f.Lines) {
		return ""
	}
	return f.Lines[n-1]
}

// KeywordLine is one directive recorded under a section.
// Line == 0 means the entry was injected from the defaults table and has
// no physical location in the file.
type KeywordLine struct {
	Name  string
	Value string
	Line  int
}

// Injected reports whether this entry came from the defaults table.
func (k KeywordLine) Injected() bool {
	return k.Line == 0
}

// Section is one parsed on/service/import block.
// Keywords preserves source order; injected defaults follow the physical
// lines in vocabulary-table order.
type Section struct {
	Kind       Kind
	Args       string
	HeaderLine int
	Keywords   []KeywordLine
	File       *SourceFile
}

// Path returns the path of the file this section came from.
func (s *Section) Path() string {
	if s.File == nil {
		return ""
	}
	return s.File.Path
}

// Lines returns every keyword entry named name, in recorded order.
func (s *Section) Lines(name string) []KeywordLine {
	var out []KeywordLine
	for _, k := range s.Keywords {
		if k.Name == name {
			out = append(out, k)
		}
	}
	return out
}

// Present reports whether at least one entry named name exists,
// physical or injected. For boolean keywords this is the truth value.
func (s *Section) Present(name string) bool {
	for _, k := range s.Keywords {
		if k.Name == name {
			return true
		}
	}
	return false
}
