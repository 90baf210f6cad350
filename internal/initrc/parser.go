package initrc

import "strings"

// sectionKinds maps the header keyword to its Kind.
var sectionKinds = map[string]Kind{
	"on":      KindOn,
	"service": KindService,
	"import":  KindImport,
}

// Parse converts a SourceFile into its sections.
//
// Non-indented lines must open a section; indented lines attach to the
// current one. Blank lines, comments, and {{ template lines are skipped
// but still counted, so line numbers always address the physical file.
// Trailing-backslash continuations fold into one statement recorded at
// its final physical line.
//
// The returned sections are complete: service sections already carry
// their injected defaults. Callers must not mutate them.
func Parse(file *SourceFile) ([]*Section, error) {
	var (
		sections []*Section
		current  *Section
		folded   []string
		foldTop  bool // indentation of the first folded fragment
	)

	flush := func() {
		if current != nil {
			injectDefaults(current)
			sections = append(sections, current)
			current = nil
		}
	}

	handle := func(stmt string, indented bool, lineno int) error {
		if !indented {
			fields := strings.Fields(stmt)
			keyword := fields[0]
			kind, ok := sectionKinds[keyword]
			if !ok {
				return &UnknownSectionError{File: file.Path, Line: lineno, Keyword: keyword}
			}
			flush()
			args := strings.TrimSpace(stmt[len(keyword):])
			current = &Section{Kind: kind, Args: args, HeaderLine: lineno, File: file}
			return nil
		}

		if current == nil {
			return &GrammarError{File: file.Path, Line: lineno, Msg: "keyword line outside any section"}
		}

		switch current.Kind {
		case KindImport:
			return &GrammarError{File: file.Path, Line: lineno, Msg: "import sections do not take keyword lines"}
		case KindOn:
			current.Keywords = append(current.Keywords, KeywordLine{Name: KeywordCommand, Value: stmt, Line: lineno})
		case KindService:
			name, value := splitKeywordLine(stmt)
			// Unknown names are recorded, not rejected: newer init
			// dialects add keywords faster than this table moves.
			current.Keywords = append(current.Keywords, KeywordLine{Name: name, Value: value, Line: lineno})
		}
		return nil
	}

	lastLine := 0
	for i, raw := range file.Lines {
		lineno := i + 1
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "{{") {
			continue
		}
		lastLine = lineno

		indented := raw[0] == ' ' || raw[0] == '\t'

		if strings.HasSuffix(trimmed, `\`) {
			frag := strings.TrimSpace(strings.TrimSuffix(trimmed, `\`))
			if len(folded) == 0 {
				foldTop = indented
			}
			if frag != "" {
				folded = append(folded, frag)
			}
			continue
		}

		stmt := trimmed
		if len(folded) > 0 {
			stmt = strings.Join(append(folded, trimmed), " ")
			indented = foldTop
			folded = nil
		}
		if err := handle(stmt, indented, lineno); err != nil {
			return nil, err
		}
	}

	// A dangling continuation at EOF still forms a statement.
	if len(folded) > 0 {
		stmt := strings.Join(folded, " ")
		if err := handle(stmt, foldTop, lastLine); err != nil {
			return nil, err
		}
	}

	flush()
	return sections, nil
}

// splitKeywordLine breaks a service body line into its keyword name and
// raw operand text. The operand keeps interior spacing and may be empty
// (boolean keywords usually stand alone).
func splitKeywordLine(stmt string) (name, value string) {
	if i := strings.IndexAny(stmt, " \t"); i >= 0 {
		return stmt[:i], strings.TrimSpace(stmt[i:])
	}
	return stmt, ""
}

// injectDefaults appends one entry per defaulted service keyword that has
// no physical line, with Line 0 marking the synthesized origin. Runs once,
// at section close; the model is immutable afterwards.
func injectDefaults(sec *Section) {
	if sec.Kind != KindService {
		return
	}
	present := make(map[string]bool, len(sec.Keywords))
	for _, k := range sec.Keywords {
		present[k.Name] = true
	}
	for _, spec := range serviceKeywords {
		if spec.Default == "" || present[spec.Name] {
			continue
		}
		sec.Keywords = append(sec.Keywords, KeywordLine{Name: spec.Name, Value: spec.Default})
	}
}
