package initrc

import "fmt"

// GrammarError reports a line that cannot be attributed to any open
// section: a body line before the first header, or a body line under an
// import section.
type GrammarError struct {
	File string
	Line int
	Msg  string
}

func (e *GrammarError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Msg)
}

// UnknownSectionError reports a header line whose keyword is outside the
// closed set {on, service, import}.
type UnknownSectionError struct {
	File    string
	Line    int
	Keyword string
}

func (e *UnknownSectionError) Error() string {
	return fmt.Sprintf("%s:%d: unknown section keyword %q", e.File, e.Line, e.Keyword)
}
