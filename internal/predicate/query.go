package predicate

import (
	"fmt"

	"github.com/intel/initsearchtool/internal/initrc"
)

// ConfigError reports a malformed query: a bad pattern, conflicting
// flag constraints, or a constraint that makes no sense for the
// keyword's value kind. Fatal to the whole invocation.
type ConfigError struct {
	Keyword string
	Msg     string
}

func (e *ConfigError) Error() string {
	if e.Keyword == "" {
		return "query: " + e.Msg
	}
	return fmt.Sprintf("query: %s: %s", e.Keyword, e.Msg)
}

// Polarity is the direction of a pattern predicate.
type Polarity int

const (
	// Require accepts a section only when at least one candidate
	// line matches.
	Require Polarity = iota
	// Reject refuses a section when any candidate line matches.
	Reject
)

// Predicate is one compiled pattern constraint on a keyword (or on
// the section args when Keyword == initrc.KeywordArgs).
type Predicate struct {
	Keyword  string
	Polarity Polarity
	Matcher  Matcher
}

// FlagPredicate constrains a boolean keyword: Want true requires at
// least one line of that name to be present, Want false requires none.
// Keywords without a FlagPredicate are unconstrained.
type FlagPredicate struct {
	Keyword string
	Want    bool
}

// Query is a full compiled search: a section kind plus every supplied
// constraint. All constraints are ANDed.
type Query struct {
	Kind     initrc.Kind
	Strict   bool
	Tidy     bool
	Args     *Predicate
	Keywords []Predicate
	Flags    []FlagPredicate
}

// Builder accumulates constraints and compiles them into a Query,
// rejecting conflicts as they are added. One builder per invocation.
type Builder struct {
	query Query
	flags map[string]bool // keyword -> Want already recorded
	err   error
}

// NewBuilder starts a query for one section kind.
func NewBuilder(kind initrc.Kind, strict, tidy bool) *Builder {
	return &Builder{
		query: Query{Kind: kind, Strict: strict, Tidy: tidy},
		flags: make(map[string]bool),
	}
}

// Args adds the single args predicate. A second call, of either
// polarity, is a conflict: args is not cumulative.
func (b *Builder) Args(pattern string, polarity Polarity) *Builder {
	if b.err != nil {
		return b
	}
	if b.query.Args != nil {
		b.err = &ConfigError{Keyword: initrc.KeywordArgs, Msg: "args constrained more than once"}
		return b
	}
	m, err := compileRegex(pattern, b.query.Strict)
	if err != nil {
		b.err = err
		return b
	}
	b.query.Args = &Predicate{Keyword: initrc.KeywordArgs, Polarity: polarity, Matcher: m}
	return b
}

// Keyword adds one pattern predicate. Repeated calls for the same
// keyword accumulate: every Require predicate must be independently
// satisfiable by some line of that name.
func (b *Builder) Keyword(name, pattern string, polarity Polarity) *Builder {
	if b.err != nil {
		return b
	}
	vk := initrc.ValueText
	if spec, ok := initrc.LookupKeyword(b.query.Kind, name); ok {
		vk = spec.Value
	}
	if vk == initrc.ValueBool {
		b.err = &ConfigError{Keyword: name, Msg: "boolean keyword takes a presence flag, not a pattern"}
		return b
	}
	m, err := Compile(pattern, vk, b.query.Strict)
	if err != nil {
		if ce, ok := err.(*ConfigError); ok && ce.Keyword == "" {
			ce.Keyword = name
		}
		b.err = err
		return b
	}
	b.query.Keywords = append(b.query.Keywords, Predicate{Keyword: name, Polarity: polarity, Matcher: m})
	return b
}

// Flag adds one boolean tri-state constraint. Asking for both states
// of the same keyword is a conflict.
func (b *Builder) Flag(name string, want bool) *Builder {
	if b.err != nil {
		return b
	}
	if prev, seen := b.flags[name]; seen {
		if prev != want {
			b.err = &ConfigError{Keyword: name, Msg: "required both present and absent"}
		}
		return b
	}
	b.flags[name] = want
	b.query.Flags = append(b.query.Flags, FlagPredicate{Keyword: name, Want: want})
	return b
}

// Build finalizes the query. The first conflict recorded wins.
func (b *Builder) Build() (*Query, error) {
	if b.err != nil {
		return nil, b.err
	}
	q := b.query
	return &q, nil
}
