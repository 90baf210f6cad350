package predicate

import (
	"sort"

	"github.com/intel/initsearchtool/internal/initrc"
)

// Match is one section accepted by a query, with the physical lines
// that contributed. Lines is ascending and always starts with the
// header line; 0 entries mark injected defaults that satisfied a
// predicate without any physical line.
type Match struct {
	Section *initrc.Section
	Lines   []int
}

// HasDefaultHit reports whether an injected default contributed.
func (m *Match) HasDefaultHit() bool {
	return len(m.Lines) > 0 && m.Lines[0] == 0
}

// Evaluate runs the query against one section. The second return is
// false when the section does not satisfy every constraint.
//
// Require predicates are cumulative: each must find its own matching
// line, but two predicates may be satisfied by two different lines of
// the same keyword. Reject predicates fail the section on any hit.
func (q *Query) Evaluate(sec *initrc.Section) (*Match, bool) {
	if sec.Kind != q.Kind {
		return nil, false
	}

	hit := map[int]bool{sec.HeaderLine: true}

	if q.Args != nil {
		matched := q.Args.Matcher.Match(sec.Args)
		if q.Args.Polarity == Require && !matched {
			return nil, false
		}
		if q.Args.Polarity == Reject && matched {
			return nil, false
		}
	}

	for _, p := range q.Keywords {
		lines := sec.Lines(p.Keyword)
		switch p.Polarity {
		case Require:
			found := false
			for _, k := range lines {
				if p.Matcher.Match(k.Value) {
					hit[k.Line] = true
					found = true
				}
			}
			if !found {
				return nil, false
			}
		case Reject:
			for _, k := range lines {
				if p.Matcher.Match(k.Value) {
					return nil, false
				}
			}
		}
	}

	for _, f := range q.Flags {
		lines := sec.Lines(f.Keyword)
		if f.Want {
			if len(lines) == 0 {
				return nil, false
			}
			for _, k := range lines {
				hit[k.Line] = true
			}
		} else if len(lines) > 0 {
			return nil, false
		}
	}

	out := make([]int, 0, len(hit))
	for n := range hit {
		out = append(out, n)
	}
	sort.Ints(out)
	return &Match{Section: sec, Lines: out}, true
}

// EvaluateAll runs the query over every section of one parsed file,
// preserving source order.
func (q *Query) EvaluateAll(sections []*initrc.Section) []*Match {
	var out []*Match
	for _, sec := range sections {
		if m, ok := q.Evaluate(sec); ok {
			out = append(out, m)
		}
	}
	return out
}
