package predicate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/intel/initsearchtool/internal/initrc"
)

// Matcher decides whether one candidate value satisfies a compiled
// pattern. Compilation happens once per raw pattern; Match is called
// per keyword line.
type Matcher interface {
	Match(value string) bool
	String() string
}

// Compile builds a Matcher for a raw user pattern. Text keywords
// compile to an anchored regexp; integer keywords compile to a
// comparison expression. Strict mode only affects text patterns.
func Compile(raw string, vk initrc.ValueKind, strict bool) (Matcher, error) {
	switch vk {
	case initrc.ValueInt:
		return compileNumber(raw)
	case initrc.ValueBool:
		return nil, &ConfigError{Msg: "boolean keywords take presence flags, not patterns"}
	default:
		return compileRegex(raw, strict)
	}
}

// regexMatcher wraps a compiled regexp. The expression is always
// anchored end to end; non-strict compilation inserts wildcards inside
// the anchors so the user pattern may land anywhere in the value.
type regexMatcher struct {
	raw string
	re  *regexp.Regexp
}

func compileRegex(raw string, strict bool) (Matcher, error) {
	expr := "^(?:" + raw + ")$"
	if !strict {
		expr = "^.*(?:" + raw + ").*$"
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, &ConfigError{Msg: fmt.Sprintf("bad pattern %q: %v", raw, err)}
	}
	return &regexMatcher{raw: raw, re: re}, nil
}

func (m *regexMatcher) Match(value string) bool {
	return m.re.MatchString(value)
}

func (m *regexMatcher) String() string {
	return m.raw
}

// numberMatcher evaluates integer comparison expressions against
// integer-valued keywords such as priority. A candidate that does not
// parse as an integer never matches.
type numberMatcher struct {
	raw    string
	op     string // "==", "<=", ">=", "<", ">", "range"
	lo, hi int64
}

// compileNumber parses one of: N, ==N, <=N, >=N, <N, >N, or A,B
// (an inclusive range; endpoints are sorted, equal endpoints collapse
// to equality). Literals are base-aware: 0x hex, 0/0o octal, 0b binary.
func compileNumber(raw string) (Matcher, error) {
	expr := strings.TrimSpace(raw)

	if a, b, ok := strings.Cut(expr, ","); ok {
		lo, err := parseInt(a)
		if err != nil {
			return nil, err
		}
		hi, err := parseInt(b)
		if err != nil {
			return nil, err
		}
		if lo > hi {
			lo, hi = hi, lo
		}
		if lo == hi {
			return &numberMatcher{raw: raw, op: "==", lo: lo}, nil
		}
		return &numberMatcher{raw: raw, op: "range", lo: lo, hi: hi}, nil
	}

	op := "=="
	for _, candidate := range []string{"==", "<=", ">=", "<", ">"} {
		if strings.HasPrefix(expr, candidate) {
			op = candidate
			expr = expr[len(candidate):]
			break
		}
	}
	n, err := parseInt(expr)
	if err != nil {
		return nil, err
	}
	return &numberMatcher{raw: raw, op: op, lo: n}, nil
}

func parseInt(s string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 0, 64)
	if err != nil {
		return 0, &ConfigError{Msg: fmt.Sprintf("bad number expression %q", s)}
	}
	return n, nil
}

func (m *numberMatcher) Match(value string) bool {
	v, err := strconv.ParseInt(strings.TrimSpace(value), 0, 64)
	if err != nil {
		return false
	}
	switch m.op {
	case "==":
		return v == m.lo
	case "<=":
		return v <= m.lo
	case ">=":
		return v >= m.lo
	case "<":
		return v < m.lo
	case ">":
		return v > m.lo
	case "range":
		return v >= m.lo && v <= m.hi
	}
	return false
}

func (m *numberMatcher) String() string {
	return m.raw
}
