package predicate

import (
	"errors"
	"testing"

	"github.com/intel/initsearchtool/internal/initrc"
)

const evalRC = `on property:foo.bar=*
    mkdir /foo/bar 0777 system system
    write /sys/power/state mem

service widgetd /system/bin/widgetd
    user system
    group system input
    socket widgetd stream 0660
    socket widgetd-ctl seqpacket 0600
    critical

service plain /bin/plain
`

func evalSections(t *testing.T) []*initrc.Section {
	t.Helper()
	sections, err := initrc.Parse(initrc.NewSourceFile("eval.rc", evalRC))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return sections
}

func buildQuery(t *testing.T, b *Builder) *Query {
	t.Helper()
	q, err := b.Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	return q
}

func TestKindFilterAlone(t *testing.T) {
	sections := evalSections(t)
	q := buildQuery(t, NewBuilder(initrc.KindService, false, false))

	matches := q.EvaluateAll(sections)
	if len(matches) != 2 {
		t.Fatalf("expected both services, got %d matches", len(matches))
	}
	for _, m := range matches {
		if m.Section.Kind != initrc.KindService {
			t.Errorf("wrong kind matched: %s", m.Section.Kind)
		}
	}
}

func TestArgsPredicateSelectsTrigger(t *testing.T) {
	sections := evalSections(t)
	q := buildQuery(t, NewBuilder(initrc.KindOn, false, false).
		Args(`property:foo\.bar`, Require))

	matches := q.EvaluateAll(sections)
	if len(matches) != 1 {
		t.Fatalf("expected one match, got %d", len(matches))
	}
	m := matches[0]
	if m.Section.HeaderLine != 1 {
		t.Errorf("unexpected header line %d", m.Section.HeaderLine)
	}
	if len(m.Lines) != 1 || m.Lines[0] != 1 {
		t.Errorf("args-only match should report the header line only, got %v", m.Lines)
	}
}

func TestCommandPredicateAddsItsLine(t *testing.T) {
	sections := evalSections(t)
	q := buildQuery(t, NewBuilder(initrc.KindOn, false, false).
		Args(`property:foo\.bar`, Require).
		Keyword(initrc.KeywordCommand, "mkdir", Require))

	matches := q.EvaluateAll(sections)
	if len(matches) != 1 {
		t.Fatalf("expected one match, got %d", len(matches))
	}
	want := []int{1, 2}
	got := matches[0].Lines
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("expected lines %v, got %v", want, got)
	}
}

func TestCumulativePredicatesSatisfiedByDifferentLines(t *testing.T) {
	sections := evalSections(t)
	q := buildQuery(t, NewBuilder(initrc.KindService, false, false).
		Keyword("socket", "stream", Require).
		Keyword("socket", "seqpacket", Require))

	matches := q.EvaluateAll(sections)
	if len(matches) != 1 {
		t.Fatalf("expected widgetd only, got %d matches", len(matches))
	}
	if matches[0].Section.Args != "widgetd /system/bin/widgetd" {
		t.Errorf("wrong section matched: %q", matches[0].Section.Args)
	}
}

func TestCumulativePredicateFailsWhenOneUnsatisfied(t *testing.T) {
	sections := evalSections(t)
	q := buildQuery(t, NewBuilder(initrc.KindService, false, false).
		Keyword("socket", "stream", Require).
		Keyword("socket", "dgram", Require))

	if matches := q.EvaluateAll(sections); len(matches) != 0 {
		t.Fatalf("expected no matches, got %d", len(matches))
	}
}

func TestCumulativePredicatesMayShareOneLine(t *testing.T) {
	sections := evalSections(t)
	// Both patterns land on the same "group system input" line.
	q := buildQuery(t, NewBuilder(initrc.KindService, false, false).
		Keyword("group", "system", Require).
		Keyword("group", "input", Require))

	matches := q.EvaluateAll(sections)
	if len(matches) != 1 {
		t.Fatalf("expected one match, got %d", len(matches))
	}
}

func TestRejectPredicateFailsOnAnyHit(t *testing.T) {
	sections := evalSections(t)
	q := buildQuery(t, NewBuilder(initrc.KindService, false, false).
		Keyword("socket", "stream", Reject))

	matches := q.EvaluateAll(sections)
	if len(matches) != 1 {
		t.Fatalf("expected plain service only, got %d matches", len(matches))
	}
	if matches[0].Section.Args != "plain /bin/plain" {
		t.Errorf("wrong section survived: %q", matches[0].Section.Args)
	}
}

func TestBooleanTriState(t *testing.T) {
	sections := evalSections(t)

	wantTrue := buildQuery(t, NewBuilder(initrc.KindService, false, false).
		Flag("critical", true))
	matches := wantTrue.EvaluateAll(sections)
	if len(matches) != 1 || matches[0].Section.Args != "widgetd /system/bin/widgetd" {
		t.Fatalf("must-be-true should select widgetd, got %d matches", len(matches))
	}

	wantFalse := buildQuery(t, NewBuilder(initrc.KindService, false, false).
		Flag("critical", false))
	matches = wantFalse.EvaluateAll(sections)
	if len(matches) != 1 || matches[0].Section.Args != "plain /bin/plain" {
		t.Fatalf("must-be-false should select plain, got %d matches", len(matches))
	}
}

func TestFlagConflictIsConfigError(t *testing.T) {
	_, err := NewBuilder(initrc.KindService, false, false).
		Flag("critical", true).
		Flag("critical", false).
		Build()
	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
	if ce.Keyword != "critical" {
		t.Errorf("error should name the keyword, got %q", ce.Keyword)
	}
}

func TestRepeatedSameFlagIsNotAConflict(t *testing.T) {
	_, err := NewBuilder(initrc.KindService, false, false).
		Flag("critical", true).
		Flag("critical", true).
		Build()
	if err != nil {
		t.Fatalf("same-direction repetition should be accepted: %v", err)
	}
}

func TestDuplicateArgsPredicateRejected(t *testing.T) {
	_, err := NewBuilder(initrc.KindOn, false, false).
		Args("a", Require).
		Args("b", Reject).
		Build()
	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}

func TestPatternOnBooleanKeywordIsConfigError(t *testing.T) {
	_, err := NewBuilder(initrc.KindService, false, false).
		Keyword("critical", "yes", Require).
		Build()
	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}

func TestInjectedDefaultSatisfiesRequire(t *testing.T) {
	sections := evalSections(t)
	// plain has no user line; the injected default user=root must match.
	q := buildQuery(t, NewBuilder(initrc.KindService, false, false).
		Keyword("user", "root", Require))

	matches := q.EvaluateAll(sections)
	if len(matches) != 1 {
		t.Fatalf("expected the defaulted service, got %d matches", len(matches))
	}
	m := matches[0]
	if m.Section.Args != "plain /bin/plain" {
		t.Fatalf("wrong section: %q", m.Section.Args)
	}
	if !m.HasDefaultHit() {
		t.Errorf("expected a line-0 default hit, got lines %v", m.Lines)
	}
}

func TestNumberPredicateOnPriority(t *testing.T) {
	sections, err := initrc.Parse(initrc.NewSourceFile("prio.rc",
		"service a /bin/a\n    priority -4\n\nservice b /bin/b\n    priority 10\n"))
	if err != nil {
		t.Fatal(err)
	}

	q := buildQuery(t, NewBuilder(initrc.KindService, false, false).
		Keyword("priority", "<0", Require))
	matches := q.EvaluateAll(sections)
	if len(matches) != 1 || matches[0].Section.Args != "a /bin/a" {
		t.Fatalf("expected service a only, got %d matches", len(matches))
	}
}

func TestWrongKindNeverMatches(t *testing.T) {
	sections := evalSections(t)
	q := buildQuery(t, NewBuilder(initrc.KindImport, false, false))
	if matches := q.EvaluateAll(sections); len(matches) != 0 {
		t.Fatalf("no imports in input, got %d matches", len(matches))
	}
}

func TestMatchesKeepSourceOrder(t *testing.T) {
	sections := evalSections(t)
	q := buildQuery(t, NewBuilder(initrc.KindService, false, false))
	matches := q.EvaluateAll(sections)
	for i := 1; i < len(matches); i++ {
		if matches[i-1].Section.HeaderLine > matches[i].Section.HeaderLine {
			t.Fatal("matches out of source order")
		}
	}
}
