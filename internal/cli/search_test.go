package cli

import (
	"errors"
	"testing"

	"github.com/spf13/pflag"

	"github.com/intel/initsearchtool/internal/initrc"
	"github.com/intel/initsearchtool/internal/predicate"
)

// resetSearchFlags returns the search command's flag state to its
// registration defaults between tests.
func resetSearchFlags(t *testing.T) {
	t.Helper()
	searchSection = ""
	searchStrict = false
	searchTidy = false
	searchLineno = false
	searchCount = false
	searchFormat = "text"
	searchArgPats = nil
	searchNotArgPats = nil
	for _, v := range searchMatch {
		*v = nil
	}
	for _, v := range searchExclude {
		*v = nil
	}
	for _, v := range searchWant {
		*v = false
	}
	for _, v := range searchWantNot {
		*v = false
	}
	searchCmd.Flags().VisitAll(func(f *pflag.Flag) {
		f.Changed = false
	})
}

func setFlag(t *testing.T, name, value string) {
	t.Helper()
	if err := searchCmd.Flags().Set(name, value); err != nil {
		t.Fatalf("set --%s=%s: %v", name, value, err)
	}
}

func TestSearchRegistersVocabularyFlags(t *testing.T) {
	f := searchCmd.Flags()
	for _, name := range []string{"command", "user", "notuser", "critical", "notcritical", "priority", "args", "notargs"} {
		if f.Lookup(name) == nil {
			t.Errorf("flag --%s not registered", name)
		}
	}
}

func TestRepeatedOptionsBecomeCumulativePredicates(t *testing.T) {
	resetSearchFlags(t)
	searchSection = "service"
	setFlag(t, "socket", "stream")
	setFlag(t, "socket", "seqpacket")

	q, err := buildSearchQuery(searchCmd.Flags())
	if err != nil {
		t.Fatal(err)
	}
	if len(q.Keywords) != 2 {
		t.Fatalf("expected 2 socket predicates, got %d", len(q.Keywords))
	}
	for _, p := range q.Keywords {
		if p.Keyword != "socket" || p.Polarity != predicate.Require {
			t.Errorf("unexpected predicate %+v", p)
		}
	}
}

func TestNotOptionBuildsRejectPredicate(t *testing.T) {
	resetSearchFlags(t)
	searchSection = "service"
	setFlag(t, "notuser", "root")

	q, err := buildSearchQuery(searchCmd.Flags())
	if err != nil {
		t.Fatal(err)
	}
	if len(q.Keywords) != 1 || q.Keywords[0].Polarity != predicate.Reject {
		t.Fatalf("expected one reject predicate, got %+v", q.Keywords)
	}
}

func TestBooleanFlagPair(t *testing.T) {
	resetSearchFlags(t)
	searchSection = "service"
	setFlag(t, "critical", "true")

	q, err := buildSearchQuery(searchCmd.Flags())
	if err != nil {
		t.Fatal(err)
	}
	if len(q.Flags) != 1 || !q.Flags[0].Want {
		t.Fatalf("expected a must-be-true flag, got %+v", q.Flags)
	}

	resetSearchFlags(t)
	searchSection = "service"
	setFlag(t, "notcritical", "true")

	q, err = buildSearchQuery(searchCmd.Flags())
	if err != nil {
		t.Fatal(err)
	}
	if len(q.Flags) != 1 || q.Flags[0].Want {
		t.Fatalf("expected a must-be-false flag, got %+v", q.Flags)
	}
}

func TestConflictingBooleanFlagsRejected(t *testing.T) {
	resetSearchFlags(t)
	searchSection = "service"
	setFlag(t, "critical", "true")
	setFlag(t, "notcritical", "true")

	_, err := buildSearchQuery(searchCmd.Flags())
	var ce *predicate.ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}

func TestDuplicateArgsRejected(t *testing.T) {
	resetSearchFlags(t)
	searchSection = "on"
	setFlag(t, "args", "a")
	setFlag(t, "args", "b")

	_, err := buildSearchQuery(searchCmd.Flags())
	var ce *predicate.ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}

func TestUnknownSectionKindRejected(t *testing.T) {
	resetSearchFlags(t)
	searchSection = "bogus"

	_, err := buildSearchQuery(searchCmd.Flags())
	var ce *predicate.ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}

func TestStrictFlagFlowsIntoQuery(t *testing.T) {
	resetSearchFlags(t)
	searchSection = "on"
	searchStrict = true
	setFlag(t, "args", "boot")

	q, err := buildSearchQuery(searchCmd.Flags())
	if err != nil {
		t.Fatal(err)
	}
	if !q.Strict {
		t.Error("strict flag lost")
	}
	if q.Kind != initrc.KindOn {
		t.Errorf("unexpected kind %s", q.Kind)
	}
	// Strict compilation must anchor the pattern exactly.
	if q.Args.Matcher.Match("reboot") {
		t.Error("strict args pattern matched a superstring")
	}
	if !q.Args.Matcher.Match("boot") {
		t.Error("strict args pattern should match the exact value")
	}
}
