package rcdiff

import (
	"strings"
	"testing"

	"github.com/intel/initsearchtool/internal/initrc"
)

func parse(t *testing.T, text string) []*initrc.Section {
	t.Helper()
	sections, err := initrc.Parse(initrc.NewSourceFile("diff.rc", text))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return sections
}

func TestIdenticalFilesProduceEmptyDiff(t *testing.T) {
	text := "on boot\n    mkdir /data\n\nservice a /bin/a\n    user system\n"
	r := Diff(parse(t, text), parse(t, text), "old.rc", "new.rc")
	if r.HasChanges {
		t.Fatalf("expected no changes, got %+v", r)
	}
	if !strings.Contains(FormatText(r), "No changes detected") {
		t.Error("text format should say nothing changed")
	}
}

func TestAddedAndRemovedSections(t *testing.T) {
	old := parse(t, "on boot\n    mkdir /data\n")
	new := parse(t, "on boot\n    mkdir /data\n\nservice a /bin/a\n")

	r := Diff(old, new, "old.rc", "new.rc")
	if len(r.Sections) != 1 || r.Sections[0].Type != "added" {
		t.Fatalf("expected one added section, got %+v", r.Sections)
	}
	if r.Sections[0].Args != "a /bin/a" {
		t.Errorf("unexpected section args %q", r.Sections[0].Args)
	}

	back := Diff(new, old, "new.rc", "old.rc")
	if len(back.Sections) != 1 || back.Sections[0].Type != "removed" {
		t.Fatalf("expected one removed section, got %+v", back.Sections)
	}
}

func TestChangedBodyLines(t *testing.T) {
	old := parse(t, "service a /bin/a\n    user system\n    oneshot\n")
	new := parse(t, "service a /bin/a\n    user root\n    oneshot\n")

	r := Diff(old, new, "old.rc", "new.rc")
	if len(r.Sections) != 0 {
		t.Fatalf("shared section should not appear as added/removed: %+v", r.Sections)
	}
	var added, removed int
	for _, l := range r.Lines {
		switch l.Type {
		case "added":
			added++
			if l.Text != "user root" {
				t.Errorf("unexpected added line %q", l.Text)
			}
		case "removed":
			removed++
			if l.Text != "user system" {
				t.Errorf("unexpected removed line %q", l.Text)
			}
		}
	}
	if added != 1 || removed != 1 {
		t.Fatalf("expected one added and one removed line, got %+v", r.Lines)
	}
}

func TestInjectedDefaultsStayOutOfDiff(t *testing.T) {
	// Neither side writes user; the injected defaults are identical
	// model artifacts and must not register as changes.
	old := parse(t, "service a /bin/a\n    oneshot\n")
	new := parse(t, "service a /bin/a\n    oneshot\n    user root\n")

	r := Diff(old, new, "old.rc", "new.rc")
	if len(r.Lines) != 1 || r.Lines[0].Type != "added" || r.Lines[0].Text != "user root" {
		t.Fatalf("expected only the physical user line as added, got %+v", r.Lines)
	}
}

func TestRepeatedIdenticalLinesCount(t *testing.T) {
	old := parse(t, "on boot\n    mkdir /data\n")
	new := parse(t, "on boot\n    mkdir /data\n    mkdir /data\n")

	r := Diff(old, new, "old.rc", "new.rc")
	if len(r.Lines) != 1 || r.Lines[0].Type != "added" {
		t.Fatalf("duplicate line count change should register, got %+v", r.Lines)
	}
}

func TestFormatTextListsChanges(t *testing.T) {
	old := parse(t, "on boot\n    mkdir /a\n")
	new := parse(t, "on boot\n    mkdir /b\n\nimport /x.rc\n")

	out := FormatText(Diff(old, new, "old.rc", "new.rc"))
	for _, want := range []string{"+ import /x.rc", "+ [on boot] mkdir /b", "- [on boot] mkdir /a"} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatJSON(t *testing.T) {
	r := Diff(parse(t, "on boot\n"), parse(t, "on shutdown\n"), "old.rc", "new.rc")
	out, err := FormatJSON(r)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"has_changes": true`) {
		t.Errorf("unexpected JSON: %s", out)
	}
}
