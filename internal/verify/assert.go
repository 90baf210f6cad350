package verify

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/intel/initsearchtool/internal/initrc"
	"github.com/intel/initsearchtool/internal/predicate"
)

// SpecError reports a structurally malformed assert or whitelist
// document. Fatal to the document, not to other inputs.
type SpecError struct {
	File string
	Msg  string
}

func (e *SpecError) Error() string {
	if e.File == "" {
		return "spec: " + e.Msg
	}
	return fmt.Sprintf("%s: %s", e.File, e.Msg)
}

// patterns accepts either a single YAML scalar or a list of scalars,
// so case authors can write `command: "mkdir .*"` and graduate to a
// list without restructuring.
type patterns []string

func (p *patterns) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		*p = patterns{s}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*p = patterns(list)
		return nil
	}
	return fmt.Errorf("line %d: pattern must be a string or list of strings", node.Line)
}

// AssertCase is one named policy check: a query plus the description
// reported when the check fails. Unknown keyword names pass through to
// the engine untouched so suites can reference vocabularies this build
// does not know yet.
type AssertCase struct {
	Name        string              `yaml:"name"`
	Description string              `yaml:"description"`
	Section     string              `yaml:"section"`
	Strict      bool                `yaml:"strict"`
	Args        string              `yaml:"args"`
	NotArgs     string              `yaml:"notargs"`
	Match       map[string]patterns `yaml:"match"`
	Exclude     map[string]patterns `yaml:"exclude"`
	Flags       map[string]bool     `yaml:"flags"`
}

// suiteDoc is the on-disk shape of an assert file.
type suiteDoc struct {
	Suite string       `yaml:"suite"`
	Cases []AssertCase `yaml:"cases"`
}

// LoadCases reads one assert YAML file. Unknown top-level fields are
// ignored; structural problems are SpecErrors naming the file.
func LoadCases(path string) ([]AssertCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read assert spec: %w", err)
	}

	var doc suiteDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &SpecError{File: path, Msg: err.Error()}
	}
	if len(doc.Cases) == 0 {
		return nil, &SpecError{File: path, Msg: "no cases defined"}
	}

	for i, c := range doc.Cases {
		if c.Name == "" {
			return nil, &SpecError{File: path, Msg: fmt.Sprintf("case %d: missing name", i+1)}
		}
		if c.Section == "" {
			return nil, &SpecError{File: path, Msg: fmt.Sprintf("case %q: missing section", c.Name)}
		}
		if _, ok := initrc.ParseKind(c.Section); !ok {
			return nil, &SpecError{File: path, Msg: fmt.Sprintf("case %q: unknown section kind %q", c.Name, c.Section)}
		}
	}
	return doc.Cases, nil
}

// Query compiles the case into an executable query. Compilation
// failures surface as the engine's ConfigError.
func (c *AssertCase) Query() (*predicate.Query, error) {
	kind, _ := initrc.ParseKind(c.Section)
	b := predicate.NewBuilder(kind, c.Strict, false)

	if c.Args != "" {
		b.Args(c.Args, predicate.Require)
	} else if c.NotArgs != "" {
		b.Args(c.NotArgs, predicate.Reject)
	}
	if c.Args != "" && c.NotArgs != "" {
		return nil, &predicate.ConfigError{Keyword: initrc.KeywordArgs, Msg: "case supplies both args and notargs"}
	}

	for name, pats := range c.Match {
		for _, p := range pats {
			b.Keyword(name, p, predicate.Require)
		}
	}
	for name, pats := range c.Exclude {
		for _, p := range pats {
			b.Keyword(name, p, predicate.Reject)
		}
	}
	for name, want := range c.Flags {
		b.Flag(name, want)
	}
	return b.Build()
}
