package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/intel/initsearchtool/internal/initrc"
	"github.com/intel/initsearchtool/internal/predicate"
	"github.com/intel/initsearchtool/internal/render"
)

var (
	searchSection    string
	searchStrict     bool
	searchTidy       bool
	searchLineno     bool
	searchCount      bool
	searchFormat     string
	searchArgPats    []string
	searchNotArgPats []string

	// Per-keyword option values. Pattern keywords collect repeatable
	// string lists (cumulative AND); boolean keywords collect a
	// presence pair. Registered from the vocabulary tables so the
	// option set extends with the grammar.
	searchMatch   = map[string]*[]string{}
	searchExclude = map[string]*[]string{}
	searchWant    = map[string]*bool{}
	searchWantNot = map[string]*bool{}
)

func init() {
	rootCmd.AddCommand(searchCmd)
	f := searchCmd.Flags()

	f.StringVarP(&searchSection, "section", "s", "", "Section kind to search (on|service|import)")
	f.BoolVar(&searchStrict, "strict", false, "Patterns must cover the whole value, no implicit wildcards")
	f.BoolVar(&searchTidy, "tidy", false, "Show only the lines that contributed to each match")
	f.BoolVar(&searchLineno, "lineno", false, "Prefix body lines with their physical line numbers")
	f.BoolVar(&searchCount, "count", false, "Print the number of matches instead of the matches")
	f.StringVarP(&searchFormat, "format", "f", "text", "Output format (text|json)")

	f.StringArrayVar(&searchArgPats, "args", nil, "Regex the section arguments must match")
	f.StringArrayVar(&searchNotArgPats, "notargs", nil, "Regex the section arguments must not match")

	for _, spec := range initrc.AllKeywords() {
		if spec.Value == initrc.ValueBool {
			searchWant[spec.Name] = f.Bool(spec.Name, false, fmt.Sprintf("Require a %s line to be present", spec.Name))
			searchWantNot[spec.Name] = f.Bool("not"+spec.Name, false, fmt.Sprintf("Require no %s line", spec.Name))
			continue
		}
		usage := fmt.Sprintf("Pattern a %s line must match (repeatable)", spec.Name)
		if spec.Value == initrc.ValueInt {
			usage = fmt.Sprintf("Comparison the %s value must satisfy, e.g. '<=5' or '3,7' (repeatable)", spec.Name)
		}
		searchMatch[spec.Name] = f.StringArray(spec.Name, nil, usage)
		searchExclude[spec.Name] = f.StringArray("not"+spec.Name, nil, fmt.Sprintf("Pattern no %s line may match (repeatable)", spec.Name))
	}

	_ = searchCmd.MarkFlagRequired("section")
}

var searchCmd = &cobra.Command{
	Use:   "search FILE...",
	Short: "Find sections matching keyword patterns and flags",
	Long: "Searches the given rc files for sections of one kind matching every\n" +
		"supplied constraint. Pattern options repeat to AND constraints; each\n" +
		"--<keyword> has a --not<keyword> negation, and boolean keywords take\n" +
		"presence flags instead of patterns.",
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

// buildSearchQuery translates the parsed flag set into a query. Every
// occurrence of a pattern option becomes its own predicate.
func buildSearchQuery(f *pflag.FlagSet) (*predicate.Query, error) {
	kind, ok := initrc.ParseKind(searchSection)
	if !ok {
		return nil, &predicate.ConfigError{Msg: fmt.Sprintf("unknown section kind %q", searchSection)}
	}

	b := predicate.NewBuilder(kind, searchStrict, searchTidy)

	for _, p := range searchArgPats {
		b.Args(p, predicate.Require)
	}
	for _, p := range searchNotArgPats {
		b.Args(p, predicate.Reject)
	}

	for name, pats := range searchMatch {
		for _, p := range *pats {
			b.Keyword(name, p, predicate.Require)
		}
	}
	for name, pats := range searchExclude {
		for _, p := range *pats {
			b.Keyword(name, p, predicate.Reject)
		}
	}
	for name, want := range searchWant {
		if f.Changed(name) && *want {
			b.Flag(name, true)
		}
	}
	for name, wantNot := range searchWantNot {
		if f.Changed("not"+name) && *wantNot {
			b.Flag(name, false)
		}
	}

	return b.Build()
}

func runSearch(cmd *cobra.Command, args []string) error {
	q, err := buildSearchQuery(cmd.Flags())
	if err != nil {
		return err
	}

	files, err := loadFiles(args)
	if err != nil {
		return err
	}

	byFile := map[string][]*predicate.Match{}
	var order []string
	total := 0
	for _, f := range files {
		matches := q.EvaluateAll(f.Sections)
		total += len(matches)
		byFile[f.File.Path] = matches
		order = append(order, f.File.Path)
	}

	if searchCount {
		fmt.Print(render.Count(total))
		return nil
	}

	switch searchFormat {
	case "json":
		out, err := render.MatchesJSON(byFile, order)
		if err != nil {
			return err
		}
		fmt.Println(out)
	default:
		opts := render.Options{LineNumbers: searchLineno, Tidy: searchTidy}
		for _, path := range order {
			if len(byFile[path]) == 0 {
				continue
			}
			fmt.Print(render.Matches(path, byFile[path], opts))
		}
	}
	return nil
}
