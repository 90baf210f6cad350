package initrc

// ValueKind classifies how a keyword's operand is matched.
type ValueKind int

const (
	ValueText ValueKind = iota // free text, regex-matched
	ValueBool                  // presence/absence carries the state
	ValueInt                   // integer, expression-matched
)

// KeywordSpec is one entry in a section kind's vocabulary.
type KeywordSpec struct {
	Name       string
	Value      ValueKind
	Repeatable bool
	Default    string // injected when absent; "" means no default
}

// KeywordCommand is the implicit name of every trigger body line.
const KeywordCommand = "command"

// KeywordArgs is the reserved query name for a section's header arguments.
// It never appears in a vocabulary table.
const KeywordArgs = "args"

// onKeywords is the trigger-section vocabulary: every body line is a command.
var onKeywords = []KeywordSpec{
	{Name: KeywordCommand, Value: ValueText, Repeatable: true},
}

// serviceKeywords is the closed service-section vocabulary.
// Boolean keywords carry no default: absence IS false, and the parser
// must not synthesize entries for them.
var serviceKeywords = []KeywordSpec{
	{Name: "console", Value: ValueBool},
	{Name: "critical", Value: ValueBool},
	{Name: "disabled", Value: ValueBool},
	{Name: "setenv", Value: ValueText, Repeatable: true},
	{Name: "getenv", Value: ValueText, Repeatable: true},
	{Name: "socket", Value: ValueText, Repeatable: true},
	{Name: "user", Value: ValueText, Default: "root"},
	{Name: "group", Value: ValueText, Default: "root"},
	{Name: "seclabel", Value: ValueText},
	{Name: "oneshot", Value: ValueBool},
	{Name: "class", Value: ValueText, Default: "default"},
	{Name: "ioprio", Value: ValueText},
	{Name: "onrestart", Value: ValueText, Repeatable: true},
	{Name: "writepid", Value: ValueText, Repeatable: true},
	{Name: "keycodes", Value: ValueText, Repeatable: true},
	{Name: "priority", Value: ValueInt, Default: "0"},
	{Name: "start", Value: ValueText},
}

// KeywordsFor returns the vocabulary of a section kind. Import sections
// have none.
func KeywordsFor(kind Kind) []KeywordSpec {
	switch kind {
	case KindOn:
		return onKeywords
	case KindService:
		return serviceKeywords
	}
	return nil
}

// LookupKeyword finds a keyword in a kind's vocabulary. The second return
// is false for unknown names; callers treat those as plain text keywords
// (the grammar records unknown service keywords permissively).
func LookupKeyword(kind Kind, name string) (KeywordSpec, bool) {
	for _, spec := range KeywordsFor(kind) {
		if spec.Name == name {
			return spec, true
		}
	}
	return KeywordSpec{}, false
}

// AllKeywords returns the union of all vocabularies, in table order,
// for building the search command's option set.
func AllKeywords() []KeywordSpec {
	out := make([]KeywordSpec, 0, len(onKeywords)+len(serviceKeywords))
	out = append(out, onKeywords...)
	out = append(out, serviceKeywords...)
	return out
}
