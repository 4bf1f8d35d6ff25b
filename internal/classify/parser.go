package classify

import (
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// maxNestingDepth bounds AST recursion so adversarial input like thousands
// of nested subshells returns a parse failure instead of exhausting the
// stack.
const maxNestingDepth = 120

// Parse parses a raw command line into the ordered list of simple commands
// it contains. ok is false when the line could not be analyzed (unterminated
// quotes, unbalanced operators, nesting beyond maxNestingDepth); in that
// case no partial data is returned. An empty or whitespace-only line parses
// successfully to zero invocations.
//
// Parsing recovers structure only. Nothing is expanded or evaluated: $VAR
// stays $VAR, globs stay globs, and command substitutions are surfaced on
// the containing invocation via HasSubst.
func Parse(line string) (invs []Invocation, ok bool) {
	if strings.TrimSpace(line) == "" {
		return nil, true
	}

	file, err := parseTree(line)
	if err != nil {
		return nil, false
	}

	invs, err = extract(file)
	if err != nil {
		return nil, false
	}
	return invs, true
}

// parseTree builds the bash AST for a command line.
func parseTree(line string) (*syntax.File, error) {
	parser := syntax.NewParser(syntax.KeepComments(false), syntax.Variant(syntax.LangBash))
	return parser.Parse(strings.NewReader(line), "")
}
