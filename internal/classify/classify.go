package classify

import "strings"

// Classifier reduces whole command lines to a single Category using an
// immutable knowledge base. The zero cost of sharing one Classifier across
// goroutines is the point: it holds no mutable state.
type Classifier struct {
	kb *KB
}

// New returns a Classifier backed by the given knowledge base.
func New(kb *KB) *Classifier {
	return &Classifier{kb: kb}
}

// Classify screens a raw command line and returns one verdict for the whole
// line. It is total: any input string, including binary garbage, pathological
// nesting, or text that fails to parse, yields a Category.
//
//   - blank input is Safe (no operation is requested)
//   - a line that cannot be parsed is Ambiguous; unanalyzable is not
//     provably harmful, but it is never silently Safe
//   - a non-blank line with nothing executable (bare assignments, comments)
//     is Ambiguous for the same reason
//   - otherwise every extracted invocation is classified independently and
//     the maximum severity wins: one Risky command anywhere in a pipeline
//     makes the line Risky
//
// Internal failures are caught at this boundary and mapped to Ambiguous
// rather than escaping to the caller.
func (c *Classifier) Classify(line string) (cat Category) {
	defer func() {
		if r := recover(); r != nil {
			cat = maxCategory(cat, Ambiguous)
		}
	}()

	if strings.TrimSpace(line) == "" {
		return Safe
	}

	invs, ok := Parse(line)
	if !ok {
		return Ambiguous
	}
	if len(invs) == 0 {
		// Non-blank but nothing executable extracted (bare assignments,
		// comments). Not provably harmless either.
		return Ambiguous
	}

	cat = Safe
	for _, inv := range invs {
		verdict, _ := analyze(c.kb, inv)
		cat = maxCategory(cat, verdict)
	}
	return cat
}

// Explain is Classify with its work shown: the per-invocation verdicts in
// execution order, plus the aggregate. On parse failure it returns a single
// synthetic verdict covering the whole line.
func (c *Classifier) Explain(line string) (verdicts []Verdict, cat Category) {
	defer func() {
		if r := recover(); r != nil {
			cat = maxCategory(cat, Ambiguous)
		}
	}()

	if strings.TrimSpace(line) == "" {
		return nil, Safe
	}

	invs, ok := Parse(line)
	if !ok {
		return []Verdict{{
			Invocation: Invocation{Name: "(unparsed)", Raw: line},
			Category:   Ambiguous,
			Reason:     "command could not be parsed for analysis",
		}}, Ambiguous
	}
	if len(invs) == 0 {
		return []Verdict{{
			Invocation: Invocation{Name: "(no command)", Raw: line},
			Category:   Ambiguous,
			Reason:     "line contains no analyzable command",
		}}, Ambiguous
	}

	cat = Safe
	for _, inv := range invs {
		verdict, reason := analyze(c.kb, inv)
		verdicts = append(verdicts, Verdict{Invocation: inv, Category: verdict, Reason: reason})
		cat = maxCategory(cat, verdict)
	}
	return verdicts, cat
}

// Classify screens a command line against the compiled-in knowledge base.
// This is the single entry point external callers need.
func Classify(line string) Category {
	return New(DefaultKB()).Classify(line)
}
