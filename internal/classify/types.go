// Package classify screens model-proposed shell commands before they reach a
// real shell. A raw command line is parsed into its individual simple
// commands, each command is assigned a risk category, and the whole line
// reduces to the most severe category found. The package is deliberately
// conservative: anything it cannot analyze degrades to Ambiguous, never to
// Safe and never to a panic.
//
// Classification is a pure function of the input string and an immutable
// Knowledge base, so concurrent calls need no locking.
package classify

// Category is the risk tier assigned to a command or a whole command line.
// The ordering is total: Safe < Ambiguous < Risky.
type Category int

const (
	// Safe commands can be executed without confirmation.
	Safe Category = iota
	// Ambiguous commands cannot be proven safe; callers should prompt.
	Ambiguous
	// Risky commands match an explicit danger rule; callers should refuse.
	Risky
)

// String returns the lowercase name of the category.
func (c Category) String() string {
	switch c {
	case Safe:
		return "safe"
	case Ambiguous:
		return "ambiguous"
	case Risky:
		return "risky"
	default:
		return "unknown"
	}
}

// maxCategory returns the more severe of two categories. It is commutative
// and associative, so reducing a pipeline never depends on evaluation order.
func maxCategory(a, b Category) Category {
	if b > a {
		return b
	}
	return a
}

// Invocation is one simple command recovered from a parsed command line.
type Invocation struct {
	// Name is the command token, never empty for an extracted invocation.
	Name string
	// Args are the remaining tokens with quote markers removed. Escapes and
	// unexpanded $VAR references are preserved verbatim.
	Args []string
	// Raw is the original source text of the invocation, kept for
	// diagnostics only.
	Raw string

	// RedirTargets are file paths opened by redirections attached to this
	// invocation, reading (<) or writing (>, >>).
	RedirTargets []string
	// HasSubst is true if any argument contains command or process
	// substitution, which static analysis cannot see through.
	HasSubst bool
}

// Verdict pairs one invocation with its per-command category, for callers
// that want to explain a decision rather than just act on it.
type Verdict struct {
	Invocation Invocation
	Category   Category
	// Reason names the rule that decided the category.
	Reason string
}
