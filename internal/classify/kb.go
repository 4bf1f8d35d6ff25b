package classify

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// Tables is the declarative form of the risk knowledge base, suitable for
// building from compiled-in defaults or loaded rule packs.
type Tables struct {
	// SafeCommands are names that classify Safe absent any disqualifying
	// argument.
	SafeCommands []string
	// RiskyCommands are names that classify Risky regardless of arguments.
	RiskyCommands []string
	// RiskyPairs flag a command only in combination with an argument
	// substring (chmod + 777).
	RiskyPairs []PairRule
	// RiskyPaths are absolute paths (or path globs) that are sensitive no
	// matter which command touches them. A plain path also covers its
	// subtree.
	RiskyPaths []string
	// PathExceptions carve holes out of RiskyPaths (/dev/null inside /dev).
	PathExceptions []string
}

// PairRule marks a command name dangerous only when combined with an
// argument containing a given substring.
type PairRule struct {
	Command     string
	ArgContains string
}

// KB is the immutable risk knowledge base. It is built once, validated at
// construction, and only ever read afterwards, which is what makes
// concurrent classification lock-free.
type KB struct {
	safe       map[string]struct{}
	risky      map[string]struct{}
	pairs      map[string][]string
	pathRules  []pathRule
	exceptions []glob.Glob
}

// pathRule matches one risky path and its subtree.
type pathRule struct {
	exact   glob.Glob
	subtree glob.Glob
}

// NewKB builds a knowledge base from tables. It returns an error when the
// tables are self-contradictory (a command both allowlisted and denylisted)
// or a path pattern does not compile; a corrupt knowledge base is a build
// defect that must stop the process, not a runtime input problem.
func NewKB(t Tables) (*KB, error) {
	kb := &KB{
		safe:  make(map[string]struct{}, len(t.SafeCommands)),
		risky: make(map[string]struct{}, len(t.RiskyCommands)),
		pairs: make(map[string][]string, len(t.RiskyPairs)),
	}

	for _, name := range t.SafeCommands {
		kb.safe[name] = struct{}{}
	}
	for _, name := range t.RiskyCommands {
		if _, dup := kb.safe[name]; dup {
			return nil, fmt.Errorf("command %q is both allowlisted and denylisted", name)
		}
		kb.risky[name] = struct{}{}
	}
	for _, pair := range t.RiskyPairs {
		if pair.Command == "" || pair.ArgContains == "" {
			return nil, fmt.Errorf("risky pair %+v has an empty field", pair)
		}
		kb.pairs[pair.Command] = append(kb.pairs[pair.Command], pair.ArgContains)
	}

	for _, p := range t.RiskyPaths {
		p = strings.TrimSuffix(p, "/")
		if !strings.HasPrefix(p, "/") && !strings.HasPrefix(p, "~") {
			return nil, fmt.Errorf("risky path %q is not absolute", p)
		}
		exact, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("risky path %q: %w", p, err)
		}
		subtree, err := glob.Compile(p+"/**", '/')
		if err != nil {
			return nil, fmt.Errorf("risky path %q: %w", p, err)
		}
		kb.pathRules = append(kb.pathRules, pathRule{exact: exact, subtree: subtree})
	}

	for _, e := range t.PathExceptions {
		g, err := glob.Compile(e, '/')
		if err != nil {
			return nil, fmt.Errorf("path exception %q: %w", e, err)
		}
		kb.exceptions = append(kb.exceptions, g)
	}

	return kb, nil
}

// MustKB is NewKB for compiled-in tables; invalid tables panic at init.
func MustKB(t Tables) *KB {
	kb, err := NewKB(t)
	if err != nil {
		panic("classify: invalid knowledge base: " + err.Error())
	}
	return kb
}

// IsRiskyCommand reports whether name is unconditionally dangerous.
func (kb *KB) IsRiskyCommand(name string) bool {
	_, ok := kb.risky[name]
	return ok
}

// IsSafeCommand reports whether name is on the allowlist.
func (kb *KB) IsSafeCommand(name string) bool {
	_, ok := kb.safe[name]
	return ok
}

// IsRiskyCommandWithArgs reports whether the command is dangerous in
// combination with its arguments. Each pair substring is matched against
// the space-joined argument list, so a rule can name a single flag (-exec)
// or a multi-token phrase (push -f).
func (kb *KB) IsRiskyCommandWithArgs(name string, args []string) bool {
	subs, ok := kb.pairs[name]
	if !ok {
		return false
	}
	joined := strings.Join(args, " ")
	for _, sub := range subs {
		if strings.Contains(joined, sub) {
			return true
		}
	}
	return false
}

// IsRiskyPath reports whether an absolute path hits the risky-path table,
// either exactly or as a descendant of a risky subtree. Matching is
// syntactic: separators are normalized but nothing is resolved against a
// filesystem, since the target may not exist or may be on another machine.
func (kb *KB) IsRiskyPath(p string) bool {
	p = strings.ReplaceAll(p, "\\", "/")
	p = strings.TrimSuffix(p, "/")
	if p == "" {
		return false
	}
	for _, e := range kb.exceptions {
		if e.Match(p) {
			return false
		}
	}
	for _, rule := range kb.pathRules {
		if rule.exact.Match(p) || rule.subtree.Match(p) {
			return true
		}
	}
	return false
}
