package classify

import "strings"

// wrappers are commands that run another command unchanged; the wrapped
// command is what gets judged. sudo is deliberately absent: it is on the
// denylist in its own right and must never be skipped over.
var wrappers = map[string]struct{}{
	"env":     {},
	"nice":    {},
	"nohup":   {},
	"time":    {},
	"timeout": {},
	"stdbuf":  {},
}

// wrapperValueFlags lists, per wrapper, the flags whose value arrives as a
// separate token (nice -n 10). Flags absent here take no value, or attach
// it with = and are skipped as ordinary flags.
var wrapperValueFlags = map[string]map[string]bool{
	"nice":    {"-n": true, "--adjustment": true},
	"timeout": {"-s": true, "--signal": true, "-k": true, "--kill-after": true},
	"stdbuf":  {"-i": true, "-o": true, "-e": true},
	"env":     {"-u": true, "-C": true, "-S": true},
}

// analyze classifies one invocation against the knowledge base. Precedence
// is fixed and the first matching rule wins:
//
//  1. denylisted name or name+argument pair  -> Risky
//  2. absolute argument hitting a risky path -> Risky
//  3. absolute or tree-escaping argument     -> Ambiguous
//  4. allowlisted name, nothing disqualified -> Safe
//  5. anything else                          -> Ambiguous
//
// The denylist outranks everything, including the allowlist: a benign name
// combined with a dangerous flag or target must not slip through on
// reputation.
func analyze(kb *KB, inv Invocation) (Category, string) {
	name, args := resolveWrappers(inv.Name, inv.Args)
	if name == "" {
		// The extractor never emits an empty name; if one shows up anyway,
		// something upstream is broken and trust is off the table.
		return Risky, "empty command name"
	}

	// Rule 1: explicit denylist.
	if kb.IsRiskyCommand(name) {
		return Risky, "command " + name + " is denylisted"
	}
	if kb.IsRiskyCommandWithArgs(name, args) {
		return Risky, "command " + name + " is denylisted with these arguments"
	}

	// Rules 2 and 3: argument and redirect-target path analysis.
	worst := Safe
	reason := ""
	for _, token := range append(append([]string(nil), args...), inv.RedirTargets...) {
		info := AnalyzePath(token)
		switch info.Class {
		case Absolute:
			if info.Anchored != "" && kb.IsRiskyPath(info.Anchored) {
				return Risky, "touches sensitive path " + info.Anchored
			}
			if worst < Ambiguous {
				worst, reason = Ambiguous, "touches absolute path "+token
			}
		case RelativeTraversal:
			if info.Anchored != "" && kb.IsRiskyPath(info.Anchored) {
				return Risky, "escapes working tree into sensitive path " + info.Anchored
			}
			if worst < Ambiguous {
				worst, reason = Ambiguous, "path traversal in "+token
			}
		}
	}
	if worst == Ambiguous {
		return Ambiguous, reason
	}

	// An unresolved $( ) in the arguments means part of the command text is
	// invisible to static analysis; the allowlist cannot vouch for it.
	if inv.HasSubst {
		return Ambiguous, "contains command substitution"
	}

	// Rule 4: allowlist.
	if kb.IsSafeCommand(name) {
		return Safe, "command " + name + " is allowlisted"
	}

	// Rule 5: unknown commands carry the burden of proof.
	return Ambiguous, "unknown command " + name
}

// resolveWrappers strips a leading directory from the command name
// (/usr/bin/cat judges as cat) and peels transparent wrapper commands so
// "env FOO=1 nice rm -rf x" is judged as rm. Wrapper flags, their value
// tokens, VAR=value assignments, and timeout's duration operand are
// skipped; if nothing but those follow the wrapper, the wrapper itself is
// judged.
func resolveWrappers(name string, args []string) (string, []string) {
	name = baseName(name)

	for {
		if _, ok := wrappers[name]; !ok {
			return name, args
		}
		i := 0
		for i < len(args) && (strings.HasPrefix(args[i], "-") || isAssignment(args[i])) {
			if wrapperValueFlags[name][args[i]] {
				i++
			}
			i++
		}
		// timeout's first operand is the duration, not the command.
		if name == "timeout" && i < len(args) {
			i++
		}
		if i >= len(args) {
			return name, nil
		}
		name = baseName(args[i])
		args = args[i+1:]
	}
}

// baseName returns the last path element of a command token, recognizing
// both separator conventions.
func baseName(name string) string {
	if idx := strings.LastIndexAny(name, "/\\"); idx != -1 {
		name = name[idx+1:]
	}
	return name
}

// isAssignment reports whether a token is a VAR=value environment
// assignment of the kind env accepts before the wrapped command.
func isAssignment(tok string) bool {
	eq := strings.IndexByte(tok, '=')
	if eq <= 0 {
		return false
	}
	for _, r := range tok[:eq] {
		if r != '_' && (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
