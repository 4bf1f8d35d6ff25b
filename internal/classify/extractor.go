package classify

import (
	"errors"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

var errTooDeep = errors.New("nesting exceeds analysis depth limit")

// extract flattens a parsed command line into its simple commands in
// left-to-right, depth-first order. Commands inside pipelines, chains,
// subshells, groups, and command substitutions all land in the same flat
// list, so a command hidden in $(...) or a subshell gets the same scrutiny
// as a top-level one.
func extract(file *syntax.File) ([]Invocation, error) {
	var (
		invs  []Invocation
		depth int
		err   error
	)

	syntax.Walk(file, func(node syntax.Node) bool {
		if err != nil {
			return false
		}
		if node == nil {
			depth--
			return true
		}
		depth++
		if depth > maxNestingDepth {
			err = errTooDeep
			return false
		}

		switch n := node.(type) {
		case *syntax.CallExpr:
			if inv, valid := callToInvocation(n); valid {
				invs = append(invs, inv)
			}

		case *syntax.Redirect:
			// Redirections open their target for reading or writing, so the
			// target participates in path analysis like any argument. A
			// command-less redirection (> /etc/passwd truncates on its own)
			// gets a synthetic invocation to carry the target.
			if isPathRedirect(n.Op) {
				if target := flattenWord(n.Word); target != "" {
					if len(invs) == 0 {
						invs = append(invs, Invocation{Name: "(redirect)", Raw: sourceText(n)})
					}
					last := &invs[len(invs)-1]
					last.RedirTargets = append(last.RedirTargets, target)
				}
			}
		}
		return true
	})

	if err != nil {
		return nil, err
	}
	return invs, nil
}

// callToInvocation converts one CallExpr into an Invocation. Calls with no
// command word (bare assignments like FOO=bar) are skipped; an Invocation
// never carries an empty Name.
func callToInvocation(call *syntax.CallExpr) (Invocation, bool) {
	if len(call.Args) == 0 {
		return Invocation{}, false
	}

	name := flattenWord(call.Args[0])
	if name == "" {
		return Invocation{}, false
	}

	inv := Invocation{
		Name: name,
		Raw:  sourceText(call),
	}
	if wordHasSubst(call.Args[0]) {
		inv.HasSubst = true
	}
	for _, w := range call.Args[1:] {
		inv.Args = append(inv.Args, flattenWord(w))
		if wordHasSubst(w) {
			inv.HasSubst = true
		}
	}
	return inv, true
}

// isPathRedirect reports whether op opens its target word as a file path,
// reading or writing. Reading a sensitive path is the canonical disclosure
// threat, so < counts the same as >. Fd duplications (2>&1) and here-docs
// have no path target and are excluded.
func isPathRedirect(op syntax.RedirOperator) bool {
	switch op {
	case syntax.RdrOut, syntax.AppOut, syntax.RdrAll, syntax.AppAll,
		syntax.ClbOut, syntax.RdrIn, syntax.RdrInOut:
		return true
	}
	return false
}

// flattenWord reduces a word to its token text with quote markers removed.
// Single- and double-quoted segments contribute their contents; escapes
// inside literals are kept verbatim; parameter expansions are reconstructed
// textually ($VAR, ${VAR}) rather than expanded; command substitutions
// contribute a placeholder; the commands inside them are extracted
// separately by the walk.
func flattenWord(w *syntax.Word) string {
	if w == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range w.Parts {
		flattenWordPart(&sb, part)
	}
	return sb.String()
}

func flattenWordPart(sb *strings.Builder, part syntax.WordPart) {
	switch p := part.(type) {
	case *syntax.Lit:
		sb.WriteString(p.Value)
	case *syntax.SglQuoted:
		sb.WriteString(p.Value)
	case *syntax.DblQuoted:
		for _, inner := range p.Parts {
			flattenWordPart(sb, inner)
		}
	case *syntax.ParamExp:
		if p.Param == nil {
			return
		}
		if p.Short {
			sb.WriteString("$" + p.Param.Value)
		} else {
			sb.WriteString("${" + p.Param.Value + "}")
		}
	case *syntax.CmdSubst:
		sb.WriteString("$(…)")
	case *syntax.ProcSubst:
		sb.WriteString("<(…)")
	}
}

// wordHasSubst reports whether a word contains command or process
// substitution, including inside double quotes.
func wordHasSubst(w *syntax.Word) bool {
	if w == nil {
		return false
	}
	for _, part := range w.Parts {
		switch p := part.(type) {
		case *syntax.CmdSubst, *syntax.ProcSubst:
			return true
		case *syntax.DblQuoted:
			for _, inner := range p.Parts {
				switch inner.(type) {
				case *syntax.CmdSubst, *syntax.ProcSubst:
					return true
				}
			}
		}
	}
	return false
}

// sourceText reconstructs the original source of a node for diagnostics.
func sourceText(node syntax.Node) string {
	var sb strings.Builder
	printer := syntax.NewPrinter()
	if err := printer.Print(&sb, node); err != nil {
		return ""
	}
	return strings.TrimRight(sb.String(), "\n")
}
