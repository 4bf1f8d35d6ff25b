package classify

import (
	"path"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// PathClass tags how a single argument token relates to the filesystem.
type PathClass int

const (
	// NotPath is a plain value or an option flag; it has no path shape.
	NotPath PathClass = iota
	// RelativeSafe is a relative path that stays inside the working tree.
	RelativeSafe
	// RelativeTraversal is a relative path that moves above the working
	// tree through .. segments.
	RelativeTraversal
	// Absolute is a rooted path. Malformed tokens also degrade here, the
	// most conservative class.
	Absolute
)

// String returns the lowercase name of the path class.
func (c PathClass) String() string {
	switch c {
	case NotPath:
		return "not-a-path"
	case RelativeSafe:
		return "relative-safe"
	case RelativeTraversal:
		return "relative-traversal"
	case Absolute:
		return "absolute"
	default:
		return "unknown"
	}
}

// PathInfo is the result of analyzing one argument token.
type PathInfo struct {
	Class PathClass
	// Anchored is the token rewritten as a rooted path for knowledge-base
	// matching. For Absolute tokens it is the normalized path itself. For
	// RelativeTraversal tokens that re-anchor below the root after lexical
	// normalization (a/b/../../../etc/passwd), it is the escaped remainder
	// treated as rooted (/etc/passwd). Empty for pure upward navigation
	// (.., ../..) and for everything else.
	Anchored string
}

// AnalyzePath classifies a single argument token. It never fails: tokens it
// cannot make sense of (embedded null bytes) are reported as Absolute so
// the caller stays conservative. The analysis is purely syntactic; the
// token may name a file on another machine or one that does not exist.
//
// Both / and \ are recognized as separators regardless of host platform,
// because the token is untrusted text rather than a locally built path.
func AnalyzePath(token string) PathInfo {
	if token == "" {
		return PathInfo{Class: NotPath}
	}

	// A null byte truncates the path at syscall level, so the visible
	// token lies about the target. Refuse to reason about it.
	if strings.ContainsRune(token, 0) {
		return PathInfo{Class: Absolute}
	}

	p := normalizeToken(token)
	if p == "" {
		return PathInfo{Class: NotPath}
	}

	// Option flags are not paths, but a flag can smuggle one after '='
	// (--output=/etc/cron.d/job). Classify the embedded value instead.
	if strings.HasPrefix(p, "-") {
		if _, val, found := strings.Cut(p, "="); found && val != "" {
			return AnalyzePath(val)
		}
		return PathInfo{Class: NotPath}
	}

	// Rooted forms: /path, \\host\share (already slash-normalized), a
	// drive letter, or a home-anchored path. Home anchoring is treated as
	// absolute because it escapes any working tree.
	if strings.HasPrefix(p, "/") || isDrivePath(p) {
		clean := lexicalClean(p)
		return PathInfo{Class: Absolute, Anchored: clean}
	}
	if p == "~" || strings.HasPrefix(p, "~/") {
		return PathInfo{Class: Absolute, Anchored: lexicalClean(p)}
	}

	// Relative forms need either a separator or a dot segment to count as
	// path-like at all; "README" or "hello" are plain values.
	hasSep := strings.Contains(p, "/")
	isDotted := p == "." || p == ".." || strings.HasPrefix(p, "./") || strings.HasPrefix(p, "../")
	if !hasSep && !isDotted {
		return PathInfo{Class: NotPath}
	}

	clean := lexicalClean(p)
	if clean != ".." && !strings.HasPrefix(clean, "../") {
		return PathInfo{Class: RelativeSafe}
	}

	// The path escapes the working tree. Distinguish pure upward movement
	// (cd ..) from a path that anchors somewhere concrete after escaping
	// (../../etc/passwd). The latter names a target outside the tree and
	// gets matched against the risky-path table as if rooted.
	remainder := strings.TrimPrefix(clean, "..")
	for strings.HasPrefix(remainder, "/..") {
		remainder = strings.TrimPrefix(remainder, "/..")
	}
	if remainder == "" || remainder == "/" {
		return PathInfo{Class: RelativeTraversal}
	}
	return PathInfo{Class: RelativeTraversal, Anchored: remainder}
}

// normalizeToken hardens a token against Unicode and separator tricks
// before any shape detection: NFKC folds fullwidth forms, invisible
// formatting runes are dropped, cross-script homoglyphs map to ASCII, and
// backslash separators become slashes.
func normalizeToken(token string) string {
	t := strings.TrimSpace(token)
	t = strings.ToValidUTF8(t, "\uFFFD")
	t = norm.NFKC.String(t)
	t = stripInvisible(t)
	t = stripConfusables(t)
	t = norm.NFKC.String(t)
	t = strings.ReplaceAll(t, "\\", "/")
	return t
}

// lexicalClean collapses duplicate slashes and resolves . and .. segments
// without touching the filesystem.
func lexicalClean(p string) string {
	clean := path.Clean(p)
	if strings.HasPrefix(p, "/") && !strings.HasPrefix(clean, "/") {
		clean = "/" + clean
	}
	return clean
}

// isDrivePath reports whether p starts with a Windows drive letter.
func isDrivePath(p string) bool {
	return len(p) >= 2 && p[1] == ':' &&
		((p[0] >= 'a' && p[0] <= 'z') || (p[0] >= 'A' && p[0] <= 'Z'))
}

// confusables maps common cross-script homoglyphs to ASCII. An argument
// like /etc/pаsswd (Cyrillic а) must classify the same as /etc/passwd.
var confusables = map[rune]rune{
	// Cyrillic
	'\u0430': 'a', '\u0435': 'e', '\u0456': 'i', '\u043e': 'o',
	'\u0440': 'p', '\u0441': 'c', '\u0443': 'y', '\u0445': 'x',
	'\u0410': 'A', '\u0412': 'B', '\u0415': 'E', '\u041a': 'K',
	'\u041c': 'M', '\u041d': 'H', '\u041e': 'O', '\u0420': 'P',
	'\u0421': 'C', '\u0422': 'T', '\u0425': 'X',
	// Greek
	'\u03b1': 'a', '\u03b5': 'e', '\u03b9': 'i', '\u03bf': 'o',
	'\u03c1': 'p', '\u03c4': 't', '\u0391': 'A', '\u0392': 'B',
	'\u0395': 'E', '\u0397': 'H', '\u0399': 'I', '\u039a': 'K',
	'\u039c': 'M', '\u039d': 'N', '\u039f': 'O', '\u03a1': 'P',
	'\u03a4': 'T', '\u03a5': 'Y', '\u03a7': 'X',
}

// invisibles is the set of zero-width and directional formatting runes that
// are invisible to a human reader but defeat string matching.
var invisibles = map[rune]bool{
	'\u200b': true, '\u200c': true, '\u200d': true, '\u200e': true,
	'\u200f': true, '\u202a': true, '\u202b': true, '\u202c': true,
	'\u202d': true, '\u202e': true, '\u2060': true, '\u00ad': true,
	'\u034f': true, '\ufeff': true,
}

func stripInvisible(s string) string {
	return strings.Map(func(r rune) rune {
		if invisibles[r] {
			return -1
		}
		return r
	}, s)
}

func stripConfusables(s string) string {
	return strings.Map(func(r rune) rune {
		if ascii, ok := confusables[r]; ok {
			return ascii
		}
		return r
	}, s)
}
