package ruleset

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/streetrace-ai/shellgate/internal/classify"
	"github.com/streetrace-ai/shellgate/internal/logger"
)

var log = logger.New("ruleset")

//go:embed builtin/*.yaml
var builtinFS embed.FS

// Loader reads rule packs from the embedded builtin set and a user
// directory, and builds knowledge bases from them.
type Loader struct {
	userDir        string
	disableBuiltin bool
}

// NewLoader creates a loader. userDir may be empty to skip user packs.
func NewLoader(userDir string, disableBuiltin bool) *Loader {
	return &Loader{userDir: userDir, disableBuiltin: disableBuiltin}
}

// DefaultUserRulesDir returns the default user rules directory.
func DefaultUserRulesDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".shellgate/rules.d"
	}
	return filepath.Join(home, ".shellgate", "rules.d")
}

// Build loads everything and returns the knowledge base. Builtin packs are
// strict: any error aborts, since a broken builtin set is a packaging
// defect. User packs are lenient: a bad file is skipped with a warning so
// one typo does not take classification down.
func (l *Loader) Build() (*classify.KB, error) {
	packs, err := l.loadBuiltin()
	if err != nil {
		return nil, err
	}
	packs = append(packs, l.loadUser()...)

	kb, err := classify.NewKB(mergePacks(packs, !l.disableBuiltin))
	if err != nil {
		return nil, fmt.Errorf("building knowledge base: %w", err)
	}
	return kb, nil
}

// loadBuiltin loads all embedded packs.
func (l *Loader) loadBuiltin() ([]Pack, error) {
	if l.disableBuiltin {
		log.Warn("builtin rule packs disabled")
		return nil, nil
	}

	var packs []Pack
	err := fs.WalkDir(builtinFS, "builtin", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".yaml") {
			return nil
		}
		data, err := builtinFS.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		pack, err := parsePack(data, path, SourceBuiltin)
		if err != nil {
			return err
		}
		packs = append(packs, pack)
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Debug("loaded %d builtin rule packs", len(packs))
	return packs, nil
}

// loadUser loads packs from the user rules directory. Each file is read
// once; packs that fail to parse, validate, or merge cleanly against the
// defaults are skipped with a warning.
func (l *Loader) loadUser() []Pack {
	if l.userDir == "" {
		return nil
	}

	entries, err := os.ReadDir(l.userDir)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn("cannot read rules directory %s: %v", l.userDir, err)
		}
		return nil
	}

	var packs []Pack
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || (!strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml")) {
			continue
		}
		path := filepath.Join(l.userDir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			log.Warn("skipping %s: %v", path, err)
			continue
		}
		pack, err := parsePack(data, path, SourceUser)
		if err != nil {
			log.Warn("skipping %s: %v", path, err)
			continue
		}
		// A pack that contradicts the defaults (or itself) would poison
		// the merged KB; reject it in isolation instead.
		if _, err := classify.NewKB(mergePacks([]Pack{pack}, !l.disableBuiltin)); err != nil {
			log.Warn("skipping %s: %v", path, err)
			continue
		}
		packs = append(packs, pack)
	}
	log.Debug("loaded %d user rule packs from %s", len(packs), l.userDir)
	return packs
}
