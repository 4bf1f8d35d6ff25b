// Package ruleset loads risk rule packs and builds the immutable knowledge
// base the classifier consults. The builtin pack ships embedded in the
// binary; user packs extend it from a rules directory. The core in
// internal/classify never reads files; this package is the collaborator
// that feeds it.
package ruleset

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/streetrace-ai/shellgate/internal/classify"
)

// Pack is one YAML rule-pack file. All sections are optional; a pack that
// only adds risky paths is fine.
type Pack struct {
	// Name identifies the pack in logs and errors.
	Name string `yaml:"name" validate:"required"`
	// Description is free text for humans.
	Description string `yaml:"description"`

	// SafeCommands extend the allowlist.
	SafeCommands []string `yaml:"safe_commands" validate:"dive,required"`
	// RiskyCommands extend the unconditional denylist.
	RiskyCommands []string `yaml:"risky_commands" validate:"dive,required"`
	// RiskyPairs flag a command only together with an argument substring.
	RiskyPairs []PairEntry `yaml:"risky_pairs" validate:"dive"`
	// RiskyPaths are absolute paths or path globs; each entry also covers
	// its subtree.
	RiskyPaths []string `yaml:"risky_paths" validate:"dive,required"`
	// PathExceptions carve holes out of risky subtrees.
	PathExceptions []string `yaml:"path_exceptions" validate:"dive,required"`

	// Source records where the pack came from; set by the loader.
	Source Source `yaml:"-"`
	// FilePath is the file the pack was loaded from; set by the loader.
	FilePath string `yaml:"-"`
}

// PairEntry is the YAML form of a command+argument risk rule.
type PairEntry struct {
	Command     string `yaml:"command" validate:"required"`
	ArgContains string `yaml:"arg_contains" validate:"required"`
}

// Source represents the origin of a pack.
type Source string

// Pack sources
const (
	SourceBuiltin Source = "builtin"
	SourceUser    Source = "user"
)

var validate = validator.New()

// parsePack decodes and validates one YAML document.
func parsePack(data []byte, filePath string, source Source) (Pack, error) {
	var p Pack
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Pack{}, fmt.Errorf("parse %s: %w", filePath, err)
	}
	if err := validate.Struct(&p); err != nil {
		return Pack{}, fmt.Errorf("validate %s: %w", filePath, err)
	}
	p.Source = source
	p.FilePath = filePath
	return p, nil
}

// mergePacks folds packs into classification tables, starting from the
// compiled-in defaults unless includeDefaults is false.
func mergePacks(packs []Pack, includeDefaults bool) classify.Tables {
	var t classify.Tables
	if includeDefaults {
		t = classify.DefaultTables()
	}
	for _, p := range packs {
		t.SafeCommands = append(t.SafeCommands, p.SafeCommands...)
		t.RiskyCommands = append(t.RiskyCommands, p.RiskyCommands...)
		for _, pair := range p.RiskyPairs {
			t.RiskyPairs = append(t.RiskyPairs, classify.PairRule{
				Command:     pair.Command,
				ArgContains: pair.ArgContains,
			})
		}
		t.RiskyPaths = append(t.RiskyPaths, p.RiskyPaths...)
		t.PathExceptions = append(t.PathExceptions, p.PathExceptions...)
	}
	return t
}
