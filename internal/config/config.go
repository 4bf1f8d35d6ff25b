// Package config loads shellgate configuration from a YAML file with
// environment overrides. Precedence: defaults < config file < SHELLGATE_*
// environment < CLI flags (applied by main).
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/streetrace-ai/shellgate/internal/logger"
	"github.com/streetrace-ai/shellgate/internal/types"
)

var cfgLog = logger.New("config")

// Config represents the shellgate configuration
type Config struct {
	// LogLevel is the minimum log level (trace, debug, info, warn, error).
	LogLevel types.LogLevel `yaml:"log_level" envconfig:"SHELLGATE_LOG_LEVEL"`
	// NoColor disables colored output.
	NoColor bool `yaml:"no_color" envconfig:"SHELLGATE_NO_COLOR"`
	// RulesDir is the user rule-pack directory. Defaults to
	// ~/.shellgate/rules.d.
	RulesDir string `yaml:"rules_dir" envconfig:"SHELLGATE_RULES_DIR"`
	// DisableBuiltin drops the embedded rule packs and the compiled-in
	// tables, leaving only user packs.
	DisableBuiltin bool `yaml:"disable_builtin" envconfig:"SHELLGATE_DISABLE_BUILTIN"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: types.LogLevelInfo,
		NoColor:  false,
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".shellgate/config.yaml"
	}
	return filepath.Join(home, ".shellgate", "config.yaml")
}

// isUnknownFieldError returns true if the error is from yaml.Decoder.KnownFields(true)
// detecting an unrecognized key (e.g. typo like "log_levl:").
func isUnknownFieldError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "not found in type")
}

// Load loads configuration from a YAML file, then applies SHELLGATE_*
// environment overrides. A missing file is not an error; the defaults
// apply. Load does NOT call Validate(): callers apply CLI overrides first,
// then validate.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, applyEnv(cfg)
		}
		return nil, err
	}

	// Try strict decode to warn about unknown fields (typos)
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if isUnknownFieldError(err) {
			cfgLog.Warn("config has unknown fields (ignored): %v", err)
			// Re-parse without strict mode for forward compatibility
			cfg = DefaultConfig()
			if err2 := yaml.Unmarshal(data, cfg); err2 != nil {
				return nil, fmt.Errorf("config parse error: %w", err2)
			}
		} else if !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("config parse error: %w", err)
		}
	}

	return cfg, applyEnv(cfg)
}

func applyEnv(cfg *Config) error {
	if err := envconfig.Process("", cfg); err != nil {
		return fmt.Errorf("reading environment overrides: %w", err)
	}
	return nil
}

// Validate checks the configuration, collecting all problems into one
// error so the user can fix everything in a single pass.
func (c *Config) Validate() error {
	var errs []string

	if !c.LogLevel.OrDefault().Valid() {
		errs = append(errs, fmt.Sprintf("log_level: must be one of trace, debug, info, warn, error (got %q)", c.LogLevel))
	}
	if c.RulesDir != "" {
		if info, err := os.Stat(c.RulesDir); err == nil && !info.IsDir() {
			errs = append(errs, fmt.Sprintf("rules_dir: %s is not a directory", c.RulesDir))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	var sb strings.Builder
	sb.WriteString("config validation failed:\n")
	for i, e := range errs {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, e)
	}
	return errors.New(sb.String())
}
