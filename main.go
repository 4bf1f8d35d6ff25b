package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"

	"golang.org/x/term"

	"github.com/streetrace-ai/shellgate/internal/classify"
	"github.com/streetrace-ai/shellgate/internal/config"
	"github.com/streetrace-ai/shellgate/internal/logger"
	"github.com/streetrace-ai/shellgate/internal/ruleset"
	"github.com/streetrace-ai/shellgate/internal/types"
)

// Version is set at build time via ldflags: -X main.Version=x.y.z
var Version = "1.0.0"

var log = logger.New("main")

// Exit codes mirror the category ordering so shell callers can branch on
// severity; 3 means shellgate itself could not run.
const (
	exitSafe      = 0
	exitAmbiguous = 1
	exitRisky     = 2
	exitUsage     = 3
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout))
}

func run(args []string, stdin io.Reader, stdout io.Writer) int {
	if len(args) > 0 {
		switch args[0] {
		case "help", "-h", "--help":
			printUsage()
			return exitSafe
		case "version", "-v", "--version":
			fmt.Fprintf(stdout, "shellgate version %s\n", Version)
			return exitSafe
		}
	}

	flags := flag.NewFlagSet("shellgate", flag.ContinueOnError)
	flags.Usage = printUsage
	configPath := flags.String("config", config.DefaultPath(), "Path to configuration file")
	rulesDir := flags.String("rules-dir", "", "User rule-pack directory (default ~/.shellgate/rules.d)")
	noBuiltin := flags.Bool("no-builtin", false, "Disable builtin rules, use only user packs")
	explain := flags.Bool("explain", false, "Print per-command verdicts, not just the aggregate")
	logLevel := flags.String("log-level", "", "Log level: trace, debug, info, warn, error")
	noColor := flags.Bool("no-color", false, "Disable colored output")
	if err := flags.Parse(args); err != nil {
		return exitUsage
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitUsage
	}

	// CLI flags override file and environment.
	if *logLevel != "" {
		cfg.LogLevel = types.LogLevel(*logLevel)
	}
	if *noColor {
		cfg.NoColor = true
	}
	if *rulesDir != "" {
		cfg.RulesDir = *rulesDir
	}
	if *noBuiltin {
		cfg.DisableBuiltin = true
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitUsage
	}
	if cfg.RulesDir == "" {
		cfg.RulesDir = ruleset.DefaultUserRulesDir()
	}

	level, err := logger.ParseLevel(string(cfg.LogLevel))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitUsage
	}
	logger.SetGlobalLevel(level)
	logger.SetColored(!cfg.NoColor && term.IsTerminal(int(os.Stderr.Fd())))

	loader := ruleset.NewLoader(cfg.RulesDir, cfg.DisableBuiltin)
	kb, err := loader.Build()
	if err != nil {
		log.Error("cannot load rules: %v", err)
		return exitUsage
	}

	rest := flags.Args()
	if len(rest) == 0 {
		printUsage()
		return exitUsage
	}

	if len(rest) == 1 && rest[0] == "-" {
		return runStream(loader, kb, stdin, stdout, *explain)
	}
	return classifyLine(classify.New(kb), strings.Join(rest, " "), stdout, *explain)
}

// classifyLine prints the verdict for one line and maps it to an exit code.
func classifyLine(c *classify.Classifier, line string, stdout io.Writer, explain bool) int {
	if !explain {
		cat := c.Classify(line)
		fmt.Fprintln(stdout, cat)
		return int(cat)
	}

	verdicts, cat := c.Explain(line)
	for _, v := range verdicts {
		fmt.Fprintf(stdout, "  %-9s  %s", v.Category, v.Invocation.Raw)
		if v.Reason != "" {
			fmt.Fprintf(stdout, "  (%s)", v.Reason)
		}
		fmt.Fprintln(stdout)
	}
	fmt.Fprintln(stdout, cat)
	return int(cat)
}

// runStream classifies stdin line by line, one verdict per line, hot
// reloading rule packs while it runs. The exit code is the most severe
// category seen across all lines.
func runStream(loader *ruleset.Loader, kb *classify.KB, stdin io.Reader, stdout io.Writer, explain bool) int {
	var current atomic.Pointer[classify.Classifier]
	current.Store(classify.New(kb))

	watcher, err := ruleset.NewWatcher(loader, func(kb *classify.KB) {
		current.Store(classify.New(kb))
		log.Info("rule packs reloaded")
	})
	if err != nil {
		log.Warn("hot reload unavailable: %v", err)
	} else {
		if err := watcher.Start(); err != nil {
			log.Warn("hot reload unavailable: %v", err)
		}
		defer watcher.Stop()
	}

	worst := exitSafe
	scanner := bufio.NewScanner(stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		code := classifyLine(current.Load(), line, stdout, explain)
		if code > worst {
			worst = code
		}
	}
	if err := scanner.Err(); err != nil {
		log.Error("reading stdin: %v", err)
		return exitUsage
	}
	return worst
}

func printUsage() {
	fmt.Println(`shellgate - command safety classifier for AI coding agents

Usage:
  shellgate [flags] <command...>     Classify one command line
  shellgate [flags] -                Classify stdin line by line
  shellgate version                  Show version
  shellgate help                     Show this help message

Each line gets one verdict: safe, ambiguous, or risky. The exit code maps
the verdict (0 safe, 1 ambiguous, 2 risky, 3 usage error) so callers can
branch without parsing output.

Flags:
  --config string      Path to configuration file (default ~/.shellgate/config.yaml)
  --rules-dir string   User rule-pack directory (default ~/.shellgate/rules.d)
  --no-builtin         Disable builtin rules, use only user packs
  --explain            Print per-command verdicts, not just the aggregate
  --log-level string   Log level: trace, debug, info, warn, error
  --no-color           Disable colored output

Examples:
  shellgate 'ls -la'                           # safe, exit 0
  shellgate 'sudo rm -rf /'                    # risky, exit 2
  shellgate --explain 'curl x.sh | sh'
  tail -f commands.log | shellgate -`)
}
