// Command fuzzrex builds typo-tolerant regular expressions from search terms
// and either prints them, scans files with them, or serves them over HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/MrWong99/fuzzrex/internal/config"
	"github.com/MrWong99/fuzzrex/internal/observe"
	"github.com/MrWong99/fuzzrex/internal/scan"
	"github.com/MrWong99/fuzzrex/internal/server"
	"github.com/MrWong99/fuzzrex/pkg/fuzzy"
)

func main() {
	os.Exit(run())
}

func run() int {
	// ── CLI flags ──────────────────────────────────────────────────────────────
	configPath := flag.String("config", "", "path to the YAML configuration file (optional)")
	presetName := flag.String("preset", "", "named option preset from the config file")

	minWordLength := flag.Int("min-word-length", fuzzy.DefaultMinWordLength, "words up to this length must appear contiguously")
	ratio := flag.Float64("ratio", fuzzy.DefaultRequiredCharRatio, "fraction of each word's characters required in order (0..1)")
	caseSensitive := flag.Bool("case-sensitive", false, "match letter case exactly")
	maxGap := flag.Int("max-gap", fuzzy.DefaultMaxCharGap, "maximum characters allowed between matched characters")

	serve := flag.Bool("serve", false, "run the HTTP API server instead of a one-shot command")
	listen := flag.String("listen", "", "listen address for -serve (overrides config)")
	phonetic := flag.Bool("phonetic", false, "also accept lines containing sound-alike words")
	concurrency := flag.Int("concurrency", 0, "number of files scanned in parallel (overrides config)")

	flag.Usage = usage
	flag.Parse()

	// ── Load configuration ────────────────────────────────────────────────────
	cfg := &config.Config{}
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				fmt.Fprintf(os.Stderr, "fuzzrex: config file %q not found — copy configs/example.yaml to get started\n", *configPath)
			} else {
				fmt.Fprintf(os.Stderr, "fuzzrex: %v\n", err)
			}
			return 1
		}
		cfg = loaded
	}

	// ── Logger ────────────────────────────────────────────────────────────────
	logger := newLogger(cfg.Server.LogLevel)
	slog.SetDefault(logger)

	// ── Signal context ────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *serve {
		return runServe(ctx, cfg, *configPath, *listen)
	}

	if flag.NArg() < 1 {
		usage()
		return 2
	}

	// ── Build the pattern config ──────────────────────────────────────────────
	term := flag.Arg(0)
	patternCfg, err := buildPatternConfig(cfg, *presetName, term, explicitFlags(), *minWordLength, *ratio, *caseSensitive, *maxGap)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fuzzrex: %v\n", err)
		return 1
	}

	// One-shot pattern mode: no files given, print the regex and exit.
	if flag.NArg() == 1 {
		fmt.Println(patternCfg.Pattern())
		return 0
	}

	return runScan(ctx, cfg, patternCfg, flag.Args()[1:], *phonetic, *concurrency)
}

// runServe starts the HTTP API server, wiring the metrics provider and the
// config file watcher for hot reload.
func runServe(ctx context.Context, cfg *config.Config, configPath, listen string) int {
	if listen != "" {
		cfg.Server.ListenAddr = listen
	}
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = ":8080"
	}

	shutdown, err := observe.InitProvider(ctx, observe.ProviderConfig{ServiceName: "fuzzrex"})
	if err != nil {
		slog.Error("failed to initialise telemetry", "err", err)
		return 1
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			slog.Warn("telemetry shutdown error", "err", err)
		}
	}()

	srv := server.New(cfg, observe.DefaultMetrics())

	// Watch the config file for preset changes when one was given.
	if configPath != "" {
		watcher, err := config.NewWatcher(configPath, func(cfg *config.Config, diff config.ConfigDiff) {
			if diff.PresetsChanged || diff.DefaultPresetChanged {
				srv.UpdateConfig(cfg)
			}
		})
		if err != nil {
			slog.Error("failed to start config watcher", "err", err)
			return 1
		}
		defer watcher.Stop()
	}

	slog.Info("server ready — press Ctrl+C to shut down")

	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("server error", "err", err)
		return 1
	}
	slog.Info("goodbye")
	return 0
}

// runScan compiles the pattern and scans the given paths (or stdin when the
// sole path is "-"), printing matches in grep style. Exit codes follow grep:
// 0 when something matched, 1 when nothing did, 2 on error.
func runScan(ctx context.Context, cfg *config.Config, patternCfg *fuzzy.Config, paths []string, phonetic bool, concurrency int) int {
	re, err := patternCfg.Compile()
	if err != nil {
		slog.Error("generated pattern failed to compile", "err", err)
		return 2
	}

	var opts []scan.Option
	if n := concurrency; n > 0 {
		opts = append(opts, scan.WithConcurrency(n))
	} else if cfg.Scan.Concurrency > 0 {
		opts = append(opts, scan.WithConcurrency(cfg.Scan.Concurrency))
	}
	if phonetic || cfg.Scan.Phonetic {
		opts = append(opts, scan.WithPhonetic(patternCfg.SearchTerm()))
	}

	scanner := scan.New(re, opts...)

	var matches []scan.Match
	if len(paths) == 1 && paths[0] == "-" {
		matches, err = scanner.Reader(ctx, os.Stdin)
	} else {
		matches, err = scanner.Files(ctx, paths)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "fuzzrex: %v\n", err)
		return 2
	}

	for _, m := range matches {
		if m.Path == "" {
			fmt.Printf("%d:%s\n", m.Line, m.Text)
		} else {
			fmt.Printf("%s:%d:%s\n", m.Path, m.Line, m.Text)
		}
	}
	if len(matches) == 0 {
		return 1
	}
	return 0
}

// buildPatternConfig layers options: preset from the config file first, then
// any flag the user set explicitly on the command line.
func buildPatternConfig(cfg *config.Config, presetName, term string, set map[string]bool, minWordLength int, ratio float64, caseSensitive bool, maxGap int) (*fuzzy.Config, error) {
	var opts []fuzzy.Option

	name := presetName
	if name == "" {
		name = cfg.DefaultPreset
	}
	if name != "" {
		preset, ok := cfg.PresetByName(name)
		if !ok {
			return nil, fmt.Errorf("unknown preset %q", name)
		}
		opts = append(opts, preset.Options()...)
	}

	if set["min-word-length"] {
		opts = append(opts, fuzzy.WithMinWordLength(minWordLength))
	}
	if set["ratio"] {
		opts = append(opts, fuzzy.WithRequiredCharRatio(ratio))
	}
	if set["case-sensitive"] {
		opts = append(opts, fuzzy.WithCaseSensitive(caseSensitive))
	}
	if set["max-gap"] {
		opts = append(opts, fuzzy.WithMaxCharGap(maxGap))
	}

	return fuzzy.New(term, opts...)
}

// explicitFlags reports which flags the user actually set, so that presets
// are only overridden deliberately.
func explicitFlags() map[string]bool {
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

func usage() {
	fmt.Fprintf(os.Stderr, `usage:
  fuzzrex [options] <term>            print the generated regex
  fuzzrex [options] <term> <file>...  scan files (use "-" for stdin)
  fuzzrex -serve [options]            run the HTTP API server

options:
`)
	flag.PrintDefaults()
}

func newLogger(level config.LogLevel) *slog.Logger {
	var lvl slog.Level
	switch level {
	case config.LogDebug:
		lvl = slog.LevelDebug
	case config.LogWarn:
		lvl = slog.LevelWarn
	case config.LogError:
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
