// Command weakarray-stress exercises a shared thread-safe weakarray.Array from
// several goroutines while the garbage collector reclaims most of its values,
// then prints a report.
package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/natefinch/atomic"
	"github.com/plus3/weakref/weakarray"
	flag "github.com/spf13/pflag"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	def := DefaultConfig()

	flagSet := flag.NewFlagSet("weakarray-stress", flag.ContinueOnError)
	flagSet.SetOutput(stderr)

	configPath := flagSet.String("config", "", "JSONC config file applied before flags")
	duration := flagSet.Duration("duration", def.Duration, "total duration the test should run for")
	workers := flagSet.Int("workers", def.Workers, "number of concurrent workers")
	objects := flagSet.Int("objects", def.Objects, "objects allocated per worker per round")
	retain := flagSet.Float64("retain", def.Retain, "share of each round kept strongly reachable")
	compactCycle := flagSet.Int("compact-cycle", def.CompactCycle, "mutations between automatic compactions, 0 disables")
	kind := flagSet.String("kind", def.Kind.String(), "reference kind: weak or strong")
	format := flagSet.String("format", def.Format, "report format: text or yaml")
	out := flagSet.String("out", def.Out, "write the report to this file instead of stdout")
	logLevel := flagSet.String("log-level", def.LogLevel, "log level: trace, debug, info, warning, err or disabled")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, "error:", err)
		return 2
	}

	cfg := def
	if *configPath != "" {
		fileCfg, err := LoadConfigFile(*configPath, cfg)
		if err != nil {
			fmt.Fprintln(stderr, "error:", err)
			return 1
		}
		cfg = fileCfg
	}

	if flagSet.Changed("duration") {
		cfg.Duration = *duration
	}
	if flagSet.Changed("workers") {
		cfg.Workers = *workers
	}
	if flagSet.Changed("objects") {
		cfg.Objects = *objects
	}
	if flagSet.Changed("retain") {
		cfg.Retain = *retain
	}
	if flagSet.Changed("compact-cycle") {
		cfg.CompactCycle = *compactCycle
	}
	if flagSet.Changed("kind") {
		k, err := weakarray.ParseReferenceKind(*kind)
		if err != nil {
			fmt.Fprintln(stderr, "error:", err)
			return 1
		}
		cfg.Kind = k
	}
	if flagSet.Changed("format") {
		cfg.Format = *format
	}
	if flagSet.Changed("out") {
		cfg.Out = *out
	}
	if flagSet.Changed("log-level") {
		cfg.LogLevel = *logLevel
	}

	if err := validateConfig(cfg); err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}

	logger, err := newLogger(stderr, cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}

	logger.Info().
		Dur(`duration`, cfg.Duration).
		Int(`workers`, cfg.Workers).
		Int(`objects`, cfg.Objects).
		Str(`kind`, cfg.Kind.String()).
		Log(`starting weak array stress test`)

	runCtx, cancel := context.WithTimeout(ctx, cfg.Duration)
	defer cancel()

	report, err := Run(runCtx, cfg, logger)
	if err != nil {
		logger.Err().Err(err).Log(`stress test failed`)
		return 1
	}

	var buf bytes.Buffer
	if err := report.Write(&buf); err != nil {
		logger.Err().Err(err).Log(`failed to render report`)
		return 1
	}

	if cfg.Out == "" {
		if _, err := stdout.Write(buf.Bytes()); err != nil {
			logger.Err().Err(err).Log(`failed to write report`)
			return 1
		}
		return 0
	}

	if err := atomic.WriteFile(cfg.Out, &buf); err != nil {
		logger.Err().Err(err).Str(`path`, cfg.Out).Log(`failed to write report`)
		return 1
	}
	logger.Info().Str(`path`, cfg.Out).Log(`report written`)
	return 0
}
