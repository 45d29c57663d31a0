// Package main is the fairdice CLI: a provably-fair dice duel between the
// user and the computer, with every random decision backed by a
// commit/reveal exchange the user can verify after the fact.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/cory-johannsen/fairdice/internal/cli"
	"github.com/cory-johannsen/fairdice/internal/config"
	"github.com/cory-johannsen/fairdice/internal/fair"
	"github.com/cory-johannsen/fairdice/internal/game/dice"
	"github.com/cory-johannsen/fairdice/internal/game/match"
	"github.com/cory-johannsen/fairdice/internal/game/probability"
	"github.com/cory-johannsen/fairdice/internal/observability"
)

const usageExample = "example: fairdice 2,2,4,4,9,9 6,8,1,1,8,6 7,5,3,7,5,3"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("fairdice", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	configPath := fs.String("config", "", "path to YAML configuration file (optional)")
	presetsPath := fs.String("presets", "", "path to YAML dice preset file")
	presetName := fs.String("preset", "", "named preset from -presets instead of positional dice")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintln(os.Stderr, usageExample)
		return 2
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "fairdice: %v\n", err)
			return 2
		}
		cfg = loaded
	}

	// The dice set is validated before the entropy source or any exchange
	// exists: a usage error must consume zero entropy.
	set, code := resolveSet(fs.Args(), *presetsPath, *presetName)
	if set == nil {
		return code
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fairdice: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	help := func() string { return probability.RenderTable(set) }
	prompter := cli.NewPrompter(os.Stdin, os.Stdout, set, help, cfg.UI)

	src := fair.NewCryptoSource()
	factory := match.NewFairExchangeFactory(fair.NewGenerator(src), logger)
	orch := match.NewOrchestrator(set, factory, prompter, src, os.Stdout, logger)

	st, err := orch.Run()
	switch {
	case errors.Is(err, cli.ErrExit):
		fmt.Fprintln(os.Stdout, "Bye.")
		return 0
	case errors.Is(err, match.ErrFairnessViolation):
		fmt.Fprintln(os.Stderr, "TRUST FAILURE: a revealed key and value do not match the published HMAC; this match cannot be trusted.")
		logger.Error("match ended untrusted", zap.Error(err))
		return 1
	case err != nil:
		fmt.Fprintf(os.Stderr, "fairdice: %v\n", err)
		return 1
	}

	logger.Info("session complete", zap.Stringer("outcome", st.Outcome))
	return 0
}

// resolveSet builds the dice set from positional arguments or a named
// preset. On failure it prints guidance and returns a nil set with the
// process exit code.
func resolveSet(args []string, presetsPath, presetName string) (*dice.Set, int) {
	if presetName != "" {
		if presetsPath == "" {
			fmt.Fprintln(os.Stderr, "fairdice: -preset requires -presets")
			return nil, 2
		}
		presets, err := dice.LoadPresets(presetsPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "fairdice: %v\n", err)
			return nil, 2
		}
		set, ok := presets[presetName]
		if !ok {
			fmt.Fprintf(os.Stderr, "fairdice: unknown preset %q (available: %v)\n", presetName, presets.Names())
			return nil, 2
		}
		return set, 0
	}

	set, err := dice.ParseSet(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fairdice: %v\n%s\n", err, usageExample)
		return nil, 2
	}
	return set, 0
}
