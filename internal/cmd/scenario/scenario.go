// Package scenario wires configuration for the scenario CLI.
package scenario

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/taylorbayouth/family-glitch-sub001/internal/platform/config"
	"github.com/taylorbayouth/family-glitch-sub001/internal/session/pacing"
	"github.com/taylorbayouth/family-glitch-sub001/internal/tools/scenario"
)

// Config holds scenario command configuration.
type Config struct {
	Scenario     string        `env:"FAMILY_GLITCH_SCENARIO_FILE"`
	SnapshotPath string        `env:"FAMILY_GLITCH_SCENARIO_SNAPSHOT"`
	ArchivePath  string        `env:"FAMILY_GLITCH_SCENARIO_ARCHIVE"`
	Assertions   bool          `env:"FAMILY_GLITCH_SCENARIO_ASSERT"  envDefault:"true"`
	Verbose      bool          `env:"FAMILY_GLITCH_SCENARIO_VERBOSE"`
	Timeout      time.Duration `env:"FAMILY_GLITCH_SCENARIO_TIMEOUT" envDefault:"10s"`
}

// ParseConfig parses flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	fs.StringVar(&cfg.Scenario, "scenario", cfg.Scenario, "path to scenario lua file")
	fs.StringVar(&cfg.SnapshotPath, "snapshot", cfg.SnapshotPath, "bbolt snapshot file (empty runs without persistence)")
	fs.StringVar(&cfg.ArchivePath, "archive", cfg.ArchivePath, "sqlite archive file (empty disables archiving)")
	fs.BoolVar(&cfg.Assertions, "assert", cfg.Assertions, "enable assertions (disable to log expectations)")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "enable verbose logging")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "timeout per step")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run executes the scenario command.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	if cfg.Scenario == "" {
		return errors.New("scenario path is required")
	}

	engineCfg, err := config.LoadEngine()
	if err != nil {
		return err
	}

	mode := scenario.AssertionStrict
	if !cfg.Assertions {
		mode = scenario.AssertionLogOnly
	}

	logger := log.New(errOut, "", 0)
	return scenario.RunFile(ctx, scenario.Config{
		SnapshotPath: cfg.SnapshotPath,
		ArchivePath:  cfg.ArchivePath,
		Timeout:      cfg.Timeout,
		Assertions:   mode,
		Thresholds: pacing.Thresholds{
			Act1MinFacts:  engineCfg.Act1MinFacts,
			Act1MaxFacts:  engineCfg.Act1MaxFacts,
			Act2MinRounds: engineCfg.Act2MinRounds,
			Act2MaxRounds: engineCfg.Act2MaxRounds,
			Act1Share:     engineCfg.Act1Share,
			Act2Share:     engineCfg.Act2Share,
		},
		Verbose: cfg.Verbose,
		Logger:  logger,
	}, cfg.Scenario)
}
