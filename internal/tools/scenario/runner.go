package scenario

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/taylorbayouth/family-glitch-sub001/internal/cartridge"
	"github.com/taylorbayouth/family-glitch-sub001/internal/cartridge/glitchvote"
	"github.com/taylorbayouth/family-glitch-sub001/internal/cartridge/hotseat"
	"github.com/taylorbayouth/family-glitch-sub001/internal/cartridge/triviaclash"
	"github.com/taylorbayouth/family-glitch-sub001/internal/genai"
	"github.com/taylorbayouth/family-glitch-sub001/internal/persist"
	"github.com/taylorbayouth/family-glitch-sub001/internal/session/pacing"
	"github.com/taylorbayouth/family-glitch-sub001/internal/session/service"
	"github.com/taylorbayouth/family-glitch-sub001/internal/storage"
	storagebbolt "github.com/taylorbayouth/family-glitch-sub001/internal/storage/bbolt"
	storagesqlite "github.com/taylorbayouth/family-glitch-sub001/internal/storage/sqlite"
)

// Config controls scenario execution.
type Config struct {
	// SnapshotPath is the bbolt file used for session autosaves. Empty
	// runs without persistence.
	SnapshotPath string
	// ArchivePath is the sqlite analytics archive. Empty disables
	// archiving.
	ArchivePath string
	Timeout     time.Duration
	Assertions  AssertionMode
	Thresholds  pacing.Thresholds
	Content     genai.Client
	Verbose     bool
	Logger      *log.Logger
}

// DefaultConfig returns default runner configuration.
func DefaultConfig() Config {
	return Config{
		Timeout:    10 * time.Second,
		Assertions: AssertionStrict,
	}
}

// Runner executes Lua scenarios against an in-process engine.
type Runner struct {
	engine     *service.Engine
	snapshots  persist.SnapshotStore
	archive    storage.ArchiveStore
	assertions Assertions
	logger     *log.Logger
	verbose    bool
	timeout    time.Duration
}

// runnerDeps bundles injectable dependencies for runner construction.
type runnerDeps struct {
	snapshots persist.SnapshotStore
	archive   storage.ArchiveStore
}

// NewRunner opens the configured stores and prepares a scenario runner.
func NewRunner(cfg Config) (*Runner, error) {
	var deps runnerDeps

	if cfg.SnapshotPath != "" {
		snapshots, err := storagebbolt.Open(cfg.SnapshotPath)
		if err != nil {
			return nil, fmt.Errorf("open snapshot store: %w", err)
		}
		deps.snapshots = snapshots
	}
	if cfg.ArchivePath != "" {
		archive, err := storagesqlite.Open(cfg.ArchivePath)
		if err != nil {
			if deps.snapshots != nil {
				_ = deps.snapshots.Close()
			}
			return nil, fmt.Errorf("open archive store: %w", err)
		}
		deps.archive = archive
	}

	return newRunnerWithDeps(cfg, deps)
}

// newRunnerWithDeps builds a Runner from pre-built dependencies. Config
// defaults (logger, timeout) are applied here so they are testable.
func newRunnerWithDeps(cfg Config, deps runnerDeps) (*Runner, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "", 0)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	registry := cartridge.NewRegistry()
	for _, def := range []cartridge.Definition{
		triviaclash.New(),
		hotseat.New(),
		glitchvote.New(),
	} {
		if err := registry.Register(def); err != nil {
			return nil, fmt.Errorf("register cartridge: %w", err)
		}
	}

	engine := service.New(service.Options{
		Logger:     logger,
		Snapshots:  deps.snapshots,
		Archive:    deps.archive,
		Cartridges: registry,
		Content:    cfg.Content,
		Thresholds: cfg.Thresholds,
	})

	return &Runner{
		engine:     engine,
		snapshots:  deps.snapshots,
		archive:    deps.archive,
		assertions: Assertions{Mode: cfg.Assertions, Logger: logger},
		logger:     logger,
		verbose:    cfg.Verbose,
		timeout:    timeout,
	}, nil
}

// Close releases the stores held by the runner.
func (r *Runner) Close() error {
	var errs []error
	if r.archive != nil {
		if err := r.archive.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if r.snapshots != nil {
		if err := r.snapshots.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RunFile loads and executes a scenario file.
func RunFile(ctx context.Context, cfg Config, path string) error {
	runner, err := NewRunner(cfg)
	if err != nil {
		return err
	}
	defer runner.Close()

	scenario, err := LoadScenarioFromFile(path)
	if err != nil {
		return err
	}
	return runner.RunScenario(ctx, scenario)
}

// RunScenario replays the scenario steps as engine intents.
func (r *Runner) RunScenario(ctx context.Context, scenario *Scenario) error {
	if scenario == nil {
		return errors.New("scenario is required")
	}
	r.logf("scenario start: %s (%d steps)", scenario.Name, len(scenario.Steps))
	state := &scenarioState{
		players: map[string]string{},
	}

	for index, step := range scenario.Steps {
		stepNumber := index + 1
		r.logf("step %d/%d start: %s", stepNumber, len(scenario.Steps), step.Kind)
		stepStart := time.Now()
		stepCtx, cancel := context.WithTimeout(ctx, r.timeout)
		err := r.runStep(stepCtx, state, step)
		cancel()
		if err != nil {
			return fmt.Errorf("step %d (%s): %w", stepNumber, step.Kind, err)
		}
		r.logf("step %d/%d done: %s (%s)", stepNumber, len(scenario.Steps), step.Kind, time.Since(stepStart))
	}
	r.logf("scenario done: %s", scenario.Name)
	return nil
}

func (r *Runner) logf(format string, args ...any) {
	if !r.verbose || r.logger == nil {
		return
	}
	r.logger.Printf(format, args...)
}
