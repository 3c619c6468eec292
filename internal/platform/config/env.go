// Package config loads engine configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	apperrors "github.com/taylorbayouth/family-glitch-sub001/internal/platform/errors"
)

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Engine holds the tunable knobs for a game session.
type Engine struct {
	// SnapshotPath is the bbolt file holding the resumable session snapshot.
	SnapshotPath string `env:"FAMILY_GLITCH_SNAPSHOT_PATH" envDefault:"family-glitch.db"`
	// ArchivePath is the sqlite file holding the analytics archive.
	// Empty disables archiving.
	ArchivePath string `env:"FAMILY_GLITCH_ARCHIVE_PATH" envDefault:""`

	// TargetDuration is the intended wall-clock length of a session.
	TargetDuration time.Duration `env:"FAMILY_GLITCH_TARGET_DURATION" envDefault:"30m"`

	// Act 1 fact-count floor and ceiling.
	Act1MinFacts int `env:"FAMILY_GLITCH_ACT1_MIN_FACTS" envDefault:"6"`
	Act1MaxFacts int `env:"FAMILY_GLITCH_ACT1_MAX_FACTS" envDefault:"16"`

	// Act 2 mini-game round floor and ceiling.
	Act2MinRounds int `env:"FAMILY_GLITCH_ACT2_MIN_ROUNDS" envDefault:"4"`
	Act2MaxRounds int `env:"FAMILY_GLITCH_ACT2_MAX_ROUNDS" envDefault:"12"`

	// Act1Share and Act2Share are the fractions of the target duration
	// reserved for the first two acts.
	Act1Share float64 `env:"FAMILY_GLITCH_ACT1_SHARE" envDefault:"0.35"`
	Act2Share float64 `env:"FAMILY_GLITCH_ACT2_SHARE" envDefault:"0.45"`

	// SafetyMode is the content-safety mode passed to the content service.
	SafetyMode string `env:"FAMILY_GLITCH_SAFETY_MODE" envDefault:"family"`
}

// LoadEngine parses and validates engine configuration from the environment.
func LoadEngine() (Engine, error) {
	var cfg Engine
	if err := ParseEnv(&cfg); err != nil {
		return Engine{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Engine{}, err
	}
	return cfg, nil
}

// Validate checks that every floor sits at or below its ceiling and that
// the act time shares leave room for the finale.
func (c Engine) Validate() error {
	if c.Act1MinFacts > c.Act1MaxFacts {
		return apperrors.WithMetadata(apperrors.CodePacingFloorAboveCeiling,
			"act 1 fact floor exceeds ceiling", map[string]string{
				"floor":   fmt.Sprintf("%d", c.Act1MinFacts),
				"ceiling": fmt.Sprintf("%d", c.Act1MaxFacts),
			})
	}
	if c.Act2MinRounds > c.Act2MaxRounds {
		return apperrors.WithMetadata(apperrors.CodePacingFloorAboveCeiling,
			"act 2 round floor exceeds ceiling", map[string]string{
				"floor":   fmt.Sprintf("%d", c.Act2MinRounds),
				"ceiling": fmt.Sprintf("%d", c.Act2MaxRounds),
			})
	}
	if c.TargetDuration <= 0 {
		return apperrors.New(apperrors.CodeSetupInvalidDuration, "target duration must be positive")
	}
	if c.Act1Share <= 0 || c.Act2Share <= 0 || c.Act1Share+c.Act2Share >= 1 {
		return apperrors.New(apperrors.CodeSetupInvalidDuration, "act shares must be positive and leave time for the finale")
	}
	return nil
}
