package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/taylorbayouth/family-glitch-sub001/internal/id"
)

// SafetyMode describes the content-safety mode requested for a session.
type SafetyMode int

const (
	// SafetyModeUnspecified represents an invalid safety mode value.
	SafetyModeUnspecified SafetyMode = iota
	// SafetyModeFamily keeps generated content suitable for all ages.
	SafetyModeFamily
	// SafetyModeParty allows adult-leaning generated content.
	SafetyModeParty
)

// TurnOrderStrategy describes how the turn order is derived from the roster.
type TurnOrderStrategy int

const (
	// TurnOrderUnspecified represents an invalid strategy value.
	TurnOrderUnspecified TurnOrderStrategy = iota
	// TurnOrderRoster preserves the order players were entered.
	TurnOrderRoster
	// TurnOrderShuffled applies a Fisher-Yates shuffle at setup.
	TurnOrderShuffled
)

var (
	// ErrInvalidSafetyMode indicates a missing or invalid safety mode.
	ErrInvalidSafetyMode = errors.New("safety mode is required")
	// ErrInvalidTurnOrderStrategy indicates a missing or invalid strategy.
	ErrInvalidTurnOrderStrategy = errors.New("turn order strategy is required")
	// ErrInvalidTargetDuration indicates a non-positive target duration.
	ErrInvalidTargetDuration = errors.New("target duration must be positive")
)

// Setup is the immutable record of how a session was configured. It is
// created once at setup and never mutated.
type Setup struct {
	SessionID         string
	Players           []Player
	SafetyMode        SafetyMode
	TurnOrderStrategy TurnOrderStrategy
	TargetDuration    time.Duration
	CreatedAt         time.Time
}

// CreateSetupInput describes the metadata needed to create a session setup.
type CreateSetupInput struct {
	Players           []Player
	SafetyMode        SafetyMode
	TurnOrderStrategy TurnOrderStrategy
	TargetDuration    time.Duration
}

// CreateSetup freezes the roster and session configuration. The players
// slice is copied so later caller mutations cannot reach into the setup.
func CreateSetup(input CreateSetupInput, now func() time.Time, idGenerator func() (string, error)) (Setup, error) {
	now = nowOrDefault(now)
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	if err := ValidateRoster(input.Players); err != nil {
		return Setup{}, err
	}
	switch input.SafetyMode {
	case SafetyModeFamily, SafetyModeParty:
	default:
		return Setup{}, ErrInvalidSafetyMode
	}
	switch input.TurnOrderStrategy {
	case TurnOrderRoster, TurnOrderShuffled:
	default:
		return Setup{}, ErrInvalidTurnOrderStrategy
	}
	if input.TargetDuration <= 0 {
		return Setup{}, ErrInvalidTargetDuration
	}

	sessionID, err := idGenerator()
	if err != nil {
		return Setup{}, fmt.Errorf("generate session id: %w", err)
	}

	players := make([]Player, len(input.Players))
	copy(players, input.Players)

	return Setup{
		SessionID:         sessionID,
		Players:           players,
		SafetyMode:        input.SafetyMode,
		TurnOrderStrategy: input.TurnOrderStrategy,
		TargetDuration:    input.TargetDuration,
		CreatedAt:         now().UTC(),
	}, nil
}

// String returns the safety mode name used at the content boundary.
func (m SafetyMode) String() string {
	switch m {
	case SafetyModeFamily:
		return "family"
	case SafetyModeParty:
		return "party"
	default:
		return "unspecified"
	}
}

// ParseSafetyMode maps a mode name back to its enum value.
func ParseSafetyMode(value string) (SafetyMode, error) {
	switch value {
	case "family":
		return SafetyModeFamily, nil
	case "party":
		return SafetyModeParty, nil
	default:
		return SafetyModeUnspecified, fmt.Errorf("%w: %q", ErrInvalidSafetyMode, value)
	}
}
