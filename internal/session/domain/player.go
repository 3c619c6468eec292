package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/taylorbayouth/family-glitch-sub001/internal/id"
)

var (
	// ErrEmptyRoster indicates a setup with no players.
	ErrEmptyRoster = errors.New("at least one player is required")
	// ErrEmptyPlayerName indicates a player with no display name.
	ErrEmptyPlayerName = errors.New("player display name is required")
	// ErrDuplicatePlayerID indicates two roster entries sharing an ID.
	ErrDuplicatePlayerID = errors.New("duplicate player id in roster")
	// ErrUnknownPlayer indicates a player ID absent from the roster.
	ErrUnknownPlayer = errors.New("player is not in the roster")
)

// Player represents one person in the session roster. The roster is
// immutable after setup except for Score, which only the scoring flow
// updates (by replacing the slice, never in place).
type Player struct {
	ID          string
	DisplayName string
	Age         int
	Role        string
	AvatarRef   string
	TurnOrder   int
	Score       int
}

// CreatePlayerInput describes the metadata needed to add a player at setup.
type CreatePlayerInput struct {
	DisplayName string
	Age         int
	Role        string
	AvatarRef   string
}

// CreatePlayer creates a roster entry with a generated ID. TurnOrder is
// stamped later by the turn-order assignment step.
func CreatePlayer(input CreatePlayerInput, idGenerator func() (string, error)) (Player, error) {
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	name := strings.TrimSpace(input.DisplayName)
	if name == "" {
		return Player{}, ErrEmptyPlayerName
	}

	playerID, err := idGenerator()
	if err != nil {
		return Player{}, fmt.Errorf("generate player id: %w", err)
	}

	return Player{
		ID:          playerID,
		DisplayName: name,
		Age:         input.Age,
		Role:        strings.TrimSpace(input.Role),
		AvatarRef:   strings.TrimSpace(input.AvatarRef),
		TurnOrder:   -1,
	}, nil
}

// FindPlayer returns the roster entry with the given ID.
func FindPlayer(players []Player, playerID string) (Player, error) {
	for _, p := range players {
		if p.ID == playerID {
			return p, nil
		}
	}
	return Player{}, ErrUnknownPlayer
}

// ValidateRoster checks roster-wide invariants: non-empty, unique IDs,
// non-empty names.
func ValidateRoster(players []Player) error {
	if len(players) == 0 {
		return ErrEmptyRoster
	}
	seen := make(map[string]bool, len(players))
	for _, p := range players {
		if strings.TrimSpace(p.DisplayName) == "" {
			return ErrEmptyPlayerName
		}
		if seen[p.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicatePlayerID, p.ID)
		}
		seen[p.ID] = true
	}
	return nil
}

// ApplyScoreChanges returns a new roster with the given per-player deltas
// applied. Unknown player IDs in changes are rejected so a module bug
// cannot grow the scoreboard. An empty change set returns the roster
// unchanged (but still copied).
func ApplyScoreChanges(players []Player, changes map[string]int) ([]Player, error) {
	byID := make(map[string]bool, len(players))
	for _, p := range players {
		byID[p.ID] = true
	}
	for playerID := range changes {
		if !byID[playerID] {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPlayer, playerID)
		}
	}

	updated := make([]Player, len(players))
	copy(updated, players)
	for i := range updated {
		if delta, ok := changes[updated[i].ID]; ok {
			updated[i].Score += delta
		}
	}
	return updated, nil
}

// Scores projects the roster into a playerId→score map.
func Scores(players []Player) map[string]int {
	scores := make(map[string]int, len(players))
	for _, p := range players {
		scores[p.ID] = p.Score
	}
	return scores
}

// nowOrDefault normalizes an injected clock.
func nowOrDefault(now func() time.Time) func() time.Time {
	if now == nil {
		return time.Now
	}
	return now
}
