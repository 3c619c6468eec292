// Package glitchvote implements the glitch vote cartridge: the group votes
// on which of several generated "facts" about a player is the real one.
package glitchvote

import (
	"github.com/taylorbayouth/family-glitch-sub001/internal/cartridge"
	"github.com/taylorbayouth/family-glitch-sub001/internal/session/facts"
)

const (
	// ModuleID is the stable identifier for this cartridge.
	ModuleID = "glitchvote"

	minPlayers = 3
	minFacts   = 1

	hiddenBoost = 0.25
)

// Cartridge is the glitch vote module definition.
type Cartridge struct{}

// New creates the glitch vote cartridge.
func New() Cartridge {
	return Cartridge{}
}

// ID returns the stable module identifier.
func (Cartridge) ID() string { return ModuleID }

// Name returns the human-readable module name.
func (Cartridge) Name() string { return "Glitch Vote" }

// Description returns the intro-screen pitch.
func (Cartridge) Description() string {
	return "Three facts, one truth. Vote for the real one before the glitch wins."
}

// MinPlayers returns the smallest roster this module supports: voting
// needs at least three people to be interesting.
func (Cartridge) MinPlayers() int { return minPlayers }

// MaxPlayers returns 0: any roster size works.
func (Cartridge) MaxPlayers() int { return 0 }

// MinFacts returns the fewest stored facts needed for a playable round.
func (Cartridge) MinFacts() int { return minFacts }

// CanRun requires at least one fact that has not been revealed yet, so
// the truth is still a surprise.
func (Cartridge) CanRun(ctx cartridge.Context) bool {
	for _, card := range ctx.FactsDB.Facts {
		if card.RevealedAt == nil {
			return true
		}
	}
	return false
}

// RelevanceScore prefers sessions with unrevealed hidden facts and
// suppresses recent plays.
func (Cartridge) RelevanceScore(ctx cartridge.Context) float64 {
	score := 0.5
	if hasHidden(ctx.FactsDB) {
		score += hiddenBoost
	}
	return score * cartridge.RecencyPenalty(ctx, ModuleID)
}

// Capability returns the presentation binding handle.
func (Cartridge) Capability() string { return "screen:glitch-vote" }

func hasHidden(db facts.DB) bool {
	return len(db.UnrevealedHidden()) > 0
}
