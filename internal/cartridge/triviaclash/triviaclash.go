// Package triviaclash implements the fact-quiz cartridge: players guess
// which family member a gathered fact belongs to.
package triviaclash

import (
	"github.com/taylorbayouth/family-glitch-sub001/internal/cartridge"
)

const (
	// ModuleID is the stable identifier for this cartridge.
	ModuleID = "triviaclash"

	minPlayers = 2
	minFacts   = 3

	// factTarget is the fact volume at which relevance tops out.
	factTarget = 8
)

// Cartridge is the trivia clash module definition.
type Cartridge struct{}

// New creates the trivia clash cartridge.
func New() Cartridge {
	return Cartridge{}
}

// ID returns the stable module identifier.
func (Cartridge) ID() string { return ModuleID }

// Name returns the human-readable module name.
func (Cartridge) Name() string { return "Trivia Clash" }

// Description returns the intro-screen pitch.
func (Cartridge) Description() string {
	return "Whose fact is it? Guess which family member each secret belongs to."
}

// MinPlayers returns the smallest roster this module supports.
func (Cartridge) MinPlayers() int { return minPlayers }

// MaxPlayers returns 0: any roster size works.
func (Cartridge) MaxPlayers() int { return 0 }

// MinFacts returns the fewest stored facts needed for a playable round.
func (Cartridge) MinFacts() int { return minFacts }

// CanRun requires enough facts about distinct subjects to make guessing
// meaningful.
func (Cartridge) CanRun(ctx cartridge.Context) bool {
	subjects := 0
	for subject, ids := range ctx.FactsDB.ByPlayer {
		if subject != "" && len(ids) > 0 {
			subjects++
		}
	}
	return subjects >= 2
}

// RelevanceScore rewards fact volume and suppresses recent plays.
func (Cartridge) RelevanceScore(ctx cartridge.Context) float64 {
	volume := float64(ctx.FactsDB.Count()) / factTarget
	if volume > 1 {
		volume = 1
	}
	return volume * cartridge.RecencyPenalty(ctx, ModuleID)
}

// Capability returns the presentation binding handle.
func (Cartridge) Capability() string { return "screen:trivia-clash" }
