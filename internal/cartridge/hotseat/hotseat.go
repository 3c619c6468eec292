// Package hotseat implements the hot seat cartridge: one player answers
// rapid-fire generated questions while everyone else predicts the answers.
package hotseat

import (
	"github.com/taylorbayouth/family-glitch-sub001/internal/cartridge"
)

const (
	// ModuleID is the stable identifier for this cartridge.
	ModuleID = "hotseat"

	minPlayers = 2
	baseScore  = 0.6
)

// Cartridge is the hot seat module definition.
type Cartridge struct{}

// New creates the hot seat cartridge.
func New() Cartridge {
	return Cartridge{}
}

// ID returns the stable module identifier.
func (Cartridge) ID() string { return ModuleID }

// Name returns the human-readable module name.
func (Cartridge) Name() string { return "Hot Seat" }

// Description returns the intro-screen pitch.
func (Cartridge) Description() string {
	return "One player, rapid questions. Everyone else bets on the answers."
}

// MinPlayers returns the smallest roster this module supports.
func (Cartridge) MinPlayers() int { return minPlayers }

// MaxPlayers returns 0: any roster size works.
func (Cartridge) MaxPlayers() int { return 0 }

// MinFacts returns 0: hot seat generates its own questions.
func (Cartridge) MinFacts() int { return 0 }

// CanRun always passes once the player bound is met; the module needs no
// gathered facts.
func (Cartridge) CanRun(cartridge.Context) bool { return true }

// RelevanceScore is a steady baseline with recency suppression, so hot
// seat fills rounds when fact-hungry modules are starved.
func (Cartridge) RelevanceScore(ctx cartridge.Context) float64 {
	return baseScore * cartridge.RecencyPenalty(ctx, ModuleID)
}

// Capability returns the presentation binding handle.
func (Cartridge) Capability() string { return "screen:hot-seat" }
