// Package turn implements the fairness algorithm that decides who acts next.
//
// Selection is deterministic: given the same roster, turn counts, and last
// active player, the same player comes back every time. The only
// randomness lives in the explicit shuffle step of AssignTurnOrder and the
// optional random first pick, both driven by an injected PRNG.
package turn

import (
	"errors"
	"math/rand"
	"sort"

	"github.com/taylorbayouth/family-glitch-sub001/internal/session/domain"
)

// Selection reasons, recorded for diagnostics and hand-off screens.
const (
	// ReasonSinglePlayer is returned for one-player sessions.
	ReasonSinglePlayer = "single player session"
	// ReasonRotation means the pick follows the turn-order rotation.
	ReasonRotation = "next in rotation among least-played"
	// ReasonWrapAround means the rotation wrapped past the highest order.
	ReasonWrapAround = "rotation wrapped to lowest-ordered candidate"
	// ReasonFairnessOverride means the no-repeat rule was suspended because
	// excluding the last player would have emptied the candidate set.
	ReasonFairnessOverride = "fairness overrides no-repeat rule"
)

var (
	// ErrNoPlayers indicates selection over an empty roster.
	ErrNoPlayers = errors.New("no players to select from")
)

// Selection is the result of picking the next player.
type Selection struct {
	PlayerID string
	Reason   string
	// NewTurnCount is the count the selected player will have once their
	// turn is recorded.
	NewTurnCount int
	IsBackToBack bool
}

// SelectNextPlayer picks who acts next. Candidates are the players with the
// minimum turn count; the last active player is excluded when back-to-back
// turns are disallowed, unless excluding them would empty the set (fairness
// always wins over the no-repeat rule — a deliberate tie-break). Among the
// candidates, the one whose turn-order index follows the last active
// player's wins, wrapping to the lowest-ordered candidate at the end of the
// rotation.
func SelectNextPlayer(players []domain.Player, turnCounts map[string]int, lastActivePlayerID string, allowBackToBack bool) (Selection, error) {
	if len(players) == 0 {
		return Selection{}, ErrNoPlayers
	}
	if len(players) == 1 {
		only := players[0]
		return Selection{
			PlayerID:     only.ID,
			Reason:       ReasonSinglePlayer,
			NewTurnCount: turnCounts[only.ID] + 1,
			IsBackToBack: true,
		}, nil
	}

	minCount := turnCounts[players[0].ID]
	for _, p := range players[1:] {
		if turnCounts[p.ID] < minCount {
			minCount = turnCounts[p.ID]
		}
	}

	var candidates []domain.Player
	for _, p := range players {
		if turnCounts[p.ID] == minCount {
			candidates = append(candidates, p)
		}
	}

	reason := ReasonRotation
	if !allowBackToBack && lastActivePlayerID != "" {
		withoutLast := candidates[:0:0]
		for _, p := range candidates {
			if p.ID != lastActivePlayerID {
				withoutLast = append(withoutLast, p)
			}
		}
		if len(withoutLast) > 0 {
			candidates = withoutLast
		} else {
			reason = ReasonFairnessOverride
		}
	}

	picked, wrapped := pickByRotation(candidates, players, lastActivePlayerID)
	if wrapped && reason == ReasonRotation {
		reason = ReasonWrapAround
	}

	return Selection{
		PlayerID:     picked.ID,
		Reason:       reason,
		NewTurnCount: turnCounts[picked.ID] + 1,
		IsBackToBack: picked.ID == lastActivePlayerID,
	}, nil
}

// pickByRotation prefers the candidate whose turn-order index is the next
// higher than the last active player's, wrapping to the lowest-ordered
// candidate when none qualifies.
func pickByRotation(candidates, players []domain.Player, lastActivePlayerID string) (domain.Player, bool) {
	sorted := make([]domain.Player, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TurnOrder < sorted[j].TurnOrder
	})

	lastOrder := -1
	if lastActivePlayerID != "" {
		if last, err := domain.FindPlayer(players, lastActivePlayerID); err == nil {
			lastOrder = last.TurnOrder
		}
	}

	if lastOrder >= 0 {
		for _, p := range sorted {
			if p.TurnOrder > lastOrder {
				return p, false
			}
		}
		return sorted[0], true
	}
	return sorted[0], false
}

// IncrementTurnCount returns a new count map with one more turn recorded
// for the player.
func IncrementTurnCount(turnCounts map[string]int, playerID string) map[string]int {
	out := make(map[string]int, len(turnCounts))
	for k, v := range turnCounts {
		out[k] = v
	}
	out[playerID]++
	return out
}

// Stats summarizes the turn distribution for pacing and assertions.
type Stats struct {
	Min    int
	Max    int
	Spread int
	Total  int
}

// DistributionStats computes min/max/spread/total over the counts.
func DistributionStats(turnCounts map[string]int) Stats {
	if len(turnCounts) == 0 {
		return Stats{}
	}
	first := true
	var stats Stats
	for _, n := range turnCounts {
		if first {
			stats.Min, stats.Max = n, n
			first = false
		} else {
			if n < stats.Min {
				stats.Min = n
			}
			if n > stats.Max {
				stats.Max = n
			}
		}
		stats.Total += n
	}
	stats.Spread = stats.Max - stats.Min
	return stats
}

// IsTurnDistributionFair reports whether no player is more than one turn
// ahead of another.
func IsTurnDistributionFair(turnCounts map[string]int) bool {
	return DistributionStats(turnCounts).Spread <= 1
}

// AssignTurnOrder stamps sequential order indices onto the roster,
// optionally Fisher-Yates shuffling first. The input slice is not mutated.
func AssignTurnOrder(players []domain.Player, strategy domain.TurnOrderStrategy, rng *rand.Rand) []domain.Player {
	out := make([]domain.Player, len(players))
	copy(out, players)

	if strategy == domain.TurnOrderShuffled && rng != nil {
		for i := len(out) - 1; i > 0; i-- {
			j := rng.Intn(i + 1)
			out[i], out[j] = out[j], out[i]
		}
	}

	for i := range out {
		out[i].TurnOrder = i
	}
	return out
}

// SelectFirstPlayer picks the opening player: lowest order index, or a
// uniform random pick when requested.
func SelectFirstPlayer(players []domain.Player, random bool, rng *rand.Rand) (domain.Player, error) {
	if len(players) == 0 {
		return domain.Player{}, ErrNoPlayers
	}
	if random && rng != nil {
		return players[rng.Intn(len(players))], nil
	}
	first := players[0]
	for _, p := range players[1:] {
		if p.TurnOrder < first.TurnOrder {
			first = p
		}
	}
	return first, nil
}

// AdvanceToNextPlayer hands the device to the next player. It runs the
// selection twice — once for the new active player, once more against the
// updated counts to pre-compute who is on deck — and returns a new state
// with both IDs and the incremented count set.
func AdvanceToNextPlayer(state domain.GameState, players []domain.Player, allowBackToBack bool) (domain.GameState, Selection, error) {
	selected, err := SelectNextPlayer(players, state.TurnCounts, state.ActivePlayerID, allowBackToBack)
	if err != nil {
		return domain.GameState{}, Selection{}, err
	}

	counts := IncrementTurnCount(state.TurnCounts, selected.PlayerID)

	onDeck, err := SelectNextPlayer(players, counts, selected.PlayerID, allowBackToBack)
	if err != nil {
		return domain.GameState{}, Selection{}, err
	}

	next := state.Clone()
	next.ActivePlayerID = selected.PlayerID
	next.NextPlayerID = onDeck.PlayerID
	next.TurnCounts = counts
	return next, selected, nil
}
