package turn

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/taylorbayouth/family-glitch-sub001/internal/session/domain"
)

func roster(ids ...string) []domain.Player {
	players := make([]domain.Player, len(ids))
	for i, playerID := range ids {
		players[i] = domain.Player{ID: playerID, DisplayName: playerID, TurnOrder: i}
	}
	return players
}

func TestSelectNextPlayer_LowestCountWins(t *testing.T) {
	players := roster("A", "B", "C")
	counts := map[string]int{"A": 2, "B": 2, "C": 1}

	got, err := SelectNextPlayer(players, counts, "B", false)
	if err != nil {
		t.Fatalf("SelectNextPlayer: %v", err)
	}
	if got.PlayerID != "C" {
		t.Errorf("PlayerID = %q, want C (lowest count, not a repeat)", got.PlayerID)
	}
	if got.NewTurnCount != 2 {
		t.Errorf("NewTurnCount = %d, want 2", got.NewTurnCount)
	}
	if got.IsBackToBack {
		t.Error("IsBackToBack should be false")
	}
}

func TestSelectNextPlayer_RotationAmongTied(t *testing.T) {
	players := roster("A", "B", "C", "D")
	counts := map[string]int{"A": 1, "B": 1, "C": 1, "D": 1}

	// After B, the next-higher order index among candidates is C.
	got, err := SelectNextPlayer(players, counts, "B", false)
	if err != nil {
		t.Fatalf("SelectNextPlayer: %v", err)
	}
	if got.PlayerID != "C" {
		t.Errorf("PlayerID = %q, want C", got.PlayerID)
	}
	if got.Reason != ReasonRotation {
		t.Errorf("Reason = %q, want %q", got.Reason, ReasonRotation)
	}
}

func TestSelectNextPlayer_WrapAround(t *testing.T) {
	players := roster("A", "B", "C")
	counts := map[string]int{"A": 0, "B": 1, "C": 1}

	// Last active player is C (highest order); only candidate is A.
	got, err := SelectNextPlayer(players, counts, "C", false)
	if err != nil {
		t.Fatalf("SelectNextPlayer: %v", err)
	}
	if got.PlayerID != "A" {
		t.Errorf("PlayerID = %q, want A", got.PlayerID)
	}
	if got.Reason != ReasonWrapAround {
		t.Errorf("Reason = %q, want %q", got.Reason, ReasonWrapAround)
	}
}

func TestSelectNextPlayer_FairnessBeatsNoRepeat(t *testing.T) {
	players := roster("A", "B")
	counts := map[string]int{"A": 3, "B": 2}

	// B is the only minimum-count candidate and also the last active
	// player: the no-repeat rule yields to fairness.
	got, err := SelectNextPlayer(players, counts, "B", false)
	if err != nil {
		t.Fatalf("SelectNextPlayer: %v", err)
	}
	if got.PlayerID != "B" {
		t.Errorf("PlayerID = %q, want B", got.PlayerID)
	}
	if got.Reason != ReasonFairnessOverride {
		t.Errorf("Reason = %q, want %q", got.Reason, ReasonFairnessOverride)
	}
	if !got.IsBackToBack {
		t.Error("IsBackToBack should be true")
	}
}

func TestSelectNextPlayer_SinglePlayer(t *testing.T) {
	players := roster("A")
	got, err := SelectNextPlayer(players, map[string]int{"A": 4}, "A", false)
	if err != nil {
		t.Fatalf("SelectNextPlayer: %v", err)
	}
	if got.PlayerID != "A" || !got.IsBackToBack || got.Reason != ReasonSinglePlayer {
		t.Errorf("got %+v", got)
	}
}

func TestSelectNextPlayer_EmptyRoster(t *testing.T) {
	if _, err := SelectNextPlayer(nil, nil, "", false); !errors.Is(err, ErrNoPlayers) {
		t.Errorf("error = %v, want ErrNoPlayers", err)
	}
}

func TestSelectNextPlayer_Deterministic(t *testing.T) {
	players := roster("A", "B", "C", "D", "E")
	counts := map[string]int{"A": 2, "B": 1, "C": 2, "D": 1, "E": 1}

	first, err := SelectNextPlayer(players, counts, "D", false)
	if err != nil {
		t.Fatalf("SelectNextPlayer: %v", err)
	}
	for i := 0; i < 50; i++ {
		again, err := SelectNextPlayer(players, counts, "D", false)
		if err != nil {
			t.Fatalf("SelectNextPlayer: %v", err)
		}
		if again != first {
			t.Fatalf("selection changed between identical calls: %+v vs %+v", first, again)
		}
	}
}

func TestAdvanceToNextPlayer_FairnessInvariant(t *testing.T) {
	for _, n := range []int{2, 3, 4, 7} {
		ids := make([]string, n)
		for i := range ids {
			ids[i] = string(rune('A' + i))
		}
		players := roster(ids...)

		counts := make(map[string]int, n)
		for _, p := range players {
			counts[p.ID] = 0
		}
		state := domain.GameState{TurnCounts: counts}

		for i := 0; i < 100; i++ {
			next, _, err := AdvanceToNextPlayer(state, players, false)
			if err != nil {
				t.Fatalf("advance %d with %d players: %v", i, n, err)
			}
			state = next
			if !IsTurnDistributionFair(state.TurnCounts) {
				t.Fatalf("unfair distribution after %d advances with %d players: %v", i+1, n, state.TurnCounts)
			}
		}

		stats := DistributionStats(state.TurnCounts)
		if stats.Total != 100 {
			t.Errorf("total turns = %d, want 100", stats.Total)
		}
	}
}

func TestAdvanceToNextPlayer_PrecomputesOnDeck(t *testing.T) {
	players := roster("A", "B", "C")
	state := domain.GameState{TurnCounts: map[string]int{"A": 0, "B": 0, "C": 0}}

	next, selected, err := AdvanceToNextPlayer(state, players, false)
	if err != nil {
		t.Fatalf("AdvanceToNextPlayer: %v", err)
	}
	if next.ActivePlayerID != selected.PlayerID {
		t.Errorf("ActivePlayerID = %q, selection = %q", next.ActivePlayerID, selected.PlayerID)
	}
	if next.NextPlayerID == "" || next.NextPlayerID == next.ActivePlayerID {
		t.Errorf("NextPlayerID = %q, want a different player pre-computed", next.NextPlayerID)
	}
	if next.TurnCounts[selected.PlayerID] != 1 {
		t.Errorf("turn count = %d, want 1", next.TurnCounts[selected.PlayerID])
	}

	// The on-deck player is exactly who the next advance selects.
	after, _, err := AdvanceToNextPlayer(next, players, false)
	if err != nil {
		t.Fatalf("second advance: %v", err)
	}
	if after.ActivePlayerID != next.NextPlayerID {
		t.Errorf("advance picked %q, hand-off promised %q", after.ActivePlayerID, next.NextPlayerID)
	}
}

func TestAdvanceToNextPlayer_SumMatchesCompletedTurns(t *testing.T) {
	players := roster("A", "B", "C")
	state := domain.GameState{TurnCounts: map[string]int{"A": 0, "B": 0, "C": 0}}

	for i := 1; i <= 30; i++ {
		next, _, err := AdvanceToNextPlayer(state, players, false)
		if err != nil {
			t.Fatalf("advance %d: %v", i, err)
		}
		state = next
		if got := state.TotalTurns(); got != i {
			t.Fatalf("sum(turnCounts) = %d after %d turns", got, i)
		}
	}
}

func TestIncrementTurnCount_DoesNotMutate(t *testing.T) {
	counts := map[string]int{"A": 1}
	updated := IncrementTurnCount(counts, "A")
	if counts["A"] != 1 {
		t.Error("IncrementTurnCount mutated its input")
	}
	if updated["A"] != 2 {
		t.Errorf("updated count = %d, want 2", updated["A"])
	}
}

func TestAssignTurnOrder(t *testing.T) {
	players := roster("A", "B", "C", "D")
	for i := range players {
		players[i].TurnOrder = -1
	}

	t.Run("roster order preserved", func(t *testing.T) {
		ordered := AssignTurnOrder(players, domain.TurnOrderRoster, nil)
		for i, p := range ordered {
			if p.TurnOrder != i {
				t.Errorf("player %s order = %d, want %d", p.ID, p.TurnOrder, i)
			}
		}
		if players[0].TurnOrder != -1 {
			t.Error("AssignTurnOrder mutated its input")
		}
	})

	t.Run("shuffle is seed deterministic", func(t *testing.T) {
		one := AssignTurnOrder(players, domain.TurnOrderShuffled, rand.New(rand.NewSource(42)))
		two := AssignTurnOrder(players, domain.TurnOrderShuffled, rand.New(rand.NewSource(42)))
		for i := range one {
			if one[i].ID != two[i].ID {
				t.Fatalf("same seed produced different orders: %v vs %v", one, two)
			}
		}
	})

	t.Run("shuffle keeps everyone", func(t *testing.T) {
		shuffled := AssignTurnOrder(players, domain.TurnOrderShuffled, rand.New(rand.NewSource(time.Now().UnixNano())))
		seen := make(map[string]bool)
		for i, p := range shuffled {
			if p.TurnOrder != i {
				t.Errorf("player %s order = %d, want %d", p.ID, p.TurnOrder, i)
			}
			seen[p.ID] = true
		}
		if len(seen) != len(players) {
			t.Errorf("shuffle lost players: %v", seen)
		}
	})
}

func TestSelectFirstPlayer(t *testing.T) {
	players := roster("A", "B", "C")

	first, err := SelectFirstPlayer(players, false, nil)
	if err != nil {
		t.Fatalf("SelectFirstPlayer: %v", err)
	}
	if first.ID != "A" {
		t.Errorf("first = %q, want A (lowest order)", first.ID)
	}

	random, err := SelectFirstPlayer(players, true, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("SelectFirstPlayer random: %v", err)
	}
	if _, err := domain.FindPlayer(players, random.ID); err != nil {
		t.Errorf("random pick %q not in roster", random.ID)
	}

	if _, err := SelectFirstPlayer(nil, false, nil); !errors.Is(err, ErrNoPlayers) {
		t.Errorf("error = %v, want ErrNoPlayers", err)
	}
}
