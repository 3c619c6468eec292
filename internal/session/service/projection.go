package service

import (
	"time"

	"github.com/taylorbayouth/family-glitch-sub001/internal/session/domain"
)

// Projection is a read-only snapshot of the live session, safe to hand
// to a driver. Maps and slices are copies.
type Projection struct {
	SessionID      string
	State          domain.State
	Act            int
	ActivePlayerID string
	NextPlayerID   string
	ActiveModuleID string
	Players        []domain.Player
	Scores         map[string]int
	TurnCounts     map[string]int
	FactCount      int
	PacketCount    int
	EventCount     int
	Round          int
	Elapsed        time.Duration
	PromptBody     string
}

// projection builds the snapshot under the engine lock.
func (e *Engine) projection() Projection {
	players := make([]domain.Player, len(e.players))
	copy(players, e.players)

	counts := make(map[string]int, len(e.state.TurnCounts))
	for k, v := range e.state.TurnCounts {
		counts[k] = v
	}

	return Projection{
		SessionID:      e.setup.SessionID,
		State:          e.state.CurrentState,
		Act:            e.state.CurrentAct,
		ActivePlayerID: e.state.ActivePlayerID,
		NextPlayerID:   e.state.NextPlayerID,
		ActiveModuleID: e.state.ActiveModuleID,
		Players:        players,
		Scores:         domain.Scores(players),
		TurnCounts:     counts,
		FactCount:      e.facts.Count(),
		PacketCount:    e.packets.Len(),
		EventCount:     e.events.Len(),
		Round:          e.round,
		Elapsed:        e.state.Elapsed(e.now),
		PromptBody:     e.lastPromptBody,
	}
}

// View returns the current projection without performing any intent.
func (e *Engine) View() Projection {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.projection()
}

// UnrevealedHiddenFactIDs lists hidden facts not yet revealed, oldest
// first. The finale walks this list.
func (e *Engine) UnrevealedHiddenFactIDs() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	cards := e.facts.UnrevealedHidden()
	ids := make([]string, 0, len(cards))
	for _, c := range cards {
		ids = append(ids, c.ID)
	}
	return ids
}
