package domain

import (
	"fmt"
	"maps"
	"time"

	"github.com/taylorbayouth/family-glitch-sub001/internal/session/event"
)

// GameState is the single mutable "current position" record for a session.
// Exactly one exists per session, and every transition replaces it with a
// new value; no method mutates the receiver.
type GameState struct {
	SessionID string

	// CurrentState names where the session is; CurrentAct is always the
	// act table lookup for it.
	CurrentState State
	CurrentAct   int

	// ActivePlayerID is whose turn it is; NextPlayerID is pre-computed so
	// the hand-off screen can show who is up next without a second call.
	ActivePlayerID string
	NextPlayerID   string

	// StartedAt and TargetDuration drive the pacing engine.
	StartedAt      time.Time
	TargetDuration time.Duration

	// Per-act completion timestamps, set once at each boundary.
	Act1CompletedAt *time.Time
	Act2CompletedAt *time.Time
	Act3CompletedAt *time.Time

	// TurnCounts maps playerId to turns taken.
	TurnCounts map[string]int

	// ActiveModuleID and ActiveModuleInstanceID identify the running
	// mini-game while in act two, empty otherwise.
	ActiveModuleID         string
	ActiveModuleInstanceID string

	LastUpdatedAt time.Time
}

// NewGameState creates the initial state for a freshly set-up session.
func NewGameState(setup Setup, now func() time.Time) GameState {
	now = nowOrDefault(now)
	startedAt := now().UTC()

	counts := make(map[string]int, len(setup.Players))
	for _, p := range setup.Players {
		counts[p.ID] = 0
	}

	return GameState{
		SessionID:      setup.SessionID,
		CurrentState:   StateLobby,
		CurrentAct:     ActOf(StateLobby),
		StartedAt:      startedAt,
		TargetDuration: setup.TargetDuration,
		TurnCounts:     counts,
		LastUpdatedAt:  startedAt,
	}
}

// Clone returns a deep copy of the state. Pointer fields are reallocated so
// the copy shares nothing mutable with the original.
func (s GameState) Clone() GameState {
	out := s
	out.TurnCounts = maps.Clone(s.TurnCounts)
	out.Act1CompletedAt = cloneTime(s.Act1CompletedAt)
	out.Act2CompletedAt = cloneTime(s.Act2CompletedAt)
	out.Act3CompletedAt = cloneTime(s.Act3CompletedAt)
	return out
}

// Transition validates and executes a state change. On success it returns
// the replacement state together with the journal event recording the
// change; the caller owns appending the event to the log. On failure the
// receiver is untouched and the error names the offending source state and
// every legal alternative.
func (s GameState) Transition(to State, now func() time.Time) (GameState, event.Event, error) {
	now = nowOrDefault(now)

	if !to.IsValid() {
		return GameState{}, event.Event{}, fmt.Errorf("unknown state %q", to)
	}
	if !CanTransition(s.CurrentState, to) {
		return GameState{}, event.Event{}, invalidTransitionError(s.CurrentState, to)
	}

	at := now().UTC()
	next := s.Clone()
	next.CurrentState = to
	next.CurrentAct = ActOf(to)
	next.LastUpdatedAt = at

	// Boundary bookkeeping: entering the first state of a later act (or
	// the terminal state) stamps the prior act's completion exactly once.
	switch to {
	case StateAct2ModuleIntro:
		if next.Act1CompletedAt == nil {
			next.Act1CompletedAt = &at
		}
	case StateAct3FinalReveal:
		if next.Act2CompletedAt == nil {
			next.Act2CompletedAt = &at
		}
	case StateGameComplete:
		if next.Act3CompletedAt == nil {
			next.Act3CompletedAt = &at
		}
	}

	// Leaving act two clears the active module slots.
	if ActOf(to) != 2 {
		next.ActiveModuleID = ""
		next.ActiveModuleInstanceID = ""
	}

	evt, err := event.NewStateTransitioned(at, next.CurrentAct, event.StateTransitionedPayload{
		StateFrom: string(s.CurrentState),
		StateTo:   string(to),
	})
	if err != nil {
		return GameState{}, event.Event{}, err
	}

	return next, evt, nil
}

// WithActiveModule returns a new state with the running module recorded.
func (s GameState) WithActiveModule(moduleID, instanceID string, now func() time.Time) GameState {
	now = nowOrDefault(now)
	next := s.Clone()
	next.ActiveModuleID = moduleID
	next.ActiveModuleInstanceID = instanceID
	next.LastUpdatedAt = now().UTC()
	return next
}

// IsComplete reports whether the session reached its terminal state.
func (s GameState) IsComplete() bool {
	return s.CurrentState == StateGameComplete
}

// Elapsed returns how long the session has been running.
func (s GameState) Elapsed(now func() time.Time) time.Duration {
	return nowOrDefault(now)().UTC().Sub(s.StartedAt)
}

// TotalTurns sums the per-player turn counts.
func (s GameState) TotalTurns() int {
	total := 0
	for _, n := range s.TurnCounts {
		total += n
	}
	return total
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	copied := *t
	return &copied
}
