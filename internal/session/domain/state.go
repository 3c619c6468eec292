package domain

import (
	"fmt"
	"strings"

	apperrors "github.com/taylorbayouth/family-glitch-sub001/internal/platform/errors"
)

// State names one position in the session state machine. The string values
// are the wire/history names recorded in the journal and in snapshots.
type State string

const (
	// StateLobby is the pre-game roster and settings screen.
	StateLobby State = "LOBBY"
	// StateAct1Intro introduces the fact-gathering act.
	StateAct1Intro State = "ACT1_INTRO"
	// StateAct1FactPromptPrivate shows a private question to one player.
	// The device is face-down for everyone else.
	StateAct1FactPromptPrivate State = "ACT1_FACT_PROMPT_PRIVATE"
	// StateAct1FactConfirm lets the author confirm or redo their answer.
	StateAct1FactConfirm State = "ACT1_FACT_CONFIRM"
	// StateAct1Transition is the hand-off screen closing act one.
	StateAct1Transition State = "ACT1_TRANSITION"
	// StateAct2ModuleIntro presents the next mini-game to the group.
	StateAct2ModuleIntro State = "ACT2_MODULE_INTRO"
	// StateAct2ModulePlay is a mini-game round in progress.
	StateAct2ModulePlay State = "ACT2_MODULE_PLAY"
	// StateAct2ModuleReveal shows a mini-game round's results to everyone.
	StateAct2ModuleReveal State = "ACT2_MODULE_REVEAL"
	// StateAct2Transition is the hand-off screen closing act two.
	StateAct2Transition State = "ACT2_TRANSITION"
	// StateAct3FinalReveal is the finale: hidden facts and highlights.
	StateAct3FinalReveal State = "ACT3_FINAL_REVEAL"
	// StateGameComplete is the terminal state with no outgoing edges.
	StateGameComplete State = "GAME_COMPLETE"
)

// transitions is the fixed directed graph of allowed state changes. Slice
// order is the order legal alternatives are reported in errors.
var transitions = map[State][]State{
	StateLobby:                 {StateAct1Intro},
	StateAct1Intro:             {StateAct1FactPromptPrivate},
	StateAct1FactPromptPrivate: {StateAct1FactConfirm},
	StateAct1FactConfirm:       {StateAct1FactPromptPrivate, StateAct1Transition},
	StateAct1Transition:        {StateAct2ModuleIntro},
	StateAct2ModuleIntro:       {StateAct2ModulePlay},
	StateAct2ModulePlay:        {StateAct2ModuleReveal, StateAct2ModuleIntro},
	StateAct2ModuleReveal:      {StateAct2ModuleIntro, StateAct2Transition},
	StateAct2Transition:        {StateAct3FinalReveal},
	StateAct3FinalReveal:       {StateGameComplete},
	StateGameComplete:          nil,
}

// acts maps every state to its act number. CurrentAct is always re-derived
// from this table, never stored independently, so it cannot drift.
var acts = map[State]int{
	StateLobby:                 1,
	StateAct1Intro:             1,
	StateAct1FactPromptPrivate: 1,
	StateAct1FactConfirm:       1,
	StateAct1Transition:        1,
	StateAct2ModuleIntro:       2,
	StateAct2ModulePlay:        2,
	StateAct2ModuleReveal:      2,
	StateAct2Transition:        2,
	StateAct3FinalReveal:       3,
	StateGameComplete:          3,
}

// IsValid reports whether the state is part of the machine.
func (s State) IsValid() bool {
	_, ok := acts[s]
	return ok
}

// ActOf returns the act number (1-3) a state belongs to, or 0 for an
// unknown state.
func ActOf(state State) int {
	return acts[state]
}

// ValidNextStates returns the legal transition targets from a state. The
// returned slice is a copy; callers may not reach the transition table.
func ValidNextStates(from State) []State {
	next := transitions[from]
	out := make([]State, len(next))
	copy(out, next)
	return out
}

// CanTransition reports whether a transition from one state to another is
// allowed by the transition table.
func CanTransition(from, to State) bool {
	for _, candidate := range transitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// IsPrivacySensitive reports whether a state collects input that other
// players must not see.
func IsPrivacySensitive(state State) bool {
	return state == StateAct1FactPromptPrivate
}

// IsRevealState reports whether a state shows content to the whole group.
func IsRevealState(state State) bool {
	return state == StateAct2ModuleReveal || state == StateAct3FinalReveal
}

// IsBoundaryState reports whether a state is an act hand-off screen.
func IsBoundaryState(state State) bool {
	return state == StateAct1Transition || state == StateAct2Transition
}

// IsTerminal reports whether a state has no outgoing edges.
func IsTerminal(state State) bool {
	return len(transitions[state]) == 0 && state.IsValid()
}

// invalidTransitionError builds the diagnosable error for an illegal
// transition: it names the offending source state and every legal target.
func invalidTransitionError(from, to State) error {
	next := transitions[from]
	names := make([]string, len(next))
	for i, s := range next {
		names[i] = string(s)
	}
	return apperrors.WithMetadata(
		apperrors.CodeStateInvalidTransition,
		fmt.Sprintf("cannot transition from %s to %s; legal next states: %s",
			from, to, strings.Join(names, ", ")),
		map[string]string{
			"from":       string(from),
			"to":         string(to),
			"legal_next": strings.Join(names, ","),
		},
	)
}
