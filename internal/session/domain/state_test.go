package domain

import (
	"errors"
	"testing"

	apperrors "github.com/taylorbayouth/family-glitch-sub001/internal/platform/errors"
)

var allStates = []State{
	StateLobby,
	StateAct1Intro,
	StateAct1FactPromptPrivate,
	StateAct1FactConfirm,
	StateAct1Transition,
	StateAct2ModuleIntro,
	StateAct2ModulePlay,
	StateAct2ModuleReveal,
	StateAct2Transition,
	StateAct3FinalReveal,
	StateGameComplete,
}

func TestCanTransition_MatchesValidNextStates(t *testing.T) {
	for _, from := range allStates {
		legal := make(map[State]bool)
		for _, to := range ValidNextStates(from) {
			legal[to] = true
		}
		for _, to := range allStates {
			if got := CanTransition(from, to); got != legal[to] {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", from, to, got, legal[to])
			}
		}
	}
}

func TestActOf_CoversEveryState(t *testing.T) {
	tests := []struct {
		state State
		want  int
	}{
		{StateLobby, 1},
		{StateAct1Intro, 1},
		{StateAct1FactPromptPrivate, 1},
		{StateAct1FactConfirm, 1},
		{StateAct1Transition, 1},
		{StateAct2ModuleIntro, 2},
		{StateAct2ModulePlay, 2},
		{StateAct2ModuleReveal, 2},
		{StateAct2Transition, 2},
		{StateAct3FinalReveal, 3},
		{StateGameComplete, 3},
	}
	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			if got := ActOf(tt.state); got != tt.want {
				t.Errorf("ActOf(%s) = %d, want %d", tt.state, got, tt.want)
			}
		})
	}

	if got := ActOf(State("NOPE")); got != 0 {
		t.Errorf("ActOf(unknown) = %d, want 0", got)
	}
}

func TestStatePredicates(t *testing.T) {
	if !IsPrivacySensitive(StateAct1FactPromptPrivate) {
		t.Error("fact prompt should be privacy sensitive")
	}
	if IsPrivacySensitive(StateAct2ModuleReveal) {
		t.Error("module reveal should not be privacy sensitive")
	}
	if !IsRevealState(StateAct2ModuleReveal) || !IsRevealState(StateAct3FinalReveal) {
		t.Error("reveal states should be reveal states")
	}
	if !IsBoundaryState(StateAct1Transition) || !IsBoundaryState(StateAct2Transition) {
		t.Error("transition states should be boundary states")
	}
	if IsBoundaryState(StateLobby) {
		t.Error("lobby is not a boundary state")
	}
	if !IsTerminal(StateGameComplete) {
		t.Error("game complete should be terminal")
	}
	for _, s := range allStates {
		if s != StateGameComplete && IsTerminal(s) {
			t.Errorf("%s should not be terminal", s)
		}
	}
}

func TestTransition_ErrorNamesLegalAlternatives(t *testing.T) {
	state := GameState{CurrentState: StateAct1FactConfirm, CurrentAct: 1, TurnCounts: map[string]int{}}

	_, _, err := state.Transition(StateAct3FinalReveal, nil)
	if err == nil {
		t.Fatal("expected error for illegal transition")
	}

	var domainErr *apperrors.Error
	if !errors.As(err, &domainErr) {
		t.Fatalf("expected domain error, got %T: %v", err, err)
	}
	if domainErr.Code != apperrors.CodeStateInvalidTransition {
		t.Errorf("Code = %q, want %q", domainErr.Code, apperrors.CodeStateInvalidTransition)
	}
	if got := domainErr.Metadata["from"]; got != "ACT1_FACT_CONFIRM" {
		t.Errorf("Metadata[from] = %q, want ACT1_FACT_CONFIRM", got)
	}
	if got := domainErr.Metadata["legal_next"]; got != "ACT1_FACT_PROMPT_PRIVATE,ACT1_TRANSITION" {
		t.Errorf("Metadata[legal_next] = %q, want ACT1_FACT_PROMPT_PRIVATE,ACT1_TRANSITION", got)
	}
}

func TestValidNextStates_ReturnsCopy(t *testing.T) {
	next := ValidNextStates(StateAct1FactConfirm)
	if len(next) != 2 {
		t.Fatalf("len = %d, want 2", len(next))
	}
	next[0] = StateGameComplete

	again := ValidNextStates(StateAct1FactConfirm)
	if again[0] != StateAct1FactPromptPrivate {
		t.Error("mutating the returned slice reached the transition table")
	}
}
