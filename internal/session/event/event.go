package event

import (
	"strings"
	"time"
)

// Type identifies the type of a session event.
type Type string

// State machine events.
const (
	// TypeStateTransitioned records a validated state machine transition.
	TypeStateTransitioned Type = "state.transitioned"
)

// Prompt and answer events.
const (
	// TypePromptShown records a prompt being presented to a player.
	TypePromptShown Type = "prompt.shown"
	// TypeAnswerSubmitted records a player answer.
	TypeAnswerSubmitted Type = "answer.submitted"
	// TypeScoreAwarded records points granted to a player.
	TypeScoreAwarded Type = "score.awarded"
)

// Fact events (act one knowledge gathering).
const (
	// TypeFactStored records a fact card entering the facts database.
	TypeFactStored Type = "fact.stored"
	// TypeFactRevealed records a hidden fact being revealed.
	TypeFactRevealed Type = "fact.revealed"
)

// Turn events.
const (
	// TypeTurnPassed records the device passing to the next player.
	TypeTurnPassed Type = "turn.passed"
)

// Module events (act two mini-games).
const (
	// TypeModuleStarted records a mini-game module starting.
	TypeModuleStarted Type = "module.started"
	// TypeModuleCompleted records a mini-game module completing.
	TypeModuleCompleted Type = "module.completed"
	// TypeModuleSkipped records a mini-game module being skipped.
	TypeModuleSkipped Type = "module.skipped"
)

// Session lifecycle events.
const (
	// TypeSessionSaved records a successful snapshot write.
	TypeSessionSaved Type = "session.saved"
	// TypeSessionResumed records a session restored from a snapshot.
	TypeSessionResumed Type = "session.resumed"
	// TypeActEnded records the pacing engine closing an act.
	TypeActEnded Type = "pacing.act_ended"
)

// Event is one immutable entry in the session journal. PlayerID is empty
// for group events (everyone participates or the system acted).
type Event struct {
	// ID uniquely identifies the event.
	ID string
	// Timestamp is when the event occurred.
	Timestamp time.Time
	// Type identifies the kind of event.
	Type Type
	// Act is the act number (1-3) the session was in when the event occurred.
	Act int
	// PlayerID is the acting player, empty for group events.
	PlayerID string
	// PayloadJSON holds event-specific data as JSON.
	PayloadJSON []byte
}

// IsValid reports whether the event type is usable.
func (t Type) IsValid() bool {
	return strings.TrimSpace(string(t)) != ""
}

// Domain returns the domain prefix of the event type (e.g., "state", "fact").
func (t Type) Domain() string {
	for i, c := range t {
		if c == '.' {
			return string(t[:i])
		}
	}
	return string(t)
}
