package event

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/taylorbayouth/family-glitch-sub001/internal/id"
)

// Log is the append-only journal of everything that happened in a session.
// Operations return a new Log value; the receiver is never mutated. No
// removal or reordering operation exists: every derived structure (scores,
// facts, turn packets) must stay reconstructable from this journal.
type Log struct {
	// SessionID is the session this journal belongs to.
	SessionID string
	// Events holds the journal entries in occurrence order.
	Events []Event
}

// NewLog creates an empty journal for a session.
func NewLog(sessionID string) Log {
	return Log{SessionID: sessionID}
}

// Append returns a new Log with evt added at the end. The backing array is
// copied so older Log values never observe the new entry.
func (l Log) Append(evt Event) Log {
	events := make([]Event, len(l.Events), len(l.Events)+1)
	copy(events, l.Events)
	return Log{
		SessionID: l.SessionID,
		Events:    append(events, evt),
	}
}

// Len returns the number of journal entries.
func (l Log) Len() int {
	return len(l.Events)
}

// CountType returns the number of entries with the given type.
func (l Log) CountType(t Type) int {
	n := 0
	for _, evt := range l.Events {
		if evt.Type == t {
			n++
		}
	}
	return n
}

// CountTypeInAct returns the number of entries with the given type in an act.
func (l Log) CountTypeInAct(t Type, act int) int {
	n := 0
	for _, evt := range l.Events {
		if evt.Type == t && evt.Act == act {
			n++
		}
	}
	return n
}

// New creates an event with a generated ID and marshaled payload. A zero
// occurredAt is replaced with the current time. PlayerID is empty for
// group events.
func New(t Type, occurredAt time.Time, act int, playerID string, payload any) (Event, error) {
	if !t.IsValid() {
		return Event{}, fmt.Errorf("event type is required")
	}

	eventID, err := id.NewID()
	if err != nil {
		return Event{}, fmt.Errorf("generate event id: %w", err)
	}

	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	var payloadJSON []byte
	if payload != nil {
		payloadJSON, err = json.Marshal(payload)
		if err != nil {
			return Event{}, fmt.Errorf("marshal %s payload: %w", t, err)
		}
	}

	return Event{
		ID:          eventID,
		Timestamp:   occurredAt.UTC(),
		Type:        t,
		Act:         act,
		PlayerID:    playerID,
		PayloadJSON: payloadJSON,
	}, nil
}

// NewStateTransitioned creates a state.transitioned event.
func NewStateTransitioned(occurredAt time.Time, act int, p StateTransitionedPayload) (Event, error) {
	return New(TypeStateTransitioned, occurredAt, act, "", p)
}

// NewPromptShown creates a prompt.shown event.
func NewPromptShown(occurredAt time.Time, act int, playerID string, p PromptShownPayload) (Event, error) {
	return New(TypePromptShown, occurredAt, act, playerID, p)
}

// NewAnswerSubmitted creates an answer.submitted event.
func NewAnswerSubmitted(occurredAt time.Time, act int, playerID string, p AnswerSubmittedPayload) (Event, error) {
	return New(TypeAnswerSubmitted, occurredAt, act, playerID, p)
}

// NewScoreAwarded creates a score.awarded event.
func NewScoreAwarded(occurredAt time.Time, act int, playerID string, p ScoreAwardedPayload) (Event, error) {
	return New(TypeScoreAwarded, occurredAt, act, playerID, p)
}

// NewFactStored creates a fact.stored event. The acting player is the fact
// author, not its subject.
func NewFactStored(occurredAt time.Time, act int, authorID string, p FactStoredPayload) (Event, error) {
	return New(TypeFactStored, occurredAt, act, authorID, p)
}

// NewFactRevealed creates a fact.revealed event.
func NewFactRevealed(occurredAt time.Time, act int, p FactRevealedPayload) (Event, error) {
	return New(TypeFactRevealed, occurredAt, act, "", p)
}

// NewTurnPassed creates a turn.passed event.
func NewTurnPassed(occurredAt time.Time, act int, p TurnPassedPayload) (Event, error) {
	return New(TypeTurnPassed, occurredAt, act, p.ToPlayerID, p)
}

// NewModuleStarted creates a module.started event.
func NewModuleStarted(occurredAt time.Time, act int, playerID string, p ModuleStartedPayload) (Event, error) {
	return New(TypeModuleStarted, occurredAt, act, playerID, p)
}

// NewModuleCompleted creates a module.completed event.
func NewModuleCompleted(occurredAt time.Time, act int, p ModuleCompletedPayload) (Event, error) {
	return New(TypeModuleCompleted, occurredAt, act, "", p)
}

// NewModuleSkipped creates a module.skipped event.
func NewModuleSkipped(occurredAt time.Time, act int, p ModuleSkippedPayload) (Event, error) {
	return New(TypeModuleSkipped, occurredAt, act, "", p)
}

// NewSessionSaved creates a session.saved event.
func NewSessionSaved(occurredAt time.Time, act int, p SessionSavedPayload) (Event, error) {
	return New(TypeSessionSaved, occurredAt, act, "", p)
}

// NewSessionResumed creates a session.resumed event.
func NewSessionResumed(occurredAt time.Time, act int, p SessionResumedPayload) (Event, error) {
	return New(TypeSessionResumed, occurredAt, act, "", p)
}

// NewActEnded creates a pacing.act_ended event.
func NewActEnded(occurredAt time.Time, p ActEndedPayload) (Event, error) {
	return New(TypeActEnded, occurredAt, p.Act, "", p)
}
