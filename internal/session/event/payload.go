package event

// StateTransitionedPayload captures the payload for state.transitioned events.
type StateTransitionedPayload struct {
	StateFrom string `json:"state_from"`
	StateTo   string `json:"state_to"`
}

// PromptShownPayload captures the payload for prompt.shown events.
type PromptShownPayload struct {
	TurnPacketID string `json:"turn_packet_id,omitempty"`
	ModuleID     string `json:"module_id,omitempty"`
	Body         string `json:"body"`
}

// AnswerSubmittedPayload captures the payload for answer.submitted events.
type AnswerSubmittedPayload struct {
	TurnPacketID string `json:"turn_packet_id,omitempty"`
	Answer       string `json:"answer"`
}

// ScoreAwardedPayload captures the payload for score.awarded events.
type ScoreAwardedPayload struct {
	Points int    `json:"points"`
	Reason string `json:"reason,omitempty"`
}

// FactStoredPayload captures the payload for fact.stored events.
type FactStoredPayload struct {
	FactID   string `json:"fact_id"`
	Subject  string `json:"subject"`
	Category string `json:"category"`
	Privacy  string `json:"privacy"`
}

// FactRevealedPayload captures the payload for fact.revealed events.
type FactRevealedPayload struct {
	FactID string `json:"fact_id"`
}

// TurnPassedPayload captures the payload for turn.passed events.
type TurnPassedPayload struct {
	FromPlayerID string `json:"from_player_id,omitempty"`
	ToPlayerID   string `json:"to_player_id"`
	OnDeckID     string `json:"on_deck_id,omitempty"`
	BackToBack   bool   `json:"back_to_back,omitempty"`
}

// ModuleStartedPayload captures the payload for module.started events.
type ModuleStartedPayload struct {
	ModuleID   string `json:"module_id"`
	InstanceID string `json:"instance_id"`
}

// ModuleCompletedPayload captures the payload for module.completed events.
type ModuleCompletedPayload struct {
	ModuleID     string         `json:"module_id"`
	InstanceID   string         `json:"instance_id"`
	ScoreChanges map[string]int `json:"score_changes,omitempty"`
	Highlights   []string       `json:"highlights,omitempty"`
}

// ModuleSkippedPayload captures the payload for module.skipped events.
type ModuleSkippedPayload struct {
	ModuleID   string `json:"module_id"`
	InstanceID string `json:"instance_id"`
	Reason     string `json:"reason,omitempty"`
}

// SessionSavedPayload captures the payload for session.saved events.
type SessionSavedPayload struct {
	EventsSaved int `json:"events_saved"`
}

// SessionResumedPayload captures the payload for session.resumed events.
type SessionResumedPayload struct {
	EventsAtSave int `json:"events_at_save"`
}

// ActEndedPayload captures the payload for pacing.act_ended events.
type ActEndedPayload struct {
	Act    int    `json:"act"`
	Reason string `json:"reason"`
}
