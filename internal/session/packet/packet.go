// Package packet records the complete lifecycle of every turn — the prompt
// shown, why it was chosen, what was allowed, the submissions, scoring, and
// reveal — and indexes it for analytics and end-game highlight selection.
package packet

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/taylorbayouth/family-glitch-sub001/internal/id"
)

var (
	// ErrNotFound indicates a turn packet ID absent from the store.
	ErrNotFound = errors.New("turn packet not found")
	// ErrEmptyModule indicates a packet with no module ID.
	ErrEmptyModule = errors.New("module id is required")
	// ErrEmptyPlayer indicates a packet with no acting player.
	ErrEmptyPlayer = errors.New("acting player id is required")
	// ErrAlreadyScored indicates a second scoring record for one packet.
	ErrAlreadyScored = errors.New("turn packet is already scored")
)

// Prompt is the content artifact shown at the top of a turn.
type Prompt struct {
	Body string `json:"body"`
	// Source says where the body came from: "generated" or "fallback".
	Source string `json:"source,omitempty"`
}

// Relevance explains why this content was chosen for this turn.
type Relevance struct {
	FactIDs []string `json:"fact_ids,omitempty"`
	Note    string   `json:"note,omitempty"`
}

// Rules captures what was allowed during the turn.
type Rules struct {
	TimeLimit      time.Duration `json:"time_limit,omitempty"`
	MaxSubmissions int           `json:"max_submissions,omitempty"`
	AllowSkip      bool          `json:"allow_skip,omitempty"`
}

// Submission is one player answer within a turn.
type Submission struct {
	PlayerID    string    `json:"player_id"`
	Body        string    `json:"body"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// ScoreDimension is one judged axis of a scoring record.
type ScoreDimension struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Scoring is the judged outcome of a turn.
type Scoring struct {
	Dimensions []ScoreDimension `json:"dimensions,omitempty"`
	Bonus      int              `json:"bonus,omitempty"`
	Commentary string           `json:"commentary,omitempty"`
	ScoredAt   time.Time        `json:"scored_at"`
}

// Total sums every dimension value plus the bonus; it is the rank used by
// highlight selection.
func (s Scoring) Total() int {
	total := s.Bonus
	for _, d := range s.Dimensions {
		total += d.Value
	}
	return total
}

// Reveal captures how and when the turn's outcome was shown to the group.
type Reveal struct {
	RevealedAt time.Time `json:"revealed_at"`
	Note       string    `json:"note,omitempty"`
}

// TurnPacket is one turn's complete lifecycle record.
type TurnPacket struct {
	ID        string
	CreatedAt time.Time
	Act       int
	Round     int
	TurnIndex int
	ModuleID  string
	// PlayerID is the acting player; TargetIDs are optional other players
	// the turn was about.
	PlayerID  string
	TargetIDs []string

	Prompt    Prompt
	Relevance Relevance
	Rules     Rules

	Submissions []Submission
	// Scoring is nil until the turn has been judged.
	Scoring *Scoring
	Reveal  *Reveal
	// HighlightTags mark the packet as a candidate for finale categories.
	HighlightTags []string
}

// CreateInput describes the data needed to open a turn packet.
type CreateInput struct {
	Act       int
	Round     int
	TurnIndex int
	ModuleID  string
	PlayerID  string
	TargetIDs []string
	Prompt    Prompt
	Relevance Relevance
	Rules     Rules
}

// Create opens a turn packet with a generated ID and timestamp.
func Create(input CreateInput, now func() time.Time, idGenerator func() (string, error)) (TurnPacket, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	moduleID := strings.TrimSpace(input.ModuleID)
	if moduleID == "" {
		return TurnPacket{}, ErrEmptyModule
	}
	playerID := strings.TrimSpace(input.PlayerID)
	if playerID == "" {
		return TurnPacket{}, ErrEmptyPlayer
	}

	packetID, err := idGenerator()
	if err != nil {
		return TurnPacket{}, fmt.Errorf("generate turn packet id: %w", err)
	}

	return TurnPacket{
		ID:        packetID,
		CreatedAt: now().UTC(),
		Act:       input.Act,
		Round:     input.Round,
		TurnIndex: input.TurnIndex,
		ModuleID:  moduleID,
		PlayerID:  playerID,
		TargetIDs: append([]string(nil), input.TargetIDs...),
		Prompt:    input.Prompt,
		Relevance: input.Relevance,
		Rules:     input.Rules,
	}, nil
}

// clone deep-copies the packet so store operations never share slices.
func (p TurnPacket) clone() TurnPacket {
	out := p
	out.TargetIDs = append([]string(nil), p.TargetIDs...)
	out.Submissions = append([]Submission(nil), p.Submissions...)
	out.HighlightTags = append([]string(nil), p.HighlightTags...)
	if p.Scoring != nil {
		scoring := *p.Scoring
		scoring.Dimensions = append([]ScoreDimension(nil), p.Scoring.Dimensions...)
		out.Scoring = &scoring
	}
	if p.Reveal != nil {
		reveal := *p.Reveal
		out.Reveal = &reveal
	}
	return out
}
