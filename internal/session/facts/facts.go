// Package facts holds the knowledge base gathered during act one.
//
// Facts are immutable once recorded. The database keeps a flat
// insertion-ordered list plus by-player and by-category indices; all three
// are updated in the same operation, so a fact is never visible in one
// without the others. A reveal is a replacement value with RevealedAt set,
// not a different entity.
package facts

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/taylorbayouth/family-glitch-sub001/internal/id"
)

// SubjectGroup is the subject value for facts about the whole group rather
// than one player.
const SubjectGroup = "group"

// Privacy controls when a fact may be shown to the group.
type Privacy int

const (
	// PrivacyUnspecified represents an invalid privacy value.
	PrivacyUnspecified Privacy = iota
	// PrivacyHidden keeps the fact secret until the finale.
	PrivacyHidden
	// PrivacyOpen allows revealing the fact immediately.
	PrivacyOpen
)

var (
	// ErrEmptyQuestion indicates a fact with no question text.
	ErrEmptyQuestion = errors.New("fact question is required")
	// ErrEmptyAnswer indicates a fact with no answer text.
	ErrEmptyAnswer = errors.New("fact answer is required")
	// ErrEmptyCategory indicates a fact with no category.
	ErrEmptyCategory = errors.New("fact category is required")
	// ErrInvalidPrivacy indicates a missing or invalid privacy level.
	ErrInvalidPrivacy = errors.New("fact privacy level is required")
	// ErrFactNotFound indicates a fact ID absent from the database.
	ErrFactNotFound = errors.New("fact not found")
)

// Card is one gathered fact.
type Card struct {
	ID string
	// SubjectID is the player the fact is about, or SubjectGroup.
	SubjectID string
	// AuthorID is the player who supplied the fact.
	AuthorID   string
	Category   string
	Question   string
	Answer     string
	Privacy    Privacy
	CreatedAt  time.Time
	RevealedAt *time.Time // nil until revealed
}

// CreateCardInput describes the data needed to record a fact.
type CreateCardInput struct {
	SubjectID string
	AuthorID  string
	Category  string
	Question  string
	Answer    string
	Privacy   Privacy
}

// CreateCard creates a fact card with a generated ID and timestamp.
func CreateCard(input CreateCardInput, now func() time.Time, idGenerator func() (string, error)) (Card, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	question := strings.TrimSpace(input.Question)
	if question == "" {
		return Card{}, ErrEmptyQuestion
	}
	answer := strings.TrimSpace(input.Answer)
	if answer == "" {
		return Card{}, ErrEmptyAnswer
	}
	category := strings.TrimSpace(strings.ToLower(input.Category))
	if category == "" {
		return Card{}, ErrEmptyCategory
	}
	switch input.Privacy {
	case PrivacyHidden, PrivacyOpen:
	default:
		return Card{}, ErrInvalidPrivacy
	}

	subject := strings.TrimSpace(input.SubjectID)
	if subject == "" {
		subject = SubjectGroup
	}

	factID, err := idGenerator()
	if err != nil {
		return Card{}, fmt.Errorf("generate fact id: %w", err)
	}

	return Card{
		ID:        factID,
		SubjectID: subject,
		AuthorID:  strings.TrimSpace(input.AuthorID),
		Category:  category,
		Question:  question,
		Answer:    answer,
		Privacy:   input.Privacy,
		CreatedAt: now().UTC(),
	}, nil
}

// String returns the privacy level name used in journal payloads.
func (p Privacy) String() string {
	switch p {
	case PrivacyHidden:
		return "hidden"
	case PrivacyOpen:
		return "open"
	default:
		return "unspecified"
	}
}
