package facts

import (
	"fmt"
	"time"
)

// DB is the queryable knowledge base built from player answers. Operations
// return a new DB value; the receiver is never mutated. Both indices hold
// fact IDs in insertion order.
type DB struct {
	Facts      []Card
	ByPlayer   map[string][]string
	ByCategory map[string][]string
}

// NewDB creates an empty facts database.
func NewDB() DB {
	return DB{
		ByPlayer:   make(map[string][]string),
		ByCategory: make(map[string][]string),
	}
}

// clone deep-copies the database so the new value shares no index buckets
// with the old one.
func (db DB) clone() DB {
	out := DB{
		Facts:      make([]Card, len(db.Facts)),
		ByPlayer:   make(map[string][]string, len(db.ByPlayer)),
		ByCategory: make(map[string][]string, len(db.ByCategory)),
	}
	copy(out.Facts, db.Facts)
	for k, ids := range db.ByPlayer {
		out.ByPlayer[k] = append([]string(nil), ids...)
	}
	for k, ids := range db.ByCategory {
		out.ByCategory[k] = append([]string(nil), ids...)
	}
	return out
}

// Add appends a fact and updates both indices in the same step. A fact is
// never visible in the flat list without its index entries.
func (db DB) Add(card Card) DB {
	out := db.clone()
	if out.ByPlayer == nil {
		out.ByPlayer = make(map[string][]string)
	}
	if out.ByCategory == nil {
		out.ByCategory = make(map[string][]string)
	}
	out.Facts = append(out.Facts, card)
	out.ByPlayer[card.SubjectID] = append(out.ByPlayer[card.SubjectID], card.ID)
	out.ByCategory[card.Category] = append(out.ByCategory[card.Category], card.ID)
	return out
}

// Get returns the fact with the given ID.
func (db DB) Get(factID string) (Card, error) {
	for _, card := range db.Facts {
		if card.ID == factID {
			return card, nil
		}
	}
	return Card{}, fmt.Errorf("%w: %s", ErrFactNotFound, factID)
}

// Reveal returns a new DB in which the fact's RevealedAt is set. Facts are
// otherwise immutable; the indices do not change because the fact's
// subject and category never do.
func (db DB) Reveal(factID string, at time.Time) (DB, error) {
	found := false
	out := db.clone()
	for i := range out.Facts {
		if out.Facts[i].ID == factID {
			if out.Facts[i].RevealedAt == nil {
				revealedAt := at.UTC()
				out.Facts[i].RevealedAt = &revealedAt
			}
			found = true
			break
		}
	}
	if !found {
		return DB{}, fmt.Errorf("%w: %s", ErrFactNotFound, factID)
	}
	return out, nil
}

// FactsForPlayer returns the facts about a player, in insertion order.
func (db DB) FactsForPlayer(subjectID string) []Card {
	return db.factsByIDs(db.ByPlayer[subjectID])
}

// FactsForCategory returns the facts in a category, in insertion order.
func (db DB) FactsForCategory(category string) []Card {
	return db.factsByIDs(db.ByCategory[category])
}

// UnrevealedHidden returns hidden facts that have not been revealed yet,
// the pool the finale draws from.
func (db DB) UnrevealedHidden() []Card {
	var out []Card
	for _, card := range db.Facts {
		if card.Privacy == PrivacyHidden && card.RevealedAt == nil {
			out = append(out, card)
		}
	}
	return out
}

// Count returns the number of stored facts.
func (db DB) Count() int {
	return len(db.Facts)
}

// Categories returns every category with at least one fact.
func (db DB) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, card := range db.Facts {
		if !seen[card.Category] {
			seen[card.Category] = true
			out = append(out, card.Category)
		}
	}
	return out
}

func (db DB) factsByIDs(ids []string) []Card {
	if len(ids) == 0 {
		return nil
	}
	byID := make(map[string]Card, len(db.Facts))
	for _, card := range db.Facts {
		byID[card.ID] = card
	}
	out := make([]Card, 0, len(ids))
	for _, factID := range ids {
		if card, ok := byID[factID]; ok {
			out = append(out, card)
		}
	}
	return out
}
