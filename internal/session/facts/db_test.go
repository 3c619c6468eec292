package facts

import (
	"errors"
	"testing"
	"time"
)

func card(t *testing.T, subject, author, category, question, answer string, privacy Privacy) Card {
	t.Helper()
	c, err := CreateCard(CreateCardInput{
		SubjectID: subject,
		AuthorID:  author,
		Category:  category,
		Question:  question,
		Answer:    answer,
		Privacy:   privacy,
	}, nil, nil)
	if err != nil {
		t.Fatalf("create card: %v", err)
	}
	return c
}

func TestCreateCard_Validation(t *testing.T) {
	valid := CreateCardInput{
		SubjectID: "p1",
		AuthorID:  "p2",
		Category:  "History",
		Question:  "First concert?",
		Answer:    "The Wiggles",
		Privacy:   PrivacyHidden,
	}

	tests := []struct {
		name    string
		mutate  func(*CreateCardInput)
		wantErr error
	}{
		{"empty question", func(in *CreateCardInput) { in.Question = " " }, ErrEmptyQuestion},
		{"empty answer", func(in *CreateCardInput) { in.Answer = "" }, ErrEmptyAnswer},
		{"empty category", func(in *CreateCardInput) { in.Category = "" }, ErrEmptyCategory},
		{"bad privacy", func(in *CreateCardInput) { in.Privacy = PrivacyUnspecified }, ErrInvalidPrivacy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := valid
			tt.mutate(&input)
			if _, err := CreateCard(input, nil, nil); !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	t.Run("category normalized to lowercase", func(t *testing.T) {
		c, err := CreateCard(valid, nil, nil)
		if err != nil {
			t.Fatalf("create card: %v", err)
		}
		if c.Category != "history" {
			t.Errorf("Category = %q, want history", c.Category)
		}
	})

	t.Run("empty subject becomes group", func(t *testing.T) {
		input := valid
		input.SubjectID = ""
		c, err := CreateCard(input, nil, nil)
		if err != nil {
			t.Fatalf("create card: %v", err)
		}
		if c.SubjectID != SubjectGroup {
			t.Errorf("SubjectID = %q, want %q", c.SubjectID, SubjectGroup)
		}
	})
}

func TestDB_AddKeepsIndicesConsistent(t *testing.T) {
	db := NewDB()
	cards := []Card{
		card(t, "p1", "p2", "history", "q1", "a1", PrivacyHidden),
		card(t, "p1", "p3", "taste", "q2", "a2", PrivacyOpen),
		card(t, "p2", "p1", "history", "q3", "a3", PrivacyHidden),
		card(t, "", "p1", "secrets", "q4", "a4", PrivacyHidden),
	}
	for _, c := range cards {
		db = db.Add(c)
	}

	if db.Count() != 4 {
		t.Fatalf("Count = %d, want 4", db.Count())
	}

	// Every fact id appears in exactly one player bucket and one category bucket.
	for _, c := range db.Facts {
		playerHits, categoryHits := 0, 0
		for _, ids := range db.ByPlayer {
			for _, factID := range ids {
				if factID == c.ID {
					playerHits++
				}
			}
		}
		for _, ids := range db.ByCategory {
			for _, factID := range ids {
				if factID == c.ID {
					categoryHits++
				}
			}
		}
		if playerHits != 1 {
			t.Errorf("fact %s appears in %d player buckets, want 1", c.ID, playerHits)
		}
		if categoryHits != 1 {
			t.Errorf("fact %s appears in %d category buckets, want 1", c.ID, categoryHits)
		}
	}

	if got := len(db.FactsForPlayer("p1")); got != 2 {
		t.Errorf("facts about p1 = %d, want 2", got)
	}
	if got := len(db.FactsForCategory("history")); got != 2 {
		t.Errorf("history facts = %d, want 2", got)
	}
	if got := len(db.FactsForPlayer(SubjectGroup)); got != 1 {
		t.Errorf("group facts = %d, want 1", got)
	}
}

func TestDB_AddDoesNotMutateReceiver(t *testing.T) {
	db := NewDB()
	one := db.Add(card(t, "p1", "p2", "history", "q1", "a1", PrivacyHidden))
	two := one.Add(card(t, "p2", "p1", "taste", "q2", "a2", PrivacyOpen))

	if db.Count() != 0 || one.Count() != 1 || two.Count() != 2 {
		t.Errorf("counts = %d, %d, %d; want 0, 1, 2", db.Count(), one.Count(), two.Count())
	}
	if len(one.ByCategory["taste"]) != 0 {
		t.Error("older DB value sees newer index entries")
	}
}

func TestDB_Reveal(t *testing.T) {
	c := card(t, "p1", "p2", "history", "q1", "a1", PrivacyHidden)
	db := NewDB().Add(c)

	at := time.Date(2026, 5, 1, 20, 0, 0, 0, time.UTC)
	revealed, err := db.Reveal(c.ID, at)
	if err != nil {
		t.Fatalf("Reveal: %v", err)
	}

	got, err := revealed.Get(c.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.RevealedAt == nil || !got.RevealedAt.Equal(at) {
		t.Errorf("RevealedAt = %v, want %v", got.RevealedAt, at)
	}

	// The original DB still holds the unrevealed value.
	original, _ := db.Get(c.ID)
	if original.RevealedAt != nil {
		t.Error("Reveal mutated the original DB")
	}

	if _, err := db.Reveal("missing", at); !errors.Is(err, ErrFactNotFound) {
		t.Errorf("error = %v, want ErrFactNotFound", err)
	}
}

func TestDB_UnrevealedHidden(t *testing.T) {
	hidden := card(t, "p1", "p2", "history", "q1", "a1", PrivacyHidden)
	open := card(t, "p2", "p1", "taste", "q2", "a2", PrivacyOpen)
	db := NewDB().Add(hidden).Add(open)

	pool := db.UnrevealedHidden()
	if len(pool) != 1 || pool[0].ID != hidden.ID {
		t.Fatalf("pool = %v, want just the hidden fact", pool)
	}

	db, err := db.Reveal(hidden.ID, time.Now())
	if err != nil {
		t.Fatalf("Reveal: %v", err)
	}
	if got := db.UnrevealedHidden(); len(got) != 0 {
		t.Errorf("pool after reveal = %d entries, want 0", len(got))
	}
}

func TestDB_Categories(t *testing.T) {
	db := NewDB().
		Add(card(t, "p1", "p2", "history", "q1", "a1", PrivacyHidden)).
		Add(card(t, "p2", "p1", "taste", "q2", "a2", PrivacyOpen)).
		Add(card(t, "p1", "p3", "history", "q3", "a3", PrivacyOpen))

	got := db.Categories()
	want := []string{"history", "taste"}
	if len(got) != len(want) {
		t.Fatalf("Categories = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Categories[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
