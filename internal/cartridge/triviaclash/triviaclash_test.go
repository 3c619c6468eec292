package triviaclash

import (
	"testing"

	"github.com/taylorbayouth/family-glitch-sub001/internal/cartridge"
	"github.com/taylorbayouth/family-glitch-sub001/internal/session/facts"
)

func dbWithSubjects(t *testing.T, subjects ...string) facts.DB {
	t.Helper()
	db := facts.NewDB()
	for _, subject := range subjects {
		card, err := facts.CreateCard(facts.CreateCardInput{
			SubjectID: subject,
			AuthorID:  "author",
			Category:  "history",
			Question:  "q",
			Answer:    "a",
			Privacy:   facts.PrivacyHidden,
		}, nil, nil)
		if err != nil {
			t.Fatalf("create card: %v", err)
		}
		db = db.Add(card)
	}
	return db
}

func TestCanRun_NeedsTwoSubjects(t *testing.T) {
	c := New()

	oneSubject := cartridge.Context{PlayerCount: 4, FactsDB: dbWithSubjects(t, "p1", "p1", "p1")}
	if c.CanRun(oneSubject) {
		t.Error("CanRun should fail with facts about a single subject")
	}

	twoSubjects := cartridge.Context{PlayerCount: 4, FactsDB: dbWithSubjects(t, "p1", "p1", "p2")}
	if !c.CanRun(twoSubjects) {
		t.Error("CanRun should pass with facts about two subjects")
	}
}

func TestRelevanceScore_GrowsWithFactVolume(t *testing.T) {
	c := New()

	few := c.RelevanceScore(cartridge.Context{FactsDB: dbWithSubjects(t, "p1", "p2", "p3")})
	many := c.RelevanceScore(cartridge.Context{FactsDB: dbWithSubjects(t, "p1", "p2", "p3", "p1", "p2", "p3", "p1", "p2")})

	if !(few < many) {
		t.Errorf("relevance should grow with facts: few=%f many=%f", few, many)
	}
	if many > 1 {
		t.Errorf("relevance = %f, want <= 1", many)
	}
}

func TestRelevanceScore_RecencySuppression(t *testing.T) {
	c := New()
	db := dbWithSubjects(t, "p1", "p2", "p3", "p4")

	fresh := c.RelevanceScore(cartridge.Context{FactsDB: db})
	justPlayed := c.RelevanceScore(cartridge.Context{FactsDB: db, RecentModuleIDs: []string{ModuleID}})

	if justPlayed >= fresh {
		t.Errorf("recent play should suppress relevance: fresh=%f justPlayed=%f", fresh, justPlayed)
	}
}
