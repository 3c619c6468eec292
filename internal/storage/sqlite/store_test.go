package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/taylorbayouth/family-glitch-sub001/internal/session/event"
	"github.com/taylorbayouth/family-glitch-sub001/internal/session/packet"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "archive.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}

func testPacket(t *testing.T, id string, created time.Time) packet.TurnPacket {
	t.Helper()
	p, err := packet.Create(packet.CreateInput{
		Act:      2,
		Round:    1,
		ModuleID: "trivia-clash",
		PlayerID: "p1",
		Prompt:   packet.Prompt{Body: "Whose fact is this?", Source: "generated"},
	}, func() time.Time { return created }, func() (string, error) { return id, nil })
	if err != nil {
		t.Fatalf("create packet: %v", err)
	}
	return p
}

func TestArchivePacketRoundTrip(t *testing.T) {
	store := openTestStore(t)
	created := time.Date(2026, 5, 4, 19, 10, 0, 0, time.UTC)

	p := testPacket(t, "pkt-1", created)
	p.Submissions = []packet.Submission{{PlayerID: "p2", Body: "Maya", SubmittedAt: created}}
	p.Scoring = &packet.Scoring{
		Dimensions: []packet.ScoreDimension{{Name: "accuracy", Value: 3}},
		Bonus:      1,
		ScoredAt:   created,
	}
	p.HighlightTags = []string{"funniest-answer"}

	if err := store.ArchivePacket(context.Background(), "sess-1", p); err != nil {
		t.Fatalf("archive packet: %v", err)
	}

	packets, err := store.SessionPackets(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("session packets: %v", err)
	}
	if len(packets) != 1 {
		t.Fatalf("expected 1 packet, got %d", len(packets))
	}
	loaded := packets[0]
	if loaded.ID != "pkt-1" {
		t.Fatalf("expected id pkt-1, got %q", loaded.ID)
	}
	if loaded.ModuleID != "trivia-clash" {
		t.Fatalf("expected module trivia-clash, got %q", loaded.ModuleID)
	}
	if loaded.Scoring == nil || loaded.Scoring.Total() != 4 {
		t.Fatalf("expected scoring total 4, got %+v", loaded.Scoring)
	}
	if len(loaded.HighlightTags) != 1 || loaded.HighlightTags[0] != "funniest-answer" {
		t.Fatalf("expected highlight tags to survive, got %v", loaded.HighlightTags)
	}
	if !loaded.CreatedAt.Equal(created) {
		t.Fatalf("expected created_at %v, got %v", created, loaded.CreatedAt)
	}
}

func TestArchivePacketUpsert(t *testing.T) {
	store := openTestStore(t)
	created := time.Date(2026, 5, 4, 19, 10, 0, 0, time.UTC)

	p := testPacket(t, "pkt-1", created)
	if err := store.ArchivePacket(context.Background(), "sess-1", p); err != nil {
		t.Fatalf("archive unscored packet: %v", err)
	}

	p.Scoring = &packet.Scoring{Bonus: 2, ScoredAt: created.Add(time.Minute)}
	if err := store.ArchivePacket(context.Background(), "sess-1", p); err != nil {
		t.Fatalf("archive scored packet: %v", err)
	}

	summary, err := store.Summary(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.PacketCount != 1 {
		t.Fatalf("expected 1 packet after upsert, got %d", summary.PacketCount)
	}
	if summary.ScoredCount != 1 {
		t.Fatalf("expected 1 scored packet, got %d", summary.ScoredCount)
	}
}

func TestSessionPacketsOrdered(t *testing.T) {
	store := openTestStore(t)
	base := time.Date(2026, 5, 4, 19, 0, 0, 0, time.UTC)

	for i, id := range []string{"pkt-b", "pkt-a", "pkt-c"} {
		p := testPacket(t, id, base.Add(time.Duration(i)*time.Minute))
		if err := store.ArchivePacket(context.Background(), "sess-1", p); err != nil {
			t.Fatalf("archive packet %s: %v", id, err)
		}
	}

	packets, err := store.SessionPackets(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("session packets: %v", err)
	}
	if len(packets) != 3 {
		t.Fatalf("expected 3 packets, got %d", len(packets))
	}
	if packets[0].ID != "pkt-b" || packets[2].ID != "pkt-c" {
		t.Fatalf("expected turn order b,a,c, got %s,%s,%s", packets[0].ID, packets[1].ID, packets[2].ID)
	}
}

func TestSessionPacketsScopedBySession(t *testing.T) {
	store := openTestStore(t)
	created := time.Date(2026, 5, 4, 19, 0, 0, 0, time.UTC)

	if err := store.ArchivePacket(context.Background(), "sess-1", testPacket(t, "pkt-1", created)); err != nil {
		t.Fatalf("archive packet: %v", err)
	}
	if err := store.ArchivePacket(context.Background(), "sess-2", testPacket(t, "pkt-2", created)); err != nil {
		t.Fatalf("archive packet: %v", err)
	}

	packets, err := store.SessionPackets(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("session packets: %v", err)
	}
	if len(packets) != 1 || packets[0].ID != "pkt-1" {
		t.Fatalf("expected only sess-1 packets, got %v", packets)
	}
}

func TestArchiveEventAndSummary(t *testing.T) {
	store := openTestStore(t)
	at := time.Date(2026, 5, 4, 19, 5, 0, 0, time.UTC)

	evt, err := event.NewStateTransitioned(at, 1, event.StateTransitionedPayload{
		StateFrom: "LOBBY",
		StateTo:   "ACT1_INTRO",
	})
	if err != nil {
		t.Fatalf("new event: %v", err)
	}

	if err := store.ArchiveEvent(context.Background(), "sess-1", evt); err != nil {
		t.Fatalf("archive event: %v", err)
	}
	// Replaying the same event must not double-count it.
	if err := store.ArchiveEvent(context.Background(), "sess-1", evt); err != nil {
		t.Fatalf("re-archive event: %v", err)
	}

	summary, err := store.Summary(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.EventCount != 1 {
		t.Fatalf("expected 1 event, got %d", summary.EventCount)
	}
}

func TestArchivePacketEmptySessionID(t *testing.T) {
	store := openTestStore(t)
	created := time.Date(2026, 5, 4, 19, 0, 0, 0, time.UTC)

	if err := store.ArchivePacket(context.Background(), "", testPacket(t, "pkt-1", created)); err == nil {
		t.Fatal("expected error")
	}
}

func TestArchivePacketCanceledContext(t *testing.T) {
	store := openTestStore(t)
	created := time.Date(2026, 5, 4, 19, 0, 0, 0, time.UTC)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := store.ArchivePacket(ctx, "sess-1", testPacket(t, "pkt-1", created)); err == nil {
		t.Fatal("expected error")
	}
}
