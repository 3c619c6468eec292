package bbolt

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/taylorbayouth/family-glitch-sub001/internal/persist"
	"github.com/taylorbayouth/family-glitch-sub001/internal/session/domain"
	"github.com/taylorbayouth/family-glitch-sub001/internal/session/event"
	"github.com/taylorbayouth/family-glitch-sub001/internal/session/facts"
	"github.com/taylorbayouth/family-glitch-sub001/internal/session/packet"
	"github.com/taylorbayouth/family-glitch-sub001/internal/storage"
)

func testSnapshot(t *testing.T, sessionID string) persist.Session {
	t.Helper()
	clock := func() time.Time { return time.Date(2026, 5, 4, 19, 0, 0, 0, time.UTC) }
	ids := []string{"p1", "p2", sessionID}
	idx := 0
	gen := func() (string, error) {
		id := ids[idx]
		idx++
		return id, nil
	}

	var players []domain.Player
	for _, name := range []string{"Maya", "Leo"} {
		player, err := domain.CreatePlayer(domain.CreatePlayerInput{DisplayName: name}, gen)
		if err != nil {
			t.Fatalf("create player: %v", err)
		}
		players = append(players, player)
	}
	setup, err := domain.CreateSetup(domain.CreateSetupInput{
		Players:           players,
		SafetyMode:        domain.SafetyModeFamily,
		TurnOrderStrategy: domain.TurnOrderRoster,
		TargetDuration:    30 * time.Minute,
	}, clock, gen)
	if err != nil {
		t.Fatalf("create setup: %v", err)
	}

	state := domain.NewGameState(setup, clock)
	return persist.Snapshot(setup, players, state, event.NewLog(sessionID), facts.NewDB(), packet.NewStore(), clock)
}

func TestSnapshotStorePutGet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glitch.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	snapshot := testSnapshot(t, "sess-1")
	if err := store.PutSnapshot(context.Background(), snapshot); err != nil {
		t.Fatalf("put snapshot: %v", err)
	}

	loaded, err := store.GetSnapshot(context.Background())
	if err != nil {
		t.Fatalf("get snapshot: %v", err)
	}
	if loaded.Setup.SessionID != "sess-1" {
		t.Fatalf("expected session id sess-1, got %q", loaded.Setup.SessionID)
	}
	if loaded.SchemaVersion != persist.SchemaVersion {
		t.Fatalf("expected schema version %d, got %d", persist.SchemaVersion, loaded.SchemaVersion)
	}
	if len(loaded.Players) != 2 {
		t.Fatalf("expected 2 players, got %d", len(loaded.Players))
	}
	if loaded.State.CurrentState != domain.StateLobby {
		t.Fatalf("expected state %q, got %q", domain.StateLobby, loaded.State.CurrentState)
	}
	if !loaded.SavedAt.Equal(snapshot.SavedAt) {
		t.Fatalf("expected saved_at %v, got %v", snapshot.SavedAt, loaded.SavedAt)
	}
}

func TestSnapshotStorePutReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glitch.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	if err := store.PutSnapshot(context.Background(), testSnapshot(t, "sess-1")); err != nil {
		t.Fatalf("put first snapshot: %v", err)
	}
	if err := store.PutSnapshot(context.Background(), testSnapshot(t, "sess-2")); err != nil {
		t.Fatalf("put second snapshot: %v", err)
	}

	loaded, err := store.GetSnapshot(context.Background())
	if err != nil {
		t.Fatalf("get snapshot: %v", err)
	}
	if loaded.Setup.SessionID != "sess-2" {
		t.Fatalf("expected the later snapshot, got session %q", loaded.Setup.SessionID)
	}
}

func TestSnapshotStoreGetNotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glitch.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	_, err = store.GetSnapshot(context.Background())
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestSnapshotStoreClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glitch.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	if err := store.PutSnapshot(context.Background(), testSnapshot(t, "sess-1")); err != nil {
		t.Fatalf("put snapshot: %v", err)
	}
	if err := store.ClearSnapshot(context.Background()); err != nil {
		t.Fatalf("clear snapshot: %v", err)
	}

	_, err = store.GetSnapshot(context.Background())
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected not found after clear, got %v", err)
	}
}

func TestSnapshotStorePutEmptySessionID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glitch.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	if err := store.PutSnapshot(context.Background(), persist.Session{}); err == nil {
		t.Fatal("expected error")
	}
}

func TestSnapshotStorePutCanceledContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glitch.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := store.PutSnapshot(ctx, testSnapshot(t, "sess-1")); err == nil {
		t.Fatal("expected error")
	}
}

func TestSnapshotStoreGetCanceledContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glitch.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = store.GetSnapshot(ctx)
	if err == nil {
		t.Fatal("expected error")
	}
}
