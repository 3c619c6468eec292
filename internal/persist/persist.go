// Package persist defines the single-slot session snapshot and the
// save/resume flow around it. One household keeps at most one game in
// flight, so the store holds exactly one snapshot: every save replaces
// it, and completing a game clears it.
package persist

import (
	"context"
	stderrors "errors"
	"log"
	"strconv"
	"time"

	"github.com/taylorbayouth/family-glitch-sub001/internal/platform/errors"
	"github.com/taylorbayouth/family-glitch-sub001/internal/session/domain"
	"github.com/taylorbayouth/family-glitch-sub001/internal/session/event"
	"github.com/taylorbayouth/family-glitch-sub001/internal/session/facts"
	"github.com/taylorbayouth/family-glitch-sub001/internal/session/packet"
	"github.com/taylorbayouth/family-glitch-sub001/internal/storage"
	"github.com/taylorbayouth/family-glitch-sub001/internal/telemetry"
)

// SchemaVersion identifies the snapshot layout. Loading a snapshot
// written under a different version is refused rather than migrated.
const SchemaVersion = 1

// Session is everything needed to resume a game mid-flight.
type Session struct {
	SchemaVersion int       `json:"schema_version"`
	SavedAt       time.Time `json:"saved_at"`

	Setup   domain.Setup     `json:"setup"`
	Players []domain.Player  `json:"players"`
	State   domain.GameState `json:"state"`
	Events  event.Log        `json:"events"`
	Facts   facts.DB         `json:"facts"`
	Packets packet.Store     `json:"packets"`
}

// SnapshotStore persists the single session snapshot.
type SnapshotStore interface {
	PutSnapshot(ctx context.Context, snapshot Session) error
	GetSnapshot(ctx context.Context) (Session, error)
	ClearSnapshot(ctx context.Context) error
	Close() error
}

// Snapshot assembles a persisted session from the live engine values.
func Snapshot(setup domain.Setup, players []domain.Player, state domain.GameState, events event.Log, factsDB facts.DB, packets packet.Store, now func() time.Time) Session {
	if now == nil {
		now = time.Now
	}
	return Session{
		SchemaVersion: SchemaVersion,
		SavedAt:       now().UTC(),
		Setup:         setup,
		Players:       append([]domain.Player(nil), players...),
		State:         state.Clone(),
		Events:        events,
		Facts:         factsDB,
		Packets:       packets,
	}
}

// AutoSave writes the snapshot and swallows failures, reporting whether
// the write landed. A failed save is logged and counted in telemetry;
// the session keeps playing from memory and the next state change
// retries.
func AutoSave(ctx context.Context, store SnapshotStore, logger *log.Logger, emitter *telemetry.Emitter, snapshot Session) bool {
	if store == nil {
		return false
	}
	err := store.PutSnapshot(ctx, snapshot)
	if err == nil {
		return true
	}
	if logger != nil {
		logger.Printf("autosave failed for session %s: %v", snapshot.Setup.SessionID, err)
	}
	_ = emitter.Record(ctx, "snapshot.save_failed", telemetry.SeverityWarn, snapshot.Setup.SessionID, map[string]any{
		"error": err.Error(),
	})
	return false
}

// Load fetches the saved snapshot. ok is false when no snapshot exists.
// A snapshot written under another schema version is never partially
// loaded; the caller should offer a fresh game instead.
func Load(ctx context.Context, store SnapshotStore) (Session, bool, error) {
	if store == nil {
		return Session{}, false, errors.New(errors.CodePersistUnavailable, "snapshot store is not configured")
	}

	snapshot, err := store.GetSnapshot(ctx)
	if err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return Session{}, false, nil
		}
		return Session{}, false, errors.Wrap(errors.CodePersistUnavailable, "load snapshot", err)
	}

	if snapshot.SchemaVersion != SchemaVersion {
		return Session{}, false, errors.WithMetadata(
			errors.CodePersistSchemaMismatch,
			"snapshot schema version is not supported",
			map[string]string{
				"found":    strconv.Itoa(snapshot.SchemaVersion),
				"expected": strconv.Itoa(SchemaVersion),
			},
		)
	}

	return snapshot, true, nil
}
