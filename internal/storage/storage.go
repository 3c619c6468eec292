// Package storage defines the persistence interfaces consumed by the
// session engine and its tooling. Implementations live in subpackages.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/taylorbayouth/family-glitch-sub001/internal/session/event"
	"github.com/taylorbayouth/family-glitch-sub001/internal/session/packet"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// TelemetryEvent captures an operational observation emitted while the
// engine processes an intent.
type TelemetryEvent struct {
	Timestamp  time.Time
	EventName  string
	Severity   string
	SessionID  string
	PlayerID   string
	Attributes map[string]any
}

// TelemetryStore persists operational telemetry records.
type TelemetryStore interface {
	AppendTelemetryEvent(ctx context.Context, evt TelemetryEvent) error
}

// SessionSummary contains aggregate counters for one archived session.
type SessionSummary struct {
	SessionID   string
	PacketCount int64
	EventCount  int64
	ScoredCount int64
}

// ArchiveStore persists finished turn packets and session events into an
// analytics archive that outlives the live snapshot. Archival is
// best-effort: the game loop never blocks on it.
type ArchiveStore interface {
	ArchivePacket(ctx context.Context, sessionID string, p packet.TurnPacket) error
	ArchiveEvent(ctx context.Context, sessionID string, evt event.Event) error
	SessionPackets(ctx context.Context, sessionID string) ([]packet.TurnPacket, error)
	Summary(ctx context.Context, sessionID string) (SessionSummary, error)
	Close() error
}
