// Package sqlite provides the SQLite-backed analytics archive. Finished
// turn packets and session events are projected into queryable columns
// alongside a full JSON payload, so post-game views never need the live
// snapshot.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/taylorbayouth/family-glitch-sub001/internal/platform/storage/sqlitemigrate"
	"github.com/taylorbayouth/family-glitch-sub001/internal/session/event"
	"github.com/taylorbayouth/family-glitch-sub001/internal/session/packet"
	"github.com/taylorbayouth/family-glitch-sub001/internal/storage"
	"github.com/taylorbayouth/family-glitch-sub001/internal/storage/sqlite/migrations"
)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

// Store provides a SQLite-backed archive store.
type Store struct {
	sqlDB *sql.DB
}

// Open opens the archive store at the provided path and applies the
// embedded migrations before handing it to higher layers.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if err := sqlitemigrate.Apply(sqlDB, migrations.FS, "."); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the underlying SQLite database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// ArchivePacket upserts a turn packet. Re-archiving after scoring or
// reveal replaces the earlier row.
func (s *Store) ArchivePacket(ctx context.Context, sessionID string, p packet.TurnPacket) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("session id is required")
	}
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("packet id is required")
	}

	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal packet: %w", err)
	}
	tags, err := json.Marshal(p.HighlightTags)
	if err != nil {
		return fmt.Errorf("marshal highlight tags: %w", err)
	}

	var scoreTotal sql.NullInt64
	scored := 0
	if p.Scoring != nil {
		scoreTotal = sql.NullInt64{Int64: int64(p.Scoring.Total()), Valid: true}
		scored = 1
	}

	_, err = s.sqlDB.ExecContext(ctx, `
INSERT OR REPLACE INTO archive_packets (
    session_id, packet_id, act, round, turn_index, module_id, player_id,
    prompt_body, prompt_source, submission_count, score_total, scored,
    highlight_tags, created_at, payload
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sessionID, p.ID, p.Act, p.Round, p.TurnIndex, p.ModuleID, p.PlayerID,
		p.Prompt.Body, p.Prompt.Source, len(p.Submissions), scoreTotal, scored,
		string(tags), toMillis(p.CreatedAt), string(payload),
	)
	if err != nil {
		return fmt.Errorf("archive packet: %w", err)
	}
	return nil
}

// ArchiveEvent appends a session event. Duplicate event IDs are replaced
// rather than duplicated so replays stay idempotent.
func (s *Store) ArchiveEvent(ctx context.Context, sessionID string, evt event.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("session id is required")
	}
	if strings.TrimSpace(evt.ID) == "" {
		return fmt.Errorf("event id is required")
	}
	if !evt.Type.IsValid() {
		return fmt.Errorf("event type is required")
	}

	payload := string(evt.PayloadJSON)
	if payload == "" {
		payload = "{}"
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT OR REPLACE INTO archive_events (
    session_id, event_id, event_type, act, player_id, occurred_at, payload
) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sessionID, evt.ID, string(evt.Type), evt.Act, evt.PlayerID,
		toMillis(evt.Timestamp), payload,
	)
	if err != nil {
		return fmt.Errorf("archive event: %w", err)
	}
	return nil
}

// SessionPackets returns every archived packet for a session in turn
// order.
func (s *Store) SessionPackets(ctx context.Context, sessionID string) ([]packet.TurnPacket, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(sessionID) == "" {
		return nil, fmt.Errorf("session id is required")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT payload FROM archive_packets
WHERE session_id = ?
ORDER BY created_at, turn_index`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("query packets: %w", err)
	}
	defer rows.Close()

	var packets []packet.TurnPacket
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan packet: %w", err)
		}
		var p packet.TurnPacket
		if err := json.Unmarshal([]byte(payload), &p); err != nil {
			return nil, fmt.Errorf("unmarshal packet: %w", err)
		}
		packets = append(packets, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate packets: %w", err)
	}
	return packets, nil
}

// Summary returns aggregate counts for one archived session.
func (s *Store) Summary(ctx context.Context, sessionID string) (storage.SessionSummary, error) {
	if err := ctx.Err(); err != nil {
		return storage.SessionSummary{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.SessionSummary{}, fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(sessionID) == "" {
		return storage.SessionSummary{}, fmt.Errorf("session id is required")
	}

	summary := storage.SessionSummary{SessionID: sessionID}
	row := s.sqlDB.QueryRowContext(ctx, `
SELECT COUNT(*), COALESCE(SUM(scored), 0) FROM archive_packets WHERE session_id = ?`,
		sessionID,
	)
	if err := row.Scan(&summary.PacketCount, &summary.ScoredCount); err != nil {
		return storage.SessionSummary{}, fmt.Errorf("count packets: %w", err)
	}

	row = s.sqlDB.QueryRowContext(ctx, `
SELECT COUNT(*) FROM archive_events WHERE session_id = ?`,
		sessionID,
	)
	if err := row.Scan(&summary.EventCount); err != nil {
		return storage.SessionSummary{}, fmt.Errorf("count events: %w", err)
	}

	return summary, nil
}
