package telemetry

import (
	"context"
	"time"

	"github.com/taylorbayouth/family-glitch-sub001/internal/storage"
)

// Severity describes the telemetry severity level.
type Severity string

const (
	SeverityInfo  Severity = "INFO"
	SeverityWarn  Severity = "WARN"
	SeverityError Severity = "ERROR"
)

// Emitter records operational telemetry events.
type Emitter struct {
	store storage.TelemetryStore
	clock func() time.Time
}

// NewEmitter creates a new telemetry emitter.
func NewEmitter(store storage.TelemetryStore) *Emitter {
	return &Emitter{store: store, clock: time.Now}
}

// Emit records a telemetry event. It is a no-op when the store is nil.
func (e *Emitter) Emit(ctx context.Context, evt storage.TelemetryEvent) error {
	if e == nil || e.store == nil {
		return nil
	}
	if evt.Timestamp.IsZero() {
		if e.clock == nil {
			evt.Timestamp = time.Now().UTC()
		} else {
			evt.Timestamp = e.clock().UTC()
		}
	}
	return e.store.AppendTelemetryEvent(ctx, evt)
}

// Record is a convenience wrapper for the common emit shape.
func (e *Emitter) Record(ctx context.Context, name string, severity Severity, sessionID string, attrs map[string]any) error {
	return e.Emit(ctx, storage.TelemetryEvent{
		EventName:  name,
		Severity:   string(severity),
		SessionID:  sessionID,
		Attributes: attrs,
	})
}
