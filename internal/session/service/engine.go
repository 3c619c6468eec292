// Package service owns the live session. The Engine serializes every
// driver intent over the pure cores: each intent validates against the
// state machine, produces new immutable values, appends the events that
// record what happened, autosaves the snapshot, and mirrors finished
// records into the analytics archive.
package service

import (
	"context"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/taylorbayouth/family-glitch-sub001/internal/cartridge"
	"github.com/taylorbayouth/family-glitch-sub001/internal/genai"
	"github.com/taylorbayouth/family-glitch-sub001/internal/id"
	"github.com/taylorbayouth/family-glitch-sub001/internal/persist"
	apperrors "github.com/taylorbayouth/family-glitch-sub001/internal/platform/errors"
	"github.com/taylorbayouth/family-glitch-sub001/internal/random"
	"github.com/taylorbayouth/family-glitch-sub001/internal/session/domain"
	"github.com/taylorbayouth/family-glitch-sub001/internal/session/event"
	"github.com/taylorbayouth/family-glitch-sub001/internal/session/facts"
	"github.com/taylorbayouth/family-glitch-sub001/internal/session/pacing"
	"github.com/taylorbayouth/family-glitch-sub001/internal/session/packet"
	"github.com/taylorbayouth/family-glitch-sub001/internal/storage"
	"github.com/taylorbayouth/family-glitch-sub001/internal/telemetry"
)

// Options wires the engine's collaborators. Nil stores disable the
// matching side effect; nil clock, ID generator, and PRNG fall back to
// production defaults.
type Options struct {
	Logger     *log.Logger
	Emitter    *telemetry.Emitter
	Snapshots  persist.SnapshotStore
	Archive    storage.ArchiveStore
	Cartridges *cartridge.Registry
	Content    genai.Client
	Thresholds pacing.Thresholds

	Now         func() time.Time
	IDGenerator func() (string, error)
	Rand        *rand.Rand
}

// Engine drives one session at a time. All intents are serialized; the
// pure cores underneath never see concurrent access.
type Engine struct {
	mu sync.Mutex

	logger     *log.Logger
	emitter    *telemetry.Emitter
	snapshots  persist.SnapshotStore
	archive    storage.ArchiveStore
	cartridges *cartridge.Registry
	content    genai.Client
	thresholds pacing.Thresholds

	now         func() time.Time
	idGenerator func() (string, error)
	rng         *rand.Rand

	started bool
	setup   domain.Setup
	players []domain.Player
	state   domain.GameState
	events  event.Log
	facts   facts.DB
	packets packet.Store

	// round is the upcoming act-two round number, starting at 1.
	round int
	// recentModuleIDs lists played modules newest first, for recency
	// suppression in cartridge ranking.
	recentModuleIDs []string
	// openPacketID is the turn packet for the module currently in play,
	// empty outside ACT2_MODULE_PLAY.
	openPacketID string
	// lastPromptBody is the most recent generated prompt, offered back as
	// the default question text when a fact is confirmed.
	lastPromptBody string
}

// New creates an engine with no session loaded.
func New(opts Options) *Engine {
	e := &Engine{
		logger:      opts.Logger,
		emitter:     opts.Emitter,
		snapshots:   opts.Snapshots,
		archive:     opts.Archive,
		cartridges:  opts.Cartridges,
		content:     opts.Content,
		thresholds:  opts.Thresholds,
		now:         opts.Now,
		idGenerator: opts.IDGenerator,
		rng:         opts.Rand,
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.idGenerator == nil {
		e.idGenerator = id.NewID
	}
	if e.rng == nil {
		if seed, err := random.NewSeed(); err == nil {
			e.rng = rand.New(rand.NewSource(seed))
		}
	}
	if e.thresholds == (pacing.Thresholds{}) {
		e.thresholds = pacing.DefaultThresholds()
	}
	return e
}

func (e *Engine) logf(format string, args ...any) {
	if e.logger != nil {
		e.logger.Printf(format, args...)
	}
}

// record appends the event to the journal and mirrors it to the archive.
// Archival is best-effort.
func (e *Engine) record(ctx context.Context, evt event.Event) {
	e.events = e.events.Append(evt)
	if e.archive == nil {
		return
	}
	if err := e.archive.ArchiveEvent(ctx, e.setup.SessionID, evt); err != nil {
		e.logf("archive event %s: %v", evt.Type, err)
		_ = e.emitter.Record(ctx, "archive.event_failed", telemetry.SeverityWarn, e.setup.SessionID, map[string]any{
			"event_type": string(evt.Type),
			"error":      err.Error(),
		})
	}
}

// archivePacket mirrors a packet to the archive, best-effort.
func (e *Engine) archivePacket(ctx context.Context, packetID string) {
	if e.archive == nil || packetID == "" {
		return
	}
	p, err := e.packets.Get(packetID)
	if err != nil {
		return
	}
	if err := e.archive.ArchivePacket(ctx, e.setup.SessionID, p); err != nil {
		e.logf("archive packet %s: %v", packetID, err)
	}
}

// autosave writes the snapshot, best-effort. A successful write journals
// a session.saved marker in memory only, so a later restore can tell how
// much history the save covered; the marker itself lands on disk with
// the next save.
func (e *Engine) autosave(ctx context.Context) {
	if e.snapshots == nil {
		return
	}
	snapshot := persist.Snapshot(e.setup, e.players, e.state, e.events, e.facts, e.packets, e.now)
	if !persist.AutoSave(ctx, e.snapshots, e.logger, e.emitter, snapshot) {
		return
	}
	evt, err := event.NewSessionSaved(e.now().UTC(), e.state.CurrentAct, event.SessionSavedPayload{
		EventsSaved: e.events.Len(),
	})
	if err != nil {
		return
	}
	e.events = e.events.Append(evt)
}

// transition runs a state machine step and records its event. The state
// is replaced only on success.
func (e *Engine) transition(ctx context.Context, to domain.State) error {
	next, evt, err := e.state.Transition(to, e.now)
	if err != nil {
		return err
	}
	e.state = next
	if to == domain.StateGameComplete {
		e.openPacketID = ""
	}
	e.record(ctx, evt)
	return nil
}

func (e *Engine) requireStarted() error {
	if !e.started {
		return apperrors.New(apperrors.CodeSetupEmptySessionID, "no session in progress")
	}
	if e.state.IsComplete() {
		return apperrors.New(apperrors.CodeStateSessionComplete, "session already completed")
	}
	return nil
}

// allowBackToBack reports whether repeat turns are legal right now: only
// for a single-player roster.
func (e *Engine) allowBackToBack() bool {
	return len(e.players) == 1
}
