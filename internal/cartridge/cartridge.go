// Package cartridge defines the contract between the orchestration engine
// and pluggable mini-game modules, plus the registry that filters and
// ranks them for the next act-two round.
//
// A cartridge never touches engine data structures. It declares its
// requirements, gates itself with CanRun, ranks itself with
// RelevanceScore, and eventually reports a Result; the engine applies
// score changes and threads highlights into the turn packet store. The
// rendering binding for a cartridge is looked up by the driver from the
// opaque Capability handle.
package cartridge

import (
	"sort"
	"strings"

	apperrors "github.com/taylorbayouth/family-glitch-sub001/internal/platform/errors"
	"github.com/taylorbayouth/family-glitch-sub001/internal/session/facts"
)

// Context is the session snapshot a cartridge sees when deciding whether
// and how well it can run.
type Context struct {
	PlayerCount int
	// FactsDB is the knowledge base gathered in act one.
	FactsDB facts.DB
	// RecentModuleIDs lists the modules played in the last rounds, newest
	// first, for recency suppression.
	RecentModuleIDs []string
	// Round is the upcoming act-two round number, starting at 1.
	Round int
	// SafetyMode is the content-safety mode name for this session.
	SafetyMode string
}

// Result is a module's single obligation back to the engine.
type Result struct {
	Completed bool
	// ScoreChanges maps playerId to score delta. May be empty: not every
	// module awards points.
	ScoreChanges map[string]int
	// Highlights are tag suggestions for the turn packets this round
	// produced.
	Highlights []string
	Skipped    bool
	SkipReason string
}

// Definition is one self-contained mini-game module.
type Definition interface {
	// ID returns the stable module identifier.
	ID() string
	// Name returns the human-readable module name.
	Name() string
	// Description returns a one-line pitch shown on the intro screen.
	Description() string

	// MinPlayers and MaxPlayers bound the roster size this module
	// supports. MaxPlayers <= 0 means unbounded.
	MinPlayers() int
	MaxPlayers() int
	// MinFacts is the fewest stored facts the module needs to be playable.
	MinFacts() int

	// CanRun is the hard gate: a false return removes the module from
	// this round's candidate set entirely.
	CanRun(ctx Context) bool
	// RelevanceScore is the soft ranking in [0, 1]. Implementations are
	// expected to penalize recent plays and reward matching fact volume.
	RelevanceScore(ctx Context) float64

	// Capability is the opaque handle the driver maps to a presentation
	// binding.
	Capability() string
}

// Candidate pairs a definition with its computed relevance for one round.
type Candidate struct {
	Definition Definition
	Relevance  float64
}

// Registry is the catalogue of installed cartridges.
type Registry struct {
	byID  map[string]Definition
	order []string
}

// NewRegistry creates an empty cartridge catalogue.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]Definition)}
}

// Register adds a cartridge to the catalogue. Duplicate IDs are rejected.
func (r *Registry) Register(def Definition) error {
	moduleID := strings.TrimSpace(def.ID())
	if moduleID == "" {
		return apperrors.New(apperrors.CodeCartridgeEmptyID, "cartridge id is required")
	}
	if _, exists := r.byID[moduleID]; exists {
		return apperrors.WithMetadata(apperrors.CodeCartridgeDuplicateID,
			"cartridge is already registered", map[string]string{"module_id": moduleID})
	}
	r.byID[moduleID] = def
	r.order = append(r.order, moduleID)
	return nil
}

// Get returns the cartridge with the given ID.
func (r *Registry) Get(moduleID string) (Definition, error) {
	def, ok := r.byID[moduleID]
	if !ok {
		return nil, apperrors.WithMetadata(apperrors.CodeCartridgeNotFound,
			"cartridge not found", map[string]string{"module_id": moduleID})
	}
	return def, nil
}

// List returns every registered cartridge in registration order.
func (r *Registry) List() []Definition {
	out := make([]Definition, 0, len(r.order))
	for _, moduleID := range r.order {
		out = append(out, r.byID[moduleID])
	}
	return out
}

// Candidates filters the catalogue to modules whose hard gates pass
// — player-count bounds, fact minimum, and CanRun — and ranks the
// remainder by relevance, best first. Ties keep registration order.
func (r *Registry) Candidates(ctx Context) []Candidate {
	var out []Candidate
	for _, moduleID := range r.order {
		def := r.byID[moduleID]
		if ctx.PlayerCount < def.MinPlayers() {
			continue
		}
		if max := def.MaxPlayers(); max > 0 && ctx.PlayerCount > max {
			continue
		}
		if ctx.FactsDB.Count() < def.MinFacts() {
			continue
		}
		if !def.CanRun(ctx) {
			continue
		}
		out = append(out, Candidate{Definition: def, Relevance: clamp01(def.RelevanceScore(ctx))})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Relevance > out[j].Relevance
	})
	return out
}

// SelectNext picks the module for the next round. When useGenerative is
// false the highest-ranked candidate wins deterministically; when true the
// full ranked candidate set is returned so the driver can delegate the
// final pick to the content-generation service, constrained to that set.
// With no eligible module it returns CodeCartridgeNoneEligible and the
// caller ends the act.
func (r *Registry) SelectNext(ctx Context, useGenerative bool) (Definition, []Candidate, error) {
	candidates := r.Candidates(ctx)
	if len(candidates) == 0 {
		return nil, nil, apperrors.New(apperrors.CodeCartridgeNoneEligible, "no cartridge can run in this context")
	}
	if useGenerative {
		return nil, candidates, nil
	}
	return candidates[0].Definition, candidates, nil
}

// RecencyPenalty is the shared suppression curve cartridges apply: 0 for a
// module played last round, scaling back to 1 once it falls out of the
// recent window.
func RecencyPenalty(ctx Context, moduleID string) float64 {
	for i, recent := range ctx.RecentModuleIDs {
		if recent == moduleID {
			return float64(i) / float64(len(ctx.RecentModuleIDs)+1)
		}
	}
	return 1
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
