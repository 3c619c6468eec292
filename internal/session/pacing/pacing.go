// Package pacing decides when an act should end, from elapsed time and
// accumulated content. Each act has an independent floor (it cannot end
// before minimum content exists) and ceiling (it must end once the maximum
// is reached, regardless of remaining time).
package pacing

import (
	"fmt"
	"time"

	apperrors "github.com/taylorbayouth/family-glitch-sub001/internal/platform/errors"
	"github.com/taylorbayouth/family-glitch-sub001/internal/session/domain"
	"github.com/taylorbayouth/family-glitch-sub001/internal/session/event"
	"github.com/taylorbayouth/family-glitch-sub001/internal/session/facts"
)

// End reasons recorded in the journal when an act closes.
const (
	ReasonCeiling = "content ceiling reached"
	ReasonTimeUp  = "act time budget spent"
)

// Thresholds are the tunable floor/ceiling constants for act pacing.
type Thresholds struct {
	// Act 1 fact-count bounds.
	Act1MinFacts int
	Act1MaxFacts int
	// Act 2 round-count bounds.
	Act2MinRounds int
	Act2MaxRounds int
	// Act1Share and Act2Share are fractions of the target duration
	// allotted to the first two acts.
	Act1Share float64
	Act2Share float64
}

// DefaultThresholds returns the shipped pacing constants.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Act1MinFacts:  6,
		Act1MaxFacts:  16,
		Act2MinRounds: 4,
		Act2MaxRounds: 12,
		Act1Share:     0.35,
		Act2Share:     0.45,
	}
}

// Validate asserts floor <= ceiling for both acts. Callers are expected to
// run this at startup rather than trusting tuned constants.
func (t Thresholds) Validate() error {
	if t.Act1MinFacts > t.Act1MaxFacts {
		return apperrors.WithMetadata(apperrors.CodePacingFloorAboveCeiling,
			"act 1 fact floor exceeds ceiling", map[string]string{
				"floor":   fmt.Sprintf("%d", t.Act1MinFacts),
				"ceiling": fmt.Sprintf("%d", t.Act1MaxFacts),
			})
	}
	if t.Act2MinRounds > t.Act2MaxRounds {
		return apperrors.WithMetadata(apperrors.CodePacingFloorAboveCeiling,
			"act 2 round floor exceeds ceiling", map[string]string{
				"floor":   fmt.Sprintf("%d", t.Act2MinRounds),
				"ceiling": fmt.Sprintf("%d", t.Act2MaxRounds),
			})
	}
	return nil
}

// Decision is the pacing verdict for the current moment.
type Decision struct {
	ShouldEndAct1 bool
	Act1Reason    string
	ShouldEndAct2 bool
	Act2Reason    string

	// FactCount and RoundCount are the inputs the verdict was based on,
	// surfaced for diagnostics.
	FactCount  int
	RoundCount int
	Elapsed    time.Duration
}

// Calculate reads elapsed time, event counts, and fact counts and decides
// whether each act should end. Rounds are module completions plus skips in
// act two; a skipped round still consumed table time.
func Calculate(state domain.GameState, log event.Log, db facts.DB, t Thresholds, now func() time.Time) Decision {
	elapsed := state.Elapsed(now)
	factCount := db.Count()
	roundCount := log.CountTypeInAct(event.TypeModuleCompleted, 2) +
		log.CountTypeInAct(event.TypeModuleSkipped, 2)

	decision := Decision{
		FactCount:  factCount,
		RoundCount: roundCount,
		Elapsed:    elapsed,
	}

	act1Budget := time.Duration(float64(state.TargetDuration) * t.Act1Share)
	act2Budget := time.Duration(float64(state.TargetDuration) * (t.Act1Share + t.Act2Share))

	switch {
	case factCount >= t.Act1MaxFacts:
		decision.ShouldEndAct1 = true
		decision.Act1Reason = ReasonCeiling
	case factCount >= t.Act1MinFacts && elapsed >= act1Budget:
		decision.ShouldEndAct1 = true
		decision.Act1Reason = ReasonTimeUp
	}

	switch {
	case roundCount >= t.Act2MaxRounds:
		decision.ShouldEndAct2 = true
		decision.Act2Reason = ReasonCeiling
	case roundCount >= t.Act2MinRounds && elapsed >= act2Budget:
		decision.ShouldEndAct2 = true
		decision.Act2Reason = ReasonTimeUp
	}

	return decision
}
