package scenario

import (
	"context"
	"fmt"
	"time"

	"github.com/taylorbayouth/family-glitch-sub001/internal/cartridge"
	"github.com/taylorbayouth/family-glitch-sub001/internal/session/domain"
	"github.com/taylorbayouth/family-glitch-sub001/internal/session/facts"
	"github.com/taylorbayouth/family-glitch-sub001/internal/session/service"
)

// scenarioState carries script-visible names across steps.
type scenarioState struct {
	pending []domain.CreatePlayerInput
	// players maps script display names to roster IDs.
	players map[string]string
	started bool
}

func (r *Runner) runStep(ctx context.Context, state *scenarioState, step Step) error {
	switch step.Kind {
	case "player":
		return r.stepPlayer(state, step.Args)
	case "start_game":
		return r.stepStartGame(ctx, state, step.Args)
	case "transition":
		_, err := r.engine.RequestTransition(ctx, domain.State(stringArg(step.Args, "state")))
		return err
	case "confirm_fact":
		return r.stepConfirmFact(ctx, state, step.Args)
	case "pass_turn":
		_, err := r.engine.PassTurn(ctx)
		return err
	case "start_module":
		_, err := r.engine.StartModule(ctx, stringArg(step.Args, "module"))
		return err
	case "submit":
		return r.stepSubmit(ctx, state, step.Args)
	case "complete_module":
		return r.stepCompleteModule(ctx, state, step.Args)
	case "skip_module":
		_, err := r.engine.SkipModule(ctx, stringArg(step.Args, "reason"))
		return err
	case "end_act_if_due":
		_, _, err := r.engine.EndActIfDue(ctx)
		return err
	case "reveal_hidden":
		return r.stepRevealHidden(ctx)
	case "expect_state":
		return r.expectState(step.Args)
	case "expect_score":
		return r.expectScore(state, step.Args)
	case "expect_fact_count":
		return r.expectFactCount(step.Args)
	case "expect_active":
		return r.expectActive(state, step.Args)
	case "expect_round":
		return r.expectRound(step.Args)
	default:
		return fmt.Errorf("unknown step kind %q", step.Kind)
	}
}

func (r *Runner) stepPlayer(state *scenarioState, args map[string]any) error {
	if state.started {
		return fmt.Errorf("players must be declared before start_game")
	}
	state.pending = append(state.pending, domain.CreatePlayerInput{
		DisplayName: stringArg(args, "name"),
		Age:         intArg(args, "age", 0),
		Role:        stringArg(args, "role"),
	})
	return nil
}

func (r *Runner) stepStartGame(ctx context.Context, state *scenarioState, args map[string]any) error {
	safety, err := domain.ParseSafetyMode(stringOr(args, "safety", "family"))
	if err != nil {
		return err
	}

	strategy := domain.TurnOrderRoster
	switch order := stringOr(args, "order", "roster"); order {
	case "roster":
	case "shuffled":
		strategy = domain.TurnOrderShuffled
	default:
		return fmt.Errorf("unknown turn order %q", order)
	}

	duration := 30 * time.Minute
	if raw := stringArg(args, "duration"); raw != "" {
		duration, err = time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("parse duration: %w", err)
		}
	}

	proj, err := r.engine.StartGame(ctx, service.StartGameInput{
		Players:           state.pending,
		SafetyMode:        safety,
		TurnOrderStrategy: strategy,
		TargetDuration:    duration,
	})
	if err != nil {
		return err
	}

	for _, p := range proj.Players {
		state.players[p.DisplayName] = p.ID
	}
	state.started = true
	return nil
}

func (r *Runner) stepConfirmFact(ctx context.Context, state *scenarioState, args map[string]any) error {
	privacy := facts.PrivacyHidden
	switch level := stringOr(args, "privacy", "hidden"); level {
	case "hidden":
	case "open":
		privacy = facts.PrivacyOpen
	default:
		return fmt.Errorf("unknown privacy %q", level)
	}

	subjectID := ""
	if subject := stringArg(args, "subject"); subject != "" {
		var err error
		subjectID, err = playerID(state, subject)
		if err != nil {
			return err
		}
	}

	_, err := r.engine.ConfirmFact(ctx, service.ConfirmFactInput{
		SubjectID: subjectID,
		Category:  stringOr(args, "category", "general"),
		Question:  stringArg(args, "question"),
		Answer:    stringArg(args, "answer"),
		Privacy:   privacy,
	})
	return err
}

func (r *Runner) stepSubmit(ctx context.Context, state *scenarioState, args map[string]any) error {
	id, err := playerID(state, stringArg(args, "player"))
	if err != nil {
		return err
	}
	_, err = r.engine.SubmitAnswer(ctx, id, stringArg(args, "answer"))
	return err
}

func (r *Runner) stepCompleteModule(ctx context.Context, state *scenarioState, args map[string]any) error {
	result := cartridge.Result{Completed: true}

	if scores, ok := args["scores"].(map[string]any); ok {
		result.ScoreChanges = make(map[string]int, len(scores))
		for name, raw := range scores {
			points, ok := raw.(int)
			if !ok {
				return fmt.Errorf("score for %q must be an integer", name)
			}
			id, err := playerID(state, name)
			if err != nil {
				return err
			}
			result.ScoreChanges[id] = points
		}
	}

	if highlights, ok := args["highlights"].([]any); ok {
		for _, raw := range highlights {
			tag, ok := raw.(string)
			if !ok {
				return fmt.Errorf("highlight tags must be strings")
			}
			result.Highlights = append(result.Highlights, tag)
		}
	}

	_, err := r.engine.CompleteModule(ctx, result)
	return err
}

func (r *Runner) stepRevealHidden(ctx context.Context) error {
	for _, factID := range r.engine.UnrevealedHiddenFactIDs() {
		if _, err := r.engine.RevealFact(ctx, factID); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) expectState(args map[string]any) error {
	want := domain.State(stringArg(args, "state"))
	proj := r.engine.View()
	if proj.State != want {
		return r.assertions.failf("state = %s, want %s", proj.State, want)
	}
	return nil
}

func (r *Runner) expectScore(state *scenarioState, args map[string]any) error {
	id, err := playerID(state, stringArg(args, "player"))
	if err != nil {
		return err
	}
	want := intArg(args, "points", 0)
	proj := r.engine.View()
	if got := proj.Scores[id]; got != want {
		return r.assertions.failf("score for %s = %d, want %d", stringArg(args, "player"), got, want)
	}
	return nil
}

func (r *Runner) expectFactCount(args map[string]any) error {
	want := intArg(args, "count", 0)
	proj := r.engine.View()
	if proj.FactCount != want {
		return r.assertions.failf("fact count = %d, want %d", proj.FactCount, want)
	}
	return nil
}

func (r *Runner) expectActive(state *scenarioState, args map[string]any) error {
	id, err := playerID(state, stringArg(args, "player"))
	if err != nil {
		return err
	}
	proj := r.engine.View()
	if proj.ActivePlayerID != id {
		return r.assertions.failf("active player = %s, want %s", proj.ActivePlayerID, stringArg(args, "player"))
	}
	return nil
}

func (r *Runner) expectRound(args map[string]any) error {
	want := intArg(args, "round", 0)
	proj := r.engine.View()
	if proj.Round != want {
		return r.assertions.failf("round = %d, want %d", proj.Round, want)
	}
	return nil
}

func playerID(state *scenarioState, name string) (string, error) {
	id, ok := state.players[name]
	if !ok {
		return "", fmt.Errorf("unknown player %q", name)
	}
	return id, nil
}

func stringArg(args map[string]any, key string) string {
	value, _ := args[key].(string)
	return value
}

func stringOr(args map[string]any, key, fallback string) string {
	if value := stringArg(args, key); value != "" {
		return value
	}
	return fallback
}

func intArg(args map[string]any, key string, fallback int) int {
	if value, ok := args[key].(int); ok {
		return value
	}
	return fallback
}
