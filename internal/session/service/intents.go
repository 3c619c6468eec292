package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/taylorbayouth/family-glitch-sub001/internal/cartridge"
	"github.com/taylorbayouth/family-glitch-sub001/internal/genai"
	"github.com/taylorbayouth/family-glitch-sub001/internal/persist"
	apperrors "github.com/taylorbayouth/family-glitch-sub001/internal/platform/errors"
	"github.com/taylorbayouth/family-glitch-sub001/internal/session/domain"
	"github.com/taylorbayouth/family-glitch-sub001/internal/session/event"
	"github.com/taylorbayouth/family-glitch-sub001/internal/session/facts"
	"github.com/taylorbayouth/family-glitch-sub001/internal/session/pacing"
	"github.com/taylorbayouth/family-glitch-sub001/internal/session/packet"
	"github.com/taylorbayouth/family-glitch-sub001/internal/session/turn"
)

// StartGameInput describes a fresh session.
type StartGameInput struct {
	Players           []domain.CreatePlayerInput
	SafetyMode        domain.SafetyMode
	TurnOrderStrategy domain.TurnOrderStrategy
	TargetDuration    time.Duration
}

// StartGame freezes the roster, assigns turn order, and opens the session
// in the lobby.
func (e *Engine) StartGame(ctx context.Context, input StartGameInput) (Projection, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.started && !e.state.IsComplete() {
		return Projection{}, apperrors.New(apperrors.CodeSetupRosterAfterStart, "a session is already in progress")
	}

	players := make([]domain.Player, 0, len(input.Players))
	for _, p := range input.Players {
		player, err := domain.CreatePlayer(p, e.idGenerator)
		if err != nil {
			return Projection{}, err
		}
		players = append(players, player)
	}

	setup, err := domain.CreateSetup(domain.CreateSetupInput{
		Players:           players,
		SafetyMode:        input.SafetyMode,
		TurnOrderStrategy: input.TurnOrderStrategy,
		TargetDuration:    input.TargetDuration,
	}, e.now, e.idGenerator)
	if err != nil {
		return Projection{}, err
	}

	ordered := turn.AssignTurnOrder(setup.Players, setup.TurnOrderStrategy, e.rng)
	first, err := turn.SelectFirstPlayer(ordered, false, nil)
	if err != nil {
		return Projection{}, err
	}

	state := domain.NewGameState(setup, e.now)
	state.ActivePlayerID = first.ID
	state.TurnCounts = turn.IncrementTurnCount(state.TurnCounts, first.ID)
	if onDeck, err := turn.SelectNextPlayer(ordered, state.TurnCounts, first.ID, len(ordered) == 1); err == nil {
		state.NextPlayerID = onDeck.PlayerID
	}

	e.started = true
	e.setup = setup
	e.players = ordered
	e.state = state
	e.events = event.NewLog(setup.SessionID)
	e.facts = facts.NewDB()
	e.packets = packet.NewStore()
	e.round = 1
	e.recentModuleIDs = nil
	e.openPacketID = ""
	e.lastPromptBody = ""

	e.autosave(ctx)
	return e.projection(), nil
}

// Resume restores the saved session. ok is false when there is nothing to
// resume.
func (e *Engine) Resume(ctx context.Context) (Projection, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.snapshots == nil {
		return Projection{}, false, apperrors.New(apperrors.CodePersistUnavailable, "no snapshot store configured")
	}
	snapshot, ok, err := persist.Load(ctx, e.snapshots)
	if err != nil || !ok {
		return Projection{}, ok, err
	}

	e.started = true
	e.setup = snapshot.Setup
	e.players = snapshot.Players
	e.state = snapshot.State
	e.events = snapshot.Events
	e.facts = snapshot.Facts
	e.packets = snapshot.Packets
	e.round = snapshot.Events.CountTypeInAct(event.TypeModuleCompleted, 2) +
		snapshot.Events.CountTypeInAct(event.TypeModuleSkipped, 2) + 1
	e.recentModuleIDs = recentModulesFromLog(snapshot.Events)
	e.openPacketID = openPacketFromState(snapshot.State, snapshot.Packets)

	evt, err := event.NewSessionResumed(e.now().UTC(), e.state.CurrentAct, event.SessionResumedPayload{
		EventsAtSave: snapshot.Events.Len(),
	})
	if err != nil {
		return Projection{}, false, err
	}
	e.record(ctx, evt)
	return e.projection(), true, nil
}

// RequestTransition moves the state machine. Entering the private fact
// prompt also generates and records the prompt to show; completing the
// game clears the snapshot slot.
func (e *Engine) RequestTransition(ctx context.Context, to domain.State) (Projection, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started {
		return Projection{}, apperrors.New(apperrors.CodeSetupEmptySessionID, "no session in progress")
	}
	if err := e.transition(ctx, to); err != nil {
		return Projection{}, err
	}

	if to == domain.StateAct1FactPromptPrivate {
		e.showFactPrompt(ctx)
	}

	if e.state.IsComplete() {
		if e.snapshots != nil {
			if err := e.snapshots.ClearSnapshot(ctx); err != nil {
				e.logf("clear snapshot: %v", err)
			}
		}
	} else {
		e.autosave(ctx)
	}
	return e.projection(), nil
}

// showFactPrompt asks the content service for a private question and
// records it. Generation failures fall back to canned text; the turn
// never stalls.
func (e *Engine) showFactPrompt(ctx context.Context) {
	body := genai.FallbackText(genai.PurposePrompt)
	if e.content != nil {
		res, err := e.content.Generate(ctx, genai.Request{
			Purpose: genai.PurposePrompt,
			Context: genai.RequestContext{
				CurrentPhase:  string(e.state.CurrentState),
				SafetyMode:    e.setup.SafetyMode.String(),
				RelevantFacts: factQuestions(e.facts.FactsForPlayer(e.state.ActivePlayerID)),
			},
		})
		body, _ = genai.BodyOrFallback(genai.PurposePrompt, res, err)
		body = genai.ParseQuestion(body, genai.FallbackText(genai.PurposePrompt))
	}
	e.lastPromptBody = body

	evt, err := event.NewPromptShown(e.now().UTC(), e.state.CurrentAct, e.state.ActivePlayerID, event.PromptShownPayload{
		Body: body,
	})
	if err != nil {
		e.logf("record prompt: %v", err)
		return
	}
	e.record(ctx, evt)
}

// ConfirmFactInput is a player-approved fact ready for storage.
type ConfirmFactInput struct {
	SubjectID string
	Category  string
	Question  string
	Answer    string
	Privacy   facts.Privacy
}

// ConfirmFact stores a confirmed fact card. The acting player is the
// author; an empty question falls back to the prompt that was shown.
func (e *Engine) ConfirmFact(ctx context.Context, input ConfirmFactInput) (Projection, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireStarted(); err != nil {
		return Projection{}, err
	}
	if e.state.CurrentState != domain.StateAct1FactConfirm {
		return Projection{}, apperrors.WithMetadata(apperrors.CodeStateInvalidTransition,
			"facts are confirmed from the confirm screen", map[string]string{
				"current": string(e.state.CurrentState),
			})
	}

	question := strings.TrimSpace(input.Question)
	if question == "" {
		question = e.lastPromptBody
	}

	card, err := facts.CreateCard(facts.CreateCardInput{
		SubjectID: input.SubjectID,
		AuthorID:  e.state.ActivePlayerID,
		Category:  input.Category,
		Question:  question,
		Answer:    input.Answer,
		Privacy:   input.Privacy,
	}, e.now, e.idGenerator)
	if err != nil {
		return Projection{}, err
	}
	e.facts = e.facts.Add(card)

	evt, err := event.NewFactStored(e.now().UTC(), e.state.CurrentAct, card.AuthorID, event.FactStoredPayload{
		FactID:   card.ID,
		Subject:  card.SubjectID,
		Category: card.Category,
		Privacy:  card.Privacy.String(),
	})
	if err != nil {
		return Projection{}, err
	}
	e.record(ctx, evt)
	e.autosave(ctx)
	return e.projection(), nil
}

// SubmitAnswer records a player answer. When a module turn is open the
// answer also lands in its turn packet.
func (e *Engine) SubmitAnswer(ctx context.Context, playerID, body string) (Projection, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireStarted(); err != nil {
		return Projection{}, err
	}
	if _, err := domain.FindPlayer(e.players, playerID); err != nil {
		return Projection{}, err
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return Projection{}, apperrors.New(apperrors.CodeFactEmptyAnswer, "answer body is required")
	}

	at := e.now().UTC()
	if e.openPacketID != "" {
		updated, err := e.packets.AddSubmission(e.openPacketID, packet.Submission{
			PlayerID:    playerID,
			Body:        body,
			SubmittedAt: at,
		})
		if err != nil {
			return Projection{}, err
		}
		e.packets = updated
	}

	evt, err := event.NewAnswerSubmitted(at, e.state.CurrentAct, playerID, event.AnswerSubmittedPayload{
		TurnPacketID: e.openPacketID,
		Answer:       body,
	})
	if err != nil {
		return Projection{}, err
	}
	e.record(ctx, evt)
	e.autosave(ctx)
	return e.projection(), nil
}

// PassTurn hands the device to the next player under the fairness rules.
func (e *Engine) PassTurn(ctx context.Context) (Projection, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireStarted(); err != nil {
		return Projection{}, err
	}

	from := e.state.ActivePlayerID
	next, selection, err := turn.AdvanceToNextPlayer(e.state, e.players, e.allowBackToBack())
	if err != nil {
		return Projection{}, err
	}
	e.state = next

	evt, err := event.NewTurnPassed(e.now().UTC(), e.state.CurrentAct, event.TurnPassedPayload{
		FromPlayerID: from,
		ToPlayerID:   selection.PlayerID,
		OnDeckID:     e.state.NextPlayerID,
		BackToBack:   selection.IsBackToBack,
	})
	if err != nil {
		return Projection{}, err
	}
	e.record(ctx, evt)
	e.autosave(ctx)
	return e.projection(), nil
}

// StartModule picks the round's mini-game and opens its turn. An empty
// moduleID lets the registry rank eligible cartridges; the generated
// prompt lands in a fresh turn packet.
func (e *Engine) StartModule(ctx context.Context, moduleID string) (Projection, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireStarted(); err != nil {
		return Projection{}, err
	}
	if e.state.CurrentState != domain.StateAct2ModuleIntro {
		return Projection{}, apperrors.WithMetadata(apperrors.CodeStateInvalidTransition,
			"modules start from the act two intro screen", map[string]string{
				"current": string(e.state.CurrentState),
			})
	}
	if e.cartridges == nil {
		return Projection{}, apperrors.New(apperrors.CodeCartridgeNoneEligible, "no cartridge registry configured")
	}

	cctx := cartridge.Context{
		PlayerCount:     len(e.players),
		FactsDB:         e.facts,
		RecentModuleIDs: append([]string(nil), e.recentModuleIDs...),
		Round:           e.round,
		SafetyMode:      e.setup.SafetyMode.String(),
	}

	var def cartridge.Definition
	var err error
	if strings.TrimSpace(moduleID) != "" {
		def, err = e.cartridges.Get(moduleID)
	} else {
		def, _, err = e.cartridges.SelectNext(cctx, false)
	}
	if err != nil {
		return Projection{}, err
	}

	instanceID, err := e.idGenerator()
	if err != nil {
		return Projection{}, fmt.Errorf("generate module instance id: %w", err)
	}

	body, fromFallback := e.modulePrompt(ctx, def, cctx)
	source := "generated"
	if fromFallback {
		source = "fallback"
	}

	// Everything that can fail happens before the state moves, so an
	// error leaves no half-started module behind.
	p, err := packet.Create(packet.CreateInput{
		Act:       e.state.CurrentAct,
		Round:     e.round,
		TurnIndex: e.state.TotalTurns(),
		ModuleID:  def.ID(),
		PlayerID:  e.state.ActivePlayerID,
		Prompt:    packet.Prompt{Body: body, Source: source},
		Relevance: packet.Relevance{Note: fmt.Sprintf("round %d pick", e.round)},
	}, e.now, e.idGenerator)
	if err != nil {
		return Projection{}, err
	}

	at := e.now().UTC()
	started, err := event.NewModuleStarted(at, e.state.CurrentAct, e.state.ActivePlayerID, event.ModuleStartedPayload{
		ModuleID:   def.ID(),
		InstanceID: instanceID,
	})
	if err != nil {
		return Projection{}, err
	}
	shown, err := event.NewPromptShown(at, e.state.CurrentAct, e.state.ActivePlayerID, event.PromptShownPayload{
		TurnPacketID: p.ID,
		ModuleID:     def.ID(),
		Body:         body,
	})
	if err != nil {
		return Projection{}, err
	}

	if err := e.transition(ctx, domain.StateAct2ModulePlay); err != nil {
		return Projection{}, err
	}
	e.state = e.state.WithActiveModule(def.ID(), instanceID, e.now)
	e.packets = e.packets.Add(p)
	e.openPacketID = p.ID
	e.record(ctx, started)
	e.record(ctx, shown)

	e.archivePacket(ctx, p.ID)
	e.autosave(ctx)
	return e.projection(), nil
}

func (e *Engine) modulePrompt(ctx context.Context, def cartridge.Definition, cctx cartridge.Context) (string, bool) {
	if e.content == nil {
		return genai.FallbackText(genai.PurposePrompt), true
	}
	res, err := e.content.Generate(ctx, genai.Request{
		Purpose: genai.PurposePrompt,
		Context: genai.RequestContext{
			ModuleID:      def.ID(),
			ModuleName:    def.Name(),
			CurrentPhase:  string(e.state.CurrentState),
			SafetyMode:    cctx.SafetyMode,
			RelevantFacts: factQuestions(e.facts.Facts),
		},
	})
	return genai.BodyOrFallback(genai.PurposePrompt, res, err)
}

// CompleteModule closes the round with the module's result. Score changes
// apply atomically; an empty map leaves every score untouched while the
// turn packet stays queryable.
func (e *Engine) CompleteModule(ctx context.Context, result cartridge.Result) (Projection, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireStarted(); err != nil {
		return Projection{}, err
	}
	if e.state.CurrentState != domain.StateAct2ModulePlay {
		return Projection{}, apperrors.WithMetadata(apperrors.CodeStateInvalidTransition,
			"no module is in play", map[string]string{
				"current": string(e.state.CurrentState),
			})
	}

	moduleID := e.state.ActiveModuleID
	instanceID := e.state.ActiveModuleInstanceID
	packetID := e.openPacketID

	updatedPlayers, err := domain.ApplyScoreChanges(e.players, result.ScoreChanges)
	if err != nil {
		return Projection{}, err
	}

	updatedPackets := e.packets
	if packetID != "" && len(result.Highlights) > 0 {
		updatedPackets, err = updatedPackets.AddHighlightTags(packetID, result.Highlights...)
		if err != nil {
			return Projection{}, err
		}
	}

	if err := e.transition(ctx, domain.StateAct2ModuleReveal); err != nil {
		return Projection{}, err
	}
	e.players = updatedPlayers
	e.packets = updatedPackets

	at := e.now().UTC()
	for playerID, points := range result.ScoreChanges {
		if points == 0 {
			continue
		}
		evt, err := event.NewScoreAwarded(at, e.state.CurrentAct, playerID, event.ScoreAwardedPayload{
			Points: points,
			Reason: moduleID,
		})
		if err != nil {
			return Projection{}, err
		}
		e.record(ctx, evt)
	}

	completed, err := event.NewModuleCompleted(at, e.state.CurrentAct, event.ModuleCompletedPayload{
		ModuleID:     moduleID,
		InstanceID:   instanceID,
		ScoreChanges: result.ScoreChanges,
		Highlights:   result.Highlights,
	})
	if err != nil {
		return Projection{}, err
	}
	e.record(ctx, completed)

	if packetID != "" {
		if reveal, err := e.packets.SetReveal(packetID, packet.Reveal{RevealedAt: at}); err == nil {
			e.packets = reveal
		}
		e.archivePacket(ctx, packetID)
	}
	e.openPacketID = ""
	e.recentModuleIDs = append([]string{moduleID}, e.recentModuleIDs...)
	e.round++

	e.autosave(ctx)
	return e.projection(), nil
}

// SkipModule abandons the round without scores. A skipped round still
// counts against the act-two pacing ceiling.
func (e *Engine) SkipModule(ctx context.Context, reason string) (Projection, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireStarted(); err != nil {
		return Projection{}, err
	}
	if e.state.CurrentState != domain.StateAct2ModulePlay {
		return Projection{}, apperrors.WithMetadata(apperrors.CodeStateInvalidTransition,
			"no module is in play", map[string]string{
				"current": string(e.state.CurrentState),
			})
	}

	moduleID := e.state.ActiveModuleID
	instanceID := e.state.ActiveModuleInstanceID
	packetID := e.openPacketID

	if err := e.transition(ctx, domain.StateAct2ModuleIntro); err != nil {
		return Projection{}, err
	}

	evt, err := event.NewModuleSkipped(e.now().UTC(), e.state.CurrentAct, event.ModuleSkippedPayload{
		ModuleID:   moduleID,
		InstanceID: instanceID,
		Reason:     reason,
	})
	if err != nil {
		return Projection{}, err
	}
	e.record(ctx, evt)

	e.archivePacket(ctx, packetID)
	e.openPacketID = ""
	e.recentModuleIDs = append([]string{moduleID}, e.recentModuleIDs...)
	e.round++

	e.autosave(ctx)
	return e.projection(), nil
}

// RevealFact marks a hidden fact as revealed during the finale.
func (e *Engine) RevealFact(ctx context.Context, factID string) (Projection, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireStarted(); err != nil {
		return Projection{}, err
	}

	at := e.now().UTC()
	updated, err := e.facts.Reveal(factID, at)
	if err != nil {
		return Projection{}, err
	}
	e.facts = updated

	evt, err := event.NewFactRevealed(at, e.state.CurrentAct, event.FactRevealedPayload{
		FactID: factID,
	})
	if err != nil {
		return Projection{}, err
	}
	e.record(ctx, evt)
	e.autosave(ctx)
	return e.projection(), nil
}

// EndActIfDue consults the pacing engine and, when an act boundary is
// both due and legal from the current state, performs the transition.
func (e *Engine) EndActIfDue(ctx context.Context) (pacing.Decision, Projection, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireStarted(); err != nil {
		return pacing.Decision{}, Projection{}, err
	}

	decision := pacing.Calculate(e.state, e.events, e.facts, e.thresholds, e.now)

	var boundary domain.State
	var act int
	var reason string
	switch {
	case e.state.CurrentAct == 1 && decision.ShouldEndAct1 &&
		domain.CanTransition(e.state.CurrentState, domain.StateAct1Transition):
		boundary, act, reason = domain.StateAct1Transition, 1, decision.Act1Reason
	case e.state.CurrentAct == 2 && decision.ShouldEndAct2 &&
		domain.CanTransition(e.state.CurrentState, domain.StateAct2Transition):
		boundary, act, reason = domain.StateAct2Transition, 2, decision.Act2Reason
	default:
		return decision, e.projection(), nil
	}

	ended, err := event.NewActEnded(e.now().UTC(), event.ActEndedPayload{
		Act:    act,
		Reason: reason,
	})
	if err != nil {
		return pacing.Decision{}, Projection{}, err
	}
	if err := e.transition(ctx, boundary); err != nil {
		return pacing.Decision{}, Projection{}, err
	}
	e.record(ctx, ended)

	e.autosave(ctx)
	return decision, e.projection(), nil
}

// FinaleHighlights selects the best packet per finale category.
func (e *Engine) FinaleHighlights(categories []string) []packet.Highlight {
	e.mu.Lock()
	defer e.mu.Unlock()
	return packet.SelectHighlights(e.packets, categories)
}

// recentModulesFromLog rebuilds the recency list from module.started
// journal entries, newest first, so cartridge suppression survives a
// restore.
func recentModulesFromLog(log event.Log) []string {
	var recent []string
	for _, evt := range log.Events {
		if evt.Type != event.TypeModuleStarted {
			continue
		}
		var payload event.ModuleStartedPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			continue
		}
		recent = append([]string{payload.ModuleID}, recent...)
	}
	return recent
}

// openPacketFromState finds the packet for the module in play at save
// time: the latest unrevealed packet for the active module. Empty when
// the save landed outside ACT2_MODULE_PLAY.
func openPacketFromState(state domain.GameState, packets packet.Store) string {
	if state.CurrentState != domain.StateAct2ModulePlay || state.ActiveModuleID == "" {
		return ""
	}
	modulePackets := packets.PacketsForModule(state.ActiveModuleID)
	for i := len(modulePackets) - 1; i >= 0; i-- {
		if modulePackets[i].Reveal == nil {
			return modulePackets[i].ID
		}
	}
	return ""
}

func factQuestions(cards []facts.Card) []string {
	out := make([]string, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.Question)
	}
	return out
}
