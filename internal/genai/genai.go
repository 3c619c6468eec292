// Package genai is the boundary to the external content-generation service.
//
// The engine never parses provider wire formats directly. It issues a
// Request naming a Purpose plus freeform context, and expects a Response
// whose screen body is plain text. Domain values (a question, a score) are
// pulled out of that text with tolerant parsers that fall back to a safe
// default instead of ever propagating a parse failure into game state.
package genai

import (
	"context"
	"strconv"
	"strings"
)

// Purpose identifies what the engine wants generated.
type Purpose string

const (
	// PurposePrompt asks for a question or challenge to show a player.
	PurposePrompt Purpose = "generate-prompt"
	// PurposeContent asks for mini-game content (options, decoys).
	PurposeContent Purpose = "generate-content"
	// PurposeScore asks for submissions to be judged.
	PurposeScore Purpose = "score-answers"
	// PurposeCommentary asks for color commentary on an outcome.
	PurposeCommentary Purpose = "generate-commentary"
)

// RequestContext carries the session context a generation needs.
type RequestContext struct {
	ModuleID      string   `json:"module_id,omitempty"`
	ModuleName    string   `json:"module_name,omitempty"`
	CurrentPhase  string   `json:"current_phase,omitempty"`
	SafetyMode    string   `json:"safety_mode,omitempty"`
	RelevantFacts []string `json:"relevant_facts,omitempty"`
	Submissions   []string `json:"submissions,omitempty"`
	// Extra holds freeform purpose-specific context.
	Extra map[string]any `json:"extra,omitempty"`
}

// Request is one content-generation call.
type Request struct {
	Purpose      Purpose        `json:"purpose"`
	Context      RequestContext `json:"context"`
	Instructions string         `json:"instructions,omitempty"`
}

// Screen is the minimum a response must carry: text to show.
type Screen struct {
	Body string `json:"body"`
}

// Response is the service reply.
type Response struct {
	Screen Screen `json:"screen"`
}

// Client generates content. Implementations live outside the engine; a
// request is awaited by the driver and never runs concurrently with
// another engine mutation for the same session.
type Client interface {
	Generate(ctx context.Context, req Request) (Response, error)
}

// Fallback bodies substituted when the service fails or replies with
// something unusable. The session continues uninterrupted.
var fallbacks = map[Purpose]string{
	PurposePrompt:     "Tell the group something about yourself that nobody here knows yet.",
	PurposeContent:    "The glitch ate this round's content. Make up your own answers!",
	PurposeScore:      "1",
	PurposeCommentary: "The glitch is speechless. Moving on!",
}

// FallbackText returns the hardcoded body used when generation fails.
func FallbackText(purpose Purpose) string {
	if body, ok := fallbacks[purpose]; ok {
		return body
	}
	return fallbacks[PurposeCommentary]
}

// BodyOrFallback returns the response body, or the purpose's fallback when
// the call failed or the body is blank.
func BodyOrFallback(purpose Purpose, res Response, err error) (string, bool) {
	if err != nil {
		return FallbackText(purpose), true
	}
	body := strings.TrimSpace(res.Screen.Body)
	if body == "" {
		return FallbackText(purpose), true
	}
	return body, false
}

// ParseScore extracts the first integer from a reply body, clamped to
// [min, max]. The fallback is returned when no integer is present.
func ParseScore(body string, min, max, fallback int) int {
	fields := strings.FieldsFunc(body, func(r rune) bool {
		return (r < '0' || r > '9') && r != '-'
	})
	for _, field := range fields {
		value, err := strconv.Atoi(field)
		if err != nil {
			continue
		}
		if value < min {
			return min
		}
		if value > max {
			return max
		}
		return value
	}
	return fallback
}

// ParseQuestion extracts the first line that reads like a question,
// falling back when the body has none.
func ParseQuestion(body, fallback string) string {
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasSuffix(line, "?") {
			return line
		}
	}
	if trimmed := strings.TrimSpace(body); trimmed != "" {
		return trimmed
	}
	return fallback
}
