package genai

import (
	"context"
	"errors"
	"testing"
)

func TestParseScore(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"bare integer", "3", 3},
		{"integer in prose", "I award this answer 4 points!", 4},
		{"clamped high", "9000 points", 5},
		{"clamped low", "-2", 0},
		{"no integer", "utterly unscoreable", 1},
		{"empty", "", 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseScore(tc.body, 0, 5, 1)
			if got != tc.want {
				t.Errorf("ParseScore(%q) = %d, want %d", tc.body, got, tc.want)
			}
		})
	}
}

func TestParseQuestion(t *testing.T) {
	body := "Here is a good one.\nWhat is your favorite color?\nUse it wisely."
	got := ParseQuestion(body, "fallback?")
	if got != "What is your favorite color?" {
		t.Errorf("ParseQuestion = %q", got)
	}

	if got := ParseQuestion("no question here", "fallback?"); got != "no question here" {
		t.Errorf("ParseQuestion without question mark = %q, want body passthrough", got)
	}
	if got := ParseQuestion("   ", "fallback?"); got != "fallback?" {
		t.Errorf("ParseQuestion on blank body = %q, want fallback", got)
	}
}

func TestBodyOrFallback(t *testing.T) {
	res := Response{Screen: Screen{Body: "A fine question?"}}
	if body, fell := BodyOrFallback(PurposePrompt, res, nil); fell || body != "A fine question?" {
		t.Errorf("BodyOrFallback = %q fell=%v", body, fell)
	}

	if body, fell := BodyOrFallback(PurposePrompt, Response{}, errors.New("boom")); !fell || body != FallbackText(PurposePrompt) {
		t.Errorf("BodyOrFallback on error = %q fell=%v", body, fell)
	}

	blank := Response{Screen: Screen{Body: "  \n "}}
	if body, fell := BodyOrFallback(PurposeCommentary, blank, nil); !fell || body != FallbackText(PurposeCommentary) {
		t.Errorf("BodyOrFallback on blank body = %q fell=%v", body, fell)
	}
}

func TestStaticClient(t *testing.T) {
	client := NewStaticClient(map[Purpose]string{
		PurposePrompt: "What is the airspeed of an unladen swallow?",
	})

	res, err := client.Generate(context.Background(), Request{Purpose: PurposePrompt})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Screen.Body != "What is the airspeed of an unladen swallow?" {
		t.Errorf("body = %q", res.Screen.Body)
	}

	res, err = client.Generate(context.Background(), Request{Purpose: PurposeScore})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Screen.Body != FallbackText(PurposeScore) {
		t.Errorf("unmapped purpose body = %q, want fallback", res.Screen.Body)
	}

	if got := len(client.Requests()); got != 2 {
		t.Errorf("recorded %d requests, want 2", got)
	}
}
