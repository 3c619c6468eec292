package event

import "testing"

func TestType_IsValid(t *testing.T) {
	tests := []struct {
		eventType Type
		want      bool
	}{
		{TypeStateTransitioned, true},
		{TypePromptShown, true},
		{TypeAnswerSubmitted, true},
		{TypeScoreAwarded, true},
		{TypeFactStored, true},
		{TypeFactRevealed, true},
		{TypeTurnPassed, true},
		{TypeModuleStarted, true},
		{TypeModuleCompleted, true},
		{TypeModuleSkipped, true},
		{TypeSessionSaved, true},
		{TypeSessionResumed, true},
		{TypeActEnded, true},
		// Empty type
		{"", false},
		// Custom types are allowed
		{"custom.event", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.eventType), func(t *testing.T) {
			if got := tt.eventType.IsValid(); got != tt.want {
				t.Errorf("Type(%q).IsValid() = %v, want %v", tt.eventType, got, tt.want)
			}
		})
	}
}

func TestType_Domain(t *testing.T) {
	tests := []struct {
		eventType Type
		want      string
	}{
		{TypeStateTransitioned, "state"},
		{TypeFactStored, "fact"},
		{TypeTurnPassed, "turn"},
		{TypeModuleCompleted, "module"},
		{TypeActEnded, "pacing"},
		{Type("nodot"), "nodot"},
		{Type(""), ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.eventType), func(t *testing.T) {
			if got := tt.eventType.Domain(); got != tt.want {
				t.Errorf("Type(%q).Domain() = %q, want %q", tt.eventType, got, tt.want)
			}
		})
	}
}
