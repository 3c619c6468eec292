package id

import (
	"strings"
	"testing"
)

func TestNewID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		got, err := NewID()
		if err != nil {
			t.Fatalf("NewID() error: %v", err)
		}
		if len(got) != 26 {
			t.Fatalf("NewID() length = %d, want 26 (%q)", len(got), got)
		}
		if got != strings.ToLower(got) {
			t.Errorf("NewID() = %q, want lowercase", got)
		}
		if strings.Contains(got, "=") {
			t.Errorf("NewID() = %q, want no padding", got)
		}
		if seen[got] {
			t.Fatalf("NewID() produced duplicate %q", got)
		}
		seen[got] = true
	}
}
