// ABOUTME: Tests for shared CLI utility functions
// ABOUTME: Covers truncation, time formatting, and validation

package commands

import (
	"strings"
	"testing"
	"time"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		input  string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"this is a longer string", 10, "this is..."},
		{"ab", 2, "ab"},
	}

	for _, tt := range tests {
		if got := truncate(tt.input, tt.maxLen); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
		}
	}
}

func TestFormatTime(t *testing.T) {
	now := time.Now()

	if got := formatTime(now.Add(-30 * time.Second)); got != "just now" {
		t.Errorf("formatTime(30s ago) = %q", got)
	}
	if got := formatTime(now.Add(-5 * time.Minute)); !strings.HasSuffix(got, "m ago") {
		t.Errorf("formatTime(5m ago) = %q", got)
	}
	if got := formatTime(now.Add(-3 * time.Hour)); !strings.HasSuffix(got, "h ago") {
		t.Errorf("formatTime(3h ago) = %q", got)
	}
	if got := formatTime(now.Add(-48 * time.Hour)); !strings.HasSuffix(got, "d ago") {
		t.Errorf("formatTime(2d ago) = %q", got)
	}
	old := now.Add(-30 * 24 * time.Hour)
	if got := formatTime(old); got != old.Format("2006-01-02") {
		t.Errorf("formatTime(30d ago) = %q", got)
	}
}

func TestValidatePositiveInt(t *testing.T) {
	if err := validatePositiveInt(5, "limit"); err != nil {
		t.Errorf("validatePositiveInt(5) error = %v", err)
	}
	if err := validatePositiveInt(0, "limit"); err == nil {
		t.Error("validatePositiveInt(0) should error")
	}
	if err := validatePositiveInt(-1, "limit"); err == nil {
		t.Error("validatePositiveInt(-1) should error")
	}
}
