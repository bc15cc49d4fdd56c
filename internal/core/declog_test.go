// ABOUTME: Tests for the decision log ring buffer
// ABOUTME: Verifies cap 100, insertion ordering, and Recent slicing

package core

import (
	"fmt"
	"testing"

	"github.com/harper/intent-curator/internal/models"
)

func TestDecisionLog_CapAndOrdering(t *testing.T) {
	l := NewDecisionLog(100)

	for i := 1; i <= 150; i++ {
		l.Append(models.DecisionLogEntry{Message: fmt.Sprintf("m%d", i)})
	}

	if l.Len() != 100 {
		t.Fatalf("Len = %d, want 100", l.Len())
	}

	entries := l.Recent(0)
	if entries[0].Message != "m51" {
		t.Errorf("oldest = %q, want m51", entries[0].Message)
	}
	if entries[99].Message != "m150" {
		t.Errorf("newest = %q, want m150", entries[99].Message)
	}
}

func TestDecisionLog_Recent(t *testing.T) {
	l := NewDecisionLog(100)
	for i := 1; i <= 5; i++ {
		l.Append(models.DecisionLogEntry{Message: fmt.Sprintf("m%d", i)})
	}

	got := l.Recent(2)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Message != "m4" || got[1].Message != "m5" {
		t.Errorf("Recent(2) = %v, want m4 then m5", got)
	}

	if len(l.Recent(50)) != 5 {
		t.Errorf("Recent larger than log should return all entries")
	}
}

func TestDecisionLog_DefaultLimit(t *testing.T) {
	l := NewDecisionLog(0)
	for i := 0; i < DefaultDecisionLogLimit+10; i++ {
		l.Append(models.DecisionLogEntry{})
	}
	if l.Len() != DefaultDecisionLogLimit {
		t.Errorf("Len = %d, want %d", l.Len(), DefaultDecisionLogLimit)
	}
}
