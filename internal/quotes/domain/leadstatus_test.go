package domain

import (
	"testing"
	"time"
)

func TestNextDecayThresholds(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		status     string
		staleDays  int
		wantStatus string
		wantMatch  bool
	}{
		{"new quote fresh", LeadStatusNew, 2, "", false},
		{"new quote 4 days stale", LeadStatusNew, 4, LeadStatusWarm, true},
		{"hot quote 4 days stale", LeadStatusHot, 4, LeadStatusWarm, true},
		{"warm quote 4 days stale", LeadStatusWarm, 4, "", false},
		{"warm quote 8 days stale", LeadStatusWarm, 8, LeadStatusCold, true},
		{"cold quote 8 days stale", LeadStatusCold, 8, "", false},
		{"cold quote 15 days stale", LeadStatusCold, 15, LeadStatusArchived, true},
		{"archived never decays", LeadStatusArchived, 30, "", false},
		{"converted never decays", LeadStatusConverted, 30, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lastActivity := now.AddDate(0, 0, -tt.staleDays)
			got, ok := NextDecay(tt.status, lastActivity, now)
			if ok != tt.wantMatch {
				t.Fatalf("match = %v, want %v", ok, tt.wantMatch)
			}
			if got != tt.wantStatus {
				t.Fatalf("status = %q, want %q", got, tt.wantStatus)
			}
		})
	}
}

// A quote at cold with 15 days of inactivity archives directly; it must not
// pass through an intermediate status, and hot at 15 days only reaches warm
// in a single pass.
func TestNextDecaySinglePassSemantics(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	stale := now.AddDate(0, 0, -15)

	if got, ok := NextDecay(LeadStatusCold, stale, now); !ok || got != LeadStatusArchived {
		t.Fatalf("cold 15d = (%q, %v), want archived", got, ok)
	}
	if got, ok := NextDecay(LeadStatusHot, stale, now); !ok || got != LeadStatusWarm {
		t.Fatalf("hot 15d = (%q, %v), want warm in one pass", got, ok)
	}
}

func TestCanPromote(t *testing.T) {
	if !CanPromote(LeadStatusCold, LeadStatusWarm) {
		t.Error("cold -> warm should be a valid promotion")
	}
	if !CanPromote(LeadStatusWarm, LeadStatusHot) {
		t.Error("warm -> hot should be a valid promotion")
	}
	if CanPromote(LeadStatusHot, LeadStatusWarm) {
		t.Error("promotions must not lower the status")
	}
	if CanPromote(LeadStatusConverted, LeadStatusHot) {
		t.Error("terminal dispositions cannot be promoted")
	}
	if CanPromote(LeadStatusWarm, LeadStatusConverted) {
		t.Error("promote cannot set a terminal disposition")
	}
}

func TestIsDemotable(t *testing.T) {
	for _, status := range []string{LeadStatusNew, LeadStatusWarm, LeadStatusHot} {
		if !IsDemotable(status) {
			t.Errorf("%s should be demotable", status)
		}
	}
	for _, status := range []string{LeadStatusCold, LeadStatusArchived, LeadStatusConverted, LeadStatusClosed, LeadStatusOrder} {
		if IsDemotable(status) {
			t.Errorf("%s should not be demotable", status)
		}
	}
}
