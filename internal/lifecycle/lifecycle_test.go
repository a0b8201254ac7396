package lifecycle

import (
	"testing"

	"github.com/RitochitGhosh/summarAIze/internal/models"
)

var allStatuses = []models.MeetingStatus{
	models.StatusUpcoming,
	models.StatusActive,
	models.StatusCompleted,
	models.StatusProcessing,
	models.StatusCancelled,
}

func TestForCoversEveryStatus(t *testing.T) {
	for _, status := range allStatuses {
		state, err := For(status)
		if err != nil {
			t.Fatalf("For(%s): %v", status, err)
		}
		if state.Status != status {
			t.Fatalf("For(%s): state reports status %s", status, state.Status)
		}
	}
}

func TestForUnknownStatusFails(t *testing.T) {
	if _, err := For(models.MeetingStatus("archived")); err == nil {
		t.Fatal("expected error for unknown status")
	}
	if _, err := For(models.MeetingStatus("")); err == nil {
		t.Fatal("expected error for empty status")
	}
}

func TestAffordances(t *testing.T) {
	tests := []struct {
		status models.MeetingStatus
		want   State
	}{
		{models.StatusUpcoming, State{Status: models.StatusUpcoming, CanCancel: true}},
		{models.StatusActive, State{Status: models.StatusActive, CanJoin: true}},
		{models.StatusCompleted, State{Status: models.StatusCompleted, SummaryAvailable: true, Terminal: true}},
		{models.StatusProcessing, State{Status: models.StatusProcessing, Transitional: true}},
		{models.StatusCancelled, State{Status: models.StatusCancelled, Terminal: true}},
	}

	for _, tt := range tests {
		got, err := For(tt.status)
		if err != nil {
			t.Fatalf("For(%s): %v", tt.status, err)
		}
		if got != tt.want {
			t.Errorf("For(%s) = %+v, want %+v", tt.status, got, tt.want)
		}
	}
}

// Join and cancel are mutually exclusive across all states, and exactly one
// "primary" interpretation holds per status: joinable, cancellable,
// summary-bearing, transitional or terminal-without-summary.
func TestExactlyOnePrimaryInterpretation(t *testing.T) {
	for _, status := range allStatuses {
		state, err := For(status)
		if err != nil {
			t.Fatalf("For(%s): %v", status, err)
		}

		count := 0
		if state.CanJoin {
			count++
		}
		if state.CanCancel {
			count++
		}
		if state.SummaryAvailable {
			count++
		}
		if state.Transitional {
			count++
		}
		if state.Terminal && !state.SummaryAvailable {
			count++
		}
		if count != 1 {
			t.Errorf("status %s: %d primary interpretations, want exactly 1 (%+v)", status, count, state)
		}
	}
}
