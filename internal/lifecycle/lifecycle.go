// Package lifecycle derives client-facing view state from a meeting's
// persisted status. This service never drives transitions itself; the call
// and summary pipeline does. It only has to branch exhaustively so that a
// status value nobody handles is a hard error instead of a blank screen.
package lifecycle

import (
	"fmt"

	"github.com/RitochitGhosh/summarAIze/internal/models"
)

// State describes the affordances a client should render for a meeting.
type State struct {
	Status models.MeetingStatus `json:"status"`

	// CanJoin is set while the call is live.
	CanJoin bool `json:"can_join"`
	// CanCancel is set before the call has started.
	CanCancel bool `json:"can_cancel"`
	// SummaryAvailable is set once the post-call pipeline has finished.
	SummaryAvailable bool `json:"summary_available"`
	// Transitional marks states that resolve externally with no user action.
	Transitional bool `json:"transitional"`
	// Terminal marks states with no further transitions.
	Terminal bool `json:"terminal"`
}

// For returns the view state for a status. Unrecognized values return an
// error; callers must not render anything for them.
func For(status models.MeetingStatus) (State, error) {
	switch status {
	case models.StatusUpcoming:
		return State{Status: status, CanCancel: true}, nil
	case models.StatusActive:
		return State{Status: status, CanJoin: true}, nil
	case models.StatusCompleted:
		return State{Status: status, SummaryAvailable: true, Terminal: true}, nil
	case models.StatusProcessing:
		return State{Status: status, Transitional: true}, nil
	case models.StatusCancelled:
		return State{Status: status, Terminal: true}, nil
	}
	return State{}, fmt.Errorf("lifecycle: unhandled meeting status %q", status)
}
