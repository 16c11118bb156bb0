package controller

import "fmt"

// Status is the automation mode of a Controller.
type Status int

const (
	// StatusIdle means automation is disabled and no poll side effects apply.
	StatusIdle Status = iota
	// StatusRunning means classifier output may trigger keystroke injection.
	StatusRunning
	// StatusPaused means automation is suspended; monitoring continues so a
	// manual follow-up can auto-resume it, but no keystrokes are sent.
	StatusPaused
)

// String returns the lowercase name of the status.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRunning:
		return "running"
	case StatusPaused:
		return "paused"
	default:
		return "unknown"
	}
}

// DefaultPauseReason replaces an empty pause reason; a paused state always
// carries a non-empty reason.
const DefaultPauseReason = "Paused"

// State is the automation state. Reason is non-empty exactly when Status is
// StatusPaused. States are comparable.
type State struct {
	Status Status
	Reason string
}

// Idle returns the idle state.
func Idle() State { return State{Status: StatusIdle} }

// Running returns the running state.
func Running() State { return State{Status: StatusRunning} }

// Paused returns a paused state with reason, substituting DefaultPauseReason
// for an empty reason.
func Paused(reason string) State {
	if reason == "" {
		reason = DefaultPauseReason
	}
	return State{Status: StatusPaused, Reason: reason}
}

// String renders the state for logs.
func (s State) String() string {
	if s.Status == StatusPaused {
		return fmt.Sprintf("paused(%q)", s.Reason)
	}
	return s.Status.String()
}

// StatusText renders the human-facing status line, e.g.
// "Running (Proceeded 3/50 times)". A zero maxProceeds is shown as ∞.
func StatusText(s State, proceedCount, maxProceeds int) string {
	switch s.Status {
	case StatusRunning:
		limit := "∞"
		if maxProceeds > 0 {
			limit = fmt.Sprintf("%d", maxProceeds)
		}
		return fmt.Sprintf("Running (Proceeded %d/%s times)", proceedCount, limit)
	case StatusPaused:
		return "Paused: " + s.Reason
	default:
		return "Idle"
	}
}

// LimitReason is the pause reason used when the proceed limit is reached.
func LimitReason(maxProceeds int) string {
	return fmt.Sprintf("Maximum proceed limit of %d reached", maxProceeds)
}
