package event

import "time"

// Event type identifiers. Convention: "category.action".
const (
	TypeStateChanged = "automation.state_changed"
	TypeProceedSent  = "automation.proceed_sent"
	TypeDecision     = "automation.decision"
	TypeNotified     = "automation.notified"
)

// Event is the interface that all events must implement.
type Event interface {
	// EventType returns a string identifier for this event type.
	EventType() string

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// baseEvent provides common fields for all events.
type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

func newBaseEvent(eventType string) baseEvent {
	return baseEvent{
		eventType: eventType,
		timestamp: time.Now(),
	}
}

// StateChangedEvent is emitted on every automation state transition.
type StateChangedEvent struct {
	baseEvent
	OldState     string // "idle", "running" or "paused"
	NewState     string
	Reason       string // Pause reason, empty unless NewState is "paused"
	Cause        string // What triggered the transition (start, stop, limit, classifier, ...)
	ProceedCount int
	MaxProceeds  int
	StatusText   string
}

// NewStateChangedEvent creates a StateChangedEvent.
func NewStateChangedEvent(oldState, newState, reason, cause string, proceedCount, maxProceeds int, statusText string) StateChangedEvent {
	return StateChangedEvent{
		baseEvent:    newBaseEvent(TypeStateChanged),
		OldState:     oldState,
		NewState:     newState,
		Reason:       reason,
		Cause:        cause,
		ProceedCount: proceedCount,
		MaxProceeds:  maxProceeds,
		StatusText:   statusText,
	}
}

// ProceedSentEvent is emitted after a confirmation keystroke was attempted.
type ProceedSentEvent struct {
	baseEvent
	ProceedCount int
	MaxProceeds  int
	Err          string // Delivery error, empty on success
}

// NewProceedSentEvent creates a ProceedSentEvent.
func NewProceedSentEvent(proceedCount, maxProceeds int, err error) ProceedSentEvent {
	e := ProceedSentEvent{
		baseEvent:    newBaseEvent(TypeProceedSent),
		ProceedCount: proceedCount,
		MaxProceeds:  maxProceeds,
	}
	if err != nil {
		e.Err = err.Error()
	}
	return e
}

// DecisionEvent is emitted for every classified (changed) snapshot.
type DecisionEvent struct {
	baseEvent
	Kind    string
	Reason  string
	TextLen int
}

// NewDecisionEvent creates a DecisionEvent.
func NewDecisionEvent(kind, reason string, textLen int) DecisionEvent {
	return DecisionEvent{
		baseEvent: newBaseEvent(TypeDecision),
		Kind:      kind,
		Reason:    reason,
		TextLen:   textLen,
	}
}

// NotifiedEvent is emitted when a human-visible notification was issued.
type NotifiedEvent struct {
	baseEvent
	Title string
	Body  string
	Err   string
}

// NewNotifiedEvent creates a NotifiedEvent.
func NewNotifiedEvent(title, body string, err error) NotifiedEvent {
	e := NotifiedEvent{
		baseEvent: newBaseEvent(TypeNotified),
		Title:     title,
		Body:      body,
	}
	if err != nil {
		e.Err = err.Error()
	}
	return e
}
