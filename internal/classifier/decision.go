package classifier

import "fmt"

// Kind identifies the category of a Decision.
type Kind int

const (
	// KindIgnore means no action is warranted for this snapshot.
	KindIgnore Kind = iota
	// KindProceed means a routine confirmation prompt should be answered.
	KindProceed
	// KindPause means automation must stop and a human must be notified.
	KindPause
	// KindAutoResume means automation should re-arm after a completion pause.
	KindAutoResume
)

// String returns a human-readable string for the kind.
func (k Kind) String() string {
	switch k {
	case KindIgnore:
		return "ignore"
	case KindProceed:
		return "proceed"
	case KindPause:
		return "pause"
	case KindAutoResume:
		return "auto_resume"
	default:
		return "unknown"
	}
}

// Pause reasons produced by the classifier.
const (
	ReasonLoop          = "Potential loop detected - similar outputs repeated"
	ReasonUserInput     = "User input required"
	ReasonTaskCompleted = "Task appears to be complete"
)

// Decision is the result of classifying one terminal snapshot.
// Decisions are comparable values; Reason is only set for KindPause.
type Decision struct {
	Kind   Kind
	Reason string
}

// Proceed returns a proceed decision.
func Proceed() Decision { return Decision{Kind: KindProceed} }

// Pause returns a pause decision carrying reason.
func Pause(reason string) Decision { return Decision{Kind: KindPause, Reason: reason} }

// AutoResume returns an auto-resume decision.
func AutoResume() Decision { return Decision{Kind: KindAutoResume} }

// Ignore returns an ignore decision.
func Ignore() Decision { return Decision{} }

// String renders the decision for logs, e.g. `pause("User input required")`.
func (d Decision) String() string {
	if d.Kind == KindPause {
		return fmt.Sprintf("pause(%q)", d.Reason)
	}
	return d.Kind.String()
}
