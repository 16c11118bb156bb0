// Package errors provides centralized error definitions and error handling utilities
// for claudeyes. It defines the sentinel errors shared between the terminal backend,
// the controller and the configuration layer, a typed TerminalError for tmux
// failures, and classification helpers used to decide how a failure is reported.
//
// # Error Taxonomy
//
// The automation core recognizes three kinds of failure:
//   - Observation failures: the terminal could not be read (no tmux server,
//     no matching panes, permission denied). These are never fatal; the poll
//     tick that saw them is treated as a no-op.
//   - Action failures: the confirmation keystroke could not be delivered.
//     These are logged and otherwise ignored.
//   - Configuration failures: invalid values rejected at the boundary before
//     they reach the controller.
//
// # Usage
//
//	err := errors.NewTerminalError("capture-pane", baseErr).WithTarget("work:0.1")
//
//	if errors.IsObservation(err) { ... }
//
//	var termErr *errors.TerminalError
//	if errors.As(err, &termErr) { ... }
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

var (
	// ErrTmuxUnavailable indicates that the tmux binary or server could not be reached.
	ErrTmuxUnavailable = New("tmux is not available")
	// ErrNoPanes indicates that no pane matched the configured session filter and marker.
	ErrNoPanes = New("no matching terminal panes")
	// ErrSendFailed indicates that a keystroke could not be delivered to a pane.
	ErrSendFailed = New("failed to send keystrokes")
	// ErrInvalidConfig indicates a configuration value outside its allowed range.
	ErrInvalidConfig = New("invalid configuration")
)

// -----------------------------------------------------------------------------
// Terminal Errors
// -----------------------------------------------------------------------------

// TerminalError describes a failed interaction with the terminal multiplexer.
type TerminalError struct {
	Op     string // tmux subcommand or logical operation (e.g. "capture-pane")
	Target string // pane target, empty when the operation is server-wide
	Err    error
}

// NewTerminalError wraps err as a TerminalError for the given operation.
func NewTerminalError(op string, err error) *TerminalError {
	return &TerminalError{Op: op, Err: err}
}

// WithTarget returns a copy of the error scoped to a pane target.
func (e *TerminalError) WithTarget(target string) *TerminalError {
	cp := *e
	cp.Target = target
	return &cp
}

// Error implements the error interface.
func (e *TerminalError) Error() string {
	var sb strings.Builder
	sb.WriteString("terminal ")
	sb.WriteString(e.Op)
	if e.Target != "" {
		sb.WriteString(" [")
		sb.WriteString(e.Target)
		sb.WriteString("]")
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

// Unwrap returns the underlying error.
func (e *TerminalError) Unwrap() error {
	return e.Err
}

// -----------------------------------------------------------------------------
// Validation Errors
// -----------------------------------------------------------------------------

// ValidationError reports a rejected value for a named field.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// NewValidationError creates a ValidationError.
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// Unwrap makes every ValidationError match ErrInvalidConfig.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidConfig
}

// -----------------------------------------------------------------------------
// Classification
// -----------------------------------------------------------------------------

// IsObservation reports whether err is a failure to read terminal content.
// Such failures are expected (no tmux server, nothing open yet) and must not
// change automation state.
func IsObservation(err error) bool {
	if err == nil {
		return false
	}
	if Is(err, ErrTmuxUnavailable) || Is(err, ErrNoPanes) {
		return true
	}
	var termErr *TerminalError
	return As(err, &termErr) && !Is(err, ErrSendFailed)
}

// IsRetryable reports whether the operation may succeed on a later tick.
// Configuration errors are the only non-retryable failures.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	return !Is(err, ErrInvalidConfig)
}
