package errors

import (
	"errors"
	"fmt"
	"testing"
)

// -----------------------------------------------------------------------------
// TerminalError Tests
// -----------------------------------------------------------------------------

func TestTerminalError_Error(t *testing.T) {
	base := errors.New("exit status 1")

	tests := []struct {
		name string
		err  *TerminalError
		want string
	}{
		{
			name: "server-wide",
			err:  NewTerminalError("list-panes", base),
			want: "terminal list-panes: exit status 1",
		},
		{
			name: "with target",
			err:  NewTerminalError("capture-pane", base).WithTarget("work:0.1"),
			want: "terminal capture-pane [work:0.1]: exit status 1",
		},
		{
			name: "no cause",
			err:  NewTerminalError("send-keys", nil),
			want: "terminal send-keys",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTerminalError_WithTargetCopies(t *testing.T) {
	orig := NewTerminalError("capture-pane", ErrTmuxUnavailable)
	scoped := orig.WithTarget("a:1.0")

	if orig.Target != "" {
		t.Errorf("original Target = %q, want empty", orig.Target)
	}
	if scoped.Target != "a:1.0" {
		t.Errorf("scoped Target = %q, want %q", scoped.Target, "a:1.0")
	}
}

func TestTerminalError_Unwrap(t *testing.T) {
	err := fmt.Errorf("read: %w", NewTerminalError("list-panes", ErrTmuxUnavailable))

	if !Is(err, ErrTmuxUnavailable) {
		t.Error("Is(err, ErrTmuxUnavailable) = false, want true")
	}

	var termErr *TerminalError
	if !As(err, &termErr) {
		t.Fatal("As(err, *TerminalError) = false, want true")
	}
	if termErr.Op != "list-panes" {
		t.Errorf("Op = %q, want %q", termErr.Op, "list-panes")
	}
}

// -----------------------------------------------------------------------------
// ValidationError Tests
// -----------------------------------------------------------------------------

func TestValidationError(t *testing.T) {
	err := NewValidationError("automation.max_proceeds", -1, "must be non-negative")

	want := "automation.max_proceeds: must be non-negative (got: -1)"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !Is(err, ErrInvalidConfig) {
		t.Error("ValidationError should match ErrInvalidConfig")
	}
}

// -----------------------------------------------------------------------------
// Classification Tests
// -----------------------------------------------------------------------------

func TestIsObservation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"tmux unavailable", ErrTmuxUnavailable, true},
		{"no panes", fmt.Errorf("read: %w", ErrNoPanes), true},
		{"terminal error", NewTerminalError("capture-pane", errors.New("boom")), true},
		{"send failure", NewTerminalError("send-keys", ErrSendFailed), false},
		{"config", ErrInvalidConfig, false},
		{"plain", errors.New("other"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsObservation(tt.err); got != tt.want {
				t.Errorf("IsObservation() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"observation", ErrNoPanes, true},
		{"send", ErrSendFailed, true},
		{"config", NewValidationError("x", 1, "bad"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}
