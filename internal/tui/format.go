package tui

import (
	"fmt"
	"strings"

	"github.com/Iron-Ham/claudeyes/internal/event"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// truncate shortens s to maxWidth visual columns, adding "..." if truncated.
// ANSI escape codes and wide characters are accounted for.
func truncate(s string, maxWidth int) string {
	if maxWidth <= 3 {
		return "..."
	}
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	return ansi.Truncate(s, maxWidth, "...")
}

// Describe renders an automation event as a single log line. It returns
// the empty string for events that are not worth listing.
func Describe(e event.Event) string {
	ts := e.Timestamp().Format("15:04:05")
	switch ev := e.(type) {
	case event.StateChangedEvent:
		line := fmt.Sprintf("%s %s -> %s (%s)", ts, ev.OldState, ev.NewState, ev.Cause)
		if ev.Reason != "" {
			line += ": " + ev.Reason
		}
		return line
	case event.ProceedSentEvent:
		if ev.Err != "" {
			return fmt.Sprintf("%s confirmation #%d failed: %s", ts, ev.ProceedCount, singleLine(ev.Err))
		}
		limit := "∞"
		if ev.MaxProceeds > 0 {
			limit = fmt.Sprint(ev.MaxProceeds)
		}
		return fmt.Sprintf("%s sent confirmation %d/%s", ts, ev.ProceedCount, limit)
	case event.NotifiedEvent:
		if ev.Err != "" {
			return fmt.Sprintf("%s notification failed: %s", ts, singleLine(ev.Err))
		}
		return fmt.Sprintf("%s notified: %s", ts, ev.Body)
	default:
		return ""
	}
}

// singleLine collapses runs of whitespace, including newlines, to one space.
func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
