// Package tmux provides centralized helpers for building tmux invocations.
//
// claudeyes observes sessions the user started themselves, so commands target
// the user's default tmux server unless a socket name is configured. A
// non-empty socket selects a named server with "-L socket", the same
// isolation mechanism tmux offers for side-by-side servers.
package tmux

import (
	"context"
	"os/exec"
	"strconv"
	"strings"
)

// Binary is the tmux executable looked up on PATH.
const Binary = "tmux"

// PaneFormat is the list-panes format used to enumerate panes. Fields are
// tab separated: session name, pane target, pane ID.
const PaneFormat = "#{session_name}\t#{session_name}:#{window_index}.#{pane_index}\t#{pane_id}"

// BaseArgs returns the socket arguments for socket, or nil for the default
// server.
func BaseArgs(socket string) []string {
	if socket == "" {
		return nil
	}
	return []string{"-L", socket}
}

// CommandArgs returns the full argument list for a tmux subcommand.
func CommandArgs(socket string, args ...string) []string {
	return append(BaseArgs(socket), args...)
}

// CommandContext creates a context-aware exec.Cmd for tmux.
func CommandContext(ctx context.Context, socket string, args ...string) *exec.Cmd {
	return exec.CommandContext(ctx, Binary, CommandArgs(socket, args...)...)
}

// ListPanesArgs returns the arguments that enumerate every pane on the server.
func ListPanesArgs() []string {
	return []string{"list-panes", "-a", "-F", PaneFormat}
}

// CapturePaneArgs returns the arguments that print a pane's content with
// wrapped lines joined. A positive historyLines also includes that many lines
// of scrollback; zero captures only the visible screen.
func CapturePaneArgs(target string, historyLines int) []string {
	args := []string{"capture-pane", "-p", "-J", "-t", target}
	if historyLines > 0 {
		args = append(args, "-S", "-"+strconv.Itoa(historyLines))
	}
	return args
}

// SendLiteralArgs returns the arguments that type text into a pane verbatim.
func SendLiteralArgs(target, text string) []string {
	return []string{"send-keys", "-t", target, "-l", text}
}

// SendKeyArgs returns the arguments that press a named key in a pane.
func SendKeyArgs(target, key string) []string {
	return []string{"send-keys", "-t", target, MapKeyToTmux(key)}
}

// Pane identifies one tmux pane.
type Pane struct {
	Session string // session name, matched against the session filter
	Target  string // session:window.pane, used for display and -t
	ID      string // stable pane ID such as %3
}

// ParsePanes parses list-panes output produced with PaneFormat. Malformed
// lines are skipped.
func ParsePanes(out []byte) []Pane {
	var panes []Pane
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != 3 || fields[1] == "" {
			continue
		}
		panes = append(panes, Pane{Session: fields[0], Target: fields[1], ID: fields[2]})
	}
	return panes
}

// IsNoServer reports whether tmux output indicates that no server is running.
func IsNoServer(output string) bool {
	lower := strings.ToLower(output)
	return strings.Contains(lower, "no server running") ||
		strings.Contains(lower, "error connecting to") ||
		strings.Contains(lower, "no sessions")
}

// MapKeyToTmux converts lowercase key names to tmux key names.
// Configuration uses names like "enter" and "escape" while tmux expects
// capitalized names like "Enter" and "Escape". Unknown names pass through.
func MapKeyToTmux(key string) string {
	switch strings.ToLower(key) {
	case "up":
		return "Up"
	case "down":
		return "Down"
	case "left":
		return "Left"
	case "right":
		return "Right"
	case "home":
		return "Home"
	case "end":
		return "End"
	case "backspace":
		return "BSpace"
	case "delete":
		return "DC"
	case "tab":
		return "Tab"
	case "enter", "return":
		return "Enter"
	case "esc", "escape":
		return "Escape"
	case "space":
		return "Space"
	default:
		return key
	}
}

