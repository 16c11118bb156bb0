package tmux

import (
	"context"
	"slices"
	"testing"
)

func TestBaseArgs(t *testing.T) {
	if got := BaseArgs(""); got != nil {
		t.Errorf("BaseArgs(\"\") = %v, want nil", got)
	}
	if got := BaseArgs("work"); !slices.Equal(got, []string{"-L", "work"}) {
		t.Errorf("BaseArgs(\"work\") = %v", got)
	}
}

func TestCommandContext(t *testing.T) {
	tests := []struct {
		name   string
		socket string
		want   []string
	}{
		{"default server", "", []string{"tmux", "list-sessions"}},
		{"named socket", "ai", []string{"tmux", "-L", "ai", "list-sessions"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := CommandContext(context.Background(), tt.socket, "list-sessions")
			if !slices.Equal(cmd.Args, tt.want) {
				t.Errorf("Args = %v, want %v", cmd.Args, tt.want)
			}
		})
	}
}

func TestCapturePaneArgs(t *testing.T) {
	got := CapturePaneArgs("work:0.1", 0)
	want := []string{"capture-pane", "-p", "-J", "-t", "work:0.1"}
	if !slices.Equal(got, want) {
		t.Errorf("CapturePaneArgs(visible) = %v, want %v", got, want)
	}

	got = CapturePaneArgs("work:0.1", 200)
	want = append(want, "-S", "-200")
	if !slices.Equal(got, want) {
		t.Errorf("CapturePaneArgs(history) = %v, want %v", got, want)
	}
}

func TestSendArgs(t *testing.T) {
	if got := SendLiteralArgs("w:0.0", "1"); !slices.Equal(got, []string{"send-keys", "-t", "w:0.0", "-l", "1"}) {
		t.Errorf("SendLiteralArgs = %v", got)
	}
	if got := SendKeyArgs("w:0.0", "enter"); !slices.Equal(got, []string{"send-keys", "-t", "w:0.0", "Enter"}) {
		t.Errorf("SendKeyArgs = %v", got)
	}
}

func TestParsePanes(t *testing.T) {
	out := []byte("work\twork:0.0\t%0\r\nwork\twork:1.2\t%5\n\nbroken line\nai\tai:0.0\t%7\n")

	got := ParsePanes(out)
	want := []Pane{
		{Session: "work", Target: "work:0.0", ID: "%0"},
		{Session: "work", Target: "work:1.2", ID: "%5"},
		{Session: "ai", Target: "ai:0.0", ID: "%7"},
	}
	if !slices.Equal(got, want) {
		t.Errorf("ParsePanes() = %+v, want %+v", got, want)
	}
}

func TestIsNoServer(t *testing.T) {
	tests := []struct {
		output string
		want   bool
	}{
		{"no server running on /tmp/tmux-501/default", true},
		{"error connecting to /tmp/tmux-0/default (No such file or directory)", true},
		{"can't find pane: %9", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsNoServer(tt.output); got != tt.want {
			t.Errorf("IsNoServer(%q) = %v, want %v", tt.output, got, tt.want)
		}
	}
}

func TestMapKeyToTmux(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"up", "Up"},
		{"down", "Down"},
		{"left", "Left"},
		{"right", "Right"},
		{"home", "Home"},
		{"end", "End"},
		{"backspace", "BSpace"},
		{"delete", "DC"},
		{"tab", "Tab"},
		{"enter", "Enter"},
		{"Return", "Enter"},
		{"esc", "Escape"},
		{"escape", "Escape"},
		{"space", "Space"},
		{"1", "1"},
		{"C-c", "C-c"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := MapKeyToTmux(tt.input); got != tt.expected {
				t.Errorf("MapKeyToTmux(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
