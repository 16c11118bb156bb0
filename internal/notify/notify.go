// Package notify delivers desktop notifications when automation needs the
// human's attention.
package notify

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/Iron-Ham/claudeyes/internal/logging"
)

// DefaultSoundPath is the macOS system sound played when UseSound is set.
const DefaultSoundPath = "/System/Library/Sounds/Glass.aiff"

// Service sends user-facing notifications.
type Service interface {
	Notify(title, body string) error
}

// Config holds notification settings.
type Config struct {
	// Enabled controls whether notifications are sent at all.
	Enabled bool
	// UseSound plays SoundPath alongside the notification on macOS.
	UseSound bool
	// SoundPath is the sound file passed to afplay.
	SoundPath string
}

// DefaultConfig returns the default notification settings.
func DefaultConfig() Config {
	return Config{
		Enabled:   true,
		SoundPath: DefaultSoundPath,
	}
}

// Option configures a Desktop notifier.
type Option func(*Desktop)

// WithLogger sets the logger.
func WithLogger(logger *logging.Logger) Option {
	return func(d *Desktop) { d.logger = logger }
}

// WithPlatform overrides runtime.GOOS.
func WithPlatform(goos string) Option {
	return func(d *Desktop) { d.goos = goos }
}

// WithStarter replaces process launching, typically with a recorder in tests.
func WithStarter(start func(cmd *exec.Cmd) error) Option {
	return func(d *Desktop) { d.start = start }
}

// WithLookPath replaces exec.LookPath.
func WithLookPath(lookPath func(file string) (string, error)) Option {
	return func(d *Desktop) { d.lookPath = lookPath }
}

// WithBellWriter sets where the terminal bell is written.
func WithBellWriter(w io.Writer) Option {
	return func(d *Desktop) { d.bell = w }
}

// Desktop posts notifications through the platform's notification tool:
// osascript on macOS and notify-send on Linux. Anywhere else, or when the
// tool is missing, it rings the terminal bell.
//
// Notify never waits for the launched process.
type Desktop struct {
	cfg      Config
	goos     string
	start    func(cmd *exec.Cmd) error
	lookPath func(file string) (string, error)
	bell     io.Writer
	logger   *logging.Logger
}

// NewDesktop creates a desktop notifier.
func NewDesktop(cfg Config, opts ...Option) *Desktop {
	if cfg.SoundPath == "" {
		cfg.SoundPath = DefaultSoundPath
	}
	d := &Desktop{
		cfg:      cfg,
		goos:     runtime.GOOS,
		start:    startDetached,
		lookPath: exec.LookPath,
		bell:     os.Stderr,
		logger:   logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.WithComponent("notify")
	return d
}

// startDetached launches cmd and reaps it in the background.
func startDetached(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

// Notify posts title and body. It returns an error only when the
// notification tool could not be launched; the bell is still rung then.
func (d *Desktop) Notify(title, body string) error {
	if !d.cfg.Enabled {
		return nil
	}

	cmds := d.Commands(title, body)
	if len(cmds) == 0 {
		d.ringBell()
		return nil
	}

	var firstErr error
	for _, cmd := range cmds {
		if err := d.start(cmd); err != nil {
			d.logger.Warn("notification command failed", "command", cmd.Path, "error", err.Error())
			if firstErr == nil {
				firstErr = fmt.Errorf("failed to start %s: %w", cmd.Args[0], err)
			}
		}
	}
	if firstErr != nil {
		d.ringBell()
	}
	return firstErr
}

// Commands returns the processes Notify would launch, or nil when only the
// bell is available.
func (d *Desktop) Commands(title, body string) []*exec.Cmd {
	var cmds []*exec.Cmd
	switch d.goos {
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`,
			EscapeAppleScript(body), EscapeAppleScript(title))
		cmds = append(cmds, exec.Command("osascript", "-e", script))
		if d.cfg.UseSound {
			cmds = append(cmds, exec.Command("afplay", d.cfg.SoundPath))
		}
	case "linux", "freebsd", "openbsd", "netbsd":
		if _, err := d.lookPath("notify-send"); err != nil {
			return nil
		}
		cmds = append(cmds, exec.Command("notify-send", "--app-name=claudeyes", title, body))
	}
	return cmds
}

func (d *Desktop) ringBell() {
	if d.bell != nil {
		_, _ = d.bell.Write([]byte{'\a'})
	}
}

// EscapeAppleScript escapes s for use inside an AppleScript string literal.
func EscapeAppleScript(s string) string {
	return strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		"\n", `\n`,
	).Replace(s)
}

// Nop discards notifications.
type Nop struct{}

// Notify does nothing.
func (Nop) Notify(_, _ string) error { return nil }
