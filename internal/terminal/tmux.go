// Package terminal reads assistant output from tmux panes and injects the
// confirmation keystroke back into them.
package terminal

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/Iron-Ham/claudeyes/internal/classifier"
	"github.com/Iron-Ham/claudeyes/internal/errors"
	"github.com/Iron-Ham/claudeyes/internal/logging"
	"github.com/Iron-Ham/claudeyes/internal/tmux"
	"github.com/charmbracelet/x/ansi"
	"github.com/gobwas/glob"
)

// DefaultCommandTimeout bounds every tmux invocation so a wedged server
// cannot stall the poll loop.
const DefaultCommandTimeout = 2 * time.Second

// Runner executes one tmux subcommand and returns its stdout.
type Runner func(ctx context.Context, args ...string) ([]byte, error)

// Config holds the terminal backend settings.
type Config struct {
	Socket         string        // tmux -L socket; empty uses the default server
	SessionGlob    string        // session names to watch
	Marker         string        // panes must contain this text (case-insensitive); empty keeps all
	HistoryLines   int           // scrollback lines to capture; 0 captures the visible screen
	ConfirmKeys    string        // typed literally before Enter
	CommandTimeout time.Duration // per tmux invocation
}

// DefaultConfig returns the default terminal settings.
func DefaultConfig() Config {
	return Config{
		SessionGlob:    "*",
		Marker:         "claude",
		ConfirmKeys:    "1",
		CommandTimeout: DefaultCommandTimeout,
	}
}

// Option configures a Tmux backend.
type Option func(*Tmux)

// WithRunner replaces the exec-based runner, typically with a fake in tests.
func WithRunner(run Runner) Option {
	return func(t *Tmux) { t.run = run }
}

// WithLogger sets the logger.
func WithLogger(logger *logging.Logger) Option {
	return func(t *Tmux) { t.logger = logger }
}

// Tmux implements the controller's Reader and Sender over the tmux CLI.
//
// ReadOutput remembers which panes showed a continuation prompt;
// SendConfirmation delivers the keystroke to exactly those panes.
type Tmux struct {
	cfg    Config
	glob   glob.Glob
	marker string
	run    Runner
	logger *logging.Logger

	mu      sync.Mutex
	targets []string
}

// New creates a tmux backend. An invalid session glob or a negative history
// length is rejected.
func New(cfg Config, opts ...Option) (*Tmux, error) {
	if cfg.SessionGlob == "" {
		cfg.SessionGlob = "*"
	}
	g, err := glob.Compile(cfg.SessionGlob)
	if err != nil {
		return nil, errors.NewValidationError("terminal.session_glob", cfg.SessionGlob, err.Error())
	}
	if cfg.HistoryLines < 0 {
		return nil, errors.NewValidationError("terminal.history_lines", cfg.HistoryLines, "must be non-negative")
	}
	if cfg.ConfirmKeys == "" {
		cfg.ConfirmKeys = "1"
	}
	if cfg.CommandTimeout <= 0 {
		cfg.CommandTimeout = DefaultCommandTimeout
	}

	t := &Tmux{
		cfg:    cfg,
		glob:   g,
		marker: strings.ToLower(cfg.Marker),
		logger: logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.run == nil {
		t.run = execRunner(cfg.Socket)
	}
	t.logger = t.logger.WithComponent("terminal")
	return t, nil
}

// execRunner runs tmux as a subprocess and maps its failures onto the
// error sentinels the controller understands.
func execRunner(socket string) Runner {
	return func(ctx context.Context, args ...string) ([]byte, error) {
		out, err := tmux.CommandContext(ctx, socket, args...).Output()
		if err == nil {
			return out, nil
		}
		if errors.Is(err, exec.ErrNotFound) {
			return nil, errors.ErrTmuxUnavailable
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			stderr := strings.TrimSpace(string(exitErr.Stderr))
			if tmux.IsNoServer(stderr) {
				return nil, fmt.Errorf("%w: %s", errors.ErrTmuxUnavailable, stderr)
			}
			if stderr != "" {
				return nil, fmt.Errorf("%s: %w", stderr, err)
			}
		}
		return nil, err
	}
}

func (t *Tmux) exec(ctx context.Context, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, t.cfg.CommandTimeout)
	defer cancel()
	return t.run(ctx, args...)
}

// ReadOutput captures every matching pane and concatenates them as
// "PANE <target>: <text>" blocks. With no matching pane it returns empty
// text and an error wrapping errors.ErrNoPanes.
func (t *Tmux) ReadOutput(ctx context.Context) (string, error) {
	panes, err := t.listPanes(ctx)
	if err != nil {
		t.setTargets(nil)
		return "", err
	}

	var (
		sb          strings.Builder
		targets     []string
		captureErrs []error
	)
	for _, p := range panes {
		if !t.glob.Match(p.Session) {
			continue
		}
		text, err := t.capture(ctx, p.Target)
		if err != nil {
			t.logger.WithPane(p.Target).Debug("capture failed", "error", err.Error())
			captureErrs = append(captureErrs, err)
			continue
		}
		lower := strings.ToLower(text)
		if t.marker != "" && !strings.Contains(lower, t.marker) {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "PANE %s: %s\n", p.Target, text)
		if classifier.IsProceedPrompt(text) {
			targets = append(targets, p.Target)
		}
	}
	t.setTargets(targets)

	if sb.Len() == 0 {
		if len(captureErrs) > 0 {
			return "", errors.Join(captureErrs...)
		}
		return "", errors.NewTerminalError("read", errors.ErrNoPanes)
	}
	return sb.String(), nil
}

// SendConfirmation types ConfirmKeys and presses Enter in every pane that
// showed a continuation prompt on the last read. Per-pane failures are
// joined; panes that succeed are not rolled back.
func (t *Tmux) SendConfirmation(ctx context.Context) error {
	targets := t.lastTargets()
	if len(targets) == 0 {
		return errors.NewTerminalError("send-keys", fmt.Errorf("%w: no pane shows a prompt", errors.ErrSendFailed))
	}

	var errs []error
	for _, target := range targets {
		if err := t.sendTo(ctx, target); err != nil {
			errs = append(errs, err)
			continue
		}
		t.logger.WithPane(target).Debug("confirmation delivered", "keys", t.cfg.ConfirmKeys)
	}
	return errors.Join(errs...)
}

func (t *Tmux) sendTo(ctx context.Context, target string) error {
	if _, err := t.exec(ctx, tmux.SendLiteralArgs(target, t.cfg.ConfirmKeys)...); err != nil {
		return errors.NewTerminalError("send-keys", errors.Join(errors.ErrSendFailed, err)).WithTarget(target)
	}
	if _, err := t.exec(ctx, tmux.SendKeyArgs(target, "enter")...); err != nil {
		return errors.NewTerminalError("send-keys", errors.Join(errors.ErrSendFailed, err)).WithTarget(target)
	}
	return nil
}

// Targets returns the panes that will receive the next confirmation.
func (t *Tmux) Targets() []string {
	return t.lastTargets()
}

func (t *Tmux) listPanes(ctx context.Context) ([]tmux.Pane, error) {
	out, err := t.exec(ctx, tmux.ListPanesArgs()...)
	if err != nil {
		return nil, errors.NewTerminalError("list-panes", err)
	}
	panes := tmux.ParsePanes(out)
	if len(panes) == 0 {
		return nil, errors.NewTerminalError("list-panes", errors.ErrNoPanes)
	}
	return panes, nil
}

func (t *Tmux) capture(ctx context.Context, target string) (string, error) {
	out, err := t.exec(ctx, tmux.CapturePaneArgs(target, t.cfg.HistoryLines)...)
	if err != nil {
		return "", errors.NewTerminalError("capture-pane", err).WithTarget(target)
	}
	return strings.TrimRight(ansi.Strip(string(out)), " \t\r\n"), nil
}

func (t *Tmux) setTargets(targets []string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.targets = targets
}

func (t *Tmux) lastTargets() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.targets...)
}
