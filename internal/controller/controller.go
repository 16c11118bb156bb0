// Package controller owns the automation state machine. It polls the terminal
// on a fixed cadence, feeds the text to the classifier and turns decisions
// into actions: sending the confirmation keystroke, pausing with a
// notification, or auto-resuming after the human re-engages.
package controller

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Iron-Ham/claudeyes/internal/classifier"
	"github.com/Iron-Ham/claudeyes/internal/errors"
	"github.com/Iron-Ham/claudeyes/internal/event"
	"github.com/Iron-Ham/claudeyes/internal/logging"
	"github.com/google/uuid"
)

// DefaultPollInterval is the cadence of the poll loop.
const DefaultPollInterval = time.Second

// Notification titles and bodies.
const (
	TitleAttention = "claudeyes: Attention Required"
	TitleResumed   = "claudeyes: Resumed"
	BodyResumed    = "New task detected - automation resumed"
)

// Transition causes reported on StateChangedEvent.
const (
	CauseStart      = "start"
	CauseStop       = "stop"
	CauseManual     = "manual"
	CauseResume     = "resume"
	CauseClassifier = "classifier"
	CauseLimit      = "limit"
	CauseAutoResume = "auto_resume"
)

// Reader returns the current text of the monitored terminal session(s).
// Empty text with a nil error means nothing is visible.
type Reader interface {
	ReadOutput(ctx context.Context) (string, error)
}

// Sender injects the confirmation keystroke into the monitored session(s).
type Sender interface {
	SendConfirmation(ctx context.Context) error
}

// Notifier issues a human-visible notification. Implementations must not
// block the caller.
type Notifier interface {
	Notify(title, body string) error
}

// Classifier turns terminal text into a decision.
type Classifier interface {
	Classify(text string) classifier.Decision
	ClearHistory()
}

// Config holds the controller's configuration surface.
type Config struct {
	// MaxProceeds caps keystrokes per run; 0 means unlimited.
	MaxProceeds int
	// PollInterval is the tick cadence; zero uses DefaultPollInterval.
	PollInterval time.Duration
}

// DefaultConfig returns the configuration used when none is supplied.
func DefaultConfig() Config {
	return Config{
		MaxProceeds:  50,
		PollInterval: DefaultPollInterval,
	}
}

// Option configures a Controller.
type Option func(*Controller)

// WithClassifier replaces the default classifier.
func WithClassifier(cl Classifier) Option {
	return func(c *Controller) { c.classifier = cl }
}

// WithNotifier sets the notifier used for pause and auto-resume events.
func WithNotifier(n Notifier) Option {
	return func(c *Controller) { c.notifier = n }
}

// WithBus sets the bus on which automation events are published.
func WithBus(bus *event.Bus) Option {
	return func(c *Controller) { c.bus = bus }
}

// WithLogger sets the logger.
func WithLogger(logger *logging.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

// Snapshot is a point-in-time copy of the controller's observable state.
type Snapshot struct {
	State        State
	ProceedCount int
	MaxProceeds  int
	StatusText   string
	RunID        string
}

// Controller drives automation for one watcher process.
//
// All state, including the classifier's history, is mutated while holding mu.
// A poll tick holds mu from read through action, so ticks never overlap with
// each other or with Start/Stop/Pause, and no tick applies side effects after
// Stop returns. Notifications and bus events are dispatched after mu is
// released.
//
// Controller is safe for concurrent use.
type Controller struct {
	mu sync.Mutex

	state        State
	proceedCount int
	maxProceeds  int
	runID        string

	lastText    string
	hasLastText bool

	// generation identifies the live poll loop; loops with a stale
	// generation exit without ticking.
	generation uint64
	cancel     context.CancelFunc
	interval   time.Duration

	reader     Reader
	sender     Sender
	notifier   Notifier
	classifier Classifier
	bus        *event.Bus
	logger     *logging.Logger
}

// New creates an idle controller. A negative MaxProceeds is rejected.
func New(cfg Config, reader Reader, sender Sender, opts ...Option) (*Controller, error) {
	if cfg.MaxProceeds < 0 {
		return nil, errors.NewValidationError("max_proceeds", cfg.MaxProceeds, "must be non-negative")
	}
	if reader == nil || sender == nil {
		return nil, errors.New("controller requires a reader and a sender")
	}

	c := &Controller{
		state:       Idle(),
		maxProceeds: cfg.MaxProceeds,
		interval:    cfg.PollInterval,
		reader:      reader,
		sender:      sender,
	}
	if c.interval <= 0 {
		c.interval = DefaultPollInterval
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.classifier == nil {
		c.classifier = classifier.New()
	}
	if c.bus == nil {
		c.bus = event.NewBus()
	}
	if c.logger == nil {
		c.logger = logging.NopLogger()
	}
	c.logger = c.logger.WithComponent("controller")
	return c, nil
}

// Bus returns the bus on which the controller publishes events.
func (c *Controller) Bus() *event.Bus {
	return c.bus
}

// effects collects work that must happen after mu is released.
type effects struct {
	events []event.Event
	notes  [][2]string // title, body
}

func (e *effects) publish(ev event.Event) { e.events = append(e.events, ev) }

func (e *effects) notify(title, body string) { e.notes = append(e.notes, [2]string{title, body}) }

// Start enables automation. It is a no-op unless the controller is idle;
// otherwise it resets the proceed count, clears the classifier history and
// begins polling.
func (c *Controller) Start() {
	c.mu.Lock()
	if c.state.Status != StatusIdle {
		c.mu.Unlock()
		return
	}
	var eff effects
	c.beginRunLocked(CauseStart, &eff)
	c.mu.Unlock()

	c.dispatch(eff)
}

// Stop disables automation from any state and halts polling.
func (c *Controller) Stop() {
	c.mu.Lock()
	old := c.state
	c.state = Idle()
	c.stopLoopLocked()
	var eff effects
	if old != c.state {
		c.logger.Info("automation stopped", "old_state", old.String())
		eff.publish(c.stateEventLocked(old, CauseStop))
	}
	c.mu.Unlock()

	c.dispatch(eff)
}

// Pause suspends automation with reason and notifies the user. Polling
// continues so a manual follow-up can auto-resume. Pausing again with the same
// reason does not repeat the notification.
func (c *Controller) Pause(reason string) {
	c.mu.Lock()
	var eff effects
	c.pauseLocked(reason, CauseManual, &eff)
	c.mu.Unlock()

	c.dispatch(eff)
}

// AutoResume re-arms automation after a completion pause without clearing
// the classifier history. The proceed count restarts at zero.
func (c *Controller) AutoResume() {
	c.mu.Lock()
	var eff effects
	c.autoResumeLocked(&eff)
	c.mu.Unlock()

	c.dispatch(eff)
}

// Resume restarts automation from a pause as if freshly started: the proceed
// count and classifier history are reset. It is a no-op unless paused.
func (c *Controller) Resume() {
	c.mu.Lock()
	if c.state.Status != StatusPaused {
		c.mu.Unlock()
		return
	}
	var eff effects
	c.beginRunLocked(CauseResume, &eff)
	c.mu.Unlock()

	c.dispatch(eff)
}

// SetMaxProceeds changes the proceed limit; 0 means unlimited.
func (c *Controller) SetMaxProceeds(n int) error {
	if n < 0 {
		return errors.NewValidationError("max_proceeds", n, "must be non-negative")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if n != c.maxProceeds {
		c.logger.Info("max proceeds changed", "old", c.maxProceeds, "new", n)
	}
	c.maxProceeds = n
	return nil
}

// Snapshot returns the current observable state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// StatusText returns the human-facing status line.
func (c *Controller) StatusText() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return StatusText(c.state, c.proceedCount, c.maxProceeds)
}

// Tick performs one poll: read, classify, act. It is a no-op while idle.
// The poll loop calls it on every interval; tests call it directly.
func (c *Controller) Tick(ctx context.Context) {
	c.tick(ctx, 0)
}

// tick runs one poll. A non-zero gen must match the live loop generation.
func (c *Controller) tick(ctx context.Context, gen uint64) {
	c.mu.Lock()
	if gen != 0 && gen != c.generation {
		c.mu.Unlock()
		return
	}
	if c.state.Status == StatusIdle {
		c.mu.Unlock()
		return
	}

	text, err := c.reader.ReadOutput(ctx)
	if err != nil {
		if errors.IsObservation(err) {
			c.logger.Debug("no observation", "error", err.Error())
		} else {
			c.logger.Warn("terminal read failed", "error", err.Error())
		}
		c.mu.Unlock()
		return
	}
	if strings.TrimSpace(text) == "" {
		c.mu.Unlock()
		return
	}
	if c.hasLastText && text == c.lastText {
		c.mu.Unlock()
		return
	}
	c.lastText = text
	c.hasLastText = true

	decision := c.classifier.Classify(text)
	c.logger.Debug("classified output",
		"text_len", len(text),
		"decision", decision.String(),
		"state", c.state.String())

	var eff effects
	eff.publish(event.NewDecisionEvent(decision.Kind.String(), decision.Reason, len(text)))
	c.actLocked(ctx, decision, &eff)
	c.mu.Unlock()

	c.dispatch(eff)
}

// actLocked applies a decision. Caller holds mu.
func (c *Controller) actLocked(ctx context.Context, d classifier.Decision, eff *effects) {
	switch d.Kind {
	case classifier.KindProceed:
		if c.state.Status != StatusRunning {
			c.logger.Debug("proceed prompt seen while not running", "state", c.state.String())
			return
		}
		if c.maxProceeds > 0 && c.proceedCount >= c.maxProceeds {
			c.pauseLocked(LimitReason(c.maxProceeds), CauseLimit, eff)
			return
		}
		err := c.sender.SendConfirmation(ctx)
		// Counted on attempt: a keystroke that may have landed must not be
		// retried for free.
		c.proceedCount++
		if err != nil {
			c.logger.Warn("confirmation send failed",
				"proceed_count", c.proceedCount,
				"error", err.Error())
		} else {
			c.logger.Info("confirmation sent",
				"proceed_count", c.proceedCount,
				"max_proceeds", c.maxProceeds)
		}
		eff.publish(event.NewProceedSentEvent(c.proceedCount, c.maxProceeds, err))

	case classifier.KindPause:
		c.pauseLocked(d.Reason, CauseClassifier, eff)

	case classifier.KindAutoResume:
		c.autoResumeLocked(eff)
	}
}

// beginRunLocked starts a fresh run: zero count, empty history, new run ID.
func (c *Controller) beginRunLocked(cause string, eff *effects) {
	old := c.state
	c.proceedCount = 0
	c.classifier.ClearHistory()
	c.lastText = ""
	c.hasLastText = false
	c.runID = uuid.NewString()
	c.state = Running()
	c.ensureLoopLocked()

	c.logger.Info("automation started",
		"run_id", c.runID,
		"cause", cause,
		"max_proceeds", c.maxProceeds,
		"poll_interval", c.interval.String())
	eff.publish(c.stateEventLocked(old, cause))
}

func (c *Controller) pauseLocked(reason, cause string, eff *effects) {
	next := Paused(reason)
	if c.state == next {
		c.logger.Debug("already paused", "reason", next.Reason)
		return
	}
	old := c.state
	c.state = next
	c.ensureLoopLocked()

	c.logger.Info("automation paused",
		"reason", next.Reason,
		"cause", cause,
		"proceed_count", c.proceedCount)
	eff.publish(c.stateEventLocked(old, cause))
	eff.notify(TitleAttention, next.Reason)
}

func (c *Controller) autoResumeLocked(eff *effects) {
	old := c.state
	c.proceedCount = 0
	c.state = Running()
	c.ensureLoopLocked()

	c.logger.Info("automation auto-resumed", "old_state", old.String())
	eff.publish(c.stateEventLocked(old, CauseAutoResume))
	eff.notify(TitleResumed, BodyResumed)
}

func (c *Controller) stateEventLocked(old State, cause string) event.Event {
	return event.NewStateChangedEvent(
		old.Status.String(),
		c.state.Status.String(),
		c.state.Reason,
		cause,
		c.proceedCount,
		c.maxProceeds,
		StatusText(c.state, c.proceedCount, c.maxProceeds),
	)
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		State:        c.state,
		ProceedCount: c.proceedCount,
		MaxProceeds:  c.maxProceeds,
		StatusText:   StatusText(c.state, c.proceedCount, c.maxProceeds),
		RunID:        c.runID,
	}
}

// ensureLoopLocked starts the poll loop if none is running.
func (c *Controller) ensureLoopLocked() {
	if c.cancel != nil {
		return
	}
	c.generation++
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	go c.loop(ctx, c.generation, c.interval)
}

// stopLoopLocked cancels the poll loop and invalidates its generation.
func (c *Controller) stopLoopLocked() {
	if c.cancel == nil {
		return
	}
	c.cancel()
	c.cancel = nil
	c.generation++
}

func (c *Controller) loop(ctx context.Context, gen uint64, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.tick(ctx, gen)
		}
	}
}

// dispatch issues notifications and publishes events collected under mu.
func (c *Controller) dispatch(eff effects) {
	for _, n := range eff.notes {
		var err error
		if c.notifier != nil {
			err = c.notifier.Notify(n[0], n[1])
			if err != nil {
				c.logger.Warn("notification failed", "title", n[0], "error", err.Error())
			}
		}
		eff.publish(event.NewNotifiedEvent(n[0], n[1], err))
	}
	for _, ev := range eff.events {
		c.bus.Publish(ev)
	}
}
