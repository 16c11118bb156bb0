package classifier

import (
	"strings"
	"sync"

	"github.com/Iron-Ham/claudeyes/internal/logging"
	"github.com/charmbracelet/x/ansi"
)

// Loop detection tuning. The window is the number of most recent snapshots
// compared pairwise; the threshold is the average similarity above which they
// count as a loop.
const (
	DefaultLoopWindow    = 3
	DefaultLoopThreshold = 0.95

	// LoopCompareRunes caps how much of each snapshot's tail is compared.
	// Levenshtein is quadratic, and a captured pane is rarely longer than this.
	LoopCompareRunes = 2000
)

// Option configures a Classifier.
type Option func(*Classifier)

// WithLoopDetection enables or disables loop detection. It is off by default:
// a long-running task redraws a near-identical screen every poll, which reads
// as a loop.
func WithLoopDetection(enabled bool) Option {
	return func(c *Classifier) { c.loopDetection = enabled }
}

// WithLoopWindow sets how many recent snapshots must be near-identical.
// Values outside [2, MaxHistorySize] are ignored.
func WithLoopWindow(n int) Option {
	return func(c *Classifier) {
		if n >= 2 && n <= MaxHistorySize {
			c.loopWindow = n
		}
	}
}

// WithLoopThreshold sets the similarity threshold in (0, 1].
func WithLoopThreshold(th float64) Option {
	return func(c *Classifier) {
		if th > 0 && th <= 1 {
			c.loopThreshold = th
		}
	}
}

// WithLogger sets the logger used for DEBUG traces of matched rules.
func WithLogger(logger *logging.Logger) Option {
	return func(c *Classifier) { c.logger = logger }
}

// Classifier classifies terminal snapshots. It keeps a bounded history for
// loop detection and remembers whether the previous signal was a completion.
//
// Classifier is safe for concurrent use, although the controller only calls
// it from its poll loop.
type Classifier struct {
	mu sync.Mutex

	history           *history
	lastWasCompletion bool

	loopDetection bool
	loopWindow    int
	loopThreshold float64

	logger *logging.Logger
}

// New creates a classifier with loop detection disabled. When enabled it uses
// the default window and threshold unless overridden.
func New(opts ...Option) *Classifier {
	c := &Classifier{
		history:       newHistory(MaxHistorySize),
		loopWindow:    DefaultLoopWindow,
		loopThreshold: DefaultLoopThreshold,
		logger:        logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify appends text to the history and returns the decision for it.
//
// Detection priority (first match wins):
//  1. Loop - the last loopWindow snapshots are near-identical
//  2. User input required
//  3. Task completion (remembered for rule 4)
//  4. New task started, only if the previous signal was a completion
//  5. Proceed prompt - question phrase AND confirmation affordance
//  6. Ignore
//
// Blank text is appended to the history but always yields Ignore.
func (c *Classifier) Classify(text string) Decision {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.history.add(text)

	if strings.TrimSpace(text) == "" {
		return Ignore()
	}

	if c.loopDetection && c.detectLoop() {
		c.logger.Debug("rule matched", "rule", "loop", "window", c.loopWindow)
		return Pause(ReasonLoop)
	}

	lower := strings.ToLower(ansi.Strip(text))

	if containsAny(lower, UserInputPatterns) {
		c.logger.Debug("rule matched", "rule", "user_input")
		return Pause(ReasonUserInput)
	}

	if containsAny(lower, CompletionPatterns) {
		c.logger.Debug("rule matched", "rule", "completion")
		c.lastWasCompletion = true
		return Pause(ReasonTaskCompleted)
	}

	if c.lastWasCompletion && containsAny(lower, NewTaskPatterns) {
		c.logger.Debug("rule matched", "rule", "new_task")
		c.lastWasCompletion = false
		return AutoResume()
	}

	if isProceedPrompt(lower) {
		c.logger.Debug("rule matched", "rule", "proceed", "tail", tailRunes(lower, 100))
		return Proceed()
	}

	return Ignore()
}

// ClearHistory forgets all snapshots and the completion signal.
func (c *Classifier) ClearHistory() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.history.clear()
	c.lastWasCompletion = false
	c.logger.Debug("history cleared")
}

// HistoryLen returns the number of snapshots currently retained.
func (c *Classifier) HistoryLen() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.history.len()
}

// detectLoop reports whether the newest loopWindow snapshots are near-identical.
// Caller must hold c.mu.
func (c *Classifier) detectLoop() bool {
	recent := c.history.last(c.loopWindow)
	if recent == nil {
		return false
	}
	for i, entry := range recent {
		recent[i] = tailRunes(entry, LoopCompareRunes)
	}
	return averageSimilarity(recent) > c.loopThreshold
}

// IsProceedPrompt reports whether text on its own is a routine continuation
// prompt: a yes/continue question together with a way to answer it. It does
// not consult or modify any history.
func IsProceedPrompt(text string) bool {
	return isProceedPrompt(strings.ToLower(ansi.Strip(text)))
}

// isProceedPrompt requires both a continuation question and a way to answer it.
func isProceedPrompt(lower string) bool {
	if !containsAny(lower, ProceedPatterns) {
		return false
	}
	if containsAny(lower, ConfirmationPatterns) {
		return true
	}
	return strings.Contains(lower, "proceed") && strings.Contains(lower, "1")
}

// containsAny reports whether text contains any of the patterns.
func containsAny(text string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}
