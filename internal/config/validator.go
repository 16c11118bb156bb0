package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Iron-Ham/claudeyes/internal/classifier"
	"github.com/Iron-Ham/claudeyes/internal/errors"
	"github.com/gobwas/glob"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "automation.max_proceeds")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// Unwrap makes every ValidationError match errors.ErrInvalidConfig
func (e ValidationError) Unwrap() error {
	return errors.ErrInvalidConfig
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Unwrap exposes the individual errors to errors.Is and errors.As
func (e ValidationErrors) Unwrap() []error {
	errs := make([]error, len(e))
	for i, err := range e {
		errs[i] = err
	}
	return errs
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateAutomation()...)
	errors = append(errors, c.validateClassifier()...)
	errors = append(errors, c.validateTerminal()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

// validateAutomation validates the AutomationConfig
func (c *Config) validateAutomation() []ValidationError {
	var errors []ValidationError

	// 0 means unlimited
	if c.Automation.MaxProceeds < 0 {
		errors = append(errors, ValidationError{
			Field:   "automation.max_proceeds",
			Value:   c.Automation.MaxProceeds,
			Message: "must be non-negative (0 means unlimited)",
		})
	}

	if c.Automation.PollIntervalMs <= 0 {
		errors = append(errors, ValidationError{
			Field:   "automation.poll_interval_ms",
			Value:   c.Automation.PollIntervalMs,
			Message: "must be positive",
		})
	}

	return errors
}

// validateClassifier validates the ClassifierConfig
func (c *Config) validateClassifier() []ValidationError {
	var errors []ValidationError

	if c.Classifier.LoopWindow < 2 || c.Classifier.LoopWindow > classifier.MaxHistorySize {
		errors = append(errors, ValidationError{
			Field:   "classifier.loop_window",
			Value:   c.Classifier.LoopWindow,
			Message: fmt.Sprintf("must be between 2 and %d", classifier.MaxHistorySize),
		})
	}

	if c.Classifier.LoopThreshold <= 0 || c.Classifier.LoopThreshold > 1 {
		errors = append(errors, ValidationError{
			Field:   "classifier.loop_threshold",
			Value:   c.Classifier.LoopThreshold,
			Message: "must be greater than 0 and at most 1",
		})
	}

	return errors
}

// validateTerminal validates the TerminalConfig
func (c *Config) validateTerminal() []ValidationError {
	var errors []ValidationError

	if c.Terminal.SessionGlob != "" {
		if _, err := glob.Compile(c.Terminal.SessionGlob); err != nil {
			errors = append(errors, ValidationError{
				Field:   "terminal.session_glob",
				Value:   c.Terminal.SessionGlob,
				Message: fmt.Sprintf("invalid glob pattern: %v", err),
			})
		}
	}

	if c.Terminal.HistoryLines < 0 {
		errors = append(errors, ValidationError{
			Field:   "terminal.history_lines",
			Value:   c.Terminal.HistoryLines,
			Message: "must be non-negative",
		})
	}

	if c.Terminal.CommandTimeoutMs < 0 {
		errors = append(errors, ValidationError{
			Field:   "terminal.command_timeout_ms",
			Value:   c.Terminal.CommandTimeoutMs,
			Message: "must be non-negative",
		})
	}

	return errors
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	// Validate log level
	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), c.Logging.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	// Max size must be non-negative; 0 disables rotation
	if c.Logging.MaxSizeMB < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: "must be non-negative",
		})
	}

	// Reasonable upper bound for log file size
	const maxLogSizeMB = 1000 // 1GB
	if c.Logging.MaxSizeMB > maxLogSizeMB {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: fmt.Sprintf("exceeds maximum of %dMB", maxLogSizeMB),
		})
	}

	// Max backups must be non-negative
	if c.Logging.MaxBackups < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_backups",
			Value:   c.Logging.MaxBackups,
			Message: "must be non-negative",
		})
	}

	return errors
}
