package config

import (
	"strings"
	"testing"

	"github.com/Iron-Ham/claudeyes/internal/errors"
)

func TestValidationError_Error(t *testing.T) {
	err := ValidationError{
		Field:   "test.field",
		Value:   123,
		Message: "must be greater than zero",
	}

	expected := "test.field: must be greater than zero (got: 123)"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestValidationErrors_Error(t *testing.T) {
	t.Run("empty errors", func(t *testing.T) {
		var errs ValidationErrors
		if errs.Error() != "" {
			t.Errorf("Error() for empty = %q, want empty string", errs.Error())
		}
	})

	t.Run("single error", func(t *testing.T) {
		errs := ValidationErrors{
			{Field: "test.field", Value: 123, Message: "is invalid"},
		}
		expected := "test.field: is invalid (got: 123)"
		if errs.Error() != expected {
			t.Errorf("Error() = %q, want %q", errs.Error(), expected)
		}
	})

	t.Run("multiple errors", func(t *testing.T) {
		errs := ValidationErrors{
			{Field: "field1", Value: "bad", Message: "is invalid"},
			{Field: "field2", Value: -1, Message: "must be positive"},
		}
		result := errs.Error()
		if !strings.Contains(result, "2 validation errors") {
			t.Errorf("Error() should mention 2 errors: %s", result)
		}
		if !strings.Contains(result, "field1") || !strings.Contains(result, "field2") {
			t.Errorf("Error() should mention both fields: %s", result)
		}
	})
}

func TestValidationErrors_IsInvalidConfig(t *testing.T) {
	var err error = ValidationErrors{{Field: "f", Value: 1, Message: "bad"}}
	if !errors.Is(err, errors.ErrInvalidConfig) {
		t.Error("ValidationErrors should match ErrInvalidConfig")
	}
	var ve ValidationError
	if !errors.As(err, &ve) || ve.Field != "f" {
		t.Errorf("errors.As() = %+v", ve)
	}
}

func TestConfig_Validate_DefaultConfig(t *testing.T) {
	cfg := Default()
	if errs := cfg.Validate(); len(errs) != 0 {
		t.Errorf("Default config should be valid, got errors: %v", errs)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		wantField string
	}{
		{"negative max proceeds", func(c *Config) { c.Automation.MaxProceeds = -1 }, "automation.max_proceeds"},
		{"zero poll interval", func(c *Config) { c.Automation.PollIntervalMs = 0 }, "automation.poll_interval_ms"},
		{"loop window too small", func(c *Config) { c.Classifier.LoopWindow = 1 }, "classifier.loop_window"},
		{"loop window too large", func(c *Config) { c.Classifier.LoopWindow = 11 }, "classifier.loop_window"},
		{"zero loop threshold", func(c *Config) { c.Classifier.LoopThreshold = 0 }, "classifier.loop_threshold"},
		{"loop threshold above one", func(c *Config) { c.Classifier.LoopThreshold = 1.5 }, "classifier.loop_threshold"},
		{"bad session glob", func(c *Config) { c.Terminal.SessionGlob = "[oops" }, "terminal.session_glob"},
		{"negative history", func(c *Config) { c.Terminal.HistoryLines = -10 }, "terminal.history_lines"},
		{"negative command timeout", func(c *Config) { c.Terminal.CommandTimeoutMs = -1 }, "terminal.command_timeout_ms"},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, "logging.level"},
		{"huge log size", func(c *Config) { c.Logging.MaxSizeMB = 5000 }, "logging.max_size_mb"},
		{"negative backups", func(c *Config) { c.Logging.MaxBackups = -1 }, "logging.max_backups"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			errs := cfg.Validate()
			if len(errs) != 1 {
				t.Fatalf("Validate() returned %d errors, want 1: %v", len(errs), errs)
			}
			if errs[0].Field != tt.wantField {
				t.Errorf("Field = %q, want %q", errs[0].Field, tt.wantField)
			}
		})
	}
}

func TestConfig_Validate_Boundaries(t *testing.T) {
	cfg := Default()
	cfg.Automation.MaxProceeds = 0
	cfg.Classifier.LoopWindow = 10
	cfg.Classifier.LoopThreshold = 1
	cfg.Terminal.SessionGlob = ""
	cfg.Logging.Level = ""
	cfg.Logging.MaxSizeMB = 0

	if errs := cfg.Validate(); len(errs) != 0 {
		t.Errorf("boundary values should be valid, got: %v", errs)
	}
}
