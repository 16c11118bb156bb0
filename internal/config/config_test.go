package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg == nil {
		t.Fatal("Default() returned nil")
	}

	// Verify default automation config
	if cfg.Automation.MaxProceeds != 50 {
		t.Errorf("Automation.MaxProceeds = %d, want 50", cfg.Automation.MaxProceeds)
	}
	if cfg.Automation.PollIntervalMs != 1000 {
		t.Errorf("Automation.PollIntervalMs = %d, want 1000", cfg.Automation.PollIntervalMs)
	}
	if !cfg.Automation.AutoStart {
		t.Error("Automation.AutoStart should be true by default")
	}

	// Verify default classifier config
	if cfg.Classifier.LoopDetection {
		t.Error("Classifier.LoopDetection should be false by default")
	}
	if cfg.Classifier.LoopWindow != 3 {
		t.Errorf("Classifier.LoopWindow = %d, want 3", cfg.Classifier.LoopWindow)
	}
	if cfg.Classifier.LoopThreshold != 0.95 {
		t.Errorf("Classifier.LoopThreshold = %v, want 0.95", cfg.Classifier.LoopThreshold)
	}

	// Verify default terminal config
	if cfg.Terminal.SessionGlob != "*" {
		t.Errorf("Terminal.SessionGlob = %q, want %q", cfg.Terminal.SessionGlob, "*")
	}
	if cfg.Terminal.Marker != "claude" {
		t.Errorf("Terminal.Marker = %q, want %q", cfg.Terminal.Marker, "claude")
	}
	if cfg.Terminal.ConfirmKeys != "1" {
		t.Errorf("Terminal.ConfirmKeys = %q, want %q", cfg.Terminal.ConfirmKeys, "1")
	}

	// Verify default notifications and logging
	if !cfg.Notifications.Enabled || cfg.Notifications.UseSound {
		t.Errorf("Notifications = %+v, want enabled without sound", cfg.Notifications)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}
	if cfg.Feed.Listen != "" {
		t.Errorf("Feed.Listen = %q, want disabled", cfg.Feed.Listen)
	}
}

func TestConfig_Conversions(t *testing.T) {
	cfg := Default()
	cfg.Automation.PollIntervalMs = 250
	cfg.Terminal.CommandTimeoutMs = 500

	cc := cfg.ControllerConfig()
	if cc.MaxProceeds != 50 || cc.PollInterval != 250*time.Millisecond {
		t.Errorf("ControllerConfig() = %+v", cc)
	}

	tc := cfg.TerminalConfig()
	if tc.CommandTimeout != 500*time.Millisecond || tc.Marker != "claude" {
		t.Errorf("TerminalConfig() = %+v", tc)
	}

	nc := cfg.NotifyConfig()
	if !nc.Enabled || nc.SoundPath == "" {
		t.Errorf("NotifyConfig() = %+v", nc)
	}

	rc := cfg.RotationConfig()
	if rc.MaxSizeMB != 10 || rc.MaxBackups != 3 {
		t.Errorf("RotationConfig() = %+v", rc)
	}

	if got := len(cfg.ClassifierOptions()); got != 3 {
		t.Errorf("ClassifierOptions() len = %d, want 3", got)
	}
}

func TestConfigDir(t *testing.T) {
	t.Run("with XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/custom/config")
		result := ConfigDir()
		expected := "/custom/config/claudeyes"
		if result != expected {
			t.Errorf("ConfigDir() = %q, want %q", result, expected)
		}
	})

	t.Run("without XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		result := ConfigDir()

		// Should be based on home directory
		home, _ := os.UserHomeDir()
		expected := filepath.Join(home, ".config", "claudeyes")
		if result != expected {
			t.Errorf("ConfigDir() = %q, want %q", result, expected)
		}
	})
}

func TestConfigFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	result := ConfigFile()
	expected := "/custom/config/claudeyes/config.yaml"
	if result != expected {
		t.Errorf("ConfigFile() = %q, want %q", result, expected)
	}
}

func TestStateDir(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/custom/state")
	if got := StateDir(); got != "/custom/state/claudeyes" {
		t.Errorf("StateDir() = %q", got)
	}
}

func TestGet(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	// Set defaults in viper first (normally done by cmd init)
	SetDefaults()

	// Get() should return defaults when no config file exists
	cfg := Get()
	if cfg == nil {
		t.Fatal("Get() returned nil")
	}
	if cfg.Automation.MaxProceeds != 50 {
		t.Errorf("Get().Automation.MaxProceeds = %d, want 50", cfg.Automation.MaxProceeds)
	}
}

func TestLoad_FromYAML(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	SetDefaults()

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "automation:\n  max_proceeds: 0\n  poll_interval_ms: 500\nterminal:\n  session_glob: \"ai-*\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig() error = %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Automation.MaxProceeds != 0 {
		t.Errorf("MaxProceeds = %d, want 0 (unlimited)", cfg.Automation.MaxProceeds)
	}
	if cfg.Automation.PollInterval() != 500*time.Millisecond {
		t.Errorf("PollInterval() = %v", cfg.Automation.PollInterval())
	}
	if cfg.Terminal.SessionGlob != "ai-*" {
		t.Errorf("SessionGlob = %q", cfg.Terminal.SessionGlob)
	}
	// Untouched keys keep their defaults.
	if cfg.Terminal.Marker != "claude" {
		t.Errorf("Marker = %q, want default", cfg.Terminal.Marker)
	}
}

func TestLoad_Invalid(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	SetDefaults()
	viper.Set("automation.max_proceeds", -1)

	_, err := Load()
	if err == nil {
		t.Fatal("Load() should reject a negative max_proceeds")
	}
	if _, ok := err.(ValidationErrors); !ok {
		t.Errorf("Load() error type = %T, want ValidationErrors", err)
	}
}
