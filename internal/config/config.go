package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/Iron-Ham/claudeyes/internal/classifier"
	"github.com/Iron-Ham/claudeyes/internal/controller"
	"github.com/Iron-Ham/claudeyes/internal/logging"
	"github.com/Iron-Ham/claudeyes/internal/notify"
	"github.com/Iron-Ham/claudeyes/internal/terminal"
	"github.com/spf13/viper"
)

// Config represents the complete claudeyes configuration
type Config struct {
	Automation    AutomationConfig    `mapstructure:"automation" yaml:"automation"`
	Classifier    ClassifierConfig    `mapstructure:"classifier" yaml:"classifier"`
	Terminal      TerminalConfig      `mapstructure:"terminal" yaml:"terminal"`
	Notifications NotificationsConfig `mapstructure:"notifications" yaml:"notifications"`
	Logging       LoggingConfig       `mapstructure:"logging" yaml:"logging"`
	Feed          FeedConfig          `mapstructure:"feed" yaml:"feed"`
}

// AutomationConfig controls the controller's limits and cadence
type AutomationConfig struct {
	// MaxProceeds caps confirmations per run; 0 means unlimited (default: 50)
	MaxProceeds int `mapstructure:"max_proceeds" yaml:"max_proceeds"`
	// PollIntervalMs is the delay between terminal reads (default: 1000)
	PollIntervalMs int `mapstructure:"poll_interval_ms" yaml:"poll_interval_ms"`
	// AutoStart enables automation as soon as watch starts (default: true)
	AutoStart bool `mapstructure:"auto_start" yaml:"auto_start"`
}

// ClassifierConfig tunes loop detection
type ClassifierConfig struct {
	// LoopDetection pauses when recent outputs are near-identical (default: false)
	LoopDetection bool `mapstructure:"loop_detection" yaml:"loop_detection"`
	// LoopWindow is how many recent snapshots are compared (default: 3, range 2-10)
	LoopWindow int `mapstructure:"loop_window" yaml:"loop_window"`
	// LoopThreshold is the average similarity above which a loop is reported (default: 0.95)
	LoopThreshold float64 `mapstructure:"loop_threshold" yaml:"loop_threshold"`
}

// TerminalConfig selects and drives tmux panes
type TerminalConfig struct {
	// Socket is the tmux -L socket name; empty uses the default server
	Socket string `mapstructure:"socket" yaml:"socket"`
	// SessionGlob filters tmux session names (default: "*")
	SessionGlob string `mapstructure:"session_glob" yaml:"session_glob"`
	// Marker is the text a pane must contain to be watched; empty watches all (default: "claude")
	Marker string `mapstructure:"marker" yaml:"marker"`
	// HistoryLines is how much scrollback to capture; 0 is the visible screen
	HistoryLines int `mapstructure:"history_lines" yaml:"history_lines"`
	// ConfirmKeys is typed before Enter when proceeding (default: "1")
	ConfirmKeys string `mapstructure:"confirm_keys" yaml:"confirm_keys"`
	// CommandTimeoutMs bounds each tmux invocation (default: 2000)
	CommandTimeoutMs int `mapstructure:"command_timeout_ms" yaml:"command_timeout_ms"`
}

// NotificationsConfig controls desktop notifications
type NotificationsConfig struct {
	// Enabled controls whether notifications are sent at all (default: true)
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// UseSound plays a sound with each notification on macOS (default: false)
	UseSound bool `mapstructure:"use_sound" yaml:"use_sound"`
	// SoundPath is the sound file played on macOS
	SoundPath string `mapstructure:"sound_path" yaml:"sound_path"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level" yaml:"level"`
	// Dir is the directory for claudeyes.log; empty logs to stderr in headless
	// mode and to the state directory under the TUI
	Dir string `mapstructure:"dir" yaml:"dir"`
	// MaxSizeMB is the maximum log file size in megabytes before rotation (default: 10)
	MaxSizeMB int `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	// MaxBackups is the number of backup log files to keep (default: 3)
	MaxBackups int `mapstructure:"max_backups" yaml:"max_backups"`
}

// FeedConfig controls the websocket state feed
type FeedConfig struct {
	// Listen is the address for the feed server, e.g. "127.0.0.1:7419"; empty disables it
	Listen string `mapstructure:"listen" yaml:"listen"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Automation: AutomationConfig{
			MaxProceeds:    50,
			PollIntervalMs: 1000,
			AutoStart:      true,
		},
		Classifier: ClassifierConfig{
			LoopDetection: false,
			LoopWindow:    classifier.DefaultLoopWindow,
			LoopThreshold: classifier.DefaultLoopThreshold,
		},
		Terminal: TerminalConfig{
			SessionGlob:      "*",
			Marker:           "claude",
			ConfirmKeys:      "1",
			CommandTimeoutMs: int(terminal.DefaultCommandTimeout / time.Millisecond),
		},
		Notifications: NotificationsConfig{
			Enabled:   true,
			SoundPath: notify.DefaultSoundPath,
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// PollInterval returns the poll interval as a time.Duration
func (c *AutomationConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}

// ControllerConfig converts the automation settings for controller.New
func (c *Config) ControllerConfig() controller.Config {
	return controller.Config{
		MaxProceeds:  c.Automation.MaxProceeds,
		PollInterval: c.Automation.PollInterval(),
	}
}

// ClassifierOptions converts the classifier settings for classifier.New
func (c *Config) ClassifierOptions() []classifier.Option {
	return []classifier.Option{
		classifier.WithLoopDetection(c.Classifier.LoopDetection),
		classifier.WithLoopWindow(c.Classifier.LoopWindow),
		classifier.WithLoopThreshold(c.Classifier.LoopThreshold),
	}
}

// TerminalConfig converts the terminal settings for terminal.New
func (c *Config) TerminalConfig() terminal.Config {
	return terminal.Config{
		Socket:         c.Terminal.Socket,
		SessionGlob:    c.Terminal.SessionGlob,
		Marker:         c.Terminal.Marker,
		HistoryLines:   c.Terminal.HistoryLines,
		ConfirmKeys:    c.Terminal.ConfirmKeys,
		CommandTimeout: time.Duration(c.Terminal.CommandTimeoutMs) * time.Millisecond,
	}
}

// NotifyConfig converts the notification settings for notify.NewDesktop
func (c *Config) NotifyConfig() notify.Config {
	return notify.Config{
		Enabled:   c.Notifications.Enabled,
		UseSound:  c.Notifications.UseSound,
		SoundPath: c.Notifications.SoundPath,
	}
}

// RotationConfig converts the logging settings for logging.NewLoggerWithRotation
func (c *Config) RotationConfig() logging.RotationConfig {
	return logging.RotationConfig{
		MaxSizeMB:  c.Logging.MaxSizeMB,
		MaxBackups: c.Logging.MaxBackups,
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Automation defaults
	viper.SetDefault("automation.max_proceeds", defaults.Automation.MaxProceeds)
	viper.SetDefault("automation.poll_interval_ms", defaults.Automation.PollIntervalMs)
	viper.SetDefault("automation.auto_start", defaults.Automation.AutoStart)

	// Classifier defaults
	viper.SetDefault("classifier.loop_detection", defaults.Classifier.LoopDetection)
	viper.SetDefault("classifier.loop_window", defaults.Classifier.LoopWindow)
	viper.SetDefault("classifier.loop_threshold", defaults.Classifier.LoopThreshold)

	// Terminal defaults
	viper.SetDefault("terminal.socket", defaults.Terminal.Socket)
	viper.SetDefault("terminal.session_glob", defaults.Terminal.SessionGlob)
	viper.SetDefault("terminal.marker", defaults.Terminal.Marker)
	viper.SetDefault("terminal.history_lines", defaults.Terminal.HistoryLines)
	viper.SetDefault("terminal.confirm_keys", defaults.Terminal.ConfirmKeys)
	viper.SetDefault("terminal.command_timeout_ms", defaults.Terminal.CommandTimeoutMs)

	// Notification defaults
	viper.SetDefault("notifications.enabled", defaults.Notifications.Enabled)
	viper.SetDefault("notifications.use_sound", defaults.Notifications.UseSound)
	viper.SetDefault("notifications.sound_path", defaults.Notifications.SoundPath)

	// Logging defaults
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)
	viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)

	// Feed defaults
	viper.SetDefault("feed.listen", defaults.Feed.Listen)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Validate the configuration
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "claudeyes")
	}
	// Fall back to ~/.config/claudeyes
	home, err := os.UserHomeDir()
	if err != nil {
		return ".claudeyes"
	}
	return filepath.Join(home, ".config", "claudeyes")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// StateDir returns the directory for runtime state such as log files
func StateDir() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "claudeyes")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".claudeyes"
	}
	return filepath.Join(home, ".local", "state", "claudeyes")
}
