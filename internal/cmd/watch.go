package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Iron-Ham/claudeyes/internal/classifier"
	"github.com/Iron-Ham/claudeyes/internal/config"
	"github.com/Iron-Ham/claudeyes/internal/controller"
	"github.com/Iron-Ham/claudeyes/internal/event"
	"github.com/Iron-Ham/claudeyes/internal/feed"
	"github.com/Iron-Ham/claudeyes/internal/logging"
	"github.com/Iron-Ham/claudeyes/internal/notify"
	"github.com/Iron-Ham/claudeyes/internal/terminal"
	"github.com/Iron-Ham/claudeyes/internal/tui"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch tmux panes and confirm Claude Code prompts",
	Long: `Watch the tmux panes running Claude Code and answer "proceed?" prompts.

When stdout is a terminal a status view is shown (s start/stop, r resume,
q quit). Otherwise, or with --headless, state changes are printed one per
line until SIGINT or SIGTERM.

Examples:
  # Watch with the configured limit
  claudeyes watch

  # Allow unlimited confirmations, polling twice a second
  claudeyes watch --max-proceeds 0 --interval 500ms

  # Stream state to websocket clients on port 7007
  claudeyes watch --headless --listen 127.0.0.1:7007`,
	RunE: runWatch,
}

var (
	watchMaxProceeds int
	watchInterval    time.Duration
	watchHeadless    bool
	watchListen      string
	watchControl     bool
)

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().IntVar(&watchMaxProceeds, "max-proceeds", 50, "Confirmations per run before pausing (0 for unlimited)")
	watchCmd.Flags().DurationVar(&watchInterval, "interval", time.Second, "How often the terminal is polled")
	watchCmd.Flags().BoolVar(&watchHeadless, "headless", false, "Print state changes instead of showing the status view")
	watchCmd.Flags().StringVar(&watchListen, "listen", "", "Serve the websocket state feed on this address")
	watchCmd.Flags().BoolVar(&watchControl, "control", false, "Accept start/stop/pause/resume requests from feed clients")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	limitPinned := applyWatchFlags(cmd, cfg)
	if errs := cfg.Validate(); len(errs) > 0 {
		return config.ValidationErrors(errs)
	}

	headless := watchHeadless || !term.IsTerminal(int(os.Stdout.Fd()))

	// The status view owns the terminal, so its logs go to a file
	logDir := cfg.Logging.Dir
	if logDir == "" && !headless {
		logDir = config.StateDir()
	}
	logger, err := logging.NewLoggerWithRotation(logDir, cfg.Logging.Level, cfg.RotationConfig())
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer func() { _ = logger.Close() }()

	ctrl, bus, err := buildController(cfg, logger)
	if err != nil {
		return err
	}

	if viper.ConfigFileUsed() != "" {
		viper.OnConfigChange(reloadHandler(ctrl, limitPinned, logger))
		viper.WatchConfig()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Feed.Listen != "" {
		srv := feed.NewServer(ctrl, bus, feed.WithLogger(logger), feed.WithControl(watchControl))
		go func() {
			if err := srv.ListenAndServe(ctx, cfg.Feed.Listen); err != nil {
				logger.Error("feed server stopped", "addr", cfg.Feed.Listen, "error", err)
			}
		}()
	}

	logger.Info("watch started",
		"max_proceeds", cfg.Automation.MaxProceeds,
		"poll_interval_ms", cfg.Automation.PollIntervalMs,
		"headless", headless,
	)
	defer ctrl.Stop()

	if headless {
		// Subscribe before starting so the first transition is printed
		done := printEvents(ctx, cmd.OutOrStdout(), bus)
		if cfg.Automation.AutoStart {
			ctrl.Start()
		}
		<-done
		return nil
	}

	if cfg.Automation.AutoStart {
		ctrl.Start()
	}
	return tui.New(ctrl, bus).Run(ctx)
}

// applyWatchFlags copies explicitly set flags over cfg. It reports whether
// the proceed limit was set on the command line.
func applyWatchFlags(cmd *cobra.Command, cfg *config.Config) bool {
	flags := cmd.Flags()
	if flags.Changed("interval") {
		cfg.Automation.PollIntervalMs = int(watchInterval / time.Millisecond)
	}
	if flags.Changed("listen") {
		cfg.Feed.Listen = watchListen
	}
	if flags.Changed("max-proceeds") {
		cfg.Automation.MaxProceeds = watchMaxProceeds
		return true
	}
	return false
}

// buildController wires the tmux backend, notifier and classifier into a
// controller publishing on a fresh bus.
func buildController(cfg *config.Config, logger *logging.Logger) (*controller.Controller, *event.Bus, error) {
	bus := event.NewBus()
	bus.SetLogger(logger)

	backend, err := terminal.New(cfg.TerminalConfig(), terminal.WithLogger(logger))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to configure tmux: %w", err)
	}

	notifier := notify.NewDesktop(cfg.NotifyConfig(), notify.WithLogger(logger))
	cl := classifier.New(append(cfg.ClassifierOptions(), classifier.WithLogger(logger))...)

	ctrl, err := controller.New(cfg.ControllerConfig(), backend, backend,
		controller.WithClassifier(cl),
		controller.WithNotifier(notifier),
		controller.WithBus(bus),
		controller.WithLogger(logger),
	)
	if err != nil {
		return nil, nil, err
	}
	return ctrl, bus, nil
}

type limitSetter interface {
	SetMaxProceeds(n int) error
}

// reloadHandler returns the config change callback. It applies a reloaded
// proceed limit to ctrl unless the limit was pinned by a flag. Other keys
// take effect on the next watch.
func reloadHandler(ctrl limitSetter, pinned bool, logger *logging.Logger) func(fsnotify.Event) {
	return func(e fsnotify.Event) {
		cfg, err := config.Load()
		if err != nil {
			logger.Warn("ignoring invalid config change", "file", e.Name, "error", err)
			return
		}
		if pinned {
			logger.Debug("config changed, max_proceeds pinned by flag", "file", e.Name)
			return
		}
		if err := ctrl.SetMaxProceeds(cfg.Automation.MaxProceeds); err != nil {
			logger.Warn("failed to apply max_proceeds", "error", err)
			return
		}
		logger.Info("config reloaded", "file", e.Name, "max_proceeds", cfg.Automation.MaxProceeds)
	}
}

// printEvents writes a line per notable bus event to out until ctx is
// cancelled. The returned channel is closed once printing has stopped.
func printEvents(ctx context.Context, out io.Writer, bus *event.Bus) <-chan struct{} {
	lines := make(chan string, 64)
	id := bus.SubscribeAll(func(e event.Event) {
		line := tui.Describe(e)
		if line == "" {
			return
		}
		select {
		case lines <- line:
		default:
		}
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer bus.Unsubscribe(id)
		for {
			select {
			case <-ctx.Done():
				return
			case line := <-lines:
				_, _ = fmt.Fprintln(out, line)
			}
		}
	}()
	return done
}
