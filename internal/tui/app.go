// Package tui renders the watcher's status view and maps keys onto the
// automation controller.
package tui

import (
	"context"
	"errors"

	"github.com/Iron-Ham/claudeyes/internal/event"
	tea "github.com/charmbracelet/bubbletea"
)

// App wraps the Bubbletea program
type App struct {
	program *tea.Program
	model   Model
	bus     *event.Bus
}

// New creates a new TUI application for ctrl, following events on bus.
func New(ctrl Controller, bus *event.Bus) *App {
	return &App{
		model: NewModel(ctrl),
		bus:   bus,
	}
}

// Run starts the TUI and blocks until the user quits or ctx is cancelled.
// Cancellation is not reported as an error.
func (a *App) Run(ctx context.Context) error {
	a.program = tea.NewProgram(
		a.model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	// Forward controller events into the program
	id := a.bus.SubscribeAll(func(e event.Event) {
		a.program.Send(eventMsg{event: e})
	})
	defer a.bus.Unsubscribe(id)

	_, err := a.program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
