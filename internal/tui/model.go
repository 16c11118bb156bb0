package tui

import (
	"strings"
	"time"

	"github.com/Iron-Ham/claudeyes/internal/controller"
	"github.com/Iron-Ham/claudeyes/internal/event"
	"github.com/Iron-Ham/claudeyes/internal/tui/styles"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// MaxRecentEvents bounds the event list shown under the status.
const MaxRecentEvents = 8

// refreshInterval re-reads the snapshot between events so the view never
// drifts far from the controller.
const refreshInterval = time.Second

// Controller is the part of the controller the view drives.
type Controller interface {
	Start()
	Stop()
	Resume()
	Snapshot() controller.Snapshot
}

// keyMap defines the view's key bindings.
type keyMap struct {
	Toggle key.Binding
	Resume key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Toggle: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start")),
		Resume: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "resume")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Resume, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// Messages

type snapshotMsg controller.Snapshot
type eventMsg struct{ event event.Event }
type tickMsg time.Time

// Model is the bubbletea model of the status view.
type Model struct {
	ctrl Controller
	keys keyMap
	help help.Model

	snapshot     controller.Snapshot
	lastDecision string
	recent       []string

	width    int
	quitting bool
}

// NewModel creates a view of ctrl.
func NewModel(ctrl Controller) Model {
	h := help.New()
	h.Styles.ShortKey = styles.HelpKey
	return Model{
		ctrl:     ctrl,
		keys:     defaultKeyMap(),
		help:     h,
		snapshot: ctrl.Snapshot(),
		width:    80,
	}
}

// Init starts the periodic refresh.
func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Controller calls publish events synchronously and the bus forwards them
// with program.Send, so they must never run on the update goroutine.
func (m Model) control(fn func()) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		fn()
		return snapshotMsg(ctrl.Snapshot())
	}
}

// Update handles keys, controller events and refresh ticks.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case snapshotMsg:
		m.snapshot = controller.Snapshot(msg)
		return m, nil

	case eventMsg:
		m.applyEvent(msg.event)
		return m, nil

	case tickMsg:
		m.snapshot = m.ctrl.Snapshot()
		return m, tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Toggle):
		if m.snapshot.State.Status == controller.StatusIdle {
			return m, m.control(m.ctrl.Start)
		}
		return m, m.control(m.ctrl.Stop)
	case key.Matches(msg, m.keys.Resume):
		if m.snapshot.State.Status == controller.StatusPaused {
			return m, m.control(m.ctrl.Resume)
		}
	}
	return m, nil
}

func (m *Model) applyEvent(e event.Event) {
	switch ev := e.(type) {
	case event.DecisionEvent:
		if ev.Kind != "ignore" {
			m.lastDecision = ev.Kind
			if ev.Reason != "" {
				m.lastDecision += ": " + ev.Reason
			}
		}
		return
	case event.StateChangedEvent:
		m.snapshot.State = stateFromEvent(ev)
		m.snapshot.ProceedCount = ev.ProceedCount
		m.snapshot.MaxProceeds = ev.MaxProceeds
		m.snapshot.StatusText = ev.StatusText
	case event.ProceedSentEvent:
		m.snapshot.ProceedCount = ev.ProceedCount
		m.snapshot.MaxProceeds = ev.MaxProceeds
		m.snapshot.StatusText = controller.StatusText(m.snapshot.State, ev.ProceedCount, ev.MaxProceeds)
	}

	if line := Describe(e); line != "" {
		m.recent = append(m.recent, line)
		if len(m.recent) > MaxRecentEvents {
			m.recent = m.recent[len(m.recent)-MaxRecentEvents:]
		}
	}
}

func stateFromEvent(ev event.StateChangedEvent) controller.State {
	switch ev.NewState {
	case "running":
		return controller.Running()
	case "paused":
		return controller.Paused(ev.Reason)
	default:
		return controller.Idle()
	}
}

// View renders the status view.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	width := max(m.width-4, 20)
	var b strings.Builder

	b.WriteString(styles.Header.Render("claudeyes"))
	b.WriteString("\n")

	status := m.snapshot.State.Status.String()
	b.WriteString(styles.Badge(status))
	b.WriteString(truncate(m.snapshot.StatusText, width-lipgloss.Width(styles.Badge(status))))
	b.WriteString("\n\n")

	decision := m.lastDecision
	if decision == "" {
		decision = "none yet"
	}
	b.WriteString(styles.SectionTitle.Render("Last decision: "))
	b.WriteString(truncate(decision, width-15))
	b.WriteString("\n")

	b.WriteString(styles.SectionTitle.Render("Recent events"))
	b.WriteString("\n")
	if len(m.recent) == 0 {
		b.WriteString(styles.Muted.Render("  (waiting for activity)"))
		b.WriteString("\n")
	}
	for _, line := range m.recent {
		b.WriteString("  ")
		b.WriteString(truncate(line, width-2))
		b.WriteString("\n")
	}

	b.WriteString(m.helpBar())
	return b.String()
}

func (m Model) helpBar() string {
	keys := m.keys
	if m.snapshot.State.Status != controller.StatusIdle {
		keys.Toggle.SetHelp("s", "stop")
	}
	keys.Resume.SetEnabled(m.snapshot.State.Status == controller.StatusPaused)
	return styles.HelpBar.Render(m.help.View(keys))
}
