// Package tui provides the full-screen terminal timer for one task.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"demand-planner/internal/model"
	"demand-planner/internal/timer"
)

// RefreshInterval is how often the elapsed clock is recomputed.
const RefreshInterval = 500 * time.Millisecond

var (
	mutedColor   = lipgloss.Color("#6B7280")
	successColor = lipgloss.Color("#10B981")
	errorColor   = lipgloss.Color("#EF4444")

	frameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(1, 3)

	titleStyle = lipgloss.NewStyle().
			Bold(true)

	clockStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(1, 0)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	successStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor)
)

// Store is the part of the task store the timer view drives.
type Store interface {
	Get(id string) (model.Task, bool)
	ToggleTimer(id string) bool
	Complete(id string) bool
	TakeNotification() (model.Notification, bool)
}

type tickMsg time.Time

// Model is the bubbletea model of the active-task view.
type Model struct {
	store  Store
	taskID string
	task   model.Task
	found  bool
	now    func() time.Time
	keys   KeyMap
	help   help.Model
	toast  *model.Notification
	width  int
}

func New(store Store, taskID string) *Model {
	m := &Model{
		store:  store,
		taskID: taskID,
		now:    time.Now,
		keys:   DefaultKeyMap,
		help:   help.New(),
	}
	m.refresh()
	return m
}

// Run starts the program and blocks until the user quits.
func (m *Model) Run() error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Notification is the message left by the last action, if any.
func (m *Model) Notification() (model.Notification, bool) {
	if m.toast == nil {
		return model.Notification{}, false
	}
	return *m.toast, true
}

func (m *Model) refresh() {
	m.task, m.found = m.store.Get(m.taskID)
}

func tick() tea.Cmd {
	return tea.Tick(RefreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return tick()
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.refresh()
		return m, tick()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Toggle):
			if m.found && m.task.IsOpen() {
				m.store.ToggleTimer(m.taskID)
				m.refresh()
			}

		case key.Matches(msg, m.keys.Complete):
			if !m.found || !m.task.IsOpen() {
				return m, nil
			}
			m.store.Complete(m.taskID)
			if n, ok := m.store.TakeNotification(); ok {
				m.toast = &n
			}
			m.refresh()
			return m, tea.Quit
		}
	}
	return m, nil
}

// View implements tea.Model
func (m *Model) View() string {
	if !m.found {
		return errorStyle.Render("Demanda não encontrada.") + "\n\n" + m.help.View(m.keys) + "\n"
	}

	info := m.task.Type.Info()
	now := m.now()
	elapsed := timer.Effective(m.task, now)
	progress := timer.Progress(m.task, now)
	accent := lipgloss.Color(info.Color)

	state := "pausada"
	switch {
	case !m.task.IsOpen():
		state = "concluída"
	case m.task.IsRunning:
		state = "em andamento"
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(accent).Render(info.Icon+" "+strings.ToUpper(info.Label)) + "  " + mutedStyle.Render(state))
	b.WriteString("\n")
	b.WriteString(titleStyle.Render(m.task.Title))
	if m.task.Person != "" {
		b.WriteString(mutedStyle.Render("  · " + m.task.Person))
	}
	b.WriteString("\n")
	b.WriteString(clockStyle.Foreground(accent).Render(timer.Format(elapsed)))
	b.WriteString("\n")
	b.WriteString(progressBar(progress, 30, accent))
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  %.0f%% de %d min", progress, m.task.Duration)))
	if m.toast != nil {
		b.WriteString("\n\n")
		if m.toast.Kind == model.NotifyError {
			b.WriteString(errorStyle.Render(m.toast.Message))
		} else {
			b.WriteString(successStyle.Render(m.toast.Message))
		}
	}

	return frameStyle.Render(b.String()) + "\n" + m.help.View(m.keys) + "\n"
}

func progressBar(percent float64, width int, color lipgloss.Color) string {
	filled := int(percent / 100 * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled)) +
		mutedStyle.Render(strings.Repeat("░", width-filled))
}
