// Package ui renders live self-check progress in the terminal.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"precis/internal/selfcheck"
)

type progressModel struct {
	title   string
	events  <-chan selfcheck.Progress
	spinner spinner.Model
	prog    progress.Model
	items   []taskItem
	index   map[string]int
	width   int
	done    bool
	// interrupted is set when the user quits before the run ends.
	interrupted bool
}

type taskItem struct {
	name   string
	status selfcheck.Status
	done   int
	total  int
	failed int
}

type eventMsg selfcheck.Progress
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders one row per
// property task. The model quits when events is closed.
func NewProgressModel(title string, tasks []string, events <-chan selfcheck.Progress) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	items := make([]taskItem, 0, len(tasks))
	index := make(map[string]int, len(tasks))
	for i, name := range tasks {
		items = append(items, taskItem{name: name})
		index[name] = i
	}
	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		items:   items,
		index:   index,
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(selfcheck.Progress(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			m.interrupted = true
			return m, tea.Quit
		}
		return m, nil
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		pm, cmd := m.prog.Update(msg)
		m.prog = pm.(progress.Model)
		return m, cmd
	}
	return m, nil
}

// Interrupted reports whether the user quit before the events channel closed.
func (m *progressModel) Interrupted() bool { return m.interrupted }

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := m.title
	if m.done {
		header = fmt.Sprintf("done: %s", header)
	} else {
		header = fmt.Sprintf("%s %s", m.spinner.View(), header)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	const statusWidth, countWidth = 8, 14
	nameWidth := max(m.width-statusWidth-countWidth-6, 20)

	for _, item := range m.items {
		status := styleStatus(item.status).Render(fmt.Sprintf("%*s", statusWidth, item.status))
		count := fmt.Sprintf("%*s", countWidth, counts(item))
		fmt.Fprintf(&b, "  %s %s %s\n", status, count, truncate(item.name, nameWidth))
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")
	return b.String()
}

func counts(item taskItem) string {
	if item.failed > 0 {
		return fmt.Sprintf("%d/%d !%d", item.done, item.total, item.failed)
	}
	return fmt.Sprintf("%d/%d", item.done, item.total)
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev selfcheck.Progress) tea.Cmd {
	idx, ok := m.index[ev.Task]
	if !ok {
		return nil
	}
	it := &m.items[idx]
	it.status = ev.Status
	it.done = ev.Done
	it.total = ev.Total
	it.failed = ev.Failed
	return m.prog.SetPercent(m.fraction())
}

func (m *progressModel) fraction() float64 {
	if len(m.items) == 0 {
		return 0
	}
	total := 0.0
	for _, it := range m.items {
		switch {
		case it.status == selfcheck.StatusPassed || it.status == selfcheck.StatusFailed:
			total += 1.0
		case it.total > 0:
			total += float64(it.done) / float64(it.total)
		}
	}
	return total / float64(len(m.items))
}

func styleStatus(status selfcheck.Status) lipgloss.Style {
	switch status {
	case selfcheck.StatusPassed:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case selfcheck.StatusFailed:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case selfcheck.StatusRunning:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
