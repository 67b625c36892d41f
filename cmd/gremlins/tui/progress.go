// Package tui implements the live per-gremlin progress view wired into
// `gremlins run`'s worker pool, grounded on cmd/nerd/ui/campaign_page.go's
// progress.Model usage (progress.New(progress.WithDefaultGradient()),
// m.progress.ViewAs(...)) and styles.go's lipgloss palette, simplified from
// a full campaign dashboard down to a single progress bar plus a status
// line since a mutation run has one flat item queue, not a paginated view.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// Update carries one OnGremlin callback tick from internal/orchestrator into
// the running bubbletea program.
type Update struct {
	Total int
	Done  int
	State string
}

// Done signals the pipeline finished; Model should quit on receipt.
type Done struct{}

// Model is the bubbletea model for the run progress view.
type Model struct {
	progress progress.Model
	total    int
	done     int
	state    string
	finished bool
}

// New returns a fresh progress Model.
func New() Model {
	return Model{progress: progress.New(progress.WithDefaultGradient())}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.progress.Width = msg.Width - 4
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
		return m, nil
	case Update:
		m.total = msg.Total
		m.done = msg.Done
		m.state = msg.State
		return m, nil
	case Done:
		m.finished = true
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m Model) View() string {
	ratio := 0.0
	if m.total > 0 {
		ratio = float64(m.done) / float64(m.total)
	}
	header := headerStyle.Render("gremlins run")
	bar := m.progress.ViewAs(ratio)
	status := statusStyle.Render(fmt.Sprintf("%d/%d gremlins resolved (%s)", m.done, m.total, m.state))
	if m.finished {
		status = statusStyle.Render(fmt.Sprintf("%d/%d gremlins resolved, run complete", m.done, m.total))
	}
	return fmt.Sprintf("%s\n%s\n%s\n", header, bar, status)
}
