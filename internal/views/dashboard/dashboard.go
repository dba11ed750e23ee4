// Package dashboard renders the metrics summary: stat cards and the daily
// message-volume chart.
package dashboard

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/blastline/console/internal/api"
	"github.com/blastline/console/internal/theme"
)

const chartWidth = 28

type loadedMsg struct {
	metrics *api.Metrics
	err     error
}

// Model holds the dashboard state.
type Model struct {
	Width int

	client  *api.Client
	metrics *api.Metrics
	loading bool
	errText string
	spin    spinner.Model
}

// New creates a dashboard model.
func New(client *api.Client) Model {
	return Model{
		client:  client,
		loading: true,
		spin:    spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

// Init fetches the metrics.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.load(), m.spin.Tick)
}

func (m Model) load() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		metrics, err := client.DashboardMetrics(context.Background())
		return loadedMsg{metrics: metrics, err: err}
	}
}

// Update handles load completion and manual refresh.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		m.loading = false
		if msg.err != nil {
			m.errText = api.Message(msg.err, "Could not load metrics.")
			return m, nil
		}
		m.errText = ""
		m.metrics = msg.metrics
		return m, nil

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "r" {
			m.loading = true
			return m, tea.Batch(m.load(), m.spin.Tick)
		}
	}
	return m, nil
}

// View renders the stat cards and the volume chart.
func (m Model) View() string {
	if m.errText != "" {
		return "\n" + theme.StyleErrorBanner.Render(m.errText) + "\n" +
			theme.StyleDimmed.Render("  r:retry")
	}
	if m.metrics == nil {
		return "\n  " + m.spin.View() + " Loading metrics..."
	}

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		m.card("Messages sent", formatCount(m.metrics.MessagesSent), theme.ColorBrand),
		m.card("Delivery rate", fmt.Sprintf("%.1f%%", m.metrics.DeliveryRate*100), theme.ColorHealthy),
		m.card("Active contacts", formatCount(m.metrics.ActiveContacts), theme.ColorScheduled),
		m.card("Scheduled", formatCount(m.metrics.Scheduled), theme.ColorDimmed),
	)

	footer := theme.StyleDimmed.Render("  r:refresh")
	if m.loading {
		footer = "  " + m.spin.View() + " Refreshing..."
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		cards,
		m.renderVolume(),
		footer,
	)
}

func (m Model) card(title, value string, color lipgloss.Color) string {
	inner := theme.StyleDimmed.Render(title) + "\n" +
		lipgloss.NewStyle().Bold(true).Foreground(color).Render(value)
	return theme.StylePanel.Width(20).Render(inner)
}

// renderVolume draws one bar per day, sent vs delivered.
func (m Model) renderVolume() string {
	if len(m.metrics.Volume) == 0 {
		return theme.StyleDimmed.Render("  No volume data yet")
	}

	maxSent := 1
	for _, p := range m.metrics.Volume {
		if p.Sent > maxSent {
			maxSent = p.Sent
		}
	}

	lines := []string{theme.StyleHeader.Render("  Message volume (7 days)")}
	for _, p := range m.metrics.Volume {
		sentW := p.Sent * chartWidth / maxSent
		delivW := 0
		if p.Sent > 0 {
			delivW = p.Delivered * sentW / p.Sent
		}
		// The backend may report more deliveries than sends mid-update.
		if delivW > sentW {
			delivW = sentW
		}
		bar := lipgloss.NewStyle().Foreground(theme.ColorBrand).Render(strings.Repeat("█", delivW)) +
			lipgloss.NewStyle().Foreground(theme.ColorBorder).Render(strings.Repeat("█", sentW-delivW))
		lines = append(lines, fmt.Sprintf("  %-4s %s %s", p.Day, bar,
			theme.StyleDimmed.Render(fmt.Sprintf("%d/%d", p.Delivered, p.Sent))))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// formatCount formats large numbers with K/M suffixes.
func formatCount(n int) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	default:
		return fmt.Sprintf("%d", n)
	}
}
