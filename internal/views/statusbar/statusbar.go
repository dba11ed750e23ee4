// Package statusbar renders the top bar: product name, page tabs, signed-in
// user and channel health.
package statusbar

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/blastline/console/internal/routes"
	"github.com/blastline/console/internal/theme"
)

// Model holds the status bar state.
type Model struct {
	Width int

	// ActivePage highlights the current tab.
	ActivePage routes.Page
	// UserEmail is shown on the right when signed in.
	UserEmail string
	// ChannelConnected reflects the WhatsApp channel health pushed by the
	// backend.
	ChannelConnected bool
	// StreamConnected reflects the event-stream connection.
	StreamConnected bool
}

// New creates a status bar model.
func New() Model {
	return Model{}
}

var tabs = []routes.Page{
	routes.PageDashboard,
	routes.PageCampaigns,
	routes.PageContacts,
	routes.PageTemplates,
	routes.PageSettings,
}

// View renders the bar.
func (m Model) View() string {
	brand := theme.StyleBrand.Render(" Blastline ")

	var parts []string
	for _, p := range tabs {
		style := theme.StyleDimmed
		if p == m.ActivePage {
			style = theme.StyleHeader.Foreground(theme.ColorBrand)
		}
		parts = append(parts, style.Render(string(p)))
	}
	tabLine := strings.Join(parts, theme.StyleDimmed.Render(" · "))

	channel := theme.StyleError.Render("● channel down")
	if m.ChannelConnected {
		channel = theme.StyleSuccess.Render("● channel up")
	}
	stream := theme.StyleDimmed.Render("○ offline")
	if m.StreamConnected {
		stream = theme.StyleDimmed.Render("● live")
	}

	right := channel + "  " + stream
	if m.UserEmail != "" {
		right = theme.StyleDimmed.Render(m.UserEmail) + "  " + right
	}

	left := brand + " " + tabLine
	gap := m.Width - lipgloss.Width(left) - lipgloss.Width(right) - 1
	if gap < 1 {
		gap = 1
	}

	bar := left + strings.Repeat(" ", gap) + right
	return lipgloss.NewStyle().
		Width(m.Width).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(theme.ColorBorder).
		Render(bar)
}
