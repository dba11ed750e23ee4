// Package onboarding renders the four-step first-run wizard over the
// onboarding.Sequencer. All timing lives here: the step-1 confirmation
// delay, the stubbed pairing resolution, and the stepper animation frames.
package onboarding

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"

	"github.com/blastline/console/internal/api"
	"github.com/blastline/console/internal/onboarding"
	"github.com/blastline/console/internal/theme"
)

const (
	// accountDelay is the cosmetic step-1 confirmation pause.
	accountDelay = time.Second
	// pairingDelay stubs the external pairing confirmation. The real system
	// would poll the backend for it.
	pairingDelay = 2 * time.Second

	fps        = 60
	panelWidth = 64
	barWidth   = panelWidth - 6
)

// FinishedMsg reports that the completion endpoint succeeded. The app
// patches the session profile and re-evaluates the route gate.
type FinishedMsg struct{}

type (
	accountReadyMsg   struct{}
	pairedMsg         struct{}
	frameMsg          time.Time
	businessResultMsg struct{ err error }
	finishResultMsg   struct{ err error }
)

var categories = []string{"Retail & E-commerce", "Software & IT", "Finance", "Healthcare"}

var countries = []string{"US", "IN", "UK", "AE"}

var timezones = []string{"UTC", "America/New_York", "Europe/London", "Asia/Kolkata", "Asia/Dubai"}

const (
	fieldCategory = iota
	fieldCountry
	fieldTimezone
	fieldTotal
)

// Model owns the wizard state for one mount. Remounting discards progress
// and restarts at step 1.
type Model struct {
	Width  int
	Height int

	client *api.Client
	seq    *onboarding.Sequencer

	// Step-2 selections.
	focus    int
	category int // -1 until chosen
	country  int
	timezone int

	// Stepper animation.
	spring harmonica.Spring
	pos    float64
	vel    float64

	spin spinner.Model
}

// New creates a freshly mounted wizard at step 1.
func New(client *api.Client, seq *onboarding.Sequencer) Model {
	return Model{
		client:   client,
		seq:      seq,
		category: -1,
		spring:   harmonica.NewSpring(harmonica.FPS(fps), 6.0, 0.8),
		spin:     spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

// Init schedules the step-1 auto-advance and the first animation frame.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.Tick(accountDelay, func(time.Time) tea.Msg { return accountReadyMsg{} }),
		frame(),
		m.spin.Tick,
	)
}

func frame() tea.Cmd {
	return tea.Tick(time.Second/fps, func(t time.Time) tea.Msg { return frameMsg(t) })
}

// Update drives the sequencer from UI events and I/O completions.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case accountReadyMsg:
		m.seq.AccountReady()
		return m, frame()

	case pairedMsg:
		m.seq.ConnectEstablished()
		return m, nil

	case businessResultMsg:
		if msg.err != nil {
			m.seq.BusinessSubmitFailed(msg.err)
			return m, nil
		}
		m.seq.BusinessSubmitted()
		return m, frame()

	case finishResultMsg:
		if msg.err != nil {
			m.seq.FinishFailed(msg.err)
			return m, nil
		}
		m.seq.FinishSucceeded()
		return m, func() tea.Msg { return FinishedMsg{} }

	case frameMsg:
		target := m.stepTarget()
		m.pos, m.vel = m.spring.Update(m.pos, m.vel, target)
		if math.Abs(m.pos-target) > 0.001 || math.Abs(m.vel) > 0.001 {
			return m, frame()
		}
		m.pos, m.vel = target, 0
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) stepTarget() float64 {
	return float64(m.seq.Step()-1) / 3.0
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch m.seq.Step() {
	case onboarding.StepBusinessInfo:
		return m.handleBusinessKey(msg)

	case onboarding.StepConnect:
		switch msg.String() {
		case "enter":
			switch m.seq.Connection() {
			case onboarding.ConnIdle:
				if m.seq.BeginConnect() {
					return m, tea.Tick(pairingDelay, func(time.Time) tea.Msg { return pairedMsg{} })
				}
			case onboarding.ConnConnected:
				if m.seq.ContinueToFinish() {
					return m, frame()
				}
			}
		}

	case onboarding.StepFinish:
		if msg.String() == "enter" {
			if err := m.seq.BeginFinish(); err != nil {
				return m, nil
			}
			client := m.client
			return m, tea.Batch(m.spin.Tick, func() tea.Msg {
				return finishResultMsg{err: client.FinishOnboarding(context.Background())}
			})
		}
	}

	return m, nil
}

func (m Model) handleBusinessKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.seq.InFlight() {
		return m, nil
	}
	switch msg.String() {
	case "up", "shift+tab":
		m.focus = (m.focus - 1 + fieldTotal) % fieldTotal
	case "down", "tab":
		m.focus = (m.focus + 1) % fieldTotal
	case "left":
		m.cycle(-1)
	case "right":
		m.cycle(1)
	case "enter":
		info := m.businessInfo()
		if err := m.seq.BeginBusinessSubmit(info); err != nil {
			m.seq.BusinessSubmitFailed(err)
			return m, nil
		}
		client := m.client
		return m, tea.Batch(m.spin.Tick, func() tea.Msg {
			return businessResultMsg{err: client.SubmitBusinessInfo(context.Background(), api.BusinessInfo{
				Category: info.Category,
				Country:  info.Country,
				Timezone: info.Timezone,
			})}
		})
	}
	return m, nil
}

func (m *Model) cycle(dir int) {
	switch m.focus {
	case fieldCategory:
		if m.category < 0 {
			m.category = 0
			return
		}
		m.category = (m.category + dir + len(categories)) % len(categories)
	case fieldCountry:
		m.country = (m.country + dir + len(countries)) % len(countries)
	case fieldTimezone:
		m.timezone = (m.timezone + dir + len(timezones)) % len(timezones)
	}
}

func (m Model) businessInfo() onboarding.BusinessInfo {
	info := onboarding.BusinessInfo{
		Country:  countries[m.country],
		Timezone: timezones[m.timezone],
	}
	if m.category >= 0 {
		info.Category = categories[m.category]
	}
	return info
}

// View renders the stepper and the active step's panel.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderStepper() + "\n\n")

	if m.seq.ErrText() != "" {
		b.WriteString(theme.StyleErrorBanner.Render(m.seq.ErrText()) + "\n\n")
	}

	switch m.seq.Step() {
	case onboarding.StepAccount:
		b.WriteString(theme.StyleHeader.Render("Account created!") + "\n")
		b.WriteString(theme.StyleDimmed.Render("Setting up your workspace...") + "\n")

	case onboarding.StepBusinessInfo:
		b.WriteString(m.renderBusinessForm())

	case onboarding.StepConnect:
		b.WriteString(m.renderConnect())

	case onboarding.StepFinish:
		b.WriteString(theme.StyleHeader.Render("You're all set!") + "\n")
		b.WriteString(theme.StyleDimmed.Render("Your dashboard is ready. Start creating your first campaign today.") + "\n\n")
		if m.seq.InFlight() {
			b.WriteString("  " + m.spin.View() + " Finishing up...\n")
		} else {
			b.WriteString(theme.StyleBrand.Render("  enter: go to dashboard") + "\n")
		}
	}

	panel := theme.StylePanel.Width(panelWidth).Render(b.String())
	return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, panel)
}

// renderStepper draws the four step labels over a spring-animated progress
// bar.
func (m Model) renderStepper() string {
	labels := make([]string, 0, 4)
	for s := onboarding.StepAccount; s <= onboarding.StepFinish; s++ {
		style := theme.StyleDimmed
		switch {
		case s < m.seq.Step():
			style = theme.StyleSuccess
		case s == m.seq.Step():
			style = theme.StyleBrand
		}
		labels = append(labels, style.Render(s.String()))
	}

	filled := int(math.Round(m.pos * float64(barWidth)))
	if filled < 0 {
		filled = 0
	}
	if filled > barWidth {
		filled = barWidth
	}
	bar := lipgloss.NewStyle().Foreground(theme.ColorBrand).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(theme.ColorBorder).Render(strings.Repeat("░", barWidth-filled))

	return strings.Join(labels, theme.StyleDimmed.Render(" ─ ")) + "\n" + bar
}

func (m Model) renderBusinessForm() string {
	var b strings.Builder
	b.WriteString(theme.StyleHeader.Render("Tell us about your business") + "\n\n")

	category := "Select a category"
	if m.category >= 0 {
		category = categories[m.category]
	}
	rows := []struct {
		label string
		value string
	}{
		{"Category", category},
		{"Country", countries[m.country]},
		{"Timezone", timezones[m.timezone]},
	}
	for i, row := range rows {
		cursor := "  "
		style := theme.StyleDimmed
		if i == m.focus {
			cursor = "> "
			style = theme.StyleHeader
		}
		b.WriteString(fmt.Sprintf("%s%-10s %s\n", cursor, row.label, style.Render("◂ "+row.value+" ▸")))
	}

	b.WriteString("\n")
	if m.seq.InFlight() {
		b.WriteString("  " + m.spin.View() + " Saving...\n")
	} else {
		b.WriteString(theme.StyleDimmed.Render("  ←/→:choose  ↑/↓:field  enter:continue") + "\n")
	}
	return b.String()
}

func (m Model) renderConnect() string {
	var b strings.Builder
	b.WriteString(theme.StyleHeader.Render("Connect WhatsApp") + "\n")
	b.WriteString(theme.StyleDimmed.Render("Link your business number to start sending.") + "\n\n")

	switch m.seq.Connection() {
	case onboarding.ConnIdle:
		b.WriteString(theme.StyleBrand.Render("  enter: generate pairing code") + "\n")
	case onboarding.ConnConnecting:
		b.WriteString("  " + m.spin.View() + " Waiting for connection...\n")
		b.WriteString(theme.StyleDimmed.Render("  Open WhatsApp > Linked Devices > Link a Device") + "\n")
	case onboarding.ConnConnected:
		b.WriteString(theme.StyleSuccess.Render("  ✓ Successfully connected!") + "\n\n")
		b.WriteString(theme.StyleBrand.Render("  enter: continue") + "\n")
	}
	return b.String()
}
