// Package theme provides the Lip Gloss color palette and reusable styles
// for the Blastline console. It is a leaf package with no internal imports
// to avoid import cycles.
package theme

import "github.com/charmbracelet/lipgloss"

// Brand colors.
var (
	ColorBrand      = lipgloss.Color("#25d366") // WhatsApp green
	ColorBrandDark  = lipgloss.Color("#128c7e")
	ColorBrandLight = lipgloss.Color("#dcf8c6")
)

// Campaign status colors.
var (
	ColorDraft     = lipgloss.Color("#9ca3af")
	ColorScheduled = lipgloss.Color("#d97706")
	ColorSent      = lipgloss.Color("#16a34a")
)

// Template review colors.
var (
	ColorApproved = lipgloss.Color("#16a34a")
	ColorPending  = lipgloss.Color("#d97706")
	ColorRejected = lipgloss.Color("#dc2626")
)

// UI chrome colors.
var (
	ColorBorder  = lipgloss.Color("#4b5563")
	ColorDimmed  = lipgloss.Color("#6b7280")
	ColorBright  = lipgloss.Color("#f9fafb")
	ColorBg      = lipgloss.Color("#111827")
	ColorHealthy = lipgloss.Color("#22c55e")
	ColorWarning = lipgloss.Color("#d97706")
	ColorDanger  = lipgloss.Color("#dc2626")
)

// CampaignColor returns the color for a campaign status label.
func CampaignColor(status string) lipgloss.Color {
	switch status {
	case "Sent":
		return ColorSent
	case "Scheduled":
		return ColorScheduled
	default:
		return ColorDraft
	}
}

// TemplateColor returns the color for a template review status.
func TemplateColor(status string) lipgloss.Color {
	switch status {
	case "approved":
		return ColorApproved
	case "rejected":
		return ColorRejected
	default:
		return ColorPending
	}
}

// Reusable styles.
var (
	StyleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorBright)

	StyleDimmed = lipgloss.NewStyle().
			Foreground(ColorDimmed)

	StyleBrand = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorBrand)

	StyleError = lipgloss.NewStyle().
			Foreground(ColorDanger)

	StyleErrorBanner = lipgloss.NewStyle().
				Foreground(ColorDanger).
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorDanger).
				Padding(0, 1)

	StyleSuccess = lipgloss.NewStyle().
			Foreground(ColorHealthy)

	StylePanel = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)
)
