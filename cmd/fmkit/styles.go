// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/fmkit/fmkit/internal/config"
)

// Color palette shared by all CLI output.
const (
	// ColorPrimary is purple, used for titles and headers.
	ColorPrimary = lipgloss.Color("#7C3AED")

	// ColorSuccess is green, used for success states and mandatory markers.
	ColorSuccess = lipgloss.Color("#10B981")

	// ColorError is red, used for errors and failing findings.
	ColorError = lipgloss.Color("#EF4444")

	// ColorWarning is amber, used for warnings and optional markers.
	ColorWarning = lipgloss.Color("#F59E0B")

	// ColorHighlight is blue, used for feature names and file paths.
	ColorHighlight = lipgloss.Color("#3B82F6")
)

// ColorMuted and ColorVerbose adapt to the terminal background.
var (
	ColorMuted   = lipgloss.AdaptiveColor{Light: "#4B5563", Dark: "#6B7280"}
	ColorVerbose = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
)

var (
	// TitleStyle is for primary headers and section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// SubtitleStyle is for secondary headers and descriptions.
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// SuccessStyle is for success messages and positive indicators.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	// ErrorStyle is for error messages and failure indicators.
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError)

	// WarningStyle is for warning messages and caution indicators.
	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// CmdStyle is for feature names, paths and config keys.
	CmdStyle = lipgloss.NewStyle().
			Foreground(ColorHighlight)

	// VerboseStyle is for supplementary information.
	VerboseStyle = lipgloss.NewStyle().
			Foreground(ColorVerbose)

	// summaryBoxStyle frames the `fmkit info` summary.
	summaryBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, 1)

	// summaryKeyStyle pads the labels of the summary table.
	summaryKeyStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Width(16)
)

// applyColorScheme pins the background lipgloss assumes for adaptive colors.
// ColorSchemeAuto leaves terminal detection in place.
func applyColorScheme(cs config.ColorScheme) {
	switch cs {
	case config.ColorSchemeDark:
		lipgloss.SetHasDarkBackground(true)
	case config.ColorSchemeLight:
		lipgloss.SetHasDarkBackground(false)
	case config.ColorSchemeAuto:
	}
}

// guideStyle returns the glamour style used to render issue guides.
func guideStyle(cs config.ColorScheme) string {
	switch cs {
	case config.ColorSchemeDark, config.ColorSchemeLight:
		return string(cs)
	default:
		return "auto"
	}
}
