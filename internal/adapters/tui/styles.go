package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/okian/spdi/internal/domain/chart"
	"github.com/okian/spdi/internal/domain/spdi"
)

var (
	// Colors
	colorHigh   = lipgloss.Color(chart.ColorRiskHigh)
	colorMedium = lipgloss.Color(chart.ColorRiskMedium)
	colorLow    = lipgloss.Color(chart.ColorRiskLow)
	colorBatter = lipgloss.Color(chart.ColorBatter)
	colorBowler = lipgloss.Color(chart.ColorBowler)
	colorTrend  = lipgloss.Color(chart.ColorTrend)
	colorCyan   = lipgloss.Color("#8BE9FD")
	colorWhite  = lipgloss.Color("#F8F8F2")
	colorGray   = lipgloss.Color("#6272A4")
	colorPanel  = lipgloss.Color("#44475A")

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorGray).
			Padding(0, 1)

	activePanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorCyan).
				Padding(0, 1)

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	headerStyle   = lipgloss.NewStyle().Foreground(colorWhite).Bold(true)
	labelStyle    = lipgloss.NewStyle().Foreground(colorGray)
	valueStyle    = lipgloss.NewStyle().Foreground(colorWhite)
	selectedStyle = lipgloss.NewStyle().Background(colorPanel).Foreground(colorWhite)
	critStyle     = lipgloss.NewStyle().Foreground(colorHigh).Bold(true)
	helpStyle     = lipgloss.NewStyle().Foreground(colorGray)
	dimStyle      = lipgloss.NewStyle().Foreground(colorGray)
	batterStyle   = lipgloss.NewStyle().Foreground(colorBatter)
	bowlerStyle   = lipgloss.NewStyle().Foreground(colorBowler)
	trendStyle    = lipgloss.NewStyle().Foreground(colorTrend)
)

func tierStyle(t spdi.RiskTier) lipgloss.Style {
	switch t {
	case spdi.RiskHigh:
		return lipgloss.NewStyle().Foreground(colorHigh).Bold(true)
	case spdi.RiskMedium:
		return lipgloss.NewStyle().Foreground(colorMedium).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(colorLow).Bold(true)
	}
}

func kindStyle(k spdi.PlayerKind) lipgloss.Style {
	if k == spdi.KindBowler {
		return bowlerStyle
	}
	return batterStyle
}
