package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/okian/spdi/internal/domain/history"
	"github.com/okian/spdi/internal/domain/spdi"
)

// bar renders a horizontal bar for a fraction in [0,1].
func bar(fraction float64, width int, style lipgloss.Style) string {
	if width < 1 {
		width = 10
	}
	fraction = math.Max(0, math.Min(1, fraction))
	filled := int(math.Round(fraction * float64(width)))
	return style.Render(strings.Repeat("█", filled)) + dimStyle.Render(strings.Repeat("░", width-filled))
}

// contributionChart renders one bar per star player.
//
//	Star Batter 1  ██████░░░░░░░░░░░░░░ 0.306
//	Star Bowler 1  ███████░░░░░░░░░░░░░ 0.333
func contributionChart(parts []spdi.Contribution, width int) string {
	labelW := 0
	for _, p := range parts {
		labelW = max(labelW, len(p.Player))
	}
	barW := max(width-labelW-8, 10)

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Star Player Contributions"))
	sb.WriteString("\n")
	for _, p := range parts {
		sb.WriteString(labelStyle.Render(padRight(p.Player, labelW)))
		sb.WriteString("  ")
		sb.WriteString(bar(p.Fraction, barW, kindStyle(p.Kind)))
		sb.WriteString(valueStyle.Render(fmt.Sprintf(" %.3f", p.Fraction)))
		sb.WriteString("\n")
	}
	sb.WriteString(batterStyle.Render("█") + dimStyle.Render(" "+string(spdi.KindBatter)+"  "))
	sb.WriteString(bowlerStyle.Render("█") + dimStyle.Render(" "+string(spdi.KindBowler)))
	return sb.String()
}

// trendChart plots points on a fixed [0,1] axis, one column per point.
//
//	Team SPDI Trend
//	1.0│
//	0.5│  ●                       ●
//	0.0│
//	   └──────────────────────────────
//	    Match 1  Match 2  Live Match
func trendChart(points []history.Point, height int) string {
	if height < 3 {
		height = 3
	}
	colW := 0
	for _, p := range points {
		colW = max(colW, len(p.Label))
	}
	colW++

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Team SPDI Trend"))
	sb.WriteString("\n")
	for row := height - 1; row >= 0; row-- {
		yVal := float64(row) / float64(height-1)
		sb.WriteString(dimStyle.Render(fmt.Sprintf("%3.1f│", yVal)))
		for _, p := range points {
			cell := strings.Repeat(" ", colW)
			if int(math.Round(p.Value*float64(height-1))) == row {
				mid := colW / 2
				cell = strings.Repeat(" ", mid) + trendStyle.Render("●") + strings.Repeat(" ", colW-mid-1)
			}
			sb.WriteString(cell)
		}
		sb.WriteString("\n")
	}
	sb.WriteString(dimStyle.Render("   └" + strings.Repeat("─", colW*len(points))))
	sb.WriteString("\n    ")
	for _, p := range points {
		sb.WriteString(dimStyle.Render(padRight(p.Label, colW)))
	}
	return strings.TrimRight(sb.String(), " ")
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
