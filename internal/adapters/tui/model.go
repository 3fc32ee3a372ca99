// Package tui implements the terminal SPDI dashboard.
package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/okian/spdi/internal/domain/model"
	"github.com/okian/spdi/internal/domain/spdi"
)

// Evaluator turns a MatchInput into an Evaluation.
type Evaluator interface {
	Evaluate(ctx context.Context, in spdi.MatchInput) (model.Evaluation, error)
}

// Step sizes for value adjustment.
const (
	smallStep = 1
	largeStep = 10
)

const (
	defaultWidth = 110
	formWidth    = 34
	trendHeight  = 6
)

type field struct {
	group string
	label string
	value int
	min   int
}

// DefaultInput is the match the dashboard opens with.
func DefaultInput() spdi.MatchInput {
	return spdi.MatchInput{
		StarBatterRuns1: 55, StarBatterRuns2: 48, TeamTotalRuns: 180,
		StarBowlerWickets1: 3, StarBowlerWickets2: 2, TeamTotalWickets: 9,
	}
}

// Model is the bubbletea model of the dashboard.
type Model struct {
	eval   Evaluator
	fields []field
	cursor int
	width  int
	height int

	ev  model.Evaluation
	err error
}

// NewModel builds the form from in and evaluates it once.
func NewModel(eval Evaluator, in spdi.MatchInput) Model {
	m := Model{
		eval:  eval,
		width: defaultWidth,
		fields: []field{
			{group: "Batting Contributions", label: "Star Batter 1 (Runs)", value: in.StarBatterRuns1},
			{group: "Batting Contributions", label: "Star Batter 2 (Runs)", value: in.StarBatterRuns2},
			{group: "Batting Contributions", label: "Team Total Runs", value: in.TeamTotalRuns, min: 1},
			{group: "Bowling Contributions", label: "Star Bowler 1 (Wickets)", value: in.StarBowlerWickets1},
			{group: "Bowling Contributions", label: "Star Bowler 2 (Wickets)", value: in.StarBowlerWickets2},
			{group: "Bowling Contributions", label: "Total Team Wickets", value: in.TeamTotalWickets, min: 1},
		},
	}
	for i := range m.fields {
		m.fields[i].value = max(m.fields[i].value, m.fields[i].min)
	}
	m.evaluate()
	return m
}

// Input returns the values currently in the form.
func (m Model) Input() spdi.MatchInput {
	return spdi.MatchInput{
		StarBatterRuns1:    m.fields[0].value,
		StarBatterRuns2:    m.fields[1].value,
		TeamTotalRuns:      m.fields[2].value,
		StarBowlerWickets1: m.fields[3].value,
		StarBowlerWickets2: m.fields[4].value,
		TeamTotalWickets:   m.fields[5].value,
	}
}

// Cursor returns the index of the selected field.
func (m Model) Cursor() int { return m.cursor }

// Evaluation returns the latest evaluation and its error, if any.
func (m Model) Evaluation() (model.Evaluation, error) { return m.ev, m.err }

func (m *Model) evaluate() {
	m.ev, m.err = m.eval.Evaluate(context.Background(), m.Input())
}

func (m *Model) adjust(delta int) {
	f := &m.fields[m.cursor]
	f.value = max(f.value+delta, f.min)
	m.evaluate()
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "j", "down", "tab":
			m.cursor = (m.cursor + 1) % len(m.fields)
		case "k", "up", "shift+tab":
			m.cursor = (m.cursor - 1 + len(m.fields)) % len(m.fields)
		case "l", "right", "+":
			m.adjust(smallStep)
		case "h", "left", "-":
			m.adjust(-smallStep)
		case "pgup":
			m.adjust(largeStep)
		case "pgdown":
			m.adjust(-largeStep)
		case "r":
			cursor := m.cursor
			m = NewModel(m.eval, DefaultInput())
			m.cursor = cursor
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	form := activePanelStyle.Width(formWidth).Render(m.renderForm())
	resultW := max(m.width-formWidth-6, 40)
	result := panelStyle.Width(resultW).Render(RenderReport(m.ev, m.err, resultW-2))
	help := helpStyle.Render("↑/↓ select  ←/→ ±1  pgup/pgdn ±10  r reset  q quit")
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Star Player Dependency Index (SPDI)"),
		lipgloss.JoinHorizontal(lipgloss.Top, form, " ", result),
		help,
	)
}

func (m Model) renderForm() string {
	var sb strings.Builder
	sb.WriteString(headerStyle.Render("Match Data Input"))
	group := ""
	for i, f := range m.fields {
		if f.group != group {
			group = f.group
			sb.WriteString("\n\n" + labelStyle.Render(group))
		}
		line := fmt.Sprintf("%-24s %5d", f.label, f.value)
		if i == m.cursor {
			line = selectedStyle.Render("> " + line)
		} else {
			line = valueStyle.Render("  " + line)
		}
		sb.WriteString("\n" + line)
	}
	return sb.String()
}

// RenderReport renders the result pane for one evaluation: the errors when
// validation failed, otherwise the tier, indices and both charts.
func RenderReport(ev model.Evaluation, err error, width int) string {
	if err != nil {
		return critStyle.Render("Evaluation failed: " + err.Error())
	}
	if !ev.Valid() {
		lines := make([]string, 0, len(ev.Errors))
		for _, msg := range ev.Messages() {
			lines = append(lines, critStyle.Render(msg))
		}
		return strings.Join(lines, "\n")
	}
	if ev.Result == nil {
		return dimStyle.Render("No evaluation yet")
	}

	r := ev.Result
	var sb strings.Builder
	sb.WriteString(headerStyle.Render("SPDI Metrics") + "\n")
	sb.WriteString(tierStyle(r.RiskTier).Render(r.RiskTier.String()+" Risk") + "\n")
	sb.WriteString(valueStyle.Render(fmt.Sprintf("Overall SPDI: %.3f", r.CompositeIndex)) + "\n")
	sb.WriteString(labelStyle.Render(fmt.Sprintf("SPDI (Batsmen): %.3f | SPDI (Bowlers): %.3f", r.BattingIndex, r.BowlingIndex)) + "\n")
	sb.WriteString(dimStyle.Render(r.RiskDescription) + "\n\n")
	sb.WriteString(contributionChart(ev.Contributions, width) + "\n\n")
	sb.WriteString(trendChart(ev.Trend, trendHeight))
	return sb.String()
}
