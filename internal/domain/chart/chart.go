// Package chart builds presentation-neutral chart payloads from SPDI output.
package chart

import (
	"math"

	"github.com/okian/spdi/internal/domain/history"
	"github.com/okian/spdi/internal/domain/spdi"
)

// Palette used by every dashboard.
const (
	ColorBatter = "#2563eb"
	ColorBowler = "#10b981"
	ColorTrend  = "#2563eb"

	ColorRiskHigh   = "#ef4444"
	ColorRiskMedium = "#f59e0b"
	ColorRiskLow    = "#10b981"
)

// Chart types.
const (
	TypeBar  = "bar"
	TypeLine = "line"
)

// Config describes one chart.
type Config struct {
	ChartType  string   `json:"chartType"`
	Title      string   `json:"title"`
	XAxis      string   `json:"xAxis,omitempty"`
	YAxis      string   `json:"yAxis,omitempty"`
	Series     []Series `json:"series"`
	ShowLegend bool     `json:"showLegend"`
	YMin       *float64 `json:"yMin,omitempty"`
	YMax       *float64 `json:"yMax,omitempty"`
}

// Series is one named, coloured run of points.
type Series struct {
	Name  string  `json:"name"`
	Color string  `json:"color,omitempty"`
	Data  []Point `json:"data"`
}

// Point is a labelled value.
type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// RiskColor returns the display colour of a tier.
func RiskColor(t spdi.RiskTier) string {
	switch t {
	case spdi.RiskHigh:
		return ColorRiskHigh
	case spdi.RiskMedium:
		return ColorRiskMedium
	default:
		return ColorRiskLow
	}
}

// Contribution builds the per-player bar chart with one series per player kind.
func Contribution(parts []spdi.Contribution) Config {
	batters := Series{Name: string(spdi.KindBatter), Color: ColorBatter}
	bowlers := Series{Name: string(spdi.KindBowler), Color: ColorBowler}
	for _, p := range parts {
		pt := Point{Label: p.Player, Value: roundTo(p.Fraction, 4)}
		if p.Kind == spdi.KindBowler {
			bowlers.Data = append(bowlers.Data, pt)
			continue
		}
		batters.Data = append(batters.Data, pt)
	}
	return Config{
		ChartType:  TypeBar,
		Title:      "Star Player Contributions",
		XAxis:      "Player",
		YAxis:      "Contribution Fraction",
		Series:     []Series{batters, bowlers},
		ShowLegend: true,
	}
}

// Trend builds the SPDI line chart on a fixed [0,1] axis.
func Trend(points []history.Point) Config {
	s := Series{Name: "SPDI", Color: ColorTrend, Data: make([]Point, 0, len(points))}
	for _, p := range points {
		s.Data = append(s.Data, Point{Label: p.Label, Value: roundTo(p.Value, 4)})
	}
	lo, hi := 0.0, 1.0
	return Config{
		ChartType: TypeLine,
		Title:     "Team SPDI Trend",
		XAxis:     "Matches",
		YAxis:     "SPDI Value",
		Series:    []Series{s},
		YMin:      &lo,
		YMax:      &hi,
	}
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
