// Package history supplies prior composite index values for trend display.
//
// The engine never reads history; presentation layers combine a Source with
// the live value through Trend.
package history

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// LiveLabel names the point appended for the match being evaluated.
const LiveLabel = "Live Match"

// Sentinel kinds for history errors.
var (
	ErrInvalidPoint = errors.New("invalid history point")
)

// Point is one composite index value on the trend line.
type Point struct {
	Label string  `json:"label" koanf:"label"`
	Value float64 `json:"value" koanf:"value"`
}

// Source provides prior composite index values, oldest first.
type Source interface {
	Recent(ctx context.Context) ([]Point, error)
}

// DefaultPoints is the sample series shown when nothing else is configured.
func DefaultPoints() []Point {
	return []Point{
		{Label: "Match 1", Value: 0.53},
		{Label: "Match 2", Value: 0.34},
		{Label: "Match 3", Value: 0.22},
		{Label: "Match 4", Value: 0.45},
	}
}

// StaticSource serves a fixed, read-only series.
type StaticSource struct {
	points []Point
}

// NewStaticSource validates points and returns a source over a private copy.
// Every value must lie in [0,1] and every label must be non-empty.
func NewStaticSource(points []Point) (*StaticSource, error) {
	if err := ValidatePoints(points); err != nil {
		return nil, err
	}
	cp := make([]Point, len(points))
	copy(cp, points)
	return &StaticSource{points: cp}, nil
}

// ValidatePoints checks labels and value range.
func ValidatePoints(points []Point) error {
	for i, p := range points {
		if p.Label == "" {
			return fmt.Errorf("point %d: empty label: %w", i, ErrInvalidPoint)
		}
		if math.IsNaN(p.Value) || p.Value < 0 || p.Value > 1 {
			return fmt.Errorf("point %d (%s): value %v outside [0,1]: %w", i, p.Label, p.Value, ErrInvalidPoint)
		}
	}
	return nil
}

// Recent returns a copy of the configured series.
func (s *StaticSource) Recent(ctx context.Context) ([]Point, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("history recent: %w", err)
	}
	out := make([]Point, len(s.points))
	copy(out, s.points)
	return out, nil
}

// Trend returns the prior series from src followed by the live value.
func Trend(ctx context.Context, src Source, live float64) ([]Point, error) {
	prior, err := src.Recent(ctx)
	if err != nil {
		return nil, err
	}
	return append(prior, Point{Label: LiveLabel, Value: live}), nil
}
