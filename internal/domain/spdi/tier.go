package spdi

import (
	"fmt"
	"math"
)

// RiskTier classifies how strongly a team depends on its star players.
type RiskTier int

// Risk tiers in ascending order of dependency.
const (
	RiskLow RiskTier = iota
	RiskMedium
	RiskHigh
)

// String returns the tier name.
func (t RiskTier) String() string {
	switch t {
	case RiskLow:
		return "Low"
	case RiskMedium:
		return "Medium"
	case RiskHigh:
		return "High"
	default:
		return fmt.Sprintf("RiskTier(%d)", int(t))
	}
}

// MarshalText encodes the tier as its name.
func (t RiskTier) MarshalText() ([]byte, error) {
	switch t {
	case RiskLow, RiskMedium, RiskHigh:
		return []byte(t.String()), nil
	default:
		return nil, fmt.Errorf("unknown risk tier %d", int(t))
	}
}

// UnmarshalText decodes a tier name.
func (t *RiskTier) UnmarshalText(b []byte) error {
	switch string(b) {
	case "Low":
		*t = RiskLow
	case "Medium":
		*t = RiskMedium
	case "High":
		*t = RiskHigh
	default:
		return fmt.Errorf("unknown risk tier %q", string(b))
	}
	return nil
}

// tierBand maps an inclusive lower bound to a tier.
type tierBand struct {
	min         float64
	tier        RiskTier
	description string
}

// bands is evaluated top-down; the first band whose min is <= composite wins.
var bands = []tierBand{
	{min: 0.5, tier: RiskHigh, description: "Dangerous over-dependency on star players. Coaches must distribute responsibilities."},
	{min: 0.3, tier: RiskMedium, description: "Moderate dependency. Team has some balance but relies on key players."},
	{min: math.Inf(-1), tier: RiskLow, description: "Balanced team contribution. Low structural risk."},
}

// Classify maps a composite index to its tier and description.
func Classify(composite float64) (RiskTier, string) {
	for _, b := range bands {
		if composite >= b.min {
			return b.tier, b.description
		}
	}
	// NaN compares false against every bound.
	last := bands[len(bands)-1]
	return last.tier, last.description
}

// Description returns the fixed description for a tier.
func (t RiskTier) Description() string {
	for _, b := range bands {
		if b.tier == t {
			return b.description
		}
	}
	return ""
}
