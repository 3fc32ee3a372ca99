// Package spdi computes the Star Player Dependency Index for a single match.
//
// The engine is a pair of pure functions: Validate reports every violated
// input rule, and Compute turns a valid MatchInput into a Result. Neither
// function holds state, so both are safe to call from any number of
// goroutines.
package spdi

import "fmt"

// Limits taken from the game rules of a single innings.
const (
	// MaxWicketsPerBowler caps the wickets a single bowler can take.
	MaxWicketsPerBowler = 10
)

// MatchInput carries the raw counts entered for one match.
type MatchInput struct {
	StarBatterRuns1    int `json:"star_batter_runs_1"`
	StarBatterRuns2    int `json:"star_batter_runs_2"`
	TeamTotalRuns      int `json:"team_total_runs"`
	StarBowlerWickets1 int `json:"star_bowler_wickets_1"`
	StarBowlerWickets2 int `json:"star_bowler_wickets_2"`
	TeamTotalWickets   int `json:"team_total_wickets"`
}

// StarRunsExceedTotal reports whether both star batters together scored more
// than the team. The sum is never formed in int, so it cannot wrap.
func (in MatchInput) StarRunsExceedTotal() bool {
	return sumExceeds(in.StarBatterRuns1, in.StarBatterRuns2, in.TeamTotalRuns)
}

// StarWicketsExceedTotal reports whether both star bowlers together took
// more wickets than the team.
func (in MatchInput) StarWicketsExceedTotal() bool {
	return sumExceeds(in.StarBowlerWickets1, in.StarBowlerWickets2, in.TeamTotalWickets)
}

// sumExceeds reports a+b > total for any ints, overflow included.
func sumExceeds(a, b, total int) bool {
	sum := a + b
	switch {
	case a > 0 && b > 0 && sum < 0:
		return true
	case a < 0 && b < 0 && sum >= 0:
		return false
	}
	return sum > total
}

// Result is the computed index for a valid MatchInput.
type Result struct {
	BattingIndex    float64  `json:"batting_index"`
	BowlingIndex    float64  `json:"bowling_index"`
	CompositeIndex  float64  `json:"composite_index"`
	RiskTier        RiskTier `json:"risk_tier"`
	RiskDescription string   `json:"risk_description"`
}

// Rule identifies one input validation rule.
type Rule string

// Validation rules, in the order Validate reports them.
const (
	RuleBattingSum      Rule = "batting_sum_exceeds_total"
	RuleBowlingSum      Rule = "bowling_sum_exceeds_total"
	RuleBowlerWicketCap Rule = "bowler_wicket_limit"
)

// ValidationError is a user-correctable input violation. Message is shown to
// the end user verbatim.
type ValidationError struct {
	Rule    Rule   `json:"rule"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string { return e.Message }

var ruleMessages = map[Rule]string{
	RuleBattingSum:      "Total runs by star batsmen cannot exceed team total!",
	RuleBowlingSum:      "Total wickets by star bowlers cannot exceed team total!",
	RuleBowlerWicketCap: "A bowler cannot take more than 10 wickets.",
}

func violation(r Rule) ValidationError {
	return ValidationError{Rule: r, Message: ruleMessages[r]}
}

// Validate checks in against every rule and returns all violations in rule
// order. An empty slice means in may be passed to Compute.
func Validate(in MatchInput) []ValidationError {
	var errs []ValidationError
	if in.StarRunsExceedTotal() {
		errs = append(errs, violation(RuleBattingSum))
	}
	if in.StarWicketsExceedTotal() {
		errs = append(errs, violation(RuleBowlingSum))
	}
	if in.StarBowlerWickets1 > MaxWicketsPerBowler || in.StarBowlerWickets2 > MaxWicketsPerBowler {
		errs = append(errs, violation(RuleBowlerWicketCap))
	}
	return errs
}

// Compute derives the batting, bowling and composite indices and classifies
// the composite. It assumes in already passed Validate and does not check it
// again; a non-positive team total still fails with ErrDivisionByZero.
func Compute(in MatchInput) (Result, error) {
	batting, err := ratio(in.StarBatterRuns1, in.StarBatterRuns2, in.TeamTotalRuns, "team_total_runs")
	if err != nil {
		return Result{}, err
	}
	bowling, err := ratio(in.StarBowlerWickets1, in.StarBowlerWickets2, in.TeamTotalWickets, "team_total_wickets")
	if err != nil {
		return Result{}, err
	}
	composite := (batting + bowling) / 2
	tier, desc := Classify(composite)
	return Result{
		BattingIndex:    batting,
		BowlingIndex:    bowling,
		CompositeIndex:  composite,
		RiskTier:        tier,
		RiskDescription: desc,
	}, nil
}

// ratio sums the two parts in float64 so large counts cannot wrap.
func ratio(a, b, total int, field string) (float64, error) {
	if total <= 0 {
		return 0, fmt.Errorf("%s=%d: %w", field, total, ErrDivisionByZero)
	}
	return (float64(a) + float64(b)) / float64(total), nil
}
