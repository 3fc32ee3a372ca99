package testmatches

import (
	"context"
	"fmt"
	"math"
	"slices"

	"github.com/okian/spdi/internal/domain/spdi"
	"github.com/okian/spdi/pkg/logger"
)

// compositeTolerance absorbs JSON float round-trips.
const compositeTolerance = 1e-9

// verifyOutcome checks one service answer against the local engine.
func verifyOutcome(in spdi.MatchInput, o Outcome) error {
	if o.Err != nil {
		return o.Err
	}
	wantErrs := spdi.Validate(in)
	if len(wantErrs) > 0 {
		if o.StatusCode != StatusUnprocessable {
			return fmt.Errorf("want status %d for invalid input, got %d", StatusUnprocessable, o.StatusCode)
		}
		if !slices.Equal(rules(wantErrs), rules(o.Errors)) {
			return fmt.Errorf("want rules %v, got %v", rules(wantErrs), rules(o.Errors))
		}
		return nil
	}
	return verifyResult(in, o.StatusCode, o.Result)
}

func verifyResult(in spdi.MatchInput, status int, got *spdi.Result) error {
	want, err := spdi.Compute(in)
	if err != nil {
		return fmt.Errorf("local compute: %w", err)
	}
	switch {
	case status != StatusOK:
		return fmt.Errorf("want status %d for valid input, got %d", StatusOK, status)
	case got == nil:
		return fmt.Errorf("missing result")
	case math.Abs(got.CompositeIndex-want.CompositeIndex) > compositeTolerance:
		return fmt.Errorf("composite %.12f, want %.12f", got.CompositeIndex, want.CompositeIndex)
	case got.RiskTier != want.RiskTier:
		return fmt.Errorf("tier %s, want %s", got.RiskTier, want.RiskTier)
	}
	return nil
}

func rules(errs []spdi.ValidationError) []spdi.Rule {
	out := make([]spdi.Rule, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Rule)
	}
	return out
}

// verifyResults compares every outcome with the local engine and returns an
// error when any of them disagrees.
func verifyResults(ctx context.Context, config *Config, matches []spdi.MatchInput, outcomes []Outcome, stats *Stats) error {
	log := logger.Get().Named("testmatches")
	log.Info(ctx, "verifying results", logger.Int("outcomes", len(outcomes)))

	if len(outcomes) == 0 {
		return fmt.Errorf("no outcomes to verify")
	}
	for _, o := range outcomes {
		if err := verifyOutcome(matches[o.Index], o); err != nil {
			stats.Mismatches++
			if config.Verbose || stats.Mismatches <= 10 {
				log.Warn(ctx, "mismatch", logger.Int("index", o.Index), logger.Error(err))
			}
		}
	}
	if stats.Mismatches > 0 {
		return fmt.Errorf("%d of %d outcomes disagree with the engine", stats.Mismatches, len(outcomes))
	}
	log.Info(ctx, "result verification completed")
	return nil
}

// verifyBatch checks that a batch answer keeps input order and matches the engine.
func verifyBatch(matches []spdi.MatchInput, evs []evaluateResponse, stats *Stats) error {
	if len(evs) != len(matches) {
		return fmt.Errorf("batch returned %d evaluations for %d inputs", len(evs), len(matches))
	}
	for i, ev := range evs {
		if ev.Input != matches[i] {
			return fmt.Errorf("batch evaluation %d is out of order", i)
		}
		wantErrs := spdi.Validate(matches[i])
		if len(wantErrs) > 0 {
			if !slices.Equal(rules(wantErrs), rules(ev.Errors)) {
				return fmt.Errorf("batch evaluation %d: want rules %v, got %v", i, rules(wantErrs), rules(ev.Errors))
			}
			continue
		}
		if err := verifyResult(matches[i], StatusOK, ev.Result); err != nil {
			return fmt.Errorf("batch evaluation %d: %w", i, err)
		}
	}
	stats.BatchChecked = len(evs)
	return nil
}
