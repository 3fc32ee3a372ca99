package testmatches

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/okian/spdi/internal/domain/spdi"
	"github.com/okian/spdi/pkg/logger"
)

// Shapes of generated matches.
const (
	caseBalanced        = 0
	caseStarHeavy       = 1
	caseBattingOverflow = 2
	caseBowlerOverCap   = 3
	caseBowlingOverflow = 4
	caseShapes          = 7 // the rest are random valid splits
)

// Ranges for generated totals.
const (
	minTeamRuns   = 80
	teamRunsRange = 300
	minTeamWkts   = 3
	teamWktsRange = 8
)

// generateMatches creates NumMatches inputs. A fixed seed reproduces the set.
func generateMatches(ctx context.Context, config *Config, stats *Stats) ([]spdi.MatchInput, error) {
	logger.Get().Info(ctx, "generating matches", logger.Int("numMatches", config.NumMatches))

	rng := rand.New(rand.NewPCG(config.Seed, config.Seed^0x9e3779b97f4a7c15))
	matches := make([]spdi.MatchInput, config.NumMatches)
	for i := range matches {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("context cancelled during match generation: %w", err)
		}
		matches[i] = generateSingleMatch(rng)
	}

	stats.MatchesGenerated = len(matches)
	logger.Get().Info(ctx, "generated matches successfully", logger.Int("count", len(matches)))
	return matches, nil
}

// generateSingleMatch mixes valid matches with each kind of rule violation.
func generateSingleMatch(rng *rand.Rand) spdi.MatchInput {
	runs := minTeamRuns + rng.IntN(teamRunsRange)
	wkts := minTeamWkts + rng.IntN(teamWktsRange)
	in := spdi.MatchInput{TeamTotalRuns: runs, TeamTotalWickets: wkts}

	split := func(total int) (int, int) {
		a := rng.IntN(total + 1)
		return a, rng.IntN(total - a + 1)
	}

	switch rng.IntN(caseShapes) {
	case caseBalanced:
		in.StarBatterRuns1, in.StarBatterRuns2 = split(runs / 4)
		in.StarBowlerWickets1, in.StarBowlerWickets2 = split(wkts / 4)
	case caseStarHeavy:
		in.StarBatterRuns1, in.StarBatterRuns2 = split(runs)
		in.StarBatterRuns1 = max(in.StarBatterRuns1, runs/2)
		in.StarBatterRuns2 = min(in.StarBatterRuns2, runs-in.StarBatterRuns1)
		in.StarBowlerWickets1, in.StarBowlerWickets2 = split(wkts)
	case caseBattingOverflow:
		in.StarBatterRuns1 = runs/2 + 1 + rng.IntN(runs)
		in.StarBatterRuns2 = runs - runs/2
		in.StarBowlerWickets1, in.StarBowlerWickets2 = split(wkts)
	case caseBowlerOverCap:
		in.StarBatterRuns1, in.StarBatterRuns2 = split(runs)
		in.StarBowlerWickets1 = spdi.MaxWicketsPerBowler + 1 + rng.IntN(3)
		in.TeamTotalWickets = in.StarBowlerWickets1 + rng.IntN(5)
	case caseBowlingOverflow:
		in.StarBatterRuns1, in.StarBatterRuns2 = split(runs)
		in.StarBowlerWickets1 = wkts
		in.StarBowlerWickets2 = 1 + rng.IntN(2)
	default:
		in.StarBatterRuns1, in.StarBatterRuns2 = split(runs)
		in.StarBowlerWickets1, in.StarBowlerWickets2 = split(wkts)
	}
	return in
}
