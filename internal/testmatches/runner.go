package testmatches

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/spdi/internal/domain/spdi"
	"github.com/okian/spdi/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
	filePermission      = 0600
)

// Run executes the complete match test and returns the collected stats.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get().Named("testmatches")

	log.Info(ctx, "starting spdi match test",
		logger.String("baseURL", config.BaseURL),
		logger.Int("matches", config.NumMatches),
		logger.Int("batchSize", config.BatchSize),
		logger.Int("workers", config.Workers),
		logger.Duration("timeout", config.Timeout),
		logger.Any("seed", config.Seed),
		logger.Bool("verbose", config.Verbose))

	if config.Workers < 1 {
		config.Workers = 1
	}

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate matches
	matches, err := generateMatches(ctx, config, stats)
	if err != nil {
		return stats, fmt.Errorf("match generation failed: %w", err)
	}

	// Step 3: Submit matches concurrently and verify each answer
	outcomes := submitMatches(ctx, config, matches, stats)
	if err := verifyResults(ctx, config, matches, outcomes, stats); err != nil {
		return stats, fmt.Errorf("result verification failed: %w", err)
	}

	// Step 4: Batch endpoint keeps order and agrees with the engine
	if n := min(config.BatchSize, len(matches)); n > 0 {
		evs, err := submitBatch(ctx, config, matches[:n])
		if err != nil {
			return stats, fmt.Errorf("batch submission failed: %w", err)
		}
		if err := verifyBatch(matches[:n], evs, stats); err != nil {
			return stats, fmt.Errorf("batch verification failed: %w", err)
		}
	}

	// Step 5: Save matches to file
	if config.OutputFile != "" {
		if err := saveMatchesToFile(ctx, config.OutputFile, matches); err != nil {
			log.Warn(ctx, "failed to save matches to file", logger.Error(err))
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(stats)

	log.Info(ctx, "test completed successfully")
	return stats, nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	client := newHTTPClient(config.Timeout)
	resp, err := client.Get(ctx, config.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}
	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// saveMatchesToFile writes the generated matches as a JSON array.
func saveMatchesToFile(ctx context.Context, filename string, matches []spdi.MatchInput) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(matches, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal matches: %w", err)
	}
	if err := os.WriteFile(filename, append(data, '\n'), filePermission); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	logger.Get().Info(ctx, "matches saved to file", logger.String("filename", filename))
	return nil
}

func displayFinalStats(stats *Stats) {
	var evaluatedRate, matchesPerSecond float64
	if stats.MatchesSubmitted > 0 {
		evaluatedRate = float64(stats.MatchesEvaluated) / float64(stats.MatchesSubmitted) * PercentageMultiplier
	}
	if stats.Duration > 0 {
		matchesPerSecond = float64(stats.MatchesSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("matchesGenerated", stats.MatchesGenerated),
		logger.Int("matchesSubmitted", stats.MatchesSubmitted),
		logger.Int("matchesEvaluated", stats.MatchesEvaluated),
		logger.Int("matchesRejected", stats.MatchesRejected),
		logger.Int("matchesFailed", stats.MatchesFailed),
		logger.Int("batchChecked", stats.BatchChecked),
		logger.Duration("duration", stats.Duration),
		logger.Float64("evaluatedRate", evaluatedRate),
		logger.Float64("matchesPerSecond", matchesPerSecond))
}
