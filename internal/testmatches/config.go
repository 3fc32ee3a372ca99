package testmatches

import (
	"time"

	"github.com/okian/spdi/internal/domain/spdi"
)

// HTTP status code constants.
const (
	StatusOK            = 200
	StatusUnprocessable = 422
)

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
	PercentageMultiplier    = 100
)

// Config holds configuration for the match test.
type Config struct {
	BaseURL    string        // Base URL of the service
	NumMatches int           // Number of matches to generate
	BatchSize  int           // Matches sent through /v1/spdi/batch; 0 skips the batch check
	Workers    int           // Number of concurrent workers
	Timeout    time.Duration // HTTP request timeout
	Seed       uint64        // Generator seed; equal seeds produce equal matches
	OutputFile string        // Output file for generated matches; empty skips saving
	Verbose    bool          // Enable verbose logging
}

// Outcome is what the service answered for one match.
type Outcome struct {
	Index      int
	StatusCode int
	Result     *spdi.Result
	Errors     []spdi.ValidationError
	Err        error
}

// evaluateResponse is the subset of the evaluate and 422 bodies the tool reads.
type evaluateResponse struct {
	Input  spdi.MatchInput        `json:"input"`
	Result *spdi.Result           `json:"result"`
	Errors []spdi.ValidationError `json:"errors"`
}

type batchRequest struct {
	Inputs []spdi.MatchInput `json:"inputs"`
}

type batchResponse struct {
	Evaluations []evaluateResponse `json:"evaluations"`
}

// Stats holds test statistics.
type Stats struct {
	MatchesGenerated int
	MatchesSubmitted int
	MatchesEvaluated int
	MatchesRejected  int
	MatchesFailed    int
	Mismatches       int
	BatchChecked     int
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
}
