// Package model contains domain models passed between layers.
package model

import (
	"time"

	"github.com/okian/spdi/internal/domain/history"
	"github.com/okian/spdi/internal/domain/spdi"
)

// Evaluation is the outcome of evaluating one MatchInput.
// Result is nil whenever Errors is non-empty.
type Evaluation struct {
	ID            string                 `json:"id"`
	Input         spdi.MatchInput        `json:"input"`
	Errors        []spdi.ValidationError `json:"errors,omitempty"`
	Result        *spdi.Result           `json:"result,omitempty"`
	Contributions []spdi.Contribution    `json:"contributions,omitempty"`
	Trend         []history.Point        `json:"trend,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
}

// Valid reports whether the input passed validation.
func (e Evaluation) Valid() bool { return len(e.Errors) == 0 }

// Messages returns the user-facing validation messages in rule order.
func (e Evaluation) Messages() []string {
	out := make([]string, 0, len(e.Errors))
	for _, v := range e.Errors {
		out = append(out, v.Message)
	}
	return out
}
