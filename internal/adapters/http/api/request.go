package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/okian/spdi/internal/domain/spdi"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

// matchRequest mirrors the OpenAPI MatchInput schema. Pointers tell a
// missing field apart from an explicit zero.
type matchRequest struct {
	StarBatterRuns1    *int `json:"star_batter_runs_1"`
	StarBatterRuns2    *int `json:"star_batter_runs_2"`
	TeamTotalRuns      *int `json:"team_total_runs"`
	StarBowlerWickets1 *int `json:"star_bowler_wickets_1"`
	StarBowlerWickets2 *int `json:"star_bowler_wickets_2"`
	TeamTotalWickets   *int `json:"team_total_wickets"`
}

type fieldRule struct {
	name string
	val  *int
	min  int
}

func (m matchRequest) rules() []fieldRule {
	return []fieldRule{
		{"star_batter_runs_1", m.StarBatterRuns1, 0},
		{"star_batter_runs_2", m.StarBatterRuns2, 0},
		{"team_total_runs", m.TeamTotalRuns, 1},
		{"star_bowler_wickets_1", m.StarBowlerWickets1, 0},
		{"star_bowler_wickets_2", m.StarBowlerWickets2, 0},
		{"team_total_wickets", m.TeamTotalWickets, 1},
	}
}

// validate enforces the form constraints: every field present, counts
// non-negative and totals at least one.
func (m matchRequest) validate() error {
	for _, r := range m.rules() {
		switch {
		case r.val == nil:
			return fmt.Errorf("missing %s", r.name)
		case *r.val < r.min:
			return fmt.Errorf("%s must be at least %d", r.name, r.min)
		}
	}
	return nil
}

func (m matchRequest) input() spdi.MatchInput {
	return spdi.MatchInput{
		StarBatterRuns1:    *m.StarBatterRuns1,
		StarBatterRuns2:    *m.StarBatterRuns2,
		TeamTotalRuns:      *m.TeamTotalRuns,
		StarBowlerWickets1: *m.StarBowlerWickets1,
		StarBowlerWickets2: *m.StarBowlerWickets2,
		TeamTotalWickets:   *m.TeamTotalWickets,
	}
}

type batchRequest struct {
	Inputs []matchRequest `json:"inputs"`
}

func (b batchRequest) validate() ([]spdi.MatchInput, error) {
	out := make([]spdi.MatchInput, 0, len(b.Inputs))
	for i, m := range b.Inputs {
		if err := m.validate(); err != nil {
			return nil, fmt.Errorf("inputs[%d]: %w", i, err)
		}
		out = append(out, m.input())
	}
	return out, nil
}

// decodeJSON reads exactly one JSON value into v and rejects unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty body")
		}
		return err
	}
	if dec.More() {
		return errors.New("body must hold a single JSON value")
	}
	return nil
}
