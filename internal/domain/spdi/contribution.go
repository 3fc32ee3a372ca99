package spdi

// PlayerKind distinguishes batting from bowling contributions.
type PlayerKind string

const (
	KindBatter PlayerKind = "Batsman"
	KindBowler PlayerKind = "Bowler"
)

// Contribution is one star player's share of the team total.
type Contribution struct {
	Player   string     `json:"player"`
	Kind     PlayerKind `json:"kind"`
	Fraction float64    `json:"fraction"`
}

// Contributions splits the indices per player: each batter's share of team
// runs and each bowler's share of team wickets. It applies the same
// non-positive total guard as Compute.
func Contributions(in MatchInput) ([]Contribution, error) {
	rb1, err := ratio(in.StarBatterRuns1, 0, in.TeamTotalRuns, "team_total_runs")
	if err != nil {
		return nil, err
	}
	rb2, _ := ratio(in.StarBatterRuns2, 0, in.TeamTotalRuns, "team_total_runs")
	wb1, err := ratio(in.StarBowlerWickets1, 0, in.TeamTotalWickets, "team_total_wickets")
	if err != nil {
		return nil, err
	}
	wb2, _ := ratio(in.StarBowlerWickets2, 0, in.TeamTotalWickets, "team_total_wickets")
	return []Contribution{
		{Player: "Star Batter 1", Kind: KindBatter, Fraction: rb1},
		{Player: "Star Batter 2", Kind: KindBatter, Fraction: rb2},
		{Player: "Star Bowler 1", Kind: KindBowler, Fraction: wb1},
		{Player: "Star Bowler 2", Kind: KindBowler, Fraction: wb2},
	}, nil
}
