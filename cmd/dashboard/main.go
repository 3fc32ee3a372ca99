// Command dashboard runs the SPDI dashboard in the terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/okian/spdi/internal/adapters/tui"
	app "github.com/okian/spdi/internal/app"
	"github.com/okian/spdi/internal/config"
	"github.com/okian/spdi/internal/domain/history"
	"github.com/okian/spdi/internal/domain/spdi"
	"github.com/okian/spdi/pkg/logger"
)

const reportWidth = 72

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "dashboard:", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	def := tui.DefaultInput()
	fs := flag.NewFlagSet("dashboard", flag.ContinueOnError)
	var (
		once = fs.Bool("once", false, "Print one report and exit")
		rb1  = fs.Int("batter1", def.StarBatterRuns1, "Runs by star batter 1")
		rb2  = fs.Int("batter2", def.StarBatterRuns2, "Runs by star batter 2")
		runs = fs.Int("runs", def.TeamTotalRuns, "Team total runs")
		wb1  = fs.Int("bowler1", def.StarBowlerWickets1, "Wickets by star bowler 1")
		wb2  = fs.Int("bowler2", def.StarBowlerWickets2, "Wickets by star bowler 2")
		wkts = fs.Int("wickets", def.TeamTotalWickets, "Team total wickets")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	// Logs would corrupt the screen.
	if err := logger.Init(logger.WithOutput(io.Discard)); err != nil {
		return err
	}

	ctx := context.Background()
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	src, err := history.NewStaticSource(cfg.History)
	if err != nil {
		return err
	}
	svc := app.New(app.WithHistorySource(src), app.WithLogger(logger.Named("dashboard")))

	in := spdi.MatchInput{
		StarBatterRuns1: *rb1, StarBatterRuns2: *rb2, TeamTotalRuns: *runs,
		StarBowlerWickets1: *wb1, StarBowlerWickets2: *wb2, TeamTotalWickets: *wkts,
	}
	m := tui.NewModel(svc, in)

	if *once {
		ev, evalErr := m.Evaluation()
		_, err := fmt.Fprintln(stdout, tui.RenderReport(ev, evalErr, reportWidth))
		return err
	}

	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
