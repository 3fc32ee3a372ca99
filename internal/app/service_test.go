package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	service "github.com/okian/spdi/internal/app"
	"github.com/okian/spdi/internal/domain/history"
	"github.com/okian/spdi/internal/domain/spdi"
	"github.com/okian/spdi/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func scenarioOne() spdi.MatchInput {
	return spdi.MatchInput{
		StarBatterRuns1: 55, StarBatterRuns2: 48, TeamTotalRuns: 180,
		StarBowlerWickets1: 3, StarBowlerWickets2: 2, TeamTotalWickets: 9,
	}
}

// blockingSource holds evaluations until release is closed.
type blockingSource struct{ release chan struct{} }

func (b blockingSource) Recent(ctx context.Context) ([]history.Point, error) {
	select {
	case <-b.release:
		return nil, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type failingSource struct{}

func (failingSource) Recent(context.Context) ([]history.Point, error) {
	return nil, errors.New("history unavailable")
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should have sensible defaults", func() {
			So(svc, ShouldNotBeNil)
			stats := svc.GetStats()
			So(stats["started"], ShouldEqual, false)
			So(stats["queueSize"], ShouldEqual, 1024)
			So(stats["maxBatchSize"], ShouldEqual, 500)
		})
	})

	Convey("Given a new service with custom options", t, func() {
		svc := service.New(
			service.WithWorkerCount(8),
			service.WithQueueSize(50_000),
			service.WithMaxBatchSize(10),
		)

		Convey("Then the options should be applied", func() {
			stats := svc.GetStats()
			So(stats["workerCount"], ShouldEqual, 8)
			So(stats["queueSize"], ShouldEqual, 50_000)
			So(stats["maxBatchSize"], ShouldEqual, 10)
		})
	})

	Convey("Given non-positive option values", t, func() {
		svc := service.New(service.WithQueueSize(0), service.WithMaxBatchSize(-1))

		Convey("Then the defaults should be kept", func() {
			stats := svc.GetStats()
			So(stats["queueSize"], ShouldEqual, 1024)
			So(stats["maxBatchSize"], ShouldEqual, 500)
		})
	})
}

func TestService_Start(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New(service.WithWorkerCount(2))
		// Ensure service is stopped after test
		defer svc.Stop()

		Convey("When starting the service", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			err := svc.Start(ctx)

			Convey("Then it should start successfully", func() {
				So(err, ShouldBeNil)
			})

			Convey("And it should be marked as started", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
				So(stats["queueLength"], ShouldEqual, 0)
			})

			Convey("And starting twice should be a no-op", func() {
				So(svc.Start(ctx), ShouldBeNil)
			})
		})
	})
}

func TestService_Stop(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := service.New(service.WithWorkerCount(2))
		So(svc.Start(context.Background()), ShouldBeNil)

		Convey("When stopping the service", func() {
			svc.Stop()

			Convey("Then it should be marked as stopped", func() {
				So(svc.GetStats()["started"], ShouldEqual, false)
			})

			Convey("And stopping again should not panic", func() {
				So(svc.Stop, ShouldNotPanic)
			})
		})
	})
}

func TestService_Validate(t *testing.T) {
	Convey("Given a service", t, func() {
		svc := service.New()
		ctx := context.Background()

		Convey("A valid input has no errors", func() {
			So(svc.Validate(ctx, scenarioOne()), ShouldBeEmpty)
		})

		Convey("Every violated rule is reported in order", func() {
			in := spdi.MatchInput{
				StarBatterRuns1: 100, StarBatterRuns2: 100, TeamTotalRuns: 150,
				StarBowlerWickets1: 11, StarBowlerWickets2: 2, TeamTotalWickets: 10,
			}
			errs := svc.Validate(ctx, in)
			So(errs, ShouldHaveLength, 3)
			So(errs[0].Rule, ShouldEqual, spdi.RuleBattingSum)
			So(errs[1].Rule, ShouldEqual, spdi.RuleBowlingSum)
			So(errs[2].Rule, ShouldEqual, spdi.RuleBowlerWicketCap)
		})
	})
}

func TestService_Evaluate(t *testing.T) {
	Convey("Given a service with a fixed clock", t, func() {
		fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		svc := service.New(service.WithClock(func() time.Time { return fixed }))
		ctx := context.Background()

		Convey("When evaluating a valid input", func() {
			ev, err := svc.Evaluate(ctx, scenarioOne())

			Convey("Then the result, contributions and trend are attached", func() {
				So(err, ShouldBeNil)
				So(ev.Valid(), ShouldBeTrue)
				So(ev.ID, ShouldNotBeBlank)
				So(ev.CreatedAt.Equal(fixed), ShouldBeTrue)
				So(ev.Result, ShouldNotBeNil)
				So(ev.Result.RiskTier, ShouldEqual, spdi.RiskHigh)
				So(ev.Result.CompositeIndex, ShouldAlmostEqual, 0.5639, 0.0001)
				So(ev.Contributions, ShouldHaveLength, 4)
				So(ev.Trend, ShouldHaveLength, 5)
				So(ev.Trend[4].Label, ShouldEqual, history.LiveLabel)
				So(ev.Trend[4].Value, ShouldEqual, ev.Result.CompositeIndex)
			})

			Convey("And the counters reflect it", func() {
				So(svc.GetStats()["evaluated"], ShouldEqual, int64(1))
			})
		})

		Convey("When evaluating an input that breaks the batting rule", func() {
			in := scenarioOne()
			in.StarBatterRuns1, in.StarBatterRuns2, in.TeamTotalRuns = 100, 100, 150
			ev, err := svc.Evaluate(ctx, in)

			Convey("Then the errors are returned without a result", func() {
				So(err, ShouldBeNil)
				So(ev.Valid(), ShouldBeFalse)
				So(ev.Result, ShouldBeNil)
				So(ev.Messages(), ShouldResemble, []string{"Total runs by star batsmen cannot exceed team total!"})
				So(svc.GetStats()["rejected"], ShouldEqual, int64(1))
			})
		})

		Convey("When the team totals are zero", func() {
			ev, err := svc.Evaluate(ctx, spdi.MatchInput{})

			Convey("Then a compute error is returned", func() {
				So(errors.Is(err, service.ErrCompute), ShouldBeTrue)
				So(errors.Is(err, spdi.ErrDivisionByZero), ShouldBeTrue)
				So(ev.ID, ShouldBeBlank)
				So(svc.GetStats()["failed"], ShouldEqual, int64(1))
			})
		})

		Convey("Each evaluation gets its own id", func() {
			a, _ := svc.Evaluate(ctx, scenarioOne())
			b, _ := svc.Evaluate(ctx, scenarioOne())
			So(a.ID, ShouldNotEqual, b.ID)
		})
	})

	Convey("Given a service whose history source fails", t, func() {
		svc := service.New(service.WithHistorySource(failingSource{}))

		Convey("Then evaluation reports the failure", func() {
			_, err := svc.Evaluate(context.Background(), scenarioOne())
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "history unavailable")
		})
	})
}

func TestService_History(t *testing.T) {
	Convey("Given a service with a configured history", t, func() {
		src, err := history.NewStaticSource([]history.Point{{Label: "A", Value: 0.1}})
		So(err, ShouldBeNil)
		svc := service.New(service.WithHistorySource(src))

		Convey("Then History returns the configured points", func() {
			points, err := svc.History(context.Background())
			So(err, ShouldBeNil)
			So(points, ShouldResemble, []history.Point{{Label: "A", Value: 0.1}})
		})
	})

	Convey("Given a service with default history", t, func() {
		svc := service.New()

		Convey("Then the sample series is served", func() {
			points, err := svc.History(context.Background())
			So(err, ShouldBeNil)
			So(points, ShouldResemble, history.DefaultPoints())
		})
	})
}

func TestService_GetStats(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New()

		Convey("When getting stats before starting", func() {
			stats := svc.GetStats()

			Convey("Then it should return basic stats", func() {
				So(stats, ShouldContainKey, "started")
				So(stats, ShouldContainKey, "workerCount")
				So(stats, ShouldContainKey, "evaluated")
				So(stats, ShouldNotContainKey, "queueLength")
			})
		})
	})
}
