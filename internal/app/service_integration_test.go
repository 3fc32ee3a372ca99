package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	service "github.com/okian/spdi/internal/app"
	"github.com/okian/spdi/internal/domain/spdi"
	. "github.com/smartystreets/goconvey/convey"
)

func TestServiceIntegration(t *testing.T) {
	Convey("Given a service with full integration", t, func() {
		svc := service.New(
			service.WithWorkerCount(4),
			service.WithQueueSize(1000),
			service.WithMaxBatchSize(200),
		)
		defer svc.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		Convey("When evaluating a batch before starting", func() {
			_, err := svc.EvaluateBatch(ctx, []spdi.MatchInput{scenarioOne()})

			Convey("Then it should report the service is not started", func() {
				So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			})
		})

		Convey("When evaluating a mixed batch end-to-end", func() {
			So(svc.Start(ctx), ShouldBeNil)

			inputs := make([]spdi.MatchInput, 0, 150)
			for i := range 150 {
				in := scenarioOne()
				// Every third input breaks the batting rule.
				if i%3 == 0 {
					in.StarBatterRuns1 = 200
				}
				in.StarBatterRuns2 = i % 40
				inputs = append(inputs, in)
			}
			out, err := svc.EvaluateBatch(ctx, inputs)

			Convey("Then every input is answered in order", func() {
				So(err, ShouldBeNil)
				So(out, ShouldHaveLength, len(inputs))
				for i, ev := range out {
					So(ev.Input, ShouldResemble, inputs[i])
					So(ev.Valid(), ShouldEqual, i%3 != 0)
				}
			})

			Convey("And the counters add up", func() {
				stats := svc.GetStats()
				So(stats["evaluated"], ShouldEqual, int64(100))
				So(stats["rejected"], ShouldEqual, int64(50))
			})
		})

		Convey("When the batch is empty or too large", func() {
			So(svc.Start(ctx), ShouldBeNil)

			_, errEmpty := svc.EvaluateBatch(ctx, nil)
			_, errLarge := svc.EvaluateBatch(ctx, make([]spdi.MatchInput, 201))

			Convey("Then it should be refused as invalid", func() {
				So(errors.Is(errEmpty, service.ErrInvalidBatch), ShouldBeTrue)
				So(errors.Is(errLarge, service.ErrInvalidBatch), ShouldBeTrue)
			})
		})

		Convey("When a batch input fails to compute", func() {
			So(svc.Start(ctx), ShouldBeNil)

			_, err := svc.EvaluateBatch(ctx, []spdi.MatchInput{scenarioOne(), {}})

			Convey("Then the compute error is surfaced", func() {
				So(errors.Is(err, service.ErrCompute), ShouldBeTrue)
			})
		})
	})

	Convey("Given a service with a tiny queue and a stalled worker", t, func() {
		release := make(chan struct{})
		svc := service.New(
			service.WithWorkerCount(1),
			service.WithQueueSize(1),
			service.WithHistorySource(blockingSource{release: release}),
		)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()
		defer close(release)

		Convey("When a batch overflows the queue", func() {
			batch := []spdi.MatchInput{scenarioOne(), scenarioOne(), scenarioOne(), scenarioOne()}
			_, err := svc.EvaluateBatch(ctx, batch)

			Convey("Then backpressure is reported", func() {
				So(errors.Is(err, service.ErrBackpressure), ShouldBeTrue)
			})
		})
	})

	Convey("Given a service started on a context that is later cancelled", t, func() {
		root, cancelRoot := context.WithCancel(context.Background())
		svc := service.New(service.WithWorkerCount(2))
		So(svc.Start(root), ShouldBeNil)
		defer svc.Stop()
		cancelRoot()

		Convey("When a batch arrives afterwards", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			evs, err := svc.EvaluateBatch(ctx, []spdi.MatchInput{scenarioOne()})

			Convey("Then the pool still answers it", func() {
				So(err, ShouldBeNil)
				So(evs, ShouldHaveLength, 1)
				So(evs[0].Result, ShouldNotBeNil)
			})
		})
	})

	Convey("Given a batch waiting on a stalled worker", t, func() {
		release := make(chan struct{})
		svc := service.New(
			service.WithWorkerCount(1),
			service.WithQueueSize(4),
			service.WithHistorySource(blockingSource{release: release}),
		)
		So(svc.Start(context.Background()), ShouldBeNil)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		errCh := make(chan error, 1)
		go func() {
			_, err := svc.EvaluateBatch(ctx, []spdi.MatchInput{scenarioOne(), scenarioOne()})
			errCh <- err
		}()

		// One job is held by the worker and the other waits in the queue.
		deadline := time.Now().Add(2 * time.Second)
		for svc.GetStats()["queueLength"] != 1 && time.Now().Before(deadline) {
			time.Sleep(time.Millisecond)
		}
		So(svc.GetStats()["queueLength"], ShouldEqual, 1)

		Convey("When the service is stopped", func() {
			stopped := make(chan struct{})
			go func() {
				svc.Stop()
				close(stopped)
			}()

			Convey("Then the batch returns without waiting for its context", func() {
				var err error
				select {
				case err = <-errCh:
				case <-time.After(2 * time.Second):
				}
				So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)

				close(release)
				<-stopped
				So(svc.GetStats()["started"], ShouldBeFalse)
			})
		})
	})
}
