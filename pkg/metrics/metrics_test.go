package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then the collectors use the spdi namespace", func() {
				So(manager, ShouldNotBeNil)
				manager.computeErrors.Inc()
				n, err := testutil.GatherAndCount(registry, "spdi_engine_compute_errors_total")
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 1)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("cricket"),
				WithSubsystem("dependency"),
				WithLatencyBuckets([]float64{1, 5, 10}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then names and labels follow the options", func() {
				manager.evaluations.WithLabelValues("High").Inc()
				expected := `
# HELP cricket_dependency_evaluations_total Completed evaluations by risk tier
# TYPE cricket_dependency_evaluations_total counter
cricket_dependency_evaluations_total{env="test",tier="High"} 1
`
				So(testutil.GatherAndCompare(registry, strings.NewReader(expected), "cricket_dependency_evaluations_total"), ShouldBeNil)
			})
		})

		Convey("When registering two managers on one registry", func() {
			registry := prometheus.NewRegistry()
			NewManager(WithPrometheusRegistry(registry))

			Convey("Then the duplicate registration panics", func() {
				So(func() { NewManager(WithPrometheusRegistry(registry)) }, ShouldPanic)
			})
		})
	})
}

func TestGlobalRecording(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording evaluations", func() {
			before := testutil.ToFloat64(globalManager.evaluations.WithLabelValues("Low"))
			RecordEvaluation("Low", 0.15, 0.2)
			RecordEvaluation("Low", 0.25, 0.1)

			Convey("Then the tier counter advances", func() {
				So(testutil.ToFloat64(globalManager.evaluations.WithLabelValues("Low"))-before, ShouldEqual, 2.0)
			})
		})

		Convey("When recording validation failures", func() {
			before := testutil.ToFloat64(globalManager.validationFailures.WithLabelValues("bowler_wicket_limit"))
			RecordValidationFailure("bowler_wicket_limit")

			Convey("Then the rule counter advances", func() {
				So(testutil.ToFloat64(globalManager.validationFailures.WithLabelValues("bowler_wicket_limit"))-before, ShouldEqual, 1.0)
			})
		})

		Convey("When workers start and finish", func() {
			WorkerStarted()
			WorkerStarted()
			WorkerFinished(1.5)

			Convey("Then one worker stays busy", func() {
				So(testutil.ToFloat64(globalManager.workerBusy), ShouldEqual, 1.0)
				WorkerFinished(0.5)
				So(testutil.ToFloat64(globalManager.workerBusy), ShouldEqual, 0.0)
			})
		})

		Convey("When updating gauges and recording errors", func() {
			So(func() {
				RecordComputeError()
				RecordBatchSize(12)
				UpdateQueueSize(3)
				UpdateQueueCapacity(64)
				RecordQueueRejected("queue_full")
				UpdateWorkerCount(4)
				RecordHTTPRequest("evaluate", "POST", "200")
				RecordHTTPRequestDuration("evaluate", "POST", "200", 1.2)
				RecordErrorByEndpoint("evaluate", "POST", "client_error")
				RecordErrorByType("client_error", "medium")
				RecordErrorByComponent("http", "decode")
				UpdateSystemMemoryUsage(1 << 20)
				UpdateSystemGoroutineCount(12)
				RecordSystemGCPauseTime(0.3)
			}, ShouldNotPanic)

			Convey("Then the gauges hold the latest value", func() {
				So(testutil.ToFloat64(globalManager.queueSize), ShouldEqual, 3.0)
				So(testutil.ToFloat64(globalManager.workerCount), ShouldEqual, 4.0)
			})
		})

		Convey("When gathering the custom registry", func() {
			families, err := GetRegistry().Gather()

			Convey("Then only service metrics are exposed", func() {
				So(err, ShouldBeNil)
				So(families, ShouldNotBeEmpty)
				for _, f := range families {
					So(f.GetName(), ShouldStartWith, "spdi_")
				}
			})
		})
	})
}
