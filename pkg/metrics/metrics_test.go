package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewMetricsManager(WithPrometheusRegistry(registry))

			Convey("Then it uses the talentmatch namespace", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "talentmatch")
				So(manager.enabled, ShouldBeTrue)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewMetricsManager(
				WithNamespace("test_namespace"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(true),
				WithRefreshInterval(10*time.Second),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the options are applied", func() {
				So(manager.namespace, ShouldEqual, "test_namespace")
				So(manager.histogramBuckets, ShouldResemble, []float64{0.1, 0.5, 1.0})
				So(manager.refreshInterval, ShouldEqual, 10*time.Second)
				So(manager.customLabels, ShouldResemble, map[string]string{"env": "test"})
			})
		})

		Convey("When empty values are passed", func() {
			manager := NewMetricsManager(
				WithNamespace(""),
				WithHistogramBuckets(nil),
				WithRefreshInterval(0),
				WithCustomLabels(map[string]string{}),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)

			Convey("Then the defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "talentmatch")
				So(manager.histogramBuckets, ShouldResemble, DefaultLatencyBuckets)
				So(manager.refreshInterval, ShouldEqual, defaultRefreshInterval)
				So(manager.customLabels, ShouldBeEmpty)
			})
		})
	})
}

// bucketCount returns the cumulative count of the bucket with the given upper
// bound in the first series of the named histogram family.
func bucketCount(registry *prometheus.Registry, name string, upper float64) uint64 {
	families, err := registry.Gather()
	So(err, ShouldBeNil)
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, b := range f.GetMetric()[0].GetHistogram().GetBucket() {
			if b.GetUpperBound() == upper {
				return b.GetCumulativeCount()
			}
		}
	}
	return 0
}

func TestLatencyBuckets(t *testing.T) {
	Convey("Given a manager with default buckets", t, func() {
		registry := prometheus.NewRegistry()
		manager := NewMetricsManager(WithPrometheusRegistry(registry))

		Convey("When millisecond latencies are recorded", func() {
			manager.RecordHTTPRequest("/analyses", "POST", "201", 4)
			manager.RecordHTTPError("/analyses", "POST", "validation", "low", 40)
			manager.UpdateSystem(1, 1, 0.8)

			Convey("Then they land in finite millisecond buckets", func() {
				So(bucketCount(registry, "talentmatch_http_request_duration_milliseconds", 5), ShouldEqual, 1)
				So(bucketCount(registry, "talentmatch_errors_latency_milliseconds", 50), ShouldEqual, 1)
				So(bucketCount(registry, "talentmatch_system_gc_pause_milliseconds", 1), ShouldEqual, 1)
			})
		})
	})
}

func TestConfigure(t *testing.T) {
	Convey("Given the global manager is reconfigured", t, func() {
		Configure(
			WithNamespace("tm_configured"),
			WithCustomLabels(map[string]string{"env": "test"}),
			WithRefreshInterval(3*time.Second),
		)
		Reset(func() { Configure() })

		Convey("When a run is recorded through the package helpers", func() {
			RecordAnalysisRun(StatusSuccess, 2)

			Convey("Then the new registry exposes it under the configured namespace and labels", func() {
				families, err := GetRegistry().Gather()
				So(err, ShouldBeNil)
				var found bool
				for _, f := range families {
					if f.GetName() != "tm_configured_analysis_runs_total" {
						continue
					}
					found = true
					labels := map[string]string{}
					for _, lp := range f.GetMetric()[0].GetLabel() {
						labels[lp.GetName()] = lp.GetValue()
					}
					So(labels["env"], ShouldEqual, "test")
					So(labels["status"], ShouldEqual, StatusSuccess)
				}
				So(found, ShouldBeTrue)
				So(RefreshInterval(), ShouldEqual, 3*time.Second)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given a manager on its own registry", t, func() {
		manager := NewMetricsManager(WithPrometheusRegistry(prometheus.NewRegistry()))

		Convey("When recording analysis runs", func() {
			manager.RecordAnalysisRun(StatusSuccess, 12)
			manager.RecordAnalysisRun(StatusSuccess, 30)
			manager.RecordAnalysisRun(StatusFailure, 5)

			Convey("Then runs are counted by status", func() {
				So(testutil.ToFloat64(manager.analysisRuns.WithLabelValues(StatusSuccess)), ShouldEqual, 2)
				So(testutil.ToFloat64(manager.analysisRuns.WithLabelValues(StatusFailure)), ShouldEqual, 1)
			})
		})

		Convey("When recording fetches", func() {
			manager.RecordFetch("employees", 40, 3)
			manager.RecordFetch("employees", 2, 1)
			manager.RecordFetchError("strengths")

			Convey("Then rows and errors are counted per dataset", func() {
				So(testutil.ToFloat64(manager.fetchRows.WithLabelValues("employees")), ShouldEqual, 42)
				So(testutil.ToFloat64(manager.fetchErrors.WithLabelValues("strengths")), ShouldEqual, 1)
			})
		})

		Convey("When updating gauges", func() {
			manager.UpdateLeaderboardSize(7)
			manager.UpdateBaselineIQ(110.5)
			manager.UpdateStoredResults(3)
			manager.RecordNullMatch("Cognitive & Personality Profile")

			Convey("Then the latest values are exposed", func() {
				So(testutil.ToFloat64(manager.leaderboardSize), ShouldEqual, 7)
				So(testutil.ToFloat64(manager.baselineIQ), ShouldEqual, 110.5)
				So(testutil.ToFloat64(manager.storedResults), ShouldEqual, 3)
				So(testutil.ToFloat64(manager.nullMatches.WithLabelValues("Cognitive & Personality Profile")), ShouldEqual, 1)
			})
		})

		Convey("When recording HTTP traffic", func() {
			manager.RecordHTTPRequest("/analyses", "POST", "201", 4)
			manager.RecordRateLimited("/analyses")
			manager.RecordHTTPError("/analyses", "POST", "validation", "low", 1)

			Convey("Then request, limiter and error counters move", func() {
				So(testutil.ToFloat64(manager.httpRequests.WithLabelValues("/analyses", "POST", "201")), ShouldEqual, 1)
				So(testutil.ToFloat64(manager.httpRateLimited.WithLabelValues("/analyses")), ShouldEqual, 1)
				So(testutil.ToFloat64(manager.errorRateByType.WithLabelValues("validation", "low")), ShouldEqual, 1)
			})
		})
	})

	Convey("Given a disabled manager", t, func() {
		manager := NewMetricsManager(
			WithMetricsEnabled(false),
			WithPrometheusRegistry(prometheus.NewRegistry()),
		)

		Convey("When recording", func() {
			manager.RecordAnalysisRun(StatusSuccess, 1)
			manager.UpdateSystem(1024, 5, 0.5)

			Convey("Then nothing is recorded", func() {
				So(testutil.ToFloat64(manager.analysisRuns.WithLabelValues(StatusSuccess)), ShouldEqual, 0)
				So(testutil.ToFloat64(manager.systemGoroutineCount), ShouldEqual, 0)
			})
		})
	})
}

func TestGlobalHelpers(t *testing.T) {
	Convey("Given the global registry", t, func() {
		Convey("When calling the package helpers", func() {
			So(func() {
				RecordAnalysisRun(StatusSuccess, 1)
				RecordAnalysisError("data_source")
				RecordNullMatch("Core Competencies")
				UpdateLeaderboardSize(1)
				UpdateBaselineIQ(100)
				UpdateStoredResults(1)
				RecordFetch("employees", 1, 1)
				RecordFetchError("employees")
				RecordHTTPRequest("/stats", "GET", "200", 1)
				RecordRateLimited("/analyses")
				RecordHTTPError("/stats", "GET", "internal", "high", 1)
				UpdateSystem(1, 1, 1)
			}, ShouldNotPanic)

			Convey("Then the metrics are gathered from the custom registry", func() {
				families, err := GetRegistry().Gather()
				So(err, ShouldBeNil)
				names := map[string]bool{}
				for _, f := range families {
					names[f.GetName()] = true
				}
				So(names["talentmatch_analysis_runs_total"], ShouldBeTrue)
				So(names["talentmatch_source_rows_total"], ShouldBeTrue)
				So(names["talentmatch_http_requests_total"], ShouldBeTrue)
			})
		})
	})
}

func TestCollectSystem(t *testing.T) {
	Convey("Given the running process", t, func() {
		Convey("When collecting system stats", func() {
			snap := CollectSystem()

			Convey("Then heap and goroutine readings are positive", func() {
				So(snap.HeapAllocBytes, ShouldBeGreaterThan, 0)
				So(snap.Goroutines, ShouldBeGreaterThan, 0)
				So(testutil.ToFloat64(globalManager.systemGoroutineCount), ShouldBeGreaterThan, 0)
			})
		})

		Convey("When the collector context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan struct{})
			go func() {
				RunSystemCollector(ctx, time.Millisecond)
				close(done)
			}()
			cancel()

			Convey("Then the collector returns", func() {
				stopped := false
				select {
				case <-done:
					stopped = true
				case <-time.After(time.Second):
				}
				So(stopped, ShouldBeTrue)
			})
		})
	})
}
