package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	. "github.com/smartystreets/goconvey/convey"
)

// read returns the current value of a counter or gauge.
func read(m prometheus.Metric) float64 {
	var out dto.Metric
	if err := m.Write(&out); err != nil {
		return -1
	}
	if out.Counter != nil {
		return out.GetCounter().GetValue()
	}
	return out.GetGauge().GetValue()
}

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should use the dashboard namespace", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "launchdash")
				So(manager.subsystem, ShouldEqual, "dashboard")
				So(manager.Enabled(), ShouldBeTrue)
				So(manager.RefreshInterval(), ShouldEqual, defaultRefreshInterval)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_namespace"),
				WithSubsystem("test_subsystem"),
				WithMetricPrefix("pre"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(false),
				WithRefreshInterval(5*time.Second),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the options should be applied", func() {
				So(manager.namespace, ShouldEqual, "test_namespace")
				So(manager.subsystem, ShouldEqual, "test_subsystem")
				So(manager.histogramBuckets, ShouldResemble, []float64{0.1, 0.5, 1.0})
				So(manager.Enabled(), ShouldBeFalse)
				So(manager.RefreshInterval(), ShouldEqual, 5*time.Second)
			})

			Convey("And metric names should carry the prefix and labels", func() {
				manager.datasetRecords.Set(3)
				mfs, err := registry.Gather()
				So(err, ShouldBeNil)
				found := false
				for _, mf := range mfs {
					if mf.GetName() == "test_namespace_test_subsystem_pre_dataset_records" {
						found = true
						So(mf.GetMetric()[0].GetLabel()[0].GetName(), ShouldEqual, "env")
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When empty option values are given", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithRefreshInterval(0),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the defaults should be kept", func() {
				So(manager.namespace, ShouldEqual, "launchdash")
				So(manager.subsystem, ShouldEqual, "dashboard")
				So(manager.histogramBuckets, ShouldNotBeEmpty)
				So(manager.RefreshInterval(), ShouldEqual, defaultRefreshInterval)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording a derivation", func() {
			before := read(globalManager.derivations.WithLabelValues("pie"))
			emptyBefore := read(globalManager.derivationEmpty.WithLabelValues("pie"))
			RecordDerivation("pie", 0.4, 12, false)
			RecordDerivation("pie", 0.2, 0, true)

			Convey("Then the counters should advance", func() {
				So(read(globalManager.derivations.WithLabelValues("pie")), ShouldEqual, before+2)
				So(read(globalManager.derivationEmpty.WithLabelValues("pie")), ShouldEqual, emptyBefore+1)
			})
		})

		Convey("When recording dispatches", func() {
			before := read(globalManager.dispatches.WithLabelValues("success-pie-chart"))
			errBefore := read(globalManager.dispatchErrors.WithLabelValues("success-pie-chart"))
			RecordDispatch("success-pie-chart")
			RecordDispatchError("success-pie-chart")

			Convey("Then both counters should advance", func() {
				So(read(globalManager.dispatches.WithLabelValues("success-pie-chart")), ShouldEqual, before+1)
				So(read(globalManager.dispatchErrors.WithLabelValues("success-pie-chart")), ShouldEqual, errBefore+1)
			})
		})

		Convey("When recording renders", func() {
			before := read(globalManager.renders.WithLabelValues("scatter", "svg"))
			RecordChartRender("scatter", "svg", 3)
			RecordChartRenderError("scatter", "svg")

			Convey("Then the render counter should advance", func() {
				So(read(globalManager.renders.WithLabelValues("scatter", "svg")), ShouldEqual, before+1)
				So(read(globalManager.renderErrors.WithLabelValues("scatter", "svg")), ShouldBeGreaterThanOrEqualTo, 1.0)
			})
		})

		Convey("When recording cache lookups", func() {
			hits := read(globalManager.cacheLookups.WithLabelValues("hit"))
			misses := read(globalManager.cacheLookups.WithLabelValues("miss"))
			RecordImageCacheLookup(true)
			RecordImageCacheLookup(false)
			RecordImageCacheLookup(false)
			UpdateImageCacheEntries(7)

			Convey("Then hits and misses should be counted apart", func() {
				So(read(globalManager.cacheLookups.WithLabelValues("hit")), ShouldEqual, hits+1)
				So(read(globalManager.cacheLookups.WithLabelValues("miss")), ShouldEqual, misses+2)
				So(read(globalManager.cacheEntries), ShouldEqual, 7.0)
			})
		})

		Convey("When updating dataset gauges", func() {
			UpdateDataset(56, 4, 0, 9600)
			UpdateDatasetLoadDuration(1.5)

			Convey("Then the gauges should hold the values", func() {
				So(read(globalManager.datasetRecords), ShouldEqual, 56.0)
				So(read(globalManager.datasetSites), ShouldEqual, 4.0)
				So(read(globalManager.datasetMaxPayload), ShouldEqual, 9600.0)
				So(read(globalManager.datasetLoadMs), ShouldEqual, 1.5)
			})
		})

		Convey("When recording HTTP and system metrics", func() {
			So(func() {
				RecordHTTPRequest("pie", "GET", "200")
				RecordHTTPRequestDuration("pie", "GET", "200", 2.5)
				RecordErrorByEndpoint("scatter", "GET", "invalid")
				RecordErrorByType("invalid", "warning")
				UpdateSystemMemoryUsage(1 << 20)
				UpdateSystemGoroutineCount(12)
				RecordSystemGCPauseTime(0.3)
			}, ShouldNotPanic)

			Convey("Then the families should be gathered", func() {
				names, err := Families()
				So(err, ShouldBeNil)
				So(names, ShouldContain, "launchdash_dashboard_http_requests_total")
				So(names, ShouldContain, "launchdash_dashboard_system_goroutine_count")
				So(names, ShouldContain, "launchdash_dashboard_dataset_records")
			})
		})
	})
}

func TestMetricsConcurrency(t *testing.T) {
	Convey("Given concurrent recorders", t, func() {
		before := read(globalManager.dispatches.WithLabelValues("concurrent"))
		var wg sync.WaitGroup
		for range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for range 50 {
					RecordDispatch("concurrent")
					RecordDerivation("scatter", 0.1, 3, false)
				}
			}()
		}
		wg.Wait()

		Convey("Then no increment should be lost", func() {
			So(read(globalManager.dispatches.WithLabelValues("concurrent")), ShouldEqual, before+400)
		})
	})
}

func TestSetRefreshInterval(t *testing.T) {
	Convey("Given the global refresh interval", t, func() {
		original := RefreshInterval()
		Reset(func() { globalManager.refreshInterval = original })

		Convey("When a positive interval is set", func() {
			SetRefreshInterval(3 * time.Second)

			Convey("Then the accessor should report it", func() {
				So(RefreshInterval(), ShouldEqual, 3*time.Second)
			})
		})

		Convey("When a non-positive interval is set", func() {
			SetRefreshInterval(0)
			SetRefreshInterval(-time.Second)

			Convey("Then the previous interval should be kept", func() {
				So(RefreshInterval(), ShouldEqual, original)
			})
		})
	})
}

func TestGetRegistry(t *testing.T) {
	Convey("Given the package registry", t, func() {
		Convey("Then it should be the registry the global manager writes to", func() {
			So(GetRegistry(), ShouldEqual, customRegistry)
		})
	})
}
