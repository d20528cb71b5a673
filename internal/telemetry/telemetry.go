// Package telemetry instruments the poll loop with Prometheus metrics.
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Poll outcome labels.
const (
	OutcomeOK          = "ok"
	OutcomeNoData      = "no_data"
	OutcomeUnavailable = "unavailable"
	OutcomeBadPayload  = "bad_payload"
	OutcomeAuthFailed  = "auth_failed"
)

type Metrics struct {
	registry *prometheus.Registry

	pollOutcomes *prometheus.CounterVec
	pollDuration prometheus.Histogram

	downKBs prometheus.Gauge
	upKBs   prometheus.Gauge

	totalDownKB prometheus.Gauge
	totalUpKB   prometheus.Gauge
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		pollOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ipfiretray",
			Name:      "poll_outcomes_total",
			Help:      "Poll results by outcome.",
		}, []string{"outcome"}),

		pollDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ipfiretray",
			Name:      "poll_duration_seconds",
			Help:      "Wall-clock duration of one poll.",
			Buckets:   prometheus.DefBuckets,
		}),

		downKBs: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "ipfiretray",
			Name:      "download_kilobytes_per_second",
			Help:      "Current download rate.",
		}),

		upKBs: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "ipfiretray",
			Name:      "upload_kilobytes_per_second",
			Help:      "Current upload rate.",
		}),

		totalDownKB: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "ipfiretray",
			Name:      "total_download_kilobytes",
			Help:      "Cumulative download counter reported by the router.",
		}),

		totalUpKB: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "ipfiretray",
			Name:      "total_upload_kilobytes",
			Help:      "Cumulative upload counter reported by the router.",
		}),
	}
}

func (m *Metrics) ObservePoll(outcome string, d time.Duration) {
	m.pollOutcomes.WithLabelValues(outcome).Inc()
	m.pollDuration.Observe(d.Seconds())
}

func (m *Metrics) SetThroughput(downKBs, upKBs float64) {
	m.downKBs.Set(downKBs)
	m.upKBs.Set(upKBs)
}

func (m *Metrics) SetTotals(downKB, upKB int64) {
	m.totalDownKB.Set(float64(downKB))
	m.totalUpKB.Set(float64(upKB))
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
