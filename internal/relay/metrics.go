package relay

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// Metrics holds Prometheus metrics for relay dispatch.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers the relay metrics once per process.
//
// Metrics:
//   - snippetsaver_relay_requests_total{action,outcome}
//   - snippetsaver_relay_request_duration_seconds{action}
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = &Metrics{
			RequestsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "snippetsaver_relay_requests_total",
					Help: "Total number of relay requests dispatched",
				},
				[]string{"action", "outcome"}, // outcome: "ok" or an ErrorKind
			),
			RequestDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "snippetsaver_relay_request_duration_seconds",
					Help:    "Duration of relay request handling in seconds",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"action"},
			),
		}
	})
	return globalMetrics
}

func (m *Metrics) observe(action Action, res Result, seconds float64) {
	if m == nil {
		return
	}
	outcome := "ok"
	if !res.Success {
		outcome = string(res.Kind)
		if outcome == "" {
			outcome = "error"
		}
	}
	m.RequestsTotal.WithLabelValues(string(action), outcome).Inc()
	m.RequestDuration.WithLabelValues(string(action)).Observe(seconds)
}
