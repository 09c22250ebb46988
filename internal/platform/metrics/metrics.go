// Package metrics は Prometheus のメトリクスを提供します。
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ogurasousui/leave-clean-arch/internal/core/leave"
)

const namespace = "leave"

// Metrics は HTTP と休暇申請ライフサイクルのメトリクスを保持します。
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	submissionsTotal    prometheus.Counter
	reviewsTotal        *prometheus.CounterVec
	withdrawalsTotal    prometheus.Counter
}

// New は専用のレジストリにメトリクスを登録して返します。
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		httpRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		httpRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		submissionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_submitted_total",
			Help:      "Count of submitted leave requests",
		}),
		reviewsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_reviewed_total",
			Help:      "Count of reviewed leave requests by decision",
		}, []string{"decision"}),
		withdrawalsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_withdrawn_total",
			Help:      "Count of withdrawn leave requests",
		}),
	}
}

// Registry は登録先のレジストリを返します。
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler は /metrics 用のハンドラを返します。
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveHTTPRequest は HTTP リクエストを記録します。
func (m *Metrics) ObserveHTTPRequest(method, route, status string, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.httpRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

// Submitted は申請作成を記録します。
func (m *Metrics) Submitted() {
	m.submissionsTotal.Inc()
}

// Reviewed は承認・却下を記録します。
func (m *Metrics) Reviewed(decision leave.Status) {
	m.reviewsTotal.WithLabelValues(string(decision)).Inc()
}

// Withdrawn は取り下げを記録します。
func (m *Metrics) Withdrawn() {
	m.withdrawalsTotal.Inc()
}

var _ leave.Observer = (*Metrics)(nil)
