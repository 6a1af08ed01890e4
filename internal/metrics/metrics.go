// Package metrics exposes Prometheus collectors for the calendar service on
// a private registry.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tagcal"

// Metrics groups every collector the service updates. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	operations   *prometheus.CounterVec
	saveFailures prometheus.Counter
	backups      *prometheus.CounterVec
	tags         prometheus.Gauge
	periods      prometheus.Gauge
	markedDays   prometheus.Gauge
}

// New registers the collectors on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Calendar operations by name and result.",
		}, []string{"op", "result"}),
		saveFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "save_failures_total",
			Help:      "Record saves that failed after a successful mutation.",
		}),
		backups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backups_total",
			Help:      "Scheduled backups by result.",
		}, []string{"result"}),
		tags: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tags",
			Help:      "Number of tags.",
		}),
		periods: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "periods",
			Help:      "Number of periods.",
		}),
		markedDays: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "marked_days",
			Help:      "Number of dates carrying at least one mark.",
		}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.operations, m.saveFailures, m.backups, m.tags, m.periods, m.markedDays,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// ObserveOp counts one operation, labelled "ok" or "error".
func (m *Metrics) ObserveOp(op string, err error) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(op, result(err)).Inc()
}

// SaveFailed counts a failed save.
func (m *Metrics) SaveFailed() {
	if m == nil {
		return
	}
	m.saveFailures.Inc()
}

// BackupDone counts a finished backup.
func (m *Metrics) BackupDone(err error) {
	if m == nil {
		return
	}
	m.backups.WithLabelValues(result(err)).Inc()
}

// SetState records the current entity counts.
func (m *Metrics) SetState(tags, periods, markedDays int) {
	if m == nil {
		return
	}
	m.tags.Set(float64(tags))
	m.periods.Set(float64(periods))
	m.markedDays.Set(float64(markedDays))
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
