package metric

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics pool collectors, a nil *Metrics records nothing
type Metrics struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	interest   *prometheus.CounterVec
	health     *prometheus.GaugeVec
}

var (
	once     sync.Once
	instance *Metrics
)

// Default process wide metrics
func Default() *Metrics {
	once.Do(func() {
		instance = New()
		instance.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	})

	return instance
}

// New metrics on a private registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lendpool_operations_total",
			Help: "Pool operations by name and result.",
		}, []string{"op", "result"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lendpool_operation_duration_seconds",
			Help:    "Latency of pool operations.",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),
		interest: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lendpool_accrued_interest_total",
			Help: "Interest accrued per token in base units.",
		}, []string{"token"}),
		health: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "lendpool_health_factor",
			Help: "Last observed health factor of borrowers.",
		}, []string{"user"}),
	}

	m.registry.MustRegister(m.operations, m.latency, m.interest, m.health)
	return m
}

// ObserveOperation counts one operation, result is "ok" or an error kind
func (m *Metrics) ObserveOperation(op, result string, seconds float64) {
	if m == nil {
		return
	}

	if result == "" {
		result = "ok"
	}

	m.operations.WithLabelValues(op, result).Inc()
	m.latency.WithLabelValues(op).Observe(seconds)
}

// AddInterest adds accrued interest of token
func (m *Metrics) AddInterest(token string, amount float64) {
	if m == nil || amount <= 0 {
		return
	}

	m.interest.WithLabelValues(token).Add(amount)
}

// SetHealthFactor records hf of user as a float
func (m *Metrics) SetHealthFactor(user string, hf float64) {
	if m == nil {
		return
	}

	m.health.WithLabelValues(user).Set(hf)
}

// Registry underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler exposes the registry in the prometheus text format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}

	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
