package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "clinic"

// Collector holds the service metrics. A nil *Collector is valid and
// records nothing.
type Collector struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	inFlight        prometheus.Gauge

	appointmentsTotal *prometheus.CounterVec
	slotGeneration    prometheus.Histogram
	cacheLookups      *prometheus.CounterVec

	auditWritten prometheus.Counter
	auditDropped prometheus.Counter
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, route and status code.",
		}, []string{"method", "path", "status"}),

		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency distribution.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"method", "path", "status"}),

		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),

		appointmentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduling",
			Name:      "appointments_total",
			Help:      "Appointment lifecycle operations by operation and outcome.",
		}, []string{"operation", "outcome"}),

		slotGeneration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scheduling",
			Name:      "slot_generation_seconds",
			Help:      "Time spent computing the free slots of a doctor day.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
		}),

		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "availability_lookups_total",
			Help:      "Availability cache lookups by result.",
		}, []string{"result"}),

		auditWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "audit",
			Name:      "entries_total",
			Help:      "Total audit log entries written.",
		}),

		auditDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "audit",
			Name:      "dropped_total",
			Help:      "Audit entries dropped because the queue was full or closed.",
		}),
	}

	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(
		c.requestsTotal,
		c.requestDuration,
		c.inFlight,
		c.appointmentsTotal,
		c.slotGeneration,
		c.cacheLookups,
		c.auditWritten,
		c.auditDropped,
	)
	return c
}

func (c *Collector) ObserveRequest(method, path string, status int, seconds float64) {
	if c == nil {
		return
	}
	code := strconv.Itoa(status)
	c.requestsTotal.WithLabelValues(method, path, code).Inc()
	c.requestDuration.WithLabelValues(method, path, code).Observe(seconds)
}

func (c *Collector) IncInFlight() {
	if c == nil {
		return
	}
	c.inFlight.Inc()
}

func (c *Collector) DecInFlight() {
	if c == nil {
		return
	}
	c.inFlight.Dec()
}

// ObserveAppointment counts a lifecycle operation. outcome is "ok" or the
// business error code that rejected it.
func (c *Collector) ObserveAppointment(operation, outcome string) {
	if c == nil {
		return
	}
	c.appointmentsTotal.WithLabelValues(operation, outcome).Inc()
}

func (c *Collector) ObserveSlotGeneration(seconds float64) {
	if c == nil {
		return
	}
	c.slotGeneration.Observe(seconds)
}

func (c *Collector) CacheLookup(hit bool) {
	if c == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	c.cacheLookups.WithLabelValues(result).Inc()
}

func (c *Collector) AuditWritten() {
	if c == nil {
		return
	}
	c.auditWritten.Inc()
}

func (c *Collector) AuditDropped() {
	if c == nil {
		return
	}
	c.auditDropped.Inc()
}

func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
