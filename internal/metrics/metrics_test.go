package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollectorRecords(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.ObserveAppointment("create", "ok")
	c.ObserveAppointment("create", "slot_taken")
	c.ObserveAppointment("create", "slot_taken")
	c.AuditDropped()
	c.CacheLookup(true)
	c.ObserveRequest("GET", "/health", 200, 0.01)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.appointmentsTotal.WithLabelValues("create", "ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.appointmentsTotal.WithLabelValues("create", "slot_taken")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.auditDropped))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.cacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.requestsTotal.WithLabelValues("GET", "/health", "200")))
}

func TestNilCollectorIsSafe(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.ObserveRequest("GET", "/", 200, 1)
		c.IncInFlight()
		c.DecInFlight()
		c.ObserveAppointment("create", "ok")
		c.ObserveSlotGeneration(0.1)
		c.CacheLookup(false)
		c.AuditWritten()
		c.AuditDropped()
	})
}
