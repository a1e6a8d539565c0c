package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg, "appointments")

	m.ObserveBooking("created")
	m.ObserveBooking("conflict")
	m.ObserveBooking("conflict")
	m.ObserveNotification("failed")
	m.ObserveTransition("confirmed")
	m.ObserveHTTP("POST", "/api/v1/appointments/book", 201, 15*time.Millisecond)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.bookings.WithLabelValues("created")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.bookings.WithLabelValues("conflict")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.notifications.WithLabelValues("failed")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.transitions.WithLabelValues("confirmed")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.httpRequests.WithLabelValues("POST", "/api/v1/appointments/book", "201")))
	assert.Equal(t, "appointments", m.Namespace())
}
