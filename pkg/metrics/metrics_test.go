package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewWithRegistry(prometheus.NewRegistry(), "scheduling-test")

	m.ReservationCommitted("client")
	m.ReservationCommitted("client")
	m.CommitRejected("slot_conflict")
	m.QueueTransitioned("called")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ReservationsCommitted.WithLabelValues("client")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CommitRejections.WithLabelValues("slot_conflict")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.QueueTransitions.WithLabelValues("called")))
}

func TestMetrics_NilReceiverIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ReservationCommitted("staff")
		m.ObserveHTTP("GET", "/", "200", 0.1)
		m.SetPoolStats(1, 1, 0)
	})
}
