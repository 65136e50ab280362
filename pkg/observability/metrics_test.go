package observability

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNoopMetrics(t *testing.T) {
	m := NoopMetrics{}

	// Should not panic
	m.Counter("test", 1)
	m.Gauge("test", 1.0)
	m.Histogram("test", 1.0)
	m.Timing("test", time.Second)
}

func TestInMemoryMetrics(t *testing.T) {
	t.Run("Counter", func(t *testing.T) {
		m := NewInMemoryMetrics()

		m.Counter(MetricBookingsCreated, 1)
		m.Counter(MetricBookingsCreated, 1)
		m.Counter(MetricBookingsCreated, 1)

		assert.Equal(t, int64(3), m.GetCounter(MetricBookingsCreated))
	})

	t.Run("Counter with tags", func(t *testing.T) {
		m := NewInMemoryMetrics()

		m.Counter(MetricCapacityQueries, 1, T("premises", "a"))
		m.Counter(MetricCapacityQueries, 1, T("premises", "b"))
		m.Counter(MetricCapacityQueries, 1, T("premises", "a"))

		assert.Equal(t, int64(2), m.GetCounter(MetricCapacityQueries, T("premises", "a")))
		assert.Equal(t, int64(1), m.GetCounter(MetricCapacityQueries, T("premises", "b")))
	})

	t.Run("Gauge", func(t *testing.T) {
		m := NewInMemoryMetrics()

		m.Gauge("occupancy", 25.5)
		assert.Equal(t, 25.5, m.GetGauge("occupancy"))

		m.Gauge("occupancy", 30.0)
		assert.Equal(t, 30.0, m.GetGauge("occupancy"))
	})

	t.Run("Histogram", func(t *testing.T) {
		m := NewInMemoryMetrics()

		m.Histogram("stay_length_days", 10)
		m.Histogram("stay_length_days", 84)

		values := m.GetHistogram("stay_length_days")
		assert.Equal(t, []float64{10, 84}, values)
	})

	t.Run("Timing", func(t *testing.T) {
		m := NewInMemoryMetrics()

		m.Timing(MetricDBQueryDuration, 50*time.Millisecond)
		m.Timing(MetricDBQueryDuration, 100*time.Millisecond)

		timings := m.GetTimings(MetricDBQueryDuration)
		assert.Len(t, timings, 2)
		assert.Equal(t, 50*time.Millisecond, timings[0])
	})

	t.Run("Reset", func(t *testing.T) {
		m := NewInMemoryMetrics()

		m.Counter("a", 1)
		m.Gauge("b", 1.0)
		m.Reset()

		assert.Equal(t, int64(0), m.GetCounter("a"))
		assert.Equal(t, 0.0, m.GetGauge("b"))
	})
}

func TestTimer(t *testing.T) {
	t.Run("records operation metrics on stop", func(t *testing.T) {
		m := NewInMemoryMetrics()

		timer := StartTimer("capacity-query").WithMetrics(m)
		duration := timer.Stop()

		assert.GreaterOrEqual(t, duration, time.Duration(0))
		assert.Equal(t, int64(1), m.GetCounter(MetricOperationTotal, T("operation", "capacity-query")))
		assert.Len(t, m.GetTimings(MetricOperationDuration, T("operation", "capacity-query")), 1)
	})

	t.Run("records error counter on failure", func(t *testing.T) {
		m := NewInMemoryMetrics()

		timer := StartTimer("capacity-query").WithMetrics(m)
		timer.StopWithError(errors.New("boom"))

		assert.Equal(t, int64(1), m.GetCounter(MetricOperationErrors, T("operation", "capacity-query")))
	})

	t.Run("elapsed does not stop the timer", func(t *testing.T) {
		timer := StartTimer("noop")
		assert.GreaterOrEqual(t, timer.Elapsed(), time.Duration(0))
	})
}
