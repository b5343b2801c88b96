package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	t.Run("Counts by label", func(t *testing.T) {
		// Given: metrics on a private registry
		m := New(prometheus.NewRegistry())

		// When: recording a few events
		m.SessionStarted("hanoi")
		m.SessionStarted("hanoi")
		m.MoveApplied("hanoi", ResultOK, time.Millisecond)
		m.MoveApplied("hanoi", ResultIllegal, time.Millisecond)
		m.SessionFinished("hanoi", "solved")

		// Then: each series holds its own count
		assert.InDelta(t, 2, testutil.ToFloat64(m.SessionsStarted.WithLabelValues("hanoi")), 0)
		assert.InDelta(t, 1, testutil.ToFloat64(m.MovesTotal.WithLabelValues("hanoi", ResultOK)), 0)
		assert.InDelta(t, 1, testutil.ToFloat64(m.MovesTotal.WithLabelValues("hanoi", ResultIllegal)), 0)
		assert.InDelta(t, 1, testutil.ToFloat64(m.SessionsFinished.WithLabelValues("hanoi", "solved")), 0)
		assert.Equal(t, 1, testutil.CollectAndCount(m.MoveDuration))
	})

	t.Run("Registers every collector", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		m := New(reg)
		m.SessionStarted("mastermind")
		m.MoveApplied("mastermind", ResultOK, time.Millisecond)
		m.SessionFinished("mastermind", "lost")

		families, err := reg.Gather()

		require.NoError(t, err)
		assert.Len(t, families, 4)
	})
}
