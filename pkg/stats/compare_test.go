package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llm-d-incubation/mmc-queue-analyzer/pkg/analyzer"
)

func TestCompare(t *testing.T) {
	am := &analyzer.AnalyticMetrics{
		Utilization:          0.5,
		State0Probability:    1.0 / 3,
		QueueProbability:     1.0 / 3,
		AvgQueueLength:       1.0 / 3,
		AvgSystemLength:      4.0 / 3,
		AvgQueueWaitingTime:  1.0 / 3,
		AvgSystemWaitingTime: 4.0 / 3,
	}
	sm := &SimulatedMetrics{
		Utilization:          0.52,
		State0Probability:    1.0 / 3,
		QueueProbability:     0.31,
		AvgQueueLength:       0.5,
		AvgSystemLength:      1.3,
		AvgQueueWaitingTime:  0.35,
		AvgSystemWaitingTime: 4.0 / 3,
		Complete:             true,
	}
	cmp := Compare(am, sm, 0.1)
	require.Len(t, cmp.Rows, 7)
	assert.Equal(t, 0.1, cmp.Tolerance)
	assert.True(t, cmp.Complete)

	row, ok := cmp.Row(MetricUtilization)
	require.True(t, ok)
	assert.InDelta(t, 0.04, row.RelativeError, 1e-12)
	assert.True(t, row.WithinTolerance)

	row, ok = cmp.Row(MetricAvgQueueLength)
	require.True(t, ok)
	assert.InDelta(t, 0.5, row.RelativeError, 1e-12)
	assert.False(t, row.WithinTolerance)
	assert.False(t, cmp.AllWithin())

	_, ok = cmp.Row("throughput")
	assert.False(t, ok)

	s := cmp.String()
	assert.Contains(t, s, MetricAvgQueueLength)
	assert.NotContains(t, s, "incomplete")

	sm.AvgQueueLength = 0.34
	sm.Complete = false
	cmp = Compare(am, sm, 0.1)
	assert.True(t, cmp.AllWithin())
	assert.Contains(t, cmp.String(), "(incomplete run)")
}
