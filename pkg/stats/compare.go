package stats

import (
	"fmt"
	"strings"

	"github.com/llm-d-incubation/mmc-queue-analyzer/pkg/analyzer"
)

// Metric names shared by comparison rows and exported gauges
const (
	MetricUtilization          = "utilization"
	MetricState0Probability    = "state_0_probability"
	MetricQueueProbability     = "queue_probability"
	MetricAvgQueueLength       = "average_queue_length"
	MetricAvgSystemLength      = "average_system_length"
	MetricAvgQueueWaitingTime  = "average_queue_waiting_time"
	MetricAvgSystemWaitingTime = "average_system_waiting_time"
)

type ComparisonRow struct {
	Metric          string  `json:"metric" yaml:"metric"`
	Analytic        float64 `json:"analytic" yaml:"analytic"`
	Simulated       float64 `json:"simulated" yaml:"simulated"`
	RelativeError   float64 `json:"relativeError" yaml:"relative_error"`
	WithinTolerance bool    `json:"withinTolerance" yaml:"within_tolerance"`
}

// Side-by-side view of analytic and simulated metrics
type Comparison struct {
	Tolerance float64         `json:"tolerance" yaml:"tolerance"`
	Complete  bool            `json:"complete" yaml:"complete"`
	Rows      []ComparisonRow `json:"rows" yaml:"rows"`
}

// Compare lines up analytic and simulated metrics and checks each simulated value
// against the analytic one with the given relative tolerance.
func Compare(am *analyzer.AnalyticMetrics, sm *SimulatedMetrics, tolerance float64) *Comparison {
	pairs := []struct {
		name      string
		analytic  float64
		simulated float64
	}{
		{MetricUtilization, am.Utilization, sm.Utilization},
		{MetricState0Probability, am.State0Probability, sm.State0Probability},
		{MetricQueueProbability, am.QueueProbability, sm.QueueProbability},
		{MetricAvgQueueLength, am.AvgQueueLength, sm.AvgQueueLength},
		{MetricAvgSystemLength, am.AvgSystemLength, sm.AvgSystemLength},
		{MetricAvgQueueWaitingTime, am.AvgQueueWaitingTime, sm.AvgQueueWaitingTime},
		{MetricAvgSystemWaitingTime, am.AvgSystemWaitingTime, sm.AvgSystemWaitingTime},
	}
	c := &Comparison{
		Tolerance: tolerance,
		Complete:  sm.Complete,
		Rows:      make([]ComparisonRow, 0, len(pairs)),
	}
	for _, p := range pairs {
		c.Rows = append(c.Rows, ComparisonRow{
			Metric:          p.name,
			Analytic:        p.analytic,
			Simulated:       p.simulated,
			RelativeError:   analyzer.RelativeError(p.simulated, p.analytic),
			WithinTolerance: analyzer.WithinTolerance(p.simulated, p.analytic, tolerance),
		})
	}
	return c
}

// Row returns the row of the named metric.
func (c *Comparison) Row(metric string) (ComparisonRow, bool) {
	for _, r := range c.Rows {
		if r.Metric == metric {
			return r, true
		}
	}
	return ComparisonRow{}, false
}

// AllWithin reports whether every metric is within tolerance.
func (c *Comparison) AllWithin() bool {
	for _, r := range c.Rows {
		if !r.WithinTolerance {
			return false
		}
	}
	return true
}

func (c *Comparison) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-28s %12s %12s %10s\n", "metric", "analytic", "simulated", "rel.err")
	for _, r := range c.Rows {
		mark := ""
		if !r.WithinTolerance {
			mark = " *"
		}
		fmt.Fprintf(&b, "%-28s %12.6f %12.6f %9.2f%%%s\n", r.Metric, r.Analytic, r.Simulated, 100*r.RelativeError, mark)
	}
	if !c.Complete {
		b.WriteString("(incomplete run)\n")
	}
	return b.String()
}
