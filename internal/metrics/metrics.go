package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/llm-d-incubation/mmc-queue-analyzer/internal/constants"
	"github.com/llm-d-incubation/mmc-queue-analyzer/pkg/analyzer"
	"github.com/llm-d-incubation/mmc-queue-analyzer/pkg/stats"
)

var (
	analyticMetric  *prometheus.GaugeVec
	simulatedMetric *prometheus.GaugeVec
	simulationRuns  *prometheus.CounterVec
	relativeError   *prometheus.GaugeVec
)

// InitMetrics registers all custom metrics with the provided registry
func InitMetrics(registry prometheus.Registerer) {
	analyticMetric = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: constants.MMCAnalyticMetric,
			Help: "Closed-form steady-state metric of the M/M/c queue",
		},
		[]string{constants.LabelMetric},
	)
	simulatedMetric = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: constants.MMCSimulatedMetric,
			Help: "Metric aggregated from the last simulation run",
		},
		[]string{constants.LabelMetric},
	)
	simulationRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: constants.MMCSimulationRunsTotal,
			Help: "Total number of simulation runs by outcome",
		},
		[]string{constants.LabelStatus},
	)
	relativeError = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: constants.MMCSimulationRelativeError,
			Help: "Relative error of a simulated metric against its analytic value",
		},
		[]string{constants.LabelMetric},
	)

	registry.MustRegister(analyticMetric)
	registry.MustRegister(simulatedMetric)
	registry.MustRegister(simulationRuns)
	registry.MustRegister(relativeError)
}

// InitMetricsAndEmitter registers metrics with Prometheus and creates a metrics emitter
func InitMetricsAndEmitter(registry prometheus.Registerer) *MetricsEmitter {
	InitMetrics(registry)
	return NewMetricsEmitter()
}

// MetricsEmitter handles emission of queue metrics
type MetricsEmitter struct{}

// NewMetricsEmitter creates a new metrics emitter
func NewMetricsEmitter() *MetricsEmitter {
	return &MetricsEmitter{}
}

// EmitAnalyticMetrics sets the analytic gauges
func (m *MetricsEmitter) EmitAnalyticMetrics(am *analyzer.AnalyticMetrics) {
	if am == nil {
		return
	}
	for name, v := range map[string]float64{
		stats.MetricUtilization:          am.Utilization,
		stats.MetricState0Probability:    am.State0Probability,
		stats.MetricQueueProbability:     am.QueueProbability,
		stats.MetricAvgQueueLength:       am.AvgQueueLength,
		stats.MetricAvgSystemLength:      am.AvgSystemLength,
		stats.MetricAvgQueueWaitingTime:  am.AvgQueueWaitingTime,
		stats.MetricAvgSystemWaitingTime: am.AvgSystemWaitingTime,
		"offered_load":                   am.OfferedLoad,
		"average_service_time":           am.AvgServiceTime,
	} {
		analyticMetric.With(prometheus.Labels{constants.LabelMetric: name}).Set(v)
	}
}

// EmitSimulatedMetrics sets the simulated gauges
func (m *MetricsEmitter) EmitSimulatedMetrics(sm *stats.SimulatedMetrics) {
	if sm == nil {
		return
	}
	for name, v := range map[string]float64{
		stats.MetricUtilization:          sm.Utilization,
		stats.MetricState0Probability:    sm.State0Probability,
		stats.MetricQueueProbability:     sm.QueueProbability,
		stats.MetricAvgQueueLength:       sm.AvgQueueLength,
		stats.MetricAvgSystemLength:      sm.AvgSystemLength,
		stats.MetricAvgQueueWaitingTime:  sm.AvgQueueWaitingTime,
		stats.MetricAvgSystemWaitingTime: sm.AvgSystemWaitingTime,
		"elapsed":                        sm.Elapsed,
		"customers":                      float64(sm.Customers),
	} {
		simulatedMetric.With(prometheus.Labels{constants.LabelMetric: name}).Set(v)
	}
}

// EmitComparison sets the relative error gauges
func (m *MetricsEmitter) EmitComparison(c *stats.Comparison) {
	if c == nil {
		return
	}
	for _, r := range c.Rows {
		relativeError.With(prometheus.Labels{constants.LabelMetric: r.Metric}).Set(r.RelativeError)
	}
}

// EmitSimulationRun counts a finished run under its stop reason, or failed
func (m *MetricsEmitter) EmitSimulationRun(status string) {
	if status == "" {
		status = constants.StatusFailed
	}
	simulationRuns.With(prometheus.Labels{constants.LabelStatus: status}).Inc()
}
