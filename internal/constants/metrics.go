// Package constants provides centralized constant definitions for the analyzer.
package constants

// Output Metrics
// These metric names are used to export analytic and simulated queue metrics in the Prometheus text format.
const (
	// MMCAnalyticMetric is a gauge holding one closed-form steady-state metric.
	// Labels: metric
	MMCAnalyticMetric = "mmc_analytic_metric"

	// MMCSimulatedMetric is a gauge holding one metric aggregated from a simulation run.
	// Labels: metric
	MMCSimulatedMetric = "mmc_simulated_metric"

	// MMCSimulationRunsTotal is a counter of simulation runs by how they ended.
	// Labels: status (completed, queue-limit, horizon, wall-clock, cancelled, failed)
	MMCSimulationRunsTotal = "mmc_simulation_runs_total"

	// MMCSimulationRelativeError is a gauge of the relative error of a simulated metric against its analytic value.
	// Labels: metric
	MMCSimulationRelativeError = "mmc_simulation_relative_error"
)

// Metric Label Names
const (
	LabelMetric = "metric"
	LabelStatus = "status"
)

// StatusFailed labels runs that ended with an error and no output.
const StatusFailed = "failed"
