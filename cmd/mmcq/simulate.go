package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/llm-d-incubation/mmc-queue-analyzer/internal/logger"
	"github.com/llm-d-incubation/mmc-queue-analyzer/internal/metrics"
	"github.com/llm-d-incubation/mmc-queue-analyzer/pkg/analyzer"
	"github.com/llm-d-incubation/mmc-queue-analyzer/pkg/config"
	"github.com/llm-d-incubation/mmc-queue-analyzer/pkg/simulator"
	"github.com/llm-d-incubation/mmc-queue-analyzer/pkg/stats"
)

type simulateOutput struct {
	System     config.QueueSystemConfig  `yaml:"system"`
	Simulation config.SimulationOptions  `yaml:"simulation"`
	Complete   bool                      `yaml:"complete"`
	StopReason simulator.StopReason      `yaml:"stop_reason"`
	Error      string                    `yaml:"error,omitempty"`
	Analytic   *analyzer.AnalyticMetrics `yaml:"analytic,omitempty"`
	Simulated  *stats.SimulatedMetrics   `yaml:"simulated,omitempty"`
	Comparison *stats.Comparison         `yaml:"comparison,omitempty"`
}

func newSimulateCmd() *cobra.Command {
	var (
		sys         systemFlags
		opts        config.SimulationOptions
		customers   int
		tolerance   float64
		metricsFile string
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Simulate an M/M/c queue and compare with the analytic metrics",
		Long: `Runs one seeded discrete-event simulation, aggregates its occupancy history
with time-weighted averages and compares the result with the closed-form
metrics. A run stopped by a ceiling or interrupted prints its partial
results and exits with status 2.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := sys.load(cmd)
			if err != nil {
				return err
			}
			fs := cmd.Flags()
			if fs.Changed("customers") {
				file.System.NumCustomers = customers
			}
			if fs.Changed("seed") {
				file.Simulation.Seed = opts.Seed
			}
			if fs.Changed("max-queue") {
				file.Simulation.MaxQueueLength = opts.MaxQueueLength
			}
			if fs.Changed("max-horizon") {
				file.Simulation.MaxHorizon = opts.MaxHorizon
			}
			if fs.Changed("budget") {
				file.Simulation.WallClockBudget = opts.WallClockBudget
			}
			if fs.Changed("allow-unstable") {
				file.Simulation.AllowUnstable = opts.AllowUnstable
			}
			return runSimulation(cmd, file, tolerance, metricsFile)
		},
	}
	sys.bind(cmd)
	fs := cmd.Flags()
	fs.IntVarP(&customers, "customers", "n", config.DefaultNumCustomers, "number of customers to simulate")
	fs.Uint64Var(&opts.Seed, "seed", config.DefaultSeed, "seed of the random source")
	fs.IntVar(&opts.MaxQueueLength, "max-queue", 0, "stop when the queue grows beyond this length (0 = no limit)")
	fs.Float64Var(&opts.MaxHorizon, "max-horizon", 0, "stop when virtual time passes this value (0 = no limit)")
	fs.DurationVar(&opts.WallClockBudget, "budget", 0, "stop after this much real time (0 = no limit)")
	fs.BoolVar(&opts.AllowUnstable, "allow-unstable", false, "simulate an unstable system; needs --max-queue or --max-horizon")
	fs.Float64Var(&tolerance, "tolerance", config.ConvergenceTolerance, "relative tolerance of the comparison")
	fs.StringVar(&metricsFile, "metrics-file", "", "write Prometheus metrics to this file")
	return cmd
}

func runSimulation(cmd *cobra.Command, file *config.File, tolerance float64, metricsFile string) error {
	log := logger.Named(logger.ComponentSimulate)
	registry := prometheus.NewRegistry()
	emitter := metrics.InitMetricsAndEmitter(registry)

	sim, err := simulator.New(file.System, file.Simulation, simulator.WithLogger(log))
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out, runErr := sim.Run(ctx)
	if out == nil {
		emitter.EmitSimulationRun("")
		return runErr
	}
	emitter.EmitSimulationRun(string(out.StopReason))

	result := simulateOutput{
		System:     file.System,
		Simulation: file.Simulation,
		Complete:   out.Complete,
		StopReason: out.StopReason,
	}
	if runErr != nil {
		result.Error = runErr.Error()
	}

	// unstable systems have no steady state to compare with
	am, err := analyzer.Analyze(file.System)
	switch {
	case err == nil:
		result.Analytic = am
		emitter.EmitAnalyticMetrics(am)
	case errors.Is(err, config.ErrUnstable):
		log.Infow("no analytic metrics", "reason", err)
	default:
		return err
	}

	sm, err := stats.Aggregate(out, file.System.NumServers)
	switch {
	case err == nil:
		result.Simulated = sm
		emitter.EmitSimulatedMetrics(sm)
	case errors.Is(err, stats.ErrInsufficientData):
		log.Warnw("no simulated metrics", "reason", err)
	default:
		return err
	}
	if result.Analytic != nil && result.Simulated != nil {
		result.Comparison = stats.Compare(result.Analytic, result.Simulated, tolerance)
		emitter.EmitComparison(result.Comparison)
	}

	if err := writeYAML(cmd.OutOrStdout(), result); err != nil {
		return err
	}
	if metricsFile != "" {
		if err := prometheus.WriteToTextfile(metricsFile, registry); err != nil {
			return fmt.Errorf("failed to write metrics file %s: %w", metricsFile, err)
		}
	}
	if runErr != nil {
		return &exitError{code: exitPartial, reason: runErr.Error()}
	}
	return nil
}
