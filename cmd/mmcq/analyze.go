package main

import (
	"github.com/spf13/cobra"

	"github.com/llm-d-incubation/mmc-queue-analyzer/internal/logger"
	"github.com/llm-d-incubation/mmc-queue-analyzer/pkg/analyzer"
)

type stateProbability struct {
	Customers   int     `yaml:"customers"`
	Probability float64 `yaml:"probability"`
}

type analyzeOutput struct {
	Metrics *analyzer.AnalyticMetrics `yaml:"metrics"`
	States  []stateProbability        `yaml:"state_probabilities,omitempty"`
}

func newAnalyzeCmd() *cobra.Command {
	var (
		sys    systemFlags
		states int
	)
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Compute the steady-state metrics of an M/M/c queue",
		Long: `Computes utilization, the empty-system probability, the Erlang-C queueing
probability, average queue and system lengths and waiting times. Unstable
systems (arrival rate at or above total service capacity) are rejected.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := sys.load(cmd)
			if err != nil {
				return err
			}
			am, err := analyzer.Analyze(file.System)
			if err != nil {
				return err
			}
			logger.Named(logger.ComponentAnalyze).Debugw("analyzed", "config", file.System.String(), "metrics", am.String())

			out := analyzeOutput{Metrics: am}
			for k := range states {
				out.States = append(out.States, stateProbability{Customers: k, Probability: am.StateProbability(k)})
			}
			return writeYAML(cmd.OutOrStdout(), out)
		},
	}
	sys.bind(cmd)
	cmd.Flags().IntVar(&states, "states", 0, "also print the probabilities of 0..K-1 customers in the system")
	return cmd
}
