package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/llm-d-incubation/mmc-queue-analyzer/internal/logger"
	"github.com/llm-d-incubation/mmc-queue-analyzer/pkg/analyzer"
)

type sizeOutput struct {
	Target         analyzer.TargetPerf       `yaml:"target"`
	MaxArrivalRate float64                   `yaml:"max_arrival_rate,omitempty"`
	MinServers     int                       `yaml:"min_servers,omitempty"`
	Metrics        *analyzer.AnalyticMetrics `yaml:"metrics"`
}

func newSizeCmd() *cobra.Command {
	var (
		sys        systemFlags
		target     analyzer.TargetPerf
		maxServers int
	)
	cmd := &cobra.Command{
		Use:   "size",
		Short: "Find the capacity of an M/M/c queue under performance targets",
		Long: `Without an arrival rate, finds the largest arrival rate the given servers
sustain within the targets. With an arrival rate, finds the smallest number
of servers meeting the targets.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := sys.load(cmd)
			if err != nil {
				return err
			}
			if target == (analyzer.TargetPerf{}) {
				return fmt.Errorf("at least one of --max-queue-wait, --max-system-wait, --max-queue-probability is required")
			}
			s := file.System
			out := sizeOutput{Target: target}
			if s.ArrivalRate > 0 {
				if out.MinServers, out.Metrics, err = analyzer.MinServers(s.ArrivalRate, s.ServiceRate, target, maxServers); err != nil {
					return err
				}
			} else {
				if out.MaxArrivalRate, out.Metrics, err = analyzer.MaxArrivalRate(s.NumServers, s.ServiceRate, target); err != nil {
					return err
				}
			}
			logger.Named(logger.ComponentSize).Debugw("sized", "target", target.String(),
				"maxArrivalRate", out.MaxArrivalRate, "minServers", out.MinServers)
			return writeYAML(cmd.OutOrStdout(), out)
		},
	}
	sys.bind(cmd)
	fs := cmd.Flags()
	fs.Float64Var(&target.MaxQueueWait, "max-queue-wait", 0, "upper bound on the average queue waiting time")
	fs.Float64Var(&target.MaxSystemWait, "max-system-wait", 0, "upper bound on the average system waiting time")
	fs.Float64Var(&target.MaxQueueProbability, "max-queue-probability", 0, "upper bound on the probability of queueing")
	fs.IntVar(&maxServers, "max-servers", 1000, "largest number of servers to consider")
	return cmd
}
