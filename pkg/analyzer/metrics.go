package analyzer

import (
	"fmt"
	"math"

	"github.com/llm-d-incubation/mmc-queue-analyzer/pkg/config"
)

// Closed-form steady-state metrics of an M/M/c queue
type AnalyticMetrics struct {
	NumServers           int     `json:"numServers" yaml:"num_servers"`
	ArrivalRate          float64 `json:"arrivalRate" yaml:"arrival_rate"`
	ServiceRate          float64 `json:"serviceRate" yaml:"service_rate"`
	Utilization          float64 `json:"utilization" yaml:"utilization"`                          // rho
	OfferedLoad          float64 `json:"offeredLoad" yaml:"offered_load"`                         // a = c * rho
	State0Probability    float64 `json:"state0Probability" yaml:"state_0_probability"`            // P0
	QueueProbability     float64 `json:"queueProbability" yaml:"queue_probability"`               // Erlang-C
	AvgQueueLength       float64 `json:"avgQueueLength" yaml:"average_queue_length"`              // Lq
	AvgSystemLength      float64 `json:"avgSystemLength" yaml:"average_system_length"`            // Ls
	AvgQueueWaitingTime  float64 `json:"avgQueueWaitingTime" yaml:"average_queue_waiting_time"`   // Wq
	AvgSystemWaitingTime float64 `json:"avgSystemWaitingTime" yaml:"average_system_waiting_time"` // Ws
	AvgServiceTime       float64 `json:"avgServiceTime" yaml:"average_service_time"`              // 1/mu

	logP0  float64
	logA   float64
	logRho float64
}

// Analyze validates the configuration and computes the M/M/c metrics.
// The number of customers is not used.
func Analyze(cfg config.QueueSystemConfig) (*AnalyticMetrics, error) {
	if err := cfg.ValidateAnalytic(); err != nil {
		return nil, err
	}
	if err := cfg.CheckStability(); err != nil {
		return nil, err
	}
	model := NewMMCModel(cfg.NumServers)
	model.Solve(cfg.ArrivalRate, cfg.ServiceRate)
	return model.Metrics()
}

// StateProbability returns the steady-state probability of exactly k customers in the system.
func (am *AnalyticMetrics) StateProbability(k int) float64 {
	if k < 0 {
		return 0
	}
	c := am.NumServers
	if k < c {
		lg, _ := math.Lgamma(float64(k + 1))
		return math.Exp(am.logP0 + float64(k)*am.logA - lg)
	}
	lg, _ := math.Lgamma(float64(c + 1))
	return math.Exp(am.logP0 + float64(c)*am.logA - lg + float64(k-c)*am.logRho)
}

func (am *AnalyticMetrics) String() string {
	return fmt.Sprintf("{c=%d, rho=%.4f, P0=%.5f, C=%.5f, Lq=%.5f, Ls=%.5f, Wq=%.5f, Ws=%.5f}",
		am.NumServers, am.Utilization, am.State0Probability, am.QueueProbability,
		am.AvgQueueLength, am.AvgSystemLength, am.AvgQueueWaitingTime, am.AvgSystemWaitingTime)
}
