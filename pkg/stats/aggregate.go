package stats

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/llm-d-incubation/mmc-queue-analyzer/pkg/config"
	"github.com/llm-d-incubation/mmc-queue-analyzer/pkg/simulator"
)

var ErrInsufficientData = errors.New("insufficient simulation data")

// Summary of one simulation run, field for field comparable with analyzer.AnalyticMetrics
type SimulatedMetrics struct {
	NumServers           int     `json:"numServers" yaml:"num_servers"`
	Utilization          float64 `json:"utilization" yaml:"utilization"`
	AvgServersBusy       float64 `json:"avgServersBusy" yaml:"average_servers_busy"`
	State0Probability    float64 `json:"state0Probability" yaml:"state_0_probability"`
	QueueProbability     float64 `json:"queueProbability" yaml:"queue_probability"`
	AvgQueueLength       float64 `json:"avgQueueLength" yaml:"average_queue_length"`
	AvgSystemLength      float64 `json:"avgSystemLength" yaml:"average_system_length"`
	AvgQueueWaitingTime  float64 `json:"avgQueueWaitingTime" yaml:"average_queue_waiting_time"`
	AvgSystemWaitingTime float64 `json:"avgSystemWaitingTime" yaml:"average_system_waiting_time"`
	Elapsed              float64 `json:"elapsed" yaml:"elapsed"`     // simulated time covered by the history
	Customers            int     `json:"customers" yaml:"customers"` // departed customers behind the waiting times
	Complete             bool    `json:"complete" yaml:"complete"`

	stateTime map[int]float64 // time spent at each system length
}

// Aggregate reduces a simulation output to summary metrics.
//
// Occupancy averages are time weighted: each sample counts for the time until the next one.
// The empty-system probability is a fraction of elapsed time, the queueing probability a
// fraction of departed customers. Waiting times are plain means over departed customers.
func Aggregate(out *simulator.SimulationOutput, numServers int) (*SimulatedMetrics, error) {
	if numServers < 1 {
		return nil, fmt.Errorf("%w: number of servers %d must be >= 1", config.ErrConfig, numServers)
	}
	if out == nil {
		return nil, fmt.Errorf("%w: no output", ErrInsufficientData)
	}
	h := out.CustomersHistory
	if len(h) < 2 {
		return nil, fmt.Errorf("%w: %d occupancy samples", ErrInsufficientData, len(h))
	}
	if len(out.QueueWaitingTimes) == 0 || len(out.QueueWaitingTimes) != len(out.SystemWaitingTimes) {
		return nil, fmt.Errorf("%w: %d queue and %d system waiting times",
			ErrInsufficientData, len(out.QueueWaitingTimes), len(out.SystemWaitingTimes))
	}

	n := len(h) - 1
	weights := make([]float64, n)
	busy := make([]float64, n)
	queue := make([]float64, n)
	system := make([]float64, n)
	stateTime := make(map[int]float64)
	for i := range n {
		dt := h[i+1].Timestamp - h[i].Timestamp
		if dt < 0 {
			return nil, fmt.Errorf("sample %d at %v precedes sample %d at %v", i+1, h[i+1].Timestamp, i, h[i].Timestamp)
		}
		weights[i] = dt
		busy[i] = float64(h[i].ServersBusy)
		queue[i] = float64(h[i].QueueLength)
		system[i] = float64(h[i].SystemLength())
		stateTime[h[i].SystemLength()] += dt
	}
	total := floats.Sum(weights)
	if total <= 0 {
		return nil, fmt.Errorf("%w: zero elapsed time", ErrInsufficientData)
	}

	queued := 0
	for _, w := range out.QueueWaitingTimes {
		if w > 0 {
			queued++
		}
	}

	sm := &SimulatedMetrics{
		NumServers:           numServers,
		AvgServersBusy:       stat.Mean(busy, weights),
		State0Probability:    stateTime[0] / total,
		QueueProbability:     float64(queued) / float64(len(out.QueueWaitingTimes)),
		AvgQueueLength:       stat.Mean(queue, weights),
		AvgSystemLength:      stat.Mean(system, weights),
		AvgQueueWaitingTime:  stat.Mean(out.QueueWaitingTimes, nil),
		AvgSystemWaitingTime: stat.Mean(out.SystemWaitingTimes, nil),
		Elapsed:              h[n].Timestamp - h[0].Timestamp,
		Customers:            len(out.SystemWaitingTimes),
		Complete:             out.Complete,
		stateTime:            stateTime,
	}
	sm.Utilization = sm.AvgServersBusy / float64(numServers)
	return sm, nil
}

// StateProbability returns the fraction of elapsed time with exactly k customers in the system.
func (sm *SimulatedMetrics) StateProbability(k int) float64 {
	if sm.Elapsed <= 0 {
		return 0
	}
	return sm.stateTime[k] / sm.Elapsed
}

// MaxSystemLength returns the largest system length observed for a positive duration.
func (sm *SimulatedMetrics) MaxSystemLength() int {
	m := 0
	for k, t := range sm.stateTime {
		if t > 0 && k > m {
			m = k
		}
	}
	return m
}

func (sm *SimulatedMetrics) String() string {
	return fmt.Sprintf("{c=%d, rho=%.4f, P0=%.5f, C=%.5f, Lq=%.5f, Ls=%.5f, Wq=%.5f, Ws=%.5f, T=%.3f, n=%d, complete=%v}",
		sm.NumServers, sm.Utilization, sm.State0Probability, sm.QueueProbability,
		sm.AvgQueueLength, sm.AvgSystemLength, sm.AvgQueueWaitingTime, sm.AvgSystemWaitingTime,
		sm.Elapsed, sm.Customers, sm.Complete)
}
