package analyzer

import (
	"errors"
	"fmt"
	"math"

	"github.com/llm-d-incubation/mmc-queue-analyzer/pkg/config"
)

// small disturbance around a rate
const Epsilon = 0.001

// Performance targets of a queueing system (a zero value means no target)
type TargetPerf struct {
	MaxQueueWait        float64 `json:"maxQueueWait" yaml:"max_queue_wait"`               // upper bound on Wq
	MaxSystemWait       float64 `json:"maxSystemWait" yaml:"max_system_wait"`             // upper bound on Ws
	MaxQueueProbability float64 `json:"maxQueueProbability" yaml:"max_queue_probability"` // upper bound on Erlang-C
}

// MaxArrivalRate finds the largest arrival rate that c servers of rate mu sustain within the targets.
// Each target is searched independently and the smallest of the resulting rates is analyzed.
func MaxArrivalRate(c int, mu float64, target TargetPerf) (float64, *AnalyticMetrics, error) {
	if err := target.check(); err != nil {
		return 0, nil, err
	}
	probe := config.QueueSystemConfig{NumServers: c, ArrivalRate: mu, ServiceRate: mu}
	if err := probe.ValidateAnalytic(); err != nil {
		return 0, nil, err
	}

	capacity := float64(c) * mu
	lambdaMin := capacity * Epsilon
	lambdaMax := capacity * (1 - Epsilon)

	lambdaStar := lambdaMax
	for _, t := range target.bounds() {
		if t.limit == 0 {
			continue
		}
		eval := func(x float64) (float64, error) {
			am, err := Analyze(config.QueueSystemConfig{NumServers: c, ArrivalRate: x, ServiceRate: mu})
			if err != nil {
				return 0, err
			}
			return t.value(am), nil
		}
		x, ind, err := BinarySearch(lambdaMin, lambdaMax, t.limit, eval)
		if err == nil && ind < 0 {
			err = fmt.Errorf("target is below the bounded region")
		}
		if err != nil {
			return 0, nil, fmt.Errorf("failed to calculate max rate for %s=%v, range=[%.3f, %.3f], err=%w",
				t.name, t.limit, lambdaMin, lambdaMax, err)
		}
		lambdaStar = math.Min(lambdaStar, x)
	}

	am, err := Analyze(config.QueueSystemConfig{NumServers: c, ArrivalRate: lambdaStar, ServiceRate: mu})
	if err != nil {
		return 0, nil, err
	}
	return lambdaStar, am, nil
}

// MinServers finds the smallest number of servers, up to maxServers, meeting the targets at the given rates.
func MinServers(lambda, mu float64, target TargetPerf, maxServers int) (int, *AnalyticMetrics, error) {
	if err := target.check(); err != nil {
		return 0, nil, err
	}
	probe := config.QueueSystemConfig{NumServers: 1, ArrivalRate: lambda, ServiceRate: mu}
	if err := probe.ValidateAnalytic(); err != nil {
		return 0, nil, err
	}

	// smallest stable number of servers, up to rounding of lambda/mu
	first := int(math.Floor(lambda/mu)) + 1
	for c := first; c <= maxServers; c++ {
		am, err := Analyze(config.QueueSystemConfig{NumServers: c, ArrivalRate: lambda, ServiceRate: mu})
		if errors.Is(err, config.ErrUnstable) {
			continue
		}
		if err != nil {
			return 0, nil, err
		}
		if target.MetBy(am) {
			return c, am, nil
		}
	}
	return 0, nil, fmt.Errorf("no number of servers in [%d, %d] meets targets %s", first, maxServers, &target)
}

// MetBy reports whether the metrics satisfy all targets.
func (tp *TargetPerf) MetBy(am *AnalyticMetrics) bool {
	for _, t := range tp.bounds() {
		if t.limit > 0 && t.value(am) > t.limit {
			return false
		}
	}
	return true
}

type targetBound struct {
	name  string
	limit float64
	value func(*AnalyticMetrics) float64
}

func (tp *TargetPerf) bounds() []targetBound {
	return []targetBound{
		{"maxQueueWait", tp.MaxQueueWait, func(am *AnalyticMetrics) float64 { return am.AvgQueueWaitingTime }},
		{"maxSystemWait", tp.MaxSystemWait, func(am *AnalyticMetrics) float64 { return am.AvgSystemWaitingTime }},
		{"maxQueueProbability", tp.MaxQueueProbability, func(am *AnalyticMetrics) float64 { return am.QueueProbability }},
	}
}

// check validity of target values
func (tp *TargetPerf) check() error {
	if tp.MaxQueueWait < 0 || tp.MaxSystemWait < 0 || tp.MaxQueueProbability < 0 || tp.MaxQueueProbability > 1 {
		return fmt.Errorf("%w: invalid target data values %s", config.ErrConfig, tp)
	}
	return nil
}

func (tp *TargetPerf) String() string {
	return fmt.Sprintf("{Wq=%.4f, Ws=%.4f, C=%.4f}", tp.MaxQueueWait, tp.MaxSystemWait, tp.MaxQueueProbability)
}
