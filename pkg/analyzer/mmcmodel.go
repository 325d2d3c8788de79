package analyzer

import (
	"bytes"
	"fmt"
	"math"

	"github.com/llm-d-incubation/mmc-queue-analyzer/pkg/config"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mathext"
)

// M/M/c queue: c identical servers, Poisson arrivals, exponential service, unlimited waiting room.
//
// State probabilities are kept in log domain so that a^k/k! never overflows:
// the k-th term is accumulated as ln(a^(k-1)/(k-1)!) + ln(a) - ln(k).
// Beyond maxTermServers the head of the sum, e^a Q(c, a), comes from the
// regularized upper incomplete gamma function and no per-server storage is kept.
type MMCModel struct {
	QueueModel         // extends base class
	C          int     // number of servers
	logA       float64 // ln of offered load a = lambda/mu
	logP0      float64 // ln of probability of an empty system
	queueProb  float64 // Erlang-C probability that an arrival waits
	logTerms   []float64
}

func NewMMCModel(c int) *MMCModel {
	m := &MMCModel{
		QueueModel: QueueModel{},
		C:          c,
	}
	if c <= maxTermServers {
		m.logTerms = make([]float64, max(c, 0)+1)
	}
	m.QueueModel.GetRhoMax = m.GetRhoMax
	m.QueueModel.ComputeRho = m.ComputeRho
	m.QueueModel.computeStatistics = m.computeStatistics
	return m
}

// Solve queueing model given arrival and (per server) service rates
func (m *MMCModel) Solve(lambda float64, mu float64) {
	m.QueueModel.Solve(lambda, mu)
	if m.C < 1 {
		m.isValid = false
	}
}

// Compute utilization of queueing model
func (m *MMCModel) ComputeRho() float64 {
	if m.C < 1 {
		return math.Inf(1)
	}
	return m.lambda / (float64(m.C) * m.mu)
}

// Compute the maximum utilization of queueing model
func (m *MMCModel) GetRhoMax() float64 {
	return 1
}

// largest number of servers whose terms are summed one by one
const maxTermServers = 1 << 16

// Compute the normalizing constant and Erlang-C probability
func (m *MMCModel) computeProbabilities() {
	a := m.lambda / m.mu
	m.logA = math.Log(a)

	// terms k = 0, ..., c-1 of the sum, then the tail term a^c/(c! (1-rho))
	var logHead, logAc float64
	if m.logTerms != nil {
		m.logTerms[0] = 0
		for k := 1; k <= m.C; k++ {
			m.logTerms[k] = m.logTerms[k-1] + m.logA - math.Log(float64(k))
		}
		logAc = m.logTerms[m.C]
		logHead = floats.LogSumExp(m.logTerms[:m.C])
	} else {
		lg, _ := math.Lgamma(float64(m.C + 1))
		logAc = float64(m.C)*m.logA - lg
		logHead = a + math.Log(mathext.GammaIncRegComp(float64(m.C), a))
	}
	logTail := logAc - math.Log1p(-m.rho)

	logDen := floats.LogSumExp([]float64{logHead, logTail})
	m.logP0 = -logDen
	m.queueProb = math.Exp(logTail - logDen)
}

// Evaluate performance measures of queueing model
func (m *MMCModel) computeStatistics() {
	if !m.isValid {
		return
	}
	m.computeProbabilities()
	a := m.lambda / m.mu
	m.avgQueueLength = m.queueProb * m.rho / (1 - m.rho)
	m.avgNumInSystem = m.avgQueueLength + a
	m.avgWaitTime = m.avgQueueLength / m.lambda
	m.avgRespTime = m.avgNumInSystem / m.lambda
	m.avgServTime = 1 / m.mu
}

func (m *MMCModel) GetQueueProbability() float64 {
	return m.queueProb
}

func (m *MMCModel) GetState0Probability() float64 {
	return math.Exp(m.logP0)
}

// average number of busy servers
func (m *MMCModel) GetAvgNumInServers() float64 {
	return m.avgNumInSystem - m.avgQueueLength
}

// Metrics returns an immutable snapshot of the solved model.
func (m *MMCModel) Metrics() (*AnalyticMetrics, error) {
	if !m.isValid {
		if m.C >= 1 && m.lambda > 0 && m.mu > 0 && m.rho >= m.GetRhoMax() {
			return nil, fmt.Errorf("%w: %s", config.ErrUnstable, m)
		}
		return nil, fmt.Errorf("%w: invalid model %s", config.ErrConfig, m)
	}
	return &AnalyticMetrics{
		NumServers:           m.C,
		ArrivalRate:          m.lambda,
		ServiceRate:          m.mu,
		Utilization:          m.rho,
		OfferedLoad:          m.lambda / m.mu,
		State0Probability:    m.GetState0Probability(),
		QueueProbability:     m.queueProb,
		AvgQueueLength:       m.avgQueueLength,
		AvgSystemLength:      m.avgNumInSystem,
		AvgQueueWaitingTime:  m.avgWaitTime,
		AvgSystemWaitingTime: m.avgRespTime,
		AvgServiceTime:       m.avgServTime,
		logP0:                m.logP0,
		logA:                 m.logA,
		logRho:               math.Log(m.rho),
	}, nil
}

func (m *MMCModel) String() string {
	var b bytes.Buffer
	b.WriteString("MMCModel: ")
	b.WriteString(m.QueueModel.String())
	fmt.Fprintf(&b, "c=%d; ", m.C)
	if m.isValid {
		fmt.Fprintf(&b, "P0=%v; C=%v; ", m.GetState0Probability(), m.queueProb)
	}
	return b.String()
}
