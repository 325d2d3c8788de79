package analyzer

import (
	"bytes"
	"fmt"
)

// Basic Queueing Model (Abstract Class)
type QueueModel struct {
	lambda float64 // arrival rate
	mu     float64 // service rate (per server)
	rho    float64 // utilization

	avgRespTime    float64 // average response time (waiting + service)
	avgWaitTime    float64 // average waiting time
	avgServTime    float64 // average service time
	avgNumInSystem float64 // average total number of customers in system (waiting + in service)
	avgQueueLength float64 // average queue length
	isValid        bool    // validity of input data

	ComputeRho        func() float64 // compute utilization of queueing model
	GetRhoMax         func() float64 // compute the maximum utilization of queueing model
	computeStatistics func()         // evaluate performance measures of queueing model
}

// Solve queueing model given arrival and service rates
func (m *QueueModel) Solve(lambda float64, mu float64) {
	m.lambda = lambda
	m.mu = mu
	m.isValid = false
	if !(lambda > 0) || !(mu > 0) {
		m.rho = 0
		return
	}
	m.rho = m.ComputeRho()
	if m.rho < 0 || !(m.rho < m.GetRhoMax()) {
		return
	}
	m.isValid = true
	m.computeStatistics()
}

func (m *QueueModel) IsValid() bool {
	return m.isValid
}

func (m *QueueModel) GetLambda() float64 {
	return m.lambda
}

func (m *QueueModel) GetMu() float64 {
	return m.mu
}

func (m *QueueModel) GetRho() float64 {
	return m.rho
}

func (m *QueueModel) GetAvgQueueLength() float64 {
	return m.avgQueueLength
}

func (m *QueueModel) GetAvgNumInSystem() float64 {
	return m.avgNumInSystem
}

func (m *QueueModel) GetAvgWaitTime() float64 {
	return m.avgWaitTime
}

func (m *QueueModel) GetAvgServTime() float64 {
	return m.avgServTime
}

func (m *QueueModel) GetAvgRespTime() float64 {
	return m.avgRespTime
}

func (m *QueueModel) String() string {
	var b bytes.Buffer
	fmt.Fprintf(&b, "isValid=%v; ", m.isValid)
	fmt.Fprintf(&b, "lambda=%v; mu=%v; rho=%v; ", m.lambda, m.mu, m.rho)
	if m.isValid {
		fmt.Fprintf(&b, "T=%v; W=%v; X=%v; ", m.avgRespTime, m.avgWaitTime, m.avgServTime)
		fmt.Fprintf(&b, "N=%v; Q=%v; ", m.avgNumInSystem, m.avgQueueLength)
	}
	return b.String()
}
