package simulator

import "fmt"

// Occupancy of the system right after a state transition
type OccupancySample struct {
	Timestamp   float64 `json:"timestamp" yaml:"timestamp"`
	ServersBusy int     `json:"serversBusy" yaml:"servers_busy"`
	QueueLength int     `json:"queueLength" yaml:"queue_length"`
}

// number of customers in the system (in service + waiting)
func (s OccupancySample) SystemLength() int {
	return s.ServersBusy + s.QueueLength
}

// Why a run ended
type StopReason string

const (
	StopCompleted  StopReason = "completed"   // all customers departed
	StopQueueLimit StopReason = "queue-limit" // queue grew beyond the configured ceiling
	StopHorizon    StopReason = "horizon"     // next event lies beyond the simulated horizon
	StopWallClock  StopReason = "wall-clock"  // real time budget spent
	StopCancelled  StopReason = "cancelled"   // context cancelled
)

// Result of one simulation run; partial when Complete is false
type SimulationOutput struct {
	CustomersHistory   []OccupancySample `json:"customersHistory" yaml:"customers_history"`
	QueueWaitingTimes  []float64         `json:"queueWaitingTimes" yaml:"queue_waiting_times"`
	SystemWaitingTimes []float64         `json:"systemWaitingTimes" yaml:"system_waiting_times"`

	Complete   bool       `json:"complete" yaml:"complete"`
	StopReason StopReason `json:"stopReason" yaml:"stop_reason"`
	Arrived    int        `json:"arrived" yaml:"arrived"`   // customers that arrived
	Departed   int        `json:"departed" yaml:"departed"` // customers that departed
	Clock      float64    `json:"clock" yaml:"clock"`       // virtual time of the last processed event
}

func (o *SimulationOutput) String() string {
	return fmt.Sprintf("{complete=%v, reason=%s, arrived=%d, departed=%d, clock=%.3f, samples=%d}",
		o.Complete, o.StopReason, o.Arrived, o.Departed, o.Clock, len(o.CustomersHistory))
}
