package config

import "time"

// Parameters of an M/M/c queueing system
type QueueSystemConfig struct {
	NumServers   int     `json:"numServers" yaml:"num_servers"`     // number of identical servers (c)
	ArrivalRate  float64 `json:"arrivalRate" yaml:"arrival_rate"`   // Poisson arrival rate (lambda)
	ServiceRate  float64 `json:"serviceRate" yaml:"service_rate"`   // exponential service rate per server (mu)
	NumCustomers int     `json:"numCustomers" yaml:"num_customers"` // customers driven through a simulation run
}

// Limits and randomness of a single simulation run
type SimulationOptions struct {
	Seed            uint64        `json:"seed" yaml:"seed"`                         // seed of the random source
	MaxQueueLength  int           `json:"maxQueueLength" yaml:"max_queue_length"`   // stop when the queue grows beyond this (0 = no limit)
	MaxHorizon      float64       `json:"maxHorizon" yaml:"max_horizon"`            // stop when virtual time passes this (0 = no limit)
	WallClockBudget time.Duration `json:"wallClockBudget" yaml:"wall_clock_budget"` // stop after this much real time (0 = no limit)
	AllowUnstable   bool          `json:"allowUnstable" yaml:"allow_unstable"`      // accept rho >= 1 when a ceiling is set
}

// Content of a configuration file
type File struct {
	System     QueueSystemConfig `json:"system" yaml:"system"`
	Simulation SimulationOptions `json:"simulation" yaml:"simulation"`
}
