package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// check validity of configuration parameters, including the number of customers
func (c QueueSystemConfig) Validate() error {
	if err := c.ValidateAnalytic(); err != nil {
		return err
	}
	if c.NumCustomers < 1 {
		return newConfigError("num_customers", c.NumCustomers, "must be >= 1")
	}
	return nil
}

// check validity of the parameters used by the analytic model (number of customers ignored)
func (c QueueSystemConfig) ValidateAnalytic() error {
	if c.NumServers < 1 {
		return newConfigError("num_servers", c.NumServers, "must be >= 1")
	}
	if !positive(c.ArrivalRate) {
		return newConfigError("arrival_rate", c.ArrivalRate, "must be a positive number")
	}
	if !positive(c.ServiceRate) {
		return newConfigError("service_rate", c.ServiceRate, "must be a positive number")
	}
	return nil
}

// server utilization rho = lambda / (c * mu)
func (c QueueSystemConfig) Utilization() float64 {
	return c.ArrivalRate / (float64(c.NumServers) * c.ServiceRate)
}

// offered load a = lambda / mu = c * rho (expected number of busy servers)
func (c QueueSystemConfig) OfferedLoad() float64 {
	return c.ArrivalRate / c.ServiceRate
}

func (c QueueSystemConfig) IsStable() bool {
	return c.Utilization() < 1
}

// CheckStability returns an error wrapping ErrUnstable when rho >= 1.
func (c QueueSystemConfig) CheckStability() error {
	if rho := c.Utilization(); !(rho < 1) {
		return fmt.Errorf("%w: rho=%.4f (lambda=%v, c=%d, mu=%v)", ErrUnstable, rho, c.ArrivalRate, c.NumServers, c.ServiceRate)
	}
	return nil
}

// check validity of simulation options
func (o SimulationOptions) Validate() error {
	if o.MaxQueueLength < 0 {
		return newConfigError("max_queue_length", o.MaxQueueLength, "must be >= 0")
	}
	if o.MaxHorizon < 0 || math.IsNaN(o.MaxHorizon) || math.IsInf(o.MaxHorizon, 0) {
		return newConfigError("max_horizon", o.MaxHorizon, "must be a finite number >= 0")
	}
	if o.WallClockBudget < 0 {
		return newConfigError("wall_clock_budget", o.WallClockBudget, "must be >= 0")
	}
	if o.AllowUnstable && !o.Bounded() {
		return newConfigError("allow_unstable", o.AllowUnstable, "requires max_queue_length or max_horizon")
	}
	return nil
}

// Bounded reports whether a queue length or horizon ceiling is set.
func (o SimulationOptions) Bounded() bool {
	return o.MaxQueueLength > 0 || o.MaxHorizon > 0
}

// DefaultFile returns a file with default simulation settings and an empty system.
func DefaultFile() *File {
	return &File{
		System:     QueueSystemConfig{NumCustomers: DefaultNumCustomers},
		Simulation: SimulationOptions{Seed: DefaultSeed},
	}
}

// LoadFile reads a YAML configuration file on top of the defaults.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return f, nil
}

// Parse decodes YAML configuration on top of the defaults; unknown fields are rejected.
func Parse(data []byte) (*File, error) {
	f := DefaultFile()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	return f, nil
}

func positive(x float64) bool {
	return x > 0 && !math.IsInf(x, 0)
}

/*
 * toString() functions
 */

func (c QueueSystemConfig) String() string {
	return fmt.Sprintf("{c=%d, lambda=%v, mu=%v, customers=%d}",
		c.NumServers, c.ArrivalRate, c.ServiceRate, c.NumCustomers)
}

func (o SimulationOptions) String() string {
	return fmt.Sprintf("{seed=%d, maxQueue=%d, horizon=%v, budget=%v, allowUnstable=%v}",
		o.Seed, o.MaxQueueLength, o.MaxHorizon, o.WallClockBudget, o.AllowUnstable)
}
