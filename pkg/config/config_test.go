package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueSystemConfig_Validate(t *testing.T) {
	valid := QueueSystemConfig{NumServers: 2, ArrivalRate: 5, ServiceRate: 6, NumCustomers: 100}

	tests := []struct {
		name      string
		mutate    func(c *QueueSystemConfig)
		wantField string
	}{
		{name: "valid", mutate: func(c *QueueSystemConfig) {}},
		{name: "zero servers", mutate: func(c *QueueSystemConfig) { c.NumServers = 0 }, wantField: "num_servers"},
		{name: "negative servers", mutate: func(c *QueueSystemConfig) { c.NumServers = -3 }, wantField: "num_servers"},
		{name: "zero arrival rate", mutate: func(c *QueueSystemConfig) { c.ArrivalRate = 0 }, wantField: "arrival_rate"},
		{name: "NaN arrival rate", mutate: func(c *QueueSystemConfig) { c.ArrivalRate = math.NaN() }, wantField: "arrival_rate"},
		{name: "infinite service rate", mutate: func(c *QueueSystemConfig) { c.ServiceRate = math.Inf(1) }, wantField: "service_rate"},
		{name: "negative service rate", mutate: func(c *QueueSystemConfig) { c.ServiceRate = -1 }, wantField: "service_rate"},
		{name: "zero customers", mutate: func(c *QueueSystemConfig) { c.NumCustomers = 0 }, wantField: "num_customers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrConfig)
			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.wantField, cfgErr.Field)
		})
	}
}

func TestQueueSystemConfig_ValidateAnalyticIgnoresCustomers(t *testing.T) {
	c := QueueSystemConfig{NumServers: 1, ArrivalRate: 1, ServiceRate: 2}
	assert.NoError(t, c.ValidateAnalytic())
	assert.ErrorIs(t, c.Validate(), ErrConfig)
}

func TestQueueSystemConfig_Stability(t *testing.T) {
	stable := QueueSystemConfig{NumServers: 2, ArrivalRate: 5, ServiceRate: 6}
	assert.InDelta(t, 5.0/12.0, stable.Utilization(), 1e-12)
	assert.InDelta(t, 5.0/6.0, stable.OfferedLoad(), 1e-12)
	assert.True(t, stable.IsStable())
	assert.NoError(t, stable.CheckStability())

	unstable := QueueSystemConfig{NumServers: 1, ArrivalRate: 10, ServiceRate: 5}
	assert.InDelta(t, 2.0, unstable.Utilization(), 1e-12)
	assert.False(t, unstable.IsStable())
	assert.ErrorIs(t, unstable.CheckStability(), ErrUnstable)

	critical := QueueSystemConfig{NumServers: 3, ArrivalRate: 3, ServiceRate: 1}
	assert.ErrorIs(t, critical.CheckStability(), ErrUnstable)
}

func TestSimulationOptions_Validate(t *testing.T) {
	tests := []struct {
		name    string
		opts    SimulationOptions
		wantErr bool
	}{
		{name: "defaults", opts: SimulationOptions{}},
		{name: "all ceilings", opts: SimulationOptions{MaxQueueLength: 10, MaxHorizon: 100, WallClockBudget: time.Second}},
		{name: "unstable with queue ceiling", opts: SimulationOptions{AllowUnstable: true, MaxQueueLength: 50}},
		{name: "unstable with horizon", opts: SimulationOptions{AllowUnstable: true, MaxHorizon: 50}},
		{name: "unstable without ceiling", opts: SimulationOptions{AllowUnstable: true, WallClockBudget: time.Second}, wantErr: true},
		{name: "negative queue ceiling", opts: SimulationOptions{MaxQueueLength: -1}, wantErr: true},
		{name: "infinite horizon", opts: SimulationOptions{MaxHorizon: math.Inf(1)}, wantErr: true},
		{name: "negative budget", opts: SimulationOptions{WallClockBudget: -time.Second}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParse(t *testing.T) {
	data := []byte(`
system:
  num_servers: 4
  arrival_rate: 3.5
  service_rate: 1.25
  num_customers: 500
simulation:
  seed: 7
  max_queue_length: 20
  wall_clock_budget: 1500ms
`)
	f, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, QueueSystemConfig{NumServers: 4, ArrivalRate: 3.5, ServiceRate: 1.25, NumCustomers: 500}, f.System)
	assert.Equal(t, uint64(7), f.Simulation.Seed)
	assert.Equal(t, 20, f.Simulation.MaxQueueLength)
	assert.Equal(t, 1500*time.Millisecond, f.Simulation.WallClockBudget)
}

func TestParse_Defaults(t *testing.T) {
	f, err := Parse([]byte("system:\n  num_servers: 1\n  arrival_rate: 1\n  service_rate: 2\n"))
	require.NoError(t, err)
	assert.Equal(t, DefaultNumCustomers, f.System.NumCustomers)
	assert.Equal(t, DefaultSeed, f.Simulation.Seed)

	empty, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultFile(), empty)
}

func TestParse_RejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("system:\n  servers: 2\n"))
	assert.ErrorIs(t, err, ErrConfig)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mmc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("system:\n  num_servers: 2\n  arrival_rate: 5\n  service_rate: 6\n"), 0o600))

	f, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, f.System.NumServers)
	assert.NoError(t, f.System.Validate())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
