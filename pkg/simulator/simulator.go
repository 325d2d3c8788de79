package simulator

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/llm-d-incubation/mmc-queue-analyzer/internal/logger"
	"github.com/llm-d-incubation/mmc-queue-analyzer/pkg/config"
)

// Simulator runs discrete-event simulations of one M/M/c configuration.
type Simulator struct {
	cfg     config.QueueSystemConfig
	opts    config.SimulationOptions
	log     *zap.SugaredLogger
	src     rand.Source // injected source, used instead of the seed when set
	running atomic.Bool
}

// Option customizes a Simulator.
type Option func(*Simulator)

// WithLogger sets the logger of the simulator.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(s *Simulator) {
		s.log = log
	}
}

// WithRandSource replaces the seeded source; draws continue from it across runs.
func WithRandSource(src rand.Source) Option {
	return func(s *Simulator) {
		s.src = src
	}
}

// New validates the configuration and options and creates a simulator.
// An unstable configuration (rho >= 1) is rejected unless opts.AllowUnstable is set with a ceiling.
func New(cfg config.QueueSystemConfig, opts config.SimulationOptions, options ...Option) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if !opts.AllowUnstable {
		if err := cfg.CheckStability(); err != nil {
			return nil, err
		}
	}
	s := &Simulator{
		cfg:  cfg,
		opts: opts,
	}
	for _, o := range options {
		o(s)
	}
	if s.log == nil {
		s.log = logger.Named(logger.ComponentSimulator)
	}
	return s, nil
}

func (s *Simulator) Config() config.QueueSystemConfig {
	return s.cfg
}

func (s *Simulator) Options() config.SimulationOptions {
	return s.opts
}

// Run drives all customers through the server pool and returns the run output.
//
// When a ceiling stops the run early, the partial output is returned together with an
// error wrapping config.ErrResourceExhausted; on context cancellation, with the context error.
// Partial outputs have Complete set to false.
func (s *Simulator) Run(ctx context.Context) (*SimulationOutput, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, errors.New("simulation already running")
	}
	defer s.running.Store(false)

	src := s.src
	if src == nil {
		src = newSeededSource(s.opts.Seed)
	}
	r := newRun(s.cfg, rand.New(src))

	s.log.Infow("simulation started", "config", s.cfg.String(), "options", s.opts.String())
	start := time.Now()
	out, err := r.loop(ctx, s.opts, start)
	if err != nil && out == nil {
		return nil, err
	}
	fields := []any{
		"reason", out.StopReason, "arrived", out.Arrived, "departed", out.Departed,
		"clock", out.Clock, "samples", len(out.CustomersHistory), "elapsed", time.Since(start),
	}
	if out.Complete {
		s.log.Infow("simulation completed", fields...)
	} else {
		s.log.Warnw("simulation stopped early", append(fields, "error", err)...)
	}
	return out, err
}

// state of a single run
type run struct {
	numCustomers int
	now          float64
	seq          uint64
	events       eventQueue
	pool         *ServerPool
	interArrival *expSampler
	service      *expSampler
	out          *SimulationOutput
}

// upper bound on preallocated output, larger runs grow by append
const maxPrealloc = 1 << 16

func newRun(cfg config.QueueSystemConfig, rng *rand.Rand) *run {
	n := min(cfg.NumCustomers, maxPrealloc)
	return &run{
		numCustomers: cfg.NumCustomers,
		pool:         NewServerPool(cfg.NumServers),
		interArrival: newExpSampler(cfg.ArrivalRate, rng),
		service:      newExpSampler(cfg.ServiceRate, rng),
		out: &SimulationOutput{
			CustomersHistory:   make([]OccupancySample, 0, 3*n+1),
			QueueWaitingTimes:  make([]float64, 0, n),
			SystemWaitingTimes: make([]float64, 0, n),
		},
	}
}

func (r *run) loop(ctx context.Context, opts config.SimulationOptions, start time.Time) (*SimulationOutput, error) {
	r.record()
	r.schedule(r.interArrival.draw(), arrivalEvent, nil)

	for r.events.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return r.stop(StopCancelled, err)
		}
		if opts.WallClockBudget > 0 && time.Since(start) > opts.WallClockBudget {
			return r.stop(StopWallClock, fmt.Errorf("%w: wall clock budget %v spent at virtual time %.3f",
				config.ErrResourceExhausted, opts.WallClockBudget, r.now))
		}
		if opts.MaxHorizon > 0 && r.events[0].at > opts.MaxHorizon {
			return r.stop(StopHorizon, fmt.Errorf("%w: horizon %v reached with %d of %d customers departed",
				config.ErrResourceExhausted, opts.MaxHorizon, r.out.Departed, r.numCustomers))
		}

		ev := r.events.pop()
		r.now = ev.at
		var err error
		switch ev.kind {
		case arrivalEvent:
			err = r.handleArrival()
		case departureEvent:
			err = r.handleDeparture(ev.customer)
		default:
			err = fmt.Errorf("unknown event kind %v", ev.kind)
		}
		if err != nil {
			return nil, fmt.Errorf("event %s at %.6f: %w", ev.kind, ev.at, err)
		}

		if opts.MaxQueueLength > 0 && r.pool.QueueLength() > opts.MaxQueueLength {
			return r.stop(StopQueueLimit, fmt.Errorf("%w: queue length %d exceeds %d at virtual time %.3f",
				config.ErrResourceExhausted, r.pool.QueueLength(), opts.MaxQueueLength, r.now))
		}
	}
	if r.out.Departed != r.numCustomers {
		return nil, fmt.Errorf("event queue drained with %d of %d customers departed", r.out.Departed, r.numCustomers)
	}
	r.out.Complete = true
	r.out.StopReason = StopCompleted
	r.out.Clock = r.now
	return r.out, nil
}

// Pending -> Waiting, then an immediate attempt to take a server
func (r *run) handleArrival() error {
	c := &customer{id: r.out.Arrived, arrivalTime: r.now}
	r.out.Arrived++
	if r.out.Arrived < r.numCustomers {
		r.schedule(r.now+r.interArrival.draw(), arrivalEvent, nil)
	}

	if err := c.advance(CustomerWaiting); err != nil {
		return err
	}
	r.pool.enqueue(c)
	r.record()

	if r.pool.HasIdleServer() {
		return r.startService()
	}
	return nil
}

// InService -> Departed, then promotion of the longest-waiting customer
func (r *run) handleDeparture(c *customer) error {
	if err := r.pool.release(); err != nil {
		return err
	}
	c.departureTime = r.now
	if err := c.advance(CustomerDeparted); err != nil {
		return err
	}
	r.record()
	r.out.QueueWaitingTimes = append(r.out.QueueWaitingTimes, c.queueWait())
	r.out.SystemWaitingTimes = append(r.out.SystemWaitingTimes, c.systemWait())
	r.out.Departed++

	if r.pool.QueueLength() > 0 {
		return r.startService()
	}
	return nil
}

// Waiting -> InService for the head of the queue; the service time is drawn now
func (r *run) startService() error {
	c, err := r.pool.acquire()
	if err != nil {
		return err
	}
	c.serviceStartTime = r.now
	if err := c.advance(CustomerInService); err != nil {
		return err
	}
	r.record()
	r.schedule(r.now+r.service.draw(), departureEvent, c)
	return nil
}

func (r *run) schedule(at float64, kind eventKind, c *customer) {
	r.seq++
	r.events.push(&event{at: at, seq: r.seq, kind: kind, customer: c})
}

func (r *run) record() {
	r.out.CustomersHistory = append(r.out.CustomersHistory, r.pool.snapshot(r.now))
}

func (r *run) stop(reason StopReason, err error) (*SimulationOutput, error) {
	r.out.Complete = false
	r.out.StopReason = reason
	r.out.Clock = r.now
	return r.out, err
}
