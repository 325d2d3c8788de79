package simulator

import (
	"context"
	"math/rand/v2"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/llm-d-incubation/mmc-queue-analyzer/pkg/config"
)

var _ = Describe("Simulator", func() {
	var (
		ctx  context.Context
		cfg  config.QueueSystemConfig
		opts config.SimulationOptions
	)

	BeforeEach(func() {
		ctx = context.Background()
		cfg = config.QueueSystemConfig{
			NumServers:   3,
			ArrivalRate:  2.4,
			ServiceRate:  1.0,
			NumCustomers: 2000,
		}
		opts = config.SimulationOptions{Seed: 42}
	})

	newSim := func() *Simulator {
		s, err := New(cfg, opts, WithLogger(zap.NewNop().Sugar()))
		Expect(err).NotTo(HaveOccurred())
		return s
	}

	Context("a stable system run to completion", func() {
		var out *SimulationOutput

		BeforeEach(func() {
			var err error
			out, err = newSim().Run(ctx)
			Expect(err).NotTo(HaveOccurred())
		})

		It("reports a complete run", func() {
			Expect(out.Complete).To(BeTrue())
			Expect(out.StopReason).To(Equal(StopCompleted))
			Expect(out.Arrived).To(Equal(cfg.NumCustomers))
			Expect(out.Departed).To(Equal(cfg.NumCustomers))
			Expect(out.QueueWaitingTimes).To(HaveLen(cfg.NumCustomers))
			Expect(out.SystemWaitingTimes).To(HaveLen(cfg.NumCustomers))
		})

		It("opens and closes the history with an empty system", func() {
			first := out.CustomersHistory[0]
			Expect(first).To(Equal(OccupancySample{}))
			last := out.CustomersHistory[len(out.CustomersHistory)-1]
			Expect(last.ServersBusy).To(BeZero())
			Expect(last.QueueLength).To(BeZero())
			Expect(last.Timestamp).To(Equal(out.Clock))
		})

		It("keeps every sample within bounds and in time order", func() {
			prev := 0.0
			for i, s := range out.CustomersHistory {
				Expect(s.Timestamp).To(BeNumerically(">=", prev), "sample %d", i)
				Expect(s.ServersBusy).To(BeNumerically(">=", 0))
				Expect(s.ServersBusy).To(BeNumerically("<=", cfg.NumServers))
				Expect(s.QueueLength).To(BeNumerically(">=", 0))
				prev = s.Timestamp
			}
		})

		It("records non-negative waits with system wait covering queue wait", func() {
			for i := range out.QueueWaitingTimes {
				Expect(out.QueueWaitingTimes[i]).To(BeNumerically(">=", 0))
				Expect(out.SystemWaitingTimes[i]).To(BeNumerically(">=", out.QueueWaitingTimes[i]))
			}
		})
	})

	It("is reproducible for a fixed seed", func() {
		a, err := newSim().Run(ctx)
		Expect(err).NotTo(HaveOccurred())
		b, err := newSim().Run(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(b).To(Equal(a))

		opts.Seed = 43
		c, err := newSim().Run(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(c.SystemWaitingTimes).NotTo(Equal(a.SystemWaitingTimes))
	})

	It("replays the seeded stream when the same source is injected", func() {
		seeded, err := newSim().Run(ctx)
		Expect(err).NotTo(HaveOccurred())

		s, err := New(cfg, opts, WithLogger(zap.NewNop().Sugar()),
			WithRandSource(rand.NewPCG(opts.Seed, opts.Seed^pcgStream)))
		Expect(err).NotTo(HaveOccurred())
		injected, err := s.Run(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(injected).To(Equal(seeded))

		// the injected source is not reset between runs
		again, err := s.Run(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(again.SystemWaitingTimes).NotTo(Equal(seeded.SystemWaitingTimes))
	})

	Context("ceilings", func() {
		BeforeEach(func() {
			cfg = config.QueueSystemConfig{
				NumServers:   1,
				ArrivalRate:  10,
				ServiceRate:  1,
				NumCustomers: 100000,
			}
		})

		It("rejects an unstable system unless allowed", func() {
			_, err := New(cfg, opts)
			Expect(err).To(MatchError(config.ErrUnstable))
		})

		It("stops at the queue length ceiling", func() {
			opts.AllowUnstable = true
			opts.MaxQueueLength = 50
			out, err := newSim().Run(ctx)
			Expect(err).To(MatchError(config.ErrResourceExhausted))
			Expect(out).NotTo(BeNil())
			Expect(out.Complete).To(BeFalse())
			Expect(out.StopReason).To(Equal(StopQueueLimit))
			Expect(out.CustomersHistory[len(out.CustomersHistory)-1].QueueLength).To(Equal(51))
			Expect(out.Arrived).To(BeNumerically("<", cfg.NumCustomers))
		})

		It("stops at the horizon", func() {
			opts.AllowUnstable = true
			opts.MaxHorizon = 25
			out, err := newSim().Run(ctx)
			Expect(err).To(MatchError(config.ErrResourceExhausted))
			Expect(out.StopReason).To(Equal(StopHorizon))
			Expect(out.Clock).To(BeNumerically("<=", 25))
			for _, s := range out.CustomersHistory {
				Expect(s.Timestamp).To(BeNumerically("<=", 25))
			}
		})

		It("stops when the wall clock budget is spent", func() {
			opts.AllowUnstable = true
			opts.MaxHorizon = 1e12
			opts.WallClockBudget = time.Nanosecond
			cfg.NumCustomers = 10000000
			out, err := newSim().Run(ctx)
			Expect(err).To(MatchError(config.ErrResourceExhausted))
			Expect(out.StopReason).To(Equal(StopWallClock))
			Expect(out.Complete).To(BeFalse())
		})
	})

	It("returns the partial output on cancellation", func() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		out, err := newSim().Run(cctx)
		Expect(err).To(MatchError(context.Canceled))
		Expect(out.StopReason).To(Equal(StopCancelled))
		Expect(out.Complete).To(BeFalse())
		Expect(out.CustomersHistory).To(Equal([]OccupancySample{{}}))
	})

	It("rejects invalid input", func() {
		cfg.NumCustomers = 0
		_, err := New(cfg, opts)
		Expect(err).To(MatchError(config.ErrConfig))

		cfg.NumCustomers = 10
		opts.MaxQueueLength = -1
		_, err = New(cfg, opts)
		Expect(err).To(MatchError(config.ErrConfig))
	})
})
