package simulator

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// second PCG word, fixed so that a seed alone identifies the stream
const pcgStream uint64 = 0x9e3779b97f4a7c15

func newSeededSource(seed uint64) rand.Source {
	return rand.NewPCG(seed, seed^pcgStream)
}

// exponential variates by inverse transform of uniforms drawn from the run's generator
type expSampler struct {
	dist distuv.Exponential
	rng  *rand.Rand
}

func newExpSampler(rate float64, rng *rand.Rand) *expSampler {
	return &expSampler{
		dist: distuv.Exponential{Rate: rate},
		rng:  rng,
	}
}

func (e *expSampler) draw() float64 {
	return e.dist.Quantile(e.rng.Float64())
}
