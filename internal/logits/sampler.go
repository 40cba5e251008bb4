package logits

import (
	"math"
	"math/rand"
)

// SamplerConfig configures the behaviour of a Sampler.
type SamplerConfig struct {
	Seed        int64
	Temperature float32
}

// Sampler draws token indices from raw logits. It is not safe for
// concurrent use; give each goroutine its own.
type Sampler struct {
	rng    *rand.Rand
	cfg    SamplerConfig
	scaled []float32
}

// NewSampler returns a sampler whose random source is seeded from cfg.Seed.
func NewSampler(cfg SamplerConfig) *Sampler {
	return NewSamplerWithRand(rand.New(rand.NewSource(cfg.Seed)), cfg)
}

// NewSamplerWithRand returns a sampler drawing from rng. cfg.Seed is ignored.
func NewSamplerWithRand(rng *rand.Rand, cfg SamplerConfig) *Sampler {
	if cfg.Temperature <= 0 {
		cfg.Temperature = 1
	}
	return &Sampler{rng: rng, cfg: cfg}
}

// Sample draws a single index from the provided logits vector:
//
//  1. Logits are scaled by the inverse temperature (skipped at 1).
//  2. A numerically stable softmax turns them into probabilities.
//  3. A uniform value in [0,1) selects an index by inverse CDF.
func (s *Sampler) Sample(logits []float32) int {
	in := logits
	if s.cfg.Temperature != 1 {
		if cap(s.scaled) < len(logits) {
			s.scaled = make([]float32, len(logits))
		}
		in = s.scaled[:len(logits)]
		inv := 1 / s.cfg.Temperature
		for i, l := range logits {
			in[i] = l * inv
		}
	}
	return Draw(Softmax(in), s.rng.Float64())
}

// Softmax converts logits to probabilities. The maximum logit is subtracted
// before exponentiating so large values cannot overflow. The result sums to
// 1 up to rounding; no second normalisation pass is made.
func Softmax(logits []float32) []float64 {
	probs := make([]float64, len(logits))
	if len(logits) == 0 {
		return probs
	}
	maxv := logits[0]
	for _, l := range logits[1:] {
		if l > maxv {
			maxv = l
		}
	}
	var sum float64
	for i, l := range logits {
		e := math.Exp(float64(l - maxv))
		probs[i] = e
		sum += e
	}
	if sum == 0 || math.IsNaN(sum) || math.IsInf(sum, 0) {
		// Leave the vector as is; Draw falls back to the last index.
		return probs
	}
	inv := 1 / sum
	for i := range probs {
		probs[i] *= inv
	}
	return probs
}

// Draw returns the first index with non-zero mass whose cumulative
// probability reaches r. When rounding keeps the running sum below r, or probs is degenerate
// (all zero or NaN), the last index is returned. Draw panics on an empty
// vector.
func Draw(probs []float64, r float64) int {
	if len(probs) == 0 {
		panic("logits: draw from empty distribution")
	}
	var c float64
	for i, p := range probs {
		c += p
		if p > 0 && r <= c {
			return i
		}
	}
	return len(probs) - 1
}
