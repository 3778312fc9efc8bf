// Package noise draws reproducible innovation sequences for the simulators.
//
// Generators are PCG (math/rand/v2). A seed s initialises the PCG state as
// (s, s^0x9E3779B97F4A7C15); the same seed always yields the same stream.
// Normal deviates come from (*rand.Rand).NormFloat64. Student-t deviates are
// Z / sqrt(V/nu) where V = 2*Gamma(nu/2) is drawn with Marsaglia-Tsang, Z
// being drawn before the gamma variates.
package noise

import (
	"math"
	"math/rand/v2"

	"MarketSandbox/internal/model"
)

const seedMix = 0x9E3779B97F4A7C15

// NewSource returns a generator owned by the caller. A nil seed gives an
// unpredictable stream.
func NewSource(seed *uint64) *rand.Rand {
	if seed == nil {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(*seed, *seed^seedMix))
}

// Sampler draws scaled innovations from its generator. It is not safe for
// concurrent use; give each call its own Sampler.
type Sampler struct {
	rng *rand.Rand
}

// NewSampler wraps a generator created by NewSource.
func NewSampler(rng *rand.Rand) *Sampler {
	return &Sampler{rng: rng}
}

// Seeded is shorthand for NewSampler(NewSource(seed)).
func Seeded(seed *uint64) *Sampler {
	return NewSampler(NewSource(seed))
}

// Rand exposes the underlying generator for auxiliary draws (shock tests,
// sign selection) that must share the same stream.
func (s *Sampler) Rand() *rand.Rand { return s.rng }

// Sample draws count innovations from the given family.
func (s *Sampler) Sample(dist model.Distribution, count, nu int, scale float64) []float64 {
	if dist == model.DistStudentT {
		return s.StudentT(count, nu, scale)
	}
	return s.Normal(count, scale)
}

// Normal draws count N(0, scale^2) innovations.
func (s *Sampler) Normal(count int, scale float64) []float64 {
	out := make([]float64, count)
	for i := range out {
		out[i] = s.rng.NormFloat64() * scale
	}
	return out
}

// StudentT draws count Student-t(nu) innovations multiplied by scale.
func (s *Sampler) StudentT(count, nu int, scale float64) []float64 {
	out := make([]float64, count)
	for i := range out {
		out[i] = s.NextStudentT(nu) * scale
	}
	return out
}

// NextNormal draws one standard normal deviate.
func (s *Sampler) NextNormal() float64 {
	return s.rng.NormFloat64()
}

// NextStudentT draws one unscaled Student-t(nu) deviate.
func (s *Sampler) NextStudentT(nu int) float64 {
	z := s.rng.NormFloat64()
	df := float64(nu)
	v := 2 * s.gamma(df/2)
	return z / math.Sqrt(v/df)
}

// gamma draws Gamma(shape, 1).
func (s *Sampler) gamma(shape float64) float64 {
	if shape < 1 {
		// Gamma(a) = Gamma(a+1) * U^(1/a)
		u := s.uniformOpen()
		return s.gamma(shape+1) * math.Pow(u, 1/shape)
	}
	d := shape - 1.0/3.0
	c := 1 / math.Sqrt(9*d)
	for {
		x := s.rng.NormFloat64()
		v := 1 + c*x
		if v <= 0 {
			continue
		}
		v = v * v * v
		u := s.uniformOpen()
		if u < 1-0.0331*x*x*x*x {
			return d * v
		}
		if math.Log(u) < 0.5*x*x+d*(1-v+math.Log(v)) {
			return d * v
		}
	}
}

// uniformOpen draws from (0, 1).
func (s *Sampler) uniformOpen() float64 {
	for {
		if u := s.rng.Float64(); u > 0 {
			return u
		}
	}
}
