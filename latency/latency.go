// Package latency provides random block arrival delays for storage reads.
package latency

import (
	"math"
	"math/rand"
	"time"

	"github.com/aclements/go-moremath/stats"
)

// Model draws the delay after which a requested block arrives. A Model owns
// its random state and is not safe for concurrent use.
type Model interface {
	Sample() time.Duration
}

// maxDelay is what seconds saturates to.
const maxDelay = time.Duration(math.MaxInt64)

// seconds converts s to a duration, saturating at maxDelay. NaN and negative
// values give 0.
func seconds(s float64) time.Duration {
	ns := s * float64(time.Second)
	switch {
	case math.IsNaN(ns) || ns <= 0:
		return 0
	case ns >= float64(maxDelay):
		return maxDelay
	}
	return time.Duration(ns)
}

// orSeeded returns r, or a new generator seeded from the clock when r is nil.
func orSeeded(r *rand.Rand) *rand.Rand {
	if r != nil {
		return r
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// Erlang is a fixed delay plus the sum of shape exponential stages, each with
// the given rate per second.
type Erlang struct {
	rng   *rand.Rand
	shape int
	rate  float64
	delay time.Duration
}

func NewErlang(rng *rand.Rand, shape int, rate float64, delay time.Duration) (*Erlang, error) {
	if shape < 1 || rate <= 0 || delay < 0 {
		return nil, ErrBadModel
	}
	return &Erlang{rng: orSeeded(rng), shape: shape, rate: rate, delay: delay}, nil
}

func (e *Erlang) Sample() time.Duration {
	// summing the stages keeps large shapes finite
	sum := 0.0
	for i := 0; i < e.shape; i++ {
		sum += e.rng.ExpFloat64()
	}
	d := seconds(sum / e.rate)
	if d > maxDelay-e.delay {
		return maxDelay
	}
	return e.delay + d
}

// Gaussian is a normally distributed delay. Negative draws arrive
// immediately.
type Gaussian struct {
	rng  *rand.Rand
	dist stats.NormalDist
}

func NewGaussian(rng *rand.Rand, mu, sigma time.Duration) (*Gaussian, error) {
	if sigma <= 0 {
		return nil, ErrBadModel
	}
	return &Gaussian{
		rng:  orSeeded(rng),
		dist: stats.NormalDist{Mu: mu.Seconds(), Sigma: sigma.Seconds()},
	}, nil
}

func (g *Gaussian) Sample() time.Duration {
	return seconds(g.dist.Rand(g.rng))
}

// Exponential is an exponentially distributed delay with the given rate per
// second.
type Exponential struct {
	rng    *rand.Rand
	lambda float64
}

func NewExponential(rng *rand.Rand, lambda float64) (*Exponential, error) {
	if lambda <= 0 {
		return nil, ErrBadModel
	}
	return &Exponential{rng: orSeeded(rng), lambda: lambda}, nil
}

func (e *Exponential) Sample() time.Duration {
	return seconds(e.rng.ExpFloat64() / e.lambda)
}
