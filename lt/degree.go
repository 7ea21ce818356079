package lt

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"
)

// DegreeGenerator samples the number of raw blocks combined into one coded
// block. Setup must be called before Sample. A generator owns its random
// state and is not safe for concurrent use.
type DegreeGenerator interface {
	Setup(n int)
	Sample() int
}

// orSeeded returns r, or a new generator seeded from the clock when r is nil.
func orSeeded(r *rand.Rand) *rand.Rand {
	if r != nil {
		return r
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// UniformGenerator draws degrees uniformly from [1, n]. It is a baseline and
// decodes poorly for large n.
type UniformGenerator struct {
	rng *rand.Rand
	n   int
}

func NewUniformGenerator(rng *rand.Rand) *UniformGenerator {
	return &UniformGenerator{rng: orSeeded(rng)}
}

func (u *UniformGenerator) Setup(n int) {
	if n < 1 {
		n = 1
	}
	u.n = n
}

func (u *UniformGenerator) Sample() int {
	if u.n == 0 {
		panic("sampling uniform generator before setup")
	}
	return u.rng.Intn(u.n) + 1
}

// ParseDegreeGenerator builds a generator from its description: "s" for
// Soliton, "u" for uniform, and "rs(c,delta)" for robust Soliton.
func ParseDegreeGenerator(s string, rng *rand.Rand) (DegreeGenerator, error) {
	ds := strings.ReplaceAll(s, " ", "")
	switch {
	case ds == "s":
		return NewSolitonGenerator(rng), nil
	case ds == "u":
		return NewUniformGenerator(rng), nil
	case strings.HasPrefix(ds, "rs(") && strings.HasSuffix(ds, ")"):
		params := strings.Split(strings.TrimPrefix(strings.TrimSuffix(ds, ")"), "rs("), ",")
		if len(params) != 2 {
			return nil, fmt.Errorf("%w: robust soliton takes 2 parameters, got %d", ErrBadDistribution, len(params))
		}
		c, err := strconv.ParseFloat(params[0], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadDistribution, err)
		}
		delta, err := strconv.ParseFloat(params[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadDistribution, err)
		}
		if c <= 0 || delta <= 0 || delta >= 1 {
			return nil, fmt.Errorf("%w: parameter out of range for robust soliton", ErrBadDistribution)
		}
		return NewRobustSolitonGenerator(rng, c, delta), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrBadDistribution, s)
	}
}
