package lt

import (
	"math/rand"

	"github.com/yangl1996/soliton"
)

// RobustSolitonGenerator draws degrees from the robust Soliton distribution.
// c and delta control the expected ripple size, c*ln(n/delta)*sqrt(n).
type RobustSolitonGenerator struct {
	rng      *rand.Rand
	c, delta float64
	n        int
	dist     *soliton.Soliton
}

func NewRobustSolitonGenerator(rng *rand.Rand, c, delta float64) *RobustSolitonGenerator {
	return &RobustSolitonGenerator{
		rng:   orSeeded(rng),
		c:     c,
		delta: delta,
	}
}

func (r *RobustSolitonGenerator) Setup(n int) {
	if n < 1 {
		n = 1
	}
	r.n = n
	if n == 1 {
		// a single raw block only admits degree 1
		r.dist = nil
		return
	}
	r.dist = soliton.NewRobustSoliton(r.rng, uint64(n), r.c, r.delta)
}

func (r *RobustSolitonGenerator) Sample() int {
	if r.n == 0 {
		panic("sampling robust soliton generator before setup")
	}
	if r.dist == nil {
		return 1
	}
	d := int(r.dist.Uint64())
	if d < 1 {
		return 1
	}
	if d > r.n {
		return r.n
	}
	return d
}
