package lt

import (
	"math/big"
	"math/rand"
	"sort"
)

// SolitonGenerator draws degrees from the ideal Soliton distribution with
// parameter n:
//
//	P(1)=1/n
//	P(x)=1/x(x-1) for x=2 to n
type SolitonGenerator struct {
	rng *rand.Rand
	cdf []float64 // cdf[d] is P(degree <= d); cdf[0] is always 0
}

func NewSolitonGenerator(rng *rand.Rand) *SolitonGenerator {
	return &SolitonGenerator{rng: orSeeded(rng)}
}

// rho implements the rho(x) function in soliton distribution for x>1.
func rho(i uint64) *big.Float {
	one := new(big.Float).SetFloat64(1.0)
	t1 := new(big.Float).SetUint64(i)
	t2 := new(big.Float).SetUint64(i - 1)
	div := new(big.Float).Mul(t1, t2)
	return new(big.Float).Quo(one, div)
}

// rhoOne implements the rho(x) function in soliton distribution with parameter n for x=1.
func rhoOne(n uint64) *big.Float {
	one := new(big.Float).SetFloat64(1.0)
	div := new(big.Float).SetUint64(n)
	return new(big.Float).Quo(one, div)
}

// Setup rebuilds the CDF table for parameter n. Values of n below 1 are
// treated as 1.
func (s *SolitonGenerator) Setup(n int) {
	if n < 1 {
		n = 1
	}
	cdf := make([]float64, n+1)
	last := new(big.Float)
	for i := 1; i <= n; i++ {
		var p *big.Float
		if i == 1 {
			p = rhoOne(uint64(n))
		} else {
			p = rho(uint64(i))
		}
		last = last.Add(last, p)
		cdf[i], _ = last.Float64()
	}
	// the series telescopes to exactly 1; pin it so that rounding cannot
	// leave a gap at the top
	cdf[n] = 1.0
	s.cdf = cdf
}

// Sample returns a degree in [1, n].
func (s *SolitonGenerator) Sample() int {
	if s.cdf == nil {
		panic("sampling soliton generator before setup")
	}
	n := len(s.cdf) - 1
	u := s.rng.Float64()
	idx := sort.Search(n, func(i int) bool {
		return s.cdf[i+1] > u
	})
	if idx >= n {
		return n
	}
	return idx + 1
}

// CDF returns a copy of the current table, of length n+1.
func (s *SolitonGenerator) CDF() []float64 {
	res := make([]float64, len(s.cdf))
	copy(res, s.cdf)
	return res
}
