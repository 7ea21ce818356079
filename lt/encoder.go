package lt

import (
	"fmt"
	"math/rand"
)

// DefaultMaxAttempts bounds the number of batches Encode draws before giving
// up.
const DefaultMaxAttempts = 10000

// RatelessCoder is an LT encoder and peeling decoder over raw block indices.
type RatelessCoder struct {
	rng         *rand.Rand
	degreeDist  DegreeGenerator
	maxAttempts int

	decoder

	// scratch for sampling without replacement
	perm           []int
	shuffleHistory []int
}

// NewRatelessCoder creates a coder drawing degrees from dist, or from a
// uniform distribution when dist is nil. A nil rng is seeded from the clock.
func NewRatelessCoder(rng *rand.Rand, dist DegreeGenerator) *RatelessCoder {
	rng = orSeeded(rng)
	if dist == nil {
		dist = NewUniformGenerator(rng)
	}
	return &RatelessCoder{
		rng:         rng,
		degreeDist:  dist,
		maxAttempts: DefaultMaxAttempts,
	}
}

// NewLubyCoder creates a rateless coder using the Soliton distribution.
func NewLubyCoder(rng *rand.Rand) *RatelessCoder {
	rng = orSeeded(rng)
	return NewRatelessCoder(rng, NewSolitonGenerator(rng))
}

// SetMaxAttempts changes the number of batches Encode may draw. Values below
// 1 are treated as 1.
func (c *RatelessCoder) SetMaxAttempts(n int) {
	if n < 1 {
		n = 1
	}
	c.maxAttempts = n
}

func (c *RatelessCoder) Type() BlockType {
	return Rateless
}

// SetUniverse prepares the decoder for k raw blocks and clears all progress.
// Encode calls it; a coder that only decodes blocks produced elsewhere must
// call it before Decode.
func (c *RatelessCoder) SetUniverse(k int) error {
	if k < 1 {
		return ErrInvalidUniverse
	}
	c.decoder.reset(k)
	if cap(c.perm) >= k {
		c.perm = c.perm[:k]
	} else {
		c.perm = make([]int, k)
	}
	for i := range c.perm {
		c.perm[i] = i
	}
	return nil
}

// Encode draws batches of n coded blocks over k raw blocks until one of them
// decodes completely, and returns it with the decode state cleared.
func (c *RatelessCoder) Encode(k, n int) ([]CodedBlock, error) {
	if k < 1 {
		return nil, ErrInvalidUniverse
	}
	if n < k {
		return nil, fmt.Errorf("%w: k=%d n=%d", ErrInsufficientBlocks, k, n)
	}
	c.degreeDist.Setup(k)
	if err := c.SetUniverse(k); err != nil {
		return nil, err
	}
	blocks := make([]CodedBlock, n)
	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		for i := range blocks {
			blocks[i] = c.produceBlock(c.degreeDist.Sample())
		}
		c.Restart()
		for _, b := range blocks {
			if c.addBlock(b.members) == 0 {
				break
			}
		}
		if c.Finished() {
			c.Restart()
			return blocks, nil
		}
	}
	c.Restart()
	return nil, fmt.Errorf("%w: %d attempts for k=%d n=%d", ErrEncodeExhausted, c.maxAttempts, k, n)
}

// produceBlock builds a block of the given degree, saturated to [1, k], whose
// members are chosen uniformly without replacement.
func (c *RatelessCoder) produceBlock(deg int) CodedBlock {
	k := len(c.perm)
	if deg > k {
		deg = k
	}
	if deg < 1 {
		deg = 1
	}
	members := make([]int, deg)
	// record shuffle history so that perm is back to identity afterwards
	c.shuffleHistory = c.shuffleHistory[:0]
	for i := 0; i < deg; i++ {
		// swap with any item with idx i, i+1, ..., k-1, i.e., items not yet
		// selected
		r := c.rng.Intn(k-i) + i
		c.shuffleHistory = append(c.shuffleHistory, r)
		c.perm[i], c.perm[r] = c.perm[r], c.perm[i]
		members[i] = c.perm[i]
	}
	// revert the shuffling
	for i := deg - 1; i >= 0; i-- {
		c.perm[i], c.perm[c.shuffleHistory[i]] = c.perm[c.shuffleHistory[i]], c.perm[i]
	}
	return CodedBlock{kind: Rateless, members: members}
}

// Decode peels b against the raw blocks recovered so far and returns the
// number of raw blocks still missing.
func (c *RatelessCoder) Decode(b CodedBlock) (int, error) {
	if b.Type() != Rateless {
		return c.Remaining(), fmt.Errorf("%w: %v block given to %v coder", ErrTypeMismatch, b.Type(), Rateless)
	}
	if c.k == 0 {
		return 0, ErrNoUniverse
	}
	for _, m := range b.members {
		if m < 0 || m >= c.k {
			return c.Remaining(), fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, m, c.k)
		}
	}
	return c.addBlock(b.members), nil
}

// Feed marks raw block i as recovered, e.g. because it is cached, and peels
// it from every pending block.
func (c *RatelessCoder) Feed(i int) error {
	if c.k == 0 {
		return ErrNoUniverse
	}
	if i < 0 || i >= c.k {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, c.k)
	}
	c.addKnown(i)
	return nil
}
