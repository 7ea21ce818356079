package lt

import (
	"fmt"
)

// MinCoder models an ideal erasure code where any k of the n coded blocks
// recover the data. Block contents are ignored; decoding only counts.
type MinCoder struct {
	k    int
	left int
}

func NewMinCoder() *MinCoder {
	return &MinCoder{}
}

func (c *MinCoder) Type() BlockType {
	return Min
}

func (c *MinCoder) Encode(k, n int) ([]CodedBlock, error) {
	if k < 1 {
		return nil, ErrInvalidUniverse
	}
	if n < k {
		return nil, fmt.Errorf("%w: k=%d n=%d", ErrInsufficientBlocks, k, n)
	}
	blocks := make([]CodedBlock, n)
	for i := range blocks {
		blocks[i] = NewMinBlock()
	}
	c.k = k
	c.left = k
	return blocks, nil
}

// Decode counts b towards the k blocks needed and returns how many are still
// missing.
func (c *MinCoder) Decode(b CodedBlock) (int, error) {
	if b.Type() != Min {
		return c.left, fmt.Errorf("%w: %v block given to %v coder", ErrTypeMismatch, b.Type(), Min)
	}
	if c.left > 0 {
		c.left -= 1
	}
	return c.left, nil
}

// Feed counts one known raw block regardless of i.
func (c *MinCoder) Feed(i int) error {
	if c.left > 0 {
		c.left -= 1
	}
	return nil
}

func (c *MinCoder) Restart() {
	c.left = c.k
}

func (c *MinCoder) Finished() bool {
	return c.left == 0
}

// Remaining is the number of blocks still needed.
func (c *MinCoder) Remaining() int {
	return c.left
}
