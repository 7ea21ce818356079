package lt

import (
	"time"
)

// BlockType is the coding family of a block. A coder only decodes blocks of
// its own family.
type BlockType int

const (
	Rateless BlockType = iota + 1
	Min
)

func (t BlockType) String() string {
	switch t {
	case Rateless:
		return "rateless"
	case Min:
		return "min"
	default:
		return "unknown"
	}
}

// CodedBlock is one coded block. For the rateless family it carries the set
// of raw block indices combined into it; min blocks carry nothing.
type CodedBlock struct {
	// ArrivalTime is set by the caller to order delivery. Coders never read it.
	ArrivalTime time.Duration

	kind    BlockType
	members []int
}

// NewRatelessBlock creates a rateless block over the given raw indices. The
// indices should be distinct.
func NewRatelessBlock(members ...int) CodedBlock {
	m := make([]int, len(members))
	copy(m, members)
	return CodedBlock{kind: Rateless, members: m}
}

func NewMinBlock() CodedBlock {
	return CodedBlock{kind: Min}
}

func (b CodedBlock) Type() BlockType {
	return b.kind
}

// Members returns a copy of the raw indices covered by the block.
func (b CodedBlock) Members() []int {
	m := make([]int, len(b.members))
	copy(m, b.members)
	return m
}

func (b CodedBlock) Degree() int {
	return len(b.members)
}
