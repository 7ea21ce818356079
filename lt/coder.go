package lt

// Coder encodes a universe of raw blocks into coded blocks and tracks how
// many raw blocks remain unrecovered as coded blocks are decoded.
//
// Encode returns exactly n coded blocks over k raw blocks and resets the
// decode state, so that decoding all returned blocks finishes. Decode returns
// the number of raw blocks still missing, which Remaining also reports. Feed
// marks a raw block as known without decoding it. Restart clears all
// progress, including fed blocks, but keeps k.
//
// A Coder is not safe for concurrent use.
type Coder interface {
	Type() BlockType
	Encode(k, n int) ([]CodedBlock, error)
	Decode(b CodedBlock) (int, error)
	Feed(i int) error
	Restart()
	Finished() bool
	Remaining() int
}

var (
	_ Coder = (*RatelessCoder)(nil)
	_ Coder = (*MinCoder)(nil)
)
