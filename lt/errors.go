package lt

import "errors"

var (
	// ErrTypeMismatch is returned when a coder is given a block of another family.
	ErrTypeMismatch = errors.New("lt: block type does not match coder")
	// ErrInvalidUniverse is returned when the number of raw blocks is not positive.
	ErrInvalidUniverse = errors.New("lt: number of raw blocks must be positive")
	// ErrInsufficientBlocks is returned when fewer coded blocks than raw blocks are requested.
	ErrInsufficientBlocks = errors.New("lt: fewer coded blocks than raw blocks can never be decoded")
	// ErrEncodeExhausted is returned when no decodable batch was found within the attempt cap.
	ErrEncodeExhausted = errors.New("lt: no decodable batch within attempt limit")
	// ErrIndexOutOfRange is returned for a raw index outside [0, k).
	ErrIndexOutOfRange = errors.New("lt: raw block index out of range")
	// ErrNoUniverse is returned when decoding before the number of raw blocks is known.
	ErrNoUniverse = errors.New("lt: decoder has no universe, call Encode or SetUniverse first")
	// ErrBadDistribution is returned for an unparsable degree distribution.
	ErrBadDistribution = errors.New("lt: undefined degree distribution")
)
