package sim

import (
	"encoding/binary"
	"math/rand"

	"github.com/dchest/siphash"
)

// SeedKey is the SipHash key used to derive per-worker seeds.
var SeedKey = [16]byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f}

// Random streams of one worker.
const (
	StreamCoder   = "coder"
	StreamLatency = "latency"
	StreamCache   = "cache"
)

// DeriveSeed maps a master seed, a stream name and a worker id to a seed.
// Different streams and workers get unrelated seeds; the same inputs always
// give the same seed.
func DeriveSeed(master int64, stream string, worker int) int64 {
	h := siphash.New(SeedKey[:])
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(master))
	h.Write(buf[:])
	binary.LittleEndian.PutUint64(buf[:], uint64(worker))
	h.Write(buf[:])
	h.Write([]byte(stream))
	return int64(h.Sum64())
}

// NewRand returns a generator for the given stream of a worker.
func NewRand(master int64, stream string, worker int) *rand.Rand {
	return rand.New(rand.NewSource(DeriveSeed(master, stream, worker)))
}
