// Package sim runs Monte-Carlo trials of reading erasure-coded data from
// storage with random block arrival delays, optionally with part of the raw
// data already cached.
package sim

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/yangl1996/strsim/latency"
	"github.com/yangl1996/strsim/lt"
)

var ErrBadTrial = errors.New("sim: invalid trial parameters")

// Trial describes one read: RawBlocks raw blocks are coded into
// RawBlocks*DupFactor blocks, and RawBlocks*CacheFactor of them are cached.
type Trial struct {
	RawBlocks   int
	DupFactor   float64
	CacheFactor float64
	// FeedCached feeds randomly chosen cached raw blocks to the decoder
	// before any coded block arrives. Otherwise the cache only shortens the
	// wait, as the last blocks are served from it.
	FeedCached bool
}

func (t Trial) CodedBlocks() int {
	return int(float64(t.RawBlocks) * t.DupFactor)
}

func (t Trial) CachedBlocks() int {
	return int(float64(t.RawBlocks) * t.CacheFactor)
}

func (t Trial) Validate() error {
	if t.RawBlocks < 1 {
		return fmt.Errorf("%w: raw blocks %d", ErrBadTrial, t.RawBlocks)
	}
	if t.CodedBlocks() < t.RawBlocks {
		return fmt.Errorf("%w: duplication factor %v gives fewer coded than raw blocks", ErrBadTrial, t.DupFactor)
	}
	if t.CacheFactor < 0 || t.CacheFactor > 1 {
		return fmt.Errorf("%w: cache factor %v not in [0, 1]", ErrBadTrial, t.CacheFactor)
	}
	return nil
}

// Outcome is the result of one trial. All times are arrival times of coded
// blocks.
type Outcome struct {
	Trial int
	// Used is the number of coded blocks decoded before the data was
	// recovered.
	Used int
	// Full is when the last missing raw block was recovered.
	Full time.Duration
	// Cached is when the number of missing raw blocks first dropped to the
	// cache size, i.e. when the cached blocks could take over. With
	// FeedCached the cache is already in the decoder, so Cached equals Full.
	Cached time.Duration
	// Ideal is when the (k-c)-th coded block arrived, the recovery time of an
	// ideal code with c raw blocks cached.
	Ideal    time.Duration
	Finished bool
}

// Worker runs trials one after another with its own coder and latency model.
type Worker struct {
	coder   lt.Coder
	latency latency.Model
	rng     *rand.Rand

	queue    ArrivalQueue
	arrivals []time.Duration
}

// NewWorker creates a worker. rng picks the cached raw blocks when they are
// fed to the decoder.
func NewWorker(coder lt.Coder, model latency.Model, rng *rand.Rand) *Worker {
	return &Worker{
		coder:   coder,
		latency: model,
		rng:     rng,
	}
}

func (w *Worker) Run(t Trial) (Outcome, error) {
	out := Outcome{}
	if err := t.Validate(); err != nil {
		return out, err
	}
	k, n, c := t.RawBlocks, t.CodedBlocks(), t.CachedBlocks()
	blocks, err := w.coder.Encode(k, n)
	if err != nil {
		return out, fmt.Errorf("encoding %d raw blocks into %d: %w", k, n, err)
	}

	w.queue.Reset()
	w.arrivals = w.arrivals[:0]
	for i := range blocks {
		blocks[i].ArrivalTime = w.latency.Sample()
		w.queue.Push(blocks[i])
		w.arrivals = append(w.arrivals, blocks[i].ArrivalTime)
	}
	sort.Slice(w.arrivals, func(i, j int) bool {
		return w.arrivals[i] < w.arrivals[j]
	})
	if k-c > 0 {
		out.Ideal = w.arrivals[k-c-1]
	}

	w.coder.Restart()
	fed := t.FeedCached && c > 0
	if fed {
		for _, i := range w.rng.Perm(k)[:c] {
			if err := w.coder.Feed(i); err != nil {
				return out, err
			}
		}
	}

	cachedSeen := fed || w.coder.Remaining() <= c
	out.Finished = w.coder.Finished()
	for w.queue.Len() > 0 && !out.Finished {
		b := w.queue.Pop()
		left, err := w.coder.Decode(b)
		if err != nil {
			return out, err
		}
		out.Used += 1
		if !cachedSeen && left <= c {
			out.Cached = b.ArrivalTime
			cachedSeen = true
		}
		if left == 0 {
			out.Full = b.ArrivalTime
			out.Finished = true
		}
	}
	if fed {
		out.Cached = out.Full
	}
	return out, nil
}
