package sim

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/yangl1996/strsim/latency"
	"github.com/yangl1996/strsim/lt"
)

// CoderFactory builds the coder of one worker from the worker's generator.
type CoderFactory func(rng *rand.Rand) (lt.Coder, error)

// ModelFactory builds the latency model of one worker.
type ModelFactory func(rng *rand.Rand) (latency.Model, error)

// CoderByName returns a factory for "luby", "rateless" (with the given
// degree distribution, see lt.ParseDegreeGenerator) or "min" coders.
// maxAttempts bounds rateless encoding; 0 keeps the default.
func CoderByName(name, degree string, maxAttempts int) (CoderFactory, error) {
	setAttempts := func(c *lt.RatelessCoder) *lt.RatelessCoder {
		if maxAttempts > 0 {
			c.SetMaxAttempts(maxAttempts)
		}
		return c
	}
	switch name {
	case "luby":
		return func(rng *rand.Rand) (lt.Coder, error) {
			return setAttempts(lt.NewLubyCoder(rng)), nil
		}, nil
	case "rateless":
		// fail early on a bad distribution rather than in every worker
		if _, err := lt.ParseDegreeGenerator(degree, nil); err != nil {
			return nil, err
		}
		return func(rng *rand.Rand) (lt.Coder, error) {
			dist, err := lt.ParseDegreeGenerator(degree, rng)
			if err != nil {
				return nil, err
			}
			return setAttempts(lt.NewRatelessCoder(rng, dist)), nil
		}, nil
	case "min":
		return func(rng *rand.Rand) (lt.Coder, error) {
			return lt.NewMinCoder(), nil
		}, nil
	default:
		return nil, fmt.Errorf("sim: unknown coder %q", name)
	}
}

// ModelByName returns a factory for the latency model description s, see
// latency.Parse.
func ModelByName(s string) (ModelFactory, error) {
	if _, err := latency.Parse(s, rand.New(rand.NewSource(0))); err != nil {
		return nil, err
	}
	return func(rng *rand.Rand) (latency.Model, error) {
		return latency.Parse(s, rng)
	}, nil
}

// Runner repeats a trial on several workers. Worker w runs the trials whose
// index is w modulo the number of workers, so the outcomes only depend on
// Seed and Workers.
type Runner struct {
	Trial    Trial
	Trials   int
	Workers  int // 0 means one per CPU
	Seed     int64
	NewCoder CoderFactory
	NewModel ModelFactory
}

func (r *Runner) workers() int {
	n := r.Workers
	if n < 1 {
		n = runtime.NumCPU()
	}
	if n > r.Trials {
		n = r.Trials
	}
	return n
}

// Run executes all trials and returns their outcomes in trial order. It stops
// early when ctx is done.
func (r *Runner) Run(ctx context.Context) ([]Outcome, error) {
	if err := r.Trial.Validate(); err != nil {
		return nil, err
	}
	if r.Trials < 1 {
		return nil, fmt.Errorf("%w: %d trials", ErrBadTrial, r.Trials)
	}
	if r.NewCoder == nil || r.NewModel == nil {
		return nil, fmt.Errorf("%w: missing coder or latency model", ErrBadTrial)
	}
	nw := r.workers()
	logrus.Debugf("running %d trials on %d workers", r.Trials, nw)

	res := make([]Outcome, r.Trials)
	errs := make([]error, nw)
	var done atomic.Int64
	var wg sync.WaitGroup
	for w := 0; w < nw; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			errs[w] = r.runWorker(ctx, w, nw, res, &done)
		}(w)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (r *Runner) runWorker(ctx context.Context, w, nw int, res []Outcome, done *atomic.Int64) error {
	coder, err := r.NewCoder(NewRand(r.Seed, StreamCoder, w))
	if err != nil {
		return err
	}
	model, err := r.NewModel(NewRand(r.Seed, StreamLatency, w))
	if err != nil {
		return err
	}
	worker := NewWorker(coder, model, NewRand(r.Seed, StreamCache, w))
	step := int64(r.Trials / 10)
	for i := w; i < r.Trials; i += nw {
		if err := ctx.Err(); err != nil {
			return err
		}
		out, err := worker.Run(r.Trial)
		if err != nil {
			return fmt.Errorf("worker %d trial %d: %w", w, i, err)
		}
		out.Trial = i
		res[i] = out
		if d := done.Add(1); step > 0 && d%step == 0 {
			logrus.Infof("processed %d%%", d*100/int64(r.Trials))
		}
	}
	return nil
}
