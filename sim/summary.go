package sim

import (
	"time"

	"github.com/DataDog/sketches-go/ddsketch"
)

// SummaryQuantiles are the quantiles reported by Summarize.
var SummaryQuantiles = []float64{0.5, 0.9, 0.99}

// Summary condenses the outcomes of finished trials for logging. Times are
// in milliseconds, one value per entry of SummaryQuantiles.
type Summary struct {
	Trials   int
	Finished int
	Full     []float64
	Cached   []float64
	Ideal    []float64
}

type latencySketch struct {
	sketch *ddsketch.DDSketch
}

func newLatencySketch() *latencySketch {
	sketch, err := ddsketch.NewDefaultDDSketch(0.01)
	if err != nil {
		panic(err)
	}
	return &latencySketch{sketch}
}

func (l *latencySketch) record(d time.Duration) error {
	return l.sketch.Add(float64(d) / float64(time.Millisecond))
}

func (l *latencySketch) quantiles() ([]float64, error) {
	return l.sketch.GetValuesAtQuantiles(SummaryQuantiles)
}

// Summarize computes approximate quantiles of the recovery times. The
// quantile slices are nil when no trial finished.
func Summarize(outcomes []Outcome) (Summary, error) {
	s := Summary{Trials: len(outcomes)}
	full, cached, ideal := newLatencySketch(), newLatencySketch(), newLatencySketch()
	for _, o := range outcomes {
		if !o.Finished {
			continue
		}
		s.Finished += 1
		for _, r := range []struct {
			sk *latencySketch
			d  time.Duration
		}{{full, o.Full}, {cached, o.Cached}, {ideal, o.Ideal}} {
			if err := r.sk.record(r.d); err != nil {
				return s, err
			}
		}
	}
	if s.Finished == 0 {
		return s, nil
	}
	var err error
	if s.Full, err = full.quantiles(); err != nil {
		return s, err
	}
	if s.Cached, err = cached.quantiles(); err != nil {
		return s, err
	}
	if s.Ideal, err = ideal.quantiles(); err != nil {
		return s, err
	}
	return s, nil
}
