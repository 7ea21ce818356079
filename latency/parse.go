package latency

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
)

var ErrBadModel = errors.New("latency: undefined or invalid latency model")

// Defaults of the storage read models, in the syntax accepted by Parse.
const (
	DefaultErlang      = "erlang(3,2.0,1.0)"
	DefaultGaussian    = "gauss(0,10)"
	DefaultExponential = "exp(2.0)"
)

func parseParams(ds, name string, n int) ([]float64, error) {
	params := strings.Split(strings.TrimPrefix(strings.TrimSuffix(ds, ")"), name+"("), ",")
	if len(params) != n {
		return nil, fmt.Errorf("%w: %s takes %d parameters, got %d", ErrBadModel, name, n, len(params))
	}
	res := make([]float64, n)
	for i, p := range params {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadModel, err)
		}
		res[i] = v
	}
	return res, nil
}

// Parse builds a model from its description. Times are in seconds and rates
// per second:
//
//	erlang(shape,rate,delay)
//	gauss(mu,sigma)
//	exp(lambda)
func Parse(s string, rng *rand.Rand) (Model, error) {
	ds := strings.ReplaceAll(s, " ", "")
	if !strings.HasSuffix(ds, ")") {
		return nil, fmt.Errorf("%w: %q", ErrBadModel, s)
	}
	var m Model
	var err error
	switch {
	case strings.HasPrefix(ds, "erlang("):
		var p []float64
		if p, err = parseParams(ds, "erlang", 3); err != nil {
			return nil, err
		}
		if p[0] != float64(int(p[0])) {
			return nil, fmt.Errorf("%w: erlang shape must be an integer", ErrBadModel)
		}
		m, err = NewErlang(rng, int(p[0]), p[1], seconds(p[2]))
	case strings.HasPrefix(ds, "gauss("):
		var p []float64
		if p, err = parseParams(ds, "gauss", 2); err != nil {
			return nil, err
		}
		m, err = NewGaussian(rng, seconds(p[0]), seconds(p[1]))
	case strings.HasPrefix(ds, "exp("):
		var p []float64
		if p, err = parseParams(ds, "exp", 1); err != nil {
			return nil, err
		}
		m, err = NewExponential(rng, p[0])
	default:
		return nil, fmt.Errorf("%w: %q", ErrBadModel, s)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: parameters out of range in %q", err, s)
	}
	return m, nil
}
