package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/yangl1996/strsim/latency"
	"github.com/yangl1996/strsim/sim"
)

// Config holds the parameters of a run. It is read from YAML and then
// overridden by the flags given on the command line.
type Config struct {
	RawBlocks         int     `yaml:"raw_blocks"`
	DupFactor         float64 `yaml:"dup_factor"`
	CacheFactor       float64 `yaml:"cache_factor"`
	Trials            int     `yaml:"trials"`
	Workers           int     `yaml:"workers"`
	Seed              int64   `yaml:"seed"` // 0 seeds from the clock
	Coder             string  `yaml:"coder"`
	Degree            string  `yaml:"degree"`
	Latency           string  `yaml:"latency"`
	FeedCached        bool    `yaml:"feed_cached"`
	MaxEncodeAttempts int     `yaml:"max_encode_attempts"`
}

func defaultConfig() Config {
	return Config{
		RawBlocks:   100,
		DupFactor:   2.0,
		CacheFactor: 0.1,
		Trials:      1000,
		Coder:       "luby",
		Degree:      "s",
		Latency:     latency.DefaultErlang,
	}
}

// loadConfig reads path over the defaults. Unknown keys are errors.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

func bindFlags(fs *pflag.FlagSet, c *Config) {
	fs.IntVar(&c.RawBlocks, "k", c.RawBlocks, "Number of raw blocks")
	fs.Float64Var(&c.DupFactor, "dup", c.DupFactor, "Coded blocks per raw block")
	fs.Float64Var(&c.CacheFactor, "cache", c.CacheFactor, "Fraction of raw blocks cached")
	fs.IntVar(&c.Trials, "trials", c.Trials, "Number of trials")
	fs.IntVar(&c.Workers, "workers", c.Workers, "Number of workers, 0 for one per CPU")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "Master random seed, 0 for the clock")
	fs.StringVar(&c.Coder, "coder", c.Coder, "Coder: luby, rateless or min")
	fs.StringVar(&c.Degree, "degree", c.Degree, "Degree distribution of the rateless coder: s, u or rs(c,delta)")
	fs.StringVar(&c.Latency, "latency", c.Latency, "Latency model: erlang(shape,rate,delay), gauss(mu,sigma) or exp(lambda)")
	fs.BoolVar(&c.FeedCached, "feed-cached", c.FeedCached, "Feed cached raw blocks to the decoder before reading")
	fs.IntVar(&c.MaxEncodeAttempts, "max-encode-attempts", c.MaxEncodeAttempts, "Encoding attempts before giving up, 0 for the default")
}

// override copies into c the fields of from whose flags were set explicitly.
func override(fs *pflag.FlagSet, c *Config, from *Config) {
	fs.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "k":
			c.RawBlocks = from.RawBlocks
		case "dup":
			c.DupFactor = from.DupFactor
		case "cache":
			c.CacheFactor = from.CacheFactor
		case "trials":
			c.Trials = from.Trials
		case "workers":
			c.Workers = from.Workers
		case "seed":
			c.Seed = from.Seed
		case "coder":
			c.Coder = from.Coder
		case "degree":
			c.Degree = from.Degree
		case "latency":
			c.Latency = from.Latency
		case "feed-cached":
			c.FeedCached = from.FeedCached
		case "max-encode-attempts":
			c.MaxEncodeAttempts = from.MaxEncodeAttempts
		}
	})
}

func (c Config) runner() (*sim.Runner, error) {
	coder, err := sim.CoderByName(c.Coder, c.Degree, c.MaxEncodeAttempts)
	if err != nil {
		return nil, err
	}
	model, err := sim.ModelByName(c.Latency)
	if err != nil {
		return nil, err
	}
	r := &sim.Runner{
		Trial: sim.Trial{
			RawBlocks:   c.RawBlocks,
			DupFactor:   c.DupFactor,
			CacheFactor: c.CacheFactor,
			FeedCached:  c.FeedCached,
		},
		Trials:   c.Trials,
		Workers:  c.Workers,
		Seed:     c.Seed,
		NewCoder: coder,
		NewModel: model,
	}
	if err := r.Trial.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}
