package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yangl1996/strsim/sim"
)

func newRunCmd() *cobra.Command {
	var configPath, outPath string
	flagCfg := defaultConfig()
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run read trials and write one CSV row per trial",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := defaultConfig()
			if configPath != "" {
				var err error
				if cfg, err = loadConfig(configPath); err != nil {
					return err
				}
			}
			override(cmd.Flags(), &cfg, &flagCfg)
			if cfg.Seed == 0 {
				cfg.Seed = time.Now().UnixNano()
				logrus.Infof("using seed %d", cfg.Seed)
			}
			r, err := cfg.runner()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			if outPath == "" {
				return runTrials(ctx, r, cfg, cmd.OutOrStdout())
			}
			f, err := os.Create(outPath)
			if err != nil {
				return err
			}
			return writeAndClose(f, func(w io.Writer) error {
				return runTrials(ctx, r, cfg, w)
			})
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "YAML file with run parameters")
	cmd.Flags().StringVar(&outPath, "out", "", "Output CSV file, stdout if empty")
	bindFlags(cmd.Flags(), &flagCfg)
	return cmd
}

// writeAndClose runs write on wc and closes it. A failed close is reported
// unless write already failed.
func writeAndClose(wc io.WriteCloser, write func(io.Writer) error) error {
	err := write(wc)
	if cerr := wc.Close(); err == nil {
		err = cerr
	}
	return err
}

func runTrials(ctx context.Context, r *sim.Runner, cfg Config, out io.Writer) error {
	logrus.WithFields(logrus.Fields{
		"k":       cfg.RawBlocks,
		"dup":     cfg.DupFactor,
		"cache":   cfg.CacheFactor,
		"coder":   cfg.Coder,
		"latency": cfg.Latency,
	}).Info("starting trials")
	start := time.Now()
	outcomes, err := r.Run(ctx)
	if err != nil {
		return err
	}
	unfinished := 0
	for _, o := range outcomes {
		if !o.Finished {
			unfinished += 1
		}
	}
	if unfinished > 0 {
		logrus.Warnf("%d of %d trials did not recover the data", unfinished, len(outcomes))
	}
	logrus.Infof("finished %d trials in %v", len(outcomes), time.Since(start))
	summary, err := sim.Summarize(outcomes)
	if err != nil {
		return err
	}
	if summary.Finished > 0 {
		logrus.WithFields(logrus.Fields{
			"quantiles": sim.SummaryQuantiles,
			"full_ms":   summary.Full,
			"cached_ms": summary.Cached,
			"ideal_ms":  summary.Ideal,
		}).Info("recovery time")
	}
	return sim.WriteReport(out, outcomes)
}
