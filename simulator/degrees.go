package main

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/yangl1996/strsim/lt"
)

func newDegreesCmd() *cobra.Command {
	var k, draws int
	var degree string
	var seed int64
	cmd := &cobra.Command{
		Use:   "degrees",
		Short: "Print the empirical distribution of a degree generator",
		RunE: func(cmd *cobra.Command, args []string) error {
			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			return printDegrees(cmd.OutOrStdout(), degree, k, draws, rand.New(rand.NewSource(seed)))
		},
	}
	cmd.Flags().IntVar(&k, "k", 100, "Number of raw blocks")
	cmd.Flags().IntVar(&draws, "draws", 100000, "Number of samples")
	cmd.Flags().StringVar(&degree, "degree", "s", "Degree distribution: s, u or rs(c,delta)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed, 0 for the clock")
	return cmd
}

func printDegrees(w io.Writer, degree string, k, draws int, rng *rand.Rand) error {
	if k < 1 || draws < 1 {
		return fmt.Errorf("k and draws must be positive, got %d and %d", k, draws)
	}
	dist, err := lt.ParseDegreeGenerator(degree, rng)
	if err != nil {
		return err
	}
	dist.Setup(k)
	counts := make([]int, k+1)
	for i := 0; i < draws; i++ {
		counts[dist.Sample()] += 1
	}
	if _, err := fmt.Fprintln(w, "degree,fraction"); err != nil {
		return err
	}
	for d := 1; d <= k; d++ {
		if counts[d] == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "%d,%.6f\n", d, float64(counts[d])/float64(draws)); err != nil {
			return err
		}
	}
	return nil
}
