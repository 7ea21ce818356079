package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yangl1996/strsim/lt"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeFile(t, "raw_blocks: 50\ncoder: rateless\ndegree: rs(0.03,0.5)\nfeed_cached: true\n")
	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.RawBlocks)
	assert.Equal(t, "rateless", cfg.Coder)
	assert.Equal(t, "rs(0.03,0.5)", cfg.Degree)
	assert.True(t, cfg.FeedCached)
	// untouched keys keep their defaults
	assert.Equal(t, defaultConfig().DupFactor, cfg.DupFactor)
	assert.Equal(t, defaultConfig().Latency, cfg.Latency)
}

func TestLoadConfigUnknownField(t *testing.T) {
	path := writeFile(t, "raw_block: 50\n")
	_, err := loadConfig(path)
	assert.Error(t, err)

	_, err = loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestOverride(t *testing.T) {
	flagCfg := defaultConfig()
	fs := pflag.NewFlagSet("run", pflag.ContinueOnError)
	bindFlags(fs, &flagCfg)
	require.NoError(t, fs.Parse([]string{"--k", "30", "--feed-cached"}))

	cfg := defaultConfig()
	cfg.RawBlocks = 50
	cfg.Trials = 7
	override(fs, &cfg, &flagCfg)
	assert.Equal(t, 30, cfg.RawBlocks)
	assert.True(t, cfg.FeedCached)
	assert.Equal(t, 7, cfg.Trials)
}

func TestConfigRunner(t *testing.T) {
	cfg := defaultConfig()
	cfg.Seed = 3
	r, err := cfg.runner()
	require.NoError(t, err)
	assert.Equal(t, 100, r.Trial.RawBlocks)
	assert.Equal(t, int64(3), r.Seed)

	cfg.Coder = "fountain"
	_, err = cfg.runner()
	assert.Error(t, err)

	cfg = defaultConfig()
	cfg.Latency = "erlang(1.5,2,1)"
	_, err = cfg.runner()
	assert.Error(t, err)

	cfg = defaultConfig()
	cfg.DupFactor = 0.5
	_, err = cfg.runner()
	assert.Error(t, err)
}

func TestRunTrials(t *testing.T) {
	cfg := defaultConfig()
	cfg.RawBlocks = 10
	cfg.Trials = 4
	cfg.Workers = 2
	cfg.Seed = 11
	cfg.Coder = "min"
	r, err := cfg.runner()
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, runTrials(context.Background(), r, cfg, &buf))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "trial,used,full_ms,cached_ms,ideal_ms,finished", lines[0])
	for _, l := range lines[1:] {
		assert.Equal(t, "10", strings.Split(l, ",")[1])
		assert.True(t, strings.HasSuffix(l, ",true"))
	}
}

type closeRecorder struct {
	bytes.Buffer
	closeErr error
	closed   bool
}

func (c *closeRecorder) Close() error {
	c.closed = true
	return c.closeErr
}

func TestWriteAndClose(t *testing.T) {
	diskFull := errors.New("disk full")
	rec := &closeRecorder{closeErr: diskFull}
	err := writeAndClose(rec, func(w io.Writer) error {
		_, err := io.WriteString(w, "trial\n")
		return err
	})
	assert.ErrorIs(t, err, diskFull)
	assert.True(t, rec.closed)
	assert.Equal(t, "trial\n", rec.String())

	writeErr := errors.New("bad row")
	rec = &closeRecorder{closeErr: diskFull}
	err = writeAndClose(rec, func(w io.Writer) error { return writeErr })
	assert.ErrorIs(t, err, writeErr)
	assert.True(t, rec.closed)

	rec = &closeRecorder{}
	assert.NoError(t, writeAndClose(rec, func(w io.Writer) error { return nil }))
}

func TestRunCommandWritesFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.csv")
	cmd := newRunCmd()
	cmd.SetArgs([]string{"--coder", "min", "--k", "5", "--trials", "3", "--workers", "1", "--seed", "9", "--out", out})
	require.NoError(t, cmd.Execute())
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 4)
}

func TestPrintDegrees(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printDegrees(&buf, "u", 4, 4000, rand.New(rand.NewSource(1))))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "degree,fraction", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "1,0.2"))

	err := printDegrees(&buf, "zipf", 4, 10, rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, err, lt.ErrBadDistribution)
	assert.Error(t, printDegrees(&buf, "s", 0, 10, rand.New(rand.NewSource(1))))
}
