package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willibrandon/tickwise/internal/config"
	"github.com/willibrandon/tickwise/internal/logger"
	"github.com/willibrandon/tickwise/internal/metrics"
)

func init() {
	logger.InitWriter(io.Discard, logger.LevelWarn)
}

func TestParseRecordLine(t *testing.T) {
	tests := []struct {
		line    string
		name    string
		value   float64
		ok      bool
		wantErr bool
	}{
		{"250", "value", 250, true, false},
		{"  p99 1200.5 ", "p99", 1200.5, true, false},
		{"", "", 0, false, false},
		{"# comment", "", 0, false, false},
		{"p99 fast", "", 0, false, true},
		{"a b c", "", 0, false, true},
	}

	for _, tt := range tests {
		name, value, ok, err := parseRecordLine(tt.line, "value")
		if (err != nil) != tt.wantErr {
			t.Errorf("parseRecordLine(%q) error = %v, wantErr %v", tt.line, err, tt.wantErr)
			continue
		}
		if name != tt.name || value != tt.value || ok != tt.ok {
			t.Errorf("parseRecordLine(%q) = %q, %v, %v; want %q, %v, %v", tt.line, name, value, ok, tt.name, tt.value, tt.ok)
		}
	}
}

func TestRecordLines(t *testing.T) {
	input := "100\nbad line here\np99 2500\n\n200\n"
	c := metrics.NewCollector("latency")

	var progress []int
	n, err := recordLines(context.Background(), strings.NewReader(input), c, "p50", func(i int) {
		progress = append(progress, i)
	})
	if err != nil {
		t.Fatalf("recordLines: %v", err)
	}
	if n != 3 || len(progress) != 3 {
		t.Errorf("recorded %d samples with %d progress calls, want 3", n, len(progress))
	}

	names := c.Names()
	if len(names) != 2 || names[0] != "p50" || names[1] != "p99" {
		t.Errorf("Names() = %v", names)
	}
	if dp, ok := c.Latest("p50"); !ok || dp.Value != 200 {
		t.Errorf("Latest(p50) = %v, %v", dp, ok)
	}
}

func TestRecordLinesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := metrics.NewCollector("latency")
	if _, err := recordLines(ctx, strings.NewReader("1\n2\n"), c, "v", nil); err == nil {
		t.Error("expected context error")
	}
}

func TestRecordCmd_RejectsNonPositiveFlush(t *testing.T) {
	for _, flush := range []string{"0", "-1s"} {
		cmd := newRecordCmd()
		cmd.SetOut(io.Discard)
		cmd.SetErr(io.Discard)
		cmd.SetArgs([]string{"--metric", "latency", "--flush", flush})
		err := cmd.Execute()
		if err == nil || !strings.Contains(err.Error(), "--flush must be positive") {
			t.Errorf("--flush %s: expected validation error, got %v", flush, err)
		}
	}
}

func TestRecordCmd_SavesMoreThanBufferCapacity(t *testing.T) {
	color.NoColor = true
	dir := t.TempDir()
	cfg = &config.Config{Storage: config.StorageConfig{Path: filepath.Join(dir, "tickwise.db"), RetentionDays: 7}}
	t.Cleanup(func() { cfg = nil })

	const samples = 25000
	var in strings.Builder
	for i := 1; i <= samples; i++ {
		fmt.Fprintf(&in, "%d\n", i)
	}

	cmd := newRecordCmd()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(in.String()))
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--metric", "latency", "--summary-every", "0", "--flush", "1h"})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "recorded 25,000 samples into latency")
	assert.NotContains(t, out.String(), "could not be saved")

	db, store, err := openStore()
	require.NoError(t, err)
	defer db.Close()
	n, err := store.Count(context.Background(), "latency")
	require.NoError(t, err)
	assert.Equal(t, int64(samples), n)
}
