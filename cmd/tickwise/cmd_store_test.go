package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willibrandon/tickwise/internal/config"
)

func TestImportCmd_ReportsInsertedPoints(t *testing.T) {
	color.NoColor = true
	dir := t.TempDir()
	cfg = &config.Config{Storage: config.StorageConfig{Path: filepath.Join(dir, "tickwise.db"), RetentionDays: 7}}
	t.Cleanup(func() { cfg = nil })

	file := filepath.Join(dir, "latency.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`series:
  - name: p50
    points:
      - {t: 2025-01-01T00:00:00Z, v: 10}
      - {t: 2025-01-01T00:00:01Z, v: 12}
      - {v: 20}
`), 0644))

	cmd := newImportCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{file, "--metric", "latency"})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "imported 2 points in 1 series into latency")
	assert.Contains(t, out.String(), "skipped 1 points")

	db, store, err := openStore()
	require.NoError(t, err)
	defer db.Close()
	n, err := store.Count(context.Background(), "latency")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
