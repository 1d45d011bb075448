package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/willibrandon/tickwise/internal/axis"
	"github.com/willibrandon/tickwise/internal/logger"
	"github.com/willibrandon/tickwise/internal/metrics"
	"github.com/willibrandon/tickwise/internal/ui/components"
)

func newRecordCmd() *cobra.Command {
	var (
		metric   string
		key      string
		interval time.Duration
		every    int
	)

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record durations from stdin into the store",
		Long: `Read one sample per line from stdin. A line is either "<ms>", recorded
under --key, or "<name> <ms>". Points are flushed to the store periodically
and on EOF.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if interval <= 0 {
				return fmt.Errorf("--flush must be positive, got %s", interval)
			}

			db, store, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			collector := metrics.NewCollector(metric,
				metrics.WithStore(store),
				metrics.WithPersistInterval(interval),
				metrics.WithRetentionDays(cfg.Storage.RetentionDays),
			)
			collector.Start(cmd.Context())

			n, err := recordLines(cmd.Context(), cmd.InOrStdin(), collector, key, func(count int) {
				if every > 0 && count%every == 0 {
					fmt.Fprintln(cmd.ErrOrStderr(), summaryLine(collector, count))
				}
			})
			collector.Stop()
			if err != nil {
				return err
			}

			series := collector.Snapshot()
			metrics.SortByMagnitude(series)
			unit := axis.SelectDurationUnit(series, nil)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "recorded %s samples into %s\n", humanize.Comma(int64(n)), unitFormat(metric))
			if dropped := collector.Dropped(); dropped > 0 {
				logger.Warn("samples lost before they were saved", "metric", metric, "dropped", dropped)
				fmt.Fprintln(out, warnFormat(fmt.Sprintf("%s samples could not be saved", humanize.Comma(int64(dropped)))))
			}
			fmt.Fprintln(out, components.RenderLegend(components.BuildLegendRows(series, nil), unit, cfg.Chart.Precision))
			return nil
		},
	}

	cmd.Flags().StringVarP(&metric, "metric", "m", "", "metric name to record under")
	cmd.Flags().StringVarP(&key, "key", "k", "value", "series name for lines without one")
	cmd.Flags().DurationVar(&interval, "flush", 5*time.Second, "how often to flush to the store")
	cmd.Flags().IntVar(&every, "summary-every", 100, "print a progress line every n samples (0 disables)")
	_ = cmd.MarkFlagRequired("metric")
	return cmd
}

// recordLines feeds every parsable line of r into the collector and returns
// the number recorded. Unparsable lines are logged and skipped.
func recordLines(ctx context.Context, r io.Reader, c *metrics.Collector, defaultKey string, progress func(int)) (int, error) {
	scanner := bufio.NewScanner(r)
	count := 0
	for lineNo := 1; scanner.Scan(); lineNo++ {
		if ctx.Err() != nil {
			return count, ctx.Err()
		}
		name, value, ok, err := parseRecordLine(scanner.Text(), defaultKey)
		if err != nil {
			logger.Warn("skipping line", "line", lineNo, "error", err)
			continue
		}
		if !ok {
			continue
		}
		c.Record(name, value)
		count++
		if progress != nil {
			progress(count)
		}
	}
	if err := scanner.Err(); err != nil {
		return count, fmt.Errorf("reading input: %w", err)
	}
	return count, nil
}

// parseRecordLine splits "<ms>" or "<name> <ms>". Blank lines and lines
// starting with # report ok=false.
func parseRecordLine(line, defaultKey string) (name string, value float64, ok bool, err error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", 0, false, nil
	}

	fields := strings.Fields(line)
	name = defaultKey
	raw := fields[0]
	switch len(fields) {
	case 1:
	case 2:
		name, raw = fields[0], fields[1]
	default:
		return "", 0, false, fmt.Errorf("expected \"<ms>\" or \"<name> <ms>\", got %d fields", len(fields))
	}

	value, err = strconv.ParseFloat(raw, 64)
	if err != nil {
		return "", 0, false, fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	return name, value, true, nil
}

func summaryLine(c *metrics.Collector, count int) string {
	parts := []string{fmt.Sprintf("%s samples", humanize.Comma(int64(count)))}
	for _, name := range c.Names() {
		if dp, ok := c.Latest(name); ok {
			parts = append(parts, fmt.Sprintf("%s=%s", name, axis.FormatAxisDuration(dp.Value, axis.UnitAuto)))
		}
	}
	return mutedFormat(strings.Join(parts, "  "))
}
