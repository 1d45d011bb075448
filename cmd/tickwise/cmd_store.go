package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/willibrandon/tickwise/internal/logger"
	"github.com/willibrandon/tickwise/internal/seriesfile"
	"github.com/willibrandon/tickwise/internal/storage/sqlite"
)

// openStore opens the configured series database. The caller closes db.
func openStore() (*sqlite.DB, *sqlite.SeriesStore, error) {
	db, err := sqlite.Open(cfg.Storage.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", cfg.Storage.Path, err)
	}
	return db, sqlite.NewSeriesStore(db), nil
}

func newImportCmd() *cobra.Command {
	var metric string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Store the series from a YAML or JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			series, err := seriesfile.Load(args[0])
			if err != nil {
				return err
			}

			db, store, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			inserted, err := store.SaveAll(cmd.Context(), metric, series)
			if err != nil {
				return err
			}

			total := 0
			for _, s := range series {
				total += s.Len()
			}
			skipped := total - inserted
			logger.Info("imported series", "metric", metric, "file", args[0], "series", len(series), "points", inserted, "skipped", skipped)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "imported %s points in %d series into %s\n",
				humanize.Comma(int64(inserted)), len(series), unitFormat(metric))
			if skipped > 0 {
				fmt.Fprintln(out, warnFormat(fmt.Sprintf("skipped %s points without a timestamp or with a non-finite value", humanize.Comma(int64(skipped)))))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&metric, "metric", "m", "", "metric name to store under")
	_ = cmd.MarkFlagRequired("metric")
	return cmd
}

func newMetricsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "List stored metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, store, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			infos, err := store.ListMetrics(cmd.Context())
			if err != nil {
				return err
			}
			if len(infos) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), mutedFormat("no stored metrics"))
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "METRIC\tSERIES\tPOINTS\tOLDEST\tNEWEST")
			for _, m := range infos {
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n",
					unitFormat(m.Name), m.Series, humanize.Comma(m.Points),
					humanize.Time(m.Oldest), humanize.Time(m.Newest))
			}
			return w.Flush()
		},
	}
}

func newPruneCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete stored points older than the retention period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("days") {
				days = cfg.Storage.RetentionDays
			}
			if days < 1 {
				return fmt.Errorf("retention must be at least one day, got %d", days)
			}

			db, store, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			n, err := store.Prune(cmd.Context(), days)
			if err != nil {
				return err
			}
			cutoff := time.Now().AddDate(0, 0, -days)
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s points older than %s\n",
				humanize.Comma(n), humanize.Time(cutoff))
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "retention in days (default from config)")
	return cmd
}
