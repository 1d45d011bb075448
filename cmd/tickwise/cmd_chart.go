package main

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/willibrandon/tickwise/internal/axis"
	"github.com/willibrandon/tickwise/internal/logger"
	"github.com/willibrandon/tickwise/internal/metrics"
	"github.com/willibrandon/tickwise/internal/seriesfile"
	"github.com/willibrandon/tickwise/internal/ui/components"
	"github.com/willibrandon/tickwise/internal/ui/explore"
)

// chartFlags are shared by chart and explore.
type chartFlags struct {
	metric string
	window string
	unit   string
	hide   []string
	smooth float64
	width  int
	height int
}

func (f *chartFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.metric, "metric", "m", "", "stored metric to chart instead of a file")
	cmd.Flags().StringVarP(&f.window, "window", "w", "", "time window for stored metrics (1m, 5m, 15m, 1h, 24h, 7d)")
	cmd.Flags().StringVarP(&f.unit, "unit", "u", "", "force the axis unit instead of selecting one")
	cmd.Flags().StringSliceVar(&f.hide, "hide", nil, "series to hide (repeatable)")
	cmd.Flags().Float64Var(&f.smooth, "smooth", 0, "EWMA smoothing age in samples (0 disables)")
	cmd.Flags().IntVar(&f.width, "width", 0, "chart width")
	cmd.Flags().IntVar(&f.height, "height", 0, "chart height")
}

// resolve merges flags over the configuration.
func (f *chartFlags) resolve(cmd *cobra.Command) (components.DurationChartConfig, axis.Legend, float64, error) {
	cc := components.DurationChartConfig{
		Width:     cfg.Chart.Width,
		Height:    cfg.Chart.Height,
		Ticks:     cfg.Chart.Ticks,
		Precision: cfg.Chart.Precision,
		MinPoints: 2,
		Window:    cfg.Chart.TimeWindow(),
		Unit:      cfg.Chart.AxisUnit(),
	}
	smoothing := cfg.Chart.Smoothing

	if f.window != "" {
		w, err := metrics.ParseTimeWindow(f.window)
		if err != nil {
			return cc, nil, 0, err
		}
		cc.Window = w
	}
	if f.unit != "" {
		u, err := axis.ParseUnit(f.unit)
		if err != nil {
			return cc, nil, 0, err
		}
		cc.Unit = u
	}
	if cmd.Flags().Changed("smooth") {
		smoothing = f.smooth
	}
	if f.width > 0 {
		cc.Width = f.width
	}
	if f.height > 0 {
		cc.Height = f.height
	}

	hidden := append(append([]string(nil), cfg.Legend.Hidden...), f.hide...)
	return cc, axis.Hidden(hidden...), smoothing, nil
}

// loadSeries reads series from a file argument or from the store.
func (f *chartFlags) loadSeries(ctx context.Context, args []string, window metrics.TimeWindow) ([]metrics.Series, error) {
	switch {
	case len(args) == 1:
		return seriesfile.Load(args[0])
	case f.metric != "":
		db, store, err := openStore()
		if err != nil {
			return nil, err
		}
		defer db.Close()
		return store.LoadWindow(ctx, f.metric, window, time.Now())
	default:
		return nil, fmt.Errorf("a series file or --metric is required")
	}
}

func newChartCmd() *cobra.Command {
	var flags chartFlags

	cmd := &cobra.Command{
		Use:   "chart [file]",
		Short: "Render series as a terminal chart",
		Long: `Render duration series as a terminal chart with one shared axis unit.

Series are read from a YAML/JSON file, or from the store with --metric.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, legend, smoothing, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			series, err := flags.loadSeries(cmd.Context(), args, cc.Window)
			if err != nil {
				return err
			}
			if smoothing >= 1 {
				for i := range series {
					series[i] = series[i].Smoothed(smoothing)
				}
			}

			chart := components.NewDurationChart(cc)
			chart.SetLegend(legend)
			chart.SetSeries(series)

			logger.Debug("rendering chart", "series", len(series), "unit", chart.Unit().String())

			rows := components.BuildLegendRows(chart.Series(), chart.Legend())
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, chart.View())
			fmt.Fprintln(out)
			fmt.Fprintln(out, components.RenderLegend(rows, chart.Unit(), cc.Precision))
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func newExploreCmd() *cobra.Command {
	var (
		flags   chartFlags
		refresh time.Duration
	)

	cmd := &cobra.Command{
		Use:   "explore [file]",
		Short: "Interactive chart with a toggleable legend",
		Long: `Interactive chart. Keys 1-9 toggle series, a shows all, s toggles
smoothing, [ and ] change the window of stored metrics, q quits.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, legend, smoothing, err := flags.resolve(cmd)
			if err != nil {
				return err
			}

			opts := explore.Options{
				Chart:     cc,
				Legend:    legend,
				Smoothing: smoothing,
			}
			if len(args) == 1 {
				if opts.Series, err = seriesfile.Load(args[0]); err != nil {
					return err
				}
			} else {
				opts.Loader = func(ctx context.Context, w metrics.TimeWindow) ([]metrics.Series, error) {
					return flags.loadSeries(ctx, nil, w)
				}
				opts.RefreshInterval = refresh
				if flags.metric == "" {
					return fmt.Errorf("a series file or --metric is required")
				}
			}

			p := tea.NewProgram(explore.New(opts), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("running explorer: %w", err)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().DurationVar(&refresh, "refresh", 5*time.Second, "reload interval for stored metrics (0 disables)")
	return cmd
}
