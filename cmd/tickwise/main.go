package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/willibrandon/tickwise/internal/config"
	"github.com/willibrandon/tickwise/internal/logger"
)

var (
	// Version info (set by ldflags)
	version = "dev"

	// Flags
	configPath string
	debug      bool

	// Loaded in PersistentPreRunE
	cfg *config.Config
)

var (
	errorFormat = color.New(color.FgHiRed).SprintFunc()
	unitFormat  = color.New(color.FgCyan).SprintFunc()
	mutedFormat = color.New(color.FgHiBlack).SprintFunc()
	warnFormat  = color.New(color.FgHiYellow).SprintFunc()
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tickwise",
		Short: "Chart duration series with one readable axis unit",
		Long: `tickwise picks a single display unit (ms, s, min, hr, d, wk) for charts of
duration-valued series and renders them in the terminal.

Series come from YAML/JSON files or from the local series database, which
"tickwise record" and "tickwise import" fill.`,
		Version:           version,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		PersistentPostRun: teardown,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default ~/.config/tickwise/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	// Add subcommands
	rootCmd.AddCommand(
		newUnitCmd(),
		newFormatCmd(),
		newChartCmd(),
		newExploreCmd(),
		newImportCmd(),
		newRecordCmd(),
		newMetricsCmd(),
		newPruneCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", errorFormat("Error:"), err)
		logger.Close()
		os.Exit(1)
	}
}

// setup loads configuration and starts the logger.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.LoadFromPath(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	level := logger.ParseLevel(cfg.Log.Level)
	if debug || cfg.Debug {
		debug = true
		level = logger.LevelDebug
	}
	logger.InitLogger(level, cfg.Log.Path)
	logger.Debug("tickwise starting", "command", cmd.Name(), "version", version)
	return nil
}

// teardown prints captured warnings in debug mode and closes the log.
func teardown(cmd *cobra.Command, args []string) {
	defer logger.Close()
	if !debug {
		return
	}

	entries := logger.GetEntries()
	if len(entries) == 0 {
		return
	}
	fmt.Fprintln(os.Stderr, mutedFormat("-- captured log entries --"))
	for _, e := range entries {
		fmt.Fprintln(os.Stderr, warnFormat(e.Format()))
	}
}
