package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/willibrandon/tickwise/internal/axis"
)

func newUnitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unit <ms>...",
		Short: "Print the unit each millisecond value falls into",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseMillis(args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, v := range values {
				u := axis.Categorize(v)
				fmt.Fprintf(out, "%s\t%s\t%s\n", args[i], unitFormat(u.Abbrev()), axis.FormatAxisDuration(v, u))
			}
			return nil
		},
	}
}

func newFormatCmd() *cobra.Command {
	var (
		unitName  string
		precision int
	)

	cmd := &cobra.Command{
		Use:   "format <ms>",
		Short: "Format a millisecond value as an axis label",
		Long: `Format a millisecond value as an axis label such as "2s" or "3hr".

With --precision the value keeps that many decimals, as shown in legends.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseMillis(args)
			if err != nil {
				return err
			}
			unit, err := axis.ParseUnit(unitName)
			if err != nil {
				return err
			}

			label := axis.FormatAxisDuration(values[0], unit)
			if cmd.Flags().Changed("precision") {
				label = axis.FormatDuration(values[0], unit, precision)
			}
			fmt.Fprintln(cmd.OutOrStdout(), label)
			return nil
		},
	}

	cmd.Flags().StringVarP(&unitName, "unit", "u", "auto", "display unit (ms, s, min, hr, d, wk or auto)")
	cmd.Flags().IntVarP(&precision, "precision", "p", 1, "decimals to keep")
	return cmd
}

func parseMillis(args []string) ([]float64, error) {
	values := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid duration %q: %w", a, err)
		}
		values[i] = v
	}
	return values, nil
}
