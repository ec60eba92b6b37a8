package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"calc/internal/expression"
	"calc/internal/ui"
)

func plotCmd() *cobra.Command {
	var (
		variable string
		points   bool
		width    int
		height   int
	)
	cmd := &cobra.Command{
		Use:   "plot [expression]",
		Short: "Plot an expression of one variable",
		Long: `Samples the expression at 100 points from -10 in steps of 0.2 and
draws a text chart. Points that cannot be evaluated are drawn at 0.
Without an expression, sin(x) is plotted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if variable == "" {
				variable = appWire.PlotVariable
			}
			series := appWire.Plot.Sample(strings.Join(args, " "), variable)
			out := cmd.OutOrStdout()

			if points {
				for _, p := range series.Points {
					fmt.Fprintf(out, "%s\t%s\n", expression.Format(p.X), expression.Format(p.Y))
				}
				return nil
			}
			fmt.Fprintf(out, "f(%s) = %s\n\n%s\n", series.Variable, series.Expression, ui.RenderChart(series, width, height))
			if series.Failed > 0 {
				fmt.Fprintf(out, "%d of %d points could not be evaluated\n", series.Failed, len(series.Points))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&variable, "var", "", "variable name (default from config, x)")
	cmd.Flags().BoolVar(&points, "points", false, "print x/y pairs instead of a chart")
	cmd.Flags().IntVar(&width, "width", 72, "chart width in columns")
	cmd.Flags().IntVar(&height, "height", 16, "chart height in rows")
	return cmd
}
