package commands

import (
	"fmt"

	"github.com/dyluth/figplot/internal/chart"
	"github.com/dyluth/figplot/internal/printer"
	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"
)

var (
	plotOutput string
	plotShow   bool
	plotWidth  float64
	plotHeight float64
)

var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Render the summary bar chart",
	Long: `Walk the output tree, average the final accuracy of each configuration
over its repeated runs and render a horizontal bar chart.

Bars show the mean final test accuracy; error bars show the population
standard deviation. A chance-level baseline row is added last unless
disabled in figplot.yml. The chart format follows the output file's
extension (.png, .svg or .pdf).

Examples:
  # Render with figplot.yml settings
  figplot plot

  # Render another tree to SVG and open it
  figplot plot --root ./out-rerun --output rerun.svg --show`,
	Args: cobra.NoArgs,
	RunE: runPlot,
}

func init() {
	plotCmd.Flags().StringVarP(&plotOutput, "output", "o", "", "Chart file to write (overrides chart.output)")
	plotCmd.Flags().BoolVar(&plotShow, "show", false, "Open the chart in the system viewer after writing it")
	plotCmd.Flags().Float64Var(&plotWidth, "width", 0, "Chart width in inches (overrides chart.width_in)")
	plotCmd.Flags().Float64Var(&plotHeight, "height", 0, "Chart height in inches (overrides chart.height_in)")
	rootCmd.AddCommand(plotCmd)
}

func runPlot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	output := cfg.Chart.Output
	if plotOutput != "" {
		output = plotOutput
	}
	if err := chart.CheckExtension(output); err != nil {
		return printer.Error(
			"unsupported chart format",
			err.Error(),
			[]string{"Use a .png, .svg or .pdf file name"},
		)
	}

	width, height := cfg.Chart.WidthIn, cfg.Chart.HeightIn
	if plotWidth > 0 {
		width = plotWidth
	}
	if plotHeight > 0 {
		height = plotHeight
	}

	printer.Step("Walking %s\n", cfg.Root)
	rows, err := collectRows(cfg)
	if err != nil {
		return err
	}

	if len(rows) == 0 {
		return printer.Error(
			"nothing to plot",
			fmt.Sprintf("No run directories were found under %s and the baseline is disabled.", cfg.Root),
			[]string{"Check 'root' and 'logs' in figplot.yml"},
		)
	}

	p, err := chart.Render(rows, cfg.ChartOptions())
	if err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}

	if err := chart.Save(p, output, vg.Length(width)*vg.Inch, vg.Length(height)*vg.Inch); err != nil {
		return fmt.Errorf("failed to write chart: %w", err)
	}
	printer.Success("Chart written to %s (%d rows)\n", output, len(rows))

	if plotShow {
		if err := chart.Show(output); err != nil {
			printer.Warning("Could not open %s: %v\n", output, err)
		}
	}
	return nil
}
