package commands

import (
	"fmt"

	"github.com/dyluth/figplot/internal/printer"
	"github.com/dyluth/figplot/internal/report"
	"github.com/spf13/cobra"
)

var summaryOutput string

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the condensed rows behind the chart",
	Long: `Walk the output tree and print one row per configuration: the number of
runs, and the mean and standard deviation of the final train and test
accuracy. Rows appear in chart order, top bar first.

Output Formats:
  default - Human-readable table
  jsonl   - Line-delimited JSON, one row per line
  csv     - Header plus one record per row, one column per parameter

Examples:
  # Compare configurations in the terminal
  figplot summary

  # Export for a spreadsheet
  figplot summary --output=csv > results.csv`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func init() {
	summaryCmd.Flags().StringVarP(&summaryOutput, "output", "o", "default", "Output format: default, jsonl or csv")
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	format, err := report.ParseOutputFormat(summaryOutput)
	if err != nil {
		return printer.Error(
			"invalid output format",
			fmt.Sprintf("Unknown format: %s", summaryOutput),
			[]string{"Valid formats: default, jsonl, csv"},
		)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	rows, err := collectRows(cfg)
	if err != nil {
		return err
	}

	if err := report.Write(cmd.OutOrStdout(), rows, format); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}
