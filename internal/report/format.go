package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/dyluth/figplot/internal/aggregate"
	"github.com/olekukonko/tablewriter"
)

// OutputFormat specifies how condensed rows are written.
type OutputFormat string

const (
	// OutputFormatDefault renders a human-readable table
	OutputFormatDefault OutputFormat = "default"

	// OutputFormatJSONL outputs one JSON object per row
	OutputFormatJSONL OutputFormat = "jsonl"

	// OutputFormatCSV outputs a header and one record per row
	OutputFormatCSV OutputFormat = "csv"
)

// ParseOutputFormat validates a user supplied format name.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case OutputFormatDefault, OutputFormatJSONL, OutputFormatCSV:
		return OutputFormat(s), nil
	}
	return "", fmt.Errorf("unknown output format: %s", s)
}

// Write dispatches to the formatter for format.
func Write(w io.Writer, rows []aggregate.Row, format OutputFormat) error {
	switch format {
	case OutputFormatJSONL:
		return FormatJSONL(w, rows)
	case OutputFormatCSV:
		return FormatCSV(w, rows)
	default:
		return FormatTable(w, rows)
	}
}

// FormatTable writes rows as a table with one line per configuration.
// Means and standard deviations are shown with two decimals.
func FormatTable(w io.Writer, rows []aggregate.Row) error {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No experiment results found")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("CONFIGURATION", "RUNS", "TRAIN MEAN", "TRAIN STD", "TEST MEAN", "TEST STD")
	for _, r := range rows {
		if err := table.Append([]string{
			r.Label,
			formatRuns(r),
			formatPercent(r.TrainMean),
			formatPercent(r.TrainStd),
			formatPercent(r.TestMean),
			formatPercent(r.TestStd),
		}); err != nil {
			return fmt.Errorf("failed to add table row: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	configs := len(rows)
	if rows[len(rows)-1].Baseline {
		configs--
	}
	noun := "configuration"
	if configs != 1 {
		noun = "configurations"
	}
	fmt.Fprintf(w, "\n%d %s found\n", configs, noun)
	return nil
}

// FormatJSONL writes each row as a single line of JSON.
func FormatJSONL(w io.Writer, rows []aggregate.Row) error {
	for _, r := range rows {
		data, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("failed to marshal row to JSON: %w", err)
		}
		if _, err := fmt.Fprintf(w, "%s\n", data); err != nil {
			return fmt.Errorf("failed to write JSONL output: %w", err)
		}
	}
	return nil
}

// FormatCSV writes rows as CSV. Parameter values get one column each, named
// after the parameters of the first non-baseline row.
func FormatCSV(w io.Writer, rows []aggregate.Row) error {
	var names []string
	for _, r := range rows {
		if !r.Baseline {
			for _, p := range r.Params {
				names = append(names, p.Name)
			}
			break
		}
	}

	cw := csv.NewWriter(w)
	header := append([]string{"label"}, names...)
	header = append(header, "runs", "train_mean", "train_std", "test_mean", "test_std", "baseline")
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, r := range rows {
		record := []string{r.Label}
		for _, name := range names {
			v, ok := r.Params.Get(name)
			if !ok {
				record = append(record, "")
				continue
			}
			record = append(record, strconv.Itoa(v))
		}
		record = append(record,
			strconv.Itoa(r.Runs),
			strconv.FormatFloat(r.TrainMean, 'f', 6, 64),
			strconv.FormatFloat(r.TrainStd, 'f', 6, 64),
			strconv.FormatFloat(r.TestMean, 'f', 6, 64),
			strconv.FormatFloat(r.TestStd, 'f', 6, 64),
			strconv.FormatBool(r.Baseline),
		)
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// formatRuns shows "-" for the synthetic baseline row.
func formatRuns(r aggregate.Row) string {
	if r.Baseline {
		return "-"
	}
	return strconv.Itoa(r.Runs)
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
