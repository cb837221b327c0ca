package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dyluth/figplot/internal/resultstore"
	"github.com/olekukonko/tablewriter"
)

// ShortIDLength is how many characters of a run ID are shown in listings.
const ShortIDLength = 8

// FormatRunList writes published runs, newest first as given.
// Only the table and JSONL formats apply; CSV falls back to JSONL.
func FormatRunList(w io.Writer, runs []*resultstore.Run, format OutputFormat) error {
	if format != OutputFormatDefault {
		for _, r := range runs {
			data, err := json.Marshal(r)
			if err != nil {
				return fmt.Errorf("failed to marshal run to JSON: %w", err)
			}
			if _, err := fmt.Fprintf(w, "%s\n", data); err != nil {
				return fmt.Errorf("failed to write JSONL output: %w", err)
			}
		}
		return nil
	}

	if len(runs) == 0 {
		fmt.Fprintln(w, "No published runs found")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("RUN ID", "PUBLISHED", "ROOT", "ROWS")
	for _, r := range runs {
		if err := table.Append([]string{
			ShortID(r.ID),
			time.UnixMilli(r.CreatedAtMs).UTC().Format(time.RFC3339),
			r.Root,
			strconv.Itoa(r.RowCount),
		}); err != nil {
			return fmt.Errorf("failed to add table row: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	fmt.Fprintf(w, "\n%d run(s) found\n", len(runs))
	return nil
}

// ShortID truncates a run ID for display.
func ShortID(id string) string {
	if len(id) <= ShortIDLength {
		return id
	}
	return id[:ShortIDLength]
}
