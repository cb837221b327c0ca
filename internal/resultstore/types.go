package resultstore

import (
	"fmt"
	"time"

	"github.com/dyluth/figplot/internal/aggregate"
	"github.com/google/uuid"
)

// Run is one published aggregation: the condensed rows of an output tree at a point in time.
type Run struct {
	ID          string          `json:"id"`            // UUID - unique identifier for this run
	Root        string          `json:"root"`          // Output tree the rows were computed from
	CreatedAtMs int64           `json:"created_at_ms"` // Unix timestamp in milliseconds
	RowCount    int             `json:"row_count"`     // Number of rows, baseline included
	Rows        []aggregate.Row `json:"rows,omitempty"`
}

// NewRun stamps rows with a fresh ID and the current time.
func NewRun(root string, rows []aggregate.Row) *Run {
	return &Run{
		ID:          uuid.New().String(),
		Root:        root,
		CreatedAtMs: time.Now().UnixMilli(),
		RowCount:    len(rows),
		Rows:        rows,
	}
}

// Validate checks that the run is complete enough to publish.
func (r *Run) Validate() error {
	if _, err := uuid.Parse(r.ID); err != nil {
		return fmt.Errorf("invalid run ID: %w", err)
	}
	if r.Root == "" {
		return fmt.Errorf("root is required")
	}
	if r.CreatedAtMs <= 0 {
		return fmt.Errorf("created_at_ms must be positive")
	}
	if r.RowCount != len(r.Rows) {
		return fmt.Errorf("row_count %d does not match %d rows", r.RowCount, len(r.Rows))
	}
	return nil
}
