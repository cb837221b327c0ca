package resultstore

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/dyluth/figplot/internal/aggregate"
)

// Serialization helpers for converting between Go structs and Redis values
//
// Run metadata is stored as a hash of scalar fields; each row is stored as a
// JSON-encoded list element so rows keep their presentation order.

// RunToHash converts run metadata to a Redis hash. Rows are not included.
func RunToHash(r *Run) map[string]interface{} {
	return map[string]interface{}{
		"id":            r.ID,
		"root":          r.Root,
		"created_at_ms": r.CreatedAtMs,
		"row_count":     r.RowCount,
	}
}

// HashToRun converts a Redis hash back to run metadata.
func HashToRun(hash map[string]string) (*Run, error) {
	createdAtMs, err := strconv.ParseInt(hash["created_at_ms"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid created_at_ms field: %w", err)
	}

	rowCount, err := strconv.Atoi(hash["row_count"])
	if err != nil {
		return nil, fmt.Errorf("invalid row_count field: %w", err)
	}

	return &Run{
		ID:          hash["id"],
		Root:        hash["root"],
		CreatedAtMs: createdAtMs,
		RowCount:    rowCount,
	}, nil
}

// RowsToList encodes rows as JSON strings for RPUSH.
func RowsToList(rows []aggregate.Row) ([]interface{}, error) {
	list := make([]interface{}, len(rows))
	for i, row := range rows {
		data, err := json.Marshal(row)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal row %d: %w", i, err)
		}
		list[i] = string(data)
	}
	return list, nil
}

// ListToRows decodes rows read with LRANGE.
func ListToRows(list []string) ([]aggregate.Row, error) {
	rows := make([]aggregate.Row, len(list))
	for i, item := range list {
		if err := json.Unmarshal([]byte(item), &rows[i]); err != nil {
			return nil, fmt.Errorf("failed to unmarshal row %d: %w", i, err)
		}
	}
	return rows, nil
}
