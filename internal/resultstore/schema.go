package resultstore

import "fmt"

// Redis key pattern helpers
//
// Key pattern: figplot:{namespace}:{entity}:{uuid}
// Channel pattern: figplot:{namespace}:{event_type}_events

// RunKey returns the Redis key for a run's metadata hash.
// Pattern: figplot:{namespace}:run:{run_id}
func RunKey(namespace, runID string) string {
	return fmt.Sprintf("figplot:%s:run:%s", namespace, runID)
}

// RunRowsKey returns the Redis key for a run's row list.
// Pattern: figplot:{namespace}:run:{run_id}:rows
func RunRowsKey(namespace, runID string) string {
	return fmt.Sprintf("figplot:%s:run:%s:rows", namespace, runID)
}

// RunsIndexKey returns the Redis key for the ZSET of run IDs ordered by creation time.
// Pattern: figplot:{namespace}:runs
func RunsIndexKey(namespace string) string {
	return fmt.Sprintf("figplot:%s:runs", namespace)
}

// RunEventsChannel returns the Pub/Sub channel name for run events.
// Pattern: figplot:{namespace}:run_events
func RunEventsChannel(namespace string) string {
	return fmt.Sprintf("figplot:%s:run_events", namespace)
}
