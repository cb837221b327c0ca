package resultstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Client provides namespace-scoped Redis operations for published runs.
// The client is thread-safe and can be used concurrently from multiple goroutines.
type Client struct {
	rdb       *redis.Client
	namespace string
}

// NewClient creates a new results store client for the specified namespace.
// Returns an error if namespace is empty.
func NewClient(redisOpts *redis.Options, namespace string) (*Client, error) {
	if namespace == "" {
		return nil, fmt.Errorf("namespace cannot be empty")
	}

	return &Client{
		rdb:       redis.NewClient(redisOpts),
		namespace: namespace,
	}, nil
}

// Close closes the Redis connection. Implements io.Closer.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Ping verifies Redis connectivity.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// PublishRun writes a run's metadata, rows and index entry in one transaction,
// then publishes the full run JSON to figplot:{namespace}:run_events.
// Publishing the same run twice leaves a single copy of its rows.
func (c *Client) PublishRun(ctx context.Context, r *Run) error {
	if err := r.Validate(); err != nil {
		return fmt.Errorf("invalid run: %w", err)
	}

	rows, err := RowsToList(r.Rows)
	if err != nil {
		return fmt.Errorf("failed to serialize rows: %w", err)
	}

	rowsKey := RunRowsKey(c.namespace, r.ID)
	_, err = c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, RunKey(c.namespace, r.ID), RunToHash(r))
		pipe.Del(ctx, rowsKey)
		if len(rows) > 0 {
			pipe.RPush(ctx, rowsKey, rows...)
		}
		pipe.ZAdd(ctx, RunsIndexKey(c.namespace), redis.Z{
			Score:  float64(r.CreatedAtMs),
			Member: r.ID,
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write run to Redis: %w", err)
	}

	runJSON, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal run for event: %w", err)
	}
	if err := c.rdb.Publish(ctx, RunEventsChannel(c.namespace), runJSON).Err(); err != nil {
		return fmt.Errorf("failed to publish run event: %w", err)
	}

	return nil
}

// GetRun retrieves a run and its rows by ID.
// Returns (nil, redis.Nil) if the run doesn't exist. Use IsNotFound() to check.
func (c *Client) GetRun(ctx context.Context, runID string) (*Run, error) {
	r, err := c.getRunMeta(ctx, runID)
	if err != nil {
		return nil, err
	}

	list, err := c.rdb.LRange(ctx, RunRowsKey(c.namespace, runID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read run rows from Redis: %w", err)
	}
	r.Rows, err = ListToRows(list)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize run rows: %w", err)
	}

	return r, nil
}

// ListRuns returns all published runs, newest first, without their rows.
func (c *Client) ListRuns(ctx context.Context) ([]*Run, error) {
	ids, err := c.RunIDs(ctx)
	if err != nil {
		return nil, err
	}

	runs := make([]*Run, 0, len(ids))
	for _, id := range ids {
		r, err := c.getRunMeta(ctx, id)
		if err != nil {
			if IsNotFound(err) {
				// Index entry without metadata; skip it
				continue
			}
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, nil
}

// RunIDs returns the IDs of all published runs, newest first.
func (c *Client) RunIDs(ctx context.Context) ([]string, error) {
	ids, err := c.rdb.ZRevRange(ctx, RunsIndexKey(c.namespace), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read run index: %w", err)
	}
	return ids, nil
}

// RunExists checks if a run exists without fetching it.
func (c *Client) RunExists(ctx context.Context, runID string) (bool, error) {
	exists, err := c.rdb.Exists(ctx, RunKey(c.namespace, runID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check run existence: %w", err)
	}
	return exists > 0, nil
}

func (c *Client) getRunMeta(ctx context.Context, runID string) (*Run, error) {
	hashData, err := c.rdb.HGetAll(ctx, RunKey(c.namespace, runID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read run from Redis: %w", err)
	}

	// HGetAll returns an empty map for non-existent keys
	if len(hashData) == 0 {
		return nil, redis.Nil
	}

	r, err := HashToRun(hashData)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize run: %w", err)
	}
	return r, nil
}

// Subscription delivers runs as they are published.
type Subscription struct {
	events <-chan *Run
	errors <-chan error
	cancel context.CancelFunc
}

// Events returns the channel of published runs. Closed when the subscription ends.
func (s *Subscription) Events() <-chan *Run {
	return s.events
}

// Errors returns the channel of decode errors. Closed when the subscription ends.
func (s *Subscription) Errors() <-chan error {
	return s.errors
}

// Close ends the subscription.
func (s *Subscription) Close() {
	s.cancel()
}

// SubscribeRunEvents subscribes to run publication events for this namespace.
// Caller must call subscription.Close() when done.
func (c *Client) SubscribeRunEvents(ctx context.Context) (*Subscription, error) {
	pubsub := c.rdb.Subscribe(ctx, RunEventsChannel(c.namespace))

	// Wait for the subscription to be confirmed so no event published after
	// this call returns can be missed
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to run events: %w", err)
	}

	eventsChan := make(chan *Run, 10)
	errorsChan := make(chan error, 10)
	subCtx, cancelFunc := context.WithCancel(ctx)

	go func() {
		defer close(eventsChan)
		defer close(errorsChan)
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-subCtx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}

				var r Run
				if err := json.Unmarshal([]byte(msg.Payload), &r); err != nil {
					select {
					case errorsChan <- fmt.Errorf("failed to unmarshal run event: %w", err):
					case <-subCtx.Done():
						return
					}
					continue
				}

				select {
				case eventsChan <- &r:
				case <-subCtx.Done():
					return
				}
			}
		}
	}()

	return &Subscription{
		events: eventsChan,
		errors: errorsChan,
		cancel: cancelFunc,
	}, nil
}

// IsNotFound returns true if the error is a Redis "key not found" error (redis.Nil).
func IsNotFound(err error) bool {
	return errors.Is(err, redis.Nil)
}
