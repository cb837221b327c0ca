package commands

import (
	"context"
	"fmt"

	"github.com/dyluth/figplot/internal/config"
	"github.com/dyluth/figplot/internal/printer"
	"github.com/dyluth/figplot/internal/resultstore"
	"github.com/redis/go-redis/v9"
)

// openStore connects to the results store named by redisURL, or by
// store.redis_url when redisURL is empty, and verifies connectivity.
func openStore(ctx context.Context, cfg *config.FigplotConfig, redisURL string) (*resultstore.Client, error) {
	if redisURL == "" {
		redisURL = cfg.Store.RedisURL
	}

	redisOpts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, printer.Error(
			"invalid Redis URL",
			fmt.Sprintf("Could not parse %s: %v", redisURL, err),
			[]string{"Use the form redis://host:port/db"},
		)
	}

	client, err := resultstore.NewClient(redisOpts, cfg.Store.Namespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create results store client: %w", err)
	}

	if err := client.Ping(ctx); err != nil {
		client.Close()
		return nil, printer.ErrorWithContext(
			"Redis connection failed",
			fmt.Sprintf("Could not connect to Redis at %s", redisURL),
			map[string]string{"Error": err.Error()},
			[]string{
				"Check that Redis is running and reachable",
				"Point at another server:\n  figplot publish --redis redis://host:6379/0",
			},
		)
	}

	return client, nil
}
