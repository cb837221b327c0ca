package commands

import (
	"context"
	"fmt"

	"github.com/dyluth/figplot/internal/printer"
	"github.com/dyluth/figplot/internal/report"
	"github.com/dyluth/figplot/internal/resultstore"
	"github.com/spf13/cobra"
)

var publishRedisURL string

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Store the condensed rows in the shared results store",
	Long: `Walk the output tree, condense it and store the rows as a new run in the
Redis results store so they can be listed and compared later with
'figplot runs'. Subscribers to the run events channel are notified.

Examples:
  # Publish to the store configured in figplot.yml
  figplot publish

  # Publish a rerun tree to a shared server
  figplot publish --root ./out-rerun --redis redis://results:6379/0`,
	Args: cobra.NoArgs,
	RunE: runPublish,
}

func init() {
	publishCmd.Flags().StringVar(&publishRedisURL, "redis", "", "Redis URL (overrides store.redis_url)")
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	rows, err := collectRows(cfg)
	if err != nil {
		return err
	}

	client, err := openStore(ctx, cfg, publishRedisURL)
	if err != nil {
		return err
	}
	defer client.Close()

	run := resultstore.NewRun(cfg.Root, rows)
	if err := client.PublishRun(ctx, run); err != nil {
		return fmt.Errorf("failed to publish run: %w", err)
	}

	printer.Success("Published run %s (%d rows)\n", report.ShortID(run.ID), run.RowCount)
	fmt.Fprintln(cmd.OutOrStdout(), run.ID)
	return nil
}
