package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/dyluth/figplot/internal/filter"
	"github.com/dyluth/figplot/internal/printer"
	"github.com/dyluth/figplot/internal/report"
	"github.com/dyluth/figplot/internal/resolver"
	"github.com/dyluth/figplot/internal/resultstore"
	"github.com/dyluth/figplot/internal/timespec"
	"github.com/spf13/cobra"
)

var (
	runsRedisURL string
	runsOutput   string
	runsWatch    bool
	runsSince    string
	runsUntil    string
	runsMatch    string
)

var runsCmd = &cobra.Command{
	Use:   "runs [RUN_ID]",
	Short: "Inspect runs in the shared results store",
	Long: `Inspect published runs in list, show or watch mode.

List Mode (no RUN_ID):
  Displays published runs, newest first.

Filters (list and watch mode):
  --since  - Show runs published after this time (duration or RFC3339)
  --until  - Show runs published before this time
  --match  - Show runs whose output tree matches a glob pattern

Show Mode (with RUN_ID):
  Displays the condensed rows of one run.
  Supports short IDs (e.g., "abc123" instead of full UUID).

Watch Mode (--watch):
  Prints each run as it is published until interrupted.

Examples:
  # List runs
  figplot runs

  # Runs from the last day computed from rerun trees
  figplot runs --since=24h --match='./out-rerun*'

  # Show a run as CSV
  figplot runs abc123 --output=csv

  # Follow publications from other machines
  figplot runs --watch`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRuns,
}

func init() {
	runsCmd.Flags().StringVar(&runsRedisURL, "redis", "", "Redis URL (overrides store.redis_url)")
	runsCmd.Flags().StringVarP(&runsOutput, "output", "o", "default", "Output format: default, jsonl or csv")
	runsCmd.Flags().BoolVarP(&runsWatch, "watch", "w", false, "Print runs as they are published")
	runsCmd.Flags().StringVar(&runsSince, "since", "", "Show runs after time (duration or RFC3339)")
	runsCmd.Flags().StringVar(&runsUntil, "until", "", "Show runs before time (duration or RFC3339)")
	runsCmd.Flags().StringVar(&runsMatch, "match", "", "Filter by output tree (glob pattern)")
	rootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, args []string) error {
	format, err := report.ParseOutputFormat(runsOutput)
	if err != nil {
		return printer.Error(
			"invalid output format",
			fmt.Sprintf("Unknown format: %s", runsOutput),
			[]string{"Valid formats: default, jsonl, csv"},
		)
	}
	if runsWatch && len(args) > 0 {
		return printer.Error(
			"conflicting arguments",
			"--watch cannot be combined with a RUN_ID.",
			[]string{"Follow new runs:\n  figplot runs --watch"},
		)
	}

	sinceMs, untilMs, err := timespec.ParseRange(runsSince, runsUntil)
	if err != nil {
		return printer.Error(
			"invalid time filter",
			err.Error(),
			[]string{"Use duration format like '1h30m' or RFC3339 like '2025-10-29T13:00:00Z'"},
		)
	}
	criteria := &filter.Criteria{
		SinceTimestampMs: sinceMs,
		UntilTimestampMs: untilMs,
		RootGlob:         runsMatch,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client, err := openStore(ctx, cfg, runsRedisURL)
	if err != nil {
		return err
	}
	defer client.Close()

	switch {
	case runsWatch:
		return watchRuns(ctx, cmd, client, criteria, format)
	case len(args) > 0:
		return showRun(ctx, cmd, client, args[0], format)
	}

	runs, err := client.ListRuns(ctx)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	return report.FormatRunList(cmd.OutOrStdout(), criteria.Runs(runs), format)
}

func showRun(ctx context.Context, cmd *cobra.Command, client *resultstore.Client, shortID string, format report.OutputFormat) error {
	fullID, err := resolver.ResolveRunID(ctx, client, shortID)
	if err != nil {
		if resolver.IsNotFoundError(err) {
			return printer.Error(
				fmt.Sprintf("run with ID '%s' not found", shortID),
				"The specified run does not exist in the results store.",
				[]string{"List all runs:\n  figplot runs"},
			)
		}
		if resolver.IsAmbiguousError(err) {
			return printer.Error(
				"ambiguous short ID",
				resolver.FormatAmbiguousError(err.(*resolver.AmbiguousError)),
				nil,
			)
		}
		return printer.Error("invalid run ID", err.Error(), nil)
	}

	run, err := client.GetRun(ctx, fullID)
	if err != nil {
		if resultstore.IsNotFound(err) {
			return printer.Error(
				fmt.Sprintf("run with ID '%s' not found", fullID),
				"The run was resolved but could not be fetched.",
				[]string{"This might indicate a race condition. Try again."},
			)
		}
		return fmt.Errorf("failed to get run: %w", err)
	}

	if format == report.OutputFormatDefault {
		printer.Info("Run %s from %s, published %s\n\n", run.ID, run.Root,
			time.UnixMilli(run.CreatedAtMs).UTC().Format(time.RFC3339))
	}
	return report.Write(cmd.OutOrStdout(), run.Rows, format)
}

func watchRuns(ctx context.Context, cmd *cobra.Command, client *resultstore.Client, criteria *filter.Criteria, format report.OutputFormat) error {
	sub, err := client.SubscribeRunEvents(ctx)
	if err != nil {
		return fmt.Errorf("failed to watch runs: %w", err)
	}
	defer sub.Close()

	printer.Step("Watching for published runs (Ctrl+C to stop)\n")
	errs := sub.Errors()
	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			printer.Warning("%v\n", err)
		case run, ok := <-sub.Events():
			if !ok {
				return nil
			}
			if !criteria.Matches(run) {
				continue
			}
			if format == report.OutputFormatDefault {
				printer.Success("Run %s from %s (%d rows)\n", report.ShortID(run.ID), run.Root, run.RowCount)
			}
			if err := report.Write(cmd.OutOrStdout(), run.Rows, format); err != nil {
				return fmt.Errorf("failed to write run: %w", err)
			}
		}
	}
}
