package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"log"

	"github.com/dyluth/figplot/internal/aggregate"
	"github.com/dyluth/figplot/internal/config"
	"github.com/dyluth/figplot/internal/logfile"
	"github.com/dyluth/figplot/internal/params"
	"github.com/dyluth/figplot/internal/printer"
	"github.com/dyluth/figplot/internal/walker"
)

// loadConfig reads figplot.yml and applies global flag overrides.
// A missing file is only an error when --config names a non-default path.
func loadConfig() (*config.FigplotConfig, error) {
	cfg, found, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, printer.Error(
			"invalid configuration",
			fmt.Sprintf("Could not load %s: %v", configPath, err),
			[]string{"Regenerate a starter config:\n  figplot init --force"},
		)
	}
	if !found && configPath != config.DefaultPath {
		return nil, printer.Error(
			"config file not found",
			fmt.Sprintf("No configuration at %s.", configPath),
			[]string{
				"Create one:\n  figplot init",
				"Omit --config to use the built-in defaults",
			},
		)
	}
	if !found && verbose {
		log.Printf("[Config] %s not found, using defaults", configPath)
	}

	if rootOverride != "" {
		cfg.Root = rootOverride
	}
	return cfg, nil
}

// collectRows walks the configured output tree and condenses it into chart rows.
func collectRows(cfg *config.FigplotConfig) ([]aggregate.Row, error) {
	opts := cfg.WalkerOptions()
	opts.Verbose = verbose

	acc, err := walker.Walk(cfg.Root, opts)
	if err != nil {
		return nil, explainWalkError(cfg, err)
	}
	if verbose {
		log.Printf("[Walker] Found %d runs under %s", acc.Len(), cfg.Root)
	}

	rows, err := aggregate.Aggregate(acc.Observations, cfg.AggregateOptions())
	if err != nil {
		return nil, fmt.Errorf("aggregation failed: %w", err)
	}
	return rows, nil
}

// explainWalkError turns walker failures into formatted diagnostics.
func explainWalkError(cfg *config.FigplotConfig, err error) error {
	var countErr *logfile.CountError
	var parseErr *logfile.ParseError
	var dimErr *params.DimensionError
	var rootErr *walker.RootError

	switch {
	case errors.As(err, &countErr):
		return printer.ErrorWithContext(
			"malformed log file",
			fmt.Sprintf("Expected %d floats, got %d.", countErr.Expected, countErr.Got),
			map[string]string{
				"Path":     countErr.Path,
				"Expected": fmt.Sprint(countErr.Expected),
				"Got":      fmt.Sprint(countErr.Got),
			},
			[]string{
				"Check that the run finished every epoch",
				"Set 'expected_epochs' in figplot.yml if runs use a different epoch count",
			},
		)

	case errors.As(err, &parseErr):
		return printer.ErrorWithContext(
			"malformed log file",
			fmt.Sprintf("Line %d is not a number: %q", parseErr.Line, parseErr.Text),
			map[string]string{
				"Path": parseErr.Path,
				"Line": fmt.Sprint(parseErr.Line),
			},
			[]string{"Logs hold one header line followed by one value per line"},
		)

	case errors.As(err, &dimErr):
		return printer.ErrorWithContext(
			"malformed directory name",
			fmt.Sprintf("Expected %d values, got %d.", dimErr.Expected, dimErr.Got),
			map[string]string{
				"Path":     dimErr.Path,
				"Expected": fmt.Sprint(dimErr.Expected),
				"Got":      fmt.Sprint(dimErr.Got),
				"Scope":    string(cfg.PathScope),
			},
			[]string{
				"List every integer the run directories encode under 'parameters' in figplot.yml",
				"Use 'path_scope: relative' if digits in the root path are being counted",
			},
		)

	case errors.As(err, &rootErr) && errors.Is(rootErr, fs.ErrNotExist):
		return printer.Error(
			"results root not found",
			fmt.Sprintf("Could not read %s: %v", cfg.Root, err),
			[]string{
				"Pass the output tree explicitly:\n  figplot plot --root <dir>",
				"Set 'root' in figplot.yml",
			},
		)

	case errors.As(err, &rootErr):
		return printer.Error(
			"invalid results root",
			rootErr.Error(),
			[]string{"Point --root or 'root' in figplot.yml at the output directory"},
		)
	}

	return fmt.Errorf("failed to walk %s: %w", cfg.Root, err)
}
