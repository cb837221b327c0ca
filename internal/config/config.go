package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/dyluth/figplot/internal/aggregate"
	"github.com/dyluth/figplot/internal/chart"
	"github.com/dyluth/figplot/internal/logfile"
	"github.com/dyluth/figplot/internal/walker"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up in the working directory.
const DefaultPath = "figplot.yml"

// FigplotConfig represents the top-level figplot.yml configuration
type FigplotConfig struct {
	Version        string           `yaml:"version"`
	Root           string           `yaml:"root"`
	ExpectedEpochs int              `yaml:"expected_epochs"`
	PathScope      walker.PathScope `yaml:"path_scope,omitempty"`
	Logs           *LogsConfig      `yaml:"logs,omitempty"`
	Parameters     []Parameter      `yaml:"parameters"`
	SortBy         []string         `yaml:"sort_by,omitempty"`
	Baseline       *BaselineConfig  `yaml:"baseline,omitempty"`
	Chart          *ChartConfig     `yaml:"chart,omitempty"`
	Store          *StoreConfig     `yaml:"store,omitempty"`
}

// LogsConfig names the per-epoch log files inside a run directory
type LogsConfig struct {
	Train string `yaml:"train"`
	Test  string `yaml:"test"`
}

// Parameter is one integer encoded in a run directory path.
// The last parameter is the repetition axis and is averaged over.
type Parameter struct {
	Name  string `yaml:"name"`
	Label string `yaml:"label,omitempty"` // Display name in row labels, defaults to Name
}

// BaselineConfig controls the chance-level row
type BaselineConfig struct {
	Enabled *bool `yaml:"enabled,omitempty"` // Default: true
	Classes int   `yaml:"classes,omitempty"` // Default: 40
}

// ChartConfig specifies chart metadata and output
type ChartConfig struct {
	Title    string  `yaml:"title,omitempty"`
	XLabel   string  `yaml:"x_label,omitempty"`
	Output   string  `yaml:"output,omitempty"`    // .png, .svg or .pdf
	WidthIn  float64 `yaml:"width_in,omitempty"`  // Default: 10
	HeightIn float64 `yaml:"height_in,omitempty"` // Default: 6
}

// StoreConfig specifies the shared results store
type StoreConfig struct {
	RedisURL  string `yaml:"redis_url,omitempty"`
	Namespace string `yaml:"namespace,omitempty"`
}

// Default returns the configuration used when no figplot.yml exists.
// It matches the layout written by the ATT training scripts.
func Default() *FigplotConfig {
	c := &FigplotConfig{
		Version: "1.0",
		Parameters: []Parameter{
			{Name: "quality", Label: "Quality"},
			{Name: "bits", Label: "Bits"},
			{Name: "block", Label: "Block Size"},
			{Name: "split", Label: "Split"},
		},
	}
	// Defaults only; cannot fail.
	_ = c.Validate()
	return c
}

// Validate performs strict validation on the configuration and fills in defaults
func (c *FigplotConfig) Validate() error {
	// Required: version
	if c.Version != "1.0" {
		return fmt.Errorf("unsupported version: %s (expected: 1.0)", c.Version)
	}

	if c.Root == "" {
		c.Root = "./out"
	}

	if c.ExpectedEpochs == 0 {
		c.ExpectedEpochs = logfile.DefaultExpectedEpochs
	}
	if c.ExpectedEpochs < 1 {
		return fmt.Errorf("expected_epochs must be >= 1, got %d", c.ExpectedEpochs)
	}

	if c.PathScope == "" {
		c.PathScope = walker.ScopeRelative
	}
	if c.PathScope != walker.ScopeRelative && c.PathScope != walker.ScopeFull {
		return fmt.Errorf("invalid path_scope: %s (must be 'relative' or 'full')", c.PathScope)
	}

	if c.Logs == nil {
		c.Logs = &LogsConfig{}
	}
	if c.Logs.Train == "" {
		c.Logs.Train = "train.log"
	}
	if c.Logs.Test == "" {
		c.Logs.Test = "test.log"
	}
	if c.Logs.Train == c.Logs.Test {
		return fmt.Errorf("logs.train and logs.test must differ (both '%s')", c.Logs.Train)
	}

	if err := c.validateParameters(); err != nil {
		return err
	}

	if c.Baseline == nil {
		c.Baseline = &BaselineConfig{}
	}
	if c.Baseline.Enabled == nil {
		enabled := true
		c.Baseline.Enabled = &enabled
	}
	if c.Baseline.Classes == 0 {
		c.Baseline.Classes = aggregate.DefaultChanceClasses
	}
	if c.Baseline.Classes < 1 {
		return fmt.Errorf("baseline.classes must be >= 1, got %d", c.Baseline.Classes)
	}

	if c.Chart == nil {
		c.Chart = &ChartConfig{}
	}
	if c.Chart.Title == "" {
		c.Chart.Title = chart.DefaultTitle
	}
	if c.Chart.XLabel == "" {
		c.Chart.XLabel = chart.DefaultXLabel
	}
	if c.Chart.Output == "" {
		c.Chart.Output = "results.png"
	}
	if err := chart.CheckExtension(c.Chart.Output); err != nil {
		return fmt.Errorf("chart.output: %w", err)
	}
	if c.Chart.WidthIn == 0 {
		c.Chart.WidthIn = 10
	}
	if c.Chart.HeightIn == 0 {
		c.Chart.HeightIn = 6
	}
	if c.Chart.WidthIn < 0 || c.Chart.HeightIn < 0 {
		return fmt.Errorf("chart dimensions must be positive")
	}

	if c.Store == nil {
		c.Store = &StoreConfig{}
	}
	if c.Store.RedisURL == "" {
		c.Store.RedisURL = "redis://localhost:6379/0"
	}
	if c.Store.Namespace == "" {
		c.Store.Namespace = "figplot"
	}

	return nil
}

func (c *FigplotConfig) validateParameters() error {
	// At least one grouping parameter plus the repetition axis
	if len(c.Parameters) < 2 {
		return fmt.Errorf("at least 2 parameters are required, got %d", len(c.Parameters))
	}

	seen := make(map[string]bool, len(c.Parameters))
	for i, p := range c.Parameters {
		if p.Name == "" {
			return fmt.Errorf("parameter %d: name is required", i+1)
		}
		if seen[p.Name] {
			return fmt.Errorf("duplicate parameter name '%s'", p.Name)
		}
		seen[p.Name] = true
	}

	// Default presentation order: every parameter after the first, then the first.
	// For quality/bits/block this is bits, block, quality.
	group := c.Parameters[:len(c.Parameters)-1]
	if len(c.SortBy) == 0 {
		for _, p := range group[1:] {
			c.SortBy = append(c.SortBy, p.Name)
		}
		c.SortBy = append(c.SortBy, group[0].Name)
	}

	for _, name := range c.SortBy {
		found := false
		for _, p := range group {
			if p.Name == name {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("sort_by: '%s' is not a grouping parameter", name)
		}
	}

	return nil
}

// ParamNames returns the parameter names in path order.
func (c *FigplotConfig) ParamNames() []string {
	names := make([]string, len(c.Parameters))
	for i, p := range c.Parameters {
		names[i] = p.Name
	}
	return names
}

// WalkerOptions converts the config into tree walker options.
func (c *FigplotConfig) WalkerOptions() walker.Options {
	return walker.Options{
		TrainLog:       c.Logs.Train,
		TestLog:        c.Logs.Test,
		ExpectedEpochs: c.ExpectedEpochs,
		ParamNames:     c.ParamNames(),
		Scope:          c.PathScope,
	}
}

// AggregateOptions converts the config into aggregator options.
func (c *FigplotConfig) AggregateOptions() aggregate.Options {
	labels := make(map[string]string, len(c.Parameters))
	for _, p := range c.Parameters {
		if p.Label != "" {
			labels[p.Name] = p.Label
		}
	}

	opts := aggregate.Options{Labels: labels, SortBy: c.SortBy}
	if *c.Baseline.Enabled {
		opts.Baseline = &aggregate.Baseline{Classes: c.Baseline.Classes}
	}
	return opts
}

// ChartOptions converts the config into chart metadata.
func (c *FigplotConfig) ChartOptions() chart.Options {
	return chart.Options{Title: c.Chart.Title, XLabel: c.Chart.XLabel}
}

// Load reads and validates figplot.yml from the specified path
func Load(path string) (*FigplotConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config FigplotConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// LoadOrDefault loads path, falling back to Default when the file does not exist.
// The second return value reports whether a file was read.
func LoadOrDefault(path string) (*FigplotConfig, bool, error) {
	config, err := Load(path)
	if err == nil {
		return config, true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return Default(), false, nil
	}
	return nil, false, err
}
