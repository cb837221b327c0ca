package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dyluth/figplot/internal/walker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "figplot.yml")
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))
	return configPath
}

func TestLoad_MinimalConfigAppliesDefaults(t *testing.T) {
	configPath := writeConfig(t, `version: "1.0"
parameters:
  - name: quality
    label: Quality
  - name: bits
    label: Bits
  - name: block
    label: Block Size
  - name: split
`)

	config, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, "./out", config.Root)
	assert.Equal(t, 150, config.ExpectedEpochs)
	assert.Equal(t, walker.ScopeRelative, config.PathScope)
	assert.Equal(t, "train.log", config.Logs.Train)
	assert.Equal(t, "test.log", config.Logs.Test)
	assert.Equal(t, []string{"bits", "block", "quality"}, config.SortBy)
	assert.True(t, *config.Baseline.Enabled)
	assert.Equal(t, 40, config.Baseline.Classes)
	assert.Equal(t, "results.png", config.Chart.Output)
	assert.Equal(t, 10.0, config.Chart.WidthIn)
	assert.Equal(t, "figplot", config.Store.Namespace)
}

func TestLoad_FullConfig(t *testing.T) {
	configPath := writeConfig(t, `version: "1.0"
root: ./results
expected_epochs: 20
path_scope: full
logs:
  train: fit.txt
  test: eval.txt
parameters:
  - name: lr
  - name: depth
  - name: seed
sort_by: [depth]
baseline:
  enabled: false
  classes: 10
chart:
  title: Depth sweep
  x_label: Accuracy
  output: sweep.svg
  width_in: 8
  height_in: 4
store:
  redis_url: redis://cache:6379/2
  namespace: sweeps
`)

	config, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, "./results", config.Root)
	assert.Equal(t, walker.ScopeFull, config.PathScope)
	assert.Equal(t, []string{"lr", "depth", "seed"}, config.ParamNames())
	assert.False(t, *config.Baseline.Enabled)

	wo := config.WalkerOptions()
	assert.Equal(t, "fit.txt", wo.TrainLog)
	assert.Equal(t, "eval.txt", wo.TestLog)
	assert.Equal(t, 20, wo.ExpectedEpochs)

	ao := config.AggregateOptions()
	assert.Nil(t, ao.Baseline)
	assert.Equal(t, []string{"depth"}, ao.SortBy)
	assert.Empty(t, ao.Labels)

	co := config.ChartOptions()
	assert.Equal(t, "Depth sweep", co.Title)
	assert.Equal(t, "Accuracy", co.XLabel)
	assert.Equal(t, "sweeps", config.Store.Namespace)
}

func TestLoad_FileNotFound(t *testing.T) {
	config, err := Load("/nonexistent/figplot.yml")
	assert.Error(t, err)
	assert.Nil(t, config)
	assert.Contains(t, err.Error(), "failed to read config")
}

func TestLoad_InvalidYAML(t *testing.T) {
	configPath := writeConfig(t, `version: "1.0"
parameters:
  - this is invalid
    yaml syntax
`)

	config, err := Load(configPath)
	assert.Error(t, err)
	assert.Nil(t, config)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadOrDefault(t *testing.T) {
	t.Run("missing file falls back to defaults", func(t *testing.T) {
		config, found, err := LoadOrDefault(filepath.Join(t.TempDir(), "figplot.yml"))
		require.NoError(t, err)
		assert.False(t, found)
		assert.Equal(t, Default(), config)
	})

	t.Run("invalid file is an error", func(t *testing.T) {
		configPath := writeConfig(t, `version: "2.0"`)
		_, _, err := LoadOrDefault(configPath)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid configuration")
	})
}

func TestDefault(t *testing.T) {
	config := Default()
	assert.Equal(t, []string{"quality", "bits", "block", "split"}, config.ParamNames())
	assert.Equal(t, []string{"bits", "block", "quality"}, config.SortBy)

	ao := config.AggregateOptions()
	require.NotNil(t, ao.Baseline)
	assert.Equal(t, 40, ao.Baseline.Classes)
	assert.Equal(t, "Block Size", ao.Labels["block"])
}

func TestValidate_Errors(t *testing.T) {
	base := func() *FigplotConfig {
		return &FigplotConfig{
			Version:    "1.0",
			Parameters: []Parameter{{Name: "quality"}, {Name: "bits"}, {Name: "split"}},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *FigplotConfig)
		wantErr string
	}{
		{
			name:    "unsupported version",
			mutate:  func(c *FigplotConfig) { c.Version = "2.0" },
			wantErr: "unsupported version: 2.0",
		},
		{
			name:    "negative epochs",
			mutate:  func(c *FigplotConfig) { c.ExpectedEpochs = -1 },
			wantErr: "expected_epochs must be >= 1",
		},
		{
			name:    "bad path scope",
			mutate:  func(c *FigplotConfig) { c.PathScope = "leaf" },
			wantErr: "invalid path_scope",
		},
		{
			name:    "same log names",
			mutate:  func(c *FigplotConfig) { c.Logs = &LogsConfig{Train: "a.log", Test: "a.log"} },
			wantErr: "must differ",
		},
		{
			name:    "too few parameters",
			mutate:  func(c *FigplotConfig) { c.Parameters = c.Parameters[:1] },
			wantErr: "at least 2 parameters",
		},
		{
			name:    "unnamed parameter",
			mutate:  func(c *FigplotConfig) { c.Parameters[1].Name = "" },
			wantErr: "parameter 2: name is required",
		},
		{
			name:    "duplicate parameter",
			mutate:  func(c *FigplotConfig) { c.Parameters[1].Name = "quality" },
			wantErr: "duplicate parameter name 'quality'",
		},
		{
			name:    "sort by repetition axis",
			mutate:  func(c *FigplotConfig) { c.SortBy = []string{"split"} },
			wantErr: "'split' is not a grouping parameter",
		},
		{
			name:    "bad baseline classes",
			mutate:  func(c *FigplotConfig) { c.Baseline = &BaselineConfig{Classes: -3} },
			wantErr: "baseline.classes must be >= 1",
		},
		{
			name:    "bad chart format",
			mutate:  func(c *FigplotConfig) { c.Chart = &ChartConfig{Output: "chart.gif"} },
			wantErr: "unsupported chart format",
		},
		{
			name:    "negative chart size",
			mutate:  func(c *FigplotConfig) { c.Chart = &ChartConfig{WidthIn: -1} },
			wantErr: "chart dimensions must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := base()
			tt.mutate(config)

			err := config.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_DefaultSortOrder(t *testing.T) {
	config := &FigplotConfig{
		Version:    "1.0",
		Parameters: []Parameter{{Name: "a"}, {Name: "b"}, {Name: "c"}, {Name: "d"}, {Name: "rep"}},
	}
	require.NoError(t, config.Validate())
	assert.Equal(t, []string{"b", "c", "d", "a"}, config.SortBy)
}
