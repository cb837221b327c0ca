package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/dyluth/figplot/internal/aggregate"
	"github.com/dyluth/figplot/internal/params"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRows(t *testing.T) []aggregate.Row {
	t.Helper()
	key, err := params.Parse("quality_10_bits_0_block_8", params.DefaultNames[:3])
	require.NoError(t, err)
	return []aggregate.Row{
		{
			Label:     "Quality:10  Bits:0  Block Size:8",
			Params:    key,
			Runs:      3,
			TrainMean: 91.234567,
			TrainStd:  0.5,
			TestMean:  40,
			TestStd:   8.16496580927726,
		},
		aggregate.Baseline{Classes: 40}.Row(),
	}
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected OutputFormat
		wantErr  bool
	}{
		{input: "default", expected: OutputFormatDefault},
		{input: "jsonl", expected: OutputFormatJSONL},
		{input: "csv", expected: OutputFormatCSV},
		{input: "xml", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseOutputFormat(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "unknown output format")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestFormatTable(t *testing.T) {
	t.Run("empty rows", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, FormatTable(&buf, nil))
		assert.Contains(t, buf.String(), "No experiment results found")
	})

	t.Run("rows with baseline", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, FormatTable(&buf, sampleRows(t)))

		output := buf.String()
		assert.Contains(t, output, "Quality:10")
		assert.Contains(t, output, "Random Guessing")
		assert.Contains(t, output, "40.00")
		assert.Contains(t, output, "8.16")
		assert.Contains(t, output, "2.50")
		assert.Contains(t, output, "1 configuration found")
	})
}

func TestFormatJSONL(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatJSONL(&buf, sampleRows(t)))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var first aggregate.Row
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "Quality:10  Bits:0  Block Size:8", first.Label)
	assert.Equal(t, []int{10, 0, 8}, first.Params.Values())
	assert.Equal(t, 3, first.Runs)

	var baseline map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &baseline))
	assert.Equal(t, true, baseline["baseline"])
	assert.Equal(t, 2.5, baseline["test_mean"])
}

func TestFormatCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatCSV(&buf, sampleRows(t)))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"label", "quality", "bits", "block", "runs", "train_mean", "train_std", "test_mean", "test_std", "baseline"}, records[0])
	assert.Equal(t, []string{"Quality:10  Bits:0  Block Size:8", "10", "0", "8", "3", "91.234567", "0.500000", "40.000000", "8.164966", "false"}, records[1])
	assert.Equal(t, []string{"Random Guessing (1 in 40 chance)", "", "", "", "0", "2.500000", "0.000000", "2.500000", "0.000000", "true"}, records[2])
}

func TestWrite_Dispatch(t *testing.T) {
	rows := sampleRows(t)

	var jsonl, table bytes.Buffer
	require.NoError(t, Write(&jsonl, rows, OutputFormatJSONL))
	require.NoError(t, Write(&table, rows, OutputFormatDefault))

	assert.True(t, strings.HasPrefix(jsonl.String(), "{"))
	assert.Contains(t, table.String(), "CONFIGURATION")
}
