package aggregate

import (
	"math"
	"math/rand"
	"testing"

	"github.com/dyluth/figplot/internal/params"
	"github.com/dyluth/figplot/internal/testutil"
	"github.com/dyluth/figplot/internal/walker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func observation(t *testing.T, path string, finalTrain, finalTest float64) walker.Observation {
	t.Helper()
	p, err := params.Parse(path, params.DefaultNames)
	require.NoError(t, err)
	return walker.Observation{
		Dir:    path,
		Params: p,
		Train:  testutil.Series(testutil.Epochs, finalTrain),
		Test:   testutil.Series(testutil.Epochs, finalTest),
	}
}

func TestReduce(t *testing.T) {
	obs := []walker.Observation{
		observation(t, "q_10_b_0_bl_8/1", 91, 31),
		observation(t, "q_10_b_0_bl_8/2", 92, 32),
	}

	reduced, err := Reduce(obs)
	require.NoError(t, err)
	require.Len(t, reduced, 2)
	assert.Equal(t, 91.0, reduced[0].FinalTrain)
	assert.Equal(t, 31.0, reduced[0].FinalTest)
	assert.Equal(t, []int{10, 0, 8, 2}, reduced[1].Params.Values())
}

func TestReduce_EmptySeries(t *testing.T) {
	obs := observation(t, "q_10_b_0_bl_8/1", 91, 31)
	obs.Test = nil

	_, err := Reduce([]walker.Observation{obs})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty series")
}

func TestCondense_MeanAndPopulationStdDev(t *testing.T) {
	reduced := []Reduced{
		{Params: mustParse(t, "q_10_b_0_bl_8/1"), FinalTrain: 1, FinalTest: 10},
		{Params: mustParse(t, "q_10_b_0_bl_8/2"), FinalTrain: 2, FinalTest: 20},
		{Params: mustParse(t, "q_10_b_0_bl_8/3"), FinalTrain: 3, FinalTest: 30},
	}

	rows := Condense(reduced, DefaultOptions().Labels)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "Quality:10  Bits:0  Block Size:8", row.Label)
	assert.Equal(t, []int{10, 0, 8}, row.Params.Values())
	assert.Equal(t, 3, row.Runs)
	assert.InDelta(t, 20.0, row.TestMean, 1e-9)
	assert.InDelta(t, 8.16496580927726, row.TestStd, 1e-9)
	assert.InDelta(t, 2.0, row.TrainMean, 1e-9)
	assert.InDelta(t, math.Sqrt(2.0/3.0), row.TrainStd, 1e-9)
}

func TestCondense_SingleMemberGroup(t *testing.T) {
	reduced := []Reduced{
		{Params: mustParse(t, "q_50_b_1_bl_16/1"), FinalTrain: 77.5, FinalTest: 42.25},
	}

	rows := Condense(reduced, nil)
	require.Len(t, rows, 1)
	assert.Equal(t, 42.25, rows[0].TestMean)
	assert.Equal(t, 0.0, rows[0].TestStd)
	assert.Equal(t, 77.5, rows[0].TrainMean)
	assert.Equal(t, 0.0, rows[0].TrainStd)
	assert.Equal(t, "quality:50  bits:1  block:16", rows[0].Label)
}

func TestCondense_GroupsInParameterOrder(t *testing.T) {
	reduced := []Reduced{
		{Params: mustParse(t, "q_75_b_0_bl_8/1"), FinalTest: 1},
		{Params: mustParse(t, "q_50_b_2_bl_8/2"), FinalTest: 2},
		{Params: mustParse(t, "q_50_b_0_bl_16/1"), FinalTest: 3},
		{Params: mustParse(t, "q_50_b_2_bl_8/1"), FinalTest: 4},
	}

	rows := Condense(reduced, nil)
	require.Len(t, rows, 3)
	assert.Equal(t, []int{50, 0, 16}, rows[0].Params.Values())
	assert.Equal(t, []int{50, 2, 8}, rows[1].Params.Values())
	assert.Equal(t, 2, rows[1].Runs)
	assert.Equal(t, 3.0, rows[1].TestMean)
	assert.Equal(t, []int{75, 0, 8}, rows[2].Params.Values())
}

func TestCondense_DoesNotMutateInput(t *testing.T) {
	reduced := []Reduced{
		{Params: mustParse(t, "q_75_b_0_bl_8/1")},
		{Params: mustParse(t, "q_50_b_0_bl_8/1")},
	}

	Condense(reduced, nil)
	assert.Equal(t, 75, reduced[0].Params[0].Value)
}

func TestSortRows_PresentationOrder(t *testing.T) {
	rows := []Row{
		{Params: mustParse(t, "50_0_16")},
		{Params: mustParse(t, "50_2_8")},
		{Params: mustParse(t, "75_0_8")},
		{Params: mustParse(t, "25_0_16")},
	}

	SortRows(rows, DefaultOptions().SortBy)

	got := make([][]int, len(rows))
	for i, r := range rows {
		got[i] = r.Params.Values()
	}
	assert.Equal(t, [][]int{{75, 0, 8}, {25, 0, 16}, {50, 0, 16}, {50, 2, 8}}, got)
}

func TestAggregate_EndToEndScenario(t *testing.T) {
	obs := []walker.Observation{
		observation(t, "out/q_10_b_0_bl_8/1", 90, 30),
		observation(t, "out/q_10_b_0_bl_8/2", 90, 40),
		observation(t, "out/q_10_b_0_bl_8/3", 90, 50),
	}

	rows, err := Aggregate(obs, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, []int{10, 0, 8}, rows[0].Params.Values())
	assert.InDelta(t, 40.0, rows[0].TestMean, 1e-9)
	assert.InDelta(t, 8.165, rows[0].TestStd, 1e-3)
	assert.False(t, rows[0].Baseline)

	baseline := rows[1]
	assert.True(t, baseline.Baseline)
	assert.Equal(t, "Random Guessing (1 in 40 chance)", baseline.Label)
	assert.Equal(t, 2.5, baseline.TestMean)
	assert.Equal(t, 0.0, baseline.TestStd)
	assert.Equal(t, 2.5, baseline.TrainMean)
}

func TestAggregate_BaselineAlwaysOnce(t *testing.T) {
	t.Run("no observations", func(t *testing.T) {
		rows, err := Aggregate(nil, DefaultOptions())
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.True(t, rows[0].Baseline)
		assert.Equal(t, 2.5, rows[0].TestMean)
	})

	t.Run("many groups", func(t *testing.T) {
		obs := []walker.Observation{
			observation(t, "q_10_b_0_bl_8/1", 90, 30),
			observation(t, "q_20_b_1_bl_8/1", 90, 30),
			observation(t, "q_30_b_2_bl_8/1", 90, 30),
		}
		rows, err := Aggregate(obs, DefaultOptions())
		require.NoError(t, err)

		count := 0
		for _, r := range rows {
			if r.Baseline {
				count++
			}
		}
		assert.Equal(t, 1, count)
		assert.True(t, rows[len(rows)-1].Baseline)
	})

	t.Run("disabled", func(t *testing.T) {
		opts := DefaultOptions()
		opts.Baseline = nil
		rows, err := Aggregate(nil, opts)
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("invalid classes", func(t *testing.T) {
		opts := DefaultOptions()
		opts.Baseline = &Baseline{Classes: 0}
		_, err := Aggregate(nil, opts)
		require.Error(t, err)
	})
}

func TestAggregate_OrderIndependent(t *testing.T) {
	obs := []walker.Observation{
		observation(t, "q_10_b_0_bl_8/1", 90, 30),
		observation(t, "q_10_b_0_bl_8/2", 91, 40),
		observation(t, "q_10_b_0_bl_8/3", 92, 50),
		observation(t, "q_50_b_0_bl_8/1", 80, 20),
		observation(t, "q_50_b_0_bl_8/2", 81, 25),
		observation(t, "q_50_b_2_bl_16/1", 70, 10),
		observation(t, "q_75_b_1_bl_8/1", 60, 5),
	}

	expected, err := Aggregate(obs, DefaultOptions())
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 10; i++ {
		shuffled := make([]walker.Observation, len(obs))
		copy(shuffled, obs)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		got, err := Aggregate(shuffled, DefaultOptions())
		require.NoError(t, err)
		assert.Equal(t, expected, got)
	}
}

func TestBaselineRow(t *testing.T) {
	row := Baseline{Classes: 10}.Row()
	assert.Equal(t, "Random Guessing (1 in 10 chance)", row.Label)
	assert.Equal(t, 10.0, row.TestMean)
	assert.Nil(t, row.Params)
}

func mustParse(t *testing.T, s string) params.Params {
	t.Helper()
	values, err := params.Extract(s)
	require.NoError(t, err)
	p, err := params.Parse(s, params.DefaultNames[:len(values)])
	require.NoError(t, err)
	return p
}
