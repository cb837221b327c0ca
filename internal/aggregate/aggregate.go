// Package aggregate condenses per-run training results into one summary row
// per experiment configuration.
//
// Runs are reduced to their final-epoch train and test values, sorted by
// their full parameter tuple, and collapsed over the last parameter (the
// repetition axis, e.g. the test/train split index). Each resulting row holds
// the mean and population standard deviation of the final values across the
// repetitions.
package aggregate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dyluth/figplot/internal/params"
	"github.com/dyluth/figplot/internal/walker"
	"gonum.org/v1/gonum/stat"
)

// DefaultChanceClasses is the number of classes in the training data set (ATT faces).
const DefaultChanceClasses = 40

// Reduced is a run reduced to its final-epoch values.
type Reduced struct {
	Params     params.Params
	FinalTrain float64
	FinalTest  float64
}

// Row is one condensed configuration.
type Row struct {
	Label     string        `json:"label"`
	Params    params.Params `json:"params"`
	Runs      int           `json:"runs"`
	TrainMean float64       `json:"train_mean"`
	TrainStd  float64       `json:"train_std"`
	TestMean  float64       `json:"test_mean"`
	TestStd   float64       `json:"test_std"`
	Baseline  bool          `json:"baseline,omitempty"`
}

// Baseline describes the chance-level row appended after aggregation.
type Baseline struct {
	Classes int
}

// Row returns the synthetic row for guessing one of Classes uniformly.
func (b Baseline) Row() Row {
	pct := 100.0 / float64(b.Classes)
	return Row{
		Label:     fmt.Sprintf("Random Guessing (1 in %d chance)", b.Classes),
		TrainMean: pct,
		TestMean:  pct,
		Baseline:  true,
	}
}

// Options controls grouping, labelling and presentation order.
type Options struct {
	// Labels maps a parameter name to its display name. Unmapped names are shown as-is.
	Labels map[string]string

	// SortBy lists group parameters in presentation priority. Rows tie-break
	// on encounter order.
	SortBy []string

	// Baseline, if set, is appended as the last row.
	Baseline *Baseline
}

// DefaultOptions returns the presentation used for the ATT experiments:
// rows ordered by bits, then block size, then JPEG quality, with a 1 in 40 baseline.
func DefaultOptions() Options {
	return Options{
		Labels: map[string]string{
			"quality": "Quality",
			"bits":    "Bits",
			"block":   "Block Size",
			"split":   "Split",
		},
		SortBy:   []string{"bits", "block", "quality"},
		Baseline: &Baseline{Classes: DefaultChanceClasses},
	}
}

// Reduce keeps only the last value of each series.
func Reduce(observations []walker.Observation) ([]Reduced, error) {
	reduced := make([]Reduced, 0, len(observations))
	for _, obs := range observations {
		if len(obs.Train) == 0 || len(obs.Test) == 0 {
			return nil, fmt.Errorf("run %s has an empty series", obs.Dir)
		}
		reduced = append(reduced, Reduced{
			Params:     obs.Params,
			FinalTrain: obs.Train[len(obs.Train)-1],
			FinalTest:  obs.Test[len(obs.Test)-1],
		})
	}
	return reduced, nil
}

// Condense sorts reduced runs by their full parameter tuple and emits one row
// per group of runs sharing every parameter but the last.
func Condense(reduced []Reduced, labels map[string]string) []Row {
	sorted := make([]Reduced, len(reduced))
	copy(sorted, reduced)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Params.Compare(sorted[j].Params) < 0
	})

	var rows []Row
	for start := 0; start < len(sorted); {
		key := groupKey(sorted[start].Params)
		end := start + 1
		for end < len(sorted) && groupKey(sorted[end].Params).Equal(key) {
			end++
		}
		rows = append(rows, condenseGroup(key, sorted[start:end], labels))
		start = end
	}
	return rows
}

// SortRows orders rows by the named parameters, keeping encounter order on ties.
func SortRows(rows []Row, by []string) {
	sort.SliceStable(rows, func(i, j int) bool {
		for _, name := range by {
			a, _ := rows[i].Params.Get(name)
			b, _ := rows[j].Params.Get(name)
			if a != b {
				return a < b
			}
		}
		return false
	})
}

// Aggregate runs the full reduction: reduce, condense, presentation sort and baseline.
// The result does not depend on the order of observations.
func Aggregate(observations []walker.Observation, opts Options) ([]Row, error) {
	reduced, err := Reduce(observations)
	if err != nil {
		return nil, err
	}

	rows := Condense(reduced, opts.Labels)
	SortRows(rows, opts.SortBy)

	if opts.Baseline != nil {
		if opts.Baseline.Classes < 1 {
			return nil, fmt.Errorf("baseline classes must be >= 1, got %d", opts.Baseline.Classes)
		}
		rows = append(rows, opts.Baseline.Row())
	}
	return rows, nil
}

// Label renders a group key as "Quality:50  Bits:0  Block Size:16".
func Label(key params.Params, labels map[string]string) string {
	parts := make([]string, len(key))
	for i, p := range key {
		name := p.Name
		if l, ok := labels[p.Name]; ok {
			name = l
		}
		parts[i] = fmt.Sprintf("%s:%d", name, p.Value)
	}
	return strings.Join(parts, "  ")
}

func groupKey(p params.Params) params.Params {
	if len(p) == 0 {
		return p
	}
	return p.Prefix(len(p) - 1)
}

func condenseGroup(key params.Params, group []Reduced, labels map[string]string) Row {
	train := make([]float64, len(group))
	test := make([]float64, len(group))
	for i, r := range group {
		train[i] = r.FinalTrain
		test[i] = r.FinalTest
	}

	trainMean, trainStd := stat.PopMeanStdDev(train, nil)
	testMean, testStd := stat.PopMeanStdDev(test, nil)

	return Row{
		Label:     Label(key, labels),
		Params:    key,
		Runs:      len(group),
		TrainMean: trainMean,
		TrainStd:  trainStd,
		TestMean:  testMean,
		TestStd:   testStd,
	}
}
