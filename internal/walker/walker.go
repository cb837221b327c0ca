package walker

import (
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/dyluth/figplot/internal/logfile"
	"github.com/dyluth/figplot/internal/params"
)

// PathScope selects which part of a run directory's path is scanned for parameters.
type PathScope string

const (
	// ScopeRelative scans the path relative to the walk root
	ScopeRelative PathScope = "relative"

	// ScopeFull scans the path exactly as walked, root included
	ScopeFull PathScope = "full"
)

// Options controls how the output tree is interpreted.
type Options struct {
	TrainLog       string    // File name of the per-epoch training log
	TestLog        string    // File name of the per-epoch test log
	ExpectedEpochs int       // Number of data lines each log must hold
	ParamNames     []string  // Names of the integers encoded in the directory path
	Scope          PathScope // Which part of the path to scan for integers
	Verbose        bool      // Log each run directory as it is loaded
}

// DefaultOptions returns the layout produced by the training scripts.
func DefaultOptions() Options {
	return Options{
		TrainLog:       "train.log",
		TestLog:        "test.log",
		ExpectedEpochs: logfile.DefaultExpectedEpochs,
		ParamNames:     params.DefaultNames,
		Scope:          ScopeRelative,
	}
}

// Observation is one training run: its parameters and both per-epoch series.
type Observation struct {
	Dir    string
	Params params.Params
	Train  []float64
	Test   []float64
}

// Accumulator collects observations for a single walk.
type Accumulator struct {
	Root         string
	Observations []Observation
}

// Add appends an observation.
func (a *Accumulator) Add(obs Observation) {
	a.Observations = append(a.Observations, obs)
}

// Len returns the number of observations collected so far.
func (a *Accumulator) Len() int {
	return len(a.Observations)
}

// RootError reports a results root that cannot be walked.
// Err is nil when the root exists but is not a directory.
type RootError struct {
	Root string
	Err  error
}

func (e *RootError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("results root %s is not a directory", e.Root)
	}
	return fmt.Sprintf("failed to access results root: %v", e.Err)
}

func (e *RootError) Unwrap() error {
	return e.Err
}

// Walk scans root for run directories, i.e. directories holding both a train
// and a test log, and loads one observation from each. Any unreadable log or
// badly named directory aborts the walk; nothing gathered so far is returned.
func Walk(root string, opts Options) (*Accumulator, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, &RootError{Root: root, Err: err}
	}
	if !info.IsDir() {
		return nil, &RootError{Root: root}
	}

	acc := &Accumulator{Root: root}
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}

		trainPath := filepath.Join(path, opts.TrainLog)
		testPath := filepath.Join(path, opts.TestLog)
		if !isFile(trainPath) || !isFile(testPath) {
			return nil
		}

		obs, err := loadRun(root, path, trainPath, testPath, opts)
		if err != nil {
			return err
		}
		if opts.Verbose {
			log.Printf("[Walker] Loaded %s (params %s)", path, obs.Params)
		}
		acc.Add(obs)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return acc, nil
}

func loadRun(root, dir, trainPath, testPath string, opts Options) (Observation, error) {
	test, err := logfile.Load(testPath, opts.ExpectedEpochs)
	if err != nil {
		return Observation{}, err
	}
	train, err := logfile.Load(trainPath, opts.ExpectedEpochs)
	if err != nil {
		return Observation{}, err
	}

	scanned := dir
	if opts.Scope != ScopeFull {
		rel, err := filepath.Rel(root, dir)
		if err != nil {
			return Observation{}, fmt.Errorf("failed to relativize %s: %w", dir, err)
		}
		scanned = rel
	}

	p, err := params.Parse(filepath.ToSlash(scanned), opts.ParamNames)
	if err != nil {
		return Observation{}, err
	}

	return Observation{Dir: dir, Params: p, Train: train, Test: test}, nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
