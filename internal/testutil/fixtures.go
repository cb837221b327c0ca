package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Epochs is the series length written by WriteRun.
const Epochs = 150

// ResultsTree is an output tree laid out the way the training scripts write it.
type ResultsTree struct {
	T    *testing.T
	Root string
}

// NewResultsTree creates an empty output tree under a temp directory.
func NewResultsTree(t *testing.T) *ResultsTree {
	t.Helper()
	root := filepath.Join(t.TempDir(), "out")
	require.NoError(t, os.MkdirAll(root, 0755))
	return &ResultsTree{T: t, Root: root}
}

// WriteRun writes train.log and test.log under rel. Each log holds Epochs
// values ramping up to the given final value.
func (rt *ResultsTree) WriteRun(rel string, finalTrain, finalTest float64) string {
	rt.T.Helper()
	dir := filepath.Join(rt.Root, filepath.FromSlash(rel))
	require.NoError(rt.T, os.MkdirAll(dir, 0755))
	rt.WriteLog(rel, "train.log", Series(Epochs, finalTrain))
	rt.WriteLog(rel, "test.log", Series(Epochs, finalTest))
	return dir
}

// WriteLog writes a header line followed by values to rel/name.
func (rt *ResultsTree) WriteLog(rel, name string, values []float64) {
	rt.T.Helper()
	dir := filepath.Join(rt.Root, filepath.FromSlash(rel))
	require.NoError(rt.T, os.MkdirAll(dir, 0755))

	var b strings.Builder
	b.WriteString("% mean class accuracy (epoch)\n")
	for _, v := range values {
		fmt.Fprintf(&b, "%g\n", v)
	}
	require.NoError(rt.T, os.WriteFile(filepath.Join(dir, name), []byte(b.String()), 0644))
}

// Series returns n values ending in final.
func Series(n int, final float64) []float64 {
	values := make([]float64, n)
	for i := range values {
		values[i] = final * float64(i+1) / float64(n)
	}
	if n > 0 {
		values[n-1] = final
	}
	return values
}
