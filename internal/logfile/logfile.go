// Package logfile reads the per-epoch result logs written by the training
// pipeline. A log is plain text: one header line followed by one decimal
// floating point value per line, one line per epoch.
package logfile

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// DefaultExpectedEpochs is the number of data lines a complete training run writes.
const DefaultExpectedEpochs = 150

// CountError reports a log whose number of data lines differs from the expected epoch count.
type CountError struct {
	Path     string
	Expected int
	Got      int
}

func (e *CountError) Error() string {
	return fmt.Sprintf("%s: expected %d floats, got %d", e.Path, e.Expected, e.Got)
}

// ParseError reports a data line that is not a floating point value.
// Line is 1-based and counts the header.
type ParseError struct {
	Path string
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: invalid float %q: %v", e.Path, e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Load reads the log at path, discards the header line and returns the
// remaining values in file order. It fails unless exactly expected values are present.
func Load(path string, expected int) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log: %w", err)
	}
	defer f.Close()

	values := make([]float64, 0, expected)
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		if line == 1 {
			continue
		}

		text := strings.TrimSpace(scanner.Text())
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, &ParseError{Path: path, Line: line, Text: text, Err: err}
		}
		values = append(values, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read log %s: %w", path, err)
	}

	if len(values) != expected {
		return nil, &CountError{Path: path, Expected: expected, Got: len(values)}
	}

	return values, nil
}
