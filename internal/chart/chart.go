package chart

import (
	"fmt"
	"image/color"
	"log"
	"math"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/dyluth/figplot/internal/aggregate"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const (
	// DefaultTitle is the chart title used when none is configured.
	DefaultTitle = "McPherson et. al. ATT Neural Network vs JPEG TPE by LSB Embedding"

	// DefaultXLabel labels the accuracy axis.
	DefaultXLabel = "Average % Correct (Test Data)"
)

// SupportedExtensions are the output formats Save accepts.
var SupportedExtensions = []string{".png", ".svg", ".pdf"}

// Options holds the static chart metadata.
type Options struct {
	Title  string
	XLabel string
}

// DefaultOptions returns the labels used for the ATT comparison chart.
func DefaultOptions() Options {
	return Options{Title: DefaultTitle, XLabel: DefaultXLabel}
}

// errorPoints places one symmetric X error bar at the end of each bar.
type errorPoints struct {
	plotter.XYs
	plotter.XErrors
}

func (e errorPoints) Len() int {
	return len(e.XYs)
}

// Render draws rows as a horizontal bar chart of test accuracy with one
// standard deviation error bars. The first row is drawn at the top.
func Render(rows []aggregate.Row, opts Options) (*plot.Plot, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no rows to plot")
	}

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = opts.XLabel

	values, points, ticks := layout(rows)

	bars, err := plotter.NewBarChart(values, vg.Points(12))
	if err != nil {
		return nil, fmt.Errorf("failed to build bar chart: %w", err)
	}
	bars.Horizontal = true
	bars.Color = color.RGBA{G: 128, A: 255}
	bars.LineStyle.Width = 0

	errBars, err := plotter.NewXErrorBars(points)
	if err != nil {
		return nil, fmt.Errorf("failed to build error bars: %w", err)
	}
	errBars.LineStyle.Color = color.Black
	errBars.CapWidth = vg.Points(6)

	p.Add(plotter.NewGrid(), bars, errBars)
	p.Y.Tick.Marker = plot.ConstantTicks(ticks)
	p.Y.Min = -0.5
	p.Y.Max = float64(len(rows)) - 0.5
	p.X.Min = 0

	return p, nil
}

// layout positions bar i at y = i, so row 0 gets the highest position.
// A row with a non-finite mean keeps its label but draws no bar; a non-finite
// standard deviation draws no error bar.
func layout(rows []aggregate.Row) (plotter.Values, errorPoints, []plot.Tick) {
	n := len(rows)
	values := make(plotter.Values, n)
	points := errorPoints{
		XYs:     make(plotter.XYs, n),
		XErrors: make(plotter.XErrors, n),
	}
	ticks := make([]plot.Tick, n)

	for i, row := range rows {
		pos := n - 1 - i
		mean, std := row.TestMean, row.TestStd
		if !isFinite(mean) {
			log.Printf("[Chart] Warning: %q has non-finite mean %v, drawing no bar", row.Label, mean)
			mean, std = 0, 0
		} else if !isFinite(std) {
			log.Printf("[Chart] Warning: %q has non-finite standard deviation %v, drawing no error bar", row.Label, std)
			std = 0
		}

		values[pos] = mean
		points.XYs[pos] = plotter.XY{X: mean, Y: float64(pos)}
		points.XErrors[pos].Low = std
		points.XErrors[pos].High = std
		ticks[i] = plot.Tick{Value: float64(pos), Label: row.Label}
	}
	return values, points, ticks
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Save writes p to path. The format follows the file extension.
func Save(p *plot.Plot, path string, width, height vg.Length) error {
	if err := CheckExtension(path); err != nil {
		return err
	}
	if err := p.Save(width, height, path); err != nil {
		return fmt.Errorf("failed to save chart: %w", err)
	}
	return nil
}

// CheckExtension reports whether path names a supported chart format.
func CheckExtension(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	for _, supported := range SupportedExtensions {
		if ext == supported {
			return nil
		}
	}
	return fmt.Errorf("unsupported chart format %q (must be one of %s)", ext, strings.Join(SupportedExtensions, ", "))
}

// Show opens path in the platform's default viewer without waiting for it to exit.
func Show(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open viewer: %w", err)
	}
	return cmd.Process.Release()
}
