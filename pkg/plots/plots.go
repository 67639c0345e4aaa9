// Package plots renders the analysis results with gonum/plot. The output
// format follows the file extension (pdf, png, svg, eps...).
package plots

import (
	"fmt"
	"image/color"

	pulses "github.com/next-exp/pulses_go/pkg"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const (
	FIGURE_WIDTH  = 8 * vg.Inch
	FIGURE_HEIGHT = 6 * vg.Inch
	FONT_SIZE     = 16
)

type seriesStyle struct {
	Color  color.Color
	Dashes []vg.Length
}

// Series styles cycle when there are more channels than styles.
var histogramStyles = []seriesStyle{
	{Color: color.NRGBA{A: 178}, Dashes: []vg.Length{vg.Points(6), vg.Points(3)}},
	{Color: color.NRGBA{R: 128, G: 128, B: 128, A: 178}, Dashes: []vg.Length{vg.Points(6), vg.Points(2), vg.Points(1), vg.Points(2)}},
	{Color: color.NRGBA{R: 31, G: 119, B: 180, A: 178}},
	{Color: color.NRGBA{R: 214, G: 39, B: 40, A: 178}},
}

func newPlot(xLabel string, yLabel string) *plot.Plot {
	p := plot.New()
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.X.Label.TextStyle.Font.Size = vg.Points(FONT_SIZE)
	p.Y.Label.TextStyle.Font.Size = vg.Points(FONT_SIZE)
	p.X.Tick.Label.Font.Size = vg.Points(FONT_SIZE - 2)
	p.Y.Tick.Label.Font.Size = vg.Points(FONT_SIZE - 2)
	p.Legend.TextStyle.Font.Size = vg.Points(FONT_SIZE)
	p.Legend.Top = true
	return p
}

func histogramBins(h *pulses.Histogram) []plotter.HistogramBin {
	edges := h.Edges()
	bins := make([]plotter.HistogramBin, len(h.Counts))
	for i, count := range h.Counts {
		bins[i] = plotter.HistogramBin{Min: edges[i], Max: edges[i+1], Weight: float64(count)}
	}
	return bins
}

// DelayHistogramPlot builds one filled histogram per channel over the
// common histogram range.
func DelayHistogramPlot(histograms []pulses.ChannelHistogram) (*plot.Plot, error) {
	if len(histograms) == 0 {
		return nil, fmt.Errorf("no histograms to plot")
	}
	p := newPlot("Time of arrival after trigger pulse (µs)", "Number of photons")

	for i, ch := range histograms {
		style := histogramStyles[i%len(histogramStyles)]
		h := &plotter.Histogram{
			Bins:      histogramBins(ch.Histogram),
			Width:     ch.Histogram.BinWidth(),
			FillColor: style.Color,
			LineStyle: plotter.DefaultLineStyle,
		}
		h.LineStyle.Color = style.Color
		h.LineStyle.Dashes = style.Dashes
		p.Add(h)
		p.Legend.Add(ch.Channel.Label, h)
	}

	p.X.Min = histograms[0].Histogram.Min
	p.X.Max = histograms[0].Histogram.Max
	p.Y.Min = 0
	return p, nil
}

func RenderDelayHistogram(histograms []pulses.ChannelHistogram, filename string) error {
	p, err := DelayHistogramPlot(histograms)
	if err != nil {
		return err
	}
	if err := p.Save(FIGURE_WIDTH, FIGURE_HEIGHT, filename); err != nil {
		return fmt.Errorf("error saving plot %s: %w", filename, err)
	}
	return nil
}

type WaveformRange struct {
	TimeMin float64
	TimeMax float64
	VoltMin float64
	VoltMax float64
}

func WaveformPlot(waveform pulses.Waveform, ranges WaveformRange) (*plot.Plot, error) {
	if waveform.Len() == 0 {
		return nil, fmt.Errorf("waveform has no samples")
	}
	p := newPlot("Time (µs)", "Voltage (V)")
	p.Add(plotter.NewGrid())

	ch1, err := plotter.NewLine(waveformXYs(waveform.Time, waveform.Channel1))
	if err != nil {
		return nil, fmt.Errorf("error building channel 1 line: %w", err)
	}
	ch1.LineStyle.Color = color.RGBA{R: 128, B: 128, A: 255}

	ch2, err := plotter.NewLine(waveformXYs(waveform.Time, waveform.Channel2))
	if err != nil {
		return nil, fmt.Errorf("error building channel 2 line: %w", err)
	}
	ch2.LineStyle.Color = color.RGBA{B: 255, A: 255}
	ch2.LineStyle.Dashes = []vg.Length{vg.Points(6), vg.Points(3)}

	p.Add(ch1, ch2)
	p.Legend.Add("Channel 1", ch1)
	p.Legend.Add("Channel 2", ch2)

	p.X.Min = ranges.TimeMin
	p.X.Max = ranges.TimeMax
	p.Y.Min = ranges.VoltMin
	p.Y.Max = ranges.VoltMax
	return p, nil
}

func RenderWaveform(waveform pulses.Waveform, ranges WaveformRange, filename string) error {
	p, err := WaveformPlot(waveform, ranges)
	if err != nil {
		return err
	}
	if err := p.Save(FIGURE_WIDTH, FIGURE_HEIGHT, filename); err != nil {
		return fmt.Errorf("error saving plot %s: %w", filename, err)
	}
	return nil
}

func waveformXYs(x []float64, y []float64) plotter.XYs {
	xys := make(plotter.XYs, len(x))
	for i := range x {
		xys[i].X = x[i]
		xys[i].Y = y[i]
	}
	return xys
}
