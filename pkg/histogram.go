package pulses

import (
	"fmt"
	"sort"
)

// Histogram has equal-width bins [edge_i, edge_i+1) over [Min, Max]. The
// last bin also holds values equal to Max. Edges are built as i*step + Min
// and values are located against those same edges.
type Histogram struct {
	Min       float64
	Max       float64
	Counts    []int
	Underflow int
	Overflow  int
	edges     []float64
}

func NewHistogram(nBins int, min float64, max float64) (*Histogram, error) {
	if nBins <= 0 {
		return nil, fmt.Errorf("histogram needs at least one bin, got %d", nBins)
	}
	if max <= min {
		return nil, fmt.Errorf("histogram range is empty: [%g, %g]", min, max)
	}
	step := (max - min) / float64(nBins)
	edges := make([]float64, nBins+1)
	for i := 0; i < nBins; i++ {
		edges[i] = float64(i)*step + min
	}
	edges[nBins] = max
	return &Histogram{Min: min, Max: max, Counts: make([]int, nBins), edges: edges}, nil
}

func (h *Histogram) BinWidth() float64 {
	return (h.Max - h.Min) / float64(len(h.Counts))
}

// Edges returns len(Counts)+1 bin boundaries.
func (h *Histogram) Edges() []float64 {
	edges := make([]float64, len(h.edges))
	copy(edges, h.edges)
	return edges
}

// Bin returns the index of the bin holding value, or -1 outside [Min, Max].
func (h *Histogram) Bin(value float64) int {
	if !(value >= h.Min && value <= h.Max) {
		return -1
	}
	// first edge strictly above value, minus one
	bin := sort.Search(len(h.edges), func(i int) bool { return h.edges[i] > value }) - 1
	if bin >= len(h.Counts) {
		bin = len(h.Counts) - 1
	}
	return bin
}

func (h *Histogram) Add(value float64) {
	switch {
	case value < h.Min:
		h.Underflow++
	case value > h.Max:
		h.Overflow++
	default:
		if bin := h.Bin(value); bin >= 0 {
			h.Counts[bin]++
		}
	}
}

func (h *Histogram) Fill(values []float64) {
	for _, v := range values {
		h.Add(v)
	}
}

// Entries counts the values that landed in a bin.
func (h *Histogram) Entries() int {
	return sumValues(h.Counts)
}

type ChannelHistogram struct {
	Channel   DetectionChannel
	Histogram *Histogram
}

func HistogramDelays(result DelayResult, nBins int, min float64, max float64) ([]ChannelHistogram, error) {
	histograms := make([]ChannelHistogram, 0, len(result.Channels))
	for _, ch := range result.Channels {
		h, err := NewHistogram(nBins, min, max)
		if err != nil {
			return nil, err
		}
		h.Fill(ch.Delays)
		histograms = append(histograms, ChannelHistogram{Channel: ch.Channel, Histogram: h})
	}
	return histograms, nil
}
