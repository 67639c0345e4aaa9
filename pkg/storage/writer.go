// Package storage writes analysis results to HDF5 files.
package storage

import (
	"errors"
	"fmt"

	"github.com/jmbenlloch/go-hdf5"
	pulses "github.com/next-exp/pulses_go/pkg"
)

type Writer struct {
	File             *hdf5.File
	Filename         string
	CompressionLevel int
	RunGroup         *hdf5.Group
	DelaysGroup      *hdf5.Group
	HistogramsGroup  *hdf5.Group
	WaveformGroup    *hdf5.Group
	tables           []*hdf5.Dataset
}

func NewWriter(filename string, compressionLevel int) (*Writer, error) {
	file, err := openFile(filename)
	if err != nil {
		return nil, err
	}
	return &Writer{File: file, Filename: filename, CompressionLevel: compressionLevel}, nil
}

func (w *Writer) group(existing **hdf5.Group, name string) (*hdf5.Group, error) {
	if *existing != nil {
		return *existing, nil
	}
	g, err := createGroup(w.File, name)
	if err != nil {
		return nil, err
	}
	*existing = g
	return g, nil
}

func (w *Writer) table(group *hdf5.Group, name string, datatype interface{}) (*hdf5.Dataset, error) {
	dset, err := createTable(group, name, datatype, w.CompressionLevel)
	if err != nil {
		return nil, err
	}
	w.tables = append(w.tables, dset)
	return dset, nil
}

func (w *Writer) WriteRunInfo(runNumber int, nRecords int) error {
	group, err := w.group(&w.RunGroup, "Run")
	if err != nil {
		return err
	}
	dset, err := w.table(group, "runInfo", RunInfoHDF5{})
	if err != nil {
		return err
	}
	return writeEntryToTable(dset, RunInfoHDF5{run_number: int64(runNumber), n_records: int64(nRecords)}, 0)
}

// WriteDelays stores one "delays_<code>" table per channel.
func (w *Writer) WriteDelays(result pulses.DelayResult) error {
	group, err := w.group(&w.DelaysGroup, "Delays")
	if err != nil {
		return err
	}
	for _, ch := range result.Channels {
		dset, err := w.table(group, fmt.Sprintf("delays_%s", ch.Channel.Code), DelayHDF5{})
		if err != nil {
			return err
		}
		rows := make([]DelayHDF5, len(ch.Delays))
		for i, d := range ch.Delays {
			rows[i] = DelayHDF5{delay: d}
		}
		if err := writeArrayToTable(dset, &rows, 0); err != nil {
			return fmt.Errorf("error writing delays of channel %s: %w", ch.Channel.Code, err)
		}
	}
	return nil
}

func (w *Writer) WriteHistograms(histograms []pulses.ChannelHistogram) error {
	group, err := w.group(&w.HistogramsGroup, "Histograms")
	if err != nil {
		return err
	}
	for _, ch := range histograms {
		dset, err := w.table(group, fmt.Sprintf("histogram_%s", ch.Channel.Code), HistogramBinHDF5{})
		if err != nil {
			return err
		}
		edges := ch.Histogram.Edges()
		rows := make([]HistogramBinHDF5, len(ch.Histogram.Counts))
		for i, count := range ch.Histogram.Counts {
			rows[i] = HistogramBinHDF5{bin_low: edges[i], bin_high: edges[i+1], counts: int32(count)}
		}
		if err := writeArrayToTable(dset, &rows, 0); err != nil {
			return fmt.Errorf("error writing histogram of channel %s: %w", ch.Channel.Code, err)
		}
	}
	return nil
}

func (w *Writer) WriteWaveform(waveform pulses.Waveform) error {
	group, err := w.group(&w.WaveformGroup, "Waveform")
	if err != nil {
		return err
	}
	dset, err := w.table(group, "samples", WaveformSampleHDF5{})
	if err != nil {
		return err
	}
	rows := make([]WaveformSampleHDF5, waveform.Len())
	for i := range rows {
		rows[i] = WaveformSampleHDF5{
			time:     waveform.Time[i],
			channel1: waveform.Channel1[i],
			channel2: waveform.Channel2[i],
		}
	}
	return writeArrayToTable(dset, &rows, 0)
}

func (w *Writer) Close() error {
	var errs []error

	for _, dset := range w.tables {
		if err := dset.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing table: %w", err))
		}
	}
	groups := []struct {
		name  string
		group *hdf5.Group
	}{
		{"run", w.RunGroup},
		{"delays", w.DelaysGroup},
		{"histograms", w.HistogramsGroup},
		{"waveform", w.WaveformGroup},
	}
	for _, g := range groups {
		if g.group == nil {
			continue
		}
		if err := g.group.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing %s group: %w", g.name, err))
		}
	}
	if err := w.File.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing file: %w", err))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
