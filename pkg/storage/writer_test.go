package storage

import (
	"math"
	"path/filepath"
	"sort"
	"testing"

	"github.com/jmbenlloch/go-hdf5"
	pulses "github.com/next-exp/pulses_go/pkg"
)

func sampleAnalysis(t *testing.T) (pulses.DelayResult, []pulses.ChannelHistogram) {
	t.Helper()
	records := []pulses.EventRecord{
		{Type: pulses.TRIGGER_CODE, Timestamp: 0},
		{Type: pulses.CHANNEL_A_CODE, Timestamp: 1_000_000},
		{Type: pulses.CHANNEL_A_CODE, Timestamp: 2_500_000},
		{Type: pulses.CHANNEL_B_CODE, Timestamp: 4_000_000},
		{Type: pulses.TRIGGER_CODE, Timestamp: 10_000_000},
		{Type: pulses.CHANNEL_A_CODE, Timestamp: 10_300_000},
	}
	result := pulses.ExtractDelays(records, pulses.DefaultChannelSet(), pulses.UNIT_DIVISOR)
	histograms, err := pulses.HistogramDelays(result, pulses.N_BINS, pulses.RANGE_MIN, pulses.RANGE_MAX)
	if err != nil {
		t.Fatal(err)
	}
	return result, histograms
}

func objectNames(t *testing.T, group interface {
	NumObjects() (uint, error)
	ObjectNameByIndex(uint) (string, error)
}) []string {
	t.Helper()
	n, err := group.NumObjects()
	if err != nil {
		t.Fatal(err)
	}
	names := make([]string, 0, n)
	for i := uint(0); i < n; i++ {
		name, err := group.ObjectNameByIndex(i)
		if err != nil {
			t.Fatal(err)
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func tableRows(t *testing.T, group *hdf5.Group, name string) uint {
	t.Helper()
	dset, err := group.OpenDataset(name)
	if err != nil {
		t.Fatalf("table %s: %v", name, err)
	}
	defer dset.Close()
	space := dset.Space()
	defer space.Close()
	dims, _, err := space.SimpleExtentDims()
	if err != nil {
		t.Fatal(err)
	}
	if len(dims) != 1 {
		t.Fatalf("table %s has %d dimensions, want 1", name, len(dims))
	}
	return dims[0]
}

func openGroup(t *testing.T, file *hdf5.File, name string) *hdf5.Group {
	t.Helper()
	g, err := file.OpenGroup(name)
	if err != nil {
		t.Fatalf("group %s: %v", name, err)
	}
	t.Cleanup(func() { g.Close() })
	return g
}

func TestWriterLayout(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "pulses.h5")
	result, histograms := sampleAnalysis(t)
	waveform := pulses.Waveform{
		Time:     []float64{-1, 0, 1, 2},
		Channel1: []float64{0, 1, 0, -1},
		Channel2: []float64{2, 2, 2, 2},
	}

	writer, err := NewWriter(filename, 4)
	if err != nil {
		t.Fatal(err)
	}
	if err := writer.WriteRunInfo(17, 6); err != nil {
		t.Fatal(err)
	}
	if err := writer.WriteDelays(result); err != nil {
		t.Fatal(err)
	}
	if err := writer.WriteHistograms(histograms); err != nil {
		t.Fatal(err)
	}
	if err := writer.WriteWaveform(waveform); err != nil {
		t.Fatal(err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	file, err := hdf5.OpenFile(filename, hdf5.F_ACC_RDONLY)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()

	groups := objectNames(t, file)
	want := []string{"Delays", "Histograms", "Run", "Waveform"}
	if len(groups) != len(want) {
		t.Fatalf("groups %v, want %v", groups, want)
	}
	for i := range want {
		if groups[i] != want[i] {
			t.Fatalf("groups %v, want %v", groups, want)
		}
	}

	run := openGroup(t, file, "Run")
	if rows := tableRows(t, run, "runInfo"); rows != 1 {
		t.Errorf("runInfo has %d rows, want 1", rows)
	}

	delays := openGroup(t, file, "Delays")
	if rows := tableRows(t, delays, "delays_1"); rows != 3 {
		t.Errorf("delays_1 has %d rows, want 3", rows)
	}
	if rows := tableRows(t, delays, "delays_2"); rows != 1 {
		t.Errorf("delays_2 has %d rows, want 1", rows)
	}

	hists := openGroup(t, file, "Histograms")
	for _, name := range []string{"histogram_1", "histogram_2"} {
		if rows := tableRows(t, hists, name); rows != pulses.N_BINS {
			t.Errorf("%s has %d rows, want %d", name, rows, pulses.N_BINS)
		}
	}

	wf := openGroup(t, file, "Waveform")
	if rows := tableRows(t, wf, "samples"); rows != 4 {
		t.Errorf("samples has %d rows, want 4", rows)
	}
}

func TestWriterDelaysRoundTrip(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "delays.h5")
	result, _ := sampleAnalysis(t)

	writer, err := NewWriter(filename, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := writer.WriteDelays(result); err != nil {
		t.Fatal(err)
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}

	file, err := hdf5.OpenFile(filename, hdf5.F_ACC_RDONLY)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()

	if groups := objectNames(t, file); len(groups) != 1 || groups[0] != "Delays" {
		t.Fatalf("only the Delays group should be written, got %v", groups)
	}

	dset, err := openGroup(t, file, "Delays").OpenDataset("delays_1")
	if err != nil {
		t.Fatal(err)
	}
	defer dset.Close()

	rows := make([]DelayHDF5, 3)
	if err := dset.Read(&rows); err != nil {
		t.Fatal(err)
	}
	want := []float64{1, 2.5, 0.3}
	for i, row := range rows {
		if row.delay != want[i] {
			t.Errorf("row %d: got %g, want %g", i, row.delay, want[i])
		}
	}
}

func TestWriterRunInfoKeepsLargeCounts(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "run.h5")
	nRecords := math.MaxInt32 + 10

	writer, err := NewWriter(filename, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := writer.WriteRunInfo(7, nRecords); err != nil {
		t.Fatal(err)
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}

	file, err := hdf5.OpenFile(filename, hdf5.F_ACC_RDONLY)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()

	dset, err := openGroup(t, file, "Run").OpenDataset("runInfo")
	if err != nil {
		t.Fatal(err)
	}
	defer dset.Close()

	rows := make([]RunInfoHDF5, 1)
	if err := dset.Read(&rows); err != nil {
		t.Fatal(err)
	}
	if rows[0].run_number != 7 || rows[0].n_records != int64(nRecords) {
		t.Fatalf("got run %d with %d records, want run 7 with %d", rows[0].run_number, rows[0].n_records, nRecords)
	}
}

func TestNewWriterBadPath(t *testing.T) {
	_, err := NewWriter(filepath.Join(t.TempDir(), "missing", "out.h5"), 4)
	if _, ok := err.(*ErrOpenFile); !ok {
		t.Fatalf("expected ErrOpenFile, got %v", err)
	}
}
