package pulses

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeDump(t *testing.T, content string) string {
	t.Helper()
	filename := filepath.Join(t.TempDir(), "Data_pulses_delay.txt")
	if err := os.WriteFile(filename, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return filename
}

func TestAnalyzeDelays(t *testing.T) {
	content := "header\nheader\n" +
		"0|4|1000000000\n" +
		"1|1|1002000000\n" +
		"2|2|1000500000\n" +
		"3|3|1000600000\n" +
		"4|4|2000000000\n" +
		"5|1|2019990000\n"

	for _, parallel := range []bool{false, true} {
		config := DefaultConfiguration()
		config.FileIn = writeDump(t, content)
		config.Parallel = parallel
		config.NumWorkers = 3

		analysis, err := AnalyzeDelays(config, config.ChannelSet())
		if err != nil {
			t.Fatalf("parallel=%t: unexpected error: %v", parallel, err)
		}
		if analysis.Records != 6 {
			t.Fatalf("parallel=%t: %d records, want 6", parallel, analysis.Records)
		}
		if got := analysis.Delays.ForCode("1"); !reflect.DeepEqual(got, []float64{2, 19.99}) {
			t.Fatalf("parallel=%t: channel 1 delays %v", parallel, got)
		}
		if got := analysis.Delays.ForCode("2"); !reflect.DeepEqual(got, []float64{0.5}) {
			t.Fatalf("parallel=%t: channel 2 delays %v", parallel, got)
		}
		if len(analysis.Histograms) != 2 {
			t.Fatalf("parallel=%t: %d histograms", parallel, len(analysis.Histograms))
		}
		if analysis.Histograms[0].Histogram.Entries() != 2 || analysis.Histograms[1].Histogram.Entries() != 1 {
			t.Fatalf("parallel=%t: unexpected histogram entries", parallel)
		}
	}
}

func TestAnalyzeDelaysMissingInput(t *testing.T) {
	config := DefaultConfiguration()
	config.FileIn = filepath.Join(t.TempDir(), "absent.txt")

	_, err := AnalyzeDelays(config, config.ChannelSet())
	var missing *ErrMissingInput
	if !errors.As(err, &missing) {
		t.Fatalf("expected missing input error, got %v", err)
	}
}

func TestAnalyzeDelaysMalformed(t *testing.T) {
	config := DefaultConfiguration()
	config.FileIn = writeDump(t, "h\nh\n0|4|10\n1|1\n")

	_, err := AnalyzeDelays(config, config.ChannelSet())
	var malformed *ErrMalformedRecord
	if !errors.As(err, &malformed) {
		t.Fatalf("expected malformed record error, got %v", err)
	}
}

func TestAnalyzeDelaysInvalidChannels(t *testing.T) {
	config := DefaultConfiguration()
	config.FileIn = writeDump(t, "h\nh\n")

	_, err := AnalyzeDelays(config, ChannelSet{Trigger: "4"})
	var invalid *ErrInvalidConfiguration
	if !errors.As(err, &invalid) {
		t.Fatalf("expected invalid configuration error, got %v", err)
	}
}

func TestLogSummary(t *testing.T) {
	rec := &recordingLogger{}
	config := DefaultConfiguration()
	config.FileIn = writeDump(t, "h\nh\n0|4|0\n1|1|30000000\n")
	analysis, err := AnalyzeDelays(config, config.ChannelSet())
	if err != nil {
		t.Fatal(err)
	}
	LogSummary(analysis, rec)
	if len(rec.infos) != 3 {
		t.Fatalf("expected 3 summary lines, got %v", rec.infos)
	}
	want := "summary: Z Basis (code 1): 0 delays binned, 0 below 0, 1 above 20"
	if rec.infos[1] != want {
		t.Fatalf("got %q, want %q", rec.infos[1], want)
	}
}
