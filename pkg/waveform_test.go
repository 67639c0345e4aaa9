package pulses

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func scopeDump(rows string) string {
	var b strings.Builder
	for i := 0; i < WAVEFORM_SKIP_ROWS; i++ {
		fmt.Fprintf(&b, "Meta %d: value\n", i)
	}
	b.WriteString(rows)
	return b.String()
}

func TestReadWaveform(t *testing.T) {
	input := scopeDump("-1.0e-4\t0.5\t-0.25\n\n# comment\n0 1 2\n2.5e-5   -16.0   15.5  ignored\n")
	w, err := ReadWaveform(strings.NewReader(input), WAVEFORM_SKIP_ROWS, WAVEFORM_TIME_SCALE)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Len() != 3 {
		t.Fatalf("expected 3 samples, got %d", w.Len())
	}

	wantTime := []float64{-100, 0, 25}
	for i, want := range wantTime {
		if math.Abs(w.Time[i]-want) > 1e-9 {
			t.Errorf("time %d: got %g, want %g", i, w.Time[i], want)
		}
	}
	if w.Channel1[0] != 0.5 || w.Channel2[0] != -0.25 {
		t.Errorf("first sample: got (%g, %g)", w.Channel1[0], w.Channel2[0])
	}
	if w.Channel1[2] != -16 || w.Channel2[2] != 15.5 {
		t.Errorf("last sample: got (%g, %g)", w.Channel1[2], w.Channel2[2])
	}
}

func TestReadWaveformMalformed(t *testing.T) {
	tests := []string{
		"0.1 0.2\n",
		"0.1 volts 0.2\n",
	}
	for _, rows := range tests {
		_, err := ReadWaveform(strings.NewReader(scopeDump(rows)), WAVEFORM_SKIP_ROWS, WAVEFORM_TIME_SCALE)
		var malformed *ErrMalformedRecord
		if !errors.As(err, &malformed) {
			t.Errorf("%q: expected malformed record error, got %v", rows, err)
			continue
		}
		if malformed.Line != WAVEFORM_SKIP_ROWS+1 {
			t.Errorf("%q: error at line %d, want %d", rows, malformed.Line, WAVEFORM_SKIP_ROWS+1)
		}
	}
}

func TestReadWaveformFile(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadWaveformFile(filepath.Join(dir, "waveform_data.txt"), WAVEFORM_SKIP_ROWS, WAVEFORM_TIME_SCALE)
	var missing *ErrMissingInput
	if !errors.As(err, &missing) {
		t.Fatalf("expected missing input error, got %v", err)
	}

	filename := filepath.Join(dir, "scope.txt")
	if err := os.WriteFile(filename, []byte(scopeDump("1e-6 1 2\n")), 0o644); err != nil {
		t.Fatal(err)
	}
	w, err := ReadWaveformFile(filename, WAVEFORM_SKIP_ROWS, WAVEFORM_TIME_SCALE)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Len() != 1 || math.Abs(w.Time[0]-1) > 1e-9 {
		t.Fatalf("unexpected waveform %+v", w)
	}
}
