package pulses

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

const WAVEFORM_COLUMNS = 3

// Waveform is an oscilloscope capture with two voltage channels. Time is
// already scaled to the reporting unit.
type Waveform struct {
	Time     []float64
	Channel1 []float64
	Channel2 []float64
}

func (w Waveform) Len() int {
	return len(w.Time)
}

// ReadWaveform skips skipRows lines, then reads whitespace separated
// "time ch1 ch2" rows. Blank lines and lines starting with '#' are ignored.
func ReadWaveform(r io.Reader, skipRows int, timeScale float64) (Waveform, error) {
	scanner := newLineScanner(r)
	waveform := Waveform{
		Time:     make([]float64, 0),
		Channel1: make([]float64, 0),
		Channel2: make([]float64, 0),
	}

	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		if lineNumber <= skipRows {
			continue
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < WAVEFORM_COLUMNS {
			return Waveform{}, &ErrMalformedRecord{
				Line:    lineNumber,
				Content: line,
				Reason:  fmt.Sprintf("expected %d columns, found %d", WAVEFORM_COLUMNS, len(fields)),
			}
		}

		var values [WAVEFORM_COLUMNS]float64
		for i := 0; i < WAVEFORM_COLUMNS; i++ {
			v, err := strconv.ParseFloat(fields[i], 64)
			if err != nil {
				return Waveform{}, &ErrMalformedRecord{
					Line:    lineNumber,
					Content: line,
					Reason:  fmt.Sprintf("column %d is not a number", i),
					Err:     err,
				}
			}
			values[i] = v
		}
		waveform.Time = append(waveform.Time, values[0]*timeScale)
		waveform.Channel1 = append(waveform.Channel1, values[1])
		waveform.Channel2 = append(waveform.Channel2, values[2])
	}
	if err := scanner.Err(); err != nil {
		return Waveform{}, fmt.Errorf("error reading line %d: %w", lineNumber+1, err)
	}
	return waveform, nil
}

func ReadWaveformFile(filename string, skipRows int, timeScale float64) (Waveform, error) {
	file, err := openInput(filename)
	if err != nil {
		return Waveform{}, err
	}
	defer file.Close()

	waveform, err := ReadWaveform(file, skipRows, timeScale)
	if err != nil {
		return Waveform{}, err
	}
	if GetConfiguration().Verbosity > 0 {
		logger.Info(fmt.Sprintf("Waveform samples read from %s: %d", filename, waveform.Len()), "waveform")
	}
	return waveform, nil
}
