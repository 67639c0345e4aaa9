package pulses

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
)

const (
	FIELD_SEPARATOR = "|"
	MIN_FIELDS      = 3
	// Longest line accepted by the scanners.
	MAX_LINE_SIZE = 1024 * 1024
)

// openInput distinguishes a missing file from any other open failure.
func openInput(filename string) (*os.File, error) {
	file, err := os.Open(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &ErrMissingInput{Filename: filename}
		}
		return nil, fmt.Errorf("error opening file %s: %w", filename, err)
	}
	return file, nil
}

func newLineScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), MAX_LINE_SIZE)
	return scanner
}

// ParseEventLine decodes "ignored | type | timestamp [| ...]". lineNumber is
// only used for error reporting.
func ParseEventLine(line string, lineNumber int) (EventRecord, error) {
	fields := strings.Split(strings.TrimSpace(line), FIELD_SEPARATOR)
	if len(fields) < MIN_FIELDS {
		return EventRecord{}, &ErrMalformedRecord{
			Line:    lineNumber,
			Content: line,
			Reason:  fmt.Sprintf("expected at least %d fields, found %d", MIN_FIELDS, len(fields)),
		}
	}

	eventType := EventCode(strings.TrimSpace(fields[1]))
	timestamp, err := strconv.ParseInt(strings.TrimSpace(fields[2]), 10, 64)
	if err != nil {
		return EventRecord{}, &ErrMalformedRecord{
			Line:    lineNumber,
			Content: line,
			Reason:  "timestamp is not an integer",
			Err:     err,
		}
	}
	return EventRecord{Type: eventType, Timestamp: timestamp}, nil
}

// ReadEvents skips headerLines lines and parses the rest. The first
// malformed line aborts the read.
func ReadEvents(r io.Reader, headerLines int) ([]EventRecord, error) {
	scanner := newLineScanner(r)
	records := make([]EventRecord, 0)

	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		if lineNumber <= headerLines {
			continue
		}
		record, err := ParseEventLine(scanner.Text(), lineNumber)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading line %d: %w", lineNumber+1, err)
	}
	return records, nil
}

func ReadEventFile(filename string, headerLines int) ([]EventRecord, error) {
	file, err := openInput(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if GetConfiguration().Verbosity > 0 {
		logger.Info(fmt.Sprintf("Reading events from %s", filename), "fileReader")
	}
	records, err := ReadEvents(file, headerLines)
	if err != nil {
		return nil, err
	}
	if GetConfiguration().Verbosity > 0 {
		logger.Info(fmt.Sprintf("Events read: %d", len(records)), "fileReader")
	}
	return records, nil
}
