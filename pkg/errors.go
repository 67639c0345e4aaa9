package pulses

import "fmt"

// ErrMissingInput is returned when the input file does not exist.
type ErrMissingInput struct {
	Filename string
}

func (e *ErrMissingInput) Error() string {
	return fmt.Sprintf("input file %s does not exist", e.Filename)
}

// ErrMalformedRecord represents a data line that cannot be decomposed into
// the expected fields or whose numeric values cannot be parsed.
type ErrMalformedRecord struct {
	Line    int
	Content string
	Reason  string
	Err     error
}

func (e *ErrMalformedRecord) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed record at line %d (%q): %s: %v", e.Line, e.Content, e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed record at line %d (%q): %s", e.Line, e.Content, e.Reason)
}

func (e *ErrMalformedRecord) Unwrap() error {
	return e.Err
}

// ErrInvalidConfiguration reports a configuration value that cannot be used.
type ErrInvalidConfiguration struct {
	Field  string
	Reason string
}

func (e *ErrInvalidConfiguration) Error() string {
	return fmt.Sprintf("invalid configuration %q: %s", e.Field, e.Reason)
}
