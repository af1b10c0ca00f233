package domain

import "fmt"

// IngestionError reports a file that could not be parsed in any attempted
// format/encoding/delimiter combination. Encoding and Delimiter hold the
// parameters resolved before the final failed attempt.
type IngestionError struct {
	Path      string
	Encoding  string
	Delimiter string
	Err       error
}

func (e *IngestionError) Error() string {
	if e.Encoding == "" && e.Delimiter == "" {
		return fmt.Sprintf("failed to read %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("failed to read %s (encoding: %s, delimiter: %q): %v",
		e.Path, e.Encoding, e.Delimiter, e.Err)
}

func (e *IngestionError) Unwrap() error { return e.Err }

// RunError is the result-shaped failure of a reconciliation run: missing
// ledger input, or a file that could not be found or loaded. It is
// returned, never panicked, so callers always get an inspectable value.
type RunError struct {
	Message string
	Err     error
}

func (e *RunError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *RunError) Unwrap() error { return e.Err }
