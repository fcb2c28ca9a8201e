package dataset

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrFileAccess matches errors raised when the input cannot be opened or read.
	ErrFileAccess = errors.New("dataset file not accessible")
	// ErrSchema matches errors raised when the input does not have the expected shape.
	ErrSchema = errors.New("dataset schema mismatch")
	// ErrEmptyDataset is returned by Bounds on a dataset without rows.
	ErrEmptyDataset = errors.New("dataset is empty")
)

// FileAccessError reports a missing or unreadable input file.
type FileAccessError struct {
	Path string
	Err  error
}

func (e *FileAccessError) Error() string {
	return fmt.Sprintf("cannot read dataset %q: %v", e.Path, e.Err)
}

func (e *FileAccessError) Unwrap() error { return e.Err }

// Is lets errors.Is match ErrFileAccess.
func (e *FileAccessError) Is(target error) bool { return target == ErrFileAccess }

// SchemaError reports missing columns or a cell that does not parse.
// Row is the 1-based data row (0 for header problems).
type SchemaError struct {
	Missing []string
	Row     int
	Column  string
	Value   string
	Reason  string
}

func (e *SchemaError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
	}
	if e.Row > 0 {
		return fmt.Sprintf("row %d, column %q: invalid value %q: %s", e.Row, e.Column, e.Value, e.Reason)
	}
	if e.Column != "" {
		return fmt.Sprintf("column %q: %s", e.Column, e.Reason)
	}
	return e.Reason
}

// Is lets errors.Is match ErrSchema.
func (e *SchemaError) Is(target error) bool { return target == ErrSchema }
