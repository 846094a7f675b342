package storage

import (
	"errors"
	"fmt"
)

// ReadError reports that the data file could not be opened or read. A
// session treats it as "start with an empty list".
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// WriteError reports that the data file could not be rewritten. Memory and
// disk have diverged, so callers must stop.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// RecordError describes one line of a data file that could not be parsed.
// The line is skipped and loading continues.
type RecordError struct {
	Line   int
	Text   string
	Reason string
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("line %d: malformed record %q: %s", e.Line, e.Text, e.Reason)
}

// RecordErrors unpacks every RecordError contained in err, which is usually
// the errors.Join result returned by Decode or Store.Load.
func RecordErrors(err error) []*RecordError {
	switch e := err.(type) {
	case nil:
		return nil
	case *RecordError:
		return []*RecordError{e}
	case interface{ Unwrap() []error }:
		var out []*RecordError
		for _, inner := range e.Unwrap() {
			out = append(out, RecordErrors(inner)...)
		}
		return out
	default:
		return RecordErrors(errors.Unwrap(err))
	}
}
