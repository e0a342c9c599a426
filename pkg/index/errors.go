package index

import "errors"

// InternalIOError wraps a failure writing a block or segment file
// (spec.md §7). Cleanup of in-progress files is attempted, best-effort,
// before this is returned.
type InternalIOError struct {
	Op  string
	Err error
}

func (e *InternalIOError) Error() string {
	return "internal I/O error during " + e.Op + ": " + e.Err.Error()
}

func (e *InternalIOError) Unwrap() error {
	return e.Err
}

func newInternalIOError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &InternalIOError{Op: op, Err: err}
}

// ErrDirectoryExists is returned by Directory.Create when the root
// already exists and the caller chose CreateErrorOnExists.
var ErrDirectoryExists = errors.New("index directory already exists")
