package xmlendpoint

import "fmt"

// InputError is returned when the input log cannot be opened or is not well-formed.
type InputError struct {
	Path string
	Err  error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("reading %s: %v", e.Path, e.Err)
}

// Cause returns the underlying error for github.com/pkg/errors.
func (e *InputError) Cause() error { return e.Err }

func (e *InputError) Unwrap() error { return e.Err }

// OutputError is returned when a bucket document cannot be written.
type OutputError struct {
	Path string
	Err  error
}

func (e *OutputError) Error() string {
	return fmt.Sprintf("writing %s: %v", e.Path, e.Err)
}

// Cause returns the underlying error for github.com/pkg/errors.
func (e *OutputError) Cause() error { return e.Err }

func (e *OutputError) Unwrap() error { return e.Err }
