package errcode

import "errors"

// FatalError marks a fault that has already been handed to the reset path.
// Only the fault boundary creates one; callers above it must stop, not retry.
type FatalError struct {
	Op  string
	Err error
}

func (f *FatalError) Error() string {
	if f.Err == nil {
		return "fatal: " + f.Op
	}
	return "fatal: " + f.Op + ": " + f.Err.Error()
}

func (f *FatalError) Unwrap() error { return f.Err }

// Fatal wraps err as a fatal fault raised at op.
func Fatal(op string, err error) error {
	if err == nil {
		err = Error
	}
	return &FatalError{Op: op, Err: err}
}

// IsFatal reports whether err (or anything it wraps) is a FatalError.
func IsFatal(err error) bool {
	var f *FatalError
	return errors.As(err, &f)
}
