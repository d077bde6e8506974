package xbase

import "fmt"

// Error wraps a cause with a short context code locating the failing operation.
type Error struct {
	context string
	err     error
}

func newError(context string, err error) Error {
	return Error{
		context: context,
		err:     err,
	}
}

func newErrorf(context string, format string, v ...interface{}) Error {
	return Error{
		context: context,
		err:     fmt.Errorf(format, v...),
	}
}

func (e Error) Error() string {
	return fmt.Sprintf("%s:%v", e.context, e.err)
}

// Context returns the context code of the error.
func (e Error) Context() string {
	return e.context
}

func (e Error) Unwrap() error {
	return e.err
}
