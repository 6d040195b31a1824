package contract

import "fmt"

// PersistenceError wraps a failed store operation. A write that returns this
// error has not been applied; any derived in-memory state is ahead of the
// store and the caller decides whether to retry or surface it.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Wrap tags a store error with the operation that produced it.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Err: err}
}
