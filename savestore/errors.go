package savestore

import (
	"errors"
	"strconv"
)

var (
	// ErrAcquireTimeout means the record guard stayed busy for MaxAttempts
	// attempts. The operation had no effect
	ErrAcquireTimeout = errors.New("record is busy")
	ErrNotFound       = errors.New("record not found")
	// ErrCorruptRecord means stored bytes couldn't be decoded
	ErrCorruptRecord = errors.New("corrupt record")
	ErrIO            = errors.New("i/o failure")
	ErrInvalidName   = errors.New("invalid record name")
	ErrEncodeFailed  = errors.New("encoding failed")
)

// Error describes a failed operation on a record
type Error struct {
	// "save", "load", "delete" or "list"
	Op   string
	Name string
	// one of the Err* values above
	Kind error
	// underlying error, can be nil
	Err error
	// how many times we tried to acquire the guard
	Attempts int
}

func (e *Error) Error() string {
	s := e.Op + " '" + e.Name + "': " + e.Kind.Error()
	if e.Kind == ErrAcquireTimeout {
		s += " after " + strconv.Itoa(e.Attempts) + " attempts"
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

// Unwrap makes errors.Is() match both Kind and Err
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
