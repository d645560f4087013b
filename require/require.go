// Package require has test assertions missing from github.com/alecthomas/assert.
// Like the assert functions, they stop the test on failure.
package require

import (
	"errors"

	"github.com/alecthomas/assert"
)

// ErrorIs asserts that errors.Is(err, target) is true.
//
//	_, err := s.Load("nope")
//	require.ErrorIs(t, err, savestore.ErrNotFound)
func ErrorIs(t assert.TestingT, err error, target error, msgAndArgs ...interface{}) {
	if errors.Is(err, target) {
		return
	}
	assert.Fail(t, "expected: "+errString(target)+"\nactual: "+errString(err), msgAndArgs...)
}

// ErrorAs asserts that errors.As(err, target) is true.
//
//	var e *savestore.Error
//	require.ErrorAs(t, err, &e)
func ErrorAs(t assert.TestingT, err error, target interface{}, msgAndArgs ...interface{}) {
	if errors.As(err, target) {
		return
	}
	assert.Fail(t, "error chain of '"+errString(err)+"' doesn't have the target type", msgAndArgs...)
}

func errString(err error) string {
	if err == nil {
		return "<nil>"
	}
	return err.Error()
}
