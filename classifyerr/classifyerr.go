// Package classifyerr defines the error kinds returned across the
// classifier packages: invalid input data, a malformed forest model,
// a numeric failure during tree induction, an I/O failure, and a
// malformed XML import.
package classifyerr

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks a problem with caller-supplied input: an
	// empty table, a zero-sum signal or background weight, a record of
	// the wrong width, an unsupported filter operator or malformed cut
	// line, an invalid run configuration or subset name, or a boosting
	// round whose error rate leaves no finite boost weight.
	ErrInvalidInput = errors.New("classifyerr: invalid input")

	// ErrInvalidForest marks a malformed serialized forest: a node
	// referencing a parent id that has not been added yet, two trees
	// whose titles disagree, or a filter node whose evaluation is not
	// exactly 0 or 1.
	ErrInvalidForest = errors.New("classifyerr: invalid forest")

	// ErrNumeric marks a failure in a numeric computation that has no
	// sane fallback, such as a non-finite split-search bracket.
	ErrNumeric = errors.New("classifyerr: numeric error")

	// ErrIO marks an underlying I/O failure, distinct from malformed
	// content (ErrInvalidForest, ErrInvalidXML) found in otherwise
	// readable input.
	ErrIO = errors.New("classifyerr: io error")

	// ErrInvalidXML marks a PMML-like import document missing a
	// required element or attribute.
	ErrInvalidXML = errors.New("classifyerr: invalid xml")
)

// Invalid wraps ErrInvalidInput with context.
func Invalid(format string, args ...any) error {
	return wrap(ErrInvalidInput, format, args...)
}

// Forest wraps ErrInvalidForest with context.
func Forest(format string, args ...any) error {
	return wrap(ErrInvalidForest, format, args...)
}

// Numeric wraps ErrNumeric with context.
func Numeric(format string, args ...any) error {
	return wrap(ErrNumeric, format, args...)
}

// IO wraps ErrIO with context.
func IO(err error, format string, args ...any) error {
	return wrapCause(ErrIO, err, format, args...)
}

// XML wraps ErrInvalidXML with context.
func XML(format string, args ...any) error {
	return wrap(ErrInvalidXML, format, args...)
}

func wrap(sentinel error, format string, args ...any) error {
	return &classifyErr{sentinel: sentinel, msg: fmt.Sprintf(format, args...)}
}

func wrapCause(sentinel, cause error, format string, args ...any) error {
	return &classifyErr{sentinel: sentinel, cause: cause, msg: fmt.Sprintf(format, args...)}
}

type classifyErr struct {
	sentinel error
	cause    error
	msg      string
}

func (e *classifyErr) Error() string {
	if e.cause != nil {
		return e.sentinel.Error() + ": " + e.msg + ": " + e.cause.Error()
	}
	return e.sentinel.Error() + ": " + e.msg
}

func (e *classifyErr) Unwrap() error {
	if e.cause != nil {
		return wrapTwo{e.sentinel, e.cause}
	}
	return e.sentinel
}

// wrapTwo lets errors.Is match either the sentinel kind or the
// underlying cause.
type wrapTwo struct {
	a, b error
}

func (w wrapTwo) Error() string { return w.a.Error() }

func (w wrapTwo) Unwrap() []error { return []error{w.a, w.b} }
