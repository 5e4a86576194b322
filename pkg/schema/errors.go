package schema

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Path addresses a value inside a document, one segment per object key or
// slice index (e.g. ["sections", "0", "options"]).
type Path []string

// Key returns a copy of the path extended with an object key.
func (p Path) Key(name string) Path {
	next := make(Path, len(p), len(p)+1)
	copy(next, p)
	return append(next, name)
}

// Index returns a copy of the path extended with a slice index.
func (p Path) Index(i int) Path {
	return p.Key(strconv.Itoa(i))
}

func (p Path) String() string {
	return strings.Join(p, ".")
}

// ValidationError represents a single validation failure.
type ValidationError struct {
	Path   Path   // Location of the failing value
	Reason string // Human-readable reason for failure
	Value  any    // The value that failed validation
}

func (e *ValidationError) Error() string {
	if len(e.Path) == 0 {
		return e.Reason
	}
	return fmt.Sprintf("field %q: %s", e.Path.String(), e.Reason)
}

// AggregateError represents multiple validation failures.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

// Unwrap exposes the individual failures to errors.Is and errors.As.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// ValidationErrors returns all validation errors if err is (or wraps) an
// AggregateError. A lone *ValidationError is returned as a single element.
// Otherwise returns nil.
func ValidationErrors(err error) []error {
	var aggr *AggregateError
	if errors.As(err, &aggr) {
		return aggr.Errors
	}
	var single *ValidationError
	if errors.As(err, &single) {
		return []error{single}
	}
	return nil
}

// Fail builds a single-issue aggregate at path.
func Fail(path Path, value any, format string, args ...any) error {
	return &AggregateError{Errors: []error{&ValidationError{
		Path:   path,
		Reason: fmt.Sprintf(format, args...),
		Value:  value,
	}}}
}

// collector accumulates child failures, flattening nested aggregates.
type collector struct {
	errs []error
}

func (c *collector) add(err error) {
	if err == nil {
		return
	}
	var aggr *AggregateError
	if errors.As(err, &aggr) {
		c.errs = append(c.errs, aggr.Errors...)
		return
	}
	c.errs = append(c.errs, err)
}

func (c *collector) err() error {
	if len(c.errs) == 0 {
		return nil
	}
	return &AggregateError{Errors: c.errs}
}
