// Package service implements the directory's read views and its mutation
// workflow on top of the repositories.
package service

import (
	"errors"
	"fmt"

	"github.com/iliyamo/fyyur/internal/form"
	"github.com/iliyamo/fyyur/internal/repository"
)

// Kind tags why an operation failed so handlers can pick a response
// without inspecting driver errors.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConstraint
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConstraint:
		return "constraint"
	case KindUnavailable:
		return "unavailable"
	default:
		return "internal"
	}
}

// Error is returned by every service operation that fails.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of err, or KindInternal if err is not a *Error.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}

// IsNotFound reports whether err means the requested record does not exist.
func IsNotFound(err error) bool {
	return err != nil && KindOf(err) == KindNotFound
}

// classify wraps err with op and the kind derived from its cause.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	kind := KindInternal
	var ferrs form.Errors
	switch {
	case errors.As(err, &ferrs):
		kind = KindValidation
	case errors.Is(err, repository.ErrNotFound):
		kind = KindNotFound
	case repository.IsConstraintViolation(err):
		kind = KindConstraint
	case repository.IsUnavailable(err):
		kind = KindUnavailable
	}
	return &Error{Kind: kind, Op: op, Err: err}
}
