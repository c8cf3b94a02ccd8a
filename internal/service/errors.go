package service

import (
	"errors"
	"fmt"

	"github.com/hance08/fairshare/internal/split"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("invalid state")
)

// ValidationError rejects client input before any write happens.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrValidation }

// ConflictError reports an operation on an expense in the wrong state or
// group. It is a validation error as far as callers are concerned.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict || target == ErrValidation
}

type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// fromSplit turns a calculator rejection into a ValidationError.
func fromSplit(err error) error {
	var splitErr *split.Error
	if errors.As(err, &splitErr) {
		return &ValidationError{Field: "split", Message: splitErr.Message}
	}
	return err
}

func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
