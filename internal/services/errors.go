package services

import (
	"errors"

	"github.com/diewo77/cafe-billing/internal/money"
	"github.com/diewo77/cafe-billing/internal/store"
)

var (
	ErrInvalidInput   = errors.New("invalid_input")
	ErrNotFound       = errors.New("not_found")
	ErrOutOfRange     = errors.New("out_of_range")
	ErrEmptyOrder     = errors.New("empty_order")
	ErrDraftFinalized = errors.New("draft_finalized")

	ErrInvalidAmount = money.ErrInvalidAmount
	ErrPersistence   = store.ErrPersistence
)

// FieldError describes a rejected input field. It matches ErrInvalidInput
// under errors.Is.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

func (e *FieldError) Unwrap() error { return ErrInvalidInput }

func invalidField(field, msg string) error {
	return &FieldError{Field: field, Message: msg}
}
