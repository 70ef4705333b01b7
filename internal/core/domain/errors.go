package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidID     = errors.New("invalid id")
	ErrInvalidFilter = errors.New("invalid filter")

	ErrUnsupportedRecord = errors.New("unsupported record type")
)

// Field error codes. Each code has a matching sentinel so callers can use
// errors.Is without inspecting FieldError.Code directly.
const (
	CodeMissingField     = "missing_field"
	CodeInvalidLength    = "invalid_length"
	CodeInvalidLink      = "invalid_link"
	CodeTooLong          = "too_long"
	CodeInvalidChoice    = "invalid_choice"
	CodeInvalidReference = "invalid_reference"
	CodeDuplicate        = "duplicate"
)

var (
	ErrMissingField     = errors.New(CodeMissingField)
	ErrInvalidLength    = errors.New(CodeInvalidLength)
	ErrInvalidLink      = errors.New(CodeInvalidLink)
	ErrTooLong          = errors.New(CodeTooLong)
	ErrInvalidChoice    = errors.New(CodeInvalidChoice)
	ErrInvalidReference = errors.New(CodeInvalidReference)
	ErrDuplicate        = errors.New(CodeDuplicate)
)

var codeSentinels = map[string]error{
	CodeMissingField:     ErrMissingField,
	CodeInvalidLength:    ErrInvalidLength,
	CodeInvalidLink:      ErrInvalidLink,
	CodeTooLong:          ErrTooLong,
	CodeInvalidChoice:    ErrInvalidChoice,
	CodeInvalidReference: ErrInvalidReference,
	CodeDuplicate:        ErrDuplicate,
}

// FieldError is a validation failure scoped to a single field. A record
// that produces a FieldError must not be persisted.
type FieldError struct {
	Field   string
	Code    string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *FieldError) Unwrap() error {
	return codeSentinels[e.Code]
}

func newFieldError(field, code, message string) *FieldError {
	return &FieldError{Field: field, Code: code, Message: message}
}

func missingField(field string) *FieldError {
	return newFieldError(field, CodeMissingField, "This field is required.")
}

// InvalidReference reports a reference field that points at nothing.
func InvalidReference(field string) *FieldError {
	return newFieldError(field, CodeInvalidReference, "Referenced entity does not exist.")
}

// Duplicate reports a value that must be unique but is already taken.
func Duplicate(field string) *FieldError {
	return newFieldError(field, CodeDuplicate, "This value is already in use.")
}

// AsFieldError unwraps err to a *FieldError when it carries one.
func AsFieldError(err error) (*FieldError, bool) {
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
