package util

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes for every failure the ticket store can report. All of them are
// recoverable by the caller; none terminate the process.
const (
	CodeInvalidID      = "INVALID_ID"
	CodeDuplicateID    = "DUPLICATE_ID"
	CodeNotFound       = "NOT_FOUND"
	CodeMissingFields  = "MISSING_FIELDS"
	CodeInvalidField   = "INVALID_FIELD"
	CodeEmptyValue     = "EMPTY_VALUE"
	CodeUnknownField   = "UNKNOWN_FIELD"
	CodeImmutableField = "IMMUTABLE_FIELD"
	CodeTicketClosed   = "TICKET_CLOSED"
	CodeIOFailure      = "IO_FAILURE"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewInvalidID(id string) error {
	return NewDomainError(CodeInvalidID, "ticket ID must contain only digits", http.StatusBadRequest, map[string]any{"id": id})
}

func NewDuplicateID(id string) error {
	return NewDomainError(CodeDuplicateID, fmt.Sprintf("ticket %s already exists", id), http.StatusConflict, map[string]any{"id": id})
}

func NewNotFound(id string) error {
	return NewDomainError(CodeNotFound, fmt.Sprintf("ticket %s not found", id), http.StatusNotFound, map[string]any{"id": id})
}

func NewMissingFields(fields []string) error {
	return NewDomainError(CodeMissingFields, "required fields missing", http.StatusBadRequest, map[string]any{"fields": fields})
}

func NewInvalidField(field, value string) error {
	return NewDomainError(CodeInvalidField, fmt.Sprintf("invalid value for %s", field), http.StatusBadRequest, map[string]any{"field": field, "value": value})
}

func NewEmptyValue(field string) error {
	return NewDomainError(CodeEmptyValue, fmt.Sprintf("%s cannot be empty", field), http.StatusBadRequest, map[string]any{"field": field})
}

func NewUnknownField(field string) error {
	return NewDomainError(CodeUnknownField, fmt.Sprintf("unknown field %s", field), http.StatusBadRequest, map[string]any{"field": field})
}

func NewImmutableField(field string) error {
	return NewDomainError(CodeImmutableField, fmt.Sprintf("%s cannot be changed", field), http.StatusBadRequest, map[string]any{"field": field})
}

func NewTicketClosed(id string) error {
	return NewDomainError(CodeTicketClosed, fmt.Sprintf("ticket %s is closed", id), http.StatusConflict, map[string]any{"id": id})
}

func NewIOFailure(err error) error {
	return &DomainError{
		Code:       CodeIOFailure,
		Message:    "persistence failed",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// HasCode reports whether err is a DomainError carrying the given code.
func HasCode(err error, code string) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}
