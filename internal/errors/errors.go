// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrEntryNotFound      = errors.New("journal entry not found")
	ErrSubmissionNotFound = errors.New("emotional submission not found")
	ErrUnknownItem        = errors.New("unknown checklist item")
	ErrWrongChecklist     = errors.New("item belongs to another checklist")
	ErrCatalogInvalid     = errors.New("invalid checklist catalog")
	ErrConfigInvalid      = errors.New("invalid configuration")
	ErrDatabaseError      = errors.New("database error")
	ErrInputValidation    = errors.New("input validation failed")
)

// StoreError represents a failure of the persistence transport.
type StoreError struct {
	Op  string
	Key string
	Err error
}

func (e *StoreError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("store error [%s] %s: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("store error [%s]: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() []error {
	return []error{ErrDatabaseError, e.Err}
}

// NewStoreError creates a new StoreError.
func NewStoreError(op, key string, err error) *StoreError {
	return &StoreError{
		Op:  op,
		Key: key,
		Err: err,
	}
}

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrInputValidation
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// ItemError reports a checklist item that cannot be used where it was given.
type ItemError struct {
	Item string
	Want string
	Err  error
}

func (e *ItemError) Error() string {
	if e.Want != "" {
		return fmt.Sprintf("item %q: %v (want %s)", e.Item, e.Err, e.Want)
	}
	return fmt.Sprintf("item %q: %v", e.Item, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}

// NewItemError creates a new ItemError.
func NewItemError(item, want string, err error) *ItemError {
	return &ItemError{
		Item: item,
		Want: want,
		Err:  err,
	}
}

// CatalogError represents an invalid catalog definition.
type CatalogError struct {
	Section string
	Message string
}

func (e *CatalogError) Error() string {
	return fmt.Sprintf("catalog error [%s]: %s", e.Section, e.Message)
}

func (e *CatalogError) Unwrap() error {
	return ErrCatalogInvalid
}

// NewCatalogError creates a new CatalogError.
func NewCatalogError(section, message string) *CatalogError {
	return &CatalogError{
		Section: section,
		Message: message,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// New returns an error that formats as the given text.
func New(text string) error {
	return errors.New(text)
}

// Join returns an error that wraps the given errors. Nil errors are
// discarded; Join returns nil if every err is nil.
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
