package catalog

import (
	"errors"
	"fmt"

	"github.com/storebase/catalog/pkg/store"
)

// Kind classifies catalog errors for callers that map them to transport
// outcomes (validation and not-found are request-level, the rest are
// failures of a collaborator).
type Kind string

const (
	// KindValidation represents missing or invalid write input.
	KindValidation Kind = "validation"

	// KindNotFound represents an operation on a missing product.
	KindNotFound Kind = "not_found"

	// KindUpload represents a blob-store upload failure.
	KindUpload Kind = "upload"

	// KindStore represents a document-store failure.
	KindStore Kind = "store"
)

// Error is a catalog error with its classification and underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("catalog %s error: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("catalog %s error: %s", e.Kind, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

func validationError(msg string) error {
	return &Error{Kind: KindValidation, Message: msg}
}

func notFoundError(id string, err error) error {
	return &Error{Kind: KindNotFound, Message: "product " + id, Err: err}
}

func uploadError(err error) error {
	return &Error{Kind: KindUpload, Message: "photo upload", Err: err}
}

// storeError wraps a store failure, preserving the Not-Found distinction.
func storeError(op string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return &Error{Kind: KindNotFound, Message: op, Err: err}
	}
	return &Error{Kind: KindStore, Message: op, Err: err}
}

// ErrorKind returns the classification of err, or "" when err is not a
// catalog error.
func ErrorKind(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return ""
}

// IsNotFound reports whether err represents a missing product.
func IsNotFound(err error) bool {
	return ErrorKind(err) == KindNotFound
}

// IsValidation reports whether err represents invalid write input.
func IsValidation(err error) bool {
	return ErrorKind(err) == KindValidation
}
