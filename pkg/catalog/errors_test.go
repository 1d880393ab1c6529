package catalog

import (
	"errors"
	"fmt"
	"testing"

	"github.com/storebase/catalog/pkg/store"
)

func TestErrorKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "validation", err: validationError("photo is required"), want: KindValidation},
		{name: "not found", err: notFoundError("p1", store.ErrNotFound), want: KindNotFound},
		{name: "upload", err: uploadError(errors.New("bucket gone")), want: KindUpload},
		{name: "store transport", err: storeError("find", errors.New("conn refused")), want: KindStore},
		{name: "store not found", err: storeError("find", store.ErrNotFound), want: KindNotFound},
		{name: "wrapped catalog error", err: fmt.Errorf("handler: %w", validationError("x")), want: KindValidation},
		{name: "foreign error", err: errors.New("unrelated"), want: Kind("")},
		{name: "nil", err: nil, want: Kind("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorKind(tt.err); got != tt.want {
				t.Errorf("ErrorKind() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := storeError("create", cause)

	if !errors.Is(err, cause) {
		t.Error("cause not reachable through Unwrap")
	}

	var ce *Error
	if !errors.As(err, &ce) {
		t.Fatal("errors.As failed")
	}
	if ce.Kind != KindStore {
		t.Errorf("Kind = %q, want %q", ce.Kind, KindStore)
	}
}

func TestErrorMessage(t *testing.T) {
	err := &Error{Kind: KindUpload, Message: "photo upload", Err: errors.New("timeout")}
	want := "catalog upload error: photo upload: timeout"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	bare := &Error{Kind: KindValidation, Message: "photo is required"}
	want = "catalog validation error: photo is required"
	if bare.Error() != want {
		t.Errorf("Error() = %q, want %q", bare.Error(), want)
	}
}

func TestIsHelpers(t *testing.T) {
	if !IsNotFound(storeError("x", store.ErrNotFound)) {
		t.Error("IsNotFound false for not-found error")
	}
	if IsNotFound(validationError("x")) {
		t.Error("IsNotFound true for validation error")
	}
	if !IsValidation(validationError("x")) {
		t.Error("IsValidation false for validation error")
	}
	if IsValidation(nil) {
		t.Error("IsValidation true for nil")
	}
}
