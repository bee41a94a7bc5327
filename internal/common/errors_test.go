package common

import (
	"errors"
	"testing"
)

func TestUserError(t *testing.T) {
	wrapped := NewUserError("Could not read the roster image", ErrOCRProvider)

	if !errors.Is(wrapped, ErrOCRProvider) {
		t.Error("expected the wrapped sentinel to survive errors.Is")
	}
	want := "Could not read the roster image: ocr provider failed"
	if wrapped.Error() != want {
		t.Errorf("Error() = %q, want %q", wrapped.Error(), want)
	}

	var userErr *UserError
	if !errors.As(wrapped, &userErr) {
		t.Fatal("expected errors.As to recover *UserError")
	}
	if userErr.UserMessage != "Could not read the roster image" {
		t.Errorf("UserMessage = %q", userErr.UserMessage)
	}
}

func TestUserErrorWithoutCause(t *testing.T) {
	err := NewUserError("nothing to export", nil)
	if err.Error() != "nothing to export" {
		t.Errorf("Error() = %q, want the bare message", err.Error())
	}
}
