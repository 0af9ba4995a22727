package common

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidationError_MatchesSentinel(t *testing.T) {
	err := fmt.Errorf("create book: %w", NewValidationError("title is required"))

	if !errors.Is(err, ErrValidation) {
		t.Fatalf("errors.Is(%v, ErrValidation) = false; want true", err)
	}

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("errors.As did not find *ValidationError in %v", err)
	}
	if vErr.Message != "title is required" {
		t.Errorf("Message = %q; want %q", vErr.Message, "title is required")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("validation error must not match ErrNotFound")
	}
}
