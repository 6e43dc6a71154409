package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"volumectl/internal/domain"
)

func TestNewPlatformError(t *testing.T) {
	t.Parallel()

	if domain.NewPlatformError("getVolume", nil) != nil {
		t.Fatal("nil cause must stay nil")
	}

	cause := errors.New("audio service unavailable")
	err := domain.NewPlatformError("getVolume", cause)
	if !domain.IsPlatformError(err) {
		t.Fatalf("expected PlatformError, got %T", err)
	}
	if !errors.Is(err, cause) {
		t.Error("PlatformError must unwrap to its cause")
	}
	if err.Error() != "audio service unavailable" {
		t.Errorf("Error() = %q, want the cause text", err.Error())
	}

	again := domain.NewPlatformError("setVolume", fmt.Errorf("wrapped: %w", err))
	var pe *domain.PlatformError
	if !errors.As(again, &pe) || pe.Op != "getVolume" {
		t.Errorf("existing PlatformError should be kept, got %#v", again)
	}
}

func TestArgumentError(t *testing.T) {
	t.Parallel()
	err := domain.ArgumentError(0, domain.ErrMissingArgument)
	if !errors.Is(err, domain.ErrMissingArgument) {
		t.Fatal("expected ErrMissingArgument")
	}
	if err.Error() != "argument 0: missing argument" {
		t.Errorf("Error() = %q", err.Error())
	}
}
