package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeAuthFailed, "login failed")

	if err.Code != ErrCodeAuthFailed {
		t.Errorf("expected code %s, got %s", ErrCodeAuthFailed, err.Code)
	}
	if err.Message != "login failed" {
		t.Errorf("unexpected message: %s", err.Message)
	}
	if err.Cause != nil {
		t.Error("expected nil cause")
	}
}

func TestWrap(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Wrap(ErrCodeAPIRequest, "request failed", cause)

	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to match the wrapped cause")
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("expected error string to contain cause, got: %s", err.Error())
	}
}

func TestError_Format(t *testing.T) {
	tests := []struct {
		name     string
		err      *CivicdeskError
		contains []string
	}{
		{
			name:     "code and message",
			err:      New(ErrCodeStoreWrite, "write failed"),
			contains: []string{"[STORE-001]", "write failed"},
		},
		{
			name: "with suggestions",
			err: New(ErrCodeAuthNotLoggedIn, "not logged in").
				WithSuggestion("Run 'civicdesk auth login' to authenticate"),
			contains: []string{"Suggestions:", "civicdesk auth login"},
		},
		{
			name:     "with docs",
			err:      New(ErrCodeConfigInvalid, "bad config").WithDocs("https://example.com/docs"),
			contains: []string{"Documentation: https://example.com/docs"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, want := range tt.contains {
				if !strings.Contains(msg, want) {
					t.Errorf("expected %q in error output, got:\n%s", want, msg)
				}
			}
		})
	}
}

func TestErrorsAs(t *testing.T) {
	var target *CivicdeskError

	err := fmt.Errorf("outer: %w", NewTooManyImagesError(4, 3))
	if !errors.As(err, &target) {
		t.Fatal("expected errors.As to find CivicdeskError")
	}
	if target.Code != ErrCodeComplaintTooManyImages {
		t.Errorf("unexpected code: %s", target.Code)
	}
}

func TestConstructors(t *testing.T) {
	if NewAuthFailedError("").Message != "login failed" {
		t.Error("expected default message for empty backend message")
	}
	if NewAuthFailedError("bad credentials").Message != "bad credentials" {
		t.Error("expected backend message to pass through unchanged")
	}

	err := NewInvalidComplaintTypeError("POTHOLE", []string{"ROAD_DAMAGE", "OTHER"})
	if !strings.Contains(err.Error(), "ROAD_DAMAGE, OTHER") {
		t.Errorf("expected valid types in suggestion, got: %s", err.Error())
	}
}
