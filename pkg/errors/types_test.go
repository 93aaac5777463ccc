package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNewError(t *testing.T) {
	err := New(ErrCodeInvalidWindow, "start after end")
	if err.Code != ErrCodeInvalidWindow {
		t.Errorf("expected code %s, got %s", ErrCodeInvalidWindow, err.Code)
	}
	if !strings.Contains(err.Error(), "INVALID_WINDOW") {
		t.Errorf("expected code in message, got %q", err.Error())
	}
	if len(err.Stack) == 0 {
		t.Error("expected stack frames to be captured")
	}
}

func TestWrapNil(t *testing.T) {
	if Wrap(nil, ErrCodeStorageRead, "load actions") != nil {
		t.Error("wrapping nil should return nil")
	}
}

func TestWrapPreservesUnderlying(t *testing.T) {
	underlying := stderrors.New("disk full")
	err := Wrap(underlying, ErrCodeStorageWrite, "persist snapshot")

	if !stderrors.Is(err, underlying) {
		t.Error("errors.Is should find the underlying error")
	}
	if !strings.Contains(err.Error(), "disk full") {
		t.Errorf("expected underlying message, got %q", err.Error())
	}
}

func TestWithContext(t *testing.T) {
	err := New(ErrCodeInvalidInput, "bad months value").
		WithContext("months", -2)

	msg := err.Error()
	if !strings.Contains(msg, "months") {
		t.Errorf("expected context key in message, got %q", msg)
	}
}

func TestIsCode(t *testing.T) {
	err := New(ErrCodeNarrationTimeout, "deadline exceeded")
	if !IsCode(err, ErrCodeNarrationTimeout) {
		t.Error("IsCode should match the assigned code")
	}
	if IsCode(err, ErrCodeNarrationAPI) {
		t.Error("IsCode should not match a different code")
	}
	if IsCode(nil, ErrCodeNarrationTimeout) {
		t.Error("IsCode on nil should be false")
	}
	if IsCode(fmt.Errorf("plain"), ErrCodeNarrationTimeout) {
		t.Error("IsCode on a plain error should be false")
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(New(ErrCodeStorageRead, "x")); got != ErrCodeStorageRead {
		t.Errorf("expected STORAGE_READ, got %s", got)
	}
	if got := CodeOf(fmt.Errorf("plain")); got != ErrCodeInternal {
		t.Errorf("expected INTERNAL for plain errors, got %s", got)
	}
}

func TestRetryable(t *testing.T) {
	err := New(ErrCodeNarrationAPI, "upstream 503").WithRetryable(true)
	if !err.IsRetryable() {
		t.Error("expected retryable")
	}
}
