package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidDocument, "test message: %s", "value")

	if err.Code != ErrCodeInvalidDocument {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidDocument)
	}

	if err.Message != "test message: value" {
		t.Errorf("Message = %v, want %v", err.Message, "test message: value")
	}

	expected := "INVALID_DOCUMENT: test message: value"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeUnderdetermined, cause, "failed to solve")

	if err.Code != ErrCodeUnderdetermined {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeUnderdetermined)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodeIncompatibleConstraint, "conflict")

	if !Is(err, ErrCodeIncompatibleConstraint) {
		t.Error("Is() = false, want true for matching code")
	}
	if Is(err, ErrCodeNotFound) {
		t.Error("Is() = true, want false for non-matching code")
	}
	if Is(errors.New("plain"), ErrCodeNotFound) {
		t.Error("Is() = true, want false for plain error")
	}
}

func TestIsThroughWrapping(t *testing.T) {
	inner := New(ErrCodeUnderdetermined, "no basic variable")
	outer := Wrap(ErrCodeInternal, inner, "pipeline failed")

	// The outermost code wins.
	if !Is(outer, ErrCodeInternal) {
		t.Error("Is() = false, want true for outer code")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeInvalidAxis, "bad axis")); got != ErrCodeInvalidAxis {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodeInvalidAxis)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode() = %v, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeInvalidDocument, "constraint 3 needs both from and to")
	if got := UserMessage(err); got != "constraint 3 needs both from and to" {
		t.Errorf("UserMessage() = %q", got)
	}

	plain := errors.New("plain failure")
	if got := UserMessage(plain); got != "plain failure" {
		t.Errorf("UserMessage() = %q", got)
	}
}

func TestValidateNodeID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{name: "simple", id: "r1.2", wantErr: false},
		{name: "empty", id: "", wantErr: true},
		{name: "traversal", id: "../etc/passwd", wantErr: true},
		{name: "control char", id: "a\nb", wantErr: true},
		{name: "backslash", id: "a\\b", wantErr: true},
		{name: "unicode ok", id: "vα.1", wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNodeID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNodeID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
		})
	}
}
