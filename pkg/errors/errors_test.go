package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeSchema, "undefined point: %s", "Q")

	if err.Code != ErrCodeSchema {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeSchema)
	}

	if err.Message != "undefined point: Q" {
		t.Errorf("Message = %v, want %v", err.Message, "undefined point: Q")
	}

	expected := "SCHEMA: undefined point: Q"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeRender, cause, "encode png")

	if err.Code != ErrCodeRender {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeRender)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	// Test Unwrap
	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	// Test errors.Is with wrapped error
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeInvalidInput, "test"),
			code:     ErrCodeInvalidInput,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeInvalidInput, "test"),
			code:     ErrCodeGeometrySolve,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeRenderTimeout, New(ErrCodeInvalidInput, "inner"), "outer"),
			code:     ErrCodeRenderTimeout,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeGeometrySolve, "test"),
			expected: ErrCodeGeometrySolve,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			expected: "",
		},
		{
			name:     "nil",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidInput, "friendly message"),
			expected: "friendly message",
		},
		{
			name:     "plain error",
			err:      errors.New("plain error"),
			expected: "plain error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCodeFatal(t *testing.T) {
	tests := []struct {
		code Code
		want bool
	}{
		{ErrCodeSchema, true},
		{ErrCodeGeometrySolve, true},
		{ErrCodeRenderTimeout, true},
		{ErrCodeRender, true},
		{ErrCodeLayout, false},
		{"", false},
	}

	for _, tt := range tests {
		if got := tt.code.Fatal(); got != tt.want {
			t.Errorf("%q.Fatal() = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestNewDiagnostic(t *testing.T) {
	d := NewDiagnostic("resolve", New(ErrCodeGeometrySolve, "triangle ABC is degenerate"))
	if d.Code != ErrCodeGeometrySolve || d.Stage != "resolve" {
		t.Errorf("diagnostic = %+v", d)
	}
	if d.Message != "triangle ABC is degenerate" {
		t.Errorf("Message = %q", d.Message)
	}
	if got := d.String(); got != "GEOMETRY_SOLVE at resolve: triangle ABC is degenerate" {
		t.Errorf("String() = %q", got)
	}

	plain := NewDiagnostic("render", errPlain("boom"))
	if plain.Code != ErrCodeInternal {
		t.Errorf("plain error code = %q, want %q", plain.Code, ErrCodeInternal)
	}
}

type errPlain string

func (e errPlain) Error() string { return string(e) }
