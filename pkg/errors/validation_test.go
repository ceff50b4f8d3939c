package errors

import (
	"strings"
	"testing"
)

func TestValidateLabel(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"single letter", "A", false},
		{"letter digit", "B1", false},
		{"prime", "P'", false},
		{"underscore", "O_2", false},
		{"greek", "θ", false},

		{"empty", "", true},
		{"leading digit", "1A", true},
		{"space", "A B", true},
		{"too long", strings.Repeat("A", 40), true},
		{"control char", "A\x01", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLabel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateLabel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidLabel) {
				t.Errorf("ValidateLabel(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidLabel)
			}
		})
	}
}

func TestValidateFileStem(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "q21", false},
		{"with dash", "paper-1_q3", false},

		{"empty", "", true},
		{"slash", "a/b", true},
		{"backslash", "a\\b", true},
		{"hidden", ".secret", true},
		{"dotdot", "..", true},
		{"newline", "a\nb", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFileStem(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFileStem(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "out/figures", false},
		{"absolute", "/tmp/figures", false},
		{"dotted name", "out/v1..2", false},

		{"empty", "", true},
		{"traversal", "out/../../etc", true},
		{"null byte", "out\x00", true},
		{"too long", strings.Repeat("a", 600), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestSanitizeFileStem(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"circle_tangent", "circle_tangent"},
		{"Q21 (b)", "Q21-b"},
		{"  ", "figure"},
		{"∠ABC", "ABC"},
		{"a//b", "a-b"},
	}

	for _, tt := range tests {
		if got := SanitizeFileStem(tt.input); got != tt.want {
			t.Errorf("SanitizeFileStem(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
