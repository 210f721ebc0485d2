package contact

import (
	"errors"
	"strings"
	"testing"
)

func TestNewPhone_Valid(t *testing.T) {
	tests := []string{"1234567890", "0000000000", "9999999999", "5555555555"}
	for _, raw := range tests {
		t.Run(raw, func(t *testing.T) {
			p, err := NewPhone(raw)
			if err != nil {
				t.Fatalf("NewPhone(%q) error = %v", raw, err)
			}
			if p.Value() != raw {
				t.Errorf("Value() = %q, want %q", p.Value(), raw)
			}
			if p.String() != raw {
				t.Errorf("String() = %q, want %q", p.String(), raw)
			}
		})
	}
}

func TestNewPhone_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty", raw: ""},
		{name: "too short", raw: "123456789"},
		{name: "too long", raw: "12345678901"},
		{name: "letters", raw: "12345abcde"},
		{name: "dashes", raw: "123-456-78"},
		{name: "leading space", raw: " 123456789"},
		{name: "plus prefix", raw: "+123456789"},
		{name: "unicode digits", raw: "١٢٣٤٥٦٧٨٩٠"},
		{name: "fullwidth digits", raw: "１２３４５６７８９０"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPhone(tt.raw)
			if err == nil {
				t.Fatalf("NewPhone(%q) should fail", tt.raw)
			}
			if !errors.Is(err, ErrInvalidPhone) {
				t.Errorf("errors.Is(err, ErrInvalidPhone) = false for %v", err)
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("error type = %T, want *ValidationError", err)
			}
			if ve.Field != "phone" {
				t.Errorf("Field = %q, want %q", ve.Field, "phone")
			}
			if ve.Value != tt.raw {
				t.Errorf("Value = %q, want %q", ve.Value, tt.raw)
			}
			if !strings.Contains(err.Error(), "10 digits") {
				t.Errorf("message %q should describe the expected format", err.Error())
			}
		})
	}
}
