package validate

import (
	"testing"
)

func TestMail(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"ada@example.com", true},
		{"ada.lovelace@mail.example.fr", true},
		{"jean-pierre@my-site.be", true},
		{"ada@", false},
		{"no-at.example.com", false},
		{"a@b.c", false},
		{"", false},
		{"ada @example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Mail(tt.input); got != tt.expected {
				t.Errorf("Mail(%q) = %v; want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestPassword(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"complete", "Secret1!", true},
		{"long complete", "Un.Mot2Passe", true},
		{"too short", "Se1!a", false},
		{"no digit", "Secret!!", false},
		{"no upper", "secret1!", false},
		{"no lower", "SECRET1!", false},
		{"no special", "Secret12", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Password(tt.input); got != tt.expected {
				t.Errorf("Password(%q) = %v; want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestPhone(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"0470123456", true},
		{"+32 470 12 34 56", true},
		{"0032470123456", true},
		{"12345", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Phone(tt.input); got != tt.expected {
				t.Errorf("Phone(%q) = %v; want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestBlank(t *testing.T) {
	if !Blank(" \t\n") {
		t.Error("whitespace should be blank")
	}
	if Blank(" a ") {
		t.Error("text should not be blank")
	}
}
