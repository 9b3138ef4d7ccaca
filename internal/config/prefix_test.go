package config

import (
	"testing"
)

func TestNormalizePrefix(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"single segment", "assets", "assets"},
		{"trailing slash", "assets/", "assets"},
		{"leading slash", "/assets", "assets"},
		{"both slashes", "/assets/css/", "assets/css"},
		{"double slash middle", "assets//css", "assets/css"},
		{"multiple slashes", "assets///css///", "assets/css"},
		{"only slashes", "///", ""},
		{"backslashes", "assets\\css", "assets/css"},
		{"dot segments", "assets/./css/../js", "assets/js"},
		{"only dot", ".", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizePrefix(tt.input)
			if got != tt.expected {
				t.Errorf("NormalizePrefix(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
