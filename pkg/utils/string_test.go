package utils

import "testing"

func TestStringHelper_FileStem(t *testing.T) {
	h := NewStringHelper()

	tests := []struct {
		in   string
		want string
	}{
		{"GDP Growth (%)", "GDP_Growth"},
		{"Exports (USD)", "Exports_(USD)"},
		{"United States", "United_States"},
		{"  Korea,  Rep. ", "Korea,_Rep."},
		{"India", "India"},
	}

	for _, tt := range tests {
		if got := h.FileStem(tt.in); got != tt.want {
			t.Errorf("FileStem(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStringHelper_TruncateString(t *testing.T) {
	h := NewStringHelper()

	if got := h.TruncateString("Agriculture (%)", 11); got != "Agriculture..." {
		t.Errorf("TruncateString = %q", got)
	}

	if got := h.TruncateString("GDP", 11); got != "GDP" {
		t.Errorf("TruncateString = %q", got)
	}
}
