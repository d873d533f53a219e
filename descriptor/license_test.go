package descriptor

import "testing"

func TestNormalizeLicense(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		wantErr  bool
	}{
		{"GNU GPLv3", "GPL-3.0-only", false},
		{"gplv3", "GPL-3.0-only", false},
		{"Apache 2.0", "Apache-2.0", false},
		{"Apache   License  2.0", "Apache-2.0", false},
		{"MIT License", "MIT", false},
		{"MIT", "MIT", false},
		{"GPL-3.0-only", "GPL-3.0-only", false},
		{"MIT OR Apache-2.0", "MIT OR Apache-2.0", false},
		{"", "", true},
		{"Definitely Not A License", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := NormalizeLicense(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NormalizeLicense(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.expected {
				t.Errorf("NormalizeLicense(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
