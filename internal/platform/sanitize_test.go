package platform

import (
	"strings"
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain name", "My Video", "My Video"},
		{"hostile characters", `a<b>c:d"e|f?g*h`, "a_b_c_d_e_f_g_h"},
		{"collapsed underscores", "a?*b", "a_b"},
		{"edge trim", "__name__ ", "name"},
		{"empty input", "", DefaultFilename},
		{"only hostile characters", "???", DefaultFilename},
		{"dot dot", "..", DefaultFilename},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFilename(tt.input); got != tt.expected {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSanitizeFilename_PathTraversal(t *testing.T) {
	inputs := []string{
		"../../etc/passwd",
		`..\..\windows\system32`,
		"/absolute/path/name",
	}
	for _, input := range inputs {
		got := SanitizeFilename(input)
		if strings.ContainsAny(got, `/\`) {
			t.Errorf("SanitizeFilename(%q) = %q still contains a path separator", input, got)
		}
		if got == input {
			t.Errorf("SanitizeFilename(%q) returned input unmodified", input)
		}
	}
}
