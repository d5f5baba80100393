package archive

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeSegment(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain name untouched", "solution.zip", "solution.zip"},
		{"empty string", "", ""},
		{"colon and question mark", `report:final?.cs`, "report_final_.cs"},
		{"slashes replaced inside a segment", `a/b\c`, "a_b_c"},
		{"angle brackets and pipe", `<run|out>`, "_run_out_"},
		{"control characters", "a\x00b\x1fc", "a_b_c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeSegment(tt.input))
		})
	}
}

func TestSanitizePath(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"forward slash path", "anhdlse181818/0/solution.zip", "anhdlse181818/0/solution.zip"},
		{"backslash path normalized", `anhdlse181818\0\solution.zip`, "anhdlse181818/0/solution.zip"},
		{"empty segments dropped", "a//b///c", "a/b/c"},
		{"leading and trailing slashes dropped", "/a/b/", "a/b"},
		{"illegal characters inside segments", "a:b/c?d", "a_b/c_d"},
		{"empty path", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizePath(tt.input))
		})
	}
}

func TestSanitizePathIdempotent(t *testing.T) {
	inputs := []string{
		"anhdlse181818/0/solution.zip",
		`weird:name\with?chars`,
		"",
		"///",
		"already/clean/path",
	}

	for _, in := range inputs {
		once := SanitizePath(in)
		assert.Equal(t, once, SanitizePath(once), "input %q", in)
	}
}
