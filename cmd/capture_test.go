package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These cases fail before a browser is started.
func TestCaptureCmd_Validation(t *testing.T) {
	tests := []struct {
		name string
		args []string
		msg  string
	}{
		{"missing url", []string{"capture"}, "accepts 1 arg"},
		{"url without scheme", []string{"capture", "example.com/page"}, "invalid url"},
		{"negative count", []string{"capture", "--count", "-1", "https://example.com"}, "--count"},
		{"non-positive timeout", []string{"capture", "--timeout", "0s", "https://example.com"}, "--timeout must be positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}
