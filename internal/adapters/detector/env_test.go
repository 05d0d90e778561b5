package detector_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/warren/internal/adapters/detector"
)

func TestDetectFormat(t *testing.T) {
	t.Run("non-file writer gets JSON", func(t *testing.T) {
		assert.Equal(t, detector.FormatJSON, detector.DetectFormat(&bytes.Buffer{}))
	})

	t.Run("regular file gets JSON", func(t *testing.T) {
		f, err := os.Create(filepath.Join(t.TempDir(), "out.txt"))
		require.NoError(t, err)
		t.Cleanup(func() { _ = f.Close() })

		assert.Equal(t, detector.FormatJSON, detector.DetectFormat(f))
	})

	t.Run("CI forces JSON", func(t *testing.T) {
		t.Setenv("CI", "true")
		assert.Equal(t, detector.FormatJSON, detector.DetectFormat(os.Stdout))
	})
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		name         string
		autoDetected detector.OutputFormat
		jsonFlag     bool
		userFlag     string
		expected     detector.OutputFormat
	}{
		{
			name:         "empty flag respects auto-detection",
			autoDetected: detector.FormatTable,
			expected:     detector.FormatTable,
		},
		{
			name:         "auto respects auto-detection",
			autoDetected: detector.FormatJSON,
			userFlag:     "auto",
			expected:     detector.FormatJSON,
		},
		{
			name:         "table overrides auto-detection",
			autoDetected: detector.FormatJSON,
			userFlag:     "table",
			expected:     detector.FormatTable,
		},
		{
			name:         "json overrides auto-detection",
			autoDetected: detector.FormatTable,
			userFlag:     "json",
			expected:     detector.FormatJSON,
		},
		{
			name:         "json flag wins over table",
			autoDetected: detector.FormatTable,
			jsonFlag:     true,
			userFlag:     "table",
			expected:     detector.FormatJSON,
		},
		{
			name:         "unknown flag falls back to auto-detection",
			autoDetected: detector.FormatTable,
			userFlag:     "yaml",
			expected:     detector.FormatTable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, detector.ResolveFormat(tt.autoDetected, tt.jsonFlag, tt.userFlag))
		})
	}
}

func TestOutputFormat_String(t *testing.T) {
	assert.Equal(t, "auto", detector.FormatAuto.String())
	assert.Equal(t, "table", detector.FormatTable.String())
	assert.Equal(t, "json", detector.FormatJSON.String())
}
