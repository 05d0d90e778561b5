// Package detector provides environment detection for output format selection.
package detector

import (
	"io"
	"os"

	"golang.org/x/term"
)

// OutputFormat represents how command results are rendered.
type OutputFormat int

const (
	// FormatAuto automatically detects the appropriate format.
	FormatAuto OutputFormat = iota
	// FormatTable renders human-readable tables and status lines.
	FormatTable
	// FormatJSON renders machine-readable JSON reports.
	FormatJSON
)

// String returns the flag spelling of the format.
func (f OutputFormat) String() string {
	switch f {
	case FormatTable:
		return "table"
	case FormatJSON:
		return "json"
	default:
		return "auto"
	}
}

// fder is implemented by *os.File and other writers backed by a file descriptor.
type fder interface {
	Fd() uintptr
}

// DetectFormat returns the recommended output format for w.
// Terminals outside CI get tables; pipes, files and CI runs get JSON.
func DetectFormat(w io.Writer) OutputFormat {
	f, ok := w.(fder)
	if !ok {
		return FormatJSON
	}

	isTTY := term.IsTerminal(int(f.Fd())) //nolint:gosec // file descriptors fit in int

	ci := os.Getenv("CI")
	isCI := ci == "true" || ci == "1"

	if !isTTY || isCI {
		return FormatJSON
	}
	return FormatTable
}

// ResolveFormat applies the user's flags to auto-detection.
// jsonFlag wins over userFlag; userFlag should be one of "auto", "table", "json", or empty.
func ResolveFormat(autoDetected OutputFormat, jsonFlag bool, userFlag string) OutputFormat {
	if jsonFlag {
		return FormatJSON
	}

	switch userFlag {
	case "table":
		return FormatTable
	case "json":
		return FormatJSON
	default:
		return autoDetected
	}
}
