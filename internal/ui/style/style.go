// Package style provides shared UI styling primitives including brand colors
// and icons for consistent visual presentation across the CLI.
package style

import (
	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/warren/internal/core/domain"
)

// Brand Colors.
var (
	Iris   = lipgloss.Color("#8B5CF6")
	Slate  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Tilde   = "~"
	Dot     = "●"
	Circle  = "○"
)

// StatusIcon returns the icon and color used to render a boundary status.
func StatusIcon(status domain.Status) (string, lipgloss.Color) {
	switch status {
	case domain.StatusCreated, domain.StatusDeleted, domain.StatusSuccess:
		return Check, Green
	case domain.StatusExists:
		return Dot, Slate
	case domain.StatusPartial, domain.StatusConfirmationRequired:
		return Warning, Yellow
	case domain.StatusNotFound:
		return Circle, Yellow
	default:
		return Cross, Red
	}
}

// PackageIcon returns the icon and color used to render a per-package outcome.
func PackageIcon(status domain.PackageStatus) (string, lipgloss.Color) {
	switch status {
	case domain.PackageSuccess:
		return Check, Green
	case domain.PackageNotFound:
		return Tilde, Yellow
	default:
		return Cross, Red
	}
}
