package style_test

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/warren/internal/core/domain"
	"go.trai.ch/warren/internal/ui/style"
)

func TestStatusIcon(t *testing.T) {
	tests := []struct {
		status domain.Status
		icon   string
		color  lipgloss.Color
	}{
		{domain.StatusCreated, style.Check, style.Green},
		{domain.StatusDeleted, style.Check, style.Green},
		{domain.StatusSuccess, style.Check, style.Green},
		{domain.StatusExists, style.Dot, style.Slate},
		{domain.StatusPartial, style.Warning, style.Yellow},
		{domain.StatusConfirmationRequired, style.Warning, style.Yellow},
		{domain.StatusNotFound, style.Circle, style.Yellow},
		{domain.StatusError, style.Cross, style.Red},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			icon, color := style.StatusIcon(tt.status)
			assert.Equal(t, tt.icon, icon)
			assert.Equal(t, tt.color, color)
		})
	}
}

func TestPackageIcon(t *testing.T) {
	icon, _ := style.PackageIcon(domain.PackageSuccess)
	assert.Equal(t, style.Check, icon)

	icon, _ = style.PackageIcon(domain.PackageNotFound)
	assert.Equal(t, style.Tilde, icon)

	icon, color := style.PackageIcon(domain.PackageFailed)
	assert.Equal(t, style.Cross, icon)
	assert.Equal(t, style.Red, color)
}
