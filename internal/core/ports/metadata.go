package ports

import "context"

// MetadataStore persists per-environment descriptive data.
//
//go:generate mockgen -source=metadata.go -destination=mocks/mock_metadata.go -package=mocks
type MetadataStore interface {
	// Description returns the stored description, or "" when none is recorded.
	Description(ctx context.Context, env string) (string, error)
	// Descriptions returns every recorded description keyed by environment name.
	Descriptions(ctx context.Context) (map[string]string, error)
	// SetDescription records text for env, replacing any previous value.
	SetDescription(ctx context.Context, env, text string) error
	// Remove drops every record for env. Removing an unknown env is not an error.
	Remove(ctx context.Context, env string) error
}
