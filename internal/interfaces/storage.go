package interfaces

import (
	"context"

	"github.com/scikiq/toolbridge/internal/manifest"
)

// StorageManager provides access to domain-specific storage interfaces.
// Implementations can be swapped (BadgerDB now, centralised DB later).
type StorageManager interface {
	ManifestStore() ManifestStore
	Close() error
}

// ManifestStore persists generated manifest documents keyed by API name.
// Documents are stored as their YAML serialization, so the store never drifts
// from the on-disk interchange format.
type ManifestStore interface {
	Put(ctx context.Context, name string, m *manifest.Manifest) error
	Get(ctx context.Context, name string) (*manifest.Manifest, error)
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]string, error)
}
