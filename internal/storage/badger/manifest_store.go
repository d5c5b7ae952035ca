package badger

import (
	"context"
	"fmt"

	"github.com/timshannon/badgerhold/v4"

	"github.com/scikiq/toolbridge/internal/common"
	"github.com/scikiq/toolbridge/internal/manifest"
)

// ManifestRecord is one persisted manifest document.
type ManifestRecord struct {
	Name     string `badgerhold:"key"`
	Document string
}

// ManifestStore implements interfaces.ManifestStore using BadgerDB.
type ManifestStore struct {
	db     *BadgerDB
	logger *common.Logger
}

// NewManifestStore creates a manifest store backed by BadgerDB.
func NewManifestStore(db *BadgerDB, logger *common.Logger) *ManifestStore {
	return &ManifestStore{
		db:     db,
		logger: logger,
	}
}

// Put stores a manifest document under the given name.
func (s *ManifestStore) Put(_ context.Context, name string, m *manifest.Manifest) error {
	data, err := m.EncodeYAML()
	if err != nil {
		return err
	}
	record := ManifestRecord{
		Name:     name,
		Document: string(data),
	}
	if err := s.db.Store().Upsert(name, &record); err != nil {
		return fmt.Errorf("failed to store manifest %s: %w", name, err)
	}
	s.logger.Debug().Str("name", name).Int("tools", len(m.Tools)).Msg("manifest stored")
	return nil
}

// Get retrieves a manifest document by name.
func (s *ManifestStore) Get(_ context.Context, name string) (*manifest.Manifest, error) {
	var record ManifestRecord
	err := s.db.Store().Get(name, &record)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("manifest not found: %s", name)
		}
		return nil, fmt.Errorf("failed to get manifest %s: %w", name, err)
	}
	return manifest.DecodeYAML([]byte(record.Document))
}

// Delete removes a manifest document.
func (s *ManifestStore) Delete(_ context.Context, name string) error {
	err := s.db.Store().Delete(name, ManifestRecord{})
	if err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete manifest %s: %w", name, err)
	}
	return nil
}

// List returns the names of all stored manifests.
func (s *ManifestStore) List(_ context.Context) ([]string, error) {
	var records []ManifestRecord
	if err := s.db.Store().Find(&records, nil); err != nil {
		return nil, fmt.Errorf("failed to list manifests: %w", err)
	}
	names := make([]string, 0, len(records))
	for _, r := range records {
		names = append(names, r.Name)
	}
	return names, nil
}
