package badger

import (
	"github.com/scikiq/toolbridge/internal/common"
	"github.com/scikiq/toolbridge/internal/config"
	"github.com/scikiq/toolbridge/internal/interfaces"
)

// Manager implements the StorageManager interface for Badger.
type Manager struct {
	db        *BadgerDB
	manifests interfaces.ManifestStore
	logger    *common.Logger
}

// NewManager creates a new Badger storage manager.
func NewManager(logger *common.Logger, cfg *config.BadgerConfig) (interfaces.StorageManager, error) {
	db, err := NewBadgerDB(logger, cfg)
	if err != nil {
		return nil, err
	}

	manager := &Manager{
		db:        db,
		manifests: NewManifestStore(db, logger),
		logger:    logger,
	}

	logger.Debug().Msg("Badger storage manager initialized")

	return manager, nil
}

// ManifestStore returns the manifest storage interface.
func (m *Manager) ManifestStore() interfaces.ManifestStore {
	return m.manifests
}

// Close closes the database connection.
func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
