package storage

import (
	"github.com/scikiq/toolbridge/internal/common"
	"github.com/scikiq/toolbridge/internal/config"
	"github.com/scikiq/toolbridge/internal/interfaces"
	"github.com/scikiq/toolbridge/internal/storage/badger"
)

// NewStorageManager creates a new storage manager based on config.
func NewStorageManager(logger *common.Logger, cfg *config.Config) (interfaces.StorageManager, error) {
	return badger.NewManager(logger, &cfg.Storage.Badger)
}
