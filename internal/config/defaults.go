package config

import "github.com/scikiq/toolbridge/internal/common"

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Name: "toolbridge",
			Host: "localhost",
			Port: 4280,
		},
		API: APIConfig{
			Name:       "Generated API Tools",
			AuthType:   "none",
			AuthConfig: map[string]string{},
		},
		Identity: IdentityConfig{},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data/toolbridge",
			},
		},
		Logging: common.LoggingConfig{
			Level:   "info",
			Outputs: []string{"console", "file"},
		},
	}
}
