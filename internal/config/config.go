package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"

	"github.com/scikiq/toolbridge/internal/common"
)

// Config represents the application configuration.
type Config struct {
	Server   ServerConfig         `toml:"server"`
	API      APIConfig            `toml:"api"`
	Identity IdentityConfig       `toml:"identity"`
	Storage  StorageConfig        `toml:"storage"`
	Logging  common.LoggingConfig `toml:"logging"`
}

// ServerConfig contains MCP server settings.
type ServerConfig struct {
	Name string `toml:"name"`
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// APIConfig describes the wrapped REST API.
type APIConfig struct {
	Name        string            `toml:"name"`
	Description string            `toml:"description"`
	SpecURL     string            `toml:"spec_url"`
	BaseURL     string            `toml:"base_url"`
	AuthType    string            `toml:"auth_type"`
	AuthConfig  map[string]string `toml:"auth_config"`
}

// IdentityConfig holds the tenant routing keys injected into every tool call.
type IdentityConfig struct {
	ClientKey string `toml:"client_key"`
	EntityKey string `toml:"entity_key"`
	UserKey   string `toml:"user_key"`
}

// StorageConfig contains storage layer settings.
type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig contains BadgerDB-specific settings.
type BadgerConfig struct {
	Path string `toml:"path"`
}

// LoadFromFile loads configuration with priority: defaults -> file -> env.
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		err = toml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies TOOLBRIDGE_* environment variable overrides to config.
func applyEnvOverrides(config *Config) {
	if port := os.Getenv("TOOLBRIDGE_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("TOOLBRIDGE_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if specURL := os.Getenv("TOOLBRIDGE_SPEC_URL"); specURL != "" {
		config.API.SpecURL = specURL
	}
	if baseURL := os.Getenv("TOOLBRIDGE_API_BASE_URL"); baseURL != "" {
		config.API.BaseURL = baseURL
	}
	if ck := os.Getenv("TOOLBRIDGE_CLIENT_KEY"); ck != "" {
		config.Identity.ClientKey = ck
	}
	if ek := os.Getenv("TOOLBRIDGE_ENTITY_KEY"); ek != "" {
		config.Identity.EntityKey = ek
	}
	if uk := os.Getenv("TOOLBRIDGE_USER_KEY"); uk != "" {
		config.Identity.UserKey = uk
	}
	if badgerPath := os.Getenv("TOOLBRIDGE_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}
	if level := os.Getenv("TOOLBRIDGE_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}
