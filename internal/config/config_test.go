package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "toolbridge.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	cfg := NewDefaultConfig()

	if cfg.Server.Name != "toolbridge" {
		t.Errorf("server name = %q", cfg.Server.Name)
	}
	if cfg.Server.Port != 4280 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.API.AuthType != "none" {
		t.Errorf("auth type = %q", cfg.API.AuthType)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("log level = %q", cfg.Logging.Level)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfigFile(t, `
[server]
port = 9000

[api]
name = "Petstore"
spec_url = "http://pets.example/swagger.json"
base_url = "http://pets.example/v2"
auth_type = "api_key"

[api.auth_config]
header = "X-API-Key"
key = "s3cret"

[identity]
client_key = "client-1"
entity_key = "entity-1"
user_key = "user-1"
`)

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("port = %d, want file override 9000", cfg.Server.Port)
	}
	if cfg.Server.Host != "localhost" {
		t.Errorf("host = %q, want default preserved", cfg.Server.Host)
	}
	if cfg.API.Name != "Petstore" || cfg.API.SpecURL != "http://pets.example/swagger.json" {
		t.Errorf("api = %+v", cfg.API)
	}
	if cfg.API.AuthConfig["key"] != "s3cret" {
		t.Errorf("auth config = %v", cfg.API.AuthConfig)
	}
	if cfg.Identity.ClientKey != "client-1" || cfg.Identity.UserKey != "user-1" {
		t.Errorf("identity = %+v", cfg.Identity)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadFromFileInvalidTOML(t *testing.T) {
	path := writeConfigFile(t, `[server`)
	if _, err := LoadFromFile(path); err == nil {
		t.Error("expected error for invalid TOML")
	}
}

func TestLoadFromFilesLaterWins(t *testing.T) {
	first := writeConfigFile(t, `
[server]
port = 9000
host = "first-host"
`)
	second := writeConfigFile(t, `
[server]
port = 9100
`)

	cfg, err := LoadFromFiles(first, second)
	if err != nil {
		t.Fatalf("LoadFromFiles failed: %v", err)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("port = %d, want later file to win", cfg.Server.Port)
	}
	if cfg.Server.Host != "first-host" {
		t.Errorf("host = %q, want earlier file value preserved", cfg.Server.Host)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TOOLBRIDGE_SERVER_PORT", "5555")
	t.Setenv("TOOLBRIDGE_SPEC_URL", "http://env.example/swagger.json")
	t.Setenv("TOOLBRIDGE_CLIENT_KEY", "env-client")
	t.Setenv("TOOLBRIDGE_LOG_LEVEL", "debug")

	path := writeConfigFile(t, `
[server]
port = 9000

[api]
spec_url = "http://file.example/swagger.json"
`)

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if cfg.Server.Port != 5555 {
		t.Errorf("port = %d, want env override 5555", cfg.Server.Port)
	}
	if cfg.API.SpecURL != "http://env.example/swagger.json" {
		t.Errorf("spec url = %q, want env override", cfg.API.SpecURL)
	}
	if cfg.Identity.ClientKey != "env-client" {
		t.Errorf("client key = %q", cfg.Identity.ClientKey)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("log level = %q", cfg.Logging.Level)
	}
}

func TestEnvOverrideInvalidPortIgnored(t *testing.T) {
	t.Setenv("TOOLBRIDGE_SERVER_PORT", "not-a-port")

	cfg, err := LoadFromFiles()
	if err != nil {
		t.Fatalf("LoadFromFiles failed: %v", err)
	}
	if cfg.Server.Port != 4280 {
		t.Errorf("port = %d, want default when env value is invalid", cfg.Server.Port)
	}
}

func TestApplyFlagOverrides(t *testing.T) {
	cfg := NewDefaultConfig()
	ApplyFlagOverrides(cfg, 7000, "0.0.0.0")

	if cfg.Server.Port != 7000 || cfg.Server.Host != "0.0.0.0" {
		t.Errorf("flag overrides not applied: %+v", cfg.Server)
	}

	// Zero values leave the config untouched.
	ApplyFlagOverrides(cfg, 0, "")
	if cfg.Server.Port != 7000 || cfg.Server.Host != "0.0.0.0" {
		t.Errorf("zero-value flags must be no-ops: %+v", cfg.Server)
	}
}
