// Command toolgen fetches a Swagger/OpenAPI specification and generates a
// tool manifest document from it.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/scikiq/toolbridge/internal/common"
	"github.com/scikiq/toolbridge/internal/config"
	"github.com/scikiq/toolbridge/internal/manifest"
	"github.com/scikiq/toolbridge/internal/storage"
	"github.com/scikiq/toolbridge/internal/swagger"
)

func main() {
	configFile := flag.String("config", "toolbridge.toml", "Path to config file")
	specURL := flag.String("spec", "", "Spec URL (overrides config)")
	baseURL := flag.String("base-url", "", "API base URL (overrides config)")
	apiName := flag.String("name", "", "API name (overrides config)")
	out := flag.String("out", "manifest.yaml", "Output manifest file")
	persist := flag.Bool("store", false, "Also persist the manifest to the storage backend")
	flag.Parse()

	cfg, err := config.LoadFromFile(*configFile)
	if err != nil {
		// A missing config file means defaults; anything else is fatal.
		if !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		cfg, _ = config.LoadFromFiles()
	}

	if *specURL != "" {
		cfg.API.SpecURL = *specURL
	}
	if *baseURL != "" {
		cfg.API.BaseURL = *baseURL
	}
	if *apiName != "" {
		cfg.API.Name = *apiName
	}
	if cfg.API.SpecURL == "" {
		fmt.Fprintln(os.Stderr, "No spec URL configured: set -spec or api.spec_url")
		os.Exit(1)
	}

	common.LoadVersionFromFile()
	logger := common.NewLoggerFromConfig(cfg.Logging)

	parser := swagger.NewParser(cfg.API.SpecURL, logger)
	ops, err := parser.FetchAndParse(context.Background())
	if err != nil {
		logger.Error().Str("spec_url", cfg.API.SpecURL).Str("error", err.Error()).Msg("spec normalization failed")
		os.Exit(1)
	}
	logger.Info().Int("operations", len(ops)).Msg("spec parsed")

	m := manifest.Build(manifest.APIInfo{
		Name:        cfg.API.Name,
		Description: cfg.API.Description,
		BaseURL:     cfg.API.BaseURL,
		SwaggerURL:  cfg.API.SpecURL,
		AuthType:    cfg.API.AuthType,
		AuthConfig:  cfg.API.AuthConfig,
	}, ops)

	if err := m.WriteFile(*out); err != nil {
		logger.Error().Str("error", err.Error()).Msg("failed to write manifest")
		os.Exit(1)
	}
	logger.Info().Str("file", *out).Int("tools", len(m.Tools)).Msg("manifest written")

	if *persist {
		mgr, err := storage.NewStorageManager(logger, cfg)
		if err != nil {
			logger.Error().Str("error", err.Error()).Msg("failed to open storage")
			os.Exit(1)
		}
		defer mgr.Close()

		if err := mgr.ManifestStore().Put(context.Background(), cfg.API.Name, m); err != nil {
			logger.Error().Str("error", err.Error()).Msg("failed to persist manifest")
			os.Exit(1)
		}
		logger.Info().Str("name", cfg.API.Name).Msg("manifest persisted")
	}
}
