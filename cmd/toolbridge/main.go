// Command toolbridge serves the tools of one or more manifest documents to an
// MCP agent, over stdio or streamable HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/scikiq/toolbridge/internal/common"
	"github.com/scikiq/toolbridge/internal/config"
	"github.com/scikiq/toolbridge/internal/dispatch"
	"github.com/scikiq/toolbridge/internal/manifest"
	"github.com/scikiq/toolbridge/internal/mcp"
	"github.com/scikiq/toolbridge/internal/registry"
	"github.com/scikiq/toolbridge/internal/storage"
)

func main() {
	configFile := flag.String("config", "toolbridge.toml", "Path to config file")
	manifestFiles := flag.String("manifest", "", "Comma-separated manifest YAML files to serve")
	fromStore := flag.String("from-store", "", "Comma-separated manifest names to load from the storage backend")
	stdio := flag.Bool("stdio", false, "Use stdio transport (for desktop agent hosts)")
	legacy := flag.Bool("legacy-framing", false, "Use the legacy result framing (msg/data/status/type/total_count)")
	port := flag.Int("port", 0, "HTTP port (overrides config)")
	host := flag.String("host", "", "HTTP host (overrides config)")
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
	config.ApplyFlagOverrides(cfg, *port, *host)

	common.LoadVersionFromFile()
	logger := common.NewLoggerFromConfig(cfg.Logging)

	identity := dispatch.Identity{
		ClientKey: cfg.Identity.ClientKey,
		EntityKey: cfg.Identity.EntityKey,
		UserKey:   cfg.Identity.UserKey,
	}
	framing := dispatch.FramingRich
	if *legacy {
		framing = dispatch.FramingLegacy
	}

	reg := registry.New()

	for _, path := range splitList(*manifestFiles) {
		m, err := manifest.ReadFile(path)
		if err != nil {
			logger.Error().Str("file", path).Str("error", err.Error()).Msg("failed to load manifest")
			os.Exit(1)
		}
		reg.Register(m.APIInfo.Name, dispatch.NewDispatcher(m, identity, logger, dispatch.WithFraming(framing)))
		logger.Info().Str("file", path).Str("api", m.APIInfo.Name).Int("tools", len(m.Tools)).Msg("manifest loaded")
	}

	if names := splitList(*fromStore); len(names) > 0 {
		mgr, err := storage.NewStorageManager(logger, cfg)
		if err != nil {
			logger.Error().Str("error", err.Error()).Msg("failed to open storage")
			os.Exit(1)
		}
		defer mgr.Close()

		for _, name := range names {
			m, err := mgr.ManifestStore().Get(context.Background(), name)
			if err != nil {
				logger.Error().Str("name", name).Str("error", err.Error()).Msg("failed to load manifest from store")
				os.Exit(1)
			}
			reg.Register(m.APIInfo.Name, dispatch.NewDispatcher(m, identity, logger, dispatch.WithFraming(framing)))
			logger.Info().Str("name", name).Int("tools", len(m.Tools)).Msg("manifest loaded from store")
		}
	}

	if len(reg.Names()) == 0 {
		fmt.Fprintln(os.Stderr, "No manifests to serve: set -manifest or -from-store")
		os.Exit(1)
	}

	srv := mcp.NewServer(cfg.Server.Name, reg, logger)

	if *stdio {
		if err := srv.ServeStdio(); err != nil {
			logger.Error().Str("error", err.Error()).Msg("stdio server stopped")
			os.Exit(1)
		}
		return
	}

	if err := srv.ServeHTTP(cfg.Server.Host, cfg.Server.Port); err != nil {
		logger.Error().Str("error", err.Error()).Msg("HTTP server stopped")
		os.Exit(1)
	}
}

// splitList parses a comma-separated flag value, dropping empty entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
