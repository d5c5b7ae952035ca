// Package integration exercises the full pipeline against a real Swagger
// Petstore container: fetch the live spec, build a manifest, and dispatch
// tool calls at the running API.
//
// Requires Docker. Gated behind TOOLBRIDGE_INTEGRATION=1 so the unit suite
// stays container-free.
package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/scikiq/toolbridge/internal/common"
	"github.com/scikiq/toolbridge/internal/dispatch"
	"github.com/scikiq/toolbridge/internal/manifest"
	"github.com/scikiq/toolbridge/internal/swagger"
)

const petstoreImage = "swaggerapi/petstore3:unstable"

// startPetstore runs the petstore container and returns its base URL.
func startPetstore(t *testing.T) string {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	t.Cleanup(cancel)

	ctr, err := testcontainers.Run(ctx, petstoreImage,
		testcontainers.WithExposedPorts("8080/tcp"),
		testcontainers.WithWaitStrategy(
			wait.ForHTTP("/api/v3/openapi.json").WithPort("8080/tcp").WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("start petstore: %v", err)
	}
	t.Cleanup(func() {
		cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cleanupCancel()
		ctr.Terminate(cleanupCtx)
	})

	host, err := ctr.Host(ctx)
	if err != nil {
		t.Fatalf("get petstore host: %v", err)
	}
	port, err := ctr.MappedPort(ctx, "8080/tcp")
	if err != nil {
		t.Fatalf("get petstore port: %v", err)
	}
	return "http://" + host + ":" + port.Port()
}

func TestPetstoreEndToEnd(t *testing.T) {
	if os.Getenv("TOOLBRIDGE_INTEGRATION") == "" {
		t.Skip("set TOOLBRIDGE_INTEGRATION=1 to run container-backed tests")
	}

	baseURL := startPetstore(t)
	logger := common.NewSilentLogger()
	ctx := t.Context()

	// Fetch and normalize the live spec.
	parser := swagger.NewParser(baseURL+"/api/v3/openapi.json", logger)
	ops, err := parser.FetchAndParse(ctx)
	if err != nil {
		t.Fatalf("FetchAndParse failed: %v", err)
	}
	if len(ops) == 0 {
		t.Fatal("no operations extracted from live spec")
	}

	// Build a manifest and a dispatcher over the running API.
	m := manifest.Build(manifest.APIInfo{
		Name:       "Petstore",
		BaseURL:    baseURL + "/api/v3",
		SwaggerURL: baseURL + "/api/v3/openapi.json",
	}, ops)

	tool := m.FindTool("GetInventoryTool")
	if tool == nil {
		t.Fatalf("GetInventoryTool missing; tools: %v", toolNames(m))
	}

	d := dispatch.NewDispatcher(m,
		dispatch.Identity{ClientKey: "c", EntityKey: "e", UserKey: "u"},
		logger)

	env := d.Dispatch(ctx, "GetInventoryTool", nil)
	if env.IsError() {
		t.Fatalf("GetInventoryTool failed: %+v", env.Error)
	}
	result, ok := env.Result.(dispatch.RichResult)
	if !ok {
		t.Fatalf("expected RichResult, got %T", env.Result)
	}
	if result.Status != 200 {
		t.Errorf("status = %d", result.Status)
	}
	if _, ok := result.Data.(map[string]any); !ok {
		t.Errorf("inventory data = %T, want object", result.Data)
	}

	// A backend 404 comes back as a failure envelope, not an error.
	env = d.Dispatch(ctx, "GetPetByIdTool", map[string]any{"petId": 99999999})
	if !env.IsError() {
		t.Skip("petstore returned a pet for a random id; data seeded differently")
	}
	if env.Error.Data.Method != "GET" || env.Error.Data.URL == "" {
		t.Errorf("error data = %+v", env.Error.Data)
	}
}

func toolNames(m *manifest.Manifest) []string {
	names := make([]string, 0, len(m.Tools))
	for _, tool := range m.Tools {
		names = append(names, tool.Name)
	}
	return names
}
