package registry

import (
	"reflect"
	"sync"
	"testing"

	"github.com/scikiq/toolbridge/internal/common"
	"github.com/scikiq/toolbridge/internal/dispatch"
	"github.com/scikiq/toolbridge/internal/manifest"
	"github.com/scikiq/toolbridge/internal/swagger"
)

func testDispatcher(apiName string) *dispatch.Dispatcher {
	m := manifest.Build(manifest.APIInfo{Name: apiName, BaseURL: "http://localhost:1"},
		[]swagger.OperationDescriptor{
			{Path: "/pet/{petId}", Method: "GET", OperationID: "getPetById"},
		})
	return dispatch.NewDispatcher(m, dispatch.Identity{}, common.NewSilentLogger())
}

func TestRegisterAndGet(t *testing.T) {
	r := New()
	d := testDispatcher("petstore")
	r.Register("petstore", d)

	got, err := r.Get("petstore")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != d {
		t.Error("Get returned a different dispatcher")
	}
}

func TestGetUnknownServer(t *testing.T) {
	r := New()
	if _, err := r.Get("missing"); err == nil {
		t.Error("expected error for unregistered server")
	}
}

func TestRegisterReplaces(t *testing.T) {
	r := New()
	first := testDispatcher("petstore")
	second := testDispatcher("petstore")

	r.Register("petstore", first)
	r.Register("petstore", second)

	got, err := r.Get("petstore")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != second {
		t.Error("Register did not replace the existing dispatcher")
	}
	if names := r.Names(); len(names) != 1 {
		t.Errorf("Names = %v, want one entry", names)
	}
}

func TestRemove(t *testing.T) {
	r := New()
	r.Register("petstore", testDispatcher("petstore"))
	r.Remove("petstore")
	if _, err := r.Get("petstore"); err == nil {
		t.Error("dispatcher still registered after Remove")
	}

	// Removing an unknown name is a no-op.
	r.Remove("never-registered")
}

func TestNamesSorted(t *testing.T) {
	r := New()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		r.Register(name, testDispatcher(name))
	}
	want := []string{"alpha", "mid", "zeta"}
	if got := r.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names = %v, want %v", got, want)
	}
}

func TestTools(t *testing.T) {
	r := New()
	r.Register("petstore", testDispatcher("petstore"))

	all := r.Tools()
	tools, ok := all["petstore"]
	if !ok {
		t.Fatal("petstore missing from Tools")
	}
	if len(tools) != 1 || tools[0].Name != "GetPetByIdTool" {
		t.Errorf("tools = %+v", tools)
	}
}

func TestConcurrentAccess(t *testing.T) {
	r := New()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			name := string(rune('a' + n))
			r.Register(name, testDispatcher(name))
			r.Get(name)
			r.Names()
			r.Tools()
		}(i)
	}
	wg.Wait()

	if len(r.Names()) != 10 {
		t.Errorf("expected 10 registered servers, got %d", len(r.Names()))
	}
}
