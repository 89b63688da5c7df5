package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/spf13/viper"

	config "github.com/drummonds/posadmin/config"
	engine "github.com/drummonds/posadmin/engine"
	"github.com/drummonds/posadmin/paths"
)

// setupTestServer creates a test server with all routes configured
func setupTestServer(t *testing.T) *engine.ServerHandler {
	t.Helper()
	v := viper.New()
	v.AddConfigPath(t.TempDir())
	serverConfig, logger, err := config.Load(v)
	if err != nil {
		t.Fatalf("Unable to load config: %v", err)
	}
	injectGlobals(logger)

	serverHandler, err := newServerHandler(serverConfig, true)
	if err != nil {
		t.Fatalf("Unable to setup server: %v", err)
	}
	t.Cleanup(func() { serverHandler.SearchDB.Close() })
	if err := serverHandler.StartupChecks(); err != nil {
		t.Fatalf("Startup checks failed: %v", err)
	}
	setupEcho(serverHandler)
	return serverHandler
}

func get(t *testing.T, serverHandler *engine.ServerHandler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	serverHandler.Echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

// TestGetRoutes tests the /api/routes endpoint
func TestGetRoutes(t *testing.T) {
	serverHandler := setupTestServer(t)
	rec := get(t, serverHandler, "/api/routes")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var response struct {
		Routes []struct {
			Path     string `json:"path"`
			InLayout bool   `json:"inLayout"`
			CatchAll bool   `json:"catchAll"`
		} `json:"routes"`
		Count int `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v\nBody: %s", err, rec.Body.String())
	}
	if response.Count != len(response.Routes) || response.Count != len(paths.Names())+1 {
		t.Errorf("Expected %d routes, got count %d with %d entries", len(paths.Names())+1, response.Count, len(response.Routes))
	}

	listed := map[string]bool{}
	for _, r := range response.Routes {
		listed[r.Path] = true
	}
	for _, name := range paths.Names() {
		if !listed[paths.Path(name)] {
			t.Errorf("Route table missing %s (%s)", name, paths.Path(name))
		}
	}
	if last := response.Routes[len(response.Routes)-1]; !last.CatchAll {
		t.Errorf("Expected catch-all last, got %+v", last)
	}
}

// TestRouteSearch tests the /api/routes/search endpoint
func TestRouteSearch(t *testing.T) {
	serverHandler := setupTestServer(t)

	t.Run("Search - empty term", func(t *testing.T) {
		if rec := get(t, serverHandler, "/api/routes/search?term="); rec.Code != http.StatusNotFound {
			t.Errorf("Expected status 404, got %d", rec.Code)
		}
	})

	t.Run("Search - orders", func(t *testing.T) {
		rec := get(t, serverHandler, "/api/routes/search?term=orders")
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"/sales/orders"`) {
			t.Errorf("Expected /sales/orders in results: %s", rec.Body.String())
		}
	})
}

// TestAboutAndHealth tests the /api/about and /api/health endpoints
func TestAboutAndHealth(t *testing.T) {
	serverHandler := setupTestServer(t)

	rec := get(t, serverHandler, "/api/about")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	var about map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &about); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	for _, key := range []string{"name", "version", "routeCount", "moduleCount"} {
		if _, ok := about[key]; !ok {
			t.Errorf("Response missing '%s' field", key)
		}
	}

	rec = get(t, serverHandler, "/api/health")
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

// TestMetricsEndpoint checks loads show up once a page module is resolved
func TestMetricsEndpoint(t *testing.T) {
	serverHandler := setupTestServer(t)
	if _, err := serverHandler.Router.Match("/sales/orders").Route.Handle.Resolve(t.Context()); err != nil {
		t.Fatal(err)
	}
	rec := get(t, serverHandler, serverHandler.ServerConfig.Metrics.Path)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `module="../modules/sales/orders/List.jsx"`) {
		t.Errorf("Metrics missing orders load:\n%s", rec.Body.String())
	}
}

// TestRequestID checks every response carries a ULID request id
func TestRequestID(t *testing.T) {
	serverHandler := setupTestServer(t)
	rec := get(t, serverHandler, "/api/about")
	id := rec.Header().Get("X-Request-Id")
	if len(id) != 26 {
		t.Errorf("Expected a 26 character ULID request id, got %q", id)
	}
}

// TestAppShellServed checks the go-app handler renders page routes
func TestAppShellServed(t *testing.T) {
	serverHandler := setupTestServer(t)
	tests := []struct {
		target   string
		contains []string
		notFound bool
	}{
		{"/", []string{"navbar", "Dashboard"}, false},
		{"/sales/orders", []string{"navbar", "Orders across all locations"}, false},
		{"/sales/orders/", []string{"navbar", "Orders across all locations"}, false},
		{"/Sales/Orders", []string{"navbar", "Orders across all locations"}, false},
		{"/login", []string{"Sign in to the back-office console"}, false},
		{"/no/such/page", []string{"Not Found"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := get(t, serverHandler, tt.target)
			if rec.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d", rec.Code)
			}
			body := rec.Body.String()
			if !strings.Contains(strings.ToLower(body), "<html") {
				t.Fatal("response is not HTML")
			}
			for _, want := range tt.contains {
				if !strings.Contains(body, want) {
					t.Errorf("body missing %q", want)
				}
			}
			if !tt.notFound && strings.Contains(body, "Not Found") {
				t.Error("page rendered Not Found")
			}
		})
	}
}

// TestRoutesCommand runs `posadmin routes --check`
func TestRoutesCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"routes", "--check"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("routes --check: %v", err)
	}
	if !strings.Contains(out.String(), "/sales/orders") || !strings.Contains(out.String(), "modules OK") {
		t.Errorf("Unexpected output:\n%s", out.String())
	}
}

// TestDevModeRaisesLogLevel checks --dev leaves the environment untouched
func TestDevModeRaisesLogLevel(t *testing.T) {
	serverConfig, _, err := loadConfig(true)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if serverConfig.Logging.Level != "debug" {
		t.Errorf("Expected debug level, got %q", serverConfig.Logging.Level)
	}
	if _, set := os.LookupEnv("POSADMIN_LOGGING_LEVEL"); set {
		t.Error("dev mode changed the process environment")
	}

	serverConfig, _, err = loadConfig(false)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if serverConfig.Logging.Level == "debug" {
		t.Error("debug level without dev mode")
	}
}
