//go:build integration

package integration

// Test environment setup and server lifecycle management.
//
// The integration tests start the blog-server HTTP server in-process and run tests against it.
// The store is chosen by TEST_DATABASE_URL (mongodb://, postgres:// or memory://). When it is
// not set a local MongoDB is assumed (see defaultStoreURL).
//
// By default the server logs are not included in the test output, you can enable them with:
//
//	ENABLE_SERVER_LOGS=true go test -tags=integration -v ./test/integration
//

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/information-sharing-networks/blog-api/internal/config"
	"github.com/information-sharing-networks/blog-api/internal/logger"
	"github.com/information-sharing-networks/blog-api/internal/server"
	"github.com/information-sharing-networks/blog-api/internal/store"
)

// defaultStoreURL is used when TEST_DATABASE_URL is not set
// (a local mongod, or the mongodb service container in CI)
const defaultStoreURL = "mongodb://localhost:27017/blog_integration_test"

// testEnv provides access to the store and server for integration tests
type testEnv struct {
	baseURL string
	cfg     *config.ServerEnvironment
	store   store.Store
}

// testStoreURL returns TEST_DATABASE_URL, or defaultStoreURL when it is not set
func testStoreURL() string {
	if url := os.Getenv("TEST_DATABASE_URL"); url != "" {
		return url
	}
	return defaultStoreURL
}

// startInProcessServer starts the blog-server in-process for testing.
// The server is stopped and the store closed when the test completes.
func startInProcessServer(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{}

	t.Log("Starting in-process server...")

	var (
		ctx          = context.Background()
		host         = "localhost"
		port         = findFreePort(t)
		rateLimitRPS = 0
		environment  = "test"
		logLevelName = "none"
		storeURL     = testStoreURL()
	)

	if os.Getenv("ENABLE_SERVER_LOGS") == "true" {
		logLevelName = "debug"
	}
	logLevel := logger.ParseLogLevel(logLevelName)

	// Set environment variables before calling NewServerConfig
	testEnvVars := map[string]string{
		"HOST":              host,
		"PORT":              fmt.Sprintf("%d", port),
		"RATE_LIMIT_RPS":    fmt.Sprintf("%d", rateLimitRPS),
		"ENVIRONMENT":       environment,
		"LOG_LEVEL":         logLevelName,
		"DATABASE_URL":      storeURL,
		"TEST_DATABASE_URL": storeURL,
	}

	// Save original env vars and set test values
	originalEnvVars := make(map[string]string)
	for key, value := range testEnvVars {
		originalEnvVars[key] = os.Getenv(key)
		os.Setenv(key, value)
	}

	// Restore original environment variables when test completes
	t.Cleanup(func() {
		for key, original := range originalEnvVars {
			if original != "" {
				os.Setenv(key, original)
			} else {
				os.Unsetenv(key)
			}
		}
	})

	cfg, err := config.NewServerConfig()
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}
	env.cfg = cfg

	appLogger := logger.InitLogger(logLevel, environment)

	openCtx, cancel := context.WithTimeout(ctx, cfg.DatabasePingTimeout)
	defer cancel()

	env.store, err = store.Open(openCtx, cfg.StoreURL(), cfg.StoreOptions(appLogger))
	if err != nil {
		t.Fatalf("Unable to connect to store %s: %v", cfg.StoreURL(), err)
	}

	serverInstance := server.NewServer(env.store, cfg, appLogger)

	// Create a cancellable context for server shutdown
	serverCtx, serverCancel := context.WithCancel(ctx)

	// Start server
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := serverInstance.Start(serverCtx); err != nil {
			serverDone <- err
		}
	}()

	// registered before any seeding cleanup, so it runs after the store has been emptied
	t.Cleanup(func() {
		t.Log("Stopping server...")

		serverCancel()

		select {
		case err := <-serverDone:
			if err != nil {
				t.Logf("❌ Server shutdown with error: %v", err)
			} else {
				t.Log("✅ Server shut down gracefully")
			}
		case <-time.After(5 * time.Second):
			t.Log("⚠️ Server shutdown timeout")
		}

		serverInstance.StoreShutdown()
	})

	env.baseURL = fmt.Sprintf("http://localhost:%d", port)
	t.Logf("Starting in-process server at %s", env.baseURL)

	// Wait for server to be ready
	if !waitForServer(t, env.baseURL+"/health/live", 30*time.Second) {
		t.Fatal("Server failed to start within timeout")
	}

	t.Log("✅ Server started")
	return env
}

func findFreePort(t *testing.T) int {
	t.Helper()
	listener, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatalf("Failed to find free port: %v", err)
	}
	defer listener.Close()

	addr := listener.Addr().(*net.TCPAddr)
	return addr.Port
}

func waitForServer(t *testing.T, url string, timeout time.Duration) bool {
	t.Helper()

	client := &http.Client{Timeout: 1 * time.Second}
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return true
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	return false
}
