package storefront_test

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * Common helpers for the session service end-to-end tests: Docker image
 * lifecycle and container setup.
 */

const (
	testImageName = "storefront-auth-test:latest"

	testSessionSecret = "e2e-session-secret-32-bytes-long!!!"
)

// TestMain builds the Docker image once before all tests and cleans it up
// after all tests complete.
func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building session service Docker image...")

	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up session service Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/storefront/Dockerfile",
		"../../../")
	cmd.Dir = "."
	cmd.Stdout = os.Stdout
	cmd.Stderr = nil

	return cmd.Run()
}

func cleanupDockerImage() {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "rmi", "-f", testImageName)
	_ = cmd.Run() // image might not exist
}

// setupContainer starts the service with relaxed rate limits and returns its
// base URL. Most tests use this; rate-limit tests use
// setupContainerWithDefaultRateLimits.
func setupContainer(t *testing.T) string {
	t.Helper()
	return startContainer(t, map[string]string{
		"SESSION_SECRET": testSessionSecret,
		"STORE_DRIVER":   "sqlite",
		"SQLITE_PATH":    "/tmp/storefront.db",
		"APP_ENV":        "test",
		"LOG_LEVEL":      "info",
		"LOG_FORMAT":     "json",
		// Relaxed limits so rapid test requests don't trip the strict tier.
		"RATELIMIT_STRICT_REQUESTS":   "1000",
		"RATELIMIT_STRICT_WINDOW_SEC": "60",
		"RATELIMIT_STRICT_BURST":      "1000",
	})
}

// setupContainerWithDefaultRateLimits starts the service with production rate
// limits, for testing that limiting actually works.
func setupContainerWithDefaultRateLimits(t *testing.T) string {
	t.Helper()
	return startContainer(t, map[string]string{
		"SESSION_SECRET": testSessionSecret,
		"STORE_DRIVER":   "sqlite",
		"SQLITE_PATH":    "/tmp/storefront.db",
		"APP_ENV":        "test",
		"LOG_LEVEL":      "info",
		"LOG_FORMAT":     "json",
	})
}

func startContainer(t *testing.T, env map[string]string) string {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        testImageName,
		ExposedPorts: []string{"8080/tcp"},
		Env:          env,
		WaitingFor: wait.ForHTTP("/livez").
			WithPort("8080/tcp").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	return fmt.Sprintf("http://%s:%s", host, mappedPort.Port())
}
