package admin_test

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcexec "github.com/testcontainers/testcontainers-go/exec"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/haulmatch/taxadmin/pkg/adminsdk"
)

/*
 * Container setup and helpers shared by the admin service end-to-end tests.
 */

const (
	testImageName = "taxadmin-test:latest"

	sessionSecret = "e2e-session-secret-0123456789abcdef"
	adminEmail    = "admin@example.com"
	adminPassword = "Admin123!Admin"
	viewerEmail   = "viewer@example.com"
)

// TestMain builds the Docker image once before all tests and removes it afterwards.
func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		fmt.Fprintln(os.Stdout, "Skipping admin e2e tests in short mode")
		os.Exit(0)
	}

	fmt.Fprintf(os.Stdout, "Building taxadmin Docker image...")
	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up taxadmin Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	cmd := exec.CommandContext(context.Background(), "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/taxadmin/Dockerfile",
		"../../../")
	cmd.Stdout = os.Stdout

	return cmd.Run()
}

func cleanupDockerImage() {
	_ = exec.CommandContext(context.Background(), "docker", "rmi", "-f", testImageName).Run()
}

// relaxedRateLimits keeps the login limiter out of the way of flow tests.
var relaxedRateLimits = map[string]string{
	"RATELIMIT_STRICT_REQUESTS":   "1000",
	"RATELIMIT_STRICT_WINDOW_SEC": "60",
	"RATELIMIT_STRICT_BURST":      "1000",
	"RATELIMIT_MODERATE_REQUESTS": "1000",
	"RATELIMIT_MODERATE_BURST":    "1000",
	"RATELIMIT_LENIENT_REQUESTS":  "1000",
	"RATELIMIT_LENIENT_BURST":     "1000",
}

// setupContainer starts the service with relaxed rate limits and seeds an
// administrator and a viewer through taxadminctl.
func setupContainer(t *testing.T) *adminsdk.SDKClient {
	t.Helper()
	return startContainer(t, relaxedRateLimits)
}

// setupContainerWithDefaultRateLimits starts the service with production limits.
func setupContainerWithDefaultRateLimits(t *testing.T) *adminsdk.SDKClient {
	t.Helper()
	return startContainer(t, nil)
}

func startContainer(t *testing.T, extraEnv map[string]string) *adminsdk.SDKClient {
	t.Helper()
	ctx := context.Background()

	env := map[string]string{
		"SESSION_SECRET": sessionSecret,
		"DATABASE_FILE":  "/data/taxadmin.db",
		"PEPPER_FILE":    "/data/pepper",
		"ENV":            "test",
		"LOG_LEVEL":      "info",
		"LOG_FORMAT":     "json",
	}
	for k, v := range extraEnv {
		env[k] = v
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        testImageName,
			ExposedPorts: []string{"8080/tcp"},
			Env:          env,
			WaitingFor: wait.ForHTTP("/livez").
				WithPort("8080/tcp").
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	ctl(t, container, "create-user", "-email", adminEmail, "-password", adminPassword, "-first", "Ada", "-roles", "admin,editor")
	ctl(t, container, "create-user", "-email", viewerEmail, "-password", adminPassword, "-roles", "viewer")

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)
	host, err := container.Host(ctx)
	require.NoError(t, err)

	return adminsdk.NewSDKClient(fmt.Sprintf("http://%s:%s", host, mappedPort.Port()))
}

// ctl runs taxadminctl inside the container against the service's database.
func ctl(t *testing.T, container testcontainers.Container, args ...string) string {
	t.Helper()

	code, reader, err := container.Exec(context.Background(), append([]string{"/taxadminctl"}, args...), tcexec.Multiplexed())
	require.NoError(t, err)

	out, err := io.ReadAll(reader)
	require.NoError(t, err)
	require.Zero(t, code, "taxadminctl %v: %s", args, out)

	return string(out)
}

// loginAdmin logs the seeded administrator in.
func loginAdmin(t *testing.T, client *adminsdk.SDKClient) *adminsdk.Session {
	t.Helper()

	session, err := client.Login(t.Context(), adminsdk.LoginRequest{Email: adminEmail, Password: adminPassword})
	require.NoError(t, err, "Login should succeed")
	require.NotNil(t, session)

	return session
}

func assertHealthy(t *testing.T, health *adminsdk.HealthResponse, err error) {
	t.Helper()
	require.NoError(t, err)
	require.NotNil(t, health)
	require.Equal(t, "ok", health.Status)
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	require.True(t, adminsdk.IsCode(err, code), "expected %s, got: %v", code, err)
}
