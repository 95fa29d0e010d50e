package auth_test

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/coursehub/pkg/authsdk"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * Common constants and helper functions for auth service end-to-end tests.
 * Mail uses the log provider, so links are recovered from container logs.
 */

const (
	testImageName = "coursehub-auth-test:latest"

	signingKey   = "e2e-signing-key-that-is-at-least-32-bytes"
	testPassword = "Password123!"
)

// TestMain builds the Docker image once before all tests and cleans it up
// after they complete.
func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building Auth Service Docker image...")

	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up Auth Service Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/auth/Dockerfile",
		"../../../")
	cmd.Dir = "."
	cmd.Stdout = os.Stdout
	cmd.Stderr = nil

	return cmd.Run()
}

func cleanupDockerImage() {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "rmi", "-f", testImageName)
	_ = cmd.Run() // Ignore errors - image might not exist
}

// authEnv is a running auth container.
type authEnv struct {
	container testcontainers.Container
	baseURL   string
	client    *authsdk.SDKClient
}

// defaultEnv is the container environment shared by all tests. Rate limits
// are relaxed because tests make many rapid requests.
func defaultEnv() map[string]string {
	return map[string]string{
		"ENV":                  "test",
		"LOG_LEVEL":            "info",
		"LOG_FORMAT":           "json",
		"AUTH_JWT_SIGNING_KEY": signingKey,
		"AUTH_JWT_KEY_ID":      "coursehub-e2e",
		"AUTH_CLIENT_BASE_URL": "https://coursehub.test",
		"MAIL_PROVIDER":        "log",

		"RATELIMIT_STRICT_REQUESTS":   "1000",
		"RATELIMIT_STRICT_WINDOW":     "1m",
		"RATELIMIT_STRICT_BURST":      "1000",
		"RATELIMIT_MODERATE_REQUESTS": "1000",
		"RATELIMIT_MODERATE_WINDOW":   "1m",
		"RATELIMIT_MODERATE_BURST":    "1000",
	}
}

// setupAuthContainer starts the auth service in a container. overrides are
// merged over defaultEnv; an empty value removes the variable. The container
// joins any given docker networks.
func setupAuthContainer(t *testing.T, overrides map[string]string, networks ...string) *authEnv {
	t.Helper()
	ctx := context.Background()

	envVars := defaultEnv()
	for k, v := range overrides {
		if v == "" {
			delete(envVars, k)
			continue
		}
		envVars[k] = v
	}

	req := testcontainers.ContainerRequest{
		Image:        testImageName,
		ExposedPorts: []string{"8080/tcp"},
		Env:          envVars,
		Networks:     networks,
		WaitingFor: wait.ForHTTP("/livez").
			WithPort("8080/tcp").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	terminateOnCleanup(t, container)

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	baseURL := fmt.Sprintf("http://%s:%s", host, mappedPort.Port())
	return &authEnv{
		container: container,
		baseURL:   baseURL,
		client:    authsdk.NewSDKClient(baseURL),
	}
}

func terminateOnCleanup(t *testing.T, c testcontainers.Container) {
	t.Helper()
	t.Cleanup(func() {
		if err := c.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})
}

// mailLink scans the container logs for the most recent email with tag sent
// to addr and returns the link it carries.
func (e *authEnv) mailLink(t *testing.T, addr, tag string) *url.URL {
	t.Helper()

	var link string
	require.Eventually(t, func() bool {
		rc, err := e.container.Logs(context.Background())
		if err != nil {
			return false
		}
		defer rc.Close()

		sc := bufio.NewScanner(rc)
		sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for sc.Scan() {
			line := sc.Text()
			if i := strings.IndexByte(line, '{'); i > 0 {
				line = line[i:]
			}

			var entry struct {
				To   string `json:"to"`
				Tag  string `json:"tag"`
				Text string `json:"text"`
			}
			if json.Unmarshal([]byte(line), &entry) != nil {
				continue
			}
			if entry.To != addr || entry.Tag != tag {
				continue
			}
			for _, l := range strings.Split(entry.Text, "\n") {
				if strings.HasPrefix(l, "http") {
					link = strings.TrimSpace(l)
				}
			}
		}
		return link != ""
	}, 10*time.Second, 200*time.Millisecond, "no %s email for %s", tag, addr)

	u, err := url.Parse(link)
	require.NoError(t, err)
	return u
}

// confirm follows the confirmation email for addr and returns the redirect.
func (e *authEnv) confirm(t *testing.T, addr string) *url.URL {
	t.Helper()

	link := e.mailLink(t, addr, "email-confirmation")
	q := link.Query()

	location, err := e.client.ConfirmEmail(t.Context(), q.Get("token"), q.Get("email"))
	require.NoError(t, err)

	u, err := url.Parse(location)
	require.NoError(t, err)
	require.Equal(t, "true", u.Query().Get("confirmed"))
	return u
}

// registerStudent registers and confirms a student and returns their email.
func (e *authEnv) registerStudent(t *testing.T, username string) string {
	t.Helper()

	email := username + "@example.com"
	resp, err := e.client.Register(t.Context(), authsdk.RegisterRequest{
		Username:        username,
		Email:           email,
		FullName:        "Test " + username,
		Password:        testPassword,
		ConfirmPassword: testPassword,
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.UserID)

	e.confirm(t, email)
	return email
}

// login signs in with a password and requires a session.
func (e *authEnv) login(t *testing.T, email, password string) (*authsdk.Session, *authsdk.LoginResponse) {
	t.Helper()

	session, resp, err := e.client.AuthenticateWithPassword(t.Context(), email, password)
	require.NoError(t, err)
	require.Equal(t, authsdk.LoginStatusSuccess, resp.Status)
	require.NotNil(t, session)
	return session, resp
}

// requireAPIError checks that err is an API error with the given code.
func requireAPIError(t *testing.T, err error, status int, code string) {
	t.Helper()

	var apiErr *authsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, status, apiErr.StatusCode)
	require.Equal(t, code, apiErr.Code)
}

// assertHealthy verifies a health check response is OK.
func assertHealthy(t *testing.T, health *authsdk.HealthResponse, err error) {
	t.Helper()
	require.NoError(t, err)
	require.NotNil(t, health)
	require.Equal(t, "ok", health.Status)
}
