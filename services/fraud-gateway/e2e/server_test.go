package e2e_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nimeshabuddhika/konduto-go/pkg"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	testAPIKey = "T738D516F09CAB3A2C1EE"
	testAESKey = "MDEyMzQ1Njc4OWFiY2RlZjAxMjM0NTY3ODlhYmNkZWY="
)

type apiResponse struct {
	TraceID string         `json:"traceId"`
	Data    map[string]any `json:"data"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	TraceID string `json:"traceId"`
}

// startPostgres runs a disposable PostgreSQL container and returns its DSN without
// the `postgres://` prefix, which the gateway adds itself.
func startPostgres(t *testing.T) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	const (
		user     = "konduto"
		password = "konduto"
		dbName   = "fraud_gateway"
	)

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     user,
			"POSTGRES_PASSWORD": password,
			"POSTGRES_DB":       dbName,
		},
		WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("failed to start postgres test container: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		_ = pgC.Terminate(ctx)
	})

	host, err := pgC.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get postgres host: %v", err)
	}
	port, err := pgC.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("failed to get mapped port: %v", err)
	}
	return fmt.Sprintf("%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port.Port(), dbName)
}

// startFakeKonduto scores every order with a fixed recommendation.
func startFakeKonduto(t *testing.T) string {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/v1/orders", func(c *gin.Context) {
		if user, _, _ := c.Request.BasicAuth(); user != testAPIKey {
			c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "invalid api key"})
			return
		}
		var order map[string]any
		if err := c.ShouldBindJSON(&order); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
			return
		}
		order["score"] = 0.64
		order["recommendation"] = "review"
		order["status"] = "pending"
		c.JSON(http.StatusOK, gin.H{"status": "ok", "order": order})
	})
	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server.URL + "/v1"
}

// startGateway runs `go run ./services/fraud-gateway/cmd` on a free port against kondutoURL
// and the database at dsn. It returns the base URL; the process is killed on test cleanup.
func startGateway(t *testing.T, kondutoURL, dsn string) string {
	t.Helper()

	port, err := getFreePort()
	if err != nil {
		t.Fatalf("failed to get free port: %v", err)
	}

	cmd := exec.Command("go", "run", "./services/fraud-gateway/cmd")
	if repoRoot := findRepoRoot(); repoRoot != "" {
		cmd.Dir = repoRoot
	}
	cmd.Env = append(os.Environ(),
		fmt.Sprintf("APP_PORT=%d", port),
		"APP_KONDUTO_ENDPOINT="+kondutoURL,
		"APP_KONDUTO_API_KEY="+testAPIKey,
		"APP_AES_KEY="+testAESKey,
		"APP_PRIMARY_DB_ADDR="+dsn,
		"APP_REDIS_ADDR=",
	)

	stderr, _ := cmd.StderrPipe()
	stdout, _ := cmd.StdoutPipe()
	if err := cmd.Start(); err != nil {
		t.Fatalf("failed to start fraud-gateway: %v", err)
	}
	go streamToTesting(t, stdout)
	go streamToTesting(t, stderr)

	baseURL := fmt.Sprintf("http://127.0.0.1:%d", port)
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second) // includes go build
	defer cancel()
	if err := waitForReady(ctx, baseURL+"/health"); err != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		t.Fatalf("fraud-gateway failed to become ready: %v", err)
	}

	t.Cleanup(func() {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
	})
	return baseURL
}

func doRequest(t *testing.T, method, url string, body []byte) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	t.Logf("Request %s %s", method, url)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request %s %s: %v", method, url, err)
	}
	t.Logf("Response %s %s: Status %d", method, url, resp.StatusCode)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, r io.Reader) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func getTraceID(resp *http.Response) string {
	return resp.Header.Get(pkg.HeaderTraceId)
}

func getFreePort() (int, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}

func waitForReady(ctx context.Context, url string) error {
	client := &http.Client{Timeout: 500 * time.Millisecond}
	for {
		if ctx.Err() != nil {
			return fmt.Errorf("timeout waiting for %s", url)
		}
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(150 * time.Millisecond)
	}
}

func streamToTesting(t *testing.T, r io.ReadCloser) {
	defer r.Close()
	s := bufio.NewScanner(r)
	for s.Scan() {
		if line := s.Text(); strings.TrimSpace(line) != "" {
			t.Log(line)
		}
	}
}

// findRepoRoot walks up from this file to the directory holding go.mod.
func findRepoRoot() string {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return ""
	}
	dir := filepath.Dir(file)
	for i := 0; i < 10; i++ {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		dir = filepath.Dir(dir)
	}
	return ""
}
