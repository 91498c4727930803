//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lorekeep/lorekeep/internal/api/handlers"
	"github.com/lorekeep/lorekeep/internal/repository"
	"github.com/lorekeep/lorekeep/internal/server"
	"github.com/lorekeep/lorekeep/internal/service"
	"github.com/lorekeep/lorekeep/internal/testutil"
)

// E2ETestEnv holds all resources needed for E2E tests
type E2ETestEnv struct {
	T          *testing.T
	Ctx        context.Context
	PostgresC  *testutil.PostgresContainer
	Pool       *pgxpool.Pool
	Server     *httptest.Server
	HTTPClient *http.Client
}

// SetupE2EEnv starts a postgres container and an in-process API server wired
// against it.
func SetupE2EEnv(t *testing.T) *E2ETestEnv {
	ctx := context.Background()

	pgC := testutil.NewPostgresContainer(ctx, t)
	pool := testutil.NewTestPool(ctx, t, pgC, "../../migrations")

	nodeRepo := repository.NewNodeRepository(pool)
	txRunner := repository.NewTxRunner(pool)
	svc := service.NewNodeService(nodeRepo, txRunner)

	router := server.NewRouter(server.RouterConfig{
		NodeHandler: handlers.NewNodeHandler(svc),
	})

	srv := httptest.NewServer(router)

	return &E2ETestEnv{
		T:          t,
		Ctx:        ctx,
		PostgresC:  pgC,
		Pool:       pool,
		Server:     srv,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Cleanup tears down the server, pool, and container.
func (env *E2ETestEnv) Cleanup() {
	env.Server.Close()
	env.Pool.Close()
	if err := env.PostgresC.Terminate(env.Ctx); err != nil {
		env.T.Logf("failed to terminate postgres container: %v", err)
	}
}

// Get performs a GET request and returns the raw body.
func (env *E2ETestEnv) Get(path string) (int, []byte, error) {
	resp, err := env.HTTPClient.Get(env.Server.URL + path)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, body, nil
}

// Post performs a POST request with a JSON body and returns the raw response body.
func (env *E2ETestEnv) Post(path string, payload interface{}) (int, []byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to marshal payload: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	resp, err := env.HTTPClient.Post(env.Server.URL+path, "application/json", reqBody)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, body, nil
}

// CreateNode creates a node via the API and returns its id.
func (env *E2ETestEnv) CreateNode(parentID, nodeType, title string) string {
	status, body, err := env.Post("/api/create", map[string]string{
		"parentId": parentID,
		"title":    title,
		"type":     nodeType,
	})
	if err != nil {
		env.T.Fatalf("create request failed: %v", err)
	}
	if status != http.StatusOK {
		env.T.Fatalf("create returned %d: %s", status, body)
	}

	var resp struct {
		Node struct {
			ID string `json:"id"`
		} `json:"node"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		env.T.Fatalf("failed to parse create response: %v", err)
	}
	return resp.Node.ID
}
