//go:build integration

package router_test

// End-to-end tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./internal/router/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"stockpilot/internal/config"
	"stockpilot/internal/dto"
	"stockpilot/internal/infra"
	"stockpilot/internal/router"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	client := srv.Client()
	client.CheckRedirect = func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }
	resp, err := client.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	token  string // admin session token
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("stockpilot_test"),
		tcPostgres.WithUsername("stockpilot"),
		tcPostgres.WithPassword("stockpilot"),
		testcontainers.WithWaitStrategy(
			tcPostgres.BasicWaitStrategies()...,
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:               8000,
		Env:                "test",
		JWTSecret:          "test-secret-key",
		JWTExpirationHours: 8,
		DatabaseURL:        pgURL,
		RedisURL:           rdURL,
		WorkerPoolSize:     1,
		LowStockThreshold:  10,
		ReportDays:         30,
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)
	require.NoError(t, infra.Seed(db))

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	srv := httptest.NewServer(router.New(cfg, db, rdb, nil))
	t.Cleanup(srv.Close)

	return &testEnv{server: srv, token: login(t, srv, "admin", "admin123")}
}

func login(t *testing.T, srv *httptest.Server, username, password string) string {
	t.Helper()
	resp := do(t, srv, "POST", "/login",
		jsonBody(t, map[string]string{"username": username, "password": password}), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body dto.LoginResponse
	decodeJSON(t, resp, &body)
	require.NotEmpty(t, body.AccessToken)
	return body.AccessToken
}

func findProduct(t *testing.T, env *testEnv, name string) dto.ProductResponse {
	t.Helper()
	resp := do(t, env.server, "GET", "/api/products", nil, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var products []dto.ProductResponse
	decodeJSON(t, resp, &products)
	for _, p := range products {
		if p.Name == name {
			return p
		}
	}
	t.Fatalf("seeded product %q not found", name)
	return dto.ProductResponse{}
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_FullPurchaseCycle(t *testing.T) {
	env := setupTestEnv(t)
	pencil := findProduct(t, env, "Pencil")
	require.Equal(t, 90, pencil.Quantity)

	resp := do(t, env.server, "POST", "/api/purchase",
		jsonBody(t, map[string]any{"product_id": pencil.ID, "quantity": 5}), env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var result dto.PurchaseResult
	decodeJSON(t, resp, &result)
	require.True(t, result.Success)
	assert.Equal(t, "Sale completed successfully", result.Message)
	assert.Equal(t, "10", result.Sale.TotalAmount.String())

	// Stock decremented.
	assert.Equal(t, 85, findProduct(t, env, "Pencil").Quantity)

	// The sale shows up in history.
	resp = do(t, env.server, "GET", "/api/sales", nil, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var sales []dto.SaleResponse
	decodeJSON(t, resp, &sales)
	require.Len(t, sales, 1)
	assert.Equal(t, "Pencil", sales[0].Product)

	// And in the admin report.
	resp = do(t, env.server, "GET", "/api/admin/report", nil, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var report dto.SalesReport
	decodeJSON(t, resp, &report)
	assert.Equal(t, 1, report.TotalTransactions)
	assert.Equal(t, "10", report.TotalRevenue.String())
}

func TestE2E_InsufficientStockLeavesStateIntact(t *testing.T) {
	env := setupTestEnv(t)
	ruler := findProduct(t, env, "Ruler")
	require.Equal(t, 68, ruler.Quantity)

	resp := do(t, env.server, "POST", "/api/purchase",
		jsonBody(t, map[string]any{"product_id": ruler.ID, "quantity": 1000}), env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var result dto.PurchaseResult
	decodeJSON(t, resp, &result)
	assert.False(t, result.Success)
	assert.Equal(t, "Insufficient stock. Available: 68", result.Message)

	assert.Equal(t, 68, findProduct(t, env, "Ruler").Quantity)

	resp = do(t, env.server, "GET", "/api/sales", nil, env.token)
	var sales []dto.SaleResponse
	decodeJSON(t, resp, &sales)
	assert.Empty(t, sales)
}

func TestE2E_AdminProductLifecycle(t *testing.T) {
	env := setupTestEnv(t)

	resp := do(t, env.server, "POST", "/api/admin/products",
		jsonBody(t, map[string]any{"name": "Stapler", "price": "25.50", "quantity": 40}), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		Success bool                `json:"success"`
		Product dto.ProductResponse `json:"product"`
	}
	decodeJSON(t, resp, &created)
	require.True(t, created.Success)

	resp = do(t, env.server, "PUT", fmt.Sprintf("/api/admin/products/%s", created.Product.ID),
		jsonBody(t, map[string]any{"price": "30.00"}), env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated dto.ProductResponse
	decodeJSON(t, resp, &updated)
	assert.Equal(t, "30", updated.Price.String())
	assert.Equal(t, 40, updated.Quantity)

	resp = do(t, env.server, "DELETE", fmt.Sprintf("/api/admin/products/%s", created.Product.ID), nil, env.token)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, env.server, "DELETE", fmt.Sprintf("/api/admin/products/%s", created.Product.ID), nil, env.token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestE2E_RoleGate(t *testing.T) {
	env := setupTestEnv(t)

	resp := do(t, env.server, "POST", "/api/admin/users",
		jsonBody(t, map[string]any{
			"username": "shopper",
			"email":    "shopper@example.com",
			"phone":    "5551234567",
			"password": "shopper1",
		}), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	userToken := login(t, env.server, "shopper", "shopper1")

	// Catalog reads are allowed.
	resp = do(t, env.server, "GET", "/api/products", nil, userToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Admin writes are not.
	resp = do(t, env.server, "POST", "/api/admin/products",
		jsonBody(t, map[string]any{"name": "Nope", "price": "1.00", "quantity": 1}), userToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = do(t, env.server, "GET", "/api/admin/report", nil, userToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestE2E_LogoutRevokesToken(t *testing.T) {
	env := setupTestEnv(t)

	resp := do(t, env.server, "GET", "/api/products", nil, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, env.server, "GET", "/logout", nil, env.token)
	require.Equal(t, http.StatusFound, resp.StatusCode)

	// Revoked jti is rejected even though the token has not expired.
	resp = do(t, env.server, "GET", "/api/products", nil, env.token)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
