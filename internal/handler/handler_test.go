package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/GTDGit/offline_console/internal/cache"
	"github.com/GTDGit/offline_console/internal/config"
	"github.com/GTDGit/offline_console/internal/middleware"
	"github.com/GTDGit/offline_console/internal/service"
	"github.com/GTDGit/offline_console/internal/utils"
	"github.com/GTDGit/offline_console/pkg/offline"
)

const (
	testEmail    = "admin@example.com"
	testPassword = "secret-pass"
)

type memStore struct {
	mu   sync.Mutex
	data map[string]string
}

func (m *memStore) Set(_ context.Context, key, value string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (m *memStore) keys(prefix string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	return out
}

func (m *memStore) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

// upstream fakes the offline API.
type upstream struct {
	mu          sync.Mutex
	failDeletes bool
	failLists   bool
	deleted     []string
	statuses    map[string]string
	billings    []map[string]any
}

func (u *upstream) handler() http.Handler {
	mux := http.NewServeMux()
	writeJSON := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}
	products := []map[string]any{
		{"productId": "P1", "productName": "Banner", "category": "Direct Print", "type": "Flex", "SKU": []string{"AB12CD34:2"}},
		{"productId": "P2", "productName": "Poster", "category": "Other", "type": "Paper", "SKU": []string{}},
		{"productId": "P3", "productName": "Card", "category": "Other", "type": "Paper", "SKU": []string{}},
	}
	mux.HandleFunc("GET /offline/v1/inventory/list", func(w http.ResponseWriter, r *http.Request) {
		u.mu.Lock()
		defer u.mu.Unlock()
		if u.failLists {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"message": "down"})
			return
		}
		writeJSON(w, http.StatusOK, products)
	})
	mux.HandleFunc("GET /offline/v1/inventory/{id}", func(w http.ResponseWriter, r *http.Request) {
		for _, p := range products {
			if p["productId"] == r.PathValue("id") {
				writeJSON(w, http.StatusOK, []any{p})
				return
			}
		}
		writeJSON(w, http.StatusOK, []any{})
	})
	mux.HandleFunc("DELETE /offline/v1/inventory/product/delete", func(w http.ResponseWriter, r *http.Request) {
		if u.failDeletes {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "boom"})
			return
		}
		var ids []string
		_ = json.NewDecoder(r.Body).Decode(&ids)
		u.mu.Lock()
		u.deleted = append(u.deleted, ids...)
		u.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]string{"message": "Deleted"})
	})
	sku := map[string]any{"modelId": "AB12CD34", "color": "Red", "material": "Vinyl", "dimensions": "2x3", "ratePerUnit": 10, "units": 5}
	mux.HandleFunc("GET /offline/v1/inventory/sku/list", func(w http.ResponseWriter, r *http.Request) {
		u.mu.Lock()
		defer u.mu.Unlock()
		writeJSON(w, http.StatusOK, []any{sku})
	})
	mux.HandleFunc("GET /offline/v1/inventory/sku/{id}", func(w http.ResponseWriter, r *http.Request) {
		u.mu.Lock()
		defer u.mu.Unlock()
		if r.PathValue("id") != sku["modelId"] {
			writeJSON(w, http.StatusOK, []any{})
			return
		}
		writeJSON(w, http.StatusOK, []any{sku})
	})
	mux.HandleFunc("PUT /offline/v1/inventory/sku/update/{id}", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		u.mu.Lock()
		defer u.mu.Unlock()
		for k, v := range body {
			sku[k] = v
		}
		sku["modelId"] = r.PathValue("id")
		writeJSON(w, http.StatusCreated, []any{sku})
	})
	mux.HandleFunc("GET /offline/v1/billing/list", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{
			{"billingId": "B1", "billName": "Acme", "contactNo": "999", "status": "PENDING", "total": 100, "particulars": []any{}, "generatedAt": "2024-01-02T20:00:00Z"},
		})
	})
	mux.HandleFunc("GET /offline/v1/billing/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "B1" {
			writeJSON(w, http.StatusOK, []any{})
			return
		}
		writeJSON(w, http.StatusOK, []map[string]any{
			{"billingId": "B1", "billName": "Acme", "contactNo": "999", "status": "PENDING", "total": 100, "particulars": []any{}, "generatedAt": "2024-01-02T20:00:00Z"},
		})
	})
	mux.HandleFunc("POST /offline/v1/billing/create", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		u.mu.Lock()
		u.billings = append(u.billings, body)
		u.mu.Unlock()
		writeJSON(w, http.StatusCreated, map[string]string{"message": "Bill generated"})
	})
	mux.HandleFunc("PUT /offline/v1/billing/update/{id}", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Status string `json:"status"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		u.mu.Lock()
		u.statuses[r.PathValue("id")] = body.Status
		u.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]string{"message": "Updated"})
	})
	return mux
}

type testEnv struct {
	router   *gin.Engine
	upstream *upstream
	tokens   *utils.TokenIssuer
	limiter  *middleware.InvalidAuthRateLimiter
	store    *memStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	up := &upstream{statuses: map[string]string{}}
	srv := httptest.NewServer(up.handler())
	t.Cleanup(srv.Close)

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	store := &memStore{data: map[string]string{}}
	sessions := cache.NewSessionCache(store, time.Hour)
	tokens := utils.NewTokenIssuer("test-secret", time.Hour)
	activity := service.NewActivityService(nil)
	workspaces := service.NewWorkspaceRegistry(
		offline.NewClient(srv.URL, time.Second), nil, nil, activity, sessions,
		config.ScreenConfig{InventoryPageSize: 5, StocksPageSize: 10, BillingPageSize: 5},
		time.Hour,
	)
	limiter := middleware.NewInvalidAuthRateLimiter()
	authSvc := service.NewAuthService(config.AdminConfig{Email: testEmail, PasswordHash: string(hash)}, tokens, sessions)
	auth := NewAuthHandler(authSvc, workspaces, limiter)

	r := gin.New()
	api := r.Group("/console/v1")
	api.POST("/auth/login", middleware.LoginThrottle(limiter), auth.Login)
	authed := api.Group("")
	authed.Use(middleware.NewJWTMiddleware(tokens, authSvc, workspaces).Handle())
	authed.POST("/auth/logout", auth.Logout)
	prefs := NewPreferenceHandler(service.NewPreferenceService(sessions))
	authed.GET("/preferences/theme", prefs.GetTheme)
	authed.PUT("/preferences/theme", prefs.SetTheme)
	authed.GET("/activity", NewActivityHandler(activity).List)
	NewInventoryHandler(workspaces).Register(authed.Group("/inventory"))
	NewStocksHandler(workspaces).Register(authed.Group("/stocks"))
	NewBillingHandler(workspaces).Register(authed.Group("/billing"))

	return &testEnv{router: r, upstream: up, tokens: tokens, limiter: limiter, store: store}
}

type envelope struct {
	Success bool             `json:"success"`
	Code    int              `json:"code"`
	Message string           `json:"message"`
	Data    json.RawMessage  `json:"data"`
	Error   *utils.ErrorInfo `json:"error"`
	Meta    utils.Meta       `json:"meta"`

	Notifications []struct {
		Level   string `json:"level"`
		Title   string `json:"title"`
		Message string `json:"message"`
	} `json:"notifications"`
}

func (e *testEnv) token(t *testing.T, sessionID string) string {
	t.Helper()
	tok, _, err := e.tokens.Generate(testEmail, sessionID)
	require.NoError(t, err)
	return tok
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

type productView struct {
	Rows []struct {
		ProductID string `json:"productId"`
	} `json:"rows"`
	Total    int  `json:"total"`
	Filtered int  `json:"filtered"`
	Filler   int  `json:"filler"`
	Loaded   bool `json:"loaded"`
	State    struct {
		SortKey   string   `json:"sortKey"`
		Direction string   `json:"direction"`
		Page      int      `json:"page"`
		PageSize  int      `json:"pageSize"`
		Selected  []string `json:"selected"`
	} `json:"state"`
	AllSelected   bool `json:"allSelected"`
	DeleteConfirm struct {
		Open bool `json:"open"`
	} `json:"deleteConfirm"`
}

func decodeView(t *testing.T, env envelope) productView {
	t.Helper()
	var v productView
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

func rowIDs(v productView) []string {
	ids := make([]string, 0, len(v.Rows))
	for _, r := range v.Rows {
		ids = append(ids, r.ProductID)
	}
	return ids
}

func (e *testEnv) raw(t *testing.T, method, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}
