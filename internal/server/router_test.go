package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go-pos-inventory/internal/auth"
	"go-pos-inventory/internal/filestore"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T, withAuth bool, webDir string) *gin.Engine {
	t.Helper()
	s, err := filestore.Open(filepath.Join(t.TempDir(), "db.json"), zap.NewNop())
	require.NoError(t, err)

	opts := Options{
		Store:             s,
		LowStockThreshold: 20,
		AllowedOrigins:    []string{"http://localhost:5173"},
		WebDir:            webDir,
	}
	if withAuth {
		accounts, err := auth.NewAccounts("admin", "admin-pass", "till", "till-pass")
		require.NoError(t, err)
		opts.Issuer = auth.NewTokenIssuer("test-secret", time.Hour)
		opts.Accounts = accounts
	}
	return NewRouter(opts)
}

func request(r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, r http.Handler, user, pass string) string {
	t.Helper()
	w := request(r, http.MethodPost, "/api/auth/login", "", gin.H{"username": user, "password": pass})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var out struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t, false, "")

	w := request(r, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"online","store":"file"}`, w.Body.String())
}

func TestOpenRoutesWithoutAuth(t *testing.T) {
	r := newTestRouter(t, false, "")

	assert.Equal(t, http.StatusOK, request(r, http.MethodGet, "/api/products", "", nil).Code)
	assert.Equal(t, http.StatusOK, request(r, http.MethodGet, "/api/reports/stock", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, request(r, http.MethodPost, "/api/auth/login", "", gin.H{"username": "a", "password": "b"}).Code)
	assert.Equal(t, http.StatusServiceUnavailable, request(r, http.MethodPost, "/api/assistant", "", gin.H{"message": "hi"}).Code)
}

func TestRoleEnforcement(t *testing.T) {
	r := newTestRouter(t, true, "")

	assert.Equal(t, http.StatusUnauthorized, request(r, http.MethodGet, "/api/products", "", nil).Code)

	w := request(r, http.MethodPost, "/api/auth/login", "", gin.H{"username": "admin", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	cashier := login(t, r, "till", "till-pass")
	assert.Equal(t, http.StatusOK, request(r, http.MethodGet, "/api/products", cashier, nil).Code)
	assert.Equal(t, http.StatusOK, request(r, http.MethodGet, "/api/dashboard/stats", cashier, nil).Code)
	assert.Equal(t, http.StatusForbidden, request(r, http.MethodGet, "/api/reports/stock", cashier, nil).Code)

	product := gin.H{
		"stockCode": "R-1", "name": "Rice", "category": "Grocery",
		"buyingPrice": "1.00", "sellingPrice": "1.50", "quantity": 10,
	}
	assert.Equal(t, http.StatusForbidden, request(r, http.MethodPost, "/api/products", cashier, product).Code)

	admin := login(t, r, "admin", "admin-pass")
	assert.Equal(t, http.StatusCreated, request(r, http.MethodPost, "/api/products", admin, product).Code)
	assert.Equal(t, http.StatusOK, request(r, http.MethodGet, "/api/reports/stock", admin, nil).Code)
}

func TestSinglePageFallback(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>app</html>"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "assets"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "assets", "app.js"), []byte("console.log(1)"), 0o644))
	r := newTestRouter(t, false, dir)

	w := request(r, http.MethodGet, "/dashboard", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "app</html>")

	w = request(r, http.MethodGet, "/assets/app.js", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "console.log(1)", w.Body.String())

	w = request(r, http.MethodGet, "/api/unknown", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Route not found"}`, w.Body.String())
}
