package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/models"
	"github.com/BruksfildServices01/salon-manager/internal/token"
)

const secret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(tokens *token.Service, extra ...gin.HandlerFunc) *gin.Engine {
	return newEngineWithDB(tokens, nil, extra...)
}

func newEngineWithDB(tokens *token.Service, db *gorm.DB, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), Recovery())
	r.NoRoute(NoRoute)

	chain := append([]gin.HandlerFunc{AuthMiddleware(tokens, db)}, extra...)
	chain = append(chain, func(c *gin.Context) {
		caller, _ := CallerFrom(c)
		c.JSON(http.StatusOK, gin.H{"id": caller.ID, "role": caller.Role})
	})
	r.GET("/private", chain...)
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	return r
}

func do(r http.Handler, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeErr(t *testing.T, w *httptest.ResponseRecorder) httperr.HTTPError {
	t.Helper()
	var body httperr.HTTPError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestAuthMiddleware(t *testing.T) {
	tokens := token.NewService(secret, time.Hour)
	user := &models.User{ID: 3, Username: "alice", Role: models.RoleUser}

	valid, err := tokens.Generate(user)
	require.NoError(t, err)

	expired, err := token.NewService(secret, -time.Minute).Generate(user)
	require.NoError(t, err)

	foreign, err := token.NewService("other-secret", time.Hour).Generate(user)
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"id": 3, "role": "admin"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	r := newEngine(tokens)

	tests := []struct {
		name   string
		auth   string
		status int
		code   string
	}{
		{"missing header", "", http.StatusUnauthorized, "missing_authorization_header"},
		{"not bearer", "Basic abc", http.StatusUnauthorized, "invalid_authorization_header"},
		{"empty bearer", "Bearer ", http.StatusUnauthorized, "invalid_authorization_header"},
		{"garbage", "Bearer not-a-token", http.StatusUnauthorized, "invalid_token"},
		{"expired", "Bearer " + expired, http.StatusUnauthorized, "invalid_token"},
		{"wrong secret", "Bearer " + foreign, http.StatusUnauthorized, "invalid_token"},
		{"alg none", "Bearer " + unsigned, http.StatusUnauthorized, "invalid_token"},
		{"valid", "Bearer " + valid, http.StatusOK, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := do(r, "/private", tc.auth)
			assert.Equal(t, tc.status, w.Code)
			if tc.code != "" {
				body := decodeErr(t, w)
				assert.Equal(t, tc.code, body.Code)
				assert.Equal(t, tc.status, body.Status)
			}
		})
	}
}

func TestAuthMiddlewareAccountState(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&models.User{}))

	active := &models.User{Name: "Alice", Username: "alice", PasswordHash: "x", Phone: "1001", Role: models.RoleUser, IsActive: true}
	retired := &models.User{Name: "Bob", Username: "bob", PasswordHash: "x", Phone: "1002", Role: models.RoleUser, IsActive: true}
	require.NoError(t, db.Create(active).Error)
	require.NoError(t, db.Create(retired).Error)
	require.NoError(t, db.Model(retired).Update("is_active", false).Error)

	tokens := token.NewService(secret, time.Hour)
	r := newEngineWithDB(tokens, db)

	sign := func(u *models.User) string {
		tok, err := tokens.Generate(u)
		require.NoError(t, err)
		return "Bearer " + tok
	}

	w := do(r, "/private", sign(active))
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, "/private", sign(retired))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "user_inactive", decodeErr(t, w).Code)

	w = do(r, "/private", sign(&models.User{ID: 99, Username: "ghost", Role: models.RoleUser}))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid_token", decodeErr(t, w).Code)
}

func TestRequireRole(t *testing.T) {
	tokens := token.NewService(secret, time.Hour)
	r := newEngine(tokens, RequireRole(models.RoleAdmin))

	userTok, err := tokens.Generate(&models.User{ID: 2, Username: "bob", Role: models.RoleUser})
	require.NoError(t, err)
	adminTok, err := tokens.Generate(&models.User{ID: 1, Username: "admin", Role: models.RoleAdmin})
	require.NoError(t, err)

	w := do(r, "/private", "Bearer "+userTok)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "forbidden", decodeErr(t, w).Code)

	w = do(r, "/private", "Bearer "+adminTok)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestIDEchoed(t *testing.T) {
	r := newEngine(token.NewService(secret, time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(HeaderRequestID))

	w = do(r, "/private", "")
	assert.Len(t, w.Header().Get(HeaderRequestID), 36)
}

func TestNoRouteAndRecovery(t *testing.T) {
	r := newEngine(token.NewService(secret, time.Hour))

	w := do(r, "/nowhere", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "route /nowhere not found", decodeErr(t, w).Message)

	w = do(r, "/panic", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal_error", decodeErr(t, w).Code)
}

func TestCORSPreflight(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}
