// Package testutil wires the full HTTP stack on an in-memory SQLite database
// for handler tests.
package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-manager/internal/audit"
	"github.com/BruksfildServices01/salon-manager/internal/config"
	dbpkg "github.com/BruksfildServices01/salon-manager/internal/db"
	"github.com/BruksfildServices01/salon-manager/internal/models"
	"github.com/BruksfildServices01/salon-manager/internal/password"
	"github.com/BruksfildServices01/salon-manager/internal/routes"
	"github.com/BruksfildServices01/salon-manager/internal/throttle"
	"github.com/BruksfildServices01/salon-manager/internal/token"
)

const (
	Secret   = "test-secret"
	Password = "secret123"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// Config returns the defaults pointed at an in-memory database.
func Config() *config.Config {
	cfg := config.Default()
	cfg.DBDriver = dbpkg.DriverSQLite
	cfg.DBUrl = ":memory:"
	cfg.JWTSecret = Secret
	cfg.Timezone = "UTC"
	return cfg
}

// NewDB opens and migrates a private in-memory database.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := dbpkg.Open(Config())
	require.NoError(t, err)
	require.NoError(t, dbpkg.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

type Env struct {
	DB     *gorm.DB
	Config *config.Config
	Tokens *token.Service
	Hasher password.Hasher
	Audit  *audit.Dispatcher
	Router *gin.Engine
}

type Option func(*routes.Deps)

func WithLimiter(l throttle.Limiter) Option {
	return func(d *routes.Deps) { d.Limiter = l }
}

func WithConfig(mutate func(*config.Config)) Option {
	return func(d *routes.Deps) { mutate(d.Config) }
}

func WithDB(db *gorm.DB) Option {
	return func(d *routes.Deps) { d.DB = db }
}

// NewEnv builds the router exactly as serve does, on a fresh database.
func NewEnv(t *testing.T, opts ...Option) *Env {
	t.Helper()

	deps := routes.Deps{
		Config:  Config(),
		Hasher:  password.BcryptHasher{Cost: 4},
		Limiter: throttle.Noop{},
	}
	for _, opt := range opts {
		opt(&deps)
	}
	if deps.DB == nil {
		deps.DB = NewDB(t)
	}
	deps.Tokens = token.NewService(deps.Config.JWTSecret, deps.Config.TokenTTL)
	deps.Audit = audit.NewDispatcher(audit.New(deps.DB))

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = deps.Audit.Close(ctx)
	})

	r := gin.New()
	routes.RegisterRoutes(r, deps)

	return &Env{
		DB:     deps.DB,
		Config: deps.Config,
		Tokens: deps.Tokens,
		Hasher: deps.Hasher,
		Audit:  deps.Audit,
		Router: r,
	}
}

// --------- Fixtures ---------

// User inserts an active account with Password as its password.
func (e *Env) User(t *testing.T, username, role string) *models.User {
	t.Helper()

	hash, err := e.Hasher.Hash(Password)
	require.NoError(t, err)

	var n int64
	require.NoError(t, e.DB.Model(&models.User{}).Count(&n).Error)

	u := &models.User{
		Name:         username,
		Username:     username,
		PasswordHash: hash,
		Phone:        fmt.Sprintf("555%04d", n+1),
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, e.DB.Create(u).Error)
	return u
}

func (e *Env) Token(t *testing.T, u *models.User) string {
	t.Helper()

	tok, err := e.Tokens.Generate(u)
	require.NoError(t, err)
	return tok
}

func (e *Env) Client(t *testing.T, owner *models.User, name string) *models.Client {
	t.Helper()

	cl := &models.Client{OwnerID: owner.ID, Name: name, Phone: "555"}
	require.NoError(t, e.DB.Create(cl).Error)
	return cl
}

func (e *Env) Service(t *testing.T, owner *models.User, name string) *models.Service {
	t.Helper()

	s := &models.Service{OwnerID: owner.ID, Name: name, Price: 10, DurationMinutes: 30, IsActive: true}
	require.NoError(t, e.DB.Create(s).Error)
	return s
}

func (e *Env) Employee(t *testing.T, owner *models.User, name string) *models.Employee {
	t.Helper()

	emp := &models.Employee{Name: name, IsActive: true}
	if owner != nil {
		emp.OwnerID = &owner.ID
	}
	require.NoError(t, e.DB.Create(emp).Error)
	return emp
}

// --------- Requests ---------

// Do sends body as JSON. An empty tok sends no Authorization header.
func (e *Env) Do(t *testing.T, method, path, tok string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	w := httptest.NewRecorder()
	e.Router.ServeHTTP(w, req)
	return w
}

// JSON decodes a response body into a generic map.
func JSON(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

// Code returns the error_code of an error envelope.
func Code(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	code, _ := JSON(t, w)["error_code"].(string)
	return code
}
