// Package integration provides integration testing utilities for the InvestTrack backend.
package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	auditapp "github.com/investtrack/backend/internal/application/audit"
	catalogapp "github.com/investtrack/backend/internal/application/catalog"
	identityapp "github.com/investtrack/backend/internal/application/identity"
	portfolioapp "github.com/investtrack/backend/internal/application/portfolio"
	"github.com/investtrack/backend/internal/infrastructure/auth"
	"github.com/investtrack/backend/internal/infrastructure/config"
	"github.com/investtrack/backend/internal/infrastructure/persistence"
	"github.com/investtrack/backend/internal/interfaces/http/handler"
	"github.com/investtrack/backend/internal/interfaces/http/middleware"
	"github.com/investtrack/backend/internal/interfaces/http/router"
)

// TestServer wraps the test database and the full HTTP stack for API testing.
// The middleware chain mirrors the production server: request IDs, audit
// capture, and JWT authentication over the real PostgreSQL container.
type TestServer struct {
	DB     *TestDB
	Engine *gin.Engine
	JWT    *auth.JWTService
}

// NewTestServer wires repositories, services, and handlers against a fresh
// PostgreSQL container.
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	gin.SetMode(gin.TestMode)
	testDB := NewTestDB(t)
	log := zap.NewNop()

	userRepo := persistence.NewGormUserRepository(testDB.DB)
	productRepo := persistence.NewGormProductRepository(testDB.DB)
	investmentRepo := persistence.NewGormInvestmentRepository(testDB.DB)
	logRepo := persistence.NewGormTransactionLogRepository(testDB.DB)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "integration-test-secret-key-000000",
		RefreshSecret:          "integration-test-refresh-key-0000",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "investtrack-test",
	})
	blacklist := auth.NewInMemoryTokenBlacklist()

	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, log)
	userService := identityapp.NewUserService(userRepo)
	productService := catalogapp.NewProductService(productRepo, userRepo, investmentRepo)
	investmentService := portfolioapp.NewInvestmentService(investmentRepo, productRepo, userRepo)
	logService := auditapp.NewLogService(logRepo, log)

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(middleware.AuditWithConfig(middleware.AuditConfig{
		LogService: logService,
	}))

	jwtCfg := middleware.DefaultJWTConfig(jwtService)
	jwtCfg.TokenBlacklist = blacklist
	engine.Use(middleware.JWTAuthMiddlewareWithConfig(jwtCfg))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(handler.NewAuthHandler(authService, userService)).
		Register(handler.NewProductHandler(productService)).
		Register(handler.NewInvestmentHandler(investmentService)).
		Register(handler.NewLogHandler(logService))
	r.Setup()

	return &TestServer{
		DB:     testDB,
		Engine: engine,
		JWT:    jwtService,
	}
}

// Request makes an HTTP request to the test server. An optional bearer token
// is attached as the Authorization header.
func (ts *TestServer) Request(method, path string, body interface{}, token ...string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBody)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if len(token) > 0 && token[0] != "" {
		req.Header.Set("Authorization", "Bearer "+token[0])
	}

	w := httptest.NewRecorder()
	ts.Engine.ServeHTTP(w, req)
	return w
}

// apiEnvelope mirrors the JSON response envelope returned by every endpoint.
type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// decodeResponse unmarshals the envelope and its data payload into out.
func decodeResponse(t *testing.T, w *httptest.ResponseRecorder, out interface{}) apiEnvelope {
	t.Helper()

	var envelope apiEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope), "Failed to decode response: %s", w.Body.String())

	if out != nil && envelope.Data != nil {
		require.NoError(t, json.Unmarshal(envelope.Data, out), "Failed to decode data payload: %s", string(envelope.Data))
	}

	return envelope
}

// signupAndLogin registers a user through the API and returns the user ID and
// access token.
func (ts *TestServer) signupAndLogin(t *testing.T, email, password, riskAppetite string) (string, string) {
	t.Helper()

	w := ts.Request(http.MethodPost, "/api/v1/auth/signup", map[string]interface{}{
		"first_name":    "Test",
		"last_name":     "Investor",
		"email":         email,
		"password":      password,
		"risk_appetite": riskAppetite,
	})
	require.Equal(t, http.StatusCreated, w.Code, "Signup failed: %s", w.Body.String())

	w = ts.Request(http.MethodPost, "/api/v1/auth/login", map[string]interface{}{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, w.Code, "Login failed: %s", w.Body.String())

	var resp struct {
		User struct {
			ID string `json:"id"`
		} `json:"user"`
		Tokens struct {
			AccessToken  string `json:"access_token"`
			RefreshToken string `json:"refresh_token"`
		} `json:"tokens"`
	}
	decodeResponse(t, w, &resp)
	require.NotEmpty(t, resp.Tokens.AccessToken)

	return resp.User.ID, resp.Tokens.AccessToken
}
