package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/investtrack/backend/internal/infrastructure/auth"
	"github.com/investtrack/backend/internal/infrastructure/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "middleware-test-secret",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "investtrack-test",
	})
}

func newProtectedEngine(cfg JWTMiddlewareConfig) *gin.Engine {
	engine := gin.New()
	engine.Use(JWTAuthMiddlewareWithConfig(cfg))
	engine.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": GetJWTUserID(c),
			"email":   GetJWTEmail(c),
		})
	})
	engine.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return engine
}

func TestJWTMiddlewareMissingHeader(t *testing.T) {
	engine := newProtectedEngine(JWTMiddlewareConfig{JWTService: newTestJWTService()})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/protected", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTMiddlewareMalformedHeader(t *testing.T) {
	engine := newProtectedEngine(JWTMiddlewareConfig{JWTService: newTestJWTService()})

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTMiddlewareSkipPaths(t *testing.T) {
	engine := newProtectedEngine(JWTMiddlewareConfig{
		JWTService: newTestJWTService(),
		SkipPaths:  []string{"/health"},
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestJWTMiddlewareValidToken(t *testing.T) {
	jwtService := newTestJWTService()
	engine := newProtectedEngine(JWTMiddlewareConfig{JWTService: jwtService})

	userID := uuid.New()
	pair, err := jwtService.GenerateTokenPair(userID, "jane@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())
	assert.Contains(t, w.Body.String(), "jane@example.com")
}

func TestJWTMiddlewareRefreshTokenRejected(t *testing.T) {
	jwtService := newTestJWTService()
	engine := newProtectedEngine(JWTMiddlewareConfig{JWTService: jwtService})

	pair, err := jwtService.GenerateTokenPair(uuid.New(), "jane@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+pair.RefreshToken)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTMiddlewareRevokedToken(t *testing.T) {
	jwtService := newTestJWTService()
	blacklist := auth.NewInMemoryTokenBlacklist()
	engine := newProtectedEngine(JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
	})

	pair, err := jwtService.GenerateTokenPair(uuid.New(), "jane@example.com")
	require.NoError(t, err)

	claims, err := jwtService.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	require.NoError(t, blacklist.Revoke(t.Context(), claims.ID, time.Hour))

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "revoked")
}

func TestJWTMiddlewareOnErrorCallback(t *testing.T) {
	called := false
	engine := newProtectedEngine(JWTMiddlewareConfig{
		JWTService: newTestJWTService(),
		OnError: func(c *gin.Context, err error) {
			called = true
			c.AbortWithStatus(http.StatusTeapot)
		},
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/protected", nil))

	assert.True(t, called)
	assert.Equal(t, http.StatusTeapot, w.Code)
}
