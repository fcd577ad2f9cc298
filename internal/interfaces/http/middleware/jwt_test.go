package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shopsight/backend/internal/infrastructure/auth"
	"github.com/shopsight/backend/internal/infrastructure/config"
	"github.com/shopsight/backend/internal/interfaces/http/dto"
)

func newJWTService(expiration time.Duration) *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:     "middleware-test-secret-0123456789",
		Expiration: expiration,
		Issuer:     "shopsight",
	})
}

func newJWTRouter(svc *auth.JWTService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), JWTAuth(svc, zap.NewNop()))
	r.GET("/api/dashboard/summary", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"tenant":     GetJWTTenantID(c).String(),
			"log_tenant": c.GetString(TenantIDKey),
		})
	})
	return r
}

func doAuth(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/summary", nil)
	if header != "" {
		req.Header.Set(AuthHeaderKey, header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestJWTAuth_ValidToken(t *testing.T) {
	svc := newJWTService(time.Hour)
	tenantID := uuid.New()
	token, _, err := svc.GenerateToken(auth.GenerateTokenInput{TenantID: tenantID, UserID: uuid.New(), Email: "a@b.co"})
	require.NoError(t, err)

	w := doAuth(newJWTRouter(svc), BearerPrefix+token)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, tenantID.String(), body["tenant"])
	assert.Equal(t, tenantID.String(), body["log_tenant"])
}

func TestJWTAuth_MissingToken(t *testing.T) {
	r := newJWTRouter(newJWTService(time.Hour))

	for _, header := range []string{"", "Bearer", "Bearer   "} {
		w := doAuth(r, header)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
		resp := decodeError(t, w)
		assert.False(t, resp.Success)
		assert.Equal(t, dto.ErrCodeUnauthorized, resp.Error.Code)
		assert.NotEmpty(t, resp.RequestID)
	}
}

func TestJWTAuth_InvalidToken(t *testing.T) {
	r := newJWTRouter(newJWTService(time.Hour))

	w := doAuth(r, "Bearer not-a-jwt")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, dto.ErrCodeTokenInvalid, decodeError(t, w).Error.Code)

	other := newJWTService(time.Hour)
	otherRouter := newJWTRouter(auth.NewJWTService(config.JWTConfig{
		Secret: "a-completely-different-secret-value", Expiration: time.Hour, Issuer: "shopsight",
	}))
	token, _, err := other.GenerateToken(auth.GenerateTokenInput{TenantID: uuid.New(), UserID: uuid.New()})
	require.NoError(t, err)
	w = doAuth(otherRouter, BearerPrefix+token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestJWTAuth_ExpiredToken(t *testing.T) {
	svc := newJWTService(-time.Minute)
	token, _, err := svc.GenerateToken(auth.GenerateTokenInput{TenantID: uuid.New(), UserID: uuid.New()})
	require.NoError(t, err)

	w := doAuth(newJWTRouter(svc), BearerPrefix+token)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, dto.ErrCodeTokenExpired, decodeError(t, w).Error.Code)
}

func TestGetJWTTenantID_Unauthenticated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, uuid.Nil, GetJWTTenantID(c))
	assert.Nil(t, GetJWTClaims(c))
}
