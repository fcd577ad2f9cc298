package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopsight/backend/internal/infrastructure/auth"
	"github.com/shopsight/backend/internal/infrastructure/logger"
	"github.com/shopsight/backend/internal/interfaces/http/dto"
)

// JWT context keys
const (
	JWTClaimsKey   = "jwt_claims"
	JWTUserIDKey   = "jwt_user_id"
	JWTTenantIDKey = "jwt_tenant_id"
	// TenantIDKey is read by the access log
	TenantIDKey   = "tenant_id"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// JWTAuth rejects requests without a valid bearer token. A missing token
// yields 401; a token that fails verification yields 403.
func JWTAuth(jwtService *auth.JWTService, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		tokenString := bearerToken(c.GetHeader(AuthHeaderKey))
		if tokenString == "" {
			abortAuth(c, log, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Access token required", nil)
			return
		}

		claims, err := jwtService.ValidateToken(tokenString)
		if err != nil {
			code, message := dto.ErrCodeTokenInvalid, "Invalid token"
			if errors.Is(err, auth.ErrExpiredToken) {
				code, message = dto.ErrCodeTokenExpired, "Token has expired"
			}
			abortAuth(c, log, http.StatusForbidden, code, message, err)
			return
		}
		if _, err := claims.GetTenantUUID(); err != nil {
			abortAuth(c, log, http.StatusForbidden, dto.ErrCodeTokenInvalid, "Invalid token", err)
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(JWTUserIDKey, claims.UserID)
		c.Set(JWTTenantIDKey, claims.TenantID)
		c.Set(TenantIDKey, claims.TenantID)

		ctx := c.Request.Context()
		ctx, _ = logger.WithTenantID(ctx, logger.FromContext(ctx, log), claims.TenantID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// bearerToken returns the credential after the scheme, or "" when absent
func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	_, token, found := strings.Cut(header, " ")
	if !found {
		return ""
	}
	return strings.TrimSpace(token)
}

func abortAuth(c *gin.Context, log *zap.Logger, status int, code, message string, err error) {
	fields := []zap.Field{
		zap.String("code", code),
		zap.String("path", c.Request.URL.Path),
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	log.Warn("JWT authentication failed", fields...)

	c.AbortWithStatusJSON(status, dto.NewErrorResponse(code, message, c.GetString(RequestIDKey)))
}

// GetJWTClaims retrieves JWT claims from gin.Context
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if claims, exists := c.Get(JWTClaimsKey); exists {
		if jwtClaims, ok := claims.(*auth.Claims); ok {
			return jwtClaims
		}
	}
	return nil
}

// GetJWTTenantID returns the authenticated tenant, or uuid.Nil when the
// request did not pass JWTAuth
func GetJWTTenantID(c *gin.Context) uuid.UUID {
	claims := GetJWTClaims(c)
	if claims == nil {
		return uuid.Nil
	}
	id, err := claims.GetTenantUUID()
	if err != nil {
		return uuid.Nil
	}
	return id
}
