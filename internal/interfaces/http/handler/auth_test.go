package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appidentity "github.com/shopsight/backend/internal/application/identity"
	"github.com/shopsight/backend/internal/domain/identity"
	"github.com/shopsight/backend/internal/interfaces/http/dto"
)

func newAuthRouter(svc *MockAuthService) *gin.Engine {
	h := NewAuthHandler(svc)
	r := gin.New()
	r.POST("/api/auth/register", h.Register)
	r.POST("/api/auth/login", h.Login)
	return r
}

func TestAuthHandler_Register(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc := new(MockAuthService)
		user := &identity.User{ID: uuid.New()}
		svc.On("Register", mock.Anything, appidentity.RegisterInput{
			Name: "Ada", Email: "ada@example.com", Password: "pw",
		}).Return(user, nil)

		w := performRequest(newAuthRouter(svc), http.MethodPost, "/api/auth/register",
			map[string]string{"name": "Ada", "email": "ada@example.com", "password": "pw"})

		require.Equal(t, http.StatusCreated, w.Code)
		var resp dto.RegisterResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, user.ID.String(), resp.UserID)
		assert.Equal(t, "User registered successfully", resp.Message)
	})

	t.Run("missing fields", func(t *testing.T) {
		svc := new(MockAuthService)
		r := newAuthRouter(svc)

		for _, body := range []any{
			map[string]string{"email": "ada@example.com", "password": "pw"},
			map[string]string{"name": " ", "email": "ada@example.com", "password": "pw"},
			"",
		} {
			w := performRequest(r, http.MethodPost, "/api/auth/register", body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			resp := decodeError(t, w)
			assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
			assert.Equal(t, "Name, email and password are required", resp.Error.Message)
		}
		svc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
	})

	t.Run("malformed body", func(t *testing.T) {
		w := performRequest(newAuthRouter(new(MockAuthService)), http.MethodPost, "/api/auth/register", "{not json")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeBadRequest, decodeError(t, w).Error.Code)
	})

	t.Run("email exists", func(t *testing.T) {
		svc := new(MockAuthService)
		svc.On("Register", mock.Anything, mock.Anything).Return(nil, appidentity.ErrEmailExists)

		w := performRequest(newAuthRouter(svc), http.MethodPost, "/api/auth/register",
			map[string]string{"name": "Ada", "email": "ada@example.com", "password": "pw"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Email already exists", decodeError(t, w).Error.Message)
	})

	t.Run("server error", func(t *testing.T) {
		svc := new(MockAuthService)
		svc.On("Register", mock.Anything, mock.Anything).Return(nil, appidentity.ErrInternal)

		w := performRequest(newAuthRouter(svc), http.MethodPost, "/api/auth/register",
			map[string]string{"name": "Ada", "email": "ada@example.com", "password": "pw"})

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Server error", decodeError(t, w).Error.Message)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("returns token", func(t *testing.T) {
		svc := new(MockAuthService)
		svc.On("Login", mock.Anything, appidentity.LoginInput{Email: "ada@example.com", Password: "pw"}).
			Return(&appidentity.LoginResult{Token: "signed.jwt.value", ExpiresIn: time.Hour}, nil)

		w := performRequest(newAuthRouter(svc), http.MethodPost, "/api/auth/login",
			map[string]string{"email": "ada@example.com", "password": "pw"})

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"token":"signed.jwt.value","token_type":"Bearer","expires_in":3600}`, w.Body.String())
	})

	t.Run("missing fields", func(t *testing.T) {
		svc := new(MockAuthService)
		w := performRequest(newAuthRouter(svc), http.MethodPost, "/api/auth/login", map[string]string{})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Email and password are required", decodeError(t, w).Error.Message)
	})

	tests := []struct {
		name string
		err  error
		code string
	}{
		{"unknown user", appidentity.ErrUserNotFound, dto.ErrCodeUserNotFound},
		{"wrong password", appidentity.ErrInvalidCredentials, dto.ErrCodeInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockAuthService)
			svc.On("Login", mock.Anything, mock.Anything).Return(nil, tt.err)

			w := performRequest(newAuthRouter(svc), http.MethodPost, "/api/auth/login",
				map[string]string{"email": "ada@example.com", "password": "nope"})

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, tt.code, decodeError(t, w).Error.Code)
		})
	}

	t.Run("unexpected error is generic", func(t *testing.T) {
		svc := new(MockAuthService)
		svc.On("Login", mock.Anything, mock.Anything).Return(nil, errors.New("pq: connection refused"))

		w := performRequest(newAuthRouter(svc), http.MethodPost, "/api/auth/login",
			map[string]string{"email": "ada@example.com", "password": "pw"})

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "pq:")
	})
}
