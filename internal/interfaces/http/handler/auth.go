package handler

import (
	"context"
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	appidentity "github.com/shopsight/backend/internal/application/identity"
	"github.com/shopsight/backend/internal/domain/identity"
	"github.com/shopsight/backend/internal/interfaces/http/dto"
	"github.com/shopsight/backend/internal/interfaces/http/middleware"
)

// AuthService is the part of the identity service the auth routes need
type AuthService interface {
	Register(ctx context.Context, input appidentity.RegisterInput) (*identity.User, error)
	Login(ctx context.Context, input appidentity.LoginInput) (*appidentity.LoginResult, error)
}

// AuthHandler handles registration and login
type AuthHandler struct {
	BaseHandler
	authService AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleBindError(c, err, appidentity.ErrRegistrationFieldsRequired)
		return
	}

	user, err := h.authService.Register(c.Request.Context(), appidentity.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		TenantID: req.TenantID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, dto.RegisterResponse{
		Message: "User registered successfully",
		UserID:  user.ID.String(),
	})
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleBindError(c, err, appidentity.ErrLoginFieldsRequired)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), appidentity.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.LoginResponse{
		Token:     result.Token,
		TokenType: "Bearer",
		ExpiresIn: int64(result.ExpiresIn.Seconds()),
	})
}

// handleBindError reports missing fields (and an empty body) with the
// route's required-fields message; malformed JSON is a plain bad request
func (h *AuthHandler) handleBindError(c *gin.Context, err error, missing error) {
	if middleware.InvalidFields(err) != nil || errors.Is(err, io.EOF) {
		h.HandleError(c, missing)
		return
	}
	h.BadRequest(c, "Invalid request body")
}
