package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopsight/backend/internal/domain/commerce"
	"github.com/shopsight/backend/internal/domain/identity"
	"github.com/shopsight/backend/internal/domain/shared"
	"github.com/shopsight/backend/internal/infrastructure/auth"
	"github.com/shopsight/backend/internal/infrastructure/config"
)

// Errors surfaced to API callers
var (
	ErrRegistrationFieldsRequired = shared.NewDomainError("VALIDATION_ERROR", "Name, email and password are required")
	ErrLoginFieldsRequired        = shared.NewDomainError("VALIDATION_ERROR", "Email and password are required")
	ErrEmailExists                = shared.NewDomainError("EMAIL_EXISTS", "Email already exists")
	ErrUserNotFound               = shared.NewDomainError("USER_NOT_FOUND", "User not found")
	ErrInvalidCredentials         = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid credentials")
	ErrInternal                   = shared.NewDomainError("INTERNAL_ERROR", "Server error")
)

// RegisterInput contains the input for user registration
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	// TenantID is optional; unknown or empty values fall back to the default tenant.
	TenantID string
}

// LoginInput contains the input for user login
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	ExpiresIn time.Duration
	UserID    uuid.UUID
	TenantID  uuid.UUID
}

// AuthService registers dashboard users and issues access tokens
type AuthService struct {
	users         identity.UserRepository
	tenants       commerce.TenantRepository
	jwtService    *auth.JWTService
	defaultTenant uuid.UUID
	logger        *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	users identity.UserRepository,
	tenants commerce.TenantRepository,
	jwtService *auth.JWTService,
	defaultTenant uuid.UUID,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		users:         users,
		tenants:       tenants,
		jwtService:    jwtService,
		defaultTenant: defaultTenant,
		logger:        logger,
	}
}

// Register creates a user under the requested tenant, or the default tenant
// when the request names none or an unknown one
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*identity.User, error) {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Email) == "" || input.Password == "" {
		return nil, ErrRegistrationFieldsRequired
	}

	exists, err := s.users.ExistsByEmail(ctx, identity.NormalizeEmail(input.Email))
	if err != nil {
		s.logger.Error("Failed to check email uniqueness", zap.Error(err))
		return nil, ErrInternal
	}
	if exists {
		return nil, ErrEmailExists
	}

	tenantID := s.resolveTenant(ctx, input.TenantID)

	user, err := identity.NewUser(tenantID, input.Name, input.Email, input.Password)
	if err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, ErrEmailExists
		}
		s.logger.Error("Failed to create user", zap.Error(err))
		return nil, ErrInternal
	}

	s.logger.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("tenant_id", tenantID.String()))
	return user, nil
}

// Login verifies the credentials and returns a signed access token
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	if strings.TrimSpace(input.Email) == "" || input.Password == "" {
		return nil, ErrLoginFieldsRequired
	}

	user, err := s.users.FindByEmail(ctx, identity.NormalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Login for unknown email")
			return nil, ErrUserNotFound
		}
		s.logger.Error("Failed to load user", zap.Error(err))
		return nil, ErrInternal
	}

	if !user.VerifyPassword(input.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.jwtService.GenerateToken(auth.GenerateTokenInput{
		TenantID: user.TenantID,
		UserID:   user.ID,
		Email:    user.Email,
	})
	if err != nil {
		s.logger.Error("Failed to generate token", zap.Error(err))
		return nil, ErrInternal
	}

	s.logger.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("tenant_id", user.TenantID.String()))

	return &LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		ExpiresIn: s.jwtService.Expiration(),
		UserID:    user.ID,
		TenantID:  user.TenantID,
	}, nil
}

func (s *AuthService) resolveTenant(ctx context.Context, raw string) uuid.UUID {
	if strings.TrimSpace(raw) == "" {
		return s.defaultTenant
	}
	id := config.TenantUUID(raw)
	if _, err := s.tenants.FindByID(ctx, id); err != nil {
		s.logger.Debug("Unknown tenant on registration, using default", zap.String("tenant", raw))
		return s.defaultTenant
	}
	return id
}
