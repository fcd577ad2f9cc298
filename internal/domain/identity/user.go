package identity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/shopsight/backend/internal/domain/shared"
)

// Password cost for bcrypt
const bcryptCost = 10

const (
	maxNameLength     = 100
	maxEmailLength    = 255
	maxPasswordLength = 72 // bcrypt ignores anything longer
)

var (
	ErrNameRequired     = shared.NewDomainError("INVALID_NAME", "Name is required")
	ErrNameTooLong      = shared.NewDomainError("INVALID_NAME", "Name cannot exceed 100 characters")
	ErrEmailRequired    = shared.NewDomainError("INVALID_EMAIL", "Email is required")
	ErrEmailTooLong     = shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 255 characters")
	ErrPasswordRequired = shared.NewDomainError("INVALID_PASSWORD", "Password is required")
	ErrPasswordTooLong  = shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 bytes")
	ErrTenantRequired   = shared.NewDomainError("INVALID_TENANT", "Tenant ID is required")
)

// User is a dashboard user belonging to one tenant
type User struct {
	ID           uuid.UUID
	TenantID     uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser creates a user with a bcrypt-hashed password
func NewUser(tenantID uuid.UUID, name, email, password string) (*User, error) {
	if tenantID == uuid.Nil {
		return nil, ErrTenantRequired
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if len(name) > maxNameLength {
		return nil, ErrNameTooLong
	}
	email = NormalizeEmail(email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	if len(email) > maxEmailLength {
		return nil, ErrEmailTooLong
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}
	if len(password) > maxPasswordLength {
		return nil, ErrPasswordTooLong
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	now := time.Now().UTC()
	return &User{
		ID:           uuid.New(),
		TenantID:     tenantID,
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// VerifyPassword checks if the provided password matches the stored hash
func (u *User) VerifyPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// NormalizeEmail lower-cases and trims an email address for storage and lookup
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
