package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Error(t *testing.T) {
	err := NewDomainError("EMAIL_EXISTS", "Email already exists")
	assert.Equal(t, "Email already exists", err.Error())
	assert.Equal(t, "EMAIL_EXISTS", err.Code)
}

func TestDomainError_Is(t *testing.T) {
	wrapped := fmt.Errorf("lookup: %w", NewDomainError("NOT_FOUND", "Tenant not found"))

	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.False(t, errors.Is(wrapped, ErrAlreadyExists))
	assert.False(t, errors.Is(errors.New("plain"), ErrNotFound))
}

func TestDomainError_As(t *testing.T) {
	var err error = ErrInvalidInput

	var de *DomainError
	assert.True(t, errors.As(err, &de))
	assert.Equal(t, "INVALID_INPUT", de.Code)
}
