package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopsight/backend/internal/interfaces/http/dto"
)

func TestSetupValidator_ReportsJSONFieldNames(t *testing.T) {
	gin.SetMode(gin.TestMode)
	require.NoError(t, SetupValidator())

	tests := []struct {
		name   string
		body   string
		fields []string
	}{
		{"all present", `{"name":"Ada","email":"ada@example.com","password":"pw"}`, nil},
		{"missing password", `{"name":"Ada","email":"ada@example.com"}`, []string{"password"}},
		{"blank name", `{"name":"   ","email":"ada@example.com","password":"pw"}`, []string{"name"}},
		{"empty body", `{}`, []string{"name", "email", "password"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			var req dto.RegisterRequest
			err := c.ShouldBindJSON(&req)
			if tt.fields == nil {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.fields, InvalidFields(err))
		})
	}
}

func TestInvalidFields_OtherErrors(t *testing.T) {
	assert.Nil(t, InvalidFields(nil))
	assert.Nil(t, InvalidFields(assert.AnError))
}
