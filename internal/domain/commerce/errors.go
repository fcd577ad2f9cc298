package commerce

import "github.com/shopsight/backend/internal/domain/shared"

var (
	ErrTenantRequired     = shared.NewDomainError("INVALID_TENANT", "Tenant ID is required")
	ErrInvalidRemoteID    = shared.NewDomainError("INVALID_REMOTE_ID", "Remote identifier must be positive")
	ErrTenantNameEmpty    = shared.NewDomainError("INVALID_TENANT_NAME", "Tenant name cannot be empty")
	ErrTenantNotFound     = shared.NewDomainError("NOT_FOUND", "Tenant not found")
	ErrNegativeAmount     = shared.NewDomainError("INVALID_AMOUNT", "Amount cannot be negative")
	ErrInvalidCustomerRef = shared.NewDomainError("INVALID_CUSTOMER_REF", "Customer reference must be positive")
)
