package persistence

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopsight/backend/internal/domain/commerce"
	"github.com/shopsight/backend/internal/domain/identity"
	"github.com/shopsight/backend/internal/domain/integration"
)

// AllModels lists every model managed by AutoMigrate
func AllModels() []any {
	return []any{
		&TenantModel{},
		&ProductModel{},
		&CustomerModel{},
		&OrderModel{},
		&UserModel{},
		&IngestionRunModel{},
	}
}

// TenantModel is the GORM model for tenants
type TenantModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"type:varchar(200);not null"`
	StoreDomain string    `gorm:"type:varchar(255)"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName returns the table name for the model
func (TenantModel) TableName() string {
	return "tenants"
}

// ToEntity converts the model to a domain entity
func (m *TenantModel) ToEntity() *commerce.Tenant {
	return &commerce.Tenant{
		ID:          m.ID,
		Name:        m.Name,
		StoreDomain: m.StoreDomain,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// TenantModelFromEntity creates a model from a domain entity
func TenantModelFromEntity(e *commerce.Tenant) *TenantModel {
	return &TenantModel{
		ID:          e.ID,
		Name:        e.Name,
		StoreDomain: e.StoreDomain,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// ProductModel is the GORM model for ingested products
type ProductModel struct {
	ID           uuid.UUID           `gorm:"type:uuid;primaryKey"`
	TenantID     uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:idx_products_tenant_product,priority:1"`
	ProductID    int64               `gorm:"not null;uniqueIndex:idx_products_tenant_product,priority:2"`
	Title        string              `gorm:"type:varchar(255)"`
	Price        decimal.NullDecimal `gorm:"type:decimal(12,2)"`
	LastSyncedAt time.Time           `gorm:"not null;index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName returns the table name for the model
func (ProductModel) TableName() string {
	return "products"
}

// ProductModelFromEntity creates a model from a domain entity
func ProductModelFromEntity(e *commerce.Product) *ProductModel {
	return &ProductModel{
		ID:           e.ID,
		TenantID:     e.TenantID,
		ProductID:    e.ProductID,
		Title:        e.Title,
		Price:        e.Price,
		LastSyncedAt: e.LastSyncedAt,
	}
}

// ToEntity converts the model to a domain entity
func (m *ProductModel) ToEntity() *commerce.Product {
	return &commerce.Product{
		ID:           m.ID,
		TenantID:     m.TenantID,
		ProductID:    m.ProductID,
		Title:        m.Title,
		Price:        m.Price,
		LastSyncedAt: m.LastSyncedAt,
	}
}

// CustomerModel is the GORM model for ingested customers
type CustomerModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_customers_tenant_customer,priority:1"`
	CustomerID   int64     `gorm:"not null;uniqueIndex:idx_customers_tenant_customer,priority:2"`
	FirstName    string    `gorm:"type:varchar(255)"`
	LastName     string    `gorm:"type:varchar(255)"`
	Email        string    `gorm:"type:varchar(255)"`
	LastSyncedAt time.Time `gorm:"not null;index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName returns the table name for the model
func (CustomerModel) TableName() string {
	return "customers"
}

// CustomerModelFromEntity creates a model from a domain entity
func CustomerModelFromEntity(e *commerce.Customer) *CustomerModel {
	return &CustomerModel{
		ID:           e.ID,
		TenantID:     e.TenantID,
		CustomerID:   e.CustomerID,
		FirstName:    e.FirstName,
		LastName:     e.LastName,
		Email:        e.Email,
		LastSyncedAt: e.LastSyncedAt,
	}
}

// ToEntity converts the model to a domain entity
func (m *CustomerModel) ToEntity() *commerce.Customer {
	return &commerce.Customer{
		ID:           m.ID,
		TenantID:     m.TenantID,
		CustomerID:   m.CustomerID,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		Email:        m.Email,
		LastSyncedAt: m.LastSyncedAt,
	}
}

// OrderModel is the GORM model for ingested orders.
// CustomerID holds the remote customer id and is deliberately not a foreign key.
type OrderModel struct {
	ID           uuid.UUID           `gorm:"type:uuid;primaryKey"`
	TenantID     uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:idx_orders_tenant_order,priority:1;index:idx_orders_tenant_created,priority:1"`
	OrderID      int64               `gorm:"not null;uniqueIndex:idx_orders_tenant_order,priority:2"`
	CustomerID   *int64              `gorm:"index"`
	TotalPrice   decimal.NullDecimal `gorm:"type:decimal(12,2)"`
	CreatedAt    time.Time           `gorm:"not null;index:idx_orders_tenant_created,priority:2;autoCreateTime:false"`
	LastSyncedAt time.Time           `gorm:"not null;index"`
	UpdatedAt    time.Time
}

// TableName returns the table name for the model
func (OrderModel) TableName() string {
	return "orders"
}

// OrderModelFromEntity creates a model from a domain entity
func OrderModelFromEntity(e *commerce.Order) *OrderModel {
	return &OrderModel{
		ID:           e.ID,
		TenantID:     e.TenantID,
		OrderID:      e.OrderID,
		CustomerID:   e.CustomerID,
		TotalPrice:   e.TotalPrice,
		CreatedAt:    e.CreatedAt,
		LastSyncedAt: e.LastSyncedAt,
	}
}

// ToEntity converts the model to a domain entity
func (m *OrderModel) ToEntity() *commerce.Order {
	return &commerce.Order{
		ID:           m.ID,
		TenantID:     m.TenantID,
		OrderID:      m.OrderID,
		CustomerID:   m.CustomerID,
		TotalPrice:   m.TotalPrice,
		CreatedAt:    m.CreatedAt,
		LastSyncedAt: m.LastSyncedAt,
	}
}

// UserModel is the GORM model for dashboard users
type UserModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Name         string    `gorm:"type:varchar(100);not null"`
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash string    `gorm:"column:password;type:varchar(255);not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName returns the table name for the model
func (UserModel) TableName() string {
	return "users"
}

// UserModelFromEntity creates a model from a domain entity
func UserModelFromEntity(e *identity.User) *UserModel {
	return &UserModel{
		ID:           e.ID,
		TenantID:     e.TenantID,
		Name:         e.Name,
		Email:        e.Email,
		PasswordHash: e.PasswordHash,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

// ToEntity converts the model to a domain entity
func (m *UserModel) ToEntity() *identity.User {
	return &identity.User{
		ID:           m.ID,
		TenantID:     m.TenantID,
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// IngestionRunModel is the GORM model for ingestion run history
type IngestionRunModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID   uuid.UUID `gorm:"type:uuid;not null;index:idx_ingestion_runs_tenant_started,priority:1"`
	Kind       string    `gorm:"type:varchar(20);not null"`
	Status     string    `gorm:"type:varchar(20);not null"`
	Pages      int       `gorm:"not null;default:0"`
	Fetched    int       `gorm:"not null;default:0"`
	Saved      int       `gorm:"not null;default:0"`
	Pruned     int64     `gorm:"not null;default:0"`
	StartedAt  time.Time `gorm:"not null;index:idx_ingestion_runs_tenant_started,priority:2"`
	FinishedAt time.Time
	Error      string `gorm:"type:text"`
}

// TableName returns the table name for the model
func (IngestionRunModel) TableName() string {
	return "ingestion_runs"
}

// IngestionRunModelFromEntity creates a model from a domain result
func IngestionRunModelFromEntity(r *integration.IngestResult) *IngestionRunModel {
	return &IngestionRunModel{
		ID:         r.ID,
		TenantID:   r.TenantID,
		Kind:       r.Kind.String(),
		Status:     r.Status.String(),
		Pages:      r.Pages,
		Fetched:    r.Fetched,
		Saved:      r.Saved,
		Pruned:     r.Pruned,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		Error:      r.Error,
	}
}

// ToEntity converts the model to a domain result
func (m *IngestionRunModel) ToEntity() integration.IngestResult {
	return integration.IngestResult{
		ID:         m.ID,
		TenantID:   m.TenantID,
		Kind:       integration.EntityKind(m.Kind),
		Status:     integration.IngestStatus(m.Status),
		Pages:      m.Pages,
		Fetched:    m.Fetched,
		Saved:      m.Saved,
		Pruned:     m.Pruned,
		StartedAt:  m.StartedAt,
		FinishedAt: m.FinishedAt,
		Error:      m.Error,
	}
}
