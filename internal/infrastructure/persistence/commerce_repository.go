package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shopsight/backend/internal/domain/commerce"
)

// upsertOn builds the conflict clause for a (tenant_id, remoteKey) unique index
func upsertOn(remoteKey string, columns ...string) clause.OnConflict {
	return clause.OnConflict{
		Columns:   []clause.Column{{Name: "tenant_id"}, {Name: remoteKey}},
		DoUpdates: clause.AssignmentColumns(columns),
	}
}

// deleteStale removes a tenant's rows whose last sync predates syncedBefore
func deleteStale(ctx context.Context, db *gorm.DB, model any, tenantID uuid.UUID, syncedBefore time.Time) (int64, error) {
	result := db.WithContext(ctx).
		Where("tenant_id = ? AND last_synced_at < ?", tenantID, syncedBefore).
		Delete(model)
	return result.RowsAffected, result.Error
}

func countForTenant(ctx context.Context, db *gorm.DB, model any, tenantID uuid.UUID) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(model).Where("tenant_id = ?", tenantID).Count(&count).Error
	return count, err
}

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// Upsert inserts the product or refreshes the existing (tenant, product id) row
func (r *GormProductRepository) Upsert(ctx context.Context, product *commerce.Product) error {
	model := ProductModelFromEntity(product)
	return r.db.WithContext(ctx).
		Clauses(upsertOn("product_id", "title", "price", "last_synced_at", "updated_at")).
		Create(model).Error
}

// DeleteStale removes products not seen since syncedBefore
func (r *GormProductRepository) DeleteStale(ctx context.Context, tenantID uuid.UUID, syncedBefore time.Time) (int64, error) {
	return deleteStale(ctx, r.db, &ProductModel{}, tenantID, syncedBefore)
}

// CountForTenant counts the tenant's products
func (r *GormProductRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	return countForTenant(ctx, r.db, &ProductModel{}, tenantID)
}

// GormCustomerRepository implements CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// Upsert inserts the customer or refreshes the existing (tenant, customer id) row
func (r *GormCustomerRepository) Upsert(ctx context.Context, customer *commerce.Customer) error {
	model := CustomerModelFromEntity(customer)
	return r.db.WithContext(ctx).
		Clauses(upsertOn("customer_id", "first_name", "last_name", "email", "last_synced_at", "updated_at")).
		Create(model).Error
}

// DeleteStale removes customers not seen since syncedBefore
func (r *GormCustomerRepository) DeleteStale(ctx context.Context, tenantID uuid.UUID, syncedBefore time.Time) (int64, error) {
	return deleteStale(ctx, r.db, &CustomerModel{}, tenantID, syncedBefore)
}

// CountForTenant counts the tenant's customers
func (r *GormCustomerRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	return countForTenant(ctx, r.db, &CustomerModel{}, tenantID)
}

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Upsert inserts the order or refreshes the existing (tenant, order id) row
func (r *GormOrderRepository) Upsert(ctx context.Context, order *commerce.Order) error {
	model := OrderModelFromEntity(order)
	return r.db.WithContext(ctx).
		Clauses(upsertOn("order_id", "customer_id", "total_price", "created_at", "last_synced_at", "updated_at")).
		Create(model).Error
}

// DeleteStale removes orders not seen since syncedBefore
func (r *GormOrderRepository) DeleteStale(ctx context.Context, tenantID uuid.UUID, syncedBefore time.Time) (int64, error) {
	return deleteStale(ctx, r.db, &OrderModel{}, tenantID, syncedBefore)
}

// CountForTenant counts the tenant's orders
func (r *GormOrderRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	return countForTenant(ctx, r.db, &OrderModel{}, tenantID)
}

// Ensure interfaces are implemented
var (
	_ commerce.ProductRepository  = (*GormProductRepository)(nil)
	_ commerce.CustomerRepository = (*GormCustomerRepository)(nil)
	_ commerce.OrderRepository    = (*GormOrderRepository)(nil)
)
