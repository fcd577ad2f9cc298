package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shopsight/backend/internal/domain/commerce"
)

// GormTenantRepository implements TenantRepository using GORM
type GormTenantRepository struct {
	db *gorm.DB
}

// NewGormTenantRepository creates a new GormTenantRepository
func NewGormTenantRepository(db *gorm.DB) *GormTenantRepository {
	return &GormTenantRepository{db: db}
}

// EnsureExists inserts the tenant, or refreshes name and store domain when it exists
func (r *GormTenantRepository) EnsureExists(ctx context.Context, tenant *commerce.Tenant) error {
	model := TenantModelFromEntity(tenant)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "store_domain", "updated_at"}),
		}).
		Create(model).Error
}

// FindByID finds a tenant by ID
func (r *GormTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*commerce.Tenant, error) {
	var model TenantModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commerce.ErrTenantNotFound
		}
		return nil, err
	}
	return model.ToEntity(), nil
}

// FindAll returns every tenant ordered by name
func (r *GormTenantRepository) FindAll(ctx context.Context) ([]commerce.Tenant, error) {
	var models []TenantModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	tenants := make([]commerce.Tenant, len(models))
	for i := range models {
		tenants[i] = *models[i].ToEntity()
	}
	return tenants, nil
}

var _ commerce.TenantRepository = (*GormTenantRepository)(nil)
