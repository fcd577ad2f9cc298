package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopsight/backend/internal/domain/integration"
)

const maxRecentRuns = 100

// GormIngestionRunRepository implements IngestRunRepository using GORM
type GormIngestionRunRepository struct {
	db *gorm.DB
}

// NewGormIngestionRunRepository creates a new GormIngestionRunRepository
func NewGormIngestionRunRepository(db *gorm.DB) *GormIngestionRunRepository {
	return &GormIngestionRunRepository{db: db}
}

// Save records a finished run
func (r *GormIngestionRunRepository) Save(ctx context.Context, result *integration.IngestResult) error {
	return r.db.WithContext(ctx).Create(IngestionRunModelFromEntity(result)).Error
}

// FindRecent returns the tenant's latest runs, newest first
func (r *GormIngestionRunRepository) FindRecent(ctx context.Context, tenantID uuid.UUID, limit int) ([]integration.IngestResult, error) {
	if limit <= 0 || limit > maxRecentRuns {
		limit = maxRecentRuns
	}
	var models []IngestionRunModel
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("started_at DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	runs := make([]integration.IngestResult, len(models))
	for i := range models {
		runs[i] = models[i].ToEntity()
	}
	return runs, nil
}

var _ integration.IngestRunRepository = (*GormIngestionRunRepository)(nil)
