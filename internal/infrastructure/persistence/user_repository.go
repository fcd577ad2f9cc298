package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/shopsight/backend/internal/domain/identity"
	"github.com/shopsight/backend/internal/domain/shared"
)

// GormUserRepository implements UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// Create inserts a user. A duplicate email yields shared.ErrAlreadyExists.
func (r *GormUserRepository) Create(ctx context.Context, user *identity.User) error {
	model := UserModelFromEntity(user)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// FindByEmail finds a user by normalized email
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	var model UserModel
	err := r.db.WithContext(ctx).Where("email = ?", identity.NormalizeEmail(email)).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToEntity(), nil
}

// ExistsByEmail checks if a user with the email exists
func (r *GormUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&UserModel{}).
		Where("email = ?", identity.NormalizeEmail(email)).
		Count(&count).Error
	return count > 0, err
}

var _ identity.UserRepository = (*GormUserRepository)(nil)
