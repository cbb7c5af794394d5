package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"demand-planner/internal/model"
)

// AccessKeyRepository is the identity collaborator: a key is valid when a
// matching app_config row exists.
type AccessKeyRepository struct {
	db *gorm.DB
}

func NewAccessKeyRepository(db *gorm.DB) *AccessKeyRepository {
	return &AccessKeyRepository{db: db}
}

// Exists reports whether key matches a stored access key. The stored keys are
// never read back to the caller.
func (r *AccessKeyRepository) Exists(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, nil
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.AccessKey{}).Where("access_key = ?", key).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check access key: %w", err)
	}
	return count > 0, nil
}

// Ensure stores key unless it is already present.
func (r *AccessKeyRepository) Ensure(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	row := model.AccessKey{AccessKey: key}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
		return fmt.Errorf("store access key: %w", err)
	}
	return nil
}
