package repository

import (
	"context"
	"time"

	"creator-commerce/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BundleRepository interface {
	Get(ctx context.Context, bundleID string) (*model.Bundle, error)
	Upsert(ctx context.Context, bundle *model.Bundle) error
}

type bundleRepoImpl struct {
	db *gorm.DB
}

func NewBundleRepository(db *gorm.DB) BundleRepository {
	return &bundleRepoImpl{
		db: db,
	}
}

func (r *bundleRepoImpl) Get(ctx context.Context, bundleID string) (*model.Bundle, error) {
	var bundle model.Bundle
	err := r.db.WithContext(ctx).
		Where("id = ?", bundleID).
		First(&bundle).Error
	if err != nil {
		return nil, translateNotFound(err)
	}

	return &bundle, nil
}

func (r *bundleRepoImpl) Upsert(ctx context.Context, bundle *model.Bundle) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"title":       bundle.Title,
			"description": bundle.Description,
			"price":       bundle.Price,
			"currency":    bundle.Currency,
			"contents":    bundle.Contents,
			"updated_at":  time.Now(),
		}),
	}).Create(bundle).Error
}
