package repository

import (
	"context"

	"creator-commerce/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PurchaseRepository interface {
	Exists(ctx context.Context, sessionID string) (bool, error)
	Get(ctx context.Context, sessionID string) (*model.Purchase, error)
	// CreateIfAbsent inserts the purchase only when no row holds its session
	// id and returns ErrAlreadyExists otherwise.
	CreateIfAbsent(ctx context.Context, purchase *model.Purchase) error
}

type purchaseRepoImpl struct {
	db *gorm.DB
}

func NewPurchaseRepository(db *gorm.DB) PurchaseRepository {
	return &purchaseRepoImpl{
		db: db,
	}
}

func (r *purchaseRepoImpl) Exists(ctx context.Context, sessionID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Purchase{}).
		Where("session_id = ?", sessionID).
		Count(&count).Error

	return count > 0, err
}

func (r *purchaseRepoImpl) Get(ctx context.Context, sessionID string) (*model.Purchase, error) {
	var purchase model.Purchase
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		First(&purchase).Error
	if err != nil {
		return nil, translateNotFound(err)
	}

	return &purchase, nil
}

func (r *purchaseRepoImpl) CreateIfAbsent(ctx context.Context, purchase *model.Purchase) error {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}},
		DoNothing: true,
	}).Create(purchase)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAlreadyExists
	}

	return nil
}
