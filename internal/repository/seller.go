package repository

import (
	"context"
	"time"

	"creator-commerce/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SellerRepository interface {
	Create(ctx context.Context, seller *model.Seller) error
	Get(ctx context.Context, sellerID string) (*model.Seller, error)
}

type sellerRepoImpl struct {
	db *gorm.DB
}

func NewSellerRepository(db *gorm.DB) SellerRepository {
	return &sellerRepoImpl{
		db: db,
	}
}

func (r *sellerRepoImpl) Create(ctx context.Context, seller *model.Seller) error {
	return r.db.WithContext(ctx).Create(seller).Error
}

func (r *sellerRepoImpl) Get(ctx context.Context, sellerID string) (*model.Seller, error) {
	var seller model.Seller
	err := r.db.WithContext(ctx).
		Where("id = ?", sellerID).
		First(&seller).Error
	if err != nil {
		return nil, translateNotFound(err)
	}

	return &seller, nil
}

type ConnectedAccountRepository interface {
	GetBySeller(ctx context.Context, sellerID string) (*model.ConnectedAccount, error)
	GetByAccountID(ctx context.Context, accountID string) (*model.ConnectedAccount, error)
	Upsert(ctx context.Context, account *model.ConnectedAccount) error
	// CreateIfAbsent stores the account only when the seller has none yet and
	// returns ErrAlreadyExists otherwise.
	CreateIfAbsent(ctx context.Context, account *model.ConnectedAccount) error
	UpdateCapabilities(ctx context.Context, accountID string, chargesEnabled, payoutsEnabled, detailsSubmitted bool) error
}

type connectedAccountRepoImpl struct {
	db *gorm.DB
}

func NewConnectedAccountRepository(db *gorm.DB) ConnectedAccountRepository {
	return &connectedAccountRepoImpl{
		db: db,
	}
}

func (r *connectedAccountRepoImpl) GetBySeller(ctx context.Context, sellerID string) (*model.ConnectedAccount, error) {
	var account model.ConnectedAccount
	err := r.db.WithContext(ctx).
		Where("seller_id = ?", sellerID).
		First(&account).Error
	if err != nil {
		return nil, translateNotFound(err)
	}

	return &account, nil
}

func (r *connectedAccountRepoImpl) GetByAccountID(ctx context.Context, accountID string) (*model.ConnectedAccount, error) {
	var account model.ConnectedAccount
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		First(&account).Error
	if err != nil {
		return nil, translateNotFound(err)
	}

	return &account, nil
}

func (r *connectedAccountRepoImpl) Upsert(ctx context.Context, account *model.ConnectedAccount) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "seller_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"account_id":        account.AccountID,
			"charges_enabled":   account.ChargesEnabled,
			"payouts_enabled":   account.PayoutsEnabled,
			"details_submitted": account.DetailsSubmitted,
			"email":             account.Email,
			"updated_at":        time.Now(),
		}),
	}).Create(account).Error
}

func (r *connectedAccountRepoImpl) CreateIfAbsent(ctx context.Context, account *model.ConnectedAccount) error {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "seller_id"}},
		DoNothing: true,
	}).Create(account)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAlreadyExists
	}

	return nil
}

func (r *connectedAccountRepoImpl) UpdateCapabilities(ctx context.Context, accountID string, chargesEnabled, payoutsEnabled, detailsSubmitted bool) error {
	result := r.db.
		WithContext(ctx).
		Model(&model.ConnectedAccount{}).
		Where("account_id = ?", accountID).
		Updates(map[string]interface{}{
			"charges_enabled":   chargesEnabled,
			"payouts_enabled":   payoutsEnabled,
			"details_submitted": detailsSubmitted,
			"updated_at":        time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
