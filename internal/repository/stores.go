package repository

import (
	"cloud.google.com/go/firestore"
	"gorm.io/gorm"
)

// Stores groups the repositories of one document store backend.
type Stores struct {
	Purchases         PurchaseRepository
	Sellers           SellerRepository
	ConnectedAccounts ConnectedAccountRepository
	Bundles           BundleRepository
	WebhookEvents     WebhookEventRepository
}

func NewGormStores(db *gorm.DB) *Stores {
	return &Stores{
		Purchases:         NewPurchaseRepository(db),
		Sellers:           NewSellerRepository(db),
		ConnectedAccounts: NewConnectedAccountRepository(db),
		Bundles:           NewBundleRepository(db),
		WebhookEvents:     NewWebhookEventRepository(db),
	}
}

func NewFirestoreStores(client *firestore.Client) *Stores {
	return &Stores{
		Purchases:         NewFirestorePurchaseRepository(client),
		Sellers:           NewFirestoreSellerRepository(client),
		ConnectedAccounts: NewFirestoreConnectedAccountRepository(client),
		Bundles:           NewFirestoreBundleRepository(client),
		WebhookEvents:     NewFirestoreWebhookEventRepository(client),
	}
}
