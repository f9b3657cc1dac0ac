package repository

import (
	"context"
	"errors"
	"time"

	"creator-commerce/internal/model"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	SellersCollection           = "sellers"
	ConnectedAccountsCollection = "connectedAccounts"
	BundlesCollection           = "bundles"
	PurchasesCollection         = "purchases"
	WebhookEventsCollection     = "webhookEvents"
)

func getDoc(ctx context.Context, ref *firestore.DocumentRef, dst interface{}) error {
	snap, err := ref.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return ErrNotFound
		}
		return err
	}
	return snap.DataTo(dst)
}

func docExists(ctx context.Context, ref *firestore.DocumentRef) (bool, error) {
	snap, err := ref.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, err
	}
	return snap.Exists(), nil
}

// --- purchases ---

type firestorePurchaseRepo struct {
	client *firestore.Client
}

func NewFirestorePurchaseRepository(client *firestore.Client) PurchaseRepository {
	return &firestorePurchaseRepo{client: client}
}

func (r *firestorePurchaseRepo) doc(sessionID string) *firestore.DocumentRef {
	return r.client.Collection(PurchasesCollection).Doc(sessionID)
}

func (r *firestorePurchaseRepo) Exists(ctx context.Context, sessionID string) (bool, error) {
	return docExists(ctx, r.doc(sessionID))
}

func (r *firestorePurchaseRepo) Get(ctx context.Context, sessionID string) (*model.Purchase, error) {
	var purchase model.Purchase
	if err := getDoc(ctx, r.doc(sessionID), &purchase); err != nil {
		return nil, err
	}
	return &purchase, nil
}

func (r *firestorePurchaseRepo) CreateIfAbsent(ctx context.Context, purchase *model.Purchase) error {
	if purchase.CreatedAt.IsZero() {
		purchase.CreatedAt = time.Now()
	}
	// Create fails with AlreadyExists when the document is present.
	_, err := r.doc(purchase.SessionID).Create(ctx, purchase)
	if status.Code(err) == codes.AlreadyExists {
		return ErrAlreadyExists
	}
	return err
}

// --- sellers ---

type firestoreSellerRepo struct {
	client *firestore.Client
}

func NewFirestoreSellerRepository(client *firestore.Client) SellerRepository {
	return &firestoreSellerRepo{client: client}
}

func (r *firestoreSellerRepo) Create(ctx context.Context, seller *model.Seller) error {
	now := time.Now()
	seller.CreatedAt, seller.UpdatedAt = now, now
	_, err := r.client.Collection(SellersCollection).Doc(seller.ID).Create(ctx, seller)
	if status.Code(err) == codes.AlreadyExists {
		return ErrAlreadyExists
	}
	return err
}

func (r *firestoreSellerRepo) Get(ctx context.Context, sellerID string) (*model.Seller, error) {
	var seller model.Seller
	if err := getDoc(ctx, r.client.Collection(SellersCollection).Doc(sellerID), &seller); err != nil {
		return nil, err
	}
	return &seller, nil
}

// --- connected accounts ---

type firestoreConnectedAccountRepo struct {
	client *firestore.Client
}

func NewFirestoreConnectedAccountRepository(client *firestore.Client) ConnectedAccountRepository {
	return &firestoreConnectedAccountRepo{client: client}
}

func (r *firestoreConnectedAccountRepo) GetBySeller(ctx context.Context, sellerID string) (*model.ConnectedAccount, error) {
	var account model.ConnectedAccount
	if err := getDoc(ctx, r.client.Collection(ConnectedAccountsCollection).Doc(sellerID), &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *firestoreConnectedAccountRepo) findByAccountID(ctx context.Context, accountID string) (*firestore.DocumentSnapshot, error) {
	iter := r.client.Collection(ConnectedAccountsCollection).
		Where("stripeAccountId", "==", accountID).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if errors.Is(err, iterator.Done) {
		return nil, ErrNotFound
	}
	return snap, err
}

func (r *firestoreConnectedAccountRepo) GetByAccountID(ctx context.Context, accountID string) (*model.ConnectedAccount, error) {
	snap, err := r.findByAccountID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	var account model.ConnectedAccount
	if err := snap.DataTo(&account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *firestoreConnectedAccountRepo) Upsert(ctx context.Context, account *model.ConnectedAccount) error {
	now := time.Now()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	account.UpdatedAt = now
	_, err := r.client.Collection(ConnectedAccountsCollection).Doc(account.SellerID).Set(ctx, account)
	return err
}

func (r *firestoreConnectedAccountRepo) CreateIfAbsent(ctx context.Context, account *model.ConnectedAccount) error {
	now := time.Now()
	account.CreatedAt, account.UpdatedAt = now, now
	_, err := r.client.Collection(ConnectedAccountsCollection).Doc(account.SellerID).Create(ctx, account)
	if status.Code(err) == codes.AlreadyExists {
		return ErrAlreadyExists
	}
	return err
}

func (r *firestoreConnectedAccountRepo) UpdateCapabilities(ctx context.Context, accountID string, chargesEnabled, payoutsEnabled, detailsSubmitted bool) error {
	snap, err := r.findByAccountID(ctx, accountID)
	if err != nil {
		return err
	}
	_, err = snap.Ref.Update(ctx, []firestore.Update{
		{Path: "chargesEnabled", Value: chargesEnabled},
		{Path: "payoutsEnabled", Value: payoutsEnabled},
		{Path: "detailsSubmitted", Value: detailsSubmitted},
		{Path: "updatedAt", Value: time.Now()},
	})
	return err
}

// --- bundles ---

type firestoreBundleRepo struct {
	client *firestore.Client
}

func NewFirestoreBundleRepository(client *firestore.Client) BundleRepository {
	return &firestoreBundleRepo{client: client}
}

func (r *firestoreBundleRepo) Get(ctx context.Context, bundleID string) (*model.Bundle, error) {
	var bundle model.Bundle
	if err := getDoc(ctx, r.client.Collection(BundlesCollection).Doc(bundleID), &bundle); err != nil {
		return nil, err
	}
	if bundle.ID == "" {
		bundle.ID = bundleID
	}
	return &bundle, nil
}

func (r *firestoreBundleRepo) Upsert(ctx context.Context, bundle *model.Bundle) error {
	now := time.Now()
	if bundle.CreatedAt.IsZero() {
		bundle.CreatedAt = now
	}
	bundle.UpdatedAt = now
	_, err := r.client.Collection(BundlesCollection).Doc(bundle.ID).Set(ctx, bundle)
	return err
}

// --- webhook events ---

type firestoreWebhookEventRepo struct {
	client *firestore.Client
}

func NewFirestoreWebhookEventRepository(client *firestore.Client) WebhookEventRepository {
	return &firestoreWebhookEventRepo{client: client}
}

func (r *firestoreWebhookEventRepo) Exists(ctx context.Context, eventID string) (bool, error) {
	return docExists(ctx, r.client.Collection(WebhookEventsCollection).Doc(eventID))
}

func (r *firestoreWebhookEventRepo) MarkProcessed(ctx context.Context, eventID, eventType, account string) error {
	now := time.Now()
	_, err := r.client.Collection(WebhookEventsCollection).Doc(eventID).Create(ctx, &model.WebhookEvent{
		EventID:     eventID,
		EventType:   eventType,
		Account:     account,
		ProcessedAt: now,
		CreatedAt:   now,
	})
	if status.Code(err) == codes.AlreadyExists {
		return nil
	}
	return err
}
