package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"creator-commerce/internal/client"
	"creator-commerce/internal/dto"
	"creator-commerce/internal/model"
	"creator-commerce/internal/repository"

	"github.com/stripe/stripe-go/v81"
)

type PurchaseService interface {
	// Process records the purchase for a checkout session the caller has seen
	// complete. Redelivery of an already recorded session is a successful no-op.
	Process(ctx context.Context, session *stripe.CheckoutSession) (*dto.PurchaseResult, error)
	GetPurchase(ctx context.Context, sessionID string) (*model.Purchase, error)
}

type purchaseServiceImpl struct {
	stripeClient client.StripeClient
	purchaseRepo repository.PurchaseRepository
	sellerRepo   repository.SellerRepository
	accountRepo  repository.ConnectedAccountRepository
	bundleRepo   repository.BundleRepository
	logger       *slog.Logger
	now          func() time.Time
}

func NewPurchaseService(
	stripeClient client.StripeClient,
	purchaseRepo repository.PurchaseRepository,
	sellerRepo repository.SellerRepository,
	accountRepo repository.ConnectedAccountRepository,
	bundleRepo repository.BundleRepository,
	logger *slog.Logger,
) PurchaseService {
	return &purchaseServiceImpl{
		stripeClient: stripeClient,
		purchaseRepo: purchaseRepo,
		sellerRepo:   sellerRepo,
		accountRepo:  accountRepo,
		bundleRepo:   bundleRepo,
		logger:       logger,
		now:          time.Now,
	}
}

type checkoutMetadata struct {
	SellerID string
	BundleID string
	BuyerID  string
}

func metadataValue(md map[string]string, keys ...string) string {
	for _, k := range keys {
		if v := md[k]; v != "" {
			return v
		}
	}
	return ""
}

func parseCheckoutMetadata(sessionID string, md map[string]string) (checkoutMetadata, error) {
	meta := checkoutMetadata{
		SellerID: metadataValue(md, "sellerId", "seller_id"),
		BundleID: metadataValue(md, "bundleId", "bundle_id"),
		BuyerID:  metadataValue(md, "buyerId", "buyer_id"),
	}

	var missing []string
	if meta.SellerID == "" {
		missing = append(missing, "sellerId")
	}
	if meta.BundleID == "" {
		missing = append(missing, "bundleId")
	}
	if len(missing) > 0 {
		return meta, &MissingMetadataError{SessionID: sessionID, Keys: missing}
	}
	return meta, nil
}

func (s *purchaseServiceImpl) Process(ctx context.Context, session *stripe.CheckoutSession) (*dto.PurchaseResult, error) {
	if session == nil || session.ID == "" {
		return nil, &MissingMetadataError{Keys: []string{"session id"}}
	}
	sessionID := session.ID

	meta, err := parseCheckoutMetadata(sessionID, session.Metadata)
	if err != nil {
		return nil, err
	}

	// fast path; CreateIfAbsent below is what actually enforces one record per session
	exists, err := s.purchaseRepo.Exists(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("check purchase %s: %w", sessionID, err)
	}
	if exists {
		s.logger.InfoContext(ctx, "checkout session already processed", "session_id", sessionID)
		return alreadyProcessed(sessionID), nil
	}

	if _, err := s.sellerRepo.Get(ctx, meta.SellerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrSellerNotFound, meta.SellerID)
		}
		return nil, fmt.Errorf("get seller %s: %w", meta.SellerID, err)
	}

	account, err := s.accountRepo.GetBySeller(ctx, meta.SellerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrSellerNotPayable, meta.SellerID)
		}
		return nil, fmt.Errorf("get connected account for seller %s: %w", meta.SellerID, err)
	}

	verified, err := s.verifySession(ctx, sessionID, account.AccountID, meta)
	if err != nil {
		return nil, err
	}

	bundle, err := s.bundleRepo.Get(ctx, meta.BundleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrBundleNotFound, meta.BundleID)
		}
		return nil, fmt.Errorf("get bundle %s: %w", meta.BundleID, err)
	}
	if len(bundle.Contents) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyBundleContent, bundle.ID)
	}

	items := NormalizeContent(bundle.Contents)
	purchase := &model.Purchase{
		SessionID:         sessionID,
		PaymentIntentID:   paymentIntentID(verified),
		SellerID:          meta.SellerID,
		SellerAccountID:   account.AccountID,
		BundleID:          bundle.ID,
		BuyerID:           meta.BuyerID,
		BuyerEmail:        buyerEmail(verified),
		BundleTitle:       bundle.Title,
		BundleDescription: bundle.Description,
		BundlePrice:       bundle.Price,
		BundleCurrency:    bundle.Currency,
		Items:             items,
		ItemCount:         len(items),
		Amount:            verified.AmountTotal,
		Currency:          string(verified.Currency),
		PaymentStatus:     string(verified.PaymentStatus),
		ProcessedAt:       s.now().UTC(),
	}

	if err := s.purchaseRepo.CreateIfAbsent(ctx, purchase); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			s.logger.InfoContext(ctx, "checkout session recorded concurrently", "session_id", sessionID)
			return alreadyProcessed(sessionID), nil
		}
		return nil, fmt.Errorf("store purchase %s: %w", sessionID, err)
	}

	result := &dto.PurchaseResult{
		Status:          dto.PurchaseProcessed,
		SessionID:       sessionID,
		BundleID:        bundle.ID,
		BundleTitle:     bundle.Title,
		BundlePrice:     bundle.Price,
		ContentItems:    len(items),
		Amount:          purchase.Amount,
		AmountDisplay:   FormatAmount(purchase.Amount, purchase.Currency),
		Currency:        purchase.Currency,
		SellerAccountID: account.AccountID,
	}

	s.logger.InfoContext(ctx, "purchase recorded",
		"session_id", sessionID,
		"bundle_id", bundle.ID,
		"content_items", result.ContentItems,
		"amount", result.AmountDisplay,
		"currency", result.Currency,
		"seller_account_id", account.AccountID,
	)

	return result, nil
}

// verifySession re-reads the session from the seller's connected account.
// The caller's copy is untrusted; only the fetched one feeds the record.
func (s *purchaseServiceImpl) verifySession(ctx context.Context, sessionID, accountID string, meta checkoutMetadata) (*stripe.CheckoutSession, error) {
	verified, err := s.stripeClient.GetCheckoutSession(ctx, sessionID, accountID)
	if err != nil {
		return nil, &GatewayVerificationError{
			SessionID: sessionID,
			AccountID: accountID,
			Retriable: client.IsRetriableGatewayError(err),
			Err:       err,
		}
	}

	reject := func(reason string) error {
		return &GatewayVerificationError{SessionID: sessionID, AccountID: accountID, Reason: reason}
	}

	if verified == nil || verified.ID != sessionID {
		return nil, reject("gateway returned a different session")
	}
	if verified.Status != stripe.CheckoutSessionStatusComplete {
		return nil, reject(fmt.Sprintf("session status is %q", verified.Status))
	}
	authoritative, err := parseCheckoutMetadata(sessionID, verified.Metadata)
	if err != nil {
		return nil, reject("gateway session has no purchase metadata")
	}
	if authoritative.SellerID != meta.SellerID || authoritative.BundleID != meta.BundleID {
		return nil, reject("event metadata does not match gateway session")
	}

	return verified, nil
}

func (s *purchaseServiceImpl) GetPurchase(ctx context.Context, sessionID string) (*model.Purchase, error) {
	return s.purchaseRepo.Get(ctx, sessionID)
}

func alreadyProcessed(sessionID string) *dto.PurchaseResult {
	return &dto.PurchaseResult{
		Status:    dto.PurchaseAlreadyProcessed,
		SessionID: sessionID,
	}
}

func paymentIntentID(sess *stripe.CheckoutSession) string {
	if sess.PaymentIntent != nil {
		return sess.PaymentIntent.ID
	}
	return ""
}

func buyerEmail(sess *stripe.CheckoutSession) string {
	if sess.CustomerDetails != nil && sess.CustomerDetails.Email != "" {
		return sess.CustomerDetails.Email
	}
	return sess.CustomerEmail
}
