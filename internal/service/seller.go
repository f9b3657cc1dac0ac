package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"creator-commerce/internal/client"
	"creator-commerce/internal/dto"
	"creator-commerce/internal/model"
	"creator-commerce/internal/repository"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v81"
)

var ErrInvalidSeller = errors.New("seller name is required")

type SellerService interface {
	CreateSeller(ctx context.Context, name, email string) (string, error)
	GetSeller(ctx context.Context, sellerID string) (*dto.SellerResponse, error)
	// Connect creates the seller's Express account on first use and returns
	// a fresh onboarding link for it.
	Connect(ctx context.Context, sellerID, returnURL, refreshURL string) (*dto.ConnectResponse, error)
	SyncAccount(ctx context.Context, account *stripe.Account) error
}

type sellerServiceImpl struct {
	stripeClient client.StripeClient
	sellerRepo   repository.SellerRepository
	accountRepo  repository.ConnectedAccountRepository
	logger       *slog.Logger
}

func NewSellerService(
	stripeClient client.StripeClient,
	sellerRepo repository.SellerRepository,
	accountRepo repository.ConnectedAccountRepository,
	logger *slog.Logger,
) SellerService {
	return &sellerServiceImpl{
		stripeClient: stripeClient,
		sellerRepo:   sellerRepo,
		accountRepo:  accountRepo,
		logger:       logger,
	}
}

func (s *sellerServiceImpl) CreateSeller(ctx context.Context, name, email string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrInvalidSeller
	}

	seller := &model.Seller{
		ID:    uuid.NewString(),
		Name:  name,
		Email: strings.TrimSpace(email),
	}
	if err := s.sellerRepo.Create(ctx, seller); err != nil {
		return "", fmt.Errorf("create seller: %w", err)
	}

	s.logger.InfoContext(ctx, "seller created", "seller_id", seller.ID)
	return seller.ID, nil
}

func (s *sellerServiceImpl) GetSeller(ctx context.Context, sellerID string) (*dto.SellerResponse, error) {
	seller, err := s.getSeller(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	resp := &dto.SellerResponse{
		ID:    seller.ID,
		Name:  seller.Name,
		Email: seller.Email,
	}

	account, err := s.accountRepo.GetBySeller(ctx, sellerID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return resp, nil
	case err != nil:
		return nil, fmt.Errorf("get connected account for seller %s: %w", sellerID, err)
	}

	resp.AccountID = account.AccountID
	resp.ChargesEnabled = account.ChargesEnabled
	resp.PayoutsEnabled = account.PayoutsEnabled
	resp.DetailsSubmitted = account.DetailsSubmitted
	return resp, nil
}

func (s *sellerServiceImpl) Connect(ctx context.Context, sellerID, returnURL, refreshURL string) (*dto.ConnectResponse, error) {
	seller, err := s.getSeller(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	account, err := s.accountRepo.GetBySeller(ctx, sellerID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("get connected account for seller %s: %w", sellerID, err)
	}

	if account == nil {
		acct, err := s.stripeClient.CreateConnectAccount(ctx, seller.Email)
		if err != nil {
			return nil, err
		}
		account = &model.ConnectedAccount{
			SellerID:         sellerID,
			AccountID:        acct.ID,
			ChargesEnabled:   acct.ChargesEnabled,
			PayoutsEnabled:   acct.PayoutsEnabled,
			DetailsSubmitted: acct.DetailsSubmitted,
			Email:            seller.Email,
		}
		err = s.accountRepo.CreateIfAbsent(ctx, account)
		switch {
		case errors.Is(err, repository.ErrAlreadyExists):
			// a concurrent Connect stored its account first; link that one
			s.logger.WarnContext(ctx, "connected account created concurrently, discarding duplicate",
				"seller_id", sellerID, "discarded_account_id", acct.ID)
			account, err = s.accountRepo.GetBySeller(ctx, sellerID)
			if err != nil {
				return nil, fmt.Errorf("get connected account for seller %s: %w", sellerID, err)
			}
		case err != nil:
			return nil, fmt.Errorf("save connected account for seller %s: %w", sellerID, err)
		default:
			s.logger.InfoContext(ctx, "connected account created", "seller_id", sellerID, "account_id", acct.ID)
		}
	}

	link, err := s.stripeClient.CreateAccountLink(ctx, account.AccountID, returnURL, refreshURL)
	if err != nil {
		return nil, err
	}

	return &dto.ConnectResponse{
		AccountID:     account.AccountID,
		OnboardingURL: link.URL,
	}, nil
}

// SyncAccount copies capability flags from an account.updated payload.
// Accounts this service never created are ignored.
func (s *sellerServiceImpl) SyncAccount(ctx context.Context, account *stripe.Account) error {
	if account == nil || account.ID == "" {
		return nil
	}

	err := s.accountRepo.UpdateCapabilities(ctx, account.ID, account.ChargesEnabled, account.PayoutsEnabled, account.DetailsSubmitted)
	if errors.Is(err, repository.ErrNotFound) {
		s.logger.InfoContext(ctx, "account update for unknown connected account", "account_id", account.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("update capabilities for %s: %w", account.ID, err)
	}

	s.logger.InfoContext(ctx, "connected account synced",
		"account_id", account.ID,
		"charges_enabled", account.ChargesEnabled,
		"payouts_enabled", account.PayoutsEnabled,
	)
	return nil
}

func (s *sellerServiceImpl) getSeller(ctx context.Context, sellerID string) (*model.Seller, error) {
	seller, err := s.sellerRepo.Get(ctx, sellerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrSellerNotFound, sellerID)
		}
		return nil, fmt.Errorf("get seller %s: %w", sellerID, err)
	}
	return seller, nil
}
