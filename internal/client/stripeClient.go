package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"creator-commerce/internal/config"

	"github.com/stripe/stripe-go/v81"
	stripeapi "github.com/stripe/stripe-go/v81/client"
	"github.com/stripe/stripe-go/v81/webhook"
)

type StripeClient interface {
	// GetCheckoutSession fetches the authoritative session from the seller's
	// connected account with line items and payment intent expanded.
	GetCheckoutSession(ctx context.Context, sessionID, accountID string) (*stripe.CheckoutSession, error)
	CreateConnectAccount(ctx context.Context, email string) (*stripe.Account, error)
	CreateAccountLink(ctx context.Context, accountID, returnURL, refreshURL string) (*stripe.AccountLink, error)
	ConstructEvent(payload []byte, signature string) (stripe.Event, error)
}

type stripeClientImpl struct {
	api           *stripeapi.API
	webhookSecret string
}

func NewStripeClient(cfg *config.Stripe) StripeClient {
	backendCfg := &stripe.BackendConfig{
		MaxNetworkRetries: stripe.Int64(cfg.MaxNetworkRetries),
	}
	if cfg.APIBaseURL != "" {
		backendCfg.URL = stripe.String(cfg.APIBaseURL)
	}

	api := &stripeapi.API{}
	api.Init(cfg.SecretKey, stripe.NewBackendsWithConfig(backendCfg))

	return &stripeClientImpl{
		api:           api,
		webhookSecret: cfg.WebhookSecret,
	}
}

func (c *stripeClientImpl) GetCheckoutSession(ctx context.Context, sessionID, accountID string) (*stripe.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	params.SetStripeAccount(accountID)
	params.AddExpand("line_items")
	params.AddExpand("payment_intent")

	sess, err := c.api.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		return nil, fmt.Errorf("stripe get checkout session %s: %w", sessionID, err)
	}
	return sess, nil
}

func (c *stripeClientImpl) CreateConnectAccount(ctx context.Context, email string) (*stripe.Account, error) {
	params := &stripe.AccountParams{
		Type: stripe.String(string(stripe.AccountTypeExpress)),
	}
	if email != "" {
		params.Email = stripe.String(email)
	}
	params.Context = ctx

	acct, err := c.api.Accounts.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe create connect account: %w", err)
	}
	return acct, nil
}

func (c *stripeClientImpl) CreateAccountLink(ctx context.Context, accountID, returnURL, refreshURL string) (*stripe.AccountLink, error) {
	params := &stripe.AccountLinkParams{
		Account:    stripe.String(accountID),
		ReturnURL:  stripe.String(returnURL),
		RefreshURL: stripe.String(refreshURL),
		Type:       stripe.String("account_onboarding"),
	}
	params.Context = ctx

	link, err := c.api.AccountLinks.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe create account link: %w", err)
	}
	return link, nil
}

func (c *stripeClientImpl) ConstructEvent(payload []byte, signature string) (stripe.Event, error) {
	return webhook.ConstructEventWithOptions(payload, signature, c.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
}

// IsRetriableGatewayError reports whether a failed Stripe call may succeed on
// a later attempt. Rate limits, 5xx and transport failures are retriable; any
// other 4xx (for example resource_missing) is a definitive answer.
func IsRetriableGatewayError(err error) bool {
	if err == nil {
		return false
	}
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		switch {
		case stripeErr.HTTPStatusCode == http.StatusTooManyRequests:
			return true
		case stripeErr.HTTPStatusCode >= 500:
			return true
		case stripeErr.HTTPStatusCode >= 400:
			return false
		}
	}
	return true
}
