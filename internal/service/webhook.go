package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"creator-commerce/internal/client"
	"creator-commerce/internal/repository"

	"github.com/stripe/stripe-go/v81"
)

var (
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrEventInFlight    = errors.New("webhook event is being handled by another delivery")
)

type WebhookService interface {
	// Handle verifies and dispatches one Stripe webhook delivery. A nil error
	// means Stripe should stop redelivering the event.
	Handle(ctx context.Context, payload []byte, signature string) error
}

type webhookServiceImpl struct {
	stripeClient     client.StripeClient
	webhookEventRepo repository.WebhookEventRepository
	claimer          repository.EventClaimer
	purchaseService  PurchaseService
	sellerService    SellerService
	logger           *slog.Logger
}

func NewWebhookService(
	stripeClient client.StripeClient,
	webhookEventRepo repository.WebhookEventRepository,
	claimer repository.EventClaimer,
	purchaseService PurchaseService,
	sellerService SellerService,
	logger *slog.Logger,
) WebhookService {
	if claimer == nil {
		claimer = repository.NoopEventClaimer{}
	}
	return &webhookServiceImpl{
		stripeClient:     stripeClient,
		webhookEventRepo: webhookEventRepo,
		claimer:          claimer,
		purchaseService:  purchaseService,
		sellerService:    sellerService,
		logger:           logger,
	}
}

func (s *webhookServiceImpl) Handle(ctx context.Context, payload []byte, signature string) error {
	event, err := s.stripeClient.ConstructEvent(payload, signature)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	log := s.logger.With("event_id", event.ID, "event_type", string(event.Type))
	if event.Account != "" {
		log = log.With("account", event.Account)
	}

	processed, err := s.webhookEventRepo.Exists(ctx, event.ID)
	if err != nil {
		return fmt.Errorf("check webhook event %s: %w", event.ID, err)
	}
	if processed {
		log.InfoContext(ctx, "webhook event already processed")
		return nil
	}

	claimed, err := s.claimer.Claim(ctx, event.ID)
	switch {
	case err != nil:
		// the purchase store still rejects duplicates without the claim
		log.WarnContext(ctx, "claim webhook event", "error", err)
	case !claimed:
		return fmt.Errorf("%w: %s", ErrEventInFlight, event.ID)
	}
	defer func() {
		if err := s.claimer.Release(context.WithoutCancel(ctx), event.ID); err != nil {
			log.WarnContext(ctx, "release webhook event claim", "error", err)
		}
	}()

	if err := s.dispatch(ctx, log, &event); err != nil {
		if IsRetriable(err) {
			log.ErrorContext(ctx, "webhook event failed, awaiting redelivery", "error", err)
			return err
		}
		log.WarnContext(ctx, "webhook event rejected", "error", err)
	}

	if err := s.webhookEventRepo.MarkProcessed(ctx, event.ID, string(event.Type), event.Account); err != nil {
		return fmt.Errorf("mark webhook event %s processed: %w", event.ID, err)
	}
	return nil
}

func (s *webhookServiceImpl) dispatch(ctx context.Context, log *slog.Logger, event *stripe.Event) error {
	if event.Data == nil {
		return fmt.Errorf("%w: %s has no data", ErrMalformedEvent, event.ID)
	}

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted, stripe.EventTypeCheckoutSessionAsyncPaymentSucceeded:
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return fmt.Errorf("%w: decode checkout session in %s: %v", ErrMalformedEvent, event.ID, err)
		}
		if session.PaymentStatus == stripe.CheckoutSessionPaymentStatusUnpaid {
			// async methods settle later with async_payment_succeeded
			log.InfoContext(ctx, "checkout session awaiting payment", "session_id", session.ID)
			return nil
		}
		result, err := s.purchaseService.Process(ctx, &session)
		if err != nil {
			return err
		}
		log.InfoContext(ctx, "checkout session handled", "session_id", result.SessionID, "status", string(result.Status))
		return nil

	case stripe.EventTypeAccountUpdated:
		var account stripe.Account
		if err := json.Unmarshal(event.Data.Raw, &account); err != nil {
			return fmt.Errorf("%w: decode account in %s: %v", ErrMalformedEvent, event.ID, err)
		}
		return s.sellerService.SyncAccount(ctx, &account)

	default:
		log.DebugContext(ctx, "ignoring webhook event")
		return nil
	}
}
