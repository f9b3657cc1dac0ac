package handler

import (
	"errors"
	"io"
	"net/http"

	"creator-commerce/internal/service"

	"github.com/labstack/echo/v4"
)

// Stripe event payloads stay well under 64 KiB.
const maxWebhookBody = 1 << 16

type StripeHandler struct {
	webhookService service.WebhookService
}

func NewStripeHandler(webhookService service.WebhookService) *StripeHandler {
	return &StripeHandler{
		webhookService: webhookService,
	}
}

func (h *StripeHandler) Webhook(c echo.Context) error {
	ctx := c.Request().Context()

	body, err := io.ReadAll(http.MaxBytesReader(c.Response(), c.Request().Body, maxWebhookBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "payload too large")
		}
		return c.NoContent(http.StatusBadRequest)
	}

	err = h.webhookService.Handle(ctx, body, c.Request().Header.Get("Stripe-Signature"))
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, map[string]bool{"received": true})
	case errors.Is(err, service.ErrInvalidSignature):
		return echo.NewHTTPError(http.StatusBadRequest, "invalid signature")
	case errors.Is(err, service.ErrEventInFlight):
		return echo.NewHTTPError(http.StatusConflict, "event is being processed")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "webhook processing failed")
	}
}
