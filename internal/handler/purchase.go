package handler

import (
	"errors"
	"net/http"

	"creator-commerce/internal/repository"
	"creator-commerce/internal/service"

	"github.com/labstack/echo/v4"
)

type PurchaseHandler struct {
	purchaseService service.PurchaseService
}

func NewPurchaseHandler(purchaseService service.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{
		purchaseService: purchaseService,
	}
}

func (h *PurchaseHandler) GetPurchase(c echo.Context) error {
	ctx := c.Request().Context()

	purchase, err := h.purchaseService.GetPurchase(ctx, c.Param("sessionID"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "purchase not found")
		}
		return err
	}

	return c.JSON(http.StatusOK, purchase)
}
