package handler

import (
	"errors"
	"net/http"

	"creator-commerce/internal/dto"
	"creator-commerce/internal/service"

	"github.com/labstack/echo/v4"
)

type SellerHandler struct {
	sellerService     service.SellerService
	connectReturnURL  string
	connectRefreshURL string
}

func NewSellerHandler(sellerService service.SellerService, connectReturnURL, connectRefreshURL string) *SellerHandler {
	return &SellerHandler{
		sellerService:     sellerService,
		connectReturnURL:  connectReturnURL,
		connectRefreshURL: connectRefreshURL,
	}
}

func (h *SellerHandler) CreateSeller(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CreateSellerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	sellerID, err := h.sellerService.CreateSeller(ctx, req.Name, req.Email)
	if err != nil {
		return sellerError(err)
	}

	return c.JSON(http.StatusCreated, map[string]string{
		"id": sellerID,
	})
}

func (h *SellerHandler) GetSeller(c echo.Context) error {
	ctx := c.Request().Context()

	seller, err := h.sellerService.GetSeller(ctx, c.Param("id"))
	if err != nil {
		return sellerError(err)
	}

	return c.JSON(http.StatusOK, seller)
}

func (h *SellerHandler) Connect(c echo.Context) error {
	ctx := c.Request().Context()

	resp, err := h.sellerService.Connect(ctx, c.Param("id"), h.connectReturnURL, h.connectRefreshURL)
	if err != nil {
		return sellerError(err)
	}

	return c.JSON(http.StatusOK, resp)
}

func sellerError(err error) error {
	switch {
	case errors.Is(err, service.ErrSellerNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "seller not found")
	case errors.Is(err, service.ErrInvalidSeller):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return err
	}
}
