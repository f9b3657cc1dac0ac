package server

import (
	"context"
	"log/slog"
	"net/http"

	"creator-commerce/internal/handler"
	mw "creator-commerce/internal/middleware"
	"creator-commerce/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Server struct {
	echo            *echo.Echo
	stripeHandler   *handler.StripeHandler
	sellerHandler   *handler.SellerHandler
	purchaseHandler *handler.PurchaseHandler
}

type Options struct {
	ConnectReturnURL  string
	ConnectRefreshURL string
}

func NewServer(
	webhookService service.WebhookService,
	sellerService service.SellerService,
	purchaseService service.PurchaseService,
	logger *slog.Logger,
	opts Options,
) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(mw.RequestID())
	e.Use(mw.RequestLogger(logger))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		echo:            e,
		stripeHandler:   handler.NewStripeHandler(webhookService),
		sellerHandler:   handler.NewSellerHandler(sellerService, opts.ConnectReturnURL, opts.ConnectRefreshURL),
		purchaseHandler: handler.NewPurchaseHandler(purchaseService),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api.POST("/sellers", s.sellerHandler.CreateSeller)
	api.GET("/sellers/:id", s.sellerHandler.GetSeller)
	api.POST("/sellers/:id/connect", s.sellerHandler.Connect)

	api.GET("/purchases/:sessionID", s.purchaseHandler.GetPurchase)

	// -------- stripe webhooks --------
	api.POST("/stripe/webhook", s.stripeHandler.Webhook)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
