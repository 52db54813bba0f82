package server

import (
	"context"
	"log/slog"

	"app/internal/config"
	"app/internal/handler"
	"app/internal/middleware"

	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Auth       *handler.AuthHandler
	Game       *handler.GameHandler
	Cart       *handler.CartHandler
	Order      *handler.OrderHandler
	SellerItem *handler.SellerItemHandler
	Gift       *handler.GiftHandler
	AdminUser  *handler.AdminUserHandler
}

type Server struct {
	e *echo.Echo
}

func New(cfg config.Config, log *slog.Logger, h Handlers) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.RequestLogger(log))

	h.Auth.RegisterRoutes(e)
	h.Game.RegisterRoutes(e, cfg)
	h.Cart.RegisterRoutes(e, cfg)
	h.Order.RegisterRoutes(e, cfg)
	h.SellerItem.RegisterRoutes(e, cfg)
	h.Gift.RegisterRoutes(e, cfg)
	h.AdminUser.RegisterRoutes(e, cfg)

	return &Server{e: e}
}

func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}
