package handler

import (
	"net/http"
	"strconv"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type GiftHandler struct {
	uc *usecase.GiftUsecase
}

// DI
func NewGiftHandler(uc *usecase.GiftUsecase) *GiftHandler {
	return &GiftHandler{uc: uc}
}

type CreateGiftRequest struct {
	RecipientID int64 `json:"recipient_id"`
	OrderItemID int64 `json:"order_item_id"`
}

func (h *GiftHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/gifts")
	g.Use(middleware.AuthJWT(cfg))

	g.POST("", h.create)
	g.GET("", h.list)

	//削除は管理者のみ（監査用。IsGiftedは戻らない）
	g.DELETE("/:id", h.delete, middleware.AdminRoleGuard())
}

func (h *GiftHandler) create(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req CreateGiftRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.CreateGift(c.Request().Context(), userID, req.RecipientID, req.OrderItemID, userID, getRoleFromContext(c))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *GiftHandler) list(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.ListMyGifts(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *GiftHandler) delete(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.DeleteGift(c.Request().Context(), id, userID, getRoleFromContext(c)); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
