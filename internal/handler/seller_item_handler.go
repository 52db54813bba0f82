package handler

import (
	"net/http"
	"strconv"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// セラーのキー枠管理（入庫・一覧・キー納品）
type SellerItemHandler struct {
	uc *usecase.OrderItemUsecase
}

// DI
func NewSellerItemHandler(uc *usecase.OrderItemUsecase) *SellerItemHandler {
	return &SellerItemHandler{uc: uc}
}

type CreateSlotsRequest struct {
	GameID int64 `json:"game_id"`
	Count  int   `json:"count"`
}

type SetKeyRequest struct {
	Key string `json:"key"`
	//枠の持ち主のセラーID。管理者が代理で設定するときに使う
	SellerID int64 `json:"seller_id,omitempty"`
}

func (h *SellerItemHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/seller/items")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.SellerRoleGuard())

	g.POST("", h.createSlots)
	g.GET("", h.listSlots)
	g.PUT("/:id/key", h.setKey)
}

func (h *SellerItemHandler) createSlots(c echo.Context) error {
	var req CreateSlotsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	sellerID := getSellerIDFromContext(c)

	out, err := h.uc.CreateSlots(c.Request().Context(), sellerID, usecase.CreateSlotsInput{
		GameID: req.GameID,
		Count:  req.Count,
	}, sellerID, getRoleFromContext(c))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *SellerItemHandler) listSlots(c echo.Context) error {
	page := 1
	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page"})
		}
		page = p
	}

	limit := 50
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
		limit = l
	}

	sellerID := getSellerIDFromContext(c)

	items, total, err := h.uc.ListSellerSlots(c.Request().Context(), sellerID, page, limit, sellerID, getRoleFromContext(c))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"items": items,
		"total": total,
	})
}

func (h *SellerItemHandler) setKey(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req SetKeyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	callerSellerID := getSellerIDFromContext(c)

	//持ち主の指定が無ければ自分の枠として扱う
	sellerID := req.SellerID
	if sellerID == 0 {
		sellerID = callerSellerID
	}

	if err := h.uc.SetOrderItemKey(c.Request().Context(), id, req.Key, sellerID, callerSellerID, getRoleFromContext(c)); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
