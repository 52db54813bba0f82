package usecase

import (
	"context"
	"net/http"

	repo "app/internal/repository"
)

// CartUsecase は /cart の業務ロジック。
// カート明細は未販売のOrderItem枠1つへの予約で、所有権は移らない。
type CartUsecase struct {
	cartRepo      repo.CartRepository
	cartItemRepo  repo.CartItemRepository
	orderItemRepo repo.OrderItemRepository
	gameRepo      repo.GameRepository
}

func NewCartUsecase(
	cartRepo repo.CartRepository,
	cartItemRepo repo.CartItemRepository,
	orderItemRepo repo.OrderItemRepository,
	gameRepo repo.GameRepository,
) *CartUsecase {
	return &CartUsecase{
		cartRepo:      cartRepo,
		cartItemRepo:  cartItemRepo,
		orderItemRepo: orderItemRepo,
		gameRepo:      gameRepo,
	}
}

type CartItemResponse struct {
	ID          int64  `json:"id"`
	OrderItemID int64  `json:"order_item_id"`
	GameID      int64  `json:"game_id"`
	Title       string `json:"title"`
	Price       int64  `json:"price"`
}

type CartResponse struct {
	Items []CartItemResponse `json:"items"`
	Total int64              `json:"total"`
}

type AddCartInput struct {
	OrderItemID int64
}

// GetCart はカート取得（無ければACTIVEを作って空を返す）。
func (u *CartUsecase) GetCart(ctx context.Context, userID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	cart, err := u.cartRepo.GetOrCreateActiveByUserID(ctx, userID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildCartResponse(ctx, cart.ID)
}

// AddToCart は未販売・未ギフトの枠を予約する。
func (u *CartUsecase) AddToCart(ctx context.Context, userID int64, in AddCartInput) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.OrderItemID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid order_item_id")
	}

	// ACTIVEカート取得（無ければ作成）
	cart, err := u.cartRepo.GetOrCreateActiveByUserID(ctx, userID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//枠チェック（未販売・未ギフトのみ予約できる）
	it, err := u.orderItemRepo.FindByID(ctx, in.OrderItemID)
	if err == repo.ErrNotFound {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if it.OrderID != nil {
		return CartResponse{}, NewHTTPError(http.StatusConflict, "order item already sold")
	}
	if it.IsGifted {
		return CartResponse{}, NewHTTPError(http.StatusConflict, "order item already gifted")
	}

	//ゲームが販売中か
	g, err := u.gameRepo.FindByID(ctx, it.GameID)
	if err == repo.ErrNotFound {
		return CartResponse{}, NewHTTPError(http.StatusConflict, "game not for sale")
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !g.IsForSale {
		return CartResponse{}, NewHTTPError(http.StatusConflict, "game not for sale")
	}

	//同じ枠の二重予約は作らない
	if err := u.cartItemRepo.AddIfAbsent(ctx, cart.ID, in.OrderItemID); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildCartResponse(ctx, cart.ID)
}

// 明細削除
func (u *CartUsecase) RemoveFromCart(ctx context.Context, userID int64, cartItemID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if cartItemID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	owned, err := u.cartItemRepo.IsOwnedByUser(ctx, cartItemID, userID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !owned {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	if err := u.cartItemRepo.DeleteByID(ctx, cartItemID); err != nil {
		if err == repo.ErrNotFound {
			return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	cart, err := u.cartRepo.FindActiveByUserID(ctx, userID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return u.buildCartResponse(ctx, cart.ID)
}

// cartIDの明細をまとめてCartResponseを作る。
// 販売終了・売却済みになった予約は表示から落とす（購入時に改めて検証される）。
func (u *CartUsecase) buildCartResponse(ctx context.Context, cartID int64) (CartResponse, error) {
	items, err := u.cartItemRepo.ListByCartID(ctx, cartID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	respItems := make([]CartItemResponse, 0, len(items))
	var total int64 = 0

	for _, ci := range items {
		it, err := u.orderItemRepo.FindByID(ctx, ci.OrderItemID)
		if err != nil {
			continue
		}
		if it.OrderID != nil || it.IsGifted {
			continue
		}

		g, err := u.gameRepo.FindByID(ctx, it.GameID)
		if err != nil {
			continue
		}
		if !g.IsForSale {
			continue
		}

		respItems = append(respItems, CartItemResponse{
			ID:          ci.ID,
			OrderItemID: ci.OrderItemID,
			GameID:      g.ID,
			Title:       g.Title,
			Price:       g.Price,
		})

		total += g.Price
	}

	return CartResponse{Items: respItems, Total: total}, nil
}
