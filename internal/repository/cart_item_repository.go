package repository

import (
	"context"

	"app/internal/domain/model"
)

type CartItemRepository interface {
	ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error)
	// 同じ枠の二重予約は作らない
	AddIfAbsent(ctx context.Context, cartID int64, orderItemID int64) error
	DeleteByID(ctx context.Context, cartItemID int64) error
	FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error)
	IsOwnedByUser(ctx context.Context, cartItemID int64, userID int64) (bool, error)

	// 購入で消費された枠の予約を全カートから外す
	DeleteByOrderItemIDs(ctx context.Context, orderItemIDs []int64) error
}
