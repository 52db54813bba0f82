package repository

import (
	"context"

	"app/internal/domain/model"
)

type OrderItemRepository interface {
	FindByID(ctx context.Context, orderItemID int64) (model.OrderItem, error)
	FindByIDs(ctx context.Context, orderItemIDs []int64) ([]model.OrderItem, error)
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error)
	ListBySellerID(ctx context.Context, sellerID int64, page int, limit int) ([]model.OrderItem, int64, error)

	// 未販売枠の作成（セラー入庫）
	CreateBulk(ctx context.Context, items []model.OrderItem) error

	// 未販売・未ギフトの枠だけを注文に紐付ける。
	// 条件を満たさない（＝既に売れた/ギフト済み）場合は ErrNotFound。
	AttachToOrder(ctx context.Context, orderItemID int64, orderID int64) error

	SetKey(ctx context.Context, orderItemID int64, key string) error

	// まだギフトされていない枠だけ IsGifted を立てる。
	MarkGifted(ctx context.Context, orderItemID int64) error

	// ゲームの未販売枠数（カタログ表示用）
	CountAvailableByGameID(ctx context.Context, gameID int64) (int64, error)
}
