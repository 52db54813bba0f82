package repository

import (
	"context"

	"app/internal/domain/model"
)

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error)
	Create(ctx context.Context, order model.Order) (int64, error)

	// 未完了・未期限切れの注文ID一覧（スケジューラ用）
	ListOpenIDs(ctx context.Context) ([]int64, error)

	// 終端フラグを立てる。既に終端の注文には効かない（RowsAffected 0）。
	MarkCompleted(ctx context.Context, orderID int64) error
	MarkOverdue(ctx context.Context, orderID int64) error
}
