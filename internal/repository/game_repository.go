package repository

import (
	"context"

	"app/internal/domain/model"
)

// 一覧検索
type GameListQuery struct {
	Page  int
	Limit int
	Q     string
}

type GameRepository interface {
	ListForSale(ctx context.Context, q GameListQuery) ([]model.Game, int64, error)
	FindByID(ctx context.Context, gameID int64) (model.Game, error)

	Create(ctx context.Context, g model.Game) (model.Game, error)
	Update(ctx context.Context, g model.Game) error
}
