package repository

import (
	"context"

	"app/internal/domain/model"
)

type GiftRepository interface {
	Create(ctx context.Context, gift model.Gift) (int64, error)
	FindByID(ctx context.Context, giftID int64) (model.Gift, error)
	ListByUserID(ctx context.Context, userID int64) ([]model.Gift, error)
	DeleteByID(ctx context.Context, giftID int64) error
}
