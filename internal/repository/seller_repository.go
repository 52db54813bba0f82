package repository

import (
	"context"

	"app/internal/domain/model"
)

type SellerRepository interface {
	Create(ctx context.Context, seller model.Seller) (int64, error)
	FindByID(ctx context.Context, sellerID int64) (model.Seller, error)
	FindByUserID(ctx context.Context, userID int64) (model.Seller, error)
}
