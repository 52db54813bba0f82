package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

type UserRepository interface {
	Create(ctx context.Context, user model.User) (int64, error)
	FindByID(ctx context.Context, userID int64) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	UpdateLastLogin(ctx context.Context, userID int64) error

	// 残高が足りるときだけ引き落とす（足りないなら false）
	DebitBalanceIfEnough(ctx context.Context, userID int64, amount int64) (bool, error)

	// 残高加算（管理者チャージ）
	CreditBalance(ctx context.Context, userID int64, amount int64) error
}
