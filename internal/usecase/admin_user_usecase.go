package usecase

import (
	"context"
	"fmt"
	"net/http"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type AdminUserUsecase struct {
	tx    repo.TransactionManager
	clock Clock
}

func NewAdminUserUsecase(tx repo.TransactionManager, clock Clock) *AdminUserUsecase {
	return &AdminUserUsecase{tx: tx, clock: clock}
}

type TopUpBalanceInput struct {
	Amount int64
}

// 残高チャージ（管理者のみ）。決済プロバイダは無いのでここが入金経路。
func (u *AdminUserUsecase) TopUpBalance(ctx context.Context, actorUserID int64, targetUserID int64, in TopUpBalanceInput, callerRole model.Role) error {
	if callerRole != model.RoleAdmin {
		return NewHTTPError(http.StatusForbidden, "forbidden")
	}
	if targetUserID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if in.Amount <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid amount")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		user, err := r.Users().FindByID(ctx, targetUserID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.Users().CreditBalance(ctx, targetUserID, in.Amount); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//監査ログ（TOP_UP_BALANCE）
		beforeJSON := fmt.Sprintf(`{"balance":%d}`, user.Balance)
		afterJSON := fmt.Sprintf(`{"balance":%d}`, user.Balance+in.Amount)
		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  actorUserID,
			Action:       model.AuditActionTopUpBalance,
			ResourceType: model.AuditResourceUser,
			ResourceID:   targetUserID,
			BeforeJSON:   beforeJSON,
			AfterJSON:    afterJSON,
			CreatedAt:    u.clock.Now(),
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		return nil
	})
}
