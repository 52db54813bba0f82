package usecase

import (
	"context"
	"net/http"
	"time"

	repo "app/internal/repository"
)

// キー納品の猶予。ここを過ぎて未納ならOVERDUE。
const KeyDeliveryWindow = 14 * 24 * time.Hour

type OrderStatusUsecase struct {
	tx    repo.TransactionManager
	clock Clock
}

func NewOrderStatusUsecase(tx repo.TransactionManager, clock Clock) *OrderStatusUsecase {
	return &OrderStatusUsecase{tx: tx, clock: clock}
}

type SweepResult struct {
	Checked   int `json:"checked"`
	Completed int `json:"completed"`
	Overdue   int `json:"overdue"`
}

// UpdateOrderStatuses は未終端（PENDING）の注文を全件見て
// 「全枠キー納品済み→COMPLETED」「14日経過→OVERDUE」を反映する。
// どちらでもない注文には書き込みをしない。終端の注文は対象外のまま触らない。
func (u *OrderStatusUsecase) UpdateOrderStatuses(ctx context.Context) (SweepResult, error) {
	var result SweepResult

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		ids, err := r.Orders().ListOpenIDs(ctx)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		now := u.clock.Now()

		for _, orderID := range ids {
			o, err := r.Orders().FindByID(ctx, orderID)
			if err == repo.ErrNotFound {
				continue
			}
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			result.Checked++

			items, err := r.OrderItems().ListByOrderID(ctx, orderID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			//空注文を完了扱いにしないためlen>0を要求
			allKeyed := len(items) > 0
			for _, it := range items {
				if !it.HasKey() {
					allKeyed = false
					break
				}
			}

			switch {
			case allKeyed:
				if err := r.Orders().MarkCompleted(ctx, orderID); err != nil && err != repo.ErrNotFound {
					return NewHTTPError(http.StatusInternalServerError, "db error")
				}
				result.Completed++

			case now.Sub(o.OrderDate) >= KeyDeliveryWindow:
				if err := r.Orders().MarkOverdue(ctx, orderID); err != nil && err != repo.ErrNotFound {
					return NewHTTPError(http.StatusInternalServerError, "db error")
				}
				result.Overdue++

			default:
				//どちらの条件も満たさない注文には書き込まない
			}
		}
		return nil
	})

	if err != nil {
		return SweepResult{}, err
	}
	return result, nil
}
