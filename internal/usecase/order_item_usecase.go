package usecase

import (
	"context"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type OrderItemUsecase struct {
	tx    repo.TransactionManager
	clock Clock
}

func NewOrderItemUsecase(tx repo.TransactionManager, clock Clock) *OrderItemUsecase {
	return &OrderItemUsecase{tx: tx, clock: clock}
}

type SlotOutput struct {
	ID       int64  `json:"id"`
	GameID   int64  `json:"game_id"`
	SellerID int64  `json:"seller_id"`
	OrderID  *int64 `json:"order_id,omitempty"`
	HasKey   bool   `json:"has_key"`
	IsGifted bool   `json:"is_gifted"`
}

// SetOrderItemKey は販売済み枠にキーを入れる。
//
// sellerIDは「この枠の持ち主のはず」として呼び出し側が指定する値。
// 枠の実際のSellerIDと一致しなければ409（他人の枠へのキー設定を弾く）。
// ステータスはここでは触らない。完了判定はスケジューラに任せる。
func (u *OrderItemUsecase) SetOrderItemKey(ctx context.Context, orderItemID int64, key string, sellerID int64, callerSellerID int64, callerRole model.Role) error {
	if orderItemID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	//管理者か、本人のセラーだけ
	if callerRole != model.RoleAdmin {
		if callerRole != model.RoleSeller || callerSellerID != sellerID {
			return NewHTTPError(http.StatusForbidden, "forbidden")
		}
	}
	if strings.TrimSpace(key) == "" {
		return NewHTTPError(http.StatusBadRequest, "invalid key")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		it, err := r.OrderItems().FindByID(ctx, orderItemID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if it.SellerID != sellerID {
			return NewHTTPError(http.StatusConflict, "cannot set key for this order item")
		}

		if err := r.OrderItems().SetKey(ctx, orderItemID, key); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
}

type CreateSlotsInput struct {
	GameID int64
	Count  int
}

// セラーの入庫。未販売の枠をまとめて作る。
func (u *OrderItemUsecase) CreateSlots(ctx context.Context, sellerID int64, in CreateSlotsInput, callerSellerID int64, callerRole model.Role) ([]SlotOutput, error) {
	if callerRole != model.RoleAdmin {
		if callerRole != model.RoleSeller || callerSellerID != sellerID {
			return []SlotOutput{}, NewHTTPError(http.StatusForbidden, "forbidden")
		}
	}
	if in.GameID <= 0 {
		return []SlotOutput{}, NewHTTPError(http.StatusBadRequest, "invalid game_id")
	}
	if in.Count < 1 || in.Count > 100 {
		return []SlotOutput{}, NewHTTPError(http.StatusBadRequest, "invalid count")
	}

	var outs []SlotOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Sellers().FindByID(ctx, sellerID); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "seller not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if _, err := r.Games().FindByID(ctx, in.GameID); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "game not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		now := u.clock.Now()
		items := make([]model.OrderItem, 0, in.Count)
		for i := 0; i < in.Count; i++ {
			items = append(items, model.OrderItem{
				GameID:    in.GameID,
				SellerID:  sellerID,
				CreatedAt: now,
				UpdatedAt: now,
			})
		}

		if err := r.OrderItems().CreateBulk(ctx, items); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs = make([]SlotOutput, 0, len(items))
		for _, it := range items {
			outs = append(outs, toSlotOutput(it))
		}
		return nil
	})

	if err != nil {
		return []SlotOutput{}, err
	}
	return outs, nil
}

func (u *OrderItemUsecase) ListSellerSlots(ctx context.Context, sellerID int64, page int, limit int, callerSellerID int64, callerRole model.Role) ([]SlotOutput, int64, error) {
	if callerRole != model.RoleAdmin {
		if callerRole != model.RoleSeller || callerSellerID != sellerID {
			return []SlotOutput{}, 0, NewHTTPError(http.StatusForbidden, "forbidden")
		}
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}

	var outs []SlotOutput
	var total int64

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		items, t, err := r.OrderItems().ListBySellerID(ctx, sellerID, page, limit)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		total = t

		outs = make([]SlotOutput, 0, len(items))
		for _, it := range items {
			outs = append(outs, toSlotOutput(it))
		}
		return nil
	})

	if err != nil {
		return []SlotOutput{}, 0, err
	}
	return outs, total, nil
}

func toSlotOutput(it model.OrderItem) SlotOutput {
	return SlotOutput{
		ID:       it.ID,
		GameID:   it.GameID,
		SellerID: it.SellerID,
		OrderID:  it.OrderID,
		HasKey:   it.HasKey(),
		IsGifted: it.IsGifted,
	}
}
