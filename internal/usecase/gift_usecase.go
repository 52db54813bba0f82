package usecase

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type GiftUsecase struct {
	tx    repo.TransactionManager
	clock Clock
}

func NewGiftUsecase(tx repo.TransactionManager, clock Clock) *GiftUsecase {
	return &GiftUsecase{tx: tx, clock: clock}
}

type GiftOutput struct {
	ID          int64     `json:"id"`
	SenderID    int64     `json:"sender_id"`
	RecipientID int64     `json:"recipient_id"`
	OrderItemID int64     `json:"order_item_id"`
	GiftDate    time.Time `json:"gift_date"`
	GameTitle   string    `json:"game_title"`
	Key         string    `json:"key,omitempty"`
}

// CreateGift は納品済み枠をギフトする。
//
// 枠は購入済み（OrderID非nil）でなければならない。
// IsGiftedは一度立てたら戻らないので、同じ枠は二度ギフトできない。
func (u *GiftUsecase) CreateGift(ctx context.Context, senderID int64, recipientID int64, orderItemID int64, callerID int64, callerRole model.Role) (GiftOutput, error) {
	if senderID <= 0 || recipientID <= 0 {
		return GiftOutput{}, NewHTTPError(http.StatusBadRequest, "invalid user id")
	}
	if orderItemID <= 0 {
		return GiftOutput{}, NewHTTPError(http.StatusBadRequest, "invalid order_item_id")
	}
	//送り主本人または管理者だけ
	if callerRole != model.RoleAdmin && callerID != senderID {
		return GiftOutput{}, NewHTTPError(http.StatusForbidden, "forbidden")
	}

	var out GiftOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		it, err := r.OrderItems().FindByID(ctx, orderItemID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//可視性：自分の注文の枠か、管理者か
		if callerRole != model.RoleAdmin {
			if it.OrderID == nil {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			o, err := r.Orders().FindByID(ctx, *it.OrderID)
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if o.UserID != callerID {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
		} else if it.OrderID == nil {
			//未購入の枠はギフトできない
			return NewHTTPError(http.StatusConflict, "order item not sold")
		}

		if it.IsGifted {
			return NewHTTPError(http.StatusConflict, "order item already gifted")
		}

		//受取人の存在チェック
		if _, err := r.Users().FindByID(ctx, recipientID); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusConflict, "recipient not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//条件付きUPDATE。同時ギフトはどちらか一方しか勝てない
		if err := r.OrderItems().MarkGifted(ctx, orderItemID); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusConflict, "order item already gifted")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		now := u.clock.Now()
		gift := model.Gift{
			SenderID:    senderID,
			RecipientID: recipientID,
			OrderItemID: orderItemID,
			GiftDate:    now,
			CreatedAt:   now,
		}
		giftID, err := r.Gifts().Create(ctx, gift)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		gift.ID = giftID

		//ゲームタイトルとキーを添えて返す
		var title string
		if g, err := r.Games().FindByID(ctx, it.GameID); err == nil {
			title = g.Title
		}

		var key string
		if it.Key != nil {
			key = *it.Key
		}

		out = GiftOutput{
			ID:          gift.ID,
			SenderID:    gift.SenderID,
			RecipientID: gift.RecipientID,
			OrderItemID: gift.OrderItemID,
			GiftDate:    gift.GiftDate,
			GameTitle:   title,
			Key:         key,
		}
		return nil
	})

	if err != nil {
		return GiftOutput{}, err
	}
	return out, nil
}

// DeleteGift は管理者の監査用削除。
// 記録を消すだけで、OrderItem.IsGiftedは戻さない（取り消しではない）。
func (u *GiftUsecase) DeleteGift(ctx context.Context, giftID int64, actorUserID int64, callerRole model.Role) error {
	if giftID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if callerRole != model.RoleAdmin {
		return NewHTTPError(http.StatusForbidden, "forbidden")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		g, err := r.Gifts().FindByID(ctx, giftID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.Gifts().DeleteByID(ctx, giftID); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//監査ログ（DELETE_GIFT）
		beforeJSON := fmt.Sprintf(
			`{"sender_id":%d,"recipient_id":%d,"order_item_id":%d}`,
			g.SenderID, g.RecipientID, g.OrderItemID,
		)
		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  actorUserID,
			Action:       model.AuditActionDeleteGift,
			ResourceType: model.AuditResourceGift,
			ResourceID:   giftID,
			BeforeJSON:   beforeJSON,
			AfterJSON:    `{}`,
			CreatedAt:    u.clock.Now(),
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		return nil
	})
}

func (u *GiftUsecase) ListMyGifts(ctx context.Context, userID int64) ([]GiftOutput, error) {
	if userID <= 0 {
		return []GiftOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var outs []GiftOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		gifts, err := r.Gifts().ListByUserID(ctx, userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs = make([]GiftOutput, 0, len(gifts))
		for _, g := range gifts {
			out := GiftOutput{
				ID:          g.ID,
				SenderID:    g.SenderID,
				RecipientID: g.RecipientID,
				OrderItemID: g.OrderItemID,
				GiftDate:    g.GiftDate,
			}

			if it, err := r.OrderItems().FindByID(ctx, g.OrderItemID); err == nil {
				if game, err := r.Games().FindByID(ctx, it.GameID); err == nil {
					out.GameTitle = game.Title
				}
				//キーは受取人と送り主にだけ見せる
				if it.Key != nil && (g.RecipientID == userID || g.SenderID == userID) {
					out.Key = *it.Key
				}
			}

			outs = append(outs, out)
		}
		return nil
	})

	if err != nil {
		return []GiftOutput{}, err
	}
	return outs, nil
}
