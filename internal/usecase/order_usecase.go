package usecase

import (
	"context"
	"net/http"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type OrderUsecase struct {
	tx    repo.TransactionManager
	clock Clock
}

func NewOrderUsecase(tx repo.TransactionManager, clock Clock) *OrderUsecase {
	return &OrderUsecase{tx: tx, clock: clock}
}

type OrderItemOutput struct {
	OrderItemID int64  `json:"order_item_id"`
	GameID      int64  `json:"game_id"`
	Title       string `json:"title"`
	Price       int64  `json:"price"`
	HasKey      bool   `json:"has_key"`
}

type OrderOutput struct {
	ID          int64             `json:"id"`
	UserID      int64             `json:"user_id"`
	OrderDate   time.Time         `json:"order_date"`
	TotalPrice  int64             `json:"total_price"`
	Status      string            `json:"status"`
	IsCompleted bool              `json:"is_completed"`
	IsOverdue   bool              `json:"is_overdue"`
	Items       []OrderItemOutput `json:"items"`
}

// CreateOrder はカートの予約枠を支払い済み注文に変換する。
//
// requestedItemIDsが空なら今カートにある全枠が対象。空でなければ
// 全idがカートに存在しないと失敗する（カート外の枠は買えない）。
// 検証は全て書き込みの前。1枠でも不正なら注文ごと失敗し、何も書かない。
func (u *OrderUsecase) CreateOrder(ctx context.Context, userID int64, requestedItemIDs []int64, callerID int64, callerRole model.Role) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid user_id")
	}
	//本人または管理者だけ
	if callerRole != model.RoleAdmin && callerID != userID {
		return OrderOutput{}, NewHTTPError(http.StatusForbidden, "forbidden")
	}

	var out OrderOutput

	//注文処理はトランザクション
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//ACTIVEカート取得
		cart, err := r.Carts().FindActiveByUserID(ctx, userID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "cart not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//カート明細取得
		cartItems, err := r.CartItems().ListByCartID(ctx, cart.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//対象枠の決定：指定なしなら全部、指定ありなら全idがカート内に必要
		inCart := make(map[int64]bool, len(cartItems))
		for _, ci := range cartItems {
			inCart[ci.OrderItemID] = true
		}

		var effectiveIDs []int64
		if len(requestedItemIDs) == 0 {
			effectiveIDs = make([]int64, 0, len(cartItems))
			for _, ci := range cartItems {
				effectiveIDs = append(effectiveIDs, ci.OrderItemID)
			}
		} else {
			effectiveIDs = make([]int64, 0, len(requestedItemIDs))
			for _, id := range requestedItemIDs {
				if !inCart[id] {
					return NewHTTPError(http.StatusConflict, "items not found in cart")
				}
				effectiveIDs = append(effectiveIDs, id)
			}
		}

		if len(effectiveIDs) == 0 {
			return NewHTTPError(http.StatusConflict, "cart empty")
		}

		//購入者チェック（ブロック済みは購入不可）
		user, err := r.Users().FindByID(ctx, userID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusConflict, "user not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if user.IsBlocked {
			return NewHTTPError(http.StatusConflict, "user is blocked")
		}

		//枠の状態チェック（1枠でもNGなら全体を中止）
		items, err := r.OrderItems().FindByIDs(ctx, effectiveIDs)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if len(items) != len(effectiveIDs) {
			return NewHTTPError(http.StatusConflict, "items not found in cart")
		}

		//価格はこの時点のスナップショット
		games := make(map[int64]model.Game, len(items))
		var total int64 = 0

		for _, it := range items {
			if it.OrderID != nil {
				return NewHTTPError(http.StatusConflict, "order item already sold")
			}
			if it.IsGifted {
				return NewHTTPError(http.StatusConflict, "order item already gifted")
			}

			g, ok := games[it.GameID]
			if !ok {
				g, err = r.Games().FindByID(ctx, it.GameID)
				if err == repo.ErrNotFound {
					return NewHTTPError(http.StatusConflict, "game not for sale")
				}
				if err != nil {
					return NewHTTPError(http.StatusInternalServerError, "db error")
				}
				games[it.GameID] = g
			}
			if !g.IsForSale {
				return NewHTTPError(http.StatusConflict, "game not for sale")
			}

			total += g.Price
		}

		//残高チェック（足りなければ引き落とし前に中止）
		if total > user.Balance {
			return NewHTTPError(http.StatusConflict, "insufficient balance")
		}

		//注文作成（PENDING）
		now := u.clock.Now()
		orderID, err := r.Orders().Create(ctx, model.Order{
			UserID:     userID,
			OrderDate:  now,
			TotalPrice: total,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//枠を注文に紐付け。条件付きUPDATEなので同時購入に負けたらここで止まる
		for _, it := range items {
			if err := r.OrderItems().AttachToOrder(ctx, it.ID, orderID); err != nil {
				if err == repo.ErrNotFound {
					return NewHTTPError(http.StatusConflict, "order item already sold")
				}
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		//残高引き落とし
		ok, err := r.Users().DebitBalanceIfEnough(ctx, userID, total)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !ok {
			return NewHTTPError(http.StatusConflict, "insufficient balance")
		}

		//消費済み枠の予約を全カートから外す
		if err := r.CartItems().DeleteByOrderItemIDs(ctx, effectiveIDs); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		created := model.Order{
			ID:         orderID,
			UserID:     userID,
			OrderDate:  now,
			TotalPrice: total,
		}
		out = toOrderOutput(created, items, games)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64) ([]OrderOutput, error) {
	if userID <= 0 {
		return []OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, _, err := r.Orders().ListByUserID(ctx, userID, 1, 50)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			outs = append(outs, toOrderOutput(o, items, u.loadGames(ctx, r, items)))
		}
		return nil
	})

	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

func (u *OrderUsecase) GetOrderDetail(ctx context.Context, orderID int64, callerID int64, callerRole model.Role) (OrderOutput, error) {
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if callerRole != model.RoleAdmin && o.UserID != callerID {
			//他人の注文は「存在しない扱い」にする
			return NewHTTPError(http.StatusNotFound, "not found")
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = toOrderOutput(o, items, u.loadGames(ctx, r, items))
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// 表示用のタイトル引き。取れないゲームは空タイトルのまま返す
func (u *OrderUsecase) loadGames(ctx context.Context, r repo.TxRepos, items []model.OrderItem) map[int64]model.Game {
	games := make(map[int64]model.Game, len(items))
	for _, it := range items {
		if _, ok := games[it.GameID]; ok {
			continue
		}
		g, err := r.Games().FindByID(ctx, it.GameID)
		if err != nil {
			continue
		}
		games[it.GameID] = g
	}
	return games
}

func toOrderOutput(o model.Order, items []model.OrderItem, games map[int64]model.Game) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			OrderItemID: it.ID,
			GameID:      it.GameID,
			Title:       games[it.GameID].Title,
			Price:       games[it.GameID].Price,
			HasKey:      it.HasKey(),
		})
	}

	return OrderOutput{
		ID:          o.ID,
		UserID:      o.UserID,
		OrderDate:   o.OrderDate,
		TotalPrice:  o.TotalPrice,
		Status:      string(o.Status()),
		IsCompleted: o.IsCompleted,
		IsOverdue:   o.IsOverdue,
		Items:       outItems,
	}
}
