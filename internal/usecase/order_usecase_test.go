package usecase_test

import (
	"context"
	"testing"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type orderTestEnv struct {
	tx         *TxManagerMock
	users      *UserRepoMock
	games      *GameRepoMock
	orders     *OrderRepoMock
	orderItems *OrderItemRepoMock
	carts      *CartRepoMock
	cartItems  *CartItemRepoMock
	uc         *usecase.OrderUsecase
	now        time.Time
}

func newOrderTestEnv() *orderTestEnv {
	users := new(UserRepoMock)
	games := new(GameRepoMock)
	orders := new(OrderRepoMock)
	orderItems := new(OrderItemRepoMock)
	carts := new(CartRepoMock)
	cartItems := new(CartItemRepoMock)

	tx := &TxManagerMock{Repos: &TxReposMock{
		users:      users,
		games:      games,
		orders:     orders,
		orderItems: orderItems,
		carts:      carts,
		cartItems:  cartItems,
	}}

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	return &orderTestEnv{
		tx:         tx,
		users:      users,
		games:      games,
		orders:     orders,
		orderItems: orderItems,
		carts:      carts,
		cartItems:  cartItems,
		uc:         usecase.NewOrderUsecase(tx, fixedClock{t: now}),
		now:        now,
	}
}

func TestCreateOrder_Success(t *testing.T) {
	env := newOrderTestEnv()
	ctx := context.Background()

	env.tx.On("WithinTx", mock.Anything).Return(nil)
	env.carts.On("FindActiveByUserID", mock.Anything, int64(5)).
		Return(model.Cart{ID: 10, UserID: 5, Status: model.CartStatusActive}, nil)
	env.cartItems.On("ListByCartID", mock.Anything, int64(10)).
		Return([]model.CartItem{
			{ID: 1, CartID: 10, OrderItemID: 101},
			{ID: 2, CartID: 10, OrderItemID: 102},
		}, nil)
	env.users.On("FindByID", mock.Anything, int64(5)).
		Return(model.User{ID: 5, Balance: 200}, nil)
	env.orderItems.On("FindByIDs", mock.Anything, []int64{101, 102}).
		Return([]model.OrderItem{
			{ID: 101, GameID: 7, SellerID: 3},
			{ID: 102, GameID: 8, SellerID: 3},
		}, nil)
	env.games.On("FindByID", mock.Anything, int64(7)).
		Return(model.Game{ID: 7, Title: "Game A", Price: 50, IsForSale: true}, nil)
	env.games.On("FindByID", mock.Anything, int64(8)).
		Return(model.Game{ID: 8, Title: "Game B", Price: 70, IsForSale: true}, nil)

	//合計120・PENDINGで作成される
	env.orders.On("Create", mock.Anything, model.Order{
		UserID:     5,
		OrderDate:  env.now,
		TotalPrice: 120,
		CreatedAt:  env.now,
		UpdatedAt:  env.now,
	}).Return(int64(900), nil)

	env.orderItems.On("AttachToOrder", mock.Anything, int64(101), int64(900)).Return(nil)
	env.orderItems.On("AttachToOrder", mock.Anything, int64(102), int64(900)).Return(nil)
	env.users.On("DebitBalanceIfEnough", mock.Anything, int64(5), int64(120)).Return(true, nil)
	env.cartItems.On("DeleteByOrderItemIDs", mock.Anything, []int64{101, 102}).Return(nil)

	out, err := env.uc.CreateOrder(ctx, 5, nil, 5, model.RoleUser)

	assert.NoError(t, err)
	assert.Equal(t, int64(900), out.ID)
	assert.Equal(t, int64(120), out.TotalPrice)
	assert.Equal(t, "PENDING", out.Status)
	assert.Equal(t, env.now, out.OrderDate)
	assert.Len(t, out.Items, 2)

	env.orders.AssertExpectations(t)
	env.users.AssertExpectations(t)
	env.orderItems.AssertExpectations(t)
	env.cartItems.AssertExpectations(t)
}

func TestCreateOrder_ForbiddenForOtherUser(t *testing.T) {
	env := newOrderTestEnv()

	_, err := env.uc.CreateOrder(context.Background(), 5, nil, 6, model.RoleUser)

	assertErrContains(t, err, "forbidden")
	httpErr, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 403, httpErr.Status)
	//トランザクション自体が始まらない
	env.tx.AssertNotCalled(t, "WithinTx", mock.Anything)
}

func TestCreateOrder_AdminCanOrderOnBehalf(t *testing.T) {
	env := newOrderTestEnv()

	env.tx.On("WithinTx", mock.Anything).Return(nil)
	env.carts.On("FindActiveByUserID", mock.Anything, int64(5)).
		Return(model.Cart{ID: 10, UserID: 5, Status: model.CartStatusActive}, nil)
	env.cartItems.On("ListByCartID", mock.Anything, int64(10)).
		Return([]model.CartItem{{ID: 1, CartID: 10, OrderItemID: 101}}, nil)
	env.users.On("FindByID", mock.Anything, int64(5)).
		Return(model.User{ID: 5, Balance: 100}, nil)
	env.orderItems.On("FindByIDs", mock.Anything, []int64{101}).
		Return([]model.OrderItem{{ID: 101, GameID: 7, SellerID: 3}}, nil)
	env.games.On("FindByID", mock.Anything, int64(7)).
		Return(model.Game{ID: 7, Price: 50, IsForSale: true}, nil)
	env.orders.On("Create", mock.Anything, mock.Anything).Return(int64(901), nil)
	env.orderItems.On("AttachToOrder", mock.Anything, int64(101), int64(901)).Return(nil)
	env.users.On("DebitBalanceIfEnough", mock.Anything, int64(5), int64(50)).Return(true, nil)
	env.cartItems.On("DeleteByOrderItemIDs", mock.Anything, []int64{101}).Return(nil)

	out, err := env.uc.CreateOrder(context.Background(), 5, nil, 999, model.RoleAdmin)

	assert.NoError(t, err)
	assert.Equal(t, int64(5), out.UserID)
}

func TestCreateOrder_CartNotFound(t *testing.T) {
	env := newOrderTestEnv()

	env.tx.On("WithinTx", mock.Anything).Return(nil)
	env.carts.On("FindActiveByUserID", mock.Anything, int64(5)).
		Return(model.Cart{}, repo.ErrNotFound)

	_, err := env.uc.CreateOrder(context.Background(), 5, nil, 5, model.RoleUser)

	assertErrContains(t, err, "cart not found")
	httpErr, _ := usecase.AsHTTPError(err)
	assert.Equal(t, 404, httpErr.Status)
}

func TestCreateOrder_EmptyCart(t *testing.T) {
	env := newOrderTestEnv()

	env.tx.On("WithinTx", mock.Anything).Return(nil)
	env.carts.On("FindActiveByUserID", mock.Anything, int64(5)).
		Return(model.Cart{ID: 10}, nil)
	env.cartItems.On("ListByCartID", mock.Anything, int64(10)).
		Return([]model.CartItem{}, nil)

	_, err := env.uc.CreateOrder(context.Background(), 5, nil, 5, model.RoleUser)

	assertErrContains(t, err, "cart empty")
	env.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateOrder_RequestedItemNotInCart(t *testing.T) {
	env := newOrderTestEnv()

	env.tx.On("WithinTx", mock.Anything).Return(nil)
	env.carts.On("FindActiveByUserID", mock.Anything, int64(5)).
		Return(model.Cart{ID: 10}, nil)
	env.cartItems.On("ListByCartID", mock.Anything, int64(10)).
		Return([]model.CartItem{{ID: 1, CartID: 10, OrderItemID: 101}}, nil)

	//102はカートに無い
	_, err := env.uc.CreateOrder(context.Background(), 5, []int64{101, 102}, 5, model.RoleUser)

	assertErrContains(t, err, "items not found in cart")
	httpErr, _ := usecase.AsHTTPError(err)
	assert.Equal(t, 409, httpErr.Status)
	env.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateOrder_BlockedUser(t *testing.T) {
	env := newOrderTestEnv()

	env.tx.On("WithinTx", mock.Anything).Return(nil)
	env.carts.On("FindActiveByUserID", mock.Anything, int64(5)).
		Return(model.Cart{ID: 10}, nil)
	env.cartItems.On("ListByCartID", mock.Anything, int64(10)).
		Return([]model.CartItem{{ID: 1, CartID: 10, OrderItemID: 101}}, nil)
	env.users.On("FindByID", mock.Anything, int64(5)).
		Return(model.User{ID: 5, Balance: 1000, IsBlocked: true}, nil)

	_, err := env.uc.CreateOrder(context.Background(), 5, nil, 5, model.RoleUser)

	assertErrContains(t, err, "user is blocked")
	env.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	env.users.AssertNotCalled(t, "DebitBalanceIfEnough", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateOrder_ItemAlreadySold(t *testing.T) {
	env := newOrderTestEnv()

	env.tx.On("WithinTx", mock.Anything).Return(nil)
	env.carts.On("FindActiveByUserID", mock.Anything, int64(5)).
		Return(model.Cart{ID: 10}, nil)
	env.cartItems.On("ListByCartID", mock.Anything, int64(10)).
		Return([]model.CartItem{{ID: 1, CartID: 10, OrderItemID: 101}}, nil)
	env.users.On("FindByID", mock.Anything, int64(5)).
		Return(model.User{ID: 5, Balance: 1000}, nil)
	env.orderItems.On("FindByIDs", mock.Anything, []int64{101}).
		Return([]model.OrderItem{{ID: 101, GameID: 7, OrderID: ptrInt64(800)}}, nil)

	_, err := env.uc.CreateOrder(context.Background(), 5, nil, 5, model.RoleUser)

	assertErrContains(t, err, "order item already sold")
	env.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateOrder_ItemAlreadyGifted(t *testing.T) {
	env := newOrderTestEnv()

	env.tx.On("WithinTx", mock.Anything).Return(nil)
	env.carts.On("FindActiveByUserID", mock.Anything, int64(5)).
		Return(model.Cart{ID: 10}, nil)
	env.cartItems.On("ListByCartID", mock.Anything, int64(10)).
		Return([]model.CartItem{{ID: 1, CartID: 10, OrderItemID: 101}}, nil)
	env.users.On("FindByID", mock.Anything, int64(5)).
		Return(model.User{ID: 5, Balance: 1000}, nil)
	env.orderItems.On("FindByIDs", mock.Anything, []int64{101}).
		Return([]model.OrderItem{{ID: 101, GameID: 7, IsGifted: true}}, nil)

	_, err := env.uc.CreateOrder(context.Background(), 5, nil, 5, model.RoleUser)

	assertErrContains(t, err, "order item already gifted")
	env.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateOrder_GameNotForSale(t *testing.T) {
	env := newOrderTestEnv()

	env.tx.On("WithinTx", mock.Anything).Return(nil)
	env.carts.On("FindActiveByUserID", mock.Anything, int64(5)).
		Return(model.Cart{ID: 10}, nil)
	env.cartItems.On("ListByCartID", mock.Anything, int64(10)).
		Return([]model.CartItem{{ID: 1, CartID: 10, OrderItemID: 101}}, nil)
	env.users.On("FindByID", mock.Anything, int64(5)).
		Return(model.User{ID: 5, Balance: 1000}, nil)
	env.orderItems.On("FindByIDs", mock.Anything, []int64{101}).
		Return([]model.OrderItem{{ID: 101, GameID: 7}}, nil)
	env.games.On("FindByID", mock.Anything, int64(7)).
		Return(model.Game{ID: 7, Price: 50, IsForSale: false}, nil)

	_, err := env.uc.CreateOrder(context.Background(), 5, nil, 5, model.RoleUser)

	assertErrContains(t, err, "game not for sale")
	env.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateOrder_InsufficientBalance(t *testing.T) {
	env := newOrderTestEnv()

	env.tx.On("WithinTx", mock.Anything).Return(nil)
	env.carts.On("FindActiveByUserID", mock.Anything, int64(5)).
		Return(model.Cart{ID: 10}, nil)
	env.cartItems.On("ListByCartID", mock.Anything, int64(10)).
		Return([]model.CartItem{{ID: 1, CartID: 10, OrderItemID: 101}}, nil)
	env.users.On("FindByID", mock.Anything, int64(5)).
		Return(model.User{ID: 5, Balance: 20}, nil)
	env.orderItems.On("FindByIDs", mock.Anything, []int64{101}).
		Return([]model.OrderItem{{ID: 101, GameID: 7}}, nil)
	env.games.On("FindByID", mock.Anything, int64(7)).
		Return(model.Game{ID: 7, Price: 50, IsForSale: true}, nil)

	_, err := env.uc.CreateOrder(context.Background(), 5, nil, 5, model.RoleUser)

	assertErrContains(t, err, "insufficient balance")
	httpErr, _ := usecase.AsHTTPError(err)
	assert.Equal(t, 409, httpErr.Status)

	//注文も引き落としも走らない
	env.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	env.users.AssertNotCalled(t, "DebitBalanceIfEnough", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateOrder_LostConcurrentAttach(t *testing.T) {
	env := newOrderTestEnv()

	env.tx.On("WithinTx", mock.Anything).Return(nil)
	env.carts.On("FindActiveByUserID", mock.Anything, int64(5)).
		Return(model.Cart{ID: 10}, nil)
	env.cartItems.On("ListByCartID", mock.Anything, int64(10)).
		Return([]model.CartItem{{ID: 1, CartID: 10, OrderItemID: 101}}, nil)
	env.users.On("FindByID", mock.Anything, int64(5)).
		Return(model.User{ID: 5, Balance: 1000}, nil)
	env.orderItems.On("FindByIDs", mock.Anything, []int64{101}).
		Return([]model.OrderItem{{ID: 101, GameID: 7}}, nil)
	env.games.On("FindByID", mock.Anything, int64(7)).
		Return(model.Game{ID: 7, Price: 50, IsForSale: true}, nil)
	env.orders.On("Create", mock.Anything, mock.Anything).Return(int64(900), nil)

	//同じ枠を別注文が先に取った（条件付きUPDATEが0行）
	env.orderItems.On("AttachToOrder", mock.Anything, int64(101), int64(900)).
		Return(repo.ErrNotFound)

	_, err := env.uc.CreateOrder(context.Background(), 5, nil, 5, model.RoleUser)

	assertErrContains(t, err, "order item already sold")
	env.users.AssertNotCalled(t, "DebitBalanceIfEnough", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetOrderDetail_OtherUsersOrderIsHidden(t *testing.T) {
	env := newOrderTestEnv()

	env.tx.On("WithinTx", mock.Anything).Return(nil)
	env.orders.On("FindByID", mock.Anything, int64(900)).
		Return(model.Order{ID: 900, UserID: 5}, nil)

	_, err := env.uc.GetOrderDetail(context.Background(), 900, 6, model.RoleUser)

	httpErr, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 404, httpErr.Status)
}
