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

type slotTestEnv struct {
	tx         *TxManagerMock
	sellers    *SellerRepoMock
	games      *GameRepoMock
	orderItems *OrderItemRepoMock
	uc         *usecase.OrderItemUsecase
	now        time.Time
}

func newSlotTestEnv() *slotTestEnv {
	sellers := new(SellerRepoMock)
	games := new(GameRepoMock)
	orderItems := new(OrderItemRepoMock)

	tx := &TxManagerMock{Repos: &TxReposMock{
		sellers:    sellers,
		games:      games,
		orderItems: orderItems,
	}}

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	return &slotTestEnv{
		tx:         tx,
		sellers:    sellers,
		games:      games,
		orderItems: orderItems,
		uc:         usecase.NewOrderItemUsecase(tx, fixedClock{t: now}),
		now:        now,
	}
}

func TestSetOrderItemKey_Success(t *testing.T) {
	env := newSlotTestEnv()

	env.tx.On("WithinTx", mock.Anything).Return(nil)
	env.orderItems.On("FindByID", mock.Anything, int64(101)).
		Return(model.OrderItem{ID: 101, SellerID: 3, OrderID: ptrInt64(900)}, nil)
	env.orderItems.On("SetKey", mock.Anything, int64(101), "AAAA-BBBB-CCCC").Return(nil)

	err := env.uc.SetOrderItemKey(context.Background(), 101, "AAAA-BBBB-CCCC", 3, 3, model.RoleSeller)

	assert.NoError(t, err)
	env.orderItems.AssertExpectations(t)
}

func TestSetOrderItemKey_AdminCanSetForAnySeller(t *testing.T) {
	env := newSlotTestEnv()

	env.tx.On("WithinTx", mock.Anything).Return(nil)
	env.orderItems.On("FindByID", mock.Anything, int64(101)).
		Return(model.OrderItem{ID: 101, SellerID: 3}, nil)
	env.orderItems.On("SetKey", mock.Anything, int64(101), "AAAA").Return(nil)

	err := env.uc.SetOrderItemKey(context.Background(), 101, "AAAA", 3, 0, model.RoleAdmin)

	assert.NoError(t, err)
}

func TestSetOrderItemKey_ForbiddenForOtherSeller(t *testing.T) {
	env := newSlotTestEnv()

	err := env.uc.SetOrderItemKey(context.Background(), 101, "AAAA", 3, 4, model.RoleSeller)

	httpErr, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 403, httpErr.Status)
	env.tx.AssertNotCalled(t, "WithinTx", mock.Anything)
}

func TestSetOrderItemKey_ForbiddenForPlainUser(t *testing.T) {
	env := newSlotTestEnv()

	err := env.uc.SetOrderItemKey(context.Background(), 101, "AAAA", 3, 3, model.RoleUser)

	httpErr, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 403, httpErr.Status)
}

func TestSetOrderItemKey_EmptyKeyRejected(t *testing.T) {
	env := newSlotTestEnv()

	err := env.uc.SetOrderItemKey(context.Background(), 101, "   ", 3, 3, model.RoleSeller)

	assertErrContains(t, err, "invalid key")
	httpErr, _ := usecase.AsHTTPError(err)
	assert.Equal(t, 400, httpErr.Status)
	env.tx.AssertNotCalled(t, "WithinTx", mock.Anything)
}

func TestSetOrderItemKey_NotFound(t *testing.T) {
	env := newSlotTestEnv()

	env.tx.On("WithinTx", mock.Anything).Return(nil)
	env.orderItems.On("FindByID", mock.Anything, int64(101)).
		Return(model.OrderItem{}, repo.ErrNotFound)

	err := env.uc.SetOrderItemKey(context.Background(), 101, "AAAA", 3, 3, model.RoleSeller)

	httpErr, _ := usecase.AsHTTPError(err)
	assert.Equal(t, 404, httpErr.Status)
}

func TestSetOrderItemKey_SlotOwnedByAnotherSeller(t *testing.T) {
	env := newSlotTestEnv()

	//管理者がsellerID=3として設定しようとしたが、枠の実際の持ち主は4
	env.tx.On("WithinTx", mock.Anything).Return(nil)
	env.orderItems.On("FindByID", mock.Anything, int64(101)).
		Return(model.OrderItem{ID: 101, SellerID: 4}, nil)

	err := env.uc.SetOrderItemKey(context.Background(), 101, "AAAA", 3, 0, model.RoleAdmin)

	assertErrContains(t, err, "cannot set key for this order item")
	httpErr, _ := usecase.AsHTTPError(err)
	assert.Equal(t, 409, httpErr.Status)
	env.orderItems.AssertNotCalled(t, "SetKey", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateSlots_Success(t *testing.T) {
	env := newSlotTestEnv()

	env.tx.On("WithinTx", mock.Anything).Return(nil)
	env.sellers.On("FindByID", mock.Anything, int64(3)).
		Return(model.Seller{ID: 3}, nil)
	env.games.On("FindByID", mock.Anything, int64(7)).
		Return(model.Game{ID: 7, IsForSale: true}, nil)
	env.orderItems.On("CreateBulk", mock.Anything, mock.MatchedBy(func(items []model.OrderItem) bool {
		if len(items) != 3 {
			return false
		}
		for _, it := range items {
			if it.GameID != 7 || it.SellerID != 3 {
				return false
			}
		}
		return true
	})).Return(nil)

	outs, err := env.uc.CreateSlots(context.Background(), 3, usecase.CreateSlotsInput{GameID: 7, Count: 3}, 3, model.RoleSeller)

	assert.NoError(t, err)
	assert.Len(t, outs, 3)
	env.orderItems.AssertExpectations(t)
}

func TestCreateSlots_InvalidCount(t *testing.T) {
	env := newSlotTestEnv()

	_, err := env.uc.CreateSlots(context.Background(), 3, usecase.CreateSlotsInput{GameID: 7, Count: 0}, 3, model.RoleSeller)
	assertErrContains(t, err, "invalid count")

	_, err = env.uc.CreateSlots(context.Background(), 3, usecase.CreateSlotsInput{GameID: 7, Count: 101}, 3, model.RoleSeller)
	assertErrContains(t, err, "invalid count")

	env.tx.AssertNotCalled(t, "WithinTx", mock.Anything)
}

func TestCreateSlots_GameNotFound(t *testing.T) {
	env := newSlotTestEnv()

	env.tx.On("WithinTx", mock.Anything).Return(nil)
	env.sellers.On("FindByID", mock.Anything, int64(3)).
		Return(model.Seller{ID: 3}, nil)
	env.games.On("FindByID", mock.Anything, int64(7)).
		Return(model.Game{}, repo.ErrNotFound)

	_, err := env.uc.CreateSlots(context.Background(), 3, usecase.CreateSlotsInput{GameID: 7, Count: 1}, 3, model.RoleSeller)

	assertErrContains(t, err, "game not found")
	env.orderItems.AssertNotCalled(t, "CreateBulk", mock.Anything, mock.Anything)
}
