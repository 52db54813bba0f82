package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type OrderItemGormRepository struct {
	db *gorm.DB
}

func NewOrderItemGormRepository(db *gorm.DB) *OrderItemGormRepository {
	return &OrderItemGormRepository{db: db}
}

func (r *OrderItemGormRepository) FindByID(ctx context.Context, orderItemID int64) (model.OrderItem, error) {
	var it model.OrderItem
	err := r.db.WithContext(ctx).Where("id = ?", orderItemID).First(&it).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.OrderItem{}, repo.ErrNotFound
	}
	if err != nil {
		return model.OrderItem{}, err
	}
	return it, nil
}

func (r *OrderItemGormRepository) FindByIDs(ctx context.Context, orderItemIDs []int64) ([]model.OrderItem, error) {
	if len(orderItemIDs) == 0 {
		return []model.OrderItem{}, nil
	}

	var items []model.OrderItem
	err := r.db.WithContext(ctx).
		Where("id IN ?", orderItemIDs).
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return []model.OrderItem{}, err
	}
	return items, nil
}

func (r *OrderItemGormRepository) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	var items []model.OrderItem
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return []model.OrderItem{}, err
	}
	return items, nil
}

func (r *OrderItemGormRepository) ListBySellerID(ctx context.Context, sellerID int64, page int, limit int) ([]model.OrderItem, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.OrderItem{}).
		Where("seller_id = ?", sellerID).
		Count(&total).Error; err != nil {
		return []model.OrderItem{}, 0, err
	}

	var items []model.OrderItem
	offset := (page - 1) * limit
	err := r.db.WithContext(ctx).
		Where("seller_id = ?", sellerID).
		Order("id desc").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	if err != nil {
		return []model.OrderItem{}, 0, err
	}

	return items, total, nil
}

func (r *OrderItemGormRepository) CreateBulk(ctx context.Context, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

// 未販売・未ギフトの枠だけ注文に付ける。
// 条件付きUPDATEなので、同じ枠の同時購入はどちらか一方しか勝てない。
func (r *OrderItemGormRepository) AttachToOrder(ctx context.Context, orderItemID int64, orderID int64) error {
	res := r.db.WithContext(ctx).Model(&model.OrderItem{}).
		Where("id = ? AND order_id IS NULL AND is_gifted = ?", orderItemID, false).
		Update("order_id", orderID)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *OrderItemGormRepository) SetKey(ctx context.Context, orderItemID int64, key string) error {
	res := r.db.WithContext(ctx).Model(&model.OrderItem{}).
		Where("id = ?", orderItemID).
		Update("key", key)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 一度立てたIsGiftedは戻さない（条件付きUPDATEで二重ギフトを弾く）
func (r *OrderItemGormRepository) MarkGifted(ctx context.Context, orderItemID int64) error {
	res := r.db.WithContext(ctx).Model(&model.OrderItem{}).
		Where("id = ? AND is_gifted = ?", orderItemID, false).
		Update("is_gifted", true)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *OrderItemGormRepository) CountAvailableByGameID(ctx context.Context, gameID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.OrderItem{}).
		Where("game_id = ? AND order_id IS NULL AND is_gifted = ?", gameID, false).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
