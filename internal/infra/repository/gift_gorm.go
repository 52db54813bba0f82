package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type GiftGormRepository struct {
	db *gorm.DB
}

// DI
func NewGiftGormRepository(db *gorm.DB) *GiftGormRepository {
	return &GiftGormRepository{db: db}
}

func (r *GiftGormRepository) Create(ctx context.Context, gift model.Gift) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&gift).Error; err != nil {
		return 0, err
	}
	return gift.ID, nil
}

func (r *GiftGormRepository) FindByID(ctx context.Context, giftID int64) (model.Gift, error) {
	var g model.Gift
	err := r.db.WithContext(ctx).Where("id = ?", giftID).First(&g).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Gift{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Gift{}, err
	}
	return g, nil
}

// 送った分と受け取った分の両方
func (r *GiftGormRepository) ListByUserID(ctx context.Context, userID int64) ([]model.Gift, error) {
	var gifts []model.Gift
	err := r.db.WithContext(ctx).
		Where("sender_id = ? OR recipient_id = ?", userID, userID).
		Order("id desc").
		Find(&gifts).Error
	if err != nil {
		return []model.Gift{}, err
	}
	return gifts, nil
}

func (r *GiftGormRepository) DeleteByID(ctx context.Context, giftID int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Gift{}, giftID)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
