package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type GameGormRepository struct {
	db *gorm.DB
}

// DI
func NewGameGormRepository(db *gorm.DB) *GameGormRepository {
	return &GameGormRepository{db: db}
}

func (r *GameGormRepository) ListForSale(ctx context.Context, q repo.GameListQuery) ([]model.Game, int64, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 20
	}

	query := r.db.WithContext(ctx).Model(&model.Game{}).Where("is_for_sale = ?", true)

	//タイトル部分一致
	if q.Q != "" {
		query = query.Where("title ILIKE ?", "%"+q.Q+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return []model.Game{}, 0, err
	}

	var items []model.Game
	offset := (q.Page - 1) * q.Limit
	if err := query.Order("id asc").Limit(q.Limit).Offset(offset).Find(&items).Error; err != nil {
		return []model.Game{}, 0, err
	}

	return items, total, nil
}

func (r *GameGormRepository) FindByID(ctx context.Context, gameID int64) (model.Game, error) {
	var g model.Game
	err := r.db.WithContext(ctx).Where("id = ?", gameID).First(&g).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Game{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Game{}, err
	}
	return g, nil
}

func (r *GameGormRepository) Create(ctx context.Context, g model.Game) (model.Game, error) {
	if err := r.db.WithContext(ctx).Create(&g).Error; err != nil {
		return model.Game{}, err
	}
	return g, nil
}

func (r *GameGormRepository) Update(ctx context.Context, g model.Game) error {
	res := r.db.WithContext(ctx).Model(&model.Game{}).
		Where("id = ?", g.ID).
		Updates(map[string]interface{}{
			"title":       g.Title,
			"description": g.Description,
			"price":       g.Price,
			"is_for_sale": g.IsForSale,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
