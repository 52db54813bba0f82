package usecase

import (
	"context"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type GameUsecase struct {
	gameRepo      repo.GameRepository
	orderItemRepo repo.OrderItemRepository
}

// DI
func NewGameUsecase(gameRepo repo.GameRepository, orderItemRepo repo.OrderItemRepository) *GameUsecase {
	return &GameUsecase{gameRepo: gameRepo, orderItemRepo: orderItemRepo}
}

type ListGamesInput struct {
	Page  int
	Limit int
	Q     string
}

type GameOutput struct {
	ID             int64  `json:"id"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	Price          int64  `json:"price"`
	IsForSale      bool   `json:"is_for_sale"`
	AvailableSlots int64  `json:"available_slots"`
}

type GameListOutput struct {
	Items []GameOutput `json:"items"`
	Total int64        `json:"total"`
	Page  int          `json:"page"`
	Limit int          `json:"limit"`
}

func (u *GameUsecase) ListForSaleGames(ctx context.Context, in ListGamesInput) (GameListOutput, error) {
	if in.Page < 1 {
		return GameListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return GameListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if len(in.Q) > 100 {
		return GameListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid q")
	}

	games, total, err := u.gameRepo.ListForSale(ctx, repo.GameListQuery{
		Page:  in.Page,
		Limit: in.Limit,
		Q:     in.Q,
	})
	if err != nil {
		return GameListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	items := make([]GameOutput, 0, len(games))
	for _, g := range games {
		items = append(items, u.toGameOutput(ctx, g))
	}

	return GameListOutput{
		Items: items,
		Total: total,
		Page:  in.Page,
		Limit: in.Limit,
	}, nil
}

func (u *GameUsecase) GetGameDetail(ctx context.Context, gameID int64) (GameOutput, error) {
	if gameID <= 0 {
		return GameOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	g, err := u.gameRepo.FindByID(ctx, gameID)
	if err == repo.ErrNotFound {
		return GameOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return GameOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.toGameOutput(ctx, g), nil
}

type CreateGameInput struct {
	Title       string
	Description string
	Price       int64
	IsForSale   bool
}

// 管理者のみ（roleチェックはここで行う）
func (u *GameUsecase) CreateGame(ctx context.Context, in CreateGameInput, callerRole model.Role) (GameOutput, error) {
	if callerRole != model.RoleAdmin {
		return GameOutput{}, NewHTTPError(http.StatusForbidden, "forbidden")
	}
	if strings.TrimSpace(in.Title) == "" {
		return GameOutput{}, NewHTTPError(http.StatusBadRequest, "invalid title")
	}
	if in.Price < 0 {
		return GameOutput{}, NewHTTPError(http.StatusBadRequest, "invalid price")
	}

	g, err := u.gameRepo.Create(ctx, model.Game{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Price:       in.Price,
		IsForSale:   in.IsForSale,
	})
	if err != nil {
		return GameOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.toGameOutput(ctx, g), nil
}

type UpdateGameInput struct {
	Title       string
	Description string
	Price       int64
	IsForSale   bool
}

func (u *GameUsecase) UpdateGame(ctx context.Context, gameID int64, in UpdateGameInput, callerRole model.Role) error {
	if callerRole != model.RoleAdmin {
		return NewHTTPError(http.StatusForbidden, "forbidden")
	}
	if gameID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if strings.TrimSpace(in.Title) == "" {
		return NewHTTPError(http.StatusBadRequest, "invalid title")
	}
	if in.Price < 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid price")
	}

	err := u.gameRepo.Update(ctx, model.Game{
		ID:          gameID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Price:       in.Price,
		IsForSale:   in.IsForSale,
	})
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *GameUsecase) toGameOutput(ctx context.Context, g model.Game) GameOutput {
	//在庫＝未販売枠数。数えられなければ0のまま返す
	count, err := u.orderItemRepo.CountAvailableByGameID(ctx, g.ID)
	if err != nil {
		count = 0
	}

	return GameOutput{
		ID:             g.ID,
		Title:          g.Title,
		Description:    g.Description,
		Price:          g.Price,
		IsForSale:      g.IsForSale,
		AvailableSlots: count,
	}
}
