package handler

import (
	"net/http"

	"app/internal/domain/model"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

func getUserIDFromContext(c echo.Context) (int64, bool) {
	raw := c.Get(middleware.CtxUserIDKey)
	id, ok := raw.(int64)
	if !ok || id <= 0 {
		return 0, false
	}
	return id, true
}

// roleが取れない場合はGUEST扱い
func getRoleFromContext(c echo.Context) model.Role {
	raw := c.Get(middleware.CtxUserRoleKey)
	s, ok := raw.(string)
	if !ok || s == "" {
		return model.RoleGuest
	}
	return model.Role(s)
}

func getSellerIDFromContext(c echo.Context) int64 {
	raw := c.Get(middleware.CtxSellerIDKey)
	id, ok := raw.(int64)
	if !ok {
		return 0
	}
	return id
}
