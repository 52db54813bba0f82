package usecase

import (
	"errors"
	"fmt"
)

// Usecaseのエラーは種類（HTTPステータス）とメッセージで返す。
// 401/403=権限なし、404=見つからない、409=業務ルール違反、400=入力不正。
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}
