package usecase

import (
	"errors"
	"fmt"
	"net/http"

	"storeadmin/internal/domain/authz"
)

var (
	//400 入力不正
	ErrValidation = errors.New("validation error")
	//401 認証失敗
	ErrUnauthenticated = errors.New("unauthenticated")
	//403 権限
	ErrForbidden = errors.New("forbidden")
	//404
	ErrNotFound = errors.New("not found")
	//409 競合
	ErrConflict = errors.New("conflict")
	//500
	ErrInternal = errors.New("internal error")
)

// ハンドラがそのままレスポンスにする
type HTTPError struct {
	Status  int
	Message string
	// 500のときの元のエラー（ログ用、レスポンスには出さない）
	Cause error
}

func (e *HTTPError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%d: %s: %v", e.Status, e.Message, e.Cause)
	}
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// errors.Is(err, ErrNotFound) などで種類を判定できる
func (e *HTTPError) Unwrap() []error {
	out := make([]error, 0, 2)
	if k := kindOf(e.Status); k != nil {
		out = append(out, k)
	}
	if e.Cause != nil {
		out = append(out, e.Cause)
	}
	return out
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

// InternalError hides cause behind a generic 500.
func InternalError(cause error) error {
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Message: "internal error",
		Cause:   cause,
	}
}

// authzのエラーを401/403にする
func fromAuthz(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, authz.ErrUnauthenticated):
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, authz.ErrForbidden):
		return NewHTTPError(http.StatusForbidden, "forbidden")
	}
	return InternalError(err)
}

func kindOf(status int) error {
	switch status {
	case http.StatusBadRequest:
		return ErrValidation
	case http.StatusUnauthorized:
		return ErrUnauthenticated
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	case http.StatusInternalServerError:
		return ErrInternal
	}
	return nil
}
