package validator

import (
	"context"
	"net/http"
	"regexp"
	"strings"
	"unicode/utf8"

	"storeadmin/internal/repository"
	"storeadmin/internal/usecase"
)

const (
	minPasswordLen = 8
	maxNameLen     = 200
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type authValidator struct {
	users repository.UserRepository
}

// Usecaseは interface を依存注入
func NewAuthValidator(users repository.UserRepository) usecase.AuthValidator {
	return &authValidator{users: users}
}

// サインアップの入力を検証
func (v *authValidator) ValidateRegister(ctx context.Context, email string, password string, name string) error {
	email = strings.TrimSpace(email)

	// 必須チェック
	if email == "" || password == "" {
		return usecase.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}

	if !emailRe.MatchString(email) {
		return usecase.NewHTTPError(http.StatusBadRequest, "invalid email")
	}

	if len(password) < minPasswordLen {
		return usecase.NewHTTPError(http.StatusBadRequest, "password must be at least 8 characters")
	}

	if utf8.RuneCountInString(name) > maxNameLen {
		return usecase.NewHTTPError(http.StatusBadRequest, "name too long")
	}

	// email重複チェック（最終的にはDBの一意制約でも弾く）
	u, err := v.users.FindByEmail(ctx, email)
	if err != nil {
		return usecase.InternalError(err)
	}
	if u != nil {
		return usecase.NewHTTPError(http.StatusConflict, "email already used")
	}

	return nil
}

// ログインの入力を検証
func (v *authValidator) ValidateLogin(ctx context.Context, email string, password string) error {
	email = strings.TrimSpace(email)

	if email == "" || password == "" {
		return usecase.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}
	if !emailRe.MatchString(email) {
		return usecase.NewHTTPError(http.StatusBadRequest, "invalid email")
	}

	return nil
}
