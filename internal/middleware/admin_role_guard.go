package middleware

import (
	"errors"
	"net/http"

	"storeadmin/internal/domain/authz"

	"github.com/labstack/echo/v4"
)

// AuthJWTが入れたPrincipalで管理画面に入れるか確認します。
func AdminRoleGuard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := authz.Authorize(Principal(c), authz.ActionAdminArea, 0)
			switch {
			case errors.Is(err, authz.ErrUnauthenticated):
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			case err != nil:
				//userは拒否、adminだけ許可
				return c.JSON(http.StatusForbidden, errorJSON("forbidden"))
			}

			return next(c)
		}
	}
}
