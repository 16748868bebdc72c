package middleware

import (
	"net/http"

	"storeadmin/internal/repository"

	"github.com/labstack/echo/v4"
)

// トークンが有効でも、削除・停止されたユーザーは通さない。
func ActiveUserGuard(userRepo repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p := Principal(c)
			if !p.Authenticated() {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//DBから最新のuserを取得する
			user, err := userRepo.FindByID(c.Request().Context(), p.UserID)
			if err != nil || user == nil {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}
			if !user.IsActive {
				return c.JSON(http.StatusForbidden, errorJSON("user is inactive"))
			}

			//降格されていたらDB側のroleを優先
			if user.Role != p.Role {
				p.Role = user.Role
				c.Set(CtxUserRoleKey, string(p.Role))
				c.Set(CtxPrincipalKey, p)
			}

			return next(c)
		}
	}
}
