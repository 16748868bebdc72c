package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"storeadmin/internal/config"
	"storeadmin/internal/domain/authz"
	"storeadmin/internal/domain/model"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

const (
	CtxUserIDKey    = "user_id"   // int64
	CtxUserRoleKey  = "user_role" // string
	CtxPrincipalKey = "principal" // authz.Principal
)

// bearerAuth用のJWT検証ミドルウェア。
func AuthJWT(cfg config.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := principalFromRequest(c, cfg.JWTSecret)
			if !ok {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//contextへ保存
			c.Set(CtxUserIDKey, p.UserID)
			c.Set(CtxUserRoleKey, string(p.Role))
			c.Set(CtxPrincipalKey, p)

			return next(c)
		}
	}
}

// Principal returns the caller stored by AuthJWT, or the zero Principal.
func Principal(c echo.Context) authz.Principal {
	p, _ := c.Get(CtxPrincipalKey).(authz.Principal)
	return p
}

func principalFromRequest(c echo.Context, secret string) (authz.Principal, bool) {
	//Authorizationヘッダを取得
	header := c.Request().Header.Get("Authorization")
	if header == "" {
		return authz.Principal{}, false
	}

	//Bearer形式か確認してtokenを抜く
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return authz.Principal{}, false
	}
	rawToken := strings.TrimSpace(parts[1])
	if rawToken == "" {
		return authz.Principal{}, false
	}

	//JWTをパースして検証する（expもここで見る）
	token, err := jwt.Parse(rawToken, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || token == nil || !token.Valid {
		return authz.Principal{}, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return authz.Principal{}, false
	}

	userID, err := parseUserID(claims["sub"])
	if err != nil || userID <= 0 {
		return authz.Principal{}, false
	}

	//roleはuser/adminのどちらか
	role, err := parseString(claims["role"])
	if err != nil {
		return authz.Principal{}, false
	}
	switch model.Role(role) {
	case model.RoleUser, model.RoleAdmin:
	default:
		return authz.Principal{}, false
	}

	return authz.Principal{UserID: userID, Role: model.Role(role)}, true
}

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}

// user_idをint64に変換する
func parseUserID(v interface{}) (int64, error) {
	switch t := v.(type) {
	case float64:
		return int64(t), nil
	case string:
		return strconv.ParseInt(t, 10, 64)
	default:
		return 0, errors.New("invalid sub")
	}
}

func parseString(v interface{}) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", errors.New("invalid string")
	}
	return s, nil
}
