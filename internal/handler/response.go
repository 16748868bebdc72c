package handler

import (
	"net/http"
	"strconv"
	"time"

	"storeadmin/internal/middleware"
	"storeadmin/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}

// ルート登録で使うミドルウェア一式
type RouteGuards struct {
	// 認証必須
	Auth []echo.MiddlewareFunc
	// 認証 + 管理者
	Admin []echo.MiddlewareFunc
	// ログイン・注文作成
	RateLimit echo.MiddlewareFunc
}

func (g RouteGuards) limited(extra ...echo.MiddlewareFunc) []echo.MiddlewareFunc {
	out := append([]echo.MiddlewareFunc{}, extra...)
	if g.RateLimit != nil {
		out = append(out, g.RateLimit)
	}
	return out
}

// usecaseのHTTPErrorをそのまま返す。500は原因をログに出してメッセージは固定
func writeError(c echo.Context, logger *zap.Logger, err error) error {
	if err == nil {
		return nil
	}

	he, ok := usecase.AsHTTPError(err)
	if !ok || he.Status >= http.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Path()),
			zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			zap.Error(err),
		)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}

	return c.JSON(he.Status, ErrorResponse{Error: he.Message})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

func parseID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func queryInt(c echo.Context, key string, def int) (int, bool) {
	v := c.QueryParam(key)
	if v == "" {
		return def, true
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func queryInt64Ptr(c echo.Context, key string) (*int64, bool) {
	v := c.QueryParam(key)
	if v == "" {
		return nil, true
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil, false
	}
	return &n, true
}

func queryDecimalPtr(c echo.Context, key string) (*decimal.Decimal, bool) {
	v := c.QueryParam(key)
	if v == "" {
		return nil, true
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil, false
	}
	return &d, true
}

// RFC3339 か YYYY-MM-DD
func queryTimePtr(c echo.Context, key string) (*time.Time, bool) {
	v := c.QueryParam(key)
	if v == "" {
		return nil, true
	}
	if tm, err := time.Parse(time.RFC3339, v); err == nil {
		return &tm, true
	}
	tm, err := time.Parse("2006-01-02", v)
	if err != nil {
		return nil, false
	}
	return &tm, true
}

var principal = middleware.Principal
