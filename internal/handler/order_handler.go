package handler

import (
	"net/http"

	"storeadmin/internal/domain/checkout"
	"storeadmin/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type OrderHandler struct {
	uc     *usecase.OrderUsecase
	logger *zap.Logger
}

func NewOrderHandler(uc *usecase.OrderUsecase, logger *zap.Logger) *OrderHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderHandler{uc: uc, logger: logger}
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo, g RouteGuards) {
	orders := e.Group("/orders", g.Auth...)

	orders.POST("", h.create, g.limited()...)
	orders.GET("", h.list)
	orders.GET("/:id", h.detail)
}

func (h *OrderHandler) create(c echo.Context) error {
	var req checkout.Request
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.uc.CreateOrder(c.Request().Context(), principal(c), req)
	if err != nil {
		return writeError(c, h.logger, err)
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *OrderHandler) list(c echo.Context) error {
	out, err := h.uc.ListMyOrders(c.Request().Context(), principal(c))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) detail(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}

	out, err := h.uc.GetOrder(c.Request().Context(), principal(c), id)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, out)
}
