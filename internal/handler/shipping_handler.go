package handler

import (
	"net/http"

	"storeadmin/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type ShippingHandler struct {
	uc     *usecase.ShippingUsecase
	logger *zap.Logger
}

func NewShippingHandler(uc *usecase.ShippingUsecase, logger *zap.Logger) *ShippingHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ShippingHandler{uc: uc, logger: logger}
}

type ShippingCostUpdateRequest struct {
	ShippingCost *decimal.Decimal `json:"shipping_cost"`
}

func (h *ShippingHandler) RegisterRoutes(e *echo.Echo, g RouteGuards) {
	e.GET("/shipping-cost", h.get)
	e.PUT("/admin/shipping-cost", h.update, g.Admin...)
}

// 読めなくてもデフォルト値で200
func (h *ShippingHandler) get(c echo.Context) error {
	return c.JSON(http.StatusOK, usecase.ShippingCostOutput{
		ShippingCost: h.uc.Current(c.Request().Context()),
	})
}

func (h *ShippingHandler) update(c echo.Context) error {
	var req ShippingCostUpdateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.ShippingCost == nil {
		return badRequest(c, "shipping_cost is required")
	}

	out, err := h.uc.Update(c.Request().Context(), principal(c), *req.ShippingCost)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, out)
}
