package handler

import (
	"net/http"

	"storeadmin/internal/domain/model"
	"storeadmin/internal/repository"
	"storeadmin/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type AdminOrderHandler struct {
	uc     *usecase.AdminOrderUsecase
	logger *zap.Logger
}

func NewAdminOrderHandler(uc *usecase.AdminOrderUsecase, logger *zap.Logger) *AdminOrderHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminOrderHandler{uc: uc, logger: logger}
}

type OrderStatusUpdateRequest struct {
	Status string `json:"status"`
}

func (h *AdminOrderHandler) RegisterRoutes(e *echo.Echo, g RouteGuards) {
	admin := e.Group("/admin", g.Admin...)

	admin.GET("/orders", h.list)
	admin.PATCH("/orders/:id/status", h.updateStatus)
}

func (h *AdminOrderHandler) list(c echo.Context) error {
	page, ok := queryInt(c, "page", 1)
	if !ok {
		return badRequest(c, "invalid page")
	}

	// 0は全件
	limit, ok := queryInt(c, "limit", 0)
	if !ok {
		return badRequest(c, "invalid limit")
	}

	userID, ok := queryInt64Ptr(c, "user_id")
	if !ok {
		return badRequest(c, "invalid user_id")
	}

	from, ok := queryTimePtr(c, "from")
	if !ok {
		return badRequest(c, "invalid from")
	}

	to, ok := queryTimePtr(c, "to")
	if !ok {
		return badRequest(c, "invalid to")
	}

	out, err := h.uc.List(c.Request().Context(), principal(c), repository.AdminOrderListFilter{
		Page:   page,
		Limit:  limit,
		Status: model.OrderStatus(c.QueryParam("status")),
		UserID: userID,
		From:   from,
		To:     to,
	})
	if err != nil {
		return writeError(c, h.logger, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *AdminOrderHandler) updateStatus(c echo.Context) error {
	orderID, ok := parseID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}

	var req OrderStatusUpdateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.uc.UpdateStatus(c.Request().Context(), principal(c), orderID, req.Status)
	if err != nil {
		return writeError(c, h.logger, err)
	}

	return c.JSON(http.StatusOK, out)
}
