package handler

import (
	"net/http"

	"storeadmin/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type AdminUserHandler struct {
	uc     *usecase.AdminUserUsecase
	logger *zap.Logger
}

func NewAdminUserHandler(uc *usecase.AdminUserUsecase, logger *zap.Logger) *AdminUserHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminUserHandler{uc: uc, logger: logger}
}

type UserRoleUpdateRequest struct {
	Role string `json:"role"`
}

type UserActiveUpdateRequest struct {
	//未指定と false を区別する
	Active *bool `json:"active"`
}

func (h *AdminUserHandler) RegisterRoutes(e *echo.Echo, g RouteGuards) {
	// /admin 配下は JWT必須 + 停止ユーザー拒否 + ADMIN限定
	admin := e.Group("/admin", g.Admin...)

	admin.GET("/users", h.list)
	admin.PUT("/users/:id/role", h.updateRole)
	admin.PUT("/users/:id/active", h.setActive)
}

func (h *AdminUserHandler) list(c echo.Context) error {
	out, err := h.uc.List(c.Request().Context(), principal(c))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminUserHandler) updateRole(c echo.Context) error {
	userID, ok := parseID(c)
	if !ok {
		return badRequest(c, "invalid user_id")
	}

	var req UserRoleUpdateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.uc.UpdateRole(c.Request().Context(), principal(c), userID, req.Role)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminUserHandler) setActive(c echo.Context) error {
	userID, ok := parseID(c)
	if !ok {
		return badRequest(c, "invalid user_id")
	}

	var req UserActiveUpdateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.Active == nil {
		return badRequest(c, "active is required")
	}

	out, err := h.uc.SetActive(c.Request().Context(), principal(c), userID, *req.Active)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, out)
}
