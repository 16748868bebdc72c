package handler

import (
	"net/http"

	"storeadmin/internal/domain/model"
	"storeadmin/internal/repository"
	"storeadmin/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type AuditHandler struct {
	uc     *usecase.AuditUsecase
	logger *zap.Logger
}

func NewAuditHandler(uc *usecase.AuditUsecase, logger *zap.Logger) *AuditHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditHandler{uc: uc, logger: logger}
}

func (h *AuditHandler) RegisterRoutes(e *echo.Echo, g RouteGuards) {
	e.GET("/admin/audit-logs", h.list, g.Admin...)
}

func (h *AuditHandler) list(c echo.Context) error {
	var f repository.AuditLogFilter

	actor, ok := queryInt64Ptr(c, "actor_user_id")
	if !ok {
		return badRequest(c, "invalid actor_user_id")
	}
	f.ActorUserID = actor

	resourceID, ok := queryInt64Ptr(c, "resource_id")
	if !ok {
		return badRequest(c, "invalid resource_id")
	}
	f.ResourceID = resourceID

	if v := c.QueryParam("action"); v != "" {
		a := model.AuditAction(v)
		f.Action = &a
	}
	if v := c.QueryParam("resource_type"); v != "" {
		rt := model.AuditResourceType(v)
		f.ResourceType = &rt
	}

	if f.CreatedFrom, ok = queryTimePtr(c, "from"); !ok {
		return badRequest(c, "invalid from")
	}
	if f.CreatedTo, ok = queryTimePtr(c, "to"); !ok {
		return badRequest(c, "invalid to")
	}
	if f.Limit, ok = queryInt(c, "limit", 0); !ok {
		return badRequest(c, "invalid limit")
	}
	if f.Offset, ok = queryInt(c, "offset", 0); !ok {
		return badRequest(c, "invalid offset")
	}

	logs, err := h.uc.List(c.Request().Context(), principal(c), f)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, logs)
}
