package handler

import (
	"net/http"

	"storeadmin/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// 管理者の商品管理
type AdminProductHandler struct {
	uc     *usecase.ProductUsecase
	logger *zap.Logger
}

type ProductImportRequest struct {
	Rows []usecase.ImportRow `json:"rows"`
}

func NewAdminProductHandler(uc *usecase.ProductUsecase, logger *zap.Logger) *AdminProductHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminProductHandler{uc: uc, logger: logger}
}

func (h *AdminProductHandler) RegisterRoutes(e *echo.Echo, g RouteGuards) {
	admin := e.Group("/admin", g.Admin...)

	admin.GET("/products", h.listProducts)
	admin.POST("/products", h.createProduct)
	admin.POST("/products/import", h.importProducts)
	admin.PUT("/products/:id", h.updateProduct)
	admin.DELETE("/products/:id", h.deleteProduct)
}

// 販売停止中も含めて返す
func (h *AdminProductHandler) listProducts(c echo.Context) error {
	in, ok := parseProductListQuery(c)
	if !ok {
		return nil
	}
	in.IncludeUnavailable = true

	out, err := h.uc.ListProducts(c.Request().Context(), in)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminProductHandler) createProduct(c echo.Context) error {
	var req usecase.ProductInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.uc.AdminCreateProduct(c.Request().Context(), principal(c), req)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *AdminProductHandler) updateProduct(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}

	var req usecase.ProductInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.uc.AdminUpdateProduct(c.Request().Context(), principal(c), id, req)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminProductHandler) deleteProduct(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}

	if err := h.uc.AdminDeleteProduct(c.Request().Context(), principal(c), id); err != nil {
		return writeError(c, h.logger, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminProductHandler) importProducts(c echo.Context) error {
	var req ProductImportRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.uc.ImportProducts(c.Request().Context(), principal(c), req.Rows)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, out)
}
