package handler

import (
	"net/http"

	"storeadmin/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// /products の公開API
type ProductHandler struct {
	uc     *usecase.ProductUsecase
	logger *zap.Logger
}

// DI
func NewProductHandler(uc *usecase.ProductUsecase, logger *zap.Logger) *ProductHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductHandler{uc: uc, logger: logger}
}

// 公開商品のルートを登録
func (h *ProductHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/products", h.list)
	e.GET("/products/:id", h.detail)
}

func (h *ProductHandler) list(c echo.Context) error {
	in, ok := parseProductListQuery(c)
	if !ok {
		return nil
	}

	out, err := h.uc.ListProducts(c.Request().Context(), in)
	if err != nil {
		return writeError(c, h.logger, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) detail(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}

	p, err := h.uc.GetProductDetail(c.Request().Context(), id)
	if err != nil {
		return writeError(c, h.logger, err)
	}

	return c.JSON(http.StatusOK, p)
}

// クエリ不正のときはレスポンスを書いてfalseを返す
func parseProductListQuery(c echo.Context) (usecase.ListProductsInput, bool) {
	// page（default 1）
	page, ok := queryInt(c, "page", 1)
	if !ok {
		_ = badRequest(c, "invalid page")
		return usecase.ListProductsInput{}, false
	}

	// limit（default 20）
	limit, ok := queryInt(c, "limit", 20)
	if !ok {
		_ = badRequest(c, "invalid limit")
		return usecase.ListProductsInput{}, false
	}

	minPrice, ok := queryDecimalPtr(c, "min_price")
	if !ok {
		_ = badRequest(c, "invalid min_price")
		return usecase.ListProductsInput{}, false
	}

	maxPrice, ok := queryDecimalPtr(c, "max_price")
	if !ok {
		_ = badRequest(c, "invalid max_price")
		return usecase.ListProductsInput{}, false
	}

	return usecase.ListProductsInput{
		Page:     page,
		Limit:    limit,
		Q:        c.QueryParam("q"),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		Sort:     c.QueryParam("sort"),
	}, true
}
