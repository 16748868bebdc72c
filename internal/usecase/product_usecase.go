package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"storeadmin/internal/domain/authz"
	"storeadmin/internal/domain/model"
	"storeadmin/internal/domain/pricing"
	repo "storeadmin/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const maxImportRows = 1000

type ProductUsecase struct {
	productRepo repo.ProductRepository
	tx          repo.TransactionManager
	logger      *zap.Logger
	now         func() time.Time
}

// DI
func NewProductUsecase(productRepo repo.ProductRepository, tx repo.TransactionManager, logger *zap.Logger) *ProductUsecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductUsecase{
		productRepo: productRepo,
		tx:          tx,
		logger:      logger,
		now:         time.Now,
	}
}

// GET /productsの入力DTO
type ListProductsInput struct {
	Page     int
	Limit    int
	Q        string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Sort     string
	// 管理画面からは販売停止中も見る
	IncludeUnavailable bool
}

type ProductListOutput struct {
	Items []model.Product `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

func (u *ProductUsecase) ListProducts(ctx context.Context, in ListProductsInput) (ProductListOutput, error) {
	if in.Page < 1 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if len(in.Q) > 100 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "q too long")
	}
	if in.MinPrice != nil && in.MinPrice.IsNegative() {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "min_price must be >= 0")
	}
	if in.MaxPrice != nil && in.MaxPrice.IsNegative() {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "max_price must be >= 0")
	}
	if in.MinPrice != nil && in.MaxPrice != nil && in.MinPrice.GreaterThan(*in.MaxPrice) {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "min_price must be <= max_price")
	}
	switch in.Sort {
	case "", "new", "name", "price_asc", "price_desc":
	default:
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid sort")
	}

	items, total, err := u.productRepo.ListPublic(ctx, repo.ProductListQuery{
		Page:          in.Page,
		Limit:         in.Limit,
		Q:             strings.TrimSpace(in.Q),
		OnlyAvailable: !in.IncludeUnavailable,
		MinPrice:      in.MinPrice,
		MaxPrice:      in.MaxPrice,
		Sort:          in.Sort,
	})
	if err != nil {
		return ProductListOutput{}, InternalError(err)
	}

	return ProductListOutput{
		Items: items,
		Total: total,
		Page:  in.Page,
		Limit: in.Limit,
	}, nil
}

func (u *ProductUsecase) GetProductDetail(ctx context.Context, productID int64) (model.Product, error) {
	if productID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return model.Product{}, InternalError(err)
	}

	//販売停止中は公開しない
	if !p.IsAvailable {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	return p, nil
}

// 管理者の作成/更新の入力。利益率は割合（0.4 = 40%）
type ProductInput struct {
	Name                  string              `json:"name"`
	Description           string              `json:"description"`
	IsAvailable           *bool               `json:"is_available"`
	CostPrice             decimal.Decimal     `json:"cost_price"`
	MarginFraction        decimal.Decimal     `json:"margin_fraction"`
	FractionalPricePer100 decimal.NullDecimal `json:"fractional_price_per_100"`
	Unit                  string              `json:"unit"`
}

func validateProductInput(in ProductInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return NewHTTPError(http.StatusBadRequest, "name required")
	}
	if err := pricing.ValidateInputs(in.CostPrice, in.MarginFraction); err != nil {
		return NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if in.FractionalPricePer100.Valid && in.FractionalPricePer100.Decimal.IsNegative() {
		return NewHTTPError(http.StatusBadRequest, "fractional_price_per_100 must be >= 0")
	}
	return nil
}

func (u *ProductUsecase) AdminCreateProduct(ctx context.Context, p authz.Principal, in ProductInput) (model.Product, error) {
	if err := authz.Authorize(p, authz.ActionManageCatalog, 0); err != nil {
		return model.Product{}, fromAuthz(err)
	}
	if err := validateProductInput(in); err != nil {
		return model.Product{}, err
	}

	available := true
	if in.IsAvailable != nil {
		available = *in.IsAvailable
	}

	now := u.now()
	created, err := u.productRepo.Create(ctx, model.Product{
		Name:                  strings.TrimSpace(in.Name),
		Description:           in.Description,
		IsAvailable:           available,
		CostPrice:             in.CostPrice,
		MarginFraction:        in.MarginFraction,
		SalePrice:             pricing.SalePrice(in.CostPrice, in.MarginFraction),
		FractionalPricePer100: in.FractionalPricePer100,
		Unit:                  in.Unit,
		CreatedAt:             now,
		UpdatedAt:             now,
	})
	if err != nil {
		return model.Product{}, InternalError(err)
	}
	return created, nil
}

// 販売価格は毎回原価と利益率から出し直す
func (u *ProductUsecase) AdminUpdateProduct(ctx context.Context, p authz.Principal, productID int64, in ProductInput) (model.Product, error) {
	if err := authz.Authorize(p, authz.ActionManageCatalog, 0); err != nil {
		return model.Product{}, fromAuthz(err)
	}
	if productID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if err := validateProductInput(in); err != nil {
		return model.Product{}, err
	}

	current, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return model.Product{}, InternalError(err)
	}

	current.Name = strings.TrimSpace(in.Name)
	current.Description = in.Description
	if in.IsAvailable != nil {
		current.IsAvailable = *in.IsAvailable
	}
	current.CostPrice = in.CostPrice
	current.MarginFraction = in.MarginFraction
	current.SalePrice = pricing.SalePrice(in.CostPrice, in.MarginFraction)
	current.FractionalPricePer100 = in.FractionalPricePer100
	current.Unit = in.Unit
	current.UpdatedAt = u.now()

	err = u.productRepo.Update(ctx, current)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return model.Product{}, InternalError(err)
	}
	return current, nil
}

func (u *ProductUsecase) AdminDeleteProduct(ctx context.Context, p authz.Principal, productID int64) error {
	if err := authz.Authorize(p, authz.ActionManageCatalog, 0); err != nil {
		return fromAuthz(err)
	}
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	err := u.productRepo.SoftDelete(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return InternalError(err)
	}
	return nil
}

// 一括取込の1行。利益率は人が入力する%（40 = 40%）
type ImportRow struct {
	Name                  string           `json:"name"`
	CostPrice             *decimal.Decimal `json:"cost_price"`
	MarginPercent         *decimal.Decimal `json:"margin_percent"`
	Description           string           `json:"description"`
	FractionalPricePer100 *decimal.Decimal `json:"fractional_price_per_100"`
	Unit                  string           `json:"unit"`
}

type RejectedRow struct {
	// 1始まり
	Row    int      `json:"row"`
	Name   string   `json:"name"`
	Errors []string `json:"errors"`
}

type ImportResult struct {
	Created  []int64       `json:"created"`
	Rejected []RejectedRow `json:"rejected"`
}

// 行ごとのエラーを全部集める
func validateImportRow(row ImportRow) []string {
	var errs []string
	if strings.TrimSpace(row.Name) == "" {
		errs = append(errs, "name required")
	}
	if row.CostPrice == nil {
		errs = append(errs, "cost_price required")
	} else if !row.CostPrice.IsPositive() {
		errs = append(errs, "cost_price must be > 0")
	}
	if row.MarginPercent == nil {
		errs = append(errs, "margin_percent required")
	} else if row.MarginPercent.IsNegative() {
		errs = append(errs, "margin_percent must be >= 0")
	}
	if row.FractionalPricePer100 != nil && row.FractionalPricePer100.IsNegative() {
		errs = append(errs, "fractional_price_per_100 must be >= 0")
	}
	return errs
}

// ImportProducts inserts every valid row in a single transaction and reports
// the rejected ones. Margin percentages are converted to fractions here.
func (u *ProductUsecase) ImportProducts(ctx context.Context, p authz.Principal, rows []ImportRow) (ImportResult, error) {
	if err := authz.Authorize(p, authz.ActionManageCatalog, 0); err != nil {
		return ImportResult{}, fromAuthz(err)
	}
	if len(rows) == 0 {
		return ImportResult{}, NewHTTPError(http.StatusBadRequest, "no rows")
	}
	if len(rows) > maxImportRows {
		return ImportResult{}, NewHTTPError(http.StatusBadRequest, fmt.Sprintf("too many rows (max %d)", maxImportRows))
	}

	result := ImportResult{Created: []int64{}, Rejected: []RejectedRow{}}
	now := u.now()

	var valid []model.Product
	for i, row := range rows {
		if errs := validateImportRow(row); len(errs) > 0 {
			result.Rejected = append(result.Rejected, RejectedRow{Row: i + 1, Name: row.Name, Errors: errs})
			continue
		}

		margin := pricing.FractionFromPercent(*row.MarginPercent)
		prod := model.Product{
			Name:           strings.TrimSpace(row.Name),
			Description:    row.Description,
			IsAvailable:    true,
			CostPrice:      *row.CostPrice,
			MarginFraction: margin,
			SalePrice:      pricing.SalePrice(*row.CostPrice, margin),
			Unit:           row.Unit,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if row.FractionalPricePer100 != nil {
			prod.FractionalPricePer100 = decimal.NewNullDecimal(*row.FractionalPricePer100)
		}
		valid = append(valid, prod)
	}

	if len(valid) == 0 {
		return result, nil
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		for _, prod := range valid {
			created, err := r.Products().Create(ctx, prod)
			if err != nil {
				return err
			}
			result.Created = append(result.Created, created.ID)
		}

		return r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  p.UserID,
			Action:       model.AuditActionImportProducts,
			ResourceType: model.AuditResourceProduct,
			ResourceID:   0,
			BeforeJSON:   "{}",
			AfterJSON:    fmt.Sprintf(`{"created":%d,"rejected":%d}`, len(result.Created), len(result.Rejected)),
			CreatedAt:    now,
		})
	})
	if err != nil {
		u.logger.Error("product import failed", zap.Int("rows", len(valid)), zap.Error(err))
		return ImportResult{}, InternalError(err)
	}

	u.logger.Info("products imported",
		zap.Int64("actor_user_id", p.UserID),
		zap.Int("created", len(result.Created)),
		zap.Int("rejected", len(result.Rejected)),
	)
	return result, nil
}
