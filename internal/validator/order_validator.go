package validator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"storeadmin/internal/domain/checkout"
	"storeadmin/internal/domain/model"
	"storeadmin/internal/domain/pricing"
	"storeadmin/internal/repository"
	"storeadmin/internal/usecase"

	"github.com/shopspring/decimal"
)

type orderValidator struct {
	products repository.ProductRepository
	// 負の値なら価格チェックをしない
	tolerance decimal.Decimal
}

// Usecaseは interface を依存注入
func NewOrderValidator(products repository.ProductRepository, tolerance decimal.Decimal) usecase.OrderValidator {
	return &orderValidator{products: products, tolerance: tolerance}
}

// ValidateCreate checks a new order in one pass and stops at the first
// problem. For pickup orders it rewrites the payment mode to in_store.
func (v *orderValidator) ValidateCreate(ctx context.Context, req *checkout.Request) error {
	if req.DeliveryMode == "" || req.PaymentMode == "" || len(req.Items) == 0 {
		return usecase.NewHTTPError(http.StatusBadRequest, "missing required fields")
	}

	if !req.DeliveryMode.Valid() {
		return usecase.NewHTTPError(http.StatusBadRequest, "invalid delivery_mode")
	}

	if req.DeliveryMode == model.DeliveryModeShip {
		if err := validateShipping(req); err != nil {
			return err
		}
	} else {
		//店頭受け取りは支払い方法を見ない
		req.PaymentMode = model.PaymentModeInStore
	}

	for _, item := range req.Items {
		if err := v.validateItem(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

func validateShipping(req *checkout.Request) error {
	switch req.PaymentMode {
	case model.PaymentModeCash, model.PaymentModeBankTransfer:
	default:
		return usecase.NewHTTPError(http.StatusBadRequest, "invalid payment_mode")
	}

	//配送先は4項目すべて必須（この順で最初の空欄を返す）
	fields := []struct {
		name  string
		value string
	}{
		{"delivery_phone", req.DeliveryPhone},
		{"street", req.Street},
		{"street_number", req.StreetNumber},
		{"cross_streets", req.CrossStreets},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return usecase.NewHTTPError(http.StatusBadRequest, f.name+" is required for ship delivery")
		}
	}
	return nil
}

func (v *orderValidator) validateItem(ctx context.Context, item checkout.LineInput) error {
	if !validQuantity(item) || item.UnitPrice.IsNegative() {
		return usecase.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid item for product %d", item.ProductID))
	}

	p, err := v.products.FindByID(ctx, item.ProductID)
	if errors.Is(err, repository.ErrNotFound) {
		return usecase.NewHTTPError(http.StatusNotFound, fmt.Sprintf("product %d not found", item.ProductID))
	}
	if err != nil {
		return usecase.InternalError(err)
	}

	if v.tolerance.IsNegative() {
		return nil
	}

	expected, ok := expectedPrice(p, item)
	if !ok {
		return nil
	}
	if !pricing.WithinTolerance(item.UnitPrice, expected, v.tolerance) {
		return usecase.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("price mismatch for product %d", item.ProductID))
	}
	return nil
}

// 量り売りはquantityを計算に使わないが、負の値は受けない
func validQuantity(item checkout.LineInput) bool {
	if !item.IsFractional {
		return item.Quantity >= 1
	}
	if item.Quantity < 0 {
		return false
	}
	return item.CustomQuantity == nil || *item.CustomQuantity > 0
}

// 量り売りは100あたりの価格と量が両方分かるときだけ比べる
func expectedPrice(p model.Product, item checkout.LineInput) (decimal.Decimal, bool) {
	if !item.IsFractional {
		return p.SalePrice, true
	}
	if !p.FractionalPricePer100.Valid || item.CustomQuantity == nil {
		return decimal.Zero, false
	}
	return pricing.FractionalPrice(p.FractionalPricePer100.Decimal, *item.CustomQuantity), true
}
