package repository

import (
	"context"

	"storeadmin/internal/domain/model"

	"github.com/shopspring/decimal"
)

// 一覧検索
type ProductListQuery struct {
	Page          int
	Limit         int
	Q             string
	OnlyAvailable bool
	MinPrice      *decimal.Decimal
	MaxPrice      *decimal.Decimal
	Sort          string
}

// 商品の永続化（保存・取得）だけを約束。
// 論理削除済みの商品はFindByIDでもErrNotFound
type ProductRepository interface {
	ListPublic(ctx context.Context, q ProductListQuery) ([]model.Product, int64, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, p model.Product) error
	SoftDelete(ctx context.Context, id int64) error
}
