package usecase

import (
	"context"
	"errors"
	"net/http"
	"time"

	"storeadmin/internal/domain/authz"
	"storeadmin/internal/domain/checkout"
	"storeadmin/internal/domain/model"
	repo "storeadmin/internal/repository"
	"storeadmin/internal/telemetry"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("storeadmin/usecase")

// usecaseがValidatorInterfaceに依存する約束
type OrderValidator interface {
	// pickupのときreq.PaymentModeを書き換える
	ValidateCreate(ctx context.Context, req *checkout.Request) error
}

// 送料の取得（失敗しても必ず値を返す）
type ShippingCostProvider interface {
	Current(ctx context.Context) decimal.Decimal
}

// 注文 + 明細（id asc）
type OrderOutput struct {
	model.Order
	Items []model.OrderItem `json:"items"`
}

type OrderUsecase struct {
	tx        repo.TransactionManager
	validator OrderValidator
	shipping  ShippingCostProvider
	metrics   *telemetry.OrderMetrics
	logger    *zap.Logger
	now       func() time.Time
}

func NewOrderUsecase(
	tx repo.TransactionManager,
	validator OrderValidator,
	shipping ShippingCostProvider,
	metrics *telemetry.OrderMetrics,
	logger *zap.Logger,
) *OrderUsecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderUsecase{
		tx:        tx,
		validator: validator,
		shipping:  shipping,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

func (u *OrderUsecase) CreateOrder(ctx context.Context, p authz.Principal, req checkout.Request) (OrderOutput, error) {
	ctx, span := tracer.Start(ctx, "OrderUsecase.CreateOrder")
	defer span.End()

	if err := authz.Authorize(p, authz.ActionCreateOrder, 0); err != nil {
		return OrderOutput{}, fromAuthz(err)
	}

	//検証（pickupならpayment_modeがin_storeになる）
	if err := u.validator.ValidateCreate(ctx, &req); err != nil {
		span.RecordError(err)
		return OrderOutput{}, err
	}

	//送料は配送のときだけ読む
	shipping := decimal.Zero
	if req.DeliveryMode == model.DeliveryModeShip {
		shipping = u.shipping.Current(ctx)
	}

	order, items := checkout.Build(req, p.UserID, shipping, u.now())

	var out OrderOutput

	//注文と明細は同じトランザクション
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		created, err := r.Orders().Create(ctx, order)
		if err != nil {
			return err
		}

		createdItems, err := r.OrderItems().CreateBulk(ctx, created.ID, items)
		if err != nil {
			return err
		}

		out = OrderOutput{Order: created, Items: createdItems}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "create order failed")
		u.logger.Error("create order failed", zap.Int64("user_id", p.UserID), zap.Error(err))
		return OrderOutput{}, InternalError(err)
	}

	span.SetAttributes(
		attribute.Int64("order_id", out.ID),
		attribute.String("delivery_mode", string(out.DeliveryMode)),
		attribute.String("total", out.Total.String()),
	)
	u.metrics.OrderCreated(ctx, out.DeliveryMode, out.Total)
	u.logger.Info("order created",
		zap.Int64("order_id", out.ID),
		zap.Int64("user_id", out.UserID),
		zap.String("delivery_mode", string(out.DeliveryMode)),
		zap.String("total", out.Total.String()),
		zap.Int("items", len(out.Items)),
	)

	return out, nil
}

// 自分の注文（新しい順）
func (u *OrderUsecase) ListMyOrders(ctx context.Context, p authz.Principal) ([]OrderOutput, error) {
	if !p.Authenticated() {
		return []OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, err := r.Orders().ListByUserID(ctx, p.UserID)
		if err != nil {
			return InternalError(err)
		}

		outs, err = attachItems(ctx, r, orders)
		return err
	})

	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

// 本人か管理者だけ見られる
func (u *OrderUsecase) GetOrder(ctx context.Context, p authz.Principal, orderID int64) (OrderOutput, error) {
	if !p.Authenticated() {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "order not found")
		}
		if err != nil {
			return InternalError(err)
		}

		if err := authz.Authorize(p, authz.ActionViewOrder, o.UserID); err != nil {
			return fromAuthz(err)
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return InternalError(err)
		}

		out = OrderOutput{Order: o, Items: items}
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// 明細をまとめて取って注文に付ける
func attachItems(ctx context.Context, r repo.TxRepos, orders []model.Order) ([]OrderOutput, error) {
	ids := make([]int64, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}

	byOrder, err := r.OrderItems().ListByOrderIDs(ctx, ids)
	if err != nil {
		return nil, InternalError(err)
	}

	outs := make([]OrderOutput, 0, len(orders))
	for _, o := range orders {
		items := byOrder[o.ID]
		if items == nil {
			items = []model.OrderItem{}
		}
		outs = append(outs, OrderOutput{Order: o, Items: items})
	}
	return outs, nil
}
