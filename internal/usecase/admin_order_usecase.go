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
	repo "storeadmin/internal/repository"
	"storeadmin/internal/telemetry"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const maxAdminOrderLimit = 100

type AdminOrderUsecase struct {
	tx      repo.TransactionManager
	metrics *telemetry.OrderMetrics
	logger  *zap.Logger
	now     func() time.Time
}

func NewAdminOrderUsecase(tx repo.TransactionManager, metrics *telemetry.OrderMetrics, logger *zap.Logger) *AdminOrderUsecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminOrderUsecase{tx: tx, metrics: metrics, logger: logger, now: time.Now}
}

type AdminOrderListOutput struct {
	Items []OrderOutput `json:"items"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

// 注文一覧（新しい順）。limit=0は全件
func (u *AdminOrderUsecase) List(ctx context.Context, p authz.Principal, f repo.AdminOrderListFilter) (AdminOrderListOutput, error) {
	if err := authz.Authorize(p, authz.ActionListAllOrders, 0); err != nil {
		return AdminOrderListOutput{}, fromAuthz(err)
	}

	// page/limitの最低限チェック
	if f.Page < 1 {
		return AdminOrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if f.Limit < 0 || f.Limit > maxAdminOrderLimit {
		return AdminOrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if f.Status != "" && !f.Status.Valid() {
		return AdminOrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return AdminOrderListOutput{}, NewHTTPError(http.StatusBadRequest, "from must be before to")
	}

	out := AdminOrderListOutput{Page: f.Page, Limit: f.Limit}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, total, err := r.Orders().ListAdmin(ctx, f)
		if err != nil {
			return InternalError(err)
		}

		items, err := attachItems(ctx, r, orders)
		if err != nil {
			return err
		}
		out.Items = items
		out.Total = total
		return nil
	})

	if err != nil {
		return AdminOrderListOutput{}, err
	}
	return out, nil
}

// UpdateStatus moves an order along the state machine and records an audit
// entry in the same transaction. Checks run in order: permission, status
// literal, order lookup, transition.
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, p authz.Principal, orderID int64, status string) (OrderOutput, error) {
	ctx, span := tracer.Start(ctx, "AdminOrderUsecase.UpdateStatus")
	defer span.End()

	if err := authz.Authorize(p, authz.ActionSetOrderStatus, 0); err != nil {
		return OrderOutput{}, fromAuthz(err)
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	next := model.OrderStatus(strings.TrimSpace(status))
	if !next.Valid() {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	var out OrderOutput
	var prev model.OrderStatus

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// 注文取得
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "order not found")
		}
		if err != nil {
			return InternalError(err)
		}

		// 遷移表にないもの（同じ状態・終端から）は400
		if !o.Status.CanTransitionTo(next) {
			return NewHTTPError(http.StatusBadRequest, fmt.Sprintf("cannot change status from %s to %s", o.Status, next))
		}
		prev = o.Status

		if err := r.Orders().UpdateStatus(ctx, orderID, o.Status, next); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "order not found")
			}
			//読んだ後に別の管理者が先に変更した
			if errors.Is(err, repo.ErrConflict) {
				cur, ferr := r.Orders().FindByID(ctx, orderID)
				if ferr != nil {
					return InternalError(ferr)
				}
				return NewHTTPError(http.StatusBadRequest, fmt.Sprintf("cannot change status from %s to %s", cur.Status, next))
			}
			return InternalError(err)
		}

		//監査ログ（同じTx）
		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  p.UserID,
			Action:       model.AuditActionUpdateOrderStatus,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			BeforeJSON:   fmt.Sprintf(`{"status":%q}`, o.Status),
			AfterJSON:    fmt.Sprintf(`{"status":%q}`, next),
			CreatedAt:    u.now(),
		}); err != nil {
			return InternalError(err)
		}

		//更新後を読み直して返す
		updated, err := r.Orders().FindByID(ctx, orderID)
		if err != nil {
			return InternalError(err)
		}
		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return InternalError(err)
		}

		out = OrderOutput{Order: updated, Items: items}
		return nil
	})

	if err != nil {
		span.RecordError(err)
		if he, ok := AsHTTPError(err); ok && he.Status >= http.StatusInternalServerError {
			u.logger.Error("update order status failed", zap.Int64("order_id", orderID), zap.Error(err))
		}
		return OrderOutput{}, err
	}

	span.SetAttributes(
		attribute.Int64("order_id", orderID),
		attribute.String("from", string(prev)),
		attribute.String("to", string(next)),
	)
	u.metrics.StatusChanged(ctx, prev, next)
	u.logger.Info("order status changed",
		zap.Int64("order_id", orderID),
		zap.Int64("actor_user_id", p.UserID),
		zap.String("from", string(prev)),
		zap.String("to", string(next)),
	)

	return out, nil
}
