package usecase

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"storeadmin/internal/domain/authz"
	"storeadmin/internal/domain/model"
	repo "storeadmin/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// 送料設定。注文作成とは同じTxにしない
type ShippingUsecase struct {
	store        repo.SettingsStore
	auditRepo    repo.AuditLogRepository
	defaultValue decimal.Decimal
	logger       *zap.Logger
	now          func() time.Time
}

func NewShippingUsecase(store repo.SettingsStore, auditRepo repo.AuditLogRepository, defaultValue decimal.Decimal, logger *zap.Logger) *ShippingUsecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ShippingUsecase{
		store:        store,
		auditRepo:    auditRepo,
		defaultValue: defaultValue,
		logger:       logger,
		now:          time.Now,
	}
}

type ShippingCostOutput struct {
	ShippingCost decimal.Decimal `json:"shipping_cost"`
}

// Current never fails: any read problem falls back to the configured default.
func (u *ShippingUsecase) Current(ctx context.Context) decimal.Decimal {
	v, err := u.store.GetShippingCost(ctx)
	if err != nil {
		u.logger.Warn("shipping cost unavailable, using default",
			zap.String("default", u.defaultValue.String()),
			zap.Error(err),
		)
		return u.defaultValue
	}
	if v.IsNegative() {
		u.logger.Warn("stored shipping cost is negative, using default", zap.String("stored", v.String()))
		return u.defaultValue
	}
	return v
}

func (u *ShippingUsecase) Update(ctx context.Context, p authz.Principal, value decimal.Decimal) (ShippingCostOutput, error) {
	if err := authz.Authorize(p, authz.ActionSetShippingCost, 0); err != nil {
		return ShippingCostOutput{}, fromAuthz(err)
	}
	if value.IsNegative() {
		return ShippingCostOutput{}, NewHTTPError(http.StatusBadRequest, "shipping_cost must be >= 0")
	}

	before := u.Current(ctx)

	if err := u.store.SetShippingCost(ctx, value); err != nil {
		u.logger.Error("set shipping cost failed", zap.Error(err))
		return ShippingCostOutput{}, InternalError(err)
	}

	//監査ログ（設定は行IDが無いので0）
	//値はもう保存済み。ログ失敗で500にはしない
	if err := u.auditRepo.Create(ctx, model.AuditLog{
		ActorUserID:  p.UserID,
		Action:       model.AuditActionUpdateShippingCost,
		ResourceType: model.AuditResourceSetting,
		ResourceID:   0,
		BeforeJSON:   fmt.Sprintf(`{"shipping_cost":%s}`, before.String()),
		AfterJSON:    fmt.Sprintf(`{"shipping_cost":%s}`, value.String()),
		CreatedAt:    u.now(),
	}); err != nil {
		u.logger.Warn("audit log for shipping cost failed",
			zap.Int64("actor_user_id", p.UserID),
			zap.String("after", value.String()),
			zap.Error(err),
		)
	}

	u.logger.Info("shipping cost updated",
		zap.Int64("actor_user_id", p.UserID),
		zap.String("before", before.String()),
		zap.String("after", value.String()),
	)

	return ShippingCostOutput{ShippingCost: value}, nil
}
