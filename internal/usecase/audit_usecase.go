package usecase

import (
	"context"
	"net/http"

	"storeadmin/internal/domain/authz"
	"storeadmin/internal/domain/model"
	repo "storeadmin/internal/repository"
)

type AuditUsecase struct {
	auditRepo repo.AuditLogRepository
}

func NewAuditUsecase(auditRepo repo.AuditLogRepository) *AuditUsecase {
	return &AuditUsecase{auditRepo: auditRepo}
}

func (u *AuditUsecase) List(ctx context.Context, p authz.Principal, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	if err := authz.Authorize(p, authz.ActionViewAuditLog, 0); err != nil {
		return []model.AuditLog{}, fromAuthz(err)
	}
	if f.Limit < 0 || f.Offset < 0 {
		return []model.AuditLog{}, NewHTTPError(http.StatusBadRequest, "invalid paging")
	}
	if f.CreatedFrom != nil && f.CreatedTo != nil && f.CreatedFrom.After(*f.CreatedTo) {
		return []model.AuditLog{}, NewHTTPError(http.StatusBadRequest, "from must be before to")
	}

	logs, err := u.auditRepo.List(ctx, f)
	if err != nil {
		return []model.AuditLog{}, InternalError(err)
	}
	if logs == nil {
		logs = []model.AuditLog{}
	}
	return logs, nil
}
