package usecase

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"storeadmin/internal/domain/authz"
	"storeadmin/internal/domain/model"
	"storeadmin/internal/repository"

	"go.uber.org/zap"
)

// 管理者によるユーザー管理（一覧・ロール変更・停止/再開）
type AdminUserUsecase struct {
	users     repository.UserRepository
	auditRepo repository.AuditLogRepository
	logger    *zap.Logger
	now       func() time.Time
}

func NewAdminUserUsecase(users repository.UserRepository, auditRepo repository.AuditLogRepository, logger *zap.Logger) *AdminUserUsecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminUserUsecase{users: users, auditRepo: auditRepo, logger: logger, now: time.Now}
}

func (u *AdminUserUsecase) List(ctx context.Context, p authz.Principal) ([]UserDTO, error) {
	if err := authz.Authorize(p, authz.ActionManageUsers, 0); err != nil {
		return []UserDTO{}, fromAuthz(err)
	}

	users, err := u.users.List(ctx)
	if err != nil {
		return []UserDTO{}, InternalError(err)
	}

	out := make([]UserDTO, 0, len(users))
	for i := range users {
		out = append(out, toUserDTO(&users[i]))
	}
	return out, nil
}

// UpdateRole changes a user's role. An admin cannot demote themselves.
func (u *AdminUserUsecase) UpdateRole(ctx context.Context, p authz.Principal, userID int64, role string) (UserDTO, error) {
	if err := authz.Authorize(p, authz.ActionManageUsers, 0); err != nil {
		return UserDTO{}, fromAuthz(err)
	}
	if userID <= 0 {
		return UserDTO{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	next := model.Role(strings.TrimSpace(role))
	if !next.Valid() {
		return UserDTO{}, NewHTTPError(http.StatusBadRequest, "invalid role")
	}
	if userID == p.UserID && next != model.RoleAdmin {
		return UserDTO{}, NewHTTPError(http.StatusBadRequest, "cannot change your own role")
	}

	user, err := u.find(ctx, userID)
	if err != nil {
		return UserDTO{}, err
	}

	prev := user.Role
	user.Role = next
	if err := u.users.Update(ctx, user); err != nil {
		return UserDTO{}, InternalError(err)
	}

	u.audit(ctx, p, model.AuditActionUpdateUserRole, userID,
		fmt.Sprintf(`{"role":%q}`, prev),
		fmt.Sprintf(`{"role":%q}`, next),
	)
	u.logger.Info("user role changed",
		zap.Int64("user_id", userID),
		zap.Int64("actor_user_id", p.UserID),
		zap.String("from", string(prev)),
		zap.String("to", string(next)),
	)

	return toUserDTO(user), nil
}

// SetActive deactivates or reactivates a user. Deactivated users are
// rejected by ActiveUserGuard on their next request.
func (u *AdminUserUsecase) SetActive(ctx context.Context, p authz.Principal, userID int64, active bool) (UserDTO, error) {
	if err := authz.Authorize(p, authz.ActionManageUsers, 0); err != nil {
		return UserDTO{}, fromAuthz(err)
	}
	if userID <= 0 {
		return UserDTO{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if userID == p.UserID && !active {
		return UserDTO{}, NewHTTPError(http.StatusBadRequest, "cannot deactivate your own account")
	}

	user, err := u.find(ctx, userID)
	if err != nil {
		return UserDTO{}, err
	}

	prev := user.IsActive
	user.IsActive = active
	if err := u.users.Update(ctx, user); err != nil {
		return UserDTO{}, InternalError(err)
	}

	u.audit(ctx, p, model.AuditActionUpdateUserActive, userID,
		fmt.Sprintf(`{"is_active":%t}`, prev),
		fmt.Sprintf(`{"is_active":%t}`, active),
	)
	u.logger.Info("user active flag changed",
		zap.Int64("user_id", userID),
		zap.Int64("actor_user_id", p.UserID),
		zap.Bool("is_active", active),
	)

	return toUserDTO(user), nil
}

func (u *AdminUserUsecase) find(ctx context.Context, userID int64) (*model.User, error) {
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return nil, InternalError(err)
	}
	if user == nil {
		return nil, NewHTTPError(http.StatusNotFound, "user not found")
	}
	return user, nil
}

// 変更は保存済みなので、監査ログの失敗はWarnだけ
func (u *AdminUserUsecase) audit(ctx context.Context, p authz.Principal, action model.AuditAction, userID int64, before, after string) {
	if err := u.auditRepo.Create(ctx, model.AuditLog{
		ActorUserID:  p.UserID,
		Action:       action,
		ResourceType: model.AuditResourceUser,
		ResourceID:   userID,
		BeforeJSON:   before,
		AfterJSON:    after,
		CreatedAt:    u.now(),
	}); err != nil {
		u.logger.Warn("audit log for user change failed",
			zap.String("action", string(action)),
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
	}
}
