// Package authz is the single place that decides who may do what.
// Route guards and usecases both call Authorize.
package authz

import (
	"errors"

	"storeadmin/internal/domain/model"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
)

// リクエストした人（JWTから復元）
type Principal struct {
	UserID int64
	Role   model.Role
}

func (p Principal) IsAdmin() bool {
	return p.Role == model.RoleAdmin
}

func (p Principal) Authenticated() bool {
	return p.UserID > 0
}

type Action string

const (
	ActionCreateOrder     Action = "order:create"
	ActionViewOrder       Action = "order:view"
	ActionListAllOrders   Action = "order:list_all"
	ActionSetOrderStatus  Action = "order:set_status"
	ActionSetShippingCost Action = "settings:set_shipping_cost"
	ActionManageCatalog   Action = "catalog:manage"
	ActionViewAuditLog    Action = "audit:view"
	ActionManageUsers     Action = "users:manage"
	ActionAdminArea       Action = "admin:area"
)

// 管理者だけが使える操作
var adminOnly = map[Action]bool{
	ActionListAllOrders:   true,
	ActionSetOrderStatus:  true,
	ActionSetShippingCost: true,
	ActionManageCatalog:   true,
	ActionViewAuditLog:    true,
	ActionManageUsers:     true,
	ActionAdminArea:       true,
}

// Authorize returns nil when p may perform action. ownerID is the owner of
// the target resource and is only consulted for owner-scoped actions
// (0 when the action has no owner).
func Authorize(p Principal, action Action, ownerID int64) error {
	if !p.Authenticated() {
		return ErrUnauthenticated
	}

	if adminOnly[action] {
		if !p.IsAdmin() {
			return ErrForbidden
		}
		return nil
	}

	switch action {
	case ActionCreateOrder:
		return nil
	case ActionViewOrder:
		if p.IsAdmin() || p.UserID == ownerID {
			return nil
		}
		return ErrForbidden
	}

	// 未知の操作は拒否
	return ErrForbidden
}
