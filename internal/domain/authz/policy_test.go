package authz

import (
	"testing"

	"storeadmin/internal/domain/model"

	"github.com/stretchr/testify/assert"
)

func TestAuthorize_AdminOnlyActions(t *testing.T) {
	admin := Principal{UserID: 1, Role: model.RoleAdmin}
	user := Principal{UserID: 2, Role: model.RoleUser}

	actions := []Action{
		ActionListAllOrders,
		ActionSetOrderStatus,
		ActionSetShippingCost,
		ActionManageCatalog,
		ActionViewAuditLog,
		ActionManageUsers,
		ActionAdminArea,
	}

	for _, a := range actions {
		assert.NoError(t, Authorize(admin, a, 0), "admin %s", a)
		assert.ErrorIs(t, Authorize(user, a, 0), ErrForbidden, "user %s", a)
	}
}

func TestAuthorize_ViewOrder(t *testing.T) {
	owner := Principal{UserID: 10, Role: model.RoleUser}
	other := Principal{UserID: 11, Role: model.RoleUser}
	admin := Principal{UserID: 1, Role: model.RoleAdmin}

	assert.NoError(t, Authorize(owner, ActionViewOrder, 10))
	assert.ErrorIs(t, Authorize(other, ActionViewOrder, 10), ErrForbidden)
	assert.NoError(t, Authorize(admin, ActionViewOrder, 10))
}

func TestAuthorize_CreateOrderAnyAuthenticated(t *testing.T) {
	assert.NoError(t, Authorize(Principal{UserID: 3, Role: model.RoleUser}, ActionCreateOrder, 0))
	assert.NoError(t, Authorize(Principal{UserID: 1, Role: model.RoleAdmin}, ActionCreateOrder, 0))
}

func TestAuthorize_Unauthenticated(t *testing.T) {
	assert.ErrorIs(t, Authorize(Principal{}, ActionCreateOrder, 0), ErrUnauthenticated)
	assert.ErrorIs(t, Authorize(Principal{Role: model.RoleAdmin}, ActionAdminArea, 0), ErrUnauthenticated)
}

func TestAuthorize_UnknownAction(t *testing.T) {
	p := Principal{UserID: 1, Role: model.RoleUser}
	assert.ErrorIs(t, Authorize(p, Action("order:delete"), 1), ErrForbidden)
}
