package usecase

import (
	"context"
	"net/http"
	"testing"
	"time"

	"storeadmin/internal/domain/model"
	repo "storeadmin/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type adminFixture struct {
	uc     *AdminOrderUsecase
	tx     *TxManagerMock
	orders *OrderRepoMock
	items  *OrderItemRepoMock
	audit  *AuditRepoMock
}

func newAdminFixture() adminFixture {
	orders := new(OrderRepoMock)
	items := new(OrderItemRepoMock)
	audit := new(AuditRepoMock)
	tx := &TxManagerMock{Repos: &TxReposMock{orders: orders, orderItems: items, auditLogs: audit}}

	uc := NewAdminOrderUsecase(tx, nil, nil)
	uc.now = func() time.Time { return fixedNow }
	return adminFixture{uc: uc, tx: tx, orders: orders, items: items, audit: audit}
}

// =====================
// List tests
// =====================

func TestAdminList_OK(t *testing.T) {
	f := newAdminFixture()
	filter := repo.AdminOrderListFilter{Page: 1, Limit: 20, Status: model.OrderStatusPending}

	f.tx.On("WithinTx", mock.Anything).Return(nil).Once()
	f.orders.On("ListAdmin", mock.Anything, filter).Return([]model.Order{{ID: 2}, {ID: 1}}, int64(2), nil).Once()
	f.items.On("ListByOrderIDs", mock.Anything, []int64{2, 1}).Return(map[int64][]model.OrderItem{}, nil).Once()

	out, err := f.uc.List(context.Background(), admin(), filter)

	require.NoError(t, err)
	assert.Equal(t, int64(2), out.Total)
	assert.Len(t, out.Items, 2)
	f.orders.AssertExpectations(t)
}

func TestAdminList_LimitZeroMeansAll(t *testing.T) {
	f := newAdminFixture()
	filter := repo.AdminOrderListFilter{Page: 1, Limit: 0}

	f.tx.On("WithinTx", mock.Anything).Return(nil).Once()
	f.orders.On("ListAdmin", mock.Anything, filter).Return([]model.Order{}, int64(0), nil).Once()
	f.items.On("ListByOrderIDs", mock.Anything, []int64{}).Return(map[int64][]model.OrderItem{}, nil).Once()

	_, err := f.uc.List(context.Background(), admin(), filter)
	require.NoError(t, err)
}

func TestAdminList_Rejects(t *testing.T) {
	from := fixedNow
	to := fixedNow.Add(-time.Hour)

	cases := []struct {
		name   string
		filter repo.AdminOrderListFilter
		msg    string
	}{
		{"page", repo.AdminOrderListFilter{Page: 0, Limit: 10}, "invalid page"},
		{"limit", repo.AdminOrderListFilter{Page: 1, Limit: 101}, "invalid limit"},
		{"status", repo.AdminOrderListFilter{Page: 1, Limit: 10, Status: "shipped"}, "invalid status"},
		{"range", repo.AdminOrderListFilter{Page: 1, Limit: 10, From: &from, To: &to}, "from must be before to"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newAdminFixture()
			_, err := f.uc.List(context.Background(), admin(), tc.filter)
			assertErrContains(t, err, tc.msg)
			assertStatus(t, err, http.StatusBadRequest)
			f.tx.AssertNotCalled(t, "WithinTx", mock.Anything)
		})
	}
}

func TestAdminList_NonAdminForbidden(t *testing.T) {
	f := newAdminFixture()

	_, err := f.uc.List(context.Background(), customer(), repo.AdminOrderListFilter{Page: 1, Limit: 10})

	assertStatus(t, err, http.StatusForbidden)
}

// =====================
// UpdateStatus tests
// =====================

func TestUpdateStatus_PendingToDelivered(t *testing.T) {
	f := newAdminFixture()
	ctx := context.Background()

	f.tx.On("WithinTx", mock.Anything).Return(nil).Once()
	f.orders.On("FindByID", mock.Anything, int64(5)).Return(model.Order{ID: 5, Status: model.OrderStatusPending}, nil).Once()
	f.orders.On("UpdateStatus", mock.Anything, int64(5), model.OrderStatusPending, model.OrderStatusDelivered).Return(nil).Once()
	f.audit.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.ActorUserID == 1 &&
			l.Action == model.AuditActionUpdateOrderStatus &&
			l.ResourceType == model.AuditResourceOrder &&
			l.ResourceID == 5 &&
			l.BeforeJSON == `{"status":"pending"}` &&
			l.AfterJSON == `{"status":"delivered"}`
	})).Return(nil).Once()
	f.orders.On("FindByID", mock.Anything, int64(5)).Return(model.Order{ID: 5, Status: model.OrderStatusDelivered}, nil).Once()
	f.items.On("ListByOrderID", mock.Anything, int64(5)).Return([]model.OrderItem{{ID: 1, OrderID: 5}}, nil).Once()

	out, err := f.uc.UpdateStatus(ctx, admin(), 5, "delivered")

	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusDelivered, out.Status)
	assert.Len(t, out.Items, 1)
	f.orders.AssertExpectations(t)
	f.audit.AssertExpectations(t)
}

func TestUpdateStatus_NonAdminForbiddenBeforeAnythingElse(t *testing.T) {
	f := newAdminFixture()

	// 不正なステータスでも権限チェックが先
	_, err := f.uc.UpdateStatus(context.Background(), customer(), 5, "bogus")

	assertStatus(t, err, http.StatusForbidden)
	f.tx.AssertNotCalled(t, "WithinTx", mock.Anything)
}

func TestUpdateStatus_InvalidLiteralBeforeLookup(t *testing.T) {
	f := newAdminFixture()

	_, err := f.uc.UpdateStatus(context.Background(), admin(), 999, "shipped")

	assertStatus(t, err, http.StatusBadRequest)
	assertErrContains(t, err, "invalid status")
	f.orders.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestUpdateStatus_NotFound(t *testing.T) {
	f := newAdminFixture()

	f.tx.On("WithinTx", mock.Anything).Return(nil).Once()
	f.orders.On("FindByID", mock.Anything, int64(999)).Return(model.Order{}, repo.ErrNotFound).Once()

	_, err := f.uc.UpdateStatus(context.Background(), admin(), 999, "delivered")

	assertStatus(t, err, http.StatusNotFound)
}

func TestUpdateStatus_RejectedTransitions(t *testing.T) {
	cases := []struct {
		from model.OrderStatus
		to   string
	}{
		{model.OrderStatusDelivered, "cancelled"},
		{model.OrderStatusDelivered, "pending"},
		{model.OrderStatusCancelled, "delivered"},
		{model.OrderStatusCancelled, "pending"},
		{model.OrderStatusPending, "pending"},
		{model.OrderStatusDelivered, "delivered"},
	}

	for _, tc := range cases {
		t.Run(string(tc.from)+"->"+tc.to, func(t *testing.T) {
			f := newAdminFixture()
			f.tx.On("WithinTx", mock.Anything).Return(nil).Once()
			f.orders.On("FindByID", mock.Anything, int64(5)).Return(model.Order{ID: 5, Status: tc.from}, nil).Once()

			_, err := f.uc.UpdateStatus(context.Background(), admin(), 5, tc.to)

			assertStatus(t, err, http.StatusBadRequest)
			assertErrContains(t, err, "cannot change status from "+string(tc.from)+" to "+tc.to)
			f.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			f.audit.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestUpdateStatus_ConcurrentChangeWins(t *testing.T) {
	f := newAdminFixture()

	// 読んだときはpending、更新時には別の管理者がdeliveredにしていた
	f.tx.On("WithinTx", mock.Anything).Return(nil).Once()
	f.orders.On("FindByID", mock.Anything, int64(5)).Return(model.Order{ID: 5, Status: model.OrderStatusPending}, nil).Once()
	f.orders.On("UpdateStatus", mock.Anything, int64(5), model.OrderStatusPending, model.OrderStatusCancelled).Return(repo.ErrConflict).Once()
	f.orders.On("FindByID", mock.Anything, int64(5)).Return(model.Order{ID: 5, Status: model.OrderStatusDelivered}, nil).Once()

	_, err := f.uc.UpdateStatus(context.Background(), admin(), 5, "cancelled")

	assertStatus(t, err, http.StatusBadRequest)
	assertErrContains(t, err, "cannot change status from delivered to cancelled")
	f.audit.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.orders.AssertExpectations(t)
}
