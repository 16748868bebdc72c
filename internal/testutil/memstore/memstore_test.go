package memstore

import (
	"context"
	"errors"
	"testing"

	"storeadmin/internal/domain/model"
	repo "storeadmin/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithinTx_RollsBackOnError(t *testing.T) {
	st := New()
	ctx := context.Background()

	err := st.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().Create(ctx, model.Order{UserID: 1, Status: model.OrderStatusPending})
		require.NoError(t, err)
		_, err = r.OrderItems().CreateBulk(ctx, o.ID, []model.OrderItem{{ProductID: 1}})
		require.NoError(t, err)
		return errors.New("boom")
	})
	require.Error(t, err)

	orders, _, err := st.Orders().ListAdmin(ctx, repo.AdminOrderListFilter{Page: 1})
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestWithinTx_Commits(t *testing.T) {
	st := New()
	ctx := context.Background()

	var id int64
	require.NoError(t, st.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().Create(ctx, model.Order{UserID: 1})
		id = o.ID
		return err
	}))

	_, err := st.Orders().FindByID(ctx, id)
	assert.NoError(t, err)
}

func TestProducts_SoftDeleteHides(t *testing.T) {
	st := New()
	ctx := context.Background()

	p, err := st.Products().Create(ctx, model.Product{Name: "Rice", IsAvailable: true, SalePrice: decimal.NewFromInt(10)})
	require.NoError(t, err)
	require.NoError(t, st.Products().SoftDelete(ctx, p.ID))

	_, err = st.Products().FindByID(ctx, p.ID)
	assert.ErrorIs(t, err, repo.ErrNotFound)
	assert.ErrorIs(t, st.Products().SoftDelete(ctx, p.ID), repo.ErrNotFound)
}

func TestUsers_DuplicateEmail(t *testing.T) {
	st := New()
	ctx := context.Background()

	require.NoError(t, st.Users().Create(ctx, &model.User{Email: "a@example.com"}))
	assert.ErrorIs(t, st.Users().Create(ctx, &model.User{Email: "A@example.com"}), repo.ErrDuplicate)
}

func TestSettings(t *testing.T) {
	s := &Settings{}
	ctx := context.Background()

	_, err := s.GetShippingCost(ctx)
	assert.ErrorIs(t, err, repo.ErrNotFound)

	require.NoError(t, s.SetShippingCost(ctx, decimal.NewFromInt(650)))
	v, err := s.GetShippingCost(ctx)
	require.NoError(t, err)
	assert.True(t, v.Equal(decimal.NewFromInt(650)))

	s.SetErr(errors.New("down"))
	_, err = s.GetShippingCost(ctx)
	assert.Error(t, err)
}

func TestUsers_ListNewestFirst(t *testing.T) {
	st := New()
	ctx := context.Background()

	first := &model.User{Email: "a@example.com"}
	second := &model.User{Email: "b@example.com"}
	require.NoError(t, st.Users().Create(ctx, first))
	require.NoError(t, st.Users().Create(ctx, second))

	users, err := st.Users().List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, second.ID, users[0].ID)
}

func TestOrders_UpdateStatusChecksPrevious(t *testing.T) {
	st := New()
	ctx := context.Background()

	o, err := st.Orders().Create(ctx, model.Order{UserID: 1, Status: model.OrderStatusPending})
	require.NoError(t, err)

	require.NoError(t, st.Orders().UpdateStatus(ctx, o.ID, model.OrderStatusPending, model.OrderStatusDelivered))
	assert.ErrorIs(t, st.Orders().UpdateStatus(ctx, o.ID, model.OrderStatusPending, model.OrderStatusCancelled), repo.ErrConflict)
	assert.ErrorIs(t, st.Orders().UpdateStatus(ctx, 999, model.OrderStatusPending, model.OrderStatusCancelled), repo.ErrNotFound)

	got, err := st.Orders().FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusDelivered, got.Status)
}
