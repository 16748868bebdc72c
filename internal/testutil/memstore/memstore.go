// Package memstore holds in-memory repositories for tests that need a whole
// wired server without Postgres or Redis.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"storeadmin/internal/domain/model"
	repo "storeadmin/internal/repository"

	"github.com/shopspring/decimal"
)

type state struct {
	users    map[int64]model.User
	products map[int64]model.Product
	orders   map[int64]model.Order
	items    map[int64]model.OrderItem
	audits   []model.AuditLog
	nextID   int64
}

func (s state) clone() state {
	out := state{
		users:    make(map[int64]model.User, len(s.users)),
		products: make(map[int64]model.Product, len(s.products)),
		orders:   make(map[int64]model.Order, len(s.orders)),
		items:    make(map[int64]model.OrderItem, len(s.items)),
		audits:   append([]model.AuditLog(nil), s.audits...),
		nextID:   s.nextID,
	}
	for k, v := range s.users {
		out.users[k] = v
	}
	for k, v := range s.products {
		out.products[k] = v
	}
	for k, v := range s.orders {
		out.orders[k] = v
	}
	for k, v := range s.items {
		out.items[k] = v
	}
	return out
}

// Store is a process-local database. Zero value is not usable; call New.
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex
	s    state
}

func New() *Store {
	return &Store{s: state{
		users:    map[int64]model.User{},
		products: map[int64]model.Product{},
		orders:   map[int64]model.Order{},
		items:    map[int64]model.OrderItem{},
	}}
}

func (st *Store) id() int64 {
	st.s.nextID++
	return st.s.nextID
}

// =====================
// TransactionManager
// =====================

// WithinTx runs fn serially and restores the previous state when fn fails.
func (st *Store) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	st.txMu.Lock()
	defer st.txMu.Unlock()

	st.mu.Lock()
	snapshot := st.s.clone()
	st.mu.Unlock()

	if err := fn(st); err != nil {
		st.mu.Lock()
		st.s = snapshot
		st.mu.Unlock()
		return err
	}
	return nil
}

func (st *Store) Orders() repo.OrderRepository         { return orderRepo{st} }
func (st *Store) OrderItems() repo.OrderItemRepository { return orderItemRepo{st} }
func (st *Store) Products() repo.ProductRepository     { return productRepo{st} }
func (st *Store) AuditLogs() repo.AuditLogRepository   { return auditRepo{st} }
func (st *Store) Users() repo.UserRepository           { return userRepo{st} }

// AllAuditLogs returns every entry, oldest first.
func (st *Store) AllAuditLogs() []model.AuditLog {
	st.mu.Lock()
	defer st.mu.Unlock()
	return append([]model.AuditLog(nil), st.s.audits...)
}

// =====================
// orders
// =====================

type orderRepo struct{ st *Store }

func (r orderRepo) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	o, ok := r.st.s.orders[orderID]
	if !ok {
		return model.Order{}, repo.ErrNotFound
	}
	return o, nil
}

func (r orderRepo) ListByUserID(ctx context.Context, userID int64) ([]model.Order, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	out := []model.Order{}
	for _, o := range r.st.s.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	newestFirst(out)
	return out, nil
}

func (r orderRepo) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	out := []model.Order{}
	for _, o := range r.st.s.orders {
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if f.UserID != nil && o.UserID != *f.UserID {
			continue
		}
		if f.From != nil && o.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && o.CreatedAt.After(*f.To) {
			continue
		}
		out = append(out, o)
	}
	newestFirst(out)

	total := int64(len(out))
	if f.Limit > 0 {
		start := (f.Page - 1) * f.Limit
		if start > len(out) {
			start = len(out)
		}
		end := start + f.Limit
		if end > len(out) {
			end = len(out)
		}
		out = out[start:end]
	}
	return out, total, nil
}

func (r orderRepo) Create(ctx context.Context, order model.Order) (model.Order, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	order.ID = r.st.id()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	order.UpdatedAt = order.CreatedAt
	r.st.s.orders[order.ID] = order
	return order, nil
}

func (r orderRepo) UpdateStatus(ctx context.Context, orderID int64, from model.OrderStatus, to model.OrderStatus) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	o, ok := r.st.s.orders[orderID]
	if !ok {
		return repo.ErrNotFound
	}
	if o.Status != from {
		return repo.ErrConflict
	}
	o.Status = to
	o.UpdatedAt = time.Now()
	r.st.s.orders[orderID] = o
	return nil
}

func newestFirst(orders []model.Order) {
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].ID > orders[j].ID
		}
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}

// =====================
// order items
// =====================

type orderItemRepo struct{ st *Store }

func (r orderItemRepo) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) ([]model.OrderItem, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	if _, ok := r.st.s.orders[orderID]; !ok {
		return nil, repo.ErrNotFound
	}

	out := make([]model.OrderItem, 0, len(items))
	for _, it := range items {
		it.ID = r.st.id()
		it.OrderID = orderID
		it.Order = nil
		r.st.s.items[it.ID] = it
		out = append(out, it)
	}
	return out, nil
}

func (r orderItemRepo) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	out := []model.OrderItem{}
	for _, it := range r.st.s.items {
		if it.OrderID == orderID {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r orderItemRepo) ListByOrderIDs(ctx context.Context, orderIDs []int64) (map[int64][]model.OrderItem, error) {
	out := make(map[int64][]model.OrderItem, len(orderIDs))
	for _, id := range orderIDs {
		items, err := r.ListByOrderID(ctx, id)
		if err != nil {
			return nil, err
		}
		out[id] = items
	}
	return out, nil
}

// =====================
// products
// =====================

type productRepo struct{ st *Store }

func (r productRepo) ListPublic(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	needle := strings.ToLower(strings.TrimSpace(q.Q))
	out := []model.Product{}
	for _, p := range r.st.s.products {
		if p.DeletedAt.Valid {
			continue
		}
		if q.OnlyAvailable && !p.IsAvailable {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(p.Name), needle) {
			continue
		}
		if q.MinPrice != nil && p.SalePrice.LessThan(*q.MinPrice) {
			continue
		}
		if q.MaxPrice != nil && p.SalePrice.GreaterThan(*q.MaxPrice) {
			continue
		}
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch q.Sort {
		case "price_asc":
			return lessDecimal(a.SalePrice, b.SalePrice, a.ID < b.ID)
		case "price_desc":
			return lessDecimal(b.SalePrice, a.SalePrice, a.ID > b.ID)
		case "name":
			if a.Name == b.Name {
				return a.ID < b.ID
			}
			return a.Name < b.Name
		}
		return a.ID > b.ID
	})

	total := int64(len(out))
	start := (q.Page - 1) * q.Limit
	if start > len(out) {
		start = len(out)
	}
	end := start + q.Limit
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], total, nil
}

func lessDecimal(a, b decimal.Decimal, tie bool) bool {
	if a.Equal(b) {
		return tie
	}
	return a.LessThan(b)
}

func (r productRepo) FindByID(ctx context.Context, id int64) (model.Product, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	p, ok := r.st.s.products[id]
	if !ok || p.DeletedAt.Valid {
		return model.Product{}, repo.ErrNotFound
	}
	return p, nil
}

func (r productRepo) Create(ctx context.Context, p model.Product) (model.Product, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	p.ID = r.st.id()
	r.st.s.products[p.ID] = p
	return p, nil
}

func (r productRepo) Update(ctx context.Context, p model.Product) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	cur, ok := r.st.s.products[p.ID]
	if !ok || cur.DeletedAt.Valid {
		return repo.ErrNotFound
	}
	p.CreatedAt = cur.CreatedAt
	r.st.s.products[p.ID] = p
	return nil
}

func (r productRepo) SoftDelete(ctx context.Context, id int64) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	p, ok := r.st.s.products[id]
	if !ok || p.DeletedAt.Valid {
		return repo.ErrNotFound
	}
	p.DeletedAt.Time = time.Now()
	p.DeletedAt.Valid = true
	r.st.s.products[id] = p
	return nil
}

// =====================
// audit logs
// =====================

type auditRepo struct{ st *Store }

func (r auditRepo) Create(ctx context.Context, log model.AuditLog) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	log.ID = r.st.id()
	r.st.s.audits = append(r.st.s.audits, log)
	return nil
}

func (r auditRepo) List(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	out := []model.AuditLog{}
	for i := len(r.st.s.audits) - 1; i >= 0; i-- {
		l := r.st.s.audits[i]
		if f.ActorUserID != nil && l.ActorUserID != *f.ActorUserID {
			continue
		}
		if f.Action != nil && l.Action != *f.Action {
			continue
		}
		if f.ResourceType != nil && l.ResourceType != *f.ResourceType {
			continue
		}
		if f.ResourceID != nil && l.ResourceID != *f.ResourceID {
			continue
		}
		if f.CreatedFrom != nil && l.CreatedAt.Before(*f.CreatedFrom) {
			continue
		}
		if f.CreatedTo != nil && l.CreatedAt.After(*f.CreatedTo) {
			continue
		}
		out = append(out, l)
	}

	if f.Offset > len(out) {
		return []model.AuditLog{}, nil
	}
	out = out[f.Offset:]
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out, nil
}

// =====================
// users
// =====================

type userRepo struct{ st *Store }

func (r userRepo) Create(ctx context.Context, user *model.User) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	for _, u := range r.st.s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return repo.ErrDuplicate
		}
	}
	user.ID = r.st.id()
	now := time.Now()
	user.CreatedAt, user.UpdatedAt = now, now
	r.st.s.users[user.ID] = *user
	return nil
}

func (r userRepo) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	u, ok := r.st.s.users[userID]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r userRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	for _, u := range r.st.s.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, nil
}

func (r userRepo) Update(ctx context.Context, user *model.User) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	if _, ok := r.st.s.users[user.ID]; !ok {
		return repo.ErrNotFound
	}
	user.UpdatedAt = time.Now()
	r.st.s.users[user.ID] = *user
	return nil
}

func (r userRepo) List(ctx context.Context) ([]model.User, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	out := make([]model.User, 0, len(r.st.s.users))
	for _, u := range r.st.s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// =====================
// settings
// =====================

// Settings is an in-memory SettingsStore.
type Settings struct {
	mu    sync.Mutex
	value *decimal.Decimal
	err   error
}

func (s *Settings) GetShippingCost(ctx context.Context) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return decimal.Zero, s.err
	}
	if s.value == nil {
		return decimal.Zero, repo.ErrNotFound
	}
	return *s.value, nil
}

func (s *Settings) SetShippingCost(ctx context.Context, value decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return s.err
	}
	s.value = &value
	return nil
}

// SetErr makes every later call fail with err (nil clears it).
func (s *Settings) SetErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

var (
	_ repo.TransactionManager = (*Store)(nil)
	_ repo.TxRepos            = (*Store)(nil)
	_ repo.SettingsStore      = (*Settings)(nil)
)
