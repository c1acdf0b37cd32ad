// Package ordertest provides an in-memory order.Store for tests.
package ordertest

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/nikhilbhutani/dinehub/internal/models"
	"github.com/nikhilbhutani/dinehub/internal/order"
)

type Store struct {
	mu     sync.Mutex
	nextID int64
	orders map[int64]*models.Order

	// FailPaymentUpdate makes SetPaymentStatus fail without touching rows.
	FailPaymentUpdate error
}

func NewStore() *Store {
	return &Store{nextID: 1, orders: map[int64]*models.Order{}}
}

var _ order.Store = (*Store)(nil)

// Put stores o as is, assigning an id when it has none.
func (s *Store) Put(o models.Order) *models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o.ID == 0 {
		o.ID = s.nextID
	}
	if o.ID >= s.nextID {
		s.nextID = o.ID + 1
	}
	c := o
	s.orders[o.ID] = &c
	return copyOrder(&c)
}

// Snapshot returns the stored order or nil.
func (s *Store) Snapshot(id int64) *models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o, ok := s.orders[id]; ok {
		return copyOrder(o)
	}
	return nil
}

func (s *Store) Insert(_ context.Context, o *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o.ID = s.nextID
	s.nextID++
	now := time.Now()
	o.CreatedAt, o.UpdatedAt = now, now
	s.orders[o.ID] = copyOrder(o)
	return nil
}

func (s *Store) GetByID(_ context.Context, tenantID, id int64) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok || o.TenantID != tenantID {
		return nil, order.ErrNotFound
	}
	return copyOrder(o), nil
}

func (s *Store) GetAny(_ context.Context, id int64) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, order.ErrNotFound
	}
	return copyOrder(o), nil
}

func (s *Store) ListByGroup(_ context.Context, groupID string) ([]models.Order, error) {
	return s.filter(func(o *models.Order) bool {
		return o.OrderGroupID != nil && *o.OrderGroupID == groupID
	}), nil
}

func (s *Store) ListByIntentIDs(_ context.Context, intentIDs []string) ([]models.Order, error) {
	return s.filter(func(o *models.Order) bool {
		return o.PaymentIntentID != nil && slices.Contains(intentIDs, *o.PaymentIntentID)
	}), nil
}

func (s *Store) List(_ context.Context, f order.ListFilter) ([]models.Order, error) {
	all := s.filter(func(o *models.Order) bool {
		if o.TenantID != f.TenantID {
			return false
		}
		if f.CustomerID != nil && o.CustomerID != *f.CustomerID {
			return false
		}
		return f.Status == "" || o.Status == f.Status
	})
	if f.Offset >= len(all) {
		return nil, nil
	}
	all = all[f.Offset:]
	if f.Limit > 0 && len(all) > f.Limit {
		all = all[:f.Limit]
	}
	return all, nil
}

func (s *Store) UpdateStatus(_ context.Context, tenantID, id int64, from, to models.OrderStatus) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok || o.TenantID != tenantID || o.Status != from {
		return nil, order.ErrStale
	}
	o.Status = to
	o.UpdatedAt = time.Now()
	return copyOrder(o), nil
}

func (s *Store) CountForCustomer(_ context.Context, customerID, tenantID int64) (int, error) {
	return len(s.filter(func(o *models.Order) bool {
		return o.CustomerID == customerID && o.TenantID == tenantID
	})), nil
}

func (s *Store) AttachIntent(_ context.Context, orderIDs []int64, intentID, method string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range orderIDs {
		if o, ok := s.orders[id]; ok {
			pi := intentID
			o.PaymentIntentID = &pi
			o.PaymentMethod = method
		}
	}
	return nil
}

func (s *Store) SetPaymentStatus(_ context.Context, intentID string, to models.PaymentStatus, from ...models.PaymentStatus) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailPaymentUpdate != nil {
		return nil, s.FailPaymentUpdate
	}

	var updated []models.Order
	for _, id := range s.sortedIDs() {
		o := s.orders[id]
		if o.PaymentIntentID == nil || *o.PaymentIntentID != intentID || !slices.Contains(from, o.PaymentStatus) {
			continue
		}
		o.PaymentStatus = to
		updated = append(updated, *copyOrder(o))
	}
	return updated, nil
}

func (s *Store) SetOrderPaymentStatus(_ context.Context, id int64, to models.PaymentStatus, from ...models.PaymentStatus) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailPaymentUpdate != nil {
		return nil, s.FailPaymentUpdate
	}

	o, ok := s.orders[id]
	if !ok || !slices.Contains(from, o.PaymentStatus) {
		return nil, order.ErrStale
	}
	o.PaymentStatus = to
	return copyOrder(o), nil
}

func (s *Store) filter(keep func(*models.Order) bool) []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Order
	for _, id := range s.sortedIDs() {
		if o := s.orders[id]; keep(o) {
			out = append(out, *copyOrder(o))
		}
	}
	return out
}

func (s *Store) sortedIDs() []int64 {
	ids := make([]int64, 0, len(s.orders))
	for id := range s.orders {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func copyOrder(o *models.Order) *models.Order {
	c := *o
	c.Items = slices.Clone(o.Items)
	return &c
}
