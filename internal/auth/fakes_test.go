package auth

import (
	"context"
	"sync"

	"github.com/nikhilbhutani/dinehub/internal/models"
)

type memUsers struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*models.User
}

func newMemUsers() *memUsers {
	return &memUsers{nextID: 1, byID: map[int64]*models.User{}}
}

func (m *memUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.byID[id]; ok {
		c := *u
		return &c, nil
	}
	return nil, ErrUserNotFound
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *memUsers) Create(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.Email == u.Email {
			return ErrEmailExists
		}
	}
	u.ID = m.nextID
	m.nextID++
	c := *u
	m.byID[u.ID] = &c
	return nil
}

func (m *memUsers) SetDefaultTenant(_ context.Context, userID int64, tenantID *int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	u.DefaultTenantID = tenantID
	c := *u
	return &c, nil
}

type orderCounts map[[2]int64]int

func (o orderCounts) CountForCustomer(_ context.Context, customerID, tenantID int64) (int, error) {
	return o[[2]int64{customerID, tenantID}], nil
}

type recorder struct {
	mu     sync.Mutex
	events []models.SecurityEvent
}

func (r *recorder) Record(evt models.SecurityEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
}

func int64Ptr(v int64) *int64 { return &v }
