package tenant

import (
	"context"
	"sync"

	"github.com/nikhilbhutani/dinehub/internal/models"
)

type fakeStore struct {
	tenants map[int64]*models.Tenant
}

func newFakeStore(ts ...*models.Tenant) *fakeStore {
	s := &fakeStore{tenants: map[int64]*models.Tenant{}}
	for _, t := range ts {
		s.tenants[t.ID] = t
	}
	return s
}

func (s *fakeStore) GetByID(_ context.Context, id int64) (*models.Tenant, error) {
	if t, ok := s.tenants[id]; ok {
		c := *t
		return &c, nil
	}
	return nil, ErrNotFound
}

func (s *fakeStore) GetByOwnerID(_ context.Context, ownerID int64) (*models.Tenant, error) {
	var found *models.Tenant
	for _, t := range s.tenants {
		if t.OwnerID != ownerID {
			continue
		}
		if found != nil {
			return nil, ErrAmbiguousOwner
		}
		c := *t
		found = &c
	}
	if found == nil {
		return nil, ErrNotFound
	}
	return found, nil
}

type fakeRecorder struct {
	mu     sync.Mutex
	events []models.SecurityEvent
}

func (r *fakeRecorder) Record(evt models.SecurityEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
}
