package admins

import (
	"context"
	"sync"
	"time"

	"github.com/sophro-cabinet/site-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryRepository keeps admins in a map; used by tests and the no-database dev mode.
type MemoryRepository struct {
	mu    sync.RWMutex
	store map[primitive.ObjectID]models.Admin
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{store: make(map[primitive.ObjectID]models.Admin)}
}

func (m *MemoryRepository) Create(ctx context.Context, a *models.Admin) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.store {
		if existing.Email == a.Email {
			return ErrEmailTaken
		}
	}
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	m.store[a.ID] = *a
	return nil
}

func (m *MemoryRepository) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.store {
		if a.Email == email {
			cp := a
			return &cp, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *MemoryRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Admin, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.store[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &a, nil
}

func (m *MemoryRepository) RecordLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.store[id]
	if !ok {
		return models.ErrNotFound
	}
	a.LastLogin = &at
	a.LoginCount++
	m.store[id] = a
	return nil
}

func (m *MemoryRepository) UpdatePasswordHash(ctx context.Context, id primitive.ObjectID, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.store[id]
	if !ok {
		return models.ErrNotFound
	}
	a.PasswordHash = hash
	m.store[id] = a
	return nil
}
