package appointments

import (
	"context"
	"sort"
	"sync"

	"github.com/sophro-cabinet/site-backend/internal/models"
	"github.com/sophro-cabinet/site-backend/pkg/pagination"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MemoryRepository struct {
	mu    sync.RWMutex
	store map[primitive.ObjectID]models.Appointment
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{store: make(map[primitive.ObjectID]models.Appointment)}
}

func (m *MemoryRepository) Create(ctx context.Context, a *models.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	m.store[a.ID] = *a
	return nil
}

func (m *MemoryRepository) List(ctx context.Context, status models.AppointmentStatus, p pagination.Params) ([]models.Appointment, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var all []models.Appointment
	for _, a := range m.store {
		if status == "" || a.Status == status {
			all = append(all, a)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	start, end := p.Bounds(len(all))
	return append([]models.Appointment{}, all[start:end]...), int64(len(all)), nil
}

func (m *MemoryRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.AppointmentStatus) (*models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.store[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	a.Status = status
	m.store[id] = a
	return &a, nil
}

func (m *MemoryRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return models.ErrNotFound
	}
	delete(m.store, id)
	return nil
}
