package testimonials

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
	store map[primitive.ObjectID]models.Testimonial
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{store: make(map[primitive.ObjectID]models.Testimonial)}
}

func (m *MemoryRepository) Create(ctx context.Context, t *models.Testimonial) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.ID.IsZero() {
		t.ID = primitive.NewObjectID()
	}
	m.store[t.ID] = *t
	return nil
}

func (m *MemoryRepository) List(ctx context.Context, status models.TestimonialStatus, p pagination.Params) ([]models.Testimonial, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var all []models.Testimonial
	for _, t := range m.store {
		if status == "" || t.Status == status {
			all = append(all, t)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	start, end := p.Bounds(len(all))
	out := append([]models.Testimonial{}, all[start:end]...)
	return out, int64(len(all)), nil
}

func (m *MemoryRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.TestimonialStatus) (*models.Testimonial, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.store[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	t.Status = status
	m.store[id] = t
	return &t, nil
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
