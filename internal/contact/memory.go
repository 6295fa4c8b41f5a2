package contact

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sophro-cabinet/site-backend/internal/models"
	"github.com/sophro-cabinet/site-backend/pkg/pagination"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryRepository mimics the Mongo TTL index by dropping expired messages on read.
type MemoryRepository struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	store map[primitive.ObjectID]models.ContactMessage
}

func NewMemoryRepository(ttl time.Duration) *MemoryRepository {
	return &MemoryRepository{ttl: ttl, now: time.Now, store: make(map[primitive.ObjectID]models.ContactMessage)}
}

// expire must be called with mu held.
func (m *MemoryRepository) expire() {
	if m.ttl <= 0 {
		return
	}
	cutoff := m.now().Add(-m.ttl)
	for id, msg := range m.store {
		if msg.CreatedAt.Before(cutoff) {
			delete(m.store, id)
		}
	}
}

func (m *MemoryRepository) Create(ctx context.Context, msg *models.ContactMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if msg.ID.IsZero() {
		msg.ID = primitive.NewObjectID()
	}
	m.store[msg.ID] = *msg
	return nil
}

func (m *MemoryRepository) List(ctx context.Context, p pagination.Params) ([]models.ContactMessage, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expire()
	all := make([]models.ContactMessage, 0, len(m.store))
	for _, msg := range m.store {
		all = append(all, msg)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	start, end := p.Bounds(len(all))
	return all[start:end], int64(len(all)), nil
}

func (m *MemoryRepository) MarkAnswered(ctx context.Context, id primitive.ObjectID) (*models.ContactMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expire()
	msg, ok := m.store[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	msg.Answered = true
	m.store[id] = msg
	return &msg, nil
}

func (m *MemoryRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expire()
	if _, ok := m.store[id]; !ok {
		return models.ErrNotFound
	}
	delete(m.store, id)
	return nil
}
