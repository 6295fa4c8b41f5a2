package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/sophro-cabinet/site-backend/internal/models"
	"github.com/sophro-cabinet/site-backend/internal/pages"
)

// MemoryRepo keeps pages in memory; it backs tests and the standalone page
// service when no database is configured.
type MemoryRepo struct {
	mu    sync.RWMutex
	store map[string]*pages.Page
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[string]*pages.Page)}
}

func (m *MemoryRepo) Get(ctx context.Context, pageID string) (*pages.Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.store[pageID]; ok {
		return p.Clone(), nil
	}
	return nil, models.ErrNotFound
}

func (m *MemoryRepo) List(ctx context.Context) ([]*pages.Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*pages.Page, 0, len(m.store))
	for _, p := range m.store {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PageID < out[j].PageID })
	return out, nil
}

func (m *MemoryRepo) Insert(ctx context.Context, p *pages.Page) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[p.PageID]; ok {
		return ErrExists
	}
	m.store[p.PageID] = p.Clone()
	return nil
}

func (m *MemoryRepo) Save(ctx context.Context, p *pages.Page) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[p.PageID]; !ok {
		return models.ErrNotFound
	}
	m.store[p.PageID] = p.Clone()
	return nil
}
