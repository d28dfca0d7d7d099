package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/yourusername/bagshop-bot/internal/domain/entity"
	"github.com/yourusername/bagshop-bot/internal/domain/repository"
)

type memoryCatalogRepository struct {
	mu      sync.RWMutex
	catalog *entity.Catalog
}

// NewMemoryCatalogRepository in-memory katalog (testlar va vaqtinchalik ishga tushirish uchun)
func NewMemoryCatalogRepository(items ...entity.CatalogItem) repository.CatalogRepository {
	c := entity.NewCatalog()
	for _, it := range items {
		c.Add(it)
	}
	return &memoryCatalogRepository{catalog: c}
}

func (m *memoryCatalogRepository) Snapshot(ctx context.Context) (*entity.Catalog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.catalog.Clone(), nil
}

func (m *memoryCatalogRepository) Get(ctx context.Context, id string) (*entity.CatalogItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	item, ok := m.catalog.Find(id)
	if !ok {
		return nil, fmt.Errorf("catalog item %s: %w", id, repository.ErrNotFound)
	}
	return &item, nil
}

func (m *memoryCatalogRepository) Add(ctx context.Context, item entity.CatalogItem) (entity.CatalogItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.catalog.Add(item), nil
}

func (m *memoryCatalogRepository) SetPhoto(ctx context.Context, itemID, fileID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.catalog.SetPhoto(itemID, fileID) {
		return fmt.Errorf("catalog item %s: %w", itemID, repository.ErrNotFound)
	}
	return nil
}

func (m *memoryCatalogRepository) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.catalog.Clear()
	return nil
}

type memoryLeadRepository struct {
	mu    sync.Mutex
	leads []entity.Lead
}

// NewMemoryLeadRepository in-memory arizalar ombori
func NewMemoryLeadRepository() repository.LeadRepository {
	return &memoryLeadRepository{leads: []entity.Lead{}}
}

func (m *memoryLeadRepository) Append(ctx context.Context, lead entity.Lead) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leads = append(m.leads, lead)
	return nil
}

func (m *memoryLeadRepository) List(ctx context.Context) ([]entity.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]entity.Lead, len(m.leads))
	copy(out, m.leads)
	return out, nil
}

func (m *memoryLeadRepository) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leads = []entity.Lead{}
	return nil
}
