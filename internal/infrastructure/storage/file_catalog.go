package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/yourusername/bagshop-bot/internal/domain/entity"
	"github.com/yourusername/bagshop-bot/internal/domain/repository"
)

type fileCatalogRepository struct {
	mu   sync.Mutex
	path string
}

// NewFileCatalogRepository JSON faylga asoslangan katalog.
// Har bir o'zgarishda fayl to'liq o'qiladi va qayta yoziladi; jarayonlar orasida oxirgi yozuv yutadi.
func NewFileCatalogRepository(path string) (repository.CatalogRepository, error) {
	r := &fileCatalogRepository{path: path}

	r.mu.Lock()
	defer r.mu.Unlock()
	c, existed, err := r.load()
	if err != nil {
		return nil, err
	}
	if !existed {
		if err := saveJSONFile(r.path, c); err != nil {
			return nil, fmt.Errorf("init catalog file: %w", err)
		}
	}
	return r, nil
}

func (r *fileCatalogRepository) load() (*entity.Catalog, bool, error) {
	c := entity.NewCatalog()
	ok, err := loadJSONFile(r.path, c)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		// buzilgan fayldan qisman o'qilgan qiymat ishlatilmaydi
		return entity.NewCatalog(), false, nil
	}
	if c.Items == nil {
		c.Items = []entity.CatalogItem{}
	}
	if c.PhotoIndex == nil {
		c.PhotoIndex = make(map[string]string)
	}
	return c, ok, nil
}

// Snapshot katalog nusxasi
func (r *fileCatalogRepository) Snapshot(ctx context.Context) (*entity.Catalog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, _, err := r.load()
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Get ID bo'yicha mahsulot
func (r *fileCatalogRepository) Get(ctx context.Context, id string) (*entity.CatalogItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, _, err := r.load()
	if err != nil {
		return nil, err
	}
	item, ok := c.Find(id)
	if !ok {
		return nil, fmt.Errorf("catalog item %s: %w", id, repository.ErrNotFound)
	}
	return &item, nil
}

// Add mahsulot qo'shish
func (r *fileCatalogRepository) Add(ctx context.Context, item entity.CatalogItem) (entity.CatalogItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, _, err := r.load()
	if err != nil {
		return entity.CatalogItem{}, err
	}
	added := c.Add(item)
	if err := saveJSONFile(r.path, c); err != nil {
		return entity.CatalogItem{}, err
	}
	return added, nil
}

// SetPhoto mahsulotga foto biriktirish
func (r *fileCatalogRepository) SetPhoto(ctx context.Context, itemID, fileID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, _, err := r.load()
	if err != nil {
		return err
	}
	if !c.SetPhoto(itemID, fileID) {
		return fmt.Errorf("catalog item %s: %w", itemID, repository.ErrNotFound)
	}
	return saveJSONFile(r.path, c)
}

// Clear katalogni tozalash
func (r *fileCatalogRepository) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return saveJSONFile(r.path, entity.NewCatalog())
}
