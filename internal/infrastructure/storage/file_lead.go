package storage

import (
	"context"
	"sync"

	"github.com/yourusername/bagshop-bot/internal/domain/entity"
	"github.com/yourusername/bagshop-bot/internal/domain/repository"
)

type leadFile struct {
	Leads []entity.Lead `json:"leads"`
}

type fileLeadRepository struct {
	mu   sync.Mutex
	path string
}

// NewFileLeadRepository JSON faylga asoslangan arizalar ombori
func NewFileLeadRepository(path string) (repository.LeadRepository, error) {
	r := &fileLeadRepository{path: path}

	r.mu.Lock()
	defer r.mu.Unlock()
	f, existed, err := r.load()
	if err != nil {
		return nil, err
	}
	if !existed {
		if err := saveJSONFile(r.path, f); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *fileLeadRepository) load() (*leadFile, bool, error) {
	f := &leadFile{}
	ok, err := loadJSONFile(r.path, f)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return &leadFile{Leads: []entity.Lead{}}, false, nil
	}
	if f.Leads == nil {
		f.Leads = []entity.Lead{}
	}
	return f, ok, nil
}

// Append arizani oxiriga qo'shish
func (r *fileLeadRepository) Append(ctx context.Context, lead entity.Lead) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, _, err := r.load()
	if err != nil {
		return err
	}
	f.Leads = append(f.Leads, lead)
	return saveJSONFile(r.path, f)
}

// List barcha arizalar (qo'shilish tartibida)
func (r *fileLeadRepository) List(ctx context.Context) ([]entity.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, _, err := r.load()
	if err != nil {
		return nil, err
	}
	return f.Leads, nil
}

// Clear barcha arizalarni o'chirish
func (r *fileLeadRepository) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return saveJSONFile(r.path, &leadFile{Leads: []entity.Lead{}})
}
