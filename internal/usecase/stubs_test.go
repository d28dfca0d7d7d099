package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/yourusername/bagshop-bot/internal/domain/entity"
	"github.com/yourusername/bagshop-bot/internal/domain/repository"
	"github.com/yourusername/bagshop-bot/internal/infrastructure/storage"
)

type stubAdvisor struct {
	decision   entity.ModelDecision
	err        error
	consult    string
	consultErr error

	matchCalls   int
	consultCalls int
	lastPrompt   repository.MatchPrompt
}

func (s *stubAdvisor) MatchItem(ctx context.Context, prompt repository.MatchPrompt) (entity.ModelDecision, error) {
	s.matchCalls++
	s.lastPrompt = prompt
	return s.decision, s.err
}

func (s *stubAdvisor) Consult(ctx context.Context, lang entity.Lang, catalog []entity.CatalogItem, text string) (string, error) {
	s.consultCalls++
	return s.consult, s.consultErr
}

type stubLeadRepo struct {
	mu        sync.Mutex
	leads     []entity.Lead
	appendErr error
}

func (s *stubLeadRepo) Append(ctx context.Context, lead entity.Lead) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.appendErr != nil {
		return s.appendErr
	}
	s.leads = append(s.leads, lead)
	return nil
}

func (s *stubLeadRepo) List(ctx context.Context) ([]entity.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.Lead(nil), s.leads...), nil
}

func (s *stubLeadRepo) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leads = nil
	return nil
}

type stubSink struct {
	published []entity.Lead
	err       error
}

func (s *stubSink) Publish(ctx context.Context, lead entity.Lead) error {
	s.published = append(s.published, lead)
	return s.err
}

var errStub = errors.New("stub failure")

func lunaMini() entity.CatalogItem {
	return entity.CatalogItem{
		ID:          "luna_mini",
		Name:        "Luna Mini",
		Price:       32900,
		Colors:      []string{"чёрный", "бежевый"},
		Description: "компактная кроссбоди",
	}
}

func sofiaTote() entity.CatalogItem {
	return entity.CatalogItem{
		ID:     "sofia_tote",
		Name:   "Sofia Tote",
		Price:  41000,
		Colors: []string{"молочный"},
	}
}

func newTestCatalog(items ...entity.CatalogItem) repository.CatalogRepository {
	return storage.NewMemoryCatalogRepository(items...)
}
