package usecase

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/bagshop-bot/internal/domain/entity"
	"github.com/yourusername/bagshop-bot/internal/domain/repository"
)

const sinkTimeout = 15 * time.Second

// LeadService arizalarni saqlash va qo'shimcha joylarga tarqatish
type LeadService struct {
	repo  repository.LeadRepository
	sinks []repository.LeadSink
}

// NewLeadService nil sinklar e'tiborsiz qoldiriladi
func NewLeadService(repo repository.LeadRepository, sinks ...repository.LeadSink) *LeadService {
	s := &LeadService{repo: repo}
	for _, sink := range sinks {
		if sink != nil {
			s.sinks = append(s.sinks, sink)
		}
	}
	return s
}

// AddSink keyinroq (masalan transport tayyor bo'lgach) sink qo'shish
func (s *LeadService) AddSink(sink repository.LeadSink) {
	if sink != nil {
		s.sinks = append(s.sinks, sink)
	}
}

// Submit arizaga ID va vaqt beradi va saqlaydi.
// Saqlash xatosi loglanadi va yutiladi: foydalanuvchi baribir tasdiq oladi.
// Muvaffaqiyatli saqlangandan keyin ariza sinklarga uzatiladi.
func (s *LeadService) Submit(ctx context.Context, lead entity.Lead) (entity.Lead, bool) {
	if lead.ID == "" {
		lead.ID = uuid.New().String()
	}
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = time.Now()
	}

	if err := s.repo.Append(ctx, lead); err != nil {
		log.Printf("❌ Arizani saqlab bo'lmadi (user %d, %s): %v", lead.UserID, lead.Kind, err)
		return lead, false
	}
	log.Printf("🧾 Yangi ariza saqlandi: %s (%s, user %d)", lead.ID, lead.Kind, lead.UserID)

	for _, sink := range s.sinks {
		sinkCtx, cancel := context.WithTimeout(ctx, sinkTimeout)
		if err := sink.Publish(sinkCtx, lead); err != nil {
			log.Printf("⚠️ Ariza %s ni uzatib bo'lmadi: %v", lead.ID, err)
		}
		cancel()
	}
	return lead, true
}

// List barcha arizalar
func (s *LeadService) List(ctx context.Context) ([]entity.Lead, error) {
	return s.repo.List(ctx)
}

// Clear barcha arizalarni o'chirish (faqat admin)
func (s *LeadService) Clear(ctx context.Context) error {
	return s.repo.Clear(ctx)
}
