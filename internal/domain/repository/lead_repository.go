package repository

import (
	"context"

	"github.com/yourusername/bagshop-bot/internal/domain/entity"
)

// LeadRepository arizalarni saqlash uchun interface (faqat qo'shish)
type LeadRepository interface {
	Append(ctx context.Context, lead entity.Lead) error
	List(ctx context.Context) ([]entity.Lead, error)
	Clear(ctx context.Context) error
}

// LeadSink saqlangan arizani qo'shimcha joyga uzatish (admin xabari, Google Sheets)
type LeadSink interface {
	Publish(ctx context.Context, lead entity.Lead) error
}
