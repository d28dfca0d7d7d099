package repository

import (
	"context"

	"github.com/yourusername/bagshop-bot/internal/domain/entity"
)

// MatchPrompt modelga yuboriladigan moslashtirish so'rovi
type MatchPrompt struct {
	Lang    entity.Lang
	Catalog []entity.CatalogItem
	Text    string
	Image   []byte
}

// CatalogAdvisor tashqi til modeli bilan ishlash uchun interface.
// Javoblar ishonchsiz hisoblanadi: xato qaytsa chaqiruvchi heuristikaga o'tadi.
type CatalogAdvisor interface {
	// MatchItem matn va/yoki foto bo'yicha katalogdan bitta mahsulotni tanlash
	MatchItem(ctx context.Context, prompt MatchPrompt) (entity.ModelDecision, error)

	// Consult erkin savolga qisqa maslahatchi javobi
	Consult(ctx context.Context, lang entity.Lang, catalog []entity.CatalogItem, text string) (string, error)
}
