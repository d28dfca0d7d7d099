package repository

import (
	"context"
	"errors"

	"github.com/yourusername/bagshop-bot/internal/domain/entity"
)

// ErrNotFound so'ralgan yozuv topilmadi
var ErrNotFound = errors.New("not found")

// CatalogRepository katalog saqlash uchun interface
type CatalogRepository interface {
	// Snapshot butun katalog nusxasi (mahsulotlar + foto indeksi)
	Snapshot(ctx context.Context) (*entity.Catalog, error)

	// Get ID bo'yicha mahsulot, topilmasa ErrNotFound
	Get(ctx context.Context, id string) (*entity.CatalogItem, error)

	// Add yangi mahsulot qo'shish, takrorlanmas ID bilan qaytaradi
	Add(ctx context.Context, item entity.CatalogItem) (entity.CatalogItem, error)

	// SetPhoto mahsulotga foto biriktirish, mahsulot bo'lmasa ErrNotFound
	SetPhoto(ctx context.Context, itemID, fileID string) error

	// Clear barcha mahsulotlar va foto indeksini o'chirish
	Clear(ctx context.Context) error
}
