package repository

import (
	"context"

	"github.com/yourusername/bagshop-bot/internal/domain/entity"
)

// SessionRepository foydalanuvchi suhbat holatlari
type SessionRepository interface {
	// Get sessiyani qaytaradi, bo'lmasa yangisini yaratadi
	Get(ctx context.Context, userID int64) (*entity.Session, error)

	// Save sessiyani saqlash
	Save(ctx context.Context, session *entity.Session) error

	// Reset sessiyani o'chirish
	Reset(ctx context.Context, userID int64) error
}
