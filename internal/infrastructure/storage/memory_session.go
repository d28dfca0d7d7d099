package storage

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/yourusername/bagshop-bot/internal/domain/entity"
	"github.com/yourusername/bagshop-bot/internal/domain/repository"
)

// MemorySessionRepository foydalanuvchi ID si bo'yicha sessiyalar
type MemorySessionRepository struct {
	mu          sync.RWMutex
	sessions    map[int64]*entity.Session
	defaultLang entity.Lang
}

// NewMemorySessionRepository in-memory sessiya ombori (restartdan keyin saqlanmaydi)
func NewMemorySessionRepository(defaultLang entity.Lang) *MemorySessionRepository {
	return &MemorySessionRepository{
		sessions:    make(map[int64]*entity.Session),
		defaultLang: defaultLang,
	}
}

var _ repository.SessionRepository = (*MemorySessionRepository)(nil)

// Get sessiyani olish, bo'lmasa yangisini yaratish.
// Chaqiruvchi nusxa bilan ishlaydi, o'zgarishlar Save orqali yoziladi.
func (m *MemorySessionRepository) Get(ctx context.Context, userID int64) (*entity.Session, error) {
	m.mu.RLock()
	s, exists := m.sessions[userID]
	m.mu.RUnlock()

	if exists {
		cp := *s
		return &cp, nil
	}

	return entity.NewSession(userID, m.defaultLang), nil
}

// Save sessiyani saqlash
func (m *MemorySessionRepository) Save(ctx context.Context, session *entity.Session) error {
	if session == nil {
		return nil
	}
	cp := *session
	cp.UpdatedAt = time.Now()

	m.mu.Lock()
	m.sessions[session.UserID] = &cp
	m.mu.Unlock()
	return nil
}

// Reset sessiyani o'chirish
func (m *MemorySessionRepository) Reset(ctx context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, userID)
	return nil
}

// Cleanup ttl dan uzoq faol bo'lmagan sessiyalarni o'chiradi, o'chirilganlar sonini qaytaradi
func (m *MemorySessionRepository) Cleanup(ttl time.Duration) int {
	now := time.Now()
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for userID, s := range m.sessions {
		if now.Sub(s.UpdatedAt) > ttl {
			delete(m.sessions, userID)
			removed++
		}
	}
	return removed
}

// RunCleanup ctx tugaguncha har interval da Cleanup chaqiradi
func (m *MemorySessionRepository) RunCleanup(ctx context.Context, interval, ttl time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Cleanup(ttl); n > 0 {
				log.Printf("🧹 %d ta eski sessiya o'chirildi", n)
			}
		}
	}
}
