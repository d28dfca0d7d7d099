package entity

import "time"

// ConversationState suhbat holati
type ConversationState string

const (
	StateIdle                   ConversationState = "idle"
	StateAwaitingCity           ConversationState = "awaiting_city"
	StateAwaitingPhone          ConversationState = "awaiting_phone"
	StateAwaitingDetails        ConversationState = "awaiting_details"
	StateAwaitingModelOrPhoto   ConversationState = "awaiting_model_or_photo"
	StateAwaitingManagerMessage ConversationState = "awaiting_manager_message"
	StateAdminAwaitingAdd       ConversationState = "admin_awaiting_add"
	StateAdminAwaitingPhoto     ConversationState = "admin_awaiting_photo"
)

// Lang interfeys tili
type Lang string

const (
	LangRU Lang = "ru"
	LangKZ Lang = "kz"
)

// ParseLang noma'lum qiymat uchun ruscha qaytaradi
func ParseLang(raw string) Lang {
	if Lang(raw) == LangKZ {
		return LangKZ
	}
	return LangRU
}

// Session bitta foydalanuvchining suhbat holati va vaqtinchalik maydonlari
type Session struct {
	UserID          int64
	State           ConversationState
	Lang            Lang
	SelectedItemID  string
	City            string
	Phone           string
	LastAdminItemID string
	UpdatedAt       time.Time
}

// NewSession boshlang'ich holatdagi sessiya
func NewSession(userID int64, lang Lang) *Session {
	return &Session{
		UserID:    userID,
		State:     StateIdle,
		Lang:      lang,
		UpdatedAt: time.Now(),
	}
}

// SetState holatni o'zgartirish
func (s *Session) SetState(state ConversationState) {
	s.State = state
	s.UpdatedAt = time.Now()
}

// ResetFlow buyurtma oqimi maydonlarini tozalab, idle holatga qaytaradi.
// Til va admin uchun oxirgi mahsulot saqlanib qoladi.
func (s *Session) ResetFlow() {
	s.City = ""
	s.Phone = ""
	s.SetState(StateIdle)
}
