package entity

import "time"

// LeadKind ariza turi
type LeadKind string

const (
	LeadKindOrder   LeadKind = "order"
	LeadKindManager LeadKind = "manager"
)

// Lead mijozdan yig'ilgan ariza (buyurtma yoki menejerga xabar).
// Yaratilgandan keyin o'zgarmaydi.
type Lead struct {
	ID        string    `json:"id"`
	Kind      LeadKind  `json:"kind"`
	CreatedAt time.Time `json:"ts"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username,omitempty"`
	FullName  string    `json:"name,omitempty"`
	City      string    `json:"city,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	ItemID    string    `json:"item_id,omitempty"`
	Details   string    `json:"details,omitempty"`
}

// Customer arizani yuborgan foydalanuvchi haqida transportdan kelgan ma'lumot
type Customer struct {
	UserID   int64
	ChatID   int64
	Username string
	FullName string
}

// LeadHeaders eksport va jadval ustunlari (Values bilan bir xil tartibda)
func LeadHeaders() []string {
	return []string{"ID", "Kind", "Created", "User ID", "Username", "Name", "City", "Phone", "Item", "Details"}
}

// Values arizani jadval qatoriga aylantirish
func (l Lead) Values() []interface{} {
	return []interface{}{
		l.ID,
		string(l.Kind),
		l.CreatedAt.Format("2006-01-02 15:04:05"),
		l.UserID,
		l.Username,
		l.FullName,
		l.City,
		l.Phone,
		l.ItemID,
		l.Details,
	}
}
