package entity

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// CatalogItem katalogdagi sotiladigan mahsulot (sumka)
type CatalogItem struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Price       int       `json:"price"`
	Colors      []string  `json:"colors"`
	Description string    `json:"desc"`
	Keywords    []string  `json:"keywords,omitempty"`
	PhotoFileID string    `json:"photo_file_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Catalog katalog holatining to'liq nusxasi: tartiblangan mahsulotlar va foto indeksi.
// Items tartibi qo'shilish tartibi bilan bir xil, matcher shu tartibda yuradi.
type Catalog struct {
	Items      []CatalogItem     `json:"items"`
	PhotoIndex map[string]string `json:"photo_index"`
}

// NewCatalog bo'sh katalog yaratish
func NewCatalog() *Catalog {
	return &Catalog{
		Items:      []CatalogItem{},
		PhotoIndex: make(map[string]string),
	}
}

// IsEmpty katalog bo'shmi
func (c *Catalog) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}

// Find ID bo'yicha mahsulot
func (c *Catalog) Find(id string) (CatalogItem, bool) {
	if c == nil {
		return CatalogItem{}, false
	}
	for _, it := range c.Items {
		if it.ID == id {
			return it, true
		}
	}
	return CatalogItem{}, false
}

// FindByPhoto transport foto ID si bo'yicha mahsulot
func (c *Catalog) FindByPhoto(fileID string) (CatalogItem, bool) {
	if c == nil || fileID == "" {
		return CatalogItem{}, false
	}
	id, ok := c.PhotoIndex[fileID]
	if !ok {
		return CatalogItem{}, false
	}
	return c.Find(id)
}

// Add mahsulotni qo'shadi va unga katalogda takrorlanmas ID beradi.
func (c *Catalog) Add(item CatalogItem) CatalogItem {
	if c.PhotoIndex == nil {
		c.PhotoIndex = make(map[string]string)
	}
	base := item.ID
	if base == "" {
		base = Slugify(item.Name)
	}
	id := base
	for n := 2; ; n++ {
		if _, exists := c.Find(id); !exists {
			break
		}
		id = fmt.Sprintf("%s_%d", base, n)
	}
	item.ID = id
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}
	c.Items = append(c.Items, item)
	return item
}

// SetPhoto mahsulotga fotoni biriktiradi va indeksni yangilaydi.
// Mahsulotning eski fotosi indeksdan o'chiriladi.
func (c *Catalog) SetPhoto(itemID, fileID string) bool {
	if c.PhotoIndex == nil {
		c.PhotoIndex = make(map[string]string)
	}
	for i := range c.Items {
		if c.Items[i].ID != itemID {
			continue
		}
		if old := c.Items[i].PhotoFileID; old != "" {
			delete(c.PhotoIndex, old)
		}
		c.Items[i].PhotoFileID = fileID
		c.PhotoIndex[fileID] = itemID
		return true
	}
	return false
}

// Clear katalogni va foto indeksini tozalash
func (c *Catalog) Clear() {
	c.Items = []CatalogItem{}
	c.PhotoIndex = make(map[string]string)
}

// Clone chaqiruvchi lock'siz ishlatishi uchun nusxa
func (c *Catalog) Clone() *Catalog {
	out := NewCatalog()
	if c == nil {
		return out
	}
	out.Items = make([]CatalogItem, len(c.Items))
	for i, it := range c.Items {
		it.Colors = append([]string(nil), it.Colors...)
		it.Keywords = append([]string(nil), it.Keywords...)
		out.Items[i] = it
	}
	for k, v := range c.PhotoIndex {
		out.PhotoIndex[k] = v
	}
	return out
}

var slugSeparatorRe = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// Slugify nomdan ID yasaydi: "Luna Mini" -> "luna_mini"
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = slugSeparatorRe.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if s == "" {
		return "item"
	}
	return s
}
