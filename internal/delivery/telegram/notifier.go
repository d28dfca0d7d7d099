package telegram

import (
	"context"
	"errors"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/yourusername/bagshop-bot/internal/domain/entity"
	"github.com/yourusername/bagshop-bot/internal/domain/repository"
	"github.com/yourusername/bagshop-bot/internal/usecase"
)

type messageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// LeadNotifier yangi arizani adminlarga va admin chatga yuboradi
type LeadNotifier struct {
	bot     messageSender
	catalog repository.CatalogRepository
	targets []int64
}

var _ repository.LeadSink = (*LeadNotifier)(nil)

// NewLeadNotifier yangi LeadNotifier yaratish. Takroriy va nol ID lar tashlab yuboriladi.
// catalog berilsa xabarda mahsulot nomi va narxi ko'rsatiladi.
func NewLeadNotifier(bot messageSender, catalog repository.CatalogRepository, adminIDs []int64, adminChatID int64) *LeadNotifier {
	seen := make(map[int64]bool)
	var targets []int64
	for _, id := range append(append([]int64{}, adminIDs...), adminChatID) {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		targets = append(targets, id)
	}
	return &LeadNotifier{bot: bot, catalog: catalog, targets: targets}
}

// Publish har bir manzilga xabar yuboradi; bittasi xato bersa qolganlari davom etadi
func (n *LeadNotifier) Publish(ctx context.Context, lead entity.Lead) error {
	text := usecase.FormatLeadNotice(lead, n.lookupItem(ctx, lead.ItemID))
	var errs []error
	for _, chatID := range n.targets {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := n.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
			errs = append(errs, fmt.Errorf("notify %d: %w", chatID, err))
		}
	}
	return errors.Join(errs...)
}

// lookupItem katalogdan mahsulotni oladi; o'chirilgan bo'lsa nil
func (n *LeadNotifier) lookupItem(ctx context.Context, itemID string) *entity.CatalogItem {
	if n.catalog == nil || itemID == "" {
		return nil
	}
	item, err := n.catalog.Get(ctx, itemID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.Printf("⚠️ Ariza uchun mahsulot o'qilmadi (%s): %v", itemID, err)
		}
		return nil
	}
	return item
}
