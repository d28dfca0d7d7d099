package telegram

import (
	"context"
	"errors"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/yourusername/bagshop-bot/internal/domain/entity"
	"github.com/yourusername/bagshop-bot/internal/usecase"
)

// Start botni ishga tushirish (long polling). ctx tugaguncha bloklanadi.
func (h *BotHandler) Start(ctx context.Context) error {
	h.workerPool.start(ctx)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := h.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			h.bot.StopReceivingUpdates()
			h.workerPool.shutdown()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				h.workerPool.shutdown()
				return errors.New("updates channel closed")
			}
			h.handleUpdate(ctx, update)
		}
	}
}

// handleUpdate update'ni hodisaga aylantirib navbatga qo'yadi
func (h *BotHandler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}
	if update.Message == nil {
		return
	}
	h.handleMessage(ctx, update.Message)
}

// handleMessage xabarni qayta ishlash
func (h *BotHandler) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.From == nil || message.Chat == nil {
		return
	}
	ev, ok := h.messageEvent(message)
	if !ok {
		return
	}
	h.enqueue(ctx, message.Chat.ID, ev)
}

// messageEvent xabar turiga qarab hodisa yasaydi
func (h *BotHandler) messageEvent(message *tgbotapi.Message) (usecase.Event, bool) {
	ev := usecase.Event{Customer: customerFrom(message.From, message.Chat.ID)}

	if cmd := extractCommand(message); cmd != "" {
		ev.Kind, ev.Command = commandEvent(cmd)
		return ev, true
	}

	if len(message.Photo) > 0 {
		// Telegram o'lchamlarni o'sish tartibida yuboradi
		largest := message.Photo[len(message.Photo)-1]
		ev.Kind = usecase.EventPhoto
		ev.Text = strings.TrimSpace(message.Caption)
		ev.Photo = h.photoInput(largest.FileID)
		return ev, true
	}

	text := strings.TrimSpace(message.Text)
	if text == "" {
		return ev, false
	}
	ev.Kind = usecase.EventText
	ev.Text = text
	return ev, true
}

// handleCallback inline tugma bosilishi
func (h *BotHandler) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if _, err := h.bot.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
		log.Printf("⚠️ Callback javobi yuborilmadi: %v", err)
	}
	if cq.From == nil || cq.Message == nil || cq.Message.Chat == nil {
		return
	}

	action, ok := parseCallbackData(cq.Data)
	if !ok {
		log.Printf("⚠️ Noma'lum callback: %q (user %d)", cq.Data, cq.From.ID)
		return
	}

	chatID := cq.Message.Chat.ID
	h.enqueue(ctx, chatID, usecase.Event{
		Kind:     usecase.EventAction,
		Customer: customerFrom(cq.From, chatID),
		Action:   action,
	})
}

func (h *BotHandler) enqueue(ctx context.Context, chatID int64, ev usecase.Event) {
	req := &messageRequest{ctx: ctx, chatID: chatID, event: ev}
	if !h.workerPool.submit(req) {
		h.sendMessage(chatID, usecase.Text(h.defaultLang, "error"), nil)
	}
}

// process worker ichida bitta hodisani use case orqali o'tkazadi
func (h *BotHandler) process(req *messageRequest) {
	ctx, cancel := context.WithTimeout(req.ctx, h.timeout)
	defer cancel()

	if req.event.Kind == usecase.EventPhoto || req.event.Kind == usecase.EventText {
		h.sendTyping(req.chatID)
	}

	replies, err := h.conversation.Handle(ctx, req.event)
	if err != nil {
		log.Printf("❌ Hodisani qayta ishlashda xatolik (user %d): %v", req.userID(), err)
		if len(replies) == 0 {
			h.sendMessage(req.chatID, usecase.Text(h.defaultLang, "error"), nil)
			return
		}
	}
	h.sendReplies(req.chatID, replies)
}

// recovered panic'dan keyin foydalanuvchiga umumiy uzr
func (h *BotHandler) recovered(req *messageRequest, _ interface{}) {
	h.sendMessage(req.chatID, usecase.Text(h.defaultLang, "error"), nil)
}

func customerFrom(user *tgbotapi.User, chatID int64) entity.Customer {
	fullName := strings.TrimSpace(strings.TrimSpace(user.FirstName) + " " + strings.TrimSpace(user.LastName))
	return entity.Customer{
		UserID:   user.ID,
		ChatID:   chatID,
		Username: user.UserName,
		FullName: fullName,
	}
}
