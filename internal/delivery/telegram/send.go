package telegram

import (
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/yourusername/bagshop-bot/internal/domain/constants"
	"github.com/yourusername/bagshop-bot/internal/usecase"
)

// sendText sends a message with optional replyMarkup.
func (h *BotHandler) sendText(chatID int64, text string, replyMarkup interface{}) (*tgbotapi.Message, error) {
	if h.bot == nil {
		return nil, fmt.Errorf("telegram bot is nil")
	}
	msg := tgbotapi.NewMessage(chatID, text)
	if replyMarkup != nil {
		msg.ReplyMarkup = replyMarkup
	}
	sent, err := h.bot.Send(msg)
	if err != nil {
		return nil, err
	}
	return &sent, nil
}

// sendMessage uzun matnni bo'laklab yuboradi, tugmalar oxirgi bo'lakka qo'shiladi
func (h *BotHandler) sendMessage(chatID int64, text string, replyMarkup interface{}) {
	if h.bot == nil {
		log.Printf("sendMessage skipped (bot is nil) chat=%d", chatID)
		return
	}
	if strings.TrimSpace(text) == "" {
		log.Printf("⚠️ Bo'sh xabar yuborilmoqchi bo'ldi! ChatID: %d", chatID)
		return
	}

	chunks := splitIntoChunks(text, constants.MaxMessageLength)
	for i, chunk := range chunks {
		var markup interface{}
		if i == len(chunks)-1 {
			markup = replyMarkup
		}
		if _, err := h.sendText(chatID, chunk, markup); err != nil {
			log.Printf("Xabar yuborishda xatolik: %v", err)
			return
		}
	}
}

// sendReplies use case javoblarini tartib bilan yuboradi
func (h *BotHandler) sendReplies(chatID int64, replies []usecase.Reply) {
	for _, r := range replies {
		markup := keyboardMarkup(r.Keyboard, r.Lang)
		if r.Document != nil {
			h.sendDocument(chatID, r.Document, r.Text, markup)
			continue
		}
		h.sendMessage(chatID, r.Text, markup)
	}
}

func (h *BotHandler) sendDocument(chatID int64, doc *usecase.Document, caption string, replyMarkup interface{}) {
	if h.bot == nil {
		return
	}
	msg := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: doc.Name, Bytes: doc.Data})
	msg.Caption = caption
	if replyMarkup != nil {
		msg.ReplyMarkup = replyMarkup
	}
	if _, err := h.bot.Send(msg); err != nil {
		log.Printf("❌ Fayl yuborishda xatolik (%s): %v", doc.Name, err)
	}
}

func (h *BotHandler) sendTyping(chatID int64) {
	if h.bot == nil {
		return
	}
	if _, err := h.bot.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		log.Printf("typing action failed chat=%d: %v", chatID, err)
	}
}

// splitIntoChunks matnni limit belgidan oshmaydigan bo'laklarga ajratadi
func splitIntoChunks(s string, limit int) []string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return []string{s}
	}
	var chunks []string
	var current strings.Builder
	count := 0

	for _, r := range s {
		current.WriteRune(r)
		count++
		if count >= limit {
			chunks = append(chunks, current.String())
			current.Reset()
			count = 0
		}
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}

	return chunks
}
