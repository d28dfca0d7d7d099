package telegram

import (
	"fmt"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/yourusername/bagshop-bot/internal/domain/entity"
	"github.com/yourusername/bagshop-bot/internal/usecase"
)

// botAPI BotHandler ishlatadigan Telegram metodlari (*tgbotapi.BotAPI)
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Options transport sozlamalari
type Options struct {
	// WorkerCount parallel ishlovchi navbatlar soni
	WorkerCount int
	// DefaultLang sessiya hali javob bermagan holatlar uchun til
	DefaultLang entity.Lang
	// RequestTimeout bitta hodisani qayta ishlash uchun maksimal vaqt
	RequestTimeout time.Duration
}

// BotHandler Telegram bot handleri
type BotHandler struct {
	bot          botAPI
	conversation usecase.ConversationUseCase
	workerPool   *workerPool
	httpClient   *http.Client
	defaultLang  entity.Lang
	timeout      time.Duration
}

// NewAPI token bo'yicha Telegram klientini yaratish
func NewAPI(token string, debug bool) (*tgbotapi.BotAPI, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	bot.Debug = debug
	return bot, nil
}

// NewBotHandler yangi BotHandler yaratish
func NewBotHandler(bot botAPI, conversation usecase.ConversationUseCase, opts Options) *BotHandler {
	if opts.DefaultLang == "" {
		opts.DefaultLang = entity.LangRU
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = defaultRequestTimeout
	}

	h := &BotHandler{
		bot:          bot,
		conversation: conversation,
		httpClient:   &http.Client{Timeout: photoDownloadTimeout},
		defaultLang:  opts.DefaultLang,
		timeout:      opts.RequestTimeout,
	}
	h.workerPool = newWorkerPool(opts.WorkerCount, h.process, h.recovered)
	return h
}
