package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yourusername/bagshop-bot/config"
	"github.com/yourusername/bagshop-bot/internal/delivery/telegram"
	"github.com/yourusername/bagshop-bot/internal/domain/constants"
	"github.com/yourusername/bagshop-bot/internal/domain/repository"
	"github.com/yourusername/bagshop-bot/internal/infrastructure/export"
	"github.com/yourusername/bagshop-bot/internal/infrastructure/gemini"
	"github.com/yourusername/bagshop-bot/internal/infrastructure/sheets"
	"github.com/yourusername/bagshop-bot/internal/infrastructure/storage"
	"github.com/yourusername/bagshop-bot/internal/usecase"
	"github.com/yourusername/bagshop-bot/pkg/logger"
)

const sessionCleanupInterval = time.Hour

func main() {
	// Konfiguratsiyani yuklash (.env shu yerda o'qiladi)
	cfg, err := config.Load()
	if err != nil {
		if errors.Is(err, config.ErrMissingToken) {
			log.Fatalf("❌ Bot tokeni yo'q: TELEGRAM_BOT_TOKEN ni .env yoki muhitda bering")
		}
		log.Fatalf("❌ Konfiguratsiya yuklanmadi: %v", err)
	}

	// Logger ni ishga tushirish
	closeLog := logger.Init(cfg.LogFile)
	defer closeLog()
	logger.InfoLogger.Println("🚀 Ilova ishga tushmoqda...")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Saqlash qatlami
	catalogRepo, leadRepo, closeStore := openStorage(ctx, cfg)
	defer closeStore()
	sessions := storage.NewMemorySessionRepository(cfg.DefaultLang)
	go sessions.RunCleanup(ctx, sessionCleanupInterval, constants.SessionTTL)

	// 2. Gemini (ixtiyoriy)
	var advisor repository.CatalogAdvisor
	if cfg.AIEnabled() {
		client, err := gemini.NewGeminiClient(ctx, gemini.Options{
			APIKey:      cfg.GeminiAPIKey,
			Model:       cfg.GeminiModel,
			Timeout:     cfg.AITimeout,
			Threshold:   cfg.MatchThreshold,
			PromptItems: cfg.AIMaxCatalogItems,
		})
		if err != nil {
			logger.ErrorLogger.Printf("⚠️ Gemini client yaratilmadi, AI o'chirildi: %v", err)
		} else {
			defer client.Close()
			advisor = client
			logger.InfoLogger.Printf("✅ Gemini AI client tayyor (%s)", cfg.GeminiModel)
		}
	} else {
		logger.InfoLogger.Println("ℹ️ GEMINI_API_KEY yo'q: faqat heuristik moslashtirish")
	}

	// 3. Telegram API
	api, err := telegram.NewAPI(cfg.TelegramToken, cfg.TelegramDebug)
	if err != nil {
		log.Fatalf("❌ Bot yaratilmadi: %v", err)
	}
	logger.InfoLogger.Printf("✅ Telegram bot tayyor: @%s", api.Self.UserName)

	// 4. Arizalar va ularning nusxalari
	leads := usecase.NewLeadService(leadRepo, telegram.NewLeadNotifier(api, catalogRepo, cfg.AdminIDs, cfg.AdminChatID))
	if cfg.SheetsEnabled() {
		sink, err := sheets.NewLeadSink(ctx, cfg.GoogleCredentialsFile, cfg.GoogleSheetsID)
		if err != nil {
			logger.ErrorLogger.Printf("⚠️ Google Sheets ulanmadi: %v", err)
		} else {
			if err := sink.SetupHeaders(ctx); err != nil {
				logger.ErrorLogger.Printf("⚠️ Sheets sarlavhalari yozilmadi: %v", err)
			}
			leads.AddSink(sink)
			logger.InfoLogger.Println("✅ Google Sheets lead ko'zgusi tayyor")
		}
	}

	// 5. Use cases
	matcher := usecase.NewMatcher(catalogRepo, advisor, usecase.MatcherConfig{
		Threshold:       cfg.MatchThreshold,
		MinTokenOverlap: cfg.MatchMinTokenOverlap,
	})
	conversation := usecase.NewConversationUseCase(usecase.ConversationDeps{
		Sessions:    sessions,
		Catalog:     catalogRepo,
		Matcher:     matcher,
		Leads:       leads,
		Advisor:     advisor,
		AdminIDs:    cfg.AdminIDs,
		ExportLeads: export.BuildLeadsXLSX,
	})
	logger.InfoLogger.Println("✅ Use cases tayyor")

	// 6. Telegram handler
	botHandler := telegram.NewBotHandler(api, conversation, telegram.Options{
		WorkerCount: cfg.WorkerCount,
		DefaultLang: cfg.DefaultLang,
	})

	logger.InfoLogger.Println("🤖 Bot ishlayapti. To'xtatish uchun Ctrl+C ni bosing.")
	if err := botHandler.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.ErrorLogger.Printf("❌ Bot xatosi: %v", err)
	}
	logger.InfoLogger.Println("✅ Bot to'xtatildi.")
}

// openStorage STORAGE_DRIVER bo'yicha katalog va ariza omborlarini ochadi.
// POSTGRES_DSN berilsa arizalar Postgres'ga yoziladi, ulanmasa lokal omborga qaytiladi.
func openStorage(ctx context.Context, cfg *config.Config) (repository.CatalogRepository, repository.LeadRepository, func()) {
	var (
		catalogRepo repository.CatalogRepository
		leadRepo    repository.LeadRepository
		closeFn     = func() {}
	)

	switch cfg.StorageDriver {
	case config.StorageSQLite:
		store, err := storage.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			log.Fatalf("❌ SQLite ochilmadi (%s): %v", cfg.SQLitePath, err)
		}
		catalogRepo, leadRepo = store.Catalog(), store.Leads()
		closeFn = func() {
			if err := store.Close(); err != nil {
				logger.ErrorLogger.Printf("SQLite yopilmadi: %v", err)
			}
		}
		logger.InfoLogger.Printf("✅ SQLite ombor tayyor: %s", cfg.SQLitePath)
	default:
		var err error
		if catalogRepo, err = storage.NewFileCatalogRepository(cfg.CatalogFile); err != nil {
			log.Fatalf("❌ Katalog fayli ochilmadi (%s): %v", cfg.CatalogFile, err)
		}
		if leadRepo, err = storage.NewFileLeadRepository(cfg.LeadsFile); err != nil {
			log.Fatalf("❌ Arizalar fayli ochilmadi (%s): %v", cfg.LeadsFile, err)
		}
		logger.InfoLogger.Printf("✅ JSON ombor tayyor: %s, %s", cfg.CatalogFile, cfg.LeadsFile)
	}

	if cfg.PostgresDSN != "" {
		pg, err := storage.NewPostgresLeadRepository(ctx, storage.PostgresOptions{
			DSN:      cfg.PostgresDSN,
			Attempts: cfg.PostgresConnectAttempts,
			Delay:    cfg.PostgresRetryDelay,
		})
		if err != nil {
			logger.ErrorLogger.Printf("⚠️ Postgres ulanmadi, arizalar lokal omborda qoladi: %v", err)
		} else {
			leadRepo = pg
			logger.InfoLogger.Println("✅ Arizalar Postgres'da saqlanadi")
		}
	}

	return catalogRepo, leadRepo, closeFn
}
