package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/yourusername/bagshop-bot/internal/domain/constants"
	"github.com/yourusername/bagshop-bot/internal/domain/entity"
)

// ErrMissingToken TELEGRAM_BOT_TOKEN berilmagan
var ErrMissingToken = errors.New("TELEGRAM_BOT_TOKEN environment variable bo'sh")

// Saqlash drayverlari
const (
	StorageJSON   = "json"
	StorageSQLite = "sqlite"
)

// Config ilovaning konfiguratsiyasi
type Config struct {
	TelegramToken string
	TelegramDebug bool
	GeminiAPIKey  string
	GeminiModel   string
	AITimeout     time.Duration
	// AIMaxCatalogItems promptga kiritiladigan max mahsulotlar
	AIMaxCatalogItems int

	AdminIDs    []int64
	AdminChatID int64
	DefaultLang entity.Lang

	StorageDriver string
	CatalogFile   string
	LeadsFile     string
	SQLitePath    string

	PostgresDSN             string
	PostgresConnectAttempts int
	PostgresRetryDelay      time.Duration

	MatchThreshold       float64
	MatchMinTokenOverlap int

	GoogleSheetsID        string
	GoogleCredentialsFile string

	WorkerCount int
	LogFile     string
}

// AIEnabled GEMINI_API_KEY berilganmi
func (c *Config) AIEnabled() bool {
	return c.GeminiAPIKey != ""
}

// SheetsEnabled Google Sheets ko'zgusi sozlanganmi
func (c *Config) SheetsEnabled() bool {
	return c.GoogleSheetsID != "" && c.GoogleCredentialsFile != ""
}

// Load konfiguratsiyani yuklash
func Load() (*Config, error) {
	// .env faylini yuklash (mavjud bo'lsa)
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv berilgan getenv orqali konfiguratsiyani o'qiydi
func FromEnv(getenv func(string) string) (*Config, error) {
	env := func(key string) string { return strings.TrimSpace(getenv(key)) }

	cfg := &Config{
		TelegramToken:         env("TELEGRAM_BOT_TOKEN"),
		TelegramDebug:         parseBool(env("TELEGRAM_DEBUG"), false),
		GeminiAPIKey:          env("GEMINI_API_KEY"),
		GeminiModel:           nonEmpty(env("GEMINI_MODEL"), constants.GeminiModelName),
		AITimeout:             constants.DefaultAITimeout,
		DefaultLang:           entity.ParseLang(strings.ToLower(env("DEFAULT_LANG"))),
		StorageDriver:         strings.ToLower(nonEmpty(env("STORAGE_DRIVER"), StorageJSON)),
		CatalogFile:           nonEmpty(env("CATALOG_FILE"), constants.DefaultCatalogFile),
		LeadsFile:             nonEmpty(env("LEADS_FILE"), constants.DefaultLeadsFile),
		SQLitePath:            nonEmpty(env("SQLITE_PATH"), constants.DefaultSQLitePath),
		PostgresDSN:           env("POSTGRES_DSN"),
		MatchThreshold:        constants.DefaultConfidenceThreshold,
		MatchMinTokenOverlap:  constants.DefaultMinTokenOverlap,
		GoogleSheetsID:        env("GOOGLE_SHEETS_ID"),
		GoogleCredentialsFile: env("GOOGLE_CREDENTIALS_FILE"),
		LogFile:               env("LOG_FILE"),
	}

	if cfg.TelegramToken == "" {
		return nil, ErrMissingToken
	}

	if cfg.PostgresDSN == "" {
		cfg.PostgresDSN = buildPostgresDSN(env)
	}

	switch cfg.StorageDriver {
	case StorageJSON, StorageSQLite:
	default:
		return nil, fmt.Errorf("STORAGE_DRIVER noto'g'ri: %q (json yoki sqlite)", cfg.StorageDriver)
	}

	var err error
	if cfg.AdminIDs, err = parseIDList(env("ADMIN_IDS")); err != nil {
		return nil, fmt.Errorf("ADMIN_IDS noto'g'ri formatda: %w", err)
	}
	if raw := env("ADMIN_CHAT_ID"); raw != "" {
		if cfg.AdminChatID, err = strconv.ParseInt(raw, 10, 64); err != nil {
			return nil, fmt.Errorf("ADMIN_CHAT_ID noto'g'ri formatda: %w", err)
		}
	}
	if raw := env("MATCH_CONFIDENCE_THRESHOLD"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v <= 0 || v > 1 {
			return nil, fmt.Errorf("MATCH_CONFIDENCE_THRESHOLD 0 va 1 oralig'ida bo'lishi kerak: %q", raw)
		}
		cfg.MatchThreshold = v
	}
	if cfg.MatchMinTokenOverlap, err = parsePositiveInt(env("MATCH_MIN_TOKEN_OVERLAP"), constants.DefaultMinTokenOverlap); err != nil {
		return nil, fmt.Errorf("MATCH_MIN_TOKEN_OVERLAP: %w", err)
	}
	if cfg.AIMaxCatalogItems, err = parsePositiveInt(env("AI_MAX_CATALOG_ITEMS"), constants.MaxCatalogItemsInPrompt); err != nil {
		return nil, fmt.Errorf("AI_MAX_CATALOG_ITEMS: %w", err)
	}
	if cfg.WorkerCount, err = parsePositiveInt(env("WORKER_COUNT"), 0); err != nil {
		return nil, fmt.Errorf("WORKER_COUNT: %w", err)
	}
	if cfg.PostgresConnectAttempts, err = parsePositiveInt(env("POSTGRES_CONNECT_MAX_ATTEMPTS"), 0); err != nil {
		return nil, fmt.Errorf("POSTGRES_CONNECT_MAX_ATTEMPTS: %w", err)
	}
	if cfg.AITimeout, err = parseDuration(env("AI_TIMEOUT"), constants.DefaultAITimeout); err != nil {
		return nil, fmt.Errorf("AI_TIMEOUT: %w", err)
	}
	if cfg.PostgresRetryDelay, err = parseDuration(env("POSTGRES_CONNECT_RETRY_DELAY"), 0); err != nil {
		return nil, fmt.Errorf("POSTGRES_CONNECT_RETRY_DELAY: %w", err)
	}

	return cfg, nil
}

// buildPostgresDSN POSTGRES_HOST/USER/DB dan DSN yig'adi; yetarli bo'lmasa bo'sh qaytaradi
func buildPostgresDSN(env func(string) string) string {
	host := env("POSTGRES_HOST")
	user := env("POSTGRES_USER")
	password := env("POSTGRES_PASSWORD")
	db := env("POSTGRES_DB")
	port := nonEmpty(env("POSTGRES_PORT"), "5432")
	sslmode := nonEmpty(env("POSTGRES_SSLMODE"), "disable")

	if host == "" || user == "" || db == "" {
		return ""
	}

	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(host, port),
		Path:   "/" + strings.TrimPrefix(db, "/"),
	}
	if password == "" {
		u.User = url.User(user)
	} else {
		u.User = url.UserPassword(user, password)
	}
	q := u.Query()
	q.Set("sslmode", sslmode)
	u.RawQuery = q.Encode()
	return u.String()
}

// parseIDList "1, 2,3" ko'rinishidagi ro'yxat
func parseIDList(raw string) ([]int64, error) {
	if raw == "" {
		return nil, nil
	}
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func parsePositiveInt(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("musbat butun son kutilgan: %q", raw)
	}
	return v, nil
}

func parseDuration(raw string, def time.Duration) (time.Duration, error) {
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("noto'g'ri davomiylik: %q", raw)
	}
	return d, nil
}

func parseBool(value string, defaultValue bool) bool {
	switch strings.ToLower(value) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return defaultValue
	}
}

func nonEmpty(val, fallback string) string {
	if val == "" {
		return fallback
	}
	return val
}
