package constants

import "time"

// AI Model konstantalari
const (
	// GeminiModelName Gemini AI model nomi
	GeminiModelName = "gemini-2.5-flash"

	// AITemperature maslahat javoblari uchun aniqlik darajasi (0.0-1.0)
	AITemperature = 0.3

	// AIMatchTemperature katalog bilan moslashtirish uchun (past - aniq JSON kerak)
	AIMatchTemperature = 0.2

	// AITopK Top-K sampling parametri
	AITopK = 20

	// AITopP Top-P sampling parametri
	AITopP = 0.9

	// DefaultAITimeout tashqi model chaqiruvining maksimal vaqti
	DefaultAITimeout = 30 * time.Second

	// MaxCatalogItemsInPrompt promptga kiritiladigan max mahsulotlar soni
	MaxCatalogItemsInPrompt = 30
)

// Matcher konstantalari
const (
	// DefaultConfidenceThreshold model moslashuvi qabul qilinadigan minimal ishonch
	DefaultConfidenceThreshold = 0.85

	// DefaultMinTokenOverlap heuristik moslashuv uchun minimal umumiy so'zlar soni
	DefaultMinTokenOverlap = 1

	// HeuristicConfidence heuristik (AI siz) topilgan natijaga beriladigan ishonch
	HeuristicConfidence = 0.75

	// ExactConfidence nomi to'liq mos kelgan yoki admin fotosi bo'yicha topilgan natija
	ExactConfidence = 1.0
)

// Suhbat konstantalari
const (
	// MinCityLength shahar nomining minimal uzunligi (belgilarda)
	MinCityLength = 2

	// MinPhoneDigits telefon raqamidagi minimal raqamlar soni
	MinPhoneDigits = 10

	// CatalogListLimit katalog ro'yxatida ko'rsatiladigan max mahsulotlar
	CatalogListLimit = 12

	// RecentLeadsLimit /leads komandasida ko'rsatiladigan max arizalar
	RecentLeadsLimit = 10

	// SessionTTL faol bo'lmagan sessiya shu vaqtdan keyin o'chiriladi
	SessionTTL = 24 * time.Hour

	// CurrencySuffix narx yoniga qo'yiladigan valyuta belgisi
	CurrencySuffix = "₸"
)

// Telegram konstantalari
const (
	// MaxPhotoSize yuklab olinadigan fotoning maksimal hajmi (bayt)
	MaxPhotoSize = 10 * 1024 * 1024 // 10MB

	// MaxMessageLength Telegram xabar limiti
	MaxMessageLength = 4096
)

// Saqlash konstantalari
const (
	DefaultCatalogFile = "catalog.json"
	DefaultLeadsFile   = "leads.json"
	DefaultSQLitePath  = "bagshop.db"
)
