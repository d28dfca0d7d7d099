package usecase

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/yourusername/bagshop-bot/internal/domain/constants"
	"github.com/yourusername/bagshop-bot/internal/domain/entity"
)

// Keyboard javob ostidagi tugmalar to'plami
type Keyboard int

const (
	KeyboardNone Keyboard = iota
	KeyboardLanguage
	KeyboardMain
	KeyboardSmallMenu
)

// Document javob bilan yuboriladigan fayl
type Document struct {
	Name string
	Data []byte
}

// Reply transportga bog'liq bo'lmagan bitta chiquvchi xabar
type Reply struct {
	Text     string
	Keyboard Keyboard
	Document *Document
	// Lang tugma yozuvlari uchun sessiya tili
	Lang entity.Lang
}

var texts = map[entity.Lang]map[string]string{
	entity.LangRU: {
		"start_hi": "Здравствуйте! 👋 Я AI-менеджер магазина сумок.\n" +
			"Чем могу помочь?\n\n" +
			"• Узнать цену (можно фото)\n" +
			"• Подобрать похожую модель\n" +
			"• Оформить заказ / доставка\n\n" +
			"Напишите запрос одним сообщением или отправьте фото.",
		"choose_lang":        "Выберите язык / Тілді таңдаңыз:",
		"menu_title":         "Меню:",
		"menu_hint":          "Если хотите, напишите запрос текстом (без кнопок тоже можно).",
		"ask_photo_or_model": "Ок 👍 Отправьте фото сумки или напишите название модели (например: «Sofia Mini»).",
		"ask_city":           "Отлично. Напишите ваш город:",
		"ask_phone":          "Спасибо. Напишите ваш номер телефона (пример: +7 777 123 45 67):",
		"ask_details":        "Коротко уточните: модель/цвет/кол-во + адрес (если доставка) или «самовывоз».",
		"lead_done":          "Заявка принята ✅ Менеджер скоро ответит.\nХотите открыть меню?",
		"manager":            "Напишите сообщение, я передам менеджеру.",
		"delivery":           "Доставка: по городу 1–2 дня. Самовывоз по адресу магазина. Хотите оформить заказ?",
		"catalog_empty":      "Каталог пока пуст. Загляните позже или напишите менеджеру.",
		"catalog_list":       "Каталог:",
		"unknown":            "Понял. Уточните, пожалуйста: вам цена, подбор или заказ/доставка? Можно фото.",
		"ai_fail":            "Я не смог корректно обработать запрос. Попробуйте: фото + коротко что нужно (цена/подбор/заказ).",
		"price_result":       "Нашёл вариант:\n%s\n\nХотите оформить заказ?",
		"confirm_match":      "Похоже на эту модель (уверенность %d%%):\n%s\n\nЭто она? Если да, напишите цвет/размер.",
		"clarify_default":    "Уточните, пожалуйста, цвет/размер/фурнитуру?",
		"not_found":          "Пока не нашёл точное совпадение. Уточните модель/цвет/размер или пришлите фото ближе.",
		"confirm_menu":       "Меню",
		"btn_price":          "💰 Узнать цену",
		"btn_catalog":        "📦 Каталог",
		"btn_delivery":       "🚚 Доставка",
		"btn_order":          "🧾 Оформить заказ",
		"btn_manager":        "👤 Менеджер",
		"btn_lang":           "🌐 Язык",
		"lang_set":           "Готово ✅ Язык: Русский",
		"error":              "Произошла ошибка. Попробуйте ещё раз или откройте меню.",
		"admin_only":         "Только для админа.",
		"admin_help": "Админ команды:\n" +
			"/admin — подсказка\n" +
			"/add — добавить товар (затем пришлите: название|цена|цвета через запятую|описание|ключевые слова)\n" +
			"/setphoto — затем пришлите фото (привяжется к последнему товару)\n" +
			"/clear — очистить каталог (осторожно)\n" +
			"/leads — последние заявки\n" +
			"/export — все заявки в Excel\n" +
			"/clearleads — удалить все заявки",
		"admin_add_format":     "Отправьте строку формата:\nНазвание|Цена|Цвета через запятую|Описание|Ключевые слова через запятую (необязательно)",
		"admin_added":          "Товар добавлен ✅ (%s) Теперь можно /setphoto и отправить фото (по желанию).",
		"admin_send_photo":     "Ок. Теперь пришлите фото товара одним сообщением.",
		"admin_no_last_item":   "Нет последнего товара. Сначала /add",
		"admin_photo_set":      "Фото сохранено и привязано ✅",
		"admin_photo_failed":   "Не удалось привязать фото.",
		"admin_cleared":        "Каталог очищен ✅",
		"admin_leads_empty":    "Заявок пока нет.",
		"admin_leads_title":    "Последние заявки (%d из %d):",
		"admin_leads_failed":   "Не удалось прочитать заявки.",
		"admin_leads_clear":    "Заявки удалены ✅",
		"admin_export_name":    "Заявки",
		"admin_export_caption": "Всего заявок: %d",
		"price_label":          "Цена",
		"colors_label":         "Цвета",
	},
	entity.LangKZ: {
		"start_hi": "Сәлеметсіз бе! 👋 Мен сөмкелер дүкенінің AI-менеджерімін.\n" +
			"Қалай көмектесейін?\n\n" +
			"• Бағасын айту (фото жіберуге болады)\n" +
			"• Ұқсас модель таңдау\n" +
			"• Тапсырыс рәсімдеу / жеткізу\n\n" +
			"Бір хабарлама жазыңыз немесе фото жіберіңіз.",
		"choose_lang":        "Тілді таңдаңыз / Выберите язык:",
		"menu_title":         "Мәзір:",
		"menu_hint":          "Қаласаңыз, мәтінмен жазыңыз (батырмасыз да болады).",
		"ask_photo_or_model": "Жақсы 👍 Сөмкенің фотосын жіберіңіз немесе модель атауын жазыңыз.",
		"ask_city":           "Керемет. Қалаңызды жазыңыз:",
		"ask_phone":          "Рақмет. Телефон нөміріңізді жазыңыз (мысалы: +7 777 123 45 67):",
		"ask_details":        "Қысқаша: модель/түс/саны + мекенжай (жеткізу болса) немесе «самовывоз».",
		"lead_done":          "Өтінім қабылданды ✅ Менеджер жақында жауап береді.\nМәзір ашайық па?",
		"manager":            "Хабарлама жазыңыз, менеджерге жіберемін.",
		"delivery":           "Жеткізу: қала ішінде 1–2 күн. Самовывоз дүкен мекенжайынан. Тапсырыс бересіз бе?",
		"catalog_empty":      "Каталог әзірге бос. Кейінірек қараңыз немесе менеджерге жазыңыз.",
		"catalog_list":       "Каталог:",
		"unknown":            "Түсіндім. Нақтылаңызшы: баға, таңдау немесе тапсырыс/жеткізу керек пе? Фото да болады.",
		"ai_fail":            "Сұранысты дұрыс өңдей алмадым. Фото + қысқа түрде жазыңыз (баға/таңдау/тапсырыс).",
		"price_result":       "Вариант таптым:\n%s\n\nТапсырыс рәсімдейміз бе?",
		"confirm_match":      "Мына модель болуы мүмкін (сенімділік %d%%):\n%s\n\nДұрыс па? Дұрыс болса, түсін/өлшемін жазыңыз.",
		"clarify_default":    "Түсін/өлшемін/фурнитурасын нақтылаңызшы?",
		"not_found":          "Дәл сәйкестік таппадым. Модель/түс/өлшемді нақтылаңыз немесе анық фото жіберіңіз.",
		"confirm_menu":       "Мәзір",
		"btn_price":          "💰 Бағасын білу",
		"btn_catalog":        "📦 Каталог",
		"btn_delivery":       "🚚 Жеткізу",
		"btn_order":          "🧾 Тапсырыс",
		"btn_manager":        "👤 Менеджер",
		"btn_lang":           "🌐 Тіл",
		"lang_set":           "Дайын ✅ Тіл: Қазақша",
		"error":              "Қате шықты. Қайта көріңіз немесе мәзірді ашыңыз.",
		"admin_only":         "Тек админге.",
		"admin_help": "Админ командалар:\n" +
			"/admin — көмек\n" +
			"/add — тауар қосу (кейін: атауы|бағасы|түстер|сипаттама|кілт сөздер)\n" +
			"/setphoto — кейін фото жіберіңіз (соңғы тауарға)\n" +
			"/clear — каталогты тазалау\n" +
			"/leads — соңғы өтінімдер\n" +
			"/export — барлық өтінімдер Excel-де\n" +
			"/clearleads — өтінімдерді өшіру",
		"admin_add_format":     "Мына форматта жіберіңіз:\nАтауы|Бағасы|Түстер(үтір арқылы)|Сипаттама|Кілт сөздер(үтір арқылы, міндетті емес)",
		"admin_added":          "Тауар қосылды ✅ (%s) Қаласаңыз /setphoto жасап, фото жіберіңіз.",
		"admin_send_photo":     "Жақсы. Енді тауардың фотосын бір хабарламамен жіберіңіз.",
		"admin_no_last_item":   "Соңғы тауар жоқ. Алдымен /add",
		"admin_photo_set":      "Фото сақталды ✅",
		"admin_photo_failed":   "Фотоны байланыстыру мүмкін болмады.",
		"admin_cleared":        "Каталог тазаланды ✅",
		"admin_leads_empty":    "Өтінімдер әзірге жоқ.",
		"admin_leads_title":    "Соңғы өтінімдер (%d / %d):",
		"admin_leads_failed":   "Өтінімдерді оқу мүмкін болмады.",
		"admin_leads_clear":    "Өтінімдер өшірілді ✅",
		"admin_export_name":    "Otinimder",
		"admin_export_caption": "Барлық өтінімдер: %d",
		"price_label":          "Бағасы",
		"colors_label":         "Түстер",
	},
}

// Text tilga mos matn; topilmasa rus tilidagisi
func Text(lang entity.Lang, key string) string {
	if m, ok := texts[lang]; ok {
		if s, ok := m[key]; ok {
			return s
		}
	}
	return texts[entity.LangRU][key]
}

// FormatPrice 32900 -> "32 900 ₸"
func FormatPrice(price int) string {
	digits := strconv.Itoa(price)
	sign := ""
	if strings.HasPrefix(digits, "-") {
		sign, digits = "-", digits[1:]
	}

	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return sign + b.String() + " " + constants.CurrencySuffix
}

// FormatItemCard mahsulot kartochkasi
func FormatItemCard(item entity.CatalogItem, lang entity.Lang) string {
	colors := strings.Join(item.Colors, ", ")
	if colors == "" {
		colors = "—"
	}
	return fmt.Sprintf("👜 %s\n💰 %s: %s\n🎨 %s: %s\nℹ️ %s",
		item.Name,
		Text(lang, "price_label"), FormatPrice(item.Price),
		Text(lang, "colors_label"), colors,
		item.Description,
	)
}

// FormatCatalogList katalog ro'yxati (ko'pi bilan CatalogListLimit ta)
func FormatCatalogList(items []entity.CatalogItem, lang entity.Lang) string {
	if len(items) == 0 {
		return Text(lang, "catalog_empty")
	}
	lines := []string{Text(lang, "catalog_list")}
	for i, it := range items {
		if i >= constants.CatalogListLimit {
			break
		}
		lines = append(lines, fmt.Sprintf("• %s — %s", it.Name, FormatPrice(it.Price)))
	}
	return strings.Join(lines, "\n")
}

// FormatMatch aniq moslikni ishonchga qarab: chegaradan past bo'lsa faqat tasdiqlash so'raladi
func FormatMatch(res entity.MatchResult, threshold float64, lang entity.Lang) string {
	card := FormatItemCard(res.Item, lang)
	if res.Confidence >= threshold {
		return fmt.Sprintf(Text(lang, "price_result"), card)
	}
	return fmt.Sprintf(Text(lang, "confirm_match"), int(res.Confidence*100), card)
}

// FormatLeadNotice admin uchun yangi ariza haqida xabar. item nil bo'lsa faqat ItemID chiqadi.
func FormatLeadNotice(lead entity.Lead, item *entity.CatalogItem) string {
	var b strings.Builder
	switch lead.Kind {
	case entity.LeadKindManager:
		b.WriteString("📨 Сообщение менеджеру\n")
	default:
		b.WriteString("🧾 Новая заявка\n")
	}
	b.WriteString(customerLine(lead))
	if lead.City != "" {
		fmt.Fprintf(&b, "🏙 Город: %s\n", lead.City)
	}
	if lead.Phone != "" {
		fmt.Fprintf(&b, "📞 Телефон: %s\n", lead.Phone)
	}
	switch {
	case item != nil:
		fmt.Fprintf(&b, "👜 Модель: %s (%s), %s\n", item.Name, item.ID, FormatPrice(item.Price))
	case lead.ItemID != "":
		fmt.Fprintf(&b, "👜 Модель: %s\n", lead.ItemID)
	}
	if lead.Details != "" {
		fmt.Fprintf(&b, "📝 %s\n", lead.Details)
	}
	fmt.Fprintf(&b, "🕒 %s", lead.CreatedAt.Format("2006-01-02 15:04"))
	return b.String()
}

// FormatLeadsSummary /leads uchun oxirgi arizalar ro'yxati
func FormatLeadsSummary(leads []entity.Lead, limit int, lang entity.Lang) string {
	if len(leads) == 0 {
		return Text(lang, "admin_leads_empty")
	}
	recent := leads
	if limit > 0 && len(recent) > limit {
		recent = recent[len(recent)-limit:]
	}

	var b strings.Builder
	fmt.Fprintf(&b, Text(lang, "admin_leads_title"), len(recent), len(leads))
	for i := len(recent) - 1; i >= 0; i-- {
		l := recent[i]
		b.WriteString("\n\n")
		fmt.Fprintf(&b, "%s [%s] %s", l.CreatedAt.Format("02.01 15:04"), l.Kind, displayName(l))
		if l.Phone != "" {
			fmt.Fprintf(&b, ", %s", l.Phone)
		}
		if l.City != "" {
			fmt.Fprintf(&b, ", %s", l.City)
		}
		if l.Details != "" {
			fmt.Fprintf(&b, "\n%s", l.Details)
		}
	}
	return b.String()
}

func customerLine(lead entity.Lead) string {
	return fmt.Sprintf("👤 %s (id %d)\n", displayName(lead), lead.UserID)
}

func displayName(lead entity.Lead) string {
	switch {
	case lead.FullName != "" && lead.Username != "":
		return fmt.Sprintf("%s @%s", lead.FullName, lead.Username)
	case lead.Username != "":
		return "@" + lead.Username
	case lead.FullName != "":
		return lead.FullName
	default:
		return strconv.FormatInt(lead.UserID, 10)
	}
}

func exportFileName(lang entity.Lang, now time.Time) string {
	return fmt.Sprintf("%s_%s.xlsx", Text(lang, "admin_export_name"), now.Format("20060102_1504"))
}
