package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/yourusername/bagshop-bot/internal/domain/entity"
	"github.com/yourusername/bagshop-bot/internal/usecase"
)

func kbLang() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🇷🇺 Русский", callbackLangPrefix+string(entity.LangRU)),
			tgbotapi.NewInlineKeyboardButtonData("🇰🇿 Қазақша", callbackLangPrefix+string(entity.LangKZ)),
		),
	)
}

func kbMain(lang entity.Lang) tgbotapi.InlineKeyboardMarkup {
	btn := func(key, action string) tgbotapi.InlineKeyboardButton {
		return tgbotapi.NewInlineKeyboardButtonData(usecase.Text(lang, key), callbackActionPrefix+action)
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(btn("btn_price", usecase.ActionPrice), btn("btn_catalog", usecase.ActionCatalog)),
		tgbotapi.NewInlineKeyboardRow(btn("btn_delivery", usecase.ActionDelivery), btn("btn_order", usecase.ActionOrder)),
		tgbotapi.NewInlineKeyboardRow(btn("btn_manager", usecase.ActionManager), btn("btn_lang", usecase.ActionLang)),
	)
}

func kbSmallMenu(lang entity.Lang) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📋 "+usecase.Text(lang, "confirm_menu"), callbackActionPrefix+usecase.ActionMenu),
		),
	)
}

// keyboardMarkup use case klaviaturasini Telegram markup'iga aylantiradi (KeyboardNone uchun nil)
func keyboardMarkup(kb usecase.Keyboard, lang entity.Lang) interface{} {
	switch kb {
	case usecase.KeyboardLanguage:
		return kbLang()
	case usecase.KeyboardMain:
		return kbMain(lang)
	case usecase.KeyboardSmallMenu:
		return kbSmallMenu(lang)
	default:
		return nil
	}
}
