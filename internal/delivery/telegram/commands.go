package telegram

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/yourusername/bagshop-bot/internal/usecase"
)

const (
	callbackActionPrefix = "act:"
	callbackLangPrefix   = "lang:"
)

var adminCommands = map[string]bool{
	usecase.CommandAdmin:      true,
	usecase.CommandAdd:        true,
	usecase.CommandSetPhoto:   true,
	usecase.CommandClear:      true,
	usecase.CommandLeads:      true,
	usecase.CommandExport:     true,
	usecase.CommandClearLeads: true,
}

// commandEvent komandani hodisa turiga aylantiradi
func commandEvent(cmd string) (usecase.EventKind, string) {
	cmd = strings.ToLower(cmd)
	switch cmd {
	case "start":
		return usecase.EventStart, ""
	case "menu":
		return usecase.EventMenu, ""
	case "help":
		return usecase.EventHelp, ""
	}
	if adminCommands[cmd] {
		return usecase.EventCommand, cmd
	}
	// Noma'lum komanda yordam matniga olib boradi
	return usecase.EventHelp, ""
}

func extractCommand(msg *tgbotapi.Message) string {
	if msg == nil {
		return ""
	}
	if msg.IsCommand() {
		return msg.Command()
	}
	txt := strings.TrimSpace(msg.Text)
	if !strings.HasPrefix(txt, "/") {
		return ""
	}
	first := strings.Fields(txt)[0]
	first = strings.TrimPrefix(first, "/")
	if first == "" {
		return ""
	}
	parts := strings.SplitN(first, "@", 2)
	return parts[0]
}

// parseCallbackData "act:<name>" va "lang:<code>" ni use case harakatiga aylantiradi
func parseCallbackData(data string) (string, bool) {
	data = strings.TrimSpace(data)
	switch {
	case strings.HasPrefix(data, callbackActionPrefix):
		action := strings.TrimPrefix(data, callbackActionPrefix)
		switch action {
		case usecase.ActionMenu, usecase.ActionPrice, usecase.ActionCatalog, usecase.ActionDelivery,
			usecase.ActionOrder, usecase.ActionManager, usecase.ActionLang:
			return action, true
		}
	case data == usecase.ActionLangRU || data == usecase.ActionLangKZ:
		return data, true
	}
	return "", false
}
