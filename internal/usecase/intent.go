package usecase

import "strings"

// Intent foydalanuvchi matnining taxminiy maqsadi
type Intent string

const (
	IntentMenu     Intent = "menu"
	IntentPrice    Intent = "price"
	IntentCatalog  Intent = "catalog"
	IntentDelivery Intent = "delivery"
	IntentOrder    Intent = "order"
	IntentManager  Intent = "manager"
	IntentChat     Intent = "chat"
)

type intentRule struct {
	Intent   Intent
	Keywords []string
}

// intentRules tartib muhim: birinchi mos kelgan qoida yutadi
var intentRules = []intentRule{
	{IntentMenu, []string{"меню", "menu", "мәзір"}},
	{IntentPrice, []string{"цена", "сколько", "стоимость", "почем", "баға", "қанша"}},
	{IntentCatalog, []string{"каталог", "модели", "ассортимент", "catalog"}},
	{IntentDelivery, []string{"доставка", "привез", "курьер", "жеткіз", "delivery"}},
	{IntentOrder, []string{"заказ", "купить", "оформ", "тапсырыс", "сатып"}},
	{IntentManager, []string{"менеджер", "оператор", "адам", "manager"}},
}

// DetectIntent matnni kalit so'zlar bo'yicha tasniflaydi
func DetectIntent(text string) Intent {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" {
		return IntentChat
	}
	for _, rule := range intentRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(t, kw) {
				return rule.Intent
			}
		}
	}
	return IntentChat
}
