package gemini

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/yourusername/bagshop-bot/internal/domain/constants"
	"github.com/yourusername/bagshop-bot/internal/domain/entity"
)

// decisionSchema modeldan kutiladigan JSON shakli
const decisionSchema = `{"action":"match|clarify|no_match","id":"string|null","confidence":0..1,"questions":"string","reason":"string"}`

// matchInstructionRU moslashtirish rejimi (rus/ingliz)
const matchInstructionRU = `You are a bag shop manager. Goal: match the customer's text and/or photo to exactly one model from our catalog.
Rules:
1) If your confidence is >= %.2f, choose exactly one model and return its "id" from the catalog.
2) If it is lower, ask 2-3 short clarifying questions (color, size, hardware) in Russian.
3) Never invent models, prices or availability. If the bag is not in the catalog, answer no_match.
4) Use only ids that appear in the catalog.
Return STRICT JSON only, no markdown:
` + decisionSchema

// matchInstructionKZ moslashtirish rejimi (qozoq tili)
const matchInstructionKZ = `Сен сөмке дүкенінің менеджерісің. Мақсат: клиенттің мәтіні/фотосы бойынша каталогтағы нақты бір модельді табу.
Ережелер:
1) Егер сенімділік >= %.2f болса, тек бір модельді таңда және каталогтағы "id" қайтар.
2) Егер сенімділік төмен болса, қазақ тілінде 2-3 нақтылау сұрағын қой (түсі, өлшемі, фурнитурасы).
3) Ойдан шығарма. Каталогта жоқ модельді "бар" деп айтпа, no_match қайтар.
4) Тек каталогтағы id пайдалан.
Жауапты қатаң JSON түрінде бер, markdown жоқ:
` + decisionSchema

// consultInstruction erkin suhbat rejimi
const consultInstruction = `Ты AI-менеджер магазина сумок.
Задача: помочь выбрать модель, назвать цену из каталога и довести до оформления заказа.

Правила:
- Никогда не придумывай цену или наличие.
- Используй только данные из каталога.
- Если спрашивают цену или модель, попроси фото или название модели.
- Если клиент груб или пишет бессмыслицу, ответь спокойно и подскажи следующий шаг.
- Пиши коротко (1-3 предложения) и всегда предлагай следующий шаг.
- %s

Каталог:
%s`

func matchInstruction(lang entity.Lang, threshold float64) string {
	if lang == entity.LangKZ {
		return fmt.Sprintf(matchInstructionKZ, threshold)
	}
	return fmt.Sprintf(matchInstructionRU, threshold)
}

func consultLanguageRule(lang entity.Lang) string {
	if lang == entity.LangKZ {
		return "Отвечай на казахском языке."
	}
	return "Отвечай на русском языке."
}

type promptItem struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Price    int      `json:"price"`
	Colors   []string `json:"colors"`
	Desc     string   `json:"desc,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
}

// limitItems promptga sig'adigan birinchi limit ta mahsulot; kesilganda loglanadi
func limitItems(items []entity.CatalogItem, limit int) []entity.CatalogItem {
	if limit <= 0 || len(items) <= limit {
		return items
	}
	log.Printf("⚠️ Katalog promptga to'liq sig'madi: %d dan faqat birinchi %d ta yuborildi (AI_MAX_CATALOG_ITEMS)", len(items), limit)
	return items[:limit]
}

// catalogJSON promptga kiritiladigan ixcham katalog
func catalogJSON(items []entity.CatalogItem, limit int) string {
	items = limitItems(items, limit)
	compact := make([]promptItem, 0, len(items))
	for _, it := range items {
		compact = append(compact, promptItem{
			ID:       it.ID,
			Name:     it.Name,
			Price:    it.Price,
			Colors:   it.Colors,
			Desc:     it.Description,
			Keywords: it.Keywords,
		})
	}
	data, err := json.Marshal(compact)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// catalogLines Consult uchun: "Nomi — 32900 ₸. tavsif"
func catalogLines(items []entity.CatalogItem, limit int) string {
	if len(items) == 0 {
		return "(каталог пуст)"
	}
	items = limitItems(items, limit)
	var b strings.Builder
	for _, it := range items {
		fmt.Fprintf(&b, "%s — %d %s. %s\n", it.Name, it.Price, constants.CurrencySuffix, it.Description)
	}
	return b.String()
}
