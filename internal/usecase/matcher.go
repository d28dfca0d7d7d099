package usecase

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/yourusername/bagshop-bot/internal/domain/constants"
	"github.com/yourusername/bagshop-bot/internal/domain/entity"
	"github.com/yourusername/bagshop-bot/internal/domain/repository"
)

// PhotoInput kiruvchi foto: transport ID si va kerak bo'lganda baytlarni yuklab oluvchi funksiya
type PhotoInput struct {
	FileID string
	Fetch  func(ctx context.Context) ([]byte, error)
}

// MatchQuery matnli va/yoki fotoli so'rov
type MatchQuery struct {
	Lang  entity.Lang
	Text  string
	Photo *PhotoInput
}

// MatcherConfig moslashtirish chegaralari
type MatcherConfig struct {
	Threshold       float64
	MinTokenOverlap int
}

// Matcher so'rovni katalogdagi ko'pi bilan bitta mahsulotga bog'laydi
type Matcher struct {
	catalog repository.CatalogRepository
	advisor repository.CatalogAdvisor
	cfg     MatcherConfig
}

var tokenRe = regexp.MustCompile(`[\p{L}\p{N}]+`)

// NewMatcher advisor nil bo'lsa faqat heuristika ishlaydi
func NewMatcher(catalog repository.CatalogRepository, advisor repository.CatalogAdvisor, cfg MatcherConfig) *Matcher {
	if cfg.Threshold <= 0 || cfg.Threshold > 1 {
		cfg.Threshold = constants.DefaultConfidenceThreshold
	}
	if cfg.MinTokenOverlap <= 0 {
		cfg.MinTokenOverlap = constants.DefaultMinTokenOverlap
	}
	return &Matcher{catalog: catalog, advisor: advisor, cfg: cfg}
}

// Threshold ishonch chegarasi
func (m *Matcher) Threshold() float64 {
	return m.cfg.Threshold
}

// Match katalogdan mahsulot qidirish.
// Xato faqat katalogni o'qib bo'lmaganda qaytadi; model xatolari heuristikaga o'tkaziladi.
func (m *Matcher) Match(ctx context.Context, q MatchQuery) (entity.MatchResult, error) {
	catalog, err := m.catalog.Snapshot(ctx)
	if err != nil {
		return entity.MatchResult{}, fmt.Errorf("load catalog: %w", err)
	}
	if catalog.IsEmpty() {
		return entity.MatchResult{Kind: entity.MatchEmptyCatalog}, nil
	}

	if q.Photo != nil {
		if item, ok := catalog.FindByPhoto(q.Photo.FileID); ok {
			return definite(item, constants.ExactConfidence, entity.SourcePhotoIndex), nil
		}
	}

	text := strings.TrimSpace(q.Text)
	if q.Photo == nil {
		if item, ok := matchBySubstring(catalog.Items, text); ok {
			return definite(item, constants.ExactConfidence, entity.SourceSubstring), nil
		}
	}

	if m.advisor != nil && (text != "" || q.Photo != nil) {
		res, err := m.askModel(ctx, catalog, q.Lang, text, q.Photo)
		if err == nil {
			return res, nil
		}
		log.Printf("⚠️ Model bilan moslashtirish muvaffaqiyatsiz, heuristikaga o'tildi: %v", err)
	}

	if q.Photo != nil {
		if item, ok := matchBySubstring(catalog.Items, text); ok {
			return definite(item, constants.ExactConfidence, entity.SourceSubstring), nil
		}
	}
	if item, ok := matchByTokens(catalog.Items, text, m.cfg.MinTokenOverlap); ok {
		return definite(item, constants.HeuristicConfidence, entity.SourceTokens), nil
	}
	return entity.MatchResult{Kind: entity.MatchNone}, nil
}

func (m *Matcher) askModel(ctx context.Context, catalog *entity.Catalog, lang entity.Lang, text string, photo *PhotoInput) (entity.MatchResult, error) {
	prompt := repository.MatchPrompt{
		Lang:    lang,
		Catalog: catalog.Items,
		Text:    text,
	}
	if photo != nil && photo.Fetch != nil {
		img, err := photo.Fetch(ctx)
		if err != nil {
			log.Printf("⚠️ Fotoni yuklab bo'lmadi: %v", err)
		} else {
			prompt.Image = img
		}
	}
	if prompt.Text == "" && len(prompt.Image) == 0 {
		return entity.MatchResult{}, fmt.Errorf("nothing to send to the model")
	}

	decision, err := m.advisor.MatchItem(ctx, prompt)
	if err != nil {
		return entity.MatchResult{}, err
	}

	switch decision.Action {
	case entity.ActionMatch:
		item, ok := catalog.Find(decision.ItemID)
		if ok && decision.Confidence >= m.cfg.Threshold {
			return definite(item, decision.Confidence, entity.SourceModel), nil
		}
		if !ok {
			log.Printf("⚠️ Model katalogda yo'q ID qaytardi: %q", decision.ItemID)
		}
		return entity.MatchResult{Kind: entity.MatchClarify, Question: decision.Question, Source: entity.SourceModel}, nil
	case entity.ActionClarify:
		return entity.MatchResult{Kind: entity.MatchClarify, Question: decision.Question, Source: entity.SourceModel}, nil
	default:
		return entity.MatchResult{Kind: entity.MatchNone, Source: entity.SourceModel}, nil
	}
}

func definite(item entity.CatalogItem, confidence float64, source entity.MatchSource) entity.MatchResult {
	return entity.MatchResult{
		Kind:       entity.MatchDefinite,
		Item:       item,
		Confidence: confidence,
		Source:     source,
	}
}

// matchBySubstring nom so'rov ichida yoki so'rov nom ichida (katta-kichik harf farqsiz)
func matchBySubstring(items []entity.CatalogItem, query string) (entity.CatalogItem, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return entity.CatalogItem{}, false
	}
	for _, it := range items {
		name := strings.ToLower(strings.TrimSpace(it.Name))
		if name == "" {
			continue
		}
		if strings.Contains(q, name) || strings.Contains(name, q) {
			return it, true
		}
	}
	return entity.CatalogItem{}, false
}

// matchByTokens eng ko'p umumiy so'zga ega mahsulot; teng bo'lsa katalogda birinchisi
func matchByTokens(items []entity.CatalogItem, query string, minOverlap int) (entity.CatalogItem, bool) {
	qTokens := tokenSet(query)
	if len(qTokens) == 0 {
		return entity.CatalogItem{}, false
	}

	best, bestScore := -1, 0
	for i, it := range items {
		score := 0
		for tok := range tokenSet(it.Name) {
			if _, ok := qTokens[tok]; ok {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 || bestScore < minOverlap {
		return entity.CatalogItem{}, false
	}
	return items[best], true
}

func tokenSet(s string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, tok := range tokenRe.FindAllString(strings.ToLower(s), -1) {
		out[tok] = struct{}{}
	}
	return out
}
