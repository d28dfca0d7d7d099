package gemini

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/yourusername/bagshop-bot/internal/domain/constants"
	"github.com/yourusername/bagshop-bot/internal/domain/entity"
	"github.com/yourusername/bagshop-bot/internal/domain/repository"
)

// ErrBlocked javob xavfsizlik filtri tomonidan to'xtatildi
var ErrBlocked = errors.New("response blocked by safety filter")

// Options Gemini client sozlamalari
type Options struct {
	APIKey    string
	Model     string
	Timeout   time.Duration
	Threshold float64
	// PromptItems promptga kiritiladigan max mahsulotlar (0 = MaxCatalogItemsInPrompt)
	PromptItems int
}

// Client Gemini asosidagi katalog maslahatchisi
type Client struct {
	client    *genai.Client
	modelName string
	timeout     time.Duration
	threshold   float64
	promptItems int
}

var _ repository.CatalogAdvisor = (*Client)(nil)

// NewGeminiClient yangi Gemini AI client yaratish
func NewGeminiClient(ctx context.Context, opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, fmt.Errorf("gemini api key is empty")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(opts.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	c := &Client{
		client:      client,
		modelName:   opts.Model,
		timeout:     opts.Timeout,
		threshold:   opts.Threshold,
		promptItems: opts.PromptItems,
	}
	if c.modelName == "" {
		c.modelName = constants.GeminiModelName
	}
	if c.timeout <= 0 {
		c.timeout = constants.DefaultAITimeout
	}
	if c.threshold <= 0 {
		c.threshold = constants.DefaultConfidenceThreshold
	}
	if c.promptItems <= 0 {
		c.promptItems = constants.MaxCatalogItemsInPrompt
	}
	return c, nil
}

// MatchItem katalogdan bitta mahsulotni tanlash (JSON rejim)
func (c *Client) MatchItem(ctx context.Context, prompt repository.MatchPrompt) (entity.ModelDecision, error) {
	model := c.client.GenerativeModel(c.modelName)
	model.SetTemperature(constants.AIMatchTemperature)
	model.SetTopK(constants.AITopK)
	model.SetTopP(constants.AITopP)
	model.ResponseMIMEType = "application/json"
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(matchInstruction(prompt.Lang, c.threshold))},
	}

	parts := []genai.Part{
		genai.Text(fmt.Sprintf("Catalog: %s\n\nCustomer text: %s", catalogJSON(prompt.Catalog, c.promptItems), prompt.Text)),
	}
	if len(prompt.Image) > 0 {
		parts = append(parts, genai.ImageData("jpeg", prompt.Image))
	}

	text, err := c.generate(ctx, model, parts...)
	if err != nil {
		return entity.ModelDecision{}, err
	}
	decision, err := DecodeDecision(text)
	if err != nil {
		log.Printf("⚠️ Gemini match javobi yaroqsiz: %v", err)
		return entity.ModelDecision{}, err
	}
	return decision, nil
}

// Consult erkin savolga qisqa javob
func (c *Client) Consult(ctx context.Context, lang entity.Lang, catalog []entity.CatalogItem, text string) (string, error) {
	model := c.client.GenerativeModel(c.modelName)
	model.SetTemperature(constants.AITemperature)
	model.SetTopK(constants.AITopK)
	model.SetTopP(constants.AITopP)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(fmt.Sprintf(consultInstruction, consultLanguageRule(lang), catalogLines(catalog, c.promptItems)))},
	}

	return c.generate(ctx, model, genai.Text(text))
}

// generate bitta urinish: xato bo'lsa chaqiruvchi heuristikaga o'tadi
func (c *Client) generate(ctx context.Context, model *genai.GenerativeModel, parts ...genai.Part) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		log.Printf("❌ Gemini xato (%v): %v", time.Since(start).Round(time.Millisecond), err)
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no response candidates")
	}

	if reason := resp.Candidates[0].FinishReason; reason == genai.FinishReasonSafety {
		log.Printf("🚫 Response blocked by safety filter!")
		return "", ErrBlocked
	}

	text := strings.TrimSpace(extractText(resp))
	if text == "" {
		return "", fmt.Errorf("empty response")
	}
	log.Printf("✅ Gemini javobi olindi (%v)", time.Since(start).Round(time.Millisecond))
	return text, nil
}

// extractText javobdan textni ajratib olish
func extractText(resp *genai.GenerateContentResponse) string {
	var result strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				result.WriteString(string(t))
			}
		}
	}
	return result.String()
}

// Close client ni yopish
func (c *Client) Close() error {
	return c.client.Close()
}
