package gemini

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/yourusername/bagshop-bot/internal/domain/entity"
)

// ErrInvalidDecision model javobi kutilgan sxemaga mos emas
var ErrInvalidDecision = errors.New("invalid model decision")

type rawDecision struct {
	Action     *string         `json:"action"`
	ID         json.RawMessage `json:"id"`
	Confidence *float64        `json:"confidence"`
	Questions  string          `json:"questions"`
	Reason     string          `json:"reason"`
}

// DecodeDecision model javobini qat'iy tekshirib ModelDecision ga aylantiradi.
// Markdown ``` bloklari olib tashlanadi; JSON dan keyingi ortiqcha matn xato.
func DecodeDecision(text string) (entity.ModelDecision, error) {
	body := stripFences(text)
	if body == "" {
		return entity.ModelDecision{}, fmt.Errorf("%w: empty response", ErrInvalidDecision)
	}

	dec := json.NewDecoder(strings.NewReader(body))
	var raw rawDecision
	if err := dec.Decode(&raw); err != nil {
		return entity.ModelDecision{}, fmt.Errorf("%w: %v", ErrInvalidDecision, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return entity.ModelDecision{}, fmt.Errorf("%w: trailing data after object", ErrInvalidDecision)
	}

	if raw.Action == nil {
		return entity.ModelDecision{}, fmt.Errorf("%w: missing action", ErrInvalidDecision)
	}

	out := entity.ModelDecision{
		Action:   entity.DecisionAction(strings.ToLower(strings.TrimSpace(*raw.Action))),
		Question: strings.TrimSpace(raw.Questions),
		Reason:   strings.TrimSpace(raw.Reason),
	}

	id, err := decodeID(raw.ID)
	if err != nil {
		return entity.ModelDecision{}, err
	}
	out.ItemID = id

	if raw.Confidence != nil {
		c := *raw.Confidence
		if c < 0 || c > 1 {
			return entity.ModelDecision{}, fmt.Errorf("%w: confidence %v outside [0,1]", ErrInvalidDecision, c)
		}
		out.Confidence = c
	}

	switch out.Action {
	case entity.ActionMatch:
		if out.ItemID == "" {
			return entity.ModelDecision{}, fmt.Errorf("%w: match without id", ErrInvalidDecision)
		}
		if raw.Confidence == nil {
			return entity.ModelDecision{}, fmt.Errorf("%w: match without confidence", ErrInvalidDecision)
		}
	case entity.ActionClarify, entity.ActionNoMatch:
	default:
		return entity.ModelDecision{}, fmt.Errorf("%w: unknown action %q", ErrInvalidDecision, out.Action)
	}

	return out, nil
}

func decodeID(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", nil
	}
	var id string
	if err := json.Unmarshal(trimmed, &id); err != nil {
		return "", fmt.Errorf("%w: id must be a string", ErrInvalidDecision)
	}
	return strings.TrimSpace(id), nil
}

func stripFences(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		// ```json
		s = s[nl+1:]
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
