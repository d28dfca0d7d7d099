package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/yourusername/bagshop-bot/internal/domain/entity"
	"github.com/yourusername/bagshop-bot/internal/domain/repository"
)

// LeadSink har bir arizani Google Sheets jadvaliga qator sifatida qo'shadi
type LeadSink struct {
	service       *sheets.Service
	spreadsheetID string
	sheetRange    string
}

var _ repository.LeadSink = (*LeadSink)(nil)

// NewLeadSink service account fayli orqali ulanish
func NewLeadSink(ctx context.Context, credentialsPath, spreadsheetID string) (*LeadSink, error) {
	return NewLeadSinkWithOptions(ctx, spreadsheetID, option.WithCredentialsFile(credentialsPath))
}

// NewLeadSinkWithOptions ixtiyoriy klient sozlamalari bilan (endpoint, http client)
func NewLeadSinkWithOptions(ctx context.Context, spreadsheetID string, opts ...option.ClientOption) (*LeadSink, error) {
	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	return &LeadSink{
		service:       service,
		spreadsheetID: spreadsheetID,
		sheetRange:    "A:J",
	}, nil
}

// SetupHeaders birinchi qatorga ustun nomlarini yozadi
func (s *LeadSink) SetupHeaders(ctx context.Context) error {
	headers := entity.LeadHeaders()
	row := make([]interface{}, len(headers))
	for i, h := range headers {
		row[i] = h
	}

	_, err := s.service.Spreadsheets.Values.Update(
		s.spreadsheetID,
		"A1:J1",
		&sheets.ValueRange{Values: [][]interface{}{row}},
	).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("unable to write headers: %w", err)
	}
	return nil
}

// Publish arizani jadval oxiriga qo'shish
func (s *LeadSink) Publish(ctx context.Context, lead entity.Lead) error {
	_, err := s.service.Spreadsheets.Values.Append(
		s.spreadsheetID,
		s.sheetRange,
		&sheets.ValueRange{Values: [][]interface{}{lead.Values()}},
	).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("unable to append lead %s: %w", lead.ID, err)
	}
	return nil
}
