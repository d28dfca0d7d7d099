package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/yourusername/bagshop-bot/internal/domain/entity"
)

// LeadsSheet eksport faylidagi varaq nomi
const LeadsSheet = "Leads"

// BuildLeadsXLSX barcha arizalarni .xlsx fayliga yozadi: sarlavha + har bir ariza uchun qator
func BuildLeadsXLSX(leads []entity.Lead) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), LeadsSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	for i, h := range entity.LeadHeaders() {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(LeadsSheet, cell, h); err != nil {
			return nil, err
		}
	}

	for i, lead := range leads {
		rowIdx := i + 2
		for c, v := range lead.Values() {
			cell, err := excelize.CoordinatesToCellName(c+1, rowIdx)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(LeadsSheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
