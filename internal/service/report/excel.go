package report

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"MarketBoard/internal/domain/models"
)

const (
	quotesSheet      = "Quotes"
	correlationSheet = "Correlation"
)

// Exporter renders a snapshot as an xlsx workbook with one sheet of
// latest quotes and, when present, one sheet for the correlation matrix.
type Exporter struct{}

func NewExporter() *Exporter { return &Exporter{} }

// Write streams the workbook to w.
func (e *Exporter) Write(w io.Writer, snap *models.Snapshot) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", quotesSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := e.writeQuotes(f, snap); err != nil {
		return err
	}
	if snap.Correlation != nil {
		if err := e.writeCorrelation(f, snap.Correlation); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func (e *Exporter) writeQuotes(f *excelize.File, snap *models.Snapshot) error {
	header := []interface{}{"Group", "Label", "Symbol", "Price", "Delta", "Status", "As Of"}
	if err := f.SetSheetRow(quotesSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := 2
	for _, g := range snap.Groups {
		for _, card := range g.Cards {
			status := "ok"
			if card.Error != "" {
				status = card.Error
			}
			values := []interface{}{
				g.Name, card.Label, card.Symbol, card.Price, card.Delta, status,
				snap.GeneratedAt.Format(time.RFC3339),
			}
			cell := fmt.Sprintf("A%d", row)
			if err := f.SetSheetRow(quotesSheet, cell, &values); err != nil {
				return fmt.Errorf("write row %d: %w", row, err)
			}
			row++
		}
	}
	return nil
}

func (e *Exporter) writeCorrelation(f *excelize.File, m *models.CorrelationMatrix) error {
	if _, err := f.NewSheet(correlationSheet); err != nil {
		return fmt.Errorf("new sheet: %w", err)
	}

	header := make([]interface{}, 0, len(m.Symbols)+1)
	header = append(header, "")
	for _, s := range m.Symbols {
		header = append(header, s)
	}
	if err := f.SetSheetRow(correlationSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, symbol := range m.Symbols {
		row := make([]interface{}, 0, len(m.Symbols)+1)
		row = append(row, symbol)
		for j := range m.Symbols {
			v := m.Matrix[i][j]
			if v != v { // NaN cells stay blank
				row = append(row, nil)
				continue
			}
			row = append(row, v)
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(correlationSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	return nil
}
