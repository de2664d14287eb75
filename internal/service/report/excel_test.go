package report

import (
	"bytes"
	"math"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"MarketBoard/internal/domain/models"
)

func TestExportWorkbook(t *testing.T) {
	snap := &models.Snapshot{
		GeneratedAt: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		Groups: []models.AssetGroup{
			{Name: "Indices", Cards: []models.AssetCard{
				{Symbol: "^KS11", Label: "KOSPI", Price: 2500.5, Delta: -10.25},
				{Symbol: "^IXIC", Label: "NASDAQ", Error: "^IXIC: data unavailable"},
			}},
		},
		Correlation: &models.CorrelationMatrix{
			Symbols: []string{"^KS11", "^IXIC"},
			Matrix:  [][]float64{{1, math.NaN()}, {math.NaN(), 1}},
		},
	}

	var buf bytes.Buffer
	if err := NewExporter().Write(&buf, snap); err != nil {
		t.Fatalf("write: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	label, err := f.GetCellValue("Quotes", "B2")
	if err != nil {
		t.Fatalf("read cell: %v", err)
	}
	if label != "KOSPI" {
		t.Fatalf("B2 = %q, want KOSPI", label)
	}
	status, err := f.GetCellValue("Quotes", "F3")
	if err != nil {
		t.Fatalf("read cell: %v", err)
	}
	if status != "^IXIC: data unavailable" {
		t.Fatalf("F3 = %q", status)
	}

	diag, err := f.GetCellValue("Correlation", "B2")
	if err != nil {
		t.Fatalf("read cell: %v", err)
	}
	if diag != "1" {
		t.Fatalf("correlation diagonal = %q, want 1", diag)
	}
	blank, err := f.GetCellValue("Correlation", "C2")
	if err != nil {
		t.Fatalf("read cell: %v", err)
	}
	if blank != "" {
		t.Fatalf("NaN cell should be blank, got %q", blank)
	}
}

func TestExportWithoutCorrelation(t *testing.T) {
	snap := &models.Snapshot{
		GeneratedAt: time.Now().UTC(),
		Groups: []models.AssetGroup{
			{Name: "FX", Cards: []models.AssetCard{{Symbol: "KRW=X", Label: "USD/KRW", Price: 1380}}},
		},
	}

	var buf bytes.Buffer
	if err := NewExporter().Write(&buf, snap); err != nil {
		t.Fatalf("write: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	if idx, _ := f.GetSheetIndex("Correlation"); idx != -1 {
		t.Fatalf("unexpected correlation sheet")
	}
}
