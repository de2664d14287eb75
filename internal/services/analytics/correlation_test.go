package analytics

import (
	"encoding/json"
	"math"
	"testing"

	"MarketBoard/internal/domain/models"
)

func TestCorrelatePerfectlyCorrelated(t *testing.T) {
	a := seriesFrom("A", []float64{100, 102, 101, 105, 103})
	b := seriesFrom("B", []float64{200, 204, 202, 210, 206})

	m := Correlate([]models.Series{a, b})
	if m.Symbols[0] != "A" || m.Symbols[1] != "B" {
		t.Fatalf("symbols %v", m.Symbols)
	}
	if !almostEqual(m.Matrix[0][0], 1) || !almostEqual(m.Matrix[1][1], 1) {
		t.Fatalf("diagonal not 1: %v", m.Matrix)
	}
	if !almostEqual(m.Matrix[0][1], 1) {
		t.Fatalf("identical return paths correlation %v, want 1", m.Matrix[0][1])
	}
	if !almostEqual(m.Matrix[0][1], m.Matrix[1][0]) {
		t.Fatalf("matrix not symmetric")
	}
}

func TestCorrelateInverse(t *testing.T) {
	// b's log returns are the negation of a's
	a := seriesFrom("A", []float64{100, 110, 99, 105})
	closes := []float64{100}
	ra := LogReturns([]float64{100, 110, 99, 105})
	for _, r := range ra {
		closes = append(closes, closes[len(closes)-1]*math.Exp(-r))
	}
	b := seriesFrom("B", closes)

	m := Correlate([]models.Series{a, b})
	if !almostEqual(m.Matrix[0][1], -1) {
		t.Fatalf("inverse correlation %v, want -1", m.Matrix[0][1])
	}
}

func TestCorrelateNoOverlap(t *testing.T) {
	a := seriesFrom("A", []float64{100, 102, 101})
	b := models.Series{Symbol: "B"} // failed fetch, no bars

	m := Correlate([]models.Series{a, b})
	if !math.IsNaN(m.Matrix[0][1]) {
		t.Fatalf("expected NaN for empty symbol, got %v", m.Matrix[0][1])
	}
	if !almostEqual(m.Matrix[1][1], 1) {
		t.Fatalf("diagonal must stay 1 even without data")
	}
}

func TestCorrelationMatrixJSON(t *testing.T) {
	a := seriesFrom("A", []float64{100, 102, 101})
	m := Correlate([]models.Series{a, {Symbol: "B"}})

	raw, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded struct {
		Symbols []string     `json:"symbols"`
		Matrix  [][]*float64 `json:"matrix"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Matrix[0][1] != nil {
		t.Fatalf("NaN cell should encode as null")
	}
	if decoded.Matrix[0][0] == nil || *decoded.Matrix[0][0] != 1 {
		t.Fatalf("diagonal lost in encoding")
	}
}
