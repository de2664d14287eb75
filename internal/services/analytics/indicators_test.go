package analytics

import (
	"math"
	"testing"
	"time"

	"MarketBoard/internal/domain/models"
)

func seriesFrom(symbol string, closes []float64) models.Series {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]models.Bar, len(closes))
	t := start
	for i, c := range closes {
		for t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
			t = t.AddDate(0, 0, 1)
		}
		bars[i] = models.Bar{Time: t, Open: c, High: c, Low: c, Close: c}
		t = t.AddDate(0, 0, 1)
	}
	return models.Series{Symbol: symbol, Bars: bars}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestBandsShortSeries(t *testing.T) {
	e := NewEngine(IndicatorConfig{Window: 20, RSIPeriod: 14, Sigmas: 2})
	closes := make([]float64, 19)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	if got := e.Bands(seriesFrom("X", closes)); got != nil {
		t.Fatalf("expected no bands for 19 bars, got %d points", len(got))
	}
}

func TestBandsAlignment(t *testing.T) {
	e := NewEngine(IndicatorConfig{Window: 20, RSIPeriod: 14, Sigmas: 2})
	closes := make([]float64, 25)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	s := seriesFrom("X", closes)

	bands := e.Bands(s)
	if len(bands) != 6 {
		t.Fatalf("expected 6 band points, got %d", len(bands))
	}
	if !bands[0].Time.Equal(s.Bars[19].Time) {
		t.Fatalf("first band at %v, want %v", bands[0].Time, s.Bars[19].Time)
	}
	for _, b := range bands {
		if !almostEqual(b.Upper-b.Lower, 4*b.Stdev) {
			t.Fatalf("band spread %v, want %v", b.Upper-b.Lower, 4*b.Stdev)
		}
		if !almostEqual((b.Upper+b.Lower)/2, b.Mean) {
			t.Fatalf("bands not centered on mean")
		}
	}
}

func TestBandsConstantSeries(t *testing.T) {
	e := NewEngine(IndicatorConfig{Window: 5, RSIPeriod: 14, Sigmas: 2})
	closes := make([]float64, 10)
	for i := range closes {
		closes[i] = 42
	}
	for _, b := range e.Bands(seriesFrom("X", closes)) {
		if b.Stdev != 0 || b.Upper != 42 || b.Lower != 42 || b.Mean != 42 {
			t.Fatalf("constant series band %+v", b)
		}
	}
}

func TestRSIAllGains(t *testing.T) {
	e := NewEngine(IndicatorConfig{Window: 20, RSIPeriod: 14, Sigmas: 2})
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100 + 10*float64(i)
	}
	points := e.RSI(seriesFrom("X", closes))
	if len(points) != 6 {
		t.Fatalf("expected 6 points, got %d", len(points))
	}
	for _, p := range points {
		if p.Value != 100 {
			t.Fatalf("all-gain series RSI %v, want 100", p.Value)
		}
	}
}

func TestRSIConstantSeries(t *testing.T) {
	// zero deltas mean zero average loss, which saturates at 100
	e := NewEngine(IndicatorConfig{Window: 20, RSIPeriod: 14, Sigmas: 2})
	closes := make([]float64, 16)
	for i := range closes {
		closes[i] = 55
	}
	for _, p := range e.RSI(seriesFrom("X", closes)) {
		if p.Value != 100 {
			t.Fatalf("constant series RSI %v, want 100", p.Value)
		}
	}
}

func TestRSIKnownValue(t *testing.T) {
	e := NewEngine(IndicatorConfig{Window: 20, RSIPeriod: 2, Sigmas: 2})
	// deltas: +2, -1, +1
	points := e.RSI(seriesFrom("X", []float64{10, 12, 11, 12}))
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}
	// window [+2, -1]: gain 1, loss 0.5, rs 2, rsi 100-100/3
	if !almostEqual(points[0].Value, 100-100.0/3) {
		t.Fatalf("rsi[0] = %v, want %v", points[0].Value, 100-100.0/3)
	}
	// window [-1, +1]: gain 0.5, loss 0.5, rs 1, rsi 50
	if !almostEqual(points[1].Value, 50) {
		t.Fatalf("rsi[1] = %v, want 50", points[1].Value)
	}
}

func TestOverlayShortSeries(t *testing.T) {
	// 16 bars would satisfy the oscillator lookback on its own, but a
	// series below the band window produces no indicators at all.
	e := NewEngine(IndicatorConfig{Window: 20, RSIPeriod: 14, Sigmas: 2})
	closes := make([]float64, 16)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	o := e.Overlay(seriesFrom("X", closes))
	if len(o.Bands) != 0 {
		t.Fatalf("bands populated for 16 bars: %d points", len(o.Bands))
	}
	if len(o.Oscillator) != 0 {
		t.Fatalf("oscillator populated for 16 bars: %d points", len(o.Oscillator))
	}
}

func TestOverlayEmptySeries(t *testing.T) {
	e := NewEngine(IndicatorConfig{Window: 20, RSIPeriod: 14, Sigmas: 2})
	o := e.Overlay(models.Series{Symbol: "X"})
	if len(o.Bands) != 0 || len(o.Oscillator) != 0 {
		t.Fatalf("empty series produced points")
	}
	if o.Window != 20 || o.RSIPeriod != 14 {
		t.Fatalf("overlay config %+v", o)
	}
}
