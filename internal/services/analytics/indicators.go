package analytics

import (
	"MarketBoard/internal/domain/models"
)

// IndicatorConfig controls the derived-series windows.
type IndicatorConfig struct {
	Window    int     // rolling mean / band window
	RSIPeriod int     // oscillator lookback
	Sigmas    float64 // band half-width in standard deviations
}

// Engine computes technical overlays for a price series.
type Engine struct {
	cfg IndicatorConfig
}

func NewEngine(cfg IndicatorConfig) *Engine {
	if cfg.Window <= 0 {
		cfg.Window = 20
	}
	if cfg.RSIPeriod <= 0 {
		cfg.RSIPeriod = 14
	}
	if cfg.Sigmas <= 0 {
		cfg.Sigmas = 2
	}
	return &Engine{cfg: cfg}
}

// Overlay computes the band and oscillator series for s. Bars before the
// first full trailing window produce no points. A series shorter than
// Window bars yields an overlay with empty slices, never an error.
func (e *Engine) Overlay(s models.Series) models.IndicatorOverlay {
	overlay := models.IndicatorOverlay{
		Window:    e.cfg.Window,
		RSIPeriod: e.cfg.RSIPeriod,
	}
	if len(s.Bars) < e.cfg.Window {
		return overlay
	}
	overlay.Bands = e.Bands(s)
	overlay.Oscillator = e.RSI(s)
	return overlay
}

// Bands returns the rolling mean with upper/lower envelopes at
// mean ± Sigmas*stdev over the trailing Window closes. The first point is
// at index Window-1.
func (e *Engine) Bands(s models.Series) []models.BandPoint {
	w := e.cfg.Window
	if len(s.Bars) < w {
		return nil
	}
	closes := s.Closes()
	out := make([]models.BandPoint, 0, len(closes)-w+1)
	for i := w - 1; i < len(closes); i++ {
		window := closes[i-w+1 : i+1]
		mean := Mean(window)
		sd := Stdev(window)
		out = append(out, models.BandPoint{
			Time:  s.Bars[i].Time,
			Mean:  mean,
			Stdev: sd,
			Upper: mean + e.cfg.Sigmas*sd,
			Lower: mean - e.cfg.Sigmas*sd,
		})
	}
	return out
}

// RSI returns the relative strength oscillator using trailing simple
// averages of gains and losses over RSIPeriod deltas. The first point is
// at index RSIPeriod. A window with no losses saturates at 100.
func (e *Engine) RSI(s models.Series) []models.IndicatorPoint {
	p := e.cfg.RSIPeriod
	if len(s.Bars) < p+1 {
		return nil
	}
	closes := s.Closes()

	gains := make([]float64, len(closes))
	losses := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			gains[i] = d
		} else {
			losses[i] = -d
		}
	}

	out := make([]models.IndicatorPoint, 0, len(closes)-p)
	for i := p; i < len(closes); i++ {
		var gain, loss float64
		for j := i - p + 1; j <= i; j++ {
			gain += gains[j]
			loss += losses[j]
		}
		gain /= float64(p)
		loss /= float64(p)

		var value float64
		if loss == 0 {
			value = 100
		} else {
			rs := gain / loss
			value = 100 - 100/(1+rs)
		}
		out = append(out, models.IndicatorPoint{Time: s.Bars[i].Time, Value: value})
	}
	return out
}
